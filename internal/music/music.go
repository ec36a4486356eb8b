// Package music implements the voice commands: join, play and leave.
package music

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/keshon/warden/internal/discordtypes"
	"github.com/keshon/warden/internal/music/media"
	"github.com/keshon/warden/internal/music/voice"
	"github.com/keshon/warden/pkg/jobmgr"
)

// VoiceLocator finds the voice channel a member is currently in.
type VoiceLocator interface {
	UserVoiceChannel(ctx context.Context, guildID, userID string) (discordtypes.VoiceChannel, bool, error)
}

type Module struct {
	store    *voice.Store
	locator  VoiceLocator
	resolver media.Resolver
	jobs     *jobmgr.Manager
	log      zerolog.Logger
}

func New(store *voice.Store, locator VoiceLocator, resolver media.Resolver, jobs *jobmgr.Manager, log zerolog.Logger) *Module {
	return &Module{
		store:    store,
		locator:  locator,
		resolver: resolver,
		jobs:     jobs,
		log:      log,
	}
}

func resolveJob(guildID string) string {
	return "resolve:" + guildID
}
