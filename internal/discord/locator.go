package discord

import (
	"context"

	"emperror.dev/errors"
	"github.com/bwmarrin/discordgo"

	"github.com/keshon/warden/internal/discordtypes"
)

// locator reads voice states from the gateway state cache.
type locator struct {
	dg *discordgo.Session
}

func (l *locator) UserVoiceChannel(ctx context.Context, guildID, userID string) (discordtypes.VoiceChannel, bool, error) {
	vs, err := l.dg.State.VoiceState(guildID, userID)
	if err != nil {
		if errors.Is(err, discordgo.ErrStateNotFound) {
			return discordtypes.VoiceChannel{}, false, nil
		}
		return discordtypes.VoiceChannel{}, false, errors.Wrap(err, "error retrieving voice state")
	}
	if vs.ChannelID == "" {
		return discordtypes.VoiceChannel{}, false, nil
	}

	vc := discordtypes.VoiceChannel{ID: vs.ChannelID}
	ch, err := l.dg.State.Channel(vs.ChannelID)
	if err != nil {
		ch, err = l.dg.Channel(vs.ChannelID, discordgo.WithContext(ctx))
	}
	if err == nil && ch != nil {
		vc.Name = ch.Name
	}
	return vc, true, nil
}
