// Package moderation implements the member management commands: kick, ban,
// role grants and nickname changes, plus a view over past actions.
package moderation

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/keshon/warden/internal/discordtypes"
	"github.com/keshon/warden/internal/storage"
)

// Moderator performs guild mutations. Implementations return an error
// wrapping discordtypes.ErrForbidden when the platform refuses the action.
type Moderator interface {
	Kick(ctx context.Context, guildID, userID, reason string) error
	Ban(ctx context.Context, guildID, userID, reason string) error
	AddRole(ctx context.Context, guildID, userID, roleID string) error
	RemoveRole(ctx context.Context, guildID, userID, roleID string) error
	// SetNickname resets the nickname when nick is empty.
	SetNickname(ctx context.Context, guildID, userID, nick string) error
}

// Directory resolves a mention, ID or name to a guild member or role.
// Unknown references yield an error wrapping discordtypes.ErrNotFound.
type Directory interface {
	Member(ctx context.Context, guildID, ref string) (discordtypes.Member, error)
	Role(ctx context.Context, guildID, ref string) (discordtypes.Role, error)
}

type AuditLog interface {
	AppendAudit(guildID string, entry storage.AuditEntry) error
	FetchAudit(guildID string, limit int) ([]storage.AuditEntry, error)
}

type Module struct {
	mod   Moderator
	dir   Directory
	audit AuditLog
	log   zerolog.Logger
	now   func() time.Time
}

// New wires the handlers. audit may be nil, in which case nothing is
// recorded and modlog stays empty.
func New(mod Moderator, dir Directory, audit AuditLog, log zerolog.Logger) *Module {
	return &Module{
		mod:   mod,
		dir:   dir,
		audit: audit,
		log:   log,
		now:   time.Now,
	}
}
