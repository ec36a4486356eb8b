package command

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/keshon/warden/internal/perm"
	"github.com/keshon/warden/internal/storage"
	"github.com/keshon/warden/pkg/cmd"
)

// WithGuildOnly drops invocations that did not come from a guild channel.
func WithGuildOnly() cmd.Middleware {
	return func(next cmd.Command) cmd.Command {
		return cmd.Wrap(next, func(ctx context.Context, inv *cmd.Invocation) error {
			c, err := contextOf(inv)
			if err != nil {
				return err
			}
			if c.GuildID == "" {
				return nil
			}
			return next.Run(ctx, inv)
		})
	}
}

// WithPermission rejects authors whose guild permissions lack the route's
// capability. Administrators pass every gate.
func WithPermission() cmd.Middleware {
	return func(next cmd.Command) cmd.Command {
		route, _ := RouteOf(next)
		return cmd.Wrap(next, func(ctx context.Context, inv *cmd.Invocation) error {
			if route.Permission == "" {
				return next.Run(ctx, inv)
			}
			c, err := contextOf(inv)
			if err != nil {
				return err
			}
			if !perm.Has(c.Author.Permissions, route.Permission) {
				return &MissingPermissionError{Missing: []string{route.Permission}}
			}
			return next.Run(ctx, inv)
		})
	}
}

// WithCooldown applies the route's per-user cooldown.
func WithCooldown(cd *Cooldowns) cmd.Middleware {
	return func(next cmd.Command) cmd.Command {
		route, _ := RouteOf(next)
		return cmd.Wrap(next, func(ctx context.Context, inv *cmd.Invocation) error {
			if route.Cooldown <= 0 {
				return next.Run(ctx, inv)
			}
			c, err := contextOf(inv)
			if err != nil {
				return err
			}
			if err := cd.Check(route.Name, c.Author.ID, route.Cooldown); err != nil {
				return err
			}
			return next.Run(ctx, inv)
		})
	}
}

// HistoryStore receives one record per executed command.
type HistoryStore interface {
	AppendCommandToHistory(guildID string, rec storage.CommandHistoryRecord) error
}

// WithCommandLog runs the command and then records it. Failing to record
// never fails the command.
func WithCommandLog(store HistoryStore, log zerolog.Logger) cmd.Middleware {
	return func(next cmd.Command) cmd.Command {
		return cmd.Wrap(next, func(ctx context.Context, inv *cmd.Invocation) error {
			err := next.Run(ctx, inv)

			c, cerr := contextOf(inv)
			if cerr != nil || store == nil {
				return err
			}
			rec := storage.CommandHistoryRecord{
				ChannelID: c.ChannelID,
				UserID:    c.Author.ID,
				Username:  c.Author.Username,
				Command:   next.Name(),
				Param:     strings.Join(inv.Args, " "),
				Datetime:  time.Now(),
			}
			if e := store.AppendCommandToHistory(c.GuildID, rec); e != nil {
				log.Warn().Err(e).Msgf("Failed to log command %s", next.Name())
			}
			return err
		})
	}
}
