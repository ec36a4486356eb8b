package music

import (
	"context"

	"emperror.dev/errors"

	"github.com/keshon/warden/internal/command"
	"github.com/keshon/warden/internal/music/media"
	"github.com/keshon/warden/internal/notify"
	"github.com/keshon/warden/pkg/jobmgr"
)

func (m *Module) Routes() []command.Route {
	return []command.Route{
		{
			Name:    "join",
			Usage:   "join",
			Brief:   "Join a voice channel",
			Help:    "Joins the voice channel you are currently in.",
			Handler: m.join,
		},
		{
			Name:    "play",
			Usage:   "play <url_or_query>",
			Brief:   "Play audio from URL",
			Help:    "Plays audio from a given URL (YouTube, etc.) or the first search result for a query.",
			Handler: m.play,
		},
		{
			Name:    "leave",
			Usage:   "leave",
			Brief:   "Leave voice channel",
			Help:    "Disconnects the bot from the current voice channel.",
			Handler: m.leave,
		},
	}
}

func (m *Module) join(ctx context.Context, c *command.Context) error {
	channel, ok, err := m.locator.UserVoiceChannel(ctx, c.GuildID, c.Author.ID)
	if err != nil {
		return errors.WrapIf(err, "locate author voice state")
	}
	if !ok {
		return c.Reply.Send(ctx, "You need to be in a voice channel first!")
	}

	_, moved, err := m.store.Join(ctx, c.GuildID, channel.ID)
	if err != nil {
		m.log.Error().Msgf("Error joining voice channel: %v", err)
		return c.Reply.Send(ctx, "Couldn't join the voice channel.")
	}
	if !moved {
		m.log.Info().Msgf("Joined voice channel: %s", channel.Name)
	}
	return nil
}

func (m *Module) play(ctx context.Context, c *command.Context) error {
	query := c.Args.Rest()
	if query == "" {
		return &command.ArgumentError{Param: "url", Reason: "is a required argument that is missing"}
	}

	if _, ok := m.store.Get(c.GuildID); !ok {
		if err := m.join(ctx, c); err != nil {
			return err
		}
	}
	if _, ok := m.store.Get(c.GuildID); !ok {
		return nil
	}

	var track *media.Track
	err := m.jobs.Await(ctx, resolveJob(c.GuildID), func(jctx context.Context) error {
		t, err := m.resolver.Resolve(jctx, query)
		track = t
		return err
	})
	if err != nil {
		if errors.Is(err, context.Canceled) && ctx.Err() == nil {
			// a newer play or a leave took over
			m.log.Debug().Str("guild", c.GuildID).Msg("Resolution cancelled")
			return nil
		}
		return m.playFailed(ctx, c, err)
	}

	sess, ok := m.store.Get(c.GuildID)
	if !ok {
		return nil
	}
	if sess.Playing() {
		m.log.Info().Msgf("Stopping current audio: %s", sess.NowPlaying())
	}
	if err := sess.Play(track.Title, track.StreamURL); err != nil {
		return m.playFailed(ctx, c, err)
	}

	m.log.Info().Msgf("Playing audio: %s", track.Title)
	return c.Reply.SendEmbed(ctx, notify.NowPlaying(track.Title, track.PageURL, track.Thumbnail, track.Duration))
}

func (m *Module) playFailed(ctx context.Context, c *command.Context, err error) error {
	m.log.Error().Msgf("Error playing audio: %v", err)
	return c.Reply.Send(ctx, "An error occurred while trying to play the audio.")
}

func (m *Module) leave(ctx context.Context, c *command.Context) error {
	if err := m.jobs.Stop(resolveJob(c.GuildID)); err != nil && !errors.Is(err, jobmgr.ErrNotRunning) {
		return err
	}

	left, err := m.store.Leave(ctx, c.GuildID)
	if !left {
		return c.Reply.Send(ctx, "I'm not in a voice channel!")
	}
	if err != nil {
		return err
	}

	m.log.Info().Msg("Left voice channel")
	return c.Reply.Send(ctx, "👋 Left the voice channel!")
}

// Forget drops the guild's session after the platform disconnected the bot.
func (m *Module) Forget(guildID string) {
	_ = m.jobs.Stop(resolveJob(guildID))
	if m.store.Forget(guildID) {
		m.log.Info().Str("guild", guildID).Msg("Voice connection closed externally")
	}
}

// Shutdown disconnects every session.
func (m *Module) Shutdown(ctx context.Context) error {
	if pending := m.jobs.List(); len(pending) > 0 {
		m.log.Info().Strs("jobs", pending).Msg("Cancelling pending resolutions")
	}
	m.jobs.StopAll()
	return m.store.DisconnectAll(ctx)
}
