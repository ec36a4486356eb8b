package discord

import (
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/keshon/warden/internal/command"
)

// onReady is called when the bot is ready
func (b *Bot) onReady(s *discordgo.Session, r *discordgo.Ready) {
	b.log.Info().Msgf("%s has connected to Discord!", r.User.String())
	b.log.Info().Msgf("Loaded %d commands in %d guilds", len(b.router.Routes()), len(r.Guilds))
}

// onMessageCreate is called when a message is created
func (b *Bot) onMessageCreate(s *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Author == nil || m.Author.Bot {
		return
	}
	if !strings.HasPrefix(m.Content, b.router.Prefix()) {
		return
	}

	ctx := b.runContext()
	c := &command.Context{
		GuildID:   m.GuildID,
		ChannelID: m.ChannelID,
		MessageID: m.ID,
		Reply:     &channelReplier{dg: s, channelID: m.ChannelID},
	}

	if m.GuildID != "" {
		member := m.Member
		if member == nil {
			member = &discordgo.Member{User: m.Author}
		} else if member.User == nil {
			cp := *member
			cp.User = m.Author
			member = &cp
		}
		guild, err := b.dir.guild(ctx, m.GuildID)
		if err != nil {
			b.log.Error().Err(err).Str("guild", m.GuildID).Msg("Failed to load guild for command author")
			return
		}
		c.Author = memberSnapshot(guild, member)
	} else {
		c.Author = userSnapshot(m.Author)
	}

	b.router.Dispatch(ctx, c, m.Content)
}

// onVoiceStateUpdate forgets the guild's session once the bot itself has
// left voice, whoever caused it.
func (b *Bot) onVoiceStateUpdate(s *discordgo.Session, v *discordgo.VoiceStateUpdate) {
	if s.State == nil || s.State.User == nil || v.UserID != s.State.User.ID {
		return
	}
	if v.ChannelID == "" {
		b.music.Forget(v.GuildID)
	}
}
