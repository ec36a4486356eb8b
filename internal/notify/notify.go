// Package notify builds the embeds the bot answers with and defines where
// replies go.
package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/bwmarrin/discordgo"
	embed "github.com/clinet/discordgo-embed"

	"github.com/keshon/warden/internal/discordtypes"
)

const (
	ColorRed     = 0xe74c3c
	ColorDarkRed = 0x992d22
	ColorGreen   = 0x2ecc71
	ColorOrange  = 0xe67e22
	ColorBlue    = 0x3498db
)

// Replier sends feedback to the channel a command was invoked from.
type Replier interface {
	Send(ctx context.Context, content string) error
	SendEmbed(ctx context.Context, e *discordgo.MessageEmbed) error
}

func Kicked(target, actor discordtypes.Member, reason string) *discordgo.MessageEmbed {
	return withReason(embed.NewEmbed().
		SetTitle("Member Kicked").
		SetDescription(fmt.Sprintf("%s was kicked by %s", target.Mention(), actor.Mention())).
		SetColor(ColorRed), reason).MessageEmbed
}

func Banned(target, actor discordtypes.Member, reason string) *discordgo.MessageEmbed {
	return withReason(embed.NewEmbed().
		SetTitle("Member Banned").
		SetDescription(fmt.Sprintf("%s was banned by %s", target.Mention(), actor.Mention())).
		SetColor(ColorDarkRed), reason).MessageEmbed
}

func RoleAdded(target discordtypes.Member, role discordtypes.Role) *discordgo.MessageEmbed {
	return embed.NewEmbed().
		SetTitle("Role Added").
		SetDescription(fmt.Sprintf("Added %s to %s", role.Mention(), target.Mention())).
		SetColor(ColorGreen).MessageEmbed
}

func RoleRemoved(target discordtypes.Member, role discordtypes.Role) *discordgo.MessageEmbed {
	return embed.NewEmbed().
		SetTitle("Role Removed").
		SetDescription(fmt.Sprintf("Removed %s from %s", role.Mention(), target.Mention())).
		SetColor(ColorOrange).MessageEmbed
}

// NicknameChanged shows "Default" when the nickname was reset.
func NicknameChanged(target discordtypes.Member, nickname string) *discordgo.MessageEmbed {
	if nickname == "" {
		nickname = "Default"
	}
	return embed.NewEmbed().
		SetTitle("Nickname Changed").
		SetDescription(fmt.Sprintf("Changed %s's nickname to: %s", target.Mention(), nickname)).
		SetColor(ColorBlue).MessageEmbed
}

// NowPlaying announces a track. Thumbnail and link are optional.
func NowPlaying(title, pageURL, thumbnail string, duration time.Duration) *discordgo.MessageEmbed {
	e := embed.NewEmbed().
		SetTitle("Now Playing").
		SetDescription("🎵 " + title).
		SetColor(ColorGreen)
	if pageURL != "" {
		e.SetURL(pageURL)
	}
	if thumbnail != "" {
		e.SetThumbnail(thumbnail)
	}
	if duration > 0 {
		e.AddField("Duration", formatDuration(duration))
		e.InlineAllFields()
	}
	return e.MessageEmbed
}

// AuditLine is one row of the moderation log embed.
type AuditLine struct {
	When   time.Time
	Action string
	Actor  string
	Target string
	Detail string
}

func ModerationLog(lines []AuditLine) *discordgo.MessageEmbed {
	e := embed.NewEmbed().
		SetTitle("Moderation Log").
		SetColor(ColorBlue)
	if len(lines) == 0 {
		e.SetDescription("No moderation actions recorded yet.")
		return e.MessageEmbed
	}
	for _, l := range lines {
		value := fmt.Sprintf("%s → %s", l.Actor, l.Target)
		if l.Detail != "" {
			value += "\n" + l.Detail
		}
		e.AddField(fmt.Sprintf("%s · %s", l.Action, l.When.UTC().Format("2006-01-02 15:04")), value)
	}
	return e.MessageEmbed
}

// HelpEntry describes one command for the help embed.
type HelpEntry struct {
	Usage string
	Brief string
}

func Help(prefix string, entries []HelpEntry) *discordgo.MessageEmbed {
	e := embed.NewEmbed().
		SetTitle("Commands").
		SetColor(ColorBlue).
		SetDescription(fmt.Sprintf("Type `%shelp <command>` for more info on a command.", prefix))
	for _, h := range entries {
		e.AddField(prefix+h.Usage, h.Brief)
	}
	return e.MessageEmbed
}

func CommandHelp(prefix, usage, help string) *discordgo.MessageEmbed {
	return embed.NewEmbed().
		SetTitle(prefix + usage).
		SetDescription(help).
		SetColor(ColorBlue).MessageEmbed
}

func withReason(e *embed.Embed, reason string) *embed.Embed {
	if reason != "" {
		e.AddField("Reason", reason)
	}
	return e
}

func formatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	h := int(d / time.Hour)
	m := int(d%time.Hour) / int(time.Minute)
	s := int(d%time.Minute) / int(time.Second)
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}
