package discord

import (
	"context"
	"net/http"

	"emperror.dev/errors"
	"github.com/bwmarrin/discordgo"

	"github.com/keshon/warden/internal/discordtypes"
)

// banDeleteMessageDays matches the platform client default of removing the
// banned member's last day of messages.
const banDeleteMessageDays = 1

type moderator struct {
	dg *discordgo.Session
}

func (m *moderator) Kick(ctx context.Context, guildID, userID, reason string) error {
	return classify(m.dg.GuildMemberDeleteWithReason(guildID, userID, reason, discordgo.WithContext(ctx)))
}

func (m *moderator) Ban(ctx context.Context, guildID, userID, reason string) error {
	return classify(m.dg.GuildBanCreateWithReason(guildID, userID, reason, banDeleteMessageDays, discordgo.WithContext(ctx)))
}

func (m *moderator) AddRole(ctx context.Context, guildID, userID, roleID string) error {
	return classify(m.dg.GuildMemberRoleAdd(guildID, userID, roleID, discordgo.WithContext(ctx)))
}

func (m *moderator) RemoveRole(ctx context.Context, guildID, userID, roleID string) error {
	return classify(m.dg.GuildMemberRoleRemove(guildID, userID, roleID, discordgo.WithContext(ctx)))
}

func (m *moderator) SetNickname(ctx context.Context, guildID, userID, nick string) error {
	return classify(m.dg.GuildMemberNickname(guildID, userID, nick, discordgo.WithContext(ctx)))
}

// classify maps REST status codes onto the platform error kinds, keeping
// Discord's message.
func classify(err error) error {
	if err == nil {
		return nil
	}
	var rest *discordgo.RESTError
	if errors.As(err, &rest) && rest.Response != nil {
		switch rest.Response.StatusCode {
		case http.StatusForbidden:
			return errors.Wrap(discordtypes.ErrForbidden, rest.Error())
		case http.StatusNotFound:
			return errors.Wrap(discordtypes.ErrNotFound, rest.Error())
		}
	}
	return errors.WithStack(err)
}
