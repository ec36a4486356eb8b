package discord

import (
	"context"

	"emperror.dev/errors"
	"github.com/bwmarrin/discordgo"
)

// channelReplier answers in the channel a command came from.
type channelReplier struct {
	dg        *discordgo.Session
	channelID string
}

func (r *channelReplier) Send(ctx context.Context, content string) error {
	_, err := r.dg.ChannelMessageSend(r.channelID, content, discordgo.WithContext(ctx))
	return errors.WrapIf(err, "send message")
}

func (r *channelReplier) SendEmbed(ctx context.Context, e *discordgo.MessageEmbed) error {
	_, err := r.dg.ChannelMessageSendEmbed(r.channelID, e, discordgo.WithContext(ctx))
	return errors.WrapIf(err, "send embed")
}
