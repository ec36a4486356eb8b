package command

import (
	"github.com/keshon/warden/internal/discordtypes"
	"github.com/keshon/warden/internal/notify"
)

// Context is what a handler gets for one invocation: where it came from,
// who sent it, its arguments and where to answer.
type Context struct {
	GuildID   string
	ChannelID string
	MessageID string
	Author    discordtypes.Member
	Prefix    string
	Args      *ArgReader
	Reply     notify.Replier
}
