// /discordtypes/discordtypes.go
package discordtypes

import "emperror.dev/errors"

// ErrForbidden is returned by platform adapters when Discord refuses an
// action because the bot lacks the permission or role position for it.
var ErrForbidden = errors.New("forbidden")

// ErrNotFound is returned when a member, role or channel reference does not
// resolve to anything in the guild.
var ErrNotFound = errors.New("not found")

// Member is a point-in-time view of a guild member. TopRank is the position
// of the member's highest role; the guild owner gets a rank above every role.
type Member struct {
	ID          string
	Username    string
	Nick        string
	TopRank     int
	Permissions int64
	Bot         bool
}

func (m Member) Mention() string {
	return "<@" + m.ID + ">"
}

type Role struct {
	ID   string
	Name string
	Rank int
}

func (r Role) Mention() string {
	return "<@&" + r.ID + ">"
}

type VoiceChannel struct {
	ID   string
	Name string
}
