package moderation

import (
	"time"

	"github.com/keshon/warden/internal/command"
)

func (m *Module) Routes() []command.Route {
	return []command.Route{
		{
			Name:       "kick",
			Usage:      "kick <member> [reason]",
			Brief:      "Kick a member from the server",
			Help:       "Kicks the specified member from the server. Requires kick permissions.",
			Permission: "kick_members",
			Cooldown:   5 * time.Second,
			Handler:    m.kick,
		},
		{
			Name:       "ban",
			Usage:      "ban <member> [reason]",
			Brief:      "Ban a member from the server",
			Help:       "Bans the specified member from the server. Requires ban permissions.",
			Permission: "ban_members",
			Cooldown:   5 * time.Second,
			Handler:    m.ban,
		},
		{
			Name:       "addrole",
			Usage:      "addrole <member> <role>",
			Brief:      "Add a role to a member",
			Help:       "Adds the specified role to the specified member. Requires manage roles permission.",
			Permission: "manage_roles",
			Cooldown:   3 * time.Second,
			Handler:    m.addRole,
		},
		{
			Name:       "removerole",
			Usage:      "removerole <member> <role>",
			Brief:      "Remove a role from a member",
			Help:       "Removes the specified role from the specified member. Requires manage roles permission.",
			Permission: "manage_roles",
			Cooldown:   3 * time.Second,
			Handler:    m.removeRole,
		},
		{
			Name:       "nickname",
			Usage:      "nickname <member> [new_nickname]",
			Brief:      "Change a member's nickname",
			Help:       "Changes the specified member's nickname. Requires manage nicknames permission.",
			Permission: "manage_nicknames",
			Cooldown:   3 * time.Second,
			Handler:    m.nickname,
		},
		{
			Name:       "modlog",
			Usage:      "modlog",
			Brief:      "Show recent moderation actions",
			Help:       "Shows the last moderation actions taken through the bot in this server. Requires view audit log permission.",
			Permission: "view_audit_log",
			Cooldown:   3 * time.Second,
			Handler:    m.modlog,
		},
	}
}
