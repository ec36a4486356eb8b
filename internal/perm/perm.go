// Package perm answers whether a permission set grants a named capability
// and whether one role position outranks another.
package perm

import (
	"github.com/bwmarrin/discordgo"
)

// Capability names use the snake_case form command routes declare.
var capabilities = map[string]int64{
	"create_instant_invite": discordgo.PermissionCreateInstantInvite,
	"kick_members":          discordgo.PermissionKickMembers,
	"ban_members":           discordgo.PermissionBanMembers,
	"administrator":         discordgo.PermissionAdministrator,
	"manage_channels":       discordgo.PermissionManageChannels,
	"manage_guild":          discordgo.PermissionManageGuild,
	"add_reactions":         discordgo.PermissionAddReactions,
	"view_audit_log":        discordgo.PermissionViewAuditLogs,
	"priority_speaker":      discordgo.PermissionVoicePrioritySpeaker,
	"stream":                discordgo.PermissionVoiceStreamVideo,
	"view_channel":          discordgo.PermissionViewChannel,
	"send_messages":         discordgo.PermissionSendMessages,
	"manage_messages":       discordgo.PermissionManageMessages,
	"embed_links":           discordgo.PermissionEmbedLinks,
	"attach_files":          discordgo.PermissionAttachFiles,
	"read_message_history":  discordgo.PermissionReadMessageHistory,
	"mention_everyone":      discordgo.PermissionMentionEveryone,
	"use_external_emojis":   discordgo.PermissionUseExternalEmojis,
	"view_guild_insights":   discordgo.PermissionViewGuildInsights,
	"connect":               discordgo.PermissionVoiceConnect,
	"speak":                 discordgo.PermissionVoiceSpeak,
	"mute_members":          discordgo.PermissionVoiceMuteMembers,
	"deafen_members":        discordgo.PermissionVoiceDeafenMembers,
	"move_members":          discordgo.PermissionVoiceMoveMembers,
	"use_voice_activation":  discordgo.PermissionVoiceUseVAD,
	"change_nickname":       discordgo.PermissionChangeNickname,
	"manage_nicknames":      discordgo.PermissionManageNicknames,
	"manage_roles":          discordgo.PermissionManageRoles,
	"manage_webhooks":       discordgo.PermissionManageWebhooks,
	"manage_events":         discordgo.PermissionManageEvents,
	"manage_threads":        discordgo.PermissionManageThreads,
	"moderate_members":      discordgo.PermissionModerateMembers,
}

// Has reports whether perms grants the named capability. Unknown names are
// never granted; administrator grants everything known.
func Has(perms int64, name string) bool {
	bit, ok := capabilities[name]
	if !ok {
		return false
	}
	if perms&discordgo.PermissionAdministrator != 0 {
		return true
	}
	return perms&bit == bit
}

// Known reports whether name is a capability Has can grant.
func Known(name string) bool {
	_, ok := capabilities[name]
	return ok
}

// Outranks is the role hierarchy rule: strictly higher wins, ties lose.
func Outranks(actor, target int) bool {
	return actor > target
}
