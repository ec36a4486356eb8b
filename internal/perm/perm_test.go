package perm

import (
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
)

func TestHas(t *testing.T) {
	tests := []struct {
		name  string
		perms int64
		cap   string
		want  bool
	}{
		{"granted", discordgo.PermissionKickMembers, "kick_members", true},
		{"missing", discordgo.PermissionKickMembers, "ban_members", false},
		{"combined", discordgo.PermissionKickMembers | discordgo.PermissionManageRoles, "manage_roles", true},
		{"administrator implies all", discordgo.PermissionAdministrator, "manage_nicknames", true},
		{"unknown name", discordgo.PermissionAdministrator, "launch_rockets", false},
		{"empty set", 0, "kick_members", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Has(tt.perms, tt.cap))
		})
	}
}

func TestOutranksGrid(t *testing.T) {
	for actor := 0; actor <= 6; actor++ {
		for target := 0; target <= 6; target++ {
			assert.Equal(t, actor > target, Outranks(actor, target), "actor=%d target=%d", actor, target)
		}
	}
}

func TestKnown(t *testing.T) {
	assert.True(t, Known("kick_members"))
	assert.True(t, Known("administrator"))
	assert.False(t, Known("Kick Members"))
	assert.False(t, Known(""))
}
