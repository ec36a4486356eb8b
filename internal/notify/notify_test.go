package notify

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/keshon/warden/internal/discordtypes"
)

var (
	alice = discordtypes.Member{ID: "1", Username: "alice"}
	bob   = discordtypes.Member{ID: "2", Username: "bob"}
)

func TestKickedWithReason(t *testing.T) {
	e := Kicked(bob, alice, "spam")

	assert.Equal(t, "Member Kicked", e.Title)
	assert.Equal(t, "<@2> was kicked by <@1>", e.Description)
	assert.Equal(t, ColorRed, e.Color)
	require.Len(t, e.Fields, 1)
	assert.Equal(t, "Reason", e.Fields[0].Name)
	assert.Equal(t, "spam", e.Fields[0].Value)
}

func TestBannedWithoutReason(t *testing.T) {
	e := Banned(bob, alice, "")

	assert.Equal(t, "Member Banned", e.Title)
	assert.Equal(t, ColorDarkRed, e.Color)
	assert.Empty(t, e.Fields)
}

func TestRoleEmbeds(t *testing.T) {
	role := discordtypes.Role{ID: "9", Name: "mod"}

	added := RoleAdded(bob, role)
	assert.Equal(t, "Added <@&9> to <@2>", added.Description)
	assert.Equal(t, ColorGreen, added.Color)

	removed := RoleRemoved(bob, role)
	assert.Equal(t, "Removed <@&9> from <@2>", removed.Description)
	assert.Equal(t, ColorOrange, removed.Color)
}

func TestNicknameResetShowsDefault(t *testing.T) {
	assert.Equal(t, "Changed <@2>'s nickname to: Default", NicknameChanged(bob, "").Description)
	assert.Equal(t, "Changed <@2>'s nickname to: Bobby", NicknameChanged(bob, "Bobby").Description)
}

func TestNowPlaying(t *testing.T) {
	e := NowPlaying("Song", "https://example.com/watch", "https://example.com/t.jpg", 3*time.Minute+5*time.Second)

	assert.Equal(t, "Now Playing", e.Title)
	assert.Equal(t, "🎵 Song", e.Description)
	assert.Equal(t, ColorGreen, e.Color)
	assert.Equal(t, "https://example.com/watch", e.URL)
	require.NotNil(t, e.Thumbnail)
	assert.Equal(t, "https://example.com/t.jpg", e.Thumbnail.URL)
	require.Len(t, e.Fields, 1)
	assert.Equal(t, "3:05", e.Fields[0].Value)
}

func TestModerationLogEmpty(t *testing.T) {
	e := ModerationLog(nil)
	assert.Equal(t, "No moderation actions recorded yet.", e.Description)
}

func TestFormatDuration(t *testing.T) {
	assert.Equal(t, "0:59", formatDuration(59*time.Second))
	assert.Equal(t, "1:01:01", formatDuration(time.Hour+time.Minute+time.Second))
}
