package storage

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStorage(t *testing.T) *Storage {
	t.Helper()
	s, err := New(context.Background(), filepath.Join(t.TempDir(), "datastore.json"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestCommandHistoryIsCapped(t *testing.T) {
	s := newTestStorage(t)

	for i := 0; i < commandHistoryLimit+5; i++ {
		require.NoError(t, s.AppendCommandToHistory("g1", CommandHistoryRecord{
			Command:  fmt.Sprintf("cmd%d", i),
			Datetime: time.Now(),
		}))
	}

	history, err := s.FetchCommandHistory("g1")
	require.NoError(t, err)
	require.Len(t, history, commandHistoryLimit)
	assert.Equal(t, "cmd5", history[0].Command)
	assert.Equal(t, fmt.Sprintf("cmd%d", commandHistoryLimit+4), history[len(history)-1].Command)
}

func TestAuditIsPerGuild(t *testing.T) {
	s := newTestStorage(t)

	require.NoError(t, s.AppendAudit("g1", AuditEntry{Action: "kick", Target: "bob"}))
	require.NoError(t, s.AppendAudit("g1", AuditEntry{Action: "ban", Target: "eve"}))
	require.NoError(t, s.AppendAudit("g2", AuditEntry{Action: "addrole", Target: "amy"}))

	g1, err := s.FetchAudit("g1", 0)
	require.NoError(t, err)
	require.Len(t, g1, 2)
	assert.Equal(t, "kick", g1[0].Action)
	assert.Equal(t, "ban", g1[1].Action)

	last, err := s.FetchAudit("g1", 1)
	require.NoError(t, err)
	require.Len(t, last, 1)
	assert.Equal(t, "eve", last[0].Target)

	empty, err := s.FetchAudit("g3", 10)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestAuditIsCapped(t *testing.T) {
	s := newTestStorage(t)

	for i := 0; i < auditLogLimit+3; i++ {
		require.NoError(t, s.AppendAudit("g1", AuditEntry{Action: "kick", Detail: fmt.Sprint(i)}))
	}

	entries, err := s.FetchAudit("g1", 0)
	require.NoError(t, err)
	require.Len(t, entries, auditLogLimit)
	assert.Equal(t, "3", entries[0].Detail)
}

func TestRecordsSurviveReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "datastore.json")

	s, err := New(context.Background(), path)
	require.NoError(t, err)
	require.NoError(t, s.AppendCommandToHistory("g1", CommandHistoryRecord{Command: "kick", Username: "mod"}))
	require.NoError(t, s.AppendAudit("g1", AuditEntry{Action: "kick", Target: "bob"}))
	require.NoError(t, s.Close())

	reopened, err := New(context.Background(), path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = reopened.Close() })

	history, err := reopened.FetchCommandHistory("g1")
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, "mod", history[0].Username)

	audit, err := reopened.FetchAudit("g1", 0)
	require.NoError(t, err)
	require.Len(t, audit, 1)
	assert.Equal(t, "bob", audit[0].Target)
}

func TestCloseAfterContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	s, err := New(ctx, filepath.Join(t.TempDir(), "datastore.json"))
	require.NoError(t, err)

	cancel()
	assert.NoError(t, s.Close())
}
