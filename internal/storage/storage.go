// /internal/storage/storage.go
package storage

import (
	"context"
	"sync"
	"time"

	"emperror.dev/errors"
	"github.com/keshon/datastore"
)

const (
	commandHistoryLimit int = 20
	auditLogLimit       int = 50
)

type Storage struct {
	mu     sync.Mutex
	ds     *datastore.DataStore
	cancel context.CancelFunc
}

type CommandHistoryRecord struct {
	ChannelID string    `json:"channel_id"`
	UserID    string    `json:"user_id"`
	Username  string    `json:"username"`
	Command   string    `json:"command"`
	Param     string    `json:"param"`
	Datetime  time.Time `json:"datetime"`
}

// AuditEntry is one completed moderation action.
type AuditEntry struct {
	Action    string    `json:"action"`
	ActorID   string    `json:"actor_id"`
	ActorName string    `json:"actor_name"`
	TargetID  string    `json:"target_id"`
	Target    string    `json:"target"`
	Detail    string    `json:"detail"`
	Datetime  time.Time `json:"datetime"`
}

type Record struct {
	CommandsHistoryList []CommandHistoryRecord `json:"cmd_history"`
	ModerationAudit     []AuditEntry           `json:"moderation_audit"`
}

// New opens the datastore file. Periodic saves stop when ctx is done or on
// Close, whichever comes first.
func New(ctx context.Context, filePath string) (*Storage, error) {
	ctx, cancel := context.WithCancel(ctx)
	ds, err := datastore.New(ctx, filePath)
	if err != nil {
		cancel()
		return nil, errors.Wrap(err, "open datastore")
	}
	return &Storage{ds: ds, cancel: cancel}, nil
}

// Close flushes the datastore to disk.
func (s *Storage) Close() error {
	s.cancel()
	return errors.WrapIf(s.ds.Close(), "close datastore")
}

func (s *Storage) getOrCreateGuildRecord(guildID string) (*Record, error) {
	var record Record
	exists, err := s.ds.Get(guildID, &record)
	if err != nil {
		return nil, errors.Wrap(err, "error decoding guild record")
	}
	if !exists {
		return &Record{
			CommandsHistoryList: []CommandHistoryRecord{},
			ModerationAudit:     []AuditEntry{},
		}, nil
	}

	record.CommandsHistoryList = tail(record.CommandsHistoryList, commandHistoryLimit)
	record.ModerationAudit = tail(record.ModerationAudit, auditLogLimit)

	return &record, nil
}

func (s *Storage) putGuildRecord(guildID string, record *Record) error {
	return errors.WrapIf(s.ds.Set(guildID, record), "error saving guild record")
}

// AppendCommandToHistory appends a command history record for a guild
func (s *Storage) AppendCommandToHistory(guildID string, command CommandHistoryRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, err := s.getOrCreateGuildRecord(guildID)
	if err != nil {
		return err
	}

	record.CommandsHistoryList = tail(append(record.CommandsHistoryList, command), commandHistoryLimit)
	return s.putGuildRecord(guildID, record)
}

func (s *Storage) FetchCommandHistory(guildID string) ([]CommandHistoryRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, err := s.getOrCreateGuildRecord(guildID)
	if err != nil {
		return nil, err
	}
	return record.CommandsHistoryList, nil
}

// AppendAudit records a moderation action, keeping the newest entries only.
func (s *Storage) AppendAudit(guildID string, entry AuditEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, err := s.getOrCreateGuildRecord(guildID)
	if err != nil {
		return err
	}

	record.ModerationAudit = tail(append(record.ModerationAudit, entry), auditLogLimit)
	return s.putGuildRecord(guildID, record)
}

// FetchAudit returns up to limit of the most recent entries, oldest first.
// A limit of zero or less returns everything kept.
func (s *Storage) FetchAudit(guildID string, limit int) ([]AuditEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, err := s.getOrCreateGuildRecord(guildID)
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		return record.ModerationAudit, nil
	}
	return tail(record.ModerationAudit, limit), nil
}

func tail[T any](list []T, n int) []T {
	if len(list) > n {
		return list[len(list)-n:]
	}
	return list
}
