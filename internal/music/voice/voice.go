// Package voice keeps at most one voice session per guild and tracks what
// each session is playing.
package voice

import (
	"context"
	"io"
	"sync"

	"emperror.dev/errors"
	"github.com/rs/zerolog"
)

// Conn is a live voice connection in one guild.
type Conn interface {
	ChannelID() string
	Move(ctx context.Context, channelID string) error
	// Play starts streaming and returns once the stream is running. onDone
	// is called exactly once when the stream ends, with nil on a clean end.
	Play(streamURL string, onDone func(error)) error
	// Stop ends the current stream, if any. onDone still fires.
	Stop()
	Disconnect(ctx context.Context) error
}

// Output opens voice connections.
type Output interface {
	Connect(ctx context.Context, guildID, channelID string) (Conn, error)
}

// Store holds the voice sessions. mu guards the maps only; connecting and
// leaving take the guild's own lock so a slow voice handshake in one guild
// never holds up another.
type Store struct {
	mu       sync.Mutex
	out      Output
	sessions map[string]*Session
	guilds   map[string]*sync.Mutex
	log      zerolog.Logger
}

func NewStore(out Output, log zerolog.Logger) *Store {
	return &Store{
		out:      out,
		sessions: make(map[string]*Session),
		guilds:   make(map[string]*sync.Mutex),
		log:      log,
	}
}

func (s *Store) Get(guildID string) (*Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[guildID]
	return sess, ok
}

func (s *Store) guildLock(guildID string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.guilds[guildID]
	if !ok {
		l = &sync.Mutex{}
		s.guilds[guildID] = l
	}
	return l
}

// Join moves the guild's session to channelID, or connects a new one.
// moved reports which of the two happened.
func (s *Store) Join(ctx context.Context, guildID, channelID string) (sess *Session, moved bool, err error) {
	l := s.guildLock(guildID)
	l.Lock()
	defer l.Unlock()

	if sess, ok := s.Get(guildID); ok {
		if sess.conn.ChannelID() == channelID {
			return sess, true, nil
		}
		if err := sess.conn.Move(ctx, channelID); err != nil {
			return nil, true, errors.WrapIf(err, "move voice connection")
		}
		return sess, true, nil
	}

	conn, err := s.out.Connect(ctx, guildID, channelID)
	if err != nil {
		return nil, false, errors.WrapIf(err, "connect voice")
	}
	sess = &Session{guildID: guildID, conn: conn, log: s.log}

	s.mu.Lock()
	s.sessions[guildID] = sess
	s.mu.Unlock()
	return sess, false, nil
}

// Leave stops playback and disconnects. It reports false when the guild had
// no session. A join still connecting in the guild finishes first.
func (s *Store) Leave(ctx context.Context, guildID string) (bool, error) {
	l := s.guildLock(guildID)
	l.Lock()
	defer l.Unlock()

	s.mu.Lock()
	sess, ok := s.sessions[guildID]
	delete(s.sessions, guildID)
	s.mu.Unlock()

	if !ok {
		return false, nil
	}
	sess.Stop()
	return true, errors.WrapIf(sess.conn.Disconnect(ctx), "disconnect voice")
}

// Forget drops the session of a connection the platform already closed.
func (s *Store) Forget(guildID string) bool {
	s.mu.Lock()
	sess, ok := s.sessions[guildID]
	delete(s.sessions, guildID)
	s.mu.Unlock()

	if ok {
		sess.Stop()
	}
	return ok
}

// DisconnectAll leaves every guild. Used on shutdown.
func (s *Store) DisconnectAll(ctx context.Context) error {
	s.mu.Lock()
	guilds := make([]string, 0, len(s.sessions))
	for id := range s.sessions {
		guilds = append(guilds, id)
	}
	s.mu.Unlock()

	var errs []error
	for _, id := range guilds {
		if _, err := s.Leave(ctx, id); err != nil {
			errs = append(errs, errors.WithDetails(err, "guild", id))
		}
	}
	return errors.Combine(errs...)
}

// Session is one guild's voice connection. Playing a new stream always
// stops the current one first.
type Session struct {
	mu      sync.Mutex
	guildID string
	conn    Conn
	playing bool
	title   string
	gen     uint64
	log     zerolog.Logger
}

func (s *Session) Playing() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.playing
}

// NowPlaying returns the title of the current stream, or "".
func (s *Session) NowPlaying() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.playing {
		return ""
	}
	return s.title
}

// Play replaces whatever is playing with streamURL.
func (s *Session) Play(title, streamURL string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.playing {
		s.conn.Stop()
		s.playing = false
	}

	s.gen++
	gen := s.gen
	if err := s.conn.Play(streamURL, func(err error) { s.finished(gen, err) }); err != nil {
		return errors.WrapIf(err, "start stream")
	}
	s.playing = true
	s.title = title
	return nil
}

func (s *Session) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.playing {
		s.conn.Stop()
		s.playing = false
	}
}

func (s *Session) finished(gen uint64, err error) {
	if err != nil && !errors.Is(err, io.EOF) {
		s.log.Error().Err(err).Str("guild", s.guildID).Msg("Player error")
	}

	// onDone may run on the goroutine that called Stop while it holds mu.
	go func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if s.gen == gen {
			s.playing = false
		}
	}()
}
