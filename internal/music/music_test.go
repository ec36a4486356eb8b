package music

import (
	"bytes"
	"context"
	"sync"
	"testing"
	"time"

	"emperror.dev/errors"
	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/keshon/warden/internal/command"
	"github.com/keshon/warden/internal/discordtypes"
	"github.com/keshon/warden/internal/music/media"
	"github.com/keshon/warden/internal/music/voice"
	"github.com/keshon/warden/pkg/jobmgr"
)

type fakeConn struct {
	mu          sync.Mutex
	channel     string
	plays       []string
	stops       int
	disconnects int
}

func (c *fakeConn) ChannelID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.channel
}

func (c *fakeConn) Move(_ context.Context, ch string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.channel = ch
	return nil
}

func (c *fakeConn) Play(url string, _ func(error)) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.plays = append(c.plays, url)
	return nil
}

func (c *fakeConn) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stops++
}

func (c *fakeConn) Disconnect(context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.disconnects++
	return nil
}

type fakeOutput struct {
	mu    sync.Mutex
	conns []*fakeConn
	err   error
}

func (o *fakeOutput) Connect(_ context.Context, _, ch string) (voice.Conn, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.err != nil {
		return nil, o.err
	}
	c := &fakeConn{channel: ch}
	o.conns = append(o.conns, c)
	return c, nil
}

type fakeLocator struct {
	channel *discordtypes.VoiceChannel
}

func (l *fakeLocator) UserVoiceChannel(context.Context, string, string) (discordtypes.VoiceChannel, bool, error) {
	if l.channel == nil {
		return discordtypes.VoiceChannel{}, false, nil
	}
	return *l.channel, true, nil
}

type fakeResolver struct {
	mu      sync.Mutex
	calls   []string
	started chan string
	err     error
}

func (r *fakeResolver) Resolve(ctx context.Context, q string) (*media.Track, error) {
	r.mu.Lock()
	r.calls = append(r.calls, q)
	r.mu.Unlock()

	if r.started != nil {
		r.started <- q
	}
	if q == "slow" {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	if r.err != nil {
		return nil, r.err
	}
	return &media.Track{Title: "Title " + q, StreamURL: "https://cdn/" + q, PageURL: "https://page/" + q}, nil
}

type fakeReplier struct {
	mu     sync.Mutex
	texts  []string
	embeds []*discordgo.MessageEmbed
}

func (f *fakeReplier) Send(_ context.Context, s string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.texts = append(f.texts, s)
	return nil
}

func (f *fakeReplier) SendEmbed(_ context.Context, e *discordgo.MessageEmbed) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.embeds = append(f.embeds, e)
	return nil
}

type fixture struct {
	out      *fakeOutput
	locator  *fakeLocator
	resolver *fakeResolver
	reply    *fakeReplier
	logs     *syncBuffer
	store    *voice.Store
	module   *Module
	router   *command.Router
}

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func newFixture(inVoice bool) *fixture {
	f := &fixture{
		out:      &fakeOutput{},
		locator:  &fakeLocator{},
		resolver: &fakeResolver{},
		reply:    &fakeReplier{},
		logs:     &syncBuffer{},
	}
	if inVoice {
		f.locator.channel = &discordtypes.VoiceChannel{ID: "vc1", Name: "General"}
	}
	log := zerolog.New(f.logs)
	f.store = voice.NewStore(f.out, log)
	f.module = New(f.store, f.locator, f.resolver, jobmgr.NewManager(nil), log)
	f.router = command.NewRouter("!", log, command.WithGuildOnly())
	f.router.Register(f.module.Routes()...)
	return f
}

func (f *fixture) run(content string) {
	c := &command.Context{
		GuildID:   "g1",
		ChannelID: "c1",
		Author:    discordtypes.Member{ID: "u1", Username: "alice"},
		Reply:     f.reply,
	}
	f.router.Dispatch(context.Background(), c, content)
}

func TestJoinRequiresVoice(t *testing.T) {
	f := newFixture(false)
	f.run("!join")

	assert.Equal(t, []string{"You need to be in a voice channel first!"}, f.reply.texts)
	assert.Empty(t, f.out.conns)
}

func TestJoinConnectsAndLogs(t *testing.T) {
	f := newFixture(true)
	f.run("!join")

	require.Len(t, f.out.conns, 1)
	assert.Empty(t, f.reply.texts)
	assert.Contains(t, f.logs.String(), "Joined voice channel: General")
}

func TestJoinFailure(t *testing.T) {
	f := newFixture(true)
	f.out.err = errors.New("handshake timeout")
	f.run("!join")

	assert.Equal(t, []string{"Couldn't join the voice channel."}, f.reply.texts)
	assert.Contains(t, f.logs.String(), "Error joining voice channel: ")
}

func TestPlayWithoutSessionOrVoiceDoesNothing(t *testing.T) {
	f := newFixture(false)
	f.run("!play https://youtu.be/x")

	assert.Empty(t, f.out.conns)
	assert.Empty(t, f.resolver.calls)
	assert.Equal(t, []string{"You need to be in a voice channel first!"}, f.reply.texts)
	assert.Empty(t, f.reply.embeds)
}

func TestPlayJoinsImplicitlyAndAnnounces(t *testing.T) {
	f := newFixture(true)
	f.run("!play lofi beats")

	require.Len(t, f.out.conns, 1)
	assert.Equal(t, []string{"lofi beats"}, f.resolver.calls)
	assert.Equal(t, []string{"https://cdn/lofi beats"}, f.out.conns[0].plays)
	require.Len(t, f.reply.embeds, 1)
	assert.Equal(t, "Now Playing", f.reply.embeds[0].Title)
	assert.Equal(t, "🎵 Title lofi beats", f.reply.embeds[0].Description)
	assert.Contains(t, f.logs.String(), "Playing audio: Title lofi beats")
}

func TestPlayWhilePlayingStopsFirst(t *testing.T) {
	f := newFixture(true)
	f.run("!play one")
	f.run("!play two")

	conn := f.out.conns[0]
	assert.Equal(t, 1, conn.stops)
	assert.Equal(t, []string{"https://cdn/one", "https://cdn/two"}, conn.plays)
	sess, ok := f.store.Get("g1")
	require.True(t, ok)
	assert.Equal(t, "Title two", sess.NowPlaying())
	assert.Contains(t, f.logs.String(), "Stopping current audio: Title one")
}

func TestPlayResolutionFailure(t *testing.T) {
	f := newFixture(true)
	f.resolver.err = errors.New("video unavailable")
	f.run("!play gone")

	assert.Equal(t, []string{"An error occurred while trying to play the audio."}, f.reply.texts)
	assert.Contains(t, f.logs.String(), "Error playing audio: video unavailable")
	assert.Empty(t, f.out.conns[0].plays)
}

func TestPlayMissingQuery(t *testing.T) {
	f := newFixture(true)
	f.run("!play")

	assert.Equal(t, []string{"An error occurred while processing the command."}, f.reply.texts)
	assert.Empty(t, f.out.conns)
}

func TestLatestPlayWins(t *testing.T) {
	f := newFixture(true)
	f.resolver.started = make(chan string, 2)
	f.run("!join")

	done := make(chan struct{})
	go func() {
		defer close(done)
		f.run("!play slow")
	}()
	require.Equal(t, "slow", <-f.resolver.started)

	f.run("!play fast")
	assert.Equal(t, "fast", <-f.resolver.started)

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("superseded play did not return")
	}

	assert.Equal(t, []string{"https://cdn/fast"}, f.out.conns[0].plays)
	require.Len(t, f.reply.embeds, 1)
	assert.Empty(t, f.reply.texts)
}

func TestLeaveWithoutSession(t *testing.T) {
	f := newFixture(true)
	f.run("!leave")

	assert.Equal(t, []string{"I'm not in a voice channel!"}, f.reply.texts)
	assert.Empty(t, f.out.conns)
}

func TestLeaveDisconnects(t *testing.T) {
	f := newFixture(true)
	f.run("!play one")
	f.run("!leave")

	conn := f.out.conns[0]
	assert.Equal(t, 1, conn.disconnects)
	assert.Equal(t, 1, conn.stops)
	assert.Equal(t, []string{"👋 Left the voice channel!"}, f.reply.texts)
	assert.Contains(t, f.logs.String(), "Left voice channel")

	_, ok := f.store.Get("g1")
	assert.False(t, ok)
}

func TestLeaveCancelsResolution(t *testing.T) {
	f := newFixture(true)
	f.resolver.started = make(chan string, 1)
	f.run("!join")

	done := make(chan struct{})
	go func() {
		defer close(done)
		f.run("!play slow")
	}()
	<-f.resolver.started

	f.run("!leave")

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("play did not return after leave")
	}
	assert.Empty(t, f.out.conns[0].plays)
	assert.Equal(t, []string{"👋 Left the voice channel!"}, f.reply.texts)
}

func TestForgetAndShutdown(t *testing.T) {
	f := newFixture(true)
	f.run("!join")
	f.module.Forget("g1")
	_, ok := f.store.Get("g1")
	assert.False(t, ok)
	assert.Equal(t, 0, f.out.conns[0].disconnects)

	f.run("!join")
	require.Len(t, f.out.conns, 2)
	require.NoError(t, f.module.Shutdown(context.Background()))
	assert.Equal(t, 1, f.out.conns[1].disconnects)
}
