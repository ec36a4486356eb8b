package media

import (
	"context"
	"testing"
	"time"

	"emperror.dev/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeSingleVideo(t *testing.T) {
	track, err := decodeYTDLP([]byte(`{
		"title": "Song",
		"url": "https://cdn.example/audio",
		"webpage_url": "https://www.youtube.com/watch?v=abc",
		"thumbnail": "https://i.example/t.jpg",
		"duration": 185.5
	}`))
	require.NoError(t, err)

	assert.Equal(t, "Song", track.Title)
	assert.Equal(t, "https://cdn.example/audio", track.StreamURL)
	assert.Equal(t, "https://www.youtube.com/watch?v=abc", track.PageURL)
	assert.Equal(t, "https://i.example/t.jpg", track.Thumbnail)
	assert.Equal(t, 185500*time.Millisecond, track.Duration)
}

func TestDecodeCollectionTakesFirstEntry(t *testing.T) {
	track, err := decodeYTDLP([]byte(`{
		"title": "search results",
		"entries": [
			{"title": "First", "url": "https://cdn.example/1"},
			{"title": "Second", "url": "https://cdn.example/2"}
		]
	}`))
	require.NoError(t, err)
	assert.Equal(t, "First", track.Title)
	assert.Equal(t, "https://cdn.example/1", track.StreamURL)
}

func TestDecodeFallsBackToFormats(t *testing.T) {
	track, err := decodeYTDLP([]byte(`{
		"title": "Song",
		"formats": [{"url": "https://cdn.example/low"}, {"url": "https://cdn.example/high"}, {"url": ""}]
	}`))
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example/high", track.StreamURL)
}

func TestDecodeFailures(t *testing.T) {
	_, err := decodeYTDLP([]byte(`{"entries": []}`))
	assert.Error(t, err)

	_, err = decodeYTDLP([]byte(`{"title": "no url"}`))
	assert.Error(t, err)

	_, err = decodeYTDLP([]byte(`not json`))
	assert.Error(t, err)
}

func TestYTDLPRunsConfiguredBinary(t *testing.T) {
	var gotName string
	var gotArgs []string
	y := NewYTDLP("/opt/yt-dlp")
	y.run = func(_ context.Context, name string, args ...string) ([]byte, error) {
		gotName, gotArgs = name, args
		return []byte(`{"title": "T", "url": "https://cdn.example/a"}`), nil
	}

	track, err := y.Resolve(context.Background(), "  lofi beats  ")
	require.NoError(t, err)
	assert.Equal(t, "T", track.Title)
	assert.Equal(t, "/opt/yt-dlp", gotName)
	assert.Equal(t, []string{"--", "lofi beats"}, gotArgs[len(gotArgs)-2:])
	assert.Contains(t, gotArgs, "--no-playlist")
	assert.Contains(t, gotArgs, "bestaudio/best")
}

func TestYTDLPEmptyQuery(t *testing.T) {
	y := NewYTDLP("")
	assert.Equal(t, "yt-dlp", y.Path)
	_, err := y.Resolve(context.Background(), "   ")
	assert.Error(t, err)
}

type stubResolver struct {
	track *Track
	err   error
	calls int
}

func (s *stubResolver) Resolve(context.Context, string) (*Track, error) {
	s.calls++
	return s.track, s.err
}

func TestChainFallsThrough(t *testing.T) {
	first := &stubResolver{err: errors.New("yt-dlp missing")}
	second := &stubResolver{track: &Track{Title: "ok"}}

	track, err := Chain{first, second}.Resolve(context.Background(), "q")
	require.NoError(t, err)
	assert.Equal(t, "ok", track.Title)
	assert.Equal(t, 1, first.calls)
}

func TestChainCombinesErrors(t *testing.T) {
	first := &stubResolver{err: errors.New("first failed")}
	second := &stubResolver{err: errors.WithStack(ErrUnsupported)}
	third := &stubResolver{err: errors.New("third failed")}

	_, err := Chain{first, second, third}.Resolve(context.Background(), "q")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "first failed")
	assert.Contains(t, err.Error(), "third failed")
}

func TestChainAllUnsupported(t *testing.T) {
	_, err := Chain{&stubResolver{err: ErrUnsupported}}.Resolve(context.Background(), "q")
	assert.True(t, errors.Is(err, ErrUnsupported))
}

func TestChainStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	second := &stubResolver{track: &Track{}}

	_, err := Chain{&stubResolver{err: errors.New("killed")}, second}.Resolve(ctx, "q")
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, second.calls)
}

func TestIsYouTubeURL(t *testing.T) {
	assert.True(t, IsYouTubeURL("https://www.youtube.com/watch?v=dQw4w9WgXcQ"))
	assert.True(t, IsYouTubeURL("https://youtu.be/dQw4w9WgXcQ"))
	assert.True(t, IsYouTubeURL("https://music.youtube.com/watch?v=dQw4w9WgXcQ"))
	assert.False(t, IsYouTubeURL("https://soundcloud.com/artist/track"))
	assert.False(t, IsYouTubeURL("never gonna give you up"))
}

func TestYouTubeRejectsOtherQueries(t *testing.T) {
	_, err := NewYouTube().Resolve(context.Background(), "some search words")
	assert.ErrorIs(t, err, ErrUnsupported)
}
