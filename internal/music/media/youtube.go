package media

import (
	"context"
	"net/url"
	"strings"

	"emperror.dev/errors"
	"github.com/kkdai/youtube/v2"
)

// YouTube resolves YouTube links without external tools.
type YouTube struct {
	client *youtube.Client
}

func NewYouTube() *YouTube {
	return &YouTube{client: &youtube.Client{}}
}

func (y *YouTube) Resolve(ctx context.Context, query string) (*Track, error) {
	query = strings.TrimSpace(query)
	if !IsYouTubeURL(query) {
		return nil, errors.WithStack(ErrUnsupported)
	}

	id, err := youtube.ExtractVideoID(query)
	if err != nil {
		return nil, errors.Wrap(err, "youtube id")
	}

	video, err := y.client.GetVideoContext(ctx, id)
	if err != nil {
		return nil, errors.Wrap(err, "youtube client")
	}

	formats := video.Formats.WithAudioChannels()
	if len(formats) == 0 {
		return nil, errors.New("no audio formats found for video")
	}

	link, err := y.client.GetStreamURLContext(ctx, video, &formats[0])
	if err != nil {
		return nil, errors.Wrap(err, "youtube stream url")
	}

	track := &Track{
		Title:     video.Title,
		StreamURL: link,
		PageURL:   "https://www.youtube.com/watch?v=" + video.ID,
		Duration:  video.Duration,
	}
	if n := len(video.Thumbnails); n > 0 {
		track.Thumbnail = video.Thumbnails[n-1].URL
	}
	return track, nil
}

// IsYouTubeURL reports whether s is a link to a youtube.com or youtu.be page.
func IsYouTubeURL(s string) bool {
	u, err := url.Parse(s)
	if err != nil || u.Host == "" {
		return false
	}
	host := strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
	switch host {
	case "youtu.be", "youtube.com", "m.youtube.com", "music.youtube.com":
		return true
	}
	return false
}
