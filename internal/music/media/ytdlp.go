package media

import (
	"bytes"
	"context"
	"encoding/json"
	"os/exec"
	"strings"
	"time"

	"emperror.dev/errors"
)

// YTDLP resolves anything yt-dlp understands, including plain search text.
type YTDLP struct {
	Path string
	run  func(ctx context.Context, name string, args ...string) ([]byte, error)
}

func NewYTDLP(path string) *YTDLP {
	if path == "" {
		path = "yt-dlp"
	}
	return &YTDLP{Path: path, run: execOutput}
}

func (y *YTDLP) Resolve(ctx context.Context, query string) (*Track, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, errors.New("empty query")
	}

	out, err := y.run(ctx, y.Path, ytdlpArgs(query)...)
	if err != nil {
		return nil, errors.Wrap(err, "yt-dlp")
	}
	return decodeYTDLP(out)
}

func ytdlpArgs(query string) []string {
	return []string{
		"-J",
		"-f", "bestaudio/best",
		"--no-playlist",
		"--no-warnings",
		"--quiet",
		"--no-check-certificate",
		"--default-search", "auto",
		"--source-address", "0.0.0.0",
		"--", query,
	}
}

type ytdlpFormat struct {
	URL string `json:"url"`
}

type ytdlpInfo struct {
	Title      string        `json:"title"`
	URL        string        `json:"url"`
	WebpageURL string        `json:"webpage_url"`
	Thumbnail  string        `json:"thumbnail"`
	Duration   float64       `json:"duration"`
	Formats    []ytdlpFormat `json:"formats"`
	Entries    []ytdlpInfo   `json:"entries"`
}

// decodeYTDLP reads a -J dump. Searches and playlists resolve to their
// first entry.
func decodeYTDLP(data []byte) (*Track, error) {
	var info ytdlpInfo
	if err := json.Unmarshal(data, &info); err != nil {
		return nil, errors.Wrap(err, "decode yt-dlp output")
	}

	if info.Entries != nil {
		if len(info.Entries) == 0 {
			return nil, errors.New("no results")
		}
		info = info.Entries[0]
	}

	link := strings.TrimSpace(info.URL)
	for i := len(info.Formats) - 1; link == "" && i >= 0; i-- {
		link = strings.TrimSpace(info.Formats[i].URL)
	}
	if link == "" {
		return nil, errors.New("empty URL returned from yt-dlp")
	}

	title := info.Title
	if title == "" {
		title = info.WebpageURL
	}

	return &Track{
		Title:     title,
		StreamURL: link,
		PageURL:   info.WebpageURL,
		Thumbnail: info.Thumbnail,
		Duration:  time.Duration(info.Duration * float64(time.Second)),
	}, nil
}

func execOutput(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	out, err := cmd.Output()
	if err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return nil, errors.Wrap(err, msg)
		}
		return nil, errors.WithStack(err)
	}
	return out, nil
}
