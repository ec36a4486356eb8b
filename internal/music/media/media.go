// Package media turns a URL or search query into a playable audio stream.
package media

import (
	"context"
	"time"

	"emperror.dev/errors"
)

// ErrUnsupported means a resolver does not handle this kind of query.
var ErrUnsupported = errors.New("unsupported source")

// Track describes one resolved item. StreamURL is what the encoder reads.
type Track struct {
	Title     string
	StreamURL string
	PageURL   string
	Thumbnail string
	Duration  time.Duration
}

type Resolver interface {
	Resolve(ctx context.Context, query string) (*Track, error)
}

// Chain tries each resolver in order and returns the first track found.
type Chain []Resolver

func (c Chain) Resolve(ctx context.Context, query string) (*Track, error) {
	var errs []error
	for _, r := range c {
		track, err := r.Resolve(ctx, query)
		if err == nil {
			return track, nil
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		if !errors.Is(err, ErrUnsupported) {
			errs = append(errs, err)
		}
	}
	if len(errs) == 0 {
		return nil, errors.WithStack(ErrUnsupported)
	}
	return nil, errors.Combine(errs...)
}
