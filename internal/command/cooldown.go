package command

import (
	"sync"
	"time"

	"emperror.dev/errors"
	"github.com/ReneKroon/ttlcache/v2"
	"golang.org/x/time/rate"
)

// minBucketTTL keeps short-window buckets around long enough to matter.
const minBucketTTL = time.Minute

// Cooldowns hands out one token per window for each (command, user) pair.
// Idle buckets expire from the cache; an expired bucket is equivalent to a
// full one.
type Cooldowns struct {
	mu    sync.Mutex
	cache *ttlcache.Cache
	now   func() time.Time
}

func NewCooldowns() *Cooldowns {
	cache := ttlcache.NewCache()
	return &Cooldowns{cache: cache, now: time.Now}
}

// Check takes a token from the bucket or returns a *CooldownError with the
// time left until the next one.
func (c *Cooldowns) Check(command, userID string, window time.Duration) error {
	if window <= 0 {
		return nil
	}

	lim, err := c.bucket(command+":"+userID, window)
	if err != nil {
		return err
	}

	now := c.now()
	r := lim.ReserveN(now, 1)
	if !r.OK() {
		return &CooldownError{RetryAfter: window}
	}
	if delay := r.DelayFrom(now); delay > 0 {
		r.CancelAt(now)
		return &CooldownError{RetryAfter: delay}
	}
	return nil
}

func (c *Cooldowns) Close() error {
	return c.cache.Close()
}

func (c *Cooldowns) bucket(key string, window time.Duration) (*rate.Limiter, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	v, err := c.cache.Get(key)
	if err == nil {
		if lim, ok := v.(*rate.Limiter); ok {
			return lim, nil
		}
	} else if !errors.Is(err, ttlcache.ErrNotFound) {
		return nil, errors.Wrap(err, "cooldown bucket lookup")
	}

	ttl := 2 * window
	if ttl < minBucketTTL {
		ttl = minBucketTTL
	}
	lim := rate.NewLimiter(rate.Every(window), 1)
	if err := c.cache.SetWithTTL(key, lim, ttl); err != nil {
		return nil, errors.Wrap(err, "cooldown bucket store")
	}
	return lim, nil
}
