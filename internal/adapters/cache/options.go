package cache

import "time"

type config struct {
	ttl     time.Duration
	maxSize int
	now     func() time.Time
}

// Option applies a configuration option to a Store.
type Option func(*config)

// WithTTL sets how long an entry stays readable. Zero disables expiry.
func WithTTL(ttl time.Duration) Option {
	return func(c *config) {
		if ttl >= 0 {
			c.ttl = ttl
		}
	}
}

// WithMaxSize sets the maximum number of entries.
// If maxSize > 0: bounded, oldest insertion evicted first.
// If maxSize <= 0: unbounded.
func WithMaxSize(maxSize int) Option {
	return func(c *config) {
		c.maxSize = maxSize
	}
}

// WithClock replaces time.Now, mainly for tests.
func WithClock(now func() time.Time) Option {
	return func(c *config) {
		if now != nil {
			c.now = now
		}
	}
}
