// Package session keeps per-browser dashboard state between requests.
package session

import (
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/okian/cfinsight/internal/adapters/cache"
)

// State is what the dashboard remembers for one browser session.
type State struct {
	// Handle is the last handle analyzed in single mode.
	Handle string
	// CoachText is the last coaching answer for Handle.
	CoachText string
}

// Store maps opaque session ids to State.
type Store struct {
	// mu serializes read-modify-write on a single id.
	mu     sync.Mutex
	states *cache.Store[State]
}

// Option configures a Store.
type Option func(*options)

type options struct {
	ttl     time.Duration
	maxSize int
	now     func() time.Time
}

// WithTTL sets how long an idle session is kept.
func WithTTL(ttl time.Duration) Option { return func(o *options) { o.ttl = ttl } }

// WithMaxSize bounds the number of live sessions.
func WithMaxSize(n int) Option { return func(o *options) { o.maxSize = n } }

// WithClock replaces time.Now, mainly for tests.
func WithClock(now func() time.Time) Option { return func(o *options) { o.now = now } }

// New creates a session Store.
func New(opts ...Option) *Store {
	o := options{ttl: 24 * time.Hour, maxSize: 10_000}
	for _, opt := range opts {
		opt(&o)
	}
	copts := []cache.Option{cache.WithTTL(o.ttl), cache.WithMaxSize(o.maxSize)}
	if o.now != nil {
		copts = append(copts, cache.WithClock(o.now))
	}
	return &Store{states: cache.New[State](copts...)}
}

// NewID returns a fresh opaque session id.
func NewID() string { return uuid.NewString() }

// ValidID reports whether id looks like one issued by NewID.
func ValidID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

// Observe records that id is now looking at handle. When handle differs
// from the last one observed, the stored coaching text is discarded.
func (s *Store) Observe(id, handle string) State {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, _ := s.states.Get(id)
	if !sameHandle(st.Handle, handle) {
		st = State{Handle: handle}
	}
	s.states.Set(id, st)
	return st
}

// SetCoach stores a new coaching answer for handle, replacing any previous one.
func (s *Store) SetCoach(id, handle, text string) State {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := State{Handle: handle, CoachText: text}
	s.states.Set(id, st)
	return st
}

// Get returns the state for id without touching it.
func (s *Store) Get(id string) (State, bool) {
	return s.states.Get(id)
}

// Len returns the number of tracked sessions.
func (s *Store) Len() int { return s.states.Len() }

// Purge drops expired sessions.
func (s *Store) Purge() int { return s.states.Purge() }

func sameHandle(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}
