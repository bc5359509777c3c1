// Package cache provides a bounded, expiring in-memory key/value store.
package cache

import (
	"container/list"
	"sync"
	"time"
)

const defaultMaxSize = 1_000

// entry is a single cached value; it lives both in the map and in the
// insertion-ordered list used for eviction.
type entry[V any] struct {
	key     string
	value   V
	expires time.Time
}

// Store is a mutex-guarded map with per-entry expiry. When full, the entry
// inserted longest ago is evicted. Overwriting a key refreshes its position.
type Store[V any] struct {
	mu      sync.Mutex
	items   map[string]*list.Element
	order   *list.List // front = newest
	ttl     time.Duration
	maxSize int // 0 or negative = unbounded
	now     func() time.Time
}

// New creates a Store configured by opts.
func New[V any](opts ...Option) *Store[V] {
	cfg := config{maxSize: defaultMaxSize, now: time.Now}
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Store[V]{
		items:   make(map[string]*list.Element),
		order:   list.New(),
		ttl:     cfg.ttl,
		maxSize: cfg.maxSize,
		now:     cfg.now,
	}
}

// Get returns the value for key if present and not expired.
func (s *Store[V]) Get(key string) (V, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var zero V
	el, ok := s.items[key]
	if !ok {
		return zero, false
	}
	e := el.Value.(*entry[V])
	if s.expired(e) {
		s.remove(el)
		return zero, false
	}
	return e.value, true
}

// Set stores value under key, evicting the oldest entry when full.
func (s *Store[V]) Set(key string, value V) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if el, ok := s.items[key]; ok {
		s.remove(el)
	}
	if s.maxSize > 0 && len(s.items) >= s.maxSize {
		s.evictOldest()
	}

	e := &entry[V]{key: key, value: value}
	if s.ttl > 0 {
		e.expires = s.now().Add(s.ttl)
	}
	s.items[key] = s.order.PushFront(e)
}

// Len returns the number of stored entries, including expired ones not yet purged.
func (s *Store[V]) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

// Purge drops every expired entry and returns how many were removed.
func (s *Store[V]) Purge() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for el := s.order.Back(); el != nil; {
		prev := el.Prev()
		if s.expired(el.Value.(*entry[V])) {
			s.remove(el)
			n++
		}
		el = prev
	}
	return n
}

// expired must be called with s.mu held.
func (s *Store[V]) expired(e *entry[V]) bool {
	return !e.expires.IsZero() && !s.now().Before(e.expires)
}

// remove must be called with s.mu held.
func (s *Store[V]) remove(el *list.Element) {
	s.order.Remove(el)
	delete(s.items, el.Value.(*entry[V]).key)
}

// evictOldest must be called with s.mu held.
func (s *Store[V]) evictOldest() {
	if el := s.order.Back(); el != nil {
		s.remove(el)
	}
}
