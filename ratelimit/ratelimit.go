// Package ratelimit provides a per-key sliding-window attempt counter used
// to guard sensitive endpoints against brute force. Counters are process
// local and ephemeral: they do not survive a restart, which is acceptable
// for coarse mitigation. In a multi-process deployment the AttemptStore
// interface is the seam for plugging in a shared external counter.
package ratelimit

import (
	"sync"
	"time"
)

// Decision is the outcome of a rate limit check.
type Decision struct {
	Allowed bool
	// RetryAfter is the hint in seconds attached to rejections. It is the
	// static window ceiling, not the time to the next free slot.
	RetryAfter int
}

// AttemptStore records attempt instants per key inside a sliding window.
type AttemptStore interface {
	// Take prunes attempts older than now-window for key, then admits the
	// attempt if fewer than max remain, recording it. Returns false when
	// the attempt is rejected; rejected attempts are not recorded.
	Take(key string, now time.Time, window time.Duration, max int) bool
	// Prune discards all attempts older than cutoff, bounding memory.
	Prune(cutoff time.Time)
}

// MemoryStore is the in-memory AttemptStore. A mutex guards the map since
// requests arrive on concurrent goroutines.
type MemoryStore struct {
	mu       sync.Mutex
	attempts map[string][]time.Time
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{attempts: make(map[string][]time.Time)}
}

// Take implements AttemptStore.
func (s *MemoryStore) Take(key string, now time.Time, window time.Duration, max int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := now.Add(-window)
	recent := s.attempts[key][:0]
	for _, t := range s.attempts[key] {
		if t.After(cutoff) {
			recent = append(recent, t)
		}
	}

	if len(recent) >= max {
		s.attempts[key] = recent
		return false
	}

	s.attempts[key] = append(recent, now)
	return true
}

// Prune implements AttemptStore.
func (s *MemoryStore) Prune(cutoff time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for key, times := range s.attempts {
		recent := times[:0]
		for _, t := range times {
			if t.After(cutoff) {
				recent = append(recent, t)
			}
		}
		if len(recent) == 0 {
			delete(s.attempts, key)
		} else {
			s.attempts[key] = recent
		}
	}
}

// Limiter applies a max-attempts-per-window policy over an AttemptStore.
type Limiter struct {
	store  AttemptStore
	max    int
	window time.Duration
	now    func() time.Time
}

// New creates a Limiter backed by an in-memory store.
func New(max int, window time.Duration) *Limiter {
	return NewWithStore(NewMemoryStore(), max, window)
}

// NewWithStore creates a Limiter on an injected store.
func NewWithStore(store AttemptStore, max int, window time.Duration) *Limiter {
	return &Limiter{store: store, max: max, window: window, now: time.Now}
}

// Check admits or rejects an attempt for key.
func (l *Limiter) Check(key string) Decision {
	if l.store.Take(key, l.now(), l.window, l.max) {
		return Decision{Allowed: true}
	}
	return Decision{Allowed: false, RetryAfter: int(l.window / time.Second)}
}

// StartCleanup launches a background goroutine that periodically prunes
// stale entries so idle keys do not accumulate forever. Closing stop ends
// the goroutine.
func (l *Limiter) StartCleanup(interval time.Duration, stop <-chan struct{}) {
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				l.store.Prune(l.now().Add(-l.window))
			case <-stop:
				return
			}
		}
	}()
}
