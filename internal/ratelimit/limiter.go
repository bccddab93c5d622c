package ratelimit

import (
	"errors"
	"sync"
	"time"
)

// ErrRateLimited is returned when a key has exhausted its window allowance.
var ErrRateLimited = errors.New("too many requests")

// Limiter is a fixed-window per-key counter. A key gets at most max requests
// per window; the window does not slide — it resets exactly window after the
// first request that opened it. Rejected attempts still count toward the
// current window.
type Limiter struct {
	mu      sync.Mutex
	records map[string]*record
	max     int
	window  time.Duration
	now     func() time.Time
	done    chan struct{}
}

type record struct {
	count   int
	expires time.Time
}

// New creates a limiter allowing max requests per fixed window.
func New(max int, window time.Duration) *Limiter {
	l := &Limiter{
		records: make(map[string]*record),
		max:     max,
		window:  window,
		now:     time.Now,
		done:    make(chan struct{}),
	}
	go l.sweep()
	return l
}

// NewWithClock creates a limiter with an injectable clock and no background
// sweeper; tests use this to drive window expiry deterministically.
func NewWithClock(max int, window time.Duration, now func() time.Time) *Limiter {
	return &Limiter{
		records: make(map[string]*record),
		max:     max,
		window:  window,
		now:     now,
	}
}

// Allow records an attempt for key and reports whether it is within the
// limit. The attempt is counted even when ErrRateLimited is returned.
func (l *Limiter) Allow(key string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	rec, ok := l.records[key]
	if !ok {
		rec = &record{expires: now.Add(l.window)}
		l.records[key] = rec
	}
	if now.After(rec.expires) {
		rec.count = 0
		rec.expires = now.Add(l.window)
	}
	rec.count++
	if rec.count > l.max {
		return ErrRateLimited
	}
	return nil
}

// Close stops the background sweeper.
func (l *Limiter) Close() {
	if l.done != nil {
		close(l.done)
	}
}

// sweep evicts expired records so the map does not grow without bound.
func (l *Limiter) sweep() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-l.done:
			return
		case <-ticker.C:
			l.mu.Lock()
			now := l.now()
			for key, rec := range l.records {
				if now.After(rec.expires) {
					delete(l.records, key)
				}
			}
			l.mu.Unlock()
		}
	}
}
