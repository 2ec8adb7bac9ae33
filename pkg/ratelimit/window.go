// Package ratelimit implements the in-process admission limiters. State is
// local to the process; multiple instances keep independent counters.
package ratelimit

import (
	"sync"
	"time"
)

// Decision is the result of an admission check.
type Decision struct {
	Allowed bool
	// RetryAfter is how long until a slot frees up. Zero when allowed.
	RetryAfter time.Duration
}

// WindowLimiter allows at most limit events per key in each fixed window.
// The window for a key starts at its first admitted event.
type WindowLimiter struct {
	limit  int
	window time.Duration
	now    func() time.Time

	mu        sync.Mutex
	items     map[string]*windowEntry
	lastSweep time.Time
}

type windowEntry struct {
	windowStart time.Time
	count       int
}

// NewWindowLimiter admits at most limit attempts per key in each window.
func NewWindowLimiter(limit int, window time.Duration) *WindowLimiter {
	return &WindowLimiter{
		limit:  limit,
		window: window,
		now:    time.Now,
		items:  make(map[string]*windowEntry),
	}
}

// Allow records an attempt for key. Rejected attempts are not counted.
func (l *WindowLimiter) Allow(key string) Decision {
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()

	l.sweepLocked(now)

	entry := l.items[key]
	if entry == nil || now.Sub(entry.windowStart) >= l.window {
		entry = &windowEntry{windowStart: now}
		l.items[key] = entry
	}

	if entry.count >= l.limit {
		return Decision{RetryAfter: entry.windowStart.Add(l.window).Sub(now)}
	}

	entry.count++
	return Decision{Allowed: true}
}

// sweepLocked drops expired keys at most once per window so the map does
// not grow with every client ever seen.
func (l *WindowLimiter) sweepLocked(now time.Time) {
	if now.Sub(l.lastSweep) < l.window {
		return
	}
	for key, entry := range l.items {
		if now.Sub(entry.windowStart) >= l.window {
			delete(l.items, key)
		}
	}
	l.lastSweep = now
}

// Len returns the number of tracked keys.
func (l *WindowLimiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.items)
}
