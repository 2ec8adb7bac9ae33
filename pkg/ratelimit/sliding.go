package ratelimit

import (
	"sync"
	"time"
)

// SlidingLog is a single shared limiter: at most capacity admissions in any
// rolling window, regardless of who asks.
//
// Expired timestamps are pruned lazily on every check. A rejected attempt is
// not recorded, so a burst of rejected calls cannot push the reopening time
// further out.
type SlidingLog struct {
	capacity int
	window   time.Duration
	now      func() time.Time

	mu         sync.Mutex
	timestamps []time.Time
}

// NewSlidingLog admits at most capacity attempts in any rolling window.
func NewSlidingLog(capacity int, window time.Duration) *SlidingLog {
	return &SlidingLog{
		capacity:   capacity,
		window:     window,
		now:        time.Now,
		timestamps: make([]time.Time, 0, capacity),
	}
}

// Allow records an attempt if a slot is free. Rejected attempts are not counted.
func (s *SlidingLog) Allow() Decision {
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	s.pruneLocked(now)

	if len(s.timestamps) >= s.capacity {
		return Decision{RetryAfter: s.timestamps[0].Add(s.window).Sub(now)}
	}

	s.timestamps = append(s.timestamps, now)
	return Decision{Allowed: true}
}

// pruneLocked drops timestamps that have left the window. The slice is kept
// in append order so the oldest entries are at the front.
func (s *SlidingLog) pruneLocked(now time.Time) {
	cutoff := now.Add(-s.window)
	i := 0
	for i < len(s.timestamps) && !s.timestamps[i].After(cutoff) {
		i++
	}
	if i > 0 {
		s.timestamps = append(s.timestamps[:0], s.timestamps[i:]...)
	}
}

// InUse returns how many slots are occupied right now.
func (s *SlidingLog) InUse() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pruneLocked(s.now())
	return len(s.timestamps)
}
