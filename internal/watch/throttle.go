package watch

import (
	"sync"
	"time"
)

// Throttle limits how often each path may trigger. The first event for a
// path fires immediately; later events for the same path are dropped until
// interval has passed since the last one that fired.
type Throttle struct {
	interval time.Duration
	mu       sync.Mutex
	last     map[string]time.Time
}

// NewThrottle creates a throttle with the given minimum re-trigger interval.
func NewThrottle(interval time.Duration) *Throttle {
	return &Throttle{
		interval: interval,
		last:     make(map[string]time.Time),
	}
}

// Allow reports whether path may trigger at now and, if so, records it.
func (t *Throttle) Allow(path string, now time.Time) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if prev, ok := t.last[path]; ok && now.Sub(prev) < t.interval {
		return false
	}

	t.last[path] = now

	return true
}

// Reset forgets every recorded trigger.
func (t *Throttle) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()

	clear(t.last)
}
