// Package testutil provides deterministic stand-ins for wall-clock time.
package testutil

import (
	"sync"
	"time"
)

// FixedClock is a controllable wall clock for tests. It returns the same
// instant from Now until advanced, so stored timestamps become assertable
// values instead of whatever time.Now happened to produce.
//
// Thread-safety: all methods are safe for concurrent use.
type FixedClock struct {
	mu sync.Mutex
	t  time.Time
}

// NewFixedClock creates a clock pinned to the given instant.
func NewFixedClock(t time.Time) *FixedClock {
	return &FixedClock{t: t}
}

// Now returns the clock's current instant. Matches the signature of
// time.Now so it can replace it directly.
func (c *FixedClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

// Advance moves the clock forward by d.
func (c *FixedClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}
