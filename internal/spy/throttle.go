package spy

import (
	"sync"
	"time"

	"github.com/benbjohnson/clock"
)

// Throttle is a leading-edge cooldown gate. The first call to Allow in a
// window passes and opens the window; every other call before the window
// ends is refused. Nothing is queued.
type Throttle struct {
	clock    clock.Clock
	interval time.Duration

	mu     sync.Mutex
	last   time.Time
	opened bool
}

// NewThrottle creates a throttle with the given window.
func NewThrottle(clk clock.Clock, interval time.Duration) *Throttle {
	if interval <= 0 {
		interval = DefaultThrottle
	}
	return &Throttle{
		clock:    clk,
		interval: interval,
	}
}

// Allow reports whether the caller may emit now.
func (t *Throttle) Allow() bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.clock.Now()
	if t.opened && now.Sub(t.last) < t.interval {
		return false
	}

	t.opened = true
	t.last = now
	return true
}

// Interval returns the window length.
func (t *Throttle) Interval() time.Duration {
	return t.interval
}
