package core

import "time"

// Throttle reports at most once per interval, for progress logging from a loop
// that runs far more often than anyone wants to read about it.
type Throttle struct {
	every time.Duration
	last  time.Time
	now   func() time.Time
}

// NewThrottle returns a Throttle that fires at most once per every. Non-positive
// intervals default to one second.
func NewThrottle(every time.Duration) *Throttle {
	if every <= 0 {
		every = time.Second
	}
	return &Throttle{every: every, now: time.Now}
}

// Ready reports whether the interval has elapsed since the last time it returned
// true. The first call always returns false and starts the clock.
func (t *Throttle) Ready() bool {
	now := t.now()
	if t.last.IsZero() {
		t.last = now
		return false
	}
	if now.Sub(t.last) < t.every {
		return false
	}
	t.last = now
	return true
}
