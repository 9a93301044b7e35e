// Package clock provides countdowns advanced by an explicit Tick instead of
// wall-clock goroutines, so every expiry runs on the caller's update loop.
package clock

import "time"

// Countdown fires a callback once its remaining duration has been consumed by Tick.
// It is not safe for concurrent use; the caller must serialise access.
//
// Invariant: at most one expiry callback is armed at a time.
type Countdown struct {
	remaining time.Duration
	active    bool
	onExpire  func()
}

// Start arms the countdown for d, replacing any running countdown and its callback.
// A non-positive d expires on the next Tick.
//
// Precondition: onExpire may be nil (expiry is then only observable via Active).
// Postcondition: Active() is true and Remaining() == max(d, 0).
func (c *Countdown) Start(d time.Duration, onExpire func()) {
	if d < 0 {
		d = 0
	}
	c.remaining = d
	c.active = true
	c.onExpire = onExpire
}

// Stop disarms the countdown without firing. Safe to call multiple times.
//
// Postcondition: Active() is false; the previous callback will never fire.
func (c *Countdown) Stop() {
	c.active = false
	c.remaining = 0
	c.onExpire = nil
}

// Active reports whether the countdown is armed.
func (c *Countdown) Active() bool {
	return c.active
}

// Remaining returns the time left before expiry, or 0 when disarmed.
func (c *Countdown) Remaining() time.Duration {
	if !c.active {
		return 0
	}
	return c.remaining
}

// Tick consumes dt from the countdown. When it reaches zero the countdown is
// disarmed and then its callback runs, so the callback may Start it again.
//
// Postcondition: returns true iff the countdown expired during this call.
func (c *Countdown) Tick(dt time.Duration) bool {
	if !c.active {
		return false
	}
	c.remaining -= dt
	if c.remaining > 0 {
		return false
	}
	fn := c.onExpire
	c.Stop()
	if fn != nil {
		fn()
	}
	return true
}
