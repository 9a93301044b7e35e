package handlers

import "time"

// IdleStatus is the result of an idle check.
type IdleStatus int

const (
	IdleActive IdleStatus = iota
	// IdleWarn is reported once when the timeout first elapses.
	IdleWarn
	// IdleExpired is reported once the grace period after the warning elapses.
	IdleExpired
)

// IdleMonitor tracks time since the player's last input. A zero timeout
// disables it.
type IdleMonitor struct {
	timeout time.Duration
	grace   time.Duration
	last    time.Time
	warned  bool
}

// NewIdleMonitor starts tracking from now.
func NewIdleMonitor(timeout, grace time.Duration, now time.Time) *IdleMonitor {
	return &IdleMonitor{timeout: timeout, grace: grace, last: now}
}

// Touch records input at now and clears any pending warning.
func (m *IdleMonitor) Touch(now time.Time) {
	m.last = now
	m.warned = false
}

// Check classifies the idle time at now.
//
// Postcondition: IdleWarn is returned at most once between Touch calls.
func (m *IdleMonitor) Check(now time.Time) IdleStatus {
	if m.timeout <= 0 {
		return IdleActive
	}
	idle := now.Sub(m.last)
	switch {
	case idle >= m.timeout+m.grace:
		return IdleExpired
	case idle >= m.timeout && !m.warned:
		m.warned = true
		return IdleWarn
	default:
		return IdleActive
	}
}
