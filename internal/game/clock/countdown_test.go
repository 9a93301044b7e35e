package clock_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/votemenot/internal/game/clock"
)

func TestCountdown_FiresOnceAtExpiry(t *testing.T) {
	var c clock.Countdown
	calls := 0
	c.Start(100*time.Millisecond, func() { calls++ })

	assert.False(t, c.Tick(60*time.Millisecond))
	assert.Equal(t, 40*time.Millisecond, c.Remaining())
	assert.True(t, c.Tick(40*time.Millisecond))
	assert.Equal(t, 1, calls)
	assert.False(t, c.Active())

	assert.False(t, c.Tick(time.Second))
	assert.Equal(t, 1, calls, "an expired countdown must not fire again")
}

func TestCountdown_StartRestartsAndReplacesCallback(t *testing.T) {
	var c clock.Countdown
	first, second := 0, 0
	c.Start(50*time.Millisecond, func() { first++ })
	c.Tick(40 * time.Millisecond)
	c.Start(50*time.Millisecond, func() { second++ })

	c.Tick(40 * time.Millisecond)
	assert.Equal(t, 0, first)
	assert.Equal(t, 0, second)

	c.Tick(10 * time.Millisecond)
	assert.Equal(t, 0, first, "replaced callback must never fire")
	assert.Equal(t, 1, second)
}

func TestCountdown_StopPreventsCallback(t *testing.T) {
	var c clock.Countdown
	called := false
	c.Start(10*time.Millisecond, func() { called = true })
	c.Stop()
	c.Stop()
	c.Tick(time.Second)
	assert.False(t, called)
	assert.Equal(t, time.Duration(0), c.Remaining())
}

func TestCountdown_CallbackMayRestart(t *testing.T) {
	var c clock.Countdown
	fired := 0
	var rearm func()
	rearm = func() {
		fired++
		if fired < 3 {
			c.Start(10*time.Millisecond, rearm)
		}
	}
	c.Start(10*time.Millisecond, rearm)
	for i := 0; i < 5; i++ {
		c.Tick(10 * time.Millisecond)
	}
	assert.Equal(t, 3, fired)
}

func TestCountdown_ZeroDurationFiresOnNextTick(t *testing.T) {
	var c clock.Countdown
	called := false
	c.Start(0, func() { called = true })
	assert.True(t, c.Active())
	c.Tick(0)
	assert.True(t, called)
}

func TestPropertyCountdown_FiresExactlyWhenConsumed(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		total := time.Duration(rapid.IntRange(1, 5000).Draw(rt, "total_ms")) * time.Millisecond
		steps := rapid.SliceOfN(rapid.IntRange(1, 500), 1, 50).Draw(rt, "steps_ms")

		var c clock.Countdown
		fired := 0
		c.Start(total, func() { fired++ })

		var elapsed time.Duration
		for _, s := range steps {
			elapsed += time.Duration(s) * time.Millisecond
			c.Tick(time.Duration(s) * time.Millisecond)
			if elapsed >= total {
				assert.Equal(rt, 1, fired)
			} else {
				assert.Equal(rt, 0, fired)
				assert.Equal(rt, total-elapsed, c.Remaining())
			}
		}
	})
}
