package energy_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/votemenot/internal/game/energy"
)

func newPool() *energy.Pool {
	return energy.NewPool(energy.DefaultConfig(), zap.NewNop())
}

func TestNewPool_StartsFull(t *testing.T) {
	p := newPool()
	assert.Equal(t, 10, p.Current())
	assert.Equal(t, energy.LevelFull, p.Level())
	assert.False(t, p.Blinking())
}

func TestNewPool_InvalidConfigPanics(t *testing.T) {
	assert.Panics(t, func() { energy.NewPool(energy.Config{Max: 0}, zap.NewNop()) })
	assert.Panics(t, func() { energy.NewPool(energy.DefaultConfig(), nil) })
}

// hard checks cost 3 and are refused below 3.
func TestPool_HardCostAndRefusal(t *testing.T) {
	p := newPool()
	assert.True(t, p.TryUseHard())
	assert.True(t, p.TryUseHard())
	assert.True(t, p.TryUseHard())
	assert.Equal(t, 1, p.Current())
	assert.False(t, p.TryUseHard())
	assert.Equal(t, 1, p.Current())
}

// tree checks cost 1 and are refused at 0.
func TestPool_TreeCostAndRefusal(t *testing.T) {
	p := energy.NewPool(energy.Config{Max: 2, HardCost: 3, TreeCost: 1, Replenish: 2}, zap.NewNop())
	assert.True(t, p.TryUseTree())
	assert.True(t, p.TryUseTree())
	assert.False(t, p.TryUseTree())
	assert.Equal(t, 0, p.Current())
	assert.Equal(t, energy.LevelEmpty, p.Level())
}

func TestPool_ReplenishSaturates(t *testing.T) {
	p := newPool()
	p.TryUseTree()
	p.Replenish()
	assert.Equal(t, 10, p.Current())
}

func TestPool_LevelsAndBlink(t *testing.T) {
	cases := []struct {
		spend int
		level energy.Level
		blink bool
	}{
		{0, energy.LevelFull, false},
		{3, energy.LevelFull, false},
		{4, energy.LevelMedium, false},
		{6, energy.LevelMedium, false},
		{7, energy.LevelLow, true},
		{9, energy.LevelLow, true},
		{10, energy.LevelEmpty, false},
	}
	for _, tc := range cases {
		p := newPool()
		for i := 0; i < tc.spend; i++ {
			p.TryUseTree()
		}
		assert.Equal(t, tc.level, p.Level(), "spent %d", tc.spend)
		assert.Equal(t, tc.blink, p.Blinking(), "spent %d", tc.spend)
	}
}

func TestPool_NotifiesOnChangeOnly(t *testing.T) {
	p := newPool()
	var got []int
	p.Subscribe(func(c int) { got = append(got, c) })
	p.Replenish()
	p.TryUseHard()
	p.Add(1)
	assert.Equal(t, []int{7, 8}, got)
}

func TestPropertyPool_StaysInRange(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		p := newPool()
		n := rapid.IntRange(1, 60).Draw(rt, "n")
		for i := 0; i < n; i++ {
			before := p.Current()
			switch rapid.IntRange(0, 2).Draw(rt, "op") {
			case 0:
				if !p.TryUseHard() {
					assert.Equal(rt, before, p.Current())
					assert.Less(rt, before, 3)
				}
			case 1:
				if !p.TryUseTree() {
					assert.Equal(rt, before, p.Current())
					assert.Less(rt, before, 1)
				}
			case 2:
				p.Replenish()
			}
			assert.GreaterOrEqual(rt, p.Current(), 0)
			assert.LessOrEqual(rt, p.Current(), 10)
		}
	})
}
