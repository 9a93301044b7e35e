package encounter_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/votemenot/internal/game/encounter"
	"github.com/cory-johannsen/votemenot/internal/game/energy"
	"github.com/cory-johannsen/votemenot/internal/game/politician"
)

// Random input never breaks the encounter's invariants.
func TestPropertyController_RandomInput(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		bucket := rapid.SampledFrom([]int{alwaysHit, alwaysMiss}).Draw(rt, "bucket")
		h := newHarness(rt, bucket, energy.DefaultConfig(),
			speaker("a", politician.Good), speaker("b", politician.Evil), speaker("c", politician.Neutral))
		_ = h.c.Start()
		steps := rapid.IntRange(1, 80).Draw(rt, "steps")
		for i := 0; i < steps; i++ {
			before := h.energy.Current()
			scoreBefore := h.ethics.Score()
			stateBefore := h.c.View().State
			var err error
			switch rapid.IntRange(0, 13).Draw(rt, "op") {
			case 0:
				err = h.c.Interrogate()
			case 1:
				err = h.c.UnlockClaim(rapid.IntRange(-1, 2).Draw(rt, "claim"))
			case 2:
				err = h.c.SelectClaim(rapid.IntRange(-1, 2).Draw(rt, "claim"))
			case 3:
				err = h.c.Agree()
			case 4:
				err = h.c.Question()
			case 5:
				err = h.c.HardSkillCheck()
			case 6:
				err = h.c.Converse()
			case 7:
				err = h.c.SelectOption(rapid.IntRange(-1, 3).Draw(rt, "option"))
			case 8:
				err = h.c.ToggleVerdict()
			case 9:
				if rapid.Bool().Draw(rt, "accept") {
					err = h.c.Accept()
				} else {
					err = h.c.Reject()
				}
			case 10:
				err = h.c.ApplyBottleBoost(35, time.Minute)
			case 11:
				h.c.Tick(time.Duration(rapid.IntRange(1, 2000).Draw(rt, "ms")) * time.Millisecond)
			default:
				h.player.finish()
			}
			if err != nil {
				assert.Equal(rt, before, h.energy.Current(), "failed operations leave energy untouched")
				assert.Equal(rt, scoreBefore, h.ethics.Score(), "failed operations leave ethics untouched")
				assert.Equal(rt, stateBefore, h.c.View().State, "failed operations leave the state untouched")
			}
			assert.GreaterOrEqual(rt, h.energy.Current(), 0)
			assert.LessOrEqual(rt, h.energy.Current(), 10)
			assert.False(rt, h.ledger.BoostActive() && h.ledger.DebuffActive())
			v := h.c.View()
			if v.Node >= 0 {
				assert.Equal(rt, encounter.StateQuestion, v.State)
			}
			if v.State == encounter.StateFinished {
				assert.Empty(rt, v.SpeakerID)
			}
		}
	})
}
