package skill_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/votemenot/internal/game/dice"
	"github.com/cory-johannsen/votemenot/internal/game/skill"
)

type fixedSource struct{ v int }

func (f fixedSource) Intn(n int) int {
	if f.v >= n {
		return n - 1
	}
	return f.v
}

func resolverWithBucket(bucket int) *skill.Resolver {
	roller := dice.NewLoggedRoller(fixedSource{v: bucket}, zap.NewNop())
	return skill.NewResolver(skill.DefaultCheckRules(), roller)
}

func TestParseType(t *testing.T) {
	st, err := skill.ParseType("Speech")
	require.NoError(t, err)
	assert.Equal(t, skill.Speech, st)
	st, err = skill.ParseType(" scholar ")
	require.NoError(t, err)
	assert.Equal(t, skill.Scholar, st)
	_, err = skill.ParseType("charisma")
	assert.Error(t, err)
}

func TestChance_Formula(t *testing.T) {
	assert.InDelta(t, 37.5, skill.Chance(60, 100), 1e-9)
	assert.InDelta(t, 50.0, skill.Chance(100, 100), 1e-9)
	assert.Equal(t, 0.0, skill.Chance(0, 100))
	assert.Equal(t, 0.0, skill.Chance(0, 0))
}

// effective stat 60 against challenge 100 gives 37.5%, and the
// hard-check penalty brings it to 17.5%.
func TestScenarioA_HardPenalty(t *testing.T) {
	rules := skill.DefaultCheckRules()
	assert.InDelta(t, 17.5, rules.HardCheckChance(60, 100, false), 1e-9)
}

// a boost on a penalized chance below 50 adds 30.
func TestScenarioB_BoostBelowPivot(t *testing.T) {
	rules := skill.DefaultCheckRules()
	assert.InDelta(t, 47.5, rules.HardCheckChance(60, 100, true), 1e-9)
}

func TestHardCheckChance_BoostAtOrAbovePivotAddsFifteen(t *testing.T) {
	rules := skill.DefaultCheckRules()
	// 700/(700+100) = 87.5 - 20 = 67.5 → +15 = 82.5
	assert.InDelta(t, 82.5, rules.HardCheckChance(700, 100, true), 1e-9)
	// exactly 50 after penalty takes the high branch: 70/(70+30)=70 - 20 = 50 → 65
	assert.InDelta(t, 65.0, rules.HardCheckChance(70, 30, true), 1e-9)
}

func TestHardCheckChance_PenaltyClampsAtZero(t *testing.T) {
	rules := skill.DefaultCheckRules()
	// 10/(10+100) ≈ 9.09 - 20 → 0
	assert.Equal(t, 0.0, rules.HardCheckChance(10, 100, false))
	assert.InDelta(t, 30.0, rules.HardCheckChance(10, 100, true), 1e-9)
}

func TestTreeCheckChance(t *testing.T) {
	rules := skill.DefaultCheckRules()
	assert.InDelta(t, 37.5, rules.TreeCheckChance(60, 100, false), 1e-9)
	assert.InDelta(t, 62.5, rules.TreeCheckChance(60, 100, true), 1e-9)
	assert.Equal(t, 100.0, rules.TreeCheckChance(900, 100, true))
}

// lastBucketBelow17_5 is the highest bucket whose draw is under 17.5.
const lastBucketBelow17_5 = dice.PercentResolution * 7 / 40

func TestResolver_HardSucceedsBelowChance(t *testing.T) {
	out := resolverWithBucket(lastBucketBelow17_5).Hard(skill.Speech, 60, 100, false)
	assert.Equal(t, skill.KindHard, out.Kind)
	assert.InDelta(t, 17.5, out.Chance, 1e-9)
	assert.True(t, out.Success)
}

func TestResolver_HardFailsFromChanceUp(t *testing.T) {
	out := resolverWithBucket(lastBucketBelow17_5 + 1).Hard(skill.Speech, 60, 100, false)
	assert.False(t, out.Success)
}

func TestResolver_TreeRecordsInputs(t *testing.T) {
	out := resolverWithBucket(0).Tree(skill.Scholar, 60, 100, true)
	assert.Equal(t, skill.KindTree, out.Kind)
	assert.Equal(t, skill.Scholar, out.Skill)
	assert.Equal(t, 60, out.Stat)
	assert.True(t, out.Boosted)
	assert.InDelta(t, 62.5, out.Chance, 1e-9)
	assert.True(t, out.Success)
	assert.Contains(t, out.String(), "SUCCEEDED")
}

// chance == 100*stat/(stat+challenge), within [0,100].
func TestPropertyChance_Formula(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		stat := rapid.Float64Range(0, 10000).Draw(rt, "stat")
		challenge := rapid.Float64Range(0.001, 10000).Draw(rt, "challenge")
		c := skill.Chance(stat, challenge)
		assert.InDelta(rt, 100*stat/(stat+challenge), c, 1e-9)
		assert.GreaterOrEqual(rt, c, 0.0)
		assert.LessOrEqual(rt, c, 100.0)
	})
}

// monotone increasing in stat, decreasing in challenge.
func TestPropertyChance_Monotonic(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		stat := rapid.Float64Range(0, 1000).Draw(rt, "stat")
		challenge := rapid.Float64Range(0.001, 1000).Draw(rt, "challenge")
		more := rapid.Float64Range(0, 1000).Draw(rt, "more")
		assert.GreaterOrEqual(rt, skill.Chance(stat+more, challenge), skill.Chance(stat, challenge))
		assert.LessOrEqual(rt, skill.Chance(stat, challenge+more), skill.Chance(stat, challenge))
	})
}

func TestPropertyCheckChances_StayInRange(t *testing.T) {
	rules := skill.DefaultCheckRules()
	rapid.Check(t, func(rt *rapid.T) {
		stat := rapid.Float64Range(0, 5000).Draw(rt, "stat")
		challenge := rapid.Float64Range(0.001, 5000).Draw(rt, "challenge")
		boosted := rapid.Bool().Draw(rt, "boosted")
		for _, c := range []float64{
			rules.HardCheckChance(stat, challenge, boosted),
			rules.TreeCheckChance(stat, challenge, boosted),
		} {
			assert.GreaterOrEqual(rt, c, 0.0)
			assert.LessOrEqual(rt, c, 100.0)
		}
	})
}
