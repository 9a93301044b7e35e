package encounter

import (
	"github.com/cory-johannsen/votemenot/internal/game/energy"
	"github.com/cory-johannsen/votemenot/internal/game/ethics"
	"github.com/cory-johannsen/votemenot/internal/game/modifier"
	"github.com/cory-johannsen/votemenot/internal/game/politician"
	"github.com/cory-johannsen/votemenot/internal/game/skill"
)

// ClaimView is one row of the claim list.
type ClaimView struct {
	Index    int
	Label    string
	Unlocked bool
}

// EntryView is one row of the claim response menu.
type EntryView struct {
	Entry   MenuEntry
	Label   string
	Enabled bool
}

// OptionView is one row of the current question-tree node.
type OptionView struct {
	Index      int
	Text       string
	SkillCheck bool
	Skill      skill.Type
	Disabled   bool
}

// EnergyView is the energy display state.
type EnergyView struct {
	Current  int
	Max      int
	Level    energy.Level
	Blinking bool
}

// EthicsView is the ethics meter state.
type EthicsView struct {
	Score int
	Band  ethics.Band
}

// View is a read-only snapshot for frontends.
type View struct {
	State   State
	Ready   bool
	Verdict bool

	SpeakerIndex int
	SpeakerCount int
	SpeakerID    string
	SpeakerName  string
	Affiliation  politician.Affiliation
	HardSkill    skill.Type

	Claims []ClaimView
	// Claim is the selected claim index, or -1.
	Claim      int
	ClaimLabel string
	Menu       []EntryView
	Node       int
	Options    []OptionView

	Energy  EnergyView
	Ethics  EthicsView
	Stats   modifier.Snapshot
	Outcome *skill.Outcome
}

// View returns the current encounter snapshot.
func (c *Controller) View() View {
	v := View{
		State:        c.state,
		Ready:        c.ready,
		Verdict:      c.verdict,
		SpeakerIndex: c.speaker,
		SpeakerCount: c.roster.Len(),
		Claim:        c.claim,
		Node:         c.cursor.Index(),
		Energy: EnergyView{
			Current:  c.energy.Current(),
			Max:      c.energy.Max(),
			Level:    c.energy.Level(),
			Blinking: c.energy.Blinking(),
		},
		Ethics: EthicsView{Score: c.ethics.Score(), Band: c.ethics.Band()},
		Stats:  c.ledger.Snapshot(),
	}
	if c.lastOutcome != nil {
		o := *c.lastOutcome
		v.Outcome = &o
	}
	p := c.Speaker()
	if p == nil {
		return v
	}
	v.SpeakerID = p.ID
	v.SpeakerName = p.Name
	v.Affiliation = p.Affiliation
	v.HardSkill = p.HardSkill
	for i, cl := range p.Claims {
		v.Claims = append(v.Claims, ClaimView{Index: i, Label: cl.Label, Unlocked: p.ClaimUnlocked(i)})
	}
	if p.ValidClaim(c.claim) {
		cl := p.Claims[c.claim]
		v.ClaimLabel = cl.Label
		labels := []struct {
			e     MenuEntry
			label string
		}{
			{EntryAgree, cl.AgreeLabel},
			{EntryQuestion, cl.QuestionLabel},
			{EntryHardCheck, cl.HardCheckLabel},
			{EntryConverse, cl.ConverseLabel},
		}
		for _, l := range labels {
			v.Menu = append(v.Menu, EntryView{Entry: l.e, Label: l.label, Enabled: !c.locks.locked(l.e)})
		}
	}
	if node := c.cursor.Node(); node != nil {
		for i, o := range node.Options {
			v.Options = append(v.Options, OptionView{
				Index:      i,
				Text:       o.Text,
				SkillCheck: o.SkillCheck,
				Skill:      o.Skill,
				Disabled:   c.cursor.Disabled(i),
			})
		}
	}
	return v
}
