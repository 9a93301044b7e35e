package handlers

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cory-johannsen/votemenot/internal/frontend/telnet"
	"github.com/cory-johannsen/votemenot/internal/game/command"
	"github.com/cory-johannsen/votemenot/internal/game/consumable"
	"github.com/cory-johannsen/votemenot/internal/game/encounter"
	"github.com/cory-johannsen/votemenot/internal/game/energy"
	"github.com/cory-johannsen/votemenot/internal/game/ethics"
	"github.com/cory-johannsen/votemenot/internal/game/skill"
)

const welcomeBanner = "\r\n" + telnet.Bold + telnet.BrightCyan + `  V O T E   M E   N O T` + telnet.Reset + "\r\n\r\n" +
	telnet.BrightYellow + `  The candidates are waiting. Hear them out, then decide.` + telnet.Reset + "\r\n\r\n" +
	`  Type ` + telnet.Green + `help` + telnet.Reset + ` for commands, ` + telnet.Green + `quit` + telnet.Reset + ` to leave.` + "\r\n"

// RenderSpeakerHeader formats the banner shown when a politician steps up.
func RenderSpeakerHeader(v encounter.View) string {
	return telnet.Colorf(telnet.Bold+telnet.BrightYellow, "=== %s (%d of %d) ===", v.SpeakerName, v.SpeakerIndex+1, v.SpeakerCount)
}

// RenderClaims formats the numbered claim list. Sealed claims show how to open them.
func RenderClaims(v encounter.View) string {
	var b strings.Builder
	b.WriteString(telnet.Colorize(telnet.Cyan, "Claims:"))
	b.WriteString("\r\n")
	if len(v.Claims) == 0 {
		b.WriteString(telnet.Colorize(telnet.Dim, "  This speaker makes no claims."))
		b.WriteString("\r\n")
		return b.String()
	}
	for _, c := range v.Claims {
		if c.Unlocked {
			fmt.Fprintf(&b, "  %s%d)%s %s\r\n", telnet.BrightCyan, c.Index+1, telnet.Reset, c.Label)
			continue
		}
		fmt.Fprintf(&b, "  %s%d) sealed - inspect %d to study the dossier%s\r\n", telnet.Dim, c.Index+1, c.Index+1, telnet.Reset)
	}
	return b.String()
}

// RenderMenu formats the response menu for the selected claim.
func RenderMenu(v encounter.View) string {
	var b strings.Builder
	b.WriteString(telnet.Colorf(telnet.Cyan, "Claim: %s", v.ClaimLabel))
	b.WriteString("\r\n")
	for _, e := range v.Menu {
		if !e.Enabled {
			fmt.Fprintf(&b, "  %s%-9s %s (spent)%s\r\n", telnet.Dim, e.Entry, e.Label, telnet.Reset)
			continue
		}
		fmt.Fprintf(&b, "  %s%-9s%s %s\r\n", telnet.BrightCyan, e.Entry, telnet.Reset, e.Label)
	}
	return b.String()
}

// RenderOptions formats the answers at the current question-tree node.
func RenderOptions(v encounter.View) string {
	var b strings.Builder
	for _, o := range v.Options {
		text := o.Text
		if o.SkillCheck {
			text += telnet.Colorf(telnet.Magenta, " [%s]", o.Skill)
		}
		if o.Disabled {
			fmt.Fprintf(&b, "  %s%d) %s (tried)%s\r\n", telnet.Dim, o.Index+1, telnet.StripANSI(text), telnet.Reset)
			continue
		}
		fmt.Fprintf(&b, "  %s%d)%s %s\r\n", telnet.BrightCyan, o.Index+1, telnet.Reset, text)
	}
	return b.String()
}

// RenderVerdictPanel formats the accept/reject choice.
func RenderVerdictPanel(v encounter.View) string {
	return telnet.Colorf(telnet.BrightWhite, "Verdict on %s: ", v.SpeakerName) +
		telnet.Colorize(telnet.Green, "accept") + " or " + telnet.Colorize(telnet.Red, "reject") +
		telnet.Colorize(telnet.Dim, " (verdict to close)")
}

// RenderPanel formats whatever the player can act on in the current state.
func RenderPanel(v encounter.View) string {
	switch {
	case v.State == encounter.StateFinished:
		return ""
	case v.Verdict:
		return RenderVerdictPanel(v) + "\r\n"
	case v.State == encounter.StateClaimSelection:
		return RenderClaims(v)
	case v.State == encounter.StateQuestion && len(v.Options) > 0:
		return RenderOptions(v)
	case v.State == encounter.StateDialogueMenu:
		return RenderMenu(v)
	case v.State == encounter.StateIdle:
		return telnet.Colorize(telnet.Dim, "interrogate to review claims, verdict to decide.") + "\r\n"
	default:
		return ""
	}
}

func energyColor(l energy.Level) string {
	switch l {
	case energy.LevelFull:
		return telnet.BrightGreen
	case energy.LevelMedium:
		return telnet.Yellow
	default:
		return telnet.BrightRed
	}
}

func bandColor(b ethics.Band) string {
	switch b {
	case ethics.Good:
		return telnet.BrightGreen
	case ethics.Evil:
		return telnet.BrightRed
	default:
		return telnet.White
	}
}

// RenderEnergy formats the energy gauge; it blinks when nearly spent.
func RenderEnergy(e encounter.EnergyView) string {
	color := energyColor(e.Level)
	if e.Blinking {
		color += telnet.Blink
	}
	return fmt.Sprintf("Energy  %s %d/%d", telnet.Colorize(color, telnet.Bar(e.Current, e.Max, e.Max)), e.Current, e.Max)
}

// RenderEthics formats the ethics meter.
func RenderEthics(e encounter.EthicsView) string {
	return fmt.Sprintf("Ethics  %s %d", telnet.Colorize(bandColor(e.Band), telnet.Bar(e.Score, 100, 20)), e.Score)
}

func percent(p int) string {
	if p >= 0 {
		return fmt.Sprintf("+%d%%", p)
	}
	return fmt.Sprintf("%d%%", p)
}

// RenderStats formats stats, modifiers, energy, ethics, and bottles.
//
// Postcondition: Returns a multi-line block; effective stats include every active modifier.
func RenderStats(v encounter.View, bottles int) string {
	s := v.Stats
	var b strings.Builder
	b.WriteString(telnet.Colorize(telnet.BrightWhite, "=== Stats ==="))
	b.WriteString("\r\n")
	fmt.Fprintf(&b, "  Speech   %3d  (base %d, speaker %s)\r\n", s.EffectiveSpeech, s.BaseSpeech, percent(s.NPCSpeechPercent))
	fmt.Fprintf(&b, "  Scholar  %3d  (base %d, speaker %s)\r\n", s.EffectiveScholar, s.BaseScholar, percent(s.NPCScholarPercent))
	if s.BoostRemaining > 0 {
		b.WriteString(telnet.Colorf(telnet.BrightGreen, "  Boost %s for %s", percent(s.BoostPercent), s.BoostRemaining.Round(time.Second)))
		b.WriteString("\r\n")
	}
	if s.DebuffActive {
		b.WriteString(telnet.Colorf(telnet.BrightRed, "  Rattled: speech %s, scholar %s for %s",
			percent(-s.DebuffSpeechPercent), percent(-s.DebuffScholarPercent), s.DebuffRemaining.Round(time.Second)))
		b.WriteString("\r\n")
	}
	b.WriteString("  " + RenderEnergy(v.Energy) + "\r\n")
	b.WriteString("  " + RenderEthics(v.Ethics) + "\r\n")
	fmt.Fprintf(&b, "  Bottles  %d\r\n", bottles)
	return b.String()
}

// RenderOutcome formats a resolved skill check.
func RenderOutcome(o skill.Outcome) string {
	label := "Hard check"
	if o.Kind == skill.KindTree {
		label = "Check"
	}
	if o.Success {
		return telnet.Colorf(telnet.BrightGreen, "[%s: %s %.1f%%] Success.", label, o.Skill, o.Chance)
	}
	return telnet.Colorf(telnet.BrightRed, "[%s: %s %.1f%%] Failure.", label, o.Skill, o.Chance)
}

// RenderHelp formats the command list grouped by category.
func RenderHelp(reg *command.Registry) string {
	var b strings.Builder
	for _, sec := range reg.Sections() {
		cat := sec.Category
		b.WriteString(telnet.Colorize(telnet.Cyan, strings.ToUpper(cat[:1])+cat[1:]))
		b.WriteString("\r\n")
		for _, c := range sec.Commands {
			fmt.Fprintf(&b, "  %s%-14s%s %s\r\n", telnet.BrightCyan, c.Usage, telnet.Reset, c.Help)
		}
	}
	b.WriteString(telnet.Colorize(telnet.Dim, "A bare number picks from the list on screen; commands may be shortened to three letters."))
	b.WriteString("\r\n")
	return b.String()
}

// RenderSummary formats the closing screen after the last verdict.
func RenderSummary(e encounter.EthicsView) string {
	var msg string
	switch e.Band {
	case ethics.Good:
		msg = "Your picks will serve the people well."
	case ethics.Evil:
		msg = "You let the wrong people through."
	default:
		msg = "A mixed record. Time will tell."
	}
	return telnet.Colorize(telnet.Bold+telnet.BrightWhite, "=== The hearings are over ===") + "\r\n" +
		RenderEthics(e) + "\r\n" +
		telnet.Colorize(bandColor(e.Band), msg) + "\r\n"
}

// RenderPrompt formats the input prompt.
func RenderPrompt(v encounter.View) string {
	if v.SpeakerName == "" {
		return telnet.Colorize(telnet.BrightCyan, "> ")
	}
	return telnet.Colorf(telnet.BrightCyan, "[%s E:%d/%d]> ", v.SpeakerName, v.Energy.Current, v.Energy.Max)
}

// RenderError translates a rejected action into a player-facing line.
func RenderError(err error) string {
	var msg string
	switch {
	case errors.Is(err, encounter.ErrInsufficientEnergy):
		msg = "You are too drained for that. A verdict restores some energy."
	case errors.Is(err, encounter.ErrTransitionInFlight):
		msg = "The next speaker is on their way in."
	case errors.Is(err, encounter.ErrRosterExhausted):
		msg = "There is no one left to hear."
	case errors.Is(err, encounter.ErrClaimLocked):
		msg = "That claim is sealed. Inspect the dossier first."
	case errors.Is(err, encounter.ErrInvalidClaim):
		msg = "There is no such claim."
	case errors.Is(err, encounter.ErrOptionDisabled):
		msg = "You already tried that."
	case errors.Is(err, encounter.ErrInvalidOption):
		msg = "That is not one of the answers."
	case errors.Is(err, encounter.ErrUnavailable):
		msg = "You can't do that right now."
	case errors.Is(err, consumable.ErrEmpty):
		msg = "Your bottles are all gone."
	default:
		msg = err.Error()
	}
	return telnet.Colorize(telnet.Red, msg)
}
