// Package skill holds the probability model for skill checks: converting a
// stat and a difficulty into a success chance, and resolving a draw against it.
// It is pure apart from the injected dice.Roller.
package skill

import (
	"fmt"
	"strings"
)

// Type identifies which tracked stat a check is made against.
type Type int

const (
	Speech Type = iota
	Scholar
)

// String returns the lowercase name of the skill.
func (t Type) String() string {
	switch t {
	case Speech:
		return "speech"
	case Scholar:
		return "scholar"
	default:
		return fmt.Sprintf("skill(%d)", int(t))
	}
}

// ParseType converts "speech" or "scholar" (case-insensitive) into a Type.
//
// Postcondition: Returns a valid Type or a non-nil error.
func ParseType(s string) (Type, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "speech":
		return Speech, nil
	case "scholar":
		return Scholar, nil
	default:
		return 0, fmt.Errorf("unknown skill type %q (want speech or scholar)", s)
	}
}

// Chance returns the success chance in percent for a stat against a challenge:
// 100 * stat / (stat + challenge), clamped to [0, 100].
//
// Postcondition: result in [0, 100]; monotonically increasing in stat and
// decreasing in challenge for stat >= 0, challenge > 0.
func Chance(stat, challenge float64) float64 {
	if stat < 0 {
		stat = 0
	}
	if challenge < 0 {
		challenge = 0
	}
	if stat+challenge == 0 {
		return 0
	}
	return clampPercent(stat / (stat + challenge) * 100)
}

func clampPercent(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 100:
		return 100
	default:
		return v
	}
}
