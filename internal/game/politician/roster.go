package politician

import "fmt"

// Roster is the ordered sequence of speakers for one playthrough.
type Roster struct {
	speakers []*Politician
}

// NewRoster creates a roster in the given order.
//
// Precondition: ids are unique.
func NewRoster(speakers []*Politician) (*Roster, error) {
	seen := make(map[string]bool, len(speakers))
	for _, p := range speakers {
		if p == nil {
			return nil, fmt.Errorf("roster: nil politician")
		}
		if seen[p.ID] {
			return nil, fmt.Errorf("roster: duplicate politician id %q", p.ID)
		}
		seen[p.ID] = true
		p.ensureState()
	}
	return &Roster{speakers: speakers}, nil
}

// Len returns the number of speakers.
func (r *Roster) Len() int { return len(r.speakers) }

// At returns speaker i, or nil when out of range.
func (r *Roster) At(i int) *Politician {
	if i < 0 || i >= len(r.speakers) {
		return nil
	}
	return r.speakers[i]
}

// Clone returns a roster with independent claim state for a new session.
func (r *Roster) Clone() *Roster {
	out := make([]*Politician, len(r.speakers))
	for i, p := range r.speakers {
		out[i] = p.clone()
	}
	return &Roster{speakers: out}
}
