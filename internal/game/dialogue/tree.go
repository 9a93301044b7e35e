package dialogue

import (
	"errors"
	"fmt"

	"github.com/cory-johannsen/votemenot/internal/game/skill"
)

// Stay is the Next value that keeps traversal on the current node.
const Stay = -1

const (
	MinOptions = 2
	MaxOptions = 4
)

// Option is one selectable answer at a node.
type Option struct {
	Text string
	// SkillCheck marks the option as a tree check of type Skill.
	SkillCheck bool
	Skill      skill.Type
	// Next is the node index to move to after narration, or Stay.
	Next int
	// Response plays for a non-skill option.
	Response Content
	// Success and Failure play for a skill option depending on the outcome.
	Success Content
	Failure Content
}

// Node is one step in a question tree.
type Node struct {
	// Prompt plays when the node is entered.
	Prompt  Content
	Options []Option
	// Exit means option 0 leaves the tree.
	Exit bool
}

// Tree is a speaker's branching question tree for one claim. Cycles are allowed.
type Tree struct {
	Nodes []Node
}

// Validate checks option counts, that every link stays inside the tree, and
// that an exit node is reachable from node 0.
func (t *Tree) Validate() error {
	if t == nil || len(t.Nodes) == 0 {
		return errors.New("question tree has no nodes")
	}
	var errs []error
	exits := 0
	for n, node := range t.Nodes {
		if node.Exit {
			exits++
		}
		if len(node.Options) < MinOptions || len(node.Options) > MaxOptions {
			errs = append(errs, fmt.Errorf("node %d: has %d options, want %d-%d", n, len(node.Options), MinOptions, MaxOptions))
		}
		for o, opt := range node.Options {
			if opt.Next != Stay && (opt.Next < 0 || opt.Next >= len(t.Nodes)) {
				errs = append(errs, fmt.Errorf("node %d option %d: next %d out of range [-1, %d)", n, o, opt.Next, len(t.Nodes)))
			}
			if opt.SkillCheck && opt.Skill != skill.Speech && opt.Skill != skill.Scholar {
				errs = append(errs, fmt.Errorf("node %d option %d: invalid skill %v", n, o, opt.Skill))
			}
		}
	}
	switch {
	case exits == 0:
		errs = append(errs, errors.New("question tree has no exit node"))
	case !t.exitReachable():
		errs = append(errs, errors.New("question tree has no exit node reachable from node 0"))
	}
	return errors.Join(errs...)
}

// exitReachable walks Option.Next links breadth-first from node 0.
func (t *Tree) exitReachable() bool {
	seen := make([]bool, len(t.Nodes))
	seen[0] = true
	queue := []int{0}
	for len(queue) > 0 {
		n := queue[0]
		queue = queue[1:]
		if t.Nodes[n].Exit {
			return true
		}
		for _, opt := range t.Nodes[n].Options {
			if opt.Next < 0 || opt.Next >= len(t.Nodes) || seen[opt.Next] {
				continue
			}
			seen[opt.Next] = true
			queue = append(queue, opt.Next)
		}
	}
	return false
}
