package dialogue

import (
	"errors"
	"fmt"
)

var (
	// ErrNotActive is returned when the cursor is not inside a tree.
	ErrNotActive = errors.New("no active question tree")
	// ErrOptionOutOfRange is returned for an option index the node does not have.
	ErrOptionOutOfRange = errors.New("option out of range")
	// ErrOptionDisabled is returned for a skill option already attempted on this node visit.
	ErrOptionDisabled = errors.New("option already attempted")
)

// Transition describes the result of following an option.
type Transition struct {
	From int
	// To is the node after the step, or -1 when the tree was exited.
	To    int
	Exit  bool
	Moved bool
}

// Cursor tracks the current node of a tree and which skill options have been
// attempted during the current node visit.
//
// Invariant: the disabled mask is reset only when the node index changes.
type Cursor struct {
	tree     *Tree
	node     int
	disabled []bool
}

// NewCursor returns an inactive cursor.
func NewCursor() *Cursor {
	return &Cursor{node: -1}
}

// Enter starts traversal of tree at node 0.
//
// Precondition: tree.Validate() == nil.
func (c *Cursor) Enter(tree *Tree) {
	c.tree = tree
	c.moveTo(0)
}

// Reset leaves any active tree.
func (c *Cursor) Reset() {
	c.tree = nil
	c.node = -1
	c.disabled = nil
}

// Active reports whether the cursor is inside a tree.
func (c *Cursor) Active() bool { return c.tree != nil && c.node >= 0 }

// Index returns the current node index, or -1.
func (c *Cursor) Index() int { return c.node }

// Node returns the current node, or nil when inactive.
func (c *Cursor) Node() *Node {
	if !c.Active() {
		return nil
	}
	return &c.tree.Nodes[c.node]
}

// Disabled reports whether option i was attempted during this node visit.
func (c *Cursor) Disabled(i int) bool {
	return i >= 0 && i < len(c.disabled) && c.disabled[i]
}

// Option returns option i of the current node if it is selectable.
func (c *Cursor) Option(i int) (Option, error) {
	node := c.Node()
	if node == nil {
		return Option{}, ErrNotActive
	}
	if i < 0 || i >= len(node.Options) {
		return Option{}, fmt.Errorf("%w: %d of %d", ErrOptionOutOfRange, i, len(node.Options))
	}
	if c.disabled[i] {
		return Option{}, fmt.Errorf("%w: %d", ErrOptionDisabled, i)
	}
	return node.Options[i], nil
}

// MarkAttempted disables option i for the rest of this node visit.
func (c *Cursor) MarkAttempted(i int) {
	if i >= 0 && i < len(c.disabled) {
		c.disabled[i] = true
	}
}

// Follow applies option i's link: option 0 on an exit node leaves the tree,
// a non-negative Next moves there, and Stay keeps the node and its mask.
//
// Precondition: Option(i) succeeded before narration started.
func (c *Cursor) Follow(i int) Transition {
	node := c.Node()
	if node == nil || i < 0 || i >= len(node.Options) {
		return Transition{From: c.node, To: c.node}
	}
	from := c.node
	if node.Exit && i == 0 {
		c.Reset()
		return Transition{From: from, To: -1, Exit: true}
	}
	next := node.Options[i].Next
	if next == Stay || next == from {
		return Transition{From: from, To: from}
	}
	c.moveTo(next)
	return Transition{From: from, To: next, Moved: true}
}

func (c *Cursor) moveTo(n int) {
	c.node = n
	c.disabled = make([]bool, len(c.tree.Nodes[n].Options))
}
