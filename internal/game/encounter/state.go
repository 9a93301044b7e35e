package encounter

import "fmt"

// State is the top-level encounter state.
type State int

const (
	StateIdle State = iota
	StateClaimSelection
	StateDialogueMenu
	StateAgree
	StateQuestion
	StateHardCheck
	StateConversation
	StateTransition
	StateFinished
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateClaimSelection:
		return "claim-selection"
	case StateDialogueMenu:
		return "dialogue-menu"
	case StateAgree:
		return "agree"
	case StateQuestion:
		return "question"
	case StateHardCheck:
		return "hard-check"
	case StateConversation:
		return "conversation"
	case StateTransition:
		return "transition"
	case StateFinished:
		return "finished"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// MenuEntry identifies a claim response menu entry.
type MenuEntry int

const (
	EntryAgree MenuEntry = iota
	EntryQuestion
	EntryHardCheck
	EntryConverse
)

func (e MenuEntry) String() string {
	switch e {
	case EntryAgree:
		return "agree"
	case EntryQuestion:
		return "question"
	case EntryHardCheck:
		return "check"
	case EntryConverse:
		return "converse"
	default:
		return fmt.Sprintf("entry(%d)", int(e))
	}
}

// cycleLocks records which single-use entries were spent since the claim was selected.
type cycleLocks struct {
	agree    bool
	question bool
	hard     bool
}

func (l cycleLocks) locked(e MenuEntry) bool {
	switch e {
	case EntryAgree:
		return l.agree
	case EntryQuestion:
		return l.question
	case EntryHardCheck:
		return l.hard
	default:
		return false
	}
}
