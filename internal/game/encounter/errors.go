package encounter

import "errors"

var (
	// ErrInsufficientEnergy is returned when a skill check cannot be paid for.
	ErrInsufficientEnergy = errors.New("not enough energy")
	// ErrTransitionInFlight is returned while the speaker transition is running.
	ErrTransitionInFlight = errors.New("speaker transition in progress")
	// ErrRosterExhausted is returned once every speaker has been decided.
	ErrRosterExhausted = errors.New("no speakers remain")
	// ErrInvalidClaim is returned for a claim index the speaker does not have.
	ErrInvalidClaim = errors.New("invalid claim")
	// ErrClaimLocked is returned when selecting a claim that is not unlocked.
	ErrClaimLocked = errors.New("claim is locked")
	// ErrInvalidOption is returned for an option index the current node does not have.
	ErrInvalidOption = errors.New("invalid option")
	// ErrOptionDisabled is returned for a skill option already attempted on this node visit.
	ErrOptionDisabled = errors.New("option disabled")
	// ErrUnavailable is returned when an operation is not valid in the current state.
	ErrUnavailable = errors.New("not available right now")
)
