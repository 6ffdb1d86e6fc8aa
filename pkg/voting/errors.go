package voting

import "errors"

var (
	// Session-level conflicts surfaced to the operator.
	ErrNoKeypadsSelected   = errors.New("no keypads selected")
	ErrAnotherVotingActive = errors.New("another voting is active")
	ErrUnknownPoll         = errors.New("unknown poll")

	// Callback-level rejections; logged, never surfaced to the device.
	ErrUnknownKeypad       = errors.New("unknown keypad")
	ErrInvalidValue        = errors.New("invalid vote value")
	ErrNoActiveSession     = errors.New("no active voting session for this target")
	ErrAnonymousNotAllowed = errors.New("anonymous keypads cannot be added to the list of speakers")

	// Result staleness: queried target is neither active nor most recent.
	ErrStaleResult = errors.New("result does not belong to the current or last voting")
)
