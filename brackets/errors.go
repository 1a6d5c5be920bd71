package brackets

import "errors"

// Engine errors. Validation errors are recoverable and reported to the
// caller; graph-consistency errors mean generation or progression was
// applied out of order and the phase needs operator attention.
var (
	ErrNotEnoughParticipants = errors.New("not enough participants for this format")
	ErrUnknownFormat         = errors.New("unknown bracket format")
	ErrInvalidScore          = errors.New("invalid score submission")
	ErrDrawNotAllowed        = errors.New("draws are only allowed in round robin")
	ErrMatchAlreadyCompleted = errors.New("match is already completed")
	ErrMatchNotCompleted     = errors.New("match has no result to retract")
	ErrMatchNotReady         = errors.New("match slots are not filled yet")
	ErrMatchNotFound         = errors.New("target match not found in bracket graph")
	ErrSlotAlreadyFilled     = errors.New("target slot already holds a participant")
	ErrRegenerationLocked    = errors.New("bracket is locked: a match result has been reported")
	ErrResultLocked          = errors.New("result cannot be retracted: a downstream match already completed")
)
