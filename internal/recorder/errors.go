package recorder

import "errors"

// Sentinel errors for rejected commands. A rejected command never changes the
// session it was applied to.
var (
	ErrInvalidInput         = errors.New("invalid input")
	ErrThresholdReached     = errors.New("win threshold already reached")
	ErrEntryInProgress      = errors.New("a score entry is in progress")
	ErrNoPendingEntry       = errors.New("no pending score entry")
	ErrNotAwaitingTechnique = errors.New("score entry is not awaiting a technique")
	ErrNothingToUndo        = errors.New("score log is empty")
	ErrTeamMatchComplete    = errors.New("all team positions are resolved")
	ErrTeamMatchIncomplete  = errors.New("team match has unresolved positions")
)
