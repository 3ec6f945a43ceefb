package services

import (
	"errors"
	"fmt"
)

// Sentinel errors for the workflow taxonomy. All are caller-recoverable
// and never indicate corruption.
var (
	// ErrSubmissionNotFound means the submission id resolved to no row.
	ErrSubmissionNotFound = errors.New("submission not found")

	// ErrConflict means a concurrent transition won the race; the caller
	// should reload the submission and may retry once against the
	// refreshed state.
	ErrConflict = errors.New("submission was modified concurrently")

	// ErrConsensusNotReached blocks peer_review -> final_approval until
	// every assigned peer review row is approved.
	ErrConsensusNotReached = errors.New("peer review consensus not reached")
)

// InvalidTransitionError reports a (from, to) pair absent from the
// transition graph. It signals a stale UI or a client bug, never a
// permission problem.
type InvalidTransitionError struct {
	From State
	To   State
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid workflow transition %s -> %s", e.From, e.To)
}

// PermissionDeniedError reports a graph-legal transition the actor is not
// allowed to initiate, kept distinct from InvalidTransitionError so
// callers can tell "impossible" from "forbidden".
type PermissionDeniedError struct {
	ActorID int
	From    State
	To      State
}

func (e *PermissionDeniedError) Error() string {
	return fmt.Sprintf("actor %d may not transition %s -> %s", e.ActorID, e.From, e.To)
}
