package services

import "fmt"

// State is one of the fifteen lifecycle stages of a fact-check submission.
type State string

const (
	StateSubmitted         State = "submitted"
	StateQueued            State = "queued"
	StateAssigned          State = "assigned"
	StateInResearch        State = "in_research"
	StateNeedsMoreResearch State = "needs_more_research"
	StateDraftReady        State = "draft_ready"
	StateAdminReview       State = "admin_review"
	StatePeerReview        State = "peer_review"
	StateFinalApproval     State = "final_approval"
	StatePublished         State = "published"
	StateRejected          State = "rejected"
	StateUnderCorrection   State = "under_correction"
	StateCorrected         State = "corrected"
	StateArchived          State = "archived"
	StateDuplicateDetected State = "duplicate_detected"
)

var canonicalStates = map[State]struct{}{
	StateSubmitted:         {},
	StateQueued:            {},
	StateAssigned:          {},
	StateInResearch:        {},
	StateNeedsMoreResearch: {},
	StateDraftReady:        {},
	StateAdminReview:       {},
	StatePeerReview:        {},
	StateFinalApproval:     {},
	StatePublished:         {},
	StateRejected:          {},
	StateUnderCorrection:   {},
	StateCorrected:         {},
	StateArchived:          {},
	StateDuplicateDetected: {},
}

// legacyStates are the pre-migration 8-state tokens. They survive in old
// workflow_transitions rows, so history reads must still render them, but
// they are never accepted as transition targets.
var legacyStates = map[State]struct{}{
	"pending":        {},
	"in_review":      {},
	"approved":       {},
	"needs_revision": {},
	"on_hold":        {},
	"withdrawn":      {},
	"closed":         {},
	"reopened":       {},
}

// ParseState validates an externally supplied state token. Only the
// fifteen canonical tokens pass; everything else, legacy tokens included,
// is rejected before it can reach the engine.
func ParseState(token string) (State, error) {
	state := State(token)
	if _, ok := canonicalStates[state]; !ok {
		return "", fmt.Errorf("unknown workflow state %q", token)
	}
	return state, nil
}

// ParseStoredState validates a state token read back from the database.
// Legacy tokens are tolerated here so that audit history written before
// the 15-state migration remains readable.
func ParseStoredState(token string) (State, error) {
	state := State(token)
	if _, ok := canonicalStates[state]; ok {
		return state, nil
	}
	if _, ok := legacyStates[state]; ok {
		return state, nil
	}
	return "", fmt.Errorf("corrupt workflow state %q in store", token)
}

func (s State) String() string {
	return string(s)
}
