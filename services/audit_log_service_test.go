package services

import (
	"database/sql/driver"
	"regexp"
	"testing"

	"factcheck-workflow-api/models"
)

func transitionRow(id int, from *string, to string) models.WorkflowTransition {
	return models.WorkflowTransition{
		TransitionID: id,
		SubmissionID: 1,
		FromState:    from,
		ToState:      to,
		ActorID:      3,
	}
}

func statePtr(value string) *string {
	return &value
}

func TestReplayReconstructsCurrentState(t *testing.T) {
	transitions := []models.WorkflowTransition{
		transitionRow(1, nil, "submitted"),
		transitionRow(2, statePtr("submitted"), "queued"),
		transitionRow(3, statePtr("queued"), "assigned"),
		transitionRow(4, statePtr("assigned"), "in_research"),
		transitionRow(5, statePtr("in_research"), "draft_ready"),
		transitionRow(6, statePtr("draft_ready"), "admin_review"),
		transitionRow(7, statePtr("admin_review"), "peer_review"),
		transitionRow(8, statePtr("peer_review"), "final_approval"),
		transitionRow(9, statePtr("final_approval"), "published"),
	}

	state, err := ReplayTransitions(transitions)
	if err != nil {
		t.Fatalf("replay failed: %v", err)
	}
	if state != StatePublished {
		t.Fatalf("replayed state = %s, want published", state)
	}
}

func TestReplayRejectsEmptyLog(t *testing.T) {
	if _, err := ReplayTransitions(nil); err == nil {
		t.Fatal("expected error on empty log")
	}
}

func TestReplayRejectsNonNullOrigin(t *testing.T) {
	transitions := []models.WorkflowTransition{
		transitionRow(1, statePtr("submitted"), "queued"),
	}
	if _, err := ReplayTransitions(transitions); err == nil {
		t.Fatal("expected error when first from_state is not null")
	}
}

func TestReplayRejectsBrokenChain(t *testing.T) {
	transitions := []models.WorkflowTransition{
		transitionRow(1, nil, "submitted"),
		transitionRow(2, statePtr("queued"), "assigned"),
	}
	if _, err := ReplayTransitions(transitions); err == nil {
		t.Fatal("expected error on broken from_state chain")
	}
}

func TestReplayRejectsSecondNullOrigin(t *testing.T) {
	transitions := []models.WorkflowTransition{
		transitionRow(1, nil, "submitted"),
		transitionRow(2, nil, "queued"),
	}
	if _, err := ReplayTransitions(transitions); err == nil {
		t.Fatal("expected error on duplicate null-origin row")
	}
}

func TestReconcileDetectsDivergence(t *testing.T) {
	steps := []*queryStep{
		{
			kind:    kindQuery,
			pattern: regexp.MustCompile("SELECT .workflow_state. FROM .submissions."),
			columns: []string{"workflow_state"},
			rows:    [][]driver.Value{{"published"}},
		},
		{
			kind:    kindQuery,
			pattern: regexp.MustCompile("SELECT .* FROM .workflow_transitions."),
			args:    []driver.Value{int64(1)},
			columns: []string{"transition_id", "submission_id", "from_state", "to_state", "actor_id"},
			rows: [][]driver.Value{
				{int64(1), int64(1), nil, "submitted", int64(3)},
				{int64(2), int64(1), "submitted", "queued", int64(3)},
			},
		},
	}
	db, state, cleanup := newScriptedGormDB(t, steps)
	defer cleanup()

	service := NewAuditLogService(db)
	if _, err := service.Reconcile(1); err == nil {
		t.Fatal("expected divergence between column and replay")
	}
	if err := state.verifyComplete(); err != nil {
		t.Fatalf("%v", err)
	}
}
