package services

import (
	"errors"
	"fmt"

	"factcheck-workflow-api/models"

	"gorm.io/gorm"
)

// AuditLogService is the read/append surface over workflow_transitions.
// The table is an append-only event log: this service exposes no update
// or delete, and replaying a submission's ordered rows from the
// null-origin must reconstruct its current workflow_state exactly.
// History reads run outside any transaction and are replica-safe.
type AuditLogService struct {
	db *gorm.DB
}

// NewAuditLogService builds the service.
func NewAuditLogService(db *gorm.DB) *AuditLogService {
	return &AuditLogService{db: db}
}

// AppendCreation writes the null-origin first transition for a newly
// created submission. Called by the creation path inside its transaction;
// the engine itself never writes a null from_state.
func (s *AuditLogService) AppendCreation(tx *gorm.DB, submission *models.Submission, actorID int) error {
	transition := models.WorkflowTransition{
		SubmissionID: submission.SubmissionID,
		FromState:    nil,
		ToState:      submission.WorkflowState,
		ActorID:      actorID,
		CreatedAt:    submission.CreatedAt,
	}
	if err := tx.Create(&transition).Error; err != nil {
		return fmt.Errorf("failed to append creation transition: %w", err)
	}
	return nil
}

// History returns all transitions for a submission, oldest first.
func (s *AuditLogService) History(submissionID int) ([]models.WorkflowTransition, error) {
	var transitions []models.WorkflowTransition
	if err := s.db.Where("submission_id = ?", submissionID).
		Order("transition_id ASC").
		Find(&transitions).Error; err != nil {
		return nil, fmt.Errorf("failed to load transition history: %w", err)
	}
	return transitions, nil
}

// CurrentState reads the denormalized workflow_state column (fast path).
func (s *AuditLogService) CurrentState(submissionID int) (State, error) {
	var submission models.Submission
	if err := s.db.Select("workflow_state").
		Where("submission_id = ? AND deleted_at IS NULL", submissionID).
		First(&submission).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrSubmissionNotFound
		}
		return "", fmt.Errorf("failed to load submission state: %w", err)
	}
	return ParseStoredState(submission.WorkflowState)
}

// ReplayState reconstructs the current state from the ordered log
// (consistency/recovery path). It must always agree with CurrentState.
func (s *AuditLogService) ReplayState(submissionID int) (State, error) {
	transitions, err := s.History(submissionID)
	if err != nil {
		return "", err
	}
	return ReplayTransitions(transitions)
}

// Reconcile asserts that the denormalized column and the replayed log
// agree for a submission, returning the agreed state.
func (s *AuditLogService) Reconcile(submissionID int) (State, error) {
	denormalized, err := s.CurrentState(submissionID)
	if err != nil {
		return "", err
	}
	replayed, err := s.ReplayState(submissionID)
	if err != nil {
		return "", err
	}
	if denormalized != replayed {
		return "", fmt.Errorf("submission %d state diverged: column=%s replay=%s",
			submissionID, denormalized, replayed)
	}
	return denormalized, nil
}

// ReplayTransitions folds an ordered transition list from the null-origin
// into the resulting state. Each row's from_state must chain onto the
// previous row's to_state; a break means the log was tampered with or
// written outside the engine.
func ReplayTransitions(transitions []models.WorkflowTransition) (State, error) {
	if len(transitions) == 0 {
		return "", errors.New("no transitions to replay")
	}
	if transitions[0].FromState != nil {
		return "", fmt.Errorf("first transition of submission %d has non-null from_state %q",
			transitions[0].SubmissionID, *transitions[0].FromState)
	}

	current := transitions[0].ToState
	for _, transition := range transitions[1:] {
		if transition.FromState == nil {
			return "", fmt.Errorf("duplicate null-origin transition %d", transition.TransitionID)
		}
		if *transition.FromState != current {
			return "", fmt.Errorf("broken transition chain at %d: from=%q want %q",
				transition.TransitionID, *transition.FromState, current)
		}
		current = transition.ToState
	}
	return ParseStoredState(current)
}
