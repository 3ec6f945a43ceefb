package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"factcheck-workflow-api/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// TransitionInput carries one transition request into the engine.
// Classifier scores are optional inputs fetched by an upstream
// collaborator before the call; the engine itself never does network I/O
// inside its transaction.
type TransitionInput struct {
	SubmissionID     int
	ToState          State
	ActorID          int
	Reason           *string
	Metadata         map[string]interface{}
	SensitivityScore *float64
	ImpactScore      *float64
	ViralScore       *float64
}

// WorkflowEngine orchestrates a single workflow transition: graph check,
// permission check, trigger evaluation on entering admin review, state
// mutation and audit append, all in one transaction. Collaborators are
// injected at construction; the engine holds no ambient state.
type WorkflowEngine struct {
	db        *gorm.DB
	graph     *TransitionGraph
	resolver  *PermissionResolver
	evaluator *TriggerEvaluator
	reviews   *PeerReviewService
}

// NewWorkflowEngine wires the engine with its collaborators.
func NewWorkflowEngine(db *gorm.DB, graph *TransitionGraph, resolver *PermissionResolver, evaluator *TriggerEvaluator, reviews *PeerReviewService) *WorkflowEngine {
	return &WorkflowEngine{
		db:        db,
		graph:     graph,
		resolver:  resolver,
		evaluator: evaluator,
		reviews:   reviews,
	}
}

// Transition validates and applies one state change. The submission row is
// locked FOR UPDATE for the duration of the transaction, and the final
// UPDATE is additionally guarded on the expected from_state so a lost race
// surfaces as ErrConflict instead of a silent double-apply.
func (e *WorkflowEngine) Transition(input TransitionInput) (*models.Submission, error) {
	tx := e.db.Begin()
	if tx.Error != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", tx.Error)
	}
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			panic(r)
		}
	}()

	var actor models.User
	if err := tx.Where("user_id = ? AND delete_at IS NULL", input.ActorID).First(&actor).Error; err != nil {
		tx.Rollback()
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &PermissionDeniedError{ActorID: input.ActorID, To: input.ToState}
		}
		return nil, fmt.Errorf("failed to load actor: %w", err)
	}

	var submission models.Submission
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Preload("Reviewers").
		Where("submission_id = ? AND deleted_at IS NULL", input.SubmissionID).
		First(&submission).Error; err != nil {
		tx.Rollback()
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSubmissionNotFound
		}
		return nil, fmt.Errorf("failed to load submission: %w", err)
	}

	from, err := ParseStoredState(submission.WorkflowState)
	if err != nil {
		tx.Rollback()
		return nil, err
	}

	// Self-transitions are a caller bug, not an auditable event.
	if from == input.ToState {
		tx.Rollback()
		return nil, &InvalidTransitionError{From: from, To: input.ToState}
	}

	if !e.graph.IsAllowed(from, input.ToState) {
		tx.Rollback()
		return nil, &InvalidTransitionError{From: from, To: input.ToState}
	}

	if !e.resolver.CanTransition(&actor, &submission, from, input.ToState) {
		tx.Rollback()
		log.Printf("permission denied: actor=%d role=%d submission=%d %s->%s",
			actor.UserID, actor.RoleID, submission.SubmissionID, from, input.ToState)
		return nil, &PermissionDeniedError{ActorID: actor.UserID, From: from, To: input.ToState}
	}

	metadata := make(map[string]interface{}, len(input.Metadata)+2)
	for key, value := range input.Metadata {
		metadata[key] = value
	}

	// Entering admin review is the single point where triggers run; the
	// result is persisted on the submission and echoed into the audit
	// metadata so the decision is reconstructible later.
	if input.ToState == StateAdminReview {
		var triggers []models.PeerReviewTrigger
		if err := tx.Where("enabled = ?", true).Find(&triggers).Error; err != nil {
			tx.Rollback()
			return nil, fmt.Errorf("failed to load peer review triggers: %w", err)
		}
		snapshot := ContentSnapshot{
			Title:            submission.Title,
			ClaimText:        submission.ClaimText,
			ViewCount:        submission.ViewCount,
			ShareCount:       submission.ShareCount,
			CommentCount:     submission.CommentCount,
			SensitivityScore: input.SensitivityScore,
			ImpactScore:      input.ImpactScore,
			ViralScore:       input.ViralScore,
		}
		required, reason := e.evaluator.Evaluate(snapshot, triggers)
		submission.RequiresPeerReview = required
		submission.PeerReviewReason = reason
		metadata["requires_peer_review"] = required
		if reason != nil {
			metadata["peer_review_reason"] = *reason
		}
	}

	// Admins may route unflagged submissions through peer review anyway;
	// the override is recorded so audits can tell it apart.
	if input.ToState == StatePeerReview && !submission.RequiresPeerReview {
		metadata["manual_override"] = true
	}

	if input.ToState == StatePeerReview {
		if err := e.reviews.openPendingReviews(tx, &submission); err != nil {
			tx.Rollback()
			return nil, err
		}
	}

	if from == StatePeerReview && input.ToState == StateFinalApproval {
		reached, err := e.reviews.consensusReached(tx, submission.SubmissionID)
		if err != nil {
			tx.Rollback()
			return nil, err
		}
		if !reached {
			tx.Rollback()
			return nil, ErrConsensusNotReached
		}
	}

	now := time.Now()
	result := tx.Model(&models.Submission{}).
		Where("submission_id = ? AND workflow_state = ?", submission.SubmissionID, string(from)).
		Updates(map[string]interface{}{
			"workflow_state":       string(input.ToState),
			"requires_peer_review": submission.RequiresPeerReview,
			"peer_review_reason":   submission.PeerReviewReason,
			"updated_at":           now,
		})
	if result.Error != nil {
		tx.Rollback()
		return nil, fmt.Errorf("failed to update submission: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		tx.Rollback()
		return nil, ErrConflict
	}

	fromValue := string(from)
	transition := models.WorkflowTransition{
		SubmissionID: submission.SubmissionID,
		FromState:    &fromValue,
		ToState:      string(input.ToState),
		ActorID:      actor.UserID,
		Reason:       input.Reason,
		CreatedAt:    now,
	}
	if len(metadata) > 0 {
		serialized, err := json.Marshal(metadata)
		if err != nil {
			tx.Rollback()
			return nil, fmt.Errorf("failed to serialize transition metadata: %w", err)
		}
		raw := string(serialized)
		transition.Metadata = &raw
	}
	if err := tx.Create(&transition).Error; err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("failed to append workflow transition: %w", err)
	}

	if err := tx.Commit().Error; err != nil {
		return nil, fmt.Errorf("failed to commit transition: %w", err)
	}

	submission.WorkflowState = string(input.ToState)
	submission.UpdatedAt = now
	return &submission, nil
}
