package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"factcheck-workflow-api/models"

	"gorm.io/gorm"
)

// StalledReviewEscalationAfter is how long a peer review may sit pending
// before the escalation tool flags it to admins.
const StalledReviewEscalationAfter = 7 * 24 * time.Hour

// PeerReviewService manages reviewer verdicts and the consensus policy:
// peer_review -> final_approval requires every assigned review row to be
// approved, and at least one row must exist. A single rejection blocks
// consensus until the submission is sent back to research.
type PeerReviewService struct {
	db *gorm.DB
}

// NewPeerReviewService builds the service.
func NewPeerReviewService(db *gorm.DB) *PeerReviewService {
	return &PeerReviewService{db: db}
}

// openPendingReviews creates a pending review row for every assigned
// reviewer that does not have one yet. Called by the engine inside its
// transaction when a submission enters peer review.
func (s *PeerReviewService) openPendingReviews(tx *gorm.DB, submission *models.Submission) error {
	now := time.Now()
	for _, assignment := range submission.Reviewers {
		var existing models.PeerReview
		err := tx.Where("submission_id = ? AND reviewer_id = ?", submission.SubmissionID, assignment.ReviewerID).
			First(&existing).Error
		if err == nil {
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("failed to check peer review row: %w", err)
		}
		review := models.PeerReview{
			SubmissionID:   submission.SubmissionID,
			ReviewerID:     assignment.ReviewerID,
			ApprovalStatus: models.PeerReviewPending,
			CreatedAt:      now,
			UpdatedAt:      now,
		}
		if err := tx.Create(&review).Error; err != nil {
			return fmt.Errorf("failed to open peer review row: %w", err)
		}
	}
	return nil
}

// consensusReached reports whether every peer review row for the
// submission is approved. No rows means no consensus.
func (s *PeerReviewService) consensusReached(tx *gorm.DB, submissionID int) (bool, error) {
	var reviews []models.PeerReview
	if err := tx.Where("submission_id = ?", submissionID).Find(&reviews).Error; err != nil {
		return false, fmt.Errorf("failed to load peer reviews: %w", err)
	}
	if len(reviews) == 0 {
		return false, nil
	}
	for _, review := range reviews {
		if review.ApprovalStatus != models.PeerReviewApproved {
			return false, nil
		}
	}
	return true, nil
}

// RecordDecision stores a reviewer's verdict, updating the pending row if
// one exists. Status must be approved or rejected.
func (s *PeerReviewService) RecordDecision(submissionID, reviewerID int, status string, comments *string) (*models.PeerReview, error) {
	status = strings.ToLower(strings.TrimSpace(status))
	if status != models.PeerReviewApproved && status != models.PeerReviewRejected {
		return nil, fmt.Errorf("invalid approval status %q", status)
	}

	now := time.Now()
	var review models.PeerReview
	err := s.db.Where("submission_id = ? AND reviewer_id = ?", submissionID, reviewerID).
		First(&review).Error
	switch {
	case err == nil:
		review.ApprovalStatus = status
		review.Comments = comments
		review.UpdatedAt = now
		if err := s.db.Model(&models.PeerReview{}).
			Where("peer_review_id = ?", review.PeerReviewID).
			Updates(map[string]interface{}{
				"approval_status": status,
				"comments":        comments,
				"updated_at":      now,
			}).Error; err != nil {
			return nil, fmt.Errorf("failed to update peer review: %w", err)
		}
	case errors.Is(err, gorm.ErrRecordNotFound):
		review = models.PeerReview{
			SubmissionID:   submissionID,
			ReviewerID:     reviewerID,
			ApprovalStatus: status,
			Comments:       comments,
			CreatedAt:      now,
			UpdatedAt:      now,
		}
		if err := s.db.Create(&review).Error; err != nil {
			return nil, fmt.Errorf("failed to create peer review: %w", err)
		}
	default:
		return nil, fmt.Errorf("failed to load peer review: %w", err)
	}

	return &review, nil
}

// ListForSubmission returns the review rows for a submission, reviewer
// preloaded, oldest first.
func (s *PeerReviewService) ListForSubmission(submissionID int) ([]models.PeerReview, error) {
	var reviews []models.PeerReview
	if err := s.db.Preload("Reviewer").
		Where("submission_id = ?", submissionID).
		Order("created_at ASC").
		Find(&reviews).Error; err != nil {
		return nil, fmt.Errorf("failed to list peer reviews: %w", err)
	}
	return reviews, nil
}

// StalledReviews returns pending reviews created before the cutoff, used
// by the escalation tool to nudge admins after reviewer inaction.
func (s *PeerReviewService) StalledReviews(cutoff time.Time) ([]models.PeerReview, error) {
	var reviews []models.PeerReview
	if err := s.db.Preload("Reviewer").
		Where("approval_status = ? AND created_at < ?", models.PeerReviewPending, cutoff).
		Order("created_at ASC").
		Find(&reviews).Error; err != nil {
		return nil, fmt.Errorf("failed to find stalled peer reviews: %w", err)
	}
	return reviews, nil
}
