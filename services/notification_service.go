package services

import (
	"fmt"
	"log"

	"factcheck-workflow-api/config"
	"factcheck-workflow-api/models"

	"gorm.io/gorm"
)

// NotificationService sends workflow emails. Controllers call it after
// the engine's transaction commits; a mail failure is logged, never
// allowed to fail or roll back a transition.
type NotificationService struct {
	db *gorm.DB
}

// NewNotificationService builds the service.
func NewNotificationService(db *gorm.DB) *NotificationService {
	return &NotificationService{db: db}
}

// NotifyPeerReviewRequired mails every assigned reviewer that a
// submission entered mandatory peer review.
func (s *NotificationService) NotifyPeerReviewRequired(submission *models.Submission) {
	recipients := s.reviewerEmails(submission)
	if len(recipients) == 0 {
		return
	}

	reason := "manual override"
	if submission.PeerReviewReason != nil {
		reason = *submission.PeerReviewReason
	}
	subject := fmt.Sprintf("Peer review required: %s", submission.SubmissionNumber)
	body := fmt.Sprintf(
		"<p>Fact-check <strong>%s</strong> (%s) requires your peer review.</p><p>Trigger: %s</p>",
		submission.SubmissionNumber, submission.Title, reason,
	)
	if err := config.SendMail(recipients, subject, body); err != nil {
		log.Printf("Warning: peer review notification failed for %s: %v", submission.SubmissionNumber, err)
	}
}

// NotifyOwnerStateChange mails the submission owner about a terminal-ish
// outcome (published, rejected, corrected).
func (s *NotificationService) NotifyOwnerStateChange(submission *models.Submission, state State) {
	var owner models.User
	if err := s.db.Where("user_id = ? AND delete_at IS NULL", submission.OwnerID).First(&owner).Error; err != nil {
		log.Printf("Warning: owner lookup failed for submission %d: %v", submission.SubmissionID, err)
		return
	}

	subject := fmt.Sprintf("Your fact-check %s is now %s", submission.SubmissionNumber, state)
	body := fmt.Sprintf(
		"<p>Your fact-check <strong>%s</strong> (%s) moved to state <strong>%s</strong>.</p>",
		submission.SubmissionNumber, submission.Title, state,
	)
	if err := config.SendMail([]string{owner.Email}, subject, body); err != nil {
		log.Printf("Warning: owner notification failed for %s: %v", submission.SubmissionNumber, err)
	}
}

// NotifyStalledReviews mails all admins a digest of peer reviews pending
// past the escalation window. Used by the review-escalation tool.
func (s *NotificationService) NotifyStalledReviews(reviews []models.PeerReview) error {
	if len(reviews) == 0 {
		return nil
	}

	var admins []models.User
	if err := s.db.Where("role_id IN ? AND delete_at IS NULL", []int{models.RoleAdmin, models.RoleSuperAdmin}).
		Find(&admins).Error; err != nil {
		return fmt.Errorf("failed to load admin recipients: %w", err)
	}
	recipients := make([]string, 0, len(admins))
	for _, admin := range admins {
		recipients = append(recipients, admin.Email)
	}

	body := "<p>The following peer reviews have been pending for more than 7 days:</p><ul>"
	for _, review := range reviews {
		body += fmt.Sprintf("<li>submission %d, reviewer %d, pending since %s</li>",
			review.SubmissionID, review.ReviewerID, review.CreatedAt.Format("2006-01-02"))
	}
	body += "</ul>"

	subject := fmt.Sprintf("%d stalled peer review(s) need attention", len(reviews))
	return config.SendMail(recipients, subject, body)
}

func (s *NotificationService) reviewerEmails(submission *models.Submission) []string {
	reviewerIDs := make([]int, 0, len(submission.Reviewers))
	for _, assignment := range submission.Reviewers {
		reviewerIDs = append(reviewerIDs, assignment.ReviewerID)
	}
	if len(reviewerIDs) == 0 {
		return nil
	}

	var reviewers []models.User
	if err := s.db.Where("user_id IN ? AND delete_at IS NULL", reviewerIDs).Find(&reviewers).Error; err != nil {
		log.Printf("Warning: reviewer lookup failed for submission %d: %v", submission.SubmissionID, err)
		return nil
	}
	emails := make([]string, 0, len(reviewers))
	for _, reviewer := range reviewers {
		emails = append(emails, reviewer.Email)
	}
	return emails
}
