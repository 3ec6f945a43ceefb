package models

import "time"

// Submission is the fact-check aggregate root. WorkflowState is the
// denormalized current state; the authoritative record is the ordered
// workflow_transitions log.
type Submission struct {
	SubmissionID       int        `gorm:"primaryKey;column:submission_id" json:"submission_id"`
	SubmissionNumber   string     `gorm:"column:submission_number;unique" json:"submission_number"`
	Title              string     `gorm:"column:title" json:"title"`
	ClaimText          string     `gorm:"column:claim_text" json:"claim_text"`
	Verdict            *string    `gorm:"column:verdict" json:"verdict,omitempty"`
	WorkflowState      string     `gorm:"column:workflow_state" json:"workflow_state"`
	RequiresPeerReview bool       `gorm:"column:requires_peer_review" json:"requires_peer_review"`
	PeerReviewReason   *string    `gorm:"column:peer_review_reason" json:"peer_review_reason,omitempty"`
	ViewCount          int        `gorm:"column:view_count" json:"view_count"`
	ShareCount         int        `gorm:"column:share_count" json:"share_count"`
	CommentCount       int        `gorm:"column:comment_count" json:"comment_count"`
	OwnerID            int        `gorm:"column:owner_id" json:"owner_id"`
	CreatedAt          time.Time  `gorm:"column:created_at" json:"created_at"`
	UpdatedAt          time.Time  `gorm:"column:updated_at" json:"updated_at"`
	DeletedAt          *time.Time `gorm:"column:deleted_at" json:"deleted_at,omitempty"`

	// Relations
	Owner     *User                `gorm:"foreignKey:OwnerID" json:"owner,omitempty"`
	Reviewers []ReviewerAssignment `gorm:"foreignKey:SubmissionID" json:"reviewers,omitempty"`
}

// ReviewerAssignment links a reviewer to a submission they may work on.
type ReviewerAssignment struct {
	AssignmentID int       `gorm:"primaryKey;column:assignment_id" json:"assignment_id"`
	SubmissionID int       `gorm:"column:submission_id" json:"submission_id"`
	ReviewerID   int       `gorm:"column:reviewer_id" json:"reviewer_id"`
	AssignedBy   int       `gorm:"column:assigned_by" json:"assigned_by"`
	CreatedAt    time.Time `gorm:"column:created_at" json:"created_at"`

	Reviewer *User `gorm:"foreignKey:ReviewerID" json:"reviewer,omitempty"`
}

// TableName overrides
func (Submission) TableName() string {
	return "submissions"
}

func (ReviewerAssignment) TableName() string {
	return "reviewer_assignments"
}

// IsAssignedReviewer reports whether userID appears in the submission's
// reviewer assignments.
func (s *Submission) IsAssignedReviewer(userID int) bool {
	for _, assignment := range s.Reviewers {
		if assignment.ReviewerID == userID {
			return true
		}
	}
	return false
}
