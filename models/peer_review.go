package models

import "time"

// Peer review approval statuses stored in peer_reviews.approval_status.
const (
	PeerReviewPending  = "pending"
	PeerReviewApproved = "approved"
	PeerReviewRejected = "rejected"
)

// PeerReview is one reviewer's verdict on a fact-check. Multiple rows per
// submission represent multi-reviewer consensus.
type PeerReview struct {
	PeerReviewID   int       `gorm:"primaryKey;column:peer_review_id" json:"peer_review_id"`
	SubmissionID   int       `gorm:"column:submission_id" json:"submission_id"`
	ReviewerID     int       `gorm:"column:reviewer_id" json:"reviewer_id"`
	ApprovalStatus string    `gorm:"column:approval_status" json:"approval_status"`
	Comments       *string   `gorm:"column:comments" json:"comments,omitempty"`
	CreatedAt      time.Time `gorm:"column:created_at" json:"created_at"`
	UpdatedAt      time.Time `gorm:"column:updated_at" json:"updated_at"`

	Reviewer *User `gorm:"foreignKey:ReviewerID" json:"reviewer,omitempty"`
}

// TableName specifies the table for PeerReview.
func (PeerReview) TableName() string {
	return "peer_reviews"
}
