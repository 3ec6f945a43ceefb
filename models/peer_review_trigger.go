package models

import "time"

// Trigger type identifiers, evaluated in this fixed order.
const (
	TriggerPoliticalKeyword    = "political_keyword"
	TriggerEngagementThreshold = "engagement_threshold"
	TriggerSensitiveTopic      = "sensitive_topic"
	TriggerHighImpact          = "high_impact"
)

// PeerReviewTrigger is an admin-editable rule that forces mandatory peer
// review when it matches. ThresholdValue carries the main numeric
// threshold; Config holds per-type extras (keyword lists, per-metric
// engagement minimums, topic terms) as JSON.
type PeerReviewTrigger struct {
	TriggerID      int       `gorm:"primaryKey;column:trigger_id" json:"trigger_id"`
	TriggerType    string    `gorm:"column:trigger_type" json:"trigger_type"`
	Enabled        bool      `gorm:"column:enabled" json:"enabled"`
	ThresholdValue float64   `gorm:"column:threshold_value" json:"threshold_value"`
	Config         *string   `gorm:"column:config" json:"config,omitempty"`
	Description    *string   `gorm:"column:description" json:"description,omitempty"`
	CreatedAt      time.Time `gorm:"column:created_at" json:"created_at"`
	UpdatedAt      time.Time `gorm:"column:updated_at" json:"updated_at"`
}

// TableName specifies the table for PeerReviewTrigger.
func (PeerReviewTrigger) TableName() string {
	return "peer_review_triggers"
}
