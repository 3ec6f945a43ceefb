package models

import "time"

// WorkflowTransition is one immutable audit record of a workflow state
// change. FromState is null only for the first transition written by the
// creation path. Rows are append-only: nothing in the codebase updates or
// deletes them, and the audit service exposes no mutating methods.
type WorkflowTransition struct {
	TransitionID int       `gorm:"primaryKey;column:transition_id" json:"transition_id"`
	SubmissionID int       `gorm:"column:submission_id" json:"submission_id"`
	FromState    *string   `gorm:"column:from_state" json:"from_state"`
	ToState      string    `gorm:"column:to_state" json:"to_state"`
	ActorID      int       `gorm:"column:actor_id" json:"actor_id"`
	Reason       *string   `gorm:"column:reason" json:"reason,omitempty"`
	Metadata     *string   `gorm:"column:metadata" json:"metadata,omitempty"`
	CreatedAt    time.Time `gorm:"column:created_at" json:"created_at"`
}

// TableName specifies the table for WorkflowTransition.
func (WorkflowTransition) TableName() string {
	return "workflow_transitions"
}
