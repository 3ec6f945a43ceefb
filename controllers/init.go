package controllers

import (
	"factcheck-workflow-api/services"

	"gorm.io/gorm"
)

// Package-wide service handles, wired once at startup. The transition
// graph and evaluator are constructed here and injected into the engine;
// nothing below resolves them through globals.
var (
	workflowEngine *services.WorkflowEngine
	auditLog       *services.AuditLogService
	peerReviews    *services.PeerReviewService
	triggerConfig  *services.TriggerConfigService
	notifications  *services.NotificationService
	stateGraph     *services.TransitionGraph
)

// Init builds the service graph for the controllers.
func Init(db *gorm.DB) {
	stateGraph = services.NewTransitionGraph()
	resolver := services.NewPermissionResolver(stateGraph)
	evaluator := services.NewTriggerEvaluator()
	peerReviews = services.NewPeerReviewService(db)
	workflowEngine = services.NewWorkflowEngine(db, stateGraph, resolver, evaluator, peerReviews)
	auditLog = services.NewAuditLogService(db)
	triggerConfig = services.NewTriggerConfigService(db)
	notifications = services.NewNotificationService(db)
}
