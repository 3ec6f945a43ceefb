package controllers

import (
	"errors"
	"net/http"
	"strings"

	"factcheck-workflow-api/services"

	"github.com/gin-gonic/gin"
)

// TransitionRequest is the body of POST /submissions/:id/transition.
// Classifier scores are optional inputs forwarded from upstream; the
// engine never fetches them itself.
type TransitionRequest struct {
	ToState          string                 `json:"to_state" binding:"required"`
	Reason           string                 `json:"reason"`
	Metadata         map[string]interface{} `json:"metadata"`
	SensitivityScore *float64               `json:"sensitivity_score"`
	ImpactScore      *float64               `json:"impact_score"`
	ViralScore       *float64               `json:"viral_score"`
}

// TransitionSubmission applies one workflow transition through the engine
// and fires post-commit notifications.
func TransitionSubmission(c *gin.Context) {
	submissionID, ok := submissionIDParam(c)
	if !ok {
		return
	}

	var req TransitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	// State tokens are rejected at the boundary; legacy and unknown
	// tokens never reach the engine.
	toState, err := services.ParseState(strings.TrimSpace(req.ToState))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	input := services.TransitionInput{
		SubmissionID:     submissionID,
		ToState:          toState,
		ActorID:          c.GetInt("userID"),
		Metadata:         req.Metadata,
		SensitivityScore: req.SensitivityScore,
		ImpactScore:      req.ImpactScore,
		ViralScore:       req.ViralScore,
	}
	if reason := strings.TrimSpace(req.Reason); reason != "" {
		input.Reason = &reason
	}

	submission, err := workflowEngine.Transition(input)
	if err != nil {
		respondWorkflowError(c, err)
		return
	}

	// Notifications go out after the commit, never inside the engine's
	// transaction.
	switch toState {
	case services.StateAdminReview:
		if submission.RequiresPeerReview {
			notifications.NotifyPeerReviewRequired(submission)
		}
	case services.StatePublished, services.StateRejected, services.StateCorrected:
		notifications.NotifyOwnerStateChange(submission, toState)
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"submission": gin.H{
			"id":                   submission.SubmissionID,
			"workflow_state":       submission.WorkflowState,
			"requires_peer_review": submission.RequiresPeerReview,
			"peer_review_reason":   submission.PeerReviewReason,
		},
	})
}

// GetWorkflowState returns the current state plus the graph-legal targets
// from it.
func GetWorkflowState(c *gin.Context) {
	submissionID, ok := submissionIDParam(c)
	if !ok {
		return
	}

	state, err := auditLog.CurrentState(submissionID)
	if err != nil {
		respondWorkflowError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":           true,
		"state":             state,
		"valid_transitions": stateGraph.AllowedTransitions(state),
	})
}

// GetTransitionHistory returns the ordered audit log for a submission,
// oldest first.
func GetTransitionHistory(c *gin.Context) {
	submissionID, ok := submissionIDParam(c)
	if !ok {
		return
	}

	history, err := auditLog.History(submissionID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load transition history"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"transitions": history,
		"total":       len(history),
	})
}

// ReconcileWorkflowState checks that the denormalized state column agrees
// with the replayed audit log. Admin only; mirrors the production
// reconciliation job.
func ReconcileWorkflowState(c *gin.Context) {
	submissionID, ok := submissionIDParam(c)
	if !ok {
		return
	}

	state, err := auditLog.Reconcile(submissionID)
	if err != nil {
		if errors.Is(err, services.ErrSubmissionNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Submission not found"})
			return
		}
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"state":   state,
	})
}

// respondWorkflowError maps the engine's error taxonomy onto HTTP status
// codes: not found 404, invalid transition 400, permission denied 403,
// conflict and consensus 409.
func respondWorkflowError(c *gin.Context, err error) {
	var invalidTransition *services.InvalidTransitionError
	var permissionDenied *services.PermissionDeniedError

	switch {
	case errors.Is(err, services.ErrSubmissionNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Submission not found"})
	case errors.As(err, &invalidTransition):
		c.JSON(http.StatusBadRequest, gin.H{"error": invalidTransition.Error()})
	case errors.As(err, &permissionDenied):
		c.JSON(http.StatusForbidden, gin.H{"error": "You are not allowed to perform this transition"})
	case errors.Is(err, services.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"error": "Submission was modified concurrently, reload and retry"})
	case errors.Is(err, services.ErrConsensusNotReached):
		c.JSON(http.StatusConflict, gin.H{"error": "Peer review consensus not reached"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to apply transition"})
	}
}
