package services

import "factcheck-workflow-api/models"

// PermissionResolver decides whether an actor may initiate a transition.
// Admin and super admin may take any graph-legal edge. Reviewers may act
// only on submissions they are assigned to, and only along the reviewer
// edges of the graph. Submitters have no transition rights at all.
type PermissionResolver struct {
	graph *TransitionGraph
}

// NewPermissionResolver builds a resolver over the given graph.
func NewPermissionResolver(graph *TransitionGraph) *PermissionResolver {
	return &PermissionResolver{graph: graph}
}

// CanTransition reports whether the actor may take the (from, to) edge on
// this submission. The edge itself must already be graph-legal; callers
// check IsAllowed first so that InvalidTransitionError wins over
// PermissionDeniedError.
func (r *PermissionResolver) CanTransition(actor *models.User, submission *models.Submission, from, to State) bool {
	roles := r.graph.RequiredRoles(from, to)
	if roles == nil {
		return false
	}

	allowed := false
	for _, roleID := range roles {
		if actor.RoleID == roleID {
			allowed = true
			break
		}
	}
	if !allowed {
		return false
	}

	// Reviewers additionally need an assignment on the submission.
	if actor.RoleID == models.RoleReviewer && !submission.IsAssignedReviewer(actor.UserID) {
		return false
	}

	return true
}
