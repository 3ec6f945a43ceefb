package services

import (
	"sort"

	"factcheck-workflow-api/models"
)

// edge describes one allowed transition and the roles that may take it.
type edge struct {
	to    State
	roles []int
}

// TransitionGraph is the immutable adjacency table of allowed workflow
// transitions. It is built once at startup and injected into the engine;
// an edge absent from the table is invalid regardless of role.
type TransitionGraph struct {
	edges map[State][]edge
}

var (
	adminRoles    = []int{models.RoleAdmin, models.RoleSuperAdmin}
	reviewerRoles = []int{models.RoleReviewer, models.RoleAdmin, models.RoleSuperAdmin}
)

// NewTransitionGraph builds the static fifteen-state transition table.
// Terminal states (rejected, archived, duplicate_detected) keep a single
// admin-only reopen edge back to queued.
func NewTransitionGraph() *TransitionGraph {
	return &TransitionGraph{
		edges: map[State][]edge{
			StateSubmitted: {
				{to: StateQueued, roles: adminRoles},
				{to: StateDuplicateDetected, roles: adminRoles},
			},
			StateQueued: {
				{to: StateAssigned, roles: adminRoles},
				{to: StateArchived, roles: adminRoles},
			},
			StateAssigned: {
				{to: StateInResearch, roles: reviewerRoles},
			},
			StateInResearch: {
				{to: StateDraftReady, roles: reviewerRoles},
				{to: StateNeedsMoreResearch, roles: reviewerRoles},
				{to: StateAdminReview, roles: adminRoles},
			},
			StateNeedsMoreResearch: {
				{to: StateInResearch, roles: adminRoles},
			},
			StateDraftReady: {
				{to: StateAdminReview, roles: reviewerRoles},
			},
			StateAdminReview: {
				{to: StatePeerReview, roles: adminRoles},
				{to: StateFinalApproval, roles: adminRoles},
				{to: StateInResearch, roles: adminRoles},
				{to: StateRejected, roles: adminRoles},
			},
			StatePeerReview: {
				{to: StateFinalApproval, roles: adminRoles},
				{to: StateInResearch, roles: adminRoles},
				{to: StateRejected, roles: adminRoles},
			},
			StateFinalApproval: {
				{to: StatePublished, roles: adminRoles},
				{to: StateRejected, roles: adminRoles},
			},
			StatePublished: {
				{to: StateUnderCorrection, roles: adminRoles},
				{to: StateArchived, roles: adminRoles},
			},
			StateUnderCorrection: {
				{to: StateCorrected, roles: adminRoles},
			},
			StateCorrected: {
				{to: StatePublished, roles: adminRoles},
			},
			StateRejected: {
				{to: StateQueued, roles: adminRoles},
			},
			StateArchived: {
				{to: StateQueued, roles: adminRoles},
			},
			StateDuplicateDetected: {
				{to: StateQueued, roles: adminRoles},
			},
		},
	}
}

// IsAllowed reports whether (from, to) is an edge of the graph.
func (g *TransitionGraph) IsAllowed(from, to State) bool {
	for _, e := range g.edges[from] {
		if e.to == to {
			return true
		}
	}
	return false
}

// AllowedTransitions returns the sorted set of states reachable from the
// given state. The result is a copy; callers may not mutate the graph.
func (g *TransitionGraph) AllowedTransitions(from State) []State {
	targets := make([]State, 0, len(g.edges[from]))
	for _, e := range g.edges[from] {
		targets = append(targets, e.to)
	}
	sort.Slice(targets, func(i, j int) bool { return targets[i] < targets[j] })
	return targets
}

// RequiredRoles returns the role IDs permitted on the (from, to) edge,
// or nil when the edge does not exist.
func (g *TransitionGraph) RequiredRoles(from, to State) []int {
	for _, e := range g.edges[from] {
		if e.to == to {
			roles := make([]int, len(e.roles))
			copy(roles, e.roles)
			return roles
		}
	}
	return nil
}
