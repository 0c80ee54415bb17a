package models

import "github.com/google/uuid"

// Flow is one interaction scenario: an ordered sequence of Steps scoped to a
// subset of the Project's Systems. Flows are created, updated and deleted as
// whole documents.
type Flow struct {
	ID             uuid.UUID   `json:"id"`
	Name           string      `json:"name" validate:"required"`
	Description    string      `json:"description"`
	Tags           []string    `json:"tags"`
	SystemScopeIDs []uuid.UUID `json:"system_scope_ids"`
	Steps          []Step      `json:"steps"`
}

// Step is one interaction within a Flow. ID is zero until the Flow is first
// persisted. AlternateFlowIDs name other Flows acting as branch or fallback
// paths; a Step may never list its own parent Flow.
type Step struct {
	ID               uuid.UUID   `json:"id"`
	Name             string      `json:"name"`
	Description      string      `json:"description"`
	Tags             []string    `json:"tags"`
	SourceSystemID   uuid.UUID   `json:"source_system_id"`
	TargetSystemID   uuid.UUID   `json:"target_system_id"`
	AlternateFlowIDs []uuid.UUID `json:"alternate_flow_ids"`
}
