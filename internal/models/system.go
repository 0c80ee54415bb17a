package models

import "github.com/google/uuid"

// System is one node in a Project's system hierarchy. Exactly one System per
// Project has IsRoot set; every other System is reachable from the root via
// ChildIDs and has exactly one parent.
type System struct {
	ID          uuid.UUID   `json:"id"`
	Name        string      `json:"name" validate:"required"`
	Description string      `json:"description"`
	Tags        []string    `json:"tags"`
	ChildIDs    []uuid.UUID `json:"child_ids"`
	IsRoot      bool        `json:"is_root"`
}
