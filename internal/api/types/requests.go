package types

import (
	"github.com/google/uuid"

	"github.com/archstudio/engine/internal/models"
)

type ProjectRequest struct {
	Name        string   `json:"name" validate:"required"`
	Description string   `json:"description"`
	Tags        []string `json:"tags"`
}

type SystemCreateRequest struct {
	ParentID    uuid.UUID `json:"parent_id" validate:"required"`
	Name        string    `json:"name" validate:"required"`
	Description string    `json:"description"`
	Tags        []string  `json:"tags"`
}

type SystemUpdateRequest struct {
	Name        string   `json:"name" validate:"required"`
	Description string   `json:"description"`
	Tags        []string `json:"tags"`
}

type FlowRequest struct {
	Name           string        `json:"name" validate:"required"`
	Description    string        `json:"description"`
	Tags           []string      `json:"tags"`
	SystemScopeIDs []uuid.UUID   `json:"system_scope_ids"`
	Steps          []StepRequest `json:"steps"`
}

type StepRequest struct {
	ID               uuid.UUID   `json:"id"`
	Name             string      `json:"name"`
	Description      string      `json:"description"`
	Tags             []string    `json:"tags"`
	SourceSystemID   uuid.UUID   `json:"source_system_id"`
	TargetSystemID   uuid.UUID   `json:"target_system_id"`
	AlternateFlowIDs []uuid.UUID `json:"alternate_flow_ids"`
}

type DataModelRequest struct {
	Name        string   `json:"name" validate:"required"`
	Description string   `json:"description"`
	Tags        []string `json:"tags"`
}

type AttributeRequest struct {
	ParentLocalID string                `json:"parent_local_id"`
	Name          string                `json:"name" validate:"required"`
	Type          models.AttributeType  `json:"type" validate:"required"`
	Description   string                `json:"description"`
	Flags         models.AttributeFlags `json:"flags"`
}

type ConstraintRequest struct {
	Kind   models.ConstraintKind `json:"kind" validate:"required"`
	Value  string                `json:"value"`
	Values []string              `json:"values"`
	// Raw, when set, is split on commas and newlines into enum values.
	Raw string `json:"raw"`
}

type ComponentRequest struct {
	Name        string   `json:"name" validate:"required"`
	Description string   `json:"description"`
	Tags        []string `json:"tags"`
}

type EntryPointRequest struct {
	Name        string              `json:"name" validate:"required"`
	Description string              `json:"description"`
	Tags        []string            `json:"tags"`
	Request     []*models.Attribute `json:"request"`
	Response    []*models.Attribute `json:"response"`
}

type PatternRequest struct {
	AlphaLowercase bool   `json:"alpha_lowercase"`
	AlphaUppercase bool   `json:"alpha_uppercase"`
	Numeric        bool   `json:"numeric"`
	Hexadecimal    bool   `json:"hexadecimal"`
	Printable      bool   `json:"printable"`
	LengthMode     string `json:"length_mode"`
	LengthExact    string `json:"length_exact"`
	LengthMin      string `json:"length_min"`
	LengthMax      string `json:"length_max"`
}
