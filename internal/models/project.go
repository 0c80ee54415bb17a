package models

import (
	"github.com/google/uuid"
)

// Project is the aggregate root for one architecture model. It exclusively
// owns all four collections; the whole value is loaded and saved as one
// document.
type Project struct {
	ID           uuid.UUID                `json:"id"`
	OwnerID      uuid.UUID                `json:"owner_id"`
	Name         string                   `json:"name" validate:"required"`
	Description  string                   `json:"description"`
	Tags         []string                 `json:"tags"`
	RootSystemID uuid.UUID                `json:"root_system_id"`
	Systems      map[uuid.UUID]*System    `json:"systems"`
	Flows        map[uuid.UUID]*Flow      `json:"flows"`
	DataModels   map[uuid.UUID]*DataModel `json:"data_models"`
	Components   map[uuid.UUID]*Component `json:"components"`
}

// NewProject creates an empty aggregate with its implicit root System.
func NewProject(ownerID uuid.UUID, name, description string, tags []string) *Project {
	root := &System{
		ID:     uuid.New(),
		Name:   name,
		IsRoot: true,
	}
	return &Project{
		ID:           uuid.New(),
		OwnerID:      ownerID,
		Name:         name,
		Description:  description,
		Tags:         tags,
		RootSystemID: root.ID,
		Systems:      map[uuid.UUID]*System{root.ID: root},
		Flows:        map[uuid.UUID]*Flow{},
		DataModels:   map[uuid.UUID]*DataModel{},
		Components:   map[uuid.UUID]*Component{},
	}
}

// RootSystem returns the aggregate's root System.
func (p *Project) RootSystem() *System {
	return p.Systems[p.RootSystemID]
}
