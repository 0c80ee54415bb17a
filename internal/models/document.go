package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// ProjectDocument is the persistence row for one Project aggregate. The
// aggregate is stored whole as a jsonb document; every save rewrites the
// entire document.
type ProjectDocument struct {
	ID        uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	OwnerID   uuid.UUID      `gorm:"type:uuid;index;not null" json:"owner_id"`
	Name      string         `gorm:"not null;index" json:"name"`
	Document  datatypes.JSON `gorm:"type:jsonb;not null" json:"document"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}
