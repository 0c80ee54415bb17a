package main

import (
	"gorm.io/gorm"

	"github.com/archstudio/engine/internal/models"
)

// registerModels returns all models that need migration
func registerModels() []interface{} {
	return []interface{}{
		&models.ProjectDocument{},
	}
}

// runMigrations executes all database migrations
func runMigrations(db *gorm.DB) error {
	if err := enableUUIDExtension(db); err != nil {
		return err
	}

	if err := db.AutoMigrate(registerModels()...); err != nil {
		return err
	}

	return addDocumentIndexes(db)
}

// enableUUIDExtension ensures UUID generation is available
func enableUUIDExtension(db *gorm.DB) error {
	return db.Exec(`CREATE EXTENSION IF NOT EXISTS "pgcrypto"`).Error
}

// addDocumentIndexes adds custom indexes AutoMigrate can't express
func addDocumentIndexes(db *gorm.DB) error {
	// Composite index for listing a user's projects by name
	return db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_project_documents_owner_name
		ON project_documents(owner_id, name)
	`).Error
}
