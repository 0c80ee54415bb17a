package repository

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/archstudio/engine/internal/models"
	appErr "github.com/archstudio/engine/pkg/errors"
)

// AggregateRepository is the persistence collaborator: it loads and saves
// whole Project aggregates, one document per Project. Save always rewrites
// the entire document; there is no field-level write path.
type AggregateRepository interface {
	Load(ctx context.Context, projectID uuid.UUID) (*models.Project, error)
	Save(ctx context.Context, p *models.Project) error
	List(ctx context.Context, ownerID uuid.UUID) ([]*models.Project, error)
	Delete(ctx context.Context, projectID uuid.UUID) error
}

type gormRepository struct {
	db *gorm.DB
}

// NewGormRepository returns an AggregateRepository backed by the
// project_documents table (one jsonb document per Project).
func NewGormRepository(db *gorm.DB) AggregateRepository {
	return &gormRepository{db: db}
}

var _ AggregateRepository = (*gormRepository)(nil)

func (r *gormRepository) Load(ctx context.Context, projectID uuid.UUID) (*models.Project, error) {
	var rec models.ProjectDocument
	if err := r.db.WithContext(ctx).First(&rec, "id = ?", projectID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, appErr.New(appErr.CodeNotFound, "project not found").WithMeta("project_id", projectID.String())
		}
		return nil, appErr.Wrap(err, appErr.CodeInternal, "load project failed")
	}
	return decodeDocument(&rec)
}

func (r *gormRepository) Save(ctx context.Context, p *models.Project) error {
	doc, err := json.Marshal(p)
	if err != nil {
		return appErr.Wrap(err, appErr.CodeInternal, "encode project document failed")
	}
	rec := models.ProjectDocument{
		ID:       p.ID,
		OwnerID:  p.OwnerID,
		Name:     p.Name,
		Document: datatypes.JSON(doc),
	}
	err = r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"owner_id", "name", "document", "updated_at"}),
	}).Create(&rec).Error
	if err != nil {
		return appErr.Wrap(err, appErr.CodeInternal, "save project failed")
	}
	return nil
}

func (r *gormRepository) List(ctx context.Context, ownerID uuid.UUID) ([]*models.Project, error) {
	var recs []models.ProjectDocument
	if err := r.db.WithContext(ctx).Where("owner_id = ?", ownerID).Order("created_at DESC").Find(&recs).Error; err != nil {
		return nil, appErr.Wrap(err, appErr.CodeInternal, "list projects failed")
	}
	out := make([]*models.Project, 0, len(recs))
	for i := range recs {
		p, err := decodeDocument(&recs[i])
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

func (r *gormRepository) Delete(ctx context.Context, projectID uuid.UUID) error {
	res := r.db.WithContext(ctx).Delete(&models.ProjectDocument{}, "id = ?", projectID)
	if res.Error != nil {
		return appErr.Wrap(res.Error, appErr.CodeInternal, "delete project failed")
	}
	if res.RowsAffected == 0 {
		return appErr.New(appErr.CodeNotFound, "project not found").WithMeta("project_id", projectID.String())
	}
	return nil
}

func decodeDocument(rec *models.ProjectDocument) (*models.Project, error) {
	var p models.Project
	if err := json.Unmarshal(rec.Document, &p); err != nil {
		return nil, appErr.Wrap(err, appErr.CodeInternal, "decode project document failed")
	}
	return &p, nil
}
