package repository

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/archstudio/engine/internal/models"
	appErr "github.com/archstudio/engine/pkg/errors"
)

// MemoryRepository is an in-memory AggregateRepository used by tests and
// local development. It clones on the way in and out, so callers get the
// same isolation the jsonb store provides.
type MemoryRepository struct {
	mu   sync.RWMutex
	docs map[uuid.UUID]*models.Project
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{docs: map[uuid.UUID]*models.Project{}}
}

var _ AggregateRepository = (*MemoryRepository)(nil)

func (r *MemoryRepository) Load(ctx context.Context, projectID uuid.UUID) (*models.Project, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.docs[projectID]
	if !ok {
		return nil, appErr.New(appErr.CodeNotFound, "project not found").WithMeta("project_id", projectID.String())
	}
	return p.Clone(), nil
}

func (r *MemoryRepository) Save(ctx context.Context, p *models.Project) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.docs[p.ID] = p.Clone()
	return nil
}

func (r *MemoryRepository) List(ctx context.Context, ownerID uuid.UUID) ([]*models.Project, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := []*models.Project{}
	for _, p := range r.docs {
		if p.OwnerID == ownerID {
			out = append(out, p.Clone())
		}
	}
	return out, nil
}

func (r *MemoryRepository) Delete(ctx context.Context, projectID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.docs[projectID]; !ok {
		return appErr.New(appErr.CodeNotFound, "project not found").WithMeta("project_id", projectID.String())
	}
	delete(r.docs, projectID)
	return nil
}
