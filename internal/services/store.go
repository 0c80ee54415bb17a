package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/archstudio/engine/internal/models"
	"github.com/archstudio/engine/internal/repository"
	appErr "github.com/archstudio/engine/pkg/errors"
)

// store carries the mutation protocol every service follows: load the full
// aggregate, clone it, apply exactly one structural change, and persist the
// whole document back. The loaded value is never mutated in place, so a
// failed operation leaves nothing half-applied.
type store struct {
	repo repository.AggregateRepository
}

// view loads the aggregate and checks ownership without mutating anything.
func (s store) view(ctx context.Context, projectID, ownerID uuid.UUID) (*models.Project, error) {
	p, err := s.repo.Load(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if p.OwnerID != ownerID {
		return nil, appErr.New(appErr.CodeUnauthorized, "user does not own project")
	}
	return p, nil
}

// mutate runs op against a clone of the loaded aggregate and saves the clone
// when op succeeds. The save is a whole-document write; overlapping callers
// race and the later save wins (single-writer usage assumption).
func (s store) mutate(ctx context.Context, projectID, ownerID uuid.UUID, op func(*models.Project) error) (*models.Project, error) {
	loaded, err := s.view(ctx, projectID, ownerID)
	if err != nil {
		return nil, err
	}
	draft := loaded.Clone()
	if err := op(draft); err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, draft); err != nil {
		return nil, err
	}
	return draft, nil
}
