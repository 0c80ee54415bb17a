package services

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/archstudio/engine/internal/engine/systemtree"
	"github.com/archstudio/engine/internal/models"
	"github.com/archstudio/engine/internal/repository"
	appErr "github.com/archstudio/engine/pkg/errors"
	"github.com/archstudio/engine/pkg/logger"
)

// ProjectService covers Project lifecycle and System tree mutations.
type ProjectService interface {
	CreateProject(ctx context.Context, ownerID uuid.UUID, in *ProjectInput) (*models.Project, error)
	GetProject(ctx context.Context, projectID, ownerID uuid.UUID) (*models.Project, error)
	ListProjects(ctx context.Context, ownerID uuid.UUID) ([]*models.Project, error)
	UpdateProject(ctx context.Context, projectID, ownerID uuid.UUID, in *ProjectInput) (*models.Project, error)
	DeleteProject(ctx context.Context, projectID, ownerID uuid.UUID) error

	AddSystem(ctx context.Context, projectID, ownerID, parentID uuid.UUID, in *SystemInput) (*models.System, error)
	UpdateSystem(ctx context.Context, projectID, ownerID, systemID uuid.UUID, in *SystemInput) (*models.System, error)
	RemoveSystem(ctx context.Context, projectID, ownerID, systemID uuid.UUID) error
}

type ProjectInput struct {
	Name        string
	Description string
	Tags        []string
}

type SystemInput struct {
	Name        string
	Description string
	Tags        []string
}

type projectService struct {
	store
}

func NewProjectService(repo repository.AggregateRepository) ProjectService {
	return &projectService{store{repo: repo}}
}

var _ ProjectService = (*projectService)(nil)

func (s *projectService) CreateProject(ctx context.Context, ownerID uuid.UUID, in *ProjectInput) (*models.Project, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, appErr.Validation("project name is required")
	}

	p := models.NewProject(ownerID, name, in.Description, in.Tags)
	if err := s.repo.Save(ctx, p); err != nil {
		return nil, err
	}
	logger.L().Info("project created", zap.String("project_id", p.ID.String()), zap.String("owner_id", ownerID.String()))
	return p, nil
}

func (s *projectService) GetProject(ctx context.Context, projectID, ownerID uuid.UUID) (*models.Project, error) {
	return s.view(ctx, projectID, ownerID)
}

func (s *projectService) ListProjects(ctx context.Context, ownerID uuid.UUID) ([]*models.Project, error) {
	return s.repo.List(ctx, ownerID)
}

func (s *projectService) UpdateProject(ctx context.Context, projectID, ownerID uuid.UUID, in *ProjectInput) (*models.Project, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, appErr.Validation("project name is required")
	}

	p, err := s.mutate(ctx, projectID, ownerID, func(p *models.Project) error {
		p.Name = name
		p.Description = in.Description
		p.Tags = in.Tags
		return nil
	})
	if err != nil {
		return nil, err
	}
	logger.L().Info("project updated", zap.String("project_id", projectID.String()))
	return p, nil
}

func (s *projectService) DeleteProject(ctx context.Context, projectID, ownerID uuid.UUID) error {
	if _, err := s.view(ctx, projectID, ownerID); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, projectID); err != nil {
		return err
	}
	logger.L().Info("project deleted", zap.String("project_id", projectID.String()))
	return nil
}

func (s *projectService) AddSystem(ctx context.Context, projectID, ownerID, parentID uuid.UUID, in *SystemInput) (*models.System, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, appErr.Validation("system name is required")
	}

	sys := &models.System{
		ID:          uuid.New(),
		Name:        name,
		Description: in.Description,
		Tags:        in.Tags,
	}
	p, err := s.mutate(ctx, projectID, ownerID, func(p *models.Project) error {
		return systemtree.Add(p, parentID, sys)
	})
	if err != nil {
		return nil, err
	}
	logger.L().Info("system added",
		zap.String("project_id", projectID.String()),
		zap.String("system_id", sys.ID.String()),
		zap.String("parent_id", parentID.String()))
	return p.Systems[sys.ID], nil
}

func (s *projectService) UpdateSystem(ctx context.Context, projectID, ownerID, systemID uuid.UUID, in *SystemInput) (*models.System, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, appErr.Validation("system name is required")
	}

	p, err := s.mutate(ctx, projectID, ownerID, func(p *models.Project) error {
		sys, ok := p.Systems[systemID]
		if !ok {
			return appErr.New(appErr.CodeNotFound, "system not found").WithMeta("system_id", systemID.String())
		}
		sys.Name = name
		sys.Description = in.Description
		sys.Tags = in.Tags
		return nil
	})
	if err != nil {
		return nil, err
	}
	logger.L().Info("system updated", zap.String("project_id", projectID.String()), zap.String("system_id", systemID.String()))
	return p.Systems[systemID], nil
}

func (s *projectService) RemoveSystem(ctx context.Context, projectID, ownerID, systemID uuid.UUID) error {
	_, err := s.mutate(ctx, projectID, ownerID, func(p *models.Project) error {
		return systemtree.Remove(p, systemID)
	})
	if err != nil {
		return err
	}
	logger.L().Info("system removed", zap.String("project_id", projectID.String()), zap.String("system_id", systemID.String()))
	return nil
}
