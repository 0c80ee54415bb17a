package services

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/archstudio/engine/internal/engine/attrtree"
	"github.com/archstudio/engine/internal/engine/constraint"
	"github.com/archstudio/engine/internal/models"
	"github.com/archstudio/engine/internal/repository"
	appErr "github.com/archstudio/engine/pkg/errors"
	"github.com/archstudio/engine/pkg/logger"
)

// ModelService covers Data Models with their attribute schemas, Components,
// and Entry Points.
type ModelService interface {
	CreateDataModel(ctx context.Context, projectID, ownerID uuid.UUID, in *DataModelInput) (*models.DataModel, error)
	GetDataModel(ctx context.Context, projectID, ownerID, dataModelID uuid.UUID) (*models.DataModel, error)
	ListDataModels(ctx context.Context, projectID, ownerID uuid.UUID) ([]*models.DataModel, error)
	UpdateDataModel(ctx context.Context, projectID, ownerID, dataModelID uuid.UUID, in *DataModelInput) (*models.DataModel, error)
	DeleteDataModel(ctx context.Context, projectID, ownerID, dataModelID uuid.UUID) error

	AddAttribute(ctx context.Context, projectID, ownerID, dataModelID uuid.UUID, parentLocalID string, in *AttributeInput) (*models.Attribute, error)
	UpdateAttribute(ctx context.Context, projectID, ownerID, dataModelID uuid.UUID, localID string, in *AttributeInput) (*models.Attribute, error)
	RemoveAttribute(ctx context.Context, projectID, ownerID, dataModelID uuid.UUID, localID string) error
	AddConstraint(ctx context.Context, projectID, ownerID, dataModelID uuid.UUID, localID string, c models.Constraint) (*models.Attribute, error)
	RemoveConstraint(ctx context.Context, projectID, ownerID, dataModelID uuid.UUID, localID string, kind models.ConstraintKind) error

	CreateComponent(ctx context.Context, projectID, ownerID uuid.UUID, in *ComponentInput) (*models.Component, error)
	GetComponent(ctx context.Context, projectID, ownerID, componentID uuid.UUID) (*models.Component, error)
	ListComponents(ctx context.Context, projectID, ownerID uuid.UUID) ([]*models.Component, error)
	UpdateComponent(ctx context.Context, projectID, ownerID, componentID uuid.UUID, in *ComponentInput) (*models.Component, error)
	DeleteComponent(ctx context.Context, projectID, ownerID, componentID uuid.UUID) error

	CreateEntryPoint(ctx context.Context, projectID, ownerID, componentID uuid.UUID, in *EntryPointInput) (*models.EntryPoint, error)
	UpdateEntryPoint(ctx context.Context, projectID, ownerID, componentID, entryPointID uuid.UUID, in *EntryPointInput) (*models.EntryPoint, error)
	DeleteEntryPoint(ctx context.Context, projectID, ownerID, componentID, entryPointID uuid.UUID) error
}

type DataModelInput struct {
	Name        string
	Description string
	Tags        []string
}

type AttributeInput struct {
	Name        string
	Type        models.AttributeType
	Description string
	Flags       models.AttributeFlags
}

type ComponentInput struct {
	Name        string
	Description string
	Tags        []string
}

// EntryPointInput replaces the entry point's schemas wholesale; the trees
// are validated (names, types, constraint legality) before the save.
type EntryPointInput struct {
	Name        string
	Description string
	Tags        []string
	Request     []*models.Attribute
	Response    []*models.Attribute
}

type modelService struct {
	store
}

func NewModelService(repo repository.AggregateRepository) ModelService {
	return &modelService{store{repo: repo}}
}

var _ ModelService = (*modelService)(nil)

func dataModelOf(p *models.Project, id uuid.UUID) (*models.DataModel, error) {
	dm, ok := p.DataModels[id]
	if !ok {
		return nil, appErr.New(appErr.CodeNotFound, "data model not found").WithMeta("data_model_id", id.String())
	}
	return dm, nil
}

func componentOf(p *models.Project, id uuid.UUID) (*models.Component, error) {
	c, ok := p.Components[id]
	if !ok {
		return nil, appErr.New(appErr.CodeNotFound, "component not found").WithMeta("component_id", id.String())
	}
	return c, nil
}

func (s *modelService) CreateDataModel(ctx context.Context, projectID, ownerID uuid.UUID, in *DataModelInput) (*models.DataModel, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, appErr.Validation("data model name is required")
	}

	dm := &models.DataModel{ID: uuid.New(), Name: name, Description: in.Description, Tags: in.Tags}
	p, err := s.mutate(ctx, projectID, ownerID, func(p *models.Project) error {
		p.DataModels[dm.ID] = dm
		return nil
	})
	if err != nil {
		return nil, err
	}
	logger.L().Info("data model created", zap.String("project_id", projectID.String()), zap.String("data_model_id", dm.ID.String()))
	return p.DataModels[dm.ID], nil
}

func (s *modelService) GetDataModel(ctx context.Context, projectID, ownerID, dataModelID uuid.UUID) (*models.DataModel, error) {
	p, err := s.view(ctx, projectID, ownerID)
	if err != nil {
		return nil, err
	}
	return dataModelOf(p, dataModelID)
}

func (s *modelService) ListDataModels(ctx context.Context, projectID, ownerID uuid.UUID) ([]*models.DataModel, error) {
	p, err := s.view(ctx, projectID, ownerID)
	if err != nil {
		return nil, err
	}
	out := make([]*models.DataModel, 0, len(p.DataModels))
	for _, dm := range p.DataModels {
		out = append(out, dm)
	}
	return out, nil
}

func (s *modelService) UpdateDataModel(ctx context.Context, projectID, ownerID, dataModelID uuid.UUID, in *DataModelInput) (*models.DataModel, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, appErr.Validation("data model name is required")
	}

	p, err := s.mutate(ctx, projectID, ownerID, func(p *models.Project) error {
		dm, err := dataModelOf(p, dataModelID)
		if err != nil {
			return err
		}
		dm.Name = name
		dm.Description = in.Description
		dm.Tags = in.Tags
		return nil
	})
	if err != nil {
		return nil, err
	}
	return p.DataModels[dataModelID], nil
}

func (s *modelService) DeleteDataModel(ctx context.Context, projectID, ownerID, dataModelID uuid.UUID) error {
	_, err := s.mutate(ctx, projectID, ownerID, func(p *models.Project) error {
		if _, err := dataModelOf(p, dataModelID); err != nil {
			return err
		}
		delete(p.DataModels, dataModelID)
		return nil
	})
	if err == nil {
		logger.L().Info("data model deleted", zap.String("project_id", projectID.String()), zap.String("data_model_id", dataModelID.String()))
	}
	return err
}

func (s *modelService) AddAttribute(ctx context.Context, projectID, ownerID, dataModelID uuid.UUID, parentLocalID string, in *AttributeInput) (*models.Attribute, error) {
	attr, err := newAttribute(in)
	if err != nil {
		return nil, err
	}

	p, err := s.mutate(ctx, projectID, ownerID, func(p *models.Project) error {
		dm, err := dataModelOf(p, dataModelID)
		if err != nil {
			return err
		}
		tree, err := attrtree.Add(dm.Attributes, parentLocalID, attr)
		if err != nil {
			return err
		}
		dm.Attributes = tree
		return nil
	})
	if err != nil {
		return nil, err
	}
	return attrtree.Find(p.DataModels[dataModelID].Attributes, attr.LocalID), nil
}

func (s *modelService) UpdateAttribute(ctx context.Context, projectID, ownerID, dataModelID uuid.UUID, localID string, in *AttributeInput) (*models.Attribute, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, appErr.Validation("attribute name is required")
	}

	p, err := s.mutate(ctx, projectID, ownerID, func(p *models.Project) error {
		dm, err := dataModelOf(p, dataModelID)
		if err != nil {
			return err
		}
		var typeErr error
		tree, found := attrtree.Update(dm.Attributes, localID, func(a *models.Attribute) *models.Attribute {
			cp := a.Clone()
			cp.Name = name
			cp.Description = in.Description
			cp.Flags = in.Flags
			typeErr = constraint.SetType(cp, in.Type)
			return cp
		})
		if typeErr != nil {
			return typeErr
		}
		if !found {
			return appErr.New(appErr.CodeNotFound, "attribute not found").WithMeta("local_id", localID)
		}
		dm.Attributes = tree
		return nil
	})
	if err != nil {
		return nil, err
	}
	return attrtree.Find(p.DataModels[dataModelID].Attributes, localID), nil
}

func (s *modelService) RemoveAttribute(ctx context.Context, projectID, ownerID, dataModelID uuid.UUID, localID string) error {
	_, err := s.mutate(ctx, projectID, ownerID, func(p *models.Project) error {
		dm, err := dataModelOf(p, dataModelID)
		if err != nil {
			return err
		}
		if attrtree.Find(dm.Attributes, localID) == nil {
			return appErr.New(appErr.CodeNotFound, "attribute not found").WithMeta("local_id", localID)
		}
		dm.Attributes = attrtree.Remove(dm.Attributes, localID)
		return nil
	})
	return err
}

func (s *modelService) AddConstraint(ctx context.Context, projectID, ownerID, dataModelID uuid.UUID, localID string, c models.Constraint) (*models.Attribute, error) {
	p, err := s.mutate(ctx, projectID, ownerID, func(p *models.Project) error {
		dm, err := dataModelOf(p, dataModelID)
		if err != nil {
			return err
		}
		var attachErr error
		tree, found := attrtree.Update(dm.Attributes, localID, func(a *models.Attribute) *models.Attribute {
			cp := a.Clone()
			attachErr = constraint.Attach(cp, c)
			return cp
		})
		if attachErr != nil {
			return attachErr
		}
		if !found {
			return appErr.New(appErr.CodeNotFound, "attribute not found").WithMeta("local_id", localID)
		}
		dm.Attributes = tree
		return nil
	})
	if err != nil {
		return nil, err
	}
	return attrtree.Find(p.DataModels[dataModelID].Attributes, localID), nil
}

func (s *modelService) RemoveConstraint(ctx context.Context, projectID, ownerID, dataModelID uuid.UUID, localID string, kind models.ConstraintKind) error {
	_, err := s.mutate(ctx, projectID, ownerID, func(p *models.Project) error {
		dm, err := dataModelOf(p, dataModelID)
		if err != nil {
			return err
		}
		tree, found := attrtree.Update(dm.Attributes, localID, func(a *models.Attribute) *models.Attribute {
			cp := a.Clone()
			constraint.Detach(cp, kind)
			return cp
		})
		if !found {
			return appErr.New(appErr.CodeNotFound, "attribute not found").WithMeta("local_id", localID)
		}
		dm.Attributes = tree
		return nil
	})
	return err
}

func (s *modelService) CreateComponent(ctx context.Context, projectID, ownerID uuid.UUID, in *ComponentInput) (*models.Component, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, appErr.Validation("component name is required")
	}

	c := &models.Component{ID: uuid.New(), Name: name, Description: in.Description, Tags: in.Tags}
	p, err := s.mutate(ctx, projectID, ownerID, func(p *models.Project) error {
		p.Components[c.ID] = c
		return nil
	})
	if err != nil {
		return nil, err
	}
	logger.L().Info("component created", zap.String("project_id", projectID.String()), zap.String("component_id", c.ID.String()))
	return p.Components[c.ID], nil
}

func (s *modelService) GetComponent(ctx context.Context, projectID, ownerID, componentID uuid.UUID) (*models.Component, error) {
	p, err := s.view(ctx, projectID, ownerID)
	if err != nil {
		return nil, err
	}
	return componentOf(p, componentID)
}

func (s *modelService) ListComponents(ctx context.Context, projectID, ownerID uuid.UUID) ([]*models.Component, error) {
	p, err := s.view(ctx, projectID, ownerID)
	if err != nil {
		return nil, err
	}
	out := make([]*models.Component, 0, len(p.Components))
	for _, c := range p.Components {
		out = append(out, c)
	}
	return out, nil
}

func (s *modelService) UpdateComponent(ctx context.Context, projectID, ownerID, componentID uuid.UUID, in *ComponentInput) (*models.Component, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, appErr.Validation("component name is required")
	}

	p, err := s.mutate(ctx, projectID, ownerID, func(p *models.Project) error {
		c, err := componentOf(p, componentID)
		if err != nil {
			return err
		}
		c.Name = name
		c.Description = in.Description
		c.Tags = in.Tags
		return nil
	})
	if err != nil {
		return nil, err
	}
	return p.Components[componentID], nil
}

// DeleteComponent removes the component and, with it, every entry point it
// owns.
func (s *modelService) DeleteComponent(ctx context.Context, projectID, ownerID, componentID uuid.UUID) error {
	_, err := s.mutate(ctx, projectID, ownerID, func(p *models.Project) error {
		if _, err := componentOf(p, componentID); err != nil {
			return err
		}
		delete(p.Components, componentID)
		return nil
	})
	if err == nil {
		logger.L().Info("component deleted", zap.String("project_id", projectID.String()), zap.String("component_id", componentID.String()))
	}
	return err
}

func (s *modelService) CreateEntryPoint(ctx context.Context, projectID, ownerID, componentID uuid.UUID, in *EntryPointInput) (*models.EntryPoint, error) {
	ep, err := newEntryPoint(uuid.New(), in)
	if err != nil {
		return nil, err
	}

	p, err := s.mutate(ctx, projectID, ownerID, func(p *models.Project) error {
		c, err := componentOf(p, componentID)
		if err != nil {
			return err
		}
		c.EntryPoints = append(c.EntryPoints, ep)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return p.Components[componentID].EntryPoint(ep.ID), nil
}

func (s *modelService) UpdateEntryPoint(ctx context.Context, projectID, ownerID, componentID, entryPointID uuid.UUID, in *EntryPointInput) (*models.EntryPoint, error) {
	replacement, err := newEntryPoint(entryPointID, in)
	if err != nil {
		return nil, err
	}

	p, err := s.mutate(ctx, projectID, ownerID, func(p *models.Project) error {
		c, err := componentOf(p, componentID)
		if err != nil {
			return err
		}
		for i, ep := range c.EntryPoints {
			if ep.ID == entryPointID {
				c.EntryPoints[i] = replacement
				return nil
			}
		}
		return appErr.New(appErr.CodeNotFound, "entry point not found").WithMeta("entry_point_id", entryPointID.String())
	})
	if err != nil {
		return nil, err
	}
	return p.Components[componentID].EntryPoint(entryPointID), nil
}

func (s *modelService) DeleteEntryPoint(ctx context.Context, projectID, ownerID, componentID, entryPointID uuid.UUID) error {
	_, err := s.mutate(ctx, projectID, ownerID, func(p *models.Project) error {
		c, err := componentOf(p, componentID)
		if err != nil {
			return err
		}
		for i, ep := range c.EntryPoints {
			if ep.ID == entryPointID {
				c.EntryPoints = append(c.EntryPoints[:i], c.EntryPoints[i+1:]...)
				return nil
			}
		}
		return appErr.New(appErr.CodeNotFound, "entry point not found").WithMeta("entry_point_id", entryPointID.String())
	})
	return err
}

func newAttribute(in *AttributeInput) (*models.Attribute, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, appErr.Validation("attribute name is required")
	}
	if !models.ValidAttributeType(in.Type) {
		return nil, appErr.Validation("unknown attribute type " + string(in.Type))
	}
	return &models.Attribute{
		LocalID:     uuid.NewString(),
		Name:        name,
		Type:        in.Type,
		Description: in.Description,
		Flags:       in.Flags,
	}, nil
}

func newEntryPoint(id uuid.UUID, in *EntryPointInput) (*models.EntryPoint, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, appErr.Validation("entry point name is required")
	}
	if problems := constraint.ValidateTree(in.Request); len(problems) > 0 {
		return nil, appErr.Validation("invalid request schema", problems...)
	}
	if problems := constraint.ValidateTree(in.Response); len(problems) > 0 {
		return nil, appErr.Validation("invalid response schema", problems...)
	}
	ep := &models.EntryPoint{
		ID:          id,
		Name:        name,
		Description: in.Description,
		Tags:        in.Tags,
		Request:     models.CloneAttributes(in.Request),
		Response:    models.CloneAttributes(in.Response),
	}
	mintLocalIDs(ep.Request)
	mintLocalIDs(ep.Response)
	return ep, nil
}

func mintLocalIDs(attrs []*models.Attribute) {
	for _, a := range attrs {
		if a.LocalID == "" {
			a.LocalID = uuid.NewString()
		}
		mintLocalIDs(a.Attributes)
		if a.Element != nil {
			mintLocalIDs([]*models.Attribute{a.Element})
		}
	}
}
