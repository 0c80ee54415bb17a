package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/archstudio/engine/internal/engine/flowcheck"
	"github.com/archstudio/engine/internal/models"
	"github.com/archstudio/engine/internal/repository"
	appErr "github.com/archstudio/engine/pkg/errors"
	"github.com/archstudio/engine/pkg/logger"
)

// FlowService covers Flow lifecycle. Every create and update passes the
// draft through the flow validator and the alternate-flow cycle check before
// the aggregate is persisted.
type FlowService interface {
	CreateFlow(ctx context.Context, projectID, ownerID uuid.UUID, in *FlowInput) (*models.Flow, error)
	GetFlow(ctx context.Context, projectID, ownerID, flowID uuid.UUID) (*models.Flow, error)
	ListFlows(ctx context.Context, projectID, ownerID uuid.UUID) ([]*models.Flow, error)
	UpdateFlow(ctx context.Context, projectID, ownerID, flowID uuid.UUID, in *FlowInput) (*models.Flow, error)
	DeleteFlow(ctx context.Context, projectID, ownerID, flowID uuid.UUID) error

	// ValidateFlow runs the advisory validation without persisting anything.
	ValidateFlow(ctx context.Context, projectID, ownerID uuid.UUID, in *FlowInput, flowID uuid.UUID) (flowcheck.Result, error)
}

type FlowInput struct {
	Name           string
	Description    string
	Tags           []string
	SystemScopeIDs []uuid.UUID
	Steps          []StepInput
}

type StepInput struct {
	ID               uuid.UUID
	Name             string
	Description      string
	Tags             []string
	SourceSystemID   uuid.UUID
	TargetSystemID   uuid.UUID
	AlternateFlowIDs []uuid.UUID
}

func (in *FlowInput) toFlow(id uuid.UUID) *models.Flow {
	f := &models.Flow{
		ID:             id,
		Name:           strings.TrimSpace(in.Name),
		Description:    in.Description,
		Tags:           in.Tags,
		SystemScopeIDs: in.SystemScopeIDs,
		Steps:          make([]models.Step, len(in.Steps)),
	}
	for i, st := range in.Steps {
		f.Steps[i] = models.Step{
			ID:               st.ID,
			Name:             st.Name,
			Description:      st.Description,
			Tags:             st.Tags,
			SourceSystemID:   st.SourceSystemID,
			TargetSystemID:   st.TargetSystemID,
			AlternateFlowIDs: st.AlternateFlowIDs,
		}
	}
	return f
}

type flowService struct {
	store
}

func NewFlowService(repo repository.AggregateRepository) FlowService {
	return &flowService{store{repo: repo}}
}

var _ FlowService = (*flowService)(nil)

// checkFlow runs the validator and the cycle detector against the draft in
// the context of p, and converts failures into one structured error carrying
// every collected problem.
func checkFlow(draft *models.Flow, p *models.Project) error {
	res := flowcheck.Validate(draft, p)
	details := res.Messages()
	if cycle := flowcheck.DetectCycle(draft, p); cycle != nil {
		names := make([]string, len(cycle))
		for i, id := range cycle {
			if f, ok := p.Flows[id]; ok && id != draft.ID {
				names[i] = f.Name
			} else {
				names[i] = draft.Name
			}
		}
		details = append(details, fmt.Sprintf("alternate flows form a cycle: %s", strings.Join(names, " -> ")))
	}
	if len(details) > 0 {
		return appErr.Validation("flow validation failed", details...)
	}
	return nil
}

// mintStepIDs assigns ids to steps that arrive without one. Ids are assigned
// on first persist and never reused.
func mintStepIDs(f *models.Flow) {
	for i := range f.Steps {
		if f.Steps[i].ID == uuid.Nil {
			f.Steps[i].ID = uuid.New()
		}
	}
}

func (s *flowService) CreateFlow(ctx context.Context, projectID, ownerID uuid.UUID, in *FlowInput) (*models.Flow, error) {
	flow := in.toFlow(uuid.New())
	p, err := s.mutate(ctx, projectID, ownerID, func(p *models.Project) error {
		if err := checkFlow(flow, p); err != nil {
			return err
		}
		mintStepIDs(flow)
		p.Flows[flow.ID] = flow
		return nil
	})
	if err != nil {
		return nil, err
	}
	logger.L().Info("flow created", zap.String("project_id", projectID.String()), zap.String("flow_id", flow.ID.String()))
	return p.Flows[flow.ID], nil
}

func (s *flowService) GetFlow(ctx context.Context, projectID, ownerID, flowID uuid.UUID) (*models.Flow, error) {
	p, err := s.view(ctx, projectID, ownerID)
	if err != nil {
		return nil, err
	}
	flow, ok := p.Flows[flowID]
	if !ok {
		return nil, appErr.New(appErr.CodeNotFound, "flow not found").WithMeta("flow_id", flowID.String())
	}
	return flow, nil
}

func (s *flowService) ListFlows(ctx context.Context, projectID, ownerID uuid.UUID) ([]*models.Flow, error) {
	p, err := s.view(ctx, projectID, ownerID)
	if err != nil {
		return nil, err
	}
	out := make([]*models.Flow, 0, len(p.Flows))
	for _, f := range p.Flows {
		out = append(out, f)
	}
	return out, nil
}

func (s *flowService) UpdateFlow(ctx context.Context, projectID, ownerID, flowID uuid.UUID, in *FlowInput) (*models.Flow, error) {
	p, err := s.mutate(ctx, projectID, ownerID, func(p *models.Project) error {
		if _, ok := p.Flows[flowID]; !ok {
			return appErr.New(appErr.CodeNotFound, "flow not found").WithMeta("flow_id", flowID.String())
		}
		flow := in.toFlow(flowID)
		if err := checkFlow(flow, p); err != nil {
			return err
		}
		mintStepIDs(flow)
		p.Flows[flowID] = flow
		return nil
	})
	if err != nil {
		return nil, err
	}
	logger.L().Info("flow updated", zap.String("project_id", projectID.String()), zap.String("flow_id", flowID.String()))
	return p.Flows[flowID], nil
}

func (s *flowService) DeleteFlow(ctx context.Context, projectID, ownerID, flowID uuid.UUID) error {
	_, err := s.mutate(ctx, projectID, ownerID, func(p *models.Project) error {
		if _, ok := p.Flows[flowID]; !ok {
			return appErr.New(appErr.CodeNotFound, "flow not found").WithMeta("flow_id", flowID.String())
		}
		delete(p.Flows, flowID)

		// strip dangling alternate references to the deleted flow
		for _, f := range p.Flows {
			for i := range f.Steps {
				alts := f.Steps[i].AlternateFlowIDs
				kept := alts[:0]
				for _, id := range alts {
					if id != flowID {
						kept = append(kept, id)
					}
				}
				f.Steps[i].AlternateFlowIDs = kept
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	logger.L().Info("flow deleted", zap.String("project_id", projectID.String()), zap.String("flow_id", flowID.String()))
	return nil
}

func (s *flowService) ValidateFlow(ctx context.Context, projectID, ownerID uuid.UUID, in *FlowInput, flowID uuid.UUID) (flowcheck.Result, error) {
	p, err := s.view(ctx, projectID, ownerID)
	if err != nil {
		return flowcheck.Result{}, err
	}
	if flowID == uuid.Nil {
		flowID = uuid.New()
	}
	return flowcheck.Validate(in.toFlow(flowID), p), nil
}
