// Package flowcheck validates Flow drafts against the owning Project. The
// validator is advisory: it never mutates state, collects every problem
// instead of failing fast, and leaves blocking the save to the caller.
package flowcheck

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/archstudio/engine/internal/models"
)

// Result is the outcome of validating one Flow draft. StepErrors is keyed by
// step index within the draft.
type Result struct {
	FlowErrors []string         `json:"flow_errors"`
	StepErrors map[int][]string `json:"step_errors"`
	IsValid    bool             `json:"is_valid"`
}

func (r *Result) flowError(msg string) {
	r.FlowErrors = append(r.FlowErrors, msg)
}

func (r *Result) stepError(index int, msg string) {
	if r.StepErrors == nil {
		r.StepErrors = map[int][]string{}
	}
	r.StepErrors[index] = append(r.StepErrors[index], msg)
}

// Messages flattens every collected error into one list, flow-level first.
func (r *Result) Messages() []string {
	out := append([]string{}, r.FlowErrors...)
	for i := 0; i <= maxStepIndex(r.StepErrors); i++ {
		for _, msg := range r.StepErrors[i] {
			out = append(out, fmt.Sprintf("step %d: %s", i+1, msg))
		}
	}
	return out
}

func maxStepIndex(m map[int][]string) int {
	max := -1
	for i := range m {
		if i > max {
			max = i
		}
	}
	return max
}

// Validate checks draft against the Project's Systems and Flows. The draft
// itself counts as an existing Flow even before its first save, so a draft
// can reference Flows that reference it back during creation.
func Validate(draft *models.Flow, p *models.Project) Result {
	var res Result

	if strings.TrimSpace(draft.Name) == "" {
		res.flowError("flow name is required")
	}

	scope := map[uuid.UUID]bool{}
	stale := false
	for _, id := range draft.SystemScopeIDs {
		if _, ok := p.Systems[id]; ok {
			scope[id] = true
		} else {
			stale = true
		}
	}
	if len(scope) == 0 {
		res.flowError("select at least one system")
	}
	if stale {
		res.flowError("stale scope: some selected systems no longer exist")
	}

	seenNames := map[string]int{}
	for i, step := range draft.Steps {
		name := strings.TrimSpace(step.Name)
		if name == "" {
			res.stepError(i, "step name is required")
		} else {
			key := strings.ToLower(name)
			if first, dup := seenNames[key]; dup {
				msg := fmt.Sprintf("duplicate step name %q", name)
				res.stepError(first, msg)
				res.stepError(i, msg)
			} else {
				seenNames[key] = i
			}
		}

		if step.SourceSystemID == uuid.Nil {
			res.stepError(i, "source system is required")
		} else if !scope[step.SourceSystemID] {
			res.stepError(i, "source system is outside the flow's scope")
		}
		if step.TargetSystemID == uuid.Nil {
			res.stepError(i, "target system is required")
		} else if !scope[step.TargetSystemID] {
			res.stepError(i, "target system is outside the flow's scope")
		}

		for _, altID := range step.AlternateFlowIDs {
			if altID == draft.ID {
				res.stepError(i, "a step cannot reference its own flow as an alternate")
				continue
			}
			if _, ok := p.Flows[altID]; !ok {
				res.stepError(i, fmt.Sprintf("alternate flow %s does not exist", altID))
			}
		}
	}

	res.IsValid = len(res.FlowErrors) == 0
	for _, errs := range res.StepErrors {
		if len(errs) > 0 {
			res.IsValid = false
		}
	}
	return res
}
