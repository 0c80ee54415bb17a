package flowcheck

import (
	"github.com/google/uuid"

	"github.com/archstudio/engine/internal/models"
)

// DetectCycle runs a depth-first search with a recursion stack over the
// directed alternate-flow relation, with draft substituted for its persisted
// version. It returns the ids along the first cycle found, starting and
// ending at the repeated Flow, or nil when the relation is acyclic from the
// draft.
//
// The direct self-reference ban lives in Validate; this catches the indirect
// case (A falls back to B, B falls back to A) that a per-flow check cannot
// see.
func DetectCycle(draft *models.Flow, p *models.Project) []uuid.UUID {
	flows := make(map[uuid.UUID]*models.Flow, len(p.Flows)+1)
	for id, f := range p.Flows {
		flows[id] = f
	}
	flows[draft.ID] = draft

	const (
		unvisited = 0
		inStack   = 1
		done      = 2
	)
	state := map[uuid.UUID]int{}

	var path []uuid.UUID
	var walk func(id uuid.UUID) []uuid.UUID
	walk = func(id uuid.UUID) []uuid.UUID {
		state[id] = inStack
		path = append(path, id)

		flow := flows[id]
		for _, step := range flow.Steps {
			for _, altID := range step.AlternateFlowIDs {
				alt, ok := flows[altID]
				if !ok {
					continue // dangling reference, Validate reports it
				}
				switch state[alt.ID] {
				case inStack:
					// close the loop: slice the path from the repeated id
					for i, pid := range path {
						if pid == alt.ID {
							cycle := append([]uuid.UUID{}, path[i:]...)
							return append(cycle, alt.ID)
						}
					}
				case unvisited:
					if cycle := walk(alt.ID); cycle != nil {
						return cycle
					}
				}
			}
		}

		path = path[:len(path)-1]
		state[id] = done
		return nil
	}

	return walk(draft.ID)
}
