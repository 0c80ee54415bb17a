// Package systemtree mutates a Project's System hierarchy. Every operation
// works on whole subtrees, so tree connectivity is preserved by construction
// and no global re-validation runs after a mutation.
package systemtree

import (
	"github.com/google/uuid"

	"github.com/archstudio/engine/internal/models"
	appErr "github.com/archstudio/engine/pkg/errors"
)

// Add attaches sys under the System identified by parentID. The new System
// starts with no children and is never a root. Adding the same child twice
// under one parent is a no-op on the parent's child list.
func Add(p *models.Project, parentID uuid.UUID, sys *models.System) error {
	parent, ok := p.Systems[parentID]
	if !ok {
		return appErr.New(appErr.CodeNotFound, "parent system not found").WithMeta("system_id", parentID.String())
	}

	sys.ChildIDs = nil
	sys.IsRoot = false
	p.Systems[sys.ID] = sys

	for _, id := range parent.ChildIDs {
		if id == sys.ID {
			return nil
		}
	}
	parent.ChildIDs = append(parent.ChildIDs, sys.ID)
	return nil
}

// Remove deletes the System identified by systemID together with every
// transitive descendant, and detaches it from its parent's child list. The
// root System can never be removed, children or not.
func Remove(p *models.Project, systemID uuid.UUID) error {
	sys, ok := p.Systems[systemID]
	if !ok {
		return appErr.New(appErr.CodeNotFound, "system not found").WithMeta("system_id", systemID.String())
	}
	if sys.IsRoot {
		return appErr.Validation("the root system cannot be deleted")
	}

	doomed := Descendants(p, systemID)

	// Exactly one parent holds systemID in a well-formed tree.
	for _, candidate := range p.Systems {
		for i, id := range candidate.ChildIDs {
			if id == systemID {
				candidate.ChildIDs = append(candidate.ChildIDs[:i], candidate.ChildIDs[i+1:]...)
				break
			}
		}
	}

	for _, id := range doomed {
		delete(p.Systems, id)
	}
	return nil
}

// Descendants returns rootID and every System reachable from it through
// ChildIDs. The walk is iterative and guarded by a visited set, so a
// malformed cyclic graph terminates instead of looping.
func Descendants(p *models.Project, rootID uuid.UUID) []uuid.UUID {
	visited := map[uuid.UUID]bool{}
	order := []uuid.UUID{}
	stack := []uuid.UUID{rootID}

	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if visited[id] {
			continue
		}
		visited[id] = true
		order = append(order, id)
		if sys, ok := p.Systems[id]; ok {
			stack = append(stack, sys.ChildIDs...)
		}
	}
	return order
}
