// Package attrtree edits recursive attribute schemas by local id. Mutating
// operations rebuild the path from the root to the target node and share
// every untouched sibling, so a caller holding the old tree never observes
// the edit.
package attrtree

import (
	"github.com/archstudio/engine/internal/models"
	appErr "github.com/archstudio/engine/pkg/errors"
)

// Add appends attr to the children of the node identified by parentLocalID,
// or to the top level when parentLocalID is empty. A missing parent is a
// NotFound error, not a silent no-op.
func Add(tree []*models.Attribute, parentLocalID string, attr *models.Attribute) ([]*models.Attribute, error) {
	if parentLocalID == "" {
		out := append([]*models.Attribute{}, tree...)
		return append(out, attr), nil
	}

	out, attached := addUnder(tree, parentLocalID, attr)
	if !attached {
		return nil, appErr.New(appErr.CodeNotFound, "parent attribute not found").WithMeta("local_id", parentLocalID)
	}
	return out, nil
}

func addUnder(tree []*models.Attribute, parentLocalID string, attr *models.Attribute) ([]*models.Attribute, bool) {
	attached := false
	out := make([]*models.Attribute, len(tree))
	for i, node := range tree {
		if attached {
			out[i] = node
			continue
		}
		if node.LocalID == parentLocalID {
			cp := *node
			cp.Attributes = append(append([]*models.Attribute{}, node.Attributes...), attr)
			out[i] = &cp
			attached = true
			continue
		}
		if children, ok := addUnder(node.Attributes, parentLocalID, attr); ok {
			cp := *node
			cp.Attributes = children
			out[i] = &cp
			attached = true
			continue
		}
		if node.Element != nil {
			if element, ok := addUnder([]*models.Attribute{node.Element}, parentLocalID, attr); ok {
				cp := *node
				cp.Element = element[0]
				out[i] = &cp
				attached = true
				continue
			}
		}
		out[i] = node
	}
	return out, attached
}

// Remove prunes the node identified by localID from wherever it lives in the
// tree, taking its entire subtree with it. Removing an id that is not
// present returns the tree unchanged.
func Remove(tree []*models.Attribute, localID string) []*models.Attribute {
	out := make([]*models.Attribute, 0, len(tree))
	for _, node := range tree {
		if node.LocalID == localID {
			continue
		}
		cp := *node
		cp.Attributes = Remove(node.Attributes, localID)
		if node.Element != nil {
			if node.Element.LocalID == localID {
				cp.Element = nil
			} else {
				kept := Remove([]*models.Attribute{node.Element}, localID)
				cp.Element = kept[0]
			}
		}
		out = append(out, &cp)
	}
	return out
}

// Update replaces exactly the node identified by localID with the result of
// fn, rebuilding only the path from the root to the target. The second
// return reports whether the target was found.
func Update(tree []*models.Attribute, localID string, fn func(*models.Attribute) *models.Attribute) ([]*models.Attribute, bool) {
	updated := false
	out := make([]*models.Attribute, len(tree))
	for i, node := range tree {
		if updated {
			out[i] = node
			continue
		}
		if node.LocalID == localID {
			out[i] = fn(node)
			updated = true
			continue
		}
		if children, ok := Update(node.Attributes, localID, fn); ok {
			cp := *node
			cp.Attributes = children
			out[i] = &cp
			updated = true
			continue
		}
		if node.Element != nil {
			if element, ok := Update([]*models.Attribute{node.Element}, localID, fn); ok {
				cp := *node
				cp.Element = element[0]
				out[i] = &cp
				updated = true
				continue
			}
		}
		out[i] = node
	}
	return out, updated
}

// Find returns the node identified by localID, searching depth-first, or nil.
func Find(tree []*models.Attribute, localID string) *models.Attribute {
	for _, node := range tree {
		if node.LocalID == localID {
			return node
		}
		if found := Find(node.Attributes, localID); found != nil {
			return found
		}
		if node.Element != nil {
			if found := Find([]*models.Attribute{node.Element}, localID); found != nil {
				return found
			}
		}
	}
	return nil
}

// SubtreeIDs collects the local ids of attr and everything beneath it, for
// callers that need the full id set of a subtree before removing it.
func SubtreeIDs(attr *models.Attribute) []string {
	if attr == nil {
		return nil
	}
	ids := []string{attr.LocalID}
	for _, child := range attr.Attributes {
		ids = append(ids, SubtreeIDs(child)...)
	}
	ids = append(ids, SubtreeIDs(attr.Element)...)
	return ids
}
