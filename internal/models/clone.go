package models

import "github.com/google/uuid"

// Deep-clone methods for the aggregate and everything it owns. The mutation
// protocol clones the loaded aggregate before touching it, so a failed
// validation never leaves the loaded value half-mutated.

// Clone returns a deep structural copy of the aggregate.
func (p *Project) Clone() *Project {
	if p == nil {
		return nil
	}
	cp := &Project{
		ID:           p.ID,
		OwnerID:      p.OwnerID,
		Name:         p.Name,
		Description:  p.Description,
		Tags:         cloneStrings(p.Tags),
		RootSystemID: p.RootSystemID,
		Systems:      make(map[uuid.UUID]*System, len(p.Systems)),
		Flows:        make(map[uuid.UUID]*Flow, len(p.Flows)),
		DataModels:   make(map[uuid.UUID]*DataModel, len(p.DataModels)),
		Components:   make(map[uuid.UUID]*Component, len(p.Components)),
	}
	for id, s := range p.Systems {
		cp.Systems[id] = s.Clone()
	}
	for id, f := range p.Flows {
		cp.Flows[id] = f.Clone()
	}
	for id, dm := range p.DataModels {
		cp.DataModels[id] = dm.Clone()
	}
	for id, c := range p.Components {
		cp.Components[id] = c.Clone()
	}
	return cp
}

// Clone returns a deep copy of the System.
func (s *System) Clone() *System {
	if s == nil {
		return nil
	}
	cp := *s
	cp.Tags = cloneStrings(s.Tags)
	cp.ChildIDs = cloneIDs(s.ChildIDs)
	return &cp
}

// Clone returns a deep copy of the Flow and its Steps.
func (f *Flow) Clone() *Flow {
	if f == nil {
		return nil
	}
	cp := *f
	cp.Tags = cloneStrings(f.Tags)
	cp.SystemScopeIDs = cloneIDs(f.SystemScopeIDs)
	if f.Steps != nil {
		cp.Steps = make([]Step, len(f.Steps))
		for i := range f.Steps {
			cp.Steps[i] = f.Steps[i].Clone()
		}
	}
	return &cp
}

// Clone returns a deep copy of the Step.
func (st Step) Clone() Step {
	cp := st
	cp.Tags = cloneStrings(st.Tags)
	cp.AlternateFlowIDs = cloneIDs(st.AlternateFlowIDs)
	return cp
}

// Clone returns a deep copy of the DataModel and its attribute tree.
func (dm *DataModel) Clone() *DataModel {
	if dm == nil {
		return nil
	}
	cp := *dm
	cp.Tags = cloneStrings(dm.Tags)
	cp.Attributes = CloneAttributes(dm.Attributes)
	return &cp
}

// Clone returns a deep copy of the Component and its entry points.
func (c *Component) Clone() *Component {
	if c == nil {
		return nil
	}
	cp := *c
	cp.Tags = cloneStrings(c.Tags)
	if c.EntryPoints != nil {
		cp.EntryPoints = make([]*EntryPoint, len(c.EntryPoints))
		for i, ep := range c.EntryPoints {
			cp.EntryPoints[i] = ep.Clone()
		}
	}
	return &cp
}

// Clone returns a deep copy of the EntryPoint and its schemas.
func (ep *EntryPoint) Clone() *EntryPoint {
	if ep == nil {
		return nil
	}
	cp := *ep
	cp.Tags = cloneStrings(ep.Tags)
	cp.Request = CloneAttributes(ep.Request)
	cp.Response = CloneAttributes(ep.Response)
	return &cp
}

// Clone returns a deep copy of the Attribute subtree.
func (a *Attribute) Clone() *Attribute {
	if a == nil {
		return nil
	}
	cp := *a
	if a.Constraints != nil {
		cp.Constraints = make([]Constraint, len(a.Constraints))
		for i, c := range a.Constraints {
			cp.Constraints[i] = c.Clone()
		}
	}
	cp.Attributes = CloneAttributes(a.Attributes)
	cp.Element = a.Element.Clone()
	return &cp
}

// Clone returns a copy of the Constraint.
func (c Constraint) Clone() Constraint {
	cp := c
	cp.Values = cloneStrings(c.Values)
	return cp
}

// CloneAttributes deep-copies a list of attribute subtrees.
func CloneAttributes(attrs []*Attribute) []*Attribute {
	if attrs == nil {
		return nil
	}
	out := make([]*Attribute, len(attrs))
	for i, a := range attrs {
		out[i] = a.Clone()
	}
	return out
}

func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}

func cloneIDs(in []uuid.UUID) []uuid.UUID {
	if in == nil {
		return nil
	}
	out := make([]uuid.UUID, len(in))
	copy(out, in)
	return out
}
