package systemtree

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/archstudio/engine/internal/models"
	appErr "github.com/archstudio/engine/pkg/errors"
)

func newProject(t *testing.T) *models.Project {
	t.Helper()
	return models.NewProject(uuid.New(), "shop", "", nil)
}

func addChild(t *testing.T, p *models.Project, parentID uuid.UUID, name string) *models.System {
	t.Helper()
	sys := &models.System{ID: uuid.New(), Name: name}
	require.NoError(t, Add(p, parentID, sys))
	return sys
}

func TestAddUnknownParent(t *testing.T) {
	p := newProject(t)
	err := Add(p, uuid.New(), &models.System{ID: uuid.New(), Name: "orphan"})
	require.True(t, appErr.IsCode(err, appErr.CodeNotFound))
}

func TestAddDeduplicatesChildIDs(t *testing.T) {
	p := newProject(t)
	sys := addChild(t, p, p.RootSystemID, "billing")

	// re-attach the same system under the same parent
	require.NoError(t, Add(p, p.RootSystemID, sys))
	require.Equal(t, []uuid.UUID{sys.ID}, p.RootSystem().ChildIDs)
}

func TestAddForcesNonRoot(t *testing.T) {
	p := newProject(t)
	sys := &models.System{ID: uuid.New(), Name: "billing", IsRoot: true, ChildIDs: []uuid.UUID{uuid.New()}}
	require.NoError(t, Add(p, p.RootSystemID, sys))
	require.False(t, p.Systems[sys.ID].IsRoot)
	require.Empty(t, p.Systems[sys.ID].ChildIDs)
}

func TestRemoveCascades(t *testing.T) {
	p := newProject(t)
	a := addChild(t, p, p.RootSystemID, "a")
	b := addChild(t, p, a.ID, "b")
	c := addChild(t, p, b.ID, "c")
	sibling := addChild(t, p, p.RootSystemID, "sibling")

	require.NoError(t, Remove(p, a.ID))

	for _, id := range []uuid.UUID{a.ID, b.ID, c.ID} {
		require.NotContains(t, p.Systems, id)
	}
	require.Contains(t, p.Systems, sibling.ID)

	// no remaining system may reference a removed id
	for _, sys := range p.Systems {
		for _, child := range sys.ChildIDs {
			require.NotEqual(t, a.ID, child)
			require.NotEqual(t, b.ID, child)
			require.NotEqual(t, c.ID, child)
		}
	}
}

func TestRemoveRootRejected(t *testing.T) {
	p := newProject(t)
	addChild(t, p, p.RootSystemID, "a")
	before := len(p.Systems)

	err := Remove(p, p.RootSystemID)
	require.True(t, appErr.IsCode(err, appErr.CodeInvalid))
	require.Len(t, p.Systems, before)
}

func TestRemoveLeafThenRoot(t *testing.T) {
	p := newProject(t)
	a := addChild(t, p, p.RootSystemID, "a")

	require.NoError(t, Remove(p, a.ID))
	require.Len(t, p.Systems, 1)
	require.Contains(t, p.Systems, p.RootSystemID)
	require.Empty(t, p.RootSystem().ChildIDs)

	err := Remove(p, p.RootSystemID)
	require.True(t, appErr.IsCode(err, appErr.CodeInvalid))
	require.Len(t, p.Systems, 1)
}

func TestRemoveUnknown(t *testing.T) {
	p := newProject(t)
	err := Remove(p, uuid.New())
	require.True(t, appErr.IsCode(err, appErr.CodeNotFound))
}

func TestDescendantsSurvivesCyclicGraph(t *testing.T) {
	p := newProject(t)
	a := addChild(t, p, p.RootSystemID, "a")
	b := addChild(t, p, a.ID, "b")

	// corrupt the tree into a cycle; the walk must still terminate
	p.Systems[b.ID].ChildIDs = append(p.Systems[b.ID].ChildIDs, a.ID)

	ids := Descendants(p, a.ID)
	require.ElementsMatch(t, []uuid.UUID{a.ID, b.ID}, ids)
}
