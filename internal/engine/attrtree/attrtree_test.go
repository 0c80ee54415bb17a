package attrtree

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/archstudio/engine/internal/models"
	appErr "github.com/archstudio/engine/pkg/errors"
)

func attr(localID string, t models.AttributeType, children ...*models.Attribute) *models.Attribute {
	return &models.Attribute{LocalID: localID, Name: localID, Type: t, Attributes: children}
}

func TestAddTopLevel(t *testing.T) {
	tree := []*models.Attribute{attr("a1", models.TypeString)}
	out, err := Add(tree, "", attr("a2", models.TypeNumber))
	require.NoError(t, err)
	require.Len(t, out, 2)
	require.Equal(t, "a2", out[1].LocalID)
	require.Len(t, tree, 1, "input tree must stay untouched")
}

func TestAddNested(t *testing.T) {
	tree := []*models.Attribute{
		attr("a1", models.TypeObject,
			attr("a2", models.TypeObject)),
	}
	out, err := Add(tree, "a2", attr("a3", models.TypeString))
	require.NoError(t, err)
	require.Equal(t, "a3", out[0].Attributes[0].Attributes[0].LocalID)
	require.Empty(t, tree[0].Attributes[0].Attributes, "input tree must stay untouched")
}

func TestAddUnderArrayElement(t *testing.T) {
	element := attr("el", models.TypeObject)
	arr := attr("arr", models.TypeArray)
	arr.Element = element
	tree := []*models.Attribute{arr}

	out, err := Add(tree, "el", attr("a1", models.TypeString))
	require.NoError(t, err)
	require.Equal(t, "a1", out[0].Element.Attributes[0].LocalID)
}

func TestAddMissingParent(t *testing.T) {
	tree := []*models.Attribute{attr("a1", models.TypeString)}
	_, err := Add(tree, "nope", attr("a2", models.TypeString))
	require.True(t, appErr.IsCode(err, appErr.CodeNotFound))
}

func TestRemoveSubtree(t *testing.T) {
	tree := []*models.Attribute{
		attr("a1", models.TypeObject,
			attr("a2", models.TypeString)),
	}
	out := Remove(tree, "a1")
	require.Empty(t, out)
	require.Nil(t, Find(out, "a2"))
}

func TestRemoveNestedKeepsSiblings(t *testing.T) {
	tree := []*models.Attribute{
		attr("root", models.TypeObject,
			attr("keep", models.TypeString),
			attr("drop", models.TypeObject,
				attr("grandchild", models.TypeString))),
	}
	out := Remove(tree, "drop")
	require.Len(t, out[0].Attributes, 1)
	require.Equal(t, "keep", out[0].Attributes[0].LocalID)
	require.Nil(t, Find(out, "grandchild"))
	require.NotNil(t, Find(tree, "drop"), "input tree must stay untouched")
}

func TestRemoveArrayElement(t *testing.T) {
	arr := attr("arr", models.TypeArray)
	arr.Element = attr("el", models.TypeString)
	out := Remove([]*models.Attribute{arr}, "el")
	require.Nil(t, out[0].Element)
}

func TestUpdateRebuildsOnlyPathToTarget(t *testing.T) {
	untouched := attr("sibling", models.TypeString)
	tree := []*models.Attribute{
		attr("root", models.TypeObject,
			attr("target", models.TypeString)),
		untouched,
	}

	out, ok := Update(tree, "target", func(a *models.Attribute) *models.Attribute {
		cp := *a
		cp.Name = "renamed"
		return &cp
	})
	require.True(t, ok)
	require.Equal(t, "renamed", out[0].Attributes[0].Name)
	require.Equal(t, "target", tree[0].Attributes[0].Name, "input tree must stay untouched")
	require.Same(t, untouched, out[1], "untouched branches keep their identity")
}

func TestUpdateMissingTarget(t *testing.T) {
	tree := []*models.Attribute{attr("a1", models.TypeString)}
	_, ok := Update(tree, "nope", func(a *models.Attribute) *models.Attribute { return a })
	require.False(t, ok)
}

func TestFindDepthFirst(t *testing.T) {
	tree := []*models.Attribute{
		attr("a", models.TypeObject,
			attr("b", models.TypeString)),
		attr("c", models.TypeString),
	}
	require.Equal(t, "b", Find(tree, "b").LocalID)
	require.Nil(t, Find(tree, "missing"))
}

func TestSubtreeIDs(t *testing.T) {
	arr := attr("arr", models.TypeArray)
	arr.Element = attr("el", models.TypeString)
	root := attr("root", models.TypeObject, attr("child", models.TypeString), arr)
	require.ElementsMatch(t, []string{"root", "child", "arr", "el"}, SubtreeIDs(root))
}
