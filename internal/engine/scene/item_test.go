package scene

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Beginsangod/Painter/pkg/math"
)

func names(items []*Item) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.Name()
	}
	return out
}

func TestAddChildReparents(t *testing.T) {
	var j []string
	reg := NewRegistryWithSeed(1, 1)
	p1, p2, c := newTestItem(reg, "p1", &j), newTestItem(reg, "p2", &j), newTestItem(reg, "c", &j)

	require.NoError(t, p1.AddChild(c.Item))
	require.NoError(t, p2.AddChild(c.Item))

	assert.Empty(t, p1.Children())
	assert.Equal(t, []string{"c"}, names(p2.Children()))
	assert.Same(t, p2.Item, c.Parent())

	// Adding the same child twice keeps one entry.
	require.NoError(t, p2.AddChild(c.Item))
	assert.Len(t, p2.Children(), 1)
}

func TestAddChildRejectsCycles(t *testing.T) {
	var j []string
	a, b, c := newTestItem(nil, "a", &j), newTestItem(nil, "b", &j), newTestItem(nil, "c", &j)
	require.NoError(t, a.AddChild(b.Item))
	require.NoError(t, b.AddChild(c.Item))

	assert.ErrorIs(t, a.AddChild(a.Item), ErrCycle)
	assert.ErrorIs(t, c.AddChild(a.Item), ErrCycle)
	assert.ErrorIs(t, c.AddChild(b.Item), ErrCycle)

	// The tree is unchanged.
	assert.Nil(t, a.Parent())
	assert.Equal(t, []string{"b", "c"}, names(a.RecursiveChildItems()))
}

func TestChildrenSortedByDepth(t *testing.T) {
	var j []string
	root := newTestItem(nil, "root", &j)
	for _, d := range []struct {
		name  string
		depth int
	}{{"z", 5}, {"a", -1}, {"m", 2}, {"m2", 2}} {
		c := newTestItem(nil, d.name, &j)
		c.SetDepth(d.depth)
		require.NoError(t, root.AddChild(c.Item))
	}
	assert.Equal(t, []string{"a", "m", "m2", "z"}, names(root.Children()))

	root.Children()[0].SetDepth(10)
	assert.Equal(t, []string{"m", "m2", "z", "a"}, names(root.Children()))
}

func TestRecursiveChildItemsVisitsEachOnce(t *testing.T) {
	var j []string
	root := newTestItem(nil, "root", &j)
	a, b := newTestItem(nil, "a", &j), newTestItem(nil, "b", &j)
	a1, a2 := newTestItem(nil, "a1", &j), newTestItem(nil, "a2", &j)
	b.SetDepth(1)
	require.NoError(t, root.AddChild(b.Item))
	require.NoError(t, root.AddChild(a.Item))
	require.NoError(t, a.AddChild(a1.Item))
	require.NoError(t, a.AddChild(a2.Item))

	assert.Equal(t, []string{"a", "a1", "a2", "b"}, names(root.RecursiveChildItems()))
	// Calling twice does not grow the result.
	assert.Len(t, root.RecursiveChildItems(), 4)
}

func TestSetSelectable(t *testing.T) {
	var j []string
	p, c := newTestItem(nil, "p", &j), newTestItem(nil, "c", &j)
	require.NoError(t, p.AddChild(c.Item))

	p.SetSelectable(true, true)
	assert.True(t, c.Selectable())

	p.SetSelected(true, true)
	assert.True(t, c.Selected())

	p.SetSelectable(false, false)
	assert.False(t, p.Selectable())
	assert.True(t, c.Selectable())
	assert.False(t, p.Selected(), "toggling selectable clears selection")
}

func TestSelectedDelegatesToAncestor(t *testing.T) {
	var j []string
	g, p, c := newTestItem(nil, "g", &j), newTestItem(nil, "p", &j), newTestItem(nil, "c", &j)
	require.NoError(t, g.AddChild(p.Item))
	require.NoError(t, p.AddChild(c.Item))

	g.SetSelectable(true, false)
	g.SetSelected(true, false)

	assert.True(t, c.Selected(), "non-selectable items follow the nearest selectable ancestor")
	assert.True(t, p.Selected())

	g.SetSelected(false, false)
	assert.False(t, c.Selected())

	orphan := newTestItem(nil, "o", &j)
	assert.False(t, orphan.Selected())
}

func TestSetSelectedPropagatesToSelectableChildren(t *testing.T) {
	var j []string
	p, sel, plain := newTestItem(nil, "p", &j), newTestItem(nil, "s", &j), newTestItem(nil, "x", &j)
	require.NoError(t, p.AddChild(sel.Item))
	require.NoError(t, p.AddChild(plain.Item))
	p.SetSelectable(true, false)
	sel.SetSelectable(true, false)

	p.SetSelected(true, true)
	assert.True(t, sel.selected)
	assert.False(t, plain.selected)

	p.SetSelected(false, false)
	assert.True(t, sel.selected, "children untouched without propagation")
}

func TestPickColor(t *testing.T) {
	reg := NewRegistryWithSeed(7, 8)
	var j []string
	a, b := newTestItem(reg, "a", &j), newTestItem(reg, "b", &j)
	require.NoError(t, a.AddChild(b.Item))

	assert.Zero(t, b.PickColor(), "non-selectable items draw the background sentinel")

	// A non-selectable container: the child reports its own colour.
	b.SetSelectable(true, false)
	assert.Equal(t, b.OwnPickColor(), b.PickColor())
	hit, ok := reg.Lookup(b.PickColor())
	require.True(t, ok)
	assert.Same(t, b.Item, hit)

	// A selectable parent: picking the child selects the parent.
	a.SetSelectable(true, false)
	assert.Equal(t, a.OwnPickColor(), b.PickColor())

	c := newTestItem(reg, "c", &j)
	c.SetSelectable(true, false)
	require.NoError(t, b.AddChild(c.Item))
	assert.Equal(t, a.OwnPickColor(), c.PickColor(), "colour comes from the top of the selectable chain")
}

func TestTransformOps(t *testing.T) {
	var j []string
	it := newTestItem(nil, "t", &j)
	it.Translate(1, 2, 3, false).Rotate(90, 0, 0, 1, true).Scale(2, 2, 2, true)

	want := math.Translate(1, 2, 3).Mul(math.AxisAngle(90, 0, 0, 1)).Mul(math.Scale(2, 2, 2))
	assert.True(t, it.Transform().ApproxEqual(want, 1e-6))

	it.MoveTo(7, 8, 9)
	assert.Equal(t, math.Vec3{X: 7, Y: 8, Z: 9}, it.Transform().Translation())

	child := newTestItem(nil, "child", &j)
	child.Translate(1, 0, 0, false)
	require.NoError(t, it.AddChild(child.Item))
	assert.Equal(t, it.Transform().Mul(child.Transform()), child.WorldTransform())
}

func TestSetVisibleRecursive(t *testing.T) {
	var j []string
	p, c, g := newTestItem(nil, "p", &j), newTestItem(nil, "c", &j), newTestItem(nil, "g", &j)
	require.NoError(t, p.AddChild(c.Item))
	require.NoError(t, c.AddChild(g.Item))

	p.SetVisible(false, false)
	assert.True(t, g.Visible())

	p.SetVisible(false, true)
	assert.False(t, c.Visible())
	assert.False(t, g.Visible())
}

func TestDestroy(t *testing.T) {
	reg := NewRegistryWithSeed(9, 9)
	h := newTestHost()
	var j []string
	p, it, c := newTestItem(reg, "p", &j), newTestItem(reg, "it", &j), newTestItem(reg, "c", &j)
	require.NoError(t, p.AddChild(it.Item))
	require.NoError(t, it.AddChild(c.Item))
	p.SetHost(h)
	p.DrawTree(h.context(false), math.Identity())

	it.Destroy()

	assert.True(t, it.Destroyed())
	assert.Equal(t, 1, it.releases)
	assert.Empty(t, p.Children())
	assert.Nil(t, c.Parent(), "children are orphaned, not destroyed")
	assert.False(t, c.Destroyed())
	assert.Equal(t, 2, reg.Len())

	assert.ErrorIs(t, it.AddChild(c.Item), ErrDestroyed)
	assert.ErrorIs(t, p.AddChild(it.Item), ErrDestroyed)

	// Idempotent.
	it.Destroy()
	assert.Equal(t, 1, it.releases)
}

func TestDestroyUninitializedSkipsRelease(t *testing.T) {
	var j []string
	it := newTestItem(nil, "it", &j)
	it.Destroy()
	assert.Equal(t, 0, it.releases)
}
