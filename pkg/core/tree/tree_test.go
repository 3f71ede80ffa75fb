package tree

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildSample builds
//
//	    0
//	  / | \
//	 1  2  3
//	   / \
//	  4   5
func buildSample() *Tree {
	t := New(6)
	root := t.AddNode(0, 3)
	a := t.AddNode(1, 0)
	b := t.AddNode(2, 2)
	c := t.AddNode(3, 0)
	d := t.AddNode(4, 0)
	e := t.AddNode(5, 0)
	t.SetRoot(root)
	t.SetChild(root, 0, a)
	t.SetChild(root, 1, b)
	t.SetChild(root, 2, c)
	t.SetChild(b, 0, d)
	t.SetChild(b, 1, e)
	return t
}

func TestTree_Empty(t *testing.T) {
	tr := New(0)
	assert.Equal(t, None, tr.Root())
	assert.Equal(t, 0, tr.Len())
	assert.Equal(t, -1, tr.Height())
	assert.Equal(t, "", tr.Serialize())
}

func TestTree_SingleLeaf(t *testing.T) {
	tr := New(1)
	tr.SetRoot(tr.AddNode(7, 0))
	assert.Equal(t, 1, tr.Len())
	assert.Equal(t, 0, tr.Height())
	assert.Equal(t, ".", tr.Serialize())
	assert.True(t, tr.IsLeaf(tr.Root()))
	assert.Equal(t, 7, tr.Label(tr.Root()))
}

func TestTree_Shape(t *testing.T) {
	tr := buildSample()
	assert.Equal(t, 6, tr.Len())
	assert.Equal(t, 2, tr.Height())
	assert.Equal(t, "(.(..).)", tr.Serialize())
	assert.Equal(t, 3, tr.Arity(tr.Root()))
}

func TestTree_PreOrder(t *testing.T) {
	tr := buildSample()
	var labels, depths []int
	tr.PreOrder(func(id NodeID, depth int) bool {
		labels = append(labels, tr.Label(id))
		depths = append(depths, depth)
		return true
	})
	assert.Equal(t, []int{0, 1, 2, 4, 5, 3}, labels)
	assert.Equal(t, []int{0, 1, 1, 2, 2, 1}, depths)
}

func TestTree_PreOrderStops(t *testing.T) {
	tr := buildSample()
	seen := 0
	tr.PreOrder(func(NodeID, int) bool {
		seen++
		return seen < 3
	})
	assert.Equal(t, 3, seen)
}

func TestTree_ReplaceChild(t *testing.T) {
	tr := buildSample()
	leaf := tr.AddNode(9, 0)
	tr.SetChild(tr.Root(), 1, leaf)
	assert.Equal(t, "(...)", tr.Serialize())
	assert.Equal(t, 4, tr.Len())

	tr.SetChild(tr.Root(), 0, None)
	assert.Equal(t, "(_..)", tr.Serialize())
}

func TestTree_SerializeIgnoresLabels(t *testing.T) {
	a := buildSample()
	b := buildSample()
	b.nodes[3].label = 42
	assert.Equal(t, a.Serialize(), b.Serialize())
}

func TestTree_DeepChain(t *testing.T) {
	const depth = 200_000
	tr := New(2*depth + 1)
	prev := tr.AddNode(0, 2)
	tr.SetRoot(prev)
	for i := 1; i < depth; i++ {
		next := tr.AddNode(i, 2)
		tr.SetChild(prev, 0, next)
		tr.SetChild(prev, 1, tr.AddNode(-i, 0))
		prev = next
	}
	tr.SetChild(prev, 0, tr.AddNode(-depth, 0))
	tr.SetChild(prev, 1, tr.AddNode(-depth-1, 0))

	assert.Equal(t, depth, tr.Height())
	assert.Equal(t, 2*depth+1, tr.Len())
}

func TestTree_Release(t *testing.T) {
	tr := buildSample()
	tr.Release()
	assert.Equal(t, None, tr.Root())
	assert.Equal(t, 0, tr.Len())

	tr.SetRoot(tr.AddNode(1, 0))
	assert.Equal(t, ".", tr.Serialize())
}

func TestTree_ContractViolations(t *testing.T) {
	tr := buildSample()
	require.Panics(t, func() { tr.SetChild(tr.Root(), 3, None) }, "slot out of range")
	require.Panics(t, func() { tr.SetChild(NodeID(100), 0, None) }, "parent out of range")
	require.Panics(t, func() { tr.AddNode(0, -1) }, "negative arity")
	require.Panics(t, func() { tr.Label(None) }, "label of None")

	tr.Release()
	require.Panics(t, func() { tr.Children(0) }, "stale id after release")
}

func TestTree_AccessorsDoNotAllocate(t *testing.T) {
	tr := New(601)
	root := tr.AddNode(0, 600)
	tr.SetRoot(root)
	for i := range 600 {
		tr.SetChild(root, i, tr.AddNode(i+1, 0))
	}

	// Node IDs above 255 are heap-boxed when passed as any.
	id := NodeID(500)
	allocs := testing.AllocsPerRun(100, func() {
		_ = tr.Label(id)
		_ = tr.Arity(id)
		_ = tr.Children(id)
		_ = tr.IsLeaf(id)
	})
	assert.Zero(t, allocs)
}
