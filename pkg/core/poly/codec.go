package poly

import (
	"math/rand/v2"
	"slices"
	"time"

	"github.com/matzehuels/dissect/pkg/core/sampler"
	"github.com/matzehuels/dissect/pkg/core/tree"
	"github.com/matzehuels/dissect/pkg/errors"
	"github.com/matzehuels/dissect/pkg/observability"
)

// ToTree returns the dual binary tree of the triangulation d.
//
// Leaf i stands for boundary edge (i, i+1) and carries label i. Internal
// nodes are labeled Sides-1, Sides, ... in the order they are built, the
// root (closing edge) last. d must be a triangulation; check untrusted
// input with Validate first.
func (d *Dissection) ToTree() *tree.Tree {
	n := d.Sides
	errors.Contract(n >= 3, "poly.ToTree", "a polygon needs at least 3 sides, got %d", n)
	errors.Contract(len(d.Diagonals) == n-3, "poly.ToTree",
		"a triangulation of a %d-gon has %d diagonals, got %d", n, n-3, len(d.Diagonals))

	t := tree.New(2*n - 3)

	// up[v] is the piece whose span starts at v, down[v] the one ending at v.
	up := make([]tree.NodeID, n)
	down := make([]tree.NodeID, n)
	for i := 0; i < n-1; i++ {
		leaf := t.AddNode(i, 0)
		up[i] = leaf
		down[i+1] = leaf
	}

	buckets := make([][]Edge, n)
	for _, e := range d.Diagonals {
		errors.Contract(0 <= e.L && e.L < e.R && e.R < n && e.Span() > 1 && e.Span() < n-1, "poly.ToTree",
			"(%d, %d) is not a diagonal of a %d-gon", e.L, e.R, n)
		buckets[e.Span()] = append(buckets[e.Span()], e)
	}
	buckets[n-1] = append(buckets[n-1], Edge{L: 0, R: n - 1})

	label := n - 1
	for span := 2; span < n; span++ {
		for _, e := range buckets[span] {
			parent := t.AddNode(label, 2)
			label++
			t.SetChild(parent, 0, up[e.L])
			t.SetChild(parent, 1, down[e.R])
			up[e.L] = parent
			down[e.R] = parent
		}
	}

	t.SetRoot(up[0])
	return t
}

// IntoTree is ToTree for callers that are done with d: the dissection is
// emptied and must not be used afterwards.
func IntoTree(d *Dissection) *tree.Tree {
	t := d.ToTree()
	d.Sides = 0
	d.Diagonals = nil
	return t
}

// FromTree returns the triangulation whose dual tree is t. t must be a full
// binary tree with at least one internal node. The internal node covering
// leaves a..b yields diagonal (a, b+1); the root yields the closing edge and
// is left out. Diagonals are listed in pre-order of their nodes.
func FromTree(t *tree.Tree) *Dissection {
	root := t.Root()
	errors.Contract(root != tree.None && t.Arity(root) == 2, "poly.FromTree", "root must be a binary internal node")

	type open struct {
		slot, left, depth int
	}
	var (
		stack  []open
		edges  []Edge
		leaves int
	)
	closeTo := func(depth int) {
		for len(stack) > 0 && stack[len(stack)-1].depth >= depth {
			f := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			if f.slot >= 0 {
				edges[f.slot] = Edge{L: f.left, R: leaves}
			}
		}
	}

	t.PreOrder(func(id tree.NodeID, depth int) bool {
		closeTo(depth)
		switch t.Arity(id) {
		case 0:
			leaves++
		case 2:
			errors.Contract(!slices.Contains(t.Children(id), tree.None), "poly.FromTree", "node %d has an empty child slot", id)
			slot := -1
			if depth > 0 {
				slot = len(edges)
				edges = append(edges, Edge{})
			}
			stack = append(stack, open{slot: slot, left: leaves, depth: depth})
		default:
			errors.Contract(false, "poly.FromTree", "node %d has %d children, want 0 or 2", id, t.Arity(id))
		}
		return true
	})
	closeTo(0)

	return &Dissection{Sides: leaves + 1, Diagonals: edges}
}

// Random returns a uniformly random triangulation of a polygon with the
// given number of sides.
func Random(rng *rand.Rand, sides int) *Dissection {
	errors.Contract(sides >= 3, "poly.Random", "a polygon needs at least 3 sides, got %d", sides)

	start := time.Now()
	t := sampler.Tree(rng, 2, sides-2)
	d := FromTree(t)
	t.Release()
	observability.Sampler().OnSample("dissection", sides, time.Since(start))
	return d
}
