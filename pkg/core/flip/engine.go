// Package flip applies diagonal flips to a triangulation in constant time.
//
// An [Engine] owns one triangulation together with the relationship table
// of its dual binary tree. The table has one slot per chord:
//
//	slot 0               the closing edge (0, sides-1), root of the dual tree
//	slots 1..sides-3     the diagonals, addressed by flip index
//	slots sides-2+i      the boundary edge (i, i+1), leaf i
//
// Each slot stores the slots of its left child, right child and parent. The
// table is built once in O(sides) with the same span-bucket pass as
// poly.Dissection.ToTree. A flip is a single rotation of the dual tree: it
// rewrites the flipped slot, the subtree that changes parent, the former
// sibling and the parent, and leaves every other slot alone.
//
// Flipping the same index twice restores the previous triangulation and
// table exactly.
//
// An Engine is not safe for concurrent use. Flips on one triangulation are
// inherently sequential; run independent engines for parallel work.
package flip

import (
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/dissect/pkg/core/poly"
	"github.com/matzehuels/dissect/pkg/core/tree"
	"github.com/matzehuels/dissect/pkg/errors"
	"github.com/matzehuels/dissect/pkg/observability"
)

// NoSlot marks a missing child or parent in a Relation.
const NoSlot = -1

// Relation is one slot of the relationship table.
type Relation struct {
	Left, Right, Parent int
}

// Event describes an applied flip.
type Event struct {
	Session string
	Index   int
	Old     poly.Edge
	New     poly.Edge
}

// Sink receives an Event after every flip.
type Sink interface {
	Notify(Event) error
}

// SinkFunc adapts a function to a Sink.
type SinkFunc func(Event) error

// Notify calls f(ev).
func (f SinkFunc) Notify(ev Event) error { return f(ev) }

// Engine maintains a triangulation and its dual tree under flips.
type Engine struct {
	id    string
	sides int
	edges []poly.Edge // closing edge, then diagonals
	table []Relation
	sink  Sink
}

// New returns an engine for a copy of d. It fails with an INVALID_DISSECTION
// error if d is not a triangulation. sink may be nil.
func New(d *poly.Dissection, sink Sink) (*Engine, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}

	n := d.Sides
	e := &Engine{
		id:    uuid.NewString(),
		sides: n,
		edges: append([]poly.Edge{{L: 0, R: n - 1}}, d.Diagonals...),
		sink:  sink,
	}
	e.table = e.build()
	return e, nil
}

// build computes the relationship table from the current edges.
func (e *Engine) build() []Relation {
	n := e.sides
	diag := len(e.edges)
	table := make([]Relation, diag+n-1)
	for i := range table {
		table[i] = Relation{Left: NoSlot, Right: NoSlot, Parent: NoSlot}
	}

	up := make([]int, n)
	down := make([]int, n)
	for i := 0; i < n-1; i++ {
		up[i] = diag + i
		down[i+1] = diag + i
	}

	buckets := make([][]int, n)
	for idx, edge := range e.edges {
		buckets[edge.Span()] = append(buckets[edge.Span()], idx)
	}
	for span := 2; span < n; span++ {
		for _, idx := range buckets[span] {
			edge := e.edges[idx]
			lc, rc := up[edge.L], down[edge.R]
			table[idx].Left = lc
			table[idx].Right = rc
			table[lc].Parent = idx
			table[rc].Parent = idx
			up[edge.L] = idx
			down[edge.R] = idx
		}
	}
	return table
}

// edge returns the chord stored in slot idx.
func (e *Engine) edge(idx int) poly.Edge {
	if idx < len(e.edges) {
		return e.edges[idx]
	}
	v := idx - len(e.edges)
	return poly.Edge{L: v, R: v + 1}
}

// Flip replaces diagonal idx by the other diagonal of the quadrilateral
// formed by its two triangles and returns the new diagonal. idx must be in
// [1, Sides()-3]; anything else is a contract violation.
//
// The triangulation is updated before the sink is notified. A sink error is
// returned wrapped as IO_ERROR; the flip itself stands.
func (e *Engine) Flip(idx int) (poly.Edge, error) {
	errors.Contract(idx >= 1 && idx < len(e.edges), "flip.Flip",
		"diagonal index %d out of range [1, %d]", idx, len(e.edges)-1)
	start := time.Now()

	rel := e.table
	parent := rel[idx].Parent
	old := e.edges[idx]

	// u is the apex of the triangle below idx, v the apex above it.
	u := e.edge(rel[idx].Left).R
	p := e.edge(parent)
	v := p.L
	if v == old.L || v == old.R {
		v = p.R
	}
	next := poly.NewEdge(u, v)

	isLeft := rel[parent].Left == idx
	sibling := rel[parent].Left
	if isLeft {
		sibling = rel[parent].Right
	}

	// The left subtree stays under idx iff it still fits inside the new
	// diagonal. Whichever subtree does not stay moves up to the parent and
	// the former sibling comes down to idx.
	lc := e.edge(rel[idx].Left)
	var moved int
	if next.L <= lc.L && lc.R <= next.R {
		moved = rel[idx].Right
		rel[idx].Right = rel[idx].Left
		rel[idx].Left = sibling
	} else {
		moved = rel[idx].Left
		rel[idx].Left = rel[idx].Right
		rel[idx].Right = sibling
	}
	rel[sibling].Parent = idx
	rel[moved].Parent = parent
	if isLeft {
		rel[parent].Left, rel[parent].Right = moved, idx
	} else {
		rel[parent].Left, rel[parent].Right = idx, moved
	}

	e.edges[idx] = next
	observability.Flip().OnFlip(e.id, idx, time.Since(start))

	if e.sink != nil {
		if err := e.sink.Notify(Event{Session: e.id, Index: idx, Old: old, New: next}); err != nil {
			observability.Flip().OnNotifyError(e.id, idx, err)
			return next, errors.Wrap(errors.ErrCodeIO, err, "notify flip of diagonal %d", idx)
		}
	}
	return next, nil
}

// ID returns the session ID stamped on every Event of this engine.
func (e *Engine) ID() string { return e.id }

// Sides returns the number of polygon vertices.
func (e *Engine) Sides() int { return e.sides }

// Len returns the number of flippable diagonals.
func (e *Engine) Len() int { return len(e.edges) - 1 }

// Edge returns diagonal idx, 1 <= idx <= Len().
func (e *Engine) Edge(idx int) poly.Edge {
	errors.Contract(idx >= 1 && idx < len(e.edges), "flip.Edge",
		"diagonal index %d out of range [1, %d]", idx, len(e.edges)-1)
	return e.edges[idx]
}

// Index returns the flip index of diagonal edge, if present.
func (e *Engine) Index(edge poly.Edge) (int, bool) {
	i := slices.Index(e.edges[1:], edge)
	if i < 0 {
		return 0, false
	}
	return i + 1, true
}

// Dissection returns a copy of the current triangulation. Diagonal idx of
// the engine is Diagonals[idx-1] of the result.
func (e *Engine) Dissection() *poly.Dissection {
	return &poly.Dissection{Sides: e.sides, Diagonals: slices.Clone(e.edges[1:])}
}

// Table returns a copy of the relationship table.
func (e *Engine) Table() []Relation {
	return slices.Clone(e.table)
}

// Slot returns the chord stored in any table slot, boundary edges included.
func (e *Engine) Slot(idx int) poly.Edge {
	errors.Contract(idx >= 0 && idx < len(e.table), "flip.Slot", "slot %d out of range", idx)
	return e.edge(idx)
}

// Verify rebuilds the table from the current diagonals and compares it with
// the incrementally maintained one. A mismatch is an INTERNAL_ERROR.
func (e *Engine) Verify() error {
	fresh := e.build()
	for i := range fresh {
		if fresh[i] != e.table[i] {
			return errors.New(errors.ErrCodeInternal,
				"slot %d (%s): table has %+v, rebuild has %+v", i, e.edge(i), e.table[i], fresh[i])
		}
	}
	return nil
}

// Tree returns the dual tree described by the table. Node labels are table
// slots, so leaf labels are Len()+1+i for boundary edge (i, i+1).
func (e *Engine) Tree() *tree.Tree {
	t := tree.New(len(e.table))
	for i, r := range e.table {
		arity := 0
		if r.Left != NoSlot {
			arity = 2
		}
		t.AddNode(i, arity)
	}
	for i, r := range e.table {
		if r.Left != NoSlot {
			t.SetChild(tree.NodeID(i), 0, tree.NodeID(r.Left))
			t.SetChild(tree.NodeID(i), 1, tree.NodeID(r.Right))
		}
	}
	t.SetRoot(0)
	return t
}
