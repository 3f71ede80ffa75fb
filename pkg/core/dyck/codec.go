package dyck

import (
	"slices"

	"github.com/matzehuels/dissect/pkg/core/tree"
	"github.com/matzehuels/dissect/pkg/errors"
)

// Encode returns the pre-order path of t. Every child slot of t must be
// filled; an empty slot is a contract violation.
func Encode(t *tree.Tree) Path {
	p := make(Path, 0, t.Len())
	t.PreOrder(func(id tree.NodeID, _ int) bool {
		kids := t.Children(id)
		errors.Contract(!slices.Contains(kids, tree.None), "dyck.Encode", "node %d has an empty child slot", id)
		p = append(p, Step(len(kids)))
		return true
	})
	return p
}

// Decode rebuilds the tree described by p. Node labels are pre-order
// positions, so Decode(p).Label(x) is the index of x's step in p.
//
// Decode fails with an INVALID_PATH error when steps remain after the tree
// is complete, or when the path ends while some node still waits for
// children. An empty path is also invalid, as is a step that asks for more
// children than the remaining steps can supply.
func Decode(p Path) (*tree.Tree, error) {
	if len(p) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidPath, "empty path")
	}

	type frame struct {
		id   tree.NodeID
		next int
	}

	t := tree.New(len(p))
	stack := make([]frame, 0, 16)
	need := 1
	for i, s := range p {
		if i > 0 && len(stack) == 0 {
			t.Release()
			return nil, errors.New(errors.ErrCodeInvalidPath,
				"step %d: tree already complete, %d steps left over", i, len(p)-i)
		}
		left := len(p) - i - 1
		if s < 0 || int(s) > left || need-1+int(s) > left {
			t.Release()
			return nil, errors.New(errors.ErrCodeInvalidPath,
				"step %d: %d children cannot fit in the %d remaining steps", i, int(s), left)
		}
		need += s.Weight()

		id := t.AddNode(i, int(s))
		if len(stack) == 0 {
			t.SetRoot(id)
		} else {
			top := &stack[len(stack)-1]
			t.SetChild(top.id, top.next, id)
			top.next++
		}
		if s.IsOpen() {
			stack = append(stack, frame{id: id})
		}

		for len(stack) > 0 {
			top := stack[len(stack)-1]
			if top.next < t.Arity(top.id) {
				break
			}
			stack = stack[:len(stack)-1]
		}
	}

	if len(stack) > 0 {
		t.Release()
		return nil, errors.New(errors.ErrCodeInvalidPath,
			"path ends with %d unfinished nodes", len(stack))
	}
	return t, nil
}

// IsValid reports whether Decode(p) would succeed. It runs a prefix-sum
// sweep and allocates nothing.
func IsValid(p Path) bool {
	if len(p) == 0 {
		return false
	}
	// need counts the child slots still waiting to be filled, starting with
	// the slot for the root.
	need := 1
	for _, s := range p {
		if need == 0 || s < 0 {
			return false
		}
		need += s.Weight()
	}
	return need == 0
}

// InferArity returns the branching factor of a valid path: the largest child
// count among its steps. For the path of an r-ary tree this is r. A path
// made of a single leaf has no internal node and yields 0.
func InferArity(p Path) int {
	r := 0
	for _, s := range p {
		r = max(r, int(s))
	}
	return r
}

// IsRAry reports whether p is a valid path of a tree in which every internal
// node has exactly r children.
func IsRAry(p Path, r int) bool {
	for _, s := range p {
		if s.IsOpen() && int(s) != r {
			return false
		}
	}
	return IsValid(p)
}
