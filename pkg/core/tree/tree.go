// Package tree provides a minimal ordered tree stored in a node arena.
//
// Nodes are addressed by [NodeID] indices into the arena owned by a [Tree].
// A node has an integer label and an ordered list of child slots; the slot
// count is fixed when the node is created (0 for a leaf, r for an r-ary
// internal node, anything for a plane tree). Child slots start out as [None]
// and are filled with [Tree.SetChild].
//
// Releasing a tree resets the arena in one step instead of freeing node by
// node, so there is no way to reach a node of a released tree through a
// stale pointer: a stale NodeID simply fails the range check.
//
// Index and arity preconditions are contracts. Violating them panics.
package tree

import (
	"strings"

	"github.com/matzehuels/dissect/pkg/errors"
)

// NodeID addresses a node inside the arena of a Tree.
type NodeID int32

// None marks an empty child slot or a missing root.
const None NodeID = -1

type node struct {
	label    int
	children []NodeID
}

// Tree is an ordered rooted tree.
//
// Tree is not safe for concurrent use. The zero value of Tree is not usable;
// use New to create instances.
type Tree struct {
	nodes []node
	root  NodeID
}

// New returns an empty tree with room for sizeHint nodes.
func New(sizeHint int) *Tree {
	return &Tree{nodes: make([]node, 0, max(sizeHint, 0)), root: None}
}

// AddNode creates a node with the given label and arity empty child slots
// and returns its ID. The node is detached until it is set as the root or
// attached under another node.
func (t *Tree) AddNode(label, arity int) NodeID {
	if arity < 0 {
		errors.Contract(false, "tree.AddNode", "negative arity %d", arity)
	}
	var children []NodeID
	if arity > 0 {
		children = make([]NodeID, arity)
		for i := range children {
			children[i] = None
		}
	}
	t.nodes = append(t.nodes, node{label: label, children: children})
	return NodeID(len(t.nodes) - 1)
}

// SetChild attaches child in slot pos of parent, replacing whatever was
// there. Passing None clears the slot.
func (t *Tree) SetChild(parent NodeID, pos int, child NodeID) {
	t.check(parent, "tree.SetChild")
	if child != None {
		t.check(child, "tree.SetChild")
	}
	kids := t.nodes[parent].children
	if pos < 0 || pos >= len(kids) {
		errors.Contract(false, "tree.SetChild",
			"slot %d out of range for node %d with arity %d", pos, parent, len(kids))
	}
	kids[pos] = child
}

// SetRoot makes id the root of the tree.
func (t *Tree) SetRoot(id NodeID) {
	t.check(id, "tree.SetRoot")
	t.root = id
}

// Root returns the root node, or None for an empty tree.
func (t *Tree) Root() NodeID {
	if len(t.nodes) == 0 {
		return None
	}
	return t.root
}

// Label returns the label of id.
func (t *Tree) Label(id NodeID) int {
	t.check(id, "tree.Label")
	return t.nodes[id].label
}

// Children returns the child slots of id. The slice is owned by the tree and
// must not be modified; use SetChild instead.
func (t *Tree) Children(id NodeID) []NodeID {
	t.check(id, "tree.Children")
	return t.nodes[id].children
}

// Arity returns the number of child slots of id.
func (t *Tree) Arity(id NodeID) int {
	return len(t.Children(id))
}

// IsLeaf reports whether id has no child slots.
func (t *Tree) IsLeaf(id NodeID) bool {
	return t.Arity(id) == 0
}

// Len returns the number of nodes reachable from the root.
func (t *Tree) Len() int {
	n := 0
	t.PreOrder(func(NodeID, int) bool {
		n++
		return true
	})
	return n
}

// Height returns the number of edges on the longest root-to-leaf path.
// An empty tree has height -1 and a single node has height 0.
func (t *Tree) Height() int {
	h := -1
	t.PreOrder(func(_ NodeID, depth int) bool {
		h = max(h, depth)
		return true
	})
	return h
}

// PreOrder visits the nodes reachable from the root in pre-order, passing
// each node and its depth. Returning false from visit stops the walk.
// Empty child slots are skipped.
//
// The walk uses an explicit stack, so degenerate trees with millions of
// levels are fine.
func (t *Tree) PreOrder(visit func(id NodeID, depth int) bool) {
	root := t.Root()
	if root == None {
		return
	}
	type frame struct {
		id    NodeID
		depth int
	}
	stack := []frame{{root, 0}}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if !visit(f.id, f.depth) {
			return
		}
		kids := t.nodes[f.id].children
		for i := len(kids) - 1; i >= 0; i-- {
			if kids[i] != None {
				stack = append(stack, frame{kids[i], f.depth + 1})
			}
		}
	}
}

// Serialize returns a canonical string describing the shape of the tree.
// Labels are ignored: two trees serialize equally iff they are structurally
// identical. A leaf is written as "." and a node with children as
// "(" followed by its children and ")". Empty slots are written as "_".
func (t *Tree) Serialize() string {
	root := t.Root()
	if root == None {
		return ""
	}
	var b strings.Builder
	b.Grow(2 * len(t.nodes))

	// Each stack entry is either a node to open or a pending ")".
	const closeMark = NodeID(-2)
	stack := []NodeID{root}
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		switch {
		case id == closeMark:
			b.WriteByte(')')
		case id == None:
			b.WriteByte('_')
		case len(t.nodes[id].children) == 0:
			b.WriteByte('.')
		default:
			b.WriteByte('(')
			stack = append(stack, closeMark)
			kids := t.nodes[id].children
			for i := len(kids) - 1; i >= 0; i-- {
				stack = append(stack, kids[i])
			}
		}
	}
	return b.String()
}

// Release drops every node of the tree at once. The tree is empty afterwards
// and may be reused.
func (t *Tree) Release() {
	clear(t.nodes)
	t.nodes = t.nodes[:0]
	t.root = None
}

// check is on every accessor's path; the arguments are only boxed for the
// failure message.
func (t *Tree) check(id NodeID, op string) {
	if id < 0 || int(id) >= len(t.nodes) {
		errors.Contract(false, op, "node %d out of range (tree has %d nodes)", id, len(t.nodes))
	}
}
