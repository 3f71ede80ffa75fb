// Package poly converts between triangulations of a convex polygon and
// binary trees, and validates candidate triangulations.
//
// # Vertices and edges
//
// The vertices of a polygon with n sides are labeled 0..n-1 in order. The
// boundary edge (i, i+1) for i in 0..n-2 is leaf i of the dual tree. The
// closing edge (0, n-1) is the root side: the triangle resting on it is the
// root of the dual tree. A [Dissection] stores only the true diagonals.
//
// # Dual tree
//
// [Dissection.ToTree] builds the dual binary tree bottom-up. Diagonals are
// bucketed by span r-l and processed in increasing span, so when diagonal
// (l, r) is processed the two pieces it closes off, (l, x) and (x, r) for
// the apex x of its triangle, are already built. Two tables track the most
// recent piece starting and ending at each vertex; merging a diagonal
// updates both in O(1). The closing edge is processed last and yields the
// root. [FromTree] is the inverse: the internal node covering leaves a..b
// becomes diagonal (a, b+1).
//
// # Enumeration
//
// [First] and [Next] list every triangulation of a polygon once, ordered by
// the Dyck path of the dual tree.
//
// # Validation
//
// [Validate] sweeps the vertices left to right keeping a stack of vertices
// with open diagonals, like matching brackets. Each diagonal ending at the
// current vertex must close the most recently opened one; anything else
// means two diagonals cross or the set is inconsistent.
package poly
