package poly

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/matzehuels/dissect/pkg/errors"
)

// Edge is a chord (L, R) of the polygon with L < R.
type Edge struct {
	L, R int
}

// NewEdge returns the edge between a and b with its endpoints ordered.
func NewEdge(a, b int) Edge {
	errors.Contract(a != b, "poly.NewEdge", "loop edge (%d, %d)", a, b)
	if a > b {
		a, b = b, a
	}
	return Edge{L: a, R: b}
}

// Span returns R - L.
func (e Edge) Span() int { return e.R - e.L }

// String returns "l,r".
func (e Edge) String() string { return fmt.Sprintf("%d,%d", e.L, e.R) }

// Compare orders edges by L, then R.
func (e Edge) Compare(o Edge) int {
	if c := cmp.Compare(e.L, o.L); c != 0 {
		return c
	}
	return cmp.Compare(e.R, o.R)
}

// Dissection is a set of diagonals of a convex polygon with Sides vertices.
// Boundary edges, including the closing edge (0, Sides-1), are implicit.
type Dissection struct {
	Sides     int
	Diagonals []Edge
}

// New returns a dissection of a polygon with the given number of sides.
func New(sides int, diagonals ...Edge) *Dissection {
	errors.Contract(sides >= 3, "poly.New", "a polygon needs at least 3 sides, got %d", sides)
	return &Dissection{Sides: sides, Diagonals: diagonals}
}

// Clone returns a deep copy of d.
func (d *Dissection) Clone() *Dissection {
	return &Dissection{Sides: d.Sides, Diagonals: slices.Clone(d.Diagonals)}
}

// Sorted returns the diagonals of d ordered by Edge.Compare.
func (d *Dissection) Sorted() []Edge {
	s := slices.Clone(d.Diagonals)
	slices.SortFunc(s, Edge.Compare)
	return s
}

// Equal reports whether d and o describe the same polygon with the same set
// of diagonals, ignoring order.
func (d *Dissection) Equal(o *Dissection) bool {
	return d.Sides == o.Sides && slices.Equal(d.Sorted(), o.Sorted())
}

// IsTriangulation reports whether d is a full triangulation.
func (d *Dissection) IsTriangulation() bool {
	return IsValid(d.Diagonals, d.Sides)
}

// Validate reports why d is not a full triangulation, or nil if it is.
func (d *Dissection) Validate() error {
	return Validate(d.Diagonals, d.Sides)
}
