package poly

import (
	"github.com/matzehuels/dissect/pkg/errors"
)

// IsValid reports whether edges is exactly the diagonal set of a
// triangulation of a convex polygon with the given number of sides: sides-3
// distinct diagonals, none of them a boundary edge, no two crossing.
//
// Every edge must satisfy 0 <= L < R < sides; anything else is a contract
// violation.
func IsValid(edges []Edge, sides int) bool {
	return Validate(edges, sides) == nil
}

// Validate is IsValid with a reason. It returns an INVALID_DISSECTION error
// describing the first problem found.
func Validate(edges []Edge, sides int) error {
	checkEdges(edges, sides, "poly.Validate")

	if len(edges) != sides-3 {
		return errors.New(errors.ErrCodeInvalidDissection,
			"a triangulation of a %d-gon has %d diagonals, got %d", sides, sides-3, len(edges))
	}
	for _, e := range edges {
		if e.Span() == 1 || e.Span() == sides-1 {
			return errors.New(errors.ErrCodeInvalidDissection, "%s is a boundary edge, not a diagonal", e)
		}
	}
	return sweep(edges, sides)
}

// IsNonCrossing reports whether edges is a set of distinct, pairwise
// non-crossing chords. Unlike IsValid it accepts partial dissections.
func IsNonCrossing(edges []Edge, sides int) bool {
	checkEdges(edges, sides, "poly.IsNonCrossing")
	return sweep(edges, sides) == nil
}

// sweep runs the bracket matching pass over the vertices.
func sweep(edges []Edge, sides int) error {
	starts := make([]int, sides)
	ends := make([]int, sides)
	declared := make(map[Edge]struct{}, len(edges))
	for _, e := range edges {
		starts[e.L]++
		ends[e.R]++
		if _, dup := declared[e]; dup {
			return errors.New(errors.ErrCodeInvalidDissection, "diagonal %s appears twice", e)
		}
		declared[e] = struct{}{}
	}

	stack := make([]int, 0, len(edges))
	for i := range sides {
		for range ends[i] {
			if len(stack) == 0 {
				return errors.New(errors.ErrCodeInvalidDissection,
					"vertex %d closes a diagonal that was never opened", i)
			}
			v := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			e := Edge{L: v, R: i}
			if _, ok := declared[e]; !ok {
				return errors.New(errors.ErrCodeInvalidDissection,
					"diagonal from %d crosses a diagonal ending at %d", v, i)
			}
			delete(declared, e)
		}
		for range starts[i] {
			stack = append(stack, i)
		}
	}
	return nil
}

func checkEdges(edges []Edge, sides int, op string) {
	errors.Contract(sides >= 3, op, "a polygon needs at least 3 sides, got %d", sides)
	for _, e := range edges {
		errors.Contract(0 <= e.L && e.L < e.R && e.R < sides, op,
			"edge (%d, %d) is not an ordered chord of a %d-gon", e.L, e.R, sides)
	}
}
