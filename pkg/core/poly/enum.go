package poly

import (
	"github.com/matzehuels/dissect/pkg/core/dyck"
	"github.com/matzehuels/dissect/pkg/errors"
)

// First returns the first triangulation of a polygon with the given number
// of sides in enumeration order: the fan of diagonals (i, sides-1).
//
// Triangulations are ordered by the Dyck path of their dual tree, so
// enumeration follows [dyck.Next].
func First(sides int) *Dissection {
	errors.Contract(sides >= 3, "poly.First", "a polygon needs at least 3 sides, got %d", sides)
	return fromPath(dyck.First(2, sides-2))
}

// Next returns the triangulation following d in enumeration order, or false
// when d is the last one. d must be a triangulation and is not modified.
func Next(d *Dissection) (*Dissection, bool) {
	t := d.ToTree()
	p := dyck.Encode(t)
	t.Release()

	q, ok := dyck.Next(p)
	if !ok {
		return nil, false
	}
	return fromPath(q), true
}

func fromPath(p dyck.Path) *Dissection {
	t, err := dyck.Decode(p)
	errors.Contract(err == nil, "poly.fromPath", "enumerated path %s does not decode: %v", p, err)
	d := FromTree(t)
	t.Release()
	return d
}
