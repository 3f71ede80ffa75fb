package dyck

import (
	"slices"

	"github.com/matzehuels/dissect/pkg/errors"
)

// Heights returns the lattice points of p: Heights(p)[k] is the running sum
// of step weights over the first k steps. An open step with r children
// climbs r-1 and a close step descends 1, so a valid path starts at 0,
// stays at or above 0, and ends at -1 after its final close.
func Heights(p Path) []int {
	h := make([]int, len(p)+1)
	for i, s := range p {
		h[i+1] = h[i] + s.Weight()
	}
	return h
}

// FlipMountain swaps steps i and i+1 of a valid path when one is open and
// the other a close. A peak (open then close) becomes a valley and a valley
// becomes a peak, so flipping the same position twice gives p back. The
// step multiset is kept, and with it the arity and size of the tree.
//
// A peak can only be lowered when the path has room above the axis: the
// close moved to position i must not end the path early. FlipMountain
// fails with INVALID_INPUT when i is out of range, when steps i and i+1
// are not a peak or a valley, or when the result would not be valid. p is
// not modified.
func FlipMountain(p Path, i int) (Path, error) {
	if !IsValid(p) {
		_, err := Decode(p)
		return nil, err
	}
	if i < 0 || i >= len(p)-1 {
		return nil, errors.New(errors.ErrCodeInvalidInput,
			"position %d out of range, want 0..%d", i, len(p)-2)
	}
	a, b := p[i], p[i+1]
	if a.IsOpen() == b.IsOpen() {
		return nil, errors.New(errors.ErrCodeInvalidInput,
			"steps %d and %d are neither a peak nor a valley", i, i+1)
	}
	if a.IsOpen() && Heights(p[:i])[i] < 1 {
		return nil, errors.New(errors.ErrCodeInvalidInput,
			"peak at %d sits on the axis and cannot be lowered", i)
	}

	q := slices.Clone(p)
	q[i], q[i+1] = b, a
	return q, nil
}

// Mountains returns the positions FlipMountain accepts for p, in order.
// It returns nil for an invalid path.
func Mountains(p Path) []int {
	if !IsValid(p) {
		return nil
	}
	var out []int
	h := 0
	for i := 0; i+1 < len(p); i++ {
		a, b := p[i], p[i+1]
		switch {
		case a.IsOpen() && !b.IsOpen() && h >= 1:
			out = append(out, i)
		case !a.IsOpen() && b.IsOpen():
			out = append(out, i)
		}
		h += a.Weight()
	}
	return out
}
