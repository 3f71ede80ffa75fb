package dyck

import "github.com/matzehuels/dissect/pkg/errors"

// First returns the smallest path, in lexicographic order of steps, of an
// r-ary tree with n internal nodes: every internal node's first n-1
// children are leaves, so opens are pushed as far right as possible.
func First(r, n int) Path {
	errors.Contract(r >= 1, "dyck.First", "arity must be at least 1, got %d", r)
	errors.Contract(n >= 0, "dyck.First", "internal node count must be non-negative, got %d", n)
	p := make(Path, r*n+1)
	fill(p, 0, 1, n, Step(r))
	return p
}

// Next returns the path following p in lexicographic order among the paths
// with the same arity and length, or false when p is the last one. p must
// be a valid r-ary path; it is not modified.
//
// Enumerating from First with Next visits every r-ary tree with n internal
// nodes exactly once.
func Next(p Path) (Path, bool) {
	r := Step(InferArity(p))
	if !IsRAry(p, int(r)) {
		errors.Contract(false, "dyck.Next", "path %s is not a valid %d-ary path", p, r)
	}
	if r == 0 {
		return nil, false
	}

	need := make([]int, len(p)+1)
	need[0] = 1
	for i, s := range p {
		need[i+1] = need[i] + s.Weight()
	}

	// Raise the rightmost close that still has an open after it; the last
	// step is always a close and never qualifies.
	opensAfter := 0
	for i := len(p) - 2; i >= 0; i-- {
		if p[i].IsOpen() {
			opensAfter++
			continue
		}
		if opensAfter == 0 {
			continue
		}
		q := make(Path, len(p))
		copy(q, p[:i])
		q[i] = r
		fill(q, i+1, need[i]+r.Weight(), opensAfter-1, r)
		return q, true
	}
	return nil, false
}

// fill writes the smallest completion of p[from:] given the open slot count
// need and the number of opens still to place.
func fill(p Path, from, need, opens int, r Step) {
	for i := from; i < len(p); i++ {
		if need == 1 && i < len(p)-1 {
			errors.Contract(opens > 0, "dyck.fill", "no open step left at %d", i)
			p[i] = r
			opens--
		} else {
			p[i] = Close
		}
		need += p[i].Weight()
	}
}
