// Package sampler generates uniformly random paths and trees.
//
// Every generator here reduces to one primitive: shuffle a multiset of steps
// whose weights sum to -1, then apply the cycle lemma. Among the len(p)
// rotations of such a sequence exactly one is a valid path, namely the one
// that starts right after the first position where the running sum reaches
// its minimum. Since every valid path has exactly len(p) shuffles mapping to
// it, the result is uniform over all paths with the given step multiset, and
// therefore uniform over all trees with that degree sequence.
//
// Generators take an explicit *rand.Rand so independent trials can run in
// parallel with one source each.
package sampler

import (
	"math"
	"math/rand/v2"
	"slices"
	"time"

	"github.com/matzehuels/dissect/pkg/core/dyck"
	"github.com/matzehuels/dissect/pkg/core/tree"
	"github.com/matzehuels/dissect/pkg/errors"
	"github.com/matzehuels/dissect/pkg/observability"
)

// Rotate rotates p in place to the unique rotation that is a valid path and
// returns the offset it rotated by: the new p starts with what was p[offset].
// The weights of p must sum to -1.
func Rotate(p dyck.Path) int {
	sum, low, at := 0, math.MaxInt, 0
	for i, s := range p {
		sum += s.Weight()
		if sum < low {
			low, at = sum, i+1
		}
	}
	errors.Contract(sum == -1, "sampler.Rotate", "step weights sum to %d, want -1", sum)

	if at == len(p) {
		return 0
	}
	slices.Reverse(p[:at])
	slices.Reverse(p[at:])
	slices.Reverse(p)
	return at
}

// WithSteps shuffles steps and rotates the result into a valid path. The
// slice is reused as the returned path. The step weights must sum to -1.
func WithSteps(rng *rand.Rand, steps dyck.Path) dyck.Path {
	rng.Shuffle(len(steps), func(i, j int) { steps[i], steps[j] = steps[j], steps[i] })
	Rotate(steps)
	return steps
}

// Path returns a uniformly random path of an r-ary tree with the given
// length. length must be r*n+1 for some n >= 0; the path then has n open
// steps and (r-1)*n+1 close steps.
func Path(rng *rand.Rand, arity, length int) dyck.Path {
	errors.Contract(arity >= 1, "sampler.Path", "arity must be positive, got %d", arity)
	errors.Contract(length >= 1 && (length-1)%arity == 0, "sampler.Path",
		"length %d is not %d*n+1", length, arity)

	start := time.Now()
	n := (length - 1) / arity
	steps := make(dyck.Path, length)
	for i := range n {
		steps[i] = dyck.Open(arity)
	}
	// the remaining steps are already Close
	p := WithSteps(rng, steps)
	observability.Sampler().OnSample("path", length, time.Since(start))
	return p
}

// Tree returns a uniformly random r-ary tree with the given number of
// internal nodes.
func Tree(rng *rand.Rand, arity, internal int) *tree.Tree {
	errors.Contract(internal >= 0, "sampler.Tree", "negative internal node count %d", internal)

	start := time.Now()
	t, err := dyck.Decode(Path(rng, arity, arity*internal+1))
	if err != nil {
		// a rotated path is valid by construction
		panic(errors.Wrap(errors.ErrCodeInternal, err, "rotated path failed to decode"))
	}
	observability.Sampler().OnSample("tree", t.Len(), time.Since(start))
	return t
}

// ExpectedHeight returns the asymptotic mean height, in edges, of a
// uniformly random r-ary tree with the given number of internal nodes:
// sqrt(2*pi*size/sigma^2) where size = r*internal+1 and sigma^2 = r-1 is the
// variance of the branching distribution.
func ExpectedHeight(arity, internal int) float64 {
	errors.Contract(arity >= 2, "sampler.ExpectedHeight", "arity must be at least 2, got %d", arity)
	size := float64(arity*internal + 1)
	return math.Sqrt(2 * math.Pi * size / float64(arity-1))
}
