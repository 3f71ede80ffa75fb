package check

import (
	"context"
	"math/rand/v2"
	"slices"

	"github.com/matzehuels/dissect/pkg/core/dyck"
	"github.com/matzehuels/dissect/pkg/core/flip"
	"github.com/matzehuels/dissect/pkg/core/poly"
	"github.com/matzehuels/dissect/pkg/core/sampler"
	"github.com/matzehuels/dissect/pkg/errors"
)

// Dyck decodes random paths of random arity and size and re-encodes them.
// Arity ranges over [2, MaxArity] and path length stays below MaxEdges.
func (r *Runner) Dyck(ctx context.Context) (Report, error) {
	cfg := r.Config
	return r.parallel(ctx, Dyck, cfg.Trials, func(int) trial {
		return func(rng *rand.Rand) error {
			arity := between(rng, 2, cfg.MaxArity)
			internal := between(rng, 0, (cfg.MaxEdges-1)/arity)
			p := sampler.Path(rng, arity, arity*internal+1)

			if !dyck.IsValid(p) {
				return errors.New(errors.ErrCodeInternal, "sampled path %s is not valid", p)
			}
			t, err := dyck.Decode(p)
			if err != nil {
				return errors.Wrap(errors.ErrCodeInternal, err, "sampled path %s", p)
			}
			back := dyck.Encode(t)
			t.Release()
			if !slices.Equal(p, back) {
				return errors.New(errors.ErrCodeInternal, "path %s re-encoded as %s", p, back)
			}
			if internal > 0 && dyck.InferArity(p) != arity {
				return errors.New(errors.ErrCodeInternal,
					"path %s: inferred arity %d, sampled with %d", p, dyck.InferArity(p), arity)
			}
			return nil
		}
	})
}

// Poly converts random triangulations with 3 to MaxSides sides to binary
// trees and back.
func (r *Runner) Poly(ctx context.Context) (Report, error) {
	cfg := r.Config
	return r.parallel(ctx, Poly, cfg.Trials, func(int) trial {
		return func(rng *rand.Rand) error {
			sides := between(rng, 3, cfg.MaxSides)
			d := poly.Random(rng, sides)
			if err := d.Validate(); err != nil {
				return errors.Wrap(errors.ErrCodeInternal, err, "random %d-gon", sides)
			}

			t := d.ToTree()
			if t.Len() != 2*sides-3 {
				return errors.New(errors.ErrCodeInternal,
					"%d-gon: tree has %d nodes, want %d", sides, t.Len(), 2*sides-3)
			}
			back := poly.FromTree(t)
			t.Release()
			if !d.Equal(back) {
				return errors.New(errors.ErrCodeInternal,
					"%d-gon: diagonals %v came back as %v", sides, d.Sorted(), back.Sorted())
			}
			return nil
		}
	})
}

// Flip performs random walks of 2*sides flips on random triangulations with
// 4 to MaxSides sides. Every walk also flips one diagonal twice to check
// the involution, and ends with a full table rebuild.
func (r *Runner) Flip(ctx context.Context) (Report, error) {
	cfg := r.Config
	return r.parallel(ctx, Flip, cfg.Trials, func(int) trial {
		return func(rng *rand.Rand) error {
			sides := between(rng, 4, max(cfg.MaxSides, 4))
			e, err := flip.New(poly.Random(rng, sides), nil)
			if err != nil {
				return errors.Wrap(errors.ErrCodeInternal, err, "random %d-gon", sides)
			}

			for range 2 * sides {
				if _, err := e.Flip(1 + rng.IntN(e.Len())); err != nil {
					return err
				}
			}

			idx := 1 + rng.IntN(e.Len())
			before := e.Edge(idx)
			if _, err := e.Flip(idx); err != nil {
				return err
			}
			if after, _ := e.Flip(idx); after != before {
				return errors.New(errors.ErrCodeInternal,
					"%d-gon: flipping diagonal %d twice gave %s, want %s", sides, idx, after, before)
			}

			if err := e.Verify(); err != nil {
				return err
			}
			if err := e.Dissection().Validate(); err != nil {
				return errors.Wrap(errors.ErrCodeInternal, err, "%d-gon after walk", sides)
			}
			return nil
		}
	})
}

// Height samples HeightSamples trees with HeightInternal internal nodes for
// every arity from 2 to HeightMaxArity. It fails if the mean height of any
// arity is further than Tolerance (relative) from [sampler.ExpectedHeight].
//
// Each worker cycles through the arities trial by trial.
func (r *Runner) Height(ctx context.Context) (Report, error) {
	cfg := r.Config
	arities := max(cfg.HeightMaxArity, 2) - 1
	workers := max(cfg.Workers, 1)
	sums := make([][]int, workers)
	counts := make([][]int, workers)
	rep, err := r.parallel(ctx, Height, cfg.HeightSamples*arities, func(worker int) trial {
		sums[worker] = make([]int, arities)
		counts[worker] = make([]int, arities)
		next := 0
		return func(rng *rand.Rand) error {
			k := next
			next = (next + 1) % arities
			t := sampler.Tree(rng, k+2, cfg.HeightInternal)
			sums[worker][k] += t.Height()
			counts[worker][k]++
			t.Release()
			return nil
		}
	})
	if err != nil {
		return rep, err
	}

	for k := range arities {
		total, n := 0, 0
		for w := range sums {
			if sums[w] == nil {
				continue
			}
			total += sums[w][k]
			n += counts[w][k]
		}
		h := HeightStat{
			Arity:    k + 2,
			Samples:  n,
			Mean:     float64(total) / float64(max(n, 1)),
			Expected: sampler.ExpectedHeight(k+2, cfg.HeightInternal),
		}
		rep.Heights = append(rep.Heights, h)
		dev := h.Deviation()
		if dev > cfg.Tolerance {
			return rep, errors.New(errors.ErrCodeInternal,
				"arity %d: mean height %.2f is %.2f%% from expected %.2f (tolerance %.2f%%)",
				h.Arity, h.Mean, 100*dev, h.Expected, 100*cfg.Tolerance)
		}
		r.Logger.Info("height within tolerance", "arity", h.Arity, "mean", h.Mean, "expected", h.Expected, "deviation", dev)
	}
	return rep, nil
}
