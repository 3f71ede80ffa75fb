// Package check runs randomized self checks over the core packages.
//
// Each check draws random inputs, pushes them through a pair of inverse
// conversions, and compares the result with the input:
//
//   - dyck: random r-ary path -> tree -> path
//   - poly: random triangulation -> binary tree -> triangulation
//   - flip: random walk of flips, with the relationship table rebuilt and
//     compared at the end of each walk
//   - height: mean height of random trees of arity 2 to HeightMaxArity
//     against [sampler.ExpectedHeight]
//
// Trials are split across worker goroutines. Every worker owns its own
// random source derived from the configured seed, so a run with a fixed seed
// and worker count is reproducible.
//
// A discrepancy is reported as an INTERNAL_ERROR; it means a core package is
// wrong, not that an input was bad.
package check

import (
	"context"
	"math"
	"math/rand/v2"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/dissect/pkg/config"
	"github.com/matzehuels/dissect/pkg/errors"
	"github.com/matzehuels/dissect/pkg/observability"
)

// Names of the available checks, in the order [Runner.All] runs them.
const (
	Dyck   = "dyck"
	Poly   = "poly"
	Flip   = "flip"
	Height = "height"
)

// Names lists every check.
var Names = []string{Dyck, Poly, Flip, Height}

// Report summarizes a finished check.
type Report struct {
	Name     string
	Trials   int
	Duration time.Duration

	// Heights is only set by the height check, one entry per arity.
	Heights []HeightStat
}

// Deviation returns the largest relative deviation among r.Heights.
func (r Report) Deviation() float64 {
	d := 0.0
	for _, h := range r.Heights {
		d = max(d, h.Deviation())
	}
	return d
}

// HeightStat is the mean sampled tree height for one arity.
type HeightStat struct {
	Arity    int
	Samples  int
	Mean     float64
	Expected float64
}

// Deviation returns the relative distance between Mean and Expected.
func (h HeightStat) Deviation() float64 {
	if h.Expected == 0 {
		return 0
	}
	return math.Abs(h.Mean-h.Expected) / h.Expected
}

// Runner executes checks with a fixed configuration.
//
// A Runner holds no per-run state; one Runner may serve concurrent calls.
type Runner struct {
	Config config.Check
	Logger *log.Logger
}

// NewRunner returns a runner for cfg. A zero seed is replaced by a random
// one, which is logged so a failing run can be repeated.
func NewRunner(cfg config.Check, logger *log.Logger) *Runner {
	if logger == nil {
		logger = log.Default()
	}
	if cfg.Workers < 1 {
		cfg.Workers = 1
	}
	if cfg.Seed == 0 {
		cfg.Seed = rand.Uint64()
		logger.Debug("picked random seed", "seed", cfg.Seed)
	}
	return &Runner{Config: cfg, Logger: logger}
}

// Run executes the named check.
func (r *Runner) Run(ctx context.Context, name string) (Report, error) {
	switch name {
	case Dyck:
		return r.Dyck(ctx)
	case Poly:
		return r.Poly(ctx)
	case Flip:
		return r.Flip(ctx)
	case Height:
		return r.Height(ctx)
	}
	return Report{}, errors.New(errors.ErrCodeUnsupported, "unknown check %q", name)
}

// All runs every check in turn and stops at the first failure.
func (r *Runner) All(ctx context.Context) ([]Report, error) {
	var reports []Report
	for _, name := range Names {
		rep, err := r.Run(ctx, name)
		if err != nil {
			return reports, err
		}
		reports = append(reports, rep)
	}
	return reports, nil
}

// trial runs one trial with the worker's random source.
type trial func(rng *rand.Rand) error

// parallel spreads trials over the configured workers. It returns the first
// trial error; the remaining workers stop at their next trial.
func (r *Runner) parallel(ctx context.Context, name string, trials int, fn func(worker int) trial) (Report, error) {
	hooks := observability.Check()
	hooks.OnCheckStart(ctx, name, trials)
	start := time.Now()

	workers := min(r.Config.Workers, max(trials, 1))
	g, gctx := errgroup.WithContext(ctx)
	for w := range workers {
		share := trials / workers
		if w < trials%workers {
			share++
		}
		run := fn(w)
		rng := r.rng(w)
		g.Go(func() error {
			for range share {
				if err := gctx.Err(); err != nil {
					return err
				}
				if err := run(rng); err != nil {
					return err
				}
			}
			return nil
		})
	}
	err := g.Wait()

	rep := Report{Name: name, Trials: trials, Duration: time.Since(start)}
	hooks.OnCheckComplete(ctx, name, trials, rep.Duration, err)
	if err != nil {
		r.Logger.Error("check failed", "check", name, "err", err)
		return rep, err
	}
	r.Logger.Info("check passed", "check", name, "trials", trials, "workers", workers, "duration", rep.Duration)
	return rep, nil
}

func (r *Runner) rng(worker int) *rand.Rand {
	return rand.New(rand.NewPCG(r.Config.Seed, uint64(worker)))
}

// between returns a uniform int in [lo, hi].
func between(rng *rand.Rand, lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + rng.IntN(hi-lo+1)
}
