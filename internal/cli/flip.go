package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/dissect/pkg/cache"
	"github.com/matzehuels/dissect/pkg/core/flip"
	"github.com/matzehuels/dissect/pkg/core/poly"
	"github.com/matzehuels/dissect/pkg/errors"
	pkgio "github.com/matzehuels/dissect/pkg/io"
	"github.com/matzehuels/dissect/pkg/render"
)

func (c *CLI) flipCommand() *cobra.Command {
	var (
		sides  int
		plot   string
		notify string
		from   string
		output string
		plain  bool
	)

	cmd := &cobra.Command{
		Use:   "flip",
		Short: "Flip diagonals of a triangulation interactively",
		Long: `Flip diagonals of a triangulation interactively.

The session starts from a random triangulation (or --from a file) and asks
for a diagonal index in [1, sides-3]. Each flip replaces the diagonal by the
other diagonal of its quadrilateral. After every flip the plot data file is
rewritten and the notification file receives "index\nu,v\n" for the new
diagonal. A notification failure ends the session.

Without a terminal, or with --plain, indices are read line by line from
stdin; "q" or end of input ends the session.`,
		Example: `  dissect flip --sides 10
  printf '1\n3\n' | dissect flip --sides 6 --plain --notify flips.txt`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			sides = intFlag(cmd, "sides", sides, c.Config.Sample.Sides)
			plot = stringFlag(cmd, "plot", plot, c.Config.Flip.Plot)
			notify = stringFlag(cmd, "notify", notify, c.Config.Flip.Notify)

			var d *poly.Dissection
			if from != "" {
				var err error
				if d, err = readDissection(nil, []string{from}, sides); err != nil {
					return err
				}
			} else {
				if err := errors.ValidateSides(sides); err != nil {
					return err
				}
				d = poly.Random(c.rng(), sides)
			}

			var sink flip.Sink
			if notify != "" {
				sink = pkgio.NewFileSink(notify)
			}
			artifacts := cache.NewNullCache()
			if output != "" {
				artifacts = c.artifactCache()
			}
			s, err := newFlipSession(ctx, d, sink, plot, output, artifacts)
			if err != nil {
				return err
			}
			s.ctx = withFields(ctx, "session", s.engine.ID())
			loggerFromContext(s.ctx).Info("flip session started", "sides", s.engine.Sides())

			if plain || !isTerminal(os.Stdin) {
				err = runPlainSession(s, cmd.InOrStdin(), cmd.OutOrStdout())
			} else {
				err = runInteractiveSession(s)
			}
			if err == nil {
				printSuccess("%d flips", s.flips)
			}
			return err
		},
	}

	cmd.Flags().IntVarP(&sides, "sides", "s", 8, "number of polygon vertices")
	cmd.Flags().StringVar(&plot, "plot", "poly.txt", "plot data file rewritten after every flip (empty disables)")
	cmd.Flags().StringVar(&notify, "notify", "watchdog", "notification file rewritten after every flip (empty disables)")
	cmd.Flags().StringVar(&from, "from", "", "start from this triangulation (edge list or .json)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "re-render the polygon to this file after every flip")
	cmd.Flags().BoolVar(&plain, "plain", false, "read indices line by line instead of running the terminal UI")
	return cmd
}

// flipSession ties an engine to the files it keeps up to date.
type flipSession struct {
	ctx    context.Context
	engine *flip.Engine
	plot   string
	output string
	cache  cache.Cache
	flips  int
	last   flip.Event
}

func newFlipSession(ctx context.Context, d *poly.Dissection, sink flip.Sink, plot, output string, c cache.Cache) (*flipSession, error) {
	e, err := flip.New(d, sink)
	if err != nil {
		return nil, err
	}
	s := &flipSession{ctx: ctx, engine: e, plot: plot, output: output, cache: c}
	if err := s.export(); err != nil {
		return nil, err
	}
	return s, nil
}

// apply flips the diagonal named by input. An unparsable or out-of-range
// index is an INVALID_INPUT error and leaves the session untouched; any
// other error is fatal.
func (s *flipSession) apply(input string) error {
	idx, err := strconv.Atoi(strings.TrimSpace(input))
	if err != nil {
		return errors.New(errors.ErrCodeInvalidInput, "%q is not a diagonal index", input)
	}
	if err := errors.ValidateFlipIndex(idx, s.engine.Sides()); err != nil {
		return err
	}

	old := s.engine.Edge(idx)
	next, err := s.engine.Flip(idx)
	if err != nil {
		return err
	}
	s.flips++
	s.last = flip.Event{Session: s.engine.ID(), Index: idx, Old: old, New: next}
	loggerFromContext(s.ctx).Debug("flipped", "index", idx, "old", old, "new", next)
	return s.export()
}

// export rewrites the plot data file and the rendered polygon.
func (s *flipSession) export() error {
	if s.plot == "" && s.output == "" {
		return nil
	}
	d := s.engine.Dissection()
	if s.plot != "" {
		if err := pkgio.ExportPlot(d, s.plot); err != nil {
			return err
		}
	}
	if s.output != "" {
		svg, _, err := render.RenderCached(s.ctx, s.cache, render.PolygonDOT(d, render.Options{Highlight: s.last.New}), "svg")
		if err != nil {
			return err
		}
		if err := os.WriteFile(s.output, svg, 0o644); err != nil {
			return errors.Wrap(errors.ErrCodeIO, err, "write %s", s.output)
		}
	}
	return nil
}

func (s *flipSession) prompt() string {
	if s.engine.Len() == 0 {
		return "no diagonals to flip, q to quit"
	}
	return fmt.Sprintf("diagonal [1-%d]", s.engine.Len())
}

// runPlainSession reads one index per line until "q" or end of input.
func runPlainSession(s *flipSession, in io.Reader, out io.Writer) error {
	sc := bufio.NewScanner(in)
	fmt.Fprintf(out, "%s> ", s.prompt())
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		switch {
		case line == "":
		case line == "q" || line == "quit":
			return nil
		default:
			err := s.apply(line)
			switch {
			case errors.Is(err, errors.ErrCodeInvalidInput):
				fmt.Fprintln(out, errors.UserMessage(err))
			case err != nil:
				return err
			default:
				fmt.Fprintf(out, "%d: %s -> %s\n", s.last.Index, s.last.Old, s.last.New)
			}
		}
		fmt.Fprintf(out, "%s> ", s.prompt())
	}
	if err := sc.Err(); err != nil {
		return errors.Wrap(errors.ErrCodeIO, err, "read input")
	}
	return nil
}

func runInteractiveSession(s *flipSession) error {
	final, err := tea.NewProgram(newFlipModel(s)).Run()
	if err != nil {
		return err
	}
	return final.(flipModel).err
}

func isTerminal(f *os.File) bool {
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}
