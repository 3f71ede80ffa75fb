package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/dissect/pkg/core/dyck"
	"github.com/matzehuels/dissect/pkg/core/sampler"
	"github.com/matzehuels/dissect/pkg/errors"
	pkgio "github.com/matzehuels/dissect/pkg/io"
	"github.com/matzehuels/dissect/pkg/render"
)

// maxPlotPaths bounds the number of files one "dyck plot --all" writes.
const maxPlotPaths = 10000

func (c *CLI) dyckPlotCommand() *cobra.Command {
	var (
		output, dir, format string
		all                 bool
		random              int
		arity, internal     int
		hideLabels          bool
	)

	cmd := &cobra.Command{
		Use:   "plot [path]",
		Short: "Plot Dyck paths as lattice paths",
		Long: `Plot Dyck paths as lattice paths. An open step with r children climbs
r-1 and a close step descends 1.

Without flags the plot data of one path ("x,y" per point) goes to stdout.
With --output it is written to a file instead: .txt writes plot data, and
.svg, .pdf, .png or .dot render the path.

--all plots every r-ary path with n internal nodes in enumeration order,
and --random k plots k uniformly random ones. Both write one file per path
into --dir, named path-0001.<format> and so on.`,
		Example: `  dissect dyck plot "2 0 2 0 0"
  dissect dyck plot "3 0 0 3 0 0 0" -o path.svg
  dissect dyck plot --all --arity 2 --internal 4 --dir plots
  dissect dyck plot --random 5 --arity 3 --internal 20 --dir plots --format txt`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if !all && random == 0 {
				p, err := readPath(cmd.InOrStdin(), args)
				if err != nil {
					return err
				}
				if !dyck.IsValid(p) {
					_, err := dyck.Decode(p)
					return err
				}
				if output == "" {
					return pkgio.WritePathPlot(stdout, p)
				}
				return c.writePathPlot(ctx, p, output, hideLabels)
			}

			if all && random > 0 {
				return errors.New(errors.ErrCodeInvalidInput, "--all and --random cannot be combined")
			}
			if random < 0 {
				return errors.New(errors.ErrCodeInvalidInput, "--random must be positive, got %d", random)
			}
			if len(args) > 0 {
				return errors.New(errors.ErrCodeInvalidInput, "a path argument cannot be combined with --all or --random")
			}
			if dir == "" {
				return errors.New(errors.ErrCodeInvalidInput, "--dir is required with --all or --random")
			}
			arity = intFlag(cmd, "arity", arity, c.Config.Sample.Arity)
			if err := errors.ValidateArity(arity); err != nil {
				return err
			}
			if err := errors.ValidateInternal(internal); err != nil {
				return err
			}
			format = strings.TrimPrefix(strings.ToLower(format), ".")
			if format != "txt" {
				if _, err := formatFromPath("x." + format); err != nil {
					return err
				}
			}

			var paths []dyck.Path
			if all {
				for p, ok := dyck.First(arity, internal), true; ok; p, ok = dyck.Next(p) {
					if len(paths) == maxPlotPaths {
						return errors.New(errors.ErrCodeInvalidInput,
							"more than %d %d-ary paths with %d internal nodes, use --random", maxPlotPaths, arity, internal)
					}
					paths = append(paths, p)
				}
			} else {
				rng := c.rng()
				for range random {
					paths = append(paths, sampler.Path(rng, arity, arity*internal+1))
				}
			}

			if err := os.MkdirAll(dir, 0o755); err != nil {
				return errors.Wrap(errors.ErrCodeIO, err, "create %s", dir)
			}
			for i, p := range paths {
				name := filepath.Join(dir, fmt.Sprintf("path-%04d.%s", i+1, format))
				if err := c.writePathPlot(ctx, p, name, hideLabels); err != nil {
					return err
				}
			}
			printSuccess("plotted %d paths", len(paths))
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "write one path to this file (.txt, .svg, .pdf, .png, .dot)")
	cmd.Flags().BoolVar(&all, "all", false, "plot every path of the given arity and size")
	cmd.Flags().IntVar(&random, "random", 0, "plot this many random paths")
	cmd.Flags().IntVarP(&arity, "arity", "r", 2, "children per internal node (--all, --random)")
	cmd.Flags().IntVarP(&internal, "internal", "n", 3, "internal nodes per path (--all, --random)")
	cmd.Flags().StringVar(&dir, "dir", "", "directory for --all and --random output")
	cmd.Flags().StringVar(&format, "format", "svg", "file format for --all and --random (txt, svg, pdf, png, dot)")
	cmd.Flags().BoolVar(&hideLabels, "hide-labels", false, "draw points without step labels")
	return cmd
}

// writePathPlot writes p to path as plot data (.txt) or as a rendering.
func (c *CLI) writePathPlot(ctx context.Context, p dyck.Path, path string, hideLabels bool) error {
	if strings.EqualFold(filepath.Ext(path), ".txt") {
		if err := pkgio.ExportPathPlot(p, path); err != nil {
			return err
		}
		printFile(path)
		return nil
	}
	return c.renderAndWrite(ctx, render.PathDOT(p, render.Options{HideLabels: hideLabels}), path)
}

func (c *CLI) dyckMountainCommand() *cobra.Command {
	var at int

	cmd := &cobra.Command{
		Use:   "mountain [path]",
		Short: "Flip a mountain of a Dyck path",
		Long: `Flip a mountain of a Dyck path: swap a peak (an open step followed by a
close) into a valley, or a valley back into a peak. The tree keeps its
arity and size.

Without --at the command lists the positions that can be flipped.`,
		Example: `  dissect dyck mountain "2 0 2 0 0"
  dissect dyck mountain "2 0 2 0 0" --at 1`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := readPath(cmd.InOrStdin(), args)
			if err != nil {
				return err
			}
			if !dyck.IsValid(p) {
				_, err := dyck.Decode(p)
				return err
			}

			if !cmd.Flags().Changed("at") {
				ms := dyck.Mountains(p)
				if len(ms) == 0 {
					printInfo("no mountain can be flipped")
					return nil
				}
				strs := make([]string, len(ms))
				for i, m := range ms {
					strs[i] = fmt.Sprint(m)
				}
				printRaw(strings.Join(strs, " "))
				return nil
			}

			q, err := dyck.FlipMountain(p, at)
			if err != nil {
				return err
			}
			printRaw(q.String())
			return nil
		},
	}

	cmd.Flags().IntVar(&at, "at", 0, "position of the peak or valley to flip")
	return cmd
}
