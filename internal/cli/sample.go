package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/dissect/pkg/core/dyck"
	"github.com/matzehuels/dissect/pkg/core/poly"
	"github.com/matzehuels/dissect/pkg/core/sampler"
	"github.com/matzehuels/dissect/pkg/errors"
	pkgio "github.com/matzehuels/dissect/pkg/io"
	"github.com/matzehuels/dissect/pkg/render"
)

// sampleCommand creates the sample command with path, tree and poly
// subcommands.
func (c *CLI) sampleCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sample",
		Short: "Draw uniformly random trees and their encodings",
	}
	cmd.AddCommand(c.samplePathCommand())
	cmd.AddCommand(c.sampleTreeCommand())
	cmd.AddCommand(c.samplePolyCommand())
	return cmd
}

func (c *CLI) samplePathCommand() *cobra.Command {
	var arity, length int

	cmd := &cobra.Command{
		Use:   "path",
		Short: "Print a random Dyck path of an r-ary tree",
		Long: `Print a uniformly random Dyck path of an r-ary tree.

The path has the given length, which must be r*n+1. Each step is a child
count: 0 closes a leaf and r opens an internal node.`,
		Example: `  dissect sample path --arity 2 --length 21
  dissect sample path --arity 3 --length 31 | dissect dyck decode -`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			arity = intFlag(cmd, "arity", arity, c.Config.Sample.Arity)
			length = intFlag(cmd, "length", length, c.Config.Sample.Length)
			if err := errors.ValidatePathLength(arity, length); err != nil {
				return err
			}
			p := sampler.Path(c.rng(), arity, length)
			printRaw(p.String())
			return nil
		},
	}

	cmd.Flags().IntVarP(&arity, "arity", "r", 2, "children per internal node")
	cmd.Flags().IntVarP(&length, "length", "n", 21, "path length (arity*n+1)")
	return cmd
}

func (c *CLI) sampleTreeCommand() *cobra.Command {
	var (
		arity, internal int
		output          string
		hideLabels      bool
	)

	cmd := &cobra.Command{
		Use:   "tree",
		Short: "Sample a random r-ary tree",
		Long: `Sample a uniformly random r-ary tree with the given number of internal
nodes and print its shape. With --output the tree is also rendered; the
format follows the file extension (.svg, .pdf, .png, .dot).`,
		Example: `  dissect sample tree --arity 2 --internal 10
  dissect sample tree --arity 3 --internal 20 -o tree.svg`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			arity = intFlag(cmd, "arity", arity, c.Config.Sample.Arity)
			if err := errors.ValidateArity(arity); err != nil {
				return err
			}
			if err := errors.ValidateInternal(internal); err != nil {
				return err
			}

			prog := newProgress(loggerFromContext(ctx))
			t := sampler.Tree(c.rng(), arity, internal)
			prog.done("sampled tree", "arity", arity, "nodes", t.Len())

			printRaw(t.Serialize())
			printKeyValue("nodes", fmt.Sprint(t.Len()))
			printKeyValue("height", fmt.Sprint(t.Height()))
			printKeyValue("expected", fmt.Sprintf("%.2f", sampler.ExpectedHeight(arity, internal)))
			printKeyValue("path", truncate(dyck.Encode(t).String(), 60))

			if output == "" {
				return nil
			}
			return c.renderAndWrite(ctx, render.TreeDOT(t, render.Options{HideLabels: hideLabels}), output)
		},
	}

	cmd.Flags().IntVarP(&arity, "arity", "r", 2, "children per internal node")
	cmd.Flags().IntVarP(&internal, "internal", "i", 10, "number of internal nodes")
	cmd.Flags().StringVarP(&output, "output", "o", "", "render the tree to this file")
	cmd.Flags().BoolVar(&hideLabels, "hide-labels", false, "draw nodes without labels")
	return cmd
}

func (c *CLI) samplePolyCommand() *cobra.Command {
	var (
		sides    int
		plot     string
		output   string
		jsonPath string
	)

	cmd := &cobra.Command{
		Use:   "poly",
		Short: "Sample a random triangulation of a convex polygon",
		Long: `Sample a uniformly random triangulation of a convex polygon and print its
diagonals, one "l,r" pair per line. The result can be fed back to
"dissect poly check" and "dissect flip --from".`,
		Example: `  dissect sample poly --sides 8
  dissect sample poly --sides 12 --plot poly.txt -o poly.svg`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			sides = intFlag(cmd, "sides", sides, c.Config.Sample.Sides)
			if err := errors.ValidateSides(sides); err != nil {
				return err
			}
			d := poly.Random(c.rng(), sides)
			for _, e := range d.Diagonals {
				printRaw(e.String())
			}
			return c.writeDissection(cmd.Context(), d, plot, jsonPath, output)
		},
	}

	cmd.Flags().IntVarP(&sides, "sides", "s", 8, "number of polygon vertices")
	cmd.Flags().StringVar(&plot, "plot", "", "write the plot data file here")
	cmd.Flags().StringVar(&jsonPath, "json", "", "write the triangulation as JSON here")
	cmd.Flags().StringVarP(&output, "output", "o", "", "render the polygon to this file")
	return cmd
}

// writeDissection writes whichever of the optional outputs were requested.
func (c *CLI) writeDissection(ctx context.Context, d *poly.Dissection, plot, jsonPath, output string) error {
	if plot != "" {
		if err := pkgio.ExportPlot(d, plot); err != nil {
			return err
		}
		printFile(plot)
	}
	if jsonPath != "" {
		f, err := os.Create(jsonPath)
		if err != nil {
			return errors.Wrap(errors.ErrCodeIO, err, "create %s", jsonPath)
		}
		defer f.Close()
		if err := pkgio.WriteJSON(d, f); err != nil {
			return err
		}
		printFile(jsonPath)
	}
	if output != "" {
		return c.renderAndWrite(ctx, render.PolygonDOT(d, render.Options{}), output)
	}
	return nil
}

// truncate shortens s to at most n runes, marking the cut.
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
