package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/dissect/pkg/core/poly"
	"github.com/matzehuels/dissect/pkg/core/tree"
	"github.com/matzehuels/dissect/pkg/errors"
	pkgio "github.com/matzehuels/dissect/pkg/io"
	"github.com/matzehuels/dissect/pkg/render"
)

// polyCommand creates the poly command with check and tree subcommands.
func (c *CLI) polyCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "poly",
		Short: "Validate triangulations and convert them to binary trees",
		Long: `Validate triangulations and convert them to binary trees.

Input is either an edge list with one "l,r" diagonal per line (--sides is
then required) or a JSON document {"sides": n, "diagonals": [[l,r], ...]}
when the file name ends in .json. Pass "-" or no file to read stdin.`,
	}
	cmd.AddCommand(c.polyCheckCommand())
	cmd.AddCommand(c.polyTreeCommand())
	cmd.AddCommand(c.polyNextCommand())
	return cmd
}

func (c *CLI) polyCheckCommand() *cobra.Command {
	var sides int

	cmd := &cobra.Command{
		Use:   "check [file]",
		Short: "Check that an edge list triangulates a convex polygon",
		Example: `  dissect poly check --sides 6 edges.txt
  dissect sample poly -s 10 | dissect poly check -s 10`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := readDissection(cmd.InOrStdin(), args, sides)
			if err != nil {
				return err
			}
			if err := d.Validate(); err != nil {
				printError("not a triangulation of a %d-gon", d.Sides)
				return err
			}
			printSuccess("valid triangulation of a %d-gon (%d diagonals)", d.Sides, len(d.Diagonals))
			return nil
		},
	}

	cmd.Flags().IntVarP(&sides, "sides", "s", 0, "number of polygon vertices")
	return cmd
}

func (c *CLI) polyTreeCommand() *cobra.Command {
	var (
		sides      int
		output     string
		hideLabels bool
	)

	cmd := &cobra.Command{
		Use:   "tree [file]",
		Short: "Convert a triangulation to its binary tree",
		Long: `Convert a triangulation to its binary tree.

The root stands for the closing edge (0, sides-1). Internal nodes are
labelled by diagonal index starting at sides-1; leaf i is the boundary edge
(i, i+1). The tree is printed in pre-order with the diagonals it visits.`,
		Example: `  dissect poly tree --sides 6 edges.txt
  dissect poly tree poly.json -o tree.svg`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := readDissection(cmd.InOrStdin(), args, sides)
			if err != nil {
				return err
			}
			if err := d.Validate(); err != nil {
				return err
			}

			t := d.ToTree()
			printRaw(t.Serialize())
			printKeyValue("nodes", fmt.Sprint(t.Len()))
			printKeyValue("height", fmt.Sprint(t.Height()))
			printKeyValue("pre-order", formatLabels(t))
			printKeyValue("diagonals", formatEdges(poly.FromTree(t).Diagonals))

			if output == "" {
				return nil
			}
			return c.renderAndWrite(cmd.Context(), render.TreeDOT(t, render.Options{HideLabels: hideLabels}), output)
		},
	}

	cmd.Flags().IntVarP(&sides, "sides", "s", 0, "number of polygon vertices")
	cmd.Flags().StringVarP(&output, "output", "o", "", "render the tree to this file")
	cmd.Flags().BoolVar(&hideLabels, "hide-labels", false, "draw nodes without labels")
	return cmd
}

func (c *CLI) polyNextCommand() *cobra.Command {
	var (
		sides int
		first bool
	)

	cmd := &cobra.Command{
		Use:   "next [file]",
		Short: "Print the triangulation that follows another in enumeration order",
		Long: `Print the triangulation that follows another in enumeration order.

Triangulations are ordered by the Dyck path of their dual binary tree. With
--first no input is read and the first triangulation of a --sides polygon
(the fan at vertex sides-1) is printed. Output is an edge list, so calls can
be chained. The command fails with NOT_FOUND after the last triangulation.`,
		Example: `  dissect poly next --first --sides 6
  dissect poly next --first -s 6 | dissect poly next -s 6`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var next *poly.Dissection
			if first {
				if err := errors.ValidateSides(sides); err != nil {
					return err
				}
				next = poly.First(sides)
			} else {
				d, err := readDissection(cmd.InOrStdin(), args, sides)
				if err != nil {
					return err
				}
				if err := d.Validate(); err != nil {
					return err
				}
				var ok bool
				if next, ok = poly.Next(d); !ok {
					return errors.New(errors.ErrCodeNotFound, "this is the last triangulation of a %d-gon", d.Sides)
				}
			}
			for _, e := range next.Diagonals {
				printRaw(e.String())
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&sides, "sides", "s", 0, "number of polygon vertices")
	cmd.Flags().BoolVar(&first, "first", false, "print the first triangulation instead of reading one")
	return cmd
}

// readDissection loads a dissection from the file named in args, or from in
// when the name is "-" or missing. JSON is detected by extension; stdin is
// read as JSON when it starts with '{'.
func readDissection(in io.Reader, args []string, sides int) (*poly.Dissection, error) {
	name := "-"
	if len(args) == 1 {
		name = args[0]
	}

	var r io.Reader
	if name == "-" {
		if in == nil {
			in = os.Stdin
		}
		data, err := io.ReadAll(in)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeIO, err, "read stdin")
		}
		text := string(data)
		if strings.HasPrefix(strings.TrimSpace(text), "{") {
			return pkgio.ReadJSON(strings.NewReader(text))
		}
		r = strings.NewReader(text)
	} else {
		f, err := os.Open(name)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeIO, err, "open %s", name)
		}
		defer f.Close()
		if strings.EqualFold(filepath.Ext(name), ".json") {
			return pkgio.ReadJSON(f)
		}
		r = f
	}

	if err := errors.ValidateSides(sides); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "edge lists need --sides")
	}
	edges, err := pkgio.ReadEdges(r, sides)
	if err != nil {
		return nil, err
	}
	return poly.New(sides, edges...), nil
}

// formatLabels lists node labels in pre-order, leaves in brackets.
func formatLabels(t *tree.Tree) string {
	var b strings.Builder
	t.PreOrder(func(id tree.NodeID, _ int) bool {
		if b.Len() > 0 {
			b.WriteByte(' ')
		}
		if t.IsLeaf(id) {
			fmt.Fprintf(&b, "[%d]", t.Label(id))
		} else {
			fmt.Fprintf(&b, "%d", t.Label(id))
		}
		return true
	})
	return truncate(b.String(), 80)
}
