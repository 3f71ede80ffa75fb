package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/dissect/pkg/core/dyck"
	"github.com/matzehuels/dissect/pkg/errors"
	"github.com/matzehuels/dissect/pkg/render"
)

// dyckCommand creates the dyck command and its subcommands.
func (c *CLI) dyckCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dyck",
		Short: "Decode, check, enumerate and plot Dyck paths",
		Long: `Decode, check, enumerate and plot Dyck paths.

A path is a sequence of child counts in pre-order, separated by spaces or
commas: "2 0 2 0 0" is a binary root whose right child has two leaves.
Pass "-" or no argument to read the path from stdin.`,
	}
	cmd.AddCommand(c.dyckDecodeCommand())
	cmd.AddCommand(c.dyckCheckCommand())
	cmd.AddCommand(c.dyckNextCommand())
	cmd.AddCommand(c.dyckPlotCommand())
	cmd.AddCommand(c.dyckMountainCommand())
	return cmd
}

func (c *CLI) dyckDecodeCommand() *cobra.Command {
	var (
		output     string
		hideLabels bool
	)

	cmd := &cobra.Command{
		Use:   "decode [path]",
		Short: "Decode a Dyck path into a tree",
		Example: `  dissect dyck decode "2 0 2 0 0"
  dissect sample path -r 3 -n 31 | dissect dyck decode - -o tree.svg`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := readPath(cmd.InOrStdin(), args)
			if err != nil {
				return err
			}
			t, err := dyck.Decode(p)
			if err != nil {
				return err
			}

			printRaw(t.Serialize())
			printKeyValue("arity", fmt.Sprint(dyck.InferArity(p)))
			printKeyValue("nodes", fmt.Sprint(t.Len()))
			printKeyValue("height", fmt.Sprint(t.Height()))

			if output == "" {
				return nil
			}
			return c.renderAndWrite(cmd.Context(), render.TreeDOT(t, render.Options{HideLabels: hideLabels}), output)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "render the tree to this file")
	cmd.Flags().BoolVar(&hideLabels, "hide-labels", false, "draw nodes without labels")
	return cmd
}

func (c *CLI) dyckCheckCommand() *cobra.Command {
	var arity int

	cmd := &cobra.Command{
		Use:   "check [path]",
		Short: "Check that a Dyck path describes a tree",
		Long: `Check that a Dyck path describes exactly one tree. With --arity the path
must also use that arity for every internal node. The command fails with a
non-zero exit status when the path is invalid.`,
		Example: `  dissect dyck check "3 0 0 0"
  dissect dyck check --arity 2 "2 0 3 0 0 0 0"`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := readPath(cmd.InOrStdin(), args)
			if err != nil {
				return err
			}
			if _, err := dyck.Decode(p); err != nil {
				printError("invalid path")
				return err
			}
			if arity != 0 && !dyck.IsRAry(p, arity) {
				printError("not a %d-ary path", arity)
				return errors.New(errors.ErrCodeInvalidPath, "path mixes arities or is not %d-ary", arity)
			}

			opens, closes := p.Counts()
			printSuccess("valid path")
			printKeyValue("arity", fmt.Sprint(dyck.InferArity(p)))
			printKeyValue("internal", fmt.Sprint(opens))
			printKeyValue("leaves", fmt.Sprint(closes))
			return nil
		},
	}

	cmd.Flags().IntVarP(&arity, "arity", "r", 0, "require this arity (0 accepts any)")
	return cmd
}

func (c *CLI) dyckNextCommand() *cobra.Command {
	var count int

	cmd := &cobra.Command{
		Use:   "next [path]",
		Short: "Print the paths that follow a Dyck path in enumeration order",
		Long: `Print the paths that follow a Dyck path in enumeration order.

Paths of one arity and length are ordered lexicographically by step, so
starting from the first path and repeating "next" lists every tree of that
size once. The command fails with NOT_FOUND after the last path.`,
		Example: `  dissect dyck next "2 0 2 0 2 0 0" --count 4`,
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if count < 1 {
				return errors.New(errors.ErrCodeInvalidInput, "--count must be at least 1, got %d", count)
			}
			p, err := readPath(cmd.InOrStdin(), args)
			if err != nil {
				return err
			}
			if !dyck.IsValid(p) {
				_, err := dyck.Decode(p)
				return err
			}
			if r := dyck.InferArity(p); !dyck.IsRAry(p, r) {
				return errors.New(errors.ErrCodeInvalidPath, "path mixes arities, only %d-ary paths can be enumerated", r)
			}
			for range count {
				next, ok := dyck.Next(p)
				if !ok {
					return errors.New(errors.ErrCodeNotFound, "%s is the last path of its size", p)
				}
				printRaw(next.String())
				p = next
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&count, "count", "n", 1, "number of paths to print")
	return cmd
}

// readPath parses the path given as the only argument, or from in when the
// argument is "-" or missing.
func readPath(in io.Reader, args []string) (dyck.Path, error) {
	if len(args) == 1 && args[0] != "-" {
		return dyck.Parse(args[0])
	}
	if in == nil {
		in = os.Stdin
	}
	data, err := io.ReadAll(in)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeIO, err, "read path from stdin")
	}
	return dyck.Parse(strings.TrimSpace(string(data)))
}
