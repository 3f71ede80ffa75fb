package cli

import (
	"fmt"
	"slices"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/dissect/pkg/check"
	"github.com/matzehuels/dissect/pkg/errors"
)

func (c *CLI) checkCommand() *cobra.Command {
	var (
		trials, workers, maxSides int
		heightMaxArity            int
		tolerance                 float64
	)

	cmd := &cobra.Command{
		Use:   "check [dyck|poly|flip|height]...",
		Short: "Run randomized round-trip self checks",
		Long: `Run randomized round-trip self checks.

  dyck    random r-ary path -> tree -> path is the identity
  poly    random triangulation -> binary tree -> triangulation is the identity
  flip    random flip walks keep the relationship table consistent
  height  mean height of random r-ary trees, r = 2..--height-max-arity,
          matches the asymptotic value

With no arguments every check runs. Any discrepancy fails the command.
Use --seed to repeat a failing run.`,
		Example: `  dissect check
  dissect check dyck poly --trials 1000
  dissect check height --seed 42`,
		ValidArgs: check.Names,
		Args:      cobra.OnlyValidArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg := c.Config.Check
			cfg.Trials = intFlag(cmd, "trials", trials, cfg.Trials)
			cfg.Workers = intFlag(cmd, "workers", workers, cfg.Workers)
			cfg.MaxSides = intFlag(cmd, "max-sides", maxSides, cfg.MaxSides)
			cfg.HeightMaxArity = intFlag(cmd, "height-max-arity", heightMaxArity, cfg.HeightMaxArity)
			if err := errors.ValidateArity(cfg.HeightMaxArity); err != nil {
				return err
			}
			if cmd.Flags().Changed("tolerance") {
				cfg.Tolerance = tolerance
			}

			names := slices.Clone(args)
			if len(names) == 0 {
				names = slices.Clone(check.Names)
			}
			slices.SortStableFunc(names, func(a, b string) int {
				return slices.Index(check.Names, a) - slices.Index(check.Names, b)
			})
			names = slices.Compact(names)

			runner := check.NewRunner(cfg, loggerFromContext(ctx))
			spinner := newSpinner(ctx, "checking")
			spinner.Start()

			var rows [][]string
			var failed error
			for _, name := range names {
				spinner.SetMessage("checking " + name)
				rep, err := runner.Run(ctx, name)
				rows = append(rows, reportRows(rep, err)...)
				if err != nil {
					failed = err
					break
				}
			}
			spinner.Stop()

			printTable([]string{"check", "trials", "time", "result"}, rows)
			printKeyValue("seed", fmt.Sprint(runner.Config.Seed))
			if failed != nil {
				printError("self check failed")
				return failed
			}
			printSuccess("all checks passed")
			return nil
		},
	}

	cmd.Flags().IntVar(&trials, "trials", 100_000, "trials per check")
	cmd.Flags().IntVar(&workers, "workers", 0, "parallel workers (default: number of CPUs)")
	cmd.Flags().IntVar(&maxSides, "max-sides", 100, "largest polygon for poly and flip checks")
	cmd.Flags().IntVar(&heightMaxArity, "height-max-arity", 5, "largest arity for the height check")
	cmd.Flags().Float64Var(&tolerance, "tolerance", 0.01, "relative tolerance for the height check")
	return cmd
}

// reportRows returns the table rows for one report: a single row, or one
// row per arity for the height check.
func reportRows(rep check.Report, err error) [][]string {
	elapsed := rep.Duration.Round(time.Millisecond).String()
	if err != nil && len(rep.Heights) == 0 {
		return [][]string{{rep.Name, fmt.Sprint(rep.Trials), elapsed, StyleError.Render(errors.UserMessage(err))}}
	}
	if len(rep.Heights) == 0 {
		return [][]string{{rep.Name, fmt.Sprint(rep.Trials), elapsed, StyleSuccess.Render("ok")}}
	}

	rows := make([][]string, 0, len(rep.Heights))
	for i, h := range rep.Heights {
		result := StyleSuccess.Render(fmt.Sprintf("mean %.2f, expected %.2f (%.2f%%)", h.Mean, h.Expected, 100*h.Deviation()))
		if err != nil && i == len(rep.Heights)-1 {
			result = StyleError.Render(errors.UserMessage(err))
		}
		rows = append(rows, []string{fmt.Sprintf("%s r=%d", rep.Name, h.Arity), fmt.Sprint(h.Samples), elapsed, result})
	}
	return rows
}
