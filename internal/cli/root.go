package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/dissect/pkg/config"
)

// setup runs before every subcommand. It loads the config file and attaches
// the logger to the command context so helpers can reach it through
// loggerFromContext.
func (c *CLI) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return err
	}
	c.Config = cfg
	if c.seed != 0 {
		c.Config.Check.Seed = c.seed
	}
	c.Logger.Debug("loaded config", "path", c.configPath, "sides", cfg.Sample.Sides, "workers", cfg.Check.Workers)

	cmd.SetContext(withLogger(cmd.Context(), c.Logger))
	return nil
}

// intFlag returns the flag value when the user set it and fallback otherwise.
// It lets config file values sit between flag defaults and explicit flags.
func intFlag(cmd *cobra.Command, name string, value, fallback int) int {
	if cmd.Flags().Changed(name) {
		return value
	}
	return fallback
}

// stringFlag is intFlag for strings.
func stringFlag(cmd *cobra.Command, name, value, fallback string) string {
	if cmd.Flags().Changed(name) {
		return value
	}
	return fallback
}
