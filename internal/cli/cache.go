package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/dissect/pkg/cache"
	"github.com/matzehuels/dissect/pkg/errors"
)

// cacheCommand creates the cache management command.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the rendered artifact cache",
		Long: `Manage the rendered artifact cache.

Rendered SVG, PDF and PNG files are cached by graph and format under
$XDG_CACHE_HOME/dissect (default ~/.cache/dissect). Use --no-cache on any
command to bypass it.`,
	}
	cmd.AddCommand(c.cacheClearCommand())
	cmd.AddCommand(c.cachePathCommand())
	return cmd
}

func (c *CLI) cacheClearCommand() *cobra.Command {
	var expiredOnly bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Remove cached artifacts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			fc, err := openFileCache()
			if err != nil {
				return err
			}
			n, err := fc.Prune(cmd.Context(), !expiredOnly)
			if err != nil {
				return err
			}
			printSuccess("removed %d cached artifacts", n)
			printFile(fc.Dir())
			return nil
		},
	}
	cmd.Flags().BoolVar(&expiredOnly, "expired", false, "only remove expired artifacts")
	return cmd
}

func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the cache directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			dir, err := cache.Dir()
			if err != nil {
				return errors.Wrap(errors.ErrCodeIO, err, "locate cache dir")
			}
			printRaw(dir)
			return nil
		},
	}
}

func openFileCache() (*cache.FileCache, error) {
	dir, err := cache.Dir()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeIO, err, "locate cache dir")
	}
	c, err := cache.NewFileCache(dir)
	if err != nil {
		return nil, err
	}
	return c.(*cache.FileCache), nil
}
