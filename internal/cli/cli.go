package cli

import (
	"io"
	"math/rand/v2"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/dissect/pkg/buildinfo"
	"github.com/matzehuels/dissect/pkg/cache"
	"github.com/matzehuels/dissect/pkg/config"
)

const appName = "dissect"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// Config is loaded by the root command before any subcommand runs.
	Config     config.Config
	configPath string
	seed       uint64
	noCache    bool
	artifacts  cache.Cache
}

// New creates a new CLI instance with a default logger and the built-in
// configuration.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Config: config.Default(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "Sample, encode and flip random trees and polygon dissections",
		Long: `Dissect generates uniformly random r-ary trees through the cycle lemma,
converts them to and from Dyck paths and polygon triangulations, validates
dissections, and runs interactive diagonal-flip sessions.`,
		Version:           buildinfo.Version,
		SilenceUsage:      true,
		PersistentPreRunE: c.setup,
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/dissect/config.toml)")
	root.PersistentFlags().Uint64Var(&c.seed, "seed", 0, "random seed (0 picks one)")
	root.PersistentFlags().BoolVar(&c.noCache, "no-cache", false, "render without reading or writing the artifact cache")

	root.AddCommand(c.sampleCommand())
	root.AddCommand(c.dyckCommand())
	root.AddCommand(c.polyCommand())
	root.AddCommand(c.flipCommand())
	root.AddCommand(c.checkCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// rng returns the generator for one command. A --seed makes runs
// reproducible.
func (c *CLI) rng() *rand.Rand {
	seed := c.seed
	if seed == 0 {
		seed = rand.Uint64()
	}
	c.Logger.Debug("random source", "seed", seed)
	return rand.New(rand.NewPCG(seed, seed>>32|seed<<32))
}

// artifactCache returns the rendered-artifact cache, opening it on first use.
func (c *CLI) artifactCache() cache.Cache {
	if c.artifacts == nil {
		c.artifacts = cache.Open(c.noCache)
	}
	return c.artifacts
}
