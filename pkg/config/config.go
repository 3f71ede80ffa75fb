// Package config loads dissect settings from an optional TOML file.
//
// Precedence is flags, then the file, then [Default]. A missing file is not
// an error; a malformed one is.
//
//	[sample]
//	arity = 3
//	length = 31
//
//	[check]
//	trials = 10000
//	workers = 8
//	max_sides = 40
//	max_arity = 100
//	max_edges = 10000
//	height_internal = 100000
//	height_samples = 10000
//	height_max_arity = 5
//	tolerance = 0.01
//
//	[flip]
//	plot = "poly.txt"
//	notify = "watchdog"
//
//	[serve]
//	addr = ":8080"
package config

import (
	"os"
	"path/filepath"
	"runtime"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/dissect/pkg/errors"
)

const appName = "dissect"

// Config holds every tunable setting.
type Config struct {
	Sample Sample `toml:"sample"`
	Check  Check  `toml:"check"`
	Flip   Flip   `toml:"flip"`
	Serve  Serve  `toml:"serve"`
}

// Sample configures the random generators.
type Sample struct {
	Arity  int `toml:"arity"`
	Length int `toml:"length"`
	Sides  int `toml:"sides"`
}

// Check configures the self checks.
type Check struct {
	Trials         int     `toml:"trials"`
	Workers        int     `toml:"workers"`
	MaxSides       int     `toml:"max_sides"`
	MaxArity       int     `toml:"max_arity"`
	MaxEdges       int     `toml:"max_edges"`
	HeightInternal int     `toml:"height_internal"`
	HeightSamples  int     `toml:"height_samples"`
	HeightMaxArity int     `toml:"height_max_arity"`
	Tolerance      float64 `toml:"tolerance"`
	Seed           uint64  `toml:"seed"`
}

// Flip configures the interactive flip session.
type Flip struct {
	Plot   string `toml:"plot"`
	Notify string `toml:"notify"`
}

// Serve configures the HTTP API.
type Serve struct {
	Addr string `toml:"addr"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Sample: Sample{Arity: 2, Length: 21, Sides: 8},
		Check: Check{
			Trials:         100_000,
			Workers:        runtime.NumCPU(),
			MaxSides:       100,
			MaxArity:       100,
			MaxEdges:       10_000,
			HeightInternal: 100_000,
			HeightSamples:  10_000,
			HeightMaxArity: 5,
			Tolerance:      0.01,
		},
		Flip:  Flip{Plot: "poly.txt", Notify: "watchdog"},
		Serve: Serve{Addr: ":8080"},
	}
}

// Load reads path over the defaults. An empty path means DefaultPath; a
// file that does not exist leaves the defaults untouched.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return cfg, nil
		}
		path = p
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return cfg, errors.Wrap(errors.ErrCodeIO, err, "read config %s", path)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, errors.Wrap(errors.ErrCodeInvalidFormat, err, "parse config %s", path)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, errors.Wrap(errors.ErrCodeInvalidInput, err, "config %s", path)
	}
	return cfg, nil
}

// Validate checks the settings for values no command can work with.
func (c Config) Validate() error {
	if err := errors.ValidateArity(c.Sample.Arity); err != nil {
		return err
	}
	if err := errors.ValidateSides(c.Sample.Sides); err != nil {
		return err
	}
	if c.Check.Trials < 1 || c.Check.Workers < 1 || c.Check.HeightSamples < 1 {
		return errors.New(errors.ErrCodeInvalidInput, "check trials, workers and height_samples must be positive")
	}
	if c.Check.MaxSides < 3 || c.Check.MaxArity < 2 || c.Check.MaxEdges < 1 {
		return errors.New(errors.ErrCodeInvalidInput, "check bounds too small")
	}
	if c.Check.HeightMaxArity < 2 || c.Check.HeightMaxArity > c.Check.MaxArity {
		return errors.New(errors.ErrCodeInvalidInput,
			"check height_max_arity must be in [2, %d], got %d", c.Check.MaxArity, c.Check.HeightMaxArity)
	}
	if c.Check.Tolerance <= 0 {
		return errors.New(errors.ErrCodeInvalidInput, "check tolerance must be positive")
	}
	return nil
}

// DefaultPath returns the config file location using the XDG standard
// (~/.config/dissect/config.toml).
func DefaultPath() (string, error) {
	if home := os.Getenv("XDG_CONFIG_HOME"); home != "" {
		return filepath.Join(home, appName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName, "config.toml"), nil
}
