package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/dissect/pkg/errors"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefault_IsValid(t *testing.T) {
	require.NoError(t, Default().Validate())
}

func TestLoad_MissingFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_Overrides(t *testing.T) {
	path := writeFile(t, `
[sample]
arity = 3
sides = 12

[check]
trials = 50
tolerance = 0.05
height_max_arity = 4

[flip]
notify = "/tmp/flips"
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.Sample.Arity)
	assert.Equal(t, 12, cfg.Sample.Sides)
	assert.Equal(t, 21, cfg.Sample.Length, "unset keys keep their default")
	assert.Equal(t, 50, cfg.Check.Trials)
	assert.InDelta(t, 0.05, cfg.Check.Tolerance, 1e-12)
	assert.Equal(t, 4, cfg.Check.HeightMaxArity)
	assert.Equal(t, 5, Default().Check.HeightMaxArity)
	assert.Equal(t, "/tmp/flips", cfg.Flip.Notify)
	assert.Equal(t, "poly.txt", cfg.Flip.Plot)
}

func TestLoad_Malformed(t *testing.T) {
	_, err := Load(writeFile(t, "[sample\narity = "))
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidFormat), "got %v", err)
}

func TestLoad_InvalidValues(t *testing.T) {
	_, err := Load(writeFile(t, "[sample]\narity = 1\n"))
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidInput), "got %v", err)

	_, err = Load(writeFile(t, "[check]\ntolerance = 0.0\n"))
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidInput), "got %v", err)

	_, err = Load(writeFile(t, "[check]\nheight_max_arity = 1\n"))
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidInput), "got %v", err)
}

func TestDefaultPath_XDG(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/xdg")
	path, err := DefaultPath()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/xdg", "dissect", "config.toml"), path)
}
