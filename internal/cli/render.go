package cli

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/matzehuels/dissect/pkg/errors"
	"github.com/matzehuels/dissect/pkg/render"
)

// formatFromPath picks the output format from the file extension.
func formatFromPath(path string) (string, error) {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	switch ext {
	case "svg", "pdf", "png", "dot":
		return ext, nil
	case "gv":
		return "dot", nil
	}
	return "", errors.New(errors.ErrCodeUnsupported, "cannot tell output format from %q (want .svg, .pdf, .png or .dot)", path)
}

// renderAndWrite renders dot in the format implied by path and writes the
// file. DOT output is written as is, without running Graphviz.
func (c *CLI) renderAndWrite(ctx context.Context, dot, path string) error {
	logger := loggerFromContext(ctx)
	format, err := formatFromPath(path)
	if err != nil {
		return err
	}

	data := []byte(dot)
	if format != "dot" {
		prog := newProgress(logger)
		var hit bool
		if data, hit, err = render.RenderCached(ctx, c.artifactCache(), dot, format); err != nil {
			return err
		}
		prog.done("rendered", "format", format, "cached", hit)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.Wrap(errors.ErrCodeIO, err, "write %s", path)
	}
	printFile(path)
	return nil
}
