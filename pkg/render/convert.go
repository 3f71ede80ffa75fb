package render

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"

	"github.com/matzehuels/dissect/pkg/cache"
	"github.com/matzehuels/dissect/pkg/errors"
)

// Formats lists the outputs Render accepts.
var Formats = []string{"svg", "pdf", "png"}

// Render converts a DOT graph to the named format: "svg", "pdf" or "png".
// An empty format means SVG.
func Render(dot, format string) ([]byte, error) {
	svg, err := RenderSVG(dot)
	if err != nil {
		return nil, err
	}
	switch format {
	case "svg", "":
		return svg, nil
	case "pdf":
		return ToPDF(svg)
	case "png":
		return ToPNG(svg, 2.0)
	default:
		return nil, errors.New(errors.ErrCodeUnsupported, "unsupported format %q", format)
	}
}

// RenderCached is Render backed by c. The second result reports a cache
// hit. Cache failures are not fatal; the graph is rendered again.
func RenderCached(ctx context.Context, c cache.Cache, dot, format string) ([]byte, bool, error) {
	if format == "" {
		format = "svg"
	}
	key := cache.ArtifactKey(dot, format)
	if data, ok, err := c.Get(ctx, key); err == nil && ok {
		return data, true, nil
	}

	data, err := Render(dot, format)
	if err != nil {
		return nil, false, err
	}
	_ = c.Set(ctx, key, data, cache.DefaultTTL)
	return data, false, nil
}

// ToPDF converts SVG bytes to PDF using rsvg-convert.
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func ToPDF(svg []byte) ([]byte, error) {
	return rsvgConvert(svg, "pdf")
}

// ToPNG converts SVG bytes to PNG at the given scale factor.
func ToPNG(svg []byte, scale float64) ([]byte, error) {
	return rsvgConvert(svg, "png", "-z", fmt.Sprintf("%.2f", scale))
}

func rsvgConvert(svg []byte, format string, extraArgs ...string) ([]byte, error) {
	if _, err := exec.LookPath("rsvg-convert"); err != nil {
		return nil, errors.New(errors.ErrCodeUnsupported,
			"%s export requires librsvg. Install with:\n  macOS:  brew install librsvg\n  Linux:  apt install librsvg2-bin", format)
	}

	cmd := exec.Command("rsvg-convert", append([]string{"-f", format}, extraArgs...)...)
	cmd.Stdin = bytes.NewReader(svg)

	var out, stderr bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "rsvg-convert: %s", bytes.TrimSpace(stderr.Bytes()))
	}
	return out.Bytes(), nil
}
