package io

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/matzehuels/dissect/pkg/core/dyck"
	"github.com/matzehuels/dissect/pkg/core/poly"
	"github.com/matzehuels/dissect/pkg/errors"
)

// Point is a vertex position.
type Point struct {
	X, Y float64
}

// Coordinates returns the positions of the vertices of a regular polygon
// with the given number of sides, as written by WritePlot.
func Coordinates(sides int) []Point {
	pts := make([]Point, sides)
	p := rotate(Point{X: 0, Y: 1}, 180/float64(sides))
	for i := range pts {
		pts[i] = p
		p = rotate(p, 360/float64(sides))
	}
	return pts
}

// rotate turns p counterclockwise about the origin.
func rotate(p Point, degrees float64) Point {
	s, c := math.Sincos(degrees * math.Pi / 180)
	return Point{X: p.X*c - p.Y*s, Y: p.X*s + p.Y*c}
}

// WritePlot writes the plot data file for d to w: the vertex count, one
// coordinate line per vertex, then one "l,r" line per edge. Edges are the
// boundary sides (i, i+1), the closing side (0, sides-1), then the
// diagonals.
func WritePlot(w io.Writer, d *poly.Dissection) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "%d\n", d.Sides)
	for _, p := range Coordinates(d.Sides) {
		fmt.Fprintf(bw, "%.3f,%.3f\n", zero(p.X), zero(p.Y))
	}
	for i := 0; i < d.Sides-1; i++ {
		fmt.Fprintf(bw, "%d,%d\n", i, i+1)
	}
	fmt.Fprintf(bw, "%d,%d\n", 0, d.Sides-1)
	for _, e := range d.Diagonals {
		fmt.Fprintf(bw, "%d,%d\n", e.L, e.R)
	}
	if err := bw.Flush(); err != nil {
		return errors.Wrap(errors.ErrCodeIO, err, "write plot data")
	}
	return nil
}

// ExportPlot writes the plot data file for d to path.
func ExportPlot(d *poly.Dissection, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(errors.ErrCodeIO, err, "create %s", path)
	}
	defer f.Close()
	return WritePlot(f, d)
}

// WritePathPlot writes the plot data file for a Dyck path to w: the point
// count, then one "x,y" line per lattice point from dyck.Heights.
func WritePathPlot(w io.Writer, p dyck.Path) error {
	bw := bufio.NewWriter(w)
	h := dyck.Heights(p)
	fmt.Fprintf(bw, "%d\n", len(h))
	for x, y := range h {
		fmt.Fprintf(bw, "%d,%d\n", x, y)
	}
	if err := bw.Flush(); err != nil {
		return errors.Wrap(errors.ErrCodeIO, err, "write path plot data")
	}
	return nil
}

// ExportPathPlot writes the plot data file for p to path.
func ExportPathPlot(p dyck.Path, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(errors.ErrCodeIO, err, "create %s", path)
	}
	defer f.Close()
	return WritePathPlot(f, p)
}

// zero folds -0.000 into 0.000.
func zero(v float64) float64 {
	if math.Abs(v) < 0.0005 {
		return 0
	}
	return v
}
