package io

import (
	"bufio"
	"encoding/json"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/matzehuels/dissect/pkg/core/poly"
	"github.com/matzehuels/dissect/pkg/errors"
)

// ReadEdges parses one diagonal per line, written "a,b" (spaces work as
// separators too). Blank lines and lines starting with
// '#' are skipped. Endpoints are ordered, so "3,1" reads as (1,3).
//
// If sides > 0, every endpoint must lie in [0, sides).
func ReadEdges(r io.Reader, sides int) ([]poly.Edge, error) {
	var edges []poly.Edge
	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		e, err := ParseEdge(text)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "line %d", line)
		}
		if sides > 0 && e.R >= sides {
			return nil, errors.New(errors.ErrCodeInvalidInput, "line %d: vertex %d out of range for %d sides", line, e.R, sides)
		}
		edges = append(edges, e)
	}
	if err := sc.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeIO, err, "read edges")
	}
	return edges, nil
}

// ImportEdges reads an edge list from a file.
func ImportEdges(path string, sides int) ([]poly.Edge, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeIO, err, "open %s", path)
	}
	defer f.Close()
	return ReadEdges(f, sides)
}

// ParseEdge parses a single "a,b" edge.
func ParseEdge(s string) (poly.Edge, error) {
	parts := strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == ' ' || r == '\t' })
	if len(parts) != 2 {
		return poly.Edge{}, errors.New(errors.ErrCodeInvalidFormat, "want two vertices, got %q", s)
	}
	a, err := strconv.Atoi(parts[0])
	if err != nil {
		return poly.Edge{}, errors.Wrap(errors.ErrCodeInvalidFormat, err, "bad vertex %q", parts[0])
	}
	b, err := strconv.Atoi(parts[1])
	if err != nil {
		return poly.Edge{}, errors.Wrap(errors.ErrCodeInvalidFormat, err, "bad vertex %q", parts[1])
	}
	if a < 0 || b < 0 {
		return poly.Edge{}, errors.New(errors.ErrCodeInvalidFormat, "negative vertex in %q", s)
	}
	if a == b {
		return poly.Edge{}, errors.New(errors.ErrCodeInvalidFormat, "loop edge %q", s)
	}
	return poly.NewEdge(a, b), nil
}

// Document is the JSON form of a dissection.
type Document struct {
	Sides     int      `json:"sides"`
	Diagonals [][2]int `json:"diagonals"`
}

// NewDocument converts d to its JSON form.
func NewDocument(d *poly.Dissection) Document {
	doc := Document{Sides: d.Sides, Diagonals: make([][2]int, len(d.Diagonals))}
	for i, e := range d.Diagonals {
		doc.Diagonals[i] = [2]int{e.L, e.R}
	}
	return doc
}

// Dissection converts doc back, checking sides and vertex ranges.
func (doc Document) Dissection() (*poly.Dissection, error) {
	if err := errors.ValidateSides(doc.Sides); err != nil {
		return nil, err
	}
	d := &poly.Dissection{Sides: doc.Sides, Diagonals: make([]poly.Edge, len(doc.Diagonals))}
	for i, pair := range doc.Diagonals {
		a, b := pair[0], pair[1]
		if a < 0 || b < 0 || a >= doc.Sides || b >= doc.Sides || a == b {
			return nil, errors.New(errors.ErrCodeInvalidInput,
				"diagonal %d: (%d, %d) is not a chord of a %d-gon", i, a, b, doc.Sides)
		}
		d.Diagonals[i] = poly.NewEdge(a, b)
	}
	return d, nil
}

// WriteJSON encodes d as JSON and writes it to w.
func WriteJSON(d *poly.Dissection, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(NewDocument(d)); err != nil {
		return errors.Wrap(errors.ErrCodeIO, err, "encode")
	}
	return nil
}

// ReadJSON decodes a dissection from r. It does not close r.
func ReadJSON(r io.Reader) (*poly.Dissection, error) {
	var doc Document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode")
	}
	return doc.Dissection()
}
