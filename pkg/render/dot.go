package render

import (
	"bytes"
	"fmt"

	"github.com/matzehuels/dissect/pkg/core/dyck"
	"github.com/matzehuels/dissect/pkg/core/poly"
	"github.com/matzehuels/dissect/pkg/core/tree"
	"github.com/matzehuels/dissect/pkg/io"
)

// Options configures DOT generation.
type Options struct {
	// HideLabels draws nodes or vertices without their labels.
	HideLabels bool

	// Highlight marks one diagonal of a polygon. The zero Edge highlights nothing.
	Highlight poly.Edge

	// Scale multiplies polygon coordinates (in inches). Zero means 3.
	Scale float64
}

// TreeDOT returns a Graphviz DOT representation of t.
func TreeDOT(t *tree.Tree, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph Tree {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [fontname=\"SF Mono, Menlo, monospace\", fontsize=12, style=filled, fillcolor=white];\n")
	buf.WriteString("  edge [arrowhead=none];\n\n")

	t.PreOrder(func(id tree.NodeID, _ int) bool {
		label := ""
		if !opts.HideLabels {
			label = fmt.Sprintf("%d", t.Label(id))
		}
		if t.IsLeaf(id) {
			fmt.Fprintf(&buf, "  n%d [label=%q, shape=box, style=\"filled,rounded\", width=0.3, height=0.3];\n", id, label)
		} else {
			fmt.Fprintf(&buf, "  n%d [label=%q, shape=circle];\n", id, label)
		}
		for _, c := range t.Children(id) {
			if c != tree.None {
				fmt.Fprintf(&buf, "  n%d -> n%d;\n", id, c)
			}
		}
		return true
	})

	buf.WriteString("}\n")
	return buf.String()
}

// PolygonDOT returns a DOT representation of d laid out as a regular
// polygon. The graph sets layout=neato and pins every vertex.
func PolygonDOT(d *poly.Dissection, opts Options) string {
	scale := opts.Scale
	if scale == 0 {
		scale = 3
	}

	var buf bytes.Buffer
	buf.WriteString("graph Polygon {\n")
	buf.WriteString("  layout=neato;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=circle, fontname=\"SF Mono, Menlo, monospace\", fontsize=10, width=0.3, fixedsize=true, style=filled, fillcolor=white];\n")
	buf.WriteString("  edge [penwidth=1.5];\n\n")

	for i, p := range io.Coordinates(d.Sides) {
		label := ""
		if !opts.HideLabels {
			label = fmt.Sprintf("%d", i)
		}
		fmt.Fprintf(&buf, "  v%d [label=%q, pos=\"%.3f,%.3f!\"];\n", i, label, p.X*scale, p.Y*scale)
	}
	buf.WriteString("\n")

	for i := 0; i < d.Sides; i++ {
		fmt.Fprintf(&buf, "  v%d -- v%d;\n", i, (i+1)%d.Sides)
	}
	for _, e := range d.Diagonals {
		if e == opts.Highlight {
			fmt.Fprintf(&buf, "  v%d -- v%d [penwidth=3, color=\"#0f766e\"];\n", e.L, e.R)
			continue
		}
		fmt.Fprintf(&buf, "  v%d -- v%d [style=dashed, color=\"#555555\"];\n", e.L, e.R)
	}

	buf.WriteString("}\n")
	return buf.String()
}

// PathDOT returns a DOT representation of p drawn as a lattice path: one
// pinned point per entry of dyck.Heights, with up steps solid and down
// steps dashed over a dotted axis at height 0. Scale is the grid spacing
// in inches; zero means 0.4.
func PathDOT(p dyck.Path, opts Options) string {
	scale := opts.Scale
	if scale == 0 {
		scale = 0.4
	}
	h := dyck.Heights(p)

	var buf bytes.Buffer
	buf.WriteString("graph Path {\n")
	buf.WriteString("  layout=neato;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=point, width=0.08];\n")
	buf.WriteString("  edge [penwidth=1.5];\n\n")

	fmt.Fprintf(&buf, "  axis0 [style=invis, pos=\"0,0!\"];\n")
	fmt.Fprintf(&buf, "  axis1 [style=invis, pos=\"%.3f,0!\"];\n", float64(len(p))*scale)
	buf.WriteString("  axis0 -- axis1 [style=dotted, color=\"#999999\"];\n\n")

	for x, y := range h {
		fmt.Fprintf(&buf, "  p%d [pos=\"%.3f,%.3f!\"", x, float64(x)*scale, float64(y)*scale)
		if !opts.HideLabels && x < len(p) {
			fmt.Fprintf(&buf, ", xlabel=\"%d\", fontsize=8", p[x])
		}
		buf.WriteString("];\n")
	}
	buf.WriteString("\n")

	for i, s := range p {
		if s.IsOpen() {
			fmt.Fprintf(&buf, "  p%d -- p%d [color=\"#0f766e\"];\n", i, i+1)
			continue
		}
		fmt.Fprintf(&buf, "  p%d -- p%d [style=dashed, color=\"#555555\"];\n", i, i+1)
	}

	buf.WriteString("}\n")
	return buf.String()
}
