// Package render draws trees and polygon dissections with Graphviz.
//
// # Trees
//
// [TreeDOT] turns a tree.Tree into a top-down DOT digraph. Leaves are small
// boxes, internal nodes circles; labels are node labels unless hidden.
//
//	dot := render.TreeDOT(t, render.Options{})
//	svg, err := render.RenderSVG(dot)
//
// # Polygons
//
// [PolygonDOT] places the vertices of a dissection on the unit circle (the
// same coordinates as io.Coordinates) and pins them with neato, so the
// picture shows the polygon itself: boundary edges solid, diagonals dashed,
// an optional highlighted diagonal drawn bold.
//
// # Format Conversion
//
// [Render] produces svg, pdf or png. [ToPDF] and [ToPNG] convert SVG output
// with the external rsvg-convert tool (from librsvg).
//
// [RenderCached] looks the artifact up in a cache.Cache first, keyed by the
// DOT source and format, so unchanged pictures are not laid out twice.
package render
