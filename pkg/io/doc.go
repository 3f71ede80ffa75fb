// Package io reads and writes polygon dissections and flip notifications.
//
// # Plot data
//
// [WritePlot] produces the text file consumed by an external plotting tool:
//
//	5                  vertex count
//	0.588,0.809        one "x,y" line per vertex (3 decimals)
//	...
//	0,1                sides-1 boundary edges "i,i+1"
//	...
//	0,2                one line per diagonal "a,b"
//	0,3
//
// Vertices lie on the unit circle: the first is (0, 1) rotated by 180/sides
// degrees and each further vertex is rotated by another 360/sides degrees.
//
// # Flip notifications
//
// [WriteFlip] writes the two-line notification "index\nu,v\n". [FileSink]
// is a flip.Sink that rewrites a notification file on every flip, for a
// live-redraw process watching that file.
//
// # Edge lists and JSON
//
// [ReadEdges] parses diagonals given one "a,b" per line. [WriteJSON] and
// [ReadJSON] exchange a dissection as
//
//	{"sides": 5, "diagonals": [[0, 2], [0, 3]]}
//
// Readers check syntax and vertex ranges only. Whether the diagonals form a
// triangulation is for poly.Validate to decide.
package io
