// Package pkg provides the libraries behind dissect: random plane trees,
// their Dyck path codes, and triangulated convex polygons.
//
// # Overview
//
// Every r-ary plane tree with n internal nodes has exactly one Dyck path
// among the rotations of any step sequence with the right counts (the cycle
// lemma). Binary trees with n internal nodes are in bijection with the
// triangulations of an (n+2)-gon. The pkg directory is organized into:
//
//  1. [core] - Domain logic (trees, Dyck paths, sampling, polygons, flips)
//  2. [io] - Plot files, edge lists, JSON documents, flip notifications
//  3. [render] - Graphviz drawings of trees and polygons
//  4. [check] - Parallel randomized round-trip checks
//  5. [api] and [session] - HTTP service with in-memory flip sessions
//
// # Architecture
//
// The typical data flow:
//
//	random steps
//	     ↓
//	[core/sampler] (rotate to the unique Dyck path)
//	     ↓
//	[core/dyck] (decode to a tree)
//	     ↓
//	[core/poly] (binary tree ⇄ triangulation)
//	     ↓
//	[core/flip] (O(1) diagonal flips)
//	     ↓
//	plot file / SVG / JSON
//
// # Quick Start
//
// Sample a random binary tree and draw its triangulation:
//
//	import (
//	    "math/rand/v2"
//	    "github.com/matzehuels/dissect/pkg/core/poly"
//	    "github.com/matzehuels/dissect/pkg/core/sampler"
//	    "github.com/matzehuels/dissect/pkg/render"
//	)
//
//	rng := rand.New(rand.NewPCG(42, 0))
//
//	// 1. Sample a tree with 10 internal nodes
//	t := sampler.Tree(rng, 2, 10)
//
//	// 2. Convert it to a triangulated 12-gon
//	d := poly.FromTree(t)
//
//	// 3. Render
//	svg, _ := render.RenderSVG(render.PolygonDOT(d, render.Options{}))
//
// # Main Packages
//
// [core/tree] - Arena-backed plane trees with labelled nodes and ordered
// child slots.
//
// [core/dyck] - Encode and decode trees as Dyck paths; validity and arity
// checks.
//
// [core/sampler] - Uniform random paths and trees through the cycle lemma.
//
// [core/poly] - Dissections of convex polygons, their validation and the
// bijection with binary trees.
//
// [core/flip] - A flip engine that keeps a relationship table so each flip
// costs O(1), with a [flip.Sink] notified after every flip.
//
// [observability] - Hooks for flips and self checks.
//
// [cache] - Rendered artifact cache used by the CLI and the server.
//
// [config] - TOML configuration with XDG lookup.
//
// [errors] - Coded errors shared by every package.
//
// # Testing
//
//	go test ./pkg/...             # All tests
//	go test ./pkg/core/poly/...   # Specific package
//	go test -run Example          # Examples only
//
// [core]: https://pkg.go.dev/github.com/matzehuels/dissect/pkg/core
// [core/tree]: https://pkg.go.dev/github.com/matzehuels/dissect/pkg/core/tree
// [core/dyck]: https://pkg.go.dev/github.com/matzehuels/dissect/pkg/core/dyck
// [core/sampler]: https://pkg.go.dev/github.com/matzehuels/dissect/pkg/core/sampler
// [core/poly]: https://pkg.go.dev/github.com/matzehuels/dissect/pkg/core/poly
// [core/flip]: https://pkg.go.dev/github.com/matzehuels/dissect/pkg/core/flip
// [flip.Sink]: https://pkg.go.dev/github.com/matzehuels/dissect/pkg/core/flip#Sink
// [io]: https://pkg.go.dev/github.com/matzehuels/dissect/pkg/io
// [render]: https://pkg.go.dev/github.com/matzehuels/dissect/pkg/render
// [check]: https://pkg.go.dev/github.com/matzehuels/dissect/pkg/check
// [api]: https://pkg.go.dev/github.com/matzehuels/dissect/pkg/api
// [session]: https://pkg.go.dev/github.com/matzehuels/dissect/pkg/session
// [observability]: https://pkg.go.dev/github.com/matzehuels/dissect/pkg/observability
// [cache]: https://pkg.go.dev/github.com/matzehuels/dissect/pkg/cache
// [config]: https://pkg.go.dev/github.com/matzehuels/dissect/pkg/config
// [errors]: https://pkg.go.dev/github.com/matzehuels/dissect/pkg/errors
package pkg
