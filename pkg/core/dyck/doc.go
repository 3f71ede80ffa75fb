// Package dyck converts between ordered trees and generalized Dyck paths.
//
// # Paths
//
// A [Path] is the pre-order listing of a tree's branching: every node
// contributes one [Step] holding its number of children. A leaf contributes
// [Close] (0); an internal node with k children contributes Open(k).
//
// Reading the steps as weights k-1 (a close weighs -1, an open(r) weighs
// r-1), a sequence is a valid path iff every proper prefix sums to at least
// 0 and the whole sequence sums to -1. This is exactly the condition under
// which the stack decoder in [Decode] consumes every step and ends with a
// single resolved root. An r-ary tree with n internal nodes has a path of
// length r*n+1 with n opens and (r-1)*n+1 closes.
//
// # Text form
//
// [Path.String] writes steps as decimal integers separated by single spaces,
// e.g. the binary tree with two internal nodes "(. (..))" becomes "2 0 2 0 0".
// [Parse] accepts spaces, tabs, newlines or commas as separators.
//
// # Enumeration
//
// [First] and [Next] walk the r-ary paths of one length in lexicographic
// order of steps, visiting every tree of that size exactly once.
//
// # Mountains
//
// Drawn as a lattice path ([Heights]), an open followed by a close is a
// peak and a close followed by an open is a valley. [FlipMountain] swaps
// one into the other; [Mountains] lists the positions where that keeps the
// path valid.
//
// # Usage
//
//	p, err := dyck.Parse("2 0 2 0 0")
//	if err != nil { ... }
//	if !dyck.IsValid(p) { ... }        // cheap gate, no allocation
//	t, err := dyck.Decode(p)           // *errors.Error with INVALID_PATH on failure
//	q := dyck.Encode(t)                // q equals p
package dyck
