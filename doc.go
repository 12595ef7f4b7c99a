// Package irtree is an in-memory-backed spatial-keyword index: an R-tree
// (Linear, Quadratic, or R* split policy) overlaid with a per-node inverted
// file, supporting top-k nearest-neighbor search ranked by a combination of
// spatial distance and textual relevance.
//
// Subpackages:
//
//	geo/          — points, axis-aligned bounding regions, distance math
//	store/        — the PageStore abstraction the tree persists nodes through
//	rtree/        — the R-tree engine: insert, delete, range and k-NN queries
//	invertedfile/ — per-node term postings and ranking sums
//	irbuild/      — bottom-up construction of the IR-tree overlay
//	query/        — query and aggregate-query façades over a built IR-tree
//	search/       — best-first top-k spatial-keyword search (lkt)
//
// A Tree is safe for concurrent use by multiple readers; inserts and
// deletes take an exclusive lock for their duration.
package irtree
