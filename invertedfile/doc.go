// Package invertedfile defines the per-node inverted-file contract the
// IR-tree builder and search packages depend on, plus MemInvertedFile, a
// map-backed reference implementation for tests and small deployments.
//
// A real deployment backs InvertedFile with its own document store and
// term-postings storage; this package treats both as opaque, the same way
// rtree treats the page store as an opaque collaborator.
package invertedfile
