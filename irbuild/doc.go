// Package irbuild constructs the IR-tree overlay: a single-pass, bottom-up
// walk of an already-built rtree.Tree that populates an invertedfile for
// every node, so each node's postings summarize the keyword content of its
// entire subtree (spec §4.E's invariant).
package irbuild
