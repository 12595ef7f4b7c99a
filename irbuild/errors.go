package irbuild

import "errors"

var (
	// ErrDocumentNotFound indicates DocumentStore had no term weights for a
	// leaf entry's document id. Returned as a structured error rather than
	// aborting the process, resolving spec §7's open "missing document"
	// failure mode.
	ErrDocumentNotFound = errors.New("irbuild: document not found")

	// ErrClusterNotFound indicates ClusterMap had no cluster assignment for
	// a document id during cluster-enhanced construction.
	ErrClusterNotFound = errors.New("irbuild: cluster not found")
)
