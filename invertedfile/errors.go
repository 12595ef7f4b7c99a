package invertedfile

import "errors"

var (
	// ErrNodeNotFound indicates Load or a ranking function was asked about
	// a node identifier with no stored posting list.
	ErrNodeNotFound = errors.New("invertedfile: node not found")

	// ErrClusterNotFound indicates StoreClusterEnhance/RankingSumClusterEnhance
	// referenced a cluster slot that was never populated via AddDocument.
	ErrClusterNotFound = errors.New("invertedfile: cluster not found")
)
