package query

import "errors"

var (
	// ErrNoQueries indicates an AggregateQuery was constructed with an
	// empty query list, leaving getMBR/getCombinedKeywords undefined.
	ErrNoQueries = errors.New("query: aggregate query has no queries")
)
