// Package query defines the spatial-keyword query types shared by search
// and the aggregate-query façade: a single Query, its Cost/Result pair,
// and AggregateQuery, which composes several queries into one combined
// MBR and keyword set for search.LKTAggregate to prune against.
package query
