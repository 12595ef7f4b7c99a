// Package search implements top-k spatial-keyword search (lkt): a
// best-first branch-and-bound traversal of an IR-tree that ranks
// candidates by a weighted combination of spatial distance and textual
// relevance drawn from each node's inverted file. LKTAggregate extends the
// same scoring to a query.AggregateQuery group-of-points query.
package search
