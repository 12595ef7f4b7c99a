package query

import (
	"fmt"
	"sort"

	"github.com/katalvlaran/irtree/geo"
	"github.com/katalvlaran/irtree/invertedfile"
)

// Aggregator folds the per-query costs a candidate received (one per
// query in an AggregateQuery, in query order) into a single scalar cost
// used to rank that candidate. Grounded on flow.FlowOptions' small
// interface-plus-options style: the aggregator itself is a plain function
// value, not an interface, so callers can pass a closure directly.
type Aggregator func(costs []Cost) Cost

// DefaultAggregator sums each query's weighted cost, the simplest fold
// that respects per-query Weight.
func DefaultAggregator(queries []Query) Aggregator {
	return func(costs []Cost) Cost {
		var out Cost
		for i, c := range costs {
			w := 1.0
			if i < len(queries) && queries[i].Weight != 0 {
				w = queries[i].Weight
			}
			out.Spatial += w * c.Spatial
			out.Textual += w * c.Textual
			out.Total += w * c.Total
		}

		return out
	}
}

// AggregateQuery composes several Queries into one group-of-points query
// (spec §4.G): a combined MBR for pruning and a merged keyword set, plus
// an Aggregator that folds per-query candidate costs into one ranking
// total.
type AggregateQuery struct {
	queries    []Query
	aggregator Aggregator
}

// AggregateOption customizes an AggregateQuery at construction, mirroring
// rtree.TreeOption's non-panicking functional-option style (spec
// construction errors are reported by NewAggregateQuery, not by options).
type AggregateOption func(*AggregateQuery)

// WithAggregator overrides the cost-folding function. The default, when
// unset, is DefaultAggregator(queries).
func WithAggregator(agg Aggregator) AggregateOption {
	return func(a *AggregateQuery) { a.aggregator = agg }
}

// WithWeights assigns per-query weights by position, overriding whatever
// Weight each Query already carried. Extra weights beyond len(queries) are
// ignored; fewer leave the remaining queries' existing Weight untouched.
func WithWeights(weights []float64) AggregateOption {
	return func(a *AggregateQuery) {
		for i := range a.queries {
			if i < len(weights) {
				a.queries[i].Weight = weights[i]
			}
		}
	}
}

// NewAggregateQuery builds an AggregateQuery over queries, which must be
// non-empty.
func NewAggregateQuery(queries []Query, opts ...AggregateOption) (*AggregateQuery, error) {
	if len(queries) == 0 {
		return nil, ErrNoQueries
	}

	a := &AggregateQuery{queries: append([]Query(nil), queries...)}
	for _, opt := range opts {
		opt(a)
	}
	if a.aggregator == nil {
		a.aggregator = DefaultAggregator(a.queries)
	}

	return a, nil
}

// Queries returns the underlying query list, in the order supplied to
// NewAggregateQuery.
func (a *AggregateQuery) Queries() []Query {
	return a.queries
}

// GroupSize returns the number of queries in the group.
func (a *AggregateQuery) GroupSize() int {
	return len(a.queries)
}

// GetWeights returns the ordered list of per-query weights.
func (a *AggregateQuery) GetWeights() []float64 {
	out := make([]float64, len(a.queries))
	for i, q := range a.queries {
		out[i] = q.Weight
	}

	return out
}

// GetMBR returns the minimum bounding region covering every query's
// location.
func (a *AggregateQuery) GetMBR() (geo.Region, error) {
	if len(a.queries) == 0 {
		return geo.Region{}, ErrNoQueries
	}

	mbr := geo.InfiniteRegion(a.queries[0].Location.Dim())
	for _, q := range a.queries {
		union, err := mbr.Union(q.Location.AsRegion())
		if err != nil {
			return geo.Region{}, fmt.Errorf("query: AggregateQuery.GetMBR: %w", err)
		}
		mbr = union
	}

	return mbr, nil
}

// GetCombinedKeywords returns the set-union of every query's keyword ids,
// sorted ascending for determinism (spec leaves the order unspecified).
func (a *AggregateQuery) GetCombinedKeywords() []invertedfile.TermID {
	seen := make(map[invertedfile.TermID]bool)
	for _, q := range a.queries {
		for _, kw := range q.Keywords {
			seen[kw] = true
		}
	}
	out := make([]invertedfile.TermID, 0, len(seen))
	for kw := range seen {
		out = append(out, kw)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })

	return out
}

// Aggregate folds one cost per query (in query order) into the candidate's
// overall ranking cost via the configured Aggregator.
func (a *AggregateQuery) Aggregate(costs []Cost) Cost {
	return a.aggregator(costs)
}
