package query

import (
	"sort"

	"github.com/katalvlaran/irtree/geo"
	"github.com/katalvlaran/irtree/invertedfile"
)

// Query is a single spatial-keyword search input: a location, an optional
// weight (folded together by an Aggregator when part of an
// AggregateQuery), and a keyword list with optional per-keyword weights.
type Query struct {
	Location       geo.Point
	Weight         float64
	Keywords       []invertedfile.TermID
	KeywordWeights map[invertedfile.TermID]float64
}

// Cost is the composite score search ranks candidates by: spatial and
// textual components plus their combined total. Lower totals are better.
type Cost struct {
	Spatial float64
	Textual float64
	Total   float64
}

// Result pairs a document id with its Cost. A slice of Results sorts by
// Total ascending, id ascending as tiebreak (spec §3's Result ordering
// invariant), via SortResults.
type Result struct {
	ID   int64
	Cost Cost
}

// SortResults orders results by Cost.Total ascending, breaking ties by ID
// ascending (spec §3's Result ordering invariant).
func SortResults(results []Result) {
	sort.Slice(results, func(i, j int) bool {
		if results[i].Cost.Total != results[j].Cost.Total {
			return results[i].Cost.Total < results[j].Cost.Total
		}

		return results[i].ID < results[j].ID
	})
}

// CombinedScore computes the branch-and-bound cost for a candidate whose
// minimum spatial distance to the query is spatial and whose textual
// ranking score (from an inverted file) is ir. spatialCost and textualCost
// are both clamped to be nonnegative so a perfect textual match (ir >= 1)
// or a zero-distance candidate never drives the total below what alpha
// alone would produce.
func CombinedScore(spatial, ir, alpha, maxD float64) Cost {
	spatialCost := spatial / maxD
	if spatialCost < 0 {
		spatialCost = 0
	}
	textualCost := 1 - ir
	if textualCost < 0 {
		textualCost = 0
	}

	return Cost{
		Spatial: spatialCost,
		Textual: textualCost,
		Total:   alpha*spatialCost + (1-alpha)*textualCost,
	}
}
