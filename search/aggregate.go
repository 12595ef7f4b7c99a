package search

import (
	"fmt"

	"github.com/katalvlaran/irtree/geo"
	"github.com/katalvlaran/irtree/invertedfile"
	"github.com/katalvlaran/irtree/query"
	"github.com/katalvlaran/irtree/rtree"
)

// LKTAggregate answers a group-of-points query (spec §4.G): it descends the
// tree pruned by aq's combined MBR, scores every reachable leaf entry once
// per constituent query (each against that query's own location and
// keywords), and folds the per-query costs with aq's Aggregator into one
// ranking cost per candidate. Results are returned in ascending total-cost
// order, id ascending as tiebreak, including every tie at the kth boundary
// (mirroring LKT and rtree.NearestNeighborQuery).
//
// Unlike LKT's single-query best-first traversal, this is a prune-then-rank
// pass: the combined MBR bounds which subtrees are visited at all, but
// candidates are not poppable in strict aggregate-cost order because the
// aggregate cost is a fold over queries with independent keyword sets, not
// a single monotone bound.
func LKTAggregate(tree *rtree.Tree, inv invertedfile.InvertedFile, aq *query.AggregateQuery, topk int, opts Options) ([]query.Result, error) {
	if aq == nil || aq.GroupSize() == 0 {
		return nil, ErrInvalidOptions
	}
	if opts.MaxD <= 0 {
		return nil, ErrInvalidOptions
	}
	if topk <= 0 {
		return nil, nil
	}

	combinedMBR, err := aq.GetMBR()
	if err != nil {
		return nil, fmt.Errorf("search: LKTAggregate: %w", err)
	}
	if combinedMBR.Dim() != tree.Dimension() {
		return nil, ErrShape
	}
	queries := aq.Queries()

	docCosts := make(map[int64][]query.Cost)
	if err := aggregateWalk(tree, inv, tree.RootID(), combinedMBR, queries, opts, docCosts); err != nil {
		return nil, err
	}

	results := make([]query.Result, 0, len(docCosts))
	for id, costs := range docCosts {
		results = append(results, query.Result{ID: id, Cost: aq.Aggregate(costs)})
	}
	query.SortResults(results)

	return topkWithTies(results, topk), nil
}

// aggregateWalk depth-first descends from nodeID, pruning subtrees whose
// MBR does not intersect bound, and accumulates one Cost per query for
// every reachable leaf entry into docCosts.
func aggregateWalk(tree *rtree.Tree, inv invertedfile.InvertedFile, nodeID int64, bound geo.Region, queries []query.Query, opts Options, docCosts map[int64][]query.Cost) error {
	n, err := tree.LoadNode(nodeID)
	if err != nil {
		return fmt.Errorf("search: LKTAggregate: node %d: %w", nodeID, err)
	}

	if n.IsLeaf() {
		scoreMaps := make([]map[int64]float64, len(queries))
		for i, q := range queries {
			var sm map[int64]float64
			var err error
			if opts.NumClusters > 0 {
				sm, err = inv.RankingSumClusterEnhance(n.ID, q.Keywords, q.KeywordWeights)
			} else {
				sm, err = inv.RankingSum(n.ID, q.Keywords)
			}
			if err != nil {
				return fmt.Errorf("search: LKTAggregate: node %d ranking: %w", n.ID, err)
			}
			scoreMaps[i] = sm
		}

		for _, e := range n.Entries {
			intersects, err := e.MBR.Intersects(bound)
			if err != nil {
				return err
			}
			if !intersects {
				continue
			}

			costs := make([]query.Cost, len(queries))
			for i, q := range queries {
				spatial, err := e.MBR.MinDistance(q.Location)
				if err != nil {
					return err
				}
				costs[i] = query.CombinedScore(spatial, scoreMaps[i][e.ChildID], opts.Alpha, opts.MaxD)
			}
			docCosts[e.ChildID] = costs
		}

		return nil
	}

	for _, e := range n.Entries {
		intersects, err := e.MBR.Intersects(bound)
		if err != nil {
			return err
		}
		if !intersects {
			continue
		}
		if err := aggregateWalk(tree, inv, e.ChildID, bound, queries, opts, docCosts); err != nil {
			return err
		}
	}

	return nil
}

// topkWithTies truncates results (already sorted ascending by Cost.Total)
// to at least topk entries, including every further entry whose total
// equals the kth one's.
func topkWithTies(results []query.Result, topk int) []query.Result {
	if topk >= len(results) {
		return results
	}
	cut := topk
	for cut < len(results) && results[cut].Cost.Total == results[topk-1].Cost.Total {
		cut++
	}

	return results[:cut]
}
