package search

import (
	"container/heap"
	"fmt"

	"github.com/katalvlaran/irtree/invertedfile"
	"github.com/katalvlaran/irtree/query"
	"github.com/katalvlaran/irtree/rtree"
)

// Options configures an LKT run: alpha is the spatial/textual weighting
// (spec §4.F's alpha-distribution, in [0, 1]); maxD normalizes spatial
// distance and must cover the tree's extent; NumClusters > 0 switches
// ranking to RankingSumClusterEnhance (cluster-enhanced inverted files),
// 0 uses plain RankingSum.
type Options struct {
	Alpha       float64
	MaxD        float64
	NumClusters int
}

// lktItem is either a pending node to expand or a resolved leaf data entry,
// ordered in the heap by ascending Cost.Total. Mirrors rtree's knnPQ: one
// heap shared by node-expansion and resolved-result items instead of two.
type lktItem struct {
	cost   query.Cost
	nodeID int64
	entry  *rtree.Entry
}

type lktPQ []*lktItem

func (pq lktPQ) Len() int            { return len(pq) }
func (pq lktPQ) Less(i, j int) bool  { return pq[i].cost.Total < pq[j].cost.Total }
func (pq lktPQ) Swap(i, j int)       { pq[i], pq[j] = pq[j], pq[i] }
func (pq *lktPQ) Push(x interface{}) { *pq = append(*pq, x.(*lktItem)) }
func (pq *lktPQ) Pop() interface{} {
	old := *pq
	n := len(old)
	item := old[n-1]
	*pq = old[:n-1]

	return item
}

// LKT performs best-first top-k spatial-keyword search over tree,
// consulting inv at every interior node for per-child textual scores
// (spec §4.F). It returns topk candidates ranked by ascending total cost,
// including every tie at the kth boundary (so the result may exceed topk),
// mirroring rtree.NearestNeighborQuery's tie-preserving behavior.
func LKT(tree *rtree.Tree, inv invertedfile.InvertedFile, q query.Query, topk int, opts Options) ([]query.Result, error) {
	if len(q.Location) != tree.Dimension() {
		return nil, ErrShape
	}
	if opts.MaxD <= 0 {
		return nil, ErrInvalidOptions
	}
	if topk <= 0 {
		return nil, nil
	}

	pq := make(lktPQ, 0)
	heap.Init(&pq)
	heap.Push(&pq, &lktItem{nodeID: tree.RootID()})

	var results []query.Result
	var lastTotal float64
	haveLast := false

	for pq.Len() > 0 {
		item := heap.Pop(&pq).(*lktItem)

		if item.entry != nil {
			if haveLast && len(results) >= topk && item.cost.Total > lastTotal {
				break
			}
			results = append(results, query.Result{ID: item.entry.ChildID, Cost: item.cost})
			lastTotal = item.cost.Total
			haveLast = true

			continue
		}

		n, err := tree.LoadNode(item.nodeID)
		if err != nil {
			return nil, fmt.Errorf("search: LKT: node %d: %w", item.nodeID, err)
		}

		var scores map[int64]float64
		if opts.NumClusters > 0 {
			scores, err = inv.RankingSumClusterEnhance(n.ID, q.Keywords, q.KeywordWeights)
		} else {
			scores, err = inv.RankingSum(n.ID, q.Keywords)
		}
		if err != nil {
			return nil, fmt.Errorf("search: LKT: node %d ranking: %w", n.ID, err)
		}

		for _, e := range n.Entries {
			ir, ok := scores[e.ChildID]
			if !ok {
				continue
			}
			spatial, err := e.MBR.MinDistance(q.Location)
			if err != nil {
				return nil, fmt.Errorf("search: LKT: node %d child %d: %w", n.ID, e.ChildID, err)
			}
			cost := query.CombinedScore(spatial, ir, opts.Alpha, opts.MaxD)

			next := &lktItem{cost: cost, nodeID: e.ChildID}
			if n.IsLeaf() {
				entry := e
				next = &lktItem{cost: cost, entry: &entry}
			}
			heap.Push(&pq, next)
		}
	}

	return results, nil
}
