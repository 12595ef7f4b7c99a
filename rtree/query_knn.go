package rtree

import (
	"container/heap"

	"github.com/katalvlaran/irtree/geo"
)

// DistanceFunc computes the distance from query to a candidate MBR, used to
// order the best-first k-NN search. The default, Euclidean MinDistance,
// honors geo.Region.MinDistance; callers may supply their own to implement
// alternate metrics (spec §9 resolves this as caller-selectable rather than
// hardcoded).
type DistanceFunc func(query geo.Point, candidate geo.Region) (float64, error)

// EuclideanDistance is the default DistanceFunc, delegating to
// geo.Region.MinDistance.
func EuclideanDistance(query geo.Point, candidate geo.Region) (float64, error) {
	return candidate.MinDistance(query)
}

// knnItem is either a pending node (isLeaf entry's child to expand) or a
// resolved data entry, ordered in the heap by dist ascending. This mirrors
// the lazy, single-priority-queue style of dijkstra.nodePQ: rather than two
// separate queues for nodes and data, both share one heap distinguished by
// the entry field.
type knnItem struct {
	dist   float64
	nodeID int64  // valid when entry is the zero value
	entry  *Entry // non-nil for a resolved data entry
}

type knnPQ []*knnItem

func (pq knnPQ) Len() int            { return len(pq) }
func (pq knnPQ) Less(i, j int) bool  { return pq[i].dist < pq[j].dist }
func (pq knnPQ) Swap(i, j int)       { pq[i], pq[j] = pq[j], pq[i] }
func (pq *knnPQ) Push(x interface{}) { *pq = append(*pq, x.(*knnItem)) }
func (pq *knnPQ) Pop() interface{} {
	old := *pq
	n := len(old)
	item := old[n-1]
	*pq = old[:n-1]

	return item
}

// NearestNeighborQuery performs a best-first k-nearest-neighbor search from
// query, visiting the k closest data entries in ascending distance order
// (all ties at the kth boundary are included, so more than k entries may be
// visited). dist is the distance metric; pass nil to use EuclideanDistance.
func (t *Tree) NearestNeighborQuery(k int, query geo.Point, dist DistanceFunc, visitor Visitor) error {
	if len(query) != t.cfg.dimension {
		return ErrShape
	}
	if k <= 0 {
		return nil
	}
	if dist == nil {
		dist = EuclideanDistance
	}

	t.mu.RLock()
	defer t.mu.RUnlock()

	pq := make(knnPQ, 0)
	heap.Init(&pq)
	heap.Push(&pq, &knnItem{dist: 0, nodeID: t.rootID})

	var found int
	var lastDist float64
	haveLast := false

	for pq.Len() > 0 {
		item := heap.Pop(&pq).(*knnItem)

		if item.entry != nil {
			if haveLast && found >= k && item.dist > lastDist {
				break
			}
			found++
			lastDist = item.dist
			haveLast = true
			t.stats.QueryResults++
			if visitor != nil {
				visitor.VisitData(*item.entry)
			}

			continue
		}

		n, err := t.readNode(item.nodeID)
		if err != nil {
			return err
		}
		if visitor != nil {
			visitor.VisitNode(n)
		}

		for i := range n.Entries {
			e := n.Entries[i]
			d, err := dist(query, e.MBR)
			if err != nil {
				return err
			}
			if n.IsLeaf() {
				heap.Push(&pq, &knnItem{dist: d, entry: &e})
			} else {
				heap.Push(&pq, &knnItem{dist: d, nodeID: e.ChildID})
			}
		}
	}

	return nil
}
