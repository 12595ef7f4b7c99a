package rtree

import (
	"fmt"

	"github.com/katalvlaran/irtree/geo"
)

// InsertData inserts a new data entry (mbr, docID, payload) into the tree
// at leaf level, acquiring the exclusive write lock for the duration of the
// call (spec §5). docID identifies the indexed object (e.g. a document id
// consumed by irbuild); payload carries any extra opaque application data.
// It is the public entry point for spec.md §4.C's insertData.
func (t *Tree) InsertData(mbr geo.Region, docID int64, payload []byte) error {
	if payload == nil {
		payload = []byte{}
	}
	if mbr.Dim() != t.cfg.dimension {
		return fmt.Errorf("rtree: InsertData: mbr dim %d != tree dim %d: %w", mbr.Dim(), t.cfg.dimension, ErrShape)
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	entry := Entry{MBR: mbr.Clone(), ChildID: docID, Payload: payload}
	overflowTable := make(map[int]bool)
	if err := t.insertEntryAtLevel(entry, 0, overflowTable); err != nil {
		return err
	}
	t.stats.DataCount++

	return nil
}

// insertEntryAtLevel is the shared recursive core for InsertData and for
// R*-tree forced-reinsertion, which reinserts removed entries at their
// original level rather than always at the leaf. overflowTable tracks
// which levels have already triggered a forced reinsertion during this
// top-level insertion, bounding reinsertion work to O(height) (spec §4.C).
func (t *Tree) insertEntryAtLevel(e Entry, targetLevel int, overflowTable map[int]bool) error {
	var path []int64
	leaf, err := t.chooseSubtree(e.MBR, targetLevel, &path)
	if err != nil {
		return err
	}

	if err := leaf.InsertEntry(e); err != nil {
		return err
	}

	if !leaf.overflowed() {
		if err := t.overwriteNode(leaf); err != nil {
			return err
		}

		return t.adjustPath(path, leaf.NodeMBR)
	}

	return t.handleOverflow(leaf, path, overflowTable)
}

// chooseSubtree descends from the root to targetLevel, at each index node
// picking the child entry requiring least MBR enlargement to cover mbr,
// breaking ties by smaller area and (for R*-tree, at the leaf-parent level)
// smaller overlap. Every traversed node id is pushed onto pathBuffer so the
// caller can propagate MBR expansion back up.
func (t *Tree) chooseSubtree(mbr geo.Region, targetLevel int, pathBuffer *[]int64) (*Node, error) {
	n, err := t.readNode(t.rootID)
	if err != nil {
		return nil, err
	}

	for {
		*pathBuffer = append(*pathBuffer, n.ID)
		if n.Level == targetLevel {
			return n, nil
		}

		childAtLeafParent := n.Level == targetLevel+1
		idx, err := t.pickChild(n, mbr, childAtLeafParent)
		if err != nil {
			return nil, err
		}

		n, err = t.readNode(n.Entries[idx].ChildID)
		if err != nil {
			return nil, err
		}
	}
}

// pickChild selects the entry of n whose MBR needs the least enlargement
// to cover mbr. Under the R* variant, when the children are leaves
// (useOverlap), ties and near-ties are broken by minimizing overlap
// enlargement among the nearMinimumOverlapFactor closest candidates by
// plain-enlargement rank, then by area.
func (t *Tree) pickChild(n *Node, mbr geo.Region, useOverlap bool) (int, error) {
	if useOverlap && t.cfg.variant == Rstar {
		return t.pickChildRstar(n, mbr)
	}

	best := -1
	var bestEnlargement, bestArea float64
	for i, entry := range n.Entries {
		combined, err := entry.MBR.CombinedArea(mbr)
		if err != nil {
			return 0, err
		}
		enlargement := combined - entry.MBR.Area()
		area := entry.MBR.Area()
		if best == -1 || enlargement < bestEnlargement || (enlargement == bestEnlargement && area < bestArea) {
			best, bestEnlargement, bestArea = i, enlargement, area
		}
	}

	return best, nil
}

// pickChildRstar implements the R*-tree leaf-parent-level refinement:
// rank all candidates by plain enlargement, take the
// nearMinimumOverlapFactor smallest, and among those pick the one whose
// overlap with its siblings grows least when enlarged to cover mbr.
func (t *Tree) pickChildRstar(n *Node, mbr geo.Region) (int, error) {
	type candidate struct {
		idx         int
		enlargement float64
		area        float64
	}
	candidates := make([]candidate, len(n.Entries))
	for i, entry := range n.Entries {
		combined, err := entry.MBR.CombinedArea(mbr)
		if err != nil {
			return 0, err
		}
		candidates[i] = candidate{idx: i, enlargement: combined - entry.MBR.Area(), area: entry.MBR.Area()}
	}

	p := t.cfg.nearMinimumOverlapFactor
	if p > len(candidates) {
		p = len(candidates)
	}
	// Partial selection sort for the p smallest by (enlargement, area): p
	// is small and bounded by configuration, so O(p*len) is acceptable.
	for i := 0; i < p; i++ {
		minIdx := i
		for j := i + 1; j < len(candidates); j++ {
			if candidates[j].enlargement < candidates[minIdx].enlargement ||
				(candidates[j].enlargement == candidates[minIdx].enlargement && candidates[j].area < candidates[minIdx].area) {
				minIdx = j
			}
		}
		candidates[i], candidates[minIdx] = candidates[minIdx], candidates[i]
	}

	best := -1
	var bestOverlapDelta, bestEnlargement, bestArea float64
	for i := 0; i < p; i++ {
		c := candidates[i]
		enlarged, err := n.Entries[c.idx].MBR.Union(mbr)
		if err != nil {
			return 0, err
		}
		before, err := t.overlapSum(n, c.idx, n.Entries[c.idx].MBR)
		if err != nil {
			return 0, err
		}
		after, err := t.overlapSum(n, c.idx, enlarged)
		if err != nil {
			return 0, err
		}
		delta := after - before
		if best == -1 || delta < bestOverlapDelta ||
			(delta == bestOverlapDelta && c.enlargement < bestEnlargement) ||
			(delta == bestOverlapDelta && c.enlargement == bestEnlargement && c.area < bestArea) {
			best, bestOverlapDelta, bestEnlargement, bestArea = c.idx, delta, c.enlargement, c.area
		}
	}

	return best, nil
}

// overlapSum returns the sum of region's overlap area with every sibling
// entry of n other than selfIdx.
func (t *Tree) overlapSum(n *Node, selfIdx int, region geo.Region) (float64, error) {
	var sum float64
	for i, sibling := range n.Entries {
		if i == selfIdx {
			continue
		}
		intersects, err := region.Intersects(sibling.MBR)
		if err != nil {
			return 0, err
		}
		if !intersects {
			continue
		}
		overlapArea, err := overlapAreaOf(region, sibling.MBR)
		if err != nil {
			return 0, err
		}
		sum += overlapArea
	}

	return sum, nil
}

// overlapAreaOf computes the area of the intersection of two regions
// (0 if they don't overlap on some axis).
func overlapAreaOf(a, b geo.Region) (float64, error) {
	if a.Dim() != b.Dim() {
		return 0, ErrShape
	}
	area := 1.0
	for d := 0; d < a.Dim(); d++ {
		lo := a.Low[d]
		if b.Low[d] > lo {
			lo = b.Low[d]
		}
		hi := a.High[d]
		if b.High[d] < hi {
			hi = b.High[d]
		}
		if hi <= lo {
			return 0, nil
		}
		area *= hi - lo
	}

	return area, nil
}

// adjustPath re-expands the MBR of every ancestor entry on path to cover
// newMBR, writing each changed node back. path[len(path)-1] is the node
// whose MBR already reflects newMBR (the leaf/target itself); ancestors
// are path[:len(path)-1], outermost first.
func (t *Tree) adjustPath(path []int64, newMBR geo.Region) error {
	child := newMBR
	for i := len(path) - 2; i >= 0; i-- {
		parent, err := t.readNode(path[i])
		if err != nil {
			return err
		}
		slot := -1
		for j, e := range parent.Entries {
			if e.ChildID == path[i+1] {
				slot = j
				break
			}
		}
		if slot == -1 {
			return fmt.Errorf("rtree: adjustPath: child %d not found in parent %d: %w", path[i+1], path[i], ErrCorrupt)
		}
		if parent.Entries[slot].MBR.Equals(child) {
			// No change propagates further up.
			return nil
		}
		parent.Entries[slot].MBR = child.Clone()
		if err := parent.recomputeMBR(); err != nil {
			return err
		}
		if err := t.overwriteNode(parent); err != nil {
			return err
		}
		child = parent.NodeMBR
	}

	return nil
}
