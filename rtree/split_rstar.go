package rtree

import (
	"sort"

	"github.com/katalvlaran/irtree/geo"
)

// splitRstar implements the R*-tree split algorithm: for each axis, sort the
// entries by low then by high value, evaluate every valid distribution
// (bounded by splitDistributionFactor * capacity entries per side), and
// choose the axis minimizing the sum of margins across its distributions.
// Among the distributions of that axis's sort order (by low or by high,
// whichever has the smaller margin sum), choose the one minimizing overlap,
// breaking ties by smaller combined area.
func (t *Tree) splitRstar(n *Node) (*Node, *Node, error) {
	dim := n.NodeMBR.Dim()
	minSplit := int(float64(n.capacity()) * t.cfg.splitDistributionFactor)
	if minSplit < 1 {
		minSplit = 1
	}
	maxSplit := len(n.Entries) - minSplit
	if maxSplit < minSplit {
		// Degenerate configuration: allow every split point from 1 to
		// len(entries)-1.
		minSplit, maxSplit = 1, len(n.Entries)-1
	}

	bestAxis := -1
	bestAxisMargin := 0.0
	orderings := make([][]Entry, dim)

	for d := 0; d < dim; d++ {
		byLow := cloneEntries(n.Entries)
		sort.Slice(byLow, func(i, j int) bool { return byLow[i].MBR.Low[d] < byLow[j].MBR.Low[d] })
		byHigh := cloneEntries(n.Entries)
		sort.Slice(byHigh, func(i, j int) bool { return byHigh[i].MBR.High[d] < byHigh[j].MBR.High[d] })

		marginLow, err := sumMargins(byLow, minSplit, maxSplit)
		if err != nil {
			return nil, nil, err
		}
		marginHigh, err := sumMargins(byHigh, minSplit, maxSplit)
		if err != nil {
			return nil, nil, err
		}

		axisMargin := marginLow + marginHigh
		ordering := byLow
		if marginHigh < marginLow {
			ordering = byHigh
		}
		orderings[d] = ordering

		if bestAxis == -1 || axisMargin < bestAxisMargin {
			bestAxis, bestAxisMargin = d, axisMargin
		}
	}

	ordering := orderings[bestAxis]
	bestK := minSplit
	bestOverlap := -1.0
	var bestArea float64
	for k := minSplit; k <= maxSplit; k++ {
		groupA := ordering[:k]
		groupB := ordering[k:]
		mbrA, err := unionAll(groupA, dim)
		if err != nil {
			return nil, nil, err
		}
		mbrB, err := unionAll(groupB, dim)
		if err != nil {
			return nil, nil, err
		}
		overlap, err := overlapAreaOf(mbrA, mbrB)
		if err != nil {
			return nil, nil, err
		}
		area := mbrA.Area() + mbrB.Area()
		if bestOverlap < 0 || overlap < bestOverlap || (overlap == bestOverlap && area < bestArea) {
			bestK, bestOverlap, bestArea = k, overlap, area
		}
	}

	left := newNode(t, n.Level)
	right := newNode(t, n.Level)
	left.ID = n.ID
	for _, e := range ordering[:bestK] {
		if err := left.InsertEntry(e); err != nil {
			return nil, nil, err
		}
	}
	for _, e := range ordering[bestK:] {
		if err := right.InsertEntry(e); err != nil {
			return nil, nil, err
		}
	}

	return left, right, nil
}

// sumMargins sums the combined margin of every (groupA, groupB) split of
// ordering for split points in [minSplit, maxSplit].
func sumMargins(ordering []Entry, minSplit, maxSplit int) (float64, error) {
	dim := ordering[0].MBR.Dim()
	var total float64
	for k := minSplit; k <= maxSplit; k++ {
		mbrA, err := unionAll(ordering[:k], dim)
		if err != nil {
			return 0, err
		}
		mbrB, err := unionAll(ordering[k:], dim)
		if err != nil {
			return 0, err
		}
		total += mbrA.Margin() + mbrB.Margin()
	}

	return total, nil
}

// unionAll returns the MBR covering every entry in group.
func unionAll(group []Entry, dim int) (geo.Region, error) {
	mbr := geo.InfiniteRegion(dim)
	for _, e := range group {
		u, err := mbr.Union(e.MBR)
		if err != nil {
			return geo.Region{}, err
		}
		mbr = u
	}

	return mbr, nil
}

func cloneEntries(entries []Entry) []Entry {
	out := make([]Entry, len(entries))
	for i, e := range entries {
		out[i] = e.clone()
	}

	return out
}
