package rtree

import "github.com/katalvlaran/irtree/geo"

// RangePredicate selects which spatial test a range query applies.
type RangePredicate int

const (
	// Intersects matches data entries whose MBR overlaps the query shape.
	Intersects RangePredicate = iota
	// Contains matches data entries whose MBR is fully contained by the
	// query shape.
	Contains
)

// RangeQuery visits every data entry in the tree matching shape under the
// given predicate, depth-first, taking the read lock for the duration of
// the traversal (spec §5 permits concurrent readers).
func (t *Tree) RangeQuery(shape geo.Region, predicate RangePredicate, visitor Visitor) error {
	if shape.Dim() != t.cfg.dimension {
		return ErrShape
	}

	t.mu.RLock()
	defer t.mu.RUnlock()

	return t.rangeQueryNode(t.rootID, shape, predicate, visitor)
}

// rangeQueryNode walks the subtree rooted at id depth-first via recursion;
// the recursion depth is bounded by the tree height, equivalent to an
// explicit stack-based traversal.
func (t *Tree) rangeQueryNode(id int64, shape geo.Region, predicate RangePredicate, visitor Visitor) error {
	n, err := t.readNode(id)
	if err != nil {
		return err
	}
	if visitor != nil {
		visitor.VisitNode(n)
	}

	if n.IsLeaf() {
		for _, e := range n.Entries {
			match, err := matchesPredicate(e.MBR, shape, predicate)
			if err != nil {
				return err
			}
			if match {
				t.stats.QueryResults++
				if visitor != nil {
					visitor.VisitData(e)
				}
			}
		}

		return nil
	}

	for _, e := range n.Entries {
		overlaps, err := e.MBR.Intersects(shape)
		if err != nil {
			return err
		}
		if !overlaps {
			continue
		}
		if err := t.rangeQueryNode(e.ChildID, shape, predicate, visitor); err != nil {
			return err
		}
	}

	return nil
}

func matchesPredicate(mbr, shape geo.Region, predicate RangePredicate) (bool, error) {
	switch predicate {
	case Contains:
		return shape.ContainsRegion(mbr)
	default:
		return mbr.Intersects(shape)
	}
}
