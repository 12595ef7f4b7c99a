package rtree

// QueryStrategy is a caller-supplied traversal continuation. ProcessNode is
// called once per node visited (root first); it returns a subset of
// children (by index into n.Entries) to continue descending into, letting
// callers implement pruning not covered by RangeQuery/NearestNeighborQuery
// (e.g. a combined spatial + textual bound).
type QueryStrategy interface {
	// ProcessNode is invoked for every node reached during the traversal.
	// For leaves it returns nil; for index nodes it returns the indices
	// (into n.Entries) of children to descend into.
	ProcessNode(n *Node) []int
	// ProcessData is invoked for every leaf entry reached.
	ProcessData(e Entry)
}

// QueryStrategyQuery runs strategy depth-first over the tree starting at
// the root, taking the read lock for its duration. This is the generic
// traversal driver spec.md §4.C's "queryStrategy" names; RangeQuery and
// NearestNeighborQuery implement the two built-in strategies directly for
// efficiency, but custom strategies (e.g. combined spatial-keyword pruning)
// use this entry point.
func (t *Tree) QueryStrategyQuery(strategy QueryStrategy) error {
	t.mu.RLock()
	defer t.mu.RUnlock()

	return t.queryStrategyNode(t.rootID, strategy)
}

func (t *Tree) queryStrategyNode(id int64, strategy QueryStrategy) error {
	n, err := t.readNode(id)
	if err != nil {
		return err
	}

	if n.IsLeaf() {
		strategy.ProcessNode(n)
		for _, e := range n.Entries {
			strategy.ProcessData(e)
		}

		return nil
	}

	indices := strategy.ProcessNode(n)
	for _, idx := range indices {
		if idx < 0 || idx >= len(n.Entries) {
			continue
		}
		if err := t.queryStrategyNode(n.Entries[idx].ChildID, strategy); err != nil {
			return err
		}
	}

	return nil
}
