package rtree

import "sort"

// forcedReinsert implements the R*-tree overflow treatment: remove the
// reinsertFactor fraction of node's entries farthest from its center,
// shrink and persist node, then reinsert each removed entry from the root
// at node's original level. Reinsertion may itself cause overflow further
// down the tree; overflowTable already marks this level as spent so a
// second overflow at the same level falls through to a split instead of
// looping forever.
func (t *Tree) forcedReinsert(node *Node, path []int64, overflowTable map[int]bool) error {
	center := node.NodeMBR.Center()
	level := node.Level

	type ranked struct {
		entry Entry
		dist  float64
	}
	byDistance := make([]ranked, len(node.Entries))
	for i, e := range node.Entries {
		d, err := e.MBR.MinDistance(center)
		if err != nil {
			return err
		}
		byDistance[i] = ranked{entry: e, dist: d}
	}
	sort.Slice(byDistance, func(i, j int) bool { return byDistance[i].dist > byDistance[j].dist })

	count := int(float64(node.capacity()) * t.cfg.reinsertFactor)
	if count < 1 {
		count = 1
	}
	if count > len(byDistance) {
		count = len(byDistance)
	}

	removed := make([]Entry, count)
	kept := make([]Entry, 0, len(node.Entries)-count)
	for i, r := range byDistance {
		if i < count {
			removed[i] = r.entry
		} else {
			kept = append(kept, r.entry)
		}
	}

	node.Entries = kept
	if err := node.recomputeMBR(); err != nil {
		return err
	}
	if err := t.overwriteNode(node); err != nil {
		return err
	}
	if err := t.adjustPath(path, node.NodeMBR); err != nil {
		return err
	}

	t.logger.Info("forced reinsertion", "nodeID", node.ID, "level", level, "removed", len(removed))

	// Reinsert closest-first: removed is ordered farthest-to-closest, so
	// walking it backwards gives close entries first pick of their
	// preferred subtree per the R*-tree paper's recommendation.
	for i := len(removed) - 1; i >= 0; i-- {
		if err := t.insertEntryAtLevel(removed[i], level, overflowTable); err != nil {
			return err
		}
	}

	return nil
}
