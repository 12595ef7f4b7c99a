package rtree

import (
	"fmt"

	"github.com/katalvlaran/irtree/geo"
)

// IsIndexValid performs a full structural audit: every node's stored MBR
// must equal the recomputed union of its entries, every parent entry's MBR
// must equal its child's own MBR, no node may exceed its level's capacity,
// and the NodesInLevel/DataCount statistics must match the actual tree
// contents. It returns the first violation found, or nil if the tree is
// structurally sound.
func (t *Tree) IsIndexValid() error {
	t.mu.RLock()
	defer t.mu.RUnlock()

	levelCounts := make(map[int]int64)
	var dataCount int64

	if _, err := t.auditNode(t.rootID, true, levelCounts, &dataCount); err != nil {
		return err
	}

	for level, want := range t.stats.NodesInLevel {
		if levelCounts[level] != want {
			err := fmt.Errorf("rtree: level %d node count mismatch: stats=%d actual=%d: %w", level, want, levelCounts[level], ErrCorrupt)
			t.logger.Error(err, "structural audit failed")

			return err
		}
	}
	if dataCount != t.stats.DataCount {
		err := fmt.Errorf("rtree: data count mismatch: stats=%d actual=%d: %w", t.stats.DataCount, dataCount, ErrCorrupt)
		t.logger.Error(err, "structural audit failed")

		return err
	}

	return nil
}

// auditNode validates the subtree rooted at id and returns its node's MBR,
// so the caller (auditing the parent) can check it against the parent
// entry's own MBR. The caller must already hold t.mu (read or write).
func (t *Tree) auditNode(id int64, isRoot bool, levelCounts map[int]int64, dataCount *int64) (geo.Region, error) {
	n, err := t.readNode(id)
	if err != nil {
		return geo.Region{}, err
	}
	levelCounts[n.Level]++

	if !isRoot && len(n.Entries) < t.cfg.minEntries(n.Level) {
		err := fmt.Errorf("rtree: node %d underfilled (%d entries, min %d): %w", n.ID, len(n.Entries), t.cfg.minEntries(n.Level), ErrCorrupt)
		t.logger.Error(err, "structural audit failed")

		return geo.Region{}, err
	}
	if len(n.Entries) > n.capacity() {
		err := fmt.Errorf("rtree: node %d overfilled (%d entries, cap %d): %w", n.ID, len(n.Entries), n.capacity(), ErrCorrupt)
		t.logger.Error(err, "structural audit failed")

		return geo.Region{}, err
	}

	wantMBR := n.NodeMBR
	check := n.clone()
	if err := check.recomputeMBR(); err != nil {
		return geo.Region{}, err
	}
	if !check.NodeMBR.Equals(wantMBR) {
		err := fmt.Errorf("rtree: node %d MBR does not match union of its entries: %w", n.ID, ErrCorrupt)
		t.logger.Error(err, "structural audit failed")

		return geo.Region{}, err
	}

	if n.IsLeaf() {
		*dataCount += int64(len(n.Entries))

		return n.NodeMBR, nil
	}

	for _, e := range n.Entries {
		childMBR, err := t.auditNode(e.ChildID, false, levelCounts, dataCount)
		if err != nil {
			return geo.Region{}, err
		}
		if !e.MBR.Equals(childMBR) {
			err := fmt.Errorf("rtree: node %d entry for child %d does not match child's MBR: %w", n.ID, e.ChildID, ErrCorrupt)
			t.logger.Error(err, "structural audit failed")

			return geo.Region{}, err
		}
	}

	return n.NodeMBR, nil
}
