package rtree

import (
	"fmt"

	"github.com/katalvlaran/irtree/geo"
)

// DeleteData removes the first leaf entry whose MBR and docID both equal
// mbr/docID exactly, shrinking and, where a node falls below its minimum
// fill, collapsing ancestor structure per spec §4.C's deleteData. It returns
// ErrNotFound if no matching entry exists.
func (t *Tree) DeleteData(mbr geo.Region, docID int64) error {
	if mbr.Dim() != t.cfg.dimension {
		return fmt.Errorf("rtree: DeleteData: mbr dim %d != tree dim %d: %w", mbr.Dim(), t.cfg.dimension, ErrShape)
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	var path []int64
	leaf, slot, err := t.findLeaf(t.rootID, mbr, docID, &path)
	if err != nil {
		return err
	}
	if leaf == nil {
		return ErrNotFound
	}

	if err := leaf.DeleteEntry(slot); err != nil {
		return err
	}
	t.stats.DataCount--

	orphaned, err := t.condenseTree(leaf, path)
	if err != nil {
		return err
	}

	if err := t.collapseRootIfNeeded(); err != nil {
		return err
	}

	// Reinsert every entry orphaned by removing underflowing nodes, each at
	// its original level (spec's CondenseTree step).
	for _, oe := range orphaned {
		overflowTable := make(map[int]bool)
		if err := t.insertEntryAtLevel(oe.entry, oe.level, overflowTable); err != nil {
			return err
		}
	}

	return nil
}

// findLeaf performs a depth-first search from id for a leaf entry matching
// mbr and docID exactly, recording the root-to-leaf path taken. It returns
// a nil leaf (and no error) if no match is found anywhere in the subtree.
func (t *Tree) findLeaf(id int64, mbr geo.Region, docID int64, path *[]int64) (*Node, int, error) {
	n, err := t.readNode(id)
	if err != nil {
		return nil, 0, err
	}
	*path = append(*path, id)

	if n.IsLeaf() {
		for i, e := range n.Entries {
			if e.MBR.Equals(mbr) && e.ChildID == docID {
				return n, i, nil
			}
		}
		*path = (*path)[:len(*path)-1]

		return nil, 0, nil
	}

	for _, e := range n.Entries {
		contains, err := e.MBR.ContainsRegion(mbr)
		if err != nil {
			return nil, 0, err
		}
		if !contains {
			continue
		}
		leaf, slot, err := t.findLeaf(e.ChildID, mbr, docID, path)
		if err != nil {
			return nil, 0, err
		}
		if leaf != nil {
			return leaf, slot, nil
		}
	}
	*path = (*path)[:len(*path)-1]

	return nil, 0, nil
}

// orphanedEntry is an entry evicted from an underflowing node during
// condenseTree, to be reinserted at its original level once condensing
// finishes.
type orphanedEntry struct {
	entry Entry
	level int
}

// condenseTree walks path upward from leaf's parent, removing and
// collecting the entries of any node that has underflowed (or deleting the
// node outright if it has become empty), and shrinking every ancestor MBR
// along the way.
func (t *Tree) condenseTree(leaf *Node, path []int64) ([]orphanedEntry, error) {
	var orphaned []orphanedEntry

	if err := leaf.recomputeMBR(); err != nil {
		return nil, err
	}

	child := leaf
	childUnderflowed := len(leaf.Entries) < t.cfg.minEntries(leaf.Level) && len(path) > 1

	for i := len(path) - 2; i >= 0; i-- {
		parent, err := t.readNode(path[i])
		if err != nil {
			return nil, err
		}
		slot := -1
		for j, e := range parent.Entries {
			if e.ChildID == child.ID {
				slot = j
				break
			}
		}
		if slot == -1 {
			return nil, fmt.Errorf("rtree: condenseTree: child %d not found in parent %d: %w", child.ID, path[i], ErrCorrupt)
		}

		if childUnderflowed {
			for _, e := range child.Entries {
				orphaned = append(orphaned, orphanedEntry{entry: e, level: child.Level})
			}
			if err := parent.DeleteEntry(slot); err != nil {
				return nil, err
			}
			if err := t.deleteNode(child); err != nil {
				return nil, err
			}
		} else {
			parent.Entries[slot].MBR = child.NodeMBR.Clone()
			if err := parent.recomputeMBR(); err != nil {
				return nil, err
			}
			if err := t.overwriteNode(child); err != nil {
				return nil, err
			}
		}

		isRootLevel := i == 0
		childUnderflowed = len(parent.Entries) < t.cfg.minEntries(parent.Level) && !isRootLevel
		child = parent
	}

	if err := t.overwriteNode(child); err != nil {
		return nil, err
	}

	return orphaned, nil
}

// collapseRootIfNeeded shortens the tree by one level when the root has
// exactly one child and is itself not a leaf, making that child the new
// root (spec's "root collapse" edge case).
func (t *Tree) collapseRootIfNeeded() error {
	root, err := t.readNode(t.rootID)
	if err != nil {
		return err
	}
	for !root.IsLeaf() && len(root.Entries) == 1 {
		newRootID := root.Entries[0].ChildID
		if err := t.deleteNode(root); err != nil {
			return err
		}
		t.rootID = newRootID
		t.stats.TreeHeight--
		root, err = t.readNode(newRootID)
		if err != nil {
			return err
		}
	}

	return nil
}
