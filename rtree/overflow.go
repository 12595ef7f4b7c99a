package rtree

import "fmt"

// handleOverflow resolves an overflowing node per the tree's variant:
// Linear/Quadratic always split; Rstar attempts forced reinsertion once
// per level per top-level insertion (tracked in overflowTable) before
// falling back to split. path is the root-to-node path (path[len-1] ==
// node.ID); it is not root iff len(path) > 1.
//
// This implements the node state machine of spec §4.C:
// Underfilled -> Normal -> Full -> (Split v Reinsert); only Normal/Full are
// ever persisted, the other states exist solely within this call stack.
func (t *Tree) handleOverflow(node *Node, path []int64, overflowTable map[int]bool) error {
	isRoot := len(path) == 1

	if t.cfg.variant == Rstar && !isRoot && !overflowTable[node.Level] {
		overflowTable[node.Level] = true

		return t.forcedReinsert(node, path, overflowTable)
	}

	return t.splitAndPropagate(node, path, overflowTable)
}

// splitAndPropagate splits node per the configured variant, writes both
// halves, and links the new sibling into node's parent — splitting the
// parent in turn if that overflows it, or growing the tree by one level if
// node was the root.
func (t *Tree) splitAndPropagate(node *Node, path []int64, overflowTable map[int]bool) error {
	var (
		left, right *Node
		err         error
	)
	switch t.cfg.variant {
	case Linear:
		left, right, err = t.splitLinear(node)
	case Quadratic:
		left, right, err = t.splitQuadratic(node)
	case Rstar:
		left, right, err = t.splitRstar(node)
	default:
		return fmt.Errorf("rtree: splitAndPropagate: %w", ErrInvalidConfig)
	}
	if err != nil {
		return err
	}

	if err := t.overwriteNode(left); err != nil {
		return err
	}
	if _, err := t.writeNode(right); err != nil {
		return err
	}

	isRoot := len(path) == 1
	if isRoot {
		return t.growRoot(left, right)
	}

	parentID := path[len(path)-2]
	parent, err := t.readNode(parentID)
	if err != nil {
		return err
	}
	slot := -1
	for i, e := range parent.Entries {
		if e.ChildID == left.ID {
			slot = i
			break
		}
	}
	if slot == -1 {
		return fmt.Errorf("rtree: splitAndPropagate: child %d not found in parent %d: %w", left.ID, parentID, ErrCorrupt)
	}
	parent.Entries[slot].MBR = left.NodeMBR.Clone()
	if err := parent.recomputeMBR(); err != nil {
		return err
	}
	if err := parent.InsertEntry(Entry{MBR: right.NodeMBR.Clone(), ChildID: right.ID}); err != nil {
		return err
	}

	if !parent.overflowed() {
		if err := t.overwriteNode(parent); err != nil {
			return err
		}

		return t.adjustPath(path[:len(path)-1], parent.NodeMBR)
	}

	return t.handleOverflow(parent, path[:len(path)-1], overflowTable)
}

// growRoot builds a fresh root index node over left and right, the result
// of splitting the previous root, and grows the tree's height by one.
func (t *Tree) growRoot(left, right *Node) error {
	root := newNode(t, left.Level+1)
	if err := root.InsertEntry(Entry{MBR: left.NodeMBR.Clone(), ChildID: left.ID}); err != nil {
		return err
	}
	if err := root.InsertEntry(Entry{MBR: right.NodeMBR.Clone(), ChildID: right.ID}); err != nil {
		return err
	}
	rootID, err := t.writeNode(root)
	if err != nil {
		return err
	}
	t.rootID = rootID
	t.stats.TreeHeight++

	return nil
}
