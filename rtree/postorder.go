package rtree

// PostOrderHooks mirrors dfs.Option's OnVisit/OnExit pair: OnEnter fires
// before a node's children are walked, OnExit after, so a caller building a
// bottom-up summary (e.g. irbuild's pseudo-documents) can accumulate
// per-child results before finalizing the parent's.
type PostOrderHooks struct {
	// OnEnter is called for every node before its children are visited
	// (leaves have none). Returning an error aborts the walk.
	OnEnter func(n *Node) error
	// OnExit is called for every node after its children (for leaves,
	// immediately after OnEnter). Returning an error aborts the walk.
	OnExit func(n *Node) error
}

// PostOrder walks the tree depth-first from the root, invoking hooks.OnEnter
// and hooks.OnExit for every node, children before the parent's OnExit so
// bottom-up builders (irbuild.Build) can assume every child has already
// been finalized. It holds the read lock for its duration.
func (t *Tree) PostOrder(hooks PostOrderHooks) error {
	t.mu.RLock()
	defer t.mu.RUnlock()

	return t.postOrderNode(t.rootID, hooks)
}

func (t *Tree) postOrderNode(id int64, hooks PostOrderHooks) error {
	n, err := t.readNode(id)
	if err != nil {
		return err
	}

	if hooks.OnEnter != nil {
		if err := hooks.OnEnter(n); err != nil {
			return err
		}
	}

	if !n.IsLeaf() {
		for _, e := range n.Entries {
			if err := t.postOrderNode(e.ChildID, hooks); err != nil {
				return err
			}
		}
	}

	if hooks.OnExit != nil {
		if err := hooks.OnExit(n); err != nil {
			return err
		}
	}

	return nil
}
