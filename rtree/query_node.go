package rtree

// LoadNode returns the node stored at id, taking the read lock for the
// duration of the load. This is the read-only accessor external
// best-first traversals (search.LKT) need to mix node expansion with their
// own cost function, mirroring what NearestNeighborQuery does internally.
func (t *Tree) LoadNode(id int64) (*Node, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	return t.readNode(id)
}
