package rtree

import "github.com/katalvlaran/irtree/geo"

// unassignedID marks a Node that has not yet been written to the page
// store: its identifier is assigned by the store on first Store call.
const unassignedID int64 = -1

// Node is either a Leaf (Level == 0) or an Index node (Level > 0). NodeMBR
// is always the union of the node's entry MBRs; every mutation path that
// changes Entries must keep it in sync (spec §3's node invariant).
type Node struct {
	ID      int64
	Level   int
	Entries []Entry
	NodeMBR geo.Region

	tree *Tree // back-pointer for capacity/dimension lookups during algorithms
}

// IsLeaf reports whether n is a leaf node.
func (n *Node) IsLeaf() bool {
	return n.Level == 0
}

// newNode allocates an empty node at the given level, with the identity
// MBR (InfiniteRegion) as its seed bounding region.
func newNode(t *Tree, level int) *Node {
	return &Node{
		ID:      unassignedID,
		Level:   level,
		Entries: nil,
		NodeMBR: geo.InfiniteRegion(t.cfg.dimension),
		tree:    t,
	}
}

// InsertEntry appends e to n and expands NodeMBR to cover it. The caller is
// responsible for enforcing capacity and for propagating the expansion to
// n's parent entry (spec §4.B).
func (n *Node) InsertEntry(e Entry) error {
	union, err := n.NodeMBR.Union(e.MBR)
	if err != nil {
		return err
	}
	n.NodeMBR = union
	n.Entries = append(n.Entries, e)

	return nil
}

// DeleteEntry removes the entry at slot, compacting the remaining entries
// and recomputing NodeMBR from scratch.
func (n *Node) DeleteEntry(slot int) error {
	if slot < 0 || slot >= len(n.Entries) {
		return ErrNotFound
	}
	n.Entries = append(n.Entries[:slot], n.Entries[slot+1:]...)

	return n.recomputeMBR()
}

// recomputeMBR rebuilds NodeMBR as the union of all current entry MBRs.
func (n *Node) recomputeMBR() error {
	mbr := geo.InfiniteRegion(n.tree.cfg.dimension)
	for _, e := range n.Entries {
		u, err := mbr.Union(e.MBR)
		if err != nil {
			return err
		}
		mbr = u
	}
	n.NodeMBR = mbr

	return nil
}

// capacity returns the entry capacity for n's level.
func (n *Node) capacity() int {
	return n.tree.cfg.capacityFor(n.Level)
}

// overflowed reports whether n currently holds more entries than its
// level's capacity allows.
func (n *Node) overflowed() bool {
	return len(n.Entries) > n.capacity()
}

// clone returns a deep copy of n detached from any particular store write.
func (n *Node) clone() *Node {
	out := &Node{
		ID:      n.ID,
		Level:   n.Level,
		NodeMBR: n.NodeMBR.Clone(),
		tree:    n.tree,
	}
	out.Entries = make([]Entry, len(n.Entries))
	for i, e := range n.Entries {
		out.Entries[i] = e.clone()
	}

	return out
}
