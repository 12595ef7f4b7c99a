package rtree

import (
	"fmt"
	"sync"

	"github.com/go-logr/logr"
	"github.com/katalvlaran/irtree/store"
)

// headerPageID is the fixed page identifier the tree's header is stored
// at. Page 0 is reserved for it; MemStore's NewPage allocator starts
// handing out data pages at 1, so the two never collide.
const headerPageID int64 = 0

// Stats collects running counters for a Tree (spec §3's "statistics").
// Mutations update it under the write lock; reads update ReadCount under
// the read lock via a single-field increment, an acceptable racy
// approximation under concurrent readers (spec §5).
type Stats struct {
	NodesInLevel map[int]int64
	DataCount    int64
	TreeHeight   int
	ReadCount    int64
	WriteCount   int64
	QueryResults int64
}

func newStats() Stats {
	return Stats{NodesInLevel: make(map[int]int64)}
}

func (s *Stats) clone() Stats {
	out := *s
	out.NodesInLevel = make(map[int]int64, len(s.NodesInLevel))
	for k, v := range s.NodesInLevel {
		out.NodesInLevel[k] = v
	}

	return out
}

// Visitor receives callbacks during traversals (rangeQuery, k-NN,
// queryStrategy). Visitors receive immutable views; mutating the Node or
// Entry passed to them is undefined behavior.
type Visitor interface {
	VisitNode(n *Node)
	VisitData(e Entry)
}

// VisitorFuncs adapts two plain functions to the Visitor interface, for
// callers who only care about one of the two callbacks.
type VisitorFuncs struct {
	OnNode func(n *Node)
	OnData func(e Entry)
}

func (v VisitorFuncs) VisitNode(n *Node) {
	if v.OnNode != nil {
		v.OnNode(n)
	}
}

func (v VisitorFuncs) VisitData(e Entry) {
	if v.OnData != nil {
		v.OnData(e)
	}
}

// NodeCommand is a fire-and-forget hook invoked after the corresponding
// storage operation (spec §6's node-command hooks). A panic raised by a
// command is logged and then re-panicked, so it still propagates to the
// caller; callers that need isolation must recover inside their own command.
type NodeCommand func(n *Node)

// Tree is the central R-tree type: root page ID, statistics, configured
// parameters, and a single sync.RWMutex guarding all mutable state. Many
// readers may hold the read lock concurrently (range, k-NN, queryStrategy);
// insertData/deleteData take the exclusive write lock (spec §5).
type Tree struct {
	mu sync.RWMutex

	cfg      config
	pages    store.PageStore
	rootID   int64
	headerID int64
	stats    Stats
	logger   logr.Logger

	writeNodeCommands  []NodeCommand
	readNodeCommands   []NodeCommand
	deleteNodeCommands []NodeCommand
}

// NewTree creates a fresh tree backed by pages, or — if WithIndexIdentifier
// was supplied — reopens an existing one from its header page.
func NewTree(pages store.PageStore, opts ...TreeOption) (*Tree, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	t := &Tree{
		cfg:    cfg,
		pages:  pages,
		stats:  newStats(),
		logger: logr.Discard(),
	}

	if cfg.hasIndexIdentifier {
		if err := t.reopen(cfg.indexIdentifier); err != nil {
			return nil, err
		}

		return t, nil
	}

	root := newNode(t, 0)
	rootID, err := t.writeNode(root)
	if err != nil {
		return nil, err
	}
	t.rootID = rootID
	t.stats.NodesInLevel[0] = 1
	t.stats.TreeHeight = 1

	if err := t.flushLocked(); err != nil {
		return nil, err
	}

	return t, nil
}

// SetLogger attaches a structured logger used for diagnostics: forced
// reinsertion decisions, node-command failures, and structural-audit
// findings. The zero value (unset) discards all log output.
func (t *Tree) SetLogger(l logr.Logger) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.logger = l
}

// AddWriteNodeCommand registers a hook invoked after every StoreNode.
func (t *Tree) AddWriteNodeCommand(cmd NodeCommand) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.writeNodeCommands = append(t.writeNodeCommands, cmd)
}

// AddReadNodeCommand registers a hook invoked after every LoadNode.
func (t *Tree) AddReadNodeCommand(cmd NodeCommand) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.readNodeCommands = append(t.readNodeCommands, cmd)
}

// AddDeleteNodeCommand registers a hook invoked after every DeleteNode.
func (t *Tree) AddDeleteNodeCommand(cmd NodeCommand) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.deleteNodeCommands = append(t.deleteNodeCommands, cmd)
}

// Stats returns a snapshot copy of the tree's running statistics.
func (t *Tree) Stats() Stats {
	t.mu.RLock()
	defer t.mu.RUnlock()

	return t.stats.clone()
}

// Dimension returns the tree's configured spatial dimension.
func (t *Tree) Dimension() int {
	t.mu.RLock()
	defer t.mu.RUnlock()

	return t.cfg.dimension
}

// Variant returns the tree's configured split policy.
func (t *Tree) Variant() TreeVariant {
	t.mu.RLock()
	defer t.mu.RUnlock()

	return t.cfg.variant
}

// RootID returns the page identifier of the current root node.
func (t *Tree) RootID() int64 {
	t.mu.RLock()
	defer t.mu.RUnlock()

	return t.rootID
}

// readNode loads the node at id and runs the registered read hooks. The
// caller must already hold t.mu (read or write).
func (t *Tree) readNode(id int64) (*Node, error) {
	page, err := t.pages.LoadNode(id)
	if err != nil {
		return nil, fmt.Errorf("rtree: readNode(%d): %w", id, err)
	}
	n, err := decodeNode(page, t.cfg.dimension)
	if err != nil {
		return nil, fmt.Errorf("rtree: readNode(%d): %w", id, err)
	}
	n.ID = id
	n.tree = t
	t.stats.ReadCount++
	t.runNodeCommands(t.readNodeCommands, n)

	return n, nil
}

// writeNode serializes and stores n, assigning a fresh page ID on first
// write. The caller must already hold t.mu for writing.
func (t *Tree) writeNode(n *Node) (int64, error) {
	page, err := encodeNode(n, t.cfg.dimension)
	if err != nil {
		return 0, fmt.Errorf("rtree: writeNode: %w", err)
	}
	pageID := n.ID
	if pageID == unassignedID {
		pageID = store.NewPage
	}
	id, err := t.pages.StoreNode(pageID, page)
	if err != nil {
		return 0, fmt.Errorf("rtree: writeNode: %w", err)
	}
	n.ID = id
	t.stats.WriteCount++
	t.stats.NodesInLevel[n.Level]++
	t.runNodeCommands(t.writeNodeCommands, n)

	return id, nil
}

// overwriteNode rewrites an already-identified node in place (no new page
// allocation, no NodesInLevel increment).
func (t *Tree) overwriteNode(n *Node) error {
	page, err := encodeNode(n, t.cfg.dimension)
	if err != nil {
		return fmt.Errorf("rtree: overwriteNode(%d): %w", n.ID, err)
	}
	if _, err := t.pages.StoreNode(n.ID, page); err != nil {
		return fmt.Errorf("rtree: overwriteNode(%d): %w", n.ID, err)
	}
	t.stats.WriteCount++
	t.runNodeCommands(t.writeNodeCommands, n)

	return nil
}

// deleteNode removes n's page and updates level statistics. The caller
// must already hold t.mu for writing.
func (t *Tree) deleteNode(n *Node) error {
	if err := t.pages.DeleteNode(n.ID); err != nil {
		return fmt.Errorf("rtree: deleteNode(%d): %w", n.ID, err)
	}
	t.stats.NodesInLevel[n.Level]--
	t.runNodeCommands(t.deleteNodeCommands, n)

	return nil
}

// runNodeCommands invokes each cmd in cmds against n, logging and
// re-panicking on failure so a hook's exception still propagates to the
// caller (spec §6) while leaving a diagnostic trail behind it.
func (t *Tree) runNodeCommands(cmds []NodeCommand, n *Node) {
	for _, cmd := range cmds {
		t.runNodeCommand(cmd, n)
	}
}

func (t *Tree) runNodeCommand(cmd NodeCommand, n *Node) {
	defer func() {
		if r := recover(); r != nil {
			t.logger.Error(fmt.Errorf("%v", r), "node command panicked", "nodeID", n.ID, "level", n.Level)
			panic(r)
		}
	}()
	cmd(n)
}
