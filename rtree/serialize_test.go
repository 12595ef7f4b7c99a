package rtree_test

import (
	"fmt"
	"testing"

	"github.com/katalvlaran/irtree/geo"
	"github.com/katalvlaran/irtree/rtree"
	"github.com/katalvlaran/irtree/store"
)

// TestTree_StatsTrackIO exercises the statistics across a sequence of
// inserts, checking that WriteCount is nonzero, DataCount equals the number
// of inserts, and NodesInLevel accounts for at least one node.
func TestTree_StatsTrackIO(t *testing.T) {
	mem := store.NewMemStore()
	tree, err := rtree.NewTree(mem, rtree.WithDimension(2), rtree.WithLeafCapacity(4), rtree.WithIndexCapacity(4), rtree.WithNearMinimumOverlapFactor(4))
	if err != nil {
		t.Fatalf("NewTree: %v", err)
	}

	for i := 0; i < 20; i++ {
		p, err := geo.NewPoint(float64(i), float64(-i))
		if err != nil {
			t.Fatalf("NewPoint: %v", err)
		}
		if err := tree.InsertData(p.AsRegion(), int64(i), []byte(fmt.Sprintf("doc-%d", i))); err != nil {
			t.Fatalf("InsertData: %v", err)
		}
	}

	stats := tree.Stats()
	if stats.WriteCount == 0 {
		t.Fatal("WriteCount should be nonzero after 20 inserts")
	}
	if stats.DataCount != 20 {
		t.Fatalf("DataCount = %d; want 20", stats.DataCount)
	}

	var total int64
	for _, c := range stats.NodesInLevel {
		total += c
	}
	if total == 0 {
		t.Fatal("NodesInLevel should account for at least one node")
	}
}

// TestTree_PersistsAcrossReopen confirms that a flushed tree, reopened from
// its header, keeps its stored dimension and still returns the inserted
// entry's payload from a range query.
func TestTree_PersistsAcrossReopen(t *testing.T) {
	mem := store.NewMemStore()
	tree, err := rtree.NewTree(mem, rtree.WithDimension(3), rtree.WithLeafCapacity(4), rtree.WithIndexCapacity(4), rtree.WithNearMinimumOverlapFactor(4))
	if err != nil {
		t.Fatalf("NewTree: %v", err)
	}

	region := box(pt(1, 2, 3), pt(4, 5, 6))
	if err := tree.InsertData(region, 1, []byte("payload")); err != nil {
		t.Fatalf("InsertData: %v", err)
	}
	if err := tree.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}

	reopened, err := rtree.NewTree(mem, rtree.WithIndexIdentifier(0))
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	if reopened.Dimension() != 3 {
		t.Fatalf("Dimension = %d; want 3", reopened.Dimension())
	}

	var got []string
	visitor := rtree.VisitorFuncs{OnData: func(e rtree.Entry) { got = append(got, string(e.Payload)) }}
	if err := reopened.RangeQuery(region, rtree.Intersects, visitor); err != nil {
		t.Fatalf("RangeQuery: %v", err)
	}
	if len(got) != 1 || got[0] != "payload" {
		t.Fatalf("RangeQuery after reopen = %v; want [payload]", got)
	}
}
