package rtree_test

import (
	"errors"
	"fmt"
	"math/rand"
	"testing"

	"github.com/katalvlaran/irtree/geo"
	"github.com/katalvlaran/irtree/rtree"
	"github.com/katalvlaran/irtree/store"
)

func pt(coords ...float64) geo.Point {
	p, err := geo.NewPoint(coords...)
	if err != nil {
		panic(err)
	}

	return p
}

func box(lo, hi geo.Point) geo.Region {
	r, err := geo.NewRegion(lo, hi)
	if err != nil {
		panic(err)
	}

	return r
}

func pointBox(p geo.Point) geo.Region {
	return box(p, p)
}

func newTestTree(t *testing.T, opts ...rtree.TreeOption) (*rtree.Tree, *store.MemStore) {
	t.Helper()
	mem := store.NewMemStore()
	allOpts := append([]rtree.TreeOption{
		rtree.WithDimension(2),
		rtree.WithIndexCapacity(4),
		rtree.WithLeafCapacity(4),
		rtree.WithNearMinimumOverlapFactor(4),
	}, opts...)
	tree, err := rtree.NewTree(mem, allOpts...)
	if err != nil {
		t.Fatalf("NewTree: %v", err)
	}

	return tree, mem
}

func TestTree_InsertAndRangeQuery(t *testing.T) {
	for _, variant := range []rtree.TreeVariant{rtree.Linear, rtree.Quadratic, rtree.Rstar} {
		variant := variant
		t.Run(variant.String(), func(t *testing.T) {
			tree, _ := newTestTree(t, rtree.WithVariant(variant))

			pts := []geo.Point{pt(0, 0), pt(1, 1), pt(2, 2), pt(10, 10), pt(11, 11), pt(-5, -5)}
			for i, p := range pts {
				if err := tree.InsertData(pointBox(p), int64(i), []byte(fmt.Sprintf("doc-%d", i))); err != nil {
					t.Fatalf("InsertData(%v): %v", p, err)
				}
			}

			if got := tree.Stats().DataCount; got != int64(len(pts)) {
				t.Fatalf("DataCount = %d; want %d", got, len(pts))
			}

			var results []rtree.Entry
			visitor := rtree.VisitorFuncs{OnData: func(e rtree.Entry) { results = append(results, e) }}
			query := box(pt(-1, -1), pt(3, 3))
			if err := tree.RangeQuery(query, rtree.Intersects, visitor); err != nil {
				t.Fatalf("RangeQuery: %v", err)
			}
			if len(results) != 3 {
				t.Fatalf("RangeQuery found %d entries; want 3", len(results))
			}

			if err := tree.IsIndexValid(); err != nil {
				t.Fatalf("IsIndexValid: %v", err)
			}
		})
	}
}

func TestTree_ForcesSplitUnderCapacity(t *testing.T) {
	tree, _ := newTestTree(t, rtree.WithVariant(rtree.Quadratic))

	for i := 0; i < 50; i++ {
		p := pt(float64(i), float64(i))
		if err := tree.InsertData(pointBox(p), int64(i), []byte(fmt.Sprintf("doc-%d", i))); err != nil {
			t.Fatalf("InsertData: %v", err)
		}
	}

	if err := tree.IsIndexValid(); err != nil {
		t.Fatalf("IsIndexValid after forced splits: %v", err)
	}
	if h := tree.Stats().TreeHeight; h <= 1 {
		t.Fatalf("TreeHeight = %d; want > 1 after 50 inserts at capacity 4", h)
	}
}

func TestTree_RstarForcedReinsertion(t *testing.T) {
	tree, _ := newTestTree(t, rtree.WithVariant(rtree.Rstar))

	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 200; i++ {
		p := pt(rng.Float64()*100, rng.Float64()*100)
		if err := tree.InsertData(pointBox(p), int64(i), []byte(fmt.Sprintf("doc-%d", i))); err != nil {
			t.Fatalf("InsertData: %v", err)
		}
	}

	if err := tree.IsIndexValid(); err != nil {
		t.Fatalf("IsIndexValid after reinsertion-driven inserts: %v", err)
	}
	if got := tree.Stats().DataCount; got != 200 {
		t.Fatalf("DataCount = %d; want 200", got)
	}
}

func TestTree_DeleteData(t *testing.T) {
	tree, _ := newTestTree(t, rtree.WithVariant(rtree.Linear))

	pts := []geo.Point{pt(0, 0), pt(1, 1), pt(2, 2), pt(3, 3), pt(4, 4), pt(5, 5)}
	for i, p := range pts {
		if err := tree.InsertData(pointBox(p), int64(i), []byte(fmt.Sprintf("doc-%d", i))); err != nil {
			t.Fatalf("InsertData: %v", err)
		}
	}

	if err := tree.DeleteData(pointBox(pt(2, 2)), 2); err != nil {
		t.Fatalf("DeleteData: %v", err)
	}
	if got := tree.Stats().DataCount; got != 5 {
		t.Fatalf("DataCount after delete = %d; want 5", got)
	}
	if err := tree.IsIndexValid(); err != nil {
		t.Fatalf("IsIndexValid after delete: %v", err)
	}

	err := tree.DeleteData(pointBox(pt(2, 2)), 2)
	if err != rtree.ErrNotFound {
		t.Fatalf("DeleteData of removed entry: got %v; want ErrNotFound", err)
	}
}

func TestTree_DeleteManyCollapsesRoot(t *testing.T) {
	tree, _ := newTestTree(t, rtree.WithVariant(rtree.Quadratic))

	var pts []geo.Point
	for i := 0; i < 60; i++ {
		pts = append(pts, pt(float64(i), float64(i)))
		if err := tree.InsertData(pointBox(pts[i]), int64(i), []byte(fmt.Sprintf("doc-%d", i))); err != nil {
			t.Fatalf("InsertData: %v", err)
		}
	}

	for i := 0; i < 55; i++ {
		if err := tree.DeleteData(pointBox(pts[i]), int64(i)); err != nil {
			t.Fatalf("DeleteData(%d): %v", i, err)
		}
		if err := tree.IsIndexValid(); err != nil {
			t.Fatalf("IsIndexValid after delete %d: %v", i, err)
		}
	}

	if got := tree.Stats().DataCount; got != 5 {
		t.Fatalf("DataCount = %d; want 5", got)
	}
}

func TestTree_NearestNeighborQuery(t *testing.T) {
	tree, _ := newTestTree(t, rtree.WithVariant(rtree.Rstar))

	pts := []geo.Point{pt(0, 0), pt(5, 5), pt(1, 0), pt(0, 1), pt(100, 100)}
	for i, p := range pts {
		if err := tree.InsertData(pointBox(p), int64(i), []byte(fmt.Sprintf("doc-%d", i))); err != nil {
			t.Fatalf("InsertData: %v", err)
		}
	}

	var got []string
	visitor := rtree.VisitorFuncs{OnData: func(e rtree.Entry) { got = append(got, string(e.Payload)) }}
	if err := tree.NearestNeighborQuery(3, pt(0, 0), nil, visitor); err != nil {
		t.Fatalf("NearestNeighborQuery: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("NearestNeighborQuery returned %d entries; want 3", len(got))
	}
	want := map[string]bool{"doc-0": true, "doc-2": true, "doc-3": true}
	for _, id := range got {
		if !want[id] {
			t.Errorf("unexpected neighbor %q in top-3", id)
		}
	}
}

func TestTree_ReopenFromHeader(t *testing.T) {
	mem := store.NewMemStore()
	tree, err := rtree.NewTree(mem, rtree.WithDimension(2), rtree.WithLeafCapacity(4), rtree.WithIndexCapacity(4), rtree.WithNearMinimumOverlapFactor(4))
	if err != nil {
		t.Fatalf("NewTree: %v", err)
	}
	for i := 0; i < 10; i++ {
		if err := tree.InsertData(pointBox(pt(float64(i), float64(i))), int64(i), []byte(fmt.Sprintf("doc-%d", i))); err != nil {
			t.Fatalf("InsertData: %v", err)
		}
	}
	if err := tree.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}

	reopened, err := rtree.NewTree(mem, rtree.WithIndexIdentifier(0))
	if err != nil {
		t.Fatalf("NewTree(reopen): %v", err)
	}
	if got := reopened.Stats().DataCount; got != 10 {
		t.Fatalf("reopened DataCount = %d; want 10", got)
	}
	if got := reopened.Dimension(); got != 2 {
		t.Fatalf("reopened Dimension = %d; want 2", got)
	}
	if err := reopened.IsIndexValid(); err != nil {
		t.Fatalf("IsIndexValid on reopened tree: %v", err)
	}
}

func TestTree_RejectsDimensionMismatch(t *testing.T) {
	tree, _ := newTestTree(t)
	err := tree.InsertData(pointBox(pt(1, 2, 3)), 0, nil)
	if err == nil {
		t.Fatal("expected error inserting a 3-dimensional MBR into a 2-dimensional tree")
	}
}

func TestTree_InvalidConfigRejected(t *testing.T) {
	mem := store.NewMemStore()
	_, err := rtree.NewTree(mem, rtree.WithFillFactor(1.5))
	if !errors.Is(err, rtree.ErrInvalidConfig) {
		t.Fatalf("NewTree with bad fill factor: got %v; want ErrInvalidConfig", err)
	}
}
