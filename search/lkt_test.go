package search_test

import (
	"testing"

	"github.com/katalvlaran/irtree/geo"
	"github.com/katalvlaran/irtree/invertedfile"
	"github.com/katalvlaran/irtree/irbuild"
	"github.com/katalvlaran/irtree/query"
	"github.com/katalvlaran/irtree/rtree"
	"github.com/katalvlaran/irtree/search"
	"github.com/katalvlaran/irtree/store"
)

type fakeDocs map[int64]invertedfile.Weights

func (f fakeDocs) GetWeights(docID int64) (invertedfile.Weights, error) {
	return f[docID], nil
}

func pt(coords ...float64) geo.Point {
	p, err := geo.NewPoint(coords...)
	if err != nil {
		panic(err)
	}

	return p
}

// TestLKT_PrefersMatchingKeyword builds a small tree with two clusters of
// points, only one of which carries the query keyword, and checks LKT's
// top-1 result comes from the matching cluster (spec §8 scenario 4).
func TestLKT_PrefersMatchingKeyword(t *testing.T) {
	mem := store.NewMemStore()
	tree, err := rtree.NewTree(mem,
		rtree.WithDimension(2),
		rtree.WithIndexCapacity(4),
		rtree.WithLeafCapacity(4),
		rtree.WithNearMinimumOverlapFactor(4),
		rtree.WithVariant(rtree.Quadratic),
	)
	if err != nil {
		t.Fatalf("NewTree: %v", err)
	}

	docs := make(fakeDocs)
	left := []geo.Point{pt(0, 0), pt(1, 0), pt(0, 1)}
	right := []geo.Point{pt(100, 100), pt(101, 100), pt(100, 101)}
	var id int64
	for _, p := range left {
		if err := tree.InsertData(p.AsRegion(), id, nil); err != nil {
			t.Fatalf("InsertData: %v", err)
		}
		docs[id] = invertedfile.Weights{7: 1.0}
		id++
	}
	for _, p := range right {
		if err := tree.InsertData(p.AsRegion(), id, nil); err != nil {
			t.Fatalf("InsertData: %v", err)
		}
		docs[id] = invertedfile.Weights{9: 1.0}
		id++
	}

	inv := invertedfile.NewMemInvertedFile()
	if err := irbuild.Build(tree, docs, inv); err != nil {
		t.Fatalf("Build: %v", err)
	}

	q := query.Query{Location: pt(0, 0), Keywords: []invertedfile.TermID{7}}
	results, err := search.LKT(tree, inv, q, 1, search.Options{Alpha: 0.5, MaxD: 200})
	if err != nil {
		t.Fatalf("LKT: %v", err)
	}
	if len(results) == 0 {
		t.Fatal("LKT returned no results")
	}
	if results[0].ID > 2 {
		t.Fatalf("LKT top result id = %d; want one of the left-cluster docs (0-2)", results[0].ID)
	}
}

// TestLKT_MonotonicCosts checks the costs of results LKT emits are
// nondecreasing, the correctness property branch-and-bound depends on
// (spec §8's "lkt monotonicity").
func TestLKT_MonotonicCosts(t *testing.T) {
	mem := store.NewMemStore()
	tree, err := rtree.NewTree(mem,
		rtree.WithDimension(2),
		rtree.WithIndexCapacity(4),
		rtree.WithLeafCapacity(4),
		rtree.WithNearMinimumOverlapFactor(4),
	)
	if err != nil {
		t.Fatalf("NewTree: %v", err)
	}

	docs := make(fakeDocs)
	for i := int64(0); i < 20; i++ {
		p := pt(float64(i), float64(i))
		if err := tree.InsertData(p.AsRegion(), i, nil); err != nil {
			t.Fatalf("InsertData: %v", err)
		}
		docs[i] = invertedfile.Weights{1: 1.0}
	}

	inv := invertedfile.NewMemInvertedFile()
	if err := irbuild.Build(tree, docs, inv); err != nil {
		t.Fatalf("Build: %v", err)
	}

	q := query.Query{Location: pt(0, 0), Keywords: []invertedfile.TermID{1}}
	results, err := search.LKT(tree, inv, q, 5, search.Options{Alpha: 0.5, MaxD: 50})
	if err != nil {
		t.Fatalf("LKT: %v", err)
	}
	for i := 1; i < len(results); i++ {
		if results[i].Cost.Total < results[i-1].Cost.Total {
			t.Fatalf("costs not nondecreasing at %d: %v then %v", i, results[i-1].Cost, results[i].Cost)
		}
	}
}

func TestLKT_RejectsDimensionMismatch(t *testing.T) {
	mem := store.NewMemStore()
	tree, err := rtree.NewTree(mem, rtree.WithDimension(2), rtree.WithNearMinimumOverlapFactor(4))
	if err != nil {
		t.Fatalf("NewTree: %v", err)
	}
	inv := invertedfile.NewMemInvertedFile()

	q := query.Query{Location: pt(0, 0, 0), Keywords: []invertedfile.TermID{1}}
	_, err = search.LKT(tree, inv, q, 1, search.Options{Alpha: 0.5, MaxD: 10})
	if err != search.ErrShape {
		t.Fatalf("LKT with mismatched dimension: got %v; want ErrShape", err)
	}
}
