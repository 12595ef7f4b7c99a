package irbuild_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/irtree/geo"
	"github.com/katalvlaran/irtree/invertedfile"
	"github.com/katalvlaran/irtree/irbuild"
	"github.com/katalvlaran/irtree/rtree"
	"github.com/katalvlaran/irtree/store"
)

// fakeDocs is an in-memory DocumentStore keyed by document id.
type fakeDocs map[int64]invertedfile.Weights

func (f fakeDocs) GetWeights(docID int64) (invertedfile.Weights, error) {
	w, ok := f[docID]
	if !ok {
		return nil, fmt.Errorf("no weights for %d", docID)
	}

	return w, nil
}

// fakeClusters is an in-memory ClusterMap keyed by document id.
type fakeClusters map[int64]int

func (f fakeClusters) ClusterOf(docID int64) (int, error) {
	c, ok := f[docID]
	if !ok {
		return 0, fmt.Errorf("no cluster for %d", docID)
	}

	return c, nil
}

func pt(coords ...float64) geo.Point {
	p, err := geo.NewPoint(coords...)
	if err != nil {
		panic(err)
	}

	return p
}

func newSmallTree(t *testing.T) *rtree.Tree {
	t.Helper()
	mem := store.NewMemStore()
	tree, err := rtree.NewTree(mem,
		rtree.WithDimension(2),
		rtree.WithIndexCapacity(4),
		rtree.WithLeafCapacity(4),
		rtree.WithNearMinimumOverlapFactor(4),
		rtree.WithVariant(rtree.Quadratic),
	)
	require.NoError(t, err)

	return tree
}

func rootIDOf(t *testing.T, tree *rtree.Tree) int64 {
	t.Helper()
	var rootID int64 = -1
	hooks := rtree.PostOrderHooks{OnExit: func(n *rtree.Node) error {
		rootID = n.ID
		return nil
	}}
	require.NoError(t, tree.PostOrder(hooks))

	return rootID
}

// TestBuild_RootSummarizesSubtree checks that Build's root pseudo-document
// sums every leaf document's weights, regardless of how many splits occurred
// underneath it.
func TestBuild_RootSummarizesSubtree(t *testing.T) {
	tree := newSmallTree(t)

	docs := make(fakeDocs)
	for i := 0; i < 20; i++ {
		p := pt(float64(i), float64(i))
		require.NoError(t, tree.InsertData(p.AsRegion(), int64(i), nil))
		docs[int64(i)] = invertedfile.Weights{1: 1.0}
	}

	inv := invertedfile.NewMemInvertedFile()
	require.NoError(t, irbuild.Build(tree, docs, inv))

	pseudo, err := inv.Store(rootIDOf(t, tree))
	require.NoError(t, err)
	assert.Equal(t, 20.0, pseudo.Weights[1])
}

// TestBuild_MissingDocumentReturnsStructuredError confirms a document the
// store can't resolve surfaces as ErrDocumentNotFound rather than a raw
// DocumentStore error.
func TestBuild_MissingDocumentReturnsStructuredError(t *testing.T) {
	tree := newSmallTree(t)
	require.NoError(t, tree.InsertData(pt(0, 0).AsRegion(), 1, nil))

	inv := invertedfile.NewMemInvertedFile()
	err := irbuild.Build(tree, fakeDocs{}, inv)
	assert.ErrorIs(t, err, irbuild.ErrDocumentNotFound)
}

// TestBuildClusterEnhanced_PropagatesDistinctClusters inserts documents in
// two sparse, non-contiguous clusters and checks the cluster ids survive
// unchanged one level up (the positional-index bug this guards against
// would silently renumber them 0..n-1).
func TestBuildClusterEnhanced_PropagatesDistinctClusters(t *testing.T) {
	tree := newSmallTree(t)

	docs := make(fakeDocs)
	clusters := make(fakeClusters)
	coords := []geo.Point{pt(0, 0), pt(1, 1), pt(2, 2), pt(3, 3)}
	clusterOf := []int{0, 0, 5, 5}
	for i, p := range coords {
		require.NoError(t, tree.InsertData(p.AsRegion(), int64(i), nil))
		docs[int64(i)] = invertedfile.Weights{1: 1.0}
		clusters[int64(i)] = clusterOf[i]
	}

	inv := invertedfile.NewMemInvertedFile()
	require.NoError(t, irbuild.BuildClusterEnhanced(tree, docs, clusters, inv))

	pseudos, err := inv.StoreClusterEnhance(rootIDOf(t, tree))
	require.NoError(t, err)

	seen := make(map[int]float64)
	for _, cp := range pseudos {
		seen[cp.ClusterID] = cp.Doc.Weights[1]
	}
	assert.Equal(t, 2.0, seen[0])
	assert.Equal(t, 2.0, seen[5])
	_, sawOne := seen[1]
	assert.False(t, sawOne, "cluster id 1 should not exist; clusters were {0, 5}")
}

// TestBuildClusterEnhanced_MissingClusterReturnsStructuredError confirms an
// unresolvable cluster assignment surfaces as ErrClusterNotFound.
func TestBuildClusterEnhanced_MissingClusterReturnsStructuredError(t *testing.T) {
	tree := newSmallTree(t)
	require.NoError(t, tree.InsertData(pt(0, 0).AsRegion(), 1, nil))

	inv := invertedfile.NewMemInvertedFile()
	docs := fakeDocs{1: invertedfile.Weights{1: 1.0}}
	err := irbuild.BuildClusterEnhanced(tree, docs, fakeClusters{}, inv)
	assert.ErrorIs(t, err, irbuild.ErrClusterNotFound)
}
