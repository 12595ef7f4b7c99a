package irbuild

import (
	"fmt"

	"github.com/katalvlaran/irtree/invertedfile"
	"github.com/katalvlaran/irtree/rtree"
)

// DocumentStore supplies the term-weight vector for a leaf entry's document
// id. It is an external collaborator (spec §1's out-of-scope "document
// store"): Build and BuildClusterEnhanced treat it as opaque.
type DocumentStore interface {
	GetWeights(docID int64) (invertedfile.Weights, error)
}

// ClusterMap supplies the cluster assignment for a document id, consumed
// only by BuildClusterEnhanced.
type ClusterMap interface {
	ClusterOf(docID int64) (int, error)
}

// Build walks tree post-order, populating inv so that every node's
// postings summarize its entire subtree (spec §4.E's `ir`). At a leaf, each
// data entry's weights are loaded from docs and recorded under the node; at
// an index node, each child's already-computed pseudo-document is recorded
// under the node instead. The node's own pseudo-document is then stored so
// its parent can summarize it in turn.
func Build(tree *rtree.Tree, docs DocumentStore, inv invertedfile.InvertedFile) error {
	return tree.PostOrder(rtree.PostOrderHooks{
		OnExit: func(n *rtree.Node) error {
			if err := inv.Create(n.ID); err != nil {
				return fmt.Errorf("irbuild: Build: node %d: %w", n.ID, err)
			}

			if n.IsLeaf() {
				for _, e := range n.Entries {
					weights, err := docs.GetWeights(e.ChildID)
					if err != nil {
						return fmt.Errorf("irbuild: Build: document %d: %w", e.ChildID, ErrDocumentNotFound)
					}
					if err := inv.AddDocument(n.ID, e.ChildID, weights, invertedfile.NoCluster); err != nil {
						return fmt.Errorf("irbuild: Build: node %d doc %d: %w", n.ID, e.ChildID, err)
					}
				}
			} else {
				for _, e := range n.Entries {
					pseudo, err := inv.Store(e.ChildID)
					if err != nil {
						return fmt.Errorf("irbuild: Build: child %d pseudo-document: %w", e.ChildID, err)
					}
					if err := inv.AddDocument(n.ID, e.ChildID, pseudo.Weights, invertedfile.NoCluster); err != nil {
						return fmt.Errorf("irbuild: Build: node %d child %d: %w", n.ID, e.ChildID, err)
					}
				}
			}

			if _, err := inv.Store(n.ID); err != nil {
				return fmt.Errorf("irbuild: Build: node %d: %w", n.ID, err)
			}

			return nil
		},
	})
}

// BuildClusterEnhanced is the cluster-aware variant (spec §4.E's
// `cirClusterEnhance`): each leaf document is routed to inv under its
// cluster id (via clusters), and every node's pseudo-documents are stored
// and propagated one-per-cluster.
func BuildClusterEnhanced(tree *rtree.Tree, docs DocumentStore, clusters ClusterMap, inv invertedfile.InvertedFile) error {
	return tree.PostOrder(rtree.PostOrderHooks{
		OnExit: func(n *rtree.Node) error {
			if err := inv.Create(n.ID); err != nil {
				return fmt.Errorf("irbuild: BuildClusterEnhanced: node %d: %w", n.ID, err)
			}

			if n.IsLeaf() {
				for _, e := range n.Entries {
					weights, err := docs.GetWeights(e.ChildID)
					if err != nil {
						return fmt.Errorf("irbuild: BuildClusterEnhanced: document %d: %w", e.ChildID, ErrDocumentNotFound)
					}
					cluster, err := clusters.ClusterOf(e.ChildID)
					if err != nil {
						return fmt.Errorf("irbuild: BuildClusterEnhanced: document %d: %w", e.ChildID, ErrClusterNotFound)
					}
					if err := inv.AddDocument(n.ID, e.ChildID, weights, cluster); err != nil {
						return fmt.Errorf("irbuild: BuildClusterEnhanced: node %d doc %d: %w", n.ID, e.ChildID, err)
					}
				}
			} else {
				for _, e := range n.Entries {
					pseudos, err := inv.StoreClusterEnhance(e.ChildID)
					if err != nil {
						return fmt.Errorf("irbuild: BuildClusterEnhanced: child %d pseudo-documents: %w", e.ChildID, err)
					}
					for _, cp := range pseudos {
						if err := inv.AddDocument(n.ID, e.ChildID, cp.Doc.Weights, cp.ClusterID); err != nil {
							return fmt.Errorf("irbuild: BuildClusterEnhanced: node %d child %d cluster %d: %w", n.ID, e.ChildID, cp.ClusterID, err)
						}
					}
				}
			}

			if _, err := inv.StoreClusterEnhance(n.ID); err != nil {
				return fmt.Errorf("irbuild: BuildClusterEnhanced: node %d: %w", n.ID, err)
			}

			return nil
		},
	})
}
