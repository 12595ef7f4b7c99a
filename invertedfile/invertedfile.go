package invertedfile

// TermID identifies a keyword in the indexed vocabulary.
type TermID int64

// Weights maps a term to its weight within some document or pseudo-document.
type Weights map[TermID]float64

// NoCluster is passed to AddDocument when the index is not cluster-enhanced.
const NoCluster = -1

// PseudoDocument summarizes the keyword distribution of a subtree: it is
// the document representative a node presents to its parent (spec §4.E).
type PseudoDocument struct {
	Weights Weights
}

// ClusteredPseudoDocument pairs a PseudoDocument with the cluster slot it
// was aggregated from, so StoreClusterEnhance's list-of-lists propagates
// the correct cluster id upward rather than a positional index.
type ClusteredPseudoDocument struct {
	ClusterID int
	Doc       PseudoDocument
}

// InvertedFile is the per-node term-postings contract irbuild and search
// depend on. Implementations own how postings are stored; the core treats
// every method as opaque dataflow (spec §4.D).
type InvertedFile interface {
	// Create initializes an empty posting container for nodeID. Calling it
	// twice for the same nodeID resets that node's postings.
	Create(nodeID int64) error

	// AddDocument accumulates a document's (or pseudo-document's) keyword
	// weights into nodeID's postings under childID, attributing them to
	// clusterID when cluster-enhancement is in use (NoCluster otherwise).
	AddDocument(nodeID, childID int64, weights Weights, clusterID int) error

	// Store aggregates nodeID's accumulated postings into a single
	// pseudo-document representing the whole subtree.
	Store(nodeID int64) (PseudoDocument, error)

	// StoreClusterEnhance aggregates nodeID's postings per cluster,
	// returning one pseudo-document per populated cluster slot, ordered by
	// ascending cluster id.
	StoreClusterEnhance(nodeID int64) ([]ClusteredPseudoDocument, error)

	// Load returns the raw per-child postings recorded for nodeID.
	Load(nodeID int64) (map[int64]Weights, error)

	// RankingSum sums, for each child of nodeID, the weights of every
	// keyword in keywords that the child's postings carry.
	RankingSum(nodeID int64, keywords []TermID) (map[int64]float64, error)

	// RankingSumClusterEnhance is RankingSum weighted by keywordWeights and
	// aware of the cluster each child's postings were recorded under.
	RankingSumClusterEnhance(nodeID int64, keywords []TermID, keywordWeights map[TermID]float64) (map[int64]float64, error)
}
