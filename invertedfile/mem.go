package invertedfile

import (
	"fmt"
	"sort"
	"sync"
)

// posting is one child's weights plus the cluster it was recorded under.
type posting struct {
	weights   Weights
	clusterID int
}

// MemInvertedFile is an in-memory InvertedFile, map-backed and guarded by a
// single sync.RWMutex, mirroring store.MemStore's concurrency model.
type MemInvertedFile struct {
	mu    sync.RWMutex
	nodes map[int64]map[int64]posting // nodeID -> childID -> posting
}

// NewMemInvertedFile returns an empty MemInvertedFile.
func NewMemInvertedFile() *MemInvertedFile {
	return &MemInvertedFile{nodes: make(map[int64]map[int64]posting)}
}

// Create implements InvertedFile.
func (m *MemInvertedFile) Create(nodeID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.nodes[nodeID] = make(map[int64]posting)

	return nil
}

// AddDocument implements InvertedFile.
func (m *MemInvertedFile) AddDocument(nodeID, childID int64, weights Weights, clusterID int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	postings, ok := m.nodes[nodeID]
	if !ok {
		postings = make(map[int64]posting)
		m.nodes[nodeID] = postings
	}

	cloned := make(Weights, len(weights))
	for term, w := range weights {
		cloned[term] = w
	}
	postings[childID] = posting{weights: cloned, clusterID: clusterID}

	return nil
}

// Store implements InvertedFile.
func (m *MemInvertedFile) Store(nodeID int64) (PseudoDocument, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	postings, ok := m.nodes[nodeID]
	if !ok {
		return PseudoDocument{}, fmt.Errorf("invertedfile: Store(%d): %w", nodeID, ErrNodeNotFound)
	}

	return PseudoDocument{Weights: sumWeights(postings, -1)}, nil
}

// StoreClusterEnhance implements InvertedFile.
func (m *MemInvertedFile) StoreClusterEnhance(nodeID int64) ([]ClusteredPseudoDocument, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	postings, ok := m.nodes[nodeID]
	if !ok {
		return nil, fmt.Errorf("invertedfile: StoreClusterEnhance(%d): %w", nodeID, ErrNodeNotFound)
	}

	clusters := make(map[int]bool)
	for _, p := range postings {
		clusters[p.clusterID] = true
	}
	ids := make([]int, 0, len(clusters))
	for c := range clusters {
		ids = append(ids, c)
	}
	sort.Ints(ids)

	out := make([]ClusteredPseudoDocument, len(ids))
	for i, c := range ids {
		out[i] = ClusteredPseudoDocument{ClusterID: c, Doc: PseudoDocument{Weights: sumWeights(postings, c)}}
	}

	return out, nil
}

// Load implements InvertedFile.
func (m *MemInvertedFile) Load(nodeID int64) (map[int64]Weights, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	postings, ok := m.nodes[nodeID]
	if !ok {
		return nil, fmt.Errorf("invertedfile: Load(%d): %w", nodeID, ErrNodeNotFound)
	}

	out := make(map[int64]Weights, len(postings))
	for childID, p := range postings {
		out[childID] = p.weights
	}

	return out, nil
}

// RankingSum implements InvertedFile.
func (m *MemInvertedFile) RankingSum(nodeID int64, keywords []TermID) (map[int64]float64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	postings, ok := m.nodes[nodeID]
	if !ok {
		return nil, fmt.Errorf("invertedfile: RankingSum(%d): %w", nodeID, ErrNodeNotFound)
	}

	scores := make(map[int64]float64, len(postings))
	for childID, p := range postings {
		var score float64
		for _, kw := range keywords {
			score += p.weights[kw]
		}
		if score > 0 {
			scores[childID] = score
		}
	}

	return scores, nil
}

// RankingSumClusterEnhance implements InvertedFile. Each matching keyword's
// weight is multiplied by its keywordWeights entry (or counted as is when
// the keyword has none); the cluster id recorded with a posting does not
// affect the score.
func (m *MemInvertedFile) RankingSumClusterEnhance(nodeID int64, keywords []TermID, keywordWeights map[TermID]float64) (map[int64]float64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	postings, ok := m.nodes[nodeID]
	if !ok {
		return nil, fmt.Errorf("invertedfile: RankingSumClusterEnhance(%d): %w", nodeID, ErrNodeNotFound)
	}

	scores := make(map[int64]float64, len(postings))
	for childID, p := range postings {
		var score float64
		for _, kw := range keywords {
			w := p.weights[kw]
			if w == 0 {
				continue
			}
			if qw, ok := keywordWeights[kw]; ok {
				score += w * qw
			} else {
				score += w
			}
		}
		if score > 0 {
			scores[childID] = score
		}
	}

	return scores, nil
}

// sumWeights folds every posting's weights into one Weights map, optionally
// restricted to a single cluster (cluster < 0 means "all postings").
func sumWeights(postings map[int64]posting, cluster int) Weights {
	sum := make(Weights)
	for _, p := range postings {
		if cluster >= 0 && p.clusterID != cluster {
			continue
		}
		for term, w := range p.weights {
			sum[term] += w
		}
	}

	return sum
}
