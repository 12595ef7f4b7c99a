// Package rtree implements an R-tree / R*-tree storage engine over a
// pluggable page store (package store): insertion, deletion, the three
// classic split policies (linear, quadratic, R*), R*-style forced
// reinsertion, and range/k-NN/custom-strategy traversal.
//
// Tree is the central type. It holds a root page ID, configured
// parameters (variant, fill factor, capacities, R*-specific factors,
// dimension), running statistics, and a single sync.RWMutex guarding all
// of the above — mirroring core.Graph's separate-mutex design, collapsed
// to one lock because only one logical structure (the tree), not
// independent vertex/edge catalogs, needs protecting here.
//
// Node identity is an opaque int64 page ID, never an in-memory pointer:
// a single operation borrows a Node from the PageStore for the duration of
// the call and writes it back before returning. This sidesteps cyclic
// references between Tree and PageStore (design note in spec §9).
//
// Configuration:
//
//	WithVariant(Linear|Quadratic|Rstar)
//	WithFillFactor(f)              0 < f < 1
//	WithIndexCapacity(n)           n >= 3
//	WithLeafCapacity(n)            n >= 3
//	WithNearMinimumOverlapFactor(p) 1 <= p <= min(indexCap, leafCap)
//	WithSplitDistributionFactor(m)  0 < m < 1
//	WithReinsertFactor(r)           0 < r < 1
//	WithDimension(d)                d >= 2
//	WithIndexIdentifier(id)         reopen an existing tree; immutable
//	                                 properties (Dimension, FillFactor,
//	                                 IndexCapacity, LeafCapacity) are then
//	                                 ignored in favor of the stored header.
//
// Structured diagnostics go to a logr.Logger attached with Tree.SetLogger
// (default: discard).
//
// Errors:
//
//	ErrInvalidConfig  - a configuration option violates its documented range.
//	ErrShape          - an operation argument has the wrong dimension/kind.
//	ErrNotFound       - a query referenced data that does not exist in the tree.
//	ErrCorrupt        - isIndexValid detected a structural inconsistency.
//	Storage errors from package store are wrapped with %w, so errors.Is
//	still matches them.
package rtree
