package rtree

import "fmt"

// TreeVariant selects the split policy used on node overflow.
type TreeVariant int

const (
	// Linear picks seeds by the most-separated pair on any single axis and
	// distributes remaining entries greedily by minimum enlargement.
	Linear TreeVariant = iota
	// Quadratic picks seeds maximizing wasted area (Guttman's algorithm)
	// and distributes remaining entries by the same greedy rule.
	Quadratic
	// Rstar evaluates every axis/distribution combination, minimizing
	// total margin then overlap then area, and performs forced
	// reinsertion on overflow instead of always splitting.
	Rstar
)

// String implements fmt.Stringer for diagnostics.
func (v TreeVariant) String() string {
	switch v {
	case Linear:
		return "Linear"
	case Quadratic:
		return "Quadratic"
	case Rstar:
		return "Rstar"
	default:
		return fmt.Sprintf("TreeVariant(%d)", int(v))
	}
}

// config holds the resolved, validated tree parameters (spec §4.C's
// Configuration table). A config is built by applying TreeOptions over
// defaultConfig and then validated once in NewTree/Open.
type config struct {
	variant                  TreeVariant
	fillFactor               float64
	indexCapacity            int
	leafCapacity             int
	nearMinimumOverlapFactor int
	splitDistributionFactor  float64
	reinsertFactor           float64
	dimension                int
	indexIdentifier          int64
	hasIndexIdentifier       bool
}

func defaultConfig() config {
	return config{
		variant:                  Rstar,
		fillFactor:               0.4,
		indexCapacity:            50,
		leafCapacity:             50,
		nearMinimumOverlapFactor: 32,
		splitDistributionFactor:  0.4,
		reinsertFactor:           0.3,
		dimension:                2,
	}
}

// TreeOption customizes a Tree's configuration before construction.
// Unlike builder.BuilderOption (which panics on nonsensical values),
// TreeOption constructors never panic: spec §7 classifies bad configuration
// as a recoverable "Configuration error", so validation is deferred to a
// single pass in NewTree/Open, after every option has been applied.
type TreeOption func(*config)

// WithVariant selects the split policy.
func WithVariant(v TreeVariant) TreeOption {
	return func(c *config) { c.variant = v }
}

// WithFillFactor sets the minimum fill ratio for non-root nodes, (0, 1).
func WithFillFactor(f float64) TreeOption {
	return func(c *config) { c.fillFactor = f }
}

// WithIndexCapacity sets the max entries per index node, >= 3.
func WithIndexCapacity(n int) TreeOption {
	return func(c *config) { c.indexCapacity = n }
}

// WithLeafCapacity sets the max entries per leaf node, >= 3.
func WithLeafCapacity(n int) TreeOption {
	return func(c *config) { c.leafCapacity = n }
}

// WithNearMinimumOverlapFactor sets the R*-tree p used in overlap
// minimization during chooseSubtree, 1 <= p <= min(indexCap, leafCap).
func WithNearMinimumOverlapFactor(p int) TreeOption {
	return func(c *config) { c.nearMinimumOverlapFactor = p }
}

// WithSplitDistributionFactor sets the R*-tree m used to bound split
// distributions, (0, 1).
func WithSplitDistributionFactor(m float64) TreeOption {
	return func(c *config) { c.splitDistributionFactor = m }
}

// WithReinsertFactor sets the fraction of entries forced-reinserted on
// R*-tree overflow, (0, 1).
func WithReinsertFactor(r float64) TreeOption {
	return func(c *config) { c.reinsertFactor = r }
}

// WithDimension sets the spatial dimension, >= 2.
func WithDimension(d int) TreeOption {
	return func(c *config) { c.dimension = d }
}

// WithIndexIdentifier loads an existing tree from the given header page
// instead of creating a new one. When set, the immutable properties
// (Dimension, FillFactor, IndexCapacity, LeafCapacity) are resolved from
// the stored header and any value supplied via WithDimension etc. here is
// ignored; mutable properties (variant, the R*-tree factors) take the values
// set by the options of this call, or their defaults, and are not restored
// from the stored header.
func WithIndexIdentifier(id int64) TreeOption {
	return func(c *config) {
		c.indexIdentifier = id
		c.hasIndexIdentifier = true
	}
}

// validate checks every field against its documented range.
func (c config) validate() error {
	switch {
	case c.variant != Linear && c.variant != Quadratic && c.variant != Rstar:
		return fmt.Errorf("rtree: variant %v: %w", c.variant, ErrInvalidConfig)
	case c.fillFactor <= 0 || c.fillFactor >= 1:
		return fmt.Errorf("rtree: fillFactor %v not in (0,1): %w", c.fillFactor, ErrInvalidConfig)
	case c.indexCapacity < 3:
		return fmt.Errorf("rtree: indexCapacity %d < 3: %w", c.indexCapacity, ErrInvalidConfig)
	case c.leafCapacity < 3:
		return fmt.Errorf("rtree: leafCapacity %d < 3: %w", c.leafCapacity, ErrInvalidConfig)
	case c.dimension < 2:
		return fmt.Errorf("rtree: dimension %d < 2: %w", c.dimension, ErrInvalidConfig)
	case c.splitDistributionFactor <= 0 || c.splitDistributionFactor >= 1:
		return fmt.Errorf("rtree: splitDistributionFactor %v not in (0,1): %w", c.splitDistributionFactor, ErrInvalidConfig)
	case c.reinsertFactor <= 0 || c.reinsertFactor >= 1:
		return fmt.Errorf("rtree: reinsertFactor %v not in (0,1): %w", c.reinsertFactor, ErrInvalidConfig)
	}
	minCap := c.indexCapacity
	if c.leafCapacity < minCap {
		minCap = c.leafCapacity
	}
	if c.nearMinimumOverlapFactor < 1 || c.nearMinimumOverlapFactor > minCap {
		return fmt.Errorf("rtree: nearMinimumOverlapFactor %d not in [1,%d]: %w", c.nearMinimumOverlapFactor, minCap, ErrInvalidConfig)
	}

	return nil
}

// capacityFor returns the entry capacity for nodes at the given level
// (leaf capacity at level 0, index capacity otherwise).
func (c config) capacityFor(level int) int {
	if level == 0 {
		return c.leafCapacity
	}

	return c.indexCapacity
}

// minEntries returns ceil(capacity * fillFactor), the minimum entry count
// for a non-root node at the given level.
func (c config) minEntries(level int) int {
	cap := c.capacityFor(level)
	min := int(float64(cap) * c.fillFactor)
	if float64(min) < float64(cap)*c.fillFactor {
		min++
	}

	return min
}
