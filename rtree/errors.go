package rtree

import "errors"

// Sentinel errors for the rtree package. Callers should use errors.Is to
// branch on semantics; dynamic context is attached via fmt.Errorf("%w: ...")
// at the call site, never baked into the sentinel string.
var (
	// ErrInvalidConfig indicates a configuration option violated its
	// documented range (spec §4.C's Configuration table / §7 "Configuration
	// error"). Raised synchronously at tree construction; no state changes.
	ErrInvalidConfig = errors.New("rtree: invalid configuration")

	// ErrShape indicates an operation argument has the wrong dimension or
	// the wrong kind (e.g. a Region where a Point was required).
	ErrShape = errors.New("rtree: shape error")

	// ErrNotFound indicates deleteData could not locate the requested
	// (mbr, id) pair, or a lookup referenced an entry that isn't present.
	ErrNotFound = errors.New("rtree: entry not found")

	// ErrCorrupt indicates isIndexValid (or an internal consistency check)
	// detected a structural inconsistency. Never auto-repaired.
	ErrCorrupt = errors.New("rtree: index corrupt")

	// ErrClosed indicates an operation was attempted on a tree whose
	// underlying store handle is no longer usable.
	ErrClosed = errors.New("rtree: tree closed")
)
