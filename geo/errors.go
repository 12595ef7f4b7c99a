package geo

import "errors"

// Sentinel errors for geo primitives.
var (
	// ErrDimMismatch indicates two points/regions of differing dimension
	// were combined (Union, Intersects, MinDistance, ...).
	ErrDimMismatch = errors.New("geo: dimension mismatch")

	// ErrBadDimension indicates a requested dimension is not positive.
	ErrBadDimension = errors.New("geo: dimension must be >= 1")

	// ErrNonFinite indicates a coordinate is NaN or +/-Inf where a finite
	// value is required (construction of a Point via NewPoint; NewRegion
	// does not check coordinates for finiteness).
	ErrNonFinite = errors.New("geo: coordinate must be finite")

	// ErrLowExceedsHigh indicates a Region was built with low[d] > high[d]
	// for some dimension d.
	ErrLowExceedsHigh = errors.New("geo: region low exceeds high")
)
