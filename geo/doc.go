// Package geo defines the spatial primitives shared by the R-tree and
// IR-tree engines: points and axis-aligned minimum bounding regions (MBRs),
// and the distance/containment/intersection math the tree algorithms build
// on.
//
// Dimension is a runtime parameter, not a type parameter: a Point or Region
// carries its own length, and callers are responsible for only combining
// values of matching dimension (Union, Intersects, ... return ErrDimMismatch
// otherwise). This mirrors how core.Graph carries its configuration flags
// as runtime fields rather than generic parameters.
//
// Equality (Equals) is component-wise exact, never epsilon-based: MBRs are
// reconstructed deterministically from child entries, so two equal regions
// must compare bit-for-bit equal floats, not merely "close".
package geo
