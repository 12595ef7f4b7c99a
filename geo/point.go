package geo

import (
	"fmt"
	"math"
)

// Point is an ordered tuple of dimension coordinates. Its length is its
// dimension; operations combining two Points require equal length.
type Point []float64

// NewPoint builds a Point from coordinates, rejecting NaN/Inf components.
// Complexity: O(dimension).
func NewPoint(coords ...float64) (Point, error) {
	if len(coords) == 0 {
		return nil, fmt.Errorf("geo.NewPoint: %w", ErrBadDimension)
	}
	p := make(Point, len(coords))
	for d, c := range coords {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return nil, fmt.Errorf("geo.NewPoint: coord[%d]=%v: %w", d, c, ErrNonFinite)
		}
		p[d] = c
	}

	return p, nil
}

// Dim returns the point's dimension.
func (p Point) Dim() int {
	return len(p)
}

// Equals reports component-wise exact equality; dimension mismatch is not
// an error here, simply false (two points of differing shape are unequal).
func (p Point) Equals(other Point) bool {
	if len(p) != len(other) {
		return false
	}
	for d := range p {
		if p[d] != other[d] {
			return false
		}
	}

	return true
}

// distanceSquared returns the squared Euclidean distance to another point
// of the same dimension. Callers must ensure matching dimension.
func (p Point) distanceSquared(other Point) float64 {
	var sum float64
	for d := range p {
		diff := p[d] - other[d]
		sum += diff * diff
	}

	return sum
}

// Distance returns the Euclidean distance between p and other.
// Complexity: O(dimension).
func (p Point) Distance(other Point) (float64, error) {
	if len(p) != len(other) {
		return 0, fmt.Errorf("geo.Point.Distance: %w", ErrDimMismatch)
	}

	return math.Sqrt(p.distanceSquared(other)), nil
}

// AsRegion returns the degenerate Region {Low: p, High: p}.
func (p Point) AsRegion() Region {
	low := make(Point, len(p))
	high := make(Point, len(p))
	copy(low, p)
	copy(high, p)

	return Region{Low: low, High: high}
}

// Clone returns an independent copy of p.
func (p Point) Clone() Point {
	out := make(Point, len(p))
	copy(out, p)

	return out
}
