package search

import "errors"

var (
	// ErrShape indicates the query location's dimension does not match the
	// tree's configured dimension.
	ErrShape = errors.New("search: dimension mismatch")

	// ErrInvalidOptions indicates Options.MaxD was not a positive extent,
	// making spatial-cost normalization undefined, or that LKTAggregate was
	// given a nil or empty aggregate query.
	ErrInvalidOptions = errors.New("search: invalid options")
)
