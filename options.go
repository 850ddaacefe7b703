package vdafs

import (
	"github.com/tsawler/vdafs/model"
)

// QueryOptions holds configuration for geometry evaluation.
type QueryOptions struct {
	// Decoding
	param    model.Parameterization
	maxDepth int

	// Sampling
	curveSamples int // per curve segment
	isoLines     int
	lineSamples  int
	loopSamples  int // per FACE edge

	// Loop mapping
	tolerance float64 // 0 means relative to the surface box
	uvGlobal  bool

	// Checks
	gapTolerance float64
}

// defaultOptions returns the default query options.
func defaultOptions() QueryOptions {
	return QueryOptions{
		param:        model.Normalized,
		maxDepth:     100,
		curveSamples: 16,
		isoLines:     10,
		lineSamples:  50,
		loopSamples:  32,
		tolerance:    0,
		uvGlobal:     false,
		gapTolerance: 1e-6,
	}
}

// clone creates a copy of QueryOptions.
func (o QueryOptions) clone() QueryOptions {
	return o
}
