// Package model defines the data structures shared by the scan engine.
package model

import (
	"fmt"
	"math/rand"
)

// Point is one multi-axis coordinate tuple, one value per scanned axis, in
// axis order.
type Point []any

// ParamSchema describes a scannable parameter: its identity, value type and
// display metadata, plus optional numeric bounds.
type ParamSchema struct {
	FQN         string
	Type        ParamType
	Description string
	Unit        string
	Scale       float64
	Min         *float64
	Max         *float64
}

// ScanAxis describes a single axis that is being scanned. Apart from the
// metadata, this also includes the ParamStore to modify in order to set the
// parameter at runtime.
type ScanAxis struct {
	Schema ParamSchema

	// Path identifies which fragment tree instance owns the parameter.
	Path string

	Store ParamStore
}

// ScanOptions applies to a scan as a whole, across all axes.
type ScanOptions struct {
	// NumRepeats is how many times to iterate through the scan points.
	//
	// For scans with more than one level, the repetitions are executed for
	// each level before proceeding to the next one. This way e.g. a refining
	// generator, which produces infinitely many points, can still be employed
	// in interactive work when wanting to use repeats to gather statistics.
	NumRepeats int

	// NumRepeatsPerPoint is how many times to repeat each point
	// consecutively, without changing parameters in between. Useful for
	// scans with settling time after moving to a new point.
	NumRepeatsPerPoint int

	// RandomiseOrderGlobally shuffles the acquisition order of points across
	// all axes within a refinement level. This is complementary to the
	// per-generator randomisation, which for a multi-dimensional scan alone
	// would still acquire data hyperplane by hyperplane.
	RandomiseOrderGlobally bool

	// Seed for the RNG driving all point order randomisation. Resolved once
	// at spec construction time if left zero, and kept for reproducibility.
	Seed int64
}

// NewScanOptions returns options for a single unshuffled pass, with a
// freshly drawn seed.
func NewScanOptions() ScanOptions {
	return ScanOptions{
		NumRepeats:         1,
		NumRepeatsPerPoint: 1,
		Seed:               rand.Int63(),
	}
}

// Validate checks the options for use in a scan spec; see NewScanSpec for
// where the seed is resolved.
func (o ScanOptions) Validate() error {
	if o.NumRepeats < 1 {
		return fmt.Errorf("%w: num_repeats must be at least 1, got %d", ErrBadScanOptions, o.NumRepeats)
	}
	if o.NumRepeatsPerPoint < 1 {
		return fmt.Errorf("%w: num_repeats_per_point must be at least 1, got %d",
			ErrBadScanOptions, o.NumRepeatsPerPoint)
	}
	return nil
}
