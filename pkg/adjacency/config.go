package adjacency

import (
	"github.com/statecraft/precinctgraph/pkg/errors"
)

// FeetToMeters converts the human-specified thresholds to the working
// projection's linear unit.
const FeetToMeters = 0.3048

// bufferQuadSegs is the number of segments per quarter circle used when
// buffering geometries for the tolerance test.
const bufferQuadSegs = 8

// Config holds the adjacency build parameters.
// Thresholds are specified in feet and converted to meters exactly once,
// before any geometric comparison.
type Config struct {
	// MinSharedBoundaryFeet is the minimum shared boundary length for a
	// pair to count as adjacent, in feet.
	MinSharedBoundaryFeet float64

	// ProximityToleranceFeet is the maximum gap between non-touching
	// polygons for the tolerance tier, in feet.
	ProximityToleranceFeet float64

	// FuzzMeters is the small buffer applied to one buffered boundary so
	// near-coincident tolerance boundaries register an intersection.
	FuzzMeters float64

	// IDAttribute names the input feature property that carries the
	// region identifier.
	IDAttribute string

	// Workers bounds the number of goroutines classifying candidate
	// pairs. Zero or one means serial classification.
	Workers int
}

// Default returns the standard build parameters: 200 feet minimum shared
// boundary, 200 feet proximity tolerance, 1 meter fuzz, and GEOID as the
// identifier property.
func Default() Config {
	return Config{
		MinSharedBoundaryFeet:  200,
		ProximityToleranceFeet: 200,
		FuzzMeters:             1,
		IDAttribute:            "GEOID",
	}
}

// Validate checks the configuration before any processing starts.
// Non-positive thresholds and a tolerance smaller than the minimum shared
// boundary are rejected with an INVALID_PARAMETER error.
func (c Config) Validate() error {
	if c.MinSharedBoundaryFeet <= 0 {
		return errors.New(errors.ErrCodeInvalidParameter,
			"minimum shared boundary must be positive, got %g ft", c.MinSharedBoundaryFeet)
	}
	if c.ProximityToleranceFeet <= 0 {
		return errors.New(errors.ErrCodeInvalidParameter,
			"proximity tolerance must be positive, got %g ft", c.ProximityToleranceFeet)
	}
	if c.FuzzMeters <= 0 {
		return errors.New(errors.ErrCodeInvalidParameter,
			"fuzz must be positive, got %g m", c.FuzzMeters)
	}
	if c.ProximityToleranceFeet < c.MinSharedBoundaryFeet {
		return errors.New(errors.ErrCodeInvalidParameter,
			"proximity tolerance (%g ft) must be at least the minimum shared boundary (%g ft)",
			c.ProximityToleranceFeet, c.MinSharedBoundaryFeet)
	}
	if c.IDAttribute == "" {
		return errors.New(errors.ErrCodeInvalidParameter, "id attribute name must not be empty")
	}
	if c.Workers < 0 {
		return errors.New(errors.ErrCodeInvalidParameter,
			"workers must not be negative, got %d", c.Workers)
	}
	return nil
}

// minSharedMeters returns the minimum shared boundary threshold in meters.
func (c Config) minSharedMeters() float64 {
	return c.MinSharedBoundaryFeet * FeetToMeters
}

// toleranceMeters returns the proximity tolerance in meters.
func (c Config) toleranceMeters() float64 {
	return c.ProximityToleranceFeet * FeetToMeters
}
