package simplify

import (
	"io"
	"math"
)

const (
	// DefaultQuality keeps half of the triangles
	DefaultQuality = 0.5
	// DefaultMaxIterationCount caps the number of collapse passes
	DefaultMaxIterationCount = 100
	// DefaultAggressiveness is the threshold growth exponent
	DefaultAggressiveness = 7.0

	// rebuildInterval is the number of passes between reference rebuilds
	rebuildInterval = 5
	thresholdScale  = 1e-9
)

// Options controls a simplification run
type Options struct {
	// Quality is the fraction of triangles to keep, clamped to [0, 1]
	Quality float64
	// MaxIterationCount is the maximum number of collapse passes
	MaxIterationCount int
	// Aggressiveness controls how fast the error threshold rises per pass.
	// Lower values give better quality at the cost of more passes.
	Aggressiveness float64
	// Log receives progress and diagnostics when non-nil
	Log io.Writer
}

// DefaultOptions returns the default simplification options
func DefaultOptions() Options {
	return Options{
		Quality:           DefaultQuality,
		MaxIterationCount: DefaultMaxIterationCount,
		Aggressiveness:    DefaultAggressiveness,
	}
}

// normalized returns a copy with the quality clamped and unset fields
// replaced by their defaults
func (o Options) normalized() Options {
	switch {
	case math.IsNaN(o.Quality):
		o.Quality = DefaultQuality
	case o.Quality < 0:
		o.Quality = 0
	case o.Quality > 1:
		o.Quality = 1
	}
	if o.MaxIterationCount <= 0 {
		o.MaxIterationCount = DefaultMaxIterationCount
	}
	if o.Aggressiveness <= 0 || math.IsNaN(o.Aggressiveness) {
		o.Aggressiveness = DefaultAggressiveness
	}
	return o
}

// TargetTriangleCount returns the number of triangles to keep out of
// triangleCount for the configured quality
func (o Options) TargetTriangleCount(triangleCount int) int {
	q := o.normalized().Quality
	return int(math.Round(float64(triangleCount) * q))
}

// threshold returns the error a collapse may cost in the given pass
func threshold(iteration int, aggressiveness float64) float64 {
	return thresholdScale * math.Pow(float64(iteration+3), aggressiveness)
}
