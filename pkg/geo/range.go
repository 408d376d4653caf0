package geo

import (
	"errors"
	"fmt"
	"math/rand/v2"
)

// ErrInvalidRange is returned when a range has min > max.
var ErrInvalidRange = errors.New("invalid range")

// Range is an inclusive integer interval.
type Range struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// Valid reports whether Min <= Max.
func (r Range) Valid() bool {
	return r.Min <= r.Max
}

// Span returns Max - Min.
func (r Range) Span() int {
	return r.Max - r.Min
}

// Source is the pseudo-random primitive the generators draw from.
// *rand.Rand from math/rand/v2 satisfies it.
type Source interface {
	IntN(n int) int
}

// NewSource returns a PCG-backed source. Equal seeds yield equal sequences.
func NewSource(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9E3779B97F4A7C15))
}

// SampleRange returns a value uniformly distributed in [min, max].
// A degenerate range (min == max) consumes no randomness.
func SampleRange(src Source, min, max int) (int, error) {
	if min > max {
		return 0, fmt.Errorf("%w: min %d > max %d", ErrInvalidRange, min, max)
	}
	if min == max {
		return min, nil
	}
	return min + src.IntN(max-min+1), nil
}

// Sample draws from r. See SampleRange.
func (r Range) Sample(src Source) (int, error) {
	return SampleRange(src, r.Min, r.Max)
}
