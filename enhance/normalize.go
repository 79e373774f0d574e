package enhance

import (
	"fmt"
	"math"
)

// SilencePolicy decides what happens to a signal without energy.
type SilencePolicy string

const (
	// SilenceIdentity treats a silent signal as already normalized.
	SilenceIdentity SilencePolicy = "identity"
	// SilenceReject surfaces ErrDegenerateSignal.
	SilenceReject SilencePolicy = "reject"
)

// Valid reports whether p is a known policy.
func (p SilencePolicy) Valid() bool {
	return p == SilenceIdentity || p == SilenceReject
}

// Normalize returns x scaled by c = sqrt(len(x) / sum(x^2)) and c.
// The input is not modified.
func Normalize(x []float64) ([]float64, float64, error) {
	if len(x) == 0 {
		return nil, 0, ErrEmptySignal
	}

	var energy float64
	for i, v := range x {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, 0, fmt.Errorf("%w: %v at sample %d", ErrNonFiniteSignal, v, i)
		}
		energy += v * v
	}
	if math.IsInf(energy, 0) {
		return nil, 0, fmt.Errorf("%w: energy overflows over %d samples", ErrNonFiniteSignal, len(x))
	}
	if energy == 0 {
		return nil, 0, fmt.Errorf("%w: zero energy over %d samples", ErrDegenerateSignal, len(x))
	}

	c := math.Sqrt(float64(len(x)) / energy)
	if math.IsNaN(c) || math.IsInf(c, 0) || c == 0 {
		return nil, 0, fmt.Errorf("%w: normalization factor %v", ErrDegenerateSignal, c)
	}

	out := make([]float64, len(x))
	for i, v := range x {
		out[i] = v * c
	}
	return out, c, nil
}

// Denormalize returns x divided by c.
func Denormalize(x []float64, c float64) []float64 {
	out := make([]float64, len(x))
	for i, v := range x {
		out[i] = v / c
	}
	return out
}
