package model

import (
	"errors"
	"fmt"

	"github.com/neurlang/goenhance/spectral"
)

// ErrShapeMismatch is returned when an estimate does not have the shape of
// the spectrum it was computed from.
var ErrShapeMismatch = errors.New("model: estimate shape mismatch")

// Adapter maps a compressed spectrum to an estimated compressed spectrum
// of identical shape. Implementations must not modify their input.
type Adapter interface {
	Estimate(in *spectral.Frame) (*spectral.Frame, error)
}

// Func adapts an ordinary function to the Adapter interface.
type Func func(in *spectral.Frame) (*spectral.Frame, error)

// Estimate calls fn(in).
func (fn Func) Estimate(in *spectral.Frame) (*spectral.Frame, error) {
	return fn(in)
}

// Identity returns a copy of its input.
type Identity struct{}

// Estimate returns a copy of in.
func (Identity) Estimate(in *spectral.Frame) (*spectral.Frame, error) {
	return in.Clone(), nil
}

// Gain scales every compressed bin by a fixed factor.
type Gain float64

// Estimate returns in scaled by g.
func (g Gain) Estimate(in *spectral.Frame) (*spectral.Frame, error) {
	out := in.Clone()
	for i := range out.Real {
		out.Real[i] *= float64(g)
		out.Imag[i] *= float64(g)
	}
	return out, nil
}

// CheckShape reports whether out can stand in for in.
func CheckShape(in, out *spectral.Frame) error {
	if out == nil {
		return fmt.Errorf("%w: no estimate", ErrShapeMismatch)
	}
	if in.Shape() != out.Shape() {
		return fmt.Errorf("%w: got %v, want %v", ErrShapeMismatch, out.Shape(), in.Shape())
	}
	if len(out.Real) != out.Len() || len(out.Imag) != out.Len() {
		return fmt.Errorf("%w: %d real and %d imag values for shape %v",
			ErrShapeMismatch, len(out.Real), len(out.Imag), out.Shape())
	}
	return nil
}
