package spectral

import "math"

// Compress remaps every bin of f in place to m^p (cos θ, sin θ).
func Compress(f *Frame, p float64) {
	powerLaw(f, p)
}

// Decompress undoes Compress with the same exponent.
func Decompress(f *Frame, p float64) {
	powerLaw(f, 1/p)
}

// powerLaw raises the magnitude of each bin to e keeping its phase.
// Scaling re and im by m^(e-1) equals m^e (cos θ, sin θ).
func powerLaw(f *Frame, e float64) {
	for i := range f.Real {
		m := math.Hypot(f.Real[i], f.Imag[i])
		if m == 0 {
			continue
		}
		scale := math.Pow(m, e-1)
		f.Real[i] *= scale
		f.Imag[i] *= scale
	}
}
