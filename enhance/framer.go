package enhance

// PaddedLen returns the smallest multiple of unit not below length.
func PaddedLen(length, unit int) int {
	return (length + unit - 1) / unit * unit
}

// Pad extends x to PaddedLen(len(x), unit) samples. The padding repeats
// x from its first sample, wrapping around when more than len(x) samples
// are missing.
func Pad(x []float64, unit int) []float64 {
	n := PaddedLen(len(x), unit)
	out := make([]float64, n)
	copy(out, x)
	for i := len(x); i < n; i++ {
		out[i] = x[(i-len(x))%len(x)]
	}
	return out
}
