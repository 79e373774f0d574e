package spectral

// Frame holds a batch of one-sided spectra laid out as [row][frame][bin].
// Real and Imag have Rows*Frames*Bins elements each.
type Frame struct {
	Rows   int
	Frames int
	Bins   int

	Real []float64
	Imag []float64
}

// NewFrame allocates a zeroed frame of the given shape.
func NewFrame(rows, frames, bins int) *Frame {
	n := rows * frames * bins
	return &Frame{
		Rows:   rows,
		Frames: frames,
		Bins:   bins,
		Real:   make([]float64, n),
		Imag:   make([]float64, n),
	}
}

// Shape returns (rows, frames, bins).
func (f *Frame) Shape() [3]int {
	return [3]int{f.Rows, f.Frames, f.Bins}
}

// Len returns the number of complex cells the shape describes.
func (f *Frame) Len() int {
	return f.Rows * f.Frames * f.Bins
}

func (f *Frame) index(row, t, k int) int {
	return (row*f.Frames+t)*f.Bins + k
}

// At returns the bin k of frame t in row.
func (f *Frame) At(row, t, k int) complex128 {
	i := f.index(row, t, k)
	return complex(f.Real[i], f.Imag[i])
}

// Set stores v as bin k of frame t in row.
func (f *Frame) Set(row, t, k int, v complex128) {
	i := f.index(row, t, k)
	f.Real[i] = real(v)
	f.Imag[i] = imag(v)
}

// Clone returns a deep copy.
func (f *Frame) Clone() *Frame {
	g := &Frame{Rows: f.Rows, Frames: f.Frames, Bins: f.Bins}
	g.Real = append([]float64(nil), f.Real...)
	g.Imag = append([]float64(nil), f.Imag...)
	return g
}
