package spectral

import (
	"errors"
	"fmt"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
	"github.com/mjibson/go-dsp/window"
	"github.com/r9y9/gossp/stft"
)

// ErrBadGeometry is returned by NewCodec for transform parameters that
// cannot reconstruct their input.
var ErrBadGeometry = errors.New("spectral: bad transform geometry")

// Codec represents the forward and inverse transform configuration.
// The same Codec must be used for analysis and synthesis.
type Codec struct {
	NFFT     int
	Hop      int
	Exponent float64
	Window   string

	stft *stft.STFT
}

// NewCodec creates a new Codec. The window is "hamming" or "hann", both
// periodic; an empty name selects hamming.
func NewCodec(nfft, hop int, exponent float64, windowName string) (*Codec, error) {
	if nfft <= 0 || nfft%2 != 0 {
		return nil, fmt.Errorf("%w: n_fft %d must be positive and even", ErrBadGeometry, nfft)
	}
	if hop <= 0 || hop > nfft/2 {
		return nil, fmt.Errorf("%w: hop %d must be in [1, %d]", ErrBadGeometry, hop, nfft/2)
	}
	if !(exponent > 0) {
		return nil, fmt.Errorf("%w: compression exponent %v must be positive", ErrBadGeometry, exponent)
	}

	w, err := periodicWindow(windowName, nfft)
	if err != nil {
		return nil, err
	}

	s := stft.New(hop, nfft)
	s.Window = w

	if windowName == "" {
		windowName = "hamming"
	}
	return &Codec{
		NFFT:     nfft,
		Hop:      hop,
		Exponent: exponent,
		Window:   windowName,
		stft:     s,
	}, nil
}

// periodicWindow is the first n points of the symmetric n+1 window.
func periodicWindow(name string, n int) ([]float64, error) {
	switch name {
	case "", "hamming":
		return window.Hamming(n + 1)[:n], nil
	case "hann":
		return window.Hann(n + 1)[:n], nil
	}
	return nil, fmt.Errorf("%w: unknown window %q", ErrBadGeometry, name)
}

// Bins returns the number of one-sided frequency bins.
func (c *Codec) Bins() int {
	return c.NFFT/2 + 1
}

// NumFrames returns the number of STFT frames of a row of length samples.
func (c *Codec) NumFrames(length int) int {
	return length/c.Hop + 1
}

// Analyze returns the compressed one-sided spectra of equal-length rows.
func (c *Codec) Analyze(rows [][]float64) *Frame {
	if len(rows) == 0 {
		return NewFrame(0, 0, c.Bins())
	}
	length := len(rows[0])
	f := NewFrame(len(rows), c.NumFrames(length), c.Bins())

	for r, row := range rows {
		if len(row) != length {
			panic(fmt.Sprintf("spectral: row %d has %d samples, want %d", r, len(row), length))
		}
		spectrum := c.stft.STFT(c.center(row))
		if len(spectrum) != f.Frames {
			panic(fmt.Sprintf("spectral: got %d frames, want %d", len(spectrum), f.Frames))
		}
		for t := range spectrum {
			for k := 0; k < f.Bins; k++ {
				f.Set(r, t, k, spectrum[t][k])
			}
		}
	}

	Compress(f, c.Exponent)
	return f
}

// Synthesize decompresses f and returns rows of exactly length samples.
// f is left unchanged.
func (c *Codec) Synthesize(f *Frame, length int) [][]float64 {
	g := f.Clone()
	Decompress(g, c.Exponent)

	half := c.NFFT / 2
	out := make([][]float64, g.Rows)
	for r := range out {
		spectrogram := make([][]complex128, g.Frames)
		for t := range spectrogram {
			full := make([]complex128, c.NFFT)
			for k := 0; k < g.Bins; k++ {
				v := g.At(r, t, k)
				full[k] = v
				if k > 0 && c.NFFT-k > k {
					full[c.NFFT-k] = cmplx.Conj(v)
				}
			}
			spectrogram[t] = full
		}

		signal := ISTFT(c.stft, spectrogram)
		if len(signal) < half+length {
			panic(fmt.Sprintf("spectral: %d frames cannot cover %d samples", g.Frames, length))
		}
		out[r] = append([]float64(nil), signal[half:half+length]...)
	}
	return out
}

// center extends row by NFFT/2 reflected samples on both sides.
func (c *Codec) center(row []float64) []float64 {
	half := c.NFFT / 2
	out := make([]float64, len(row)+2*half)
	for i := range out {
		out[i] = row[reflect(i-half, len(row))]
	}
	return out
}

// reflect maps i into [0, n) by mirroring at both ends without repeating
// the edge sample, bouncing as often as needed for short rows.
func reflect(i, n int) int {
	if n == 1 {
		return 0
	}
	period := 2 * (n - 1)
	i %= period
	if i < 0 {
		i += period
	}
	if i >= n {
		i = period - i
	}
	return i
}

// ISTFT overlap-adds the windowed inverse transforms of a two-sided
// spectrogram and divides by the squared window sum.
func ISTFT(s *stft.STFT, spectrogram [][]complex128) []float64 {
	frameLen := len(spectrogram[0])
	numFrames := len(spectrogram)
	reconstructedSignal := make([]float64, frameLen+(numFrames-1)*s.FrameShift)
	windowSum := make([]float64, len(reconstructedSignal))

	for i := 0; i < numFrames; i++ {
		buf := fft.IFFT(spectrogram[i])
		for j := 0; j < frameLen; j++ {
			pos := i*s.FrameShift + j
			reconstructedSignal[pos] += real(buf[j]) * s.Window[j]
			windowSum[pos] += s.Window[j] * s.Window[j]
		}
	}

	for i := range reconstructedSignal {
		if windowSum[i] > 1e-10 {
			reconstructedSignal[i] /= windowSum[i]
		}
	}

	return reconstructedSignal
}
