package spectral

import (
	"image/png"
	"math"
	"math/cmplx"
	"math/rand"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/x448/float16"
)

func noise(seed int64, n int) []float64 {
	rng := rand.New(rand.NewSource(seed))
	out := make([]float64, n)
	for i := range out {
		out[i] = rng.NormFloat64()
	}
	return out
}

func newTestCodec(t *testing.T) *Codec {
	t.Helper()
	c, err := NewCodec(400, 100, 0.3, "hamming")
	require.NoError(t, err)
	return c
}

func TestNewCodecRejectsBadGeometry(t *testing.T) {
	tests := []struct {
		name     string
		nfft     int
		hop      int
		exponent float64
		window   string
	}{
		{"odd n_fft", 401, 100, 0.3, "hamming"},
		{"zero hop", 400, 0, 0.3, "hamming"},
		{"hop above half window", 400, 201, 0.3, "hamming"},
		{"zero exponent", 400, 100, 0, "hamming"},
		{"nan exponent", 400, 100, math.NaN(), "hamming"},
		{"unknown window", 400, 100, 0.3, "kaiser"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewCodec(tt.nfft, tt.hop, tt.exponent, tt.window)
			assert.ErrorIs(t, err, ErrBadGeometry)
		})
	}
}

func TestNewCodecDefaultWindow(t *testing.T) {
	c, err := NewCodec(400, 100, 0.3, "")
	require.NoError(t, err)
	assert.Equal(t, "hamming", c.Window)
	assert.InDelta(t, 0.08, c.stft.Window[0], 1e-12)
	assert.InDelta(t, 1.0, c.stft.Window[200], 1e-12)
}

func TestAnalyzeShape(t *testing.T) {
	c := newTestCodec(t)
	f := c.Analyze([][]float64{noise(1, 16000), noise(2, 16000)})
	assert.Equal(t, [3]int{2, 161, 201}, f.Shape())
	assert.Len(t, f.Real, 2*161*201)
	assert.Len(t, f.Imag, 2*161*201)
}

// directBin is the compressed bin k of frame t of the reflect-centered,
// periodic-Hamming windowed row, summed straight from the DFT definition.
func directBin(x []float64, nfft, hop, t, k int, p float64) complex128 {
	n := len(x)
	var sum complex128
	for m := 0; m < nfft; m++ {
		j := t*hop - nfft/2 + m
		if j < 0 {
			j = -j
		}
		if j >= n {
			j = 2*(n-1) - j
		}
		w := 0.54 - 0.46*math.Cos(2*math.Pi*float64(m)/float64(nfft))
		sum += complex(w*x[j], 0) * cmplx.Exp(complex(0, -2*math.Pi*float64(k*m)/float64(nfft)))
	}
	mag := cmplx.Abs(sum)
	if mag == 0 {
		return 0
	}
	return sum * complex(math.Pow(mag, p-1), 0)
}

func TestAnalyzeMatchesDirectDFT(t *testing.T) {
	c := newTestCodec(t)
	x := noise(7, 1600)
	f := c.Analyze([][]float64{x})
	require.Equal(t, [3]int{1, 17, 201}, f.Shape())

	for _, frame := range []int{0, 1, 3, 10, 16} {
		for _, bin := range []int{0, 1, 7, 59, 200} {
			want := directBin(x, 400, 100, frame, bin, 0.3)
			got := f.At(0, frame, bin)
			assert.InDelta(t, real(want), real(got), 1e-9, "frame %d bin %d real", frame, bin)
			assert.InDelta(t, imag(want), imag(got), 1e-9, "frame %d bin %d imag", frame, bin)
		}
	}
}

func TestSynthesizeInvertsAnalyze(t *testing.T) {
	for _, window := range []string{"hamming", "hann"} {
		c, err := NewCodec(400, 100, 0.3, window)
		require.NoError(t, err)
		for _, length := range []int{1, 50, 100, 150, 1000, 16050} {
			rows := [][]float64{noise(int64(length), length), noise(int64(length)+1, length)}
			got := c.Synthesize(c.Analyze(rows), length)
			require.Len(t, got, 2)
			for r := range rows {
				require.Len(t, got[r], length, "%s length %d", window, length)
				for i := range rows[r] {
					require.InDelta(t, rows[r][i], got[r][i], 1e-9, "%s length %d row %d sample %d", window, length, r, i)
				}
			}
		}
	}
}

func TestSynthesizeLeavesFrameUntouched(t *testing.T) {
	c := newTestCodec(t)
	f := c.Analyze([][]float64{noise(3, 800)})
	before := f.Clone()
	c.Synthesize(f, 800)
	assert.Equal(t, before, f)
}

func TestCompress(t *testing.T) {
	f := NewFrame(1, 1, 3)
	f.Set(0, 0, 0, complex(3, 4))
	f.Set(0, 0, 1, complex(-2, 0))

	Compress(f, 0.3)

	m := math.Pow(5, 0.3)
	assert.InDelta(t, m*0.6, f.Real[0], 1e-12)
	assert.InDelta(t, m*0.8, f.Imag[0], 1e-12)
	assert.InDelta(t, -math.Pow(2, 0.3), f.Real[1], 1e-12)
	assert.Equal(t, 0.0, f.Real[2])
	assert.Equal(t, 0.0, f.Imag[2])

	Decompress(f, 0.3)
	assert.InDelta(t, 3, f.Real[0], 1e-12)
	assert.InDelta(t, 4, f.Imag[0], 1e-12)
	assert.InDelta(t, -2, f.Real[1], 1e-12)
}

func TestReflect(t *testing.T) {
	// 0 1 2 3 mirrored: ... 2 1 | 0 1 2 3 | 2 1 0 1 ...
	got := make([]int, 0, 12)
	for i := -2; i < 10; i++ {
		got = append(got, reflect(i, 4))
	}
	assert.Equal(t, []int{2, 1, 0, 1, 2, 3, 2, 1, 0, 1, 2, 3}, got)
	assert.Equal(t, 0, reflect(-7, 1))
}

func TestImage(t *testing.T) {
	f := NewFrame(2, 2, 3)
	f.Set(1, 1, 2, complex(3, 4))
	img := f.Image(1)
	require.Len(t, img, 6)
	assert.Equal(t, float32(5), float16.Frombits(img[5]).Float32())
	assert.Equal(t, float32(0), float16.Frombits(img[0]).Float32())
}

func TestDumpPNG(t *testing.T) {
	c := newTestCodec(t)
	f := c.Analyze([][]float64{noise(4, 1000)})
	name := filepath.Join(t.TempDir(), "spec.png")

	require.NoError(t, f.DumpPNG(name, 0, true))

	file, err := os.Open(name)
	require.NoError(t, err)
	defer file.Close()
	img, err := png.Decode(file)
	require.NoError(t, err)
	assert.Equal(t, f.Frames, img.Bounds().Dx())
	assert.Equal(t, f.Bins, img.Bounds().Dy())

	assert.Error(t, f.DumpPNG(name, 1, true))
}
