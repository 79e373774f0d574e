package spectral

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"math"
	"os"

	"github.com/x448/float16"
)

// Image packs the magnitudes of one row as half precision bits, frame
// major, Bins values per frame.
func (f *Frame) Image(row int) []uint16 {
	out := make([]uint16, 0, f.Frames*f.Bins)
	for t := 0; t < f.Frames; t++ {
		for k := 0; k < f.Bins; k++ {
			i := f.index(row, t, k)
			m := math.Hypot(f.Real[i], f.Imag[i])
			out = append(out, float16.Fromfloat32(float32(m)).Bits())
		}
	}
	return out
}

// DumpPNG writes one row as an image, time on x and frequency on y.
// Red carries the real plane, green the imaginary plane.
func (f *Frame) DumpPNG(name string, row int, reverse bool) error {
	if row < 0 || row >= f.Rows {
		return fmt.Errorf("dump %s: row %d out of range [0, %d)", name, row, f.Rows)
	}

	var lo, hi = [2]float64{math.Inf(1), math.Inf(1)}, [2]float64{math.Inf(-1), math.Inf(-1)}
	for t := 0; t < f.Frames; t++ {
		for k := 0; k < f.Bins; k++ {
			i := f.index(row, t, k)
			for l, w := range [2]float64{f.Real[i], f.Imag[i]} {
				lo[l] = math.Min(lo[l], w)
				hi[l] = math.Max(hi[l], w)
			}
		}
	}

	img := image.NewRGBA(image.Rect(0, 0, f.Frames, f.Bins))
	for t := 0; t < f.Frames; t++ {
		for k := 0; k < f.Bins; k++ {
			i := f.index(row, t, k)
			val0 := unit(f.Real[i], lo[0], hi[0])
			val1 := unit(f.Imag[i], lo[1], hi[1])
			col := color.RGBA{
				R: uint8(255 * val0),
				G: uint8(255 * val1),
				B: uint8(255 * (val0 + val1) * 0.5),
				A: 255,
			}
			if reverse {
				img.SetRGBA(t, f.Bins-k-1, col)
			} else {
				img.SetRGBA(t, k, col)
			}
		}
	}

	file, err := os.Create(name)
	if err != nil {
		return fmt.Errorf("dump %s: %w", name, err)
	}
	if err := png.Encode(file, img); err != nil {
		file.Close()
		return fmt.Errorf("dump %s: %w", name, err)
	}
	return file.Close()
}

func unit(w, lo, hi float64) float64 {
	if hi <= lo {
		return 0
	}
	return (w - lo) / (hi - lo)
}
