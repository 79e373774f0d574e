package audio

import (
	"fmt"
	"os"

	"github.com/faiface/beep"
	"github.com/faiface/beep/wav"
)

// LoadWav loads a mono wav file to a sample vector.
func LoadWav(path string) (Signal, error) {
	file, err := os.Open(path)
	if err != nil {
		return Signal{}, fmt.Errorf("load %s: %w", path, err)
	}

	stream, format, err := wav.Decode(file)
	if err != nil {
		file.Close()
		return Signal{}, fmt.Errorf("decode %s: %w", path, err)
	}
	defer stream.Close()

	if format.NumChannels != 1 {
		return Signal{}, fmt.Errorf("decode %s: %d channels: %w", path, format.NumChannels, ErrNotMono)
	}

	scale := fullScale(format.Precision)
	var out = make([]float64, 0, stream.Len())
	var samples = make([][2]float64, 512)
	for {
		n, ok := stream.Stream(samples)
		if !ok {
			break
		}
		for i := 0; i < n; i++ {
			out = append(out, samples[i][0]*scale)
		}
	}
	if err := stream.Err(); err != nil {
		return Signal{}, fmt.Errorf("decode %s: %w", path, err)
	}
	if len(out) == 0 {
		return Signal{}, fmt.Errorf("decode %s: %w", path, ErrFileNotLoaded)
	}

	return Signal{Samples: out, SampleRate: int(format.SampleRate)}, nil
}

// fullScale maps decoded samples onto [-1, 1) with 2^(bits-1) as full
// scale, the same scale LoadFlac and SaveWav use. The wav decoder divides
// 16 and 24 bit PCM by 2^bits-1 instead.
func fullScale(precision int) float64 {
	switch precision {
	case 2, 3:
		bits := uint(precision * 8)
		return float64(uint64(1)<<bits-1) / float64(uint64(1)<<(bits-1))
	}
	return 1
}

// SaveWav saves a mono 16-bit wav file from the signal.
func SaveWav(path string, s Signal) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}

	format := beep.Format{
		SampleRate:  beep.SampleRate(s.SampleRate),
		NumChannels: 1,
		Precision:   2,
	}

	if err := wav.Encode(f, streamer(s.Samples), format); err != nil {
		f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}

	if err := f.Close(); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	return nil
}

func streamer(vec []float64) beep.Streamer {
	var pos int
	return beep.StreamerFunc(func(samples [][2]float64) (n int, ok bool) {
		if pos >= len(vec) {
			return 0, false
		}
		for n < len(samples) && pos < len(vec) {
			samples[n][0] = vec[pos]
			samples[n][1] = vec[pos]
			n++
			pos++
		}
		return n, true
	})
}
