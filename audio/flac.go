package audio

import (
	"fmt"
	"io"

	"github.com/mewkiz/flac"
)

// LoadFlac loads a mono flac file to a sample vector.
func LoadFlac(path string) (Signal, error) {
	stream, err := flac.Open(path)
	if err != nil {
		return Signal{}, fmt.Errorf("load %s: %w", path, err)
	}
	defer stream.Close()

	if stream.Info.NChannels != 1 {
		return Signal{}, fmt.Errorf("decode %s: %d channels: %w", path, stream.Info.NChannels, ErrNotMono)
	}

	// full scale of a signed sample at the stream's bit depth
	scale := float64(int64(1) << (stream.Info.BitsPerSample - 1))

	var out []float64
	for {
		frame, err := stream.ParseNext()
		if err == io.EOF {
			break
		}
		if err != nil {
			return Signal{}, fmt.Errorf("decode %s: %w", path, err)
		}
		for _, sample := range frame.Subframes[0].Samples {
			out = append(out, float64(sample)/scale)
		}
	}
	if len(out) == 0 {
		return Signal{}, fmt.Errorf("decode %s: %w", path, ErrFileNotLoaded)
	}

	return Signal{Samples: out, SampleRate: int(stream.Info.SampleRate)}, nil
}
