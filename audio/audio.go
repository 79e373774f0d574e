package audio

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"
)

// ErrFileNotLoaded is returned when a file decodes to no samples.
var ErrFileNotLoaded = errors.New("audio: file not loaded")

// ErrNotMono is returned for recordings with more than one channel.
var ErrNotMono = errors.New("audio: not a single-channel recording")

// ErrUnknownFormat is returned by Load for extensions it cannot decode.
var ErrUnknownFormat = errors.New("audio: unknown file format")

// Signal is a mono recording.
type Signal struct {
	Samples    []float64
	SampleRate int
}

// Len returns the number of samples.
func (s Signal) Len() int {
	return len(s.Samples)
}

// Duration returns the playback length of the signal.
func (s Signal) Duration() time.Duration {
	if s.SampleRate <= 0 {
		return 0
	}
	return time.Duration(len(s.Samples)) * time.Second / time.Duration(s.SampleRate)
}

// Supported reports whether Load can decode the file name.
func Supported(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".wav", ".flac":
		return true
	}
	return false
}

// Load decodes a WAV or FLAC file, chosen by extension.
func Load(path string) (Signal, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".wav":
		return LoadWav(path)
	case ".flac":
		return LoadFlac(path)
	}
	return Signal{}, fmt.Errorf("load %s: %w", path, ErrUnknownFormat)
}
