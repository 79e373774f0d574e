package main

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/neurlang/goenhance/audio"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToSpec(t *testing.T) {
	name := filepath.Join(t.TempDir(), "p232_005.wav")
	samples := make([]float64, 1600)
	for i := range samples {
		samples[i] = 0.4 * math.Cos(float64(i)/3)
	}
	require.NoError(t, audio.SaveWav(name, audio.Signal{Samples: samples, SampleRate: 16000}))

	cmd := newCommand()
	cmd.SetArgs([]string{"--raw", name})
	require.NoError(t, cmd.Execute())

	_, err := os.Stat(name + ".png")
	require.NoError(t, err)

	info, err := os.Stat(name + ".f16")
	require.NoError(t, err)
	// 17 frames of 201 bins, two bytes each
	assert.Equal(t, int64(17*201*2), info.Size())
}

func TestToSpecRows(t *testing.T) {
	name := filepath.Join(t.TempDir(), "long.wav")
	require.NoError(t, audio.SaveWav(name, audio.Signal{Samples: make([]float64, 3000), SampleRate: 16000}))

	cmd := newCommand()
	cmd.SetArgs([]string{"--cut-len", "1000", name})
	require.NoError(t, cmd.Execute())

	for _, suffix := range []string{".0.png", ".1.png", ".2.png", ".3.png"} {
		_, err := os.Stat(name + suffix)
		assert.NoError(t, err, suffix)
	}
}

func TestToSpecNeedsFile(t *testing.T) {
	cmd := newCommand()
	cmd.SetArgs([]string{})
	assert.Error(t, cmd.Execute())
}
