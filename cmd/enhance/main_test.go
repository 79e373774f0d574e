package main

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/neurlang/goenhance/audio"
	"github.com/neurlang/goenhance/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDryRun(t *testing.T) {
	root := t.TempDir()
	noisy := filepath.Join(root, "noisy")
	require.NoError(t, os.Mkdir(noisy, 0o755))
	out := filepath.Join(root, "enhanced")

	samples := make([]float64, 3333)
	for i := range samples {
		samples[i] = 0.2 * math.Sin(float64(i)/7)
	}
	require.NoError(t, audio.SaveWav(filepath.Join(noisy, "p257_001.wav"), audio.Signal{Samples: samples, SampleRate: 16000}))

	cmd := newCommand()
	cmd.SetArgs([]string{"--dry-run", "--test-dir", root, "--save-dir", out, "--log-level", "error"})
	require.NoError(t, cmd.Execute())

	got, err := audio.Load(filepath.Join(out, "p257_001.wav"))
	require.NoError(t, err)
	assert.Equal(t, len(samples), got.Len())
}

func TestOverrideOnlyChangedFlags(t *testing.T) {
	path := filepath.Join(t.TempDir(), "enhance.yaml")
	require.NoError(t, os.WriteFile(path, []byte("noisy_dir: /from/file\ncut_len: 32000\nhop: 50\n"), 0o644))
	cfg, err := config.Load(path)
	require.NoError(t, err)

	cmd := newCommand()
	require.NoError(t, cmd.ParseFlags([]string{"--cut-len", "48000"}))
	flags := config.Default()
	flags.CutLen = 48000

	override(cmd, &cfg, &flags)
	assert.Equal(t, 48000, cfg.CutLen)
	assert.Equal(t, 50, cfg.Hop)
	assert.Equal(t, "/from/file", cfg.NoisyDir)
}

func TestInvalidConfig(t *testing.T) {
	cmd := newCommand()
	cmd.SetArgs([]string{"--dry-run", "--noisy-dir", t.TempDir(), "--n-fft", "401"})
	assert.ErrorIs(t, cmd.Execute(), config.ErrInvalid)
}
