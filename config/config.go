// Package config holds the options of an enhancement run.
//
// Values come from an optional YAML file and are then overridden by
// command line flags. Default mirrors the geometry the models are trained
// with.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/neurlang/goenhance/enhance"
	"github.com/neurlang/goenhance/model"
	"github.com/neurlang/goenhance/spectral"
	"gopkg.in/yaml.v3"
)

// ErrInvalid is returned by Validate.
var ErrInvalid = errors.New("config: invalid")

// ONNX selects the runtime library and the tensor names of the network.
type ONNX struct {
	LibraryPath string `yaml:"library_path"`
	Input       string `yaml:"input"`
	OutputReal  string `yaml:"output_real"`
	OutputImag  string `yaml:"output_imag"`
}

// Config represents one enhancement run.
type Config struct {
	ModelPath  string `yaml:"model_path"`
	TestDir    string `yaml:"test_dir"`
	NoisyDir   string `yaml:"noisy_dir"`
	SaveDir    string `yaml:"save_dir"`
	SaveTracks bool   `yaml:"save_tracks"`

	SampleRate int                   `yaml:"sample_rate"`
	FrameUnit  int                   `yaml:"frame_unit"`
	CutLen     int                   `yaml:"cut_len"`
	NFFT       int                   `yaml:"n_fft"`
	Hop        int                   `yaml:"hop"`
	Exponent   float64               `yaml:"compress_exponent"`
	Window     string                `yaml:"window"`
	Silence    enhance.SilencePolicy `yaml:"silence"`

	UseCUDA bool `yaml:"use_cuda"`
	Workers int  `yaml:"workers"`

	ONNX ONNX `yaml:"onnx"`
}

// Default returns the evaluation defaults.
func Default() Config {
	names := model.DefaultONNXConfig()
	return Config{
		ModelPath:  "./best_ckpt/ckpt_80.onnx",
		SaveDir:    "./saved_tracks_best",
		SaveTracks: true,
		SampleRate: enhance.SampleRate,
		FrameUnit:  enhance.FrameUnit,
		CutLen:     enhance.CutLen,
		NFFT:       400,
		Hop:        100,
		Exponent:   0.3,
		Window:     "hamming",
		Silence:    enhance.SilenceIdentity,
		Workers:    1,
		ONNX: ONNX{
			Input:      names.Input,
			OutputReal: names.OutputReal,
			OutputImag: names.OutputImag,
		},
	}
}

// Load reads a YAML file over the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("load config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// InputDir returns NoisyDir, or the noisy subdirectory of TestDir.
func (c Config) InputDir() string {
	if c.NoisyDir != "" {
		return c.NoisyDir
	}
	return filepath.Join(c.TestDir, "noisy")
}

// Validate checks that the geometry can be batched and reconstructed.
func (c Config) Validate() error {
	switch {
	case c.SampleRate <= 0:
		return fmt.Errorf("%w: sample_rate %d", ErrInvalid, c.SampleRate)
	case c.FrameUnit <= 0:
		return fmt.Errorf("%w: frame_unit %d", ErrInvalid, c.FrameUnit)
	case c.CutLen < c.FrameUnit:
		return fmt.Errorf("%w: cut_len %d is below frame_unit %d", ErrInvalid, c.CutLen, c.FrameUnit)
	case !c.Silence.Valid():
		return fmt.Errorf("%w: silence %q", ErrInvalid, c.Silence)
	case c.Workers < 1:
		return fmt.Errorf("%w: workers %d", ErrInvalid, c.Workers)
	case c.TestDir == "" && c.NoisyDir == "":
		return fmt.Errorf("%w: neither test_dir nor noisy_dir is set", ErrInvalid)
	case c.SaveTracks && c.SaveDir == "":
		return fmt.Errorf("%w: save_tracks without save_dir", ErrInvalid)
	}
	if _, err := c.Codec(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	return nil
}

// Codec builds the spectral codec the configuration describes.
func (c Config) Codec() (*spectral.Codec, error) {
	return spectral.NewCodec(c.NFFT, c.Hop, c.Exponent, c.Window)
}

// ModelConfig returns the ONNX adapter settings.
func (c Config) ModelConfig() model.ONNXConfig {
	return model.ONNXConfig{
		ModelPath:   c.ModelPath,
		LibraryPath: c.ONNX.LibraryPath,
		Input:       c.ONNX.Input,
		OutputReal:  c.ONNX.OutputReal,
		OutputImag:  c.ONNX.OutputImag,
		UseCUDA:     c.UseCUDA,
	}
}

// Enhancer builds an enhancer around m with the configured geometry.
func (c Config) Enhancer(m model.Adapter) (*enhance.Enhancer, error) {
	codec, err := c.Codec()
	if err != nil {
		return nil, err
	}
	e := enhance.NewEnhancer(codec, m)
	e.SampleRate = c.SampleRate
	e.FrameUnit = c.FrameUnit
	e.CutLen = c.CutLen
	e.Silence = c.Silence
	return e, nil
}
