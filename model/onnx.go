package model

import (
	"fmt"
	"os"
	"sync"

	"github.com/neurlang/goenhance/spectral"
	"github.com/sirupsen/logrus"
	ort "github.com/yalue/onnxruntime_go"
)

// ONNXConfig describes an exported enhancement network.
type ONNXConfig struct {
	// ModelPath is the .onnx checkpoint.
	ModelPath string
	// LibraryPath points at the onnxruntime shared library; empty uses
	// the platform default.
	LibraryPath string

	// Input is fed a [batch, 2, frames, bins] tensor of real and
	// imaginary planes.
	Input string
	// OutputReal and OutputImag each yield [batch, 1, frames, bins].
	OutputReal string
	OutputImag string

	// UseCUDA appends the CUDA execution provider to the session.
	UseCUDA bool
}

// DefaultONNXConfig returns the tensor names of the exported generator.
func DefaultONNXConfig() ONNXConfig {
	return ONNXConfig{
		Input:      "noisy_spec",
		OutputReal: "est_real",
		OutputImag: "est_imag",
	}
}

// ONNX runs a network through ONNX Runtime. Estimate may be called from
// several goroutines; runs are serialized.
type ONNX struct {
	mu      sync.Mutex
	session *ort.DynamicAdvancedSession
	log     logrus.FieldLogger
}

// NewONNX loads the checkpoint once and keeps the session for the
// lifetime of the adapter.
func NewONNX(cfg ONNXConfig, log logrus.FieldLogger) (*ONNX, error) {
	if _, err := os.Stat(cfg.ModelPath); err != nil {
		return nil, fmt.Errorf("model %s: %w", cfg.ModelPath, err)
	}

	if err := acquireEnv(cfg.LibraryPath); err != nil {
		return nil, err
	}

	session, err := newSession(cfg)
	if err != nil {
		if rerr := releaseEnv(); rerr != nil {
			log.WithError(rerr).Warn("Failed to release ONNX environment")
		}
		return nil, err
	}

	log.WithFields(logrus.Fields{
		"function": "NewONNX",
		"model":    cfg.ModelPath,
		"cuda":     cfg.UseCUDA,
	}).Info("Model loaded")

	return &ONNX{session: session, log: log}, nil
}

func newSession(cfg ONNXConfig) (*ort.DynamicAdvancedSession, error) {
	options, err := ort.NewSessionOptions()
	if err != nil {
		return nil, fmt.Errorf("failed to create session options: %w", err)
	}
	defer options.Destroy()

	if cfg.UseCUDA {
		cuda, err := ort.NewCUDAProviderOptions()
		if err != nil {
			return nil, fmt.Errorf("failed to create CUDA options: %w", err)
		}
		defer cuda.Destroy()
		if err := options.AppendExecutionProviderCUDA(cuda); err != nil {
			return nil, fmt.Errorf("failed to enable CUDA: %w", err)
		}
	}

	session, err := ort.NewDynamicAdvancedSession(cfg.ModelPath,
		[]string{cfg.Input},
		[]string{cfg.OutputReal, cfg.OutputImag},
		options)
	if err != nil {
		return nil, fmt.Errorf("failed to load model %s: %w", cfg.ModelPath, err)
	}
	return session, nil
}

// Estimate runs the network on in.
func (o *ONNX) Estimate(in *spectral.Frame) (*spectral.Frame, error) {
	b, t, f := int64(in.Rows), int64(in.Frames), int64(in.Bins)

	input, err := ort.NewTensor(ort.NewShape(b, 2, t, f), toTensor(in))
	if err != nil {
		return nil, fmt.Errorf("failed to create input tensor: %w", err)
	}
	defer input.Destroy()

	estReal, err := ort.NewEmptyTensor[float32](ort.NewShape(b, 1, t, f))
	if err != nil {
		return nil, fmt.Errorf("failed to create output tensor: %w", err)
	}
	defer estReal.Destroy()

	estImag, err := ort.NewEmptyTensor[float32](ort.NewShape(b, 1, t, f))
	if err != nil {
		return nil, fmt.Errorf("failed to create output tensor: %w", err)
	}
	defer estImag.Destroy()

	o.mu.Lock()
	err = o.session.Run([]ort.Value{input}, []ort.Value{estReal, estImag})
	o.mu.Unlock()
	if err != nil {
		return nil, fmt.Errorf("failed to run model: %w", err)
	}

	return fromTensors(in.Shape(), estReal.GetData(), estImag.GetData())
}

// Close releases the session. The runtime environment is destroyed with
// the last adapter, and only if this package initialized it.
func (o *ONNX) Close() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.session == nil {
		return nil
	}
	err := o.session.Destroy()
	o.session = nil
	if rerr := releaseEnv(); err == nil {
		err = rerr
	}
	return err
}

// The ONNX Runtime environment is process wide. Adapters share it through
// a reference count.
var (
	envMu    sync.Mutex
	envRefs  int
	envOwned bool

	envReady   = ort.IsInitialized
	envInit    = ort.InitializeEnvironment
	envDestroy = ort.DestroyEnvironment
	envLibrary = ort.SetSharedLibraryPath
)

func acquireEnv(libraryPath string) error {
	envMu.Lock()
	defer envMu.Unlock()
	if envRefs == 0 && !envReady() {
		if libraryPath != "" {
			envLibrary(libraryPath)
		}
		if err := envInit(); err != nil {
			return fmt.Errorf("failed to initialize ONNX environment: %w", err)
		}
		envOwned = true
	}
	envRefs++
	return nil
}

func releaseEnv() error {
	envMu.Lock()
	defer envMu.Unlock()
	if envRefs == 0 {
		return nil
	}
	envRefs--
	if envRefs > 0 || !envOwned {
		return nil
	}
	envOwned = false
	if err := envDestroy(); err != nil {
		return fmt.Errorf("failed to destroy ONNX environment: %w", err)
	}
	return nil
}

// toTensor lays f out as [row][channel][frame][bin] with the real plane
// in channel 0 and the imaginary plane in channel 1.
func toTensor(f *spectral.Frame) []float32 {
	plane := f.Frames * f.Bins
	out := make([]float32, 0, 2*f.Len())
	for r := 0; r < f.Rows; r++ {
		for _, v := range f.Real[r*plane : (r+1)*plane] {
			out = append(out, float32(v))
		}
		for _, v := range f.Imag[r*plane : (r+1)*plane] {
			out = append(out, float32(v))
		}
	}
	return out
}

// fromTensors rebuilds a frame from two [row][1][frame][bin] planes.
func fromTensors(shape [3]int, re, im []float32) (*spectral.Frame, error) {
	out := spectral.NewFrame(shape[0], shape[1], shape[2])
	if len(re) != out.Len() || len(im) != out.Len() {
		return nil, fmt.Errorf("%w: got %d and %d values, want %d",
			ErrShapeMismatch, len(re), len(im), out.Len())
	}
	for i := range re {
		out.Real[i] = float64(re[i])
		out.Imag[i] = float64(im[i])
	}
	return out, nil
}
