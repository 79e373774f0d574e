package enhance

import (
	"errors"
	"fmt"
	"math"

	"github.com/neurlang/goenhance/audio"
	"github.com/neurlang/goenhance/model"
	"github.com/neurlang/goenhance/spectral"
	"github.com/sirupsen/logrus"
)

const (
	// SampleRate is the only rate the pipeline accepts.
	SampleRate = 16000
	// FrameUnit is the padding granularity in samples.
	FrameUnit = 100
	// CutLen is the longest row handed to the model, 16 seconds.
	CutLen = SampleRate * 16
)

// Enhancer runs recordings through the spectral pipeline and a model.
// It holds no per-file state and may be shared between goroutines when
// its Model may.
type Enhancer struct {
	SampleRate int
	FrameUnit  int
	CutLen     int
	Silence    SilencePolicy

	Codec *spectral.Codec
	Model model.Adapter

	Log logrus.FieldLogger
}

// NewEnhancer creates a new Enhancer with default geometry.
func NewEnhancer(codec *spectral.Codec, m model.Adapter) *Enhancer {
	return &Enhancer{
		SampleRate: SampleRate,
		FrameUnit:  FrameUnit,
		CutLen:     CutLen,
		Silence:    SilenceIdentity,
		Codec:      codec,
		Model:      m,
		Log:        logrus.StandardLogger(),
	}
}

// EnhanceSignal rejects signals at a foreign rate and enhances the rest.
func (e *Enhancer) EnhanceSignal(s audio.Signal) (audio.Signal, error) {
	if s.SampleRate != e.SampleRate {
		return audio.Signal{}, fmt.Errorf("%w: got %d Hz, want %d Hz",
			ErrUnsupportedSampleRate, s.SampleRate, e.SampleRate)
	}
	out, err := e.Enhance(s.Samples)
	if err != nil {
		return audio.Signal{}, err
	}
	return audio.Signal{Samples: out, SampleRate: s.SampleRate}, nil
}

// Enhance returns the enhanced version of x, of the same length and scale.
func (e *Enhancer) Enhance(x []float64) ([]float64, error) {
	rows, c, err := e.prepare(x)
	if err != nil {
		return nil, err
	}

	spec := e.Codec.Analyze(rows)
	est, err := e.Model.Estimate(spec)
	if err != nil {
		return nil, fmt.Errorf("estimate: %w", err)
	}
	if err := model.CheckShape(spec, est); err != nil {
		return nil, err
	}

	out := Finalize(e.Codec.Synthesize(est, len(rows[0])), len(x), c)
	for i, v := range out {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("estimate: %w: %v at sample %d", ErrNonFiniteSignal, v, i)
		}
	}
	return out, nil
}

// Spectrum returns the compressed spectra the model is given for x.
func (e *Enhancer) Spectrum(x []float64) (*spectral.Frame, error) {
	rows, _, err := e.prepare(x)
	if err != nil {
		return nil, err
	}
	return e.Codec.Analyze(rows), nil
}

// prepare normalizes, pads and batches x.
func (e *Enhancer) prepare(x []float64) ([][]float64, float64, error) {
	length := len(x)
	if length == 0 {
		return nil, 0, ErrEmptySignal
	}

	noisy, c, err := Normalize(x)
	if errors.Is(err, ErrDegenerateSignal) && e.Silence == SilenceIdentity {
		e.logger().WithFields(logrus.Fields{
			"function": "Enhance",
			"length":   length,
		}).Warn("Silent signal, skipping normalization")
		noisy, c, err = append([]float64(nil), x...), 1, nil
	}
	if err != nil {
		return nil, 0, err
	}

	padded := Pad(noisy, e.FrameUnit)
	batchSize, err := BatchSize(len(padded), e.CutLen, e.FrameUnit)
	if err != nil {
		return nil, 0, err
	}

	e.logger().WithFields(logrus.Fields{
		"function":   "Enhance",
		"length":     length,
		"padded_len": len(padded),
		"batch_size": batchSize,
		"factor":     c,
	}).Debug("Signal batched")

	return Split(padded, batchSize), c, nil
}

func (e *Enhancer) logger() logrus.FieldLogger {
	if e.Log == nil {
		return logrus.StandardLogger()
	}
	return e.Log
}
