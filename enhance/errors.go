package enhance

import "errors"

var (
	// ErrUnsupportedSampleRate is returned for recordings that are not at
	// the pipeline rate.
	ErrUnsupportedSampleRate = errors.New("enhance: unsupported sample rate")

	// ErrDegenerateSignal is returned when a signal has no energy, so the
	// normalization factor is undefined.
	ErrDegenerateSignal = errors.New("enhance: degenerate signal")

	// ErrNonFiniteSignal is returned for signals holding NaN or Inf
	// samples. The silence policy never applies to it.
	ErrNonFiniteSignal = errors.New("enhance: non-finite sample")

	// ErrEmptySignal is returned for signals without samples.
	ErrEmptySignal = errors.New("enhance: empty signal")

	// ErrUnbatchable is returned when a signal is too long to be cut into
	// at most frame-unit rows of the chunk limit.
	ErrUnbatchable = errors.New("enhance: signal cannot be batched")
)
