// Package spectral provides the compressed, phase-preserving spectral
// representation an enhancement model consumes.
//
// This package implements conversion between batches of waveforms and
// one-sided short-time spectra, and the exact inverse. It supports:
//   - Centered STFT analysis with a periodic Hamming or Hann window
//   - Power-law magnitude compression with the phase left untouched
//   - Overlap-add synthesis normalized by the squared window sum, which
//     reconstructs the input to floating point precision
//   - PNG and half-precision dumps of a spectrogram for inspection
package spectral
