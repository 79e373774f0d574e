// Package audio loads and saves single-channel recordings.
//
// Samples are returned as float64 in the range [-1, 1] together with the
// sample rate read from the file header. Supported inputs:
//   - WAV (any PCM precision the decoder understands)
//   - FLAC
//
// Output is always written as 16-bit PCM WAV.
package audio
