// Command tospec converts an audio file (WAV/FLAC) to images of the
// compressed spectrogram an enhancement model is given for it.
//
// The recording goes through the same normalization, padding and batching
// as in the enhance command. Each batch row is saved as a PNG image with
// the real part in red and the imaginary part in green.
//
// Usage:
//
//	tospec [--raw] <audio_file>
//
// The output PNG file will be named <audio_file>.png, or <audio_file>.<row>.png
// when the recording is cut into several rows. With --raw the magnitudes
// are also written as little-endian float16 to <audio_file>.<row>.f16.
//
// Supported input formats: .wav, .flac
package main
