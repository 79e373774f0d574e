// Command enhance runs a directory of noisy speech recordings through a
// spectral enhancement model and writes the enhanced tracks.
//
// Every file is normalized, padded to a multiple of 100 samples, cut into
// rows the model can take, transformed to a compressed spectrogram,
// estimated, and transformed back to a waveform of the original length and
// loudness. Files at a sample rate other than 16 kHz are reported and
// skipped.
//
// Usage:
//
//	enhance --model-path ckpt.onnx --test-dir <dataset> [--save-dir <dir>]
//
// The recordings are read from <dataset>/noisy unless --noisy-dir is given.
// Enhanced tracks keep their file names under --save-dir.
//
// Supported input formats: .wav, .flac
package main
