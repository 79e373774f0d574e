// Package enhance adapts recordings of any length to a fixed-geometry
// spectral enhancement model and reconstructs the enhanced waveform.
//
// The chain for one recording is:
//
//	Normalize -> Pad -> Split -> Codec.Analyze -> Model.Estimate
//	          -> Codec.Synthesize -> Finalize
//
// Each stage is exported on its own so the invariants between them can be
// checked independently:
//   - Normalize scales a signal so its energy equals its sample count;
//     Denormalize undoes it.
//   - Pad extends a signal to a multiple of the frame unit by repeating
//     its own beginning, never with silence.
//   - BatchSize and Split cut long signals into equal rows whose count
//     divides the frame unit, so the reshape never leaves a remainder.
//   - Finalize joins the rows, drops the padding and restores the scale;
//     its output always has exactly as many samples as the input.
package enhance
