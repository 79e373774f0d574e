// Package model defines the boundary between the spectral pipeline and the
// enhancement network.
//
// An Adapter receives the compressed spectra of a batch and returns an
// estimate of the same shape. The pipeline never looks inside it, so any
// deterministic function can stand in for a trained network:
//
//	var m model.Adapter = model.Identity{}
//
// ONNX runs an exported network through ONNX Runtime. The session is
// created once and shared read-only by every file of a run.
package model
