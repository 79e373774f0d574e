package enhance

// Finalize joins the synthesized rows, drops everything past length and
// undoes the normalization by c. The result has exactly length samples.
func Finalize(rows [][]float64, length int, c float64) []float64 {
	return Denormalize(Merge(rows, length), c)
}
