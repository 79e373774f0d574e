package enhance

import "fmt"

// BatchSize returns how many rows a padded signal is cut into. Signals up
// to cutLen samples stay whole. Longer ones get ceil(paddedLen/cutLen)
// rows, raised to the next divisor of unit; paddedLen is a multiple of
// unit, so it is then a multiple of the row count too.
func BatchSize(paddedLen, cutLen, unit int) (int, error) {
	if paddedLen <= cutLen {
		return 1, nil
	}
	if cutLen <= 0 || unit <= 0 {
		return 0, fmt.Errorf("%w: chunk limit %d, frame unit %d", ErrUnbatchable, cutLen, unit)
	}

	b := (paddedLen + cutLen - 1) / cutLen
	if b > unit {
		return 0, fmt.Errorf("%w: %d samples need %d rows of %d, more than the frame unit %d",
			ErrUnbatchable, paddedLen, b, cutLen, unit)
	}
	for unit%b != 0 {
		b++
	}
	return b, nil
}

// Split reshapes x into b contiguous rows of equal length. The rows share
// x's backing array.
func Split(x []float64, b int) [][]float64 {
	if b <= 0 || len(x)%b != 0 {
		panic(fmt.Sprintf("enhance: cannot split %d samples into %d rows", len(x), b))
	}
	width := len(x) / b
	rows := make([][]float64, b)
	for r := range rows {
		rows[r] = x[r*width : (r+1)*width : (r+1)*width]
	}
	return rows
}

// Merge concatenates rows in order and truncates the result to length.
func Merge(rows [][]float64, length int) []float64 {
	out := make([]float64, 0, length)
	if length == 0 {
		return out
	}
	for _, row := range rows {
		if len(out)+len(row) >= length {
			return append(out, row[:length-len(out)]...)
		}
		out = append(out, row...)
	}
	panic(fmt.Sprintf("enhance: rows hold %d samples, want %d", len(out), length))
}
