package indicator

import "math"

// Pad right-aligns values to a series of length n. Leading warm-up
// positions and NaN values become nil.
func Pad(values []float64, n int) []*float64 {
	out := make([]*float64, n)
	offset := n - len(values)
	for i, v := range values {
		if offset+i < 0 || math.IsNaN(v) {
			continue
		}
		out[offset+i] = &v
	}
	return out
}
