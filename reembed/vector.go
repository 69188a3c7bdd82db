package reembed

import "math"

// NormalizeVector scales a vector to unit length and returns a new
// slice. A zero vector cannot be normalized and comes back as a zero
// vector of the same length.
func NormalizeVector(v []float32) []float32 {
	if len(v) == 0 {
		return v
	}

	var sumSquares float64
	for _, val := range v {
		sumSquares += float64(val) * float64(val)
	}
	magnitude := float32(math.Sqrt(sumSquares))

	result := make([]float32, len(v))
	if magnitude == 0 {
		return result
	}
	for i, val := range v {
		result[i] = val / magnitude
	}
	return result
}
