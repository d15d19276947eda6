package utils

import "math/rand/v2"

// RandomInt returns a uniformly distributed integer in the inclusive range [min, max].
// The caller must keep min <= max.
func RandomInt(min, max int) int {
	return min + rand.IntN(max-min+1)
}
