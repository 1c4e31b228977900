package utils

import (
	crand "crypto/rand"
	"fmt"
	"math/big"
	"math/rand"
)

// float53 is the number of distinct float64 values in [0,1) reachable from 53 random bits
const float53 = 1 << 53

// RandomFloat returns a random float64 in [0.0, 1.0)
func RandomFloat() float64 {
	return rand.Float64() //nolint:gosec // Animation randomness, not security critical
}

// RandomInt returns a random integer between min and max (inclusive)
func RandomInt(min, max int) int {
	if min > max {
		return min
	}
	return rand.Intn(max-min+1) + min //nolint:gosec // Animation randomness, not security critical
}

// SecureRandomInt returns a random integer between min and max (inclusive) using crypto/rand
func SecureRandomInt(min, max int) (int, error) {
	if min > max {
		return 0, fmt.Errorf("min cannot be greater than max")
	}
	diff := big.NewInt(int64(max - min + 1))
	n, err := crand.Int(crand.Reader, diff)
	if err != nil {
		return 0, err
	}
	return int(n.Int64()) + min, nil
}

// SecureRandomFloat returns a uniformly distributed float64 in [0.0, 1.0) using crypto/rand
func SecureRandomFloat() (float64, error) {
	n, err := crand.Int(crand.Reader, big.NewInt(float53))
	if err != nil {
		return 0, err
	}
	return float64(n.Int64()) / float53, nil
}
