package filesort

import (
	"math/rand/v2"
	"testing"
)

func rngFor(t *testing.T) *rand.Rand {
	t.Helper()
	var seed [2]uint64
	for i, c := range t.Name() {
		seed[i%2] ^= uint64(c) << (8 * uint(i%8))
	}
	return rand.New(rand.NewPCG(seed[0]^0x9E3779B97F4A7C15, seed[1]^0xD1B54A32D192ED03))
}
