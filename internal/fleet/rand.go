package fleet

import (
	"math/rand"
	"time"
)

// Rand picks starting positions. *rand.Rand satisfies it.
type Rand interface {
	Intn(n int) int
}

// NewRand returns a pseudo-random source. A zero seed is replaced by the
// current time so production runs differ; tests pass a fixed seed.
func NewRand(seed int64) *rand.Rand {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return rand.New(rand.NewSource(seed))
}
