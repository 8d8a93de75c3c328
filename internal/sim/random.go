package sim

import "math/rand"

// Random supplies the simulation's only nondeterminism: Bump trap offsets.
type Random interface {
	// BumpOffset returns two independent samples from {-1, 0}.
	BumpOffset() (dx, dy int)
}

type seededRandom struct {
	rng *rand.Rand
}

// NewRandom returns a Random backed by math/rand with the given seed.
// Two sources with the same seed produce the same sequence.
func NewRandom(seed int64) Random {
	return &seededRandom{rng: rand.New(rand.NewSource(seed))}
}

func (s *seededRandom) BumpOffset() (int, int) {
	return s.rng.Intn(2) - 1, s.rng.Intn(2) - 1
}
