package places

import "hash/fnv"

// Rand is a small deterministic generator: the seed string is hashed with
// 32-bit FNV-1a and the state advanced with mulberry32. The same seed always
// yields the same sequence.
type Rand struct {
	state uint32
}

func NewRand(seed string) *Rand {
	return &Rand{state: hashSeed(seed)}
}

func hashSeed(seed string) uint32 {
	h := fnv.New32a()
	_, _ = h.Write([]byte(seed))
	return h.Sum32()
}

// Float64 returns the next value in [0, 1).
func (r *Rand) Float64() float64 {
	r.state += 0x6D2B79F5
	t := r.state
	t = (t ^ (t >> 15)) * (t | 1)
	t ^= t + (t^(t>>7))*(t|61)
	return float64(t^(t>>14)) / 4294967296.0
}

// Intn returns a value in [0, n). n must be positive.
func (r *Rand) Intn(n int) int {
	return int(r.Float64() * float64(n))
}

func pick[T any](r *Rand, items []T) T {
	return items[r.Intn(len(items))]
}
