package crowd

import "math"

// splitmix64 is a fast, high-quality 64-bit mixer.
func splitmix64(x uint64) uint64 {
	x += 0x9E3779B97F4A7C15
	z := x
	z = (z ^ (z >> 30)) * 0xBF58476D1CE4E5B9
	z = (z ^ (z >> 27)) * 0x94D049BB133111EB
	return z ^ (z >> 31)
}

func clampF(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func lerpF(a, b, t float32) float32 {
	return a + (b-a)*t
}

func sinF(x float32) float32 { return float32(math.Sin(float64(x))) }
func cosF(x float32) float32 { return float32(math.Cos(float64(x))) }

func atan2F(y, x float32) float32 { return float32(math.Atan2(float64(y), float64(x))) }

func hypotF(x, y float32) float32 { return float32(math.Hypot(float64(x), float64(y))) }

// Rand is a tiny deterministic RNG (xorshift64*). Every random choice made
// while building a crowd or rescheduling blinks goes through one of these so
// a seed reproduces the exact layout.
type Rand struct {
	s uint64
}

func NewRand(seed uint64) *Rand {
	seed = splitmix64(seed)
	if seed == 0 {
		seed = 1
	}
	return &Rand{s: seed}
}

func (r *Rand) NextU64() uint64 {
	x := r.s
	x ^= x >> 12
	x ^= x << 25
	x ^= x >> 27
	r.s = x
	return x * 2685821657736338717
}

func (r *Rand) Intn(n int) int {
	if n <= 0 {
		return 0
	}
	return int(r.NextU64() % uint64(n))
}

// Float32 returns a value in [0, 1).
func (r *Rand) Float32() float32 {
	return float32(r.NextU64()>>40) * (1.0 / (1 << 24))
}

func (r *Rand) RangeF(min, max float32) float32 {
	if max <= min {
		return min
	}
	return min + (max-min)*r.Float32()
}
