// Package rng provides the deterministic random stream consumed by a
// simulation run. Every run constructs its own Stream from the run seed;
// streams are never shared between runs.
package rng

import (
	"math"
	"math/rand"

	"github.com/san-kum/aglogen/internal/geom"
)

// Stream is a seeded source of all randomness for one run. Two Streams
// created with the same seed produce identical sequences.
type Stream struct {
	src *rand.Rand
}

// New creates a Stream seeded with seed.
func New(seed int64) *Stream {
	return &Stream{src: rand.New(rand.NewSource(seed))}
}

// Float returns a uniform value in [0, 1).
func (s *Stream) Float() float64 { return s.src.Float64() }

// Range returns a uniform value in [min, max].
func (s *Stream) Range(min, max float64) float64 {
	return min + s.src.Float64()*(max-min)
}

// Intn returns a uniform integer in [0, n).
func (s *Stream) Intn(n int) int { return s.src.Intn(n) }

// UnitVector returns a uniformly distributed direction on the unit sphere.
func (s *Stream) UnitVector() geom.Vec3 {
	theta := s.src.Float64() * 2 * math.Pi
	phi := math.Acos(1 - 2*s.src.Float64())

	sinPhi := math.Sin(phi)
	return geom.V(sinPhi*math.Cos(theta), sinPhi*math.Sin(theta), math.Cos(phi))
}

// NormalClamped draws from N(mean, std) clamped to [lo, hi].
func (s *Stream) NormalClamped(mean, std, lo, hi float64) float64 {
	v := mean + s.src.NormFloat64()*std
	return math.Min(hi, math.Max(lo, v))
}
