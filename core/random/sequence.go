// Package random provides the reproducible number stream used to generate
// scenarios and to sample team strategies.
package random

const (
	multiplier = 9301
	increment  = 49297
	modulus    = 233280
)

// Sequence is a linear congruential generator. Two sequences created with
// the same seed yield identical streams.
type Sequence struct {
	state int64
}

// New returns a Sequence seeded with seed.
func New(seed int64) *Sequence {
	s := &Sequence{}
	s.Seed(seed)
	return s
}

// Seed resets the internal state. The seed is reduced modulo the generator's
// modulus first, which leaves the produced stream unchanged.
func (s *Sequence) Seed(seed int64) {
	seed %= modulus
	if seed < 0 {
		seed += modulus
	}
	s.state = seed
}

// Next advances the state and returns a float in [0,1).
func (s *Sequence) Next() float64 {
	s.state = (s.state*multiplier + increment) % modulus
	return float64(s.state) / modulus
}

// Float64 is an alias of Next so a Sequence can stand in where a
// math/rand style source is expected.
func (s *Sequence) Float64() float64 { return s.Next() }

// Intn returns an int in [0,n). It panics if n <= 0, like math/rand.
func (s *Sequence) Intn(n int) int {
	if n <= 0 {
		panic("random: invalid argument to Intn")
	}
	return int(s.Next() * float64(n))
}
