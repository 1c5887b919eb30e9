package random

import (
	"math/rand/v2"
)

// PCGBackend derives sources from the PCG generator.
type PCGBackend struct{}

func (b PCGBackend) Name() string {
	return "pcg"
}

func (b PCGBackend) New(seed uint64) Source {
	s := &pcgSource{}
	s.Seed(seed)
	return s
}

type pcgSource struct {
	rng  *rand.Rand
	seed uint64
}

func (s *pcgSource) Seed(seed uint64) {
	s.rng = rand.New(rand.NewPCG(seed, seed^0xda3e39cb94b95bdb))
	s.seed = seed
}

func (s *pcgSource) SeedValue() uint64 {
	return s.seed
}

func (s *pcgSource) Int(bound int64) int64 {
	return s.rng.Int64N(bound)
}

func (s *pcgSource) Float() float64 {
	return s.rng.Float64()
}

func (s *pcgSource) Bytes(p []byte) {
	fillBytes(s.rng, p)
}
