package random

import (
	"encoding/binary"
	"math/rand/v2"
)

// ChaChaBackend derives sources from the ChaCha8 stream cipher.
type ChaChaBackend struct{}

func (b ChaChaBackend) Name() string {
	return "chacha8"
}

func (b ChaChaBackend) New(seed uint64) Source {
	s := &chachaSource{}
	s.Seed(seed)
	return s
}

type chachaSource struct {
	rng  *rand.Rand
	seed uint64
}

func (s *chachaSource) Seed(seed uint64) {
	var key [32]byte
	binary.LittleEndian.PutUint64(key[:8], seed)
	binary.LittleEndian.PutUint64(key[8:16], seed^0x9e3779b97f4a7c15)
	s.rng = rand.New(rand.NewChaCha8(key))
	s.seed = seed
}

func (s *chachaSource) SeedValue() uint64 {
	return s.seed
}

func (s *chachaSource) Int(bound int64) int64 {
	return s.rng.Int64N(bound)
}

func (s *chachaSource) Float() float64 {
	return s.rng.Float64()
}

func (s *chachaSource) Bytes(p []byte) {
	fillBytes(s.rng, p)
}

func fillBytes(rng *rand.Rand, p []byte) {
	i := 0
	for ; i+8 <= len(p); i += 8 {
		binary.LittleEndian.PutUint64(p[i:], rng.Uint64())
	}
	if i < len(p) {
		var tail [8]byte
		binary.LittleEndian.PutUint64(tail[:], rng.Uint64())
		copy(p[i:], tail[:len(p)-i])
	}
}
