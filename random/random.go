// Package random is the randomness capability: deterministic pseudo-random
// sources for the Random class, and a secure source for SecureRandom.
//
// Every conforming pseudo-random backend must produce a reproducible stream
// for a given seed: two sources created by the same backend from equal seeds
// yield equal streams. The secure source draws from the operating system's
// CSPRNG and is never seedable.
package random

// Backend constructs seeded pseudo-random sources. The default backend is
// chosen at build time (see DefaultBackend).
type Backend interface {
	// Name identifies the backend for capability descriptors.
	Name() string

	// New creates a source seeded with the given value.
	New(seed uint64) Source
}

// Source is one deterministic pseudo-random stream. Sources are not safe
// for concurrent use; the machine serializes access.
type Source interface {
	// Seed resets the stream to the state derived from the given seed.
	Seed(seed uint64)

	// SeedValue returns the seed the stream was last reset with.
	SeedValue() uint64

	// Int returns a uniform value in [0, bound). Bound must be positive.
	Int(bound int64) int64

	// Float returns a uniform value in [0.0, 1.0).
	Float() float64

	// Bytes fills p with pseudo-random bytes.
	Bytes(p []byte)
}
