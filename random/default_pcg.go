//go:build garnet_random_pcg

package random

// DefaultBackend returns the pseudo-random backend linked into this build.
func DefaultBackend() Backend {
	return PCGBackend{}
}
