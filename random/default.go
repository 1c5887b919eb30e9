//go:build !garnet_random_pcg

package random

// DefaultBackend returns the pseudo-random backend linked into this build.
// ChaCha8 is the default; building with -tags garnet_random_pcg selects the
// PCG backend instead.
func DefaultBackend() Backend {
	return ChaChaBackend{}
}
