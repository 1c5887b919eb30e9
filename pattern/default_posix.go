//go:build garnet_pattern_posix

package pattern

// DefaultEngine returns the engine linked into this build.
func DefaultEngine() Engine {
	return POSIXEngine{}
}
