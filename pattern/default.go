//go:build !garnet_pattern_posix

package pattern

// DefaultEngine returns the engine linked into this build. The RE2 engine
// is the default; building with -tags garnet_pattern_posix selects the
// POSIX engine instead.
func DefaultEngine() Engine {
	return RE2Engine{}
}
