package garnet

import (
	"fmt"
	"io"

	"github.com/hashicorp/go-multierror"
	"github.com/rs/zerolog"

	"github.com/garnet-lang/garnet/environ"
	"github.com/garnet-lang/garnet/pattern"
	"github.com/garnet-lang/garnet/random"
	"github.com/garnet-lang/garnet/vfs"
	"github.com/garnet-lang/garnet/vm"
)

// config collects boot options. Invalid option values are recorded and
// reported from Boot as one BootError; nothing is partially applied.
type config struct {
	logger        zerolog.Logger
	environ       environ.Environ
	filesystem    vfs.Filesystem
	output        io.Writer
	patternEngine pattern.Engine
	randomBackend random.Backend
	secureSource  random.SecureSource
	seeder        func() uint64
	extensions    []func(*vm.Machine) error
	errs          error
}

func (c *config) invalid(format string, args ...interface{}) {
	c.errs = multierror.Append(c.errs, &BootError{Reason: fmt.Sprintf(format, args...)})
}

// Option configures an interpreter at boot.
type Option func(*config)

// WithLogger sets the interpreter-scoped logger. Boot, shutdown and
// collection events log at debug level.
func WithLogger(logger zerolog.Logger) Option {
	return func(c *config) { c.logger = logger }
}

// WithEnviron selects the environment variable backend. The default is the
// process environment.
func WithEnviron(backend environ.Environ) Option {
	return func(c *config) {
		if backend == nil {
			c.invalid("WithEnviron: nil backend")
			return
		}
		c.environ = backend
	}
}

// WithMemoryEnviron isolates scripts from the process environment.
func WithMemoryEnviron() Option {
	return func(c *config) { c.environ = environ.NewMemory() }
}

// WithFilesystem selects the filesystem require loads scripts from. The
// default is an empty in-memory filesystem.
func WithFilesystem(fs vfs.Filesystem) Option {
	return func(c *config) {
		if fs == nil {
			c.invalid("WithFilesystem: nil filesystem")
			return
		}
		c.filesystem = fs
	}
}

// WithNativeFilesystem roots require at a host directory.
func WithNativeFilesystem(root string) Option {
	return func(c *config) {
		if root == "" {
			c.invalid("WithNativeFilesystem: empty root")
			return
		}
		c.filesystem = vfs.NewNative(root)
	}
}

// WithOutput directs Kernel output (puts, print, p) to w.
func WithOutput(w io.Writer) Option {
	return func(c *config) {
		if w == nil {
			c.invalid("WithOutput: nil writer")
			return
		}
		c.output = w
	}
}

// WithDiscardOutput silences Kernel output.
func WithDiscardOutput() Option {
	return func(c *config) { c.output = io.Discard }
}

// WithPatternEngine overrides the build-selected pattern backend.
func WithPatternEngine(engine pattern.Engine) Option {
	return func(c *config) {
		if engine == nil {
			c.invalid("WithPatternEngine: nil engine")
			return
		}
		c.patternEngine = engine
	}
}

// WithRandomBackend overrides the build-selected pseudo-random backend.
func WithRandomBackend(backend random.Backend) Option {
	return func(c *config) {
		if backend == nil {
			c.invalid("WithRandomBackend: nil backend")
			return
		}
		c.randomBackend = backend
	}
}

// WithSecureSource overrides the secure random source. Tests use this to
// make SecureRandom deterministic.
func WithSecureSource(source random.SecureSource) Option {
	return func(c *config) {
		if source == nil {
			c.invalid("WithSecureSource: nil source")
			return
		}
		c.secureSource = source
	}
}

// WithSeeder overrides how unseeded Random instances pick their seed.
func WithSeeder(seeder func() uint64) Option {
	return func(c *config) {
		if seeder == nil {
			c.invalid("WithSeeder: nil seeder")
			return
		}
		c.seeder = seeder
	}
}

// WithExtension registers an extra native class installation hook, run after
// the built-in extensions during boot.
func WithExtension(install func(*vm.Machine) error) Option {
	return func(c *config) {
		if install == nil {
			c.invalid("WithExtension: nil install func")
			return
		}
		c.extensions = append(c.extensions, install)
	}
}
