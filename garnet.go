// Package garnet embeds a Ruby-flavored runtime in Go programs.
//
// Boot creates an isolated interpreter: its own class table, constants,
// environment and filesystem views, and random state. All operations on one
// interpreter serialize on an internal mutex; distinct interpreters are
// fully independent and may run concurrently.
//
//	interp, err := garnet.Boot()
//	if err != nil {
//		return err
//	}
//	defer interp.Shutdown()
//	result, err := interp.Eval([]byte(`1 + 2`))
//
// Script exceptions surface as *exception.Error values; host Go values
// cross into scripts through Convert and Box.
package garnet

import (
	"crypto/rand"
	"encoding/binary"
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/hashicorp/go-multierror"
	"github.com/rs/zerolog"

	"github.com/garnet-lang/garnet/capability"
	"github.com/garnet-lang/garnet/environ"
	"github.com/garnet-lang/garnet/exception"
	"github.com/garnet-lang/garnet/gc"
	"github.com/garnet-lang/garnet/modules/env"
	"github.com/garnet-lang/garnet/modules/kernel"
	randmod "github.com/garnet-lang/garnet/modules/rand"
	regexpmod "github.com/garnet-lang/garnet/modules/regexp"
	"github.com/garnet-lang/garnet/modules/securerandom"
	"github.com/garnet-lang/garnet/object"
	"github.com/garnet-lang/garnet/pattern"
	"github.com/garnet-lang/garnet/random"
	"github.com/garnet-lang/garnet/vfs"
	"github.com/garnet-lang/garnet/vm"
)

// BootError reports an invalid boot option or a failed extension
// installation.
type BootError struct {
	Reason string
}

func (e *BootError) Error() string {
	return "boot: " + e.Reason
}

// ErrShutdown is returned by every operation on an interpreter after
// Shutdown, including a second Shutdown. Using a dead handle is a contract
// violation by the host, not a script condition.
var ErrShutdown = errors.New("garnet: interpreter has been shut down")

// Interp is one interpreter instance. All methods are safe for concurrent
// use; they serialize on the handle's mutex.
type Interp struct {
	mu        sync.Mutex
	machine   *vm.Machine
	registry  *gc.Registry
	caps      []capability.Descriptor
	formatter *exception.Formatter
	log       zerolog.Logger
	closed    bool
}

func cryptoSeed() uint64 {
	var buf [8]byte
	if _, err := rand.Read(buf[:]); err != nil {
		// The platform CSPRNG failing is unrecoverable.
		panic(fmt.Sprintf("garnet: crypto seed: %v", err))
	}
	return binary.LittleEndian.Uint64(buf[:])
}

// Boot creates and initializes an interpreter: core classes, the exception
// hierarchy, and every native extension, wired to the configured capability
// backends. Invalid options and extension failures are aggregated into the
// returned error and nothing is leaked.
func Boot(opts ...Option) (*Interp, error) {
	cfg := &config{
		logger:        zerolog.Nop(),
		environ:       environ.System{},
		filesystem:    vfs.NewMemory(),
		output:        os.Stdout,
		patternEngine: pattern.DefaultEngine(),
		randomBackend: random.DefaultBackend(),
		secureSource:  random.CryptoSource{},
		seeder:        cryptoSeed,
	}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.errs != nil {
		return nil, cfg.errs
	}

	machine := vm.New(vm.WithLogger(cfg.logger), vm.WithOutput(cfg.output))
	registry := gc.NewRegistry()

	var errs error
	if err := vm.InstallCore(machine); err != nil {
		errs = multierror.Append(errs, err)
	}
	installers := []func(*vm.Machine) error{
		func(m *vm.Machine) error { return kernel.Register(m, cfg.filesystem) },
		func(m *vm.Machine) error { return env.Register(m, cfg.environ) },
		func(m *vm.Machine) error { return regexpmod.Register(m, cfg.patternEngine) },
		func(m *vm.Machine) error { return randmod.Register(m, cfg.randomBackend, cfg.seeder) },
		func(m *vm.Machine) error { return securerandom.Register(m, cfg.secureSource) },
	}
	installers = append(installers, cfg.extensions...)
	for _, install := range installers {
		if err := install(machine); err != nil {
			errs = multierror.Append(errs, err)
		}
	}
	if errs != nil {
		return nil, &BootError{Reason: errs.Error()}
	}

	// Prove the machine evaluates before handing it out.
	if _, err := machine.Eval(nil, "(boot)"); err != nil {
		return nil, &BootError{Reason: err.Error()}
	}

	interp := &Interp{
		machine:   machine,
		registry:  registry,
		formatter: exception.NewFormatter(cfg.output),
		log:       cfg.logger,
		caps: []capability.Descriptor{
			{Subsystem: capability.Pattern, Backend: cfg.patternEngine.Name()},
			{Subsystem: capability.Random, Backend: cfg.randomBackend.Name()},
			{Subsystem: capability.SecureRandom, Backend: cfg.secureSource.Name()},
			{Subsystem: capability.Environ, Backend: cfg.environ.Name()},
			{Subsystem: capability.Filesystem, Backend: cfg.filesystem.Name()},
		},
	}
	cfg.logger.Debug().
		Str("pattern", cfg.patternEngine.Name()).
		Str("random", cfg.randomBackend.Name()).
		Str("environ", cfg.environ.Name()).
		Str("filesystem", cfg.filesystem.Name()).
		Msg("interpreter booted")
	return interp, nil
}

// Capabilities describes the backend behind each capability subsystem of
// this interpreter. The descriptors are fixed at boot.
func (i *Interp) Capabilities() []capability.Descriptor {
	out := make([]capability.Descriptor, len(i.caps))
	copy(out, i.caps)
	return out
}

// Eval evaluates source in the interpreter's top-level context under the
// filename "(eval)". Empty source evaluates to nil.
func (i *Interp) Eval(source []byte) (object.Value, error) {
	return i.EvalFilename(source, "(eval)")
}

// EvalFilename evaluates source under an explicit filename, which shows up
// in backtraces.
func (i *Interp) EvalFilename(source []byte, filename string) (object.Value, error) {
	i.mu.Lock()
	defer i.mu.Unlock()
	if i.closed {
		return nil, ErrShutdown
	}
	return i.machine.Eval(source, filename)
}

// Call invokes a method by name on a receiver. Raised exceptions come back
// as *exception.Error.
func (i *Interp) Call(recv object.Value, name string, args ...object.Value) (object.Value, error) {
	i.mu.Lock()
	defer i.mu.Unlock()
	if i.closed {
		return nil, ErrShutdown
	}
	return i.machine.Call(recv, name, args)
}

// RenderError formats an error for human consumption. Exception errors are
// rendered the way Ruby prints uncaught exceptions, message and class first
// and then the backtrace; colors are enabled when the interpreter's output
// writer is a terminal. Other errors render via Error().
func (i *Interp) RenderError(err error) string {
	var exc *exception.Error
	if errors.As(err, &exc) {
		return i.formatter.Format(exc)
	}
	return err.Error()
}

// Convert translates a Go value into a machine value.
func (i *Interp) Convert(v interface{}) (object.Value, error) {
	return object.FromGo(v)
}

// DefineConstant binds a top-level constant, making a value reachable from
// scripts (and a collector root).
func (i *Interp) DefineConstant(name string, value object.Value) error {
	i.mu.Lock()
	defer i.mu.Unlock()
	if i.closed {
		return ErrShutdown
	}
	return i.machine.DefineConstant(name, value)
}

// Box wraps a host-owned payload in a machine value. The release func runs
// exactly once: when every box of this ref is collected (or at shutdown) and
// every host Retain has been dropped.
func (i *Interp) Box(payload interface{}, release func()) (*object.Boxed, *gc.Ref, error) {
	i.mu.Lock()
	defer i.mu.Unlock()
	if i.closed {
		return nil, nil, ErrShutdown
	}
	ref := i.registry.NewRef(payload, func(interface{}) {
		if release != nil {
			release()
		}
	})
	boxed := i.registry.Box(ref)
	i.machine.TrackBox(boxed, func() { i.registry.Finalize(boxed.ID()) })
	return boxed, ref, nil
}

// BoxRef wraps an existing ref in another machine value. Both boxes share
// the payload's keep-alive count, so the release func still runs only once,
// after the last box is collected.
func (i *Interp) BoxRef(ref *gc.Ref) (*object.Boxed, error) {
	i.mu.Lock()
	defer i.mu.Unlock()
	if i.closed {
		return nil, ErrShutdown
	}
	boxed := i.registry.Box(ref)
	i.machine.TrackBox(boxed, func() { i.registry.Finalize(boxed.ID()) })
	return boxed, nil
}

// GC runs a full collection: boxes unreachable from the interpreter's roots
// are finalized. Returns the number of boxes swept.
func (i *Interp) GC() (int, error) {
	i.mu.Lock()
	defer i.mu.Unlock()
	if i.closed {
		return 0, ErrShutdown
	}
	return i.machine.FullGC(), nil
}

// Shutdown finalizes every outstanding box and kills the handle. The first
// call wins; every later use of the interpreter, Shutdown included, returns
// ErrShutdown.
func (i *Interp) Shutdown() error {
	i.mu.Lock()
	defer i.mu.Unlock()
	if i.closed {
		return ErrShutdown
	}
	i.closed = true
	i.machine.FinalizeAllBoxes()
	forced := i.registry.ForceFinalizeAll()
	i.log.Debug().Int("forced", forced).Msg("interpreter shut down")
	return nil
}
