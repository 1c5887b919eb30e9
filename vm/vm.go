// Package vm implements the object machine: the class table, method
// dispatch, exception unwinding, and the reachability collector for
// host-owned boxes.
//
// Inside the machine, raised exceptions unwind as panics carrying the
// exception value. The Protect boundary converts them into *exception.Error
// values, so host callers only ever see ordinary Go errors. The reverse
// conversion happens at dispatch: a native method returning an error has it
// re-raised inside the machine with the mapped class identity.
package vm

import (
	"fmt"
	"io"
	"os"
	"sync/atomic"

	"github.com/rs/zerolog"

	"github.com/garnet-lang/garnet/capability"
	"github.com/garnet-lang/garnet/exception"
	"github.com/garnet-lang/garnet/object"
)

// NativeFunc is the signature of a method implemented in Go. The receiver is
// the value the method was invoked on; for singleton methods it is the class
// itself. Returning a *exception.Error raises that exception in the machine;
// any other error is mapped through the taxonomy first.
type NativeFunc func(m *Machine, self object.Value, args []object.Value) (object.Value, error)

// Arity declares the argument count a native method accepts. Max of -1 means
// variadic. Violations raise ArgumentError before the method body runs.
type Arity struct {
	Min int
	Max int
}

func (a Arity) check(given int) *exception.Error {
	if given < a.Min || (a.Max >= 0 && given > a.Max) {
		return exception.ArgumentError(
			"wrong number of arguments (given %d, expected %s)", given, a.expected())
	}
	return nil
}

func (a Arity) expected() string {
	switch {
	case a.Max < 0:
		return fmt.Sprintf("%d+", a.Min)
	case a.Min == a.Max:
		return fmt.Sprintf("%d", a.Min)
	default:
		return fmt.Sprintf("%d..%d", a.Min, a.Max)
	}
}

type method struct {
	name  string
	fn    NativeFunc
	arity Arity
}

type classEntry struct {
	class    *object.Class
	methods  map[string]*method
	smethods map[string]*method
}

type trackedBox struct {
	value    *object.Boxed
	finalize func()
}

// raised carries an in-flight exception up the Go stack. It only exists
// between a Raise call and the enclosing Protect boundary.
type raised struct {
	ex *object.Exception
}

type frame struct {
	name string
	file string
	line int
}

// Machine is one interpreter instance. It is not safe for concurrent use;
// the embedding layer serializes access.
type Machine struct {
	log       zerolog.Logger
	out       io.Writer
	classes   map[string]*classEntry
	constants map[string]object.Value
	globals   map[string]object.Value
	nextClass object.ClassID
	boxes     map[object.BoxID]*trackedBox
	arena     []object.Value
	frames    []frame
	files     []string
	main      object.Value
	gcRuns    int64
}

// Option configures a Machine at construction.
type Option func(*Machine)

// WithLogger sets the structured logger. The default discards everything.
func WithLogger(log zerolog.Logger) Option {
	return func(m *Machine) { m.log = log }
}

// WithOutput sets the writer that puts, print and p write to.
func WithOutput(w io.Writer) Option {
	return func(m *Machine) { m.out = w }
}

// New creates an empty machine. Callers install the core classes with
// InstallCore before evaluating anything.
func New(opts ...Option) *Machine {
	m := &Machine{
		log:       zerolog.Nop(),
		out:       os.Stdout,
		classes:   make(map[string]*classEntry),
		constants: make(map[string]object.Value),
		globals:   make(map[string]object.Value),
		boxes:     make(map[object.BoxID]*trackedBox),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Log returns the machine's logger.
func (m *Machine) Log() zerolog.Logger {
	return m.log
}

// Output returns the writer scripts print to.
func (m *Machine) Output() io.Writer {
	return m.out
}

// defineClass creates and registers a class. Duplicate names are a
// configuration error surfaced at registration time, never a raise.
func (m *Machine) defineClass(name string, super *object.Class) (*classEntry, error) {
	if _, ok := m.classes[name]; ok {
		return nil, fmt.Errorf("class %s already defined", name)
	}
	m.nextClass++
	entry := &classEntry{
		class:    object.NewClass(m.nextClass, name, super),
		methods:  make(map[string]*method),
		smethods: make(map[string]*method),
	}
	m.classes[name] = entry
	m.constants[name] = entry.class
	m.log.Debug().Str("class", name).Msg("class defined")
	return entry, nil
}

// Class looks up a defined class by name.
func (m *Machine) Class(name string) (*object.Class, bool) {
	entry, ok := m.classes[name]
	if !ok {
		return nil, false
	}
	return entry.class, true
}

// MustClass looks up a class that the caller installed earlier. It panics
// on a miss: that is a wiring bug, not a runtime condition.
func (m *Machine) MustClass(name string) *object.Class {
	class, ok := m.Class(name)
	if !ok {
		panic(fmt.Sprintf("vm: class %s not defined", name))
	}
	return class
}

// DefineConstant binds a top-level constant. Rebinding is a configuration
// error.
func (m *Machine) DefineConstant(name string, value object.Value) error {
	if _, ok := m.constants[name]; ok {
		return fmt.Errorf("constant %s already defined", name)
	}
	m.constants[name] = value
	return nil
}

// Constant resolves a top-level constant.
func (m *Machine) Constant(name string) (object.Value, bool) {
	v, ok := m.constants[name]
	return v, ok
}

// GlobalSet binds a global variable.
func (m *Machine) GlobalSet(name string, value object.Value) {
	m.globals[name] = value
}

// GlobalGet reads a global variable, nil-defaulting like the language does.
func (m *Machine) GlobalGet(name string) object.Value {
	if v, ok := m.globals[name]; ok {
		return v
	}
	return object.Nil
}

// Main returns the top-level receiver. Bare method calls in scripts
// dispatch on it.
func (m *Machine) Main() object.Value {
	if m.main == nil {
		m.main = object.NewInstance(m.MustClass("Object"))
	}
	return m.main
}

// ClassOf returns the class a method lookup on v starts at.
func (m *Machine) ClassOf(v object.Value) *object.Class {
	switch v := v.(type) {
	case *object.NilType:
		return m.MustClass("NilClass")
	case *object.Bool:
		if v.Value() {
			return m.MustClass("TrueClass")
		}
		return m.MustClass("FalseClass")
	case *object.Int:
		return m.MustClass("Integer")
	case *object.Float:
		return m.MustClass("Float")
	case *object.String:
		return m.MustClass("String")
	case *object.Symbol:
		return m.MustClass("Symbol")
	case *object.Array:
		return m.MustClass("Array")
	case *object.Hash:
		return m.MustClass("Hash")
	case *object.Class:
		return m.MustClass("Class")
	case *object.Instance:
		return v.Class()
	case *object.Exception:
		return v.Class()
	default:
		return m.MustClass("Object")
	}
}

// prettyName names a value for diagnostics the way scripts see it: the
// literal for the three singletons, the class name for everything else.
func (m *Machine) prettyName(v object.Value) string {
	switch v := v.(type) {
	case *object.NilType:
		return "nil"
	case *object.Bool:
		if v.Value() {
			return "true"
		}
		return "false"
	default:
		return m.ClassOf(v).Name()
	}
}

func (m *Machine) lookupMethod(class *object.Class, name string) (*method, bool) {
	for c := class; c != nil; c = c.Super() {
		if entry, ok := m.classes[c.Name()]; ok {
			if fn, ok := entry.methods[name]; ok {
				return fn, true
			}
		}
	}
	return nil, false
}

func (m *Machine) lookupSMethod(class *object.Class, name string) (*method, bool) {
	for c := class; c != nil; c = c.Super() {
		if entry, ok := m.classes[c.Name()]; ok {
			if fn, ok := entry.smethods[name]; ok {
				return fn, true
			}
		}
	}
	return nil, false
}

// Invoke dispatches a method call inside the machine. Raised exceptions
// unwind as panics; callers outside an eval must wrap with Protect.
func (m *Machine) Invoke(recv object.Value, name string, args []object.Value) object.Value {
	var fn *method
	var ok bool
	if class, isClass := recv.(*object.Class); isClass {
		fn, ok = m.lookupSMethod(class, name)
		if !ok {
			// Fall back to instance methods of Class itself.
			fn, ok = m.lookupMethod(m.MustClass("Class"), name)
		}
	} else {
		fn, ok = m.lookupMethod(m.ClassOf(recv), name)
	}
	if !ok {
		m.RaiseError(exception.NoMethodError(
			"undefined method '%s' for %s", name, m.prettyName(recv)))
	}
	if err := fn.arity.check(len(args)); err != nil {
		m.RaiseError(err)
	}
	m.pushFrame(fn.name)
	defer m.popFrame()
	result, err := fn.fn(m, recv, args)
	if err != nil {
		m.Raise(m.errorToException(err))
	}
	if result == nil {
		result = object.Nil
	}
	return result
}

// Raise starts unwinding with the given exception. The backtrace is captured
// at the raise site unless one is already attached.
func (m *Machine) Raise(ex *object.Exception) {
	if ex.Backtrace() == nil {
		ex.SetBacktrace(m.Backtrace())
	}
	panic(&raised{ex: ex})
}

// RaiseError raises the machine-side exception for a host error value.
func (m *Machine) RaiseError(err *exception.Error) {
	m.Raise(m.errorToException(err))
}

// Protect runs fn, converting any raise that unwinds out of it into a
// host-side *exception.Error. Non-raise panics propagate unchanged.
func (m *Machine) Protect(fn func() object.Value) (result object.Value, raiseErr *exception.Error) {
	depth := len(m.frames)
	defer func() {
		if r := recover(); r != nil {
			rs, ok := r.(*raised)
			if !ok {
				panic(r)
			}
			m.frames = m.frames[:depth]
			result = nil
			raiseErr = m.exceptionToError(rs.ex)
		}
	}()
	return fn(), nil
}

// Call is the host-facing dispatch entry point: Invoke wrapped in Protect.
func (m *Machine) Call(recv object.Value, name string, args []object.Value) (object.Value, error) {
	result, raiseErr := m.Protect(func() object.Value {
		return m.Invoke(recv, name, args)
	})
	if raiseErr != nil {
		return nil, raiseErr
	}
	return result, nil
}

// errorToException maps a host error to the exception value that will unwind
// inside the machine. *exception.Error keeps its class identity; well-known
// boundary errors map to their conventional classes; anything else becomes a
// RuntimeError so scripts can still rescue it.
func (m *Machine) errorToException(err error) *object.Exception {
	switch err := err.(type) {
	case *exception.Error:
		class, ok := m.Class(err.ClassName())
		if !ok {
			class = m.MustClass("RuntimeError")
		}
		ex := object.NewException(class, err.Message())
		if bt := err.Backtrace(); bt != nil {
			ex.SetBacktrace(bt)
		}
		return ex
	case *object.ConvertError:
		return object.NewException(m.MustClass("TypeError"), []byte(err.Error()))
	case *object.FrozenValueError:
		return object.NewException(m.MustClass("FrozenError"), []byte(err.Error()))
	case *capability.UnsupportedError:
		return object.NewException(m.MustClass("NotImplementedError"), []byte(err.Error()))
	default:
		return object.NewException(m.MustClass("RuntimeError"), []byte(err.Error()))
	}
}

// exceptionToError maps an unwound exception to the host taxonomy. Classes
// with a descriptor keep their kind; everything else crosses as the generic
// unmapped fallback with name and message verbatim.
func (m *Machine) exceptionToError(ex *object.Exception) *exception.Error {
	name := ex.Class().Name()
	var err *exception.Error
	if kind, ok := exception.Lookup(name); ok {
		err = exception.NewBytes(kind, ex.Message())
	} else {
		err = exception.Unmapped(name, ex.Message())
	}
	return err.WithBacktrace(ex.Backtrace())
}

// Frames and eval context.

func (m *Machine) pushFrame(name string) {
	m.frames = append(m.frames, frame{name: name, file: m.File(), line: m.line()})
}

func (m *Machine) popFrame() {
	m.frames = m.frames[:len(m.frames)-1]
}

func (m *Machine) setLine(line int) {
	if len(m.frames) > 0 {
		m.frames[len(m.frames)-1].line = line
	}
}

func (m *Machine) line() int {
	if len(m.frames) > 0 {
		return m.frames[len(m.frames)-1].line
	}
	return 0
}

// Backtrace renders the current frames, most recent first.
func (m *Machine) Backtrace() []string {
	frames := make([]string, 0, len(m.frames))
	for i := len(m.frames) - 1; i >= 0; i-- {
		f := m.frames[i]
		frames = append(frames, fmt.Sprintf("%s:%d:in `%s'", f.file, f.line, f.name))
	}
	return frames
}

// PushFile enters an eval context with the given filename.
func (m *Machine) PushFile(name string) {
	m.files = append(m.files, name)
}

// PopFile leaves the innermost eval context.
func (m *Machine) PopFile() {
	m.files = m.files[:len(m.files)-1]
}

// File is the filename of the innermost eval context, or "(eval)" outside
// any.
func (m *Machine) File() string {
	if len(m.files) == 0 {
		return "(eval)"
	}
	return m.files[len(m.files)-1]
}

// Arena: temporary roots for values native code holds across allocations.

// ArenaSave marks the current arena extent. Pair with ArenaRestore.
func (m *Machine) ArenaSave() int {
	return len(m.arena)
}

// ArenaRestore drops every root kept since the matching ArenaSave.
func (m *Machine) ArenaRestore(idx int) {
	for i := idx; i < len(m.arena); i++ {
		m.arena[i] = nil
	}
	m.arena = m.arena[:idx]
}

// ArenaKeep roots v until the enclosing ArenaRestore.
func (m *Machine) ArenaKeep(v object.Value) object.Value {
	m.arena = append(m.arena, v)
	return v
}

// TrackBox registers a boxed value with a finalizer that runs when the box
// becomes unreachable from the machine's roots, or at shutdown. Finalizers
// must not allocate machine values.
func (m *Machine) TrackBox(box *object.Boxed, finalize func()) {
	m.boxes[box.ID()] = &trackedBox{value: box, finalize: finalize}
}

// FullGC marks every value reachable from constants, globals and the arena,
// then finalizes tracked boxes that were not reached.
func (m *Machine) FullGC() int {
	marked := make(map[object.BoxID]bool)
	seen := make(map[object.Value]bool)
	var mark func(v object.Value)
	mark = func(v object.Value) {
		if v == nil || seen[v] {
			return
		}
		seen[v] = true
		if box, ok := v.(*object.Boxed); ok {
			marked[box.ID()] = true
		}
		if c, ok := v.(object.Container); ok {
			for _, inner := range c.Contents() {
				mark(inner)
			}
		}
	}
	for _, v := range m.constants {
		mark(v)
	}
	for _, v := range m.globals {
		mark(v)
	}
	for _, v := range m.arena {
		mark(v)
	}
	swept := 0
	for id, tracked := range m.boxes {
		if marked[id] {
			continue
		}
		delete(m.boxes, id)
		tracked.finalize()
		swept++
	}
	runs := atomic.AddInt64(&m.gcRuns, 1)
	m.log.Debug().Int("swept", swept).Int64("run", runs).Msg("full gc")
	return swept
}

// FinalizeAllBoxes finalizes every tracked box regardless of reachability.
// The shutdown path calls this once.
func (m *Machine) FinalizeAllBoxes() {
	for id, tracked := range m.boxes {
		delete(m.boxes, id)
		tracked.finalize()
	}
}

// LiveBoxes reports how many tracked boxes have not been finalized.
func (m *Machine) LiveBoxes() int {
	return len(m.boxes)
}
