package exception

import (
	"fmt"
)

// Error is the host-side representation of a raised exception. It carries
// the mapped kind, the original class name (which differs from the kind's
// name only for unmapped classes), the message as exact bytes, and the
// backtrace as reported by the machine, most recent frame first.
//
// Error implements the error interface, so native code propagates raised
// conditions as ordinary Go errors. The dispatch layer recognizes *Error
// and re-raises it inside the machine with the mapped class identity.
type Error struct {
	kind      Kind
	className string
	message   []byte
	backtrace []string
}

// New creates an Error of the given kind with a message.
func New(kind Kind, message string) *Error {
	return &Error{kind: kind, className: kind.Name(), message: []byte(message)}
}

// Newf creates an Error of the given kind with a formatted message.
func Newf(kind Kind, format string, args ...interface{}) *Error {
	return New(kind, fmt.Sprintf(format, args...))
}

// NewBytes creates an Error whose message is the exact bytes given.
func NewBytes(kind Kind, message []byte) *Error {
	return &Error{kind: kind, className: kind.Name(), message: message}
}

// Unmapped creates the generic fallback Error for a VM-raised exception
// whose class has no descriptor. The class name and message cross the
// boundary verbatim.
func Unmapped(className string, message []byte) *Error {
	return &Error{kind: KindUnmapped, className: className, message: message}
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s (%s)", string(e.message), e.className)
}

// Kind returns the mapped taxonomy kind. KindUnmapped for exceptions whose
// class has no descriptor.
func (e *Error) Kind() Kind {
	return e.kind
}

// ClassName returns the exception class name as observed by scripts.
func (e *Error) ClassName() string {
	return e.className
}

// Message returns the message bytes without copying.
func (e *Error) Message() []byte {
	return e.message
}

// Backtrace returns the machine-reported stack frames, unmodified.
func (e *Error) Backtrace() []string {
	return e.backtrace
}

// WithBacktrace attaches a backtrace. Frames are stored as given, without
// reordering.
func (e *Error) WithBacktrace(frames []string) *Error {
	e.backtrace = frames
	return e
}

// Convenience constructors for the kinds native code raises most often.

func ArgumentError(format string, args ...interface{}) *Error {
	return Newf(KindArgumentError, format, args...)
}

func TypeError(format string, args ...interface{}) *Error {
	return Newf(KindTypeError, format, args...)
}

func RuntimeError(format string, args ...interface{}) *Error {
	return Newf(KindRuntimeError, format, args...)
}

func KeyError(format string, args ...interface{}) *Error {
	return Newf(KindKeyError, format, args...)
}

func NameError(format string, args ...interface{}) *Error {
	return Newf(KindNameError, format, args...)
}

func NoMethodError(format string, args ...interface{}) *Error {
	return Newf(KindNoMethodError, format, args...)
}

func RangeError(format string, args ...interface{}) *Error {
	return Newf(KindRangeError, format, args...)
}

func SyntaxError(format string, args ...interface{}) *Error {
	return Newf(KindSyntaxError, format, args...)
}

func LoadError(format string, args ...interface{}) *Error {
	return Newf(KindLoadError, format, args...)
}

func RegexpError(format string, args ...interface{}) *Error {
	return Newf(KindRegexpError, format, args...)
}

func NotImplementedError(format string, args ...interface{}) *Error {
	return Newf(KindNotImplementedError, format, args...)
}

func Fatal(format string, args ...interface{}) *Error {
	return Newf(KindFatal, format, args...)
}
