package object

import (
	"fmt"
)

// Instance is an object of a registered class: a class identity plus opaque
// instance state. Natively implemented classes keep their internal state in
// the data field; script-visible instance variables live in ivars.
type Instance struct {
	class *Class
	ivars map[string]Value
	data  interface{}
}

func NewInstance(class *Class) *Instance {
	return &Instance{class: class, ivars: map[string]Value{}}
}

func (i *Instance) Type() Type {
	return INSTANCE
}

func (i *Instance) Class() *Class {
	return i.class
}

// Data returns the native state attached to this instance, if any.
func (i *Instance) Data() interface{} {
	return i.data
}

// SetData attaches native state to this instance.
func (i *Instance) SetData(data interface{}) {
	i.data = data
}

// IVarGet returns the instance variable with the given name, or Nil.
func (i *Instance) IVarGet(name string) Value {
	if v, ok := i.ivars[name]; ok {
		return v
	}
	return Nil
}

func (i *Instance) IVarSet(name string, value Value) {
	i.ivars[name] = value
}

func (i *Instance) Inspect() string {
	return fmt.Sprintf("#<%s>", i.class.Name())
}

func (i *Instance) String() string {
	return i.Inspect()
}

func (i *Instance) Interface() interface{} {
	return i
}

func (i *Instance) Equals(other Value) bool {
	return i == other
}

func (i *Instance) IsTruthy() bool {
	return true
}

func (i *Instance) Contents() []Value {
	values := make([]Value, 0, len(i.ivars))
	for _, v := range i.ivars {
		values = append(values, v)
	}
	return values
}

// Exception is a raised or raisable condition: a class from the exception
// taxonomy, a message as exact bytes, and an optional backtrace.
type Exception struct {
	class     *Class
	message   []byte
	backtrace []string
}

func NewException(class *Class, message []byte) *Exception {
	return &Exception{class: class, message: message}
}

func (e *Exception) Type() Type {
	return EXCEPTION
}

func (e *Exception) Class() *Class {
	return e.class
}

// Message returns the message bytes without copying.
func (e *Exception) Message() []byte {
	return e.message
}

// Backtrace returns the stack frames, most recent call first.
func (e *Exception) Backtrace() []string {
	return e.backtrace
}

// SetBacktrace records the stack frames. Frames are stored as given,
// without reordering.
func (e *Exception) SetBacktrace(frames []string) {
	e.backtrace = frames
}

func (e *Exception) Inspect() string {
	return fmt.Sprintf("#<%s: %s>", e.class.Name(), string(e.message))
}

func (e *Exception) String() string {
	return e.Inspect()
}

func (e *Exception) Interface() interface{} {
	return e
}

func (e *Exception) Equals(other Value) bool {
	return e == other
}

func (e *Exception) IsTruthy() bool {
	return true
}
