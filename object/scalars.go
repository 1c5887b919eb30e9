package object

import (
	"strconv"
)

// NilType is the type of the Nil singleton.
type NilType struct{}

func (n *NilType) Type() Type {
	return NIL
}

func (n *NilType) Inspect() string {
	return "nil"
}

func (n *NilType) String() string {
	return "nil"
}

func (n *NilType) Interface() interface{} {
	return nil
}

func (n *NilType) Equals(other Value) bool {
	_, ok := other.(*NilType)
	return ok
}

func (n *NilType) IsTruthy() bool {
	return false
}

// Bool wraps bool. Only the True and False singletons exist.
type Bool struct {
	value bool
}

func (b *Bool) Type() Type {
	return BOOL
}

func (b *Bool) Value() bool {
	return b.value
}

func (b *Bool) Inspect() string {
	return strconv.FormatBool(b.value)
}

func (b *Bool) String() string {
	return b.Inspect()
}

func (b *Bool) Interface() interface{} {
	return b.value
}

func (b *Bool) Equals(other Value) bool {
	o, ok := other.(*Bool)
	return ok && b.value == o.value
}

func (b *Bool) IsTruthy() bool {
	return b.value
}

// Int wraps int64, the native integer width of the runtime.
type Int struct {
	value int64
}

func NewInt(value int64) *Int {
	return &Int{value: value}
}

func (i *Int) Type() Type {
	return INT
}

func (i *Int) Value() int64 {
	return i.value
}

func (i *Int) Inspect() string {
	return strconv.FormatInt(i.value, 10)
}

func (i *Int) String() string {
	return i.Inspect()
}

func (i *Int) Interface() interface{} {
	return i.value
}

func (i *Int) Equals(other Value) bool {
	switch other := other.(type) {
	case *Int:
		return i.value == other.value
	case *Float:
		return float64(i.value) == other.value
	default:
		return false
	}
}

func (i *Int) IsTruthy() bool {
	return true
}

// Float wraps float64.
type Float struct {
	value float64
}

func NewFloat(value float64) *Float {
	return &Float{value: value}
}

func (f *Float) Type() Type {
	return FLOAT
}

func (f *Float) Value() float64 {
	return f.value
}

func (f *Float) Inspect() string {
	return strconv.FormatFloat(f.value, 'f', -1, 64)
}

func (f *Float) String() string {
	return f.Inspect()
}

func (f *Float) Interface() interface{} {
	return f.value
}

func (f *Float) Equals(other Value) bool {
	switch other := other.(type) {
	case *Float:
		return f.value == other.value
	case *Int:
		return f.value == float64(other.value)
	default:
		return false
	}
}

func (f *Float) IsTruthy() bool {
	return true
}

// Symbol is an immutable interned name.
type Symbol struct {
	name string
}

func NewSymbol(name string) *Symbol {
	return &Symbol{name: name}
}

func (s *Symbol) Type() Type {
	return SYMBOL
}

func (s *Symbol) Name() string {
	return s.name
}

func (s *Symbol) Inspect() string {
	return ":" + s.name
}

func (s *Symbol) String() string {
	return s.name
}

func (s *Symbol) Interface() interface{} {
	return s.name
}

func (s *Symbol) Equals(other Value) bool {
	o, ok := other.(*Symbol)
	return ok && s.name == o.name
}

func (s *Symbol) IsTruthy() bool {
	return true
}
