// Package object provides the standard set of Garnet value types.
//
// Values crossing the embedding boundary are represented by the Value
// interface. Host code typically type asserts a Value to a concrete type:
//
//	switch obj := obj.(type) {
//	case *object.String:
//		// do something with obj.Bytes()
//	case *object.Float:
//		// do something with obj.Value()
//	}
//
// The Type() method of each value may also be used to get a string name
// of the value type, such as "string" or "float".
package object

// Type of a value as a string.
type Type string

// Type constants
const (
	ARRAY     Type = "array"
	BOOL      Type = "bool"
	BOXED     Type = "boxed"
	CLASS     Type = "class"
	EXCEPTION Type = "exception"
	FLOAT     Type = "float"
	HASH      Type = "hash"
	INSTANCE  Type = "instance"
	INT       Type = "int"
	NIL       Type = "nil"
	STRING    Type = "string"
	SYMBOL    Type = "symbol"
)

var (
	Nil   = &NilType{}
	True  = &Bool{value: true}
	False = &Bool{value: false}
)

// Value is the interface that all Garnet value types must implement.
type Value interface {
	// Type of the value.
	Type() Type

	// Inspect returns a string representation of the given value, in the
	// form Ruby's Kernel#p would print it.
	Inspect() string

	// Interface converts the given value to a native Go value.
	Interface() interface{}

	// Equals returns true if the given value is equal to this value.
	Equals(other Value) bool

	// IsTruthy returns true if the value is considered "truthy". Only nil
	// and false are falsy.
	IsTruthy() bool
}

// Container is implemented by values that hold other values and therefore
// participate in reachability marking.
type Container interface {
	// Contents returns the directly held values.
	Contents() []Value
}

// NewBool returns the Bool singleton for the given bool.
func NewBool(value bool) *Bool {
	if value {
		return True
	}
	return False
}

// hashKey identifies a scalar value used as a hash key. Two scalar values
// that are Equals have identical hash keys.
type hashKey struct {
	typ  Type
	str  string
	num  int64
	fnum float64
}

// keyableValue computes a hashKey for a scalar value. The second return is
// false for composite and instance values, which cannot be hash keys.
func keyableValue(v Value) (hashKey, bool) {
	switch v := v.(type) {
	case *NilType:
		return hashKey{typ: NIL}, true
	case *Bool:
		if v.value {
			return hashKey{typ: BOOL, num: 1}, true
		}
		return hashKey{typ: BOOL, num: 0}, true
	case *Int:
		return hashKey{typ: INT, num: v.value}, true
	case *Float:
		return hashKey{typ: FLOAT, fnum: v.value}, true
	case *Symbol:
		return hashKey{typ: SYMBOL, str: v.name}, true
	case *String:
		return hashKey{typ: STRING, str: string(v.value)}, true
	default:
		return hashKey{}, false
	}
}
