package object

import (
	"fmt"
	"math"
	"sort"
)

// ConvertError indicates that a value crossing the boundary has no valid
// representation on the target side. It is always returned as a value-level
// error, never raised mid-conversion, and a composite conversion that fails
// on any element fails as a whole with no partial result exposed.
type ConvertError struct {
	From   string
	To     string
	Reason string
}

func (e *ConvertError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("convert error: cannot convert %s to %s", e.From, e.To)
	}
	return fmt.Sprintf("convert error: cannot convert %s to %s: %s", e.From, e.To, e.Reason)
}

func convertErrorf(from, to, format string, args ...interface{}) *ConvertError {
	return &ConvertError{From: from, To: to, Reason: fmt.Sprintf(format, args...)}
}

// FromGo converts a Go value to a Value. Conversion is lossless or it fails:
// an integer outside int64 range is a ConvertError, not a truncation.
// Composite conversions recurse element-wise and fail atomically. Map keys
// are sorted so that the resulting Hash has a deterministic insertion order.
func FromGo(v interface{}) (Value, error) {
	switch v := v.(type) {
	case nil:
		return Nil, nil
	case Value:
		return v, nil
	case bool:
		return NewBool(v), nil
	case int:
		return NewInt(int64(v)), nil
	case int8:
		return NewInt(int64(v)), nil
	case int16:
		return NewInt(int64(v)), nil
	case int32:
		return NewInt(int64(v)), nil
	case int64:
		return NewInt(v), nil
	case uint:
		return uintToInt(uint64(v))
	case uint8:
		return NewInt(int64(v)), nil
	case uint16:
		return NewInt(int64(v)), nil
	case uint32:
		return NewInt(int64(v)), nil
	case uint64:
		return uintToInt(v)
	case float32:
		return NewFloat(float64(v)), nil
	case float64:
		return NewFloat(v), nil
	case string:
		return NewString(v), nil
	case []byte:
		dupe := make([]byte, len(v))
		copy(dupe, v)
		return NewBytes(dupe), nil
	case []interface{}:
		items := make([]Value, 0, len(v))
		for i, item := range v {
			converted, err := FromGo(item)
			if err != nil {
				return nil, convertErrorf("slice", "array", "element %d: %v", i, err)
			}
			items = append(items, converted)
		}
		return NewArray(items), nil
	case []string:
		items := make([]Value, 0, len(v))
		for _, item := range v {
			items = append(items, NewString(item))
		}
		return NewArray(items), nil
	case map[string]interface{}:
		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		h := NewHash()
		for _, k := range keys {
			converted, err := FromGo(v[k])
			if err != nil {
				return nil, convertErrorf("map", "hash", "key %q: %v", k, err)
			}
			if err := h.Set(NewString(k), converted); err != nil {
				return nil, err
			}
		}
		return h, nil
	case map[string]string:
		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		h := NewHash()
		for _, k := range keys {
			if err := h.Set(NewString(k), NewString(v[k])); err != nil {
				return nil, err
			}
		}
		return h, nil
	default:
		return nil, convertErrorf(fmt.Sprintf("%T", v), "value", "unsupported Go type")
	}
}

func uintToInt(v uint64) (Value, error) {
	if v > math.MaxInt64 {
		return nil, convertErrorf("uint64", "int", "%d overflows the native integer width", v)
	}
	return NewInt(int64(v)), nil
}

// *****************************************************************************
// Typed extraction helpers
// *****************************************************************************

func AsBool(v Value) (bool, error) {
	b, ok := v.(*Bool)
	if !ok {
		return false, &ConvertError{From: string(v.Type()), To: "bool"}
	}
	return b.value, nil
}

func AsInt(v Value) (int64, error) {
	i, ok := v.(*Int)
	if !ok {
		return 0, &ConvertError{From: string(v.Type()), To: "int"}
	}
	return i.value, nil
}

func AsFloat(v Value) (float64, error) {
	switch v := v.(type) {
	case *Int:
		return float64(v.value), nil
	case *Float:
		return v.value, nil
	default:
		return 0, &ConvertError{From: string(v.Type()), To: "float"}
	}
}

func AsString(v Value) (string, error) {
	s, ok := v.(*String)
	if !ok {
		return "", &ConvertError{From: string(v.Type()), To: "string"}
	}
	return string(s.value), nil
}

func AsBytes(v Value) ([]byte, error) {
	s, ok := v.(*String)
	if !ok {
		return nil, &ConvertError{From: string(v.Type()), To: "string"}
	}
	return s.value, nil
}

// AsSymbolName accepts a symbol or a string, the usual method-name duality.
func AsSymbolName(v Value) (string, error) {
	switch v := v.(type) {
	case *Symbol:
		return v.name, nil
	case *String:
		return string(v.value), nil
	default:
		return "", &ConvertError{From: string(v.Type()), To: "symbol"}
	}
}

func AsArray(v Value) (*Array, error) {
	a, ok := v.(*Array)
	if !ok {
		return nil, &ConvertError{From: string(v.Type()), To: "array"}
	}
	return a, nil
}

func AsHash(v Value) (*Hash, error) {
	h, ok := v.(*Hash)
	if !ok {
		return nil, &ConvertError{From: string(v.Type()), To: "hash"}
	}
	return h, nil
}

func AsClass(v Value) (*Class, error) {
	c, ok := v.(*Class)
	if !ok {
		return nil, &ConvertError{From: string(v.Type()), To: "class"}
	}
	return c, nil
}

func AsInstance(v Value) (*Instance, error) {
	i, ok := v.(*Instance)
	if !ok {
		return nil, &ConvertError{From: string(v.Type()), To: "instance"}
	}
	return i, nil
}

func AsException(v Value) (*Exception, error) {
	e, ok := v.(*Exception)
	if !ok {
		return nil, &ConvertError{From: string(v.Type()), To: "exception"}
	}
	return e, nil
}

// AsStringSlice converts an array of strings element-wise, failing on the
// first non-string element.
func AsStringSlice(v Value) ([]string, error) {
	a, err := AsArray(v)
	if err != nil {
		return nil, err
	}
	result := make([]string, 0, len(a.items))
	for _, item := range a.items {
		s, err := AsString(item)
		if err != nil {
			return nil, err
		}
		result = append(result, s)
	}
	return result, nil
}
