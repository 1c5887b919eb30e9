package object

import (
	"bytes"
	"strconv"
	"unicode/utf8"
)

// String is a mutable byte string. The contents are raw bytes and are not
// guaranteed to be valid UTF-8, matching the source language's semantics.
type String struct {
	value  []byte
	frozen bool
}

// NewString creates a String from a Go string. The bytes are copied.
func NewString(value string) *String {
	return &String{value: []byte(value)}
}

// NewBytes creates a String that takes ownership of the given byte slice.
func NewBytes(value []byte) *String {
	return &String{value: value}
}

func (s *String) Type() Type {
	return STRING
}

// Bytes returns the underlying byte slice without copying. Mutating the
// returned slice mutates the string.
func (s *String) Bytes() []byte {
	return s.value
}

// Value returns the contents as a Go string.
func (s *String) Value() string {
	return string(s.value)
}

func (s *String) Len() int {
	return len(s.value)
}

func (s *String) Inspect() string {
	if utf8.Valid(s.value) {
		return strconv.Quote(string(s.value))
	}
	// Non-UTF-8 contents are escaped byte by byte.
	var b bytes.Buffer
	b.WriteByte('"')
	for _, c := range s.value {
		if c >= 0x20 && c < 0x7f && c != '"' && c != '\\' {
			b.WriteByte(c)
			continue
		}
		switch c {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		case '\t':
			b.WriteString(`\t`)
		default:
			b.WriteString(`\x`)
			const hex = "0123456789abcdef"
			b.WriteByte(hex[c>>4])
			b.WriteByte(hex[c&0xf])
		}
	}
	b.WriteByte('"')
	return b.String()
}

func (s *String) String() string {
	return string(s.value)
}

func (s *String) Interface() interface{} {
	return string(s.value)
}

func (s *String) Equals(other Value) bool {
	o, ok := other.(*String)
	return ok && bytes.Equal(s.value, o.value)
}

func (s *String) IsTruthy() bool {
	return true
}

// Append appends bytes to the string in place.
func (s *String) Append(data []byte) error {
	if s.frozen {
		return &FrozenValueError{Type: STRING}
	}
	s.value = append(s.value, data...)
	return nil
}

// Freeze marks the string immutable.
func (s *String) Freeze() *String {
	s.frozen = true
	return s
}

// Frozen reports whether the string is frozen.
func (s *String) Frozen() bool {
	return s.frozen
}

// Clone returns a mutable copy of the string contents.
func (s *String) Clone() *String {
	dupe := make([]byte, len(s.value))
	copy(dupe, s.value)
	return &String{value: dupe}
}

// FrozenValueError indicates an attempted mutation of a frozen value.
type FrozenValueError struct {
	Type Type
}

func (e *FrozenValueError) Error() string {
	return "can't modify frozen " + string(e.Type)
}
