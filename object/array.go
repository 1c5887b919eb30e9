package object

import (
	"strings"
)

// Array is an ordered, mutable sequence of values.
type Array struct {
	items []Value
}

// NewArray creates an Array that takes ownership of the given slice.
func NewArray(items []Value) *Array {
	return &Array{items: items}
}

func (a *Array) Type() Type {
	return ARRAY
}

// Items returns the underlying slice without copying.
func (a *Array) Items() []Value {
	return a.items
}

func (a *Array) Len() int {
	return len(a.items)
}

// Get returns the item at the given index. Negative indexes count from the
// end. Out-of-range indexes return nil, false.
func (a *Array) Get(index int) (Value, bool) {
	if index < 0 {
		index += len(a.items)
	}
	if index < 0 || index >= len(a.items) {
		return nil, false
	}
	return a.items[index], true
}

func (a *Array) Append(value Value) {
	a.items = append(a.items, value)
}

func (a *Array) Inspect() string {
	var sb strings.Builder
	sb.WriteString("[")
	for i, item := range a.items {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(item.Inspect())
	}
	sb.WriteString("]")
	return sb.String()
}

func (a *Array) String() string {
	return a.Inspect()
}

func (a *Array) Interface() interface{} {
	items := make([]interface{}, 0, len(a.items))
	for _, item := range a.items {
		items = append(items, item.Interface())
	}
	return items
}

func (a *Array) Equals(other Value) bool {
	o, ok := other.(*Array)
	if !ok || len(a.items) != len(o.items) {
		return false
	}
	for i, item := range a.items {
		if !item.Equals(o.items[i]) {
			return false
		}
	}
	return true
}

func (a *Array) IsTruthy() bool {
	return true
}

func (a *Array) Contents() []Value {
	return a.items
}
