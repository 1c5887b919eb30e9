package object

import (
	"strings"
)

// HashPair is one key-value entry of a Hash.
type HashPair struct {
	Key   Value
	Value Value
}

// Hash is a mutable mapping that preserves key insertion order. Keys are
// restricted to scalar value types (nil, bool, int, float, symbol, string);
// Set rejects composite keys.
type Hash struct {
	order []hashKey
	pairs map[hashKey]*HashPair
}

func NewHash() *Hash {
	return &Hash{pairs: map[hashKey]*HashPair{}}
}

// NewHashFromPairs builds a Hash preserving the order of the given pairs.
func NewHashFromPairs(pairs []HashPair) (*Hash, error) {
	h := NewHash()
	for _, p := range pairs {
		if err := h.Set(p.Key, p.Value); err != nil {
			return nil, err
		}
	}
	return h, nil
}

func (h *Hash) Type() Type {
	return HASH
}

func (h *Hash) Len() int {
	return len(h.order)
}

// Get returns the value stored under key, or nil, false when absent.
func (h *Hash) Get(key Value) (Value, bool) {
	k, ok := keyableValue(key)
	if !ok {
		return nil, false
	}
	pair, found := h.pairs[k]
	if !found {
		return nil, false
	}
	return pair.Value, true
}

// Set stores value under key. Updating an existing key keeps its original
// insertion position.
func (h *Hash) Set(key, value Value) error {
	k, ok := keyableValue(key)
	if !ok {
		return &ConvertError{From: string(key.Type()), To: "hash key", Reason: "not a scalar value"}
	}
	if pair, found := h.pairs[k]; found {
		pair.Value = value
		return nil
	}
	h.pairs[k] = &HashPair{Key: key, Value: value}
	h.order = append(h.order, k)
	return nil
}

// Delete removes key and returns the removed value, or nil, false.
func (h *Hash) Delete(key Value) (Value, bool) {
	k, ok := keyableValue(key)
	if !ok {
		return nil, false
	}
	pair, found := h.pairs[k]
	if !found {
		return nil, false
	}
	delete(h.pairs, k)
	for i, o := range h.order {
		if o == k {
			h.order = append(h.order[:i], h.order[i+1:]...)
			break
		}
	}
	return pair.Value, true
}

// Pairs returns the entries in insertion order.
func (h *Hash) Pairs() []HashPair {
	pairs := make([]HashPair, 0, len(h.order))
	for _, k := range h.order {
		pairs = append(pairs, *h.pairs[k])
	}
	return pairs
}

func (h *Hash) Inspect() string {
	var sb strings.Builder
	sb.WriteString("{")
	for i, k := range h.order {
		if i > 0 {
			sb.WriteString(", ")
		}
		pair := h.pairs[k]
		sb.WriteString(pair.Key.Inspect())
		sb.WriteString(" => ")
		sb.WriteString(pair.Value.Inspect())
	}
	sb.WriteString("}")
	return sb.String()
}

func (h *Hash) String() string {
	return h.Inspect()
}

func (h *Hash) Interface() interface{} {
	result := make(map[string]interface{}, len(h.order))
	for _, k := range h.order {
		pair := h.pairs[k]
		result[pair.Key.Inspect()] = pair.Value.Interface()
	}
	return result
}

func (h *Hash) Equals(other Value) bool {
	o, ok := other.(*Hash)
	if !ok || len(h.order) != len(o.order) {
		return false
	}
	for _, k := range h.order {
		pair := h.pairs[k]
		otherPair, found := o.pairs[k]
		if !found || !pair.Value.Equals(otherPair.Value) {
			return false
		}
	}
	return true
}

func (h *Hash) IsTruthy() bool {
	return true
}

func (h *Hash) Contents() []Value {
	values := make([]Value, 0, len(h.order)*2)
	for _, k := range h.order {
		pair := h.pairs[k]
		values = append(values, pair.Key, pair.Value)
	}
	return values
}
