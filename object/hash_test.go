package object

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHashInsertionOrder(t *testing.T) {
	h := NewHash()
	require.Nil(t, h.Set(NewString("one"), NewInt(1)))
	require.Nil(t, h.Set(NewSymbol("two"), NewInt(2)))
	require.Nil(t, h.Set(NewInt(3), NewInt(3)))

	// Updating an existing key keeps its position.
	require.Nil(t, h.Set(NewString("one"), NewInt(100)))

	pairs := h.Pairs()
	require.Len(t, pairs, 3)
	require.Equal(t, int64(100), pairs[0].Value.(*Int).Value())
	require.Equal(t, ":two", pairs[1].Key.Inspect())
	require.Equal(t, int64(3), pairs[2].Value.(*Int).Value())
}

func TestHashRejectsCompositeKeys(t *testing.T) {
	h := NewHash()
	err := h.Set(NewArray(nil), NewInt(1))
	var convErr *ConvertError
	require.ErrorAs(t, err, &convErr)
}

func TestHashDelete(t *testing.T) {
	h := NewHash()
	require.Nil(t, h.Set(NewString("k"), NewInt(1)))
	v, ok := h.Delete(NewString("k"))
	require.True(t, ok)
	require.Equal(t, int64(1), v.(*Int).Value())
	_, ok = h.Get(NewString("k"))
	require.False(t, ok)
	require.Equal(t, 0, h.Len())
}

func TestHashEquals(t *testing.T) {
	a := NewHash()
	require.Nil(t, a.Set(NewString("x"), NewInt(1)))
	b := NewHash()
	require.Nil(t, b.Set(NewString("x"), NewInt(1)))
	require.True(t, a.Equals(b))
	require.Nil(t, b.Set(NewString("y"), NewInt(2)))
	require.False(t, a.Equals(b))
}

func TestStringMutation(t *testing.T) {
	s := NewString("abc")
	require.Nil(t, s.Append([]byte("def")))
	require.Equal(t, "abcdef", s.Value())

	s.Freeze()
	err := s.Append([]byte("!"))
	var frozen *FrozenValueError
	require.ErrorAs(t, err, &frozen)
}

func TestClassAncestry(t *testing.T) {
	root := NewClass(1, "Exception", nil)
	standard := NewClass(2, "StandardError", root)
	runtime := NewClass(3, "RuntimeError", standard)

	require.True(t, runtime.IsA(root))
	require.True(t, runtime.IsA(standard))
	require.False(t, standard.IsA(runtime))

	chain := runtime.Ancestors()
	require.Len(t, chain, 3)
	require.Equal(t, "Exception", chain[2].Name())
}
