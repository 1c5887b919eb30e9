package gc

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSharedPayloadReleasedOnce(t *testing.T) {
	g := NewRegistry()
	released := 0
	ref := g.NewRef("payload", func(interface{}) { released++ })

	// The same host object boxed into two independent machine values.
	box1 := g.Box(ref)
	box2 := g.Box(ref)
	require.NotEqual(t, box1.ID(), box2.ID())
	require.Equal(t, 2, g.Outstanding())

	// Dropping one reference must not release the payload.
	g.Finalize(box1.ID())
	require.Equal(t, 0, released)
	require.False(t, ref.Released())

	g.Finalize(box2.ID())
	require.Equal(t, 1, released)
	require.True(t, ref.Released())
}

func TestHostRetainOutlivesBoxes(t *testing.T) {
	g := NewRegistry()
	released := 0
	ref := g.NewRef(42, func(interface{}) { released++ })
	ref.Retain()

	box := g.Box(ref)
	g.Finalize(box.ID())
	require.Equal(t, 0, released)

	ref.Release()
	require.Equal(t, 1, released)
}

func TestFinalizeIsIdempotentPerBox(t *testing.T) {
	g := NewRegistry()
	released := 0
	ref := g.NewRef("p", func(interface{}) { released++ })
	box := g.Box(ref)

	g.Finalize(box.ID())
	g.Finalize(box.ID())
	g.Finalize(999)
	require.Equal(t, 1, released)
}

func TestForceFinalizeAll(t *testing.T) {
	g := NewRegistry()
	released := map[interface{}]bool{}
	for i := 0; i < 5; i++ {
		i := i
		g.Box(g.NewRef(i, func(p interface{}) { released[p] = true }))
	}
	require.Equal(t, 5, g.Outstanding())

	n := g.ForceFinalizeAll()
	require.Equal(t, 5, n)
	require.Equal(t, 0, g.Outstanding())
	require.Len(t, released, 5)
}

func TestBoxPayloadAccessible(t *testing.T) {
	g := NewRegistry()
	type conn struct{ addr string }
	c := &conn{addr: "localhost"}
	box := g.Box(g.NewRef(c, nil))
	require.Same(t, c, box.Payload())
}
