package rand

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/garnet-lang/garnet/exception"
	"github.com/garnet-lang/garnet/object"
	"github.com/garnet-lang/garnet/random"
	"github.com/garnet-lang/garnet/vm"
)

func newMachine(t *testing.T, backend random.Backend) *vm.Machine {
	t.Helper()
	m := vm.New()
	require.NoError(t, vm.InstallCore(m))
	require.NoError(t, Register(m, backend, func() uint64 { return 12345 }))
	return m
}

func eval(t *testing.T, m *vm.Machine, src string) object.Value {
	t.Helper()
	result, err := m.Eval([]byte(src), "test.rb")
	require.NoError(t, err)
	return result
}

func TestSeededDeterminism(t *testing.T) {
	for _, backend := range []random.Backend{random.ChaChaBackend{}, random.PCGBackend{}} {
		a := eval(t, newMachine(t, backend), "r = Random.new(42)\n[r.rand(1000), r.rand(1000), r.rand(1000)]")
		b := eval(t, newMachine(t, backend), "r = Random.new(42)\n[r.rand(1000), r.rand(1000), r.rand(1000)]")
		require.True(t, a.Equals(b), "backend %s", backend.Name())
	}
}

func TestSeedAccessor(t *testing.T) {
	m := newMachine(t, random.ChaChaBackend{})
	require.Equal(t, object.NewInt(42), eval(t, m, "Random.new(42).seed"))
	// Unseeded instances take the configured seeder.
	require.Equal(t, object.NewInt(12345), eval(t, m, "Random.new.seed"))
}

func TestRandBounds(t *testing.T) {
	m := newMachine(t, random.ChaChaBackend{})
	result := eval(t, m, `r = Random.new(7)
ok = true
v = r.rand(10)
ok = ok && v >= 0 && v < 10
f = r.rand
ok && f >= 0.0 && f < 1.0`)
	require.Equal(t, object.True, result)
}

func TestNegativeBoundIsArgumentError(t *testing.T) {
	m := newMachine(t, random.ChaChaBackend{})
	_, err := m.Eval([]byte("Random.new(1).rand(-5)"), "test.rb")
	var raised *exception.Error
	require.ErrorAs(t, err, &raised)
	require.Equal(t, exception.KindArgumentError, raised.Kind())
	require.Equal(t, "invalid argument - -5", string(raised.Message()))
}

func TestBytes(t *testing.T) {
	m := newMachine(t, random.ChaChaBackend{})
	result := eval(t, m, "Random.new(9).bytes(16)")
	require.Equal(t, 16, result.(*object.String).Len())

	same := eval(t, m, "Random.new(9).bytes(16)")
	require.True(t, result.Equals(same))
}
