package securerandom

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/garnet-lang/garnet/exception"
	"github.com/garnet-lang/garnet/object"
	"github.com/garnet-lang/garnet/random"
	"github.com/garnet-lang/garnet/vm"
)

func newMachine(t *testing.T) *vm.Machine {
	t.Helper()
	m := vm.New()
	require.NoError(t, vm.InstallCore(m))
	require.NoError(t, Register(m, random.CryptoSource{}))
	return m
}

func eval(t *testing.T, m *vm.Machine, src string) object.Value {
	t.Helper()
	result, err := m.Eval([]byte(src), "test.rb")
	require.NoError(t, err)
	return result
}

func TestHex(t *testing.T) {
	m := newMachine(t)
	result := eval(t, m, "SecureRandom.hex")
	require.Regexp(t, regexp.MustCompile(`^[0-9a-f]{32}$`), result.(*object.String).Value())

	result = eval(t, m, "SecureRandom.hex(4)")
	require.Len(t, result.(*object.String).Value(), 8)
}

func TestRandomBytesDefaultLength(t *testing.T) {
	m := newMachine(t)
	result := eval(t, m, "SecureRandom.random_bytes")
	require.Equal(t, random.DefaultByteLength, result.(*object.String).Len())

	result = eval(t, m, "SecureRandom.random_bytes(3)")
	require.Equal(t, 3, result.(*object.String).Len())
}

func TestAlphanumeric(t *testing.T) {
	m := newMachine(t)
	result := eval(t, m, "SecureRandom.alphanumeric(20)")
	require.Regexp(t, regexp.MustCompile(`^[0-9A-Za-z]{20}$`), result.(*object.String).Value())
}

func TestUUID(t *testing.T) {
	m := newMachine(t)
	result := eval(t, m, "SecureRandom.uuid")
	require.Regexp(t,
		regexp.MustCompile(`^[0-9a-f]{8}-[0-9a-f]{4}-4[0-9a-f]{3}-[89ab][0-9a-f]{3}-[0-9a-f]{12}$`),
		result.(*object.String).Value())
}

func TestRandomNumber(t *testing.T) {
	m := newMachine(t)
	result := eval(t, m, "n = SecureRandom.random_number(10)\nn >= 0 && n < 10")
	require.Equal(t, object.True, result)

	result = eval(t, m, "f = SecureRandom.random_number\nf >= 0.0 && f < 1.0")
	require.Equal(t, object.True, result)
}

func TestNegativeSizeRaisesInScript(t *testing.T) {
	m := newMachine(t)
	result := eval(t, m, `
begin
  SecureRandom.hex(-1)
rescue ArgumentError => e
  e.message
end`)
	require.Equal(t, "negative string size (or size too big)", result.(*object.String).Value())
}

func TestInvalidMaxIsArgumentError(t *testing.T) {
	m := newMachine(t)
	_, err := m.Eval([]byte("SecureRandom.random_number(0)"), "test.rb")
	var raised *exception.Error
	require.ErrorAs(t, err, &raised)
	require.Equal(t, exception.KindArgumentError, raised.Kind())
}
