package kernel

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/garnet-lang/garnet/exception"
	"github.com/garnet-lang/garnet/object"
	"github.com/garnet-lang/garnet/vfs"
	"github.com/garnet-lang/garnet/vm"
)

func newMachine(t *testing.T, fs vfs.Filesystem) (*vm.Machine, *bytes.Buffer) {
	t.Helper()
	out := &bytes.Buffer{}
	m := vm.New(vm.WithOutput(out))
	require.NoError(t, vm.InstallCore(m))
	require.NoError(t, Register(m, fs))
	return m, out
}

func TestPuts(t *testing.T) {
	m, out := newMachine(t, vfs.NewMemory())
	_, err := m.Eval([]byte(`puts "hello"
puts 42, :sym
puts ["a", "b"]
puts`), "test.rb")
	require.NoError(t, err)
	require.Equal(t, "hello\n42\n:sym\na\nb\n\n", out.String())
}

func TestPrintAndInspect(t *testing.T) {
	m, out := newMachine(t, vfs.NewMemory())
	result, err := m.Eval([]byte(`print "a", "b"
p "c"`), "test.rb")
	require.NoError(t, err)
	require.Equal(t, "ab\"c\"\n", out.String())
	require.Equal(t, "c", result.(*object.String).Value())
}

func TestRequireLoadsOnce(t *testing.T) {
	fs := vfs.NewMemory()
	require.NoError(t, fs.WriteFile("lib/counter.rb", []byte("COUNTER << 1")))
	m, _ := newMachine(t, fs)
	counter := object.NewArray(nil)
	require.NoError(t, m.DefineConstant("COUNTER", counter))

	result, err := m.Eval([]byte(`require "lib/counter"`), "test.rb")
	require.NoError(t, err)
	require.Equal(t, object.True, result)
	require.Equal(t, 1, counter.Len())

	result, err = m.Eval([]byte(`require "lib/counter.rb"`), "test.rb")
	require.NoError(t, err)
	require.Equal(t, object.False, result)
	require.Equal(t, 1, counter.Len())
}

func TestRequireMissingIsLoadError(t *testing.T) {
	m, _ := newMachine(t, vfs.NewMemory())
	result, err := m.Eval([]byte(`
begin
  require "no/such/feature"
rescue LoadError => e
  e.message
end`), "test.rb")
	require.NoError(t, err)
	require.Contains(t, result.(*object.String).Value(), "no/such/feature")
}

func TestRequireRetriesAfterFailure(t *testing.T) {
	fs := vfs.NewMemory()
	require.NoError(t, fs.WriteFile("broken.rb", []byte(`raise "load failed"`)))
	m, _ := newMachine(t, fs)

	_, err := m.Eval([]byte(`require "broken"`), "test.rb")
	var raised *exception.Error
	require.ErrorAs(t, err, &raised)
	require.Equal(t, exception.KindRuntimeError, raised.Kind())

	// The feature was not recorded as loaded, so a later require runs it
	// again rather than silently returning false.
	_, err = m.Eval([]byte(`require "broken"`), "test.rb")
	require.ErrorAs(t, err, &raised)
}
