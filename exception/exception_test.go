package exception

import (
	"errors"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/require"
)

func TestTaxonomyRootedAtException(t *testing.T) {
	for _, d := range Descriptors() {
		chain := d.Kind.Ancestors()
		require.NotEmpty(t, chain, d.Name)
		require.Equal(t, "Exception", chain[len(chain)-1], d.Name)
	}
}

func TestAncestorChains(t *testing.T) {
	tests := []struct {
		kind  Kind
		chain []string
	}{
		{KindRuntimeError, []string{"RuntimeError", "StandardError", "Exception"}},
		{KindFrozenError, []string{"FrozenError", "RuntimeError", "StandardError", "Exception"}},
		{KindKeyError, []string{"KeyError", "IndexError", "StandardError", "Exception"}},
		{KindNoMethodError, []string{"NoMethodError", "NameError", "StandardError", "Exception"}},
		{KindLoadError, []string{"LoadError", "ScriptError", "Exception"}},
		{KindException, []string{"Exception"}},
	}
	for _, tc := range tests {
		require.Equal(t, tc.chain, tc.kind.Ancestors())
	}
}

func TestLookup(t *testing.T) {
	kind, ok := Lookup("ArgumentError")
	require.True(t, ok)
	require.Equal(t, KindArgumentError, kind)

	kind, ok = Lookup("MyCustomError")
	require.False(t, ok)
	require.Equal(t, KindUnmapped, kind)
}

func TestHostSideTotality(t *testing.T) {
	// Every kind except the fallback has exactly one descriptor.
	seen := map[Kind]int{}
	for _, d := range Descriptors() {
		seen[d.Kind]++
	}
	for kind, count := range seen {
		require.Equal(t, 1, count, kind.Name())
	}
	_, ok := Describe(KindUnmapped)
	require.False(t, ok)
}

func TestErrorMessageBytesExact(t *testing.T) {
	raw := []byte{'b', 'o', 'o', 'm', 0xff}
	err := NewBytes(KindRuntimeError, raw)
	require.Equal(t, raw, err.Message())
	require.Equal(t, "RuntimeError", err.ClassName())
}

func TestUnmappedFallback(t *testing.T) {
	err := Unmapped("Acme::Error", []byte("bad widget"))
	require.Equal(t, KindUnmapped, err.Kind())
	require.Equal(t, "Acme::Error", err.ClassName())
	require.Equal(t, "bad widget", string(err.Message()))
}

func TestErrorIsError(t *testing.T) {
	var err error = RuntimeError("boom")
	var exc *Error
	require.True(t, errors.As(err, &exc))
	require.Equal(t, "boom (RuntimeError)", err.Error())
}

func TestBacktraceNotReordered(t *testing.T) {
	frames := []string{"(eval):3:in `inner'", "(eval):9:in `outer'", "(eval):12"}
	err := RuntimeError("boom").WithBacktrace(frames)
	require.Equal(t, frames, err.Backtrace())
}

func TestFormatterPlain(t *testing.T) {
	f := &Formatter{UseColor: false}
	err := RuntimeError("boom").WithBacktrace([]string{"(eval):1"})
	out := f.Format(err)
	require.Equal(t, "boom (RuntimeError)\n\tfrom (eval):1\n", out)
}

func TestFormatterColor(t *testing.T) {
	// fatih/color suppresses escapes off-terminal unless told otherwise.
	prev := color.NoColor
	color.NoColor = false
	defer func() { color.NoColor = prev }()

	f := &Formatter{UseColor: true}
	err := TypeError("nope").WithBacktrace([]string{"script.rb:4:in `main'"})
	out := f.Format(err)
	require.Contains(t, out, "\x1b[")
	require.Contains(t, out, "TypeError")
	require.Contains(t, out, "script.rb:4:in `main'")
}

func TestNewFormatterOffTerminal(t *testing.T) {
	f := NewFormatter(&strings.Builder{})
	require.False(t, f.UseColor)
}
