package vfs

import (
	"testing"

	"github.com/garnet-lang/garnet/exception"
	"github.com/stretchr/testify/require"
)

func TestMemoryReadWrite(t *testing.T) {
	m := NewMemory()

	_, err := m.ReadFile("lib/foo.rb")
	var exc *exception.Error
	require.ErrorAs(t, err, &exc)
	require.Equal(t, exception.KindLoadError, exc.Kind())

	require.Nil(t, m.WriteFile("lib/foo.rb", []byte("FOO = 1")))
	require.True(t, m.Exists("lib/foo.rb"))
	require.True(t, m.Exists("/lib/foo.rb"))

	data, err := m.ReadFile("/lib/../lib/foo.rb")
	require.Nil(t, err)
	require.Equal(t, "FOO = 1", string(data))
}

func TestMemoryCopiesContents(t *testing.T) {
	m := NewMemory()
	data := []byte("abc")
	require.Nil(t, m.WriteFile("f", data))
	data[0] = 'x'
	read, err := m.ReadFile("f")
	require.Nil(t, err)
	require.Equal(t, "abc", string(read))
	read[0] = 'y'
	again, err := m.ReadFile("f")
	require.Nil(t, err)
	require.Equal(t, "abc", string(again))
}

func TestNativeReadWrite(t *testing.T) {
	root := t.TempDir()
	n := NewNative(root)

	require.Nil(t, n.WriteFile("scripts/app.rb", []byte("puts 1")))
	require.True(t, n.Exists("scripts/app.rb"))

	data, err := n.ReadFile("scripts/app.rb")
	require.Nil(t, err)
	require.Equal(t, "puts 1", string(data))

	_, err = n.ReadFile("missing.rb")
	var exc *exception.Error
	require.ErrorAs(t, err, &exc)
	require.Equal(t, exception.KindLoadError, exc.Kind())
}

func TestNativeRejectsEscapingPaths(t *testing.T) {
	n := NewNative(t.TempDir())
	_, err := n.ReadFile("../outside.rb")
	var exc *exception.Error
	require.ErrorAs(t, err, &exc)
	require.Equal(t, exception.KindLoadError, exc.Kind())
	require.False(t, n.Exists("../outside.rb"))
}
