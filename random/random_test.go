package random

import (
	"regexp"
	"testing"

	"github.com/garnet-lang/garnet/exception"
	"github.com/stretchr/testify/require"
)

var backends = []Backend{ChaChaBackend{}, PCGBackend{}}

func TestSeededStreamsAreReproducible(t *testing.T) {
	for _, backend := range backends {
		a := backend.New(42)
		b := backend.New(42)
		for i := 0; i < 100; i++ {
			require.Equal(t, a.Int(1000), b.Int(1000), backend.Name())
		}
		require.Equal(t, a.Float(), b.Float(), backend.Name())

		bufA := make([]byte, 33)
		bufB := make([]byte, 33)
		a.Bytes(bufA)
		b.Bytes(bufB)
		require.Equal(t, bufA, bufB, backend.Name())
	}
}

func TestReseedResetsStream(t *testing.T) {
	for _, backend := range backends {
		s := backend.New(7)
		first := s.Int(1 << 30)
		s.Seed(7)
		require.Equal(t, first, s.Int(1<<30), backend.Name())
		require.Equal(t, uint64(7), s.SeedValue())
	}
}

func TestDistinctSeedsDiverge(t *testing.T) {
	for _, backend := range backends {
		a := backend.New(1)
		b := backend.New(2)
		same := true
		for i := 0; i < 16; i++ {
			if a.Int(1<<40) != b.Int(1<<40) {
				same = false
				break
			}
		}
		require.False(t, same, backend.Name())
	}
}

func TestIntBounds(t *testing.T) {
	for _, backend := range backends {
		s := backend.New(99)
		for i := 0; i < 1000; i++ {
			v := s.Int(10)
			require.GreaterOrEqual(t, v, int64(0))
			require.Less(t, v, int64(10))
		}
	}
}

func TestCryptoSourceBytes(t *testing.T) {
	src := CryptoSource{}
	buf, err := src.Bytes(32)
	require.Nil(t, err)
	require.Len(t, buf, 32)

	_, err = src.Bytes(-1)
	var exc *exception.Error
	require.ErrorAs(t, err, &exc)
	require.Equal(t, exception.KindArgumentError, exc.Kind())
}

func TestCryptoSourceEncodings(t *testing.T) {
	src := CryptoSource{}

	h, err := src.Hex(8)
	require.Nil(t, err)
	require.Len(t, h, 16)
	require.Regexp(t, regexp.MustCompile("^[0-9a-f]+$"), h)

	b64, err := src.Base64(9)
	require.Nil(t, err)
	require.NotEmpty(t, b64)

	alnum, err := src.Alphanumeric(24)
	require.Nil(t, err)
	require.Regexp(t, regexp.MustCompile("^[A-Za-z0-9]{24}$"), alnum)
}

func TestCryptoSourceNumber(t *testing.T) {
	src := CryptoSource{}
	for i := 0; i < 100; i++ {
		n, err := src.Number(7)
		require.Nil(t, err)
		require.GreaterOrEqual(t, n, int64(0))
		require.Less(t, n, int64(7))
	}
	_, err := src.Number(0)
	var exc *exception.Error
	require.ErrorAs(t, err, &exc)
	require.Equal(t, exception.KindArgumentError, exc.Kind())
}

func TestUUIDVersion4(t *testing.T) {
	src := CryptoSource{}
	id, err := src.UUID()
	require.Nil(t, err)
	require.Regexp(t,
		regexp.MustCompile("^[0-9a-f]{8}-[0-9a-f]{4}-4[0-9a-f]{3}-[89ab][0-9a-f]{3}-[0-9a-f]{12}$"),
		id)
	other, err := src.UUID()
	require.Nil(t, err)
	require.NotEqual(t, id, other)
}
