package pattern

import (
	"testing"

	"github.com/garnet-lang/garnet/capability"
	"github.com/garnet-lang/garnet/exception"
	"github.com/stretchr/testify/require"
)

var engines = []Engine{RE2Engine{}, POSIXEngine{}}

func TestCommonSubsetAgreement(t *testing.T) {
	// Inputs expressible in both backends' supported subsets must produce
	// identical match results.
	tests := []struct {
		pattern  string
		haystack string
		begin    int
		end      int
	}{
		{"ab+c", "xxabbbc", 2, 7},
		{"[0-9]+", "order 1234!", 6, 10},
		{"^foo|bar$", "foobar", 0, 3},
		{"a(b)(c)", "zabc", 1, 4},
	}
	for _, tc := range tests {
		for _, engine := range engines {
			p, err := engine.Compile([]byte(tc.pattern), Options{})
			require.Nil(t, err, engine.Name())
			m, err := p.Find([]byte(tc.haystack), 0)
			require.Nil(t, err)
			require.NotNil(t, m, "%s: /%s/", engine.Name(), tc.pattern)
			require.Equal(t, tc.begin, m.Begin, engine.Name())
			require.Equal(t, tc.end, m.End, engine.Name())
		}
	}
}

func TestCapturesAgree(t *testing.T) {
	for _, engine := range engines {
		p, err := engine.Compile([]byte(`([a-z]+)@([a-z]+)`), Options{})
		require.Nil(t, err, engine.Name())
		groups, err := p.Captures([]byte("mail me: user@host today"))
		require.Nil(t, err)
		require.Len(t, groups, 3)
		require.Equal(t, "user@host", string(groups[0]))
		require.Equal(t, "user", string(groups[1]))
		require.Equal(t, "host", string(groups[2]))
	}
}

func TestNoMatchReturnsNil(t *testing.T) {
	for _, engine := range engines {
		p, err := engine.Compile([]byte("xyz"), Options{})
		require.Nil(t, err)
		m, err := p.Find([]byte("abc"), 0)
		require.Nil(t, err)
		require.Nil(t, m)
		groups, err := p.Captures([]byte("abc"))
		require.Nil(t, err)
		require.Nil(t, groups)
	}
}

func TestFindWithPosition(t *testing.T) {
	for _, engine := range engines {
		p, err := engine.Compile([]byte("a"), Options{})
		require.Nil(t, err)
		m, err := p.Find([]byte("abca"), 1)
		require.Nil(t, err)
		require.NotNil(t, m)
		require.Equal(t, 3, m.Begin)

		// Negative positions count from the end.
		m, err = p.Find([]byte("abca"), -2)
		require.Nil(t, err)
		require.NotNil(t, m)
		require.Equal(t, 3, m.Begin)

		m, err = p.Find([]byte("abca"), 99)
		require.Nil(t, err)
		require.Nil(t, m)
	}
}

func TestPOSIXRejectsExtendedFeatures(t *testing.T) {
	engine := POSIXEngine{}
	tests := []struct {
		pattern string
		opts    Options
	}{
		{"a+?", Options{}},
		{"a*?", Options{}},
		{"(?<name>a)", Options{}},
		{`\d+`, Options{}},
		{`[a-z]\s[a-z]`, Options{}},
		{`\bword\b`, Options{}},
		{"abc", Options{IgnoreCase: true}},
		{"abc", Options{Multiline: true}},
	}
	for _, tc := range tests {
		_, err := engine.Compile([]byte(tc.pattern), tc.opts)
		var unsupportedErr *capability.UnsupportedError
		require.ErrorAs(t, err, &unsupportedErr, tc.pattern)
		require.Equal(t, capability.Pattern, unsupportedErr.Subsystem)
	}

	// Plain escapes stay within the subset.
	for _, pattern := range []string{`a\.b`, `\\d`, `\(x\)`} {
		_, err := engine.Compile([]byte(pattern), Options{})
		require.NoError(t, err, pattern)
	}
}

func TestRE2RejectsLookaroundAsUnsupported(t *testing.T) {
	engine := RE2Engine{}
	_, err := engine.Compile([]byte(`foo(?=bar)`), Options{})
	var unsupportedErr *capability.UnsupportedError
	require.ErrorAs(t, err, &unsupportedErr)

	_, err = engine.Compile([]byte(`(a)\1`), Options{})
	require.ErrorAs(t, err, &unsupportedErr)
}

func TestInvalidSyntaxIsRegexpError(t *testing.T) {
	for _, engine := range engines {
		_, err := engine.Compile([]byte("a)("), Options{})
		var exc *exception.Error
		require.ErrorAs(t, err, &exc, engine.Name())
		require.Equal(t, exception.KindRegexpError, exc.Kind())
	}
}

func TestRE2NamedCaptures(t *testing.T) {
	p, err := RE2Engine{}.Compile([]byte(`(?P<user>\w+)@(?P<host>\w+)`), Options{})
	require.Nil(t, err)
	require.Equal(t, []string{"user", "host"}, p.Names())
}

func TestRE2IgnoreCase(t *testing.T) {
	p, err := RE2Engine{}.Compile([]byte("ruby"), Options{IgnoreCase: true})
	require.Nil(t, err)
	ok, err := p.IsMatch([]byte("RUBY"), 0)
	require.Nil(t, err)
	require.True(t, ok)
}

func TestScan(t *testing.T) {
	for _, engine := range engines {
		p, err := engine.Compile([]byte("([a-z])([0-9])"), Options{})
		require.Nil(t, err)
		sets, err := p.Scan([]byte("a1 b2 c3"))
		require.Nil(t, err)
		require.Len(t, sets, 3)
		require.Equal(t, "b2", string(sets[1][0]))
		require.Equal(t, "b", string(sets[1][1]))
		require.Equal(t, "2", string(sets[1][2]))
	}
}

func TestDefaultEngine(t *testing.T) {
	engine := DefaultEngine()
	require.NotEmpty(t, engine.Name())
}
