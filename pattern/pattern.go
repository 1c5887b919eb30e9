// Package pattern is the pattern-matching capability: one Engine interface
// with build-time-selected backends.
//
// Every conforming backend must support the common subset: literals,
// character classes, alternation, greedy repetition, anchors, and positional
// capture groups, over raw byte haystacks. Named capture groups, non-greedy
// repetition, and inline case-insensitive matching are extended features;
// backends that do not provide them fail with a capability.UnsupportedError
// rather than matching incorrectly.
package pattern

import (
	"regexp"

	"github.com/garnet-lang/garnet/capability"
)

// Options modify how a pattern is compiled.
type Options struct {
	// IgnoreCase compiles a case-insensitive pattern. Extended feature.
	IgnoreCase bool
	// Multiline lets ^ and $ match at line boundaries. Extended feature.
	Multiline bool
}

// Match is one occurrence of a pattern in a haystack, as byte offsets.
type Match struct {
	Begin int
	End   int
}

// Engine compiles patterns. Exactly one engine backs a given build; the
// default is chosen by build tags (see DefaultEngine).
type Engine interface {
	// Name identifies the backend for capability descriptors.
	Name() string

	// Compile compiles the pattern or fails with a RegexpError-style error
	// for invalid syntax, or an UnsupportedError for syntax outside this
	// backend's subset.
	Compile(source []byte, opts Options) (Pattern, error)
}

// Pattern is a compiled pattern. Implementations are safe for concurrent
// use once compiled.
type Pattern interface {
	// Source returns the original pattern bytes.
	Source() []byte

	// IsMatch reports whether the haystack matches at or after pos.
	IsMatch(haystack []byte, pos int) (bool, error)

	// Find returns the first match at or after pos, or nil when the
	// haystack does not match.
	Find(haystack []byte, pos int) (*Match, error)

	// Captures returns the capture groups of the first match. Index 0 is
	// the whole match; unmatched groups are nil entries. A non-matching
	// haystack returns nil, nil.
	Captures(haystack []byte) ([][]byte, error)

	// Names returns the names of named capture groups in definition order,
	// or nil when the pattern has none (or the backend does not support
	// them).
	Names() []string

	// Scan returns the capture sets of every non-overlapping match. For
	// patterns without groups each entry holds only the whole match.
	Scan(haystack []byte) ([][][]byte, error)
}

// Quote escapes s so it matches only itself, in any conforming backend. The
// escaping uses only common-subset syntax.
func Quote(s []byte) []byte {
	return []byte(regexp.QuoteMeta(string(s)))
}

// unsupported is a shorthand for backend feature errors.
func unsupported(backend, feature string) error {
	return capability.Unsupported(capability.Pattern, backend, feature)
}
