package pattern

import (
	"regexp"
	"strings"

	"github.com/garnet-lang/garnet/exception"
)

// POSIXEngine compiles patterns as POSIX extended regular expressions with
// leftmost-longest matching. It covers the capability's common subset only:
// named groups, non-greedy repetition, and inline flags are unsupported
// extended features.
type POSIXEngine struct{}

func (e POSIXEngine) Name() string {
	return "posix"
}

func (e POSIXEngine) Compile(source []byte, opts Options) (Pattern, error) {
	if opts.IgnoreCase {
		return nil, unsupported(e.Name(), "case-insensitive matching")
	}
	if opts.Multiline {
		return nil, unsupported(e.Name(), "multiline mode")
	}
	expr := string(source)
	if feature, ok := posixUnsupportedFeature(expr); ok {
		return nil, unsupported(e.Name(), feature)
	}
	re, err := regexp.CompilePOSIX(expr)
	if err != nil {
		return nil, exception.RegexpError("%s: /%s/", compileReason(err), expr)
	}
	return &posixPattern{source: source, re: re}, nil
}

func posixUnsupportedFeature(expr string) (string, bool) {
	if strings.Contains(expr, "(?") {
		return "group flags and named captures", true
	}
	for i := 1; i < len(expr); i++ {
		if expr[i] != '?' {
			continue
		}
		switch expr[i-1] {
		case '*', '+', '}':
			return "non-greedy repetition", true
		}
	}
	// Perl escapes are valid input for the capability but outside the POSIX
	// subset; CompilePOSIX would report them as malformed.
	for i := 0; i+1 < len(expr); i++ {
		if expr[i] != '\\' {
			continue
		}
		switch expr[i+1] {
		case 'd', 'D', 'w', 'W', 's', 'S':
			return "perl character classes", true
		case 'A', 'z', 'b', 'B':
			return "perl anchors", true
		}
		i++ // skip the escaped character
	}
	return "", false
}

type posixPattern struct {
	source []byte
	re     *regexp.Regexp
}

func (p *posixPattern) Source() []byte {
	return p.source
}

func (p *posixPattern) IsMatch(haystack []byte, pos int) (bool, error) {
	m, err := p.Find(haystack, pos)
	if err != nil {
		return false, err
	}
	return m != nil, nil
}

func (p *posixPattern) Find(haystack []byte, pos int) (*Match, error) {
	if pos < 0 {
		pos += len(haystack)
	}
	if pos < 0 || pos > len(haystack) {
		return nil, nil
	}
	loc := p.re.FindIndex(haystack[pos:])
	if loc == nil {
		return nil, nil
	}
	return &Match{Begin: pos + loc[0], End: pos + loc[1]}, nil
}

func (p *posixPattern) Captures(haystack []byte) ([][]byte, error) {
	groups := p.re.FindSubmatch(haystack)
	if groups == nil {
		return nil, nil
	}
	return groups, nil
}

func (p *posixPattern) Names() []string {
	return nil
}

func (p *posixPattern) Scan(haystack []byte) ([][][]byte, error) {
	return p.re.FindAllSubmatch(haystack, -1), nil
}
