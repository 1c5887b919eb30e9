package pattern

import (
	"regexp"
	"strings"

	"github.com/garnet-lang/garnet/exception"
)

// RE2Engine compiles patterns with Go's RE2 engine. It supports the full
// common subset plus named groups, non-greedy repetition, and inline flags.
//
// RE2 intentionally provides no backreferences or lookaround; patterns using
// them are reported as unsupported features, not syntax errors, since other
// engines for this capability accept them.
type RE2Engine struct{}

func (e RE2Engine) Name() string {
	return "re2"
}

func (e RE2Engine) Compile(source []byte, opts Options) (Pattern, error) {
	expr := string(source)
	var flags []string
	if opts.IgnoreCase {
		flags = append(flags, "i")
	}
	if opts.Multiline {
		flags = append(flags, "m")
	}
	if len(flags) > 0 {
		expr = "(?" + strings.Join(flags, "") + ")" + expr
	}
	re, err := regexp.Compile(expr)
	if err != nil {
		if feature, ok := re2UnsupportedFeature(expr); ok {
			return nil, unsupported(e.Name(), feature)
		}
		return nil, exception.RegexpError("%s: /%s/", compileReason(err), string(source))
	}
	return &re2Pattern{source: source, re: re}, nil
}

// re2UnsupportedFeature distinguishes valid-elsewhere syntax that RE2
// rejects from genuinely malformed patterns.
func re2UnsupportedFeature(expr string) (string, bool) {
	if strings.Contains(expr, "(?=") || strings.Contains(expr, "(?!") ||
		strings.Contains(expr, "(?<=") || strings.Contains(expr, "(?<!") {
		return "lookaround assertions", true
	}
	for i := 0; i+1 < len(expr); i++ {
		if expr[i] == '\\' && expr[i+1] >= '1' && expr[i+1] <= '9' {
			return "backreferences", true
		}
	}
	return "", false
}

func compileReason(err error) string {
	msg := err.Error()
	// The stdlib prefixes messages with "error parsing regexp: ".
	if idx := strings.Index(msg, ": "); idx >= 0 {
		return msg[idx+2:]
	}
	return msg
}

type re2Pattern struct {
	source []byte
	re     *regexp.Regexp
}

func (p *re2Pattern) Source() []byte {
	return p.source
}

func (p *re2Pattern) IsMatch(haystack []byte, pos int) (bool, error) {
	m, err := p.Find(haystack, pos)
	if err != nil {
		return false, err
	}
	return m != nil, nil
}

func (p *re2Pattern) Find(haystack []byte, pos int) (*Match, error) {
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

func (p *re2Pattern) Captures(haystack []byte) ([][]byte, error) {
	groups := p.re.FindSubmatch(haystack)
	if groups == nil {
		return nil, nil
	}
	return groups, nil
}

func (p *re2Pattern) Names() []string {
	var names []string
	for _, name := range p.re.SubexpNames() {
		if name != "" {
			names = append(names, name)
		}
	}
	return names
}

func (p *re2Pattern) Scan(haystack []byte) ([][][]byte, error) {
	return p.re.FindAllSubmatch(haystack, -1), nil
}
