// Package regexp exposes pattern matching to scripts as the Regexp class,
// backed by whichever pattern engine the build selected. Patterns outside
// the engine's subset raise NotImplementedError; malformed patterns raise
// RegexpError.
package regexp

import (
	"github.com/garnet-lang/garnet/exception"
	"github.com/garnet-lang/garnet/object"
	"github.com/garnet-lang/garnet/pattern"
	"github.com/garnet-lang/garnet/vm"
)

// Flag bits accepted by Regexp.new, matching the conventional values.
const (
	FlagIgnoreCase = 1
	FlagMultiline  = 4
)

// Register defines the Regexp class over the given engine.
func Register(m *vm.Machine, engine pattern.Engine) error {
	_, err := vm.BuildClass("Regexp").
		SMethod("new", newRegexp(engine), vm.Arity{Min: 1, Max: 2}).
		SMethod("compile", newRegexp(engine), vm.Arity{Min: 1, Max: 2}).
		SMethod("escape", escape, vm.Arity{Min: 1, Max: 1}).
		SMethod("quote", escape, vm.Arity{Min: 1, Max: 1}).
		Method("source", source, vm.Arity{}).
		Method("match?", isMatch, vm.Arity{Min: 1, Max: 2}).
		Method("=~", matchIndex, vm.Arity{Min: 1, Max: 1}).
		Method("match", match, vm.Arity{Min: 1, Max: 1}).
		Method("names", names, vm.Arity{}).
		Method("scan", scan, vm.Arity{Min: 1, Max: 1}).
		Define(m)
	return err
}

func newRegexp(engine pattern.Engine) vm.NativeFunc {
	return func(m *vm.Machine, self object.Value, args []object.Value) (object.Value, error) {
		source, err := object.AsBytes(args[0])
		if err != nil {
			return nil, exception.TypeError("no implicit conversion into String")
		}
		var opts pattern.Options
		if len(args) == 2 && args[1] != object.Nil {
			flags, err := object.AsInt(args[1])
			if err != nil {
				return nil, exception.TypeError("no implicit conversion into Integer")
			}
			opts.IgnoreCase = flags&FlagIgnoreCase != 0
			opts.Multiline = flags&FlagMultiline != 0
		}
		compiled, err := engine.Compile(source, opts)
		if err != nil {
			return nil, err
		}
		instance := object.NewInstance(m.MustClass("Regexp"))
		instance.SetData(compiled)
		return instance, nil
	}
}

func escape(m *vm.Machine, self object.Value, args []object.Value) (object.Value, error) {
	src, err := object.AsBytes(args[0])
	if err != nil {
		return nil, exception.TypeError("no implicit conversion into String")
	}
	return object.NewBytes(pattern.Quote(src)), nil
}

func patternOf(self object.Value) (pattern.Pattern, error) {
	instance, err := object.AsInstance(self)
	if err != nil {
		return nil, err
	}
	compiled, ok := instance.Data().(pattern.Pattern)
	if !ok {
		return nil, exception.TypeError("uninitialized Regexp")
	}
	return compiled, nil
}

func source(m *vm.Machine, self object.Value, args []object.Value) (object.Value, error) {
	compiled, err := patternOf(self)
	if err != nil {
		return nil, err
	}
	return object.NewBytes(append([]byte(nil), compiled.Source()...)), nil
}

func haystackArg(arg object.Value) ([]byte, error) {
	haystack, err := object.AsBytes(arg)
	if err != nil {
		return nil, exception.TypeError("no implicit conversion into String")
	}
	return haystack, nil
}

func isMatch(m *vm.Machine, self object.Value, args []object.Value) (object.Value, error) {
	compiled, err := patternOf(self)
	if err != nil {
		return nil, err
	}
	haystack, err := haystackArg(args[0])
	if err != nil {
		return nil, err
	}
	pos := 0
	if len(args) == 2 {
		p, err := object.AsInt(args[1])
		if err != nil {
			return nil, err
		}
		pos = int(p)
	}
	matched, err := compiled.IsMatch(haystack, pos)
	if err != nil {
		return nil, err
	}
	return object.NewBool(matched), nil
}

// matchIndex is =~: the byte offset of the first match, or nil.
func matchIndex(m *vm.Machine, self object.Value, args []object.Value) (object.Value, error) {
	compiled, err := patternOf(self)
	if err != nil {
		return nil, err
	}
	haystack, err := haystackArg(args[0])
	if err != nil {
		return nil, err
	}
	found, err := compiled.Find(haystack, 0)
	if err != nil {
		return nil, err
	}
	if found == nil {
		return object.Nil, nil
	}
	return object.NewInt(int64(found.Begin)), nil
}

// match returns the capture groups of the first match as an array, whole
// match first, with nil for unmatched groups. No match returns nil.
func match(m *vm.Machine, self object.Value, args []object.Value) (object.Value, error) {
	compiled, err := patternOf(self)
	if err != nil {
		return nil, err
	}
	haystack, err := haystackArg(args[0])
	if err != nil {
		return nil, err
	}
	captures, err := compiled.Captures(haystack)
	if err != nil {
		return nil, err
	}
	if captures == nil {
		return object.Nil, nil
	}
	return capturesToArray(captures), nil
}

func names(m *vm.Machine, self object.Value, args []object.Value) (object.Value, error) {
	compiled, err := patternOf(self)
	if err != nil {
		return nil, err
	}
	groupNames := compiled.Names()
	items := make([]object.Value, len(groupNames))
	for i, name := range groupNames {
		items[i] = object.NewString(name)
	}
	return object.NewArray(items), nil
}

// scan returns every match. Patterns without groups yield the matched
// strings; patterns with groups yield arrays of group captures.
func scan(m *vm.Machine, self object.Value, args []object.Value) (object.Value, error) {
	compiled, err := patternOf(self)
	if err != nil {
		return nil, err
	}
	haystack, err := haystackArg(args[0])
	if err != nil {
		return nil, err
	}
	sets, err := compiled.Scan(haystack)
	if err != nil {
		return nil, err
	}
	items := make([]object.Value, 0, len(sets))
	for _, captures := range sets {
		if len(captures) == 1 {
			items = append(items, bytesOrNil(captures[0]))
			continue
		}
		items = append(items, capturesToArray(captures[1:]))
	}
	return object.NewArray(items), nil
}

func capturesToArray(captures [][]byte) *object.Array {
	items := make([]object.Value, len(captures))
	for i, capture := range captures {
		items[i] = bytesOrNil(capture)
	}
	return object.NewArray(items)
}

func bytesOrNil(b []byte) object.Value {
	if b == nil {
		return object.Nil
	}
	return object.NewBytes(append([]byte(nil), b...))
}
