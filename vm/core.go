package vm

import (
	"bytes"
	"math"
	"strings"

	"github.com/hashicorp/go-multierror"

	"github.com/garnet-lang/garnet/exception"
	"github.com/garnet-lang/garnet/object"
)

// InstallCore defines the bootstrap classes, the exception hierarchy and the
// core object protocol. It must run exactly once, before anything evaluates.
func InstallCore(m *Machine) error {
	var errs error
	install := func(b *ClassBuilder) {
		if _, err := b.Define(m); err != nil {
			errs = multierror.Append(errs, err)
		}
	}

	install(objectClass())
	install(BuildClass("Class").
		Method("name", classNameMethod, Arity{}).
		Method("superclass", classSuperclass, Arity{}).
		Method("ancestors", classAncestors, Arity{}))
	install(BuildClass("NilClass").
		Method("to_s", func(m *Machine, self object.Value, args []object.Value) (object.Value, error) {
			return object.NewString(""), nil
		}, Arity{}).
		Method("inspect", func(m *Machine, self object.Value, args []object.Value) (object.Value, error) {
			return object.NewString("nil"), nil
		}, Arity{}))
	install(BuildClass("TrueClass"))
	install(BuildClass("FalseClass"))
	install(integerClass())
	install(floatClass())
	install(stringClass())
	install(BuildClass("Symbol").
		Method("to_s", func(m *Machine, self object.Value, args []object.Value) (object.Value, error) {
			return object.NewString(self.(*object.Symbol).Name()), nil
		}, Arity{}).
		Method("to_sym", returnSelf, Arity{}))
	install(arrayClass())
	install(hashClass())

	if err := installExceptions(m); err != nil {
		errs = multierror.Append(errs, err)
	}
	return errs
}

// installExceptions walks the taxonomy, parents before children, and defines
// one class per descriptor. Exception itself sits directly under Object and
// carries the instance protocol the rest inherit.
func installExceptions(m *Machine) error {
	var errs error
	for _, d := range exception.Descriptors() {
		b := BuildClass(d.Name)
		if d.Kind == exception.KindException {
			b.Method("message", exceptionMessage, Arity{}).
				Method("to_s", exceptionMessage, Arity{}).
				Method("backtrace", exceptionBacktrace, Arity{})
		} else {
			b.Super(d.Parent.Name())
		}
		if _, err := b.Define(m); err != nil {
			errs = multierror.Append(errs, err)
		}
	}
	return errs
}

func returnSelf(m *Machine, self object.Value, args []object.Value) (object.Value, error) {
	return self, nil
}

func objectClass() *ClassBuilder {
	return BuildClass("Object").
		Method("==", func(m *Machine, self object.Value, args []object.Value) (object.Value, error) {
			return object.NewBool(self.Equals(args[0])), nil
		}, Arity{Min: 1, Max: 1}).
		Method("equal?", func(m *Machine, self object.Value, args []object.Value) (object.Value, error) {
			return object.NewBool(self == args[0]), nil
		}, Arity{Min: 1, Max: 1}).
		Method("nil?", func(m *Machine, self object.Value, args []object.Value) (object.Value, error) {
			return object.NewBool(self == object.Nil), nil
		}, Arity{}).
		Method("class", func(m *Machine, self object.Value, args []object.Value) (object.Value, error) {
			return m.ClassOf(self), nil
		}, Arity{}).
		Method("is_a?", objectIsA, Arity{Min: 1, Max: 1}).
		Method("kind_of?", objectIsA, Arity{Min: 1, Max: 1}).
		Method("inspect", func(m *Machine, self object.Value, args []object.Value) (object.Value, error) {
			return object.NewString(self.Inspect()), nil
		}, Arity{}).
		Method("to_s", func(m *Machine, self object.Value, args []object.Value) (object.Value, error) {
			return object.NewString(self.Inspect()), nil
		}, Arity{}).
		Method("freeze", objectFreeze, Arity{}).
		Method("frozen?", objectFrozen, Arity{}).
		Method("respond_to?", objectRespondTo, Arity{Min: 1, Max: 1}).
		Method("send", objectSend, Arity{Min: 1, Max: -1}).
		SMethod("new", classNew, Arity{Min: 0, Max: -1})
}

func objectIsA(m *Machine, self object.Value, args []object.Value) (object.Value, error) {
	class, err := object.AsClass(args[0])
	if err != nil {
		return nil, exception.TypeError("class or module required")
	}
	return object.NewBool(m.ClassOf(self).IsA(class)), nil
}

func objectFreeze(m *Machine, self object.Value, args []object.Value) (object.Value, error) {
	if s, ok := self.(*object.String); ok {
		s.Freeze()
	}
	return self, nil
}

func objectFrozen(m *Machine, self object.Value, args []object.Value) (object.Value, error) {
	if s, ok := self.(*object.String); ok {
		return object.NewBool(s.Frozen()), nil
	}
	return object.False, nil
}

func objectRespondTo(m *Machine, self object.Value, args []object.Value) (object.Value, error) {
	name, err := object.AsSymbolName(args[0])
	if err != nil {
		return nil, err
	}
	if class, isClass := self.(*object.Class); isClass {
		if _, ok := m.lookupSMethod(class, name); ok {
			return object.True, nil
		}
	}
	_, ok := m.lookupMethod(m.ClassOf(self), name)
	return object.NewBool(ok), nil
}

// objectSend re-enters dispatch from script code. Host code calling into a
// script-visible method that itself dispatches is the round trip the
// boundary has to keep honest, so send is part of the core protocol.
func objectSend(m *Machine, self object.Value, args []object.Value) (object.Value, error) {
	name, err := object.AsSymbolName(args[0])
	if err != nil {
		return nil, err
	}
	return m.Invoke(self, name, args[1:]), nil
}

// classNew instantiates the receiver class. Exception classes produce
// exception values whose default message is the class name; other classes
// produce plain instances and run initialize when one is defined.
func classNew(m *Machine, self object.Value, args []object.Value) (object.Value, error) {
	class, err := object.AsClass(self)
	if err != nil {
		return nil, err
	}
	if exceptionRoot, ok := m.Class("Exception"); ok && class.IsA(exceptionRoot) {
		message := []byte(class.Name())
		if len(args) > 0 {
			message, err = object.AsBytes(args[0])
			if err != nil {
				return nil, err
			}
		}
		return object.NewException(class, message), nil
	}
	instance := object.NewInstance(class)
	if _, ok := m.lookupMethod(class, "initialize"); ok {
		m.Invoke(instance, "initialize", args)
	}
	return instance, nil
}

func classNameMethod(m *Machine, self object.Value, args []object.Value) (object.Value, error) {
	return object.NewString(self.(*object.Class).Name()), nil
}

func classSuperclass(m *Machine, self object.Value, args []object.Value) (object.Value, error) {
	super := self.(*object.Class).Super()
	if super == nil {
		return object.Nil, nil
	}
	return super, nil
}

func classAncestors(m *Machine, self object.Value, args []object.Value) (object.Value, error) {
	ancestors := self.(*object.Class).Ancestors()
	items := make([]object.Value, len(ancestors))
	for i, c := range ancestors {
		items[i] = c
	}
	return object.NewArray(items), nil
}

func exceptionMessage(m *Machine, self object.Value, args []object.Value) (object.Value, error) {
	ex, err := object.AsException(self)
	if err != nil {
		return nil, err
	}
	return object.NewBytes(append([]byte(nil), ex.Message()...)), nil
}

func exceptionBacktrace(m *Machine, self object.Value, args []object.Value) (object.Value, error) {
	ex, err := object.AsException(self)
	if err != nil {
		return nil, err
	}
	if ex.Backtrace() == nil {
		return object.Nil, nil
	}
	items := make([]object.Value, len(ex.Backtrace()))
	for i, f := range ex.Backtrace() {
		items[i] = object.NewString(f)
	}
	return object.NewArray(items), nil
}

// Numeric classes.

func integerClass() *ClassBuilder {
	return BuildClass("Integer").
		Method("+", intArith("+"), Arity{Min: 1, Max: 1}).
		Method("-", intArith("-"), Arity{Min: 1, Max: 1}).
		Method("*", intArith("*"), Arity{Min: 1, Max: 1}).
		Method("/", intArith("/"), Arity{Min: 1, Max: 1}).
		Method("%", intArith("%"), Arity{Min: 1, Max: 1}).
		Method("<", intCompare(func(c int) bool { return c < 0 }), Arity{Min: 1, Max: 1}).
		Method("<=", intCompare(func(c int) bool { return c <= 0 }), Arity{Min: 1, Max: 1}).
		Method(">", intCompare(func(c int) bool { return c > 0 }), Arity{Min: 1, Max: 1}).
		Method(">=", intCompare(func(c int) bool { return c >= 0 }), Arity{Min: 1, Max: 1}).
		Method("-@", func(m *Machine, self object.Value, args []object.Value) (object.Value, error) {
			return object.NewInt(-self.(*object.Int).Value()), nil
		}, Arity{}).
		Method("abs", func(m *Machine, self object.Value, args []object.Value) (object.Value, error) {
			v := self.(*object.Int).Value()
			if v < 0 {
				v = -v
			}
			return object.NewInt(v), nil
		}, Arity{}).
		Method("zero?", func(m *Machine, self object.Value, args []object.Value) (object.Value, error) {
			return object.NewBool(self.(*object.Int).Value() == 0), nil
		}, Arity{}).
		Method("to_i", returnSelf, Arity{}).
		Method("to_f", func(m *Machine, self object.Value, args []object.Value) (object.Value, error) {
			return object.NewFloat(float64(self.(*object.Int).Value())), nil
		}, Arity{}).
		Method("to_s", func(m *Machine, self object.Value, args []object.Value) (object.Value, error) {
			return object.NewString(self.Inspect()), nil
		}, Arity{})
}

// floorDiv matches script-level integer division: the quotient rounds toward
// negative infinity and the remainder takes the divisor's sign.
func floorDiv(a, b int64) int64 {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}

func floorMod(a, b int64) int64 {
	r := a % b
	if r != 0 && (r < 0) != (b < 0) {
		r += b
	}
	return r
}

func intArith(op string) NativeFunc {
	return func(m *Machine, self object.Value, args []object.Value) (object.Value, error) {
		a := self.(*object.Int).Value()
		switch other := args[0].(type) {
		case *object.Int:
			b := other.Value()
			switch op {
			case "+":
				return object.NewInt(a + b), nil
			case "-":
				return object.NewInt(a - b), nil
			case "*":
				return object.NewInt(a * b), nil
			case "/":
				if b == 0 {
					return nil, exception.Newf(exception.KindZeroDivisionError, "divided by 0")
				}
				return object.NewInt(floorDiv(a, b)), nil
			default:
				if b == 0 {
					return nil, exception.Newf(exception.KindZeroDivisionError, "divided by 0")
				}
				return object.NewInt(floorMod(a, b)), nil
			}
		case *object.Float:
			return floatArithOp(op, float64(a), other.Value())
		default:
			return nil, exception.TypeError("%s can't be coerced into Integer", m.prettyName(args[0]))
		}
	}
}

func intCompare(test func(int) bool) NativeFunc {
	return func(m *Machine, self object.Value, args []object.Value) (object.Value, error) {
		a := self.(*object.Int).Value()
		switch other := args[0].(type) {
		case *object.Int:
			// Exact comparison; going through float64 would collapse
			// integers beyond 2^53.
			b := other.Value()
			switch {
			case a < b:
				return object.NewBool(test(-1)), nil
			case a > b:
				return object.NewBool(test(1)), nil
			default:
				return object.NewBool(test(0)), nil
			}
		case *object.Float:
			fa, fb := float64(a), other.Value()
			switch {
			case fa < fb:
				return object.NewBool(test(-1)), nil
			case fa > fb:
				return object.NewBool(test(1)), nil
			default:
				return object.NewBool(test(0)), nil
			}
		default:
			return nil, exception.ArgumentError("comparison of Integer with %s failed", m.prettyName(args[0]))
		}
	}
}

func floatArithOp(op string, a, b float64) (object.Value, error) {
	switch op {
	case "+":
		return object.NewFloat(a + b), nil
	case "-":
		return object.NewFloat(a - b), nil
	case "*":
		return object.NewFloat(a * b), nil
	case "/":
		return object.NewFloat(a / b), nil
	default:
		return object.NewFloat(math.Mod(a, b)), nil
	}
}

func floatClass() *ClassBuilder {
	return BuildClass("Float").
		Method("+", floatArith("+"), Arity{Min: 1, Max: 1}).
		Method("-", floatArith("-"), Arity{Min: 1, Max: 1}).
		Method("*", floatArith("*"), Arity{Min: 1, Max: 1}).
		Method("/", floatArith("/"), Arity{Min: 1, Max: 1}).
		Method("%", floatArith("%"), Arity{Min: 1, Max: 1}).
		Method("<", floatCompare(func(c int) bool { return c < 0 }), Arity{Min: 1, Max: 1}).
		Method("<=", floatCompare(func(c int) bool { return c <= 0 }), Arity{Min: 1, Max: 1}).
		Method(">", floatCompare(func(c int) bool { return c > 0 }), Arity{Min: 1, Max: 1}).
		Method(">=", floatCompare(func(c int) bool { return c >= 0 }), Arity{Min: 1, Max: 1}).
		Method("-@", func(m *Machine, self object.Value, args []object.Value) (object.Value, error) {
			return object.NewFloat(-self.(*object.Float).Value()), nil
		}, Arity{}).
		Method("to_f", returnSelf, Arity{}).
		Method("to_i", func(m *Machine, self object.Value, args []object.Value) (object.Value, error) {
			v := self.(*object.Float).Value()
			if math.IsNaN(v) {
				return nil, exception.Newf(exception.KindFloatDomainError, "NaN")
			}
			if math.IsInf(v, 1) {
				return nil, exception.Newf(exception.KindFloatDomainError, "Infinity")
			}
			if math.IsInf(v, -1) {
				return nil, exception.Newf(exception.KindFloatDomainError, "-Infinity")
			}
			if v >= math.MaxInt64 || v < math.MinInt64 {
				return nil, exception.RangeError("float %g out of range of integer", v)
			}
			return object.NewInt(int64(v)), nil
		}, Arity{}).
		Method("nan?", func(m *Machine, self object.Value, args []object.Value) (object.Value, error) {
			return object.NewBool(math.IsNaN(self.(*object.Float).Value())), nil
		}, Arity{})
}

func floatArith(op string) NativeFunc {
	return func(m *Machine, self object.Value, args []object.Value) (object.Value, error) {
		b, err := object.AsFloat(args[0])
		if err != nil {
			return nil, exception.TypeError("%s can't be coerced into Float", m.prettyName(args[0]))
		}
		return floatArithOp(op, self.(*object.Float).Value(), b)
	}
}

func floatCompare(test func(int) bool) NativeFunc {
	return func(m *Machine, self object.Value, args []object.Value) (object.Value, error) {
		a := self.(*object.Float).Value()
		b, err := object.AsFloat(args[0])
		if err != nil {
			return nil, exception.ArgumentError("comparison of Float with %s failed", m.prettyName(args[0]))
		}
		switch {
		case a < b:
			return object.NewBool(test(-1)), nil
		case a > b:
			return object.NewBool(test(1)), nil
		default:
			return object.NewBool(test(0)), nil
		}
	}
}

// String.

func stringClass() *ClassBuilder {
	return BuildClass("String").
		Method("+", stringConcat, Arity{Min: 1, Max: 1}).
		Method("<<", stringAppend, Arity{Min: 1, Max: 1}).
		Method("*", stringRepeat, Arity{Min: 1, Max: 1}).
		Method("length", stringLength, Arity{}).
		Method("size", stringLength, Arity{}).
		Method("empty?", func(m *Machine, self object.Value, args []object.Value) (object.Value, error) {
			return object.NewBool(self.(*object.String).Len() == 0), nil
		}, Arity{}).
		Method("upcase", stringMap(strings.ToUpper), Arity{}).
		Method("downcase", stringMap(strings.ToLower), Arity{}).
		Method("reverse", stringReverse, Arity{}).
		Method("include?", stringPredicate(bytes.Contains), Arity{Min: 1, Max: 1}).
		Method("start_with?", stringPredicate(bytes.HasPrefix), Arity{Min: 1, Max: 1}).
		Method("end_with?", stringPredicate(bytes.HasSuffix), Arity{Min: 1, Max: 1}).
		Method("to_s", returnSelf, Arity{}).
		Method("to_sym", func(m *Machine, self object.Value, args []object.Value) (object.Value, error) {
			return object.NewSymbol(self.(*object.String).Value()), nil
		}, Arity{}).
		Method("[]", stringIndex, Arity{Min: 1, Max: 2}).
		Method("dup", func(m *Machine, self object.Value, args []object.Value) (object.Value, error) {
			return self.(*object.String).Clone(), nil
		}, Arity{})
}

func stringConcat(m *Machine, self object.Value, args []object.Value) (object.Value, error) {
	other, err := object.AsBytes(args[0])
	if err != nil {
		return nil, exception.TypeError("no implicit conversion of %s into String", m.prettyName(args[0]))
	}
	a := self.(*object.String).Bytes()
	joined := make([]byte, 0, len(a)+len(other))
	joined = append(joined, a...)
	joined = append(joined, other...)
	return object.NewBytes(joined), nil
}

func stringAppend(m *Machine, self object.Value, args []object.Value) (object.Value, error) {
	other, err := object.AsBytes(args[0])
	if err != nil {
		return nil, exception.TypeError("no implicit conversion of %s into String", m.prettyName(args[0]))
	}
	if err := self.(*object.String).Append(other); err != nil {
		return nil, err
	}
	return self, nil
}

func stringRepeat(m *Machine, self object.Value, args []object.Value) (object.Value, error) {
	count, err := object.AsInt(args[0])
	if err != nil {
		return nil, exception.TypeError("no implicit conversion of %s into Integer", m.prettyName(args[0]))
	}
	if count < 0 {
		return nil, exception.ArgumentError("negative argument")
	}
	return object.NewBytes(bytes.Repeat(self.(*object.String).Bytes(), int(count))), nil
}

func stringLength(m *Machine, self object.Value, args []object.Value) (object.Value, error) {
	return object.NewInt(int64(self.(*object.String).Len())), nil
}

func stringMap(fn func(string) string) NativeFunc {
	return func(m *Machine, self object.Value, args []object.Value) (object.Value, error) {
		return object.NewString(fn(self.(*object.String).Value())), nil
	}
}

func stringReverse(m *Machine, self object.Value, args []object.Value) (object.Value, error) {
	src := self.(*object.String).Bytes()
	out := make([]byte, len(src))
	for i, b := range src {
		out[len(src)-1-i] = b
	}
	return object.NewBytes(out), nil
}

func stringPredicate(fn func([]byte, []byte) bool) NativeFunc {
	return func(m *Machine, self object.Value, args []object.Value) (object.Value, error) {
		other, err := object.AsBytes(args[0])
		if err != nil {
			return nil, exception.TypeError("no implicit conversion of %s into String", m.prettyName(args[0]))
		}
		return object.NewBool(fn(self.(*object.String).Bytes(), other)), nil
	}
}

func stringIndex(m *Machine, self object.Value, args []object.Value) (object.Value, error) {
	src := self.(*object.String).Bytes()
	start, err := object.AsInt(args[0])
	if err != nil {
		return nil, err
	}
	if start < 0 {
		start += int64(len(src))
	}
	if start < 0 || start > int64(len(src)) {
		return object.Nil, nil
	}
	length := int64(1)
	if len(args) == 2 {
		length, err = object.AsInt(args[1])
		if err != nil {
			return nil, err
		}
		if length < 0 {
			return object.Nil, nil
		}
	} else if start == int64(len(src)) {
		return object.Nil, nil
	}
	end := start + length
	if end > int64(len(src)) {
		end = int64(len(src))
	}
	return object.NewBytes(append([]byte(nil), src[start:end]...)), nil
}

// Array.

func arrayClass() *ClassBuilder {
	return BuildClass("Array").
		Method("[]", arrayIndex, Arity{Min: 1, Max: 1}).
		Method("[]=", arrayIndexSet, Arity{Min: 2, Max: 2}).
		Method("<<", func(m *Machine, self object.Value, args []object.Value) (object.Value, error) {
			self.(*object.Array).Append(args[0])
			return self, nil
		}, Arity{Min: 1, Max: 1}).
		Method("push", func(m *Machine, self object.Value, args []object.Value) (object.Value, error) {
			for _, arg := range args {
				self.(*object.Array).Append(arg)
			}
			return self, nil
		}, Arity{Min: 1, Max: -1}).
		Method("length", arrayLength, Arity{}).
		Method("size", arrayLength, Arity{}).
		Method("empty?", func(m *Machine, self object.Value, args []object.Value) (object.Value, error) {
			return object.NewBool(self.(*object.Array).Len() == 0), nil
		}, Arity{}).
		Method("first", func(m *Machine, self object.Value, args []object.Value) (object.Value, error) {
			if v, ok := self.(*object.Array).Get(0); ok {
				return v, nil
			}
			return object.Nil, nil
		}, Arity{}).
		Method("last", func(m *Machine, self object.Value, args []object.Value) (object.Value, error) {
			if v, ok := self.(*object.Array).Get(-1); ok {
				return v, nil
			}
			return object.Nil, nil
		}, Arity{}).
		Method("include?", func(m *Machine, self object.Value, args []object.Value) (object.Value, error) {
			for _, item := range self.(*object.Array).Items() {
				if item.Equals(args[0]) {
					return object.True, nil
				}
			}
			return object.False, nil
		}, Arity{Min: 1, Max: 1}).
		Method("join", arrayJoin, Arity{Min: 0, Max: 1})
}

func arrayIndex(m *Machine, self object.Value, args []object.Value) (object.Value, error) {
	index, err := object.AsInt(args[0])
	if err != nil {
		return nil, exception.TypeError("no implicit conversion of %s into Integer", m.prettyName(args[0]))
	}
	if v, ok := self.(*object.Array).Get(int(index)); ok {
		return v, nil
	}
	return object.Nil, nil
}

func arrayIndexSet(m *Machine, self object.Value, args []object.Value) (object.Value, error) {
	arr := self.(*object.Array)
	index, err := object.AsInt(args[0])
	if err != nil {
		return nil, exception.TypeError("no implicit conversion of %s into Integer", m.prettyName(args[0]))
	}
	i := int(index)
	if i < 0 {
		i += arr.Len()
		if i < 0 {
			return nil, exception.Newf(exception.KindIndexError,
				"index %d too small for array; minimum: -%d", index, arr.Len())
		}
	}
	for arr.Len() <= i {
		arr.Append(object.Nil)
	}
	arr.Items()[i] = args[1]
	return args[1], nil
}

func arrayLength(m *Machine, self object.Value, args []object.Value) (object.Value, error) {
	return object.NewInt(int64(self.(*object.Array).Len())), nil
}

func arrayJoin(m *Machine, self object.Value, args []object.Value) (object.Value, error) {
	sep := []byte(nil)
	if len(args) == 1 {
		var err error
		sep, err = object.AsBytes(args[0])
		if err != nil {
			return nil, err
		}
	}
	var out []byte
	for i, item := range self.(*object.Array).Items() {
		if i > 0 {
			out = append(out, sep...)
		}
		if s, ok := item.(*object.String); ok {
			out = append(out, s.Bytes()...)
		} else {
			out = append(out, item.Inspect()...)
		}
	}
	return object.NewBytes(out), nil
}

// Hash.

func hashClass() *ClassBuilder {
	return BuildClass("Hash").
		Method("[]", hashIndex, Arity{Min: 1, Max: 1}).
		Method("[]=", hashIndexSet, Arity{Min: 2, Max: 2}).
		Method("fetch", hashFetch, Arity{Min: 1, Max: 2}).
		Method("key?", hashHasKey, Arity{Min: 1, Max: 1}).
		Method("has_key?", hashHasKey, Arity{Min: 1, Max: 1}).
		Method("include?", hashHasKey, Arity{Min: 1, Max: 1}).
		Method("delete", func(m *Machine, self object.Value, args []object.Value) (object.Value, error) {
			if v, ok := self.(*object.Hash).Delete(args[0]); ok {
				return v, nil
			}
			return object.Nil, nil
		}, Arity{Min: 1, Max: 1}).
		Method("keys", func(m *Machine, self object.Value, args []object.Value) (object.Value, error) {
			pairs := self.(*object.Hash).Pairs()
			items := make([]object.Value, len(pairs))
			for i, p := range pairs {
				items[i] = p.Key
			}
			return object.NewArray(items), nil
		}, Arity{}).
		Method("values", func(m *Machine, self object.Value, args []object.Value) (object.Value, error) {
			pairs := self.(*object.Hash).Pairs()
			items := make([]object.Value, len(pairs))
			for i, p := range pairs {
				items[i] = p.Value
			}
			return object.NewArray(items), nil
		}, Arity{}).
		Method("length", hashLength, Arity{}).
		Method("size", hashLength, Arity{}).
		Method("empty?", func(m *Machine, self object.Value, args []object.Value) (object.Value, error) {
			return object.NewBool(self.(*object.Hash).Len() == 0), nil
		}, Arity{})
}

func hashIndex(m *Machine, self object.Value, args []object.Value) (object.Value, error) {
	if v, ok := self.(*object.Hash).Get(args[0]); ok {
		return v, nil
	}
	return object.Nil, nil
}

func hashIndexSet(m *Machine, self object.Value, args []object.Value) (object.Value, error) {
	if err := self.(*object.Hash).Set(args[0], args[1]); err != nil {
		return nil, err
	}
	return args[1], nil
}

func hashFetch(m *Machine, self object.Value, args []object.Value) (object.Value, error) {
	if v, ok := self.(*object.Hash).Get(args[0]); ok {
		return v, nil
	}
	if len(args) == 2 {
		return args[1], nil
	}
	return nil, exception.KeyError("key not found: %s", args[0].Inspect())
}

func hashHasKey(m *Machine, self object.Value, args []object.Value) (object.Value, error) {
	_, ok := self.(*object.Hash).Get(args[0])
	return object.NewBool(ok), nil
}

func hashLength(m *Machine, self object.Value, args []object.Value) (object.Value, error) {
	return object.NewInt(int64(self.(*object.Hash).Len())), nil
}
