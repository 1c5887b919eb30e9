package vm

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/garnet-lang/garnet/exception"
	"github.com/garnet-lang/garnet/object"
)

func newTestMachine(t *testing.T) *Machine {
	t.Helper()
	m := New(WithOutput(&bytes.Buffer{}))
	require.NoError(t, InstallCore(m))
	return m
}

func eval(t *testing.T, m *Machine, src string) object.Value {
	t.Helper()
	result, err := m.Eval([]byte(src), "test.rb")
	require.NoError(t, err)
	return result
}

func TestEvalLiteralsAndArithmetic(t *testing.T) {
	m := newTestMachine(t)

	result := eval(t, m, "1 + 2 * 3")
	require.Equal(t, object.NewInt(7), result)

	result = eval(t, m, "10 / 4")
	require.Equal(t, object.NewInt(2), result)

	result = eval(t, m, "-7 / 2")
	require.Equal(t, object.NewInt(-4), result)

	result = eval(t, m, "-7 % 2")
	require.Equal(t, object.NewInt(1), result)

	result = eval(t, m, "1 + 2.5")
	require.Equal(t, object.NewFloat(3.5), result)

	result = eval(t, m, `"foo" + "bar"`)
	require.Equal(t, "foobar", result.(*object.String).Value())
}

func TestIntegerComparisonIsExact(t *testing.T) {
	m := newTestMachine(t)

	// Neighbors above 2^53 are indistinguishable as float64.
	require.Equal(t, object.True, eval(t, m, "9007199254740993 > 9007199254740992"))
	require.Equal(t, object.False, eval(t, m, "9007199254740993 == 9007199254740992"))
	require.Equal(t, object.True, eval(t, m, "9007199254740992 < 9007199254740993"))
	require.Equal(t, object.True, eval(t, m, "9007199254740993 >= 9007199254740993"))

	// Mixed comparisons still promote to float.
	require.Equal(t, object.True, eval(t, m, "3 > 2.5"))
	require.Equal(t, object.False, eval(t, m, "2 < 1.5"))
}

func TestFloatToIntegerDomain(t *testing.T) {
	m := newTestMachine(t)

	require.Equal(t, object.NewInt(2), eval(t, m, "2.9.to_i"))
	require.Equal(t, object.NewInt(-2), eval(t, m, "-2.9.to_i"))

	_, err := m.Eval([]byte("(0.0 / 0.0).to_i"), "test.rb")
	var exc *exception.Error
	require.ErrorAs(t, err, &exc)
	require.Equal(t, exception.KindFloatDomainError, exc.Kind())
	require.Equal(t, []byte("NaN"), exc.Message())

	_, err = m.Eval([]byte("(1.0 / 0.0).to_i"), "test.rb")
	require.ErrorAs(t, err, &exc)
	require.Equal(t, exception.KindFloatDomainError, exc.Kind())
	require.Equal(t, []byte("Infinity"), exc.Message())

	_, err = m.Eval([]byte("(-1.0 / 0.0).to_i"), "test.rb")
	require.ErrorAs(t, err, &exc)
	require.Equal(t, []byte("-Infinity"), exc.Message())

	// FloatDomainError descends from RangeError.
	result := eval(t, m, `
begin
  (0.0 / 0.0).to_i
rescue RangeError => e
  e.class.name
end`)
	require.Equal(t, "FloatDomainError", result.(*object.String).Value())
}

func TestEvalEmptySource(t *testing.T) {
	m := newTestMachine(t)
	result := eval(t, m, "")
	require.Equal(t, object.Nil, result)
}

func TestEvalLocalsAndConditionals(t *testing.T) {
	m := newTestMachine(t)
	result := eval(t, m, "x = 3\nif x > 2\n :big\nelse\n :small\nend")
	require.Equal(t, object.NewSymbol("big"), result)

	result = eval(t, m, "unless false\n 1\nend")
	require.Equal(t, object.NewInt(1), result)
}

func TestEvalCollections(t *testing.T) {
	m := newTestMachine(t)
	result := eval(t, m, `a = [1, 2, 3]
a[0] = 10
a << 4
a[0] + a[3]`)
	require.Equal(t, object.NewInt(14), result)

	result = eval(t, m, `h = {"k" => 1, :s => 2}
h["k"] + h[:s]`)
	require.Equal(t, object.NewInt(3), result)
}

func TestZeroDivisionRaises(t *testing.T) {
	m := newTestMachine(t)
	_, err := m.Eval([]byte("1 / 0"), "test.rb")
	var raised *exception.Error
	require.ErrorAs(t, err, &raised)
	require.Equal(t, exception.KindZeroDivisionError, raised.Kind())
	require.Equal(t, "divided by 0", string(raised.Message()))
}

func TestRaiseStringBecomesRuntimeError(t *testing.T) {
	m := newTestMachine(t)
	_, err := m.Eval([]byte(`raise "boom"`), "test.rb")
	var raised *exception.Error
	require.ErrorAs(t, err, &raised)
	require.Equal(t, exception.KindRuntimeError, raised.Kind())
	require.Equal(t, "boom", string(raised.Message()))
}

func TestRaiseClassWithMessage(t *testing.T) {
	m := newTestMachine(t)
	_, err := m.Eval([]byte(`raise ArgumentError, "bad arg"`), "test.rb")
	var raised *exception.Error
	require.ErrorAs(t, err, &raised)
	require.Equal(t, exception.KindArgumentError, raised.Kind())
	require.Equal(t, "ArgumentError", raised.ClassName())
	require.Equal(t, "bad arg", string(raised.Message()))
	require.NotEmpty(t, raised.Backtrace())
}

func TestRaiseBareClassUsesClassNameMessage(t *testing.T) {
	m := newTestMachine(t)
	_, err := m.Eval([]byte("raise TypeError"), "test.rb")
	var raised *exception.Error
	require.ErrorAs(t, err, &raised)
	require.Equal(t, exception.KindTypeError, raised.Kind())
	require.Equal(t, "TypeError", string(raised.Message()))
}

func TestRescueByClassAndAncestor(t *testing.T) {
	m := newTestMachine(t)
	result := eval(t, m, `
begin
  raise KeyError, "missing"
rescue IndexError => e
  e.message
end`)
	require.Equal(t, "missing", result.(*object.String).Value())
}

func TestBareRescueCatchesStandardErrorOnly(t *testing.T) {
	m := newTestMachine(t)
	result := eval(t, m, `
begin
  raise ArgumentError, "x"
rescue
  :caught
end`)
	require.Equal(t, object.NewSymbol("caught"), result)

	_, err := m.Eval([]byte(`
begin
  raise SecurityError, "no"
rescue
  :caught
end`), "test.rb")
	var raised *exception.Error
	require.ErrorAs(t, err, &raised)
	require.Equal(t, exception.KindSecurityError, raised.Kind())
}

func TestRescueElseAndEnsure(t *testing.T) {
	m := newTestMachine(t)
	result := eval(t, m, `
log = []
begin
  log << :body
rescue
  log << :rescue
else
  log << :else
ensure
  log << :ensure
end
log`)
	arr := result.(*object.Array)
	require.Equal(t, 3, arr.Len())
	names := []string{}
	for _, item := range arr.Items() {
		names = append(names, item.(*object.Symbol).Name())
	}
	require.Equal(t, []string{"body", "else", "ensure"}, names)
}

func TestEnsureObservedOnRaise(t *testing.T) {
	m := newTestMachine(t)
	trace := object.NewArray(nil)
	require.NoError(t, m.DefineConstant("TRACE", trace))
	_, err := m.Eval([]byte(`
begin
  raise IOError, "closed"
ensure
  TRACE << :ensured
end`), "test.rb")
	var raised *exception.Error
	require.ErrorAs(t, err, &raised)
	require.Equal(t, exception.KindIOError, raised.Kind())
	require.Equal(t, 1, trace.Len())
}

func TestUnmappedExceptionCrossesVerbatim(t *testing.T) {
	m := newTestMachine(t)
	_, err := BuildClass("WidgetError").Super("StandardError").Define(m)
	require.NoError(t, err)

	_, evalErr := m.Eval([]byte(`raise WidgetError, "widget jammed"`), "test.rb")
	var raised *exception.Error
	require.ErrorAs(t, evalErr, &raised)
	require.Equal(t, exception.KindUnmapped, raised.Kind())
	require.Equal(t, "WidgetError", raised.ClassName())
	require.Equal(t, "widget jammed", string(raised.Message()))
}

func TestHostErrorRaisesMappedClass(t *testing.T) {
	m := newTestMachine(t)
	err := ExtendClass(m, "Object", func(b *ClassBuilder) {
		b.Method("fail_key", func(m *Machine, self object.Value, args []object.Value) (object.Value, error) {
			return nil, exception.KeyError("key not found: :missing")
		}, Arity{})
	})
	require.NoError(t, err)

	result := eval(t, m, `
begin
  fail_key
rescue KeyError => e
  e.message
end`)
	require.Equal(t, "key not found: :missing", result.(*object.String).Value())
}

func TestGenericErrorBecomesRuntimeError(t *testing.T) {
	m := newTestMachine(t)
	err := ExtendClass(m, "Object", func(b *ClassBuilder) {
		b.Method("fail_plain", func(m *Machine, self object.Value, args []object.Value) (object.Value, error) {
			return nil, errors.New("backend exploded")
		}, Arity{})
	})
	require.NoError(t, err)

	result := eval(t, m, `
begin
  fail_plain
rescue RuntimeError => e
  e.message
end`)
	require.Equal(t, "backend exploded", result.(*object.String).Value())
}

func TestNoMethodError(t *testing.T) {
	m := newTestMachine(t)
	_, err := m.Eval([]byte("1.frobnicate"), "test.rb")
	var raised *exception.Error
	require.ErrorAs(t, err, &raised)
	require.Equal(t, exception.KindNoMethodError, raised.Kind())
	require.Contains(t, string(raised.Message()), "frobnicate")
	require.Contains(t, string(raised.Message()), "Integer")
}

func TestUndefinedLocalIsNameError(t *testing.T) {
	m := newTestMachine(t)
	_, err := m.Eval([]byte("nonexistent"), "test.rb")
	var raised *exception.Error
	require.ErrorAs(t, err, &raised)
	require.Equal(t, exception.KindNameError, raised.Kind())
}

func TestArityViolationIsArgumentError(t *testing.T) {
	m := newTestMachine(t)
	_, err := m.Eval([]byte(`"abc".upcase(1)`), "test.rb")
	var raised *exception.Error
	require.ErrorAs(t, err, &raised)
	require.Equal(t, exception.KindArgumentError, raised.Kind())
	require.Equal(t, "wrong number of arguments (given 1, expected 0)", string(raised.Message()))
}

func TestSyntaxErrorFromParse(t *testing.T) {
	m := newTestMachine(t)
	_, err := m.Eval([]byte("if true\n 1"), "broken.rb")
	var raised *exception.Error
	require.ErrorAs(t, err, &raised)
	require.Equal(t, exception.KindSyntaxError, raised.Kind())
}

func TestSendReentersDispatch(t *testing.T) {
	m := newTestMachine(t)
	result := eval(t, m, `"hello".send(:upcase)`)
	require.Equal(t, "HELLO", result.(*object.String).Value())

	result = eval(t, m, `
begin
  1.send(:/, 0)
rescue ZeroDivisionError
  :caught
end`)
	require.Equal(t, object.NewSymbol("caught"), result)
}

func TestBacktraceFrames(t *testing.T) {
	m := newTestMachine(t)
	_, err := m.Eval([]byte("\n\nraise IOError, \"boom\""), "script.rb")
	var raised *exception.Error
	require.ErrorAs(t, err, &raised)
	require.NotEmpty(t, raised.Backtrace())
	require.Contains(t, raised.Backtrace()[len(raised.Backtrace())-1], "script.rb:3")
}

func TestHostCallDispatch(t *testing.T) {
	m := newTestMachine(t)
	result, err := m.Call(object.NewString("abc"), "length", nil)
	require.NoError(t, err)
	require.Equal(t, object.NewInt(3), result)

	_, err = m.Call(object.NewInt(1), "/", []object.Value{object.NewInt(0)})
	var raised *exception.Error
	require.ErrorAs(t, err, &raised)
	require.Equal(t, exception.KindZeroDivisionError, raised.Kind())
}

func TestFrozenStringRaisesFrozenError(t *testing.T) {
	m := newTestMachine(t)
	result := eval(t, m, `
s = "abc".freeze
begin
  s << "d"
rescue FrozenError
  :frozen
end`)
	require.Equal(t, object.NewSymbol("frozen"), result)
}

func TestDuplicateClassIsConfigError(t *testing.T) {
	m := newTestMachine(t)
	_, err := BuildClass("String").Define(m)
	require.Error(t, err)
	require.Contains(t, err.Error(), "already defined")
}

func TestDuplicateMethodIsConfigError(t *testing.T) {
	m := newTestMachine(t)
	noop := func(m *Machine, self object.Value, args []object.Value) (object.Value, error) {
		return object.Nil, nil
	}
	_, err := BuildClass("Gadget").
		Method("spin", noop, Arity{}).
		Method("spin", noop, Arity{}).
		Define(m)
	require.Error(t, err)
	require.Contains(t, err.Error(), "defined twice")

	err = ExtendClass(m, "Object", func(b *ClassBuilder) {
		b.Method("==", noop, Arity{Min: 1, Max: 1})
	})
	require.Error(t, err)
}

func TestBoxCollection(t *testing.T) {
	m := newTestMachine(t)

	released := map[string]bool{}
	boxA := object.NewBoxed(1, "payload-a")
	boxB := object.NewBoxed(2, "payload-b")
	m.TrackBox(boxA, func() { released["a"] = true })
	m.TrackBox(boxB, func() { released["b"] = true })

	// Only boxA stays reachable through a constant.
	require.NoError(t, m.DefineConstant("KEEP", object.NewArray([]object.Value{boxA})))

	swept := m.FullGC()
	require.Equal(t, 1, swept)
	require.False(t, released["a"])
	require.True(t, released["b"])

	m.FinalizeAllBoxes()
	require.True(t, released["a"])
	require.Zero(t, m.LiveBoxes())
}

func TestArenaRootsSurviveGC(t *testing.T) {
	m := newTestMachine(t)
	released := false
	box := object.NewBoxed(7, nil)
	m.TrackBox(box, func() { released = true })

	save := m.ArenaSave()
	m.ArenaKeep(box)
	require.Zero(t, m.FullGC())
	require.False(t, released)

	m.ArenaRestore(save)
	require.Equal(t, 1, m.FullGC())
	require.True(t, released)
}

func TestClassReflection(t *testing.T) {
	m := newTestMachine(t)
	result := eval(t, m, "1.class.name")
	require.Equal(t, "Integer", result.(*object.String).Value())

	result = eval(t, m, "KeyError.superclass.name")
	require.Equal(t, "IndexError", result.(*object.String).Value())

	result = eval(t, m, "1.is_a?(Integer) && 1.is_a?(Object)")
	require.Equal(t, object.True, result)
}

func TestBooleanOperators(t *testing.T) {
	m := newTestMachine(t)
	require.Equal(t, object.NewInt(2), eval(t, m, "nil || 2"))
	require.Equal(t, object.Nil, eval(t, m, "nil && 2"))
	require.Equal(t, object.False, eval(t, m, "!1"))
	require.Equal(t, object.NewInt(3), eval(t, m, "false or 3"))
}
