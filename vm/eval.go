package vm

import (
	"errors"
	"fmt"

	"github.com/garnet-lang/garnet/exception"
	"github.com/garnet-lang/garnet/internal/ruby"
	"github.com/garnet-lang/garnet/object"
)

// scope holds the local variables of one evaluation. Each Eval gets a fresh
// scope; rescue variable bindings land in the enclosing scope, as they do in
// the language.
type scope struct {
	vars map[string]object.Value
}

func newScope() *scope {
	return &scope{vars: make(map[string]object.Value)}
}

// Eval parses and evaluates source under the given filename. Empty source
// evaluates eagerly to nil. Parse failures return a SyntaxError; raised
// exceptions return a *exception.Error.
func (m *Machine) Eval(source []byte, filename string) (object.Value, error) {
	prog, err := ruby.Parse(source)
	if err != nil {
		var syn *ruby.SyntaxError
		if errors.As(err, &syn) {
			return nil, exception.SyntaxError("%s", syn.Message).
				WithBacktrace([]string{formatFrame(filename, syn.Line, "<main>")})
		}
		return nil, err
	}
	m.PushFile(filename)
	defer m.PopFile()
	save := m.ArenaSave()
	defer m.ArenaRestore(save)
	m.pushFrame("<main>")
	defer m.popFrame()
	sc := newScope()
	result, raiseErr := m.Protect(func() object.Value {
		return m.evalStmts(sc, prog.Stmts)
	})
	if raiseErr != nil {
		return nil, raiseErr
	}
	return result, nil
}

func (m *Machine) evalStmts(sc *scope, stmts []ruby.Node) object.Value {
	result := object.Value(object.Nil)
	for _, stmt := range stmts {
		result = m.evalNode(sc, stmt)
	}
	return result
}

func (m *Machine) evalNode(sc *scope, node ruby.Node) object.Value {
	m.setLine(node.LineNumber())
	switch node := node.(type) {
	case *ruby.IntLit:
		return object.NewInt(node.Value)
	case *ruby.FloatLit:
		return object.NewFloat(node.Value)
	case *ruby.StringLit:
		// A fresh mutable string per evaluation of the literal.
		return object.NewBytes(append([]byte(nil), node.Value...))
	case *ruby.SymbolLit:
		return object.NewSymbol(node.Name)
	case *ruby.BoolLit:
		return object.NewBool(node.Value)
	case *ruby.NilLit:
		return object.Nil
	case *ruby.ArrayLit:
		items := make([]object.Value, len(node.Items))
		for i, item := range node.Items {
			items[i] = m.evalNode(sc, item)
		}
		return m.ArenaKeep(object.NewArray(items))
	case *ruby.HashLit:
		hash := object.NewHash()
		for _, entry := range node.Entries {
			key := m.evalNode(sc, entry.Key)
			value := m.evalNode(sc, entry.Value)
			if err := hash.Set(key, value); err != nil {
				m.Raise(m.errorToException(err))
			}
		}
		return m.ArenaKeep(hash)
	case *ruby.Ident:
		return m.evalIdent(sc, node)
	case *ruby.ConstRef:
		if v, ok := m.Constant(node.Name); ok {
			return v
		}
		m.RaiseError(exception.NameError("uninitialized constant %s", node.Name))
	case *ruby.Assign:
		value := m.evalNode(sc, node.Value)
		sc.vars[node.Name] = value
		return value
	case *ruby.MethodCall:
		recv := m.Main()
		if node.Recv != nil {
			recv = m.evalNode(sc, node.Recv)
		}
		args := make([]object.Value, len(node.Args))
		for i, arg := range node.Args {
			args[i] = m.evalNode(sc, arg)
		}
		m.setLine(node.LineNumber())
		return m.Invoke(recv, node.Name, args)
	case *ruby.IndexGet:
		recv := m.evalNode(sc, node.Recv)
		index := m.evalNode(sc, node.Index)
		m.setLine(node.LineNumber())
		return m.Invoke(recv, "[]", []object.Value{index})
	case *ruby.IndexSet:
		recv := m.evalNode(sc, node.Recv)
		index := m.evalNode(sc, node.Index)
		value := m.evalNode(sc, node.Value)
		m.setLine(node.LineNumber())
		m.Invoke(recv, "[]=", []object.Value{index, value})
		return value
	case *ruby.And:
		left := m.evalNode(sc, node.Left)
		if !left.IsTruthy() {
			return left
		}
		return m.evalNode(sc, node.Right)
	case *ruby.Or:
		left := m.evalNode(sc, node.Left)
		if left.IsTruthy() {
			return left
		}
		return m.evalNode(sc, node.Right)
	case *ruby.Not:
		return object.NewBool(!m.evalNode(sc, node.Expr).IsTruthy())
	case *ruby.If:
		if m.evalNode(sc, node.Cond).IsTruthy() {
			return m.evalStmts(sc, node.Then)
		}
		return m.evalStmts(sc, node.Else)
	case *ruby.Raise:
		m.evalRaise(sc, node)
	case *ruby.Begin:
		return m.evalBegin(sc, node)
	}
	m.RaiseError(exception.Fatal("unhandled node %T", node))
	return nil
}

func (m *Machine) evalIdent(sc *scope, node *ruby.Ident) object.Value {
	if v, ok := sc.vars[node.Name]; ok {
		return v
	}
	if _, ok := m.lookupMethod(m.ClassOf(m.Main()), node.Name); ok {
		return m.Invoke(m.Main(), node.Name, nil)
	}
	m.RaiseError(exception.NameError(
		"undefined local variable or method '%s' for main:Object", node.Name))
	return nil
}

// evalRaise implements the three raise forms: bare, message-only and
// class-with-message. A bare string raises RuntimeError; a class is
// instantiated through its own new.
func (m *Machine) evalRaise(sc *scope, node *ruby.Raise) {
	if len(node.Args) == 0 {
		m.RaiseError(exception.RuntimeError("unhandled exception"))
	}
	first := m.evalNode(sc, node.Args[0])
	if len(node.Args) == 2 {
		message := m.evalNode(sc, node.Args[1])
		class, err := object.AsClass(first)
		if err != nil {
			m.RaiseError(exception.TypeError("exception class/object expected"))
		}
		m.raiseFromValue(m.Invoke(class, "new", []object.Value{message}))
	}
	switch v := first.(type) {
	case *object.String:
		m.Raise(object.NewException(m.MustClass("RuntimeError"),
			append([]byte(nil), v.Bytes()...)))
	case *object.Class:
		m.raiseFromValue(m.Invoke(v, "new", nil))
	case *object.Exception:
		m.Raise(v)
	default:
		m.RaiseError(exception.TypeError("exception class/object expected"))
	}
}

func (m *Machine) raiseFromValue(v object.Value) {
	ex, err := object.AsException(v)
	if err != nil {
		m.RaiseError(exception.TypeError("exception class/object expected"))
	}
	m.Raise(ex)
}

// evalBegin runs a begin/rescue/else/ensure block. The ensure body runs on
// every exit path, including when a raise is unwinding past this block.
func (m *Machine) evalBegin(sc *scope, node *ruby.Begin) (result object.Value) {
	if len(node.Ensure) > 0 {
		defer func() {
			m.evalStmts(sc, node.Ensure)
		}()
	}
	ex := m.tryStmts(sc, node.Body, &result)
	if ex == nil {
		if len(node.Else) > 0 {
			result = m.evalStmts(sc, node.Else)
		}
		return result
	}
	for _, clause := range node.Rescues {
		if !m.rescueMatches(sc, clause, ex) {
			continue
		}
		if clause.Var != "" {
			sc.vars[clause.Var] = ex
		}
		return m.evalStmts(sc, clause.Body)
	}
	panic(&raised{ex: ex})
}

// tryStmts evaluates stmts, catching a raise and restoring frame depth. A
// nil return means normal completion with *out holding the value.
func (m *Machine) tryStmts(sc *scope, stmts []ruby.Node, out *object.Value) (ex *object.Exception) {
	depth := len(m.frames)
	defer func() {
		if r := recover(); r != nil {
			rs, ok := r.(*raised)
			if !ok {
				panic(r)
			}
			m.frames = m.frames[:depth]
			ex = rs.ex
		}
	}()
	*out = m.evalStmts(sc, stmts)
	return nil
}

// rescueMatches checks one rescue clause against the in-flight exception.
// A bare rescue catches StandardError and below, never Exception itself.
func (m *Machine) rescueMatches(sc *scope, clause ruby.RescueClause, ex *object.Exception) bool {
	if len(clause.Classes) == 0 {
		return ex.Class().IsA(m.MustClass("StandardError"))
	}
	for _, ref := range clause.Classes {
		target := m.evalNode(sc, ref)
		class, err := object.AsClass(target)
		if err != nil {
			m.RaiseError(exception.TypeError("class or module required for rescue clause"))
		}
		if ex.Class().IsA(class) {
			return true
		}
	}
	return false
}

func formatFrame(file string, line int, name string) string {
	return fmt.Sprintf("%s:%d:in `%s'", file, line, name)
}
