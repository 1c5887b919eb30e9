package ruby

// Node is an AST node. Every node records the source line it started on for
// backtrace construction.
type Node interface {
	LineNumber() int
}

type position struct {
	Line int
}

func (p position) LineNumber() int {
	return p.Line
}

// Program is a sequence of statements; evaluation yields the last value.
type Program struct {
	position
	Stmts []Node
}

type IntLit struct {
	position
	Value int64
}

type FloatLit struct {
	position
	Value float64
}

type StringLit struct {
	position
	Value []byte
}

type SymbolLit struct {
	position
	Name string
}

type BoolLit struct {
	position
	Value bool
}

type NilLit struct {
	position
}

type ArrayLit struct {
	position
	Items []Node
}

type HashEntry struct {
	Key   Node
	Value Node
}

type HashLit struct {
	position
	Entries []HashEntry
}

// Ident is a local variable reference or, when no local of that name exists,
// a zero-argument call on the top-level object.
type Ident struct {
	position
	Name string
}

// ConstRef resolves a constant (class or module name).
type ConstRef struct {
	position
	Name string
}

// Assign binds a local variable.
type Assign struct {
	position
	Name  string
	Value Node
}

// MethodCall invokes a method. A nil Recv targets the top-level object,
// covering both function-style calls and command calls like `puts "hi"`.
type MethodCall struct {
	position
	Recv Node
	Name string
	Args []Node
}

// IndexGet is sugar for the [] method.
type IndexGet struct {
	position
	Recv  Node
	Index Node
}

// IndexSet is sugar for the []= method.
type IndexSet struct {
	position
	Recv  Node
	Index Node
	Value Node
}

// And and Or short-circuit.
type And struct {
	position
	Left  Node
	Right Node
}

type Or struct {
	position
	Left  Node
	Right Node
}

type Not struct {
	position
	Expr Node
}

// If covers if/elsif/else and unless (with negated condition).
type If struct {
	position
	Cond Node
	Then []Node
	Else []Node // nil when absent; an elsif chain nests another If here
}

// Raise is Kernel#raise: zero, one, or two arguments.
type Raise struct {
	position
	Args []Node
}

// RescueClause handles exceptions whose class matches any of Classes
// (StandardError when empty), optionally binding the exception to Var.
type RescueClause struct {
	position
	Classes []Node
	Var     string
	Body    []Node
}

// Begin is begin/rescue/else/ensure/end.
type Begin struct {
	position
	Body    []Node
	Rescues []RescueClause
	Else    []Node
	Ensure  []Node
}
