package ruby

import (
	"fmt"
	"strconv"
)

// SyntaxError reports malformed source, with the 1-based line it occurred on.
type SyntaxError struct {
	Line    int
	Message string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("syntax error, %s (line %d)", e.Message, e.Line)
}

// Operator precedence, lowest first.
const (
	lowest int = iota
	precKeywordBool    // and, or, not
	precAssign         // =
	precOr             // ||
	precAnd            // &&
	precEquality       // ==, !=
	precComparison     // <, <=, >, >=
	precSum            // +, -
	precProduct        // *, /, %
	precPrefix         // -x, !x
	precCall           // x.y, x[y]
)

var precedences = map[TokenType]int{
	KWAND:    precKeywordBool,
	KWOR:     precKeywordBool,
	ASSIGN:   precAssign,
	OROR:     precOr,
	ANDAND:   precAnd,
	EQ:       precEquality,
	NOTEQ:    precEquality,
	LT:       precComparison,
	LTEQ:     precComparison,
	GT:       precComparison,
	GTEQ:     precComparison,
	PLUS:     precSum,
	MINUS:    precSum,
	LSHIFT:   precSum,
	STAR:     precProduct,
	SLASH:    precProduct,
	PERCENT:  precProduct,
	DOT:      precCall,
	LBRACKET: precCall,
}

// Parser builds the AST for one source unit. Use Parse; a Parser is not
// reusable.
type Parser struct {
	lx   *Lexer
	cur  Token
	peek Token
}

// Parse parses source and returns the program AST.
func Parse(source []byte) (*Program, error) {
	p := &Parser{lx: NewLexer(source)}
	if err := p.next(); err != nil {
		return nil, err
	}
	if err := p.next(); err != nil {
		return nil, err
	}
	prog := &Program{position: position{Line: 1}}
	stmts, err := p.parseStatements(EOF)
	if err != nil {
		return nil, err
	}
	prog.Stmts = stmts
	return prog, nil
}

func (p *Parser) next() error {
	p.cur = p.peek
	tok, err := p.lx.Next()
	if err != nil {
		return &SyntaxError{Line: p.lx.line, Message: err.Error()}
	}
	p.peek = tok
	return nil
}

func (p *Parser) errorf(format string, args ...interface{}) error {
	return &SyntaxError{Line: p.cur.Line, Message: fmt.Sprintf(format, args...)}
}

func (p *Parser) skipTerminators() error {
	for p.cur.Type == NEWLINE || p.cur.Type == SEMI {
		if err := p.next(); err != nil {
			return err
		}
	}
	return nil
}

func isBlockEnd(t TokenType) bool {
	switch t {
	case KWEND, KWELSE, KWELSIF, KWRESCUE, KWENSURE, EOF:
		return true
	}
	return false
}

// parseStatements parses until a block-ending keyword (left unconsumed).
func (p *Parser) parseStatements(until TokenType) ([]Node, error) {
	var stmts []Node
	for {
		if err := p.skipTerminators(); err != nil {
			return nil, err
		}
		if p.cur.Type == until || isBlockEnd(p.cur.Type) {
			return stmts, nil
		}
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, stmt)
		if p.cur.Type != NEWLINE && p.cur.Type != SEMI && p.cur.Type != until && !isBlockEnd(p.cur.Type) {
			return nil, p.errorf("unexpected %s", p.cur.Type)
		}
	}
}

func (p *Parser) parseStatement() (Node, error) {
	if p.cur.Type == IDENT && startsArgument(p.peek.Type) {
		// Command call: `puts "hi"`, `require "foo"`.
		return p.parseCommandCall()
	}
	return p.parseExpr(lowest)
}

func startsArgument(t TokenType) bool {
	switch t {
	case INT, FLOAT, STRING, SYMBOL, CONST, IDENT, KWTRUE, KWFALSE, KWNIL, LBRACKET:
		return true
	}
	return false
}

func (p *Parser) parseCommandCall() (Node, error) {
	call := &MethodCall{position: position{Line: p.cur.Line}, Name: p.cur.Literal}
	if err := p.next(); err != nil {
		return nil, err
	}
	args, err := p.parseExprList()
	if err != nil {
		return nil, err
	}
	call.Args = args
	return call, nil
}

func (p *Parser) parseExprList() ([]Node, error) {
	var args []Node
	for {
		arg, err := p.parseExpr(precAssign)
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
		if p.cur.Type != COMMA {
			return args, nil
		}
		if err := p.next(); err != nil {
			return nil, err
		}
	}
}

func (p *Parser) parseExpr(minPrec int) (Node, error) {
	left, err := p.parsePrefix()
	if err != nil {
		return nil, err
	}
	for {
		prec, ok := precedences[p.cur.Type]
		if !ok || prec <= minPrec {
			return left, nil
		}
		left, err = p.parseInfix(left)
		if err != nil {
			return nil, err
		}
	}
}

func (p *Parser) parsePrefix() (Node, error) {
	pos := position{Line: p.cur.Line}
	switch p.cur.Type {
	case INT:
		value, err := strconv.ParseInt(p.cur.Literal, 10, 64)
		if err != nil {
			return nil, p.errorf("integer literal out of range: %s", p.cur.Literal)
		}
		return &IntLit{position: pos, Value: value}, p.next()
	case FLOAT:
		value, err := strconv.ParseFloat(p.cur.Literal, 64)
		if err != nil {
			return nil, p.errorf("malformed float literal: %s", p.cur.Literal)
		}
		return &FloatLit{position: pos, Value: value}, p.next()
	case STRING:
		return &StringLit{position: pos, Value: []byte(p.cur.Literal)}, p.next()
	case SYMBOL:
		return &SymbolLit{position: pos, Name: p.cur.Literal}, p.next()
	case KWTRUE:
		return &BoolLit{position: pos, Value: true}, p.next()
	case KWFALSE:
		return &BoolLit{position: pos, Value: false}, p.next()
	case KWNIL:
		return &NilLit{position: pos}, p.next()
	case IDENT:
		name := p.cur.Literal
		if err := p.next(); err != nil {
			return nil, err
		}
		if p.cur.Type == LPAREN {
			args, err := p.parseParenArgs()
			if err != nil {
				return nil, err
			}
			return &MethodCall{position: pos, Name: name, Args: args}, nil
		}
		return &Ident{position: pos, Name: name}, nil
	case CONST:
		name := p.cur.Literal
		return &ConstRef{position: pos, Name: name}, p.next()
	case MINUS:
		if err := p.next(); err != nil {
			return nil, err
		}
		operand, err := p.parseExpr(precPrefix)
		if err != nil {
			return nil, err
		}
		return &MethodCall{position: pos, Recv: operand, Name: "-@"}, nil
	case BANG, KWNOT:
		if err := p.next(); err != nil {
			return nil, err
		}
		operand, err := p.parseExpr(precPrefix)
		if err != nil {
			return nil, err
		}
		return &Not{position: pos, Expr: operand}, nil
	case LPAREN:
		if err := p.next(); err != nil {
			return nil, err
		}
		if err := p.skipTerminators(); err != nil {
			return nil, err
		}
		expr, err := p.parseExpr(lowest)
		if err != nil {
			return nil, err
		}
		if err := p.skipTerminators(); err != nil {
			return nil, err
		}
		if p.cur.Type != RPAREN {
			return nil, p.errorf("expected ), got %s", p.cur.Type)
		}
		return expr, p.next()
	case LBRACKET:
		return p.parseArrayLit(pos)
	case LBRACE:
		return p.parseHashLit(pos)
	case KWIF:
		return p.parseIf(pos, false)
	case KWUNLESS:
		return p.parseIf(pos, true)
	case KWBEGIN:
		return p.parseBegin(pos)
	case KWRAISE:
		return p.parseRaise(pos)
	}
	return nil, p.errorf("unexpected %s", p.cur.Type)
}

func (p *Parser) parseInfix(left Node) (Node, error) {
	pos := position{Line: p.cur.Line}
	op := p.cur.Type
	prec := precedences[op]
	switch op {
	case ASSIGN:
		if err := p.next(); err != nil {
			return nil, err
		}
		value, err := p.parseExpr(precAssign - 1)
		if err != nil {
			return nil, err
		}
		switch target := left.(type) {
		case *Ident:
			return &Assign{position: pos, Name: target.Name, Value: value}, nil
		case *IndexGet:
			return &IndexSet{position: pos, Recv: target.Recv, Index: target.Index, Value: value}, nil
		default:
			return nil, p.errorf("cannot assign to this expression")
		}
	case ANDAND, KWAND:
		if err := p.next(); err != nil {
			return nil, err
		}
		right, err := p.parseExpr(prec)
		if err != nil {
			return nil, err
		}
		return &And{position: pos, Left: left, Right: right}, nil
	case OROR, KWOR:
		if err := p.next(); err != nil {
			return nil, err
		}
		right, err := p.parseExpr(prec)
		if err != nil {
			return nil, err
		}
		return &Or{position: pos, Left: left, Right: right}, nil
	case NOTEQ:
		if err := p.next(); err != nil {
			return nil, err
		}
		right, err := p.parseExpr(prec)
		if err != nil {
			return nil, err
		}
		eq := &MethodCall{position: pos, Recv: left, Name: "==", Args: []Node{right}}
		return &Not{position: pos, Expr: eq}, nil
	case EQ, LT, LTEQ, GT, GTEQ, PLUS, MINUS, STAR, SLASH, PERCENT, LSHIFT:
		if err := p.next(); err != nil {
			return nil, err
		}
		right, err := p.parseExpr(prec)
		if err != nil {
			return nil, err
		}
		return &MethodCall{position: pos, Recv: left, Name: string(op), Args: []Node{right}}, nil
	case DOT:
		if err := p.next(); err != nil {
			return nil, err
		}
		if p.cur.Type != IDENT && p.cur.Type != CONST {
			return nil, p.errorf("expected method name after '.', got %s", p.cur.Type)
		}
		name := p.cur.Literal
		if err := p.next(); err != nil {
			return nil, err
		}
		call := &MethodCall{position: pos, Recv: left, Name: name}
		if p.cur.Type == LPAREN {
			args, err := p.parseParenArgs()
			if err != nil {
				return nil, err
			}
			call.Args = args
		}
		return call, nil
	case LBRACKET:
		if err := p.next(); err != nil {
			return nil, err
		}
		index, err := p.parseExpr(lowest)
		if err != nil {
			return nil, err
		}
		if p.cur.Type != RBRACKET {
			return nil, p.errorf("expected ], got %s", p.cur.Type)
		}
		if err := p.next(); err != nil {
			return nil, err
		}
		return &IndexGet{position: pos, Recv: left, Index: index}, nil
	}
	return nil, p.errorf("unexpected %s", op)
}

func (p *Parser) parseParenArgs() ([]Node, error) {
	// Caller positioned on '('.
	if err := p.next(); err != nil {
		return nil, err
	}
	if err := p.skipTerminators(); err != nil {
		return nil, err
	}
	var args []Node
	for p.cur.Type != RPAREN {
		arg, err := p.parseExpr(lowest)
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
		if err := p.skipTerminators(); err != nil {
			return nil, err
		}
		if p.cur.Type == COMMA {
			if err := p.next(); err != nil {
				return nil, err
			}
			if err := p.skipTerminators(); err != nil {
				return nil, err
			}
		}
	}
	return args, p.next()
}

func (p *Parser) parseArrayLit(pos position) (Node, error) {
	if err := p.next(); err != nil {
		return nil, err
	}
	if err := p.skipTerminators(); err != nil {
		return nil, err
	}
	lit := &ArrayLit{position: pos}
	for p.cur.Type != RBRACKET {
		item, err := p.parseExpr(lowest)
		if err != nil {
			return nil, err
		}
		lit.Items = append(lit.Items, item)
		if err := p.skipTerminators(); err != nil {
			return nil, err
		}
		if p.cur.Type == COMMA {
			if err := p.next(); err != nil {
				return nil, err
			}
			if err := p.skipTerminators(); err != nil {
				return nil, err
			}
		}
	}
	return lit, p.next()
}

func (p *Parser) parseHashLit(pos position) (Node, error) {
	if err := p.next(); err != nil {
		return nil, err
	}
	if err := p.skipTerminators(); err != nil {
		return nil, err
	}
	lit := &HashLit{position: pos}
	for p.cur.Type != RBRACE {
		key, err := p.parseExpr(lowest)
		if err != nil {
			return nil, err
		}
		if p.cur.Type != ARROW {
			return nil, p.errorf("expected => in hash literal, got %s", p.cur.Type)
		}
		if err := p.next(); err != nil {
			return nil, err
		}
		value, err := p.parseExpr(lowest)
		if err != nil {
			return nil, err
		}
		lit.Entries = append(lit.Entries, HashEntry{Key: key, Value: value})
		if err := p.skipTerminators(); err != nil {
			return nil, err
		}
		if p.cur.Type == COMMA {
			if err := p.next(); err != nil {
				return nil, err
			}
			if err := p.skipTerminators(); err != nil {
				return nil, err
			}
		}
	}
	return lit, p.next()
}

func (p *Parser) parseIf(pos position, negate bool) (Node, error) {
	if err := p.next(); err != nil {
		return nil, err
	}
	cond, err := p.parseExpr(lowest)
	if err != nil {
		return nil, err
	}
	if negate {
		cond = &Not{position: pos, Expr: cond}
	}
	if p.cur.Type == KWTHEN {
		if err := p.next(); err != nil {
			return nil, err
		}
	}
	then, err := p.parseStatements(KWEND)
	if err != nil {
		return nil, err
	}
	node := &If{position: pos, Cond: cond, Then: then}
	switch p.cur.Type {
	case KWELSIF:
		nested, err := p.parseIf(position{Line: p.cur.Line}, false)
		if err != nil {
			return nil, err
		}
		node.Else = []Node{nested}
		return node, nil
	case KWELSE:
		if err := p.next(); err != nil {
			return nil, err
		}
		elseBody, err := p.parseStatements(KWEND)
		if err != nil {
			return nil, err
		}
		node.Else = elseBody
	}
	if p.cur.Type != KWEND {
		return nil, p.errorf("expected end, got %s", p.cur.Type)
	}
	return node, p.next()
}

func (p *Parser) parseRaise(pos position) (Node, error) {
	if err := p.next(); err != nil {
		return nil, err
	}
	node := &Raise{position: pos}
	if p.cur.Type == NEWLINE || p.cur.Type == SEMI || isBlockEnd(p.cur.Type) {
		return node, nil
	}
	args, err := p.parseExprList()
	if err != nil {
		return nil, err
	}
	if len(args) > 2 {
		return nil, p.errorf("wrong number of arguments to raise")
	}
	node.Args = args
	return node, nil
}

func (p *Parser) parseBegin(pos position) (Node, error) {
	if err := p.next(); err != nil {
		return nil, err
	}
	body, err := p.parseStatements(KWEND)
	if err != nil {
		return nil, err
	}
	node := &Begin{position: pos, Body: body}
	for p.cur.Type == KWRESCUE {
		clause, err := p.parseRescueClause()
		if err != nil {
			return nil, err
		}
		node.Rescues = append(node.Rescues, clause)
	}
	if p.cur.Type == KWELSE {
		if err := p.next(); err != nil {
			return nil, err
		}
		elseBody, err := p.parseStatements(KWEND)
		if err != nil {
			return nil, err
		}
		node.Else = elseBody
	}
	if p.cur.Type == KWENSURE {
		if err := p.next(); err != nil {
			return nil, err
		}
		ensureBody, err := p.parseStatements(KWEND)
		if err != nil {
			return nil, err
		}
		node.Ensure = ensureBody
	}
	if p.cur.Type != KWEND {
		return nil, p.errorf("expected end, got %s", p.cur.Type)
	}
	return node, p.next()
}

func (p *Parser) parseRescueClause() (RescueClause, error) {
	clause := RescueClause{position: position{Line: p.cur.Line}}
	if err := p.next(); err != nil {
		return clause, err
	}
	for p.cur.Type == CONST {
		clause.Classes = append(clause.Classes,
			&ConstRef{position: position{Line: p.cur.Line}, Name: p.cur.Literal})
		if err := p.next(); err != nil {
			return clause, err
		}
		if p.cur.Type == COMMA {
			if err := p.next(); err != nil {
				return clause, err
			}
		}
	}
	if p.cur.Type == ARROW {
		if err := p.next(); err != nil {
			return clause, err
		}
		if p.cur.Type != IDENT {
			return clause, p.errorf("expected variable name after =>, got %s", p.cur.Type)
		}
		clause.Var = p.cur.Literal
		if err := p.next(); err != nil {
			return clause, err
		}
	}
	if p.cur.Type == KWTHEN {
		if err := p.next(); err != nil {
			return clause, err
		}
	}
	body, err := p.parseStatements(KWEND)
	if err != nil {
		return clause, err
	}
	clause.Body = body
	return clause, nil
}
