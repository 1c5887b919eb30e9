// Package ruby lexes and parses the Ruby subset accepted by Machine.Eval:
// literals, local variables, assignment, method calls, operators, if/unless,
// raise, and begin/rescue/else/ensure/end. The machine executes the AST
// directly; there is no bytecode stage.
package ruby

// TokenType describes the type of a token as a string.
type TokenType string

const (
	EOF     TokenType = "EOF"
	NEWLINE TokenType = "NEWLINE"
	ILLEGAL TokenType = "ILLEGAL"

	IDENT  TokenType = "IDENT"
	CONST  TokenType = "CONST"
	INT    TokenType = "INT"
	FLOAT  TokenType = "FLOAT"
	STRING TokenType = "STRING"
	SYMBOL TokenType = "SYMBOL"

	ASSIGN   TokenType = "="
	PLUS     TokenType = "+"
	MINUS    TokenType = "-"
	STAR     TokenType = "*"
	SLASH    TokenType = "/"
	PERCENT  TokenType = "%"
	EQ       TokenType = "=="
	NOTEQ    TokenType = "!="
	LT       TokenType = "<"
	LTEQ     TokenType = "<="
	GT       TokenType = ">"
	GTEQ     TokenType = ">="
	ANDAND   TokenType = "&&"
	OROR     TokenType = "||"
	BANG     TokenType = "!"
	DOT      TokenType = "."
	COMMA    TokenType = ","
	SEMI     TokenType = ";"
	LPAREN   TokenType = "("
	RPAREN   TokenType = ")"
	LBRACKET TokenType = "["
	RBRACKET TokenType = "]"
	LBRACE   TokenType = "{"
	RBRACE   TokenType = "}"
	ARROW    TokenType = "=>"
	LSHIFT   TokenType = "<<"

	KWBEGIN  TokenType = "begin"
	KWRESCUE TokenType = "rescue"
	KWELSE   TokenType = "else"
	KWELSIF  TokenType = "elsif"
	KWENSURE TokenType = "ensure"
	KWEND    TokenType = "end"
	KWIF     TokenType = "if"
	KWUNLESS TokenType = "unless"
	KWTHEN   TokenType = "then"
	KWTRUE   TokenType = "true"
	KWFALSE  TokenType = "false"
	KWNIL    TokenType = "nil"
	KWRAISE  TokenType = "raise"
	KWNOT    TokenType = "not"
	KWAND    TokenType = "and"
	KWOR     TokenType = "or"
)

var keywords = map[string]TokenType{
	"begin":  KWBEGIN,
	"rescue": KWRESCUE,
	"else":   KWELSE,
	"elsif":  KWELSIF,
	"ensure": KWENSURE,
	"end":    KWEND,
	"if":     KWIF,
	"unless": KWUNLESS,
	"then":   KWTHEN,
	"true":   KWTRUE,
	"false":  KWFALSE,
	"nil":    KWNIL,
	"raise":  KWRAISE,
	"not":    KWNOT,
	"and":    KWAND,
	"or":     KWOR,
}

// Token is one token lexed from the input source.
type Token struct {
	Type    TokenType
	Literal string
	Line    int // 1-based
}
