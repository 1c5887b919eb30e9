package ruby

import (
	"fmt"
	"strings"
)

// Lexer tokenizes source bytes. Create one with NewLexer and call Next until
// it returns an EOF token.
type Lexer struct {
	input string
	pos   int
	line  int
}

func NewLexer(input []byte) *Lexer {
	return &Lexer{input: string(input), line: 1}
}

func (l *Lexer) peek() byte {
	if l.pos >= len(l.input) {
		return 0
	}
	return l.input[l.pos]
}

func (l *Lexer) peekAt(offset int) byte {
	if l.pos+offset >= len(l.input) {
		return 0
	}
	return l.input[l.pos+offset]
}

func (l *Lexer) advance() byte {
	ch := l.peek()
	l.pos++
	return ch
}

func (l *Lexer) skipSpacesAndComments() {
	for l.pos < len(l.input) {
		switch l.peek() {
		case ' ', '\t', '\r':
			l.pos++
		case '#':
			for l.pos < len(l.input) && l.peek() != '\n' {
				l.pos++
			}
		case '\\':
			// A backslash at end of line continues the logical line.
			if l.peekAt(1) == '\n' {
				l.pos += 2
				l.line++
			} else {
				return
			}
		default:
			return
		}
	}
}

func (l *Lexer) token(t TokenType, literal string) Token {
	return Token{Type: t, Literal: literal, Line: l.line}
}

// Next returns the next token.
func (l *Lexer) Next() (Token, error) {
	l.skipSpacesAndComments()
	if l.pos >= len(l.input) {
		return l.token(EOF, ""), nil
	}
	ch := l.peek()
	switch {
	case ch == '\n':
		tok := l.token(NEWLINE, "\n")
		l.pos++
		l.line++
		return tok, nil
	case isDigit(ch):
		return l.readNumber()
	case isLower(ch) || ch == '_':
		return l.readName()
	case isUpper(ch):
		return l.readConst()
	case ch == '"' || ch == '\'':
		return l.readString()
	case ch == ':' && (isLetter(l.peekAt(1)) || l.peekAt(1) == '_'):
		return l.readSymbol()
	}

	two := ""
	if l.pos+1 < len(l.input) {
		two = l.input[l.pos : l.pos+2]
	}
	switch two {
	case "==", "!=", "<=", ">=", "&&", "||", "=>", "<<":
		l.pos += 2
		return l.token(TokenType(two), two), nil
	}

	l.pos++
	switch ch {
	case '=', '+', '-', '*', '/', '%', '<', '>', '!', '.', ',', ';', '(', ')', '[', ']', '{', '}':
		return l.token(TokenType(string(ch)), string(ch)), nil
	}
	return l.token(ILLEGAL, string(ch)), fmt.Errorf("unexpected character %q on line %d", ch, l.line)
}

func (l *Lexer) readNumber() (Token, error) {
	start := l.pos
	for isDigit(l.peek()) || l.peek() == '_' {
		l.pos++
	}
	isFloat := false
	if l.peek() == '.' && isDigit(l.peekAt(1)) {
		isFloat = true
		l.pos++
		for isDigit(l.peek()) || l.peek() == '_' {
			l.pos++
		}
	}
	literal := strings.ReplaceAll(l.input[start:l.pos], "_", "")
	if isFloat {
		return l.token(FLOAT, literal), nil
	}
	return l.token(INT, literal), nil
}

func (l *Lexer) readName() (Token, error) {
	start := l.pos
	for isLetter(l.peek()) || isDigit(l.peek()) || l.peek() == '_' {
		l.pos++
	}
	// Trailing ? and ! are part of Ruby method names.
	if l.peek() == '?' || l.peek() == '!' {
		// "!" followed by "=" is the != operator, not part of the name.
		if !(l.peek() == '!' && l.peekAt(1) == '=') {
			l.pos++
		}
	}
	name := l.input[start:l.pos]
	if kw, ok := keywords[name]; ok {
		return l.token(kw, name), nil
	}
	return l.token(IDENT, name), nil
}

func (l *Lexer) readConst() (Token, error) {
	start := l.pos
	for isLetter(l.peek()) || isDigit(l.peek()) || l.peek() == '_' {
		l.pos++
	}
	return l.token(CONST, l.input[start:l.pos]), nil
}

func (l *Lexer) readSymbol() (Token, error) {
	l.pos++ // consume ':'
	start := l.pos
	for isLetter(l.peek()) || isDigit(l.peek()) || l.peek() == '_' {
		l.pos++
	}
	if l.peek() == '?' || l.peek() == '!' {
		l.pos++
	}
	return l.token(SYMBOL, l.input[start:l.pos]), nil
}

func (l *Lexer) readString() (Token, error) {
	quote := l.advance()
	var sb strings.Builder
	for {
		if l.pos >= len(l.input) {
			return l.token(ILLEGAL, sb.String()), fmt.Errorf("unterminated string on line %d", l.line)
		}
		ch := l.advance()
		if ch == quote {
			break
		}
		if ch == '\n' {
			l.line++
			sb.WriteByte(ch)
			continue
		}
		if ch == '\\' && quote == '"' {
			esc := l.advance()
			switch esc {
			case 'n':
				sb.WriteByte('\n')
			case 't':
				sb.WriteByte('\t')
			case 'r':
				sb.WriteByte('\r')
			case '0':
				sb.WriteByte(0)
			case '\\', '"':
				sb.WriteByte(esc)
			case 'e':
				sb.WriteByte(0x1b)
			case 'x':
				// One or two hex digits produce a raw byte.
				var v byte
				n := 0
				for n < 2 && isHexDigit(l.peek()) {
					v = v<<4 | hexValue(l.advance())
					n++
				}
				if n == 0 {
					sb.WriteByte('\\')
					sb.WriteByte('x')
				} else {
					sb.WriteByte(v)
				}
			default:
				sb.WriteByte('\\')
				sb.WriteByte(esc)
			}
			continue
		}
		if ch == '\\' && quote == '\'' && (l.peek() == '\'' || l.peek() == '\\') {
			sb.WriteByte(l.advance())
			continue
		}
		sb.WriteByte(ch)
	}
	return l.token(STRING, sb.String()), nil
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

func isHexDigit(ch byte) bool {
	return isDigit(ch) || (ch >= 'a' && ch <= 'f') || (ch >= 'A' && ch <= 'F')
}

func hexValue(ch byte) byte {
	switch {
	case isDigit(ch):
		return ch - '0'
	case ch >= 'a' && ch <= 'f':
		return ch - 'a' + 10
	default:
		return ch - 'A' + 10
	}
}

func isLower(ch byte) bool {
	return ch >= 'a' && ch <= 'z'
}

func isUpper(ch byte) bool {
	return ch >= 'A' && ch <= 'Z'
}

func isLetter(ch byte) bool {
	return isLower(ch) || isUpper(ch)
}
