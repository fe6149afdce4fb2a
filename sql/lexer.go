package sql

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Lexer tokenizes query strings
type Lexer struct {
	input string
	pos   int // position of ch
	next  int // position after ch
	ch    rune
}

// NewLexer creates a new lexer
func NewLexer(input string) *Lexer {
	l := &Lexer{input: input}
	l.readChar()
	return l
}

func (l *Lexer) readChar() {
	l.pos = l.next
	if l.next >= len(l.input) {
		l.ch = 0
		return
	}
	r, width := utf8.DecodeRuneInString(l.input[l.next:])
	l.ch = r
	l.next += width
}

func (l *Lexer) peekChar() rune {
	if l.next >= len(l.input) {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(l.input[l.next:])
	return r
}

func (l *Lexer) skipWhitespace() {
	for unicode.IsSpace(l.ch) {
		l.readChar()
	}
}

// readQuoted reads a string delimited by quote. A doubled quote, or one
// escaped by a backslash, stands for the quote itself.
func (l *Lexer) readQuoted(quote rune) (string, bool) {
	var result strings.Builder
	l.readChar() // skip opening quote
	for {
		switch {
		case l.ch == 0 && l.pos >= len(l.input):
			return result.String(), false
		case l.ch == '\\' && quote != '`':
			l.readChar()
			switch l.ch {
			case 'n':
				result.WriteRune('\n')
			case 't':
				result.WriteRune('\t')
			default:
				result.WriteRune(l.ch)
			}
		case l.ch == quote:
			if l.peekChar() != quote {
				l.readChar() // skip closing quote
				return result.String(), true
			}
			l.readChar()
			result.WriteRune(quote)
		default:
			result.WriteRune(l.ch)
		}
		l.readChar()
	}
}

func (l *Lexer) readNumber() string {
	start := l.pos
	for unicode.IsDigit(l.ch) || l.ch == '.' {
		l.readChar()
	}
	if l.ch == 'e' || l.ch == 'E' {
		l.readChar()
		if l.ch == '+' || l.ch == '-' {
			l.readChar()
		}
		for unicode.IsDigit(l.ch) {
			l.readChar()
		}
	}
	return l.input[start:l.pos]
}

func (l *Lexer) readIdentifier() string {
	start := l.pos
	for unicode.IsLetter(l.ch) || unicode.IsDigit(l.ch) || l.ch == '_' || l.ch == '.' {
		l.readChar()
	}
	return l.input[start:l.pos]
}

// NextToken returns the next token
func (l *Lexer) NextToken() Token {
	l.skipWhitespace()
	pos := l.pos
	single := func(t TokenType) Token {
		tok := Token{Type: t, Value: string(l.ch), Pos: pos}
		l.readChar()
		return tok
	}

	switch l.ch {
	case 0:
		if l.pos >= len(l.input) {
			return Token{Type: TokenEOF, Pos: pos}
		}
		return single(TokenError)
	case '=':
		return single(TokenEqual)
	case '!':
		if l.peekChar() == '=' {
			l.readChar()
			l.readChar()
			return Token{Type: TokenNotEqual, Value: "!=", Pos: pos}
		}
		return single(TokenError)
	case '<':
		switch l.peekChar() {
		case '=':
			l.readChar()
			l.readChar()
			return Token{Type: TokenLessEqual, Value: "<=", Pos: pos}
		case '>':
			l.readChar()
			l.readChar()
			return Token{Type: TokenNotEqual, Value: "<>", Pos: pos}
		}
		return single(TokenLess)
	case '>':
		if l.peekChar() == '=' {
			l.readChar()
			l.readChar()
			return Token{Type: TokenGreaterEqual, Value: ">=", Pos: pos}
		}
		return single(TokenGreater)
	case '+':
		return single(TokenPlus)
	case '-':
		return single(TokenMinus)
	case '*':
		return single(TokenStar)
	case '/':
		return single(TokenSlash)
	case '%':
		return single(TokenPercent)
	case ',':
		return single(TokenComma)
	case '(':
		return single(TokenLeftParen)
	case ')':
		return single(TokenRightParen)
	case '\'', '"':
		value, ok := l.readQuoted(l.ch)
		if !ok {
			return Token{Type: TokenError, Value: "unterminated string", Pos: pos}
		}
		return Token{Type: TokenString, Value: value, Pos: pos}
	case '`':
		value, ok := l.readQuoted('`')
		if !ok {
			return Token{Type: TokenError, Value: "unterminated identifier", Pos: pos}
		}
		return Token{Type: TokenIdent, Value: value, Pos: pos}
	}
	if unicode.IsDigit(l.ch) || (l.ch == '.' && unicode.IsDigit(l.peekChar())) {
		return Token{Type: TokenNumber, Value: l.readNumber(), Pos: pos}
	} else if unicode.IsLetter(l.ch) || l.ch == '_' {
		value := l.readIdentifier()
		return Token{Type: identifierType(value), Value: value, Pos: pos}
	}
	return single(TokenError)
}

// Tokenize returns all tokens from the input, ending with an EOF or error token
func Tokenize(input string) []Token {
	lexer := NewLexer(input)
	var tokens []Token
	for {
		tok := lexer.NextToken()
		tokens = append(tokens, tok)
		if tok.Type == TokenEOF || tok.Type == TokenError {
			return tokens
		}
	}
}
