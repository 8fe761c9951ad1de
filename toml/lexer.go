package toml

import (
	"strconv"
	"strings"
	"unicode/utf8"
)

var punctuation = map[rune]TokenType{
	'\n': TokenNewline,
	'=':  TokenEqual,
	'.':  TokenDot,
	',':  TokenComma,
	'[':  TokenLBracket,
	']':  TokenRBracket,
	'{':  TokenLBrace,
	'}':  TokenRBrace,
}

// Lexer splits input into tokens, comments and blank space are dropped
type Lexer struct {
	input []byte
	pos   int
	line  int
	col   int
}

func NewLexer(input []byte) *Lexer {
	return &Lexer{input: input, line: 1, col: 1}
}

// Tokenize lexes the whole input, the last token is always TokenEOF
func Tokenize(input []byte) ([]Token, error) {
	l := NewLexer(input)
	var toks []Token
	for {
		tok, err := l.Next()
		if err != nil {
			return nil, err
		}
		toks = append(toks, tok)
		if tok.Type == TokenEOF {
			return toks, nil
		}
	}
}

func (l *Lexer) here() Position { return Position{Line: l.line, Col: l.col} }

func (l *Lexer) peek() rune {
	if l.pos >= len(l.input) {
		return 0
	}
	r, _ := utf8.DecodeRune(l.input[l.pos:])
	return r
}

func (l *Lexer) advance() rune {
	if l.pos >= len(l.input) {
		return 0
	}
	r, w := utf8.DecodeRune(l.input[l.pos:])
	l.pos += w
	if r == '\n' {
		l.line++
		l.col = 1
	} else {
		l.col++
	}
	return r
}

// Next returns the next token
func (l *Lexer) Next() (Token, error) {
	for {
		switch l.peek() {
		case ' ', '\t', '\r':
			l.advance()
			continue
		case '#':
			for l.pos < len(l.input) && l.peek() != '\n' {
				l.advance()
			}
			continue
		}
		break
	}

	start := l.here()
	if l.pos >= len(l.input) {
		return Token{Type: TokenEOF, Pos: start}, nil
	}

	ch := l.peek()
	if typ, ok := punctuation[ch]; ok {
		l.advance()
		return Token{Type: typ, Literal: string(ch), Pos: start}, nil
	}

	switch {
	case ch == '"':
		return l.basicString(start)
	case ch == '\'':
		return l.literalString(start)
	case isWordRune(ch) || ch == '+':
		return l.word(start)
	}
	return Token{}, errorAt(start, "unexpected character %q", ch)
}

func (l *Lexer) basicString(start Position) (Token, error) {
	if strings.HasPrefix(string(l.input[l.pos:]), `"""`) {
		return Token{}, errorAt(start, "multi-line strings are not supported")
	}
	begin := l.pos
	l.advance()
	escaped := false
	for l.pos < len(l.input) {
		ch := l.advance()
		switch {
		case ch == '\n':
			return Token{}, errorAt(start, "newline in string")
		case escaped:
			escaped = false
		case ch == '\\':
			escaped = true
		case ch == '"':
			raw := string(l.input[begin:l.pos])
			s, err := strconv.Unquote(raw)
			if err != nil {
				return Token{}, errorAt(start, "invalid escape in %s", raw)
			}
			return Token{Type: TokenString, Literal: s, Pos: start}, nil
		}
	}
	return Token{}, errorAt(start, "unterminated string")
}

func (l *Lexer) literalString(start Position) (Token, error) {
	l.advance()
	begin := l.pos
	for l.pos < len(l.input) {
		switch l.peek() {
		case '\n':
			return Token{}, errorAt(start, "newline in string")
		case '\'':
			s := string(l.input[begin:l.pos])
			l.advance()
			return Token{Type: TokenString, Literal: s, Pos: start}, nil
		}
		l.advance()
	}
	return Token{}, errorAt(start, "unterminated string")
}

// word reads a bare key or scalar, dots only continue a word that started like a number
func (l *Lexer) word(start Position) (Token, error) {
	begin := l.pos
	first := l.peek()
	numeric := isDigit(first) || first == '+' || first == '-'
	for l.pos < len(l.input) {
		ch := l.peek()
		if isWordRune(ch) || ch == '+' || (numeric && ch == '.') {
			l.advance()
			continue
		}
		break
	}
	lit := string(l.input[begin:l.pos])

	if lit == "true" || lit == "false" {
		return Token{Type: TokenBool, Literal: lit, Pos: start}, nil
	}
	if numeric {
		clean := strings.ReplaceAll(lit, "_", "")
		if _, err := parseInt(clean); err == nil {
			return Token{Type: TokenInteger, Literal: clean, Pos: start}, nil
		}
		if _, err := strconv.ParseFloat(clean, 64); err == nil && !strings.HasPrefix(clean, "0x") {
			return Token{Type: TokenFloat, Literal: clean, Pos: start}, nil
		}
	}
	if strings.ContainsAny(lit, ".+") {
		return Token{}, errorAt(start, "malformed value %q", lit)
	}
	return Token{Type: TokenBare, Literal: lit, Pos: start}, nil
}

// parseInt accepts decimal and 0x/0o/0b prefixed integers, a bare leading zero stays decimal
func parseInt(s string) (int64, error) {
	body := strings.TrimLeft(s, "+-")
	if len(body) > 1 && body[0] == '0' && strings.ContainsRune("xXoObB", rune(body[1])) {
		return strconv.ParseInt(s, 0, 64)
	}
	return strconv.ParseInt(s, 10, 64)
}

func isDigit(r rune) bool { return r >= '0' && r <= '9' }

func isWordRune(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || isDigit(r) || r == '_' || r == '-'
}
