package toml

import "fmt"

// TokenType is the lexical class of a token
type TokenType int

const (
	TokenEOF TokenType = iota
	TokenNewline

	TokenBare    // bare key or word
	TokenString  // "basic" or 'literal'
	TokenInteger // 42, 0x2a, 1_000
	TokenFloat   // 1.5, 2e3
	TokenBool    // true, false

	TokenEqual    // =
	TokenDot      // .
	TokenComma    // ,
	TokenLBracket // [
	TokenRBracket // ]
	TokenLBrace   // {
	TokenRBrace   // }
)

// Position is a 1-based source location
type Position struct {
	Line int
	Col  int
}

// Token is one lexeme with its decoded text
type Token struct {
	Type    TokenType
	Literal string
	Pos     Position
}

func (t Token) String() string {
	switch t.Type {
	case TokenEOF:
		return "end of input"
	case TokenNewline:
		return "newline"
	case TokenString:
		return fmt.Sprintf("string %q", t.Literal)
	}
	if len(t.Literal) > 20 {
		return fmt.Sprintf("%q...", t.Literal[:20])
	}
	return fmt.Sprintf("%q", t.Literal)
}

// ParseError reports malformed input with its location
type ParseError struct {
	Pos Position
	Msg string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("toml: line %d col %d: %s", e.Pos.Line, e.Pos.Col, e.Msg)
}

func errorAt(pos Position, format string, args ...any) *ParseError {
	return &ParseError{Pos: pos, Msg: fmt.Sprintf(format, args...)}
}
