package toml

import (
	"strconv"
	"strings"
)

// Parser builds a generic document from tokens
// Tables are map[string]any, arrays of tables are []map[string]any, arrays are []any
type Parser struct {
	toks []Token
	i    int
	root map[string]any
	cur  map[string]any
	// Explicitly declared [table] paths, redeclaration is an error
	declared map[string]bool
}

// Parse lexes and parses a TOML document
func Parse(data []byte) (map[string]any, error) {
	toks, err := Tokenize(data)
	if err != nil {
		return nil, err
	}
	root := make(map[string]any)
	p := &Parser{toks: toks, root: root, cur: root, declared: make(map[string]bool)}
	if err := p.document(); err != nil {
		return nil, err
	}
	return root, nil
}

func (p *Parser) tok() Token { return p.toks[p.i] }

func (p *Parser) next() Token {
	t := p.toks[p.i]
	if t.Type != TokenEOF {
		p.i++
	}
	return t
}

func (p *Parser) expect(typ TokenType, what string) (Token, error) {
	t := p.tok()
	if t.Type != typ {
		return t, errorAt(t.Pos, "expected %s, got %s", what, t)
	}
	return p.next(), nil
}

func (p *Parser) skipNewlines() {
	for p.tok().Type == TokenNewline {
		p.next()
	}
}

func (p *Parser) document() error {
	for {
		p.skipNewlines()
		t := p.tok()
		switch t.Type {
		case TokenEOF:
			return nil
		case TokenLBracket:
			if err := p.header(); err != nil {
				return err
			}
		default:
			if err := p.keyValue(p.cur); err != nil {
				return err
			}
		}
		// Statement must end the line
		if t := p.tok(); t.Type != TokenNewline && t.Type != TokenEOF {
			return errorAt(t.Pos, "expected end of line, got %s", t)
		}
	}
}

// header parses [a.b] or [[a.b]] and moves the cursor
func (p *Parser) header() error {
	open := p.next()
	array := false
	// [[ must be adjacent to count as an array-of-tables header
	if p.tok().Type == TokenLBracket && p.tok().Pos.Col == open.Pos.Col+1 && p.tok().Pos.Line == open.Pos.Line {
		p.next()
		array = true
	}

	keys, err := p.key()
	if err != nil {
		return err
	}
	if _, err := p.expect(TokenRBracket, "']'"); err != nil {
		return err
	}
	if array {
		if _, err := p.expect(TokenRBracket, "']]'"); err != nil {
			return err
		}
	}

	parent, err := p.walk(p.root, keys[:len(keys)-1], open.Pos)
	if err != nil {
		return err
	}
	last := keys[len(keys)-1]
	path := strings.Join(keys, ".")

	if array {
		var list []map[string]any
		switch existing := parent[last].(type) {
		case nil:
		case []map[string]any:
			list = existing
		default:
			return errorAt(open.Pos, "%s is already defined as a non-array", path)
		}
		table := make(map[string]any)
		parent[last] = append(list, table)
		p.cur = table
		// Sub-tables of the previous element may be declared again
		for d := range p.declared {
			if strings.HasPrefix(d, path+".") {
				delete(p.declared, d)
			}
		}
		return nil
	}

	if p.declared[path] {
		return errorAt(open.Pos, "table %s defined twice", path)
	}
	p.declared[path] = true
	switch existing := parent[last].(type) {
	case nil:
		table := make(map[string]any)
		parent[last] = table
		p.cur = table
	case map[string]any:
		p.cur = existing
	default:
		return errorAt(open.Pos, "%s is already defined as a value", path)
	}
	return nil
}

// walk descends through intermediate keys, creating tables and entering the last element of table arrays
func (p *Parser) walk(from map[string]any, keys []string, pos Position) (map[string]any, error) {
	m := from
	for _, k := range keys {
		switch v := m[k].(type) {
		case nil:
			child := make(map[string]any)
			m[k] = child
			m = child
		case map[string]any:
			m = v
		case []map[string]any:
			if len(v) == 0 {
				return nil, errorAt(pos, "empty table array %s", k)
			}
			m = v[len(v)-1]
		default:
			return nil, errorAt(pos, "key %s is not a table", k)
		}
	}
	return m, nil
}

// key parses a possibly dotted key
func (p *Parser) key() ([]string, error) {
	var parts []string
	for {
		t := p.tok()
		switch t.Type {
		case TokenBare, TokenString, TokenInteger, TokenBool:
			parts = append(parts, t.Literal)
			p.next()
		default:
			return nil, errorAt(t.Pos, "expected key, got %s", t)
		}
		if p.tok().Type != TokenDot {
			return parts, nil
		}
		p.next()
	}
}

func (p *Parser) keyValue(into map[string]any) error {
	start := p.tok().Pos
	keys, err := p.key()
	if err != nil {
		return err
	}
	if _, err := p.expect(TokenEqual, "'='"); err != nil {
		return err
	}
	val, err := p.value()
	if err != nil {
		return err
	}
	parent, err := p.walk(into, keys[:len(keys)-1], start)
	if err != nil {
		return err
	}
	last := keys[len(keys)-1]
	if _, exists := parent[last]; exists {
		return errorAt(start, "duplicate key %s", strings.Join(keys, "."))
	}
	parent[last] = val
	return nil
}

func (p *Parser) value() (any, error) {
	t := p.tok()
	switch t.Type {
	case TokenString:
		p.next()
		return t.Literal, nil
	case TokenBool:
		p.next()
		return t.Literal == "true", nil
	case TokenInteger:
		p.next()
		n, err := parseInt(t.Literal)
		if err != nil {
			return nil, errorAt(t.Pos, "integer %s: %v", t.Literal, err)
		}
		return n, nil
	case TokenFloat:
		p.next()
		f, err := strconv.ParseFloat(t.Literal, 64)
		if err != nil {
			return nil, errorAt(t.Pos, "float %s: %v", t.Literal, err)
		}
		return f, nil
	case TokenBare:
		// inf and nan are valid float words without a sign
		switch t.Literal {
		case "inf", "nan":
			p.next()
			f, _ := strconv.ParseFloat(t.Literal, 64)
			return f, nil
		}
	case TokenLBracket:
		return p.array()
	case TokenLBrace:
		return p.inlineTable()
	}
	return nil, errorAt(t.Pos, "expected value, got %s", t)
}

func (p *Parser) array() ([]any, error) {
	p.next()
	out := make([]any, 0)
	for {
		p.skipNewlines()
		if p.tok().Type == TokenRBracket {
			p.next()
			return out, nil
		}
		v, err := p.value()
		if err != nil {
			return nil, err
		}
		out = append(out, v)
		p.skipNewlines()
		switch t := p.tok(); t.Type {
		case TokenComma:
			p.next()
		case TokenRBracket:
		default:
			return nil, errorAt(t.Pos, "expected ',' or ']' in array, got %s", t)
		}
	}
}

func (p *Parser) inlineTable() (map[string]any, error) {
	p.next()
	out := make(map[string]any)
	if p.tok().Type == TokenRBrace {
		p.next()
		return out, nil
	}
	for {
		if err := p.keyValue(out); err != nil {
			return nil, err
		}
		switch t := p.next(); t.Type {
		case TokenComma:
		case TokenRBrace:
			return out, nil
		default:
			return nil, errorAt(t.Pos, "expected ',' or '}' in inline table, got %s", t)
		}
	}
}
