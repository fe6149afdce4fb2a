package sql

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/go-sif/tabula/errors"
)

// Query is a parsed SELECT statement
type Query struct {
	Distinct bool
	Items    []SelectItem
	From     string
	Where    Node
	OrderBy  []OrderItem
	Limit    int // -1 without a LIMIT clause
}

// SelectItem is one entry of a SELECT list. Star items select every column.
type SelectItem struct {
	Star  bool
	Expr  Node
	Alias string
}

// OrderItem is one key of an ORDER BY clause
type OrderItem struct {
	Column string
	Desc   bool
}

// Parser parses a token stream into a Query
type Parser struct {
	tokens []Token
	pos    int
}

// NewParser creates a new parser
func NewParser(tokens []Token) *Parser {
	return &Parser{tokens: tokens}
}

func (p *Parser) current() Token {
	if p.pos >= len(p.tokens) {
		return Token{Type: TokenEOF}
	}
	return p.tokens[p.pos]
}

func (p *Parser) advance() Token {
	tok := p.current()
	p.pos++
	return tok
}

func (p *Parser) errorf(format string, args ...interface{}) error {
	tok := p.current()
	reason := fmt.Sprintf(format, args...)
	if tok.Type == TokenError {
		reason = fmt.Sprintf("%s (invalid input %q)", reason, tok.Value)
	}
	return errors.InvalidArgumentError{Argument: "query", Reason: fmt.Sprintf("%s at position %d", reason, tok.Pos)}
}

// expect checks if current token matches expected type and advances
func (p *Parser) expect(tokType TokenType) (Token, error) {
	if p.current().Type != tokType {
		return Token{}, p.errorf("expected %s, found %s", tokType, p.describe())
	}
	return p.advance(), nil
}

func (p *Parser) describe() string {
	tok := p.current()
	if len(tok.Value) == 0 {
		return tok.Type.String()
	}
	return fmt.Sprintf("%q", tok.Value)
}

// Parse parses a query string
func Parse(query string) (*Query, error) {
	p := NewParser(Tokenize(query))
	q, err := p.parseQuery()
	if err != nil {
		return nil, err
	}
	if p.current().Type != TokenEOF {
		return nil, p.errorf("unexpected %s after query", p.describe())
	}
	return q, nil
}

// parseQuery parses: SELECT [DISTINCT] list FROM view [WHERE expr] [ORDER BY keys] [LIMIT n]
func (p *Parser) parseQuery() (*Query, error) {
	if _, err := p.expect(TokenSelect); err != nil {
		return nil, err
	}
	q := &Query{Limit: -1}
	if p.current().Type == TokenDistinct {
		q.Distinct = true
		p.advance()
	}
	for {
		item, err := p.parseSelectItem()
		if err != nil {
			return nil, err
		}
		q.Items = append(q.Items, item)
		if p.current().Type != TokenComma {
			break
		}
		p.advance()
	}
	if _, err := p.expect(TokenFrom); err != nil {
		return nil, err
	}
	from, err := p.expect(TokenIdent)
	if err != nil {
		return nil, err
	}
	q.From = from.Value
	if p.current().Type == TokenWhere {
		p.advance()
		if q.Where, err = p.parseOr(); err != nil {
			return nil, err
		}
	}
	if p.current().Type == TokenOrder {
		p.advance()
		if _, err := p.expect(TokenBy); err != nil {
			return nil, err
		}
		for {
			col, err := p.expect(TokenIdent)
			if err != nil {
				return nil, err
			}
			item := OrderItem{Column: col.Value}
			switch p.current().Type {
			case TokenDesc:
				item.Desc = true
				p.advance()
			case TokenAsc:
				p.advance()
			}
			q.OrderBy = append(q.OrderBy, item)
			if p.current().Type != TokenComma {
				break
			}
			p.advance()
		}
	}
	if p.current().Type == TokenLimit {
		p.advance()
		n, err := p.expect(TokenNumber)
		if err != nil {
			return nil, err
		}
		limit, err := strconv.Atoi(n.Value)
		if err != nil {
			return nil, errors.InvalidArgumentError{Argument: "query", Reason: fmt.Sprintf("LIMIT must be a non-negative integer, not %s", n.Value)}
		}
		q.Limit = limit
	}
	return q, nil
}

func (p *Parser) parseSelectItem() (SelectItem, error) {
	if p.current().Type == TokenStar {
		p.advance()
		return SelectItem{Star: true}, nil
	}
	e, err := p.parseOr()
	if err != nil {
		return SelectItem{}, err
	}
	item := SelectItem{Expr: e}
	if p.current().Type == TokenAs {
		p.advance()
		alias, err := p.expect(TokenIdent)
		if err != nil {
			return SelectItem{}, err
		}
		item.Alias = alias.Value
	} else if p.current().Type == TokenIdent {
		item.Alias = p.advance().Value
	}
	return item, nil
}

func (p *Parser) parseOr() (Node, error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	for p.current().Type == TokenOr {
		p.advance()
		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		left = &BinaryNode{Op: TokenOr, Left: left, Right: right}
	}
	return left, nil
}

func (p *Parser) parseAnd() (Node, error) {
	left, err := p.parseNot()
	if err != nil {
		return nil, err
	}
	for p.current().Type == TokenAnd {
		p.advance()
		right, err := p.parseNot()
		if err != nil {
			return nil, err
		}
		left = &BinaryNode{Op: TokenAnd, Left: left, Right: right}
	}
	return left, nil
}

func (p *Parser) parseNot() (Node, error) {
	if p.current().Type == TokenNot {
		p.advance()
		operand, err := p.parseNot()
		if err != nil {
			return nil, err
		}
		return &NotNode{Operand: operand}, nil
	}
	return p.parseComparison()
}

func isComparison(t TokenType) bool {
	switch t {
	case TokenEqual, TokenNotEqual, TokenLess, TokenLessEqual, TokenGreater, TokenGreaterEqual:
		return true
	}
	return false
}

func (p *Parser) parseComparison() (Node, error) {
	left, err := p.parseAdditive()
	if err != nil {
		return nil, err
	}
	switch tok := p.current(); {
	case isComparison(tok.Type):
		p.advance()
		right, err := p.parseAdditive()
		if err != nil {
			return nil, err
		}
		return &BinaryNode{Op: tok.Type, Left: left, Right: right}, nil
	case tok.Type == TokenIs:
		p.advance()
		negated := false
		if p.current().Type == TokenNot {
			negated = true
			p.advance()
		}
		if _, err := p.expect(TokenNull); err != nil {
			return nil, err
		}
		return &IsNullNode{Operand: left, Negated: negated}, nil
	case tok.Type == TokenIn:
		p.advance()
		return p.parseIn(left, false)
	case tok.Type == TokenNot:
		p.advance()
		if _, err := p.expect(TokenIn); err != nil {
			return nil, err
		}
		return p.parseIn(left, true)
	}
	return left, nil
}

func (p *Parser) parseIn(operand Node, negated bool) (Node, error) {
	if _, err := p.expect(TokenLeftParen); err != nil {
		return nil, err
	}
	node := &InNode{Operand: operand, Negated: negated}
	for {
		v, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		lit, ok := v.(*LiteralNode)
		if !ok {
			return nil, p.errorf("IN lists may only hold literals")
		}
		node.Values = append(node.Values, lit.Value)
		if p.current().Type != TokenComma {
			break
		}
		p.advance()
	}
	if _, err := p.expect(TokenRightParen); err != nil {
		return nil, err
	}
	return node, nil
}

func (p *Parser) parseAdditive() (Node, error) {
	left, err := p.parseMultiplicative()
	if err != nil {
		return nil, err
	}
	for p.current().Type == TokenPlus || p.current().Type == TokenMinus {
		op := p.advance().Type
		right, err := p.parseMultiplicative()
		if err != nil {
			return nil, err
		}
		left = &BinaryNode{Op: op, Left: left, Right: right}
	}
	return left, nil
}

func (p *Parser) parseMultiplicative() (Node, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for p.current().Type == TokenStar || p.current().Type == TokenSlash || p.current().Type == TokenPercent {
		op := p.advance().Type
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		left = &BinaryNode{Op: op, Left: left, Right: right}
	}
	return left, nil
}

func (p *Parser) parseUnary() (Node, error) {
	if p.current().Type != TokenMinus {
		return p.parsePrimary()
	}
	p.advance()
	operand, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	if lit, ok := operand.(*LiteralNode); ok {
		switch v := lit.Value.(type) {
		case int64:
			return &LiteralNode{Value: -v}, nil
		case float64:
			return &LiteralNode{Value: -v}, nil
		}
	}
	return &BinaryNode{Op: TokenMinus, Left: &LiteralNode{Value: int64(0)}, Right: operand}, nil
}

func (p *Parser) parsePrimary() (Node, error) {
	tok := p.current()
	switch tok.Type {
	case TokenNumber:
		p.advance()
		if !strings.ContainsAny(tok.Value, ".eE") {
			if i, err := strconv.ParseInt(tok.Value, 10, 64); err == nil {
				return &LiteralNode{Value: i}, nil
			}
		}
		f, err := strconv.ParseFloat(tok.Value, 64)
		if err != nil {
			return nil, errors.InvalidArgumentError{Argument: "query", Reason: fmt.Sprintf("invalid number %s at position %d", tok.Value, tok.Pos)}
		}
		return &LiteralNode{Value: f}, nil
	case TokenString:
		p.advance()
		return &LiteralNode{Value: tok.Value}, nil
	case TokenBool:
		p.advance()
		return &LiteralNode{Value: strings.EqualFold(tok.Value, "true")}, nil
	case TokenNull:
		p.advance()
		return &LiteralNode{Value: nil}, nil
	case TokenLeftParen:
		p.advance()
		e, err := p.parseOr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(TokenRightParen); err != nil {
			return nil, err
		}
		return e, nil
	case TokenIdent:
		p.advance()
		if p.current().Type != TokenLeftParen {
			return &ColumnNode{Name: tok.Value}, nil
		}
		p.advance()
		fn := &FuncNode{Name: strings.ToUpper(tok.Value)}
		if p.current().Type == TokenRightParen {
			p.advance()
			return fn, nil
		}
		for {
			arg, err := p.parseOr()
			if err != nil {
				return nil, err
			}
			fn.Args = append(fn.Args, arg)
			if p.current().Type != TokenComma {
				break
			}
			p.advance()
		}
		if _, err := p.expect(TokenRightParen); err != nil {
			return nil, err
		}
		return fn, nil
	}
	return nil, p.errorf("unexpected %s", p.describe())
}
