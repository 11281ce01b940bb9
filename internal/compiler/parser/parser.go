package parser

import (
	"errors"
	"fmt"
	"io"

	"github.com/artuross/tiny-compiler/internal/compiler/ast"
	"github.com/artuross/tiny-compiler/internal/compiler/lexer"
)

var (
	ErrExpectedName    = errors.New("expected name")
	ErrUnclosedCall    = fmt.Errorf("unclosed call: %w", io.ErrUnexpectedEOF)
	ErrUnexpectedToken = errors.New("unexpected token")
)

// Error points at the token that made the input malformed. For ErrUnclosedCall it is the
// opening paren of the call that was never closed.
type Error struct {
	Err   error
	Token *lexer.Token
}

func (e *Error) Error() string {
	return fmt.Sprintf("parse error at %s: %s: %s", e.Token.Position.Start, e.Err, e.Token)
}

func (e *Error) Unwrap() error { return e.Err }

type Parser struct {
	tokens []*lexer.Token
	pos    int
}

func NewParser(tokens []*lexer.Token) *Parser {
	return &Parser{
		tokens: tokens,
	}
}

// Parse builds a Program out of every top level expression in tokens.
func Parse(tokens []*lexer.Token) (*ast.Program, error) {
	return NewParser(tokens).Parse()
}

func (p *Parser) Parse() (*ast.Program, error) {
	program := ast.Program{
		Body: make([]ast.Node, 0),
	}

	for p.pos < len(p.tokens) {
		node, err := p.walk()
		if err != nil {
			return nil, err
		}

		program.Body = append(program.Body, node)
	}

	return &program, nil
}

func (p *Parser) walk() (ast.Node, error) {
	token := p.tokens[p.pos]

	switch {
	case token.Type == lexer.TokenTypeNumber:
		p.pos++

		return &ast.NumberLiteral{Value: token.Value}, nil

	case token.Type == lexer.TokenTypeString:
		p.pos++

		return &ast.StringLiteral{Value: token.Value}, nil

	case isOpeningParen(token):
		return p.parseCallExpression()
	}

	return nil, &Error{Err: ErrUnexpectedToken, Token: token}
}

func (p *Parser) parseCallExpression() (ast.Node, error) {
	opening := p.tokens[p.pos]
	p.pos++

	name, ok := p.peekToken()
	if !ok {
		return nil, &Error{Err: ErrUnclosedCall, Token: opening}
	}

	if name.Type != lexer.TokenTypeName {
		return nil, &Error{Err: ErrExpectedName, Token: name}
	}

	p.pos++

	expr := ast.CallExpression{
		Name:   name.Value,
		Params: make([]ast.Node, 0),
	}

	for {
		token, ok := p.peekToken()
		if !ok {
			return nil, &Error{Err: ErrUnclosedCall, Token: opening}
		}

		if isClosingParen(token) {
			p.pos++

			return &expr, nil
		}

		param, err := p.walk()
		if err != nil {
			return nil, err
		}

		expr.Params = append(expr.Params, param)
	}
}

func (p *Parser) peekToken() (*lexer.Token, bool) {
	if p.pos >= len(p.tokens) {
		return nil, false
	}

	return p.tokens[p.pos], true
}

func isOpeningParen(token *lexer.Token) bool {
	return token.Type == lexer.TokenTypeParen && token.Value == "("
}

func isClosingParen(token *lexer.Token) bool {
	return token.Type == lexer.TokenTypeParen && token.Value == ")"
}
