package parser_test

import (
	"errors"
	"io"
	"testing"

	"github.com/artuross/tiny-compiler/internal/compiler/ast"
	"github.com/artuross/tiny-compiler/internal/compiler/lexer"
	"github.com/artuross/tiny-compiler/internal/compiler/parser"
	"github.com/kr/pretty"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	type testCase struct {
		name        string
		inputTokens []*lexer.Token
		output      *ast.Program
	}

	testCases := []testCase{
		{
			name:        "empty",
			inputTokens: []*lexer.Token{},
			output: &ast.Program{
				Body: []ast.Node{},
			},
		},
		{
			name: "literal / number", // 12
			inputTokens: []*lexer.Token{
				{Type: lexer.TokenTypeNumber, Value: "12"},
			},
			output: &ast.Program{
				Body: []ast.Node{
					&ast.NumberLiteral{Value: "12"},
				},
			},
		},
		{
			name: "literal / string", // "hi"
			inputTokens: []*lexer.Token{
				{Type: lexer.TokenTypeString, Value: "hi"},
			},
			output: &ast.Program{
				Body: []ast.Node{
					&ast.StringLiteral{Value: "hi"},
				},
			},
		},
		{
			name: "call / no params", // (now)
			inputTokens: []*lexer.Token{
				paren("("), name("now"), paren(")"),
			},
			output: &ast.Program{
				Body: []ast.Node{
					&ast.CallExpression{Name: "now", Params: []ast.Node{}},
				},
			},
		},
		{
			name: "call / literal params", // (add 2 3)
			inputTokens: []*lexer.Token{
				paren("("), name("add"), number("2"), number("3"), paren(")"),
			},
			output: &ast.Program{
				Body: []ast.Node{
					&ast.CallExpression{
						Name: "add",
						Params: []ast.Node{
							&ast.NumberLiteral{Value: "2"},
							&ast.NumberLiteral{Value: "3"},
						},
					},
				},
			},
		},
		{
			name: "call / nested", // (subtract 4 (add 2 "x"))
			inputTokens: []*lexer.Token{
				paren("("), name("subtract"), number("4"),
				paren("("), name("add"), number("2"), str("x"), paren(")"),
				paren(")"),
			},
			output: &ast.Program{
				Body: []ast.Node{
					&ast.CallExpression{
						Name: "subtract",
						Params: []ast.Node{
							&ast.NumberLiteral{Value: "4"},
							&ast.CallExpression{
								Name: "add",
								Params: []ast.Node{
									&ast.NumberLiteral{Value: "2"},
									&ast.StringLiteral{Value: "x"},
								},
							},
						},
					},
				},
			},
		},
		{
			name: "multiple top level expressions", // (a 1) (b 2)
			inputTokens: []*lexer.Token{
				paren("("), name("a"), number("1"), paren(")"),
				paren("("), name("b"), number("2"), paren(")"),
			},
			output: &ast.Program{
				Body: []ast.Node{
					&ast.CallExpression{
						Name:   "a",
						Params: []ast.Node{&ast.NumberLiteral{Value: "1"}},
					},
					&ast.CallExpression{
						Name:   "b",
						Params: []ast.Node{&ast.NumberLiteral{Value: "2"}},
					},
				},
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Log(pretty.Sprint(tc.inputTokens))
			t.Log(pretty.Sprint(tc.output))

			program, err := parser.Parse(tc.inputTokens)
			require.NoError(t, err)

			t.Log(pretty.Sprint(program))

			require.Equal(t, tc.output, program)
		})
	}
}

func TestParse_Errors(t *testing.T) {
	type testCase struct {
		name  string
		input string
		err   error
		token lexer.Token
	}

	testCases := []testCase{
		{
			name:  "unclosed call",
			input: "(add 2 3",
			err:   parser.ErrUnclosedCall,
			token: lexer.Token{Type: lexer.TokenTypeParen, Value: "(", Position: position(1, 1, 1, 2)},
		},
		{
			name:  "unclosed nested call",
			input: "(add 2 (sub 3)",
			err:   parser.ErrUnclosedCall,
			token: lexer.Token{Type: lexer.TokenTypeParen, Value: "(", Position: position(1, 1, 1, 2)},
		},
		{
			name:  "lone opening paren",
			input: "(",
			err:   parser.ErrUnclosedCall,
			token: lexer.Token{Type: lexer.TokenTypeParen, Value: "(", Position: position(1, 1, 1, 2)},
		},
		{
			name:  "paren in name position",
			input: "((add 1))",
			err:   parser.ErrExpectedName,
			token: lexer.Token{Type: lexer.TokenTypeParen, Value: "(", Position: position(1, 2, 1, 3)},
		},
		{
			name:  "number in name position",
			input: "(1 2)",
			err:   parser.ErrExpectedName,
			token: lexer.Token{Type: lexer.TokenTypeNumber, Value: "1", Position: position(1, 2, 1, 3)},
		},
		{
			name:  "empty call",
			input: "()",
			err:   parser.ErrExpectedName,
			token: lexer.Token{Type: lexer.TokenTypeParen, Value: ")", Position: position(1, 2, 1, 3)},
		},
		{
			name:  "stray closing paren",
			input: "(a 1))",
			err:   parser.ErrUnexpectedToken,
			token: lexer.Token{Type: lexer.TokenTypeParen, Value: ")", Position: position(1, 6, 1, 7)},
		},
		{
			name:  "bare name",
			input: "(a b)",
			err:   parser.ErrUnexpectedToken,
			token: lexer.Token{Type: lexer.TokenTypeName, Value: "b", Position: position(1, 4, 1, 5)},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			tokens, err := lexer.Tokenize(tc.input)
			require.NoError(t, err)

			program, err := parser.Parse(tokens)
			require.Error(t, err)
			assert.Nil(t, program)

			assert.ErrorIs(t, err, tc.err)

			var parseErr *parser.Error
			require.True(t, errors.As(err, &parseErr))
			assert.Equal(t, tc.token, *parseErr.Token)
		})
	}

	t.Run("unclosed call is an unexpected EOF", func(t *testing.T) {
		tokens, err := lexer.Tokenize("(add 2 3")
		require.NoError(t, err)

		_, err = parser.Parse(tokens)
		assert.ErrorIs(t, err, io.ErrUnexpectedEOF)
		assert.Equal(t, `parse error at 1:1: unclosed call: unexpected EOF: PAREN "("`, err.Error())
	})
}

func paren(value string) *lexer.Token {
	return &lexer.Token{Type: lexer.TokenTypeParen, Value: value}
}

func name(value string) *lexer.Token {
	return &lexer.Token{Type: lexer.TokenTypeName, Value: value}
}

func number(value string) *lexer.Token {
	return &lexer.Token{Type: lexer.TokenTypeNumber, Value: value}
}

func str(value string) *lexer.Token {
	return &lexer.Token{Type: lexer.TokenTypeString, Value: value}
}

func position(startLine, startCol, endLine, endCol int) lexer.Position {
	return lexer.Position{
		Start: lexer.Point{Line: startLine, Column: startCol},
		End:   lexer.Point{Line: endLine, Column: endCol},
	}
}
