package codegen

import (
	"errors"
	"fmt"
	"strings"

	"github.com/artuross/tiny-compiler/internal/compiler/target"
)

var ErrUnknownNode = errors.New("unknown node")

type Error struct {
	Err  error
	Node target.Node
}

func (e *Error) Error() string {
	return fmt.Sprintf("codegen: %s: %T", e.Err, e.Node)
}

func (e *Error) Unwrap() error { return e.Err }

// Generate renders node as C-like source. String literals are quoted as-is, so a value
// containing '"' yields invalid output.
func Generate(node target.Node) (string, error) {
	var b strings.Builder
	if err := generate(&b, node); err != nil {
		return "", err
	}

	return b.String(), nil
}

func generate(b *strings.Builder, node target.Node) error {
	if isNil(node) {
		return &Error{Err: ErrUnknownNode, Node: node}
	}

	switch node := node.(type) {
	case *target.Program:
		for i, stmt := range node.Body {
			if i > 0 {
				b.WriteByte('\n')
			}

			if err := generate(b, stmt); err != nil {
				return err
			}
		}

	case *target.ExpressionStatement:
		if err := generate(b, node.Expression); err != nil {
			return err
		}

		b.WriteByte(';')

	case *target.CallExpression:
		if err := generate(b, node.Callee); err != nil {
			return err
		}

		b.WriteByte('(')

		for i, arg := range node.Arguments {
			if i > 0 {
				b.WriteString(", ")
			}

			if err := generate(b, arg); err != nil {
				return err
			}
		}

		b.WriteByte(')')

	case *target.Identifier:
		b.WriteString(node.Name)

	case *target.NumberLiteral:
		b.WriteString(node.Value)

	case *target.StringLiteral:
		b.WriteByte('"')
		b.WriteString(node.Value)
		b.WriteByte('"')

	default:
		return &Error{Err: ErrUnknownNode, Node: node}
	}

	return nil
}

// isNil reports whether node is nil or a typed nil pointer.
func isNil(node target.Node) bool {
	switch node := node.(type) {
	case nil:
		return true
	case *target.Program:
		return node == nil
	case *target.ExpressionStatement:
		return node == nil
	case *target.CallExpression:
		return node == nil
	case *target.Identifier:
		return node == nil
	case *target.NumberLiteral:
		return node == nil
	case *target.StringLiteral:
		return node == nil
	default:
		return false
	}
}
