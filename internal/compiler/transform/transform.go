package transform

import (
	"errors"
	"fmt"

	"github.com/artuross/tiny-compiler/internal/compiler/ast"
	"github.com/artuross/tiny-compiler/internal/compiler/target"
	"github.com/artuross/tiny-compiler/internal/compiler/traverse"
)

var ErrMissingHandle = errors.New("parent has no output handle")

// Transform rewrites the source tree into a target tree in a single traversal. The
// source tree is left untouched.
func Transform(program *ast.Program) (*target.Program, error) {
	out := target.Program{
		Body: make([]target.Node, 0),
	}

	t := transformer{
		handles: map[ast.Node]*[]target.Node{
			program: &out.Body,
		},
	}

	visitor := traverse.Visitor{
		ast.NodeKindNumberLiteral:  {Enter: t.enterNumberLiteral},
		ast.NodeKindStringLiteral:  {Enter: t.enterStringLiteral},
		ast.NodeKindCallExpression: {Enter: t.enterCallExpression},
	}

	if err := traverse.Traverse(program, visitor); err != nil {
		return nil, err
	}

	return &out, nil
}

// transformer maps every source node that can have children to the slice its
// transformed children are appended to. A node's handle is registered on enter, before
// the traverser descends into it.
type transformer struct {
	handles map[ast.Node]*[]target.Node
}

func (t *transformer) enterNumberLiteral(node ast.Node, parent ast.Node) error {
	literal := node.(*ast.NumberLiteral)

	return t.appendTo(parent, &target.NumberLiteral{Value: literal.Value})
}

func (t *transformer) enterStringLiteral(node ast.Node, parent ast.Node) error {
	literal := node.(*ast.StringLiteral)

	return t.appendTo(parent, &target.StringLiteral{Value: literal.Value})
}

func (t *transformer) enterCallExpression(node ast.Node, parent ast.Node) error {
	call := node.(*ast.CallExpression)

	expr := &target.CallExpression{
		Callee: &target.Identifier{
			Name: call.Name,
		},
		Arguments: make([]target.Node, 0, len(call.Params)),
	}

	t.handles[call] = &expr.Arguments

	if _, nested := parent.(*ast.CallExpression); nested {
		return t.appendTo(parent, expr)
	}

	return t.appendTo(parent, &target.ExpressionStatement{Expression: expr})
}

func (t *transformer) appendTo(parent ast.Node, node target.Node) error {
	handle, ok := t.handles[parent]
	if !ok {
		return fmt.Errorf("append %s: %w", node.Kind(), ErrMissingHandle)
	}

	*handle = append(*handle, node)

	return nil
}
