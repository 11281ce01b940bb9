package traverse

import (
	"errors"
	"fmt"

	"github.com/artuross/tiny-compiler/internal/compiler/ast"
)

var ErrUnknownNode = errors.New("unknown node")

type Error struct {
	Err  error
	Node ast.Node
}

func (e *Error) Error() string {
	return fmt.Sprintf("traverse: %s: %T", e.Err, e.Node)
}

func (e *Error) Unwrap() error { return e.Err }

// VisitFunc is called with the root node's parent set to nil.
type VisitFunc func(node ast.Node, parent ast.Node) error

type Methods struct {
	Enter VisitFunc
	Exit  VisitFunc
}

type Visitor map[ast.NodeKind]Methods

// Traverse walks the tree depth first. Enter runs before a node's children are visited,
// Exit after. The first error returned by a callback stops the walk.
func Traverse(node ast.Node, visitor Visitor) error {
	t := traverser{
		visitor: visitor,
	}

	return t.traverseNode(node, nil)
}

type traverser struct {
	visitor Visitor
}

func (t *traverser) traverseNodes(nodes []ast.Node, parent ast.Node) error {
	for _, child := range nodes {
		if err := t.traverseNode(child, parent); err != nil {
			return err
		}
	}

	return nil
}

func (t *traverser) traverseNode(node ast.Node, parent ast.Node) error {
	if isNil(node) {
		return &Error{Err: ErrUnknownNode, Node: node}
	}

	var children []ast.Node

	switch node := node.(type) {
	case *ast.Program:
		children = node.Body

	case *ast.CallExpression:
		children = node.Params

	case *ast.NumberLiteral, *ast.StringLiteral:

	default:
		return &Error{Err: ErrUnknownNode, Node: node}
	}

	methods := t.visitor[node.Kind()]

	if methods.Enter != nil {
		if err := methods.Enter(node, parent); err != nil {
			return fmt.Errorf("enter %s: %w", node.Kind(), err)
		}
	}

	if err := t.traverseNodes(children, node); err != nil {
		return err
	}

	if methods.Exit != nil {
		if err := methods.Exit(node, parent); err != nil {
			return fmt.Errorf("exit %s: %w", node.Kind(), err)
		}
	}

	return nil
}

// isNil reports whether node is nil or a typed nil pointer.
func isNil(node ast.Node) bool {
	switch node := node.(type) {
	case nil:
		return true
	case *ast.Program:
		return node == nil
	case *ast.CallExpression:
		return node == nil
	case *ast.NumberLiteral:
		return node == nil
	case *ast.StringLiteral:
		return node == nil
	default:
		return false
	}
}
