// Package target holds the C-like tree the transformer builds and the code generator
// renders.
package target

type NodeKind int

const (
	NodeKindUnknown NodeKind = iota
	NodeKindProgram
	NodeKindExpressionStatement
	NodeKindCallExpression
	NodeKindIdentifier
	NodeKindNumberLiteral
	NodeKindStringLiteral
)

func (k NodeKind) String() string {
	switch k {
	case NodeKindProgram:
		return "Program"
	case NodeKindExpressionStatement:
		return "ExpressionStatement"
	case NodeKindCallExpression:
		return "CallExpression"
	case NodeKindIdentifier:
		return "Identifier"
	case NodeKindNumberLiteral:
		return "NumberLiteral"
	case NodeKindStringLiteral:
		return "StringLiteral"
	default:
		return "Unknown"
	}
}

var (
	_ Node = (*Program)(nil)
	_ Node = (*ExpressionStatement)(nil)
	_ Node = (*CallExpression)(nil)
	_ Node = (*Identifier)(nil)
	_ Node = (*NumberLiteral)(nil)
	_ Node = (*StringLiteral)(nil)
)

type Node interface {
	Kind() NodeKind
}

type (
	Program struct {
		Body []Node
	}

	// ExpressionStatement wraps calls that sit directly under Program.
	ExpressionStatement struct {
		Expression Node
	}

	CallExpression struct {
		Callee    *Identifier
		Arguments []Node
	}

	Identifier struct {
		Name string
	}

	NumberLiteral struct {
		Value string
	}

	StringLiteral struct {
		Value string
	}
)

func (*Program) Kind() NodeKind             { return NodeKindProgram }
func (*ExpressionStatement) Kind() NodeKind { return NodeKindExpressionStatement }
func (*CallExpression) Kind() NodeKind      { return NodeKindCallExpression }
func (*Identifier) Kind() NodeKind          { return NodeKindIdentifier }
func (*NumberLiteral) Kind() NodeKind       { return NodeKindNumberLiteral }
func (*StringLiteral) Kind() NodeKind       { return NodeKindStringLiteral }
