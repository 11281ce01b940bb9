// Package ast holds the tree produced by the parser from s-expression source.
package ast

type NodeKind int

const (
	NodeKindUnknown NodeKind = iota
	NodeKindProgram
	NodeKindNumberLiteral
	NodeKindStringLiteral
	NodeKindCallExpression
)

func (k NodeKind) String() string {
	switch k {
	case NodeKindProgram:
		return "Program"
	case NodeKindNumberLiteral:
		return "NumberLiteral"
	case NodeKindStringLiteral:
		return "StringLiteral"
	case NodeKindCallExpression:
		return "CallExpression"
	default:
		return "Unknown"
	}
}

var (
	_ Node = (*Program)(nil)
	_ Node = (*NumberLiteral)(nil)
	_ Node = (*StringLiteral)(nil)
	_ Node = (*CallExpression)(nil)
)

type Node interface {
	Kind() NodeKind
}

type (
	Program struct {
		Body []Node
	}

	// NumberLiteral keeps the digits exactly as written.
	NumberLiteral struct {
		Value string
	}

	StringLiteral struct {
		Value string
	}

	CallExpression struct {
		Name   string
		Params []Node
	}
)

func (*Program) Kind() NodeKind        { return NodeKindProgram }
func (*NumberLiteral) Kind() NodeKind  { return NodeKindNumberLiteral }
func (*StringLiteral) Kind() NodeKind  { return NodeKindStringLiteral }
func (*CallExpression) Kind() NodeKind { return NodeKindCallExpression }
