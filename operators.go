// Package pgattr builds PostgreSQL json, jsonb and hstore lookups of
// locale-keyed values as syntax tree nodes, and renders them through an
// ast.Visitor.
package pgattr

import (
	"fmt"

	"github.com/spandigital/pgattr/ast"
)

// OperatorSymbol identifies one PostgreSQL operator shape for semi-structured
// columns.
type OperatorSymbol int

const (
	ExtractJSON OperatorSymbol = iota
	ExtractTextJSON
	ExtractJSONB
	ExtractTextJSONB
	ExistsJSONB
	ExtractHstore
	ExistsHstore
)

// OperatorSymbols lists every shape in declaration order.
var OperatorSymbols = []OperatorSymbol{
	ExtractJSON,
	ExtractTextJSON,
	ExtractJSONB,
	ExtractTextJSONB,
	ExistsJSONB,
	ExtractHstore,
	ExistsHstore,
}

var operatorStrings = map[OperatorSymbol]string{
	ExtractJSON:      "->",
	ExtractTextJSON:  "->>",
	ExtractJSONB:     "->",
	ExtractTextJSONB: "->>",
	ExistsJSONB:      "?",
	ExtractHstore:    "->",
	ExistsHstore:     "?",
}

var operatorNodeTypes = map[OperatorSymbol]string{
	ExtractJSON:      "json_dash_arrow",
	ExtractTextJSON:  "json_dash_double_arrow",
	ExtractJSONB:     "jsonb_dash_arrow",
	ExtractTextJSONB: "jsonb_dash_double_arrow",
	ExistsJSONB:      "jsonb_question",
	ExtractHstore:    "hstore_dash_arrow",
	ExistsHstore:     "hstore_question",
}

// String returns the SQL operator text.
func (s OperatorSymbol) String() string {
	if operator, found := operatorStrings[s]; found {
		return operator
	}

	return fmt.Sprintf("OperatorSymbol(%d)", int(s))
}

// NodeType returns the stable rule name the shape is registered under.
func (s OperatorSymbol) NodeType() string {
	if nodeType, found := operatorNodeTypes[s]; found {
		return nodeType
	}

	return fmt.Sprintf("operator_symbol_%d", int(s))
}

// OperatorNode is a binary application of a semi-structured column operator.
// It supports the same comparison, ordering and aliasing helpers as
// ast.Column, so it can stand wherever a column expression can.
type OperatorNode struct {
	Left   ast.Node
	Right  ast.Node
	Symbol OperatorSymbol
}

func newOperatorNode(symbol OperatorSymbol, left, right ast.Node) OperatorNode {
	return OperatorNode{
		Left:   left,
		Right:  right,
		Symbol: symbol,
	}
}

// <left> -> <right> on a json column
func NewExtractJSON(left, right ast.Node) OperatorNode {
	return newOperatorNode(ExtractJSON, left, right)
}

// <left> ->> <right> on a json column
func NewExtractTextJSON(left, right ast.Node) OperatorNode {
	return newOperatorNode(ExtractTextJSON, left, right)
}

// <left> -> <right> on a jsonb column
func NewExtractJSONB(left, right ast.Node) OperatorNode {
	return newOperatorNode(ExtractJSONB, left, right)
}

// <left> ->> <right> on a jsonb column
func NewExtractTextJSONB(left, right ast.Node) OperatorNode {
	return newOperatorNode(ExtractTextJSONB, left, right)
}

// <left> ? <right> on a jsonb column
func NewExistsJSONB(left, right ast.Node) OperatorNode {
	return newOperatorNode(ExistsJSONB, left, right)
}

// <left> -> <right> on an hstore column
func NewExtractHstore(left, right ast.Node) OperatorNode {
	return newOperatorNode(ExtractHstore, left, right)
}

// <left> ? <right> on an hstore column
func NewExistsHstore(left, right ast.Node) OperatorNode {
	return newOperatorNode(ExistsHstore, left, right)
}

func (s OperatorNode) NodeType() string {
	return s.Symbol.NodeType()
}

func (s OperatorNode) operatorNode() OperatorNode {
	return s
}

// Eq is the standard equality: this node compared to the quoted value.
func (s OperatorNode) Eq(other any) ast.Node {
	return ast.Eq(s, other)
}

func (s OperatorNode) NotEq(other any) ast.Node {
	return ast.NotEq(s, other)
}

func (s OperatorNode) Gt(other any) ast.Node {
	return ast.Gt(s, other)
}

func (s OperatorNode) Gteq(other any) ast.Node {
	return ast.Gteq(s, other)
}

func (s OperatorNode) Lt(other any) ast.Node {
	return ast.Lt(s, other)
}

func (s OperatorNode) Lteq(other any) ast.Node {
	return ast.Lteq(s, other)
}

func (s OperatorNode) Matches(pattern string) ast.Node {
	return ast.Matches(s, pattern)
}

func (s OperatorNode) In(values ...any) ast.Node {
	return ast.In(s, values...)
}

func (s OperatorNode) Asc() ast.Node {
	return ast.Asc(s)
}

func (s OperatorNode) Desc() ast.Node {
	return ast.Desc(s)
}

func (s OperatorNode) As(alias string) ast.Node {
	return ast.As(s, alias)
}

func (s OperatorNode) Lower() ast.Node {
	return ast.Lower(s)
}
