// Package ast provides a small relational-query syntax tree and a dialect-keyed
// visitor that renders it to SQL.
package ast

// Node is implemented by every syntax tree node. NodeType names the rule the
// Visitor dispatches to.
type Node interface {
	NodeType() string
}

// Column is a reference to a table column. Table may be empty.
type Column struct {
	Table string
	Name  string
}

// NewColumn creates a column reference.
func NewColumn(table, name string) Column {
	return Column{Table: table, Name: name}
}

func (c Column) NodeType() string {
	return "column"
}

func (c Column) Eq(other any) Node           { return Eq(c, other) }
func (c Column) NotEq(other any) Node        { return NotEq(c, other) }
func (c Column) Gt(other any) Node           { return Gt(c, other) }
func (c Column) Gteq(other any) Node         { return Gteq(c, other) }
func (c Column) Lt(other any) Node           { return Lt(c, other) }
func (c Column) Lteq(other any) Node         { return Lteq(c, other) }
func (c Column) Matches(pattern string) Node { return Matches(c, pattern) }
func (c Column) In(values ...any) Node       { return In(c, values...) }
func (c Column) Asc() Node                   { return Asc(c) }
func (c Column) Desc() Node                  { return Desc(c) }
func (c Column) As(alias string) Node        { return As(c, alias) }
func (c Column) Lower() Node                 { return Lower(c) }

// Quoted is a literal value rendered with the dialect's quoting rules.
type Quoted struct {
	Value any
}

func (q Quoted) NodeType() string {
	return "quoted"
}

// Casted is a literal with an explicit type cast: 'value'::type
type Casted struct {
	Value    any
	TypeName string
}

func (c Casted) NodeType() string {
	return "casted"
}

// Null renders as NULL.
type Null struct{}

func (n Null) NodeType() string {
	return "null"
}

// SQLLiteral is raw SQL written verbatim. Never build one from user input.
type SQLLiteral string

func (s SQLLiteral) NodeType() string {
	return "sql_literal"
}

// <left> = <right>
type Equality struct {
	Left  Node
	Right Node
}

func (e Equality) NodeType() string {
	return "equality"
}

// <left> != <right>
type NotEqual struct {
	Left  Node
	Right Node
}

func (n NotEqual) NodeType() string {
	return "not_equal"
}

// <left> <operator> <right> for ordering and pattern comparisons.
type Comparison struct {
	Operator string
	Left     Node
	Right    Node
}

func (c Comparison) NodeType() string {
	return "comparison"
}

// <left> in (val1, val2, ...)
type InList struct {
	Left   Node
	Values []Node
}

func (i InList) NodeType() string {
	return "in"
}

// not <expr>
type Not struct {
	Expr Node
}

func (n Not) NodeType() string {
	return "not"
}

// Or renders grouped: (<left> OR <right>)
type Or struct {
	Left  Node
	Right Node
}

func (o Or) NodeType() string {
	return "or"
}

// <expr> AND <expr> ...
type And struct {
	Children []Node
}

func (a And) NodeType() string {
	return "and"
}

// (<expr>)
type Grouping struct {
	Expr Node
}

func (g Grouping) NodeType() string {
	return "grouping"
}

// <left> <operator> <right> with no grouping of its own.
type InfixOperation struct {
	Operator string
	Left     Node
	Right    Node
}

func (i InfixOperation) NodeType() string {
	return "infix_operation"
}

type Ascending struct {
	Expr Node
}

func (a Ascending) NodeType() string {
	return "ascending"
}

type Descending struct {
	Expr Node
}

func (d Descending) NodeType() string {
	return "descending"
}

// <expr> AS "name"
type Alias struct {
	Expr Node
	Name string
}

func (a Alias) NodeType() string {
	return "as"
}

// NAME(arg1, arg2, ...)
type NamedFunction struct {
	Name      string
	Arguments []Node
}

func (n NamedFunction) NodeType() string {
	return "named_function"
}
