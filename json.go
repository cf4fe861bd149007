package pgattr

import "github.com/spandigital/pgattr/ast"

// Comparable is a node whose equality depends on how its column stores
// values.
type Comparable interface {
	ast.Node
	CompareWith(other ComparisonValue) (ast.Node, error)
}

// JSON reads a key from a json column as text (->>). Comparisons always use
// standard equality; json columns get no existence-based null handling.
type JSON struct {
	OperatorNode
}

func NewJSON(left, right ast.Node) JSON {
	return JSON{
		OperatorNode: NewExtractTextJSON(left, right),
	}
}

func (s JSON) CompareWith(other ComparisonValue) (ast.Node, error) {
	switch other.Kind {
	case KindNull, KindNumber, KindSequence, KindMapping, KindScalar:
		return s.OperatorNode.Eq(other.Value), nil
	default:
		return nil, unknownKind(other.Kind)
	}
}

// JSONContainer reads attr for locale from a json column shaped like
// {"<locale>": {"<attr>": value}}: (column -> locale) ->> attr
type JSONContainer struct {
	JSON
}

func NewJSONContainer(column ast.Node, locale, attr string) JSONContainer {
	return JSONContainer{
		JSON: NewJSON(NewExtractJSON(column, ast.Quote(locale)), ast.Quote(attr)),
	}
}
