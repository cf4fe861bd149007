package pgattr

import "github.com/spandigital/pgattr/ast"

// jsonbTypeName is the cast applied to JSON-serialized comparison values.
const jsonbTypeName = "jsonb"

// JSONB reads a key from a jsonb column as text (->>). Its comparisons treat
// a missing key as the null value and compare numbers, lists and objects in
// their JSON form.
type JSONB struct {
	OperatorNode
}

func NewJSONB(left, right ast.Node) JSONB {
	return JSONB{
		OperatorNode: NewExtractTextJSONB(left, right),
	}
}

// ToExtractOperator returns the same lookup using -> so the result keeps its
// jsonb type.
func (s JSONB) ToExtractOperator() OperatorNode {
	return NewExtractJSONB(s.Left, s.Right)
}

// ToExistenceCheck returns <left> ? <right>.
func (s JSONB) ToExistenceCheck() OperatorNode {
	return NewExistsJSONB(s.Left, s.Right)
}

func (s JSONB) CompareWith(other ComparisonValue) (ast.Node, error) {
	switch other.Kind {
	case KindNull:
		return ast.Not{Expr: s.ToExistenceCheck()}, nil

	case KindNumber, KindSequence, KindMapping:
		// ->> always yields text, so typed values are compared as jsonb
		text, err := other.jsonText()
		if err != nil {
			return nil, err
		}

		return s.ToExtractOperator().Eq(ast.Casted{Value: text, TypeName: jsonbTypeName}), nil

	case KindScalar:
		return s.OperatorNode.Eq(other.Value), nil

	default:
		return nil, unknownKind(other.Kind)
	}
}

// Eq classifies other with ValueOf and compares with it. It replaces the
// standard equality of the embedded OperatorNode.
func (s JSONB) Eq(other any) (ast.Node, error) {
	return s.CompareWith(ValueOf(other))
}

// JSONBContainer reads attr for locale from a jsonb column shaped like
// {"<locale>": {"<attr>": value}}: (column -> locale) ->> attr
type JSONBContainer struct {
	JSONB

	Column ast.Node
	Locale ast.Node
}

func NewJSONBContainer(column ast.Node, locale, attr string) JSONBContainer {
	localeKey := ast.Quote(locale)

	return JSONBContainer{
		JSONB:  NewJSONB(NewExtractJSONB(column, localeKey), ast.Quote(attr)),
		Column: column,
		Locale: localeKey,
	}
}

// CompareWith treats the value as absent when either the locale key or the
// attribute key under it is missing.
func (s JSONBContainer) CompareWith(other ComparisonValue) (ast.Node, error) {
	predicate, err := s.JSONB.CompareWith(other)
	if err != nil {
		return nil, err
	}

	if other.Kind == KindNull {
		return ast.Or{
			Left:  predicate,
			Right: ast.Not{Expr: NewExistsJSONB(s.Column, s.Locale)},
		}, nil
	}

	return predicate, nil
}

func (s JSONBContainer) Eq(other any) (ast.Node, error) {
	return s.CompareWith(ValueOf(other))
}
