package pgattr

import "github.com/spandigital/pgattr/ast"

// Hstore reads a key from an hstore column (->). A missing key is the null
// value; everything else uses standard equality.
type Hstore struct {
	OperatorNode
}

func NewHstore(left, right ast.Node) Hstore {
	return Hstore{
		OperatorNode: NewExtractHstore(left, right),
	}
}

// ToExistenceCheck returns <left> ? <right>.
func (s Hstore) ToExistenceCheck() OperatorNode {
	return NewExistsHstore(s.Left, s.Right)
}

func (s Hstore) CompareWith(other ComparisonValue) (ast.Node, error) {
	switch other.Kind {
	case KindNull:
		return ast.Not{Expr: s.ToExistenceCheck()}, nil
	case KindNumber, KindSequence, KindMapping, KindScalar:
		return s.OperatorNode.Eq(other.Value), nil
	default:
		return nil, unknownKind(other.Kind)
	}
}

func (s Hstore) Eq(other any) (ast.Node, error) {
	return s.CompareWith(ValueOf(other))
}
