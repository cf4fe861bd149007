package pgattr

import (
	"fmt"

	"github.com/spandigital/pgattr/ast"
)

// operatorApplication is satisfied by OperatorNode and every type embedding it.
type operatorApplication interface {
	ast.Node
	operatorNode() OperatorNode
}

// operatorRule renders one operator shape as (<left> <operator> <right>).
func operatorRule(symbol OperatorSymbol) ast.RenderFunc {
	return func(collector *ast.Collector, node ast.Node) error {
		application, ok := node.(operatorApplication)
		if !ok {
			return fmt.Errorf("rule for %s received %T", symbol.NodeType(), node)
		}

		operator := application.operatorNode()
		if operator.Symbol != symbol {
			return fmt.Errorf("rule for %s received a %s node", symbol.NodeType(), operator.Symbol.NodeType())
		}

		return collector.Visit(ast.Grouping{
			Expr: ast.InfixOperation{
				Operator: symbol.String(),
				Left:     operator.Left,
				Right:    operator.Right,
			},
		})
	}
}

// Install registers a rule for every operator shape. Only PostgreSQL
// understands these operators; other dialects are rejected.
func Install(visitor *ast.Visitor) error {
	if visitor.Dialect() != ast.PostgreSQL {
		return fmt.Errorf("%w: %s", ErrUnsupportedDialect, visitor.Dialect())
	}

	install(visitor)
	return nil
}

func install(visitor *ast.Visitor) {
	for _, symbol := range OperatorSymbols {
		visitor.Register(symbol.NodeType(), operatorRule(symbol))
	}
}

// NewVisitor returns a PostgreSQL visitor with the operator rules installed.
func NewVisitor() *ast.Visitor {
	visitor := ast.NewVisitor(ast.PostgreSQL)
	install(visitor)

	return visitor
}

var defaultVisitor = NewVisitor()

// Render renders node with a shared PostgreSQL visitor.
func Render(node ast.Node) (string, error) {
	return defaultVisitor.Render(node)
}
