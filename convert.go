package pgattr

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/google/cel-go/cel"
	"github.com/google/cel-go/common/operators"
	exprpb "google.golang.org/genproto/googleapis/api/expr/v1alpha1"

	"github.com/spandigital/pgattr/ast"
)

// Convert lowers a CEL predicate over localized columns into a node tree.
//
// References take the form table.column.locale, or table.column.locale.attr
// for container columns; any segment may use index syntax instead, which is
// how locales such as "pt-BR" are written. Equality goes through
// Comparable.CompareWith so each storage type applies its own null and typed
// value rules. Lookups yield text, so bool and double literals, and integer
// literals outside jsonb, are compared in their text form.
//
// Ordering against a number casts the looked-up text to numeric. PostgreSQL
// evaluates the cast on every row that has the key, so the query fails if any
// such row holds non-numeric text.
func Convert(celAST *cel.Ast, resolver ColumnResolver) (ast.Node, error) {
	var expr *exprpb.Expr

	if celAST.IsChecked() {
		checkedExpr, err := cel.AstToCheckedExpr(celAST)
		if err != nil {
			return nil, err
		}
		expr = checkedExpr.GetExpr()
	} else {
		parsedExpr, err := cel.AstToParsedExpr(celAST)
		if err != nil {
			return nil, err
		}
		expr = parsedExpr.GetExpr()
	}

	con := &converter{
		resolver: resolver,
	}

	return con.visit(expr)
}

type converter struct {
	resolver ColumnResolver
}

func (con *converter) visit(expr *exprpb.Expr) (ast.Node, error) {
	switch expr.ExprKind.(type) {
	case *exprpb.Expr_CallExpr:
		if !isIndexCall(expr) {
			return con.visitCall(expr)
		}
	case *exprpb.Expr_ConstExpr:
		return con.visitConst(expr)
	}

	if isReference(expr) {
		return nil, fmt.Errorf("%w: reference %s must be compared with a value", ErrUnsupportedExpression, describeReference(expr))
	}

	return nil, fmt.Errorf("%w: %T", ErrUnsupportedExpression, expr.GetExprKind())
}

func (con *converter) visitCall(expr *exprpb.Expr) (ast.Node, error) {
	c := expr.GetCallExpr()
	fun := c.GetFunction()
	args := c.GetArgs()

	switch fun {
	case operators.LogicalAnd, operators.LogicalOr:
		return con.visitCallLogical(fun, args)
	case operators.LogicalNot:
		operand, err := con.visit(args[0])
		if err != nil {
			return nil, err
		}
		return ast.Not{Expr: operand}, nil
	case operators.Equals:
		return con.visitCallEquality(args, false)
	case operators.NotEquals:
		return con.visitCallEquality(args, true)
	case operators.Less, operators.LessEquals, operators.Greater, operators.GreaterEquals:
		return con.visitCallOrdering(fun, args)
	default:
		return nil, fmt.Errorf("%w: function %s", ErrUnsupportedExpression, fun)
	}
}

func (con *converter) visitCallLogical(fun string, args []*exprpb.Expr) (ast.Node, error) {
	lhs, err := con.visit(args[0])
	if err != nil {
		return nil, err
	}

	rhs, err := con.visit(args[1])
	if err != nil {
		return nil, err
	}

	if fun == operators.LogicalOr {
		return ast.Or{Left: lhs, Right: rhs}, nil
	}

	return ast.Conjunction(lhs, rhs), nil
}

func (con *converter) visitCallEquality(args []*exprpb.Expr, negate bool) (ast.Node, error) {
	attribute, value, _, err := con.operands(args)
	if err != nil {
		return nil, err
	}

	predicate, err := attribute.CompareWith(ValueOf(textValue(attribute, value)))
	if err != nil {
		return nil, err
	}

	if !negate {
		return predicate, nil
	}

	if not, isNot := predicate.(ast.Not); isNot {
		return not.Expr, nil
	}

	return ast.Not{Expr: predicate}, nil
}

// textValue rewrites scalar literals that the lookup would otherwise compare
// as text against a boolean or number. jsonb keeps integers, which it compares
// as jsonb values.
func textValue(attribute Comparable, value any) any {
	switch typedValue := value.(type) {
	case bool:
		return strconv.FormatBool(typedValue)
	case float64:
		return strconv.FormatFloat(typedValue, 'f', -1, 64)
	case int64, uint64:
		switch attribute.(type) {
		case JSONB, JSONBContainer:
			return value
		}
		return fmt.Sprint(typedValue)
	}
	return value
}

var orderingOperators = map[string]string{
	operators.Less:          "<",
	operators.LessEquals:    "<=",
	operators.Greater:       ">",
	operators.GreaterEquals: ">=",
}

// mirroredOperators flips an ordering when the literal is on the left.
var mirroredOperators = map[string]string{
	"<":  ">",
	"<=": ">=",
	">":  "<",
	">=": "<=",
}

func (con *converter) visitCallOrdering(fun string, args []*exprpb.Expr) (ast.Node, error) {
	attribute, value, swapped, err := con.operands(args)
	if err != nil {
		return nil, err
	}

	operator := orderingOperators[fun]
	if swapped {
		operator = mirroredOperators[operator]
	}

	var left ast.Node = attribute

	switch typedValue := value.(type) {
	case string:
	case int64, uint64, float64:
		// Extracted values are text; compare numerically
		left = ast.InfixOperation{Operator: "::", Left: attribute, Right: ast.SQLLiteral("numeric")}
	default:
		return nil, fmt.Errorf("%w: ordering against %T", ErrUnsupportedExpression, typedValue)
	}

	return ast.Comparison{Operator: operator, Left: left, Right: ast.Quote(value)}, nil
}

// operands splits a binary comparison into its reference and literal sides.
// swapped is true when the literal was written first.
func (con *converter) operands(args []*exprpb.Expr) (Comparable, any, bool, error) {
	lhs, rhs := args[0], args[1]
	swapped := false

	if !isReference(lhs) {
		lhs, rhs = rhs, lhs
		swapped = true
	}

	if !isReference(lhs) {
		return nil, nil, false, fmt.Errorf("%w: comparison needs a column reference on one side", ErrUnsupportedExpression)
	}

	attribute, err := con.resolve(lhs)
	if err != nil {
		return nil, nil, false, err
	}

	value, err := con.value(rhs)
	if err != nil {
		return nil, nil, false, err
	}

	return attribute, value, swapped, nil
}

func (con *converter) resolve(expr *exprpb.Expr) (Comparable, error) {
	path, err := referencePath(expr)
	if err != nil {
		return nil, err
	}

	if len(path) < 3 {
		return nil, fmt.Errorf("%w: reference %s needs table.column.locale", ErrUnsupportedExpression, strings.Join(path, "."))
	}

	table, columnName := path[0], path[1]

	for _, name := range []string{table, columnName} {
		if err := validateFieldName(name); err != nil {
			return nil, err
		}
	}

	binding, found := con.resolver.ResolveColumn(table, columnName)
	if !found {
		return nil, fmt.Errorf("%w: %s.%s", ErrUnknownColumn, table, columnName)
	}

	column := ast.NewColumn(table, columnName)

	if binding.Container {
		if len(path) != 4 {
			return nil, fmt.Errorf("%w: container reference %s needs table.column.locale.attr", ErrUnsupportedExpression, strings.Join(path, "."))
		}

		return binding.Storage.Container(column, path[2], path[3])
	}

	if len(path) != 3 {
		return nil, fmt.Errorf("%w: reference %s needs table.column.locale", ErrUnsupportedExpression, strings.Join(path, "."))
	}

	return binding.Storage.Attribute(column, path[2])
}

func (con *converter) visitConst(expr *exprpb.Expr) (ast.Node, error) {
	constant := expr.GetConstExpr()

	if boolValue, isBool := constant.ConstantKind.(*exprpb.Constant_BoolValue); isBool {
		if boolValue.BoolValue {
			return ast.SQLLiteral("TRUE"), nil
		}
		return ast.SQLLiteral("FALSE"), nil
	}

	return nil, fmt.Errorf("%w: constant %T used as a predicate", ErrUnsupportedExpression, constant.ConstantKind)
}

// value converts a literal expression into a Go value for ValueOf.
func (con *converter) value(expr *exprpb.Expr) (any, error) {
	switch expr.ExprKind.(type) {
	case *exprpb.Expr_ConstExpr:
		return constantValue(expr.GetConstExpr())

	case *exprpb.Expr_ListExpr:
		elements := expr.GetListExpr().GetElements()
		values := make([]any, 0, len(elements))

		for _, element := range elements {
			value, err := con.value(element)
			if err != nil {
				return nil, err
			}
			values = append(values, value)
		}

		return values, nil

	case *exprpb.Expr_StructExpr:
		structExpr := expr.GetStructExpr()
		if structExpr.GetMessageName() != "" {
			return nil, fmt.Errorf("%w: message literal %s", ErrUnsupportedExpression, structExpr.GetMessageName())
		}

		values := make(map[string]any, len(structExpr.GetEntries()))

		for _, entry := range structExpr.GetEntries() {
			key, isString := stringLiteral(entry.GetMapKey())
			if !isString {
				return nil, fmt.Errorf("%w: map literal keys must be strings", ErrUnsupportedExpression)
			}

			value, err := con.value(entry.GetValue())
			if err != nil {
				return nil, err
			}
			values[key] = value
		}

		return values, nil
	}

	return nil, fmt.Errorf("%w: comparison value must be a literal", ErrUnsupportedExpression)
}

func constantValue(constant *exprpb.Constant) (any, error) {
	switch typedConstant := constant.ConstantKind.(type) {
	case *exprpb.Constant_NullValue:
		return nil, nil
	case *exprpb.Constant_BoolValue:
		return typedConstant.BoolValue, nil
	case *exprpb.Constant_Int64Value:
		return typedConstant.Int64Value, nil
	case *exprpb.Constant_Uint64Value:
		return typedConstant.Uint64Value, nil
	case *exprpb.Constant_DoubleValue:
		return typedConstant.DoubleValue, nil
	case *exprpb.Constant_StringValue:
		return typedConstant.StringValue, nil
	default:
		return nil, fmt.Errorf("%w: constant %T", ErrUnsupportedExpression, constant.ConstantKind)
	}
}
