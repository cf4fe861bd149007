package pgattr

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/google/cel-go/common/operators"
	exprpb "google.golang.org/genproto/googleapis/api/expr/v1alpha1"
)

// Expression type checking utilities

// isIndexCall checks if an expression is a map index like column["en"]
func isIndexCall(expr *exprpb.Expr) bool {
	call := expr.GetCallExpr()
	return call != nil && call.GetFunction() == operators.Index && len(call.GetArgs()) == 2
}

// isReference checks if an expression names a column path rather than a value
func isReference(expr *exprpb.Expr) bool {
	switch expr.GetExprKind().(type) {
	case *exprpb.Expr_IdentExpr, *exprpb.Expr_SelectExpr:
		return true
	case *exprpb.Expr_CallExpr:
		return isIndexCall(expr)
	}
	return false
}

// stringLiteral returns the value of a string constant expression
func stringLiteral(expr *exprpb.Expr) (string, bool) {
	stringValue, isString := expr.GetConstExpr().GetConstantKind().(*exprpb.Constant_StringValue)
	if !isString {
		return "", false
	}
	return stringValue.StringValue, true
}

// referencePath flattens ident, select and index chains into path segments
func referencePath(expr *exprpb.Expr) ([]string, error) {
	switch expr.GetExprKind().(type) {
	case *exprpb.Expr_IdentExpr:
		return []string{expr.GetIdentExpr().GetName()}, nil

	case *exprpb.Expr_SelectExpr:
		selectExpr := expr.GetSelectExpr()
		if selectExpr.GetTestOnly() {
			return nil, fmt.Errorf("%w: has() is not supported", ErrUnsupportedExpression)
		}

		path, err := referencePath(selectExpr.GetOperand())
		if err != nil {
			return nil, err
		}
		return append(path, selectExpr.GetField()), nil

	case *exprpb.Expr_CallExpr:
		if !isIndexCall(expr) {
			break
		}

		args := expr.GetCallExpr().GetArgs()
		key, isString := stringLiteral(args[1])
		if !isString {
			return nil, fmt.Errorf("%w: index keys must be string literals", ErrUnsupportedExpression)
		}

		path, err := referencePath(args[0])
		if err != nil {
			return nil, err
		}
		return append(path, key), nil
	}

	return nil, errors.New("expression is not a column reference")
}

// describeReference renders a reference path for error messages
func describeReference(expr *exprpb.Expr) string {
	path, err := referencePath(expr)
	if err != nil {
		return "<invalid>"
	}
	return strings.Join(path, ".")
}

// Field name validation

var fieldNameRegexp = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]{0,62}$`)

// validateFieldName validates that a table or column name follows PostgreSQL naming conventions
func validateFieldName(name string) error {
	if !fieldNameRegexp.MatchString(name) {
		return fmt.Errorf("invalid field name \"%s\"", name)
	}
	return nil
}
