package ast

import "reflect"

// Quote wraps a Go value for use as a right-hand operand. Nodes pass through
// untouched and nil (including typed nil pointers) becomes Null.
func Quote(value any) Node {
	switch typedValue := value.(type) {
	case nil:
		return Null{}
	case Node:
		return typedValue
	}

	if reflectValue := reflect.ValueOf(value); reflectValue.Kind() == reflect.Pointer {
		if reflectValue.IsNil() {
			return Null{}
		}

		return Quote(reflectValue.Elem().Interface())
	}

	return Quoted{Value: value}
}

func Eq(left Node, right any) Node {
	return Equality{Left: left, Right: Quote(right)}
}

func NotEq(left Node, right any) Node {
	return NotEqual{Left: left, Right: Quote(right)}
}

func Gt(left Node, right any) Node {
	return Comparison{Operator: ">", Left: left, Right: Quote(right)}
}

func Gteq(left Node, right any) Node {
	return Comparison{Operator: ">=", Left: left, Right: Quote(right)}
}

func Lt(left Node, right any) Node {
	return Comparison{Operator: "<", Left: left, Right: Quote(right)}
}

func Lteq(left Node, right any) Node {
	return Comparison{Operator: "<=", Left: left, Right: Quote(right)}
}

// Matches is a case-insensitive pattern match.
func Matches(left Node, pattern string) Node {
	return Comparison{Operator: "ILIKE", Left: left, Right: Quote(pattern)}
}

func In(left Node, values ...any) Node {
	quoted := make([]Node, len(values))

	for idx, value := range values {
		quoted[idx] = Quote(value)
	}

	return InList{Left: left, Values: quoted}
}

func Asc(expr Node) Node {
	return Ascending{Expr: expr}
}

func Desc(expr Node) Node {
	return Descending{Expr: expr}
}

func As(expr Node, alias string) Node {
	return Alias{Expr: expr, Name: alias}
}

func Lower(expr Node) Node {
	return NamedFunction{Name: "LOWER", Arguments: []Node{expr}}
}

// Conjunction joins predicates with AND, dropping nil entries. A single
// predicate is returned as is.
func Conjunction(predicates ...Node) Node {
	var children []Node

	for _, predicate := range predicates {
		if predicate != nil {
			children = append(children, predicate)
		}
	}

	switch len(children) {
	case 0:
		return nil
	case 1:
		return children[0]
	default:
		return And{Children: children}
	}
}
