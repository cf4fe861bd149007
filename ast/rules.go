package ast

import (
	"encoding"
	"encoding/hex"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

var baseRules = map[string]RenderFunc{
	"column":          renderColumn,
	"quoted":          renderQuoted,
	"casted":          renderCasted,
	"null":            renderNull,
	"sql_literal":     renderSQLLiteral,
	"equality":        renderEquality,
	"not_equal":       renderNotEqual,
	"comparison":      renderComparison,
	"in":              renderIn,
	"not":             renderNot,
	"or":              renderOr,
	"and":             renderAnd,
	"grouping":        renderGrouping,
	"infix_operation": renderInfixOperation,
	"ascending":       renderAscending,
	"descending":      renderDescending,
	"as":              renderAlias,
	"named_function":  renderNamedFunction,
}

func unexpectedNode(expected string, node Node) error {
	return fmt.Errorf("rule for %s received %T", expected, node)
}

func renderColumn(collector *Collector, node Node) error {
	column, ok := node.(Column)
	if !ok {
		return unexpectedNode("column", node)
	}

	if column.Table != "" {
		collector.Write(collector.QuoteIdentifier(column.Table), ".")
	}

	collector.Write(collector.QuoteIdentifier(column.Name))
	return nil
}

func quoteString(value string) string {
	return "'" + strings.ReplaceAll(value, "'", "''") + "'"
}

// literalText returns the unquoted text form of a literal value and whether
// that text must be wrapped in string quotes.
func literalText(dialect Dialect, value any) (string, bool, error) {
	switch typedValue := value.(type) {
	case string:
		return typedValue, true, nil
	case bool:
		if typedValue {
			return "TRUE", false, nil
		}
		return "FALSE", false, nil
	case int:
		return strconv.FormatInt(int64(typedValue), 10), false, nil
	case int8:
		return strconv.FormatInt(int64(typedValue), 10), false, nil
	case int16:
		return strconv.FormatInt(int64(typedValue), 10), false, nil
	case int32:
		return strconv.FormatInt(int64(typedValue), 10), false, nil
	case int64:
		return strconv.FormatInt(typedValue, 10), false, nil
	case uint:
		return strconv.FormatUint(uint64(typedValue), 10), false, nil
	case uint8:
		return strconv.FormatUint(uint64(typedValue), 10), false, nil
	case uint16:
		return strconv.FormatUint(uint64(typedValue), 10), false, nil
	case uint32:
		return strconv.FormatUint(uint64(typedValue), 10), false, nil
	case uint64:
		return strconv.FormatUint(typedValue, 10), false, nil
	case float32:
		return floatText(dialect, float64(typedValue), 32)
	case float64:
		return floatText(dialect, typedValue, 64)
	case time.Time:
		return typedValue.UTC().Format("2006-01-02 15:04:05.999999"), true, nil
	case encoding.TextMarshaler:
		text, err := typedValue.MarshalText()
		if err != nil {
			return "", false, fmt.Errorf("%w: %T: %v", ErrUnsupportedLiteral, value, err)
		}
		return string(text), true, nil
	case []byte:
		if dialect == PostgreSQL {
			return `\x` + hex.EncodeToString(typedValue), true, nil
		}
	}

	return "", false, fmt.Errorf("%w: %T", ErrUnsupportedLiteral, value)
}

// floatText renders special float values as the quoted strings PostgreSQL
// accepts for numeric and float input. Other dialects have no such literal.
func floatText(dialect Dialect, value float64, bitSize int) (string, bool, error) {
	if !math.IsNaN(value) && !math.IsInf(value, 0) {
		return strconv.FormatFloat(value, 'f', -1, bitSize), false, nil
	}

	if dialect != PostgreSQL {
		return "", false, fmt.Errorf("%w: %v", ErrUnsupportedLiteral, value)
	}

	switch {
	case math.IsNaN(value):
		return "NaN", true, nil
	case value > 0:
		return "Infinity", true, nil
	default:
		return "-Infinity", true, nil
	}
}

func renderQuoted(collector *Collector, node Node) error {
	quoted, ok := node.(Quoted)
	if !ok {
		return unexpectedNode("quoted", node)
	}

	if bytes, isBytes := quoted.Value.([]byte); isBytes && collector.Dialect() != PostgreSQL {
		collector.Write("X'", hex.EncodeToString(bytes), "'")
		return nil
	}

	text, needsQuotes, err := literalText(collector.Dialect(), quoted.Value)
	if err != nil {
		return err
	}

	if needsQuotes {
		text = quoteString(text)
	}

	collector.Write(text)
	return nil
}

func renderCasted(collector *Collector, node Node) error {
	casted, ok := node.(Casted)
	if !ok {
		return unexpectedNode("casted", node)
	}

	text, _, err := literalText(collector.Dialect(), casted.Value)
	if err != nil {
		return err
	}

	if collector.Dialect() == MySQL {
		collector.Write("CAST(", quoteString(text), " AS ", casted.TypeName, ")")
	} else {
		collector.Write(quoteString(text), "::", casted.TypeName)
	}

	return nil
}

func renderNull(collector *Collector, _ Node) error {
	collector.Write("NULL")
	return nil
}

func renderSQLLiteral(collector *Collector, node Node) error {
	literal, ok := node.(SQLLiteral)
	if !ok {
		return unexpectedNode("sql_literal", node)
	}

	collector.Write(string(literal))
	return nil
}

func isNull(node Node) bool {
	_, null := node.(Null)
	return null
}

func renderEquality(collector *Collector, node Node) error {
	equality, ok := node.(Equality)
	if !ok {
		return unexpectedNode("equality", node)
	}

	if err := collector.Visit(equality.Left); err != nil {
		return err
	}

	if isNull(equality.Right) {
		collector.Write(" IS NULL")
		return nil
	}

	collector.Write(" = ")
	return collector.Visit(equality.Right)
}

func renderNotEqual(collector *Collector, node Node) error {
	notEqual, ok := node.(NotEqual)
	if !ok {
		return unexpectedNode("not_equal", node)
	}

	if err := collector.Visit(notEqual.Left); err != nil {
		return err
	}

	if isNull(notEqual.Right) {
		collector.Write(" IS NOT NULL")
		return nil
	}

	collector.Write(" != ")
	return collector.Visit(notEqual.Right)
}

func renderComparison(collector *Collector, node Node) error {
	comparison, ok := node.(Comparison)
	if !ok {
		return unexpectedNode("comparison", node)
	}

	if err := collector.Visit(comparison.Left); err != nil {
		return err
	}

	collector.Write(" ", comparison.Operator, " ")
	return collector.Visit(comparison.Right)
}

func renderIn(collector *Collector, node Node) error {
	in, ok := node.(InList)
	if !ok {
		return unexpectedNode("in", node)
	}

	// An empty list can never match
	if len(in.Values) == 0 {
		collector.Write("1=0")
		return nil
	}

	if err := collector.Visit(in.Left); err != nil {
		return err
	}

	collector.Write(" IN (")

	for idx, value := range in.Values {
		if idx > 0 {
			collector.Write(", ")
		}

		if err := collector.Visit(value); err != nil {
			return err
		}
	}

	collector.Write(")")
	return nil
}

func renderNot(collector *Collector, node Node) error {
	not, ok := node.(Not)
	if !ok {
		return unexpectedNode("not", node)
	}

	collector.Write("NOT ")

	// NOT binds tighter than AND
	if _, isAnd := not.Expr.(And); isAnd {
		collector.Write("(")

		if err := collector.Visit(not.Expr); err != nil {
			return err
		}

		collector.Write(")")
		return nil
	}

	return collector.Visit(not.Expr)
}

func renderOr(collector *Collector, node Node) error {
	or, ok := node.(Or)
	if !ok {
		return unexpectedNode("or", node)
	}

	collector.Write("(")

	if err := collector.Visit(or.Left); err != nil {
		return err
	}

	collector.Write(" OR ")

	if err := collector.Visit(or.Right); err != nil {
		return err
	}

	collector.Write(")")
	return nil
}

func renderAnd(collector *Collector, node Node) error {
	and, ok := node.(And)
	if !ok {
		return unexpectedNode("and", node)
	}

	for idx, child := range and.Children {
		if idx > 0 {
			collector.Write(" AND ")
		}

		if err := collector.Visit(child); err != nil {
			return err
		}
	}

	return nil
}

func renderGrouping(collector *Collector, node Node) error {
	grouping, ok := node.(Grouping)
	if !ok {
		return unexpectedNode("grouping", node)
	}

	collector.Write("(")

	if err := collector.Visit(grouping.Expr); err != nil {
		return err
	}

	collector.Write(")")
	return nil
}

func renderInfixOperation(collector *Collector, node Node) error {
	infix, ok := node.(InfixOperation)
	if !ok {
		return unexpectedNode("infix_operation", node)
	}

	if err := collector.Visit(infix.Left); err != nil {
		return err
	}

	collector.Write(" ", infix.Operator, " ")
	return collector.Visit(infix.Right)
}

func renderAscending(collector *Collector, node Node) error {
	ascending, ok := node.(Ascending)
	if !ok {
		return unexpectedNode("ascending", node)
	}

	if err := collector.Visit(ascending.Expr); err != nil {
		return err
	}

	collector.Write(" ASC")
	return nil
}

func renderDescending(collector *Collector, node Node) error {
	descending, ok := node.(Descending)
	if !ok {
		return unexpectedNode("descending", node)
	}

	if err := collector.Visit(descending.Expr); err != nil {
		return err
	}

	collector.Write(" DESC")
	return nil
}

func renderAlias(collector *Collector, node Node) error {
	alias, ok := node.(Alias)
	if !ok {
		return unexpectedNode("as", node)
	}

	if err := collector.Visit(alias.Expr); err != nil {
		return err
	}

	collector.Write(" AS ", collector.QuoteIdentifier(alias.Name))
	return nil
}

func renderNamedFunction(collector *Collector, node Node) error {
	function, ok := node.(NamedFunction)
	if !ok {
		return unexpectedNode("named_function", node)
	}

	collector.Write(function.Name, "(")

	for idx, argument := range function.Arguments {
		if idx > 0 {
			collector.Write(", ")
		}

		if err := collector.Visit(argument); err != nil {
			return err
		}
	}

	collector.Write(")")
	return nil
}
