package pgattr

import (
	"encoding"
	"encoding/json"
	"fmt"
	"reflect"

	"github.com/spandigital/pgattr/ast"
)

// ComparisonValueKind classifies the right-hand side of a comparison. The set
// is closed; every CompareWith implementation switches over all of it.
type ComparisonValueKind int

const (
	KindNull ComparisonValueKind = iota
	KindNumber
	KindSequence
	KindMapping
	KindScalar
)

func (s ComparisonValueKind) String() string {
	switch s {
	case KindNull:
		return "null"
	case KindNumber:
		return "number"
	case KindSequence:
		return "sequence"
	case KindMapping:
		return "mapping"
	case KindScalar:
		return "scalar"
	default:
		return fmt.Sprintf("ComparisonValueKind(%d)", int(s))
	}
}

// ComparisonValue is a right-hand comparison operand tagged with its kind.
type ComparisonValue struct {
	Kind  ComparisonValueKind
	Value any
}

// Null is the comparison value for "no value".
var Null = ComparisonValue{Kind: KindNull}

// ValueOf classifies value. Integers are numbers; floats, strings, booleans,
// byte slices and ast nodes are scalars compared as text. So are values with a
// text form, such as time.Time, which would otherwise be treated as mappings.
func ValueOf(value any) ComparisonValue {
	if value == nil {
		return Null
	}

	if _, isNode := value.(ast.Node); isNode {
		return ComparisonValue{Kind: KindScalar, Value: value}
	}

	if _, isBytes := value.([]byte); isBytes {
		return ComparisonValue{Kind: KindScalar, Value: value}
	}

	reflectValue := reflect.ValueOf(value)

	if reflectValue.Kind() == reflect.Pointer {
		if reflectValue.IsNil() {
			return Null
		}

		return ValueOf(reflectValue.Elem().Interface())
	}

	if _, isText := value.(encoding.TextMarshaler); isText {
		return ComparisonValue{Kind: KindScalar, Value: value}
	}

	switch reflectValue.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return ComparisonValue{Kind: KindNumber, Value: value}

	case reflect.Slice:
		if reflectValue.IsNil() {
			return Null
		}

		return ComparisonValue{Kind: KindSequence, Value: value}

	case reflect.Array:
		return ComparisonValue{Kind: KindSequence, Value: value}

	case reflect.Map:
		if reflectValue.IsNil() {
			return Null
		}

		return ComparisonValue{Kind: KindMapping, Value: value}

	case reflect.Struct:
		return ComparisonValue{Kind: KindMapping, Value: value}

	default:
		return ComparisonValue{Kind: KindScalar, Value: value}
	}
}

// jsonText serializes the comparison value to JSON text.
func (s ComparisonValue) jsonText() (string, error) {
	encoded, err := json.Marshal(s.Value)
	if err != nil {
		return "", fmt.Errorf("%w: %T: %v", ErrValueEncoding, s.Value, err)
	}

	return string(encoded), nil
}

func unknownKind(kind ComparisonValueKind) error {
	return fmt.Errorf("unknown comparison value kind: %s", kind)
}
