package pgattr

import "errors"

var (
	// ErrUnsupportedDialect is returned when the operator rules are installed
	// into a visitor for a dialect other than PostgreSQL.
	ErrUnsupportedDialect = errors.New("pgattr: operator rules require the postgresql dialect")

	// ErrValueEncoding is returned when a comparison value cannot be
	// serialized to JSON.
	ErrValueEncoding = errors.New("pgattr: unable to encode comparison value as json")

	// ErrUnsupportedStorage is returned for column types that have no
	// operator family, or layouts the storage type cannot express.
	ErrUnsupportedStorage = errors.New("pgattr: unsupported storage")

	// ErrUnsupportedExpression is returned by Convert for CEL constructs that
	// have no SQL form here.
	ErrUnsupportedExpression = errors.New("pgattr: unsupported expression")

	// ErrUnknownColumn is returned by Convert when a reference does not
	// resolve to a semi-structured column.
	ErrUnknownColumn = errors.New("pgattr: unknown column")
)
