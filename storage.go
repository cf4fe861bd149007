package pgattr

import (
	"fmt"
	"strings"

	"github.com/spandigital/pgattr/ast"
)

// Storage is the PostgreSQL type of a column holding locale-keyed values.
type Storage int

const (
	StorageJSON Storage = iota + 1
	StorageJSONB
	StorageHstore
)

func (s Storage) String() string {
	switch s {
	case StorageJSON:
		return "json"
	case StorageJSONB:
		return "jsonb"
	case StorageHstore:
		return "hstore"
	default:
		return fmt.Sprintf("Storage(%d)", int(s))
	}
}

// ParseStorage maps a PostgreSQL type or udt name to a Storage.
func ParseStorage(typeName string) (Storage, error) {
	switch strings.ToLower(strings.TrimSpace(typeName)) {
	case "json":
		return StorageJSON, nil
	case "jsonb":
		return StorageJSONB, nil
	case "hstore":
		return StorageHstore, nil
	default:
		return 0, fmt.Errorf("%w: column type %q", ErrUnsupportedStorage, typeName)
	}
}

// Attribute builds the lookup for a column that holds one attribute keyed by
// locale: {"<locale>": value}
func (s Storage) Attribute(column ast.Node, locale string) (Comparable, error) {
	localeKey := ast.Quote(locale)

	switch s {
	case StorageJSON:
		return NewJSON(column, localeKey), nil
	case StorageJSONB:
		return NewJSONB(column, localeKey), nil
	case StorageHstore:
		return NewHstore(column, localeKey), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedStorage, s)
	}
}

// Container builds the lookup for a column that holds every attribute for
// every locale: {"<locale>": {"<attr>": value}}
func (s Storage) Container(column ast.Node, locale, attr string) (Comparable, error) {
	switch s {
	case StorageJSON:
		return NewJSONContainer(column, locale, attr), nil
	case StorageJSONB:
		return NewJSONBContainer(column, locale, attr), nil
	default:
		return nil, fmt.Errorf("%w: %s cannot hold nested containers", ErrUnsupportedStorage, s)
	}
}

// ColumnBinding describes how a column stores localized values.
type ColumnBinding struct {
	Storage   Storage
	Container bool
}

// ColumnResolver finds the binding for a table column.
type ColumnResolver interface {
	ResolveColumn(table, column string) (ColumnBinding, bool)
}

// Bindings is a static ColumnResolver keyed by "table.column".
type Bindings map[string]ColumnBinding

func (s Bindings) ResolveColumn(table, column string) (ColumnBinding, bool) {
	binding, found := s[table+"."+column]
	return binding, found
}
