// Package pg provides a PostgreSQL schema provider for localized columns. It
// tells the CEL type checker what each column holds and resolves columns to
// their storage type for pgattr.Convert.
package pg

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"strings"
	"sync"

	"github.com/google/cel-go/common/types"
	"github.com/google/cel-go/common/types/ref"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spandigital/pgattr"
)

// FieldSchema represents a PostgreSQL column.
type FieldSchema struct {
	Name      string
	Type      string // PostgreSQL type name (text, jsonb, hstore, etc.)
	Repeated  bool   // true for arrays
	Container bool   // json/jsonb column keyed by locale, then attribute
}

// Schema represents a PostgreSQL table schema as a slice of field schemas.
type Schema []FieldSchema

// TypeProvider interface for PostgreSQL type providers
type TypeProvider interface {
	types.Provider
	pgattr.ColumnResolver
	LoadTableSchema(ctx context.Context, tableName string) error
	MarkContainer(tableName, columnName string) error
	Close()
}

// Option configures a TypeProvider.
type Option func(*typeProvider)

// WithLogger sets the logger used for schema loading. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(p *typeProvider) {
		if logger != nil {
			p.logger = logger
		}
	}
}

type typeProvider struct {
	lock    sync.RWMutex
	schemas map[string]Schema
	pool    *pgxpool.Pool
	logger  *slog.Logger
}

func newTypeProvider(schemas map[string]Schema, opts []Option) *typeProvider {
	p := &typeProvider{
		schemas: schemas,
		logger:  slog.Default(),
	}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

// NewTypeProvider creates a new PostgreSQL type provider with pre-defined
// schemas. The map is copied; MarkContainer never changes the caller's slices.
func NewTypeProvider(schemas map[string]Schema, opts ...Option) TypeProvider {
	copied := maps.Clone(schemas)
	if copied == nil {
		copied = make(map[string]Schema)
	}

	return newTypeProvider(copied, opts)
}

// NewTypeProviderWithConnection creates a new PostgreSQL type provider that can introspect database schemas
func NewTypeProviderWithConnection(ctx context.Context, connectionString string, opts ...Option) (TypeProvider, error) {
	pool, err := pgxpool.New(ctx, connectionString)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	p := newTypeProvider(make(map[string]Schema), opts)
	p.pool = pool

	return p, nil
}

const tableSchemaQuery = `
	SELECT column_name, data_type, udt_name
	FROM information_schema.columns
	WHERE table_name = $1
	ORDER BY ordinal_position
`

// columnType picks the type name used for a column. Extension types such as
// hstore report USER-DEFINED as their data_type; arrays report ARRAY and an
// underscore-prefixed element udt_name.
func columnType(dataType, udtName string) string {
	switch dataType {
	case "USER-DEFINED":
		return udtName
	case "ARRAY":
		return strings.TrimPrefix(udtName, "_")
	default:
		return dataType
	}
}

// LoadTableSchema loads schema information for a table from the database.
// Container marks set on a previously loaded schema are kept.
func (p *typeProvider) LoadTableSchema(ctx context.Context, tableName string) error {
	if p.pool == nil {
		return errors.New("no database connection available")
	}

	rows, err := p.pool.Query(ctx, tableSchemaQuery, tableName)
	if err != nil {
		return fmt.Errorf("failed to query table schema: %w", err)
	}
	defer rows.Close()

	var schema Schema
	for rows.Next() {
		var columnName, dataType, udtName string

		if err := rows.Scan(&columnName, &dataType, &udtName); err != nil {
			return fmt.Errorf("failed to scan row: %w", err)
		}

		schema = append(schema, FieldSchema{
			Name:     columnName,
			Type:     columnType(dataType, udtName),
			Repeated: dataType == "ARRAY",
		})
	}

	if err := rows.Err(); err != nil {
		return fmt.Errorf("error iterating rows: %w", err)
	}

	p.lock.Lock()
	defer p.lock.Unlock()

	for idx, field := range schema {
		if previous, found := findField(p.schemas[tableName], field.Name); found {
			schema[idx].Container = previous.Container
		}
	}

	p.schemas[tableName] = schema

	p.logger.Debug("loaded table schema", "table", tableName, "columns", len(schema))
	return nil
}

// MarkContainer flags a json or jsonb column as holding every attribute for
// every locale. Stored schemas are replaced, never modified, so readers may
// keep using a schema after releasing the lock.
func (p *typeProvider) MarkContainer(tableName, columnName string) error {
	p.lock.Lock()
	defer p.lock.Unlock()

	schema := p.schemas[tableName]
	for idx, field := range schema {
		if field.Name != columnName {
			continue
		}

		storage, err := pgattr.ParseStorage(field.Type)
		if err != nil {
			return err
		}

		if storage == pgattr.StorageHstore {
			return fmt.Errorf("%w: %s.%s is hstore", pgattr.ErrUnsupportedStorage, tableName, columnName)
		}

		schema = slices.Clone(schema)
		schema[idx].Container = true
		p.schemas[tableName] = schema
		return nil
	}

	return fmt.Errorf("%w: %s.%s", pgattr.ErrUnknownColumn, tableName, columnName)
}

// ResolveColumn reports how a column stores localized values. Columns that
// are not json, jsonb or hstore are not found.
func (p *typeProvider) ResolveColumn(tableName, columnName string) (pgattr.ColumnBinding, bool) {
	field, found := p.findStructField(tableName, columnName)
	if !found || field.Repeated {
		return pgattr.ColumnBinding{}, false
	}

	storage, err := pgattr.ParseStorage(field.Type)
	if err != nil {
		return pgattr.ColumnBinding{}, false
	}

	return pgattr.ColumnBinding{Storage: storage, Container: field.Container}, true
}

// Close closes the database connection pool
func (p *typeProvider) Close() {
	if p.pool != nil {
		p.pool.Close()
	}
}

func findField(schema Schema, fieldName string) (FieldSchema, bool) {
	for _, field := range schema {
		if field.Name == fieldName {
			return field, true
		}
	}
	return FieldSchema{}, false
}

func (p *typeProvider) findSchema(typeName string) (Schema, bool) {
	p.lock.RLock()
	defer p.lock.RUnlock()

	schema, found := p.schemas[typeName]
	return schema, found
}

func (p *typeProvider) findStructField(structType, fieldName string) (FieldSchema, bool) {
	p.lock.RLock()
	defer p.lock.RUnlock()

	return findField(p.schemas[structType], fieldName)
}

func (p *typeProvider) EnumValue(enumName string) ref.Val {
	return types.NewErr("unknown enum name '%s'", enumName)
}

func (p *typeProvider) FindIdent(_ string) (ref.Val, bool) {
	return nil, false
}

func (p *typeProvider) FindStructType(structType string) (*types.Type, bool) {
	_, found := p.findSchema(structType)
	if !found {
		return nil, false
	}
	return types.NewObjectType(structType), true
}

func (p *typeProvider) FindStructFieldNames(structType string) ([]string, bool) {
	schema, found := p.findSchema(structType)
	if !found {
		return nil, false
	}

	fieldNames := make([]string, len(schema))
	for i, field := range schema {
		fieldNames[i] = field.Name
	}
	return fieldNames, true
}

// celType maps a PostgreSQL column type to the CEL type the checker sees.
func celType(typeName string) *types.Type {
	switch typeName {
	case "text", "varchar", "char", "character varying", "character", "bpchar":
		return types.StringType
	case "bytea":
		return types.BytesType
	case "boolean", "bool":
		return types.BoolType
	case "integer", "int", "int4", "bigint", "int8", "smallint", "int2":
		return types.IntType
	case "real", "float4", "double precision", "float8", "numeric", "decimal":
		return types.DoubleType
	case "timestamp", "timestamptz", "timestamp with time zone", "timestamp without time zone":
		return types.TimestampType
	case "json", "jsonb":
		// Locale and attribute keys are only known at query time
		return types.DynType
	case "hstore":
		return types.NewMapType(types.StringType, types.StringType)
	default:
		// Default to string for unknown types
		return types.StringType
	}
}

func (p *typeProvider) FindStructFieldType(structType, fieldName string) (*types.FieldType, bool) {
	field, found := p.findStructField(structType, fieldName)
	if !found {
		return nil, false
	}

	fieldType := celType(field.Type)
	if field.Repeated {
		fieldType = types.NewListType(fieldType)
	}

	return &types.FieldType{
		Type: fieldType,
	}, true
}

func (p *typeProvider) NewValue(structType string, _ map[string]ref.Val) ref.Val {
	return types.NewErr("unknown type '%s'", structType)
}

var _ types.Provider = new(typeProvider)
