package pgattr_test

import (
	"net/netip"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spandigital/pgattr"
	"github.com/spandigital/pgattr/ast"
)

func TestJSONB_CompareWith(t *testing.T) {
	node := pgattr.NewJSONB(data, ast.Quote("count"))

	tests := []struct {
		name    string
		other   any
		want    string
		wantErr error
	}{
		{
			name:  "null",
			other: nil,
			want:  `NOT ("data" ? 'count')`,
		},
		{
			name:  "integer",
			other: 3,
			want:  `("data" -> 'count') = '3'::jsonb`,
		},
		{
			name:  "negative_integer",
			other: int64(-12),
			want:  `("data" -> 'count') = '-12'::jsonb`,
		},
		{
			name:  "list",
			other: []any{1, "two"},
			want:  `("data" -> 'count') = '[1,"two"]'::jsonb`,
		},
		{
			name:  "mapping",
			other: map[string]any{"a": 1},
			want:  `("data" -> 'count') = '{"a":1}'::jsonb`,
		},
		{
			name:  "mapping_with_quote",
			other: map[string]string{"a": "it's"},
			want:  `("data" -> 'count') = '{"a":"it''s"}'::jsonb`,
		},
		{
			name:  "struct",
			other: author{Name: "Ada"},
			want:  `("data" -> 'count') = '{"name":"Ada"}'::jsonb`,
		},
		{
			name:  "string",
			other: "Hello",
			want:  `("data" ->> 'count') = 'Hello'`,
		},
		{
			name:  "float",
			other: 1.5,
			want:  `("data" ->> 'count') = 1.5`,
		},
		{
			name:  "bool",
			other: false,
			want:  `("data" ->> 'count') = FALSE`,
		},
		{
			name:  "time",
			other: time.Date(2024, time.January, 15, 10, 0, 0, 0, time.UTC),
			want:  `("data" ->> 'count') = '2024-01-15 10:00:00'`,
		},
		{
			name:  "text_marshaler",
			other: netip.MustParseAddr("10.0.0.1"),
			want:  `("data" ->> 'count') = '10.0.0.1'`,
		},
		{
			name:    "unencodable",
			other:   map[string]any{"c": make(chan int)},
			wantErr: pgattr.ErrValueEncoding,
		},
		{
			name:    "unencodable_list",
			other:   []any{func() {}},
			wantErr: pgattr.ErrValueEncoding,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := node.Eq(tt.other)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, mustRender(t, got))
		})
	}
}

func TestJSONB_Conversions(t *testing.T) {
	node := pgattr.NewJSONB(data, ast.Quote("en"))

	assert.Equal(t, pgattr.ExtractTextJSONB, node.Symbol)
	assert.Equal(t, `("data" ->> 'en')`, mustRender(t, node))
	assert.Equal(t, `("data" -> 'en')`, mustRender(t, node.ToExtractOperator()))
	assert.Equal(t, `("data" ? 'en')`, mustRender(t, node.ToExistenceCheck()))

	// Conversions build new nodes
	assert.Equal(t, pgattr.ExtractTextJSONB, node.Symbol)
}

func TestHstore_CompareWith(t *testing.T) {
	node := pgattr.NewHstore(data, ast.Quote("en"))

	got, err := node.Eq(nil)
	require.NoError(t, err)
	assert.Equal(t, `NOT ("data" ? 'en')`, mustRender(t, got))

	got, err = node.Eq("Hello")
	require.NoError(t, err)
	assert.Equal(t, `("data" -> 'en') = 'Hello'`, mustRender(t, got))

	assert.Equal(t, `("data" ? 'en')`, mustRender(t, node.ToExistenceCheck()))
}

func TestJSON_CompareWith(t *testing.T) {
	node := pgattr.NewJSON(data, ast.Quote("en"))

	// No existence check for json columns
	got, err := node.CompareWith(pgattr.Null)
	require.NoError(t, err)
	assert.Equal(t, `("data" ->> 'en') IS NULL`, mustRender(t, got))

	got, err = node.CompareWith(pgattr.ValueOf("Hello"))
	require.NoError(t, err)
	assert.Equal(t, `("data" ->> 'en') = 'Hello'`, mustRender(t, got))
}

func TestCompareWith_ScalarsMatchStandardEquality(t *testing.T) {
	nodes := map[string]pgattr.Comparable{
		"json":   pgattr.NewJSON(data, ast.Quote("en")),
		"hstore": pgattr.NewHstore(data, ast.Quote("en")),
	}

	for name, node := range nodes {
		for _, value := range []any{"Hello", "", 3, int64(7), 2.25, true, ast.SQLLiteral("now()")} {
			got, err := node.CompareWith(pgattr.ValueOf(value))
			require.NoError(t, err)

			assert.Equal(t, mustRender(t, ast.Eq(node, value)), mustRender(t, got), "%s compared with %v", name, value)
		}
	}
}

func TestCompareWith_TimestampsRenderAlike(t *testing.T) {
	publishedAt := time.Date(2024, time.January, 15, 10, 0, 0, 0, time.FixedZone("CET", 3600))

	nodes := map[string]pgattr.Comparable{
		"json":            pgattr.NewJSON(data, ast.Quote("en")),
		"jsonb":           pgattr.NewJSONB(data, ast.Quote("en")),
		"hstore":          pgattr.NewHstore(data, ast.Quote("en")),
		"jsonb_container": pgattr.NewJSONBContainer(data, "en", "published"),
	}

	for name, node := range nodes {
		got, err := node.CompareWith(pgattr.ValueOf(&publishedAt))
		require.NoError(t, err)

		assert.Contains(t, mustRender(t, got), `= '2024-01-15 09:00:00'`, name)
		assert.NotContains(t, mustRender(t, got), "::jsonb", name)
	}
}

func TestCompareWith_NullUsesExistenceCheck(t *testing.T) {
	nodes := map[string]pgattr.Comparable{
		"jsonb":           pgattr.NewJSONB(data, ast.Quote("en")),
		"hstore":          pgattr.NewHstore(data, ast.Quote("en")),
		"jsonb_container": pgattr.NewJSONBContainer(data, "en", "title"),
	}

	for name, node := range nodes {
		got, err := node.CompareWith(pgattr.Null)
		require.NoError(t, err)

		rendered := mustRender(t, got)
		assert.Contains(t, rendered, "NOT (", name)
		assert.Contains(t, rendered, " ? ", name)
		assert.NotContains(t, rendered, "NULL", name)
	}
}

func TestCompareWith_UnknownKind(t *testing.T) {
	nodes := []pgattr.Comparable{
		pgattr.NewJSON(data, ast.Quote("en")),
		pgattr.NewJSONB(data, ast.Quote("en")),
		pgattr.NewHstore(data, ast.Quote("en")),
		pgattr.NewJSONContainer(data, "en", "title"),
		pgattr.NewJSONBContainer(data, "en", "title"),
	}

	for _, node := range nodes {
		_, err := node.CompareWith(pgattr.ComparisonValue{Kind: pgattr.ComparisonValueKind(99), Value: "x"})
		assert.Error(t, err)
	}
}
