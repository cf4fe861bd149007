package pgattr_test

import (
	"testing"

	"github.com/google/cel-go/cel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spandigital/pgattr"
)

var postBindings = pgattr.Bindings{
	"posts.title":        {Storage: pgattr.StorageJSONB},
	"posts.subtitle":     {Storage: pgattr.StorageJSON},
	"posts.tags":         {Storage: pgattr.StorageHstore},
	"posts.translations": {Storage: pgattr.StorageJSONB, Container: true},
	"posts.legacy":       {Storage: pgattr.StorageJSON, Container: true},
	"posts.labels":       {Storage: pgattr.StorageHstore, Container: true},
}

func newPostsEnv(t *testing.T) *cel.Env {
	t.Helper()

	env, err := cel.NewEnv(
		cel.Variable("posts", cel.MapType(cel.StringType, cel.DynType)),
	)
	require.NoError(t, err)

	return env
}

func TestConvert(t *testing.T) {
	env := newPostsEnv(t)

	type args struct {
		source string
	}
	tests := []struct {
		name    string
		args    args
		want    string
		wantErr bool
	}{
		{
			name: "jsonb_string",
			args: args{source: `posts.title.en == "Hello"`},
			want: `("posts"."title" ->> 'en') = 'Hello'`,
		},
		{
			name: "jsonb_string_literal_first",
			args: args{source: `"Hello" == posts.title.en`},
			want: `("posts"."title" ->> 'en') = 'Hello'`,
		},
		{
			name: "jsonb_null",
			args: args{source: `posts.title.en == null`},
			want: `NOT ("posts"."title" ? 'en')`,
		},
		{
			name: "jsonb_not_null",
			args: args{source: `posts.title.en != null`},
			want: `("posts"."title" ? 'en')`,
		},
		{
			name: "jsonb_int",
			args: args{source: `posts.title.en == 3`},
			want: `("posts"."title" -> 'en') = '3'::jsonb`,
		},
		{
			name: "jsonb_uint",
			args: args{source: `posts.title.en == 3u`},
			want: `("posts"."title" -> 'en') = '3'::jsonb`,
		},
		{
			name: "jsonb_double",
			args: args{source: `posts.title.en == 1.5`},
			want: `("posts"."title" ->> 'en') = '1.5'`,
		},
		{
			name: "jsonb_bool",
			args: args{source: `posts.title.en == true`},
			want: `("posts"."title" ->> 'en') = 'true'`,
		},
		{
			name: "jsonb_list",
			args: args{source: `posts.title.en == [1, 2]`},
			want: `("posts"."title" -> 'en') = '[1,2]'::jsonb`,
		},
		{
			name: "jsonb_map",
			args: args{source: `posts.title.en == {"a": 1}`},
			want: `("posts"."title" -> 'en') = '{"a":1}'::jsonb`,
		},
		{
			name: "jsonb_not_equal",
			args: args{source: `posts.title.en != "Hello"`},
			want: `NOT ("posts"."title" ->> 'en') = 'Hello'`,
		},
		{
			name: "index_locale",
			args: args{source: `posts.title["pt-BR"] == "Olá"`},
			want: `("posts"."title" ->> 'pt-BR') = 'Olá'`,
		},
		{
			name: "index_column",
			args: args{source: `posts["title"].en == "Hello"`},
			want: `("posts"."title" ->> 'en') = 'Hello'`,
		},
		{
			name: "json_null",
			args: args{source: `posts.subtitle.en == null`},
			want: `("posts"."subtitle" ->> 'en') IS NULL`,
		},
		{
			name: "json_int",
			args: args{source: `posts.subtitle.en == 3`},
			want: `("posts"."subtitle" ->> 'en') = '3'`,
		},
		{
			name: "json_bool",
			args: args{source: `posts.subtitle.en != false`},
			want: `NOT ("posts"."subtitle" ->> 'en') = 'false'`,
		},
		{
			name: "json_negative_double",
			args: args{source: `posts.subtitle.en == -0.25`},
			want: `("posts"."subtitle" ->> 'en') = '-0.25'`,
		},
		{
			name: "hstore_string",
			args: args{source: `posts.tags.en == "news"`},
			want: `("posts"."tags" -> 'en') = 'news'`,
		},
		{
			name: "hstore_null",
			args: args{source: `posts.tags.en == null`},
			want: `NOT ("posts"."tags" ? 'en')`,
		},
		{
			name: "hstore_int",
			args: args{source: `posts.tags.en == 3`},
			want: `("posts"."tags" -> 'en') = '3'`,
		},
		{
			name: "hstore_uint_literal_first",
			args: args{source: `7u == posts.tags.en`},
			want: `("posts"."tags" -> 'en') = '7'`,
		},
		{
			name: "hstore_not_null",
			args: args{source: `null != posts.tags.en`},
			want: `("posts"."tags" ? 'en')`,
		},
		{
			name: "jsonb_container_string",
			args: args{source: `posts.translations.en.title == "Hi"`},
			want: `(("posts"."translations" -> 'en') ->> 'title') = 'Hi'`,
		},
		{
			name: "jsonb_container_null",
			args: args{source: `posts.translations["pt-BR"].title == null`},
			want: `(NOT (("posts"."translations" -> 'pt-BR') ? 'title') OR NOT ("posts"."translations" ? 'pt-BR'))`,
		},
		{
			name: "jsonb_container_not_null",
			args: args{source: `posts.translations.en.title != null`},
			want: `NOT (NOT (("posts"."translations" -> 'en') ? 'title') OR NOT ("posts"."translations" ? 'en'))`,
		},
		{
			name: "jsonb_container_int",
			args: args{source: `posts.translations.en.views == 3`},
			want: `(("posts"."translations" -> 'en') -> 'views') = '3'::jsonb`,
		},
		{
			name: "jsonb_container_double",
			args: args{source: `posts.translations.en.rating == 4.5`},
			want: `(("posts"."translations" -> 'en') ->> 'rating') = '4.5'`,
		},
		{
			name: "json_container_int",
			args: args{source: `posts.legacy.de.views == 12`},
			want: `(("posts"."legacy" -> 'de') ->> 'views') = '12'`,
		},
		{
			name: "json_container_null",
			args: args{source: `posts.legacy.de.name == null`},
			want: `(("posts"."legacy" -> 'de') ->> 'name') IS NULL`,
		},
		{
			name: "and",
			args: args{source: `posts.title.en == "a" && posts.tags.en == "b"`},
			want: `("posts"."title" ->> 'en') = 'a' AND ("posts"."tags" -> 'en') = 'b'`,
		},
		{
			name: "or",
			args: args{source: `posts.title.en == "a" || posts.title.de == "b"`},
			want: `(("posts"."title" ->> 'en') = 'a' OR ("posts"."title" ->> 'de') = 'b')`,
		},
		{
			name: "not_and",
			args: args{source: `!(posts.title.en == "a" && posts.tags.en == null)`},
			want: `NOT (("posts"."title" ->> 'en') = 'a' AND NOT ("posts"."tags" ? 'en'))`,
		},
		{
			name: "bool_constant",
			args: args{source: `posts.title.en == "a" && true`},
			want: `("posts"."title" ->> 'en') = 'a' AND TRUE`,
		},
		{
			name: "ordering_string",
			args: args{source: `posts.title.en > "m"`},
			want: `("posts"."title" ->> 'en') > 'm'`,
		},
		{
			name: "ordering_number",
			args: args{source: `posts.subtitle.en >= 10`},
			want: `("posts"."subtitle" ->> 'en') :: numeric >= 10`,
		},
		{
			name: "ordering_literal_first",
			args: args{source: `10 < posts.subtitle.en`},
			want: `("posts"."subtitle" ->> 'en') :: numeric > 10`,
		},
		{
			name: "ordering_double",
			args: args{source: `posts.tags.en <= 2.5`},
			want: `("posts"."tags" -> 'en') :: numeric <= 2.5`,
		},
		{
			name:    "ordering_bool",
			args:    args{source: `posts.title.en < true`},
			wantErr: true,
		},
		{
			name:    "bare_reference",
			args:    args{source: `posts.title.en`},
			wantErr: true,
		},
		{
			name:    "missing_locale",
			args:    args{source: `posts.title == "Hello"`},
			wantErr: true,
		},
		{
			name:    "unknown_column",
			args:    args{source: `posts.body.en == "Hello"`},
			wantErr: true,
		},
		{
			name:    "container_missing_attr",
			args:    args{source: `posts.translations.en == "Hello"`},
			wantErr: true,
		},
		{
			name:    "attribute_extra_segment",
			args:    args{source: `posts.tags.en.name == "Hello"`},
			wantErr: true,
		},
		{
			name:    "hstore_container",
			args:    args{source: `posts.labels.en.name == "Hello"`},
			wantErr: true,
		},
		{
			name:    "invalid_column_name",
			args:    args{source: `posts["bad-name"].en == "Hello"`},
			wantErr: true,
		},
		{
			name:    "reference_on_both_sides",
			args:    args{source: `posts.title.en == posts.title.de`},
			wantErr: true,
		},
		{
			name:    "no_reference",
			args:    args{source: `"a" == "b"`},
			wantErr: true,
		},
		{
			name:    "unsupported_function",
			args:    args{source: `posts.title.en.startsWith("a")`},
			wantErr: true,
		},
		{
			name:    "has_macro",
			args:    args{source: `has(posts.title.en)`},
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ast, issues := env.Compile(tt.args.source)
			require.Empty(t, issues)

			got, err := pgattr.Convert(ast, postBindings)
			if !tt.wantErr && assert.NoError(t, err) {
				assert.Equal(t, tt.want, mustRender(t, got))
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestConvert_Errors(t *testing.T) {
	env := newPostsEnv(t)

	tests := []struct {
		source  string
		wantErr error
	}{
		{source: `posts.body.en == "Hello"`, wantErr: pgattr.ErrUnknownColumn},
		{source: `posts.labels.en.name == "Hello"`, wantErr: pgattr.ErrUnsupportedStorage},
		{source: `posts.title.en`, wantErr: pgattr.ErrUnsupportedExpression},
		{source: `posts.title.en.startsWith("a")`, wantErr: pgattr.ErrUnsupportedExpression},
	}

	for _, tt := range tests {
		t.Run(tt.source, func(t *testing.T) {
			ast, issues := env.Compile(tt.source)
			require.Empty(t, issues)

			_, err := pgattr.Convert(ast, postBindings)
			require.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestConvert_ParsedOnly(t *testing.T) {
	env := newPostsEnv(t)

	ast, issues := env.Parse(`posts.title.en == null || posts.tags.de == "x"`)
	require.Empty(t, issues)
	require.False(t, ast.IsChecked())

	got, err := pgattr.Convert(ast, postBindings)
	require.NoError(t, err)
	assert.Equal(t, `(NOT ("posts"."title" ? 'en') OR ("posts"."tags" -> 'de') = 'x')`, mustRender(t, got))
}
