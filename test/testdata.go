// Package test holds table schemas shared by tests and examples.
package test

import (
	"github.com/spandigital/pgattr/pg"
)

// NewPostsTableSchema describes a table with one localized column per
// storage type plus a jsonb container.
func NewPostsTableSchema() pg.Schema {
	return pg.Schema{
		{
			Name: "id",
			Type: "integer",
		},
		{
			Name: "slug",
			Type: "text",
		},
		{
			Name: "title",
			Type: "jsonb",
		},
		{
			Name: "subtitle",
			Type: "json",
		},
		{
			Name: "tags",
			Type: "hstore",
		},
		{
			Name:      "translations",
			Type:      "jsonb",
			Container: true,
		},
		{
			Name:     "keywords",
			Type:     "text",
			Repeated: true,
		},
		{
			Name: "published_at",
			Type: "timestamp with time zone",
		},
	}
}

// NewProductsTableSchema describes a table whose json column holds every
// attribute for every locale.
func NewProductsTableSchema() pg.Schema {
	return pg.Schema{
		{
			Name: "id",
			Type: "bigint",
		},
		{
			Name: "price",
			Type: "numeric",
		},
		{
			Name:      "details",
			Type:      "json",
			Container: true,
		},
		{
			Name: "labels",
			Type: "hstore",
		},
		{
			Name: "thumbnail",
			Type: "bytea",
		},
	}
}
