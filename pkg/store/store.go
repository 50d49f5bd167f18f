// Package store is the persistence boundary: a small query interface over
// named collections with GORM and in-memory implementations, and the
// repositories the rest of the module reads and writes through.
package store

import (
	"context"
	"errors"
)

// ErrNotFound is returned when a query matched no row.
var ErrNotFound = errors.New("store: not found")

// Row is one record of a collection keyed by column name.
type Row = map[string]any

// Query selects rows of a collection. CompanyID, when set, is always applied
// as an equality filter on company_id. Contains holds case-insensitive
// substring filters.
type Query struct {
	Collection string
	CompanyID  string
	Where      map[string]any
	Contains   map[string]string
	OrderBy    string
	Desc       bool
	Limit      int
}

// Store is the generic query client repositories are written against.
type Store interface {
	// Select decodes the matching rows into dest, a pointer to a slice.
	Select(ctx context.Context, q Query, dest any) error
	Insert(ctx context.Context, collection string, row Row) error
	Update(ctx context.Context, q Query, values Row) (int64, error)
	Delete(ctx context.Context, q Query) (int64, error)
	// Upsert inserts row or updates the existing row matching the conflict
	// columns.
	Upsert(ctx context.Context, collection string, row Row, conflict []string) error
}

// Collections used by the repositories.
const (
	CollectionFields = "custom_fields"
	CollectionStyles = "form_styles"
	CollectionForms  = "forms"
)

func (q Query) filters() map[string]any {
	out := make(map[string]any, len(q.Where)+1)
	for key, value := range q.Where {
		out[key] = value
	}
	if q.CompanyID != "" {
		out["company_id"] = q.CompanyID
	}
	return out
}
