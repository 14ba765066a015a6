// Package catalog persists and queries the append-only collection of
// publish records.
package catalog

import (
	"context"
	"time"

	"github.com/kitreg/kitreg/internal/domain"
)

// Filter narrows a catalog query. A nil or zero filter matches everything.
type Filter struct {
	// Owner restricts results to records whose manifest owner matches
	// exactly. Empty means no owner restriction.
	Owner string
}

// Cursor marks a position in uploaded_at-descending record order. Queries
// resume strictly after it.
type Cursor struct {
	UploadedAt time.Time
	ID         string
}

// CursorFor returns the cursor positioned at a record.
func CursorFor(r domain.CatalogRecord) Cursor {
	return Cursor{UploadedAt: r.UploadedAt, ID: r.ID}
}

// Store is the catalog persistence contract. Append is a single atomic
// write: either the full record exists afterwards or none does. Records are
// never updated or deleted through this interface.
type Store interface {
	Append(ctx context.Context, record *domain.CatalogRecord) (string, error)
	Query(ctx context.Context, filter Filter, limit int, after *Cursor) ([]domain.CatalogRecord, error)
	Count(ctx context.Context, filter Filter) (int, error)
	Close() error
}
