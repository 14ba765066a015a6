package catalog

import (
	"context"
	"fmt"

	"github.com/kitreg/kitreg/internal/domain"
)

// DefaultLimit is the page size used when a list request does not set one.
const DefaultLimit = 50

// ListRequest is a page request against the catalog.
type ListRequest struct {
	// Owner filters records by manifest owner; empty means all owners.
	Owner string
	// Limit caps the number of returned records. Zero or negative falls
	// back to DefaultLimit.
	Limit int
	// Skip is the number of leading records (in uploaded_at-descending
	// order) to pass over before the page starts.
	Skip int
}

// Page is one page of catalog records plus the total match count under the
// same filter. Returned always equals len(Records) and never exceeds the
// request limit.
type Page struct {
	Total    int                    `json:"total"`
	Returned int                    `json:"returned"`
	Records  []domain.CatalogRecord `json:"records"`
}

// Engine answers paginated catalog queries over a Store.
type Engine struct {
	store Store
}

// NewEngine wraps a store.
func NewEngine(store Store) *Engine {
	return &Engine{store: store}
}

// List returns one page of records ordered by upload time descending,
// newest first, plus the total match count.
//
// Skip is satisfied by first materializing the skip-th record with an
// auxiliary bounded query and using it as a start-after cursor, so a page
// never requires a full scan. The auxiliary read makes each call O(skip);
// that cost is a deliberate ceiling of the (limit, skip) surface, not
// something this layer optimizes away.
//
// A skip past the end of the matching set anchors the cursor after the
// final record and yields an empty page; it never wraps back to the start
// of the catalog.
func (e *Engine) List(ctx context.Context, req ListRequest) (Page, error) {
	limit := req.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}
	filter := Filter{Owner: req.Owner}

	total, err := e.store.Count(ctx, filter)
	if err != nil {
		return Page{}, fmt.Errorf("count failed: %w", err)
	}

	var after *Cursor
	if req.Skip > 0 {
		// Bounded query for the first `skip` records; the last one becomes
		// the start-after cursor for the real page. When the catalog holds
		// fewer records than the skip asks for, the cursor sits after the
		// final record and the page comes back empty; an empty catalog
		// applies no cursor at all.
		leading, err := e.store.Query(ctx, filter, req.Skip, nil)
		if err != nil {
			return Page{}, fmt.Errorf("cursor lookup failed: %w", err)
		}
		if len(leading) > 0 {
			c := CursorFor(leading[len(leading)-1])
			after = &c
		}
	}

	records, err := e.store.Query(ctx, filter, limit, after)
	if err != nil {
		return Page{}, fmt.Errorf("query failed: %w", err)
	}
	if records == nil {
		records = []domain.CatalogRecord{}
	}

	return Page{Total: total, Returned: len(records), Records: records}, nil
}
