// Package pagecache implements the client-side cache for cursor-paginated
// collections: a keyed store for lists shared across views, and a
// self-contained pager for single-view lists. Both feed infinite-scroll UI
// and apply optimistic local mutations without refetching.
package pagecache

import "context"

// CursorPage is the wire contract for one page of a paginated collection.
// A nil NextCursor is the sole exhaustion signal; an empty Items slice with
// a non-nil cursor is legal (the next page must still be attempted) but
// should not occur from a well-behaved backend.
type CursorPage[T any] struct {
	Items      []T     `json:"items"`
	NextCursor *string `json:"next_cursor"`
}

// HasMore reports whether another page can be requested
func (p CursorPage[T]) HasMore() bool { return p.NextCursor != nil }

// Cursor returns the next-page cursor, or "" when exhausted
func (p CursorPage[T]) Cursor() string {
	if p.NextCursor == nil {
		return ""
	}
	return *p.NextCursor
}

// FirstPageFunc fetches the first page of a collection
type FirstPageFunc[T any] func(ctx context.Context) (CursorPage[T], error)

// NextPageFunc fetches the page following the given cursor
type NextPageFunc[T any] func(ctx context.Context, cursor string) (CursorPage[T], error)

// Keyed is the identity capability every cacheable item type must expose.
// RemoveItem matches entries by this key; for most entities it is the item's
// own ID, for duplicate groups it is the group ID.
type Keyed interface {
	ListID() string
}
