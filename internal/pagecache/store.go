package pagecache

import (
	"context"
	"log/slog"
	"sync"
)

// listState is the cached pagination state for one list key
type listState[T Keyed] struct {
	items   []T
	cursor  string // Next-page cursor ("" once exhausted)
	hasMore bool
	loading bool
	gen     uint64 // Liveness token; stale fetch results are dropped on mismatch
}

// Snapshot is the read-only view of a list that consumers render
type Snapshot[T Keyed] struct {
	Items   []T
	HasMore bool
	Loading bool
}

// Store maintains a mapping from list key to cached pagination state.
// A list key uniquely identifies one query (URL + filters + sort); two
// different filter combinations must never share a key.
//
// Fetches are serialized per key: the loading flag is checked before a new
// fetch is issued, so at most one request per key is ever in flight and
// pages are appended in request order. Fetch errors are logged and
// swallowed; the list settles into an exhausted state instead of
// surfacing an error to the rendering layer.
type Store[T Keyed] struct {
	logger *slog.Logger

	mu     sync.Mutex
	lists  map[string]*listState[T]
	genSeq uint64
}

// NewStore creates an empty store
func NewStore[T Keyed](logger *slog.Logger) *Store[T] {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store[T]{
		logger: logger,
		lists:  make(map[string]*listState[T]),
	}
}

// Initialize fetches the first page for key. It is idempotent against
// repeated mount-time calls: if a state already exists for the key and is
// either loading or non-empty, the call is a no-op, so the fetcher runs at
// most once per key until the key is cleared.
func (s *Store[T]) Initialize(ctx context.Context, key string, fetch FirstPageFunc[T]) {
	s.mu.Lock()
	if st, ok := s.lists[key]; ok && (st.loading || len(st.items) > 0) {
		s.mu.Unlock()
		return
	}
	s.genSeq++
	st := &listState[T]{loading: true, hasMore: true, gen: s.genSeq}
	s.lists[key] = st
	gen := st.gen
	s.mu.Unlock()

	page, err := fetch(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	cur, ok := s.lists[key]
	if !ok || cur.gen != gen {
		s.logger.Debug("dropping stale first page", "key", key)
		return
	}
	cur.loading = false
	if err != nil {
		s.logger.Error("first page fetch failed", "key", key, "error", err)
		cur.hasMore = false
		return
	}
	cur.items = page.Items
	cur.cursor = page.Cursor()
	cur.hasMore = page.HasMore()
	s.logger.Debug("initialized list", "key", key, "count", len(cur.items), "hasMore", cur.hasMore)
}

// Advance fetches the next page for key and appends it. It is a no-op when
// no state exists, a fetch is already in flight, or the list is exhausted;
// this is what keeps a rapidly firing scroll sentinel from issuing duplicate
// page requests. On failure the list is treated as exhausted; already loaded
// items are retained.
func (s *Store[T]) Advance(ctx context.Context, key string, fetch NextPageFunc[T]) {
	s.mu.Lock()
	st, ok := s.lists[key]
	if !ok || st.loading || !st.hasMore {
		s.mu.Unlock()
		return
	}
	st.loading = true
	cursor := st.cursor
	gen := st.gen
	s.mu.Unlock()

	page, err := fetch(ctx, cursor)

	s.mu.Lock()
	defer s.mu.Unlock()
	cur, ok := s.lists[key]
	if !ok || cur.gen != gen {
		s.logger.Debug("dropping stale page", "key", key)
		return
	}
	cur.loading = false
	if err != nil {
		s.logger.Error("page fetch failed", "key", key, "cursor", cursor, "error", err)
		cur.hasMore = false
		return
	}
	cur.items = append(cur.items, page.Items...)
	cur.cursor = page.Cursor()
	cur.hasMore = page.HasMore()
	s.logger.Debug("advanced list", "key", key, "count", len(cur.items), "hasMore", cur.hasMore)
}

// RemoveItem prunes the entry whose ListID matches id. Pure local mutation:
// cursor and exhaustion state are untouched. Used after a backend mutation
// has already succeeded, to keep the visible list consistent without a
// refetch.
func (s *Store[T]) RemoveItem(key, id string) {
	s.RemoveItems(key, []string{id})
}

// RemoveItems prunes all entries whose ListID matches any of ids
func (s *Store[T]) RemoveItems(key string, ids []string) {
	if len(ids) == 0 {
		return
	}
	drop := make(map[string]bool, len(ids))
	for _, id := range ids {
		drop[id] = true
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.lists[key]
	if !ok {
		return
	}
	kept := st.items[:0:0]
	for _, item := range st.items {
		if !drop[item.ListID()] {
			kept = append(kept, item)
		}
	}
	removed := len(st.items) - len(kept)
	st.items = kept
	if removed > 0 {
		s.logger.Debug("removed items from list", "key", key, "removed", removed)
	}
}

// ClearList drops the entry for key entirely, so a subsequent Initialize
// performs a genuine refetch. An in-flight fetch for the dropped state is
// discarded when it completes.
func (s *Store[T]) ClearList(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.lists, key)
}

// Snapshot returns a read-only copy of the list state for rendering.
// The second return is false when the key has never been initialized.
func (s *Store[T]) Snapshot(key string) (Snapshot[T], bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.lists[key]
	if !ok {
		return Snapshot[T]{}, false
	}
	items := make([]T, len(st.items))
	copy(items, st.items)
	return Snapshot[T]{Items: items, HasMore: st.hasMore, Loading: st.loading}, true
}
