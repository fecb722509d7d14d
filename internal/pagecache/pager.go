package pagecache

import "log/slog"

// Pager is the single-call-site alternative to Store: it owns the items,
// cursor, and loading state for exactly one list, with no cross-view
// sharing. It is parameterized by a reset-dependency fingerprint (query,
// sort order, filters flattened to a string): when the fingerprint changes
// the pager discards its state and the next Begin starts a fresh first page.
//
// A fetch started under one fingerprint must never write into the state of
// the next, so Begin hands out a generation token and Commit drops results
// whose token is stale. Begin/Commit and all reads are expected on the UI
// update goroutine; the fetch itself runs elsewhere (a tea.Cmd), which is
// why the token travels with the page message rather than living in a
// closure.
//
// State machine: Idle -> Loading(first) -> Ready <-> Loading(next)
// -> Exhausted. Begin while Loading or Exhausted returns ok=false, so a
// level-triggered scroll sentinel can fire as often as it likes.
type Pager[T Keyed] struct {
	logger *slog.Logger

	deps    string
	gen     uint64
	items   []T
	cursor  string
	hasMore bool
	loading bool
	started bool
}

// NewPager creates an idle pager
func NewPager[T Keyed](logger *slog.Logger) *Pager[T] {
	if logger == nil {
		logger = slog.Default()
	}
	return &Pager[T]{logger: logger, hasMore: true}
}

// ResetIfChanged resets the pager when the dependency fingerprint differs
// from the current one (or the pager has never started). Returns true when
// a reset happened, i.e. the caller should start a first-page fetch.
func (p *Pager[T]) ResetIfChanged(deps string) bool {
	if p.started && p.deps == deps {
		return false
	}
	p.Reset(deps)
	return true
}

// Reset discards all state and arms the pager for a fresh first page.
// The generation bump invalidates any fetch still in flight.
func (p *Pager[T]) Reset(deps string) {
	p.gen++
	p.deps = deps
	p.items = nil
	p.cursor = ""
	p.hasMore = true
	p.loading = false
	p.started = false
}

// Begin marks a fetch as started and returns the generation token and
// cursor to fetch with. ok is false while a fetch is in flight or the list
// is exhausted; the caller must not fetch in that case.
func (p *Pager[T]) Begin() (gen uint64, cursor string, ok bool) {
	if p.loading || !p.hasMore {
		return 0, "", false
	}
	p.loading = true
	p.started = true
	return p.gen, p.cursor, true
}

// Commit applies a fetched page. Results carrying a stale generation token
// (the pager was reset while the fetch was in flight) are dropped and false
// is returned. A fetch error exhausts the list; items already loaded are
// retained.
func (p *Pager[T]) Commit(gen uint64, page CursorPage[T], err error) bool {
	if gen != p.gen {
		p.logger.Debug("dropping stale page", "deps", p.deps)
		return false
	}
	p.loading = false
	if err != nil {
		p.logger.Error("page fetch failed", "deps", p.deps, "error", err)
		p.hasMore = false
		return true
	}
	p.items = append(p.items, page.Items...)
	p.cursor = page.Cursor()
	p.hasMore = page.HasMore()
	return true
}

// RemoveItem prunes entries matching id; cursor and exhaustion state are
// untouched (same optimistic-mutation contract as Store.RemoveItem).
func (p *Pager[T]) RemoveItem(id string) {
	kept := p.items[:0:0]
	for _, item := range p.items {
		if item.ListID() != id {
			kept = append(kept, item)
		}
	}
	p.items = kept
}

// Items returns the loaded items in page-arrival order
func (p *Pager[T]) Items() []T { return p.items }

// HasMore reports whether another page can be requested
func (p *Pager[T]) HasMore() bool { return p.hasMore }

// Loading reports whether a fetch is in flight
func (p *Pager[T]) Loading() bool { return p.loading }

// Started reports whether a first page has ever been requested for the
// current dependency fingerprint
func (p *Pager[T]) Started() bool { return p.started }

// Deps returns the current dependency fingerprint
func (p *Pager[T]) Deps() string { return p.deps }
