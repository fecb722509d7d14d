package service

import (
	"context"
	"log/slog"

	"github.com/sahilm/fuzzy"

	"github.com/EinAeffchen/smoltui/internal/domain"
	"github.com/EinAeffchen/smoltui/internal/pagecache"
)

// SearchService runs backend free-text search through a single-view pager:
// search results are never shared between views, and every new query is a
// new dependency fingerprint, so the pager discards the previous query's
// pages and drops any of its fetches still in flight.
type SearchService struct {
	client   domain.Client
	pager    *pagecache.Pager[*domain.MediaItem]
	query    string
	logger   *slog.Logger
	pageSize int
}

// NewSearchService creates a new search service
func NewSearchService(client domain.Client, pageSize int, logger *slog.Logger) *SearchService {
	if logger == nil {
		logger = slog.Default()
	}
	if pageSize < 1 {
		pageSize = defaultPageSize
	}
	return &SearchService{
		client:   client,
		pager:    pagecache.NewPager[*domain.MediaItem](logger),
		logger:   logger,
		pageSize: pageSize,
	}
}

// SetQuery switches the active query. Returns true when the query changed
// and a first-page fetch should be started.
func (s *SearchService) SetQuery(query string) bool {
	if !s.pager.ResetIfChanged("query=" + query) {
		return false
	}
	s.query = query
	return true
}

// Refresh discards loaded results for the current query so it can be
// re-fetched from the first page
func (s *SearchService) Refresh() {
	s.pager.Reset("query=" + s.query)
}

// Begin marks a page fetch as started; ok is false while one is in flight
// or the result list is exhausted. The query is captured here along with
// the generation token: SetQuery may run on the UI goroutine while the
// fetch is in flight, so the fetch goroutine must never read it from the
// service.
func (s *SearchService) Begin() (gen uint64, query, cursor string, ok bool) {
	gen, cursor, ok = s.pager.Begin()
	return gen, s.query, cursor, ok
}

// FetchPage performs the actual backend search for one page. The query is
// the one handed out by Begin, so a concurrent query change cannot leak
// into an in-flight fetch.
func (s *SearchService) FetchPage(ctx context.Context, query, cursor string) (pagecache.CursorPage[*domain.MediaItem], error) {
	return s.client.SearchMedia(ctx, query, cursor, s.pageSize)
}

// Commit applies a fetched page; stale generations are dropped
func (s *SearchService) Commit(gen uint64, page pagecache.CursorPage[*domain.MediaItem], err error) bool {
	return s.pager.Commit(gen, page, err)
}

// Results returns the loaded results in page order
func (s *SearchService) Results() []*domain.MediaItem { return s.pager.Items() }

// HasMore reports whether another result page can be requested
func (s *SearchService) HasMore() bool { return s.pager.HasMore() }

// Loading reports whether a result page fetch is in flight
func (s *SearchService) Loading() bool { return s.pager.Loading() }

// RemoveResult prunes a deleted item from the current result list
func (s *SearchService) RemoveResult(mediaID string) { s.pager.RemoveItem(mediaID) }

// FilterPeople narrows an already loaded person listing by fuzzy-matching
// display names. Client-side only; it never touches pagination state.
func (s *SearchService) FilterPeople(people []*domain.Person, term string) []*domain.Person {
	if term == "" {
		return people
	}
	names := make([]string, len(people))
	for i, p := range people {
		names[i] = p.DisplayName()
	}
	matches := fuzzy.Find(term, names)
	filtered := make([]*domain.Person, len(matches))
	for i, m := range matches {
		filtered[i] = people[m.Index]
	}
	return filtered
}
