package tui

import (
	"time"

	"github.com/EinAeffchen/smoltui/internal/domain"
	"github.com/EinAeffchen/smoltui/internal/pagecache"
)

// Message types for the TUI

// ErrMsg represents an error
type ErrMsg struct {
	Err     error
	Context string
}

// Error implements the error interface
func (e ErrMsg) Error() string {
	if e.Context != "" {
		return e.Context + ": " + e.Err.Error()
	}
	return e.Err.Error()
}

// PageLoadedMsg signals that a store-backed page load finished for a view.
// The store already holds the result (or swallowed the failure), so the
// model re-reads its snapshot rather than carrying items in the message.
type PageLoadedMsg struct {
	View View
}

// SearchPageMsg carries one fetched search result page back to the UI
// goroutine, tagged with the pager generation it was started under.
type SearchPageMsg struct {
	Gen  uint64
	Page pagecache.CursorPage[*domain.MediaItem]
	Err  error
}

// ActionDoneMsg signals that a mutation completed and which view's
// snapshot should be re-read
type ActionDoneMsg struct {
	Info string
	View View
}

// HealthMsg reports the startup server health probe
type HealthMsg struct {
	Err error
}

// RecentSearchesMsg carries persisted queries for the search prompt
type RecentSearchesMsg struct {
	Queries []string
}

// spinnerTickMsg drives the loading animation
type spinnerTickMsg time.Time
