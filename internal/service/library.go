package service

import (
	"context"
	"log/slog"

	"github.com/EinAeffchen/smoltui/internal/domain"
	"github.com/EinAeffchen/smoltui/internal/pagecache"
)

const defaultPageSize = 50

// LibraryService handles media listings through the shared page cache.
// List state is keyed by the filter's query string; loading a filter the
// cache already holds is a no-op, so views can request their list on every
// mount without duplicate fetches.
type LibraryService struct {
	client   domain.Client
	media    *pagecache.Store[*domain.MediaItem]
	logger   *slog.Logger
	pageSize int
}

// NewLibraryService creates a new library service. pageSize is the
// configured items-per-page; values below 1 fall back to the default.
func NewLibraryService(client domain.Client, caches *Caches, pageSize int, logger *slog.Logger) *LibraryService {
	if logger == nil {
		logger = slog.Default()
	}
	if pageSize < 1 {
		pageSize = defaultPageSize
	}
	return &LibraryService{
		client:   client,
		media:    caches.Media,
		logger:   logger,
		pageSize: pageSize,
	}
}

// LoadMedia fetches the first page for a filter (no-op if already cached
// or in flight). Fetch errors are absorbed by the store; the list renders
// as empty-exhausted.
func (s *LibraryService) LoadMedia(ctx context.Context, filter domain.MediaFilter) {
	key := MediaListKey(filter)
	s.media.Initialize(ctx, key, func(ctx context.Context) (pagecache.CursorPage[*domain.MediaItem], error) {
		return s.client.ListMedia(ctx, filter, "", s.pageSize)
	})
}

// LoadMoreMedia fetches the next page for a filter when one is available
func (s *LibraryService) LoadMoreMedia(ctx context.Context, filter domain.MediaFilter) {
	key := MediaListKey(filter)
	s.media.Advance(ctx, key, func(ctx context.Context, cursor string) (pagecache.CursorPage[*domain.MediaItem], error) {
		return s.client.ListMedia(ctx, filter, cursor, s.pageSize)
	})
}

// MediaSnapshot returns the cached list for a filter
func (s *LibraryService) MediaSnapshot(filter domain.MediaFilter) (pagecache.Snapshot[*domain.MediaItem], bool) {
	return s.media.Snapshot(MediaListKey(filter))
}

// DeleteMedia deletes an item on the server and, on success, prunes it
// from the listing it was invoked from. The prune happens only after the
// mutation resolves, so a failed delete leaves the cache untouched.
func (s *LibraryService) DeleteMedia(ctx context.Context, filter domain.MediaFilter, mediaID string) error {
	if err := s.client.DeleteMedia(ctx, mediaID); err != nil {
		s.logger.Error("failed to delete media", "error", err, "mediaID", mediaID)
		return err
	}
	s.media.RemoveItem(MediaListKey(filter), mediaID)
	s.logger.Info("deleted media", "mediaID", mediaID)
	return nil
}

// SetFavorite toggles the favorite flag on the server. When an item is
// un-favorited from the favorites listing, it is pruned from that list;
// other listings keep the item and pick up the new flag on their next
// refetch.
func (s *LibraryService) SetFavorite(ctx context.Context, filter domain.MediaFilter, mediaID string, favorite bool) error {
	if err := s.client.SetFavorite(ctx, mediaID, favorite); err != nil {
		s.logger.Error("failed to set favorite", "error", err, "mediaID", mediaID)
		return err
	}
	if filter.Favorite && !favorite {
		s.media.RemoveItem(MediaListKey(filter), mediaID)
	}
	return nil
}

// InvalidateMedia drops the cached list for a filter so the next LoadMedia
// refetches. Used when an external event (a completed background scan)
// invalidates the listing.
func (s *LibraryService) InvalidateMedia(filter domain.MediaFilter) {
	s.media.ClearList(MediaListKey(filter))
	s.logger.Info("invalidated media list", "key", MediaListKey(filter))
}
