package service

import (
	"context"
	"log/slog"

	"github.com/EinAeffchen/smoltui/internal/domain"
	"github.com/EinAeffchen/smoltui/internal/pagecache"
)

// DuplicateService handles the duplicate review queue. Cache identity for
// this listing is the group ID (the unit the review UI resolves), which is
// why DuplicateGroup's ListID returns the group ID rather than a member ID.
type DuplicateService struct {
	client   domain.Client
	groups   *pagecache.Store[*domain.DuplicateGroup]
	logger   *slog.Logger
	pageSize int
}

// NewDuplicateService creates a new duplicate service
func NewDuplicateService(client domain.Client, caches *Caches, pageSize int, logger *slog.Logger) *DuplicateService {
	if logger == nil {
		logger = slog.Default()
	}
	if pageSize < 1 {
		pageSize = defaultPageSize
	}
	return &DuplicateService{
		client:   client,
		groups:   caches.Groups,
		logger:   logger,
		pageSize: pageSize,
	}
}

// LoadGroups fetches the first page of unresolved groups
func (s *DuplicateService) LoadGroups(ctx context.Context) {
	s.groups.Initialize(ctx, KeyDuplicates, func(ctx context.Context) (pagecache.CursorPage[*domain.DuplicateGroup], error) {
		return s.client.ListDuplicateGroups(ctx, "", s.pageSize)
	})
}

// LoadMoreGroups fetches the next page of unresolved groups
func (s *DuplicateService) LoadMoreGroups(ctx context.Context) {
	s.groups.Advance(ctx, KeyDuplicates, func(ctx context.Context, cursor string) (pagecache.CursorPage[*domain.DuplicateGroup], error) {
		return s.client.ListDuplicateGroups(ctx, cursor, s.pageSize)
	})
}

// GroupsSnapshot returns the cached group listing
func (s *DuplicateService) GroupsSnapshot() (pagecache.Snapshot[*domain.DuplicateGroup], bool) {
	return s.groups.Snapshot(KeyDuplicates)
}

// Resolve applies a resolution to one group and removes it from the review
// queue after the backend confirms.
func (s *DuplicateService) Resolve(ctx context.Context, groupID string, resolution domain.DuplicateResolution) error {
	if err := s.client.ResolveDuplicateGroup(ctx, groupID, resolution); err != nil {
		s.logger.Error("failed to resolve duplicate group", "error", err, "groupID", groupID)
		return err
	}
	s.groups.RemoveItem(KeyDuplicates, groupID)
	s.logger.Info("resolved duplicate group", "groupID", groupID, "resolution", resolution)
	return nil
}

// ResolveAll applies one resolution to several groups. Groups whose
// mutation succeeded are pruned in a single pass; the first error is
// returned but earlier successes keep their prune.
func (s *DuplicateService) ResolveAll(ctx context.Context, groupIDs []string, resolution domain.DuplicateResolution) error {
	var firstErr error
	resolved := make([]string, 0, len(groupIDs))
	for _, id := range groupIDs {
		if err := s.client.ResolveDuplicateGroup(ctx, id, resolution); err != nil {
			s.logger.Error("failed to resolve duplicate group", "error", err, "groupID", id)
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		resolved = append(resolved, id)
	}
	s.groups.RemoveItems(KeyDuplicates, resolved)
	if len(resolved) > 0 {
		s.logger.Info("resolved duplicate groups", "count", len(resolved), "resolution", resolution)
	}
	return firstErr
}

// Invalidate drops the cached queue so the next LoadGroups refetches,
// e.g. after the server finishes a new duplicate scan.
func (s *DuplicateService) Invalidate() {
	s.groups.ClearList(KeyDuplicates)
	s.logger.Info("invalidated duplicate queue")
}
