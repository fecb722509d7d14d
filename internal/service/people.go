package service

import (
	"context"
	"log/slog"

	"github.com/EinAeffchen/smoltui/internal/domain"
	"github.com/EinAeffchen/smoltui/internal/pagecache"
)

// PeopleService handles person clusters and face assignment. Face mutations
// (assign/detach) call the backend first and prune the affected face list
// only after success; listings whose derived data changed (face counts, the
// orphan pool) are cleared so they refetch on next visit.
type PeopleService struct {
	client   domain.Client
	faces    *pagecache.Store[*domain.Face]
	people   *pagecache.Store[*domain.Person]
	logger   *slog.Logger
	pageSize int
}

// NewPeopleService creates a new people service
func NewPeopleService(client domain.Client, caches *Caches, pageSize int, logger *slog.Logger) *PeopleService {
	if logger == nil {
		logger = slog.Default()
	}
	if pageSize < 1 {
		pageSize = defaultPageSize
	}
	return &PeopleService{
		client:   client,
		faces:    caches.Faces,
		people:   caches.People,
		logger:   logger,
		pageSize: pageSize,
	}
}

// LoadPeople fetches the first page of person clusters
func (s *PeopleService) LoadPeople(ctx context.Context) {
	s.people.Initialize(ctx, KeyPeople, func(ctx context.Context) (pagecache.CursorPage[*domain.Person], error) {
		return s.client.ListPeople(ctx, "", s.pageSize)
	})
}

// LoadMorePeople fetches the next page of person clusters
func (s *PeopleService) LoadMorePeople(ctx context.Context) {
	s.people.Advance(ctx, KeyPeople, func(ctx context.Context, cursor string) (pagecache.CursorPage[*domain.Person], error) {
		return s.client.ListPeople(ctx, cursor, s.pageSize)
	})
}

// PeopleSnapshot returns the cached person listing
func (s *PeopleService) PeopleSnapshot() (pagecache.Snapshot[*domain.Person], bool) {
	return s.people.Snapshot(KeyPeople)
}

// LoadPersonFaces fetches the first page of a person's faces
func (s *PeopleService) LoadPersonFaces(ctx context.Context, personID string) {
	s.faces.Initialize(ctx, PersonFacesKey(personID), func(ctx context.Context) (pagecache.CursorPage[*domain.Face], error) {
		return s.client.ListPersonFaces(ctx, personID, "", s.pageSize)
	})
}

// LoadMorePersonFaces fetches the next page of a person's faces
func (s *PeopleService) LoadMorePersonFaces(ctx context.Context, personID string) {
	s.faces.Advance(ctx, PersonFacesKey(personID), func(ctx context.Context, cursor string) (pagecache.CursorPage[*domain.Face], error) {
		return s.client.ListPersonFaces(ctx, personID, cursor, s.pageSize)
	})
}

// PersonFacesSnapshot returns the cached face listing for a person
func (s *PeopleService) PersonFacesSnapshot(personID string) (pagecache.Snapshot[*domain.Face], bool) {
	return s.faces.Snapshot(PersonFacesKey(personID))
}

// LoadOrphanFaces fetches the first page of unassigned faces
func (s *PeopleService) LoadOrphanFaces(ctx context.Context) {
	s.faces.Initialize(ctx, KeyOrphanFaces, func(ctx context.Context) (pagecache.CursorPage[*domain.Face], error) {
		return s.client.ListOrphanFaces(ctx, "", s.pageSize)
	})
}

// LoadMoreOrphanFaces fetches the next page of unassigned faces
func (s *PeopleService) LoadMoreOrphanFaces(ctx context.Context) {
	s.faces.Advance(ctx, KeyOrphanFaces, func(ctx context.Context, cursor string) (pagecache.CursorPage[*domain.Face], error) {
		return s.client.ListOrphanFaces(ctx, cursor, s.pageSize)
	})
}

// OrphanFacesSnapshot returns the cached orphan face listing
func (s *PeopleService) OrphanFacesSnapshot() (pagecache.Snapshot[*domain.Face], bool) {
	return s.faces.Snapshot(KeyOrphanFaces)
}

// AssignFace assigns a face to a person and prunes it from the face list
// it was reviewed in (the orphan pool or another person's listing). The
// person listing is cleared because its face counts are now stale.
func (s *PeopleService) AssignFace(ctx context.Context, listKey, faceID, personID string) error {
	if err := s.client.AssignFace(ctx, faceID, personID); err != nil {
		s.logger.Error("failed to assign face", "error", err, "faceID", faceID, "personID", personID)
		return err
	}
	s.faces.RemoveItem(listKey, faceID)
	s.people.ClearList(KeyPeople)
	s.logger.Info("assigned face", "faceID", faceID, "personID", personID)
	return nil
}

// DetachFace removes a face from its person. The face leaves the person's
// listing immediately; the orphan pool is cleared because the detached face
// now belongs there.
func (s *PeopleService) DetachFace(ctx context.Context, personID, faceID string) error {
	if err := s.client.DetachFace(ctx, faceID); err != nil {
		s.logger.Error("failed to detach face", "error", err, "faceID", faceID)
		return err
	}
	s.faces.RemoveItem(PersonFacesKey(personID), faceID)
	s.faces.ClearList(KeyOrphanFaces)
	s.people.ClearList(KeyPeople)
	s.logger.Info("detached face", "faceID", faceID, "personID", personID)
	return nil
}

// MergePeople merges source into dest. The source disappears from the
// person listing immediately; both face listings are cleared since their
// contents moved.
func (s *PeopleService) MergePeople(ctx context.Context, sourceID, destID string) error {
	if err := s.client.MergePeople(ctx, sourceID, destID); err != nil {
		s.logger.Error("failed to merge people", "error", err, "sourceID", sourceID, "destID", destID)
		return err
	}
	s.people.RemoveItem(KeyPeople, sourceID)
	s.faces.ClearList(PersonFacesKey(sourceID))
	s.faces.ClearList(PersonFacesKey(destID))
	s.logger.Info("merged people", "sourceID", sourceID, "destID", destID)
	return nil
}

// RenamePerson sets a cluster's display name. The listing is cleared so the
// new name shows on next visit.
func (s *PeopleService) RenamePerson(ctx context.Context, personID, name string) error {
	if err := s.client.RenamePerson(ctx, personID, name); err != nil {
		s.logger.Error("failed to rename person", "error", err, "personID", personID)
		return err
	}
	s.people.ClearList(KeyPeople)
	s.logger.Info("renamed person", "personID", personID, "name", name)
	return nil
}
