package domain

import (
	"context"

	"github.com/EinAeffchen/smoltui/internal/pagecache"
)

// Client provides access to the Smol media server API. All listing endpoints
// are cursor-paginated; mutations are plain REST calls whose success the
// services follow with an optimistic cache prune.
type Client interface {
	// CheckHealth verifies the server is reachable and the token is valid
	CheckHealth(ctx context.Context) error

	// ListMedia returns a page of media items matching the filter
	ListMedia(ctx context.Context, filter MediaFilter, cursor string, limit int) (pagecache.CursorPage[*MediaItem], error)

	// SearchMedia returns a page of items matching a free-text query
	SearchMedia(ctx context.Context, query, cursor string, limit int) (pagecache.CursorPage[*MediaItem], error)

	// ListPeople returns a page of person clusters
	ListPeople(ctx context.Context, cursor string, limit int) (pagecache.CursorPage[*Person], error)

	// ListPersonFaces returns a page of faces assigned to a person
	ListPersonFaces(ctx context.Context, personID, cursor string, limit int) (pagecache.CursorPage[*Face], error)

	// ListOrphanFaces returns a page of detected-but-unassigned faces
	ListOrphanFaces(ctx context.Context, cursor string, limit int) (pagecache.CursorPage[*Face], error)

	// ListDuplicateGroups returns a page of unresolved duplicate groups
	ListDuplicateGroups(ctx context.Context, cursor string, limit int) (pagecache.CursorPage[*DuplicateGroup], error)

	// AssignFace assigns a face to a person cluster
	AssignFace(ctx context.Context, faceID, personID string) error

	// DetachFace removes a face from its person cluster (it becomes an orphan)
	DetachFace(ctx context.Context, faceID string) error

	// DeleteMedia removes an item from the library
	DeleteMedia(ctx context.Context, mediaID string) error

	// SetFavorite flags or unflags an item as a favorite
	SetFavorite(ctx context.Context, mediaID string, favorite bool) error

	// ResolveDuplicateGroup applies a resolution to a duplicate group
	ResolveDuplicateGroup(ctx context.Context, groupID string, resolution DuplicateResolution) error

	// MergePeople merges the source person cluster into the destination
	MergePeople(ctx context.Context, sourceID, destID string) error

	// RenamePerson sets the display name of a person cluster
	RenamePerson(ctx context.Context, personID, name string) error
}
