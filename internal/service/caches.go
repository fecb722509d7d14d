package service

import (
	"log/slog"
	"net/url"
	"strings"

	"github.com/EinAeffchen/smoltui/internal/domain"
	"github.com/EinAeffchen/smoltui/internal/pagecache"
)

// Caches bundles the specialized collection stores. Constructed once at
// application start and injected into the services; there is no package-level
// singleton.
type Caches struct {
	Media  *pagecache.Store[*domain.MediaItem]
	Faces  *pagecache.Store[*domain.Face]
	People *pagecache.Store[*domain.Person]
	Groups *pagecache.Store[*domain.DuplicateGroup]
}

// NewCaches creates the store bundle
func NewCaches(logger *slog.Logger) *Caches {
	return &Caches{
		Media:  pagecache.NewStore[*domain.MediaItem](logger),
		Faces:  pagecache.NewStore[*domain.Face](logger),
		People: pagecache.NewStore[*domain.Person](logger),
		Groups: pagecache.NewStore[*domain.DuplicateGroup](logger),
	}
}

// Stable list keys for the singleton collections
const (
	// KeyPeople is the list key for the person cluster listing
	KeyPeople = "people"

	// KeyOrphanFaces is the list key for unassigned faces
	KeyOrphanFaces = "faces:orphans"

	// KeyDuplicates is the list key for unresolved duplicate groups
	KeyDuplicates = "duplicates"
)

// MediaListKey derives the list key for a media filter. The key is the
// request query string, so every distinct type/sort/tags/favorite
// combination gets its own pagination state and two filters can never
// cross-contaminate each other's cursors.
func MediaListKey(filter domain.MediaFilter) string {
	query := url.Values{}
	if filter.Type != "" {
		query.Set("type", filter.Type)
	}
	if filter.Sort != "" {
		query.Set("sort", filter.Sort)
	}
	if len(filter.Tags) > 0 {
		query.Set("tags", strings.Join(filter.Tags, ","))
	}
	if filter.Favorite {
		query.Set("favorite", "true")
	}
	return "media?" + query.Encode()
}

// PersonFacesKey derives the list key for one person's face listing
func PersonFacesKey(personID string) string {
	return "people:" + personID + ":faces"
}
