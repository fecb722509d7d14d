package domain

import (
	"fmt"
	"time"
)

// MediaType distinguishes content types
type MediaType int

const (
	MediaTypePhoto MediaType = iota
	MediaTypeVideo
)

// MediaItem represents a single library asset (photo or video)
type MediaItem struct {
	ID        string        `json:"id"`        // Server-assigned unique identifier
	Filename  string        `json:"filename"`  // Original filename
	Path      string        `json:"path"`      // Library-relative path
	Type      MediaType     `json:"type"`      // Photo or Video
	Width     int           `json:"width"`     // Pixel width
	Height    int           `json:"height"`    // Pixel height
	Duration  time.Duration `json:"duration"`  // Runtime (videos only)
	FileSize  int64         `json:"file_size"` // File size in bytes
	TakenAt   int64         `json:"taken_at"`  // Unix timestamp from EXIF (0 if unknown)
	AddedAt   int64         `json:"added_at"`  // Unix timestamp when indexed
	Favorite  bool          `json:"favorite"`  // User-flagged favorite
	FaceCount int           `json:"face_count"`
	Tags      []string      `json:"tags"`
	ThumbURL  string        `json:"thumb_url"` // Thumbnail image URL
}

// Resolution returns a human-readable resolution string based on height
func (m MediaItem) Resolution() string {
	switch {
	case m.Height >= 2160:
		return "4K"
	case m.Height >= 1080:
		return "1080p"
	case m.Height >= 720:
		return "720p"
	case m.Height > 0:
		return fmt.Sprintf("%dp", m.Height)
	default:
		return ""
	}
}

// FormattedDuration returns the duration in a human-readable format
func (m MediaItem) FormattedDuration() string {
	if m.Type != MediaTypeVideo || m.Duration <= 0 {
		return ""
	}
	h := int(m.Duration.Hours())
	mins := int(m.Duration.Minutes()) % 60
	secs := int(m.Duration.Seconds()) % 60
	if h > 0 {
		return fmt.Sprintf("%dh %dm", h, mins)
	}
	if mins > 0 {
		return fmt.Sprintf("%dm %ds", mins, secs)
	}
	return fmt.Sprintf("%ds", secs)
}

// FormattedFileSize returns the file size in a human-readable format
func (m MediaItem) FormattedFileSize() string {
	if m.FileSize <= 0 {
		return ""
	}
	const (
		gb = 1024 * 1024 * 1024
		mb = 1024 * 1024
	)
	switch {
	case m.FileSize >= gb:
		return fmt.Sprintf("%.1f GB", float64(m.FileSize)/float64(gb))
	default:
		return fmt.Sprintf("%d MB", m.FileSize/mb)
	}
}

// ListID implements pagecache.Keyed; media items are identified by their own ID.
func (m *MediaItem) ListID() string { return m.ID }

// ListEntry interface implementation for MediaItem

func (m *MediaItem) GetID() string    { return m.ID }
func (m *MediaItem) GetTitle() string { return m.Filename }

func (m *MediaItem) GetItemType() string {
	if m.Type == MediaTypeVideo {
		return "video"
	}
	return "photo"
}

func (m *MediaItem) GetDescription() string {
	if m.Type == MediaTypeVideo {
		if d := m.FormattedDuration(); d != "" {
			return d
		}
	}
	if res := m.Resolution(); res != "" {
		return res
	}
	return m.FormattedFileSize()
}

// Face represents a detected face region within a media item.
// Faces without a PersonID are "orphans": detected but not yet assigned
// to a person cluster.
type Face struct {
	ID       string `json:"id"`
	MediaID  string `json:"media_id"`  // Item the face was detected in
	PersonID string `json:"person_id"` // Empty for orphan faces
	X        int    `json:"x"`         // Bounding box (pixels in source image)
	Y        int    `json:"y"`
	Width    int    `json:"width"`
	Height   int    `json:"height"`
	ThumbURL string `json:"thumb_url"` // Cropped face thumbnail URL
}

// IsOrphan reports whether the face has not been assigned to a person
func (f Face) IsOrphan() bool { return f.PersonID == "" }

// ListID implements pagecache.Keyed
func (f *Face) ListID() string { return f.ID }

// ListEntry interface implementation for Face

func (f *Face) GetID() string       { return f.ID }
func (f *Face) GetTitle() string    { return "Face " + f.ID }
func (f *Face) GetItemType() string { return "face" }

func (f *Face) GetDescription() string {
	if f.IsOrphan() {
		return "unassigned"
	}
	return "person " + f.PersonID
}

// Person represents a face cluster the backend has grouped (and the user
// may have named)
type Person struct {
	ID         string `json:"id"`
	Name       string `json:"name"` // Empty until the user names the cluster
	FaceCount  int    `json:"face_count"`
	MediaCount int    `json:"media_count"` // Distinct items the person appears in
	ThumbURL   string `json:"thumb_url"`   // Representative face thumbnail
}

// DisplayName returns the person's name, or a placeholder for unnamed clusters
func (p Person) DisplayName() string {
	if p.Name != "" {
		return p.Name
	}
	return "Unknown " + p.ID
}

// ListID implements pagecache.Keyed
func (p *Person) ListID() string { return p.ID }

// ListEntry interface implementation for Person

func (p *Person) GetID() string       { return p.ID }
func (p *Person) GetTitle() string    { return p.DisplayName() }
func (p *Person) GetItemType() string { return "person" }

func (p *Person) GetDescription() string {
	if p.FaceCount == 1 {
		return "1 face"
	}
	return fmt.Sprintf("%d faces", p.FaceCount)
}

// Tag is a user- or machine-assigned label on media items
type Tag struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	ItemCount int    `json:"item_count"`
}

// DuplicateGroup represents a set of items the backend considers duplicates
// of each other. The group is the unit the review UI operates on: resolving
// a group removes the whole group from the pending list, so cache identity
// is the group ID, not any member's ID.
type DuplicateGroup struct {
	GroupID string      `json:"group_id"`
	Items   []MediaItem `json:"items"`
}

// WastedBytes returns the total size of all members beyond the first,
// i.e. the space reclaimed by keeping only one copy.
func (g DuplicateGroup) WastedBytes() int64 {
	var total int64
	for i, item := range g.Items {
		if i == 0 {
			continue
		}
		total += item.FileSize
	}
	return total
}

// ListID implements pagecache.Keyed; duplicate groups are identified by
// their group ID.
func (g *DuplicateGroup) ListID() string { return g.GroupID }

// ListEntry interface implementation for DuplicateGroup

func (g *DuplicateGroup) GetID() string       { return g.GroupID }
func (g *DuplicateGroup) GetItemType() string { return "duplicate-group" }

func (g *DuplicateGroup) GetTitle() string {
	if len(g.Items) > 0 {
		return g.Items[0].Filename
	}
	return g.GroupID
}

func (g *DuplicateGroup) GetDescription() string {
	return fmt.Sprintf("%d copies", len(g.Items))
}

// ListEntry is the display contract the TUI list component consumes.
// Every cacheable entity implements it alongside pagecache.Keyed.
type ListEntry interface {
	GetID() string
	GetTitle() string
	GetDescription() string
	GetItemType() string
}

// MediaFilter describes a media listing query. Its key forms the cache list
// key, so two different filter combinations never share cached state.
type MediaFilter struct {
	Type     string   // "photo", "video", or "" for all
	Sort     string   // "taken_at", "added_at", "filename"
	Tags     []string // All must match
	Favorite bool     // Favorites only
}

// DuplicateResolution names the action to apply when resolving a group
type DuplicateResolution string

const (
	// ResolutionKeepLargest keeps the biggest file and deletes the rest
	ResolutionKeepLargest DuplicateResolution = "keep_largest"

	// ResolutionKeepOldest keeps the earliest-taken copy and deletes the rest
	ResolutionKeepOldest DuplicateResolution = "keep_oldest"

	// ResolutionIgnore marks the group as not-a-duplicate
	ResolutionIgnore DuplicateResolution = "ignore"
)
