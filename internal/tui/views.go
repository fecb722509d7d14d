package tui

// View identifies a top-level screen
type View int

const (
	ViewPhotos View = iota
	ViewVideos
	ViewPeople
	ViewPersonDetail
	ViewOrphanFaces
	ViewSearch
	ViewDuplicates
)

// String returns the view's stable name, used for history persistence and
// the config default_view setting
func (v View) String() string {
	switch v {
	case ViewPhotos:
		return "photos"
	case ViewVideos:
		return "videos"
	case ViewPeople:
		return "people"
	case ViewPersonDetail:
		return "person"
	case ViewOrphanFaces:
		return "orphans"
	case ViewSearch:
		return "search"
	case ViewDuplicates:
		return "duplicates"
	default:
		return "photos"
	}
}

// Title returns the view's display title
func (v View) Title() string {
	switch v {
	case ViewPhotos:
		return "Photos"
	case ViewVideos:
		return "Videos"
	case ViewPeople:
		return "People"
	case ViewPersonDetail:
		return "Person"
	case ViewOrphanFaces:
		return "Orphan Faces"
	case ViewSearch:
		return "Search"
	case ViewDuplicates:
		return "Duplicates"
	default:
		return "Photos"
	}
}

// ParseView maps a persisted view name back to a View. Unknown names (and
// views that need context, like the person detail screen) fall back to
// the photo listing.
func ParseView(name string) View {
	switch name {
	case "videos":
		return ViewVideos
	case "people":
		return ViewPeople
	case "orphans":
		return ViewOrphanFaces
	case "search":
		return ViewSearch
	case "duplicates":
		return ViewDuplicates
	default:
		return ViewPhotos
	}
}
