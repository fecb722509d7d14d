package api

// Wire DTOs for the Smol server API. Kept separate from domain entities so
// wire-format quirks (durations in seconds, flat tag lists) stay out of the
// domain layer.

type pageDTO[T any] struct {
	Items      []T     `json:"items"`
	NextCursor *string `json:"next_cursor"`
}

type mediaDTO struct {
	ID          string   `json:"id"`
	Filename    string   `json:"filename"`
	Path        string   `json:"path"`
	MediaType   string   `json:"media_type"` // "photo" or "video"
	Width       int      `json:"width"`
	Height      int      `json:"height"`
	DurationSec float64  `json:"duration"` // Seconds, 0 for photos
	FileSize    int64    `json:"file_size"`
	TakenAt     int64    `json:"taken_at"`
	AddedAt     int64    `json:"added_at"`
	Favorite    bool     `json:"favorite"`
	FaceCount   int      `json:"face_count"`
	Tags        []string `json:"tags"`
	ThumbURL    string   `json:"thumb_url"`
}

type faceDTO struct {
	ID       string `json:"id"`
	MediaID  string `json:"media_id"`
	PersonID string `json:"person_id"`
	X        int    `json:"x"`
	Y        int    `json:"y"`
	Width    int    `json:"width"`
	Height   int    `json:"height"`
	ThumbURL string `json:"thumb_url"`
}

type personDTO struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	FaceCount  int    `json:"face_count"`
	MediaCount int    `json:"media_count"`
	ThumbURL   string `json:"thumb_url"`
}

type duplicateGroupDTO struct {
	GroupID string     `json:"group_id"`
	Items   []mediaDTO `json:"items"`
}

// Mutation request bodies

type assignFaceRequest struct {
	PersonID string `json:"person_id"`
}

type favoriteRequest struct {
	Favorite bool `json:"favorite"`
}

type resolveRequest struct {
	Resolution string `json:"resolution"`
}

type mergeRequest struct {
	Into string `json:"into"`
}

type renameRequest struct {
	Name string `json:"name"`
}
