package api

import (
	"strings"
	"time"

	"github.com/EinAeffchen/smoltui/internal/domain"
)

// mapMedia converts a media DTO to a domain entity, resolving relative
// thumbnail URLs against the server base URL.
func mapMedia(dto mediaDTO, baseURL string) *domain.MediaItem {
	mediaType := domain.MediaTypePhoto
	if dto.MediaType == "video" {
		mediaType = domain.MediaTypeVideo
	}
	return &domain.MediaItem{
		ID:        dto.ID,
		Filename:  dto.Filename,
		Path:      dto.Path,
		Type:      mediaType,
		Width:     dto.Width,
		Height:    dto.Height,
		Duration:  time.Duration(dto.DurationSec * float64(time.Second)),
		FileSize:  dto.FileSize,
		TakenAt:   dto.TakenAt,
		AddedAt:   dto.AddedAt,
		Favorite:  dto.Favorite,
		FaceCount: dto.FaceCount,
		Tags:      dto.Tags,
		ThumbURL:  absoluteURL(baseURL, dto.ThumbURL),
	}
}

func mapFace(dto faceDTO, baseURL string) *domain.Face {
	return &domain.Face{
		ID:       dto.ID,
		MediaID:  dto.MediaID,
		PersonID: dto.PersonID,
		X:        dto.X,
		Y:        dto.Y,
		Width:    dto.Width,
		Height:   dto.Height,
		ThumbURL: absoluteURL(baseURL, dto.ThumbURL),
	}
}

func mapPerson(dto personDTO, baseURL string) *domain.Person {
	return &domain.Person{
		ID:         dto.ID,
		Name:       dto.Name,
		FaceCount:  dto.FaceCount,
		MediaCount: dto.MediaCount,
		ThumbURL:   absoluteURL(baseURL, dto.ThumbURL),
	}
}

func mapDuplicateGroup(dto duplicateGroupDTO, baseURL string) *domain.DuplicateGroup {
	items := make([]domain.MediaItem, len(dto.Items))
	for i, m := range dto.Items {
		items[i] = *mapMedia(m, baseURL)
	}
	return &domain.DuplicateGroup{
		GroupID: dto.GroupID,
		Items:   items,
	}
}

// absoluteURL resolves server-relative paths (e.g. "/thumbs/abc.jpg")
// against the base URL; absolute URLs pass through unchanged.
func absoluteURL(baseURL, path string) string {
	if path == "" || strings.Contains(path, "://") {
		return path
	}
	return strings.TrimRight(baseURL, "/") + "/" + strings.TrimLeft(path, "/")
}
