// Package api implements the HTTP client for the Smol media server.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/EinAeffchen/smoltui/internal/domain"
	"github.com/EinAeffchen/smoltui/internal/pagecache"
)

const (
	defaultTimeout = 30 * time.Second
	userAgent      = "smoltui/1.0"
)

// Client implements domain.Client against a Smol server
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a new Smol API client
func NewClient(baseURL, token string, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
		logger: logger,
	}
}

// doRequest performs an authenticated HTTP request and returns the response body
func (c *Client) doRequest(ctx context.Context, method, path string, query url.Values, payload any) ([]byte, error) {
	reqURL := c.baseURL + path
	if len(query) > 0 {
		reqURL = reqURL + "?" + query.Encode()
	}

	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request body: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("User-Agent", userAgent)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	c.logger.Debug("smol request", "method", method, "url", reqURL)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("smol request failed", "error", err)
		return nil, domain.ErrServerOffline
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return nil, domain.ErrAuthFailed
	case resp.StatusCode == http.StatusNotFound:
		return nil, domain.ErrNotFound
	case resp.StatusCode >= 300:
		c.logger.Error("smol request error", "status", resp.StatusCode, "body", string(respBody))
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	return respBody, nil
}

// decodePage parses a cursor page of wire DTOs and maps each item
func decodePage[D, T any](body []byte, mapItem func(D) T) (pagecache.CursorPage[T], error) {
	var dto pageDTO[D]
	if err := json.Unmarshal(body, &dto); err != nil {
		return pagecache.CursorPage[T]{}, fmt.Errorf("failed to parse response: %w", err)
	}
	items := make([]T, len(dto.Items))
	for i, d := range dto.Items {
		items[i] = mapItem(d)
	}
	return pagecache.CursorPage[T]{Items: items, NextCursor: dto.NextCursor}, nil
}

// pageQuery builds the shared cursor/limit query parameters
func pageQuery(cursor string, limit int) url.Values {
	query := url.Values{}
	if cursor != "" {
		query.Set("cursor", cursor)
	}
	if limit > 0 {
		query.Set("limit", strconv.Itoa(limit))
	}
	return query
}

// CheckHealth verifies the server is reachable and the token is valid
func (c *Client) CheckHealth(ctx context.Context) error {
	_, err := c.doRequest(ctx, http.MethodGet, "/api/health", nil, nil)
	return err
}

// ListMedia returns a page of media items matching the filter
func (c *Client) ListMedia(ctx context.Context, filter domain.MediaFilter, cursor string, limit int) (pagecache.CursorPage[*domain.MediaItem], error) {
	query := pageQuery(cursor, limit)
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

	body, err := c.doRequest(ctx, http.MethodGet, "/api/media", query, nil)
	if err != nil {
		return pagecache.CursorPage[*domain.MediaItem]{}, err
	}
	return decodePage(body, func(d mediaDTO) *domain.MediaItem { return mapMedia(d, c.baseURL) })
}

// SearchMedia returns a page of items matching a free-text query
func (c *Client) SearchMedia(ctx context.Context, searchQuery, cursor string, limit int) (pagecache.CursorPage[*domain.MediaItem], error) {
	query := pageQuery(cursor, limit)
	query.Set("query", searchQuery)

	body, err := c.doRequest(ctx, http.MethodGet, "/api/search", query, nil)
	if err != nil {
		return pagecache.CursorPage[*domain.MediaItem]{}, err
	}
	return decodePage(body, func(d mediaDTO) *domain.MediaItem { return mapMedia(d, c.baseURL) })
}

// ListPeople returns a page of person clusters
func (c *Client) ListPeople(ctx context.Context, cursor string, limit int) (pagecache.CursorPage[*domain.Person], error) {
	body, err := c.doRequest(ctx, http.MethodGet, "/api/people", pageQuery(cursor, limit), nil)
	if err != nil {
		return pagecache.CursorPage[*domain.Person]{}, err
	}
	return decodePage(body, func(d personDTO) *domain.Person { return mapPerson(d, c.baseURL) })
}

// ListPersonFaces returns a page of faces assigned to a person
func (c *Client) ListPersonFaces(ctx context.Context, personID, cursor string, limit int) (pagecache.CursorPage[*domain.Face], error) {
	path := fmt.Sprintf("/api/people/%s/faces", url.PathEscape(personID))
	body, err := c.doRequest(ctx, http.MethodGet, path, pageQuery(cursor, limit), nil)
	if err != nil {
		return pagecache.CursorPage[*domain.Face]{}, err
	}
	return decodePage(body, func(d faceDTO) *domain.Face { return mapFace(d, c.baseURL) })
}

// ListOrphanFaces returns a page of detected-but-unassigned faces
func (c *Client) ListOrphanFaces(ctx context.Context, cursor string, limit int) (pagecache.CursorPage[*domain.Face], error) {
	body, err := c.doRequest(ctx, http.MethodGet, "/api/faces/orphans", pageQuery(cursor, limit), nil)
	if err != nil {
		return pagecache.CursorPage[*domain.Face]{}, err
	}
	return decodePage(body, func(d faceDTO) *domain.Face { return mapFace(d, c.baseURL) })
}

// ListDuplicateGroups returns a page of unresolved duplicate groups
func (c *Client) ListDuplicateGroups(ctx context.Context, cursor string, limit int) (pagecache.CursorPage[*domain.DuplicateGroup], error) {
	body, err := c.doRequest(ctx, http.MethodGet, "/api/duplicates", pageQuery(cursor, limit), nil)
	if err != nil {
		return pagecache.CursorPage[*domain.DuplicateGroup]{}, err
	}
	return decodePage(body, func(d duplicateGroupDTO) *domain.DuplicateGroup { return mapDuplicateGroup(d, c.baseURL) })
}

// AssignFace assigns a face to a person cluster
func (c *Client) AssignFace(ctx context.Context, faceID, personID string) error {
	path := fmt.Sprintf("/api/faces/%s/assign", url.PathEscape(faceID))
	_, err := c.doRequest(ctx, http.MethodPost, path, nil, assignFaceRequest{PersonID: personID})
	return err
}

// DetachFace removes a face from its person cluster
func (c *Client) DetachFace(ctx context.Context, faceID string) error {
	path := fmt.Sprintf("/api/faces/%s/detach", url.PathEscape(faceID))
	_, err := c.doRequest(ctx, http.MethodPost, path, nil, nil)
	return err
}

// DeleteMedia removes an item from the library
func (c *Client) DeleteMedia(ctx context.Context, mediaID string) error {
	path := fmt.Sprintf("/api/media/%s", url.PathEscape(mediaID))
	_, err := c.doRequest(ctx, http.MethodDelete, path, nil, nil)
	return err
}

// SetFavorite flags or unflags an item as a favorite
func (c *Client) SetFavorite(ctx context.Context, mediaID string, favorite bool) error {
	path := fmt.Sprintf("/api/media/%s", url.PathEscape(mediaID))
	_, err := c.doRequest(ctx, http.MethodPatch, path, nil, favoriteRequest{Favorite: favorite})
	return err
}

// ResolveDuplicateGroup applies a resolution to a duplicate group
func (c *Client) ResolveDuplicateGroup(ctx context.Context, groupID string, resolution domain.DuplicateResolution) error {
	path := fmt.Sprintf("/api/duplicates/%s/resolve", url.PathEscape(groupID))
	_, err := c.doRequest(ctx, http.MethodPost, path, nil, resolveRequest{Resolution: string(resolution)})
	return err
}

// MergePeople merges the source person cluster into the destination
func (c *Client) MergePeople(ctx context.Context, sourceID, destID string) error {
	path := fmt.Sprintf("/api/people/%s/merge", url.PathEscape(sourceID))
	_, err := c.doRequest(ctx, http.MethodPost, path, nil, mergeRequest{Into: destID})
	return err
}

// RenamePerson sets the display name of a person cluster
func (c *Client) RenamePerson(ctx context.Context, personID, name string) error {
	path := fmt.Sprintf("/api/people/%s", url.PathEscape(personID))
	_, err := c.doRequest(ctx, http.MethodPatch, path, nil, renameRequest{Name: name})
	return err
}
