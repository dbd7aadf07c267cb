package spotify

import (
	"context"
	"fmt"
	"net/http"
)

// PlaylistRequest selects a playlist. Fields is the provider's field filter and may be empty.
type PlaylistRequest struct {
	PlaylistID string
	Fields     string
}

// PlaylistsRequest lists the playlists of UserID, or of the current user when UserID is empty.
type PlaylistsRequest struct {
	UserID string
	PageOptions
}

// PlaylistItemsRequest selects the items of a playlist. Limit is capped at 100.
type PlaylistItemsRequest struct {
	PlaylistID string
	Fields     string
	PageOptions
}

// CreatePlaylistRequest describes a new playlist owned by UserID.
type CreatePlaylistRequest struct {
	UserID        string `json:"-"`
	Name          string `json:"name"`
	Public        *bool  `json:"public,omitempty"`
	Collaborative *bool  `json:"collaborative,omitempty"`
	Description   string `json:"description,omitempty"`
}

// ChangeDetailsRequest updates playlist metadata. Nil fields are left unchanged.
type ChangeDetailsRequest struct {
	PlaylistID    string  `json:"-"`
	Name          *string `json:"name,omitempty"`
	Public        *bool   `json:"public,omitempty"`
	Collaborative *bool   `json:"collaborative,omitempty"`
	Description   *string `json:"description,omitempty"`
}

// AddItemsRequest inserts URIs at Position, or appends them when Position is nil.
type AddItemsRequest struct {
	PlaylistID string
	URIs       []string
	Position   *int
}

// RemoveItemsRequest removes every occurrence of URIs. SnapshotID, when set, guards the first request.
type RemoveItemsRequest struct {
	PlaylistID string
	URIs       []string
	SnapshotID string
}

// ReorderRequest moves RangeLength items starting at RangeStart to before InsertBefore.
type ReorderRequest struct {
	PlaylistID   string `json:"-"`
	RangeStart   int    `json:"range_start"`
	InsertBefore int    `json:"insert_before"`
	RangeLength  int    `json:"range_length,omitempty"`
	SnapshotID   string `json:"snapshot_id,omitempty"`
}

// PlaylistClient reads and edits playlists. Item mutations are sent one chunk at a time, in order.
type PlaylistClient struct {
	d *Dispatcher
}

func NewPlaylistClient(d *Dispatcher) *PlaylistClient {
	return &PlaylistClient{d: d}
}

func (c *PlaylistClient) Playlist(ctx context.Context, r PlaylistRequest) (*Playlist, error) {
	id, err := requireID("playlist", r.PlaylistID)
	if err != nil {
		return nil, err
	}

	q := marketQuery(c.d)
	if r.Fields != "" {
		q = q.Add("fields", r.Fields)
	}

	var playlist Playlist
	if err := c.d.sendJSON(ctx, NewRequest(http.MethodGet, c.d.URL("/playlists/"+id)).WithQuery(q), &playlist); err != nil {
		return nil, err
	}
	playlist.Tracks.bind(c.d, nil)
	return &playlist, nil
}

func (c *PlaylistClient) Playlists(ctx context.Context, r PlaylistsRequest) (*Page[SimplePlaylist], error) {
	path := "/me/playlists"
	if r.UserID != "" {
		id, err := requireID("user", r.UserID)
		if err != nil {
			return nil, err
		}
		path = "/users/" + id + "/playlists"
	}

	q := r.PageOptions.apply(Query{}, maxLimit)
	return getPage[SimplePlaylist](ctx, c.d, NewRequest(http.MethodGet, c.d.URL(path)).WithQuery(q))
}

func (c *PlaylistClient) Items(ctx context.Context, r PlaylistItemsRequest) (*Page[PlaylistTrack], error) {
	id, err := requireID("playlist", r.PlaylistID)
	if err != nil {
		return nil, err
	}

	q := marketQuery(c.d)
	if r.Fields != "" {
		q = q.Add("fields", r.Fields)
	}
	q = r.PageOptions.apply(q, maxPlaylistItems)
	return getPage[PlaylistTrack](ctx, c.d, NewRequest(http.MethodGet, c.d.URL("/playlists/"+id+"/tracks")).WithQuery(q))
}

func (c *PlaylistClient) CoverImages(ctx context.Context, playlistID string) ([]Image, error) {
	id, err := requireID("playlist", playlistID)
	if err != nil {
		return nil, err
	}

	var images []Image
	if err := c.d.sendJSON(ctx, NewRequest(http.MethodGet, c.d.URL("/playlists/"+id+"/images")), &images); err != nil {
		return nil, err
	}
	return images, nil
}

func (c *PlaylistClient) Create(ctx context.Context, r CreatePlaylistRequest) (*Playlist, error) {
	userID, err := requireID("user", r.UserID)
	if err != nil {
		return nil, err
	}
	if r.Name == "" {
		return nil, fmt.Errorf("%w: playlist name is required", ErrInvalidInput)
	}

	var playlist Playlist
	req := NewRequest(http.MethodPost, c.d.URL("/users/"+userID+"/playlists")).WithBody(r)
	if err := c.d.sendJSON(ctx, req, &playlist); err != nil {
		return nil, err
	}
	playlist.Tracks.bind(c.d, nil)
	return &playlist, nil
}

func (c *PlaylistClient) ChangeDetails(ctx context.Context, r ChangeDetailsRequest) error {
	id, err := requireID("playlist", r.PlaylistID)
	if err != nil {
		return err
	}

	_, err = c.d.Send(ctx, NewRequest(http.MethodPut, c.d.URL("/playlists/"+id)).WithBody(r))
	return err
}

// AddItems adds URIs 100 per request and returns one snapshot per request.
// With a Position, each later chunk is inserted 100 places after the previous one so order is kept.
func (c *PlaylistClient) AddItems(ctx context.Context, r AddItemsRequest) ([]Snapshot, error) {
	id, err := requireID("playlist", r.PlaylistID)
	if err != nil {
		return nil, err
	}
	if r.Position != nil && *r.Position < 0 {
		return nil, fmt.Errorf("%w: negative position %d", ErrInvalidInput, *r.Position)
	}

	return chunked(ctx, r.URIs, maxPlaylistItems, 1, func(ctx context.Context, i int, chunk []string) ([]Snapshot, error) {
		return c.postItems(ctx, id, chunk, r.Position, i)
	})
}

func (c *PlaylistClient) postItems(ctx context.Context, id string, uris []string, position *int, chunk int) ([]Snapshot, error) {
	body := struct {
		URIs     []string `json:"uris"`
		Position *int     `json:"position,omitempty"`
	}{URIs: uris}
	if position != nil {
		pos := *position + chunk*maxPlaylistItems
		body.Position = &pos
	}

	var snapshot Snapshot
	req := NewRequest(http.MethodPost, c.d.URL("/playlists/"+id+"/tracks")).WithBody(body)
	if err := c.d.sendJSON(ctx, req, &snapshot); err != nil {
		return nil, err
	}
	return []Snapshot{snapshot}, nil
}

// RemoveItems removes URIs 100 per request and returns one snapshot per request.
func (c *PlaylistClient) RemoveItems(ctx context.Context, r RemoveItemsRequest) ([]Snapshot, error) {
	id, err := requireID("playlist", r.PlaylistID)
	if err != nil {
		return nil, err
	}

	type trackRef struct {
		URI string `json:"uri"`
	}

	return chunked(ctx, r.URIs, maxPlaylistItems, 1, func(ctx context.Context, i int, chunk []string) ([]Snapshot, error) {
		body := struct {
			Tracks     []trackRef `json:"tracks"`
			SnapshotID string     `json:"snapshot_id,omitempty"`
		}{Tracks: make([]trackRef, len(chunk))}
		for j, uri := range chunk {
			body.Tracks[j] = trackRef{URI: uri}
		}
		if i == 0 {
			body.SnapshotID = r.SnapshotID
		}

		var snapshot Snapshot
		req := NewRequest(http.MethodDelete, c.d.URL("/playlists/"+id+"/tracks")).WithBody(body)
		if err := c.d.sendJSON(ctx, req, &snapshot); err != nil {
			return nil, err
		}
		return []Snapshot{snapshot}, nil
	})
}

func (c *PlaylistClient) Reorder(ctx context.Context, r ReorderRequest) (*Snapshot, error) {
	id, err := requireID("playlist", r.PlaylistID)
	if err != nil {
		return nil, err
	}
	if r.RangeStart < 0 || r.InsertBefore < 0 || r.RangeLength < 0 {
		return nil, fmt.Errorf("%w: reorder positions must not be negative", ErrInvalidInput)
	}

	var snapshot Snapshot
	req := NewRequest(http.MethodPut, c.d.URL("/playlists/"+id+"/tracks")).WithBody(r)
	if err := c.d.sendJSON(ctx, req, &snapshot); err != nil {
		return nil, err
	}
	return &snapshot, nil
}

// Replace sets the playlist items to uris. The first 100 replace the current items and the rest are
// appended in order. An empty uris clears the playlist.
func (c *PlaylistClient) Replace(ctx context.Context, playlistID string, uris []string) ([]Snapshot, error) {
	id, err := requireID("playlist", playlistID)
	if err != nil {
		return nil, err
	}

	first := uris[:min(len(uris), maxPlaylistItems)]
	body := struct {
		URIs []string `json:"uris"`
	}{URIs: append([]string{}, first...)}

	var snapshot Snapshot
	req := NewRequest(http.MethodPut, c.d.URL("/playlists/"+id+"/tracks")).WithBody(body)
	if err := c.d.sendJSON(ctx, req, &snapshot); err != nil {
		return nil, err
	}

	rest, err := chunked(ctx, uris[len(first):], maxPlaylistItems, 1, func(ctx context.Context, _ int, chunk []string) ([]Snapshot, error) {
		return c.postItems(ctx, id, chunk, nil, 0)
	})
	if err != nil {
		return nil, err
	}
	return append([]Snapshot{snapshot}, rest...), nil
}
