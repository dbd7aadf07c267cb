package spotify

import (
	"context"
	"net/http"
)

// FollowedArtistsRequest pages through followed artists. After is the last artist id of the previous page.
type FollowedArtistsRequest struct {
	Limit int
	After string
}

// FollowClient manages which artists, users and playlists the current user follows.
type FollowClient struct {
	d *Dispatcher
}

func NewFollowClient(d *Dispatcher) *FollowClient {
	return &FollowClient{d: d}
}

func (c *FollowClient) IsFollowingArtists(ctx context.Context, ids []string) ([]bool, error) {
	return c.contains(ctx, "artist", ids)
}

func (c *FollowClient) IsFollowingUsers(ctx context.Context, ids []string) ([]bool, error) {
	return c.contains(ctx, "user", ids)
}

// IsUsersFollowingPlaylist reports, per user id and in order, whether that user follows the playlist.
// The provider accepts five user ids per request.
func (c *FollowClient) IsUsersFollowingPlaylist(ctx context.Context, playlistID string, userIDs []string) ([]bool, error) {
	id, err := requireID("playlist", playlistID)
	if err != nil {
		return nil, err
	}
	if err := requireIDs("user", userIDs); err != nil {
		return nil, err
	}

	return chunked(ctx, userIDs, maxPlaylistFollowIDs, c.d.concurrency, func(ctx context.Context, _ int, chunk []string) ([]bool, error) {
		var following []bool
		req := NewRequest(http.MethodGet, c.d.URL("/playlists/"+id+"/followers/contains")).WithQuery(Query{}.AddList("ids", chunk))
		if err := c.d.sendJSON(ctx, req, &following); err != nil {
			return nil, err
		}
		return following, nil
	})
}

func (c *FollowClient) FollowArtists(ctx context.Context, ids []string) error {
	return c.follow(ctx, "artist", ids)
}

func (c *FollowClient) FollowUsers(ctx context.Context, ids []string) error {
	return c.follow(ctx, "user", ids)
}

// FollowPlaylist follows a playlist, showing it on the user's profile when public is true.
func (c *FollowClient) FollowPlaylist(ctx context.Context, playlistID string, public bool) error {
	id, err := requireID("playlist", playlistID)
	if err != nil {
		return err
	}

	body := struct {
		Public bool `json:"public"`
	}{Public: public}
	_, err = c.d.Send(ctx, NewRequest(http.MethodPut, c.d.URL("/playlists/"+id+"/followers")).WithBody(body))
	return err
}

type artistsCursorEnvelope struct {
	Artists *CursorPage[Artist] `json:"artists"`
}

func (c *FollowClient) FollowedArtists(ctx context.Context, r FollowedArtistsRequest) (*CursorPage[Artist], error) {
	q := Query{}.Add("type", "artist").AddInt("limit", cursorLimit(r.Limit))
	if r.After != "" {
		q = q.Add("after", r.After)
	}

	return getEnvelopeCursorPage(ctx, c.d, NewRequest(http.MethodGet, c.d.URL("/me/following")).WithQuery(q),
		func(e *artistsCursorEnvelope) *CursorPage[Artist] { return e.Artists })
}

func (c *FollowClient) UnfollowArtists(ctx context.Context, ids []string) error {
	return c.unfollow(ctx, "artist", ids)
}

func (c *FollowClient) UnfollowUsers(ctx context.Context, ids []string) error {
	return c.unfollow(ctx, "user", ids)
}

func (c *FollowClient) UnfollowPlaylist(ctx context.Context, playlistID string) error {
	id, err := requireID("playlist", playlistID)
	if err != nil {
		return err
	}

	_, err = c.d.Send(ctx, NewRequest(http.MethodDelete, c.d.URL("/playlists/"+id+"/followers")))
	return err
}

func (c *FollowClient) contains(ctx context.Context, kind string, ids []string) ([]bool, error) {
	if err := requireIDs(kind, ids); err != nil {
		return nil, err
	}

	return chunked(ctx, ids, maxFollowIDs, c.d.concurrency, func(ctx context.Context, _ int, chunk []string) ([]bool, error) {
		var following []bool
		req := NewRequest(http.MethodGet, c.d.URL("/me/following/contains")).
			WithQuery(Query{}.Add("type", kind).AddList("ids", chunk))
		if err := c.d.sendJSON(ctx, req, &following); err != nil {
			return nil, err
		}
		return following, nil
	})
}

func (c *FollowClient) follow(ctx context.Context, kind string, ids []string) error {
	if err := requireIDs(kind, ids); err != nil {
		return err
	}

	_, err := chunked(ctx, ids, maxFollowIDs, c.d.concurrency, func(ctx context.Context, _ int, chunk []string) ([]struct{}, error) {
		body := struct {
			IDs []string `json:"ids"`
		}{IDs: chunk}
		_, err := c.d.Send(ctx, NewRequest(http.MethodPut, c.d.URL("/me/following")).
			WithQuery(Query{}.Add("type", kind)).
			WithBody(body))
		return nil, err
	})
	return err
}

func (c *FollowClient) unfollow(ctx context.Context, kind string, ids []string) error {
	if err := requireIDs(kind, ids); err != nil {
		return err
	}

	_, err := chunked(ctx, ids, maxFollowIDs, c.d.concurrency, func(ctx context.Context, _ int, chunk []string) ([]struct{}, error) {
		_, err := c.d.Send(ctx, NewRequest(http.MethodDelete, c.d.URL("/me/following")).
			WithQuery(Query{}.Add("type", kind).AddList("ids", chunk)))
		return nil, err
	})
	return err
}
