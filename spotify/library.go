package spotify

import (
	"context"
	"net/http"
)

// LibraryClient manages the current user's saved albums, tracks and shows.
type LibraryClient struct {
	d *Dispatcher
}

func NewLibraryClient(d *Dispatcher) *LibraryClient {
	return &LibraryClient{d: d}
}

// libraryKind names a saved-item collection under /me and its per-request id cap.
type libraryKind struct {
	path string
	name string
	cap  int
}

var (
	libraryAlbums = libraryKind{path: "/me/albums", name: "album", cap: maxLibraryAlbumIDs}
	libraryTracks = libraryKind{path: "/me/tracks", name: "track", cap: maxLibraryIDs}
	libraryShows  = libraryKind{path: "/me/shows", name: "show", cap: maxLibraryIDs}
)

// IsSavedAlbums reports, per id and in order, whether the album is in the user's library.
func (c *LibraryClient) IsSavedAlbums(ctx context.Context, ids []string) ([]bool, error) {
	return c.contains(ctx, libraryAlbums, ids)
}

func (c *LibraryClient) IsSavedTracks(ctx context.Context, ids []string) ([]bool, error) {
	return c.contains(ctx, libraryTracks, ids)
}

func (c *LibraryClient) IsSavedShows(ctx context.Context, ids []string) ([]bool, error) {
	return c.contains(ctx, libraryShows, ids)
}

func (c *LibraryClient) SavedAlbums(ctx context.Context, opts PageOptions) (*Page[SavedAlbum], error) {
	return getPage[SavedAlbum](ctx, c.d, NewRequest(http.MethodGet, c.d.URL(libraryAlbums.path)).WithQuery(opts.apply(marketQuery(c.d), maxLimit)))
}

func (c *LibraryClient) SavedTracks(ctx context.Context, opts PageOptions) (*Page[SavedTrack], error) {
	return getPage[SavedTrack](ctx, c.d, NewRequest(http.MethodGet, c.d.URL(libraryTracks.path)).WithQuery(opts.apply(marketQuery(c.d), maxLimit)))
}

func (c *LibraryClient) SavedShows(ctx context.Context, opts PageOptions) (*Page[SavedShow], error) {
	return getPage[SavedShow](ctx, c.d, NewRequest(http.MethodGet, c.d.URL(libraryShows.path)).WithQuery(opts.apply(Query{}, maxLimit)))
}

func (c *LibraryClient) SaveAlbums(ctx context.Context, ids []string) error {
	return c.mutate(ctx, http.MethodPut, libraryAlbums, ids)
}

func (c *LibraryClient) SaveTracks(ctx context.Context, ids []string) error {
	return c.mutate(ctx, http.MethodPut, libraryTracks, ids)
}

func (c *LibraryClient) SaveShows(ctx context.Context, ids []string) error {
	return c.mutate(ctx, http.MethodPut, libraryShows, ids)
}

func (c *LibraryClient) RemoveSavedAlbums(ctx context.Context, ids []string) error {
	return c.mutate(ctx, http.MethodDelete, libraryAlbums, ids)
}

func (c *LibraryClient) RemoveSavedTracks(ctx context.Context, ids []string) error {
	return c.mutate(ctx, http.MethodDelete, libraryTracks, ids)
}

func (c *LibraryClient) RemoveSavedShows(ctx context.Context, ids []string) error {
	return c.mutate(ctx, http.MethodDelete, libraryShows, ids)
}

func (c *LibraryClient) contains(ctx context.Context, kind libraryKind, ids []string) ([]bool, error) {
	if err := requireIDs(kind.name, ids); err != nil {
		return nil, err
	}

	return chunked(ctx, ids, kind.cap, c.d.concurrency, func(ctx context.Context, _ int, chunk []string) ([]bool, error) {
		var saved []bool
		req := NewRequest(http.MethodGet, c.d.URL(kind.path+"/contains")).WithQuery(Query{}.AddList("ids", chunk))
		if err := c.d.sendJSON(ctx, req, &saved); err != nil {
			return nil, err
		}
		return saved, nil
	})
}

func (c *LibraryClient) mutate(ctx context.Context, method string, kind libraryKind, ids []string) error {
	if err := requireIDs(kind.name, ids); err != nil {
		return err
	}

	_, err := chunked(ctx, ids, kind.cap, c.d.concurrency, func(ctx context.Context, _ int, chunk []string) ([]struct{}, error) {
		_, err := c.d.Send(ctx, NewRequest(method, c.d.URL(kind.path)).WithQuery(Query{}.AddList("ids", chunk)))
		return nil, err
	})
	return err
}
