package spotify

import (
	"context"
	"fmt"
	"net/http"
	"slices"
)

// AlbumGroup filters an artist's discography.
type AlbumGroup string

const (
	AlbumGroupAlbum       AlbumGroup = "album"
	AlbumGroupSingle      AlbumGroup = "single"
	AlbumGroupAppearsOn   AlbumGroup = "appears_on"
	AlbumGroupCompilation AlbumGroup = "compilation"
)

func (g AlbumGroup) valid() bool {
	switch g {
	case AlbumGroupAlbum, AlbumGroupSingle, AlbumGroupAppearsOn, AlbumGroupCompilation:
		return true
	}
	return false
}

// ArtistAlbumsRequest selects albums of an artist. An empty Groups returns every group.
type ArtistAlbumsRequest struct {
	ArtistID string
	Groups   []AlbumGroup
	PageOptions
}

// ArtistClient reads artist catalog information.
type ArtistClient struct {
	d *Dispatcher
}

func NewArtistClient(d *Dispatcher) *ArtistClient {
	return &ArtistClient{d: d}
}

func (c *ArtistClient) Artist(ctx context.Context, id string) (*Artist, error) {
	id, err := requireID("artist", id)
	if err != nil {
		return nil, err
	}

	var artist Artist
	if err := c.d.sendJSON(ctx, NewRequest(http.MethodGet, c.d.URL("/artists/"+id)), &artist); err != nil {
		return nil, err
	}
	return &artist, nil
}

// Artists fetches several artists, 50 per request. Unknown ids yield nil entries at their position.
func (c *ArtistClient) Artists(ctx context.Context, ids []string) ([]*Artist, error) {
	if err := requireIDs("artist", ids); err != nil {
		return nil, err
	}

	return chunked(ctx, ids, maxArtistIDs, c.d.concurrency, func(ctx context.Context, _ int, chunk []string) ([]*Artist, error) {
		req := NewRequest(http.MethodGet, c.d.URL("/artists")).WithQuery(Query{}.AddList("ids", chunk))

		var res struct {
			Artists []*Artist `json:"artists"`
		}
		if err := c.d.sendJSON(ctx, req, &res); err != nil {
			return nil, err
		}
		return res.Artists, nil
	})
}

// Albums lists an artist's albums. Groups are de-duplicated and sent in sorted order.
func (c *ArtistClient) Albums(ctx context.Context, r ArtistAlbumsRequest) (*Page[SimpleAlbum], error) {
	id, err := requireID("artist", r.ArtistID)
	if err != nil {
		return nil, err
	}

	groups := make([]string, 0, len(r.Groups))
	for _, g := range r.Groups {
		if !g.valid() {
			return nil, fmt.Errorf("%w: unknown album group %q", ErrInvalidInput, g)
		}
		groups = append(groups, string(g))
	}
	slices.Sort(groups)
	groups = slices.Compact(groups)

	q := Query{}.AddList("include_groups", groups).Add("market", c.d.Market())
	q = r.PageOptions.apply(q, maxLimit)
	return getPage[SimpleAlbum](ctx, c.d, NewRequest(http.MethodGet, c.d.URL("/artists/"+id+"/albums")).WithQuery(q))
}

// TopTracks returns an artist's most popular tracks in the dispatcher's market.
func (c *ArtistClient) TopTracks(ctx context.Context, id string) ([]Track, error) {
	id, err := requireID("artist", id)
	if err != nil {
		return nil, err
	}

	req := NewRequest(http.MethodGet, c.d.URL("/artists/"+id+"/top-tracks")).WithQuery(marketQuery(c.d))
	var res struct {
		Tracks []Track `json:"tracks"`
	}
	if err := c.d.sendJSON(ctx, req, &res); err != nil {
		return nil, err
	}
	return res.Tracks, nil
}

// RelatedArtists returns artists similar to the given one.
func (c *ArtistClient) RelatedArtists(ctx context.Context, id string) ([]Artist, error) {
	id, err := requireID("artist", id)
	if err != nil {
		return nil, err
	}

	var res struct {
		Artists []Artist `json:"artists"`
	}
	if err := c.d.sendJSON(ctx, NewRequest(http.MethodGet, c.d.URL("/artists/"+id+"/related-artists")), &res); err != nil {
		return nil, err
	}
	return res.Artists, nil
}
