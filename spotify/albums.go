package spotify

import (
	"context"
	"net/http"
)

// AlbumClient reads album catalog information.
type AlbumClient struct {
	d *Dispatcher
}

func NewAlbumClient(d *Dispatcher) *AlbumClient {
	return &AlbumClient{d: d}
}

// Album fetches a single album. Its first page of tracks can be walked with [Page.AllItems].
func (c *AlbumClient) Album(ctx context.Context, id string) (*Album, error) {
	id, err := requireID("album", id)
	if err != nil {
		return nil, err
	}

	req := NewRequest(http.MethodGet, c.d.URL("/albums/"+id)).WithQuery(marketQuery(c.d))
	var album Album
	if err := c.d.sendJSON(ctx, req, &album); err != nil {
		return nil, err
	}
	album.Tracks.bind(c.d, nil)
	return &album, nil
}

// Albums fetches several albums, 20 per request. Unknown ids yield nil entries at their position.
func (c *AlbumClient) Albums(ctx context.Context, ids []string) ([]*Album, error) {
	if err := requireIDs("album", ids); err != nil {
		return nil, err
	}

	return chunked(ctx, ids, maxAlbumIDs, c.d.concurrency, func(ctx context.Context, _ int, chunk []string) ([]*Album, error) {
		req := NewRequest(http.MethodGet, c.d.URL("/albums")).
			WithQuery(Query{}.AddList("ids", chunk).Add("market", c.d.Market()))

		var res struct {
			Albums []*Album `json:"albums"`
		}
		if err := c.d.sendJSON(ctx, req, &res); err != nil {
			return nil, err
		}
		for _, a := range res.Albums {
			if a != nil {
				a.Tracks.bind(c.d, nil)
			}
		}
		return res.Albums, nil
	})
}

// Tracks lists the tracks of an album. Limit is capped at 50.
func (c *AlbumClient) Tracks(ctx context.Context, id string, opts PageOptions) (*Page[SimpleTrack], error) {
	id, err := requireID("album", id)
	if err != nil {
		return nil, err
	}

	q := opts.apply(marketQuery(c.d), maxLimit)
	return getPage[SimpleTrack](ctx, c.d, NewRequest(http.MethodGet, c.d.URL("/albums/"+id+"/tracks")).WithQuery(q))
}
