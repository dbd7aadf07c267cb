package spotify

import (
	"context"
	"fmt"
	"net/http"
)

// TimeRange is the window over which top items are computed.
type TimeRange string

const (
	LongTerm   TimeRange = "long_term"   // several years
	MediumTerm TimeRange = "medium_term" // about six months
	ShortTerm  TimeRange = "short_term"  // about four weeks
)

// TopRequest selects a page of top items. An empty TimeRange means [MediumTerm].
type TopRequest struct {
	TimeRange TimeRange
	PageOptions
}

func (r TopRequest) query() (Query, error) {
	tr := r.TimeRange
	switch tr {
	case "":
		tr = MediumTerm
	case LongTerm, MediumTerm, ShortTerm:
	default:
		return nil, fmt.Errorf("%w: unknown time range %q", ErrInvalidInput, tr)
	}
	return r.PageOptions.apply(Query{}, maxLimit).Add("time_range", string(tr)), nil
}

// PersonalizationClient reads the current user's listening affinities.
type PersonalizationClient struct {
	d *Dispatcher
}

func NewPersonalizationClient(d *Dispatcher) *PersonalizationClient {
	return &PersonalizationClient{d: d}
}

func (c *PersonalizationClient) TopArtists(ctx context.Context, r TopRequest) (*Page[Artist], error) {
	q, err := r.query()
	if err != nil {
		return nil, err
	}
	return getPage[Artist](ctx, c.d, NewRequest(http.MethodGet, c.d.URL("/me/top/artists")).WithQuery(q))
}

func (c *PersonalizationClient) TopTracks(ctx context.Context, r TopRequest) (*Page[Track], error) {
	q, err := r.query()
	if err != nil {
		return nil, err
	}
	return getPage[Track](ctx, c.d, NewRequest(http.MethodGet, c.d.URL("/me/top/tracks")).WithQuery(q))
}
