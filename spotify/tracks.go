package spotify

import (
	"context"
	"net/http"
)

// TrackClient reads tracks and their audio analysis.
type TrackClient struct {
	d *Dispatcher
}

func NewTrackClient(d *Dispatcher) *TrackClient {
	return &TrackClient{d: d}
}

func (c *TrackClient) Track(ctx context.Context, id string) (*Track, error) {
	id, err := requireID("track", id)
	if err != nil {
		return nil, err
	}

	var track Track
	req := NewRequest(http.MethodGet, c.d.URL("/tracks/"+id)).WithQuery(marketQuery(c.d))
	if err := c.d.sendJSON(ctx, req, &track); err != nil {
		return nil, err
	}
	return &track, nil
}

// Tracks fetches several tracks, 50 per request, in the order of ids. Duplicated ids are returned twice.
func (c *TrackClient) Tracks(ctx context.Context, ids []string) ([]*Track, error) {
	if err := requireIDs("track", ids); err != nil {
		return nil, err
	}

	return chunked(ctx, ids, maxTrackIDs, c.d.concurrency, func(ctx context.Context, _ int, chunk []string) ([]*Track, error) {
		req := NewRequest(http.MethodGet, c.d.URL("/tracks")).
			WithQuery(Query{}.AddList("ids", chunk).Add("market", c.d.Market()))

		var res struct {
			Tracks []*Track `json:"tracks"`
		}
		if err := c.d.sendJSON(ctx, req, &res); err != nil {
			return nil, err
		}
		return res.Tracks, nil
	})
}

func (c *TrackClient) AudioFeature(ctx context.Context, id string) (*AudioFeatures, error) {
	id, err := requireID("track", id)
	if err != nil {
		return nil, err
	}

	var features AudioFeatures
	if err := c.d.sendJSON(ctx, NewRequest(http.MethodGet, c.d.URL("/audio-features/"+id)), &features); err != nil {
		return nil, err
	}
	return &features, nil
}

// AudioFeatures fetches audio features for several tracks, 100 per request.
func (c *TrackClient) AudioFeatures(ctx context.Context, ids []string) ([]*AudioFeatures, error) {
	if err := requireIDs("track", ids); err != nil {
		return nil, err
	}

	return chunked(ctx, ids, maxAudioFeatureIDs, c.d.concurrency, func(ctx context.Context, _ int, chunk []string) ([]*AudioFeatures, error) {
		req := NewRequest(http.MethodGet, c.d.URL("/audio-features")).WithQuery(Query{}.AddList("ids", chunk))

		var res struct {
			AudioFeatures []*AudioFeatures `json:"audio_features"`
		}
		if err := c.d.sendJSON(ctx, req, &res); err != nil {
			return nil, err
		}
		return res.AudioFeatures, nil
	})
}

func (c *TrackClient) AudioAnalysis(ctx context.Context, id string) (*AudioAnalysis, error) {
	id, err := requireID("track", id)
	if err != nil {
		return nil, err
	}

	var analysis AudioAnalysis
	if err := c.d.sendJSON(ctx, NewRequest(http.MethodGet, c.d.URL("/audio-analysis/"+id)), &analysis); err != nil {
		return nil, err
	}
	return &analysis, nil
}
