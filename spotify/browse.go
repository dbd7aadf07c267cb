package spotify

import (
	"context"
	"fmt"
	"net/http"
	"slices"
	"strconv"
	"time"
)

const (
	maxRecommendationSeeds = 5
	maxRecommendationLimit = 100
)

// TrackAttribute is a tunable audio attribute of the recommendations endpoint.
type TrackAttribute string

const (
	AttrAcousticness     TrackAttribute = "acousticness"
	AttrDanceability     TrackAttribute = "danceability"
	AttrDurationMS       TrackAttribute = "duration_ms"
	AttrEnergy           TrackAttribute = "energy"
	AttrInstrumentalness TrackAttribute = "instrumentalness"
	AttrKey              TrackAttribute = "key"
	AttrLiveness         TrackAttribute = "liveness"
	AttrLoudness         TrackAttribute = "loudness"
	AttrMode             TrackAttribute = "mode"
	AttrPopularity       TrackAttribute = "popularity"
	AttrSpeechiness      TrackAttribute = "speechiness"
	AttrTempo            TrackAttribute = "tempo"
	AttrTimeSignature    TrackAttribute = "time_signature"
	AttrValence          TrackAttribute = "valence"
)

// RecommendationFilter seeds and tunes a recommendations request.
// Between one and five seeds are required across artists, genres and tracks.
type RecommendationFilter struct {
	SeedArtists []string
	SeedGenres  []string
	SeedTracks  []string

	Min    map[TrackAttribute]float64
	Max    map[TrackAttribute]float64
	Target map[TrackAttribute]float64
}

func (f RecommendationFilter) query() (Query, error) {
	seeds := len(f.SeedArtists) + len(f.SeedGenres) + len(f.SeedTracks)
	if seeds == 0 || seeds > maxRecommendationSeeds {
		return nil, fmt.Errorf("%w: recommendations need 1 to %d seeds, got %d", ErrInvalidInput, maxRecommendationSeeds, seeds)
	}

	q := Query{}.
		AddList("seed_artists", f.SeedArtists).
		AddList("seed_genres", f.SeedGenres).
		AddList("seed_tracks", f.SeedTracks)
	q = addAttributes(q, "min_", f.Min)
	q = addAttributes(q, "max_", f.Max)
	q = addAttributes(q, "target_", f.Target)
	return q, nil
}

func addAttributes(q Query, prefix string, attrs map[TrackAttribute]float64) Query {
	keys := make([]TrackAttribute, 0, len(attrs))
	for k := range attrs {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	for _, k := range keys {
		q = q.Add(prefix+string(k), strconv.FormatFloat(attrs[k], 'f', -1, 64))
	}
	return q
}

// BrowseOptions localises browse results. An empty Country means the provider default.
type BrowseOptions struct {
	Country string
	Locale  string // e.g. es_MX
	PageOptions
}

func (o BrowseOptions) localeQuery() (Query, error) {
	q := Query{}
	if o.Country != "" {
		country, err := NormalizeMarket(o.Country)
		if err != nil {
			return nil, err
		}
		if country != DefaultMarket {
			q = q.Add("country", country)
		}
	}
	if o.Locale != "" {
		q = q.Add("locale", o.Locale)
	}
	return q, nil
}

func (o BrowseOptions) query() (Query, error) {
	q, err := o.localeQuery()
	if err != nil {
		return nil, err
	}
	return o.PageOptions.apply(q, maxLimit), nil
}

// FeaturedPlaylistsRequest selects featured playlists. A zero Timestamp means now.
type FeaturedPlaylistsRequest struct {
	Timestamp time.Time
	BrowseOptions
}

// RecommendationsRequest asks for up to Limit tracks (at most 100) matching Filter.
type RecommendationsRequest struct {
	Limit  int
	Filter RecommendationFilter
}

// BrowseClient reads editorial and category content.
type BrowseClient struct {
	d *Dispatcher
}

func NewBrowseClient(d *Dispatcher) *BrowseClient {
	return &BrowseClient{d: d}
}

func (c *BrowseClient) Category(ctx context.Context, id string, opts BrowseOptions) (*Category, error) {
	id, err := requireID("category", id)
	if err != nil {
		return nil, err
	}

	q, err := opts.localeQuery()
	if err != nil {
		return nil, err
	}

	var category Category
	if err := c.d.sendJSON(ctx, NewRequest(http.MethodGet, c.d.URL("/browse/categories/"+id)).WithQuery(q), &category); err != nil {
		return nil, err
	}
	return &category, nil
}

type categoriesEnvelope struct {
	Categories *Page[Category] `json:"categories"`
}

func (c *BrowseClient) Categories(ctx context.Context, opts BrowseOptions) (*Page[Category], error) {
	q, err := opts.query()
	if err != nil {
		return nil, err
	}

	page, _, err := getEnvelopePage(ctx, c.d, NewRequest(http.MethodGet, c.d.URL("/browse/categories")).WithQuery(q),
		func(e *categoriesEnvelope) *Page[Category] { return e.Categories })
	return page, err
}

type playlistsEnvelope struct {
	Message   string                `json:"message"`
	Playlists *Page[SimplePlaylist] `json:"playlists"`
}

func (c *BrowseClient) CategoryPlaylists(ctx context.Context, id string, opts BrowseOptions) (*Page[SimplePlaylist], error) {
	id, err := requireID("category", id)
	if err != nil {
		return nil, err
	}
	q, err := opts.query()
	if err != nil {
		return nil, err
	}

	page, _, err := getEnvelopePage(ctx, c.d, NewRequest(http.MethodGet, c.d.URL("/browse/categories/"+id+"/playlists")).WithQuery(q),
		func(e *playlistsEnvelope) *Page[SimplePlaylist] { return e.Playlists })
	return page, err
}

// FeaturedPlaylists returns the editorial message with its page of playlists.
func (c *BrowseClient) FeaturedPlaylists(ctx context.Context, r FeaturedPlaylistsRequest) (*FeaturedPlaylists, error) {
	q, err := r.BrowseOptions.query()
	if err != nil {
		return nil, err
	}
	if !r.Timestamp.IsZero() {
		q = q.Add("timestamp", r.Timestamp.Format("2006-01-02T15:04:05"))
	}

	page, env, err := getEnvelopePage(ctx, c.d, NewRequest(http.MethodGet, c.d.URL("/browse/featured-playlists")).WithQuery(q),
		func(e *playlistsEnvelope) *Page[SimplePlaylist] { return e.Playlists })
	if err != nil {
		return nil, err
	}
	return &FeaturedPlaylists{Message: env.Message, Playlists: page}, nil
}

type albumsEnvelope struct {
	Albums *Page[SimpleAlbum] `json:"albums"`
}

func (c *BrowseClient) NewReleases(ctx context.Context, opts BrowseOptions) (*Page[SimpleAlbum], error) {
	q, err := opts.query()
	if err != nil {
		return nil, err
	}

	page, _, err := getEnvelopePage(ctx, c.d, NewRequest(http.MethodGet, c.d.URL("/browse/new-releases")).WithQuery(q),
		func(e *albumsEnvelope) *Page[SimpleAlbum] { return e.Albums })
	return page, err
}

func (c *BrowseClient) Recommendations(ctx context.Context, r RecommendationsRequest) (*Recommendations, error) {
	limit := r.Limit
	if limit <= 0 || limit > maxRecommendationLimit {
		limit = defaultLimit
	}

	q, err := r.Filter.query()
	if err != nil {
		return nil, err
	}
	q = Query{}.AddInt("limit", limit).Add("market", c.d.Market()).Append(q...)

	var recs Recommendations
	if err := c.d.sendJSON(ctx, NewRequest(http.MethodGet, c.d.URL("/recommendations")).WithQuery(q), &recs); err != nil {
		return nil, err
	}
	return &recs, nil
}
