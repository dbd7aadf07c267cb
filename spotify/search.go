package spotify

import (
	"context"
	"fmt"
	"net/http"
	"slices"
	"strconv"
	"strings"
)

// SearchType is a kind of catalog object a search can return.
type SearchType string

const (
	SearchTypeAlbum    SearchType = "album"
	SearchTypeArtist   SearchType = "artist"
	SearchTypePlaylist SearchType = "playlist"
	SearchTypeTrack    SearchType = "track"
	SearchTypeShow     SearchType = "show"
)

// ParseSearchType maps a name such as "artist" to its [SearchType].
func ParseSearchType(s string) (SearchType, error) {
	t := SearchType(strings.ToLower(strings.TrimSpace(s)))
	switch t {
	case SearchTypeAlbum, SearchTypeArtist, SearchTypePlaylist, SearchTypeTrack, SearchTypeShow:
		return t, nil
	}
	return "", fmt.Errorf("%w: unknown search type %q", ErrInvalidInput, s)
}

// SearchQuery builds the q parameter of a search from keywords and field filters.
type SearchQuery struct {
	terms []string
}

// NewSearchQuery starts a query, optionally with free-text keywords.
func NewSearchQuery(keywords ...string) *SearchQuery {
	q := &SearchQuery{}
	for _, k := range keywords {
		q.Keyword(k)
	}
	return q
}

func (q *SearchQuery) Keyword(k string) *SearchQuery {
	if k = strings.TrimSpace(k); k != "" {
		q.terms = append(q.terms, k)
	}
	return q
}

func (q *SearchQuery) Album(name string) *SearchQuery  { return q.field("album", name) }
func (q *SearchQuery) Artist(name string) *SearchQuery { return q.field("artist", name) }
func (q *SearchQuery) Track(name string) *SearchQuery  { return q.field("track", name) }
func (q *SearchQuery) Genre(name string) *SearchQuery  { return q.field("genre", name) }
func (q *SearchQuery) ISRC(code string) *SearchQuery   { return q.field("isrc", code) }
func (q *SearchQuery) UPC(code string) *SearchQuery    { return q.field("upc", code) }

// Year restricts results to a release year.
func (q *SearchQuery) Year(year int) *SearchQuery {
	return q.field("year", strconv.Itoa(year))
}

// YearRange restricts results to releases between from and to, inclusive.
func (q *SearchQuery) YearRange(from, to int) *SearchQuery {
	if from > to {
		from, to = to, from
	}
	return q.field("year", fmt.Sprintf("%d-%d", from, to))
}

func (q *SearchQuery) field(name, value string) *SearchQuery {
	if value = strings.TrimSpace(value); value != "" {
		q.terms = append(q.terms, name+":"+value)
	}
	return q
}

// String renders the query as sent in the q parameter.
func (q *SearchQuery) String() string {
	return strings.Join(q.terms, " ")
}

// SearchRequest runs Query against one or more Types. Limit is capped at 50.
type SearchRequest struct {
	Query           *SearchQuery
	Types           []SearchType
	IncludeExternal bool
	PageOptions
}

// SearchResult holds one traversable page per requested type. Types not requested are nil.
type SearchResult struct {
	Albums    *Page[SimpleAlbum]    `json:"albums"`
	Artists   *Page[Artist]         `json:"artists"`
	Playlists *Page[SimplePlaylist] `json:"playlists"`
	Tracks    *Page[Track]          `json:"tracks"`
	Shows     *Page[SimpleShow]     `json:"shows"`
}

// SearchClient searches the catalog.
type SearchClient struct {
	d *Dispatcher
}

func NewSearchClient(d *Dispatcher) *SearchClient {
	return &SearchClient{d: d}
}

func (c *SearchClient) Search(ctx context.Context, r SearchRequest) (*SearchResult, error) {
	if r.Query == nil || r.Query.String() == "" {
		return nil, fmt.Errorf("%w: search query is empty", ErrInvalidInput)
	}
	if len(r.Types) == 0 {
		return nil, fmt.Errorf("%w: at least one search type is required", ErrInvalidInput)
	}

	types := make([]string, 0, len(r.Types))
	for _, t := range r.Types {
		if _, err := ParseSearchType(string(t)); err != nil {
			return nil, err
		}
		types = append(types, string(t))
	}
	slices.Sort(types)
	types = slices.Compact(types)

	q := Query{}.Add("q", r.Query.String()).AddList("type", types).Add("market", c.d.Market())
	q = r.PageOptions.apply(q, maxLimit)
	if r.IncludeExternal {
		q = q.Add("include_external", "audio")
	}

	var res SearchResult
	if err := c.d.sendJSON(ctx, NewRequest(http.MethodGet, c.d.URL("/search")).WithQuery(q), &res); err != nil {
		return nil, err
	}

	if res.Albums != nil {
		res.Albums.bind(c.d, envelopeDecoder(func(e *SearchResult) *Page[SimpleAlbum] { return e.Albums }))
	}
	if res.Artists != nil {
		res.Artists.bind(c.d, envelopeDecoder(func(e *SearchResult) *Page[Artist] { return e.Artists }))
	}
	if res.Playlists != nil {
		res.Playlists.bind(c.d, envelopeDecoder(func(e *SearchResult) *Page[SimplePlaylist] { return e.Playlists }))
	}
	if res.Tracks != nil {
		res.Tracks.bind(c.d, envelopeDecoder(func(e *SearchResult) *Page[Track] { return e.Tracks }))
	}
	if res.Shows != nil {
		res.Shows.bind(c.d, envelopeDecoder(func(e *SearchResult) *Page[SimpleShow] { return e.Shows }))
	}
	return &res, nil
}
