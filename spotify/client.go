package spotify

import (
	"fmt"
	"net/url"
	"strings"
)

// Client groups every resource client over one shared [Dispatcher].
type Client struct {
	Dispatcher *Dispatcher

	Albums          *AlbumClient
	Artists         *ArtistClient
	Tracks          *TrackClient
	Playlists       *PlaylistClient
	Users           *UserClient
	Search          *SearchClient
	Browse          *BrowseClient
	Library         *LibraryClient
	Follow          *FollowClient
	Personalization *PersonalizationClient
	Player          *PlayerClient
}

// New creates a [Client] for the session identified by accessToken and refreshToken.
// auth may be nil, in which case a 401 cannot be recovered.
func New(auth Refresher, accessToken, refreshToken string, opts ...Option) *Client {
	d := NewDispatcher(auth, accessToken, refreshToken, opts...)
	return &Client{
		Dispatcher:      d,
		Albums:          NewAlbumClient(d),
		Artists:         NewArtistClient(d),
		Tracks:          NewTrackClient(d),
		Playlists:       NewPlaylistClient(d),
		Users:           NewUserClient(d),
		Search:          NewSearchClient(d),
		Browse:          NewBrowseClient(d),
		Library:         NewLibraryClient(d),
		Follow:          NewFollowClient(d),
		Personalization: NewPersonalizationClient(d),
		Player:          NewPlayerClient(d),
	}
}

const (
	defaultLimit = 20
	maxLimit     = 50
)

// PageOptions selects a window of an offset-paginated collection.
//
// A Limit of zero or above the endpoint maximum falls back to 20. A negative Offset is treated as zero.
type PageOptions struct {
	Limit  int
	Offset int
}

func (o PageOptions) apply(q Query, limitCap int) Query {
	limit := o.Limit
	if limit <= 0 || limit > limitCap {
		limit = defaultLimit
	}
	return q.AddInt("limit", limit).AddInt("offset", max(o.Offset, 0))
}

// cursorLimit applies the same fallback for cursor-paginated endpoints.
func cursorLimit(limit int) int {
	if limit <= 0 || limit > maxLimit {
		return defaultLimit
	}
	return limit
}

// requireID rejects empty path identifiers, which would otherwise address a different endpoint.
func requireID(kind, id string) (string, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return "", fmt.Errorf("%w: %s id is required", ErrInvalidInput, kind)
	}
	return url.PathEscape(id), nil
}

func requireIDs(kind string, ids []string) error {
	for i, id := range ids {
		if strings.TrimSpace(id) == "" {
			return fmt.Errorf("%w: %s id at index %d is empty", ErrInvalidInput, kind, i)
		}
	}
	return nil
}

func marketQuery(d *Dispatcher) Query {
	return Query{}.Add("market", d.Market())
}
