package spotify

// Response types based on https://developer.spotify.com/documentation/web-api/reference/

// ExternalURLs holds known external URLs for an object.
type ExternalURLs struct {
	Spotify string `json:"spotify"`
}

type ExternalIDs struct {
	ISRC string `json:"isrc,omitempty"`
	EAN  string `json:"ean,omitempty"`
	UPC  string `json:"upc,omitempty"`
}

type Followers struct {
	Href  string `json:"href"`
	Total int    `json:"total"`
}

// Image represents an image resource. Height and Width are zero when unknown.
type Image struct {
	URL    string `json:"url"`
	Height int    `json:"height"`
	Width  int    `json:"width"`
}

type Copyright struct {
	Text string `json:"text"`
	Type string `json:"type"` // C = copyright, P = performance copyright
}

type Restrictions struct {
	Reason string `json:"reason"`
}

// SimpleArtist is the artist object embedded in albums and tracks.
type SimpleArtist struct {
	ExternalURLs ExternalURLs `json:"external_urls"`
	Href         string       `json:"href"`
	ID           string       `json:"id"`
	Name         string       `json:"name"`
	Type         string       `json:"type"`
	URI          string       `json:"uri"`
}

// Artist represents a full artist object.
type Artist struct {
	SimpleArtist
	Followers  Followers `json:"followers"`
	Genres     []string  `json:"genres"`
	Images     []Image   `json:"images"`
	Popularity int       `json:"popularity"`
}

// SimpleAlbum is the album object embedded in tracks and artist discographies.
type SimpleAlbum struct {
	AlbumGroup           string         `json:"album_group,omitempty"`
	AlbumType            string         `json:"album_type"`
	Artists              []SimpleArtist `json:"artists"`
	AvailableMarkets     []string       `json:"available_markets,omitempty"`
	ExternalURLs         ExternalURLs   `json:"external_urls"`
	Href                 string         `json:"href"`
	ID                   string         `json:"id"`
	Images               []Image        `json:"images"`
	Name                 string         `json:"name"`
	ReleaseDate          string         `json:"release_date"`
	ReleaseDatePrecision string         `json:"release_date_precision"`
	Restrictions         *Restrictions  `json:"restrictions,omitempty"`
	TotalTracks          int            `json:"total_tracks"`
	Type                 string         `json:"type"`
	URI                  string         `json:"uri"`
}

// Album represents a full album object, including the first page of its tracks.
type Album struct {
	SimpleAlbum
	Copyrights  []Copyright       `json:"copyrights"`
	ExternalIDs ExternalIDs       `json:"external_ids"`
	Genres      []string          `json:"genres"`
	Label       string            `json:"label"`
	Popularity  int               `json:"popularity"`
	Tracks      Page[SimpleTrack] `json:"tracks"`
}

// LinkedTrack identifies the original track when track relinking replaced it.
type LinkedTrack struct {
	ExternalURLs ExternalURLs `json:"external_urls"`
	Href         string       `json:"href"`
	ID           string       `json:"id"`
	Type         string       `json:"type"`
	URI          string       `json:"uri"`
}

// SimpleTrack is the track object embedded in albums.
type SimpleTrack struct {
	Artists          []SimpleArtist `json:"artists"`
	AvailableMarkets []string       `json:"available_markets,omitempty"`
	DiscNumber       int            `json:"disc_number"`
	DurationMS       int            `json:"duration_ms"`
	Explicit         bool           `json:"explicit"`
	ExternalURLs     ExternalURLs   `json:"external_urls"`
	Href             string         `json:"href"`
	ID               string         `json:"id"`
	IsLocal          bool           `json:"is_local"`
	IsPlayable       *bool          `json:"is_playable,omitempty"`
	LinkedFrom       *LinkedTrack   `json:"linked_from,omitempty"`
	Name             string         `json:"name"`
	PreviewURL       string         `json:"preview_url"`
	Restrictions     *Restrictions  `json:"restrictions,omitempty"`
	TrackNumber      int            `json:"track_number"`
	Type             string         `json:"type"`
	URI              string         `json:"uri"`
}

// Track represents a full track object.
type Track struct {
	SimpleTrack
	Album       SimpleAlbum `json:"album"`
	ExternalIDs ExternalIDs `json:"external_ids"`
	Popularity  int         `json:"popularity"`
}

// User represents a user profile. Country, Email and Product are only present for the current user.
type User struct {
	Country      string       `json:"country,omitempty"`
	DisplayName  string       `json:"display_name"`
	Email        string       `json:"email,omitempty"`
	ExternalURLs ExternalURLs `json:"external_urls"`
	Followers    Followers    `json:"followers"`
	Href         string       `json:"href"`
	ID           string       `json:"id"`
	Images       []Image      `json:"images"`
	Product      string       `json:"product,omitempty"` // premium, free, etc.
	Type         string       `json:"type"`
	URI          string       `json:"uri"`
}

// PlaylistTracksRef is the tracks summary embedded in simplified playlists.
type PlaylistTracksRef struct {
	Href  string `json:"href"`
	Total int    `json:"total"`
}

// SimplePlaylist represents a playlist in a list of playlists.
type SimplePlaylist struct {
	Collaborative bool              `json:"collaborative"`
	Description   string            `json:"description"`
	ExternalURLs  ExternalURLs      `json:"external_urls"`
	Href          string            `json:"href"`
	ID            string            `json:"id"`
	Images        []Image           `json:"images"`
	Name          string            `json:"name"`
	Owner         User              `json:"owner"`
	Public        *bool             `json:"public"`
	SnapshotID    string            `json:"snapshot_id"`
	Tracks        PlaylistTracksRef `json:"tracks"`
	Type          string            `json:"type"`
	URI           string            `json:"uri"`
}

// Playlist represents a full playlist object, including the first page of its items.
type Playlist struct {
	Collaborative bool                `json:"collaborative"`
	Description   string              `json:"description"`
	ExternalURLs  ExternalURLs        `json:"external_urls"`
	Followers     Followers           `json:"followers"`
	Href          string              `json:"href"`
	ID            string              `json:"id"`
	Images        []Image             `json:"images"`
	Name          string              `json:"name"`
	Owner         User                `json:"owner"`
	Public        *bool               `json:"public"`
	SnapshotID    string              `json:"snapshot_id"`
	Tracks        Page[PlaylistTrack] `json:"tracks"`
	Type          string              `json:"type"`
	URI           string              `json:"uri"`
}

// PlaylistTrack is an item of a playlist.
type PlaylistTrack struct {
	AddedAt string `json:"added_at"`
	AddedBy *User  `json:"added_by"`
	IsLocal bool   `json:"is_local"`
	Track   *Track `json:"track"`
}

// Snapshot identifies a playlist version after a mutation.
type Snapshot struct {
	SnapshotID string `json:"snapshot_id"`
}

// Category is a browse category.
type Category struct {
	Href  string  `json:"href"`
	Icons []Image `json:"icons"`
	ID    string  `json:"id"`
	Name  string  `json:"name"`
}

// Device is a playback device.
type Device struct {
	ID               string `json:"id"`
	IsActive         bool   `json:"is_active"`
	IsPrivateSession bool   `json:"is_private_session"`
	IsRestricted     bool   `json:"is_restricted"`
	Name             string `json:"name"`
	Type             string `json:"type"`
	VolumePercent    *int   `json:"volume_percent"`
}

type SavedAlbum struct {
	AddedAt string `json:"added_at"`
	Album   Album  `json:"album"`
}

type SavedTrack struct {
	AddedAt string `json:"added_at"`
	Track   Track  `json:"track"`
}

// SimpleShow is a podcast show without its episodes.
type SimpleShow struct {
	AvailableMarkets   []string     `json:"available_markets,omitempty"`
	Copyrights         []Copyright  `json:"copyrights"`
	Description        string       `json:"description"`
	Explicit           bool         `json:"explicit"`
	ExternalURLs       ExternalURLs `json:"external_urls"`
	Href               string       `json:"href"`
	ID                 string       `json:"id"`
	Images             []Image      `json:"images"`
	IsExternallyHosted bool         `json:"is_externally_hosted"`
	Languages          []string     `json:"languages"`
	MediaType          string       `json:"media_type"`
	Name               string       `json:"name"`
	Publisher          string       `json:"publisher"`
	TotalEpisodes      int          `json:"total_episodes"`
	Type               string       `json:"type"`
	URI                string       `json:"uri"`
}

type SavedShow struct {
	AddedAt string     `json:"added_at"`
	Show    SimpleShow `json:"show"`
}

// PlaybackContext is the album, artist or playlist a track is played from.
type PlaybackContext struct {
	ExternalURLs ExternalURLs `json:"external_urls"`
	Href         string       `json:"href"`
	Type         string       `json:"type"`
	URI          string       `json:"uri"`
}

// PlayHistory is an entry of the recently played list.
type PlayHistory struct {
	Track    Track            `json:"track"`
	PlayedAt string           `json:"played_at"`
	Context  *PlaybackContext `json:"context"`
}

// Actions lists the playback actions currently disallowed.
type Actions struct {
	Disallows map[string]bool `json:"disallows"`
}

// CurrentlyPlaying is the track playing on the user's active device.
type CurrentlyPlaying struct {
	Context              *PlaybackContext `json:"context"`
	Timestamp            int64            `json:"timestamp"`
	ProgressMS           int              `json:"progress_ms"`
	IsPlaying            bool             `json:"is_playing"`
	Item                 *Track           `json:"item"`
	CurrentlyPlayingType string           `json:"currently_playing_type"`
	Actions              Actions          `json:"actions"`
}

// CurrentlyPlayingContext is the full playback state, including device and shuffle/repeat settings.
type CurrentlyPlayingContext struct {
	CurrentlyPlaying
	Device       Device `json:"device"`
	RepeatState  string `json:"repeat_state"`
	ShuffleState bool   `json:"shuffle_state"`
}

// RecommendationSeed describes how a seed contributed to a recommendation set.
type RecommendationSeed struct {
	AfterFilteringSize int    `json:"afterFilteringSize"`
	AfterRelinkingSize int    `json:"afterRelinkingSize"`
	Href               string `json:"href"`
	ID                 string `json:"id"`
	InitialPoolSize    int    `json:"initialPoolSize"`
	Type               string `json:"type"`
}

type Recommendations struct {
	Seeds  []RecommendationSeed `json:"seeds"`
	Tracks []SimpleTrack        `json:"tracks"`
}

// AudioFeatures holds the audio feature analysis of a track.
type AudioFeatures struct {
	Acousticness     float64 `json:"acousticness"`
	AnalysisURL      string  `json:"analysis_url"`
	Danceability     float64 `json:"danceability"`
	DurationMS       int     `json:"duration_ms"`
	Energy           float64 `json:"energy"`
	ID               string  `json:"id"`
	Instrumentalness float64 `json:"instrumentalness"`
	Key              int     `json:"key"`
	Liveness         float64 `json:"liveness"`
	Loudness         float64 `json:"loudness"`
	Mode             int     `json:"mode"`
	Speechiness      float64 `json:"speechiness"`
	Tempo            float64 `json:"tempo"`
	TimeSignature    int     `json:"time_signature"`
	TrackHref        string  `json:"track_href"`
	Type             string  `json:"type"`
	URI              string  `json:"uri"`
	Valence          float64 `json:"valence"`
}

// TimeInterval is a bar, beat or tatum of an audio analysis.
type TimeInterval struct {
	Start      float64 `json:"start"`
	Duration   float64 `json:"duration"`
	Confidence float64 `json:"confidence"`
}

type Section struct {
	TimeInterval
	Loudness      float64 `json:"loudness"`
	Tempo         float64 `json:"tempo"`
	Key           int     `json:"key"`
	Mode          int     `json:"mode"`
	TimeSignature int     `json:"time_signature"`
}

type Segment struct {
	TimeInterval
	LoudnessStart   float64   `json:"loudness_start"`
	LoudnessMaxTime float64   `json:"loudness_max_time"`
	LoudnessMax     float64   `json:"loudness_max"`
	Pitches         []float64 `json:"pitches"`
	Timbre          []float64 `json:"timbre"`
}

// AudioAnalysis is the low-level audio analysis of a track.
type AudioAnalysis struct {
	Bars     []TimeInterval `json:"bars"`
	Beats    []TimeInterval `json:"beats"`
	Sections []Section      `json:"sections"`
	Segments []Segment      `json:"segments"`
	Tatums   []TimeInterval `json:"tatums"`
	Track    struct {
		Duration      float64 `json:"duration"`
		Loudness      float64 `json:"loudness"`
		Tempo         float64 `json:"tempo"`
		Key           int     `json:"key"`
		Mode          int     `json:"mode"`
		TimeSignature int     `json:"time_signature"`
	} `json:"track"`
}

// FeaturedPlaylists is the editorial message plus its page of playlists.
type FeaturedPlaylists struct {
	Message   string
	Playlists *Page[SimplePlaylist]
}
