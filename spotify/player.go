package spotify

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// RepeatState is the repeat mode of the player.
type RepeatState string

const (
	RepeatTrack   RepeatState = "track"
	RepeatContext RepeatState = "context"
	RepeatOff     RepeatState = "off"
)

// RecentlyPlayedRequest pages through play history. At most one of After and Before may be set.
type RecentlyPlayedRequest struct {
	Limit  int
	After  time.Time
	Before time.Time
}

// PlaybackOffset selects where playback starts within a context, by position or by item URI.
type PlaybackOffset struct {
	Position *int   `json:"position,omitempty"`
	URI      string `json:"uri,omitempty"`
}

// StartRequest starts or resumes playback.
//
// Set ContextURI to play an album, artist or playlist, or URIs to play a list of tracks.
// With neither, the current playback is resumed. Offset is ignored for artist contexts.
type StartRequest struct {
	DeviceID   string          `json:"-"`
	ContextURI string          `json:"context_uri,omitempty"`
	URIs       []string        `json:"uris,omitempty"`
	Offset     *PlaybackOffset `json:"offset,omitempty"`
	PositionMS *int            `json:"position_ms,omitempty"`
}

// PlayerClient reads and controls playback on the user's devices.
type PlayerClient struct {
	d *Dispatcher
}

func NewPlayerClient(d *Dispatcher) *PlayerClient {
	return &PlayerClient{d: d}
}

func (c *PlayerClient) Devices(ctx context.Context) ([]Device, error) {
	var res struct {
		Devices []Device `json:"devices"`
	}
	if err := c.d.sendJSON(ctx, NewRequest(http.MethodGet, c.d.URL("/me/player/devices")), &res); err != nil {
		return nil, err
	}
	return res.Devices, nil
}

// CurrentPlayback returns the playback state, or nil when nothing is playing.
func (c *PlayerClient) CurrentPlayback(ctx context.Context) (*CurrentlyPlayingContext, error) {
	var state CurrentlyPlayingContext
	ok, err := c.getOptional(ctx, "/me/player", &state)
	if err != nil || !ok {
		return nil, err
	}
	return &state, nil
}

// CurrentlyPlaying returns the playing track, or nil when nothing is playing.
func (c *PlayerClient) CurrentlyPlaying(ctx context.Context) (*CurrentlyPlaying, error) {
	var playing CurrentlyPlaying
	ok, err := c.getOptional(ctx, "/me/player/currently-playing", &playing)
	if err != nil || !ok {
		return nil, err
	}
	return &playing, nil
}

func (c *PlayerClient) getOptional(ctx context.Context, path string, v any) (bool, error) {
	resp, err := c.d.Send(ctx, NewRequest(http.MethodGet, c.d.URL(path)).WithQuery(marketQuery(c.d)))
	if err != nil {
		return false, err
	}
	if resp.StatusCode == http.StatusNoContent || len(strings.TrimSpace(string(resp.Body))) == 0 {
		return false, nil
	}
	return true, resp.Decode(v)
}

func (c *PlayerClient) RecentlyPlayed(ctx context.Context, r RecentlyPlayedRequest) (*CursorPage[PlayHistory], error) {
	if !r.After.IsZero() && !r.Before.IsZero() {
		return nil, fmt.Errorf("%w: only one of after and before may be set", ErrInvalidInput)
	}

	q := Query{}.AddInt("limit", cursorLimit(r.Limit))
	switch {
	case !r.After.IsZero():
		q = q.Add("after", fmt.Sprint(r.After.UnixMilli()))
	case !r.Before.IsZero():
		q = q.Add("before", fmt.Sprint(r.Before.UnixMilli()))
	}
	return getCursorPage[PlayHistory](ctx, c.d, NewRequest(http.MethodGet, c.d.URL("/me/player/recently-played")).WithQuery(q))
}

// AddToQueue appends a track or episode URI to the playback queue.
func (c *PlayerClient) AddToQueue(ctx context.Context, uri, deviceID string) error {
	if strings.TrimSpace(uri) == "" {
		return fmt.Errorf("%w: uri is required", ErrInvalidInput)
	}
	return c.command(ctx, http.MethodPost, "/me/player/queue", deviceQuery(deviceID).Add("uri", uri), nil)
}

func (c *PlayerClient) Pause(ctx context.Context, deviceID string) error {
	return c.command(ctx, http.MethodPut, "/me/player/pause", deviceQuery(deviceID), nil)
}

func (c *PlayerClient) Start(ctx context.Context, r StartRequest) error {
	if r.ContextURI != "" && len(r.URIs) > 0 {
		return fmt.Errorf("%w: context uri and track uris are mutually exclusive", ErrInvalidInput)
	}
	if r.PositionMS != nil && *r.PositionMS < 0 {
		return fmt.Errorf("%w: negative position %d", ErrInvalidInput, *r.PositionMS)
	}
	if strings.HasPrefix(r.ContextURI, "spotify:artist:") {
		r.Offset = nil
	}

	var body any
	if r.ContextURI != "" || len(r.URIs) > 0 || r.Offset != nil || r.PositionMS != nil {
		body = r
	}
	return c.command(ctx, http.MethodPut, "/me/player/play", deviceQuery(r.DeviceID), body)
}

func (c *PlayerClient) Seek(ctx context.Context, positionMS int, deviceID string) error {
	if positionMS < 0 {
		return fmt.Errorf("%w: negative position %d", ErrInvalidInput, positionMS)
	}
	return c.command(ctx, http.MethodPut, "/me/player/seek", deviceQuery(deviceID).AddInt("position_ms", positionMS), nil)
}

func (c *PlayerClient) SetRepeatMode(ctx context.Context, state RepeatState, deviceID string) error {
	switch state {
	case RepeatTrack, RepeatContext, RepeatOff:
	default:
		return fmt.Errorf("%w: unknown repeat state %q", ErrInvalidInput, state)
	}
	return c.command(ctx, http.MethodPut, "/me/player/repeat", deviceQuery(deviceID).Add("state", string(state)), nil)
}

// SetVolume sets the volume of the device, from 0 to 100.
func (c *PlayerClient) SetVolume(ctx context.Context, percent int, deviceID string) error {
	if percent < 0 || percent > 100 {
		return fmt.Errorf("%w: volume %d is outside 0-100", ErrInvalidInput, percent)
	}
	return c.command(ctx, http.MethodPut, "/me/player/volume", deviceQuery(deviceID).AddInt("volume_percent", percent), nil)
}

func (c *PlayerClient) SkipNext(ctx context.Context, deviceID string) error {
	return c.command(ctx, http.MethodPost, "/me/player/next", deviceQuery(deviceID), nil)
}

func (c *PlayerClient) SkipPrevious(ctx context.Context, deviceID string) error {
	return c.command(ctx, http.MethodPost, "/me/player/previous", deviceQuery(deviceID), nil)
}

func (c *PlayerClient) ToggleShuffle(ctx context.Context, state bool, deviceID string) error {
	return c.command(ctx, http.MethodPut, "/me/player/shuffle", deviceQuery(deviceID).Add("state", fmt.Sprint(state)), nil)
}

// TransferPlayback moves playback to deviceID. A nil play keeps the current playing state.
func (c *PlayerClient) TransferPlayback(ctx context.Context, deviceID string, play *bool) error {
	if strings.TrimSpace(deviceID) == "" {
		return fmt.Errorf("%w: device id is required", ErrInvalidInput)
	}

	body := struct {
		DeviceIDs []string `json:"device_ids"`
		Play      *bool    `json:"play,omitempty"`
	}{DeviceIDs: []string{deviceID}, Play: play}
	return c.command(ctx, http.MethodPut, "/me/player", nil, body)
}

func (c *PlayerClient) command(ctx context.Context, method, path string, q Query, body any) error {
	req := NewRequest(method, c.d.URL(path)).WithQuery(q)
	if body != nil {
		req.WithBody(body)
	}
	_, err := c.d.Send(ctx, req)
	return err
}

func deviceQuery(deviceID string) Query {
	if deviceID == "" {
		return Query{}
	}
	return Query{}.Add("device_id", deviceID)
}
