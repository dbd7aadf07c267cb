package spotify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/singleflight"
	"golang.org/x/time/rate"
)

const (
	DefaultBaseURL     = "https://api.spotify.com/v1"
	DefaultMarket      = "from_token"
	DefaultConcurrency = 4
)

// Option configures a [Dispatcher].
type Option func(*Dispatcher)

// WithHTTPClient sets the client used for API calls.
func WithHTTPClient(c *http.Client) Option {
	return func(d *Dispatcher) {
		if c != nil {
			d.httpClient = c
		}
	}
}

// WithBaseURL overrides the API root, e.g. to point at a test server.
func WithBaseURL(u string) Option {
	return func(d *Dispatcher) {
		d.baseURL = strings.TrimRight(u, "/")
	}
}

// WithLogger sets the logger. Output is discarded by default.
func WithLogger(l *log.Logger) Option {
	return func(d *Dispatcher) {
		if l != nil {
			d.logger = l
		}
	}
}

// WithMarket sets the market sent with market-aware requests. An invalid market makes every Send fail.
func WithMarket(market string) Option {
	return func(d *Dispatcher) {
		m, err := NormalizeMarket(market)
		if err != nil {
			d.configErr = err
			return
		}
		d.market = m
	}
}

// WithMaxRefreshes caps how many token refreshes a single Send may perform.
func WithMaxRefreshes(n int) Option {
	return func(d *Dispatcher) {
		if n >= 0 {
			d.maxRefreshes = n
		}
	}
}

// WithTimeout bounds each HTTP attempt.
func WithTimeout(t time.Duration) Option {
	return func(d *Dispatcher) {
		d.timeout = t
	}
}

// WithConcurrency bounds how many chunk requests run at once.
func WithConcurrency(n int) Option {
	return func(d *Dispatcher) {
		if n > 0 {
			d.concurrency = n
		}
	}
}

// WithRateLimit throttles every outgoing attempt through l.
func WithRateLimit(l *rate.Limiter) Option {
	return func(d *Dispatcher) {
		d.limiter = l
	}
}

// Dispatcher sends [Request] values with bearer authentication, refreshing the access token on 401.
//
// A Dispatcher is safe for concurrent use. Concurrent 401s coalesce into a single refresh.
type Dispatcher struct {
	auth         Refresher
	httpClient   *http.Client
	logger       *log.Logger
	baseURL      string
	market       string
	maxRefreshes int
	timeout      time.Duration
	concurrency  int
	limiter      *rate.Limiter
	configErr    error

	mu           sync.RWMutex
	accessToken  string
	refreshToken string
	group        singleflight.Group
}

// NewDispatcher creates a [Dispatcher] holding the given session tokens.
func NewDispatcher(auth Refresher, accessToken, refreshToken string, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		auth:         auth,
		httpClient:   http.DefaultClient,
		logger:       log.New(io.Discard),
		baseURL:      DefaultBaseURL,
		market:       DefaultMarket,
		maxRefreshes: 1,
		concurrency:  DefaultConcurrency,
		accessToken:  accessToken,
		refreshToken: refreshToken,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Tokens returns the current access and refresh tokens.
func (d *Dispatcher) Tokens() (accessToken, refreshToken string) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.accessToken, d.refreshToken
}

// Market returns the dispatcher-wide market.
func (d *Dispatcher) Market() string {
	return d.market
}

// URL joins path onto the API root.
func (d *Dispatcher) URL(path string) string {
	return d.baseURL + path
}

// Response is a successful API response with its body fully read.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// Decode unmarshals the JSON body into v.
func (r *Response) Decode(v any) error {
	if len(bytes.TrimSpace(r.Body)) == 0 {
		return fmt.Errorf("%w: empty body (status %d)", ErrDecode, r.StatusCode)
	}
	if err := json.Unmarshal(r.Body, v); err != nil {
		return fmt.Errorf("%w: %w", ErrDecode, err)
	}
	return nil
}

// Send performs req, refreshing the access token and resending when the provider answers 401.
//
// 200, 201, 202 and 204 return a [Response]. Any other status returns a [*StatusError]. When the refresh
// budget is spent the error matches [ErrReauthenticationRequired] and still unwraps to the final [*StatusError].
func (d *Dispatcher) Send(ctx context.Context, req *Request) (*Response, error) {
	if d.configErr != nil {
		return nil, d.configErr
	}

	refreshes := 0
	for {
		token, _ := d.Tokens()

		resp, err := d.attempt(ctx, req, token)
		if err != nil {
			return nil, err
		}

		switch resp.StatusCode {
		case http.StatusOK, http.StatusCreated, http.StatusAccepted, http.StatusNoContent:
			return resp, nil
		case http.StatusUnauthorized:
			statusErr := newStatusError(resp.StatusCode, resp.Header, resp.Body)
			if refreshes >= d.maxRefreshes {
				d.logger.Debug("refresh budget spent", "path", req.URL, "refreshes", refreshes)
				return nil, fmt.Errorf("%w: %w", ErrReauthenticationRequired, statusErr)
			}
			refreshes++
			if err := d.refresh(ctx, token); err != nil {
				return nil, err
			}
		default:
			return nil, newStatusError(resp.StatusCode, resp.Header, resp.Body)
		}
	}
}

// sendJSON sends req and decodes the response body into v.
func (d *Dispatcher) sendJSON(ctx context.Context, req *Request, v any) error {
	resp, err := d.Send(ctx, req)
	if err != nil {
		return err
	}
	return resp.Decode(v)
}

func (d *Dispatcher) attempt(ctx context.Context, req *Request, token string) (*Response, error) {
	if d.limiter != nil {
		if err := d.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrTransport, err)
		}
	}

	if d.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.timeout)
		defer cancel()
	}

	httpReq, err := req.build(ctx, token)
	if err != nil {
		return nil, err
	}

	started := time.Now()
	httpResp, err := d.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%w: %s %s: %w", ErrTransport, httpReq.Method, redact(httpReq.URL), err)
	}
	defer httpResp.Body.Close()

	body, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read response body: %w", ErrTransport, err)
	}

	d.logger.Debug("request",
		"method", httpReq.Method,
		"path", httpReq.URL.Path,
		"status", httpResp.StatusCode,
		"took", time.Since(started),
	)

	return &Response{StatusCode: httpResp.StatusCode, Header: httpResp.Header, Body: body}, nil
}

// refresh replaces the access token unless another caller already replaced stale.
func (d *Dispatcher) refresh(ctx context.Context, stale string) error {
	if d.auth == nil {
		return fmt.Errorf("%w: no refresher configured", ErrRefreshFailed)
	}

	// The refresh is shared by every waiting caller and outlives the one that started it.
	refreshCtx := context.WithoutCancel(ctx)

	results := d.group.DoChan("refresh", func() (any, error) {
		current, refreshToken := d.Tokens()
		if current != stale {
			return nil, nil
		}

		ctx := refreshCtx
		if d.timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, d.timeout)
			defer cancel()
		}

		token, err := d.auth.Refresh(ctx, refreshToken)
		if err != nil {
			return nil, err
		}
		if token == nil || token.AccessToken == "" {
			return nil, fmt.Errorf("token endpoint returned no access token")
		}

		d.mu.Lock()
		d.accessToken = token.AccessToken
		if token.RefreshToken != "" {
			d.refreshToken = token.RefreshToken
		}
		d.mu.Unlock()

		d.logger.Debug("access token refreshed", "rotated", token.RefreshToken != "" && token.RefreshToken != refreshToken)
		return nil, nil
	})

	select {
	case res := <-results:
		if res.Err != nil {
			d.logger.Warn("token refresh failed", "err", res.Err, "shared", res.Shared)
			return fmt.Errorf("%w: %w", ErrRefreshFailed, res.Err)
		}
		return nil
	case <-ctx.Done():
		return fmt.Errorf("%w: %w", ErrTransport, ctx.Err())
	}
}

func redact(u *url.URL) string {
	return u.Scheme + "://" + u.Host + u.Path
}
