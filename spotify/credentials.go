package spotify

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"golang.org/x/oauth2"
)

const (
	AuthURL  = "https://accounts.spotify.com/authorize"
	TokenURL = "https://accounts.spotify.com/api/token"
)

// Environment variables read by [LoadCredentials].
const (
	EnvClientID     = "CLIENT_ID"
	EnvClientSecret = "CLIENT_SECRET"
	EnvRedirectURI  = "REDIRECT_URI"
)

// Scope is an OAuth scope understood by the accounts service.
type Scope string

const (
	ScopeUserReadPrivate           Scope = "user-read-private"
	ScopeUserReadEmail             Scope = "user-read-email"
	ScopeStreaming                 Scope = "streaming"
	ScopeAppRemoteControl          Scope = "app-remote-control"
	ScopeUserTopRead               Scope = "user-top-read"
	ScopeUserReadRecentlyPlayed    Scope = "user-read-recently-played"
	ScopeUserLibraryRead           Scope = "user-library-read"
	ScopeUserLibraryModify         Scope = "user-library-modify"
	ScopePlaylistReadCollaborative Scope = "playlist-read-collaborative"
	ScopePlaylistReadPrivate       Scope = "playlist-read-private"
	ScopePlaylistModifyPublic      Scope = "playlist-modify-public"
	ScopePlaylistModifyPrivate     Scope = "playlist-modify-private"
	ScopeUserReadCurrentlyPlaying  Scope = "user-read-currently-playing"
	ScopeUserReadPlaybackState     Scope = "user-read-playback-state"
	ScopeUserModifyPlaybackState   Scope = "user-modify-playback-state"
	ScopeUserFollowRead            Scope = "user-follow-read"
	ScopeUserFollowModify          Scope = "user-follow-modify"
)

// AllScopes lists every scope the resource clients may need.
var AllScopes = []Scope{
	ScopeUserReadPrivate, ScopeUserReadEmail, ScopeStreaming, ScopeAppRemoteControl,
	ScopeUserTopRead, ScopeUserReadRecentlyPlayed, ScopeUserLibraryRead, ScopeUserLibraryModify,
	ScopePlaylistReadCollaborative, ScopePlaylistReadPrivate, ScopePlaylistModifyPublic, ScopePlaylistModifyPrivate,
	ScopeUserReadCurrentlyPlaying, ScopeUserReadPlaybackState, ScopeUserModifyPlaybackState,
	ScopeUserFollowRead, ScopeUserFollowModify,
}

// Credentials identify the registered application. They are loaded once and never change.
type Credentials struct {
	ClientID     string
	ClientSecret string
	RedirectURI  string
}

// LoadCredentials reads [Credentials] from the process environment, loading a .env file first when present.
func LoadCredentials() (*Credentials, error) {
	_ = godotenv.Load()
	return LoadCredentialsFrom(os.Getenv)
}

// LoadCredentialsFrom reads [Credentials] through lookup. Every variable is required.
func LoadCredentialsFrom(lookup func(string) string) (*Credentials, error) {
	creds := &Credentials{
		ClientID:     strings.TrimSpace(lookup(EnvClientID)),
		ClientSecret: strings.TrimSpace(lookup(EnvClientSecret)),
		RedirectURI:  strings.TrimSpace(lookup(EnvRedirectURI)),
	}

	var missing []string
	if creds.ClientID == "" {
		missing = append(missing, EnvClientID)
	}
	if creds.ClientSecret == "" {
		missing = append(missing, EnvClientSecret)
	}
	if creds.RedirectURI == "" {
		missing = append(missing, EnvRedirectURI)
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s must be set", ErrMissingCredentials, strings.Join(missing, ", "))
	}

	return creds, nil
}

// Refresher mints a new access token from a refresh token.
type Refresher interface {
	Refresh(ctx context.Context, refreshToken string) (*oauth2.Token, error)
}

// Authenticator owns the authorization-code flow against the accounts service.
type Authenticator struct {
	config     *oauth2.Config
	httpClient *http.Client
}

// AuthOption customises an [Authenticator].
type AuthOption func(*Authenticator)

// WithScopes sets the scopes requested by [Authenticator.AuthURL].
func WithScopes(scopes ...Scope) AuthOption {
	return func(a *Authenticator) {
		a.config.Scopes = make([]string, 0, len(scopes))
		for _, s := range scopes {
			a.config.Scopes = append(a.config.Scopes, string(s))
		}
	}
}

// WithEndpoint points the authenticator at different authorize and token URLs.
func WithEndpoint(authURL, tokenURL string) AuthOption {
	return func(a *Authenticator) {
		a.config.Endpoint.AuthURL = authURL
		a.config.Endpoint.TokenURL = tokenURL
	}
}

// WithAuthHTTPClient sets the client used for token endpoint calls.
func WithAuthHTTPClient(c *http.Client) AuthOption {
	return func(a *Authenticator) {
		if c != nil {
			a.httpClient = c
		}
	}
}

// NewAuthenticator creates an [Authenticator] for creds. Client credentials are sent with HTTP Basic auth.
func NewAuthenticator(creds Credentials, opts ...AuthOption) *Authenticator {
	a := &Authenticator{
		config: &oauth2.Config{
			ClientID:     creds.ClientID,
			ClientSecret: creds.ClientSecret,
			RedirectURL:  creds.RedirectURI,
			Endpoint: oauth2.Endpoint{
				AuthURL:   AuthURL,
				TokenURL:  TokenURL,
				AuthStyle: oauth2.AuthStyleInHeader,
			},
		},
		httpClient: http.DefaultClient,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Config exposes the underlying [oauth2.Config], used by the callback handler.
func (a *Authenticator) Config() *oauth2.Config {
	return a.config
}

// AuthURL returns the URL the user must visit to grant access.
func (a *Authenticator) AuthURL(state string, showDialog bool) string {
	return a.config.AuthCodeURL(state, oauth2.SetAuthURLParam("show_dialog", fmt.Sprintf("%t", showDialog)))
}

// Exchange trades an authorization code for an access and refresh token pair.
func (a *Authenticator) Exchange(ctx context.Context, code string) (*oauth2.Token, error) {
	token, err := a.config.Exchange(a.withClient(ctx), code)
	if err != nil {
		return nil, fmt.Errorf("failed to exchange auth code: %w", err)
	}
	return token, nil
}

// Refresh implements [Refresher] with the refresh_token grant.
func (a *Authenticator) Refresh(ctx context.Context, refreshToken string) (*oauth2.Token, error) {
	if refreshToken == "" {
		return nil, fmt.Errorf("%w: no refresh token available", ErrRefreshFailed)
	}

	src := a.config.TokenSource(a.withClient(ctx), &oauth2.Token{RefreshToken: refreshToken})
	token, err := src.Token()
	if err != nil {
		return nil, err
	}
	return token, nil
}

func (a *Authenticator) withClient(ctx context.Context) context.Context {
	return context.WithValue(ctx, oauth2.HTTPClient, a.httpClient)
}
