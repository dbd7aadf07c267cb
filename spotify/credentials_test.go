package spotify

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"
	"testing"
)

func TestLoadCredentialsFrom(t *testing.T) {
	env := func(m map[string]string) func(string) string {
		return func(k string) string { return m[k] }
	}

	t.Run("All Set", func(t *testing.T) {
		creds, err := LoadCredentialsFrom(env(map[string]string{
			"CLIENT_ID":     "id",
			"CLIENT_SECRET": "secret",
			"REDIRECT_URI":  " http://localhost:3000/callback ",
		}))
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if creds.ClientID != "id" || creds.ClientSecret != "secret" {
			t.Errorf("unexpected credentials %+v", creds)
		}
		if creds.RedirectURI != "http://localhost:3000/callback" {
			t.Errorf("expected trimmed redirect uri, got %q", creds.RedirectURI)
		}
	})

	t.Run("Missing Variables Are Named", func(t *testing.T) {
		tests := []struct {
			name    string
			env     map[string]string
			missing []string
		}{
			{"Nothing Set", map[string]string{}, []string{"CLIENT_ID", "CLIENT_SECRET", "REDIRECT_URI"}},
			{"Missing Secret", map[string]string{"CLIENT_ID": "id", "REDIRECT_URI": "uri"}, []string{"CLIENT_SECRET"}},
			{"Blank Redirect", map[string]string{"CLIENT_ID": "id", "CLIENT_SECRET": "s", "REDIRECT_URI": "  "}, []string{"REDIRECT_URI"}},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				_, err := LoadCredentialsFrom(env(tt.env))
				if !errors.Is(err, ErrMissingCredentials) {
					t.Fatalf("expected ErrMissingCredentials, got %v", err)
				}
				for _, name := range tt.missing {
					if !strings.Contains(err.Error(), name) {
						t.Errorf("expected error to name %s, got %v", name, err)
					}
				}
			})
		}
	})
}

func TestAuthenticator(t *testing.T) {
	creds := Credentials{ClientID: "client", ClientSecret: "secret", RedirectURI: "http://localhost:3000/callback"}

	t.Run("AuthURL", func(t *testing.T) {
		auth := NewAuthenticator(creds, WithScopes(ScopeUserReadPrivate, ScopePlaylistModifyPublic))

		raw := auth.AuthURL("state-123", true)
		u, err := url.Parse(raw)
		if err != nil {
			t.Fatalf("invalid auth url %q: %v", raw, err)
		}

		if !strings.HasPrefix(raw, AuthURL) {
			t.Errorf("expected authorize endpoint, got %s", raw)
		}

		q := u.Query()
		checks := map[string]string{
			"client_id":     "client",
			"response_type": "code",
			"redirect_uri":  "http://localhost:3000/callback",
			"state":         "state-123",
			"scope":         "user-read-private playlist-modify-public",
			"show_dialog":   "true",
		}
		for k, want := range checks {
			if got := q.Get(k); got != want {
				t.Errorf("%s: expected %q, got %q", k, want, got)
			}
		}
	})

	tokenServer := func(t *testing.T, wantGrant string) (*Authenticator, *recorder) {
		srv, rec := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
			if err := r.ParseForm(); err != nil {
				t.Errorf("failed to parse form: %v", err)
			}
			if got := r.PostForm.Get("grant_type"); got != wantGrant {
				t.Errorf("expected grant_type %s, got %s", wantGrant, got)
			}
			id, secret, ok := r.BasicAuth()
			if !ok || id != "client" || secret != "secret" {
				t.Errorf("expected basic auth client:secret, got %q:%q (%v)", id, secret, ok)
			}
			writeJSON(t, w, http.StatusOK, map[string]any{
				"access_token":  "new-access",
				"token_type":    "Bearer",
				"expires_in":    3600,
				"refresh_token": "new-refresh",
			})
		})
		auth := NewAuthenticator(creds,
			WithEndpoint(srv.URL+"/authorize", srv.URL+"/api/token"),
			WithAuthHTTPClient(srv.Client()),
		)
		return auth, rec
	}

	t.Run("Refresh", func(t *testing.T) {
		auth, rec := tokenServer(t, "refresh_token")

		token, err := auth.Refresh(context.Background(), "old-refresh")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if token.AccessToken != "new-access" || token.RefreshToken != "new-refresh" {
			t.Errorf("unexpected token %+v", token)
		}

		reqs := rec.all()
		if len(reqs) != 1 || reqs[0].Method != http.MethodPost || reqs[0].Path != "/api/token" {
			t.Fatalf("expected one POST to the token endpoint, got %+v", reqs)
		}
		form, _ := url.ParseQuery(string(reqs[0].Body))
		if form.Get("refresh_token") != "old-refresh" {
			t.Errorf("expected refresh token in form, got %q", form.Get("refresh_token"))
		}
	})

	t.Run("Refresh Without Token", func(t *testing.T) {
		auth, rec := tokenServer(t, "refresh_token")
		if _, err := auth.Refresh(context.Background(), ""); !errors.Is(err, ErrRefreshFailed) {
			t.Errorf("expected ErrRefreshFailed, got %v", err)
		}
		if rec.count() != 0 {
			t.Errorf("expected no request, got %d", rec.count())
		}
	})

	t.Run("Exchange", func(t *testing.T) {
		auth, rec := tokenServer(t, "authorization_code")

		token, err := auth.Exchange(context.Background(), "the-code")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if token.AccessToken != "new-access" {
			t.Errorf("unexpected access token %s", token.AccessToken)
		}

		form, _ := url.ParseQuery(string(rec.all()[0].Body))
		if form.Get("code") != "the-code" {
			t.Errorf("expected code in form, got %q", form.Get("code"))
		}
		if form.Get("redirect_uri") != creds.RedirectURI {
			t.Errorf("expected redirect uri in form, got %q", form.Get("redirect_uri"))
		}
	})

	t.Run("Used As Dispatcher Refresher", func(t *testing.T) {
		auth, _ := tokenServer(t, "refresh_token")
		api, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
			if r.Header.Get("Authorization") != "Bearer new-access" {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			writeJSON(t, w, http.StatusOK, map[string]string{"id": "me"})
		})

		users := NewUserClient(NewDispatcher(auth, "expired", "old-refresh", WithBaseURL(api.URL)))
		user, err := users.CurrentUser(context.Background())
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if user.ID != "me" {
			t.Errorf("expected user me, got %s", user.ID)
		}
		if _, refresh := users.d.Tokens(); refresh != "new-refresh" {
			t.Errorf("expected rotated refresh token, got %s", refresh)
		}
	})
}
