package spotify

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"testing"
	"time"

	"golang.org/x/oauth2"
)

func TestDispatcher(t *testing.T) {
	ctx := context.Background()

	// onlyToken answers 401 unless the request carries the given bearer token.
	onlyToken := func(t *testing.T, token string) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			if r.Header.Get("Authorization") != "Bearer "+token {
				writeJSON(t, w, http.StatusUnauthorized, map[string]any{
					"error": map[string]any{"status": 401, "message": "The access token expired"},
				})
				return
			}
			writeJSON(t, w, http.StatusOK, map[string]string{"id": "ok"})
		}
	}

	t.Run("Send", func(t *testing.T) {
		t.Run("Attaches Bearer Token", func(t *testing.T) {
			srv, rec := newTestServer(t, onlyToken(t, "initial"))
			d := NewDispatcher(nil, "initial", "refresh", WithBaseURL(srv.URL))

			resp, err := d.Send(ctx, NewRequest(http.MethodGet, d.URL("/me")))
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if resp.StatusCode != http.StatusOK {
				t.Errorf("expected status 200, got %d", resp.StatusCode)
			}

			reqs := rec.all()
			if len(reqs) != 1 {
				t.Fatalf("expected 1 request, got %d", len(reqs))
			}
			if reqs[0].Auth != "Bearer initial" {
				t.Errorf("expected bearer token, got %q", reqs[0].Auth)
			}
			if reqs[0].Path != "/me" {
				t.Errorf("expected path /me, got %s", reqs[0].Path)
			}
		})

		t.Run("Success Statuses", func(t *testing.T) {
			for _, status := range []int{http.StatusOK, http.StatusCreated, http.StatusAccepted, http.StatusNoContent} {
				t.Run(http.StatusText(status), func(t *testing.T) {
					srv, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
						w.WriteHeader(status)
					})
					d := NewDispatcher(nil, "token", "", WithBaseURL(srv.URL))

					resp, err := d.Send(ctx, NewRequest(http.MethodPut, d.URL("/me/player/pause")))
					if err != nil {
						t.Fatalf("expected no error, got %v", err)
					}
					if resp.StatusCode != status {
						t.Errorf("expected status %d, got %d", status, resp.StatusCode)
					}
				})
			}
		})

		t.Run("Refreshes On 401 And Retries With New Token", func(t *testing.T) {
			srv, rec := newTestServer(t, onlyToken(t, "fresh"))
			auth := &fakeRefresher{token: &oauth2.Token{AccessToken: "fresh"}}
			d := NewDispatcher(auth, "stale", "refresh", WithBaseURL(srv.URL))

			if _, err := d.Send(ctx, NewRequest(http.MethodGet, d.URL("/me"))); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			reqs := rec.all()
			if len(reqs) != 2 {
				t.Fatalf("expected 2 requests, got %d", len(reqs))
			}
			if reqs[0].Auth != "Bearer stale" || reqs[1].Auth != "Bearer fresh" {
				t.Errorf("expected stale then fresh token, got %q then %q", reqs[0].Auth, reqs[1].Auth)
			}
			if auth.Calls() != 1 {
				t.Errorf("expected 1 refresh, got %d", auth.Calls())
			}
			if auth.tokens[0] != "refresh" {
				t.Errorf("expected stored refresh token to be used, got %q", auth.tokens[0])
			}

			access, refresh := d.Tokens()
			if access != "fresh" || refresh != "refresh" {
				t.Errorf("expected session fresh/refresh, got %s/%s", access, refresh)
			}

			if _, err := d.Send(ctx, NewRequest(http.MethodGet, d.URL("/me"))); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if got := rec.all()[2].Auth; got != "Bearer fresh" {
				t.Errorf("stale token reused: %q", got)
			}
		})

		t.Run("Adopts Rotated Refresh Token", func(t *testing.T) {
			srv, _ := newTestServer(t, onlyToken(t, "fresh"))
			auth := &fakeRefresher{token: &oauth2.Token{AccessToken: "fresh", RefreshToken: "rotated"}}
			d := NewDispatcher(auth, "stale", "refresh", WithBaseURL(srv.URL))

			if _, err := d.Send(ctx, NewRequest(http.MethodGet, d.URL("/me"))); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if _, refresh := d.Tokens(); refresh != "rotated" {
				t.Errorf("expected rotated refresh token, got %s", refresh)
			}
		})

		t.Run("Resends Body After Refresh", func(t *testing.T) {
			srv, rec := newTestServer(t, onlyToken(t, "fresh"))
			auth := &fakeRefresher{token: &oauth2.Token{AccessToken: "fresh"}}
			d := NewDispatcher(auth, "stale", "refresh", WithBaseURL(srv.URL))

			req := NewRequest(http.MethodPost, d.URL("/playlists/p/tracks")).
				WithBody(map[string][]string{"uris": {"spotify:track:1"}})
			if _, err := d.Send(ctx, req); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			reqs := rec.all()
			if len(reqs) != 2 {
				t.Fatalf("expected 2 requests, got %d", len(reqs))
			}
			if string(reqs[0].Body) != string(reqs[1].Body) || len(reqs[1].Body) == 0 {
				t.Errorf("expected identical bodies, got %q and %q", reqs[0].Body, reqs[1].Body)
			}
			if reqs[0].Method != http.MethodPost || reqs[1].Method != http.MethodPost {
				t.Errorf("expected POST twice, got %s and %s", reqs[0].Method, reqs[1].Method)
			}
		})

		t.Run("403 Is Terminal", func(t *testing.T) {
			srv, rec := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
				writeJSON(t, w, http.StatusForbidden, map[string]any{
					"error": map[string]any{"status": 403, "message": "Premium required"},
				})
			})
			auth := &fakeRefresher{token: &oauth2.Token{AccessToken: "fresh"}}
			d := NewDispatcher(auth, "token", "refresh", WithBaseURL(srv.URL))

			_, err := d.Send(ctx, NewRequest(http.MethodPut, d.URL("/me/player/play")))
			if !errors.Is(err, ErrForbidden) {
				t.Fatalf("expected ErrForbidden, got %v", err)
			}

			var se *StatusError
			if !errors.As(err, &se) {
				t.Fatalf("expected *StatusError, got %T", err)
			}
			if se.StatusCode != http.StatusForbidden {
				t.Errorf("expected status 403, got %d", se.StatusCode)
			}
			if se.Message != "Premium required" {
				t.Errorf("expected provider message, got %q", se.Message)
			}
			if len(se.Body) == 0 {
				t.Error("expected body to be kept")
			}
			if auth.Calls() != 0 {
				t.Errorf("expected no refresh, got %d", auth.Calls())
			}
			if rec.count() != 1 {
				t.Errorf("expected 1 request, got %d", rec.count())
			}
		})

		t.Run("Classifies Statuses", func(t *testing.T) {
			tests := []struct {
				status int
				target error
			}{
				{http.StatusBadRequest, ErrBadRequest},
				{http.StatusNotFound, ErrNotFound},
				{http.StatusTooManyRequests, ErrRateLimited},
				{http.StatusInternalServerError, ErrServerError},
				{http.StatusBadGateway, ErrServerError},
				{http.StatusGatewayTimeout, ErrServerError},
			}

			for _, tt := range tests {
				t.Run(fmt.Sprint(tt.status), func(t *testing.T) {
					srv, rec := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
						w.Header().Set("Retry-After", "3")
						w.WriteHeader(tt.status)
					})
					d := NewDispatcher(nil, "token", "", WithBaseURL(srv.URL))

					_, err := d.Send(ctx, NewRequest(http.MethodGet, d.URL("/me")))
					if !errors.Is(err, tt.target) {
						t.Fatalf("expected %v, got %v", tt.target, err)
					}
					if rec.count() != 1 {
						t.Errorf("expected no retry, got %d requests", rec.count())
					}

					var se *StatusError
					if errors.As(err, &se) && tt.status == http.StatusTooManyRequests && se.RetryAfter != 3*time.Second {
						t.Errorf("expected retry after 3s, got %v", se.RetryAfter)
					}
				})
			}
		})

		t.Run("Refresh Budget", func(t *testing.T) {
			t.Run("Default Allows One Refresh", func(t *testing.T) {
				srv, rec := newTestServer(t, onlyToken(t, "never"))
				auth := &fakeRefresher{token: &oauth2.Token{AccessToken: "fresh"}}
				d := NewDispatcher(auth, "stale", "refresh", WithBaseURL(srv.URL))

				_, err := d.Send(ctx, NewRequest(http.MethodGet, d.URL("/me")))
				if !errors.Is(err, ErrReauthenticationRequired) {
					t.Fatalf("expected ErrReauthenticationRequired, got %v", err)
				}

				var se *StatusError
				if !errors.As(err, &se) || se.StatusCode != http.StatusUnauthorized {
					t.Errorf("expected final 401 status error, got %v", err)
				}
				if auth.Calls() != 1 {
					t.Errorf("expected 1 refresh, got %d", auth.Calls())
				}
				if rec.count() != 2 {
					t.Errorf("expected 2 requests, got %d", rec.count())
				}
			})

			t.Run("Configurable", func(t *testing.T) {
				srv, rec := newTestServer(t, onlyToken(t, "never"))
				auth := &fakeRefresher{token: &oauth2.Token{AccessToken: "fresh"}}
				d := NewDispatcher(auth, "stale", "refresh", WithBaseURL(srv.URL), WithMaxRefreshes(3))

				_, err := d.Send(ctx, NewRequest(http.MethodGet, d.URL("/me")))
				if !errors.Is(err, ErrReauthenticationRequired) {
					t.Fatalf("expected ErrReauthenticationRequired, got %v", err)
				}
				if auth.Calls() != 3 {
					t.Errorf("expected 3 refreshes, got %d", auth.Calls())
				}
				if rec.count() != 4 {
					t.Errorf("expected 4 requests, got %d", rec.count())
				}
			})

			t.Run("Zero Disables Refresh", func(t *testing.T) {
				srv, _ := newTestServer(t, onlyToken(t, "fresh"))
				auth := &fakeRefresher{token: &oauth2.Token{AccessToken: "fresh"}}
				d := NewDispatcher(auth, "stale", "refresh", WithBaseURL(srv.URL), WithMaxRefreshes(0))

				_, err := d.Send(ctx, NewRequest(http.MethodGet, d.URL("/me")))
				if !errors.Is(err, ErrReauthenticationRequired) {
					t.Fatalf("expected ErrReauthenticationRequired, got %v", err)
				}
				if auth.Calls() != 0 {
					t.Errorf("expected no refresh, got %d", auth.Calls())
				}
			})
		})

		t.Run("Refresh Failure", func(t *testing.T) {
			srv, rec := newTestServer(t, onlyToken(t, "fresh"))
			auth := &fakeRefresher{err: errors.New("invalid_grant")}
			d := NewDispatcher(auth, "stale", "revoked", WithBaseURL(srv.URL))

			_, err := d.Send(ctx, NewRequest(http.MethodGet, d.URL("/me")))
			if !errors.Is(err, ErrRefreshFailed) {
				t.Fatalf("expected ErrRefreshFailed, got %v", err)
			}
			if rec.count() != 1 {
				t.Errorf("expected no retry after failed refresh, got %d requests", rec.count())
			}
			if access, _ := d.Tokens(); access != "stale" {
				t.Errorf("expected session unchanged, got %s", access)
			}
		})

		t.Run("Missing Refresher", func(t *testing.T) {
			srv, _ := newTestServer(t, onlyToken(t, "fresh"))
			d := NewDispatcher(nil, "stale", "refresh", WithBaseURL(srv.URL))

			_, err := d.Send(ctx, NewRequest(http.MethodGet, d.URL("/me")))
			if !errors.Is(err, ErrRefreshFailed) {
				t.Fatalf("expected ErrRefreshFailed, got %v", err)
			}
		})

		t.Run("Transport Error", func(t *testing.T) {
			srv, _ := newTestServer(t, onlyToken(t, "token"))
			srv.Close()
			d := NewDispatcher(nil, "token", "", WithBaseURL(srv.URL))

			_, err := d.Send(ctx, NewRequest(http.MethodGet, d.URL("/me")))
			if !errors.Is(err, ErrTransport) {
				t.Fatalf("expected ErrTransport, got %v", err)
			}
		})

		t.Run("Timeout", func(t *testing.T) {
			srv, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
				select {
				case <-r.Context().Done():
				case <-time.After(2 * time.Second):
				}
			})
			d := NewDispatcher(nil, "token", "", WithBaseURL(srv.URL), WithTimeout(20*time.Millisecond))

			_, err := d.Send(ctx, NewRequest(http.MethodGet, d.URL("/me")))
			if !errors.Is(err, ErrTransport) {
				t.Fatalf("expected ErrTransport, got %v", err)
			}
		})

		t.Run("Invalid Market", func(t *testing.T) {
			srv, rec := newTestServer(t, onlyToken(t, "token"))
			d := NewDispatcher(nil, "token", "", WithBaseURL(srv.URL), WithMarket("XYZ"))

			_, err := d.Send(ctx, NewRequest(http.MethodGet, d.URL("/me")))
			if !errors.Is(err, ErrInvalidInput) {
				t.Fatalf("expected ErrInvalidInput, got %v", err)
			}
			if rec.count() != 0 {
				t.Errorf("expected no request, got %d", rec.count())
			}
		})
	})

	t.Run("Concurrent 401s Share One Refresh", func(t *testing.T) {
		srv, _ := newTestServer(t, onlyToken(t, "fresh"))
		auth := &fakeRefresher{token: &oauth2.Token{AccessToken: "fresh"}, delay: 50 * time.Millisecond}
		d := NewDispatcher(auth, "stale", "refresh", WithBaseURL(srv.URL))

		var wg sync.WaitGroup
		errs := make(chan error, 10)
		for range 10 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, err := d.Send(ctx, NewRequest(http.MethodGet, d.URL("/me")))
				errs <- err
			}()
		}
		wg.Wait()
		close(errs)

		for err := range errs {
			if err != nil {
				t.Errorf("expected no error, got %v", err)
			}
		}
		if auth.Calls() != 1 {
			t.Errorf("expected exactly 1 refresh, got %d", auth.Calls())
		}
	})

	t.Run("Shared Refresh Survives The Caller That Started It", func(t *testing.T) {
		srv, _ := newTestServer(t, onlyToken(t, "fresh"))
		auth := &fakeRefresher{token: &oauth2.Token{AccessToken: "fresh"}, delay: 150 * time.Millisecond}
		d := NewDispatcher(auth, "stale", "refresh", WithBaseURL(srv.URL))

		first, cancel := context.WithCancel(ctx)
		firstErr := make(chan error, 1)
		go func() {
			_, err := d.Send(first, NewRequest(http.MethodGet, d.URL("/me")))
			firstErr <- err
		}()

		time.Sleep(30 * time.Millisecond)
		secondErr := make(chan error, 1)
		go func() {
			_, err := d.Send(ctx, NewRequest(http.MethodGet, d.URL("/me")))
			secondErr <- err
		}()

		time.Sleep(30 * time.Millisecond)
		cancel()

		if err := <-firstErr; !errors.Is(err, context.Canceled) {
			t.Errorf("expected the cancelled caller to see context.Canceled, got %v", err)
		}
		if err := <-secondErr; err != nil {
			t.Fatalf("expected the live caller to succeed, got %v", err)
		}
		if auth.Calls() != 1 {
			t.Errorf("expected exactly 1 refresh, got %d", auth.Calls())
		}
		if token, _ := d.Tokens(); token != "fresh" {
			t.Errorf("expected token fresh, got %s", token)
		}
	})

	t.Run("Refresh Is Bounded By The Timeout", func(t *testing.T) {
		srv, _ := newTestServer(t, onlyToken(t, "fresh"))
		auth := &fakeRefresher{token: &oauth2.Token{AccessToken: "fresh"}, delay: time.Second}
		d := NewDispatcher(auth, "stale", "refresh", WithBaseURL(srv.URL), WithTimeout(50*time.Millisecond))

		_, err := d.Send(ctx, NewRequest(http.MethodGet, d.URL("/me")))
		if !errors.Is(err, ErrRefreshFailed) || !errors.Is(err, context.DeadlineExceeded) {
			t.Errorf("expected ErrRefreshFailed wrapping DeadlineExceeded, got %v", err)
		}
	})

	t.Run("Response Decode", func(t *testing.T) {
		t.Run("Malformed JSON", func(t *testing.T) {
			resp := &Response{StatusCode: http.StatusOK, Body: []byte(`{"id":`)}
			var v struct{ ID string }
			if err := resp.Decode(&v); !errors.Is(err, ErrDecode) {
				t.Errorf("expected ErrDecode, got %v", err)
			}
		})

		t.Run("Empty Body", func(t *testing.T) {
			resp := &Response{StatusCode: http.StatusNoContent}
			var v struct{ ID string }
			if err := resp.Decode(&v); !errors.Is(err, ErrDecode) {
				t.Errorf("expected ErrDecode, got %v", err)
			}
		})
	})
}
