package server

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/oauth2"

	"github.com/desertthunder/spotx/internal/shared"
)

type fakeExchanger struct {
	codes []string
	err   error
}

func (f *fakeExchanger) Exchange(ctx context.Context, code string) (*oauth2.Token, error) {
	f.codes = append(f.codes, code)
	if f.err != nil {
		return nil, f.err
	}
	return &oauth2.Token{AccessToken: "access-" + code, RefreshToken: "refresh"}, nil
}

func TestOAuthHandler(t *testing.T) {
	logger := log.New(io.Discard)

	serve := func(t *testing.T, h *OAuthHandler, target string) *httptest.ResponseRecorder {
		t.Helper()
		rec := httptest.NewRecorder()
		NewRouter(logger, h).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
		return rec
	}

	t.Run("Exchanges Code", func(t *testing.T) {
		ex := &fakeExchanger{}
		h := NewOAuthHandler(ex, "/callback", "state-1")

		rec := serve(t, h, "/callback?state=state-1&code=abc")
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if !strings.Contains(rec.Body.String(), "Signed in") {
			t.Errorf("expected success page, got %q", rec.Body.String())
		}

		token, err := h.Wait(context.Background())
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if token.AccessToken != "access-abc" {
			t.Errorf("expected access-abc, got %s", token.AccessToken)
		}
	})

	t.Run("Rejects State Mismatch", func(t *testing.T) {
		ex := &fakeExchanger{}
		h := NewOAuthHandler(ex, "", "expected")

		rec := serve(t, h, "/callback?state=other&code=abc")
		if rec.Code != http.StatusBadRequest {
			t.Errorf("expected 400, got %d", rec.Code)
		}
		if _, err := h.Wait(context.Background()); !errors.Is(err, shared.ErrStateInvalid) {
			t.Errorf("expected ErrStateInvalid, got %v", err)
		}
		if len(ex.codes) != 0 {
			t.Errorf("expected no exchange, got %v", ex.codes)
		}
	})

	t.Run("Provider Error", func(t *testing.T) {
		h := NewOAuthHandler(&fakeExchanger{}, "/callback", "s")

		rec := serve(t, h, "/callback?state=s&error=access_denied")
		if rec.Code != http.StatusBadRequest {
			t.Errorf("expected 400, got %d", rec.Code)
		}
		_, err := h.Wait(context.Background())
		if !errors.Is(err, shared.ErrAuthFailed) || !strings.Contains(err.Error(), "access_denied") {
			t.Errorf("expected ErrAuthFailed naming access_denied, got %v", err)
		}
	})

	t.Run("Exchange Failure", func(t *testing.T) {
		boom := errors.New("boom")
		h := NewOAuthHandler(&fakeExchanger{err: boom}, "/callback", "s")

		rec := serve(t, h, "/callback?state=s&code=abc")
		if rec.Code != http.StatusInternalServerError {
			t.Errorf("expected 500, got %d", rec.Code)
		}
		if _, err := h.Wait(context.Background()); !errors.Is(err, boom) {
			t.Errorf("expected wrapped boom, got %v", err)
		}
	})

	t.Run("Only First Callback Is Processed", func(t *testing.T) {
		ex := &fakeExchanger{}
		h := NewOAuthHandler(ex, "/callback", "s")

		serve(t, h, "/callback?state=s&code=one")
		rec := serve(t, h, "/callback?state=s&code=two")
		if rec.Code != http.StatusBadRequest {
			t.Errorf("expected 400 on replay, got %d", rec.Code)
		}
		if len(ex.codes) != 1 || ex.codes[0] != "one" {
			t.Errorf("expected single exchange of one, got %v", ex.codes)
		}
	})

	t.Run("Wait Times Out", func(t *testing.T) {
		h := NewOAuthHandler(&fakeExchanger{}, "/callback", "s")
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
		defer cancel()

		if _, err := h.Wait(ctx); !errors.Is(err, shared.ErrTimeout) {
			t.Errorf("expected ErrTimeout, got %v", err)
		}
	})

	t.Run("Other Methods Not Allowed", func(t *testing.T) {
		h := NewOAuthHandler(&fakeExchanger{}, "/callback", "s")
		rec := httptest.NewRecorder()
		NewRouter(logger, h).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/callback", nil))
		if rec.Code != http.StatusMethodNotAllowed {
			t.Errorf("expected 405, got %d", rec.Code)
		}
	})
}

func TestCallbackServer(t *testing.T) {
	h := NewOAuthHandler(&fakeExchanger{}, "/callback", "s")
	srv, err := Listen("127.0.0.1:0", NewRouter(log.New(io.Discard), h), log.New(io.Discard))
	if err != nil {
		t.Fatalf("failed to listen: %v", err)
	}
	go srv.Serve()
	t.Cleanup(func() { _ = srv.Shutdown(context.Background()) })

	resp, err := http.Get("http://" + srv.Addr() + "/callback?state=s&code=xyz")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	resp.Body.Close()

	token, err := h.Wait(context.Background())
	if err != nil || token.AccessToken != "access-xyz" {
		t.Errorf("expected access-xyz, got %v, %v", token, err)
	}
}
