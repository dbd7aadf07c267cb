package spotify

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"
)

func TestArtistClient(t *testing.T) {
	ctx := context.Background()

	t.Run("Albums Groups Are Sorted And Unique", func(t *testing.T) {
		client, _, rec := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			writeJSON(t, w, http.StatusOK, map[string]any{"items": []any{map[string]string{"id": "al1"}}, "total": 1})
		})

		page, err := client.Artists.Albums(ctx, ArtistAlbumsRequest{
			ArtistID: "ar",
			Groups:   []AlbumGroup{AlbumGroupSingle, AlbumGroupAlbum, AlbumGroupSingle},
		})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(page.Items) != 1 {
			t.Errorf("expected 1 album, got %d", len(page.Items))
		}

		req := rec.all()[0]
		if req.Path != "/artists/ar/albums" || req.Query.Get("include_groups") != "album,single" {
			t.Errorf("unexpected request %s?%v", req.Path, req.Query)
		}
	})

	t.Run("Unknown Group", func(t *testing.T) {
		client, _, rec := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {})

		_, err := client.Artists.Albums(ctx, ArtistAlbumsRequest{ArtistID: "ar", Groups: []AlbumGroup{"mixtape"}})
		if !errors.Is(err, ErrInvalidInput) {
			t.Errorf("expected ErrInvalidInput, got %v", err)
		}
		if rec.count() != 0 {
			t.Errorf("expected no request, got %d", rec.count())
		}
	})

	t.Run("Artists Keeps Unknown Ids As Nil", func(t *testing.T) {
		client, _, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			writeJSON(t, w, http.StatusOK, map[string]any{"artists": []any{map[string]string{"id": "a"}, nil}})
		})

		artists, err := client.Artists.Artists(ctx, []string{"a", "missing"})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(artists) != 2 || artists[0].ID != "a" || artists[1] != nil {
			t.Errorf("unexpected artists %+v", artists)
		}
	})

	t.Run("TopTracks Uses Market", func(t *testing.T) {
		client, _, rec := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			writeJSON(t, w, http.StatusOK, map[string]any{"tracks": []any{map[string]string{"id": "t"}}})
		}, WithMarket("US"))

		tracks, err := client.Artists.TopTracks(ctx, "ar")
		if err != nil || len(tracks) != 1 {
			t.Fatalf("expected 1 track, got %v, %v", tracks, err)
		}
		if got := rec.all()[0].Query.Get("market"); got != "US" {
			t.Errorf("expected market US, got %q", got)
		}
	})

	t.Run("Empty Id", func(t *testing.T) {
		client, _, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {})

		if _, err := client.Artists.Artist(ctx, " "); !errors.Is(err, ErrInvalidInput) {
			t.Errorf("expected ErrInvalidInput, got %v", err)
		}
	})
}

func TestAlbumClient(t *testing.T) {
	ctx := context.Background()

	t.Run("Album Tracks Are Bound", func(t *testing.T) {
		var base string
		client, srv, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			switch r.URL.Path {
			case "/albums/al":
				writeJSON(t, w, http.StatusOK, map[string]any{
					"id":   "al",
					"name": "Kind of Blue",
					"tracks": map[string]any{
						"items": []any{map[string]string{"id": "t1"}},
						"next":  base + "/albums/al/tracks?offset=1&limit=1",
						"total": 2,
					},
				})
			case "/albums/al/tracks":
				writeJSON(t, w, http.StatusOK, map[string]any{
					"items":  []any{map[string]string{"id": "t2"}},
					"offset": 1,
					"total":  2,
				})
			}
		})
		base = srv.URL

		album, err := client.Albums.Album(ctx, "al")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		tracks, err := album.Tracks.AllItems(ctx)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(tracks) != 2 || tracks[1].ID != "t2" {
			t.Errorf("unexpected tracks %+v", tracks)
		}
	})

	t.Run("Albums Chunks By Twenty", func(t *testing.T) {
		client, _, rec := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			writeJSON(t, w, http.StatusOK, map[string]any{"albums": []any{}})
		})

		if _, err := client.Albums.Albums(ctx, strings.Split(strings.Repeat("al,", 20)+"al", ",")); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if rec.count() != 2 {
			t.Errorf("expected 2 requests, got %d", rec.count())
		}
	})
}
