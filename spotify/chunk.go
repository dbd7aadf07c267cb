package spotify

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Per-request id caps imposed by the provider.
const (
	maxAlbumIDs          = 20
	maxArtistIDs         = 50
	maxTrackIDs          = 50
	maxAudioFeatureIDs   = 100
	maxFollowIDs         = 50
	maxLibraryAlbumIDs   = 20
	maxLibraryIDs        = 50
	maxPlaylistFollowIDs = 5
	maxPlaylistItems     = 100
)

// chunks splits ids into consecutive slices of at most size elements.
func chunks(ids []string, size int) [][]string {
	if size <= 0 {
		size = len(ids)
	}
	out := make([][]string, 0, (len(ids)+size-1)/max(size, 1))
	for start := 0; start < len(ids); start += size {
		end := min(start+size, len(ids))
		out = append(out, ids[start:end])
	}
	return out
}

// chunked runs fetch for every chunk of ids and concatenates the results in chunk order.
//
// At most concurrency chunks are in flight; 1 forces strictly sequential execution.
// The first error cancels the remaining chunks and is returned without partial results.
func chunked[T any](ctx context.Context, ids []string, size, concurrency int, fetch func(ctx context.Context, i int, chunk []string) ([]T, error)) ([]T, error) {
	parts := chunks(ids, size)
	if len(parts) == 0 {
		return nil, nil
	}

	results := make([][]T, len(parts))
	if concurrency <= 1 || len(parts) == 1 {
		for i, part := range parts {
			items, err := fetch(ctx, i, part)
			if err != nil {
				return nil, err
			}
			results[i] = items
		}
		return flatten(results), nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)
	for i, part := range parts {
		g.Go(func() error {
			items, err := fetch(gctx, i, part)
			if err != nil {
				return err
			}
			results[i] = items
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return flatten(results), nil
}

func flatten[T any](parts [][]T) []T {
	n := 0
	for _, p := range parts {
		n += len(p)
	}
	out := make([]T, 0, n)
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}
