package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/desertthunder/spotx/internal/formatter"
	"github.com/desertthunder/spotx/internal/shared"
	"github.com/desertthunder/spotx/spotify"
	"github.com/urfave/cli/v3"
)

func pageOptions(cmd *cli.Command) spotify.PageOptions {
	return spotify.PageOptions{Limit: cmd.Int("limit"), Offset: cmd.Int("offset")}
}

// collect returns the items of page, or of every page when --all is set.
func collect[T any](ctx context.Context, cmd *cli.Command, page *spotify.Page[T]) ([]T, error) {
	if !cmd.Bool("all") {
		return page.Items, nil
	}
	return page.AllItems(ctx)
}

func artistNames(artists []spotify.SimpleArtist) string {
	names := make([]string, len(artists))
	for i, a := range artists {
		names[i] = a.Name
	}
	return strings.Join(names, ", ")
}

func formatDuration(ms int) string {
	return formatter.FormatDuration(time.Duration(ms) * time.Millisecond)
}

// Me prints the current user's profile.
func (r *Runner) Me(ctx context.Context, cmd *cli.Command) error {
	client, err := r.spotify()
	if err != nil {
		return err
	}

	user, err := client.Users.CurrentUser(ctx)
	if err != nil {
		return err
	}

	if ok, err := r.emitJSON(cmd, user); ok {
		return err
	}

	r.writePlainHeader(user.DisplayName)
	r.writePlain("ID:        %s\n", user.ID)
	if user.Email != "" {
		r.writePlain("Email:     %s\n", user.Email)
	}
	if user.Country != "" {
		r.writePlain("Country:   %s\n", user.Country)
	}
	if user.Product != "" {
		r.writePlain("Product:   %s\n", user.Product)
	}
	return r.writePlain("Followers: %d\n", user.Followers.Total)
}

// Playlists lists playlists of the current user or of --user.
func (r *Runner) Playlists(ctx context.Context, cmd *cli.Command) error {
	client, err := r.spotify()
	if err != nil {
		return err
	}

	r.logger.Debug("listing playlists", "user", cmd.String("user"), "all", cmd.Bool("all"))

	page, err := client.Playlists.Playlists(ctx, spotify.PlaylistsRequest{
		UserID:      cmd.String("user"),
		PageOptions: pageOptions(cmd),
	})
	if err != nil {
		return err
	}
	playlists, err := collect(ctx, cmd, page)
	if err != nil {
		return err
	}

	if ok, err := r.emitJSON(cmd, playlists); ok {
		return err
	}

	r.writePlain("Found %d of %d playlists:\n\n", len(playlists), page.Total)
	for i, p := range playlists {
		r.writePlain("%d. %s\n", i+1, p.Name)
		if p.Description != "" {
			r.writePlain("   Description: %s\n", p.Description)
		}
		r.writePlain("   ID: %s\n", p.ID)
		r.writePlain("   Tracks: %d\n", p.Tracks.Total)
		if p.Public != nil && *p.Public {
			r.writePlain("   Visibility: Public\n")
		} else {
			r.writePlain("   Visibility: Private\n")
		}
		r.writePlain("\n")
	}
	return nil
}

// PlaylistTracks lists the items of one playlist.
func (r *Runner) PlaylistTracks(ctx context.Context, cmd *cli.Command) error {
	id := cmd.StringArg("id")
	if id == "" {
		return fmt.Errorf("%w: playlist id", shared.ErrMissingArgument)
	}

	client, err := r.spotify()
	if err != nil {
		return err
	}

	page, err := client.Playlists.Items(ctx, spotify.PlaylistItemsRequest{PlaylistID: id, PageOptions: pageOptions(cmd)})
	if err != nil {
		return err
	}
	items, err := collect(ctx, cmd, page)
	if err != nil {
		return err
	}

	if ok, err := r.emitJSON(cmd, items); ok {
		return err
	}

	r.writePlain("Tracks: %d\n\n", page.Total)
	for i, item := range items {
		if item.Track == nil {
			r.writePlain("%3d. (unavailable)\n", i+1)
			continue
		}
		r.writePlain("%3d. %s - %s [%s]\n", i+1, item.Track.Name, artistNames(item.Track.Artists), formatDuration(item.Track.DurationMS))
	}
	return nil
}

// ExportPlaylist fetches a playlist with every item and writes it in the requested format.
func (r *Runner) ExportPlaylist(ctx context.Context, cmd *cli.Command) error {
	id := cmd.StringArg("id")
	if id == "" {
		return fmt.Errorf("%w: playlist id", shared.ErrMissingArgument)
	}
	format, err := formatter.ParseFormat(cmd.String("format"))
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrInvalidFlag, err)
	}

	client, err := r.spotify()
	if err != nil {
		return err
	}

	playlist, err := client.Playlists.Playlist(ctx, spotify.PlaylistRequest{PlaylistID: id})
	if err != nil {
		return err
	}
	items, err := playlist.Tracks.AllItems(ctx)
	if err != nil {
		return err
	}

	r.logger.Debug("exporting playlist", "id", id, "format", format, "items", len(items))
	export := formatter.NewPlaylistExport(*playlist, items)
	output := cmd.String("output")

	switch format {
	case formatter.FormatCSV:
		result, err := formatter.WriteCSVExport(export, output)
		if err != nil {
			return err
		}
		r.writePlain("✓ Exported %d tracks to %s\n", len(export.Rows), result.TracksFile)
		return r.writePlain("✓ Metadata written to %s\n", result.MetadataFile)
	case formatter.FormatMarkdown:
		var cover []byte
		if cmd.Bool("cover") && len(playlist.Images) > 0 {
			cover, err = formatter.DownloadImage(ctx, r.httpClient, playlist.Images[0].URL)
			if err != nil {
				r.logger.Warn("failed to download cover image", "error", err)
			}
		}
		result, err := formatter.WriteMarkdownExport(export, output, cover)
		if err != nil {
			return err
		}
		return r.writePlain("✓ Exported %d tracks to %s\n", len(export.Rows), result.Directory)
	default:
		path, err := formatter.WriteTextExport(export, output)
		if err != nil {
			return err
		}
		return r.writePlain("✓ Exported %d tracks to %s\n", len(export.Rows), path)
	}
}

// trackWithFeatures pairs a track with its audio features in JSON output.
type trackWithFeatures struct {
	*spotify.Track
	Features *spotify.AudioFeatures `json:"audio_features,omitempty"`
}

// Tracks looks up tracks by id, batching as needed.
func (r *Runner) Tracks(ctx context.Context, cmd *cli.Command) error {
	ids := cmd.Args().Slice()
	if len(ids) == 0 {
		return fmt.Errorf("%w: at least one track id", shared.ErrMissingArgument)
	}

	client, err := r.spotify()
	if err != nil {
		return err
	}

	tracks, err := client.Tracks.Tracks(ctx, ids)
	if err != nil {
		return err
	}

	out := make([]trackWithFeatures, len(tracks))
	for i, t := range tracks {
		out[i].Track = t
	}
	if cmd.Bool("features") {
		features, err := client.Tracks.AudioFeatures(ctx, ids)
		if err != nil {
			return err
		}
		for i := range out {
			if i < len(features) {
				out[i].Features = features[i]
			}
		}
	}

	if ok, err := r.emitJSON(cmd, out); ok {
		return err
	}

	for i, t := range out {
		if t.Track == nil {
			r.writePlain("%s: not found\n", ids[i])
			continue
		}
		r.writePlain("%s - %s (%s) [%s]\n", t.Name, artistNames(t.Artists), t.Album.Name, formatDuration(t.DurationMS))
		if f := t.Features; f != nil {
			r.writePlain("   tempo %.0f  energy %.2f  danceability %.2f  valence %.2f\n", f.Tempo, f.Energy, f.Danceability, f.Valence)
		}
	}
	return nil
}

// Search runs a catalog search built from keywords and filter flags.
func (r *Runner) Search(ctx context.Context, cmd *cli.Command) error {
	query := spotify.NewSearchQuery(cmd.Args().Slice()...).
		Artist(cmd.String("artist")).
		Album(cmd.String("album")).
		Genre(cmd.String("genre"))

	if year := strings.TrimSpace(cmd.String("year")); year != "" {
		if err := applyYear(query, year); err != nil {
			return err
		}
	}
	if query.String() == "" {
		return fmt.Errorf("%w: search keywords or filters", shared.ErrMissingArgument)
	}

	var types []spotify.SearchType
	for _, raw := range cmd.StringSlice("type") {
		for _, name := range strings.Split(raw, ",") {
			t, err := spotify.ParseSearchType(name)
			if err != nil {
				return fmt.Errorf("%w: %w", shared.ErrInvalidFlag, err)
			}
			types = append(types, t)
		}
	}
	if len(types) == 0 {
		types = []spotify.SearchType{spotify.SearchTypeTrack}
	}

	client, err := r.spotify()
	if err != nil {
		return err
	}

	r.logger.Debug("searching", "q", query.String(), "types", types)

	res, err := client.Search.Search(ctx, spotify.SearchRequest{Query: query, Types: types, PageOptions: pageOptions(cmd)})
	if err != nil {
		return err
	}

	if ok, err := r.emitJSON(cmd, res); ok {
		return err
	}

	if res.Tracks != nil {
		r.writePlainHeader(fmt.Sprintf("Tracks (%d)", res.Tracks.Total))
		for _, t := range res.Tracks.Items {
			r.writePlain("%s - %s  %s\n", t.Name, artistNames(t.Artists), t.ID)
		}
	}
	if res.Artists != nil {
		r.writePlainHeader(fmt.Sprintf("Artists (%d)", res.Artists.Total))
		for _, a := range res.Artists.Items {
			r.writePlain("%s  %s\n", a.Name, a.ID)
		}
	}
	if res.Albums != nil {
		r.writePlainHeader(fmt.Sprintf("Albums (%d)", res.Albums.Total))
		for _, a := range res.Albums.Items {
			r.writePlain("%s - %s  %s\n", a.Name, artistNames(a.Artists), a.ID)
		}
	}
	if res.Playlists != nil {
		r.writePlainHeader(fmt.Sprintf("Playlists (%d)", res.Playlists.Total))
		for _, p := range res.Playlists.Items {
			r.writePlain("%s  %s\n", p.Name, p.ID)
		}
	}
	if res.Shows != nil {
		r.writePlainHeader(fmt.Sprintf("Shows (%d)", res.Shows.Total))
		for _, s := range res.Shows.Items {
			r.writePlain("%s  %s\n", s.Name, s.ID)
		}
	}
	return nil
}

// applyYear parses "1959" or "1955-1960" into a year filter.
func applyYear(q *spotify.SearchQuery, year string) error {
	from, to, isRange := strings.Cut(year, "-")
	start, err := strconv.Atoi(strings.TrimSpace(from))
	if err != nil {
		return fmt.Errorf("%w: year %q", shared.ErrInvalidFlag, year)
	}
	if !isRange {
		q.Year(start)
		return nil
	}
	end, err := strconv.Atoi(strings.TrimSpace(to))
	if err != nil {
		return fmt.Errorf("%w: year %q", shared.ErrInvalidFlag, year)
	}
	q.YearRange(start, end)
	return nil
}

// Top shows the user's top artists or tracks.
func (r *Runner) Top(ctx context.Context, cmd *cli.Command) error {
	kind := cmd.StringArg("kind")
	req := spotify.TopRequest{TimeRange: spotify.TimeRange(cmd.String("range")), PageOptions: pageOptions(cmd)}

	switch kind {
	case "artists", "tracks":
	default:
		return fmt.Errorf("%w: expected artists or tracks, got %q", shared.ErrInvalidArgument, kind)
	}

	client, err := r.spotify()
	if err != nil {
		return err
	}

	if kind == "artists" {
		page, err := client.Personalization.TopArtists(ctx, req)
		if err != nil {
			return err
		}
		artists, err := collect(ctx, cmd, page)
		if err != nil {
			return err
		}
		if ok, err := r.emitJSON(cmd, artists); ok {
			return err
		}
		for i, a := range artists {
			r.writePlain("%2d. %s (%s)\n", i+1, a.Name, strings.Join(a.Genres, ", "))
		}
		return nil
	}

	page, err := client.Personalization.TopTracks(ctx, req)
	if err != nil {
		return err
	}
	tracks, err := collect(ctx, cmd, page)
	if err != nil {
		return err
	}
	if ok, err := r.emitJSON(cmd, tracks); ok {
		return err
	}
	for i, t := range tracks {
		r.writePlain("%2d. %s - %s\n", i+1, t.Name, artistNames(t.Artists))
	}
	return nil
}

// Recent shows recently played tracks.
func (r *Runner) Recent(ctx context.Context, cmd *cli.Command) error {
	client, err := r.spotify()
	if err != nil {
		return err
	}

	req := spotify.RecentlyPlayedRequest{Limit: cmd.Int("limit")}
	if since := cmd.Duration("since"); since > 0 {
		req.After = time.Now().Add(-since)
	}

	page, err := client.Player.RecentlyPlayed(ctx, req)
	if err != nil {
		return err
	}

	if ok, err := r.emitJSON(cmd, page.Items); ok {
		return err
	}

	for _, item := range page.Items {
		r.writePlain("%s  %s - %s\n", item.PlayedAt, item.Track.Name, artistNames(item.Track.Artists))
	}
	return nil
}

// Devices lists playback devices.
func (r *Runner) Devices(ctx context.Context, cmd *cli.Command) error {
	client, err := r.spotify()
	if err != nil {
		return err
	}

	devices, err := client.Player.Devices(ctx)
	if err != nil {
		return err
	}

	if ok, err := r.emitJSON(cmd, devices); ok {
		return err
	}

	if len(devices) == 0 {
		return r.writePlain("No devices available\n")
	}
	for _, d := range devices {
		active := " "
		if d.IsActive {
			active = "*"
		}
		volume := "-"
		if d.VolumePercent != nil {
			volume = fmt.Sprintf("%d%%", *d.VolumePercent)
		}
		r.writePlain("%s %s (%s) volume %s  %s\n", active, d.Name, d.Type, volume, d.ID)
	}
	return nil
}
