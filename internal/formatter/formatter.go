// package formatter exports playlist data to CSV, Markdown and plain text
package formatter

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/desertthunder/spotx/spotify"
)

// Format names an export format.
type Format string

const (
	FormatCSV      Format = "csv"
	FormatMarkdown Format = "markdown"
	FormatText     Format = "text"
)

// ParseFormat accepts csv, markdown (or md) and text (or txt).
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "csv":
		return FormatCSV, nil
	case "markdown", "md":
		return FormatMarkdown, nil
	case "text", "txt":
		return FormatText, nil
	}
	return "", fmt.Errorf("unknown export format %q", s)
}

// Row is one exported playlist entry. Local files and unavailable tracks have no ID or ISRC.
type Row struct {
	ID       string
	Title    string
	Artist   string
	Album    string
	Duration time.Duration
	ISRC     string
	AddedAt  string
}

// PlaylistExport holds a playlist and every one of its items.
type PlaylistExport struct {
	Playlist spotify.Playlist
	Rows     []Row
}

// NewPlaylistExport flattens items into rows, skipping entries whose track is missing.
func NewPlaylistExport(playlist spotify.Playlist, items []spotify.PlaylistTrack) *PlaylistExport {
	playlist.Tracks = spotify.Page[spotify.PlaylistTrack]{Total: playlist.Tracks.Total}

	rows := make([]Row, 0, len(items))
	for _, item := range items {
		if item.Track == nil {
			continue
		}
		names := make([]string, len(item.Track.Artists))
		for i, a := range item.Track.Artists {
			names[i] = a.Name
		}
		rows = append(rows, Row{
			ID:       item.Track.ID,
			Title:    item.Track.Name,
			Artist:   strings.Join(names, ", "),
			Album:    item.Track.Album.Name,
			Duration: time.Duration(item.Track.DurationMS) * time.Millisecond,
			ISRC:     item.Track.ExternalIDs.ISRC,
			AddedAt:  item.AddedAt,
		})
	}
	return &PlaylistExport{Playlist: playlist, Rows: rows}
}

// FormatDuration renders d as m:ss.
func FormatDuration(d time.Duration) string {
	return fmt.Sprintf("%d:%02d", int(d.Minutes()), int(d.Seconds())%60)
}

func visibility(public *bool) string {
	switch {
	case public == nil:
		return "Unknown"
	case *public:
		return "Public"
	default:
		return "Private"
	}
}

// ExportToCSV converts a PlaylistExport to CSV format with columns: ID, Title, Artist, Album, Duration, ISRC, Added
func ExportToCSV(export *PlaylistExport) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"ID", "Title", "Artist", "Album", "Duration", "ISRC", "Added"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, row := range export.Rows {
		record := []string{
			row.ID,
			row.Title,
			row.Artist,
			row.Album,
			strconv.Itoa(int(row.Duration.Seconds())),
			row.ISRC,
			row.AddedAt,
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ExportToMarkdown converts a PlaylistExport to Markdown, referencing imageFilename as the cover when set.
func ExportToMarkdown(export *PlaylistExport, imageFilename string) ([]byte, error) {
	var buf bytes.Buffer
	p := export.Playlist

	fmt.Fprintf(&buf, "# %s\n\n", p.Name)

	if imageFilename != "" {
		fmt.Fprintf(&buf, "![Cover](%s)\n\n", imageFilename)
	}
	if p.Description != "" {
		fmt.Fprintf(&buf, "**Description**: %s\n\n", p.Description)
	}
	if p.Owner.DisplayName != "" {
		fmt.Fprintf(&buf, "**Owner**: %s\n", p.Owner.DisplayName)
	}

	fmt.Fprintf(&buf, "**Tracks**: %d\n", len(export.Rows))
	fmt.Fprintf(&buf, "**Visibility**: %s\n", visibility(p.Public))
	if url := p.ExternalURLs.Spotify; url != "" {
		fmt.Fprintf(&buf, "**Link**: <%s>\n", url)
	}

	buf.WriteString("\n## Tracks\n\n")
	for i, row := range export.Rows {
		albumPart := ""
		if row.Album != "" {
			albumPart = fmt.Sprintf(" (%s)", row.Album)
		}
		fmt.Fprintf(&buf, "%d. %s - %s%s [%s]\n", i+1, row.Artist, row.Title, albumPart, FormatDuration(row.Duration))
	}

	return buf.Bytes(), nil
}

// ExportToText converts a PlaylistExport to plain text format
func ExportToText(export *PlaylistExport) ([]byte, error) {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "Playlist: %s\n", export.Playlist.Name)
	if export.Playlist.Description != "" {
		fmt.Fprintf(&buf, "Description: %s\n", export.Playlist.Description)
	}
	fmt.Fprintf(&buf, "Tracks: %d\n\n", len(export.Rows))

	for i, row := range export.Rows {
		fmt.Fprintf(&buf, "%d. %s - %s\n", i+1, row.Artist, row.Title)
	}

	return buf.Bytes(), nil
}

// metadata is the playlist summary written next to CSV exports.
type metadata struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Owner       string   `json:"owner,omitempty"`
	Public      *bool    `json:"public"`
	SnapshotID  string   `json:"snapshot_id"`
	TrackCount  int      `json:"track_count"`
	Followers   int      `json:"followers"`
	URI         string   `json:"uri"`
	Images      []string `json:"images,omitempty"`
}

// ToMetadataJSON generates an indented JSON summary of the playlist without its items.
func ToMetadataJSON(playlist spotify.Playlist) ([]byte, error) {
	m := metadata{
		ID:          playlist.ID,
		Name:        playlist.Name,
		Description: playlist.Description,
		Owner:       playlist.Owner.ID,
		Public:      playlist.Public,
		SnapshotID:  playlist.SnapshotID,
		TrackCount:  playlist.Tracks.Total,
		Followers:   playlist.Followers.Total,
		URI:         playlist.URI,
	}
	for _, img := range playlist.Images {
		m.Images = append(m.Images, img.URL)
	}
	return json.MarshalIndent(m, "", "  ")
}

// DownloadImage fetches url with client and returns the raw bytes.
func DownloadImage(ctx context.Context, client *http.Client, url string) ([]byte, error) {
	if url == "" {
		return nil, fmt.Errorf("empty URL provided")
	}
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to download image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to download image: status %d", resp.StatusCode)
	}

	imageData, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read image data: %w", err)
	}

	return imageData, nil
}

// CSVExportResult contains the paths of files created by WriteCSVExport
type CSVExportResult struct {
	TracksFile   string
	MetadataFile string
}

// WriteCSVExport writes {base}_tracks.csv and {base}_metadata.json.
//
// The base defaults to the playlist ID.
func WriteCSVExport(export *PlaylistExport, baseFilepath string) (*CSVExportResult, error) {
	if baseFilepath == "" {
		baseFilepath = export.Playlist.ID
	}

	csvData, err := ExportToCSV(export)
	if err != nil {
		return nil, fmt.Errorf("failed to generate CSV: %w", err)
	}

	tracksFile := baseFilepath + "_tracks.csv"
	if err := os.WriteFile(tracksFile, csvData, 0644); err != nil {
		return nil, fmt.Errorf("failed to write CSV file: %w", err)
	}

	metadataJSON, err := ToMetadataJSON(export.Playlist)
	if err != nil {
		return nil, fmt.Errorf("failed to generate metadata JSON: %w", err)
	}

	metadataFile := baseFilepath + "_metadata.json"
	if err := os.WriteFile(metadataFile, metadataJSON, 0644); err != nil {
		return nil, fmt.Errorf("failed to write metadata file: %w", err)
	}

	return &CSVExportResult{TracksFile: tracksFile, MetadataFile: metadataFile}, nil
}

// MarkdownExportResult contains information about files created by WriteMarkdownExport
type MarkdownExportResult struct {
	Directory  string
	Files      []string
	CoverImage string
}

// WriteMarkdownExport writes {dir}/README.md, plus {dir}/cover.jpg when cover is not empty.
//
// The directory defaults to the playlist ID.
func WriteMarkdownExport(export *PlaylistExport, outputDir string, cover []byte) (*MarkdownExportResult, error) {
	if outputDir == "" {
		outputDir = export.Playlist.ID
	}

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	result := &MarkdownExportResult{Directory: outputDir}

	var coverFilename string
	if len(cover) > 0 {
		coverFilename = "cover.jpg"
		coverPath := filepath.Join(outputDir, coverFilename)
		if err := os.WriteFile(coverPath, cover, 0644); err != nil {
			return nil, fmt.Errorf("failed to write cover image: %w", err)
		}
		result.CoverImage = coverPath
		result.Files = append(result.Files, coverPath)
	}

	mdData, err := ExportToMarkdown(export, coverFilename)
	if err != nil {
		return nil, fmt.Errorf("failed to generate Markdown: %w", err)
	}

	mdFile := filepath.Join(outputDir, "README.md")
	if err := os.WriteFile(mdFile, mdData, 0644); err != nil {
		return nil, fmt.Errorf("failed to write Markdown file: %w", err)
	}
	result.Files = append(result.Files, mdFile)

	return result, nil
}

// WriteTextExport writes the plain text export to path, defaulting to {playlist ID}_tracks.txt.
func WriteTextExport(export *PlaylistExport, path string) (string, error) {
	if path == "" {
		path = fmt.Sprintf("%s_tracks.txt", export.Playlist.ID)
	}

	textData, err := ExportToText(export)
	if err != nil {
		return "", fmt.Errorf("failed to generate text: %w", err)
	}

	if err := os.WriteFile(path, textData, 0644); err != nil {
		return "", fmt.Errorf("failed to write text file: %w", err)
	}

	return path, nil
}
