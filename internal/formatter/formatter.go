// package formatter renders mood recommendations and history to various formats (CSV, Markdown, JSON, plain text)
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/desertthunder/moodtunes/internal/models"
	"github.com/desertthunder/moodtunes/internal/services"
	"github.com/desertthunder/moodtunes/internal/shared"
)

// Format names accepted by [Render].
const (
	FormatText     = "text"
	FormatMarkdown = "markdown"
	FormatCSV      = "csv"
	FormatJSON     = "json"
)

// Formats lists the supported output formats.
var Formats = []string{FormatText, FormatMarkdown, FormatCSV, FormatJSON}

// Recommendations is what the gateway returned for one mood. Either list may be nil when it was not requested.
type Recommendations struct {
	Mood      string                    `json:"mood"`
	Playlists []services.PlaylistResult `json:"playlists,omitempty"`
	Videos    []services.VideoResult    `json:"videos,omitempty"`
}

// Render converts recommendations to the named format.
func Render(rec Recommendations, format string) ([]byte, error) {
	switch strings.ToLower(format) {
	case "", FormatText:
		return ExportToText(rec)
	case FormatMarkdown, "md":
		return ExportToMarkdown(rec)
	case FormatCSV:
		return ExportToCSV(rec)
	case FormatJSON:
		return shared.MarshalJSON(rec, true)
	default:
		return nil, fmt.Errorf("%w: unknown format %q (want one of %s)", shared.ErrInvalidFlag, format, strings.Join(Formats, ", "))
	}
}

// ExportToCSV converts recommendations to CSV with columns: Kind, Title, URL, Image
func ExportToCSV(rec Recommendations) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"Kind", "Title", "URL", "Image"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, p := range rec.Playlists {
		if err := writer.Write([]string{"playlist", p.Name, p.URL, p.Image}); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}
	for _, v := range rec.Videos {
		if err := writer.Write([]string{"video", v.Title, v.VideoURL, v.Thumbnail}); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ExportToMarkdown converts recommendations to Markdown with linked thumbnails
func ExportToMarkdown(rec Recommendations) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("# Recommendations for %q\n\n", rec.Mood))

	if rec.Playlists != nil {
		buf.WriteString("## Playlists\n\n")
		if len(rec.Playlists) == 0 {
			buf.WriteString("_No playlists found._\n\n")
		}
		for i, p := range rec.Playlists {
			buf.WriteString(fmt.Sprintf("%d. [%s](%s) ![cover](%s)\n", i+1, escapeMarkdown(p.Name), p.URL, p.Image))
		}
		if len(rec.Playlists) > 0 {
			buf.WriteString("\n")
		}
	}

	if rec.Videos != nil {
		buf.WriteString("## Videos\n\n")
		if len(rec.Videos) == 0 {
			buf.WriteString("_No videos found._\n\n")
		}
		for i, v := range rec.Videos {
			buf.WriteString(fmt.Sprintf("%d. [%s](%s) ![thumbnail](%s)\n", i+1, escapeMarkdown(v.Title), v.VideoURL, v.Thumbnail))
		}
	}

	return buf.Bytes(), nil
}

// ExportToText converts recommendations to plain text
func ExportToText(rec Recommendations) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("Mood: %s\n", rec.Mood))

	if rec.Playlists != nil {
		buf.WriteString(fmt.Sprintf("\nPlaylists: %d\n", len(rec.Playlists)))
		for i, p := range rec.Playlists {
			buf.WriteString(fmt.Sprintf("%d. %s\n   %s\n", i+1, p.Name, p.URL))
		}
	}

	if rec.Videos != nil {
		buf.WriteString(fmt.Sprintf("\nVideos: %d\n", len(rec.Videos)))
		for i, v := range rec.Videos {
			buf.WriteString(fmt.Sprintf("%d. %s\n   %s\n", i+1, v.Title, v.VideoURL))
		}
	}

	return buf.Bytes(), nil
}

// HistoryRow is the serialized form of a [models.MoodEntry].
type HistoryRow struct {
	Sequence  int       `json:"sequence"`
	Mood      string    `json:"mood"`
	Score     float64   `json:"score"`
	Playlists int       `json:"playlists"`
	Videos    int       `json:"videos"`
	CreatedAt time.Time `json:"created_at"`
}

// RenderHistory converts mood history entries to the named format.
func RenderHistory(entries []*models.MoodEntry, format string) ([]byte, error) {
	rows := make([]HistoryRow, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, HistoryRow{
			Sequence:  e.Sequence(),
			Mood:      e.Mood(),
			Score:     e.Score(),
			Playlists: e.PlaylistCount(),
			Videos:    e.VideoCount(),
			CreatedAt: e.CreatedAt(),
		})
	}

	switch strings.ToLower(format) {
	case "", FormatText, FormatMarkdown, "md":
		return historyText(rows), nil
	case FormatCSV:
		return historyCSV(rows)
	case FormatJSON:
		return shared.MarshalJSON(rows, true)
	default:
		return nil, fmt.Errorf("%w: unknown format %q (want one of %s)", shared.ErrInvalidFlag, format, strings.Join(Formats, ", "))
	}
}

func historyText(rows []HistoryRow) []byte {
	var buf bytes.Buffer
	if len(rows) == 0 {
		buf.WriteString("No moods recorded yet.\n")
		return buf.Bytes()
	}

	for _, r := range rows {
		buf.WriteString(fmt.Sprintf("#%-4d %-10s %5.2f  %d playlists, %d videos  %s\n",
			r.Sequence, r.Mood, r.Score, r.Playlists, r.Videos, r.CreatedAt.Local().Format(time.DateTime)))
	}
	return buf.Bytes()
}

func historyCSV(rows []HistoryRow) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	if err := writer.Write([]string{"Sequence", "Mood", "Score", "Playlists", "Videos", "CreatedAt"}); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}
	for _, r := range rows {
		record := []string{
			strconv.Itoa(r.Sequence),
			r.Mood,
			strconv.FormatFloat(r.Score, 'f', -1, 64),
			strconv.Itoa(r.Playlists),
			strconv.Itoa(r.Videos),
			r.CreatedAt.UTC().Format(time.RFC3339),
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

// WriteExport writes rendered output to path, creating parent directories.
func WriteExport(data []byte, path string) error {
	if path == "" {
		return fmt.Errorf("%w: output path", shared.ErrMissingArgument)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write export file: %w", err)
	}
	return nil
}

var markdownEscaper = strings.NewReplacer("[", `\[`, "]", `\]`)

func escapeMarkdown(s string) string {
	return markdownEscaper.Replace(s)
}
