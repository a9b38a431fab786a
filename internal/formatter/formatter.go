// package formatter renders recommendation sections to various formats (CSV, Markdown, JSON, plain text)
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
	"strings"
	"time"

	"github.com/desertthunder/wdiw/internal/models"
	"github.com/desertthunder/wdiw/internal/shared"
	"github.com/desertthunder/wdiw/internal/tasks"
)

// Format names an export format.
type Format string

const (
	FormatText     Format = "text"
	FormatMarkdown Format = "markdown"
	FormatCSV      Format = "csv"
	FormatJSON     Format = "json"
)

// ParseFormat parses a format name; "md" and "txt" are accepted as aliases.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "text", "txt":
		return FormatText, nil
	case "markdown", "md":
		return FormatMarkdown, nil
	case "csv":
		return FormatCSV, nil
	case "json":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("%w: format must be one of text, markdown, csv, json (got %q)", shared.ErrInvalidFlag, s)
	}
}

// Export renders sections for identifier in the given format.
func Export(s tasks.Sections, identifier string, f Format) ([]byte, error) {
	switch f {
	case FormatMarkdown:
		return ExportToMarkdown(s, identifier)
	case FormatCSV:
		return ExportToCSV(s)
	case FormatJSON:
		return ExportToJSON(s, identifier)
	default:
		return ExportToText(s)
	}
}

// ExportToCSV converts sections to CSV with one row per record, prefixed by its section type.
func ExportToCSV(s tasks.Sections) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"Section", "IMDb ID", "Title", "Year", "IMDb Rating", "Metascore", "Genre", "Runtime", "Rated", "Director"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, sec := range s.Visible() {
		for _, r := range sec.Items {
			record := []string{
				string(sec.Type),
				r.IMDbID,
				r.Title,
				r.Year.String(),
				r.IMDbRating.String(),
				r.Metascore.String(),
				r.Genre,
				r.Runtime,
				r.Rated,
				r.Director,
			}
			if err := writer.Write(record); err != nil {
				return nil, fmt.Errorf("failed to write CSV record: %w", err)
			}
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ExportToMarkdown converts sections to a Markdown document linking each title to IMDb.
func ExportToMarkdown(s tasks.Sections, identifier string) ([]byte, error) {
	var buf bytes.Buffer

	if identifier != "" {
		fmt.Fprintf(&buf, "# Recommendations for %s\n\n", identifier)
	} else {
		buf.WriteString("# Recommendations\n\n")
	}
	fmt.Fprintf(&buf, "**%s**\n", s.Header())
	fmt.Fprintf(&buf, "**Sorted by**: %s\n\n", s.SortBy.Label())

	for _, sec := range s.Visible() {
		fmt.Fprintf(&buf, "## %s\n\n", sec.Title)
		if sec.Description != "" {
			fmt.Fprintf(&buf, "_%s_\n\n", sec.Description)
		}
		for i, r := range sec.Items {
			fmt.Fprintf(&buf, "%d. [%s](%s)", i+1, Heading(r), shared.IMDbURL(r.IMDbID))
			if meta := Meta(r); meta != "" {
				fmt.Fprintf(&buf, " - %s", meta)
			}
			buf.WriteString("\n")
			if r.Plot != "" {
				fmt.Fprintf(&buf, "   > %s\n", r.Plot)
			}
		}
		buf.WriteString("\n")
	}

	return buf.Bytes(), nil
}

// ExportToText converts sections to plain text
func ExportToText(s tasks.Sections) ([]byte, error) {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "%s (sorted by %s)\n", s.Header(), s.SortBy.Label())

	for _, sec := range s.Visible() {
		fmt.Fprintf(&buf, "\n%s\n", sec.Title)
		for i, r := range sec.Items {
			fmt.Fprintf(&buf, "%d. %s [%s]\n", i+1, Heading(r), r.IMDbID)
			if meta := Meta(r); meta != "" {
				fmt.Fprintf(&buf, "   %s\n", meta)
			}
		}
	}

	return buf.Bytes(), nil
}

type jsonSection struct {
	Type  models.RecommendationType `json:"type"`
	Title string                    `json:"title"`
	Items []models.Recommendation   `json:"items"`
}

type jsonExport struct {
	Identifier string        `json:"identifier,omitempty"`
	SortBy     tasks.SortBy  `json:"sort_by"`
	Total      int           `json:"total"`
	Sections   []jsonSection `json:"sections"`
}

// ExportToJSON converts sections to indented JSON. Empty sections are omitted.
func ExportToJSON(s tasks.Sections, identifier string) ([]byte, error) {
	out := jsonExport{Identifier: identifier, SortBy: s.SortBy, Total: s.Total(), Sections: []jsonSection{}}
	for _, sec := range s.Visible() {
		out.Sections = append(out.Sections, jsonSection{Type: sec.Type, Title: sec.Title, Items: sec.Items})
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal JSON: %w", err)
	}
	return append(data, '\n'), nil
}

// Heading is the card title: "Title (Year)".
func Heading(r models.Recommendation) string {
	if r.Year.String() == "N/A" {
		return r.Title
	}
	return fmt.Sprintf("%s (%s)", r.Title, r.Year.String())
}

// Meta is the card's one-line summary of runtime, content rating and scores.
func Meta(r models.Recommendation) string {
	var parts []string
	if r.Runtime != "" {
		parts = append(parts, r.Runtime)
	}
	if r.Rated != "" {
		parts = append(parts, r.Rated)
	}
	if r.IMDbRating.Valid {
		parts = append(parts, "IMDb "+r.IMDbRating.String())
	}
	if r.Metascore.Valid {
		parts = append(parts, "Metascore "+r.Metascore.String())
	}
	return strings.Join(parts, " · ")
}

// Field is one labeled attribute of the detail view.
type Field struct {
	Label string
	Value string
}

// DetailFields lists every attribute shown in the detail view. Empty values are skipped
// and box office only appears when supplied.
func DetailFields(r models.Recommendation) []Field {
	candidates := []Field{
		{"Year", r.Year.String()},
		{"Rated", r.Rated},
		{"Runtime", r.Runtime},
		{"Genre", strings.Join(r.Genres(), ", ")},
		{"IMDb Rating", r.IMDbRating.String()},
		{"Metascore", r.Metascore.String()},
		{"Director", r.Director},
		{"Writer", r.Writer},
		{"Actors", r.Actors},
		{"Released", r.Released},
		{"Country", r.Country},
		{"Language", r.Language},
		{"Awards", r.Awards},
	}
	if r.HasBoxOffice() {
		candidates = append(candidates, Field{"Box Office", r.BoxOffice})
	}

	fields := make([]Field, 0, len(candidates))
	for _, f := range candidates {
		if v := strings.TrimSpace(f.Value); v != "" && v != "N/A" {
			fields = append(fields, Field{f.Label, v})
		}
	}
	return fields
}

// Detail renders a single record as plain text with its IMDb link.
func Detail(r models.Recommendation) string {
	var b strings.Builder

	b.WriteString(Heading(r))
	b.WriteString("\n")
	if r.Plot != "" {
		fmt.Fprintf(&b, "\n%s\n\n", r.Plot)
	}
	for _, f := range DetailFields(r) {
		fmt.Fprintf(&b, "%-12s %s\n", f.Label+":", f.Value)
	}
	fmt.Fprintf(&b, "%-12s %s\n", "IMDb:", shared.IMDbURL(r.IMDbID))
	return b.String()
}

// DownloadImage downloads an image from the given URL and returns the raw bytes
func DownloadImage(ctx context.Context, client *http.Client, url string) ([]byte, error) {
	if url == "" || url == "N/A" {
		return nil, fmt.Errorf("%w: no image URL", shared.ErrInvalidInput)
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

// WriteFile writes data to path, creating parent directories as needed.
func WriteFile(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}
	return nil
}
