package formatter

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/desertthunder/wdiw/internal/models"
	"github.com/desertthunder/wdiw/internal/shared"
	"github.com/desertthunder/wdiw/internal/tasks"
)

func sampleSections(t *testing.T) tasks.Sections {
	t.Helper()
	batch := models.Batch{
		{
			IMDbID:     "tt0110413",
			Title:      "Léon: The Professional",
			Year:       models.NumberOf(1994),
			IMDbRating: models.NumberOf(8.5),
			Metascore:  models.NumberOf(64),
			Genre:      "Action, Crime, Drama",
			Runtime:    "110 min",
			Rated:      "R",
			Director:   "Luc Besson",
			Plot:       "A hitman takes in a girl.",
			Type:       models.TypeAll,
		},
		{
			IMDbID:     "tt0245429",
			Title:      "Spirited Away",
			Year:       models.ParseNumber("2001"),
			IMDbRating: models.ParseNumber("8.6"),
			Metascore:  models.ParseNumber("N/A"),
			Genre:      "Animation, Adventure",
			Runtime:    "125 min",
			Rated:      "PG",
			Director:   "Hayao Miyazaki",
			Type:       models.TypeRated,
		},
	}
	return tasks.BuildSections(batch, tasks.SortDefault, nil)
}

func TestParseFormat(t *testing.T) {
	tc := []struct {
		in   string
		want Format
	}{
		{"", FormatText},
		{"txt", FormatText},
		{"md", FormatMarkdown},
		{"Markdown", FormatMarkdown},
		{"csv", FormatCSV},
		{"json", FormatJSON},
	}
	for _, tt := range tc {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFormat(tt.in)
			if err != nil || got != tt.want {
				t.Errorf("ParseFormat(%q) = %q, %v; want %q", tt.in, got, err, tt.want)
			}
		})
	}

	t.Run("invalid", func(t *testing.T) {
		if _, err := ParseFormat("yaml"); !errors.Is(err, shared.ErrInvalidFlag) {
			t.Errorf("expected ErrInvalidFlag, got %v", err)
		}
	})
}

func TestExporters(t *testing.T) {
	s := sampleSections(t)

	t.Run("ExportToCSV", func(t *testing.T) {
		data, err := ExportToCSV(s)
		if err != nil {
			t.Fatalf("ExportToCSV failed: %v", err)
		}

		rows, err := csv.NewReader(strings.NewReader(string(data))).ReadAll()
		if err != nil {
			t.Fatalf("output is not valid CSV: %v", err)
		}
		if len(rows) != 3 {
			t.Fatalf("expected header and 2 rows, got %d", len(rows))
		}
		if strings.Join(rows[0], ",") != "Section,IMDb ID,Title,Year,IMDb Rating,Metascore,Genre,Runtime,Rated,Director" {
			t.Errorf("CSV missing headers, got: %v", rows[0])
		}
		if rows[1][0] != "all" || rows[1][1] != "tt0110413" || rows[1][3] != "1994" {
			t.Errorf("unexpected first row %v", rows[1])
		}
		if rows[2][0] != "rated" || rows[2][5] != "N/A" {
			t.Errorf("unexpected second row %v", rows[2])
		}
	})

	t.Run("ExportToMarkdown", func(t *testing.T) {
		data, err := ExportToMarkdown(s, "dave")
		if err != nil {
			t.Fatalf("ExportToMarkdown failed: %v", err)
		}
		output := string(data)

		for _, want := range []string{
			"# Recommendations for dave",
			"**Showing 2 recommendations**",
			"**Sorted by**: Default",
			"## Based on Your Watch History",
			"## Based on Your Highly Rated Movies",
			"1. [Léon: The Professional (1994)](https://www.imdb.com/title/tt0110413)",
			"110 min · R · IMDb 8.5 · Metascore 64",
			"   > A hitman takes in a girl.",
		} {
			if !strings.Contains(output, want) {
				t.Errorf("Markdown missing %q\n%s", want, output)
			}
		}
		if strings.Contains(output, "Metascore N/A") {
			t.Error("Markdown should omit a missing metascore")
		}
	})

	t.Run("ExportToText", func(t *testing.T) {
		data, err := ExportToText(s)
		if err != nil {
			t.Fatalf("ExportToText failed: %v", err)
		}
		output := string(data)

		if !strings.HasPrefix(output, "Showing 2 recommendations (sorted by Default)") {
			t.Errorf("Text missing header, got: %s", output)
		}
		if !strings.Contains(output, "1. Spirited Away (2001) [tt0245429]") {
			t.Errorf("Text missing rated entry, got: %s", output)
		}
	})

	t.Run("ExportToJSON", func(t *testing.T) {
		data, err := ExportToJSON(s, "dave")
		if err != nil {
			t.Fatalf("ExportToJSON failed: %v", err)
		}

		var out struct {
			Identifier string `json:"identifier"`
			SortBy     string `json:"sort_by"`
			Total      int    `json:"total"`
			Sections   []struct {
				Type  string                  `json:"type"`
				Items []models.Recommendation `json:"items"`
			} `json:"sections"`
		}
		if err := json.Unmarshal(data, &out); err != nil {
			t.Fatalf("invalid JSON: %v", err)
		}
		if out.Identifier != "dave" || out.SortBy != "default" || out.Total != 2 || len(out.Sections) != 2 {
			t.Errorf("unexpected export %+v", out)
		}
		if out.Sections[1].Items[0].Metascore.Valid {
			t.Error("expected missing metascore to encode as null")
		}
	})

	t.Run("ExportToJSON empty", func(t *testing.T) {
		data, err := ExportToJSON(tasks.BuildSections(nil, tasks.SortTitle, nil), "")
		if err != nil {
			t.Fatalf("ExportToJSON failed: %v", err)
		}
		if !strings.Contains(string(data), `"sections": []`) {
			t.Errorf("expected empty sections array, got %s", data)
		}
	})

	t.Run("Export dispatch", func(t *testing.T) {
		for _, f := range []Format{FormatText, FormatMarkdown, FormatCSV, FormatJSON} {
			if data, err := Export(s, "dave", f); err != nil || len(data) == 0 {
				t.Errorf("Export(%s) returned %d bytes, err=%v", f, len(data), err)
			}
		}
	})
}

func TestDetail(t *testing.T) {
	r := models.Recommendation{
		IMDbID:     "tt0110413",
		Title:      "Léon",
		Year:       models.NumberOf(1994),
		IMDbRating: models.NumberOf(8.5),
		Genre:      "Action, Crime",
		Writer:     "N/A",
		Plot:       "A hitman takes in a girl.",
		BoxOffice:  "$19,501,238",
	}

	t.Run("fields skip empty values", func(t *testing.T) {
		for _, f := range DetailFields(r) {
			if f.Label == "Writer" || f.Label == "Metascore" || f.Label == "Director" {
				t.Errorf("expected %s to be skipped", f.Label)
			}
		}
	})

	t.Run("box office only when present", func(t *testing.T) {
		has := func(fields []Field) bool {
			for _, f := range fields {
				if f.Label == "Box Office" {
					return true
				}
			}
			return false
		}
		if !has(DetailFields(r)) {
			t.Error("expected box office field")
		}
		r2 := r
		r2.BoxOffice = "N/A"
		if has(DetailFields(r2)) {
			t.Error("expected no box office field for N/A")
		}
	})

	t.Run("renders link", func(t *testing.T) {
		out := Detail(r)
		for _, want := range []string{"Léon (1994)", "A hitman takes in a girl.", "Genre:       Action, Crime", "https://www.imdb.com/title/tt0110413"} {
			if !strings.Contains(out, want) {
				t.Errorf("Detail missing %q\n%s", want, out)
			}
		}
	})

	t.Run("heading without year", func(t *testing.T) {
		if got := Heading(models.Recommendation{Title: "Untitled"}); got != "Untitled" {
			t.Errorf("expected bare title, got %q", got)
		}
	})
}

func TestDownloadImage(t *testing.T) {
	ctx := context.Background()

	t.Run("EmptyURL", func(t *testing.T) {
		if _, err := DownloadImage(ctx, nil, ""); !errors.Is(err, shared.ErrInvalidInput) {
			t.Errorf("expected ErrInvalidInput, got %v", err)
		}
		if _, err := DownloadImage(ctx, nil, "N/A"); !errors.Is(err, shared.ErrInvalidInput) {
			t.Errorf("expected ErrInvalidInput for N/A, got %v", err)
		}
	})

	t.Run("Success", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("jpegbytes"))
		}))
		defer server.Close()

		data, err := DownloadImage(ctx, server.Client(), server.URL+"/poster.jpg")
		if err != nil || string(data) != "jpegbytes" {
			t.Errorf("unexpected result %q %v", data, err)
		}
	})

	t.Run("BadStatus", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}))
		defer server.Close()

		if _, err := DownloadImage(ctx, nil, server.URL); err == nil || !strings.Contains(err.Error(), "status 404") {
			t.Errorf("expected status error, got %v", err)
		}
	})
}

func TestWriteFile(t *testing.T) {
	t.Run("creates parent directories", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "nested", "dir", "recs.md")
		if err := WriteFile(path, []byte("# hi")); err != nil {
			t.Fatalf("WriteFile failed: %v", err)
		}
		data, err := os.ReadFile(path)
		if err != nil || string(data) != "# hi" {
			t.Errorf("unexpected content %q %v", data, err)
		}
	})
}
