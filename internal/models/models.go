// package models defines the data model for the recommendation client
package models

import (
	"bytes"
	"context"
	"encoding/json"
	"strconv"
	"strings"
)

// IdentityKey is the fixed key of the persisted identity slot.
const IdentityKey = "letterboxd_username"

// IdentityStore is the single key-value slot holding the submitted profile identifier.
// Implementations include repositories.IdentityRepository.
type IdentityStore interface {
	Get(ctx context.Context) (id string, ok bool, err error) // Get returns the saved identifier, ok is false when none is saved
	Set(ctx context.Context, id string) error                // Set replaces the saved identifier
	Clear(ctx context.Context) error                         // Clear removes the saved identifier
}

// Status is the remote onboarding stage of a profile.
type Status string

const (
	StatusNewUser   Status = "new_user"
	StatusScraping  Status = "scraping"
	StatusMovieData Status = "movie_data"
	StatusReady     Status = "ready"
)

// Known reports whether s is one of the four stages the service documents.
func (s Status) Known() bool {
	switch s {
	case StatusNewUser, StatusScraping, StatusMovieData, StatusReady:
		return true
	}
	return false
}

// Processing reports whether the service is still working on the profile.
func (s Status) Processing() bool {
	return s == StatusNewUser || s == StatusScraping || s == StatusMovieData
}

// Label is the human-readable progress text for a processing stage.
func (s Status) Label() string {
	switch s {
	case StatusNewUser:
		return "Gathering data"
	case StatusScraping:
		return "Scraping your Letterboxd profile"
	case StatusMovieData:
		return "Generating your recommendations"
	case StatusReady:
		return "Ready"
	default:
		return ""
	}
}

// RecommendationType tags the strategy that produced a [Recommendation].
type RecommendationType string

const (
	TypeAll   RecommendationType = "all"   // based on the full watch history
	TypeRated RecommendationType = "rated" // based on highly rated titles
)

// Recommendation represents one recommended title as returned by the service.
type Recommendation struct {
	IMDbID     string             `json:"imdb_id"`
	Title      string             `json:"title"`
	Year       Number             `json:"year"`
	Poster     string             `json:"poster"`
	IMDbRating Number             `json:"imdb_rating"`
	Metascore  Number             `json:"metascore"`
	Genre      string             `json:"genre"`
	Plot       string             `json:"plot"`
	Runtime    string             `json:"runtime"`
	Rated      string             `json:"rated"`
	Director   string             `json:"director"`
	Writer     string             `json:"writer"`
	Actors     string             `json:"actors"`
	Awards     string             `json:"awards"`
	Released   string             `json:"released"`
	Country    string             `json:"country"`
	Language   string             `json:"language"`
	BoxOffice  string             `json:"box_office,omitempty"`
	Type       RecommendationType `json:"recommendation_type"`
}

// Genres splits the ", "-delimited genre string.
func (r Recommendation) Genres() []string {
	if strings.TrimSpace(r.Genre) == "" {
		return nil
	}
	parts := strings.Split(r.Genre, ",")
	genres := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			genres = append(genres, p)
		}
	}
	return genres
}

// HasBoxOffice reports whether a box office figure was supplied.
func (r Recommendation) HasBoxOffice() bool {
	b := strings.TrimSpace(r.BoxOffice)
	return b != "" && !strings.EqualFold(b, "N/A")
}

// Batch is the ordered result of a single recommendations fetch.
type Batch []Recommendation

// Find returns the record with the given IMDb id.
func (b Batch) Find(id string) (Recommendation, bool) {
	for _, r := range b {
		if r.IMDbID == id {
			return r, true
		}
	}
	return Recommendation{}, false
}

// Number is a numeric attribute that may arrive as a JSON number, a numeric string ("7.1", "1,234"), "N/A", or null.
//
// Raw keeps the original text for display; Valid is false when no number could be read.
type Number struct {
	Value float64
	Raw   string
	Valid bool
}

// NumberOf builds a valid [Number] from v.
func NumberOf(v float64) Number {
	return Number{Value: v, Raw: strconv.FormatFloat(v, 'f', -1, 64), Valid: true}
}

// UnmarshalJSON implements [json.Unmarshaler].
func (n *Number) UnmarshalJSON(data []byte) error {
	*n = Number{}

	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}

	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*n = ParseNumber(s)
		return nil
	}

	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}
	n.Value, n.Raw, n.Valid = f, string(data), true
	return nil
}

// MarshalJSON implements [json.Marshaler]; invalid numbers encode as null.
func (n Number) MarshalJSON() ([]byte, error) {
	if !n.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(n.Value)
}

// String returns the original text, or "N/A" when unset.
func (n Number) String() string {
	if n.Raw != "" {
		return n.Raw
	}
	if n.Valid {
		return strconv.FormatFloat(n.Value, 'f', -1, 64)
	}
	return "N/A"
}

// ParseNumber reads s as a number, ignoring surrounding space and thousands separators.
func ParseNumber(s string) Number {
	raw := strings.TrimSpace(s)
	n := Number{Raw: raw}
	if raw == "" || strings.EqualFold(raw, "N/A") {
		return n
	}

	if f, err := strconv.ParseFloat(strings.ReplaceAll(raw, ",", ""), 64); err == nil {
		n.Value, n.Valid = f, true
	}
	return n
}
