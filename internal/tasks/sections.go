package tasks

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/log"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/desertthunder/wdiw/internal/models"
	"github.com/desertthunder/wdiw/internal/shared"
)

// SortBy selects the ordering applied within each section.
type SortBy string

const (
	SortDefault SortBy = "default" // fetch order
	SortRating  SortBy = "rating"  // IMDb rating, highest first
	SortYear    SortBy = "year"    // release year, newest first
	SortTitle   SortBy = "title"   // title, collated A to Z
)

// SortOptions lists every ordering in display order.
var SortOptions = []SortBy{SortDefault, SortRating, SortYear, SortTitle}

// ParseSortBy parses a sort name, case-insensitively. Empty input is [SortDefault].
func ParseSortBy(s string) (SortBy, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return SortDefault, nil
	}
	for _, opt := range SortOptions {
		if string(opt) == s {
			return opt, nil
		}
	}
	return "", fmt.Errorf("%w: sort must be one of default, rating, year, title (got %q)", shared.ErrInvalidFlag, s)
}

// Label is the name shown in the sort selector.
func (s SortBy) Label() string {
	switch s {
	case SortRating:
		return "IMDb Rating"
	case SortYear:
		return "Year"
	case SortTitle:
		return "Title"
	default:
		return "Default"
	}
}

// Next cycles to the following ordering.
func (s SortBy) Next() SortBy {
	i := slices.Index(SortOptions, s)
	return SortOptions[(i+1)%len(SortOptions)]
}

// Section is one titled group of recommendations.
type Section struct {
	Type        models.RecommendationType
	Title       string
	Description string
	Items       []models.Recommendation
}

const (
	AllTitle         = "Based on Your Watch History"
	AllDescription   = "These recommendations are generated based on all movies you've watched on Letterboxd"
	RatedTitle       = "Based on Your Highly Rated Movies"
	RatedDescription = "These recommendations are tailored to match the movies you've rated highest"
)

// Sections is a partitioned and sorted batch.
type Sections struct {
	SortBy  SortBy
	All     Section
	Rated   Section
	Dropped int // records with an unrecognized recommendation_type
}

// Total counts the records shown across both sections.
func (s Sections) Total() int {
	return len(s.All.Items) + len(s.Rated.Items)
}

// Header is the summary line shown above the sections.
func (s Sections) Header() string {
	return fmt.Sprintf("Showing %d recommendations", s.Total())
}

// Visible returns the non-empty sections in display order.
func (s Sections) Visible() []Section {
	out := make([]Section, 0, 2)
	for _, sec := range []Section{s.All, s.Rated} {
		if len(sec.Items) > 0 {
			out = append(out, sec)
		}
	}
	return out
}

// Partition splits batch by recommendation type, keeping fetch order.
// Records of any other type are returned as dropped.
func Partition(batch models.Batch) (all, rated, dropped []models.Recommendation) {
	for _, r := range batch {
		switch r.Type {
		case models.TypeAll:
			all = append(all, r)
		case models.TypeRated:
			rated = append(rated, r)
		default:
			dropped = append(dropped, r)
		}
	}
	return all, rated, dropped
}

// Sort returns a stably sorted copy of items.
func Sort(items []models.Recommendation, by SortBy) []models.Recommendation {
	out := slices.Clone(items)
	switch by {
	case SortRating:
		slices.SortStableFunc(out, func(a, b models.Recommendation) int {
			return compareDesc(a.IMDbRating, b.IMDbRating)
		})
	case SortYear:
		slices.SortStableFunc(out, func(a, b models.Recommendation) int {
			return compareDesc(a.Year, b.Year)
		})
	case SortTitle:
		c := collate.New(language.English, collate.Loose)
		slices.SortStableFunc(out, func(a, b models.Recommendation) int {
			return c.CompareString(a.Title, b.Title)
		})
	}
	return out
}

// compareDesc orders larger values first and missing values last.
func compareDesc(a, b models.Number) int {
	switch {
	case !a.Valid && !b.Valid:
		return 0
	case !a.Valid:
		return 1
	case !b.Valid:
		return -1
	default:
		return cmp.Compare(b.Value, a.Value)
	}
}

// BuildSections partitions batch and sorts each partition independently.
func BuildSections(batch models.Batch, by SortBy, logger *log.Logger) Sections {
	all, rated, dropped := Partition(batch)
	if logger != nil {
		for _, r := range dropped {
			logger.Debug("dropping recommendation with unknown type", "imdb_id", r.IMDbID, "type", r.Type)
		}
	}

	return Sections{
		SortBy:  by,
		All:     Section{Type: models.TypeAll, Title: AllTitle, Description: AllDescription, Items: Sort(all, by)},
		Rated:   Section{Type: models.TypeRated, Title: RatedTitle, Description: RatedDescription, Items: Sort(rated, by)},
		Dropped: len(dropped),
	}
}
