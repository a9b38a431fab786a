package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/list"

	"github.com/desertthunder/wdiw/internal/formatter"
	"github.com/desertthunder/wdiw/internal/models"
	"github.com/desertthunder/wdiw/internal/tasks"
)

var (
	_ list.Item = recItem{}
)

// recItem wraps [models.Recommendation] to implement [list.Item] as a card.
type recItem struct {
	rec models.Recommendation
}

func (i recItem) FilterValue() string { return i.rec.Title }
func (i recItem) Title() string       { return formatter.Heading(i.rec) }
func (i recItem) Description() string {
	var parts []string
	if i.rec.Director != "" && i.rec.Director != "N/A" {
		parts = append(parts, i.rec.Director)
	}
	if g := i.rec.Genres(); len(g) > 0 {
		parts = append(parts, strings.Join(g, ", "))
	}
	if meta := formatter.Meta(i.rec); meta != "" {
		parts = append(parts, meta)
	}
	return strings.Join(parts, " • ")
}

func sectionItems(sec tasks.Section) []list.Item {
	items := make([]list.Item, len(sec.Items))
	for i, r := range sec.Items {
		items[i] = recItem{rec: r}
	}
	return items
}

func newRecList() list.Model {
	l := list.New(nil, list.NewDefaultDelegate(), 0, 0)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)
	l.DisableQuitKeybindings()
	return l
}
