package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"

	"github.com/desertthunder/wdiw/internal/formatter"
	"github.com/desertthunder/wdiw/internal/models"
	"github.com/desertthunder/wdiw/internal/shared"
)

const (
	appTitle    = "What Do I Watch?"
	appSubtitle = "AI-powered movie recommendations based on your Letterboxd profile"
	appFooter   = "Powered by AI • Not affiliated with Letterboxd"
)

func (m *Model) renderLanding() string {
	var b strings.Builder

	b.WriteString(styles.title.Render(appTitle) + "\n")
	b.WriteString(styles.help.Render(appSubtitle) + "\n\n")
	b.WriteString(m.input.View() + "\n\n")

	if m.message != "" {
		b.WriteString(styles.err.Render(m.message) + "\n\n")
	}

	b.WriteString(m.help.ShortHelpView([]key.Binding{m.keys.submit, m.keys.forceQuit}) + "\n\n")
	b.WriteString(styles.help.Render(appFooter))
	return b.String()
}

func (m *Model) renderPolling() string {
	var b strings.Builder

	b.WriteString(styles.title.Render(appTitle) + "\n")
	if m.identifier != "" {
		b.WriteString(styles.help.Render(m.identifier) + "\n\n")
	}
	fmt.Fprintf(&b, "%s %s\n\n", m.spinner.View(), m.label)
	b.WriteString(m.help.ShortHelpView([]key.Binding{m.keys.cancel, m.keys.forceQuit}))
	return b.String()
}

func (m *Model) renderRecommendations() string {
	if m.loading {
		return fmt.Sprintf("%s %s", m.spinner.View(), "Loading recommendations...")
	}

	var b strings.Builder
	b.WriteString(styles.title.Render(appTitle) + "\n")
	b.WriteString(styles.help.Render("Based on your Letterboxd profile") + "\n")
	fmt.Fprintf(&b, "%s  %s\n\n", styles.ok.Render(m.sections.Header()), styles.help.Render("Sort by "+m.sortBy.Label()))

	if m.sections.Total() == 0 {
		b.WriteString(styles.warn.Render("No recommendations yet") + "\n\n")
	} else {
		b.WriteString(m.renderTabs() + "\n")
		b.WriteString(styles.help.Render(m.currentSection().Description) + "\n\n")
		b.WriteString(m.list.View() + "\n")
	}

	switch {
	case m.regenerating:
		fmt.Fprintf(&b, "%s Regenerating...\n", m.spinner.View())
	case m.notice != "":
		b.WriteString(styles.err.Render(m.notice) + "\n")
	}

	b.WriteString("\n" + m.help.ShortHelpView([]key.Binding{
		m.keys.up, m.keys.down, m.keys.enter, m.keys.section,
		m.keys.sort, m.keys.regenerate, m.keys.open, m.keys.quit,
	}))
	return b.String()
}

// renderTabs draws one tab per non-empty section, highlighting the current one.
func (m *Model) renderTabs() string {
	visible := m.sections.Visible()
	tabs := make([]string, 0, len(visible))
	for _, sec := range visible {
		label := fmt.Sprintf("%s (%d)", sec.Title, len(sec.Items))
		if sec.Type == m.section {
			tabs = append(tabs, styles.section.Render(label))
		} else {
			tabs = append(tabs, styles.help.Render(label))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, strings.Join(tabs, "   "))
}

func (m *Model) renderDetail() string {
	if m.selected == nil {
		return ""
	}

	var b strings.Builder
	b.WriteString(styles.modal.Render(m.detail.View()) + "\n")
	if m.notice != "" {
		b.WriteString(styles.err.Render(m.notice) + "\n")
	}
	b.WriteString(m.help.ShortHelpView([]key.Binding{m.keys.up, m.keys.down, m.keys.open, m.keys.back, m.keys.quit}))
	return b.String()
}

// renderDetailBody lays out every available attribute of r for the detail viewport.
func renderDetailBody(r models.Recommendation, width int) string {
	var b strings.Builder

	b.WriteString(styles.title.Render(formatter.Heading(r)) + "\n")
	if meta := formatter.Meta(r); meta != "" {
		b.WriteString(styles.ok.Render(meta) + "\n")
	}
	if plot := strings.TrimSpace(r.Plot); plot != "" && plot != "N/A" {
		wrap := lipgloss.NewStyle()
		if width > 0 {
			wrap = wrap.Width(width)
		}
		b.WriteString("\n" + wrap.Render(plot) + "\n")
	}

	b.WriteString("\n")
	for _, f := range formatter.DetailFields(r) {
		b.WriteString(styles.label.Render(f.Label+":") + " " + f.Value + "\n")
	}
	b.WriteString(styles.label.Render("IMDb:") + " " + shared.IMDbURL(r.IMDbID))
	return b.String()
}
