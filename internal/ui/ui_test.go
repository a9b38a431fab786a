package ui

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/desertthunder/wdiw/internal/models"
	"github.com/desertthunder/wdiw/internal/shared"
	"github.com/desertthunder/wdiw/internal/tasks"
	tu "github.com/desertthunder/wdiw/internal/testing"
)

func quietLogger() *log.Logger {
	l := log.New(io.Discard)
	l.SetLevel(log.FatalLevel)
	return l
}

func noWait(ctx context.Context, d time.Duration) error { return ctx.Err() }

func blockingWait(ctx context.Context, d time.Duration) error {
	<-ctx.Done()
	return ctx.Err()
}

func rec(id string, typ models.RecommendationType, rating float64) models.Recommendation {
	return models.Recommendation{
		IMDbID:     id,
		Title:      id,
		Year:       models.NumberOf(2000),
		IMDbRating: models.NumberOf(rating),
		Type:       typ,
	}
}

type fixture struct {
	svc      *tu.MockService
	identity *tu.MemoryIdentity
	opened   []string
	openErr  error
}

func (f *fixture) model(t *testing.T, wait tasks.WaitFunc) *Model {
	t.Helper()
	logger := quietLogger()
	m := NewModel(context.Background(), ModelOpts{
		Onboarding: tasks.NewOnboarding(f.svc, f.identity, tasks.OnboardingOpts{
			Interval: time.Millisecond,
			Wait:     wait,
			Logger:   logger,
		}),
		Recommendations: tasks.NewRecommendations(f.svc, f.identity, logger),
		Logger:          logger,
		OpenURL: func(url string) error {
			f.opened = append(f.opened, url)
			return f.openErr
		},
	})
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	return m
}

// pump runs cmd and feeds every resulting [Msg] back into the model until no command is left.
func pump(t *testing.T, m *Model, cmd tea.Cmd) {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for cmd != nil {
		results := make(chan tea.Msg, 1)
		go func(c tea.Cmd) { results <- c() }(cmd)

		var msg tea.Msg
		select {
		case msg = <-results:
		case <-deadline:
			t.Fatal("command did not complete")
		}

		cmd = nil
		for _, next := range collect(msg) {
			if _, c := m.Update(next); c != nil {
				cmd = c
			}
		}
	}
}

// collect flattens batches, keeping only application messages.
func collect(msg tea.Msg) []Msg {
	switch msg := msg.(type) {
	case Msg:
		return []Msg{msg}
	case tea.BatchMsg:
		var out []Msg
		for _, c := range msg {
			if c != nil {
				out = append(out, collect(c())...)
			}
		}
		return out
	}
	return nil
}

func press(m *Model, keys ...string) tea.Cmd {
	var cmd tea.Cmd
	for _, k := range keys {
		var msg tea.KeyMsg
		switch k {
		case "enter":
			msg = tea.KeyMsg{Type: tea.KeyEnter}
		case "esc":
			msg = tea.KeyMsg{Type: tea.KeyEsc}
		case "tab":
			msg = tea.KeyMsg{Type: tea.KeyTab}
		default:
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
		}
		_, cmd = m.Update(msg)
	}
	return cmd
}

func TestModel(t *testing.T) {
	batch := models.Batch{
		rec("tt0000101", models.TypeAll, 6.1),
		rec("tt0000102", models.TypeAll, 8.4),
		rec("tt0000103", models.TypeRated, 7.0),
	}

	t.Run("NewModel", func(t *testing.T) {
		f := &fixture{svc: &tu.MockService{}, identity: tu.NewMemoryIdentity("")}
		m := f.model(t, noWait)

		if m.ViewState() != LandingView {
			t.Errorf("expected landing view, got %v", m.ViewState())
		}
		if m.sortBy != tasks.SortDefault {
			t.Errorf("expected default sort, got %v", m.sortBy)
		}
	})

	t.Run("Resume", func(t *testing.T) {
		t.Run("no saved profile returns to landing silently", func(t *testing.T) {
			f := &fixture{svc: &tu.MockService{}, identity: tu.NewMemoryIdentity("")}
			m := f.model(t, noWait)

			m.Init()
			if m.ViewState() != PollingView {
				t.Fatalf("expected polling view while resuming, got %v", m.ViewState())
			}
			pump(t, m, m.resume())

			if m.ViewState() != LandingView {
				t.Errorf("expected landing view, got %v", m.ViewState())
			}
			if m.message != "" {
				t.Errorf("expected no message, got %q", m.message)
			}
			if f.svc.TotalCalls() != 0 {
				t.Errorf("expected no remote calls, got %d", f.svc.TotalCalls())
			}
		})

		t.Run("ready profile lands on recommendations", func(t *testing.T) {
			svc := &tu.MockService{Statuses: []models.Status{models.StatusReady}, Batches: []models.Batch{batch}}
			f := &fixture{svc: svc, identity: tu.NewMemoryIdentity("alice")}
			m := f.model(t, noWait)

			m.Init()
			pump(t, m, m.resume())

			if m.ViewState() != RecommendationsView {
				t.Fatalf("expected recommendations view, got %v", m.ViewState())
			}
			if m.identifier != "alice" {
				t.Errorf("expected identifier alice, got %q", m.identifier)
			}
			if m.sections.Total() != 3 {
				t.Errorf("expected 3 recommendations, got %d", m.sections.Total())
			}
		})

		t.Run("check failure shows saved profile message", func(t *testing.T) {
			svc := &tu.MockService{StatusErr: shared.ErrAPIRequest}
			f := &fixture{svc: svc, identity: tu.NewMemoryIdentity("alice")}
			m := f.model(t, noWait)

			m.Init()
			pump(t, m, m.resume())

			if m.ViewState() != LandingView {
				t.Fatalf("expected landing view, got %v", m.ViewState())
			}
			if m.message != tasks.MsgSavedProfile {
				t.Errorf("expected %q, got %q", tasks.MsgSavedProfile, m.message)
			}
		})
	})

	t.Run("Submit", func(t *testing.T) {
		t.Run("unknown profile stays on landing", func(t *testing.T) {
			f := &fixture{svc: &tu.MockService{Exists: false}, identity: tu.NewMemoryIdentity("")}
			m := f.model(t, noWait)
			m.input.SetValue("https://letterboxd.com/nobody/")

			pump(t, m, press(m, "enter"))

			if m.ViewState() != LandingView {
				t.Fatalf("expected landing view, got %v", m.ViewState())
			}
			if m.message != tasks.MsgProfileNotFound {
				t.Errorf("expected %q, got %q", tasks.MsgProfileNotFound, m.message)
			}
			if !strings.Contains(m.View(), tasks.MsgProfileNotFound) {
				t.Error("expected landing view to render the message")
			}
		})

		t.Run("polls until ready then loads", func(t *testing.T) {
			svc := &tu.MockService{
				Exists:   true,
				Statuses: []models.Status{models.StatusNewUser, models.StatusScraping, models.StatusReady},
				Batches:  []models.Batch{batch},
			}
			identity := tu.NewMemoryIdentity("")
			f := &fixture{svc: svc, identity: identity}
			m := f.model(t, noWait)
			m.input.SetValue("letterboxd.com/bob")

			pump(t, m, press(m, "enter"))

			if m.ViewState() != RecommendationsView {
				t.Fatalf("expected recommendations view, got %v", m.ViewState())
			}
			if id, _, _ := identity.Get(context.Background()); id != "bob" {
				t.Errorf("expected saved identifier bob, got %q", id)
			}
			if got := m.list.Items(); len(got) != 2 {
				t.Errorf("expected 2 items in the all section, got %d", len(got))
			}
			if m.session != nil {
				t.Error("expected session to be cleared")
			}
		})

		t.Run("escape cancels polling", func(t *testing.T) {
			svc := &tu.MockService{Exists: true, Statuses: []models.Status{models.StatusScraping}}
			f := &fixture{svc: svc, identity: tu.NewMemoryIdentity("")}
			m := f.model(t, blockingWait)
			m.input.SetValue("carol")

			msg := collect(m.submit("carol")())
			if len(msg) != 1 {
				t.Fatalf("expected a session message, got %d", len(msg))
			}
			_, cmd := m.Update(msg[0])
			if m.session == nil {
				t.Fatal("expected a running session")
			}

			press(m, "esc")
			pump(t, m, cmd)

			if m.ViewState() != LandingView {
				t.Fatalf("expected landing view, got %v", m.ViewState())
			}
			if m.message != "" {
				t.Errorf("expected no message after cancel, got %q", m.message)
			}
		})

		t.Run("failed polling shows generic message", func(t *testing.T) {
			svc := &tu.MockService{Exists: true, Statuses: []models.Status{"corrupted"}}
			f := &fixture{svc: svc, identity: tu.NewMemoryIdentity("")}
			m := f.model(t, noWait)
			m.input.SetValue("dave")

			pump(t, m, press(m, "enter"))

			if m.ViewState() != LandingView {
				t.Fatalf("expected landing view, got %v", m.ViewState())
			}
			if m.message != tasks.MsgGeneric {
				t.Errorf("expected %q, got %q", tasks.MsgGeneric, m.message)
			}
		})
	})

	t.Run("stale session messages are ignored", func(t *testing.T) {
		f := &fixture{svc: &tu.MockService{}, identity: tu.NewMemoryIdentity("")}
		m := f.model(t, noWait)
		m.view = PollingView
		m.label = "Checking profile"

		stale := &tasks.PollSession{}
		m.Update(progressUpdateMsg(stale, tasks.ProgressUpdate{Message: "Ready"}))
		m.Update(pollFinishedMsg(stale, tasks.PollResult{State: tasks.PollReady}))

		if m.ViewState() != PollingView {
			t.Errorf("expected polling view, got %v", m.ViewState())
		}
		if m.label != "Checking profile" {
			t.Errorf("expected label unchanged, got %q", m.label)
		}
	})

	t.Run("Recommendations", func(t *testing.T) {
		loaded := func(t *testing.T, svc *tu.MockService) (*Model, *fixture) {
			t.Helper()
			svc.Statuses = []models.Status{models.StatusReady}
			f := &fixture{svc: svc, identity: tu.NewMemoryIdentity("alice")}
			m := f.model(t, noWait)
			m.Init()
			pump(t, m, m.resume())
			if m.ViewState() != RecommendationsView {
				t.Fatalf("expected recommendations view, got %v", m.ViewState())
			}
			return m, f
		}

		t.Run("renders header and sections", func(t *testing.T) {
			m, _ := loaded(t, &tu.MockService{Batches: []models.Batch{batch}})
			view := m.View()

			for _, want := range []string{"Showing 3 recommendations", "Based on your Letterboxd profile", "Sort by Default"} {
				if !strings.Contains(view, want) {
					t.Errorf("expected view to contain %q", want)
				}
			}
		})

		t.Run("tab switches section", func(t *testing.T) {
			m, _ := loaded(t, &tu.MockService{Batches: []models.Batch{batch}})

			press(m, "tab")
			if m.section != models.TypeRated {
				t.Fatalf("expected rated section, got %v", m.section)
			}
			if got := m.list.Items(); len(got) != 1 {
				t.Errorf("expected 1 rated item, got %d", len(got))
			}

			press(m, "tab")
			if m.section != models.TypeAll {
				t.Errorf("expected all section, got %v", m.section)
			}
		})

		t.Run("tab does nothing without rated records", func(t *testing.T) {
			m, _ := loaded(t, &tu.MockService{Batches: []models.Batch{{rec("tt0000101", models.TypeAll, 5)}}})

			press(m, "tab")
			if m.section != models.TypeAll {
				t.Errorf("expected all section, got %v", m.section)
			}
		})

		t.Run("s cycles sort order", func(t *testing.T) {
			m, _ := loaded(t, &tu.MockService{Batches: []models.Batch{batch}})

			press(m, "s")
			if m.sortBy != tasks.SortRating {
				t.Fatalf("expected rating sort, got %v", m.sortBy)
			}
			first, ok := m.selectedRecommendation()
			if !ok || first.IMDbID != "tt0000102" {
				t.Errorf("expected highest rated first, got %+v", first)
			}
			if !strings.Contains(m.View(), "Sort by IMDb Rating") {
				t.Error("expected sort label in view")
			}
		})

		t.Run("g regenerates", func(t *testing.T) {
			fresh := models.Batch{rec("tt0000201", models.TypeAll, 7)}
			svc := &tu.MockService{Batches: []models.Batch{batch, fresh}}
			m, _ := loaded(t, svc)

			cmd := press(m, "g")
			if !m.regenerating {
				t.Fatal("expected regenerating flag")
			}
			if !strings.Contains(m.View(), "Regenerating...") {
				t.Error("expected regenerating indicator")
			}
			pump(t, m, cmd)

			if m.regenerating {
				t.Error("expected regenerating flag cleared")
			}
			if m.sections.Total() != 1 {
				t.Errorf("expected the new set, got %d records", m.sections.Total())
			}
			if _, _, _, regen := svc.Calls(); regen != 1 {
				t.Errorf("expected 1 regenerate call, got %d", regen)
			}
		})

		t.Run("failed regenerate keeps the current set", func(t *testing.T) {
			svc := &tu.MockService{Batches: []models.Batch{batch}, RegenErr: errors.New("boom")}
			m, _ := loaded(t, svc)

			pump(t, m, press(m, "g"))

			if m.sections.Total() != 3 {
				t.Errorf("expected 3 records kept, got %d", m.sections.Total())
			}
			if m.notice == "" {
				t.Error("expected a notice")
			}
		})

		t.Run("enter opens detail and esc returns", func(t *testing.T) {
			m, _ := loaded(t, &tu.MockService{Batches: []models.Batch{batch}})

			press(m, "enter")
			if m.ViewState() != DetailView {
				t.Fatalf("expected detail view, got %v", m.ViewState())
			}
			if m.selected == nil || m.selected.IMDbID != "tt0000101" {
				t.Errorf("expected first record selected, got %+v", m.selected)
			}
			if !strings.Contains(m.View(), "tt0000101") {
				t.Error("expected detail to render the record")
			}

			press(m, "esc")
			if m.ViewState() != RecommendationsView {
				t.Errorf("expected recommendations view, got %v", m.ViewState())
			}
		})

		t.Run("o opens IMDb", func(t *testing.T) {
			m, f := loaded(t, &tu.MockService{Batches: []models.Batch{batch}})

			pump(t, m, press(m, "o"))

			if len(f.opened) != 1 || f.opened[0] != shared.IMDbURL("tt0000101") {
				t.Errorf("expected IMDb URL opened, got %v", f.opened)
			}
		})

		t.Run("browser failure sets notice", func(t *testing.T) {
			m, f := loaded(t, &tu.MockService{Batches: []models.Batch{batch}})
			f.openErr = errors.New("no browser")

			pump(t, m, press(m, "o"))

			if !strings.Contains(m.notice, "no browser") {
				t.Errorf("expected notice to mention the error, got %q", m.notice)
			}
		})

		t.Run("not ready redirects to landing", func(t *testing.T) {
			f := &fixture{svc: &tu.MockService{Statuses: []models.Status{models.StatusScraping}}, identity: tu.NewMemoryIdentity("alice")}
			m := f.model(t, noWait)
			m.view = RecommendationsView
			m.loading = true

			pump(t, m, m.loadRecommendations())

			if m.ViewState() != LandingView {
				t.Errorf("expected landing view, got %v", m.ViewState())
			}
			if m.message != "" {
				t.Errorf("expected silent redirect, got %q", m.message)
			}
		})
	})

	t.Run("View", func(t *testing.T) {
		f := &fixture{svc: &tu.MockService{}, identity: tu.NewMemoryIdentity("")}
		m := f.model(t, noWait)
		view := m.View()

		for _, want := range []string{appTitle, appSubtitle, appFooter} {
			if !strings.Contains(view, want) {
				t.Errorf("expected landing to contain %q", want)
			}
		}
	})
}

func TestViewState(t *testing.T) {
	tc := []struct {
		v    ViewState
		want string
	}{
		{LandingView, "landing"},
		{PollingView, "polling"},
		{RecommendationsView, "recommendations"},
		{DetailView, "detail"},
		{ViewState(42), ""},
	}
	for _, c := range tc {
		if got := c.v.String(); got != c.want {
			t.Errorf("ViewState(%d).String() = %q, want %q", c.v, got, c.want)
		}
	}
}
