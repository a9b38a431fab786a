package ui

import (
	"context"
	"errors"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/desertthunder/wdiw/internal/models"
	"github.com/desertthunder/wdiw/internal/shared"
	"github.com/desertthunder/wdiw/internal/tasks"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	LandingView ViewState = iota
	PollingView
	RecommendationsView
	DetailView
)

func (v ViewState) String() string {
	switch v {
	case LandingView:
		return "landing"
	case PollingView:
		return "polling"
	case RecommendationsView:
		return "recommendations"
	case DetailView:
		return "detail"
	default:
		return ""
	}
}

// ModelOpts holds the dependencies of a [Model].
type ModelOpts struct {
	Onboarding      *tasks.Onboarding
	Recommendations *tasks.Recommendations
	SortBy          tasks.SortBy
	Logger          *log.Logger
	OpenURL         func(string) error // defaults to [shared.OpenBrowser]
}

// Model represents the TUI application state.
type Model struct {
	ctx        context.Context
	view       ViewState
	onboarding *tasks.Onboarding
	recs       *tasks.Recommendations
	logger     *log.Logger
	openURL    func(string) error
	width      int
	height     int

	input   textinput.Model
	spinner spinner.Model
	list    list.Model
	detail  viewport.Model

	session      *tasks.PollSession
	progressChan chan tasks.ProgressUpdate
	label        string // progress label while polling or loading
	message      string // error shown on the landing view

	loading      bool
	regenerating bool
	notice       string
	identifier   string
	batch        models.Batch
	sortBy       tasks.SortBy
	sections     tasks.Sections
	section      models.RecommendationType
	selected     *models.Recommendation

	help help.Model
	keys keyMap
}

// NewModel creates a new TUI model with the provided dependencies.
func NewModel(ctx context.Context, opts ModelOpts) *Model {
	input := textinput.New()
	input.Placeholder = "Enter your Letterboxd profile URL or username"
	input.CharLimit = 256
	input.Width = 50
	input.Focus()

	logger := opts.Logger
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	openURL := opts.OpenURL
	if openURL == nil {
		openURL = shared.OpenBrowser
	}
	sortBy := opts.SortBy
	if sortBy == "" {
		sortBy = tasks.SortDefault
	}

	return &Model{
		ctx:        ctx,
		view:       LandingView,
		onboarding: opts.Onboarding,
		recs:       opts.Recommendations,
		logger:     logger,
		openURL:    openURL,
		input:      input,
		spinner:    spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(styles.ok)),
		list:       newRecList(),
		detail:     viewport.New(0, 0),
		sortBy:     sortBy,
		section:    models.TypeAll,
		help:       help.New(),
		keys:       newKeyMap(),
	}
}

// ViewState returns the view currently rendered.
func (m *Model) ViewState() ViewState {
	return m.view
}

// Init resumes the saved profile, if any.
func (m *Model) Init() tea.Cmd {
	m.view = PollingView
	m.label = "Checking saved profile"
	return tea.Batch(textinput.Blink, m.spinner.Tick, m.resume())
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.list.SetSize(msg.Width-4, max(msg.Height-10, 4))
		m.detail.Width = max(msg.Width-8, 20)
		m.detail.Height = max(msg.Height-8, 5)
		return m, nil

	case tea.KeyMsg:
		switch m.view {
		case LandingView:
			return m.handleLandingKeys(msg)
		case PollingView:
			return m.handlePollingKeys(msg)
		case RecommendationsView:
			return m.handleRecommendationsKeys(msg)
		case DetailView:
			return m.handleDetailKeys(msg)
		}

	case spinner.TickMsg:
		if !m.busy() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case Msg:
		return m.handleMsg(msg)
	}

	if m.view == LandingView {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *Model) busy() bool {
	return m.view == PollingView || m.loading || m.regenerating
}

func (m *Model) handleMsg(msg Msg) (tea.Model, tea.Cmd) {
	switch msg.kind {
	case MsgSessionStarted:
		data := msg.data.(sessionStarted)
		if data.err != nil {
			m.toLanding(data.err)
			return m, nil
		}
		m.session = data.session
		m.identifier = data.session.Identifier
		m.logger.Debug("session started", "identifier", m.identifier, "resumed", data.resumed)
		return m, m.waitForProgress()

	case MsgProgressUpdate:
		data := msg.data.(progressUpdate)
		if data.session != m.session {
			return m, nil
		}
		if data.update.Message != "" && data.update.Phase != tasks.Failed {
			m.label = data.update.Message
		}
		return m, m.waitForProgress()

	case MsgPollFinished:
		data := msg.data.(pollFinished)
		if data.session != m.session {
			return m, nil
		}
		m.session = nil

		switch data.result.State {
		case tasks.PollReady:
			m.view = RecommendationsView
			m.loading = true
			m.label = "Loading recommendations..."
			return m, tea.Batch(m.spinner.Tick, m.loadRecommendations())
		default:
			m.toLanding(data.result.Err)
			return m, nil
		}

	case MsgRecommendationsLoaded:
		data := msg.data.(recommendationsLoaded)
		m.loading = false
		if data.nav.Redirect() {
			if data.err != nil {
				m.logger.Debug("leaving recommendations", "reason", data.err)
			}
			m.toLanding(nil)
			return m, nil
		}
		m.identifier = data.page.Identifier
		m.batch = data.page.Batch
		m.section = models.TypeAll
		m.rebuild()
		return m, nil

	case MsgRegenerated:
		data := msg.data.(regenerated)
		m.regenerating = false
		if data.err != nil {
			m.notice = "Couldn't regenerate recommendations"
			return m, nil
		}
		m.notice = ""
		m.batch = data.batch
		m.rebuild()
		return m, nil

	case MsgBrowserOpened:
		if err, _ := msg.data.(error); err != nil {
			m.notice = "Couldn't open the browser: " + err.Error()
		}
		return m, nil
	}
	return m, nil
}

// toLanding switches to the landing view, showing the message for err if any.
func (m *Model) toLanding(err error) {
	m.view = LandingView
	m.session = nil
	m.loading = false
	m.label = ""
	m.message = ""
	if err != nil && !errors.Is(err, shared.ErrNoIdentity) {
		m.message = tasks.UserMessage(err)
	}
	m.input.Focus()
}

func (m *Model) handleLandingKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "esc":
		return m, tea.Quit
	case "enter":
		return m, tea.Batch(m.spinner.Tick, m.submit(m.input.Value()))
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) handlePollingKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.forceQuit):
		if m.session != nil {
			m.session.Cancel()
		}
		return m, tea.Quit
	case key.Matches(msg, m.keys.cancel):
		if m.session != nil {
			m.session.Cancel()
		}
	}
	return m, nil
}

func (m *Model) handleRecommendationsKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.loading {
		if key.Matches(msg, m.keys.quit) {
			return m, tea.Quit
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.section):
		m.switchSection()
		return m, nil
	case key.Matches(msg, m.keys.sort):
		m.sortBy = m.sortBy.Next()
		m.rebuild()
		m.list.Select(0)
		return m, nil
	case key.Matches(msg, m.keys.regenerate):
		if m.regenerating {
			return m, nil
		}
		m.regenerating = true
		m.notice = ""
		return m, tea.Batch(m.spinner.Tick, m.regenerate())
	case key.Matches(msg, m.keys.enter):
		if r, ok := m.selectedRecommendation(); ok {
			m.openDetail(r)
		}
		return m, nil
	case key.Matches(msg, m.keys.open):
		if r, ok := m.selectedRecommendation(); ok {
			return m, m.openIMDb(r)
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m *Model) handleDetailKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.back):
		m.view = RecommendationsView
		m.selected = nil
		return m, nil
	case key.Matches(msg, m.keys.open):
		if m.selected != nil {
			return m, m.openIMDb(*m.selected)
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.detail, cmd = m.detail.Update(msg)
	return m, cmd
}

func (m *Model) currentSection() tasks.Section {
	if m.section == models.TypeRated {
		return m.sections.Rated
	}
	return m.sections.All
}

func (m *Model) switchSection() {
	next := models.TypeRated
	other := m.sections.Rated
	if m.section == models.TypeRated {
		next, other = models.TypeAll, m.sections.All
	}
	if len(other.Items) == 0 {
		return
	}
	m.section = next
	m.refreshList()
	m.list.Select(0)
}

// rebuild re-partitions and re-sorts the batch, keeping the current section when it still has records.
func (m *Model) rebuild() {
	m.sections = tasks.BuildSections(m.batch, m.sortBy, m.logger)
	if len(m.currentSection().Items) == 0 {
		if v := m.sections.Visible(); len(v) > 0 {
			m.section = v[0].Type
		}
	}
	m.refreshList()
}

func (m *Model) refreshList() {
	sec := m.currentSection()
	m.list.Title = sec.Title
	m.list.SetItems(sectionItems(sec))
}

func (m *Model) selectedRecommendation() (models.Recommendation, bool) {
	item, ok := m.list.SelectedItem().(recItem)
	if !ok {
		return models.Recommendation{}, false
	}
	return item.rec, true
}

func (m *Model) openDetail(r models.Recommendation) {
	m.selected = &r
	m.detail.SetContent(renderDetailBody(r, m.detail.Width))
	m.detail.GotoTop()
	m.view = DetailView
}

func (m *Model) newProgress() chan tasks.ProgressUpdate {
	m.progressChan = make(chan tasks.ProgressUpdate, 32)
	return m.progressChan
}

func (m *Model) resume() tea.Cmd {
	ch := m.newProgress()
	return func() tea.Msg {
		s, err := m.onboarding.Resume(m.ctx, ch)
		return sessionStartedMsg(s, true, err)
	}
}

func (m *Model) submit(input string) tea.Cmd {
	m.view = PollingView
	m.label = "Checking profile"
	m.message = ""
	m.input.Blur()

	ch := m.newProgress()
	return func() tea.Msg {
		s, err := m.onboarding.Submit(m.ctx, input, ch)
		return sessionStartedMsg(s, false, err)
	}
}

// waitForProgress delivers the next progress update of the current session, or its
// outcome once it has finished.
func (m *Model) waitForProgress() tea.Cmd {
	s, ch := m.session, m.progressChan
	if s == nil {
		return nil
	}
	return func() tea.Msg {
		select {
		case u := <-ch:
			return progressUpdateMsg(s, u)
		case <-s.Done():
			return pollFinishedMsg(s, s.Wait())
		}
	}
}

func (m *Model) loadRecommendations() tea.Cmd {
	return func() tea.Msg {
		page, nav, err := m.recs.Enter(m.ctx, nil)
		return recommendationsLoadedMsg(page, nav, err)
	}
}

func (m *Model) regenerate() tea.Cmd {
	id := m.identifier
	return func() tea.Msg {
		batch, err := m.recs.Regenerate(m.ctx, id, nil)
		return regeneratedMsg(batch, err)
	}
}

func (m *Model) openIMDb(r models.Recommendation) tea.Cmd {
	url := shared.IMDbURL(r.IMDbID)
	return func() tea.Msg {
		return browserOpenedMsg(m.openURL(url))
	}
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	switch m.view {
	case LandingView:
		return m.renderLanding()
	case PollingView:
		return m.renderPolling()
	case RecommendationsView:
		return m.renderRecommendations()
	case DetailView:
		return m.renderDetail()
	default:
		return ""
	}
}
