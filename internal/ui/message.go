package ui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/desertthunder/wdiw/internal/models"
	"github.com/desertthunder/wdiw/internal/tasks"
)

// MsgKind enumerates all message types in the application.
type MsgKind int

// Msg represents all possible messages in the TUI (Elm-style message union).
type Msg struct {
	kind MsgKind
	data any
}

var (
	_ tea.Msg = Msg{}
)

const (
	MsgSessionStarted MsgKind = iota
	MsgProgressUpdate
	MsgPollFinished
	MsgRecommendationsLoaded
	MsgRegenerated
	MsgBrowserOpened
)

type sessionStarted struct {
	session *tasks.PollSession
	resumed bool
	err     error
}

// sessionStartedMsg is the constructor for [MsgSessionStarted]
func sessionStartedMsg(session *tasks.PollSession, resumed bool, err error) Msg {
	return Msg{kind: MsgSessionStarted, data: sessionStarted{session, resumed, err}}
}

type progressUpdate struct {
	session *tasks.PollSession
	update  tasks.ProgressUpdate
}

// progressUpdateMsg is the constructor for [MsgProgressUpdate]
func progressUpdateMsg(session *tasks.PollSession, update tasks.ProgressUpdate) Msg {
	return Msg{kind: MsgProgressUpdate, data: progressUpdate{session, update}}
}

type pollFinished struct {
	session *tasks.PollSession
	result  tasks.PollResult
}

// pollFinishedMsg is the constructor for [MsgPollFinished]
func pollFinishedMsg(session *tasks.PollSession, result tasks.PollResult) Msg {
	return Msg{kind: MsgPollFinished, data: pollFinished{session, result}}
}

type recommendationsLoaded struct {
	page *tasks.Page
	nav  tasks.Navigation
	err  error
}

// recommendationsLoadedMsg is the constructor for [MsgRecommendationsLoaded]
func recommendationsLoadedMsg(page *tasks.Page, nav tasks.Navigation, err error) Msg {
	return Msg{kind: MsgRecommendationsLoaded, data: recommendationsLoaded{page, nav, err}}
}

type regenerated struct {
	batch models.Batch
	err   error
}

// regeneratedMsg is the constructor for [MsgRegenerated]
func regeneratedMsg(batch models.Batch, err error) Msg {
	return Msg{kind: MsgRegenerated, data: regenerated{batch, err}}
}

// browserOpenedMsg is the constructor for [MsgBrowserOpened]
func browserOpenedMsg(err error) Msg {
	return Msg{kind: MsgBrowserOpened, data: err}
}
