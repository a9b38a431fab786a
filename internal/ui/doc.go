// Package ui implements an interactive terminal interface using bubbletea's Elm architecture.
//
// The TUI walks through the same flow as the recommendation client:
//  1. [LandingView] : Enter a Letterboxd profile URL or username
//  2. [PollingView] : Follow the onboarding stages of the submitted profile
//  3. [RecommendationsView] : Browse the "all" and "rated" sections, sort and regenerate
//  4. [DetailView] : Read every attribute of one recommendation
//
// On start the saved profile is resumed, so a returning user skips the landing view.
// Progress updates flow through a channel from [tasks.Poller]; messages from a session that
// is no longer current are dropped.
//
// Keyboard navigation uses vim-style bindings (j/k, enter, esc, tab, s, g, o, q) with contextual help
// displayed via charmbracelet/bubbles/help.
package ui
