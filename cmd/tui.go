package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/urfave/cli/v3"

	"github.com/desertthunder/wdiw/internal/shared"
	"github.com/desertthunder/wdiw/internal/tasks"
	"github.com/desertthunder/wdiw/internal/ui"
)

// TUI launches the interactive terminal UI.
func (r *Runner) TUI(ctx context.Context, cmd *cli.Command) error {
	// Redirect logs to file to avoid interfering with TUI rendering
	fileLogger, err := shared.NewFileLogger(r.config.Log.File)
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	shared.SetLogLevel(fileLogger, shared.ParseLogLevel(r.config.Log.Level))
	r.SetLogger(fileLogger)

	onboarding, err := r.onboarding()
	if err != nil {
		return err
	}
	recs, err := r.recommendations()
	if err != nil {
		return err
	}

	sortBy, err := tasks.ParseSortBy(r.config.UI.DefaultSort)
	if err != nil {
		r.logger.Warn("ignoring ui.default_sort", "error", err)
		sortBy = tasks.SortDefault
	}

	model := ui.NewModel(ctx, ui.ModelOpts{
		Onboarding:      onboarding,
		Recommendations: recs,
		SortBy:          sortBy,
		Logger:          fileLogger,
	})
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}
