package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/desertthunder/wdiw/internal/models"
	"github.com/desertthunder/wdiw/internal/shared"
	"github.com/desertthunder/wdiw/internal/tasks"
)

// Submit checks that the profile exists, saves it and polls until its recommendations are ready.
//
// Ctrl-C cancels the session.
func (r *Runner) Submit(ctx context.Context, cmd *cli.Command) error {
	input := cmd.StringArg("profile")
	if strings.TrimSpace(input) == "" {
		return fmt.Errorf("%w: profile URL or username", shared.ErrMissingArgument)
	}

	onboarding, err := r.onboarding()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	progress := make(chan tasks.ProgressUpdate, 16)
	session, err := onboarding.Submit(ctx, input, progress)
	if err != nil {
		return r.reportFailure(err)
	}
	return r.follow(session, progress)
}

// Resume checks the saved profile and continues polling from its reported status.
func (r *Runner) Resume(ctx context.Context, cmd *cli.Command) error {
	onboarding, err := r.onboarding()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	progress := make(chan tasks.ProgressUpdate, 16)
	session, err := onboarding.Resume(ctx, progress)
	if errors.Is(err, shared.ErrNoIdentity) {
		return fmt.Errorf("%w: run 'wdiw submit <profile-url-or-username>' first", err)
	}
	if err != nil {
		return r.reportFailure(err)
	}
	return r.follow(session, progress)
}

// Status performs one status check for the saved profile.
func (r *Runner) Status(ctx context.Context, cmd *cli.Command) error {
	onboarding, err := r.onboarding()
	if err != nil {
		return err
	}

	id, status, err := onboarding.Status(ctx)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(map[string]any{
			"identifier": id,
			"status":     status,
			"known":      status.Known(),
			"ready":      status == models.StatusReady,
		}, true)
	}

	r.writePlainHeader("Profile: " + id)
	label := status.Label()
	if label == "" {
		label = "unrecognized"
	}
	return r.writePlain("Status: %s (%s)\n", status, label)
}

// follow prints progress labels until session finishes and reports its outcome.
func (r *Runner) follow(session *tasks.PollSession, progress <-chan tasks.ProgressUpdate) error {
	r.writePlain("Profile: %s\n", session.Identifier)

	last := ""
	show := func(u tasks.ProgressUpdate) {
		if u.Phase == tasks.Failed || u.Phase == tasks.Proceed || u.Message == "" || u.Message == last {
			return
		}
		last = u.Message
		r.writePlain("  %s...\n", u.Message)
	}

wait:
	for {
		select {
		case u := <-progress:
			show(u)
		case <-session.Done():
			break wait
		}
	}
drain:
	for {
		select {
		case u := <-progress:
			show(u)
		default:
			break drain
		}
	}

	result := session.Wait()
	r.logger.Debug("session finished", "state", result.State, "queries", result.Queries)

	switch result.State {
	case tasks.PollReady:
		r.writePlain("✓ Recommendations are ready\n")
		r.writePlainln("Run 'wdiw recommendations list' to see them")
		return nil
	case tasks.PollCanceled:
		r.writePlain("Canceled\n")
		return shared.ErrCanceled
	default:
		return r.reportFailure(result.Err)
	}
}

// reportFailure prints the user-facing message for err and returns err.
func (r *Runner) reportFailure(err error) error {
	if msg := tasks.UserMessage(err); msg != "" {
		r.writePlain("✗ %s\n", msg)
	}
	return err
}
