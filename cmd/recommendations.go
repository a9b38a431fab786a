package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/desertthunder/wdiw/internal/formatter"
	"github.com/desertthunder/wdiw/internal/models"
	"github.com/desertthunder/wdiw/internal/shared"
	"github.com/desertthunder/wdiw/internal/tasks"
)

// loadPage enters the recommendations flow, turning a redirect into an error that says what to do.
func (r *Runner) loadPage(ctx context.Context) (*tasks.Page, error) {
	recs, err := r.recommendations()
	if err != nil {
		return nil, err
	}

	page, nav, err := recs.Enter(ctx, nil)
	switch {
	case errors.Is(err, shared.ErrNoIdentity):
		return nil, fmt.Errorf("%w: run 'wdiw submit <profile-url-or-username>' first", err)
	case errors.Is(err, shared.ErrNotReady):
		return nil, fmt.Errorf("%w: run 'wdiw resume' to wait for it", err)
	case err != nil:
		return nil, r.reportFailure(err)
	case nav.Redirect():
		return nil, fmt.Errorf("%w: redirected to %s", shared.ErrNotReady, nav.To)
	}
	return page, nil
}

// RecommendationsList prints the sections of the saved profile's recommendations.
func (r *Runner) RecommendationsList(ctx context.Context, cmd *cli.Command) error {
	sortBy, err := tasks.ParseSortBy(cmd.String("sort"))
	if err != nil {
		return err
	}
	format, err := formatter.ParseFormat(cmd.String("format"))
	if err != nil {
		return err
	}

	page, err := r.loadPage(ctx)
	if err != nil {
		return err
	}

	sections := tasks.BuildSections(page.Batch, sortBy, r.logger)
	data, err := formatter.Export(sections, page.Identifier, format)
	if err != nil {
		return fmt.Errorf("failed to render recommendations: %w", err)
	}

	if path := cmd.String("output"); path != "" {
		if err := formatter.WriteFile(path, data); err != nil {
			return err
		}
		r.logger.Info("recommendations exported", "path", path, "format", format, "count", sections.Total())
		return r.writePlain("✓ Exported %d recommendations to %s\n", sections.Total(), path)
	}

	if _, err := r.output.Write(data); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

// RecommendationsShow prints one record of the current set by IMDb id.
func (r *Runner) RecommendationsShow(ctx context.Context, cmd *cli.Command) error {
	id := strings.TrimSpace(cmd.StringArg("id"))
	if id == "" {
		return fmt.Errorf("%w: imdb_id", shared.ErrMissingArgument)
	}

	page, err := r.loadPage(ctx)
	if err != nil {
		return err
	}

	rec, ok := page.Batch.Find(id)
	if !ok {
		return fmt.Errorf("%w: %s", shared.ErrRecordNotFound, id)
	}

	if cmd.Bool("json") {
		if err := r.writeJSON(rec, true); err != nil {
			return err
		}
	} else if err := r.writePlain("%s", formatter.Detail(rec)); err != nil {
		return err
	}

	if path := cmd.String("poster"); path != "" {
		if err := r.savePoster(ctx, rec, path); err != nil {
			return err
		}
	}

	if cmd.Bool("open") {
		if err := shared.OpenBrowser(shared.IMDbURL(rec.IMDbID)); err != nil {
			return fmt.Errorf("failed to open browser: %w", err)
		}
	}
	return nil
}

func (r *Runner) savePoster(ctx context.Context, rec models.Recommendation, path string) error {
	data, err := formatter.DownloadImage(ctx, r.httpClient, rec.Poster)
	if err != nil {
		return err
	}
	if err := formatter.WriteFile(path, data); err != nil {
		return err
	}
	r.logger.Info("poster saved", "imdb_id", rec.IMDbID, "path", path, "bytes", len(data))
	return r.writePlain("✓ Poster saved to %s\n", path)
}

// RecommendationsRegenerate asks the service to recompute and prints the refreshed set.
func (r *Runner) RecommendationsRegenerate(ctx context.Context, cmd *cli.Command) error {
	recs, err := r.recommendations()
	if err != nil {
		return err
	}
	id, err := recs.Saved(ctx)
	if errors.Is(err, shared.ErrNoIdentity) {
		return fmt.Errorf("%w: run 'wdiw submit <profile-url-or-username>' first", err)
	}
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	r.writePlain("Regenerating...\n")
	batch, err := recs.Regenerate(ctx, id, nil)
	if err != nil {
		if ctx.Err() != nil {
			return shared.ErrCanceled
		}
		return r.reportFailure(err)
	}

	sections := tasks.BuildSections(batch, tasks.SortDefault, r.logger)
	data, err := formatter.ExportToText(sections)
	if err != nil {
		return fmt.Errorf("failed to render recommendations: %w", err)
	}
	if _, err := r.output.Write(data); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}
