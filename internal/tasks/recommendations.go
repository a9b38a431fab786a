package tasks

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/singleflight"

	"github.com/desertthunder/wdiw/internal/models"
	"github.com/desertthunder/wdiw/internal/services"
	"github.com/desertthunder/wdiw/internal/shared"
)

// Page is the data behind the recommendations view.
type Page struct {
	Identifier string
	Batch      models.Batch
}

// Recommendations loads, and on request regenerates, the batch for the saved profile.
type Recommendations struct {
	svc      services.Service
	identity models.IdentityStore
	logger   *log.Logger
	group    singleflight.Group
}

// NewRecommendations creates the recommendations loader.
func NewRecommendations(svc services.Service, identity models.IdentityStore, logger *log.Logger) *Recommendations {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &Recommendations{svc: svc, identity: identity, logger: logger}
}

// Enter guards the recommendations view.
//
// Without a saved identity it redirects to the landing view without contacting the
// service. A profile that is not ready, or any failure while checking or fetching, also
// redirects. The returned error explains the redirect and is only meant for logging.
func (r *Recommendations) Enter(ctx context.Context, progress chan<- ProgressUpdate) (*Page, Navigation, error) {
	id, ok, err := r.identity.Get(ctx)
	if err != nil {
		return nil, toLanding(), fmt.Errorf("failed to read saved profile: %w", err)
	}
	if !ok {
		return nil, toLanding(), shared.ErrNoIdentity
	}

	logger := shared.WithLogger(r.logger, "identifier", id)

	status, err := r.svc.CheckUser(ctx, id)
	if err != nil {
		logger.Error("status check failed", "error", err)
		return nil, toLanding(), fmt.Errorf("failed to check status: %w", err)
	}
	if status != models.StatusReady {
		logger.Info("profile not ready", "status", status)
		return nil, toLanding(), fmt.Errorf("%w: %s", shared.ErrNotReady, status)
	}

	sendProgress(progress, fetchingUpdate(id))
	batch, err := r.svc.Recommendations(ctx, id)
	if err != nil {
		logger.Error("failed to fetch recommendations", "error", err)
		return nil, toLanding(), fmt.Errorf("failed to fetch recommendations: %w", err)
	}

	logger.Debug("recommendations loaded", "count", len(batch))
	return &Page{Identifier: id, Batch: batch}, Navigation{To: RouteRecommendations}, nil
}

// Regenerate asks the service to recompute recommendations for id and fetches the new batch.
//
// Concurrent calls for the same id share one recompute and one fetch. On error the caller
// keeps showing its current batch.
func (r *Recommendations) Regenerate(ctx context.Context, id string, progress chan<- ProgressUpdate) (models.Batch, error) {
	sendProgress(progress, regeneratingUpdate(id))

	v, err, joined := r.group.Do(id, func() (any, error) {
		if err := r.svc.Regenerate(ctx, id); err != nil {
			return nil, fmt.Errorf("failed to regenerate recommendations: %w", err)
		}
		batch, err := r.svc.Recommendations(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch recommendations: %w", err)
		}
		return batch, nil
	})
	if err != nil {
		r.logger.Error("regenerate failed", "identifier", id, "error", err)
		return nil, err
	}

	batch := v.(models.Batch)
	r.logger.Debug("recommendations regenerated", "identifier", id, "count", len(batch), "joined", joined)
	return batch, nil
}

// Saved returns the saved identity or [shared.ErrNoIdentity].
func (r *Recommendations) Saved(ctx context.Context) (string, error) {
	id, ok, err := r.identity.Get(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to read saved profile: %w", err)
	}
	if !ok {
		return "", shared.ErrNoIdentity
	}
	return id, nil
}
