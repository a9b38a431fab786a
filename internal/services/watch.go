// Recommendation service [Service] implementation
//
// Talks to the What Do I Watch API:
//
//	GET  /check_user/{id}  → {"status": "new_user"|"scraping"|"movie_data"|"ready"}
//	GET  /lb_check/{id}    → {"status": bool}
//	GET  /status/{id}      → [Recommendation, ...]
//	POST /regenerate/{id}  → body ignored
package services

import (
	"context"
	"fmt"
	"net/url"

	"github.com/desertthunder/wdiw/internal/models"
	"github.com/desertthunder/wdiw/internal/shared"
)

var _ Service = (*WatchService)(nil)

// WatchService implements [Service] over an [APIService].
//
// Response bodies are decoded regardless of HTTP status; a body that cannot be decoded is an [shared.ErrAPIRequest].
type WatchService struct {
	api *APIService
}

// NewWatchService creates a new recommendation service client.
func NewWatchService(api *APIService) *WatchService {
	if api == nil {
		api = NewAPIService("", nil)
	}
	return &WatchService{api: api}
}

// Name returns the service name.
func (w *WatchService) Name() string {
	return "What Do I Watch"
}

type checkUserResponse struct {
	Status models.Status `json:"status"`
}

// CheckUser calls GET /check_user/{id}.
func (w *WatchService) CheckUser(ctx context.Context, id string) (models.Status, error) {
	var body checkUserResponse
	if err := w.getJSON(ctx, "/check_user/", id, &body); err != nil {
		return "", err
	}
	return body.Status, nil
}

type profileCheckResponse struct {
	Status any `json:"status"`
}

// ProfileExists calls GET /lb_check/{id}. Only a literal true counts as existing.
func (w *WatchService) ProfileExists(ctx context.Context, id string) (bool, error) {
	var body profileCheckResponse
	if err := w.getJSON(ctx, "/lb_check/", id, &body); err != nil {
		return false, err
	}
	exists, _ := body.Status.(bool)
	return exists, nil
}

// Recommendations calls GET /status/{id}. A null body yields an empty batch.
func (w *WatchService) Recommendations(ctx context.Context, id string) (models.Batch, error) {
	var batch models.Batch
	if err := w.getJSON(ctx, "/status/", id, &batch); err != nil {
		return nil, err
	}
	if batch == nil {
		batch = models.Batch{}
	}
	return batch, nil
}

// Regenerate calls POST /regenerate/{id} and waits for it to complete.
func (w *WatchService) Regenerate(ctx context.Context, id string) error {
	if _, err := w.api.Post(ctx, "/regenerate/"+url.PathEscape(id), nil); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}
	return nil
}

func (w *WatchService) getJSON(ctx context.Context, prefix, id string, v any) error {
	resp, err := w.api.Get(ctx, prefix+url.PathEscape(id))
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}
	if err := resp.Decode(v); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}
	return nil
}
