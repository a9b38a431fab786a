// package services defines interface Service for interacting with the remote recommendation API
package services

import (
	"context"

	"github.com/desertthunder/wdiw/internal/models"
)

// Service defines the operations the client needs from the remote recommendation service.
type Service interface {
	// CheckUser returns the onboarding [models.Status] of a profile.
	// Unknown status values are returned as-is; callers decide how to treat them.
	CheckUser(ctx context.Context, id string) (models.Status, error)

	// ProfileExists asks whether the profile exists on Letterboxd.
	ProfileExists(ctx context.Context, id string) (bool, error)

	// Recommendations fetches the current recommendation batch for a profile.
	Recommendations(ctx context.Context, id string) (models.Batch, error)

	// Regenerate asks the service to recompute recommendations.
	// Only completion matters; the response body is not interpreted.
	Regenerate(ctx context.Context, id string) error

	// Name returns the name of the service
	Name() string
}
