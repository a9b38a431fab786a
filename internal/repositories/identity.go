package repositories

import (
	"context"
	"database/sql"
	"time"

	"github.com/desertthunder/wdiw/internal/models"
)

var _ models.IdentityStore = (*IdentityRepository)(nil)

// IdentityRepository implements [models.IdentityStore] on top of the settings table, under [models.IdentityKey].
type IdentityRepository struct {
	settings *SettingsRepository
}

// NewIdentityRepository creates a new [IdentityRepository] with the given database connection
func NewIdentityRepository(db *sql.DB) *IdentityRepository {
	return &IdentityRepository{settings: NewSettingsRepository(db)}
}

// Get returns the saved identifier.
func (r *IdentityRepository) Get(ctx context.Context) (string, bool, error) {
	return r.settings.Get(ctx, models.IdentityKey)
}

// Set saves id, replacing any previous identifier.
func (r *IdentityRepository) Set(ctx context.Context, id string) error {
	return r.settings.Set(ctx, models.IdentityKey, id)
}

// Clear forgets the saved identifier.
func (r *IdentityRepository) Clear(ctx context.Context) error {
	return r.settings.Delete(ctx, models.IdentityKey)
}

// SavedAt returns when the identifier was last written.
func (r *IdentityRepository) SavedAt(ctx context.Context) (time.Time, bool, error) {
	return r.settings.UpdatedAt(ctx, models.IdentityKey)
}
