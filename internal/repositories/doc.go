// Package repositories implements SQLite persistence for the client's local state.
//
// Key Implementations:
//   - [SettingsRepository] : key-value rows in the settings table
//   - [IdentityRepository] : [models.IdentityStore] over the single letterboxd_username slot
//
// Nothing else is persisted; recommendation batches are always re-fetched from the service.
package repositories
