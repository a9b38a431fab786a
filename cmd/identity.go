package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/desertthunder/wdiw/internal/repositories"
)

// IdentityShow prints the saved profile and when it was saved.
func (r *Runner) IdentityShow(ctx context.Context, cmd *cli.Command) error {
	identity, err := r.identityStore()
	if err != nil {
		return err
	}

	id, ok, err := identity.Get(ctx)
	if err != nil {
		return err
	}
	if !ok {
		return r.writePlain("No saved profile\n")
	}

	r.writePlain("Profile: %s\n", id)
	if repo, isRepo := identity.(*repositories.IdentityRepository); isRepo {
		if at, found, err := repo.SavedAt(ctx); err == nil && found {
			r.writePlain("Saved:   %s\n", at.Local().Format("2006-01-02 15:04:05"))
		}
	}
	return nil
}

// IdentityClear forgets the saved profile.
func (r *Runner) IdentityClear(ctx context.Context, cmd *cli.Command) error {
	identity, err := r.identityStore()
	if err != nil {
		return err
	}
	if err := identity.Clear(ctx); err != nil {
		return err
	}
	r.logger.Info("saved profile cleared")
	return r.writePlain("✓ Saved profile cleared\n")
}
