// package tasks implements the onboarding and recommendation flows of the client.
//
// The core abstractions are [Onboarding], which validates and persists a profile and drives
// the [Poller], and [Recommendations], which guards entry to the results view and refetches
// on regenerate. Operations emit progress updates via channels for non-blocking status
// reporting to CLI/UI layers.
package tasks

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"github.com/charmbracelet/log"

	"github.com/desertthunder/wdiw/internal/models"
	"github.com/desertthunder/wdiw/internal/services"
	"github.com/desertthunder/wdiw/internal/shared"
)

// OnboardingOpts configures an [Onboarding].
type OnboardingOpts struct {
	Interval    time.Duration // delay between status checks (default 2s)
	Wait        WaitFunc      // replaces [Sleep], mainly for tests
	ProfileHost string        // host recognized in profile URLs (default letterboxd.com)
	Logger      *log.Logger
}

// Onboarding submits new profiles and resumes saved ones.
type Onboarding struct {
	svc      services.Service
	identity models.IdentityStore
	poller   *Poller
	pattern  *regexp.Regexp
	logger   *log.Logger
}

// NewOnboarding creates an [Onboarding] over the given service and identity slot.
func NewOnboarding(svc services.Service, identity models.IdentityStore, opts OnboardingOpts) *Onboarding {
	logger := opts.Logger
	if logger == nil {
		logger = shared.NewLogger(nil)
	}

	pattern := defaultProfilePattern
	if opts.ProfileHost != "" && opts.ProfileHost != DefaultProfileHost {
		pattern = profilePattern(opts.ProfileHost)
	}

	return &Onboarding{
		svc:      svc,
		identity: identity,
		poller:   NewPoller(svc, opts.Interval, opts.Wait, logger),
		pattern:  pattern,
		logger:   logger,
	}
}

// Poller returns the poller used for submitted and resumed profiles.
func (o *Onboarding) Poller() *Poller {
	return o.poller
}

// ExtractIdentifier applies [ExtractIdentifier] using the configured profile host.
func (o *Onboarding) ExtractIdentifier(input string) string {
	return extractIdentifier(o.pattern, input)
}

// Submit checks that the profile named by input exists, saves it and starts polling.
//
// When the service reports the profile missing the error wraps [shared.ErrProfileNotFound]
// and the identity slot is left untouched.
func (o *Onboarding) Submit(ctx context.Context, input string, progress chan<- ProgressUpdate) (*PollSession, error) {
	id := o.ExtractIdentifier(input)
	logger := shared.WithLogger(o.logger, "identifier", id)

	sendProgress(progress, checkingProfileUpdate(id))
	exists, err := o.svc.ProfileExists(ctx, id)
	if err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("%w: %v", shared.ErrCanceled, err)
		}
		logger.Error("profile check failed", "error", err)
		return nil, fmt.Errorf("failed to check profile: %w", err)
	}
	if !exists {
		logger.Info("profile not found")
		return nil, fmt.Errorf("%w: %s", shared.ErrProfileNotFound, id)
	}

	if err := o.identity.Set(ctx, id); err != nil {
		return nil, fmt.Errorf("failed to save profile: %w", err)
	}
	logger.Info("profile saved, polling status")

	return o.StartPolling(ctx, id, progress), nil
}

// Resume looks up the saved identity and, when one exists, checks its status once and
// continues from there. A ready profile yields a session that finishes immediately in
// [PollReady]; a processing one keeps polling after the interval.
//
// The error wraps [shared.ErrNoIdentity] when nothing is saved and [shared.ErrSavedProfile]
// when the check itself fails.
func (o *Onboarding) Resume(ctx context.Context, progress chan<- ProgressUpdate) (*PollSession, error) {
	id, ok, err := o.identity.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", shared.ErrSavedProfile, err)
	}
	if !ok {
		return nil, shared.ErrNoIdentity
	}

	sendProgress(progress, checkingSavedUpdate(id))
	status, err := o.svc.CheckUser(ctx, id)
	if err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("%w: %v", shared.ErrCanceled, err)
		}
		o.logger.Error("saved profile check failed", "identifier", id, "error", err)
		return nil, fmt.Errorf("%w: %w", shared.ErrSavedProfile, err)
	}

	return o.poller.Continue(ctx, id, status, progress), nil
}

// StartPolling polls id until it is ready or fails.
func (o *Onboarding) StartPolling(ctx context.Context, id string, progress chan<- ProgressUpdate) *PollSession {
	return o.poller.Start(ctx, id, progress)
}

// Status performs a single status check for the saved identity.
func (o *Onboarding) Status(ctx context.Context) (string, models.Status, error) {
	id, ok, err := o.identity.Get(ctx)
	if err != nil {
		return "", "", fmt.Errorf("failed to read saved profile: %w", err)
	}
	if !ok {
		return "", "", shared.ErrNoIdentity
	}

	status, err := o.svc.CheckUser(ctx, id)
	if err != nil {
		return id, "", fmt.Errorf("failed to check status: %w", err)
	}
	return id, status, nil
}
