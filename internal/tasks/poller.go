package tasks

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/desertthunder/wdiw/internal/models"
	"github.com/desertthunder/wdiw/internal/services"
	"github.com/desertthunder/wdiw/internal/shared"
)

// DefaultInterval is the fixed delay between status checks.
const DefaultInterval = 2 * time.Second

// PollState is the state of a polling session.
type PollState int

const (
	PollIdle PollState = iota
	PollChecking
	PollProcessing
	PollReady
	PollFailed
	PollCanceled
)

func (s PollState) String() string {
	switch s {
	case PollIdle:
		return "idle"
	case PollChecking:
		return "checking"
	case PollProcessing:
		return "processing"
	case PollReady:
		return "ready"
	case PollFailed:
		return "failed"
	case PollCanceled:
		return "canceled"
	default:
		return "unknown"
	}
}

// Terminal reports whether no further transitions can happen from s.
func (s PollState) Terminal() bool {
	return s == PollReady || s == PollFailed || s == PollCanceled
}

// PollResult is the terminal outcome of a [PollSession].
type PollResult struct {
	State   PollState
	Status  models.Status // last status received from the service
	Queries int           // status checks issued by this session
	Err     error         // set when State is PollFailed or PollCanceled
}

// Navigation returns the route the caller should move to once the session has ended.
func (r PollResult) Navigation() Navigation {
	if r.State == PollReady {
		return Navigation{To: RouteRecommendations}
	}
	return Navigation{To: RouteLanding, Message: UserMessage(r.Err)}
}

// WaitFunc blocks for d or until ctx is done.
type WaitFunc func(ctx context.Context, d time.Duration) error

// Sleep is the default [WaitFunc].
func Sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// PollSession is the handle of one running status poll.
type PollSession struct {
	ID         string
	Identifier string

	cancel context.CancelFunc
	done   chan struct{}

	mu     sync.Mutex
	state  PollState
	result PollResult
}

// Cancel stops the session. No status checks are issued after Cancel returns,
// and the session ends in [PollCanceled] unless it had already finished.
func (s *PollSession) Cancel() {
	s.cancel()
}

// Done is closed once the session reaches a terminal state.
func (s *PollSession) Done() <-chan struct{} {
	return s.done
}

// Wait blocks until the session ends and returns its outcome.
func (s *PollSession) Wait() PollResult {
	<-s.done
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.result
}

// State returns the current state.
func (s *PollSession) State() PollState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *PollSession) setState(st PollState) {
	s.mu.Lock()
	s.state = st
	s.mu.Unlock()
}

func (s *PollSession) finish(r PollResult) {
	s.mu.Lock()
	s.state = r.State
	s.result = r
	s.mu.Unlock()
	close(s.done)
}

// Poller runs fixed-interval, unbounded status polls against a [services.Service].
type Poller struct {
	svc      services.Service
	interval time.Duration
	wait     WaitFunc
	logger   *log.Logger
}

// NewPoller creates a poller. A non-positive interval falls back to [DefaultInterval]
// and a nil wait to [Sleep].
func NewPoller(svc services.Service, interval time.Duration, wait WaitFunc, logger *log.Logger) *Poller {
	if interval <= 0 {
		interval = DefaultInterval
	}
	if wait == nil {
		wait = Sleep
	}
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &Poller{svc: svc, interval: interval, wait: wait, logger: logger}
}

// Interval returns the delay between status checks.
func (p *Poller) Interval() time.Duration {
	return p.interval
}

// Start begins polling id on a new goroutine. The first status check is issued immediately.
func (p *Poller) Start(ctx context.Context, id string, progress chan<- ProgressUpdate) *PollSession {
	return p.start(ctx, id, nil, progress)
}

// Continue is [Poller.Start] for a caller that already holds the result of a status check.
// A processing seed is published and the next check follows after the interval; a ready
// seed ends the session at once and anything else fails it.
func (p *Poller) Continue(ctx context.Context, id string, seed models.Status, progress chan<- ProgressUpdate) *PollSession {
	return p.start(ctx, id, &seed, progress)
}

func (p *Poller) start(ctx context.Context, id string, seed *models.Status, progress chan<- ProgressUpdate) *PollSession {
	ctx, cancel := context.WithCancel(ctx)
	s := &PollSession{
		ID:         shared.GenerateID(),
		Identifier: id,
		cancel:     cancel,
		done:       make(chan struct{}),
	}

	logger := shared.WithLogger(p.logger, "identifier", id, "session", shared.ShortID(s.ID))
	go func() {
		defer cancel()
		r := p.run(ctx, s, id, seed, progress, logger)
		logger.Debug("poll finished", "state", r.State, "queries", r.Queries)
		s.finish(r)
	}()
	return s
}

func (p *Poller) run(ctx context.Context, s *PollSession, id string, seed *models.Status, progress chan<- ProgressUpdate, logger *log.Logger) PollResult {
	var r PollResult
	var status models.Status
	pending := seed != nil
	if pending {
		status = *seed
	}

	canceled := func() PollResult {
		r.State = PollCanceled
		r.Err = fmt.Errorf("%w: polling %s", shared.ErrCanceled, id)
		return r
	}
	failed := func(err error) PollResult {
		r.State = PollFailed
		r.Err = err
		sendProgress(progress, failedUpdate(r.Queries, err))
		return r
	}

	for {
		if !pending {
			if ctx.Err() != nil {
				return canceled()
			}

			s.setState(PollChecking)
			st, err := p.svc.CheckUser(ctx, id)
			r.Queries++
			if err != nil {
				if ctx.Err() != nil {
					return canceled()
				}
				logger.Error("status check failed", "error", err)
				return failed(fmt.Errorf("failed to check status: %w", err))
			}
			status = st
		}
		pending = false
		r.Status = status

		switch {
		case status == models.StatusReady:
			sendProgress(progress, proceedUpdate(r.Queries))
			r.State = PollReady
			return r
		case status.Processing():
			s.setState(PollProcessing)
			logger.Debug("profile processing", "status", status)
			sendProgress(progress, pollingUpdate(r.Queries, status))

			if err := p.wait(ctx, p.interval); err != nil || ctx.Err() != nil {
				return canceled()
			}
		default:
			logger.Warn("unknown status received", "status", status)
			return failed(fmt.Errorf("%w: %q", shared.ErrUnknownStatus, status))
		}
	}
}
