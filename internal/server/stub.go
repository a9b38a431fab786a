package server

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"slices"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/desertthunder/wdiw/internal/models"
)

//go:embed stub_batch.json
var stubBatch []byte

// stages is the order a new profile moves through.
var stages = []models.Status{models.StatusNewUser, models.StatusScraping, models.StatusMovieData, models.StatusReady}

// StubOpts configures a [StubAPI].
type StubOpts struct {
	Steps    int               // status checks spent in each processing stage (minimum 1)
	NotFound []string          // identifiers reported as missing by /lb_check
	Statuses map[string]string // fixed /check_user answers, e.g. {"broken": "corrupted"}
	Logger   *log.Logger
}

type stubProfile struct {
	checks      int
	generations int
}

// StubAPI is an in-memory stand-in of the recommendation API.
//
// Each identifier starts as new_user and advances one stage every Steps status checks
// until it is ready. /status serves the embedded sample batch, rotated once per regenerate
// so the refreshed set is visibly different.
type StubAPI struct {
	mu       sync.Mutex
	steps    int
	notFound map[string]bool
	fixed    map[string]models.Status
	profiles map[string]*stubProfile
	batch    models.Batch
	logger   *log.Logger
}

// NewStubAPI creates a stub with its sample batch loaded.
func NewStubAPI(opts StubOpts) (*StubAPI, error) {
	var batch models.Batch
	if err := json.Unmarshal(stubBatch, &batch); err != nil {
		return nil, fmt.Errorf("failed to load sample batch: %w", err)
	}

	steps := max(opts.Steps, 1)
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}

	s := &StubAPI{
		steps:    steps,
		notFound: map[string]bool{},
		fixed:    map[string]models.Status{},
		profiles: map[string]*stubProfile{},
		batch:    batch,
		logger:   logger,
	}
	for _, id := range opts.NotFound {
		s.notFound[id] = true
	}
	for id, status := range opts.Statuses {
		s.fixed[id] = models.Status(status)
	}
	return s, nil
}

// Register adds the API routes to r.
func (s *StubAPI) Register(r Router) {
	r.Handle(http.MethodGet, "/check_user/{id}", http.HandlerFunc(s.checkUser))
	r.Handle(http.MethodGet, "/lb_check/{id}", http.HandlerFunc(s.profileCheck))
	r.Handle(http.MethodGet, "/status/{id}", http.HandlerFunc(s.recommendations))
	r.Handle(http.MethodPost, "/regenerate/{id}", http.HandlerFunc(s.regenerate))
}

func (s *StubAPI) profile(id string) *stubProfile {
	p, ok := s.profiles[id]
	if !ok {
		p = &stubProfile{}
		s.profiles[id] = p
	}
	return p
}

// Status returns the status id would report next without advancing it.
func (s *StubAPI) Status(id string) models.Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.statusAt(id, s.profile(id).checks)
}

func (s *StubAPI) statusAt(id string, checks int) models.Status {
	if st, ok := s.fixed[id]; ok {
		return st
	}
	return stages[min(checks/s.steps, len(stages)-1)]
}

func (s *StubAPI) checkUser(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	s.mu.Lock()
	p := s.profile(id)
	status := s.statusAt(id, p.checks)
	p.checks++
	s.mu.Unlock()

	s.logger.Debug("check_user", "identifier", id, "status", status)
	writeJSON(w, http.StatusOK, map[string]models.Status{"status": status})
}

func (s *StubAPI) profileCheck(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	s.mu.Lock()
	exists := id != "" && !s.notFound[id]
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, map[string]bool{"status": exists})
}

func (s *StubAPI) recommendations(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	s.mu.Lock()
	p := s.profile(id)
	ready := s.statusAt(id, p.checks) == models.StatusReady
	batch := rotate(s.batch, p.generations)
	s.mu.Unlock()

	if !ready {
		writeJSON(w, http.StatusConflict, map[string]string{"detail": "recommendations not ready"})
		return
	}
	writeJSON(w, http.StatusOK, batch)
}

func (s *StubAPI) regenerate(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	s.mu.Lock()
	s.profile(id).generations++
	gen := s.profiles[id].generations
	s.mu.Unlock()

	s.logger.Info("regenerate", "identifier", id, "generation", gen)
	writeJSON(w, http.StatusOK, map[string]string{"message": "regenerated"})
}

func rotate(b models.Batch, n int) models.Batch {
	out := slices.Clone(b)
	if len(out) == 0 {
		return out
	}
	n %= len(out)
	return append(out[n:], out[:n]...)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// HealthHandler answers liveness probes.
type HealthHandler struct{}

// Routes returns the HTTP routes this handler serves.
func (HealthHandler) Routes() []string { return []string{"/healthz"} }

func (HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// NewStubRouter builds the router serving s with logging and recovery middleware.
func NewStubRouter(s *StubAPI, logger *log.Logger) *BasicRouter {
	r := NewBasicRouter()
	r.Use(RecoverMiddleware(logger), LoggingMiddleware(logger))
	r.Handler(HealthHandler{})
	s.Register(r)
	return r
}

// Serve runs handler on addr until ctx is done, then shuts down gracefully.
//
// When ready is non-nil it receives the bound address once the listener is open.
func Serve(ctx context.Context, addr string, handler http.Handler, logger *log.Logger, ready chan<- string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}

	srv := &http.Server{Handler: handler, ReadHeaderTimeout: 10 * time.Second}
	errCh := make(chan error, 1)
	go func() { errCh <- srv.Serve(ln) }()

	logger.Info("serving", "addr", ln.Addr().String())
	if ready != nil {
		ready <- ln.Addr().String()
	}

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("failed to shut down: %w", err)
		}
		return nil
	}
}
