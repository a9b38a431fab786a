package main

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/charmbracelet/log"
	"github.com/urfave/cli/v3"

	"github.com/desertthunder/wdiw/internal/models"
	"github.com/desertthunder/wdiw/internal/repositories"
	"github.com/desertthunder/wdiw/internal/services"
	"github.com/desertthunder/wdiw/internal/shared"
	"github.com/desertthunder/wdiw/internal/tasks"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config     *shared.Config
	service    services.Service
	api        *services.APIService
	identity   models.IdentityStore
	db         *sql.DB
	httpClient *http.Client
	logger     *log.Logger
	output     io.Writer
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config     *shared.Config
	Service    services.Service
	API        *services.APIService
	Identity   models.IdentityStore // opened from the configured database when nil
	HTTPClient *http.Client
	Logger     *log.Logger
	Output     io.Writer
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = http.DefaultClient
	}
	if opts.API == nil {
		opts.API = services.NewAPIService(opts.Config.API.Host, opts.HTTPClient)
	}
	if opts.Service == nil {
		opts.Service = services.NewWatchService(opts.API)
	}

	return &Runner{
		config:     opts.Config,
		service:    opts.Service,
		api:        opts.API,
		identity:   opts.Identity,
		httpClient: opts.HTTPClient,
		logger:     opts.Logger,
		output:     opts.Output,
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, submitCommand, resumeCommand, statusCommand, recommendationsCommand,
		identityCommand, tuiCommand, stubCommand, apiCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// SetLogger replaces the logger used by subsequent actions.
func (r *Runner) SetLogger(l *log.Logger) {
	r.logger = l
}

// Close releases the database opened for the identity slot, if any.
func (r *Runner) Close() error {
	if r.db == nil {
		return nil
	}
	err := r.db.Close()
	r.db = nil
	r.identity = nil
	return err
}

// identityStore returns the identity slot, opening the configured database on first use.
func (r *Runner) identityStore() (models.IdentityStore, error) {
	if r.identity != nil {
		return r.identity, nil
	}

	db, err := shared.OpenDatabase(r.config.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to open identity store: %w", err)
	}
	r.db = db
	r.identity = repositories.NewIdentityRepository(db)
	return r.identity, nil
}

func (r *Runner) onboarding() (*tasks.Onboarding, error) {
	identity, err := r.identityStore()
	if err != nil {
		return nil, err
	}
	return tasks.NewOnboarding(r.service, identity, tasks.OnboardingOpts{
		Interval:    r.config.Polling.Interval,
		ProfileHost: r.config.Profile.Host,
		Logger:      r.logger,
	}), nil
}

func (r *Runner) recommendations() (*tasks.Recommendations, error) {
	identity, err := r.identityStore()
	if err != nil {
		return nil, err
	}
	return tasks.NewRecommendations(r.service, identity, r.logger), nil
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	var output []byte
	var err error

	if pretty {
		output, err = json.MarshalIndent(data, "", "  ")
	} else {
		output, err = json.Marshal(data)
	}

	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainln(format string, args ...any) error {
	text := "\n" + fmt.Sprintf(format, args...) + "\n"
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainHeader(title string) {
	r.writePlain("═══════════════════════════════════════\n")
	r.writePlain("%v\n", title)
	r.writePlain("═══════════════════════════════════════\n")
}
