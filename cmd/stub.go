package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/desertthunder/wdiw/internal/server"
	"github.com/desertthunder/wdiw/internal/shared"
)

// Stub serves a local stand-in of the recommendation API until interrupted.
func (r *Runner) Stub(ctx context.Context, cmd *cli.Command) error {
	statuses, err := parseStatuses(cmd.StringSlice("status"))
	if err != nil {
		return err
	}

	stub, err := server.NewStubAPI(server.StubOpts{
		Steps:    cmd.Int("steps"),
		NotFound: cmd.StringSlice("not-found"),
		Statuses: statuses,
		Logger:   r.logger,
	})
	if err != nil {
		return err
	}

	addr := cmd.String("addr")
	if addr == "" {
		addr = r.config.Stub.Addr()
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	ready := make(chan string, 1)
	go func() {
		if bound, ok := <-ready; ok {
			r.writePlain("Stub API listening on http://%s\n", bound)
			r.writePlain("Set api.host (or %s) to this address to use it\n", shared.EnvAPIHost)
		}
	}()

	return server.Serve(ctx, addr, server.NewStubRouter(stub, r.logger), r.logger, ready)
}

// parseStatuses reads id=status pairs.
func parseStatuses(pairs []string) (map[string]string, error) {
	out := make(map[string]string, len(pairs))
	for _, p := range pairs {
		id, status, ok := strings.Cut(p, "=")
		id, status = strings.TrimSpace(id), strings.TrimSpace(status)
		if !ok || id == "" || status == "" {
			return nil, fmt.Errorf("%w: --status expects id=status (got %q)", shared.ErrInvalidFlag, p)
		}
		out[id] = status
	}
	return out, nil
}
