package main

import (
	"context"
	"errors"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/desertthunder/wdiw/internal/services"
	"github.com/desertthunder/wdiw/internal/shared"
)

func main() {
	logger := shared.NewLogger(nil)

	config := shared.DefaultConfig()
	if _, err := os.Stat("config.toml"); err == nil {
		if loadedConfig, err := shared.LoadConfig("config.toml"); err == nil {
			config = loadedConfig
		} else {
			logger.Warn("failed to load config, using defaults", "error", err)
		}
	}
	config.ApplyEnv()
	shared.SetLogLevel(logger, shared.ParseLogLevel(config.Log.Level))

	api := services.NewAPIService(config.API.Host, nil,
		services.WithTimeout(config.API.Timeout),
		services.WithRateLimit(config.API.RateLimit, config.API.RateBurst),
	)

	runner := NewRunner(RunnerOpts{
		Config:  config,
		Service: services.NewWatchService(api),
		API:     api,
		Logger:  logger,
	})
	defer runner.Close()

	app := &cli.Command{
		Name:     "wdiw",
		Usage:    "Movie recommendations based on your Letterboxd profile",
		Version:  "0.1.0",
		Commands: runner.register(),
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		if errors.Is(err, shared.ErrCanceled) {
			logger.Info("canceled")
			runner.Close()
			os.Exit(0)
		}
		runner.Close()
		logger.Fatalf("application error: %v", err)
	}
}
