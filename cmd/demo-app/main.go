package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/pflag"

	"github.com/skillcoder/demo-app/internal/app"
	"github.com/skillcoder/demo-app/internal/config"
	"github.com/skillcoder/demo-app/internal/infra/appstate"
	"github.com/skillcoder/demo-app/internal/infra/clock"
	"github.com/skillcoder/demo-app/internal/infra/logging"
	"github.com/skillcoder/demo-app/internal/infra/pinger"
	"github.com/skillcoder/demo-app/internal/infra/shutdown"
)

func main() {
	appStart := time.Now()
	// Start listening for signals immediately as first thing, before any other initialization
	signals := shutdown.Notify()
	ctx := context.Background()

	envFile := pflag.String("env-file", ".env", "path to a dotenv file loaded before reading the environment")
	pflag.Parse()

	err := run(ctx, signals, appStart, *envFile)
	if err != nil {
		slog.ErrorContext(ctx, "failed to run", "reason", err)
		// Give the logger some time to flush
		time.Sleep(1 * time.Second)
		os.Exit(1)
	}

	slog.InfoContext(ctx, "bye")
}

func run(ctx context.Context, signals <-chan os.Signal, appStart time.Time, envFile string) error {
	if err := config.LoadEnvFile(envFile); err != nil {
		return fmt.Errorf("load env file: %w", err)
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger := logging.New(cfg.LogFormat, cfg.LogLevel)
	pingers := pinger.New(logger, cfg.PingerInterval)
	appState := appstate.New(logger, clock.NewSystem(), appStart, cfg.TerminationFile, signals, pingers)

	application, err := app.New(logger, cfg, appState, pingers)
	if err != nil {
		return fmt.Errorf("new application: %w", err)
	}

	return application.Run(ctx)
}
