package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"

	"github.com/skillcoder/demo-app/internal/config"
	"github.com/skillcoder/demo-app/internal/httpserver"
	"github.com/skillcoder/demo-app/internal/infra/clock"
	"github.com/skillcoder/demo-app/internal/infra/cronparser"
	"github.com/skillcoder/demo-app/internal/infra/metrics"
	"github.com/skillcoder/demo-app/internal/infra/pinger"
	"github.com/skillcoder/demo-app/internal/infra/shutdown"
	"github.com/skillcoder/demo-app/internal/logic/podinfo"
	"github.com/skillcoder/demo-app/internal/logic/reporter"
)

const devVersion = "dev"

type App struct {
	logger     *slog.Logger
	appState   appstater
	signals    signalHandler
	components []component
}

// New wires all components. The pinger service starts last so its first round sees every server ready.
func New(
	logger *slog.Logger,
	cfg *config.Config,
	appState appstater,
	pingers component,
) (*App, error) {
	identity := podinfo.Identity{
		Environment:  cfg.Environment,
		PodName:      cfg.PodName,
		PodNamespace: cfg.PodNamespace,
		PodIP:        cfg.PodIP,
	}

	clk := clock.NewSystem()
	collector := podinfo.New(
		logger.With("component", "podinfo"),
		identity,
		appState.GetStartTime(),
		clk,
	)

	var pods podinfo.PodLookup

	pingable := make([]pinger.Pinger, 0, 4)

	if cfg.PodLookupEnabled() {
		adapter, err := newKubeAdapter(logger, cfg)
		if err != nil {
			logger.Warn("kubernetes pod lookup disabled", "reason", err)
		} else {
			pods = adapter
			pingable = append(pingable, adapter)
		}
	} else {
		logger.Info("kubernetes pod lookup disabled", "reason", "pod name or namespace is unknown")
	}

	metricsServer := httpserver.NewMetricsServer(logger, cfg.MetricsPort, nil)
	components := []component{metricsServer}
	pingable = append(pingable, metricsServer)

	if cfg.ReportSchedule != "" {
		reporterService := reporter.New(
			logger,
			clk,
			collector,
			cronparser.New(),
			cfg.ReportSchedule,
			cfg.ReportTZ,
		)
		components = append(components, reporterService)
		pingable = append(pingable, reporterService)

		if err := appState.RegisterScheduled(reporterService); err != nil {
			return nil, fmt.Errorf("register scheduled %s: %w", reporterService.Name(), err)
		}
	} else {
		logger.Info("runtime reporter disabled", "reason", "empty report schedule")
	}

	httpServer := httpserver.New(logger, appState, collector, pods, httpserver.Options{
		Port:               cfg.HTTPPort,
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
	})
	components = append(components, httpServer, pingers)
	pingable = append(pingable, httpServer)

	for _, p := range pingable {
		if err := appState.RegisterPinger(p); err != nil {
			return nil, fmt.Errorf("register pinger %s: %w", p.Name(), err)
		}
	}

	metrics.SetAppInfo(buildVersion(), cfg.Environment, cfg.PodName, cfg.PodNamespace)

	return &App{
		logger:     logger,
		appState:   appState,
		signals:    shutdown.New(logger, appState, cfg.TerminationFile),
		components: components,
	}, nil
}

// Run starts every component and blocks until ctx is cancelled or a termination signal arrives.
func (a *App) Run(originCtx context.Context) error {
	if err := a.signals.CheckTermination(originCtx); err != nil {
		return fmt.Errorf("check termination: %w", err)
	}

	ctx, cancel := context.WithCancel(originCtx)
	defer cancel()

	go a.signals.HandleSignals(ctx, cancel)

	if err := a.appState.SetStarting(ctx); err != nil {
		return fmt.Errorf("set starting application state: %w", err)
	}

	if err := a.start(ctx); err != nil {
		cancel()

		shutdownErr := a.appState.Shutdown(context.WithoutCancel(ctx))

		return errors.Join(err, shutdownErr)
	}

	readyChans := make([]<-chan struct{}, 0, len(a.components))
	for _, c := range a.components {
		readyChans = append(readyChans, c.Ready())
	}

	<-allChannelsClose(ctx, a.logger, readyChans...)

	if ctx.Err() == nil {
		if err := a.appState.SetRunning(ctx); err != nil {
			a.logger.ErrorContext(ctx, "failed to set running state", "error", err)
		} else {
			a.logger.InfoContext(ctx, "application is running")
		}
	}

	<-ctx.Done()

	a.logger.InfoContext(ctx, "shutting down application")

	if err := a.appState.Shutdown(context.WithoutCancel(ctx)); err != nil {
		return fmt.Errorf("shutdown application: %w", err)
	}

	return nil
}

// start launches components in order and registers each one for shutdown once it has started.
func (a *App) start(ctx context.Context) error {
	for _, c := range a.components {
		a.logger.InfoContext(ctx, "starting component", "component", c.Name())

		if err := c.Start(ctx); err != nil {
			return fmt.Errorf("start %s: %w", c.Name(), err)
		}

		if err := a.appState.RegisterShutdowner(c); err != nil {
			return fmt.Errorf("register shutdowner %s: %w", c.Name(), err)
		}
	}

	return nil
}

// allChannelsClose returns a channel closed once every input channel is closed or ctx is done.
func allChannelsClose(ctx context.Context, logger *slog.Logger, chans ...<-chan struct{}) <-chan struct{} {
	out := make(chan struct{})

	go func() {
		defer close(out)

		for i, ch := range chans {
			select {
			case <-ch:
			case <-ctx.Done():
				logger.DebugContext(ctx, "stopped waiting for components", "ready", i, "total", len(chans))

				return
			}
		}
	}()

	return out
}

func buildVersion() string {
	info, ok := debug.ReadBuildInfo()
	if !ok || info.Main.Version == "" || info.Main.Version == "(devel)" {
		return devVersion
	}

	return info.Main.Version
}
