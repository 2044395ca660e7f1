package app

import (
	"context"
	"os"
	"time"

	"github.com/skillcoder/demo-app/internal/infra/appstate"
	"github.com/skillcoder/demo-app/internal/infra/pinger"
	"github.com/skillcoder/demo-app/internal/infra/shutdown"
)

// appstater defines the interface for application state management
type appstater interface {
	RegisterPinger(pinger pinger.Pinger) error
	GetAllStats() map[string]*pinger.Statistics
	RegisterShutdowner(shutdowner shutdown.Shutdowner) error
	RegisterScheduled(job appstate.Scheduled) error
	GetSchedules() map[string]appstate.Schedule
	GetReadyAt() time.Time
	Quit() <-chan os.Signal
	SetStarting(ctx context.Context) error
	SetRunning(ctx context.Context) error
	GetStartTime() time.Time
	GetState() appstate.State
	GetUptime() time.Duration
	IsHealthy() bool
	IsReady() bool
	Shutdown(ctx context.Context) error
}

type signalHandler interface {
	HandleSignals(ctx context.Context, cancel func())
	CheckTermination(ctx context.Context) error
}

// component is a long-running part of the application with a start/ready/shutdown lifecycle.
type component interface {
	Start(ctx context.Context) error
	Ready() <-chan struct{}
	shutdown.Shutdowner
}
