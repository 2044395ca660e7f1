package httpserver

import (
	"context"
	"time"

	"github.com/skillcoder/demo-app/internal/infra/appstate"
	"github.com/skillcoder/demo-app/internal/infra/pinger"
	"github.com/skillcoder/demo-app/internal/logic/podinfo"
)

// appstater is an internal interface for application state management
type appstater interface {
	GetState() appstate.State
	IsHealthy() bool
	IsReady() bool
	GetUptime() time.Duration
	GetStartTime() time.Time
	GetReadyAt() time.Time
	GetAllStats() map[string]*pinger.Statistics
	GetSchedules() map[string]appstate.Schedule
}

type infoCollector interface {
	Collect(ctx context.Context) podinfo.PodInfo
	Health() podinfo.HealthStatus
	Ready() podinfo.ReadyStatus
}
