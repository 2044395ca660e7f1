package appstate

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/skillcoder/demo-app/internal/infra/pinger"
)

type pingerStatus struct {
	Ready        bool      `json:"ready"`
	Healthy      bool      `json:"healthy"`
	LastRun      time.Time `json:"lastRun"`
	LatencyMs    float64   `json:"latencyMs"`
	LastError    string    `json:"lastError,omitempty"`
	SuccessCount int       `json:"successCount"`
	ErrorCount   int       `json:"errorCount"`
}

type scheduleStatus struct {
	LastRunAt *time.Time `json:"lastRunAt,omitempty"`
	NextRunAt *time.Time `json:"nextRunAt,omitempty"`
}

type statusResponse struct {
	State     string                    `json:"state"`
	Uptime    string                    `json:"uptime"`
	StartTime time.Time                 `json:"startTime"`
	ReadyAt   *time.Time                `json:"readyAt,omitempty"`
	UptimeSec float64                   `json:"uptimeSeconds"`
	Pingers   map[string]pingerStatus   `json:"pingers"`
	Schedules map[string]scheduleStatus `json:"schedules"`
}

// HandleHealthz returns an http.HandlerFunc for the /-/healthz endpoint
func HandleHealthz(
	logger *slog.Logger,
	appState healthChecker,
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		logger := logger.With("traceID", middleware.GetReqID(ctx))

		if !appState.IsHealthy() {
			w.WriteHeader(http.StatusServiceUnavailable)
			logger.DebugContext(ctx, "health check failed")

			return
		}

		w.WriteHeader(http.StatusOK)
		logger.DebugContext(ctx, "health check passed")
	}
}

// HandleReadyz returns an http.HandlerFunc for the /-/readyz endpoint
func HandleReadyz(
	logger *slog.Logger,
	appState readyChecker,
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		logger := logger.With("traceID", middleware.GetReqID(ctx))

		if !appState.IsReady() {
			w.WriteHeader(http.StatusServiceUnavailable)
			logger.DebugContext(ctx, "readiness check failed")

			return
		}

		w.WriteHeader(http.StatusOK)
		logger.DebugContext(ctx, "readiness check passed")
	}
}

// HandleStatus returns an http.HandlerFunc for the /-/status endpoint
func HandleStatus(
	logger *slog.Logger,
	appState statusGetter,
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		logger := logger.With("traceID", middleware.GetReqID(ctx))

		state := appState.GetState()
		uptime := appState.GetUptime()

		response := statusResponse{
			State:     string(state),
			Uptime:    uptime.String(),
			StartTime: appState.GetStartTime(),
			UptimeSec: uptime.Seconds(),
			ReadyAt:   timeOrNil(appState.GetReadyAt()),
			Pingers:   toPingerStatuses(appState.GetAllStats()),
			Schedules: toScheduleStatuses(appState.GetSchedules()),
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)

		if err := json.NewEncoder(w).Encode(response); err != nil {
			logger.ErrorContext(ctx, "failed to encode status response",
				"error", err,
			)

			return
		}

		logger.DebugContext(ctx, "status response sent",
			"state", string(state),
			"uptime", uptime.String(),
		)
	}
}

func toPingerStatuses(stats map[string]*pinger.Statistics) map[string]pingerStatus {
	out := make(map[string]pingerStatus, len(stats))

	for name, st := range stats {
		ps := pingerStatus{
			Ready:        st.IsReady,
			Healthy:      st.IsHealthy,
			LastRun:      st.LastRun,
			LatencyMs:    float64(st.LastLatency) / float64(time.Millisecond),
			SuccessCount: st.SuccessCount,
			ErrorCount:   st.ErrorCount,
		}

		if st.LastError != nil {
			ps.LastError = st.LastError.Error()
		}

		out[name] = ps
	}

	return out
}

func toScheduleStatuses(schedules map[string]Schedule) map[string]scheduleStatus {
	out := make(map[string]scheduleStatus, len(schedules))

	for name, sc := range schedules {
		out[name] = scheduleStatus{
			LastRunAt: timeOrNil(sc.LastRunAt),
			NextRunAt: timeOrNil(sc.NextRunAt),
		}
	}

	return out
}

func timeOrNil(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}

	return &t
}
