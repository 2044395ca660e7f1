package appstate

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"slices"
	"sync"
	"syscall"
	"time"

	"github.com/skillcoder/demo-app/internal/infra/clock"
	"github.com/skillcoder/demo-app/internal/infra/pinger"
	"github.com/skillcoder/demo-app/internal/infra/shutdown"
)

// State is a lifecycle phase of the process.
// Transitions only move forward: init, starting, running, terminating, terminated.
type State string

const (
	StateInit        State = "init"
	StateStarting    State = "starting"
	StateRunning     State = "running"
	StateTerminating State = "terminating"
	StateTerminated  State = "terminated"
)

const defaultShutdownersCount = 10

// AppState tracks the process lifecycle and owns the components to stop on exit.
// It is safe for concurrent use.
type AppState struct {
	mu                  sync.RWMutex
	logger              *slog.Logger
	clock               clock.Clock
	startedAt           time.Time
	readyAt             *time.Time
	terminatingAt       *time.Time
	state               State
	quit                <-chan os.Signal
	terminationFilePath string
	pinger              pingerServer
	shutdowners         []shutdown.Shutdowner
	schedules           []Scheduled
}

// Schedule is the last and next run of a scheduled job.
type Schedule struct {
	LastRunAt time.Time
	NextRunAt time.Time
}

// New creates an AppState in the init phase. appStart is the process start used for uptime.
func New(
	logger *slog.Logger,
	clk clock.Clock,
	appStart time.Time,
	terminationFilePath string,
	quit <-chan os.Signal,
	pinger pingerServer,
) *AppState {
	return &AppState{
		logger:              logger,
		clock:               clk,
		startedAt:           appStart,
		state:               StateInit,
		quit:                quit,
		terminationFilePath: terminationFilePath,
		pinger:              pinger,
		shutdowners:         make([]shutdown.Shutdowner, 0, defaultShutdownersCount),
	}
}

func (s *AppState) RegisterPinger(pinger pinger.Pinger) error {
	return s.pinger.Register(pinger)
}

// RegisterShutdowner appends a component; components are shut down in reverse registration order.
func (s *AppState) RegisterShutdowner(shutdowner shutdown.Shutdowner) error {
	if shutdowner == nil {
		return fmt.Errorf("register shutdowner: %w", ErrNilShutdowner)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.shutdowners = append(s.shutdowners, shutdowner)

	return nil
}

// RegisterScheduled adds a job whose run times are reported by /-/status.
func (s *AppState) RegisterScheduled(job Scheduled) error {
	if job == nil {
		return fmt.Errorf("register scheduled job: %w", ErrNilScheduled)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.schedules = append(s.schedules, job)

	return nil
}

// GetSchedules returns run times of registered jobs keyed by name.
func (s *AppState) GetSchedules() map[string]Schedule {
	s.mu.RLock()
	jobs := slices.Clone(s.schedules)
	s.mu.RUnlock()

	out := make(map[string]Schedule, len(jobs))
	for _, job := range jobs {
		out[job.Name()] = Schedule{
			LastRunAt: job.LastRunAt(),
			NextRunAt: job.NextRunAt(),
		}
	}

	return out
}

func (s *AppState) GetAllStats() map[string]*pinger.Statistics {
	return s.pinger.GetAllStats()
}

// SetStarting transitions the state from Init to Starting
func (s *AppState) SetStarting(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateInit {
		return fmt.Errorf("set starting: %w", ErrInvalidStateTransition)
	}

	return s.setState(StateStarting)
}

// SetRunning transitions the state from Starting to Running
func (s *AppState) SetRunning(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	defer func() {
		// the orchestrator may have asked us to stop while we were starting
		if shutdown.CheckTerminationFile(ctx, s.logger, s.terminationFilePath) {
			pid := os.Getpid()
			s.logger.InfoContext(ctx, "termination file found after initialization, sending SIGTERM",
				"pid", pid,
			)

			killErr := syscall.Kill(pid, syscall.SIGTERM)
			if killErr != nil {
				s.logger.ErrorContext(ctx, "failed to send SIGTERM",
					"error", killErr,
					"pid", pid,
				)
			}
		}
	}()

	if s.state != StateStarting {
		return fmt.Errorf("set running: %w", ErrInvalidStateTransition)
	}

	now := s.clock.Now()
	s.readyAt = &now

	return s.setState(StateRunning)
}

// SetTerminating transitions the state to Terminating
func (s *AppState) SetTerminating(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StateTerminated {
		return fmt.Errorf("set terminating: %w", ErrAlreadyTerminated)
	}

	now := s.clock.Now()
	s.terminatingAt = &now

	return s.setState(StateTerminating)
}

// setState is an internal method to set the state
func (s *AppState) setState(newState State) error {
	if s.state == StateTerminated {
		return fmt.Errorf("set state: %w", ErrAlreadyTerminated)
	}

	s.state = newState

	return nil
}

func (s *AppState) GetState() State {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.state
}

func (s *AppState) GetStartTime() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.startedAt
}

// GetUptime returns the time since process start, never negative.
func (s *AppState) GetUptime() time.Duration {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return max(s.clock.Now().Sub(s.startedAt), 0)
}

// IsHealthy reports whether the application is running and every health-critical pinger passes.
func (s *AppState) IsHealthy() bool {
	s.mu.RLock()
	running := s.state == StateRunning
	s.mu.RUnlock()

	if !running {
		return false
	}

	for _, st := range s.pinger.GetAllStats() {
		if !st.IsHealthy {
			return false
		}
	}

	return true
}

// IsReady reports whether the application finished starting and every ready-critical pinger passes.
func (s *AppState) IsReady() bool {
	s.mu.RLock()
	ready := s.state == StateRunning && s.readyAt != nil
	s.mu.RUnlock()

	if !ready {
		return false
	}

	for _, st := range s.pinger.GetAllStats() {
		if !st.IsReady {
			return false
		}
	}

	return true
}

// GetReadyAt returns when the application became ready, or the zero time.
func (s *AppState) GetReadyAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.readyAt == nil {
		return time.Time{}
	}

	return *s.readyAt
}

// Quit returns the channel that will receive the signal when shutdown is requested
func (s *AppState) Quit() <-chan os.Signal {
	return s.quit
}

// Shutdown stops registered components and moves to the terminated state. Repeated calls are no-ops.
func (s *AppState) Shutdown(ctx context.Context) error {
	if s.GetState() == StateTerminated {
		return nil
	}

	if err := s.SetTerminating(ctx); err != nil {
		return fmt.Errorf("set terminating application state: %w", err)
	}

	s.mu.RLock()
	shutdowners := slices.Clone(s.shutdowners)
	s.mu.RUnlock()

	shutdownErr := shutdown.GracefulShutdown(ctx, s.logger, shutdowners)

	s.mu.Lock()
	defer s.mu.Unlock()

	s.state = StateTerminated

	if shutdownErr != nil {
		return fmt.Errorf("shutdown: %w", shutdownErr)
	}

	return nil
}
