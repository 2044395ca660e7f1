package reporter

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/skillcoder/demo-app/internal/infra/clock"
	"github.com/skillcoder/demo-app/internal/infra/metrics"
	"github.com/skillcoder/demo-app/internal/infra/shutdown"
)

// Service writes a runtime snapshot to the log on a cron schedule.
type Service struct {
	logger     *slog.Logger
	clock      clock.Clock
	collector  snapshotter
	parser     scheduleParser
	spec       string
	tz         string
	ready      chan struct{}
	doneCh     chan struct{}
	started    atomic.Bool
	inShutdown atomic.Bool
	mu         sync.RWMutex
	lastRunAt  time.Time
	nextRunAt  time.Time
}

// New creates a reporter for the given cron spec and IANA time zone.
func New(
	logger *slog.Logger,
	clk clock.Clock,
	collector snapshotter,
	parser scheduleParser,
	spec,
	tz string,
) *Service {
	return &Service{
		logger:    logger.With("component", "runtime-reporter"),
		clock:     clk,
		collector: collector,
		parser:    parser,
		spec:      spec,
		tz:        tz,
		ready:     make(chan struct{}),
		doneCh:    make(chan struct{}),
	}
}

var _ shutdown.Shutdowner = (*Service)(nil)

// Name returns the name of the reporter component
func (s *Service) Name() string {
	return "runtime-reporter"
}

// Start validates the schedule and launches the report loop.
func (s *Service) Start(ctx context.Context) error {
	if s.inShutdown.Load() {
		s.logger.InfoContext(ctx, "runtime reporter is shutting down, skipping start")

		return nil
	}

	if err := s.parser.Validate(s.spec, s.tz); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidSchedule, err)
	}

	next, err := s.parser.NextAfter(s.spec, s.tz, s.clock.Now())
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidSchedule, err)
	}

	if !s.started.CompareAndSwap(false, true) {
		return nil
	}

	s.setNextRunAt(next)

	s.logger.InfoContext(ctx, "runtime reporter scheduled",
		"schedule", s.spec,
		"tz", s.tz,
		"nextRunAt", next,
	)

	go s.run(ctx, next)

	return nil
}

// Ready returns a channel that is closed once the loop is running.
func (s *Service) Ready() <-chan struct{} {
	return s.ready
}

// Ping fails when the loop has exited.
func (s *Service) Ping(ctx context.Context) error {
	select {
	case <-s.doneCh:
		return ErrNotRunning
	default:
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-s.ready:
		return nil
	default:
		return ErrNotRunning
	}
}

// PingerReadyCritical keeps a stopped reporter from pulling the pod out of rotation.
func (s *Service) PingerReadyCritical() bool {
	return false
}

// Shutdown waits for the report loop to exit.
func (s *Service) Shutdown(ctx context.Context) error {
	if !s.inShutdown.CompareAndSwap(false, true) {
		s.logger.ErrorContext(ctx, "runtime reporter is already shutting down, skipping shutdown")

		return nil
	}

	defer s.logger.InfoContext(ctx, "runtime reporter shut downed")

	if !s.started.Load() {
		return nil
	}

	select {
	case <-ctx.Done():
		return fmt.Errorf("shutdown context done before report loop exited: %w", ctx.Err())
	case <-s.doneCh:
	}

	return nil
}

// ReportCommand logs one snapshot immediately.
func (s *Service) ReportCommand(ctx context.Context) {
	info := s.collector.Collect(ctx)

	s.logger.InfoContext(ctx, "runtime report",
		"podName", info.PodName,
		"podNamespace", info.PodNamespace,
		"hostname", info.Hostname,
		"uptime", info.UptimeSeconds,
		"rss", info.Memory.RSS,
		"heapUsed", info.Memory.HeapUsed,
		"heapTotal", info.Memory.HeapTotal,
		"numGC", info.Memory.NumGC,
	)

	metrics.RecordReportRun()

	s.mu.Lock()
	s.lastRunAt = s.clock.Now()
	s.mu.Unlock()
}

// LastRunAt returns when the last report was written, or the zero time.
func (s *Service) LastRunAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.lastRunAt
}

// NextRunAt returns the next scheduled report time.
func (s *Service) NextRunAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.nextRunAt
}

func (s *Service) setNextRunAt(next time.Time) {
	s.mu.Lock()
	s.nextRunAt = next
	s.mu.Unlock()
}

func (s *Service) run(ctx context.Context, next time.Time) {
	defer close(s.doneCh)

	close(s.ready)

	timer := time.NewTimer(s.untilNext(next))
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.InfoContext(ctx, "terminating report loop")

			return
		case <-timer.C:
		}

		if s.inShutdown.Load() {
			return
		}

		s.ReportCommand(ctx)

		var err error

		next, err = s.parser.NextAfter(s.spec, s.tz, s.clock.Now())
		if err != nil {
			s.logger.ErrorContext(ctx, "failed to compute next report time", "reason", err)

			return
		}

		s.setNextRunAt(next)
		timer.Reset(s.untilNext(next))
	}
}

func (s *Service) untilNext(next time.Time) time.Duration {
	return max(next.Sub(s.clock.Now()), 0)
}
