package reporter_test

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/skillcoder/demo-app/internal/infra/clock"
	"github.com/skillcoder/demo-app/internal/infra/cronparser"
	"github.com/skillcoder/demo-app/internal/logic/podinfo"
	"github.com/skillcoder/demo-app/internal/logic/reporter"
)

type countingCollector struct {
	calls atomic.Int64
}

func (c *countingCollector) Collect(context.Context) podinfo.PodInfo {
	c.calls.Add(1)

	return podinfo.PodInfo{PodName: "demo-7c9f", Memory: podinfo.Memory{RSS: 1 << 20}}
}

var giveNow = time.Date(2026, 10, 19, 8, 1, 30, 0, time.UTC)

// everyTick schedules the next run a fixed delay after `after`.
type everyTick time.Duration

func (everyTick) Validate(_, _ string) error { return nil }

func (d everyTick) NextAfter(_, _ string, after time.Time) (time.Time, error) {
	return after.Add(time.Duration(d)), nil
}

type brokenParser struct{}

func (brokenParser) Validate(spec, _ string) error { return errors.New("bad spec " + spec) }

func (brokenParser) NextAfter(spec, _ string, _ time.Time) (time.Time, error) {
	return time.Time{}, errors.New("bad spec " + spec)
}

func TestService_ReportCommand(t *testing.T) {
	t.Parallel()

	collector := &countingCollector{}
	svc := reporter.New(slog.Default(), clock.NewFixed(giveNow), collector, cronparser.New(), "*/5 * * * *", "")

	require.True(t, svc.LastRunAt().IsZero())

	svc.ReportCommand(t.Context())

	require.EqualValues(t, 1, collector.calls.Load())
	require.Equal(t, giveNow, svc.LastRunAt())
}

func TestService_StartRunsOnSchedule(t *testing.T) {
	t.Parallel()

	collector := &countingCollector{}
	svc := reporter.New(slog.Default(), clock.NewFixed(giveNow), collector, everyTick(20*time.Millisecond), "@tick", "")

	ctx, cancel := context.WithCancel(t.Context())
	defer cancel()

	require.Error(t, svc.Ping(ctx))
	require.NoError(t, svc.Start(ctx))

	select {
	case <-svc.Ready():
	case <-time.After(time.Second):
		t.Fatal("reporter did not become ready")
	}

	require.NoError(t, svc.Ping(ctx))
	require.Equal(t, giveNow.Add(20*time.Millisecond), svc.NextRunAt())

	require.Eventually(t, func() bool {
		return collector.calls.Load() >= 3
	}, 2*time.Second, 10*time.Millisecond)

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), time.Second)
	defer shutdownCancel()

	require.NoError(t, svc.Shutdown(shutdownCtx))
	require.ErrorIs(t, svc.Ping(shutdownCtx), reporter.ErrNotRunning)
}

func TestService_StartRejectsInvalidSchedule(t *testing.T) {
	t.Parallel()

	svc := reporter.New(slog.Default(), clock.NewFixed(giveNow), &countingCollector{}, brokenParser{}, "nope", "")

	require.ErrorIs(t, svc.Start(t.Context()), reporter.ErrInvalidSchedule)
	require.NoError(t, svc.Shutdown(t.Context()))
}

func TestService_Metadata(t *testing.T) {
	t.Parallel()

	svc := reporter.New(slog.Default(), clock.NewSystem(), &countingCollector{}, cronparser.New(), "@hourly", "UTC")

	require.Equal(t, "runtime-reporter", svc.Name())
	require.False(t, svc.PingerReadyCritical())
}

func TestService_NextRunFollowsClock(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		giveSpec string
		giveTZ   string
		wantNext time.Time
	}{
		{
			name:     "every five minutes",
			giveSpec: "*/5 * * * *",
			wantNext: time.Date(2026, 10, 19, 8, 5, 0, 0, time.UTC),
		},
		{
			name:     "hourly",
			giveSpec: "@hourly",
			wantNext: time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC),
		},
		{
			name:     "daily in a zone",
			giveSpec: "0 9 * * *",
			giveTZ:   "Europe/Berlin",
			wantNext: time.Date(2026, 10, 20, 7, 0, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			ctx, cancel := context.WithCancel(t.Context())

			svc := reporter.New(slog.Default(), clock.NewFixed(giveNow), &countingCollector{}, cronparser.New(), tt.giveSpec, tt.giveTZ)
			require.NoError(t, svc.Start(ctx))
			require.True(t, tt.wantNext.Equal(svc.NextRunAt()), svc.NextRunAt().String())

			cancel()
			require.NoError(t, svc.Shutdown(context.Background()))
		})
	}
}
