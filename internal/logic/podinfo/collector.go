package podinfo

import (
	"context"
	"log/slog"
	"os"
	"runtime"
	"time"

	"github.com/skillcoder/demo-app/internal/infra/clock"
)

// Collector assembles PodInfo snapshots from the downward API identity and live process state.
type Collector struct {
	logger    *slog.Logger
	identity  Identity
	startedAt time.Time
	clock     clock.Clock
	memory    memoryReader
	hostname  func() (string, error)
}

// New creates a collector. startedAt is the process start used for uptime.
func New(
	logger *slog.Logger,
	identity Identity,
	startedAt time.Time,
	clk clock.Clock,
) *Collector {
	return &Collector{
		logger:    logger,
		identity:  identity,
		startedAt: startedAt,
		clock:     clk,
		memory:    runtimeMemoryReader{},
		hostname:  os.Hostname,
	}
}

// Collect returns a new PodInfo for the current instant.
func (c *Collector) Collect(ctx context.Context) PodInfo {
	now := c.clock.Now()

	return PodInfo{
		Hostname:       c.readHostname(ctx),
		Platform:       runtime.GOOS,
		RuntimeVersion: runtime.Version(),
		Environment:    c.identity.Environment,
		Timestamp:      FormatTimestamp(now),
		UptimeSeconds:  c.uptimeAt(now).Seconds(),
		Memory:         c.memory.ReadMemory(),
		PodName:        c.identity.PodName,
		PodNamespace:   c.identity.PodNamespace,
		PodIP:          c.identity.PodIP,
	}
}

// Health returns the liveness body. It never reports anything but healthy.
func (c *Collector) Health() HealthStatus {
	now := c.clock.Now()

	return HealthStatus{
		Status:    StatusHealthy,
		Timestamp: FormatTimestamp(now),
		Uptime:    c.uptimeAt(now).Seconds(),
	}
}

// Ready returns the readiness body. It never reports anything but ready.
func (c *Collector) Ready() ReadyStatus {
	return ReadyStatus{
		Status:    StatusReady,
		Timestamp: FormatTimestamp(c.clock.Now()),
	}
}

// Now returns the collector's current time.
func (c *Collector) Now() time.Time {
	return c.clock.Now()
}

// Uptime returns the time since process start, never negative.
func (c *Collector) Uptime() time.Duration {
	return c.uptimeAt(c.clock.Now())
}

func (c *Collector) uptimeAt(now time.Time) time.Duration {
	uptime := now.Sub(c.startedAt)
	if uptime < 0 {
		return 0
	}

	return uptime
}

func (c *Collector) readHostname(ctx context.Context) string {
	hostname, err := c.hostname()
	if err != nil || hostname == "" {
		c.logger.WarnContext(ctx, "failed to read hostname", "error", err)

		return unknownHostname
	}

	return hostname
}

// FormatTimestamp renders t in UTC with millisecond precision.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}
