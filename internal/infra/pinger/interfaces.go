package pinger

import (
	"context"
	"time"
)

// Pinger is a component whose liveness is checked on every round.
type Pinger interface {
	Name() string
	Ping(ctx context.Context) error
}

// A Pinger is health and ready critical by default and gets defaultPingTimeout.
// The optional interfaces below override that per component.

type readyCriticalPinger interface {
	PingerReadyCritical() bool
}

type healthCriticalPinger interface {
	PingerCritical() bool
}

type timeoutPinger interface {
	PingerTimeout() time.Duration
}
