package reporter

import (
	"context"
	"time"

	"github.com/skillcoder/demo-app/internal/logic/podinfo"
)

type snapshotter interface {
	Collect(ctx context.Context) podinfo.PodInfo
}

type scheduleParser interface {
	Validate(spec, tz string) error
	NextAfter(spec, tz string, after time.Time) (time.Time, error)
}
