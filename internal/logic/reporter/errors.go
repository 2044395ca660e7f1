package reporter

import "errors"

var (
	ErrInvalidSchedule = errors.New("invalid report schedule")
	ErrNotRunning      = errors.New("report loop is not running")
)
