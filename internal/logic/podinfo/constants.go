package podinfo

const (
	StatusHealthy = "healthy"
	StatusReady   = "ready"

	// TimestampLayout matches JavaScript's Date.prototype.toISOString.
	TimestampLayout = "2006-01-02T15:04:05.000Z"

	unknownHostname = "unknown"
)
