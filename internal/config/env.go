package config

import "time"

// Env key constants. The demo-app keys mirror what the Deployment manifest
// injects through the downward API; duration values support explicit units (e.g. 10s, 1m).

// Port for the demo HTTP server (/, /health, /ready, /api/*).
const (
	envKeyPort  = "PORT"
	defaultPort = "3000"
)

// Deployment environment name shown on the info page.
const (
	envKeyEnvironment  = "NODE_ENV"
	defaultEnvironment = "development"
)

// Downward API values. Each falls back to Unknown.
const (
	envKeyPodName      = "POD_NAME"
	envKeyPodNamespace = "POD_NAMESPACE"
	envKeyPodIP        = "POD_IP"
)

// Log level: debug, info, warn, error.
const envKeyLogLevel = "LOG_LEVEL"

// Log format: json or text.
const envKeyLogFormat = "LOG_FORMAT"

// Port for Prometheus metrics (GET /metrics).
const (
	envKeyMetricsPort  = "METRICS_PORT"
	defaultMetricsPort = "9090"
)

// Pinger check interval. Units: s, m, h (e.g. 10s, 1m).
const (
	envKeyPingerInterval     = "PINGER_INTERVAL"
	defaultPingerInterval    = "10s"
	envMinPingerInterval     = time.Second
	envKeyReportSchedule     = "REPORT_SCHEDULE"
	defaultReportSchedule    = "*/5 * * * *"
	envKeyReportTZ           = "REPORT_TZ"
	envKeyCORSAllowedOrigins = "CORS_ALLOWED_ORIGINS"
	defaultCORSOrigins       = "*"
)

// Presence of this file at startup aborts the process.
const (
	envKeyTerminationFile  = "TERMINATION_FILE"
	defaultTerminationFile = "/mnt/signal/terminating"
)

// Standard k8s env keys for /api/pod lookups. In-cluster config is used when both are unset.
const (
	envKeyKubeConfig = "KUBECONFIG"
	envKeyKubeMaster = "KUBERNETES_MASTER"
)

// Unknown is the value reported for pod fields the downward API did not provide.
const Unknown = "unknown"

const maxPort = 65535
