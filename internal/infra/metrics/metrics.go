package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var httpRequestsTotal = promauto.With(prometheus.DefaultRegisterer).NewCounterVec(
	prometheus.CounterOpts{
		Name: "demoapp_http_requests_total",
		Help: "Total number of HTTP requests served, by route pattern, method and status code.",
	},
	[]string{"route", "method", "code"},
)

var httpRequestDuration = promauto.With(prometheus.DefaultRegisterer).NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "demoapp_http_request_duration_seconds",
		Help:    "HTTP request latency, by route pattern and method.",
		Buckets: prometheus.DefBuckets,
	},
	[]string{"route", "method"},
)

var appInfo = promauto.With(prometheus.DefaultRegisterer).NewGaugeVec(
	prometheus.GaugeOpts{
		Name: "demoapp_info",
		Help: "Static build and deployment information; always 1.",
	},
	[]string{"version", "environment", "pod_name", "pod_namespace"},
)

var reportRunsTotal = promauto.With(prometheus.DefaultRegisterer).NewCounter(
	prometheus.CounterOpts{
		Name: "demoapp_report_runs_total",
		Help: "Total number of scheduled runtime reports written to the log.",
	},
)

// ObserveHTTPRequest records one served request.
func ObserveHTTPRequest(route, method string, code int, duration time.Duration) {
	httpRequestsTotal.WithLabelValues(route, method, strconv.Itoa(code)).Inc()
	httpRequestDuration.WithLabelValues(route, method).Observe(duration.Seconds())
}

// SetAppInfo publishes the demoapp_info series for this process.
func SetAppInfo(version, environment, podName, podNamespace string) {
	appInfo.WithLabelValues(version, environment, podName, podNamespace).Set(1)
}

// RecordReportRun increments the runtime report counter.
func RecordReportRun() {
	reportRunsTotal.Inc()
}
