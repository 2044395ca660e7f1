package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestObserveHTTPRequest(t *testing.T) {
	counter := httpRequestsTotal.WithLabelValues("/api/info", "GET", "200")
	before := testutil.ToFloat64(counter)

	ObserveHTTPRequest("/api/info", "GET", 200, 15*time.Millisecond)
	ObserveHTTPRequest("/api/info", "GET", 200, 5*time.Millisecond)

	require.InDelta(t, before+2, testutil.ToFloat64(counter), 0)
	require.Equal(t, 1, testutil.CollectAndCount(httpRequestDuration, "demoapp_http_request_duration_seconds"))
}

func TestSetAppInfo(t *testing.T) {
	SetAppInfo("go1.25.0", "test", "demo", "apps")

	require.InDelta(t, 1, testutil.ToFloat64(appInfo.WithLabelValues("go1.25.0", "test", "demo", "apps")), 0)
}

func TestRecordReportRun(t *testing.T) {
	before := testutil.ToFloat64(reportRunsTotal)

	RecordReportRun()

	require.InDelta(t, before+1, testutil.ToFloat64(reportRunsTotal), 0)
}
