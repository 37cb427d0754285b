package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollector_CountsByClassAndOutcome(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordResolution("user", "resolved")
	c.RecordResolution("user", "resolved")
	c.RecordResolution("mom", "unauthenticated")
	c.RecordRefresh("user", true)
	c.RecordRefresh("user", false)
	c.RecordLogin("mom", true)
	c.RecordOTPVerification("mom", false)

	assert.Equal(t, 2.0, testutil.ToFloat64(c.resolutions.WithLabelValues("user", "resolved")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.resolutions.WithLabelValues("mom", "unauthenticated")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.refreshes.WithLabelValues("user", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.refreshes.WithLabelValues("user", "fail")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.logins.WithLabelValues("mom", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.otpVerifications.WithLabelValues("mom", "fail")))
}

func TestHandler_ExposesMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)
	c.RecordResolutionLatency("user", 50*time.Millisecond)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	Handler(reg).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "momskitchen_session_resolution_seconds")
}
