package observability

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetricsRecordAuthorization(t *testing.T) {
	m := NewMetrics("products")

	m.RecordAuthorization("authorized", 10*time.Millisecond)
	m.RecordAuthorization("OWNERSHIP_MISMATCH", 20*time.Millisecond)
	m.RecordAuthorization("authorized", 5*time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.authzDecisions.WithLabelValues("authorized")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.authzDecisions.WithLabelValues("OWNERSHIP_MISMATCH")))
}

func TestMetricsRecordRequest(t *testing.T) {
	m := NewMetrics("tenant")

	m.RecordRequest("/tenant/:tenant_id", "GET", 200, time.Millisecond)
	m.RecordError("/tenant", "POST", "UNAUTHORIZED")

	assert.Equal(t, 1.0, testutil.ToFloat64(m.requestCount.WithLabelValues("GET", "/tenant/:tenant_id", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.errorCount.WithLabelValues("POST", "/tenant", "UNAUTHORIZED")))
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics

	assert.NotPanics(t, func() {
		m.RecordRequest("/", "GET", 200, time.Millisecond)
		m.RecordError("/", "GET", "X")
		m.RecordAuthorization("authorized", time.Millisecond)
		m.RecordTenantEvent("tenant_created")
	})
}
