package loadgen

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecorderSummary(t *testing.T) {
	rec := NewRecorder(800 * time.Millisecond)
	for i := 1; i <= 100; i++ {
		rec.Record(Result{Endpoint: "getAllProducts", Status: 200, Latency: time.Duration(i) * 10 * time.Millisecond})
	}
	rec.Record(Result{Endpoint: "login", Status: 401, Latency: 5 * time.Millisecond})
	rec.Record(Result{Endpoint: "login", Err: errors.New("connection refused")})

	s := rec.Summary()
	assert.Equal(t, 102, s.Requests)
	assert.Equal(t, 2, s.Failures)
	// 21 requests took 800ms or more, plus the two failures.
	assert.Equal(t, 23, s.CheckFailures)
	assert.InDelta(t, 2.0/102, s.ErrorRate, 1e-9)
	assert.Equal(t, 950*time.Millisecond, s.P95)
	assert.Equal(t, map[string]int{"getAllProducts": 100, "login": 2}, s.ByEndpoint)
}

func TestRecorderEmpty(t *testing.T) {
	s := NewRecorder(0).Summary()
	assert.Zero(t, s.Requests)
	assert.Zero(t, s.ErrorRate)
	assert.Zero(t, s.P95)
	assert.Empty(t, DefaultThresholds().Evaluate(s))
}

func TestThresholdsEvaluate(t *testing.T) {
	th := DefaultThresholds()

	assert.Empty(t, th.Evaluate(Summary{ErrorRate: 0.05, P95: 300 * time.Millisecond}))

	breaches := th.Evaluate(Summary{ErrorRate: 0.10, P95: 800 * time.Millisecond})
	require.Len(t, breaches, 2)
	assert.Equal(t, "error_rate", breaches[0].Metric)
	assert.Equal(t, "p95", breaches[1].Metric)
	assert.Contains(t, breaches[1].String(), "800ms")

	assert.Empty(t, Thresholds{}.Evaluate(Summary{ErrorRate: 1, P95: time.Hour}))
}
