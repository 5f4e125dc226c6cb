package loadgen

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestRunnerRecordsTraffic(t *testing.T) {
	var withToken, withoutToken atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") == "Bearer secret" {
			withToken.Add(1)
		} else {
			withoutToken.Add(1)
		}
		if r.URL.Path == "/product/id123" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	runner, err := NewRunner(Options{
		Stages: []Stage{
			{Duration: 200 * time.Millisecond, Target: 3},
			{Duration: 50 * time.Millisecond, Target: 0},
		},
		Endpoints: []Endpoint{
			{Name: "list", Method: http.MethodGet, Service: ServiceProducts, Path: "/product", Weight: 3},
			{Name: "get", Method: http.MethodGet, Service: ServiceProducts, Path: "/product/{id}", Weight: 1},
		},
		BaseURLs:  BaseURLs{ServiceProducts: srv.URL},
		Lambda:    200,
		Token:     "secret",
		SlowAfter: 800 * time.Millisecond,
		Seed:      1,
		Logger:    zap.NewNop(),
	})
	require.NoError(t, err)

	summary, err := runner.Run(context.Background())
	require.NoError(t, err)

	assert.Greater(t, summary.Requests, 0)
	assert.Equal(t, summary.Requests, summary.ByEndpoint["list"]+summary.ByEndpoint["get"])
	assert.Equal(t, summary.ByEndpoint["get"], summary.Failures)
	assert.Equal(t, int32(summary.Requests), withToken.Load())
	assert.Zero(t, withoutToken.Load())
}

func TestRunnerCountsTransportErrors(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	runner, err := NewRunner(Options{
		Stages:    []Stage{{Duration: 100 * time.Millisecond, Target: 1}},
		Endpoints: []Endpoint{{Name: "list", Method: http.MethodGet, Service: ServiceProducts, Path: "/product"}},
		BaseURLs:  BaseURLs{ServiceProducts: url},
		Lambda:    100,
	})
	require.NoError(t, err)

	summary, err := runner.Run(context.Background())
	require.NoError(t, err)
	require.Greater(t, summary.Requests, 0)
	assert.Equal(t, summary.Requests, summary.Failures)
	assert.Equal(t, 1.0, summary.ErrorRate)
}

func TestRunnerStopsOnCancel(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	runner, err := NewRunner(Options{
		Stages:    []Stage{{Duration: time.Hour, Target: 2}},
		Endpoints: []Endpoint{{Name: "list", Method: http.MethodGet, Service: ServiceProducts, Path: "/product"}},
		BaseURLs:  BaseURLs{ServiceProducts: srv.URL},
		Lambda:    50,
	})
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err = runner.Run(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), 5*time.Second)
}

func TestRunnerCapsRequestsAtStageLength(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-release:
		}
	}))
	defer srv.Close()
	defer close(release)

	runner, err := NewRunner(Options{
		Stages:         []Stage{{Duration: 100 * time.Millisecond, Target: 2}},
		Endpoints:      []Endpoint{{Name: "list", Method: http.MethodGet, Service: ServiceProducts, Path: "/product"}},
		BaseURLs:       BaseURLs{ServiceProducts: srv.URL},
		Lambda:         1000,
		RequestTimeout: 10 * time.Second,
	})
	require.NoError(t, err)

	start := time.Now()
	summary, err := runner.Run(context.Background())
	require.NoError(t, err)

	assert.Less(t, time.Since(start), 2*time.Second)
	require.Greater(t, summary.Requests, 0)
	assert.Equal(t, summary.Requests, summary.Failures)
}

func TestNewRunnerValidates(t *testing.T) {
	_, err := NewRunner(Options{Stages: []Stage{{Duration: time.Second, Target: 1}}})
	assert.ErrorIs(t, err, ErrNoEndpoints)

	_, err = NewRunner(Options{Endpoints: DefaultEndpoints()})
	assert.Error(t, err)

	_, err = NewRunner(Options{
		Stages:    []Stage{{Duration: time.Second, Target: 1}},
		Endpoints: DefaultEndpoints(),
		BaseURLs:  BaseURLs{ServiceAuth: "http://localhost:5001"},
	})
	assert.Error(t, err)
}
