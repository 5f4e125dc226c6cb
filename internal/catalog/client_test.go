package catalog

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/bazaarhq/marketplace/internal/domain"
)

func TestClientGetMany(t *testing.T) {
	var gotIDs []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/product/many", r.URL.Path)
		var req manyRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		gotIDs = req.ProductIDs

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"status": 200,
			"data":   []domain.Product{{ID: "prod-1", Name: "Lamp", Price: 1999, QuantityAvailable: 3}},
		})
	}))
	defer srv.Close()

	products, err := NewClient(srv.URL, time.Second, zap.NewNop()).GetMany(context.Background(), []string{"prod-1", "prod-2"})
	require.NoError(t, err)
	assert.Equal(t, []string{"prod-1", "prod-2"}, gotIDs)
	require.Len(t, products, 1)
	assert.Equal(t, int64(1999), products[0].Price)
}

func TestClientGetManySkipsEmptyLookup(t *testing.T) {
	products, err := NewClient("http://127.0.0.1:0", time.Second, nil).GetMany(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, products)
}

func TestClientGetManyFailures(t *testing.T) {
	cases := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{"server error", func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}},
		{"garbage body", func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte("<html>"))
		}},
		{"embedded failure status", func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`{"status":400,"data":null}`))
		}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(tc.handler)
			defer srv.Close()

			_, err := NewClient(srv.URL, time.Second, zap.NewNop()).GetMany(context.Background(), []string{"prod-1"})
			assert.ErrorIs(t, err, ErrUnavailable)
		})
	}

	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()
	_, err := NewClient(srv.URL, time.Second, zap.NewNop()).GetMany(context.Background(), []string{"prod-1"})
	assert.ErrorIs(t, err, ErrUnavailable)
}
