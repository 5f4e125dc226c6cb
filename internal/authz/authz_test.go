package authz

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/bazaarhq/marketplace/internal/domain"
)

func strPtr(s string) *string { return &s }

func testIdentity(id string) *domain.Identity {
	return &domain.Identity{
		ID:          strPtr(id),
		Username:    "user1",
		Email:       "user1@example.com",
		FullName:    strPtr("User One"),
		Address:     nil,
		PhoneNumber: strPtr("0812345678"),
	}
}

// fakeAuthService mimics the auth service verify endpoints.
type fakeAuthService struct {
	identity   *domain.Identity
	validToken string
	adminToken string
	calls      atomic.Int32
	paths      chan string
}

func newFakeAuthService(identity *domain.Identity) *fakeAuthService {
	return &fakeAuthService{
		identity:   identity,
		validToken: "good-token",
		adminToken: "admin-token",
		paths:      make(chan string, 16),
	}
}

func (f *fakeAuthService) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.calls.Add(1)
	select {
	case f.paths <- r.URL.Path:
	default:
	}

	var req verifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	ok := req.Token == f.adminToken
	if r.URL.Path == "/auth/verify" {
		ok = ok || req.Token == f.validToken
	}

	w.Header().Set("Content-Type", "application/json")
	if !ok {
		_ = json.NewEncoder(w).Encode(map[string]any{"status": 401, "message": "Invalid token"})
		return
	}
	_ = json.NewEncoder(w).Encode(map[string]any{
		"status": 200,
		"data":   map[string]any{"user": f.identity},
	})
}

func tenantHandler(tenantID, ownerID string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/tenant/"+tenantID {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusNotFound)
			_ = json.NewEncoder(w).Encode(map[string]any{"status": 404, "message": "Tenant not found"})
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"status": 200,
			"data": map[string]any{
				"tenants":       map[string]any{"id": tenantID, "owner_id": ownerID},
				"tenantDetails": map[string]any{"id": "detail-1", "tenant_id": tenantID, "name": "Tenant One"},
			},
		})
	}
}

func TestAuthClientVerify(t *testing.T) {
	auth := newFakeAuthService(testIdentity("u1"))
	srv := httptest.NewServer(auth)
	defer srv.Close()

	client := NewAuthClient(srv.URL+"/auth", time.Second, zap.NewNop())

	t.Run("valid token", func(t *testing.T) {
		identity, err := client.Verify(context.Background(), "good-token", false)
		require.NoError(t, err)
		assert.Equal(t, auth.identity, identity)
		assert.Equal(t, "/auth/verify", <-auth.paths)
	})

	t.Run("admin endpoint", func(t *testing.T) {
		_, err := client.Verify(context.Background(), "good-token", true)
		assert.ErrorIs(t, err, ErrInvalidCredential)
		assert.Equal(t, "/auth/verify-admin", <-auth.paths)

		identity, err := client.Verify(context.Background(), "admin-token", true)
		require.NoError(t, err)
		assert.Equal(t, "u1", identity.UserID())
		<-auth.paths
	})

	t.Run("rejected token", func(t *testing.T) {
		_, err := client.Verify(context.Background(), "bad-token", false)
		assert.ErrorIs(t, err, ErrInvalidCredential)
		<-auth.paths
	})

	t.Run("empty token makes no call", func(t *testing.T) {
		before := auth.calls.Load()
		_, err := client.Verify(context.Background(), "", false)
		assert.ErrorIs(t, err, ErrMissingToken)
		assert.Equal(t, before, auth.calls.Load())
	})

	t.Run("idempotent", func(t *testing.T) {
		first, err := client.Verify(context.Background(), "good-token", false)
		require.NoError(t, err)
		<-auth.paths
		second, err := client.Verify(context.Background(), "good-token", false)
		require.NoError(t, err)
		<-auth.paths
		assert.Equal(t, first, second)
	})
}

func TestAuthClientTransportFailures(t *testing.T) {
	cases := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{"http 500", func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}},
		{"malformed body", func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte("{not json"))
		}},
		{"missing user", func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`{"status":200,"data":{}}`))
		}},
		{"slow", func(w http.ResponseWriter, _ *http.Request) {
			time.Sleep(300 * time.Millisecond)
			_, _ = w.Write([]byte(`{"status":200,"data":{"user":{"id":"u1"}}}`))
		}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(tc.handler)
			defer srv.Close()

			client := NewAuthClient(srv.URL, 100*time.Millisecond, zap.NewNop())
			_, err := client.Verify(context.Background(), "good-token", false)
			assert.ErrorIs(t, err, ErrInvalidCredential)
		})
	}

	t.Run("connection refused", func(t *testing.T) {
		srv := httptest.NewServer(http.NotFoundHandler())
		url := srv.URL
		srv.Close()

		client := NewAuthClient(url, 100*time.Millisecond, zap.NewNop())
		_, err := client.Verify(context.Background(), "good-token", false)
		assert.ErrorIs(t, err, ErrInvalidCredential)
	})
}

func TestTenantClientResolve(t *testing.T) {
	srv := httptest.NewServer(tenantHandler("tenant-1", "u1"))
	defer srv.Close()

	client := NewTenantClient(srv.URL, time.Second, zap.NewNop())

	record, err := client.Resolve(context.Background(), "tenant-1")
	require.NoError(t, err)
	assert.Equal(t, "u1", record.Tenant.OwnerID)
	assert.Equal(t, record.Tenant.ID, record.Detail.TenantID)
	assert.Equal(t, "Tenant One", record.Detail.Name)

	_, err = client.Resolve(context.Background(), "tenant-2")
	assert.ErrorIs(t, err, ErrDependencyUnavailable)

	_, err = client.Resolve(context.Background(), "")
	assert.ErrorIs(t, err, ErrDependencyUnavailable)
}

func TestTenantClientRejectsInconsistentRecord(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"status":200,"data":{"tenants":{"id":"t1","owner_id":"u1"},"tenantDetails":{"id":"d1","tenant_id":"t2","name":"x"}}}`))
	}))
	defer srv.Close()

	client := NewTenantClient(srv.URL, time.Second, zap.NewNop())
	_, err := client.Resolve(context.Background(), "t1")
	assert.ErrorIs(t, err, ErrDependencyUnavailable)
}
