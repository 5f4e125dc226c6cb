package authz

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/bazaarhq/marketplace/internal/domain"
	"github.com/bazaarhq/marketplace/internal/observability"
	apperrors "github.com/bazaarhq/marketplace/pkg/util/errorutil"
)

type stubVerifier struct {
	identity *domain.Identity
	err      error
	calls    atomic.Int32
	admin    atomic.Bool
}

func (s *stubVerifier) Verify(_ context.Context, _ string, admin bool) (*domain.Identity, error) {
	s.calls.Add(1)
	s.admin.Store(admin)
	return s.identity, s.err
}

type stubResolver struct {
	record *domain.TenantOwnership
	err    error
	calls  atomic.Int32
	asked  atomic.Value
}

func (s *stubResolver) Resolve(_ context.Context, tenantID string) (*domain.TenantOwnership, error) {
	s.calls.Add(1)
	s.asked.Store(tenantID)
	return s.record, s.err
}

func ownership(tenantID, ownerID string) *domain.TenantOwnership {
	return &domain.TenantOwnership{
		Tenant: domain.Tenant{ID: tenantID, OwnerID: ownerID},
		Detail: domain.TenantDetail{ID: "d1", TenantID: tenantID, Name: "Tenant One"},
	}
}

func TestPipelineIdentityOnly(t *testing.T) {
	identity := testIdentity("u1")

	cases := []struct {
		name      string
		header    string
		verifier  *stubVerifier
		wantAuth  bool
		reason    Reason
		wantCalls int32
	}{
		{"valid", "Bearer good", &stubVerifier{identity: identity}, true, "", 1},
		{"lowercase scheme", "bearer good", &stubVerifier{identity: identity}, true, "", 1},
		{"no header", "", &stubVerifier{identity: identity}, false, ReasonMissingCredential, 0},
		{"basic scheme", "Basic dXNlcjpwdw==", &stubVerifier{identity: identity}, false, ReasonMissingCredential, 0},
		{"empty token", "Bearer   ", &stubVerifier{identity: identity}, false, ReasonMissingCredential, 0},
		{"rejected", "Bearer bad", &stubVerifier{err: ErrInvalidCredential}, false, ReasonInvalidCredential, 1},
		{"auth service down", "Bearer good", &stubVerifier{err: errors.New("dial tcp: connection refused")}, false, ReasonInvalidCredential, 1},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := NewPipeline(ExtractBearer(), VerifyIdentity(tc.verifier, false))
			decision := p.Authorize(context.Background(), tc.header)

			assert.Equal(t, tc.wantAuth, decision.Authorized())
			assert.Equal(t, tc.wantCalls, tc.verifier.calls.Load())
			if tc.wantAuth {
				assert.Same(t, identity, decision.Identity)
				assert.Nil(t, decision.Denial)
				return
			}
			require.NotNil(t, decision.Denial)
			assert.Nil(t, decision.Identity)
			assert.Equal(t, tc.reason, decision.Denial.Reason)
			assert.Equal(t, http.StatusUnauthorized, decision.Denial.Status)
		})
	}
}

func TestPipelineOwnership(t *testing.T) {
	cases := []struct {
		name          string
		verifier      *stubVerifier
		resolver      *stubResolver
		wantAuth      bool
		reason        Reason
		status        int
		resolverCalls int32
	}{
		{"owner", &stubVerifier{identity: testIdentity("u1")}, &stubResolver{record: ownership("t1", "u1")}, true, "", 0, 1},
		{"not owner", &stubVerifier{identity: testIdentity("u2")}, &stubResolver{record: ownership("t1", "u1")}, false, ReasonOwnershipMismatch, http.StatusUnauthorized, 1},
		{"null identity id", &stubVerifier{identity: &domain.Identity{Username: "ghost"}}, &stubResolver{record: ownership("t1", "u1")}, false, ReasonOwnershipMismatch, http.StatusUnauthorized, 1},
		{"tenant service down", &stubVerifier{identity: testIdentity("u1")}, &stubResolver{err: ErrDependencyUnavailable}, false, ReasonDependencyUnavailable, http.StatusInternalServerError, 1},
		{"invalid token skips tenant lookup", &stubVerifier{err: ErrInvalidCredential}, &stubResolver{record: ownership("t1", "u1")}, false, ReasonInvalidCredential, http.StatusUnauthorized, 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := NewPipeline(
				ExtractBearer(),
				VerifyIdentity(tc.verifier, true),
				ResolveTenant(tc.resolver, "t1"),
				RequireOwner(),
			)
			decision := p.Authorize(context.Background(), "Bearer token")

			assert.Equal(t, tc.wantAuth, decision.Authorized())
			assert.Equal(t, tc.resolverCalls, tc.resolver.calls.Load())
			assert.True(t, tc.verifier.admin.Load())
			if tc.resolverCalls > 0 {
				assert.Equal(t, "t1", tc.resolver.asked.Load())
			}
			if !tc.wantAuth {
				require.NotNil(t, decision.Denial)
				assert.Nil(t, decision.Identity)
				assert.Equal(t, tc.reason, decision.Denial.Reason)
				assert.Equal(t, tc.status, decision.Denial.Status)
			}
		})
	}
}

func TestPipelineWithoutVerificationNeverAuthorizes(t *testing.T) {
	decision := NewPipeline(ExtractBearer()).Authorize(context.Background(), "Bearer token")

	assert.False(t, decision.Authorized())
	assert.Equal(t, ReasonInvalidCredential, decision.Denial.Reason)
}

type handlerResult struct {
	status int
	body   map[string]any
}

func newTestApp(mw *Middleware, reached *atomic.Int32) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			de := apperrors.ToDomainError(err)
			return c.Status(de.HTTPStatus).JSON(fiber.Map{"error": fiber.Map{"code": de.Code, "message": de.Message}})
		},
	})
	app.Post("/product", mw.Handle, func(c *fiber.Ctx) error {
		reached.Add(1)
		identity, ok := IdentityFromContext(c)
		if !ok {
			return fiber.NewError(http.StatusTeapot, "identity missing")
		}
		return c.JSON(fiber.Map{"user": identity})
	})
	return app
}

func doRequest(t *testing.T, app *fiber.App, header string) handlerResult {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/product", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	resp, err := app.Test(req, 5000)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var body map[string]any
	require.NoError(t, json.Unmarshal(raw, &body))
	return handlerResult{status: resp.StatusCode, body: body}
}

func TestIdentityMiddlewareAgainstAuthService(t *testing.T) {
	auth := newFakeAuthService(testIdentity("u1"))
	authSrv := httptest.NewServer(auth)
	defer authSrv.Close()

	var reached atomic.Int32
	mw := NewIdentityMiddleware(Dependencies{
		Verifier: NewAuthClient(authSrv.URL+"/auth", time.Second, zap.NewNop()),
		Logger:   zap.NewNop(),
		Metrics:  observability.NewMetrics("test"),
	})
	app := newTestApp(mw, &reached)

	res := doRequest(t, app, "Bearer good-token")
	require.Equal(t, http.StatusOK, res.status)
	assert.Equal(t, int32(1), reached.Load())

	user := res.body["user"].(map[string]any)
	assert.Equal(t, "u1", user["id"])
	assert.Equal(t, "user1", user["username"])
	assert.Equal(t, "user1@example.com", user["email"])
	assert.Equal(t, "User One", user["full_name"])
	assert.Nil(t, user["address"])
	assert.Equal(t, "0812345678", user["phone_number"])

	res = doRequest(t, app, "")
	assert.Equal(t, http.StatusUnauthorized, res.status)
	assert.Equal(t, "MISSING_CREDENTIAL", res.body["error"].(map[string]any)["code"])

	res = doRequest(t, app, "Bearer bad-token")
	assert.Equal(t, http.StatusUnauthorized, res.status)
	assert.Equal(t, "INVALID_CREDENTIAL", res.body["error"].(map[string]any)["code"])
	assert.Equal(t, int32(1), reached.Load())
}

func TestIdentityMiddlewareAuthServiceDownIs401(t *testing.T) {
	authSrv := httptest.NewServer(http.NotFoundHandler())
	url := authSrv.URL
	authSrv.Close()

	var reached atomic.Int32
	mw := NewIdentityMiddleware(Dependencies{
		Verifier: NewAuthClient(url, 200*time.Millisecond, zap.NewNop()),
	})
	app := newTestApp(mw, &reached)

	res := doRequest(t, app, "Bearer good-token")
	assert.Equal(t, http.StatusUnauthorized, res.status)
	assert.Equal(t, "INVALID_CREDENTIAL", res.body["error"].(map[string]any)["code"])
	assert.Zero(t, reached.Load())
}

func TestTenantOwnerMiddleware(t *testing.T) {
	auth := newFakeAuthService(testIdentity("u1"))
	authSrv := httptest.NewServer(auth)
	defer authSrv.Close()

	build := func(tenantURL string, timeout time.Duration) (*fiber.App, *atomic.Int32) {
		var reached atomic.Int32
		mw := NewTenantOwnerMiddleware(Dependencies{
			Verifier: NewAuthClient(authSrv.URL+"/auth", time.Second, zap.NewNop()),
			Resolver: NewTenantClient(tenantURL, timeout, zap.NewNop()),
			TenantID: "tenant-1",
			Logger:   zap.NewNop(),
		})
		return newTestApp(mw, &reached), &reached
	}

	t.Run("owner proceeds", func(t *testing.T) {
		tenantSrv := httptest.NewServer(tenantHandler("tenant-1", "u1"))
		defer tenantSrv.Close()

		app, reached := build(tenantSrv.URL, time.Second)
		res := doRequest(t, app, "Bearer admin-token")
		assert.Equal(t, http.StatusOK, res.status)
		assert.Equal(t, int32(1), reached.Load())
	})

	t.Run("non-admin token is rejected", func(t *testing.T) {
		tenantSrv := httptest.NewServer(tenantHandler("tenant-1", "u1"))
		defer tenantSrv.Close()

		app, reached := build(tenantSrv.URL, time.Second)
		res := doRequest(t, app, "Bearer good-token")
		assert.Equal(t, http.StatusUnauthorized, res.status)
		assert.Zero(t, reached.Load())
	})

	t.Run("other owner is 401", func(t *testing.T) {
		tenantSrv := httptest.NewServer(tenantHandler("tenant-1", "someone-else"))
		defer tenantSrv.Close()

		app, reached := build(tenantSrv.URL, time.Second)
		res := doRequest(t, app, "Bearer admin-token")
		assert.Equal(t, http.StatusUnauthorized, res.status)
		assert.Equal(t, "OWNERSHIP_MISMATCH", res.body["error"].(map[string]any)["code"])
		assert.Zero(t, reached.Load())
	})

	t.Run("tenant service 500 is 500", func(t *testing.T) {
		tenantSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer tenantSrv.Close()

		app, reached := build(tenantSrv.URL, time.Second)
		res := doRequest(t, app, "Bearer admin-token")
		assert.Equal(t, http.StatusInternalServerError, res.status)
		assert.Equal(t, "DEPENDENCY_UNAVAILABLE", res.body["error"].(map[string]any)["code"])
		assert.Zero(t, reached.Load())
	})

	t.Run("tenant service timeout is 500", func(t *testing.T) {
		tenantSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			time.Sleep(300 * time.Millisecond)
			tenantHandler("tenant-1", "u1")(w, r)
		}))
		defer tenantSrv.Close()

		app, reached := build(tenantSrv.URL, 50*time.Millisecond)
		res := doRequest(t, app, "Bearer admin-token")
		assert.Equal(t, http.StatusInternalServerError, res.status)
		assert.Zero(t, reached.Load())
	})

	t.Run("unknown tenant is 500", func(t *testing.T) {
		tenantSrv := httptest.NewServer(tenantHandler("tenant-2", "u1"))
		defer tenantSrv.Close()

		app, _ := build(tenantSrv.URL, time.Second)
		res := doRequest(t, app, "Bearer admin-token")
		assert.Equal(t, http.StatusInternalServerError, res.status)
	})
}
