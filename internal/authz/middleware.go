package authz

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/bazaarhq/marketplace/internal/domain"
	"github.com/bazaarhq/marketplace/internal/observability"
	apperrors "github.com/bazaarhq/marketplace/pkg/util/errorutil"
)

const identityKey = "auth_identity"

// Dependencies bundles what the middleware variants need.
type Dependencies struct {
	Verifier TokenVerifier
	Resolver TenantResolver
	// TenantID is the service's own tenant; ownership is always checked against it.
	TenantID string
	Logger   *zap.Logger
	Metrics  *observability.Metrics
}

// Middleware gates fiber routes with an authorization pipeline.
type Middleware struct {
	pipeline *Pipeline
	logger   *zap.Logger
	metrics  *observability.Metrics
}

// NewMiddleware wraps an arbitrary pipeline.
func NewMiddleware(pipeline *Pipeline, logger *zap.Logger, metrics *observability.Metrics) *Middleware {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Middleware{pipeline: pipeline, logger: logger, metrics: metrics}
}

// NewIdentityMiddleware admits any caller holding a valid token.
func NewIdentityMiddleware(deps Dependencies) *Middleware {
	return NewMiddleware(NewPipeline(
		ExtractBearer(),
		VerifyIdentity(deps.Verifier, false),
	), deps.Logger, deps.Metrics)
}

// NewTenantOwnerMiddleware admits only an admin token whose holder owns the service's tenant.
func NewTenantOwnerMiddleware(deps Dependencies) *Middleware {
	return NewMiddleware(NewPipeline(
		ExtractBearer(),
		VerifyIdentity(deps.Verifier, true),
		ResolveTenant(deps.Resolver, deps.TenantID),
		RequireOwner(),
	), deps.Logger, deps.Metrics)
}

// Handle runs the pipeline and either attaches the identity or short-circuits the request.
func (m *Middleware) Handle(c *fiber.Ctx) error {
	start := time.Now()
	decision := m.pipeline.Authorize(c.UserContext(), c.Get(fiber.HeaderAuthorization))

	if !decision.Authorized() {
		denial := decision.Denial
		m.metrics.RecordAuthorization(string(denial.Reason), time.Since(start))

		logger := observability.LoggerFromContext(c, m.logger)
		fields := []zap.Field{
			zap.String("reason", string(denial.Reason)),
			zap.String("path", c.Path()),
			zap.Error(denial.Err),
		}
		if denial.Status >= fiber.StatusInternalServerError {
			logger.Error("authorization dependency failed", fields...)
		} else {
			logger.Warn("request denied", fields...)
		}
		return toDomainError(denial)
	}

	m.metrics.RecordAuthorization("authorized", time.Since(start))
	c.Locals(identityKey, decision.Identity)
	return c.Next()
}

func toDomainError(d *Denial) error {
	switch d.Reason {
	case ReasonMissingCredential:
		return apperrors.NewDomainError(string(d.Reason), "missing or malformed bearer token", d.Status, nil)
	case ReasonDependencyUnavailable:
		return apperrors.NewDependencyUnavailable("server tenant lookup failed", d.Err)
	case ReasonOwnershipMismatch:
		return apperrors.NewDomainError(string(d.Reason), "caller does not own this tenant", d.Status, nil)
	default:
		return apperrors.NewDomainError(string(ReasonInvalidCredential), "invalid token", d.Status, nil)
	}
}

// IdentityFromContext returns the identity attached by Handle.
func IdentityFromContext(c *fiber.Ctx) (*domain.Identity, bool) {
	identity, ok := c.Locals(identityKey).(*domain.Identity)
	return identity, ok && identity != nil
}
