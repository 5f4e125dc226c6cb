package authz

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/bazaarhq/marketplace/internal/domain"
)

// Reason names why a request was denied.
type Reason string

const (
	ReasonMissingCredential     Reason = "MISSING_CREDENTIAL"
	ReasonInvalidCredential     Reason = "INVALID_CREDENTIAL"
	ReasonDependencyUnavailable Reason = "DEPENDENCY_UNAVAILABLE"
	ReasonOwnershipMismatch     Reason = "OWNERSHIP_MISMATCH"
)

// Denial is the terminal rejection of a request.
type Denial struct {
	Reason Reason
	Status int
	Err    error
}

func (d *Denial) Error() string {
	if d.Err != nil {
		return string(d.Reason) + ": " + d.Err.Error()
	}
	return string(d.Reason)
}

func (d *Denial) Unwrap() error {
	return d.Err
}

func deny(reason Reason, status int, err error) *Denial {
	return &Denial{Reason: reason, Status: status, Err: err}
}

// Decision is the outcome of a pipeline run. Exactly one of Identity and Denial is set.
type Decision struct {
	Identity *domain.Identity
	Denial   *Denial
}

// Authorized reports whether the request may proceed.
func (d Decision) Authorized() bool {
	return d.Denial == nil && d.Identity != nil
}

// Attempt is the request-scoped state the checks build up.
type Attempt struct {
	Header   string
	Token    string
	Identity *domain.Identity
	Tenant   *domain.TenantOwnership
}

// Check is one authorization step. It returns nil to let the next check run.
type Check func(ctx context.Context, a *Attempt) *Denial

// Pipeline runs checks in order and stops at the first denial.
type Pipeline struct {
	checks []Check
}

// NewPipeline composes checks into a pipeline.
func NewPipeline(checks ...Check) *Pipeline {
	return &Pipeline{checks: checks}
}

// Authorize evaluates the Authorization header value.
func (p *Pipeline) Authorize(ctx context.Context, header string) Decision {
	attempt := &Attempt{Header: header}
	for _, check := range p.checks {
		if denial := check(ctx, attempt); denial != nil {
			return Decision{Denial: denial}
		}
	}
	if attempt.Identity == nil {
		return Decision{Denial: deny(ReasonInvalidCredential, http.StatusUnauthorized, errors.New("no identity established"))}
	}
	return Decision{Identity: attempt.Identity}
}

// ExtractBearer reads the token from an "Authorization: Bearer <token>" header.
func ExtractBearer() Check {
	return func(_ context.Context, a *Attempt) *Denial {
		parts := strings.SplitN(strings.TrimSpace(a.Header), " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return deny(ReasonMissingCredential, http.StatusUnauthorized, ErrMissingToken)
		}
		token := strings.TrimSpace(parts[1])
		if token == "" {
			return deny(ReasonMissingCredential, http.StatusUnauthorized, ErrMissingToken)
		}
		a.Token = token
		return nil
	}
}

// VerifyIdentity asks the verifier who owns the token.
func VerifyIdentity(verifier TokenVerifier, admin bool) Check {
	return func(ctx context.Context, a *Attempt) *Denial {
		if a.Token == "" {
			return deny(ReasonMissingCredential, http.StatusUnauthorized, ErrMissingToken)
		}
		identity, err := verifier.Verify(ctx, a.Token, admin)
		if err != nil {
			if errors.Is(err, ErrMissingToken) {
				return deny(ReasonMissingCredential, http.StatusUnauthorized, err)
			}
			return deny(ReasonInvalidCredential, http.StatusUnauthorized, err)
		}
		if identity == nil {
			return deny(ReasonInvalidCredential, http.StatusUnauthorized, ErrInvalidCredential)
		}
		a.Identity = identity
		return nil
	}
}

// ResolveTenant loads the ownership record of the configured tenant. It must follow VerifyIdentity.
func ResolveTenant(resolver TenantResolver, tenantID string) Check {
	return func(ctx context.Context, a *Attempt) *Denial {
		if a.Identity == nil {
			return deny(ReasonInvalidCredential, http.StatusUnauthorized, errors.New("tenant resolution before identity verification"))
		}
		record, err := resolver.Resolve(ctx, tenantID)
		if err != nil {
			return deny(ReasonDependencyUnavailable, http.StatusInternalServerError, err)
		}
		if record == nil {
			return deny(ReasonDependencyUnavailable, http.StatusInternalServerError, ErrDependencyUnavailable)
		}
		a.Tenant = record
		return nil
	}
}

// RequireOwner admits only the owner of the resolved tenant.
func RequireOwner() Check {
	return func(_ context.Context, a *Attempt) *Denial {
		if a.Tenant == nil {
			return deny(ReasonDependencyUnavailable, http.StatusInternalServerError, errors.New("ownership check without tenant record"))
		}
		if !a.Tenant.OwnedBy(a.Identity.UserID()) {
			return deny(ReasonOwnershipMismatch, http.StatusUnauthorized, errors.New("caller does not own the tenant"))
		}
		return nil
	}
}
