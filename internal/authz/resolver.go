package authz

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"

	"github.com/bazaarhq/marketplace/internal/domain"
)

// TenantResolver fetches the ownership record of a tenant.
type TenantResolver interface {
	Resolve(ctx context.Context, tenantID string) (*domain.TenantOwnership, error)
}

// TenantClient looks tenants up in the tenant service over HTTP.
type TenantClient struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewTenantClient builds a client for the tenant service rooted at baseURL.
func NewTenantClient(baseURL string, timeout time.Duration, logger *zap.Logger) *TenantClient {
	return &TenantClient{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

type tenantResponse struct {
	Status int `json:"status"`
	Data   *struct {
		Tenant *domain.Tenant       `json:"tenants"`
		Detail *domain.TenantDetail `json:"tenantDetails"`
	} `json:"data"`
}

// Resolve calls GET /tenant/{tenantID}. Every failure is reported as ErrDependencyUnavailable.
func (c *TenantClient) Resolve(ctx context.Context, tenantID string) (*domain.TenantOwnership, error) {
	if tenantID == "" {
		return nil, fmt.Errorf("%w: no tenant configured", ErrDependencyUnavailable)
	}

	endpoint := c.baseURL + "/tenant/" + url.PathEscape(tenantID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: build request: %v", ErrDependencyUnavailable, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Debug("tenant service request failed", zap.String("tenant_id", tenantID), zap.Error(err))
		return nil, fmt.Errorf("%w: tenant service unreachable: %v", ErrDependencyUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: tenant service returned %d", ErrDependencyUnavailable, resp.StatusCode)
	}

	var payload tenantResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes)).Decode(&payload); err != nil {
		return nil, fmt.Errorf("%w: decode response: %v", ErrDependencyUnavailable, err)
	}
	if payload.Status != http.StatusOK || payload.Data == nil {
		return nil, fmt.Errorf("%w: tenant lookup status %d", ErrDependencyUnavailable, payload.Status)
	}

	tenant, detail := payload.Data.Tenant, payload.Data.Detail
	if tenant == nil || detail == nil || tenant.ID == "" {
		return nil, fmt.Errorf("%w: tenant %s not found", ErrDependencyUnavailable, tenantID)
	}
	if detail.TenantID != tenant.ID {
		return nil, fmt.Errorf("%w: tenant detail belongs to %q, not %q", ErrDependencyUnavailable, detail.TenantID, tenant.ID)
	}

	return &domain.TenantOwnership{Tenant: *tenant, Detail: *detail}, nil
}
