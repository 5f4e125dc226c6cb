// Package authz authorizes requests of downstream services against the auth
// and tenant services.
package authz

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/bazaarhq/marketplace/internal/domain"
)

const maxResponseBytes = 1 << 20

var (
	// ErrMissingToken is returned when no bearer token was presented.
	ErrMissingToken = errors.New("missing bearer token")
	// ErrInvalidCredential covers rejected tokens as well as an unreachable auth service.
	ErrInvalidCredential = errors.New("invalid credential")
	// ErrDependencyUnavailable is returned when the tenant lookup cannot be served.
	ErrDependencyUnavailable = errors.New("dependency unavailable")
)

// TokenVerifier validates a bearer token and returns the caller identity.
type TokenVerifier interface {
	Verify(ctx context.Context, token string, admin bool) (*domain.Identity, error)
}

// AuthClient verifies tokens with the auth service over HTTP.
type AuthClient struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewAuthClient builds a client for the auth service rooted at baseURL.
func NewAuthClient(baseURL string, timeout time.Duration, logger *zap.Logger) *AuthClient {
	return &AuthClient{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

type verifyRequest struct {
	Token string `json:"token"`
}

type verifyResponse struct {
	Status int `json:"status"`
	Data   *struct {
		User *domain.Identity `json:"user"`
	} `json:"data"`
}

// Verify posts the token to /verify, or /verify-admin when admin privilege is required.
func (c *AuthClient) Verify(ctx context.Context, token string, admin bool) (*domain.Identity, error) {
	if token == "" {
		return nil, ErrMissingToken
	}

	path := "/verify"
	if admin {
		path = "/verify-admin"
	}

	body, err := json.Marshal(verifyRequest{Token: token})
	if err != nil {
		return nil, fmt.Errorf("%w: encode request: %v", ErrInvalidCredential, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: build request: %v", ErrInvalidCredential, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Debug("auth service request failed", zap.String("path", path), zap.Error(err))
		return nil, fmt.Errorf("%w: auth service unreachable: %v", ErrInvalidCredential, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: auth service returned %d", ErrInvalidCredential, resp.StatusCode)
	}

	var payload verifyResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes)).Decode(&payload); err != nil {
		return nil, fmt.Errorf("%w: decode response: %v", ErrInvalidCredential, err)
	}
	if payload.Status != http.StatusOK {
		return nil, fmt.Errorf("%w: verification status %d", ErrInvalidCredential, payload.Status)
	}
	if payload.Data == nil || payload.Data.User == nil {
		return nil, fmt.Errorf("%w: response carries no user", ErrInvalidCredential)
	}
	return payload.Data.User, nil
}
