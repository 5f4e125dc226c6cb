// Package catalog reads product data from the products service.
package catalog

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

const maxResponseBytes = 4 << 20

// ErrUnavailable is returned when the products service cannot answer.
var ErrUnavailable = errors.New("products service unavailable")

// Client calls the products service over HTTP.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient builds a client for the products service rooted at baseURL.
func NewClient(baseURL string, timeout time.Duration, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

type manyRequest struct {
	ProductIDs []string `json:"productIds"`
}

type manyResponse struct {
	Status int              `json:"status"`
	Data   []domain.Product `json:"data"`
}

// GetMany fetches the listed products. Unknown ids are absent from the result.
func (c *Client) GetMany(ctx context.Context, ids []string) ([]domain.Product, error) {
	if len(ids) == 0 {
		return []domain.Product{}, nil
	}

	body, err := json.Marshal(manyRequest{ProductIDs: ids})
	if err != nil {
		return nil, fmt.Errorf("%w: encode request: %v", ErrUnavailable, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/product/many", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: build request: %v", ErrUnavailable, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Debug("products service request failed", zap.Int("ids", len(ids)), zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: products service returned %d", ErrUnavailable, resp.StatusCode)
	}

	var payload manyResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes)).Decode(&payload); err != nil {
		return nil, fmt.Errorf("%w: decode response: %v", ErrUnavailable, err)
	}
	if payload.Status != http.StatusOK {
		return nil, fmt.Errorf("%w: lookup status %d", ErrUnavailable, payload.Status)
	}
	if payload.Data == nil {
		payload.Data = []domain.Product{}
	}
	return payload.Data, nil
}
