package service

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bazaarhq/marketplace/internal/domain"
	"github.com/bazaarhq/marketplace/internal/repository/repotest"
)

func newCatalog() *repotest.Catalog {
	return repotest.NewCatalog(
		domain.Product{ID: "prod-1", Name: "Lamp", Price: 1500, QuantityAvailable: 5},
		domain.Product{ID: "prod-2", Name: "Chair", Price: 4000, QuantityAvailable: 2},
	)
}

func TestCartServiceAddMergesLines(t *testing.T) {
	ctx := context.Background()
	carts := repotest.NewCartRepo()
	svc := NewCartService(carts, newCatalog(), "tenant-1")

	first, err := svc.Add(ctx, "user-1", "prod-1", 2)
	require.NoError(t, err)
	assert.Equal(t, "tenant-1", first.TenantID)

	merged, err := svc.Add(ctx, "user-1", "prod-1", 1)
	require.NoError(t, err)
	assert.Equal(t, first.ID, merged.ID)
	assert.Equal(t, 3, merged.Quantity)

	items, err := svc.List(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, 3, items[0].Quantity)

	others, err := svc.List(ctx, "user-2")
	require.NoError(t, err)
	assert.Empty(t, others)
}

func TestCartServiceAddValidation(t *testing.T) {
	ctx := context.Background()
	catalog := newCatalog()
	svc := NewCartService(repotest.NewCartRepo(), catalog, "tenant-1")

	cases := []struct {
		name      string
		userID    string
		productID string
		quantity  int
		status    int
	}{
		{"no caller", "", "prod-1", 1, http.StatusUnauthorized},
		{"zero quantity", "user-1", "prod-1", 0, http.StatusBadRequest},
		{"unknown product", "user-1", "missing", 1, http.StatusNotFound},
		{"over stock", "user-1", "prod-2", 3, http.StatusBadRequest},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Add(ctx, tc.userID, tc.productID, tc.quantity)
			assert.Equal(t, tc.status, statusOf(t, err))
		})
	}

	catalog.Err = errors.New("connection refused")
	_, err := svc.Add(ctx, "user-1", "prod-1", 1)
	assert.Equal(t, http.StatusInternalServerError, statusOf(t, err))
}

func TestCartServiceEditAndRemove(t *testing.T) {
	ctx := context.Background()
	svc := NewCartService(repotest.NewCartRepo(), newCatalog(), "tenant-1")

	item, err := svc.Add(ctx, "user-1", "prod-1", 1)
	require.NoError(t, err)

	edited, err := svc.Edit(ctx, "user-1", item.ID, 4)
	require.NoError(t, err)
	assert.Equal(t, 4, edited.Quantity)

	_, err = svc.Edit(ctx, "user-2", item.ID, 2)
	assert.Equal(t, http.StatusNotFound, statusOf(t, err))

	_, err = svc.Edit(ctx, "user-1", item.ID, 6)
	assert.Equal(t, http.StatusBadRequest, statusOf(t, err))

	_, err = svc.Remove(ctx, "user-2", "prod-1")
	assert.Equal(t, http.StatusNotFound, statusOf(t, err))

	removed, err := svc.Remove(ctx, "user-1", "prod-1")
	require.NoError(t, err)
	assert.Equal(t, item.ID, removed.ID)

	items, err := svc.List(ctx, "user-1")
	require.NoError(t, err)
	assert.Empty(t, items)
}
