package errorutil

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToDomainError(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		code   string
		status int
	}{
		{"domain error passes through", NewConflict("dup", nil), "CONFLICT", http.StatusConflict},
		{"wrapped domain error", fmt.Errorf("create: %w", NewUnauthorized("nope")), "UNAUTHORIZED", http.StatusUnauthorized},
		{"fiber error", fiber.NewError(http.StatusBadRequest, "invalid payload"), "VALIDATION_FAILED", http.StatusBadRequest},
		{"no rows", fmt.Errorf("get: %w", pgx.ErrNoRows), "NOT_FOUND", http.StatusNotFound},
		{"dependency", NewDependencyUnavailable("tenant lookup failed", errors.New("refused")), "DEPENDENCY_UNAVAILABLE", http.StatusInternalServerError},
		{"unique violation", fmt.Errorf("add: %w", &pgconn.PgError{Code: "23505", ConstraintName: "wishlist_details_wishlist_id_product_id_key"}), "CONFLICT", http.StatusConflict},
		{"other pg error", &pgconn.PgError{Code: "23503"}, "INTERNAL_ERROR", http.StatusInternalServerError},
		{"anything else", errors.New("boom"), "INTERNAL_ERROR", http.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			de := ToDomainError(tc.err)
			require.NotNil(t, de)
			assert.Equal(t, tc.code, de.Code)
			assert.Equal(t, tc.status, de.HTTPStatus)
		})
	}

	assert.Nil(t, ToDomainError(nil))
}

func TestDomainErrorUnwrap(t *testing.T) {
	cause := errors.New("connection refused")
	err := NewDependencyUnavailable("tenant lookup failed", cause)

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "tenant lookup failed: connection refused", err.Error())
}
