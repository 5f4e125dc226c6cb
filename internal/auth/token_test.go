package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bazaarhq/marketplace/internal/domain"
)

func TestTokenRoundTrip(t *testing.T) {
	tm := NewTokenManager("secret", 5)
	user := &domain.User{ID: "u1", TenantID: "tenant-1", Role: domain.RoleAdmin}

	token, exp, err := tm.GenerateToken(user)
	require.NoError(t, err)
	assert.False(t, exp.IsZero())

	claims, err := tm.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.Subject)
	assert.Equal(t, "tenant-1", claims.TenantID)
	assert.Equal(t, domain.RoleAdmin, claims.Role)
	assert.NotEmpty(t, claims.ID)
}

func TestParseTokenRejectsForeignSignature(t *testing.T) {
	token, _, err := NewTokenManager("other", 5).GenerateToken(&domain.User{ID: "u1"})
	require.NoError(t, err)

	_, err = NewTokenManager("secret", 5).ParseToken(token)
	assert.Error(t, err)

	_, err = NewTokenManager("secret", 5).ParseToken("not-a-jwt")
	assert.Error(t, err)
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("Password123", 4)
	require.NoError(t, err)

	assert.NoError(t, ComparePassword(hash, "Password123"))
	assert.Error(t, ComparePassword(hash, "password123"))
}
