package auth_test

import (
	"context"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/storefront/pkg/auth"
)

func TestTokenRoundTrip(t *testing.T) {
	tok, err := auth.GenerateToken(42, auth.RoleAdmin)
	require.NoError(t, err)

	claims, err := auth.ValidateToken(tok)
	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.UserID)
	assert.Equal(t, auth.RoleAdmin, claims.Role)
}

func TestValidateRejectsForeignSignature(t *testing.T) {
	forged, err := jwt.NewWithClaims(jwt.SigningMethodHS256, auth.Claims{UserID: 1, Role: auth.RoleAdmin}).
		SignedString([]byte("someone-elses-secret"))
	require.NoError(t, err)

	_, err = auth.ValidateToken(forged)
	assert.Error(t, err)

	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, auth.Claims{UserID: 1}).
		SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = auth.ValidateToken(unsigned)
	assert.Error(t, err)
}

func TestPasswordHash(t *testing.T) {
	hash, err := auth.HashPassword("correct-horse")
	require.NoError(t, err)

	assert.True(t, auth.CheckPassword(hash, "correct-horse"))
	assert.False(t, auth.CheckPassword(hash, "battery-staple"))
}

func TestIdentityFromContext(t *testing.T) {
	_, ok := auth.IdentityFrom(context.Background())
	assert.False(t, ok)

	ctx := auth.WithIdentity(context.Background(), auth.Identity{UserID: 7, Role: auth.RoleUser})
	id, ok := auth.IdentityFrom(ctx)
	require.True(t, ok)
	assert.False(t, id.IsAdmin())
}
