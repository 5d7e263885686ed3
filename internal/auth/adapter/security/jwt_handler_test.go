package security_test

import (
	"context"
	"testing"
	"time"

	"campus-facilities/internal/auth/adapter/security"
	"campus-facilities/internal/auth/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newService(t *testing.T, ttl time.Duration) *security.JWTokenService {
	t.Helper()
	svc, err := security.NewJWTokenService(&config.Config{
		JWTSecretKey:   "test-secret-key-for-jwt-handler",
		JWTIssuer:      "campus-facilities-auth",
		AccessTokenTTL: ttl,
	})
	require.NoError(t, err)
	return svc
}

func TestNewJWTokenService_Validation(t *testing.T) {
	_, err := security.NewJWTokenService(&config.Config{
		JWTIssuer:      "issuer",
		AccessTokenTTL: time.Minute,
	})
	assert.Error(t, err, "empty secret rejected")

	_, err = security.NewJWTokenService(&config.Config{
		JWTSecretKey: "secret",
		JWTIssuer:    "issuer",
	})
	assert.Error(t, err, "zero TTL rejected")
}

func TestGenerateAndValidateToken(t *testing.T) {
	svc := newService(t, 15*time.Minute)
	ctx := context.Background()

	token, err := svc.GenerateToken(ctx, "u1", "admin@campus.cm", "s1")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := svc.ValidateToken(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.UserID)
	assert.Equal(t, "admin@campus.cm", claims.Email)
	assert.Equal(t, "s1", claims.SessionID)
	assert.Equal(t, "campus-facilities-auth", claims.Issuer)
}

func TestValidateToken_Expired(t *testing.T) {
	svc := newService(t, time.Nanosecond)
	ctx := context.Background()

	token, err := svc.GenerateToken(ctx, "u1", "admin@campus.cm", "s1")
	require.NoError(t, err)

	time.Sleep(10 * time.Millisecond)

	_, err = svc.ValidateToken(ctx, token)
	assert.ErrorIs(t, err, security.ErrTokenExpired)
}

func TestValidateToken_WrongSecret(t *testing.T) {
	svc := newService(t, 15*time.Minute)
	ctx := context.Background()

	token, err := svc.GenerateToken(ctx, "u1", "admin@campus.cm", "s1")
	require.NoError(t, err)

	other, err := security.NewJWTokenService(&config.Config{
		JWTSecretKey:   "a-completely-different-secret",
		JWTIssuer:      "campus-facilities-auth",
		AccessTokenTTL: 15 * time.Minute,
	})
	require.NoError(t, err)

	_, err = other.ValidateToken(ctx, token)
	assert.Error(t, err)
}

func TestValidateToken_Malformed(t *testing.T) {
	svc := newService(t, 15*time.Minute)

	_, err := svc.ValidateToken(context.Background(), "not-a-jwt")
	assert.ErrorIs(t, err, security.ErrTokenInvalid)

	_, err = svc.ValidateToken(context.Background(), "")
	assert.ErrorIs(t, err, security.ErrTokenInvalid)
}
