package jwtinfra

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vendora/api/internal/config"
	"github.com/vendora/api/internal/domain"
)

func newTestProvider(t *testing.T) *Provider {
	t.Helper()
	p, err := NewProvider(&config.Config{
		JWTAccessSecret:  "access-secret-for-tests",
		JWTRefreshSecret: "refresh-secret-for-tests",
		AccessTokenTTL:   15 * time.Minute,
		RefreshTokenTTL:  7 * 24 * time.Hour,
	})
	require.NoError(t, err)
	return p
}

func sellerIdentity() *domain.Identity {
	return &domain.Identity{ID: "s1", Name: "Ada", Email: "ada@shop.dev", Role: domain.RoleSeller}
}

func TestNewProvider_RejectsMissingOrEqualSecrets(t *testing.T) {
	_, err := NewProvider(&config.Config{JWTAccessSecret: "", JWTRefreshSecret: "x"})
	assert.Error(t, err)

	_, err = NewProvider(&config.Config{JWTAccessSecret: "same", JWTRefreshSecret: "same"})
	assert.Error(t, err)
}

func TestSignAccess_RoundTrip(t *testing.T) {
	p := newTestProvider(t)

	tok, err := p.SignAccess(sellerIdentity())
	require.NoError(t, err)

	claims, err := p.VerifyAccess(tok)
	require.NoError(t, err)
	assert.Equal(t, "s1", claims.UserID)
	assert.Equal(t, "ada@shop.dev", claims.Email)
	assert.Equal(t, domain.RoleSeller, claims.Role)
}

func TestVerifyAccess_RejectsRefreshToken(t *testing.T) {
	p := newTestProvider(t)

	tok, err := p.SignRefresh(sellerIdentity())
	require.NoError(t, err)

	_, err = p.VerifyAccess(tok)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestVerify_ExpiredIsDistinctFromInvalid(t *testing.T) {
	p := newTestProvider(t)

	expired := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		UserID: "u1",
		Email:  "u@x.com",
		Role:   domain.RoleBuyer,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		},
	})
	signed, err := expired.SignedString([]byte("access-secret-for-tests"))
	require.NoError(t, err)

	_, err = p.VerifyAccess(signed)
	assert.ErrorIs(t, err, domain.ErrTokenExpired)
	assert.NotErrorIs(t, err, domain.ErrUnauthorized)

	_, err = p.VerifyAccess("garbage.token.value")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestVerify_RejectsMissingRole(t *testing.T) {
	p := newTestProvider(t)

	noRole := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		UserID: "u1",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute)),
		},
	})
	signed, err := noRole.SignedString([]byte("access-secret-for-tests"))
	require.NoError(t, err)

	_, err = p.VerifyAccess(signed)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}
