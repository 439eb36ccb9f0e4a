package jwtinfra

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/vendora/api/internal/config"
	"github.com/vendora/api/internal/domain"
)

// Claims is the token payload: {id, email, role} plus the registered expiry.
type Claims struct {
	UserID string `json:"id"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// Provider signs and verifies HS256 JWTs. Access and refresh tokens use
// independent secrets; verifying a token of one class with the other class's
// secret fails.
type Provider struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
}

func NewProvider(cfg *config.Config) (*Provider, error) {
	if cfg.JWTAccessSecret == "" || cfg.JWTRefreshSecret == "" {
		return nil, errors.New("jwt: access and refresh secrets are required")
	}
	if cfg.JWTAccessSecret == cfg.JWTRefreshSecret {
		return nil, errors.New("jwt: access and refresh secrets must differ")
	}
	return &Provider{
		accessSecret:  []byte(cfg.JWTAccessSecret),
		refreshSecret: []byte(cfg.JWTRefreshSecret),
		accessTTL:     cfg.AccessTokenTTL,
		refreshTTL:    cfg.RefreshTokenTTL,
	}, nil
}

// SignAccess issues a short-lived access token for the identity.
func (p *Provider) SignAccess(ident *domain.Identity) (string, error) {
	return p.sign(ident, p.accessSecret, p.accessTTL)
}

// SignRefresh issues a long-lived refresh token for the identity.
func (p *Provider) SignRefresh(ident *domain.Identity) (string, error) {
	return p.sign(ident, p.refreshSecret, p.refreshTTL)
}

// VerifyAccess validates an access token and returns its claims.
func (p *Provider) VerifyAccess(tokenStr string) (*Claims, error) {
	return p.verify(tokenStr, p.accessSecret)
}

// VerifyRefresh validates a refresh token and returns its claims.
func (p *Provider) VerifyRefresh(tokenStr string) (*Claims, error) {
	return p.verify(tokenStr, p.refreshSecret)
}

func (p *Provider) sign(ident *domain.Identity, secret []byte, ttl time.Duration) (string, error) {
	claims := Claims{
		UserID: ident.ID,
		Email:  ident.Email,
		Role:   ident.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

// verify maps failures onto the domain taxonomy: expiry is reported as
// domain.ErrTokenExpired, every other failure as domain.ErrUnauthorized.
// Signing material never appears in returned errors.
func (p *Provider) verify(tokenStr string, secret []byte) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, fmt.Errorf("token expired: %w", domain.ErrTokenExpired)
		}
		return nil, fmt.Errorf("invalid token: %w", domain.ErrUnauthorized)
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token claims: %w", domain.ErrUnauthorized)
	}
	if claims.UserID == "" || !domain.ValidRole(claims.Role) {
		return nil, fmt.Errorf("token missing identity claims: %w", domain.ErrUnauthorized)
	}
	return claims, nil
}
