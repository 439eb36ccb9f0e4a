// Package token issues and rotates the access/refresh token pairs used
// by both the buyer and seller surfaces.
package token

import (
	"context"
	"errors"
	"fmt"

	"github.com/vendora/api/internal/domain"
	jwtinfra "github.com/vendora/api/internal/infrastructure/jwt"
)

// Pair is a freshly issued access and refresh token.
type Pair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// IdentityResolver looks up the current identity for an id/role pair.
// Rotation re-resolves rather than trusting the refresh claims, so a
// deleted account cannot mint new access tokens.
type IdentityResolver interface {
	Resolve(ctx context.Context, id, role string) (*domain.Identity, error)
}

type Service struct {
	provider *jwtinfra.Provider
	resolver IdentityResolver
}

func NewService(provider *jwtinfra.Provider, resolver IdentityResolver) *Service {
	return &Service{provider: provider, resolver: resolver}
}

// Issue signs a new access/refresh pair for the identity.
func (s *Service) Issue(identity *domain.Identity) (Pair, error) {
	access, err := s.provider.SignAccess(identity)
	if err != nil {
		return Pair{}, fmt.Errorf("sign access token: %w", err)
	}
	refresh, err := s.provider.SignRefresh(identity)
	if err != nil {
		return Pair{}, fmt.Errorf("sign refresh token: %w", err)
	}
	return Pair{AccessToken: access, RefreshToken: refresh}, nil
}

// Rotate verifies a refresh token, re-resolves the identity it names,
// and returns a new access token. The refresh token itself is not
// rotated; it stays valid until its own expiry.
func (s *Service) Rotate(ctx context.Context, refreshToken string) (string, *domain.Identity, error) {
	claims, err := s.provider.VerifyRefresh(refreshToken)
	if err != nil {
		return "", nil, err
	}

	identity, err := s.resolver.Resolve(ctx, claims.UserID, claims.Role)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return "", nil, fmt.Errorf("account no longer exists: %w", domain.ErrUnauthorized)
		}
		return "", nil, err
	}

	access, err := s.provider.SignAccess(identity)
	if err != nil {
		return "", nil, fmt.Errorf("sign access token: %w", err)
	}
	return access, identity, nil
}
