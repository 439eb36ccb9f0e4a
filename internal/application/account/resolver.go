package account

import (
	"context"
	"fmt"

	"github.com/vendora/api/internal/domain"
)

// UserStore is the buyer persistence surface the account flows need.
type UserStore interface {
	Put(ctx context.Context, u *domain.User) error
	Get(ctx context.Context, userID string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	Update(ctx context.Context, userID string, updates map[string]interface{}) error
}

// SellerStore is the seller persistence surface the account flows need.
type SellerStore interface {
	Put(ctx context.Context, s *domain.Seller) error
	Get(ctx context.Context, sellerID string) (*domain.Seller, error)
	GetByEmail(ctx context.Context, email string) (*domain.Seller, error)
	Update(ctx context.Context, sellerID string, updates map[string]interface{}) error
}

// Resolver maps an id/role pair from token claims back to a live
// identity. Shared by the auth middleware and token rotation.
type Resolver struct {
	users   UserStore
	sellers SellerStore
}

func NewResolver(users UserStore, sellers SellerStore) *Resolver {
	return &Resolver{users: users, sellers: sellers}
}

func (r *Resolver) Resolve(ctx context.Context, id, role string) (*domain.Identity, error) {
	switch role {
	case domain.RoleBuyer:
		u, err := r.users.Get(ctx, id)
		if err != nil {
			return nil, err
		}
		return u.Identity(), nil
	case domain.RoleSeller:
		s, err := r.sellers.Get(ctx, id)
		if err != nil {
			return nil, err
		}
		return s.Identity(), nil
	default:
		return nil, fmt.Errorf("unknown role %q: %w", role, domain.ErrUnauthorized)
	}
}
