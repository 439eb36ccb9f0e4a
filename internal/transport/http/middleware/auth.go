package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/vendora/api/internal/domain"
	jwtinfra "github.com/vendora/api/internal/infrastructure/jwt"
)

// Cookie names for the two token channels. Buyers and sellers use
// separate cookies so one browser can hold both roles at once.
const (
	BuyerAccessCookie   = "access_token"
	BuyerRefreshCookie  = "refresh_token"
	SellerAccessCookie  = "seller_access_token"
	SellerRefreshCookie = "seller_refresh_token"
)

type contextKey string

const identityKey contextKey = "identity"

// TokenVerifier validates an access token and returns its claims.
type TokenVerifier interface {
	VerifyAccess(token string) (*jwtinfra.Claims, error)
}

// IdentityResolver maps token claims back to a live account.
type IdentityResolver interface {
	Resolve(ctx context.Context, id, role string) (*domain.Identity, error)
}

// Auth returns middleware that authenticates the request and attaches
// the resolved identity to the context. The token is taken from the
// seller cookie first, then the buyer cookie, then the Authorization
// header. An expired token gets a distinct message so clients know to
// refresh rather than re-login.
func Auth(verifier TokenVerifier, resolver IdentityResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := ExtractToken(r)
			if token == "" {
				writeJSONError(w, http.StatusUnauthorized, "missing authentication token")
				return
			}

			claims, err := verifier.VerifyAccess(token)
			if err != nil {
				if errors.Is(err, domain.ErrTokenExpired) {
					writeJSONError(w, http.StatusUnauthorized, "token expired")
					return
				}
				writeJSONError(w, http.StatusUnauthorized, "invalid token")
				return
			}

			identity, err := resolver.Resolve(r.Context(), claims.UserID, claims.Role)
			if err != nil {
				writeJSONError(w, http.StatusUnauthorized, "account not found")
				return
			}

			ctx := context.WithValue(r.Context(), identityKey, identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// ExtractToken pulls the access token off a request: seller cookie,
// then buyer cookie, then Bearer header.
func ExtractToken(r *http.Request) string {
	if c, err := r.Cookie(SellerAccessCookie); err == nil && c.Value != "" {
		return c.Value
	}
	if c, err := r.Cookie(BuyerAccessCookie); err == nil && c.Value != "" {
		return c.Value
	}
	if h := r.Header.Get("Authorization"); strings.HasPrefix(h, "Bearer ") {
		return strings.TrimPrefix(h, "Bearer ")
	}
	return ""
}

// IdentityFromContext extracts the resolved caller from the request context.
func IdentityFromContext(ctx context.Context) (*domain.Identity, bool) {
	ident, ok := ctx.Value(identityKey).(*domain.Identity)
	return ident, ok
}
