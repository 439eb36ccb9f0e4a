package middleware

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vendora/api/internal/config"
	"github.com/vendora/api/internal/domain"
	jwtinfra "github.com/vendora/api/internal/infrastructure/jwt"
)

func newTestProvider(t *testing.T) *jwtinfra.Provider {
	t.Helper()
	p, err := jwtinfra.NewProvider(&config.Config{
		JWTAccessSecret:  "access-secret-for-tests",
		JWTRefreshSecret: "refresh-secret-for-tests",
		AccessTokenTTL:   15 * time.Minute,
		RefreshTokenTTL:  7 * 24 * time.Hour,
	})
	require.NoError(t, err)
	return p
}

type stubResolver struct {
	identities map[string]*domain.Identity // keyed id+role
}

func (r *stubResolver) Resolve(_ context.Context, id, role string) (*domain.Identity, error) {
	if ident, ok := r.identities[id+"/"+role]; ok {
		return ident, nil
	}
	return nil, fmt.Errorf("account not found: %w", domain.ErrNotFound)
}

func okHandler(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) }

func buyerIdentity() *domain.Identity {
	return &domain.Identity{ID: "u1", Name: "Ada", Email: "ada@x.com", Role: domain.RoleBuyer}
}

func TestAuth_MissingToken(t *testing.T) {
	p := newTestProvider(t)
	mw := Auth(p, &stubResolver{})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rr := httptest.NewRecorder()
	mw(http.HandlerFunc(okHandler)).ServeHTTP(rr, req)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestAuth_BadToken(t *testing.T) {
	p := newTestProvider(t)
	mw := Auth(p, &stubResolver{})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer not-a-real-token")
	rr := httptest.NewRecorder()
	mw(http.HandlerFunc(okHandler)).ServeHTTP(rr, req)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Contains(t, rr.Body.String(), "invalid token")
}

func TestAuth_ExpiredTokenGetsDistinctMessage(t *testing.T) {
	p, err := jwtinfra.NewProvider(&config.Config{
		JWTAccessSecret:  "access-secret-for-tests",
		JWTRefreshSecret: "refresh-secret-for-tests",
		AccessTokenTTL:   -time.Minute, // already expired at issue time
		RefreshTokenTTL:  time.Hour,
	})
	require.NoError(t, err)

	signed, err := p.SignAccess(buyerIdentity())
	require.NoError(t, err)

	mw := Auth(p, &stubResolver{})
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+signed)
	rr := httptest.NewRecorder()
	mw(http.HandlerFunc(okHandler)).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Contains(t, rr.Body.String(), "token expired")
}

func TestAuth_ValidToken_InjectsIdentity(t *testing.T) {
	p := newTestProvider(t)
	ident := buyerIdentity()
	resolver := &stubResolver{identities: map[string]*domain.Identity{"u1/buyer": ident}}

	signed, err := p.SignAccess(ident)
	require.NoError(t, err)

	var got *domain.Identity
	capture := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = IdentityFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+signed)
	rr := httptest.NewRecorder()
	Auth(p, resolver)(capture).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	require.NotNil(t, got)
	assert.Equal(t, "u1", got.ID)
	assert.Equal(t, domain.RoleBuyer, got.Role)
}

func TestAuth_DeletedAccountRejected(t *testing.T) {
	p := newTestProvider(t)
	signed, err := p.SignAccess(buyerIdentity())
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+signed)
	rr := httptest.NewRecorder()
	Auth(p, &stubResolver{})(http.HandlerFunc(okHandler)).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Contains(t, rr.Body.String(), "account not found")
}

func TestExtractToken_SellerCookieWinsOverBuyerAndHeader(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: BuyerAccessCookie, Value: "buyer-token"})
	req.AddCookie(&http.Cookie{Name: SellerAccessCookie, Value: "seller-token"})
	req.Header.Set("Authorization", "Bearer header-token")

	assert.Equal(t, "seller-token", ExtractToken(req))
}

func TestExtractToken_BuyerCookieBeforeHeader(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: BuyerAccessCookie, Value: "buyer-token"})
	req.Header.Set("Authorization", "Bearer header-token")

	assert.Equal(t, "buyer-token", ExtractToken(req))
}

func TestExtractToken_HeaderFallback(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer header-token")

	assert.Equal(t, "header-token", ExtractToken(req))
}
