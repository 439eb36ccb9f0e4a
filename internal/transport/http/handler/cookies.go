package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/vendora/api/internal/application/token"
	"github.com/vendora/api/internal/domain"
	"github.com/vendora/api/internal/transport/http/middleware"
)

// cookieNames returns the access/refresh cookie pair for a role.
// Buyers and sellers use separate channels so both can be logged in
// from the same browser.
func cookieNames(role string) (access, refresh string) {
	if role == domain.RoleSeller {
		return middleware.SellerAccessCookie, middleware.SellerRefreshCookie
	}
	return middleware.BuyerAccessCookie, middleware.BuyerRefreshCookie
}

func setCookie(w http.ResponseWriter, name, value string, ttl time.Duration, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   int(ttl.Seconds()),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func clearCookie(w http.ResponseWriter, name string, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// setAuthCookies installs a full token pair on the role's cookie channel.
func setAuthCookies(w http.ResponseWriter, role string, pair token.Pair, accessTTL, refreshTTL time.Duration, secure bool) {
	accessName, refreshName := cookieNames(role)
	setCookie(w, accessName, pair.AccessToken, accessTTL, secure)
	setCookie(w, refreshName, pair.RefreshToken, refreshTTL, secure)
}

// setAccessCookie replaces only the access cookie, used after rotation.
func setAccessCookie(w http.ResponseWriter, role, accessToken string, ttl time.Duration, secure bool) {
	accessName, _ := cookieNames(role)
	setCookie(w, accessName, accessToken, ttl, secure)
}

// refreshTokenFrom pulls the refresh token off a request: seller cookie,
// then buyer cookie, then Bearer header.
func refreshTokenFrom(r *http.Request) string {
	if c, err := r.Cookie(middleware.SellerRefreshCookie); err == nil && c.Value != "" {
		return c.Value
	}
	if c, err := r.Cookie(middleware.BuyerRefreshCookie); err == nil && c.Value != "" {
		return c.Value
	}
	if h := r.Header.Get("Authorization"); strings.HasPrefix(h, "Bearer ") {
		return strings.TrimPrefix(h, "Bearer ")
	}
	return ""
}
