package handler

import (
	"context"
	"net/http"

	"github.com/vendora/api/internal/application/account"
	"github.com/vendora/api/internal/application/token"
	"github.com/vendora/api/internal/config"
	"github.com/vendora/api/internal/domain"
	"github.com/vendora/api/internal/transport/http/middleware"
)

// AuthHandler handles registration, login, password recovery, and token
// refresh for both buyers and sellers.
type AuthHandler struct {
	accounts *account.Service
	tokens   *token.Service
	cfg      *config.Config
}

func NewAuthHandler(accounts *account.Service, tokens *token.Service, cfg *config.Config) *AuthHandler {
	return &AuthHandler{accounts: accounts, tokens: tokens, cfg: cfg}
}

func (h *AuthHandler) secureCookies() bool {
	return h.cfg.AppEnv == "production"
}

// RegisterUser starts buyer signup by dispatching an OTP.
func (h *AuthHandler) RegisterUser(w http.ResponseWriter, r *http.Request) {
	var req domain.RegisterUserRequest
	if err := decodeAndValidate(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.accounts.RegisterBuyer(r.Context(), req); err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageEnvelope{Message: "OTP sent to email, please verify your account"})
}

// VerifyUser consumes the OTP and creates the buyer account.
func (h *AuthHandler) VerifyUser(w http.ResponseWriter, r *http.Request) {
	var req domain.VerifyUserRequest
	if err := decodeAndValidate(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if _, err := h.accounts.VerifyBuyer(r.Context(), req); err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, MessageEnvelope{Message: "account created successfully"})
}

// LoginUser checks credentials and installs the buyer token pair.
func (h *AuthHandler) LoginUser(w http.ResponseWriter, r *http.Request) {
	h.login(w, r, h.accounts.LoginBuyer)
}

// RegisterSeller starts seller signup by dispatching an OTP.
func (h *AuthHandler) RegisterSeller(w http.ResponseWriter, r *http.Request) {
	var req domain.RegisterSellerRequest
	if err := decodeAndValidate(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.accounts.RegisterSeller(r.Context(), req); err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageEnvelope{Message: "OTP sent to email, please verify your account"})
}

// VerifySeller consumes the OTP and creates the seller account.
func (h *AuthHandler) VerifySeller(w http.ResponseWriter, r *http.Request) {
	var req domain.VerifySellerRequest
	if err := decodeAndValidate(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if _, err := h.accounts.VerifySeller(r.Context(), req); err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, MessageEnvelope{Message: "seller account created successfully"})
}

// LoginSeller checks credentials and installs the seller token pair.
func (h *AuthHandler) LoginSeller(w http.ResponseWriter, r *http.Request) {
	h.login(w, r, h.accounts.LoginSeller)
}

func (h *AuthHandler) login(w http.ResponseWriter, r *http.Request, check func(ctx context.Context, req domain.LoginRequest) (*domain.Identity, error)) {
	var req domain.LoginRequest
	if err := decodeAndValidate(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	ident, err := check(r.Context(), req)
	if err != nil {
		httpError(w, err)
		return
	}
	pair, err := h.tokens.Issue(ident)
	if err != nil {
		httpError(w, err)
		return
	}
	setAuthCookies(w, ident.Role, pair, h.cfg.AccessTokenTTL, h.cfg.RefreshTokenTTL, h.secureCookies())
	writeJSON(w, http.StatusOK, AuthEnvelope{User: ident, AccessToken: pair.AccessToken, Message: "login successful"})
}

// ForgotPassword starts the reset challenge for the given role. The
// role comes from the route, not the body.
func (h *AuthHandler) ForgotPassword(role string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req domain.ForgotPasswordRequest
		if err := decodeAndValidate(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		if err := h.accounts.ForgotPassword(r.Context(), role, req.Email); err != nil {
			httpError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, MessageEnvelope{Message: "OTP sent to email"})
	}
}

// VerifyForgotPasswordOTP checks the reset code.
func (h *AuthHandler) VerifyForgotPasswordOTP(w http.ResponseWriter, r *http.Request) {
	var req domain.VerifyForgotPasswordRequest
	if err := decodeAndValidate(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.accounts.VerifyForgotPasswordOTP(r.Context(), req.Email, req.OTP); err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageEnvelope{Message: "OTP verified, you can now reset your password"})
}

// ResetPassword sets a new password for the given role.
func (h *AuthHandler) ResetPassword(role string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req domain.ResetPasswordRequest
		if err := decodeAndValidate(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		if err := h.accounts.ResetPassword(r.Context(), role, req.Email, req.NewPassword); err != nil {
			httpError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, MessageEnvelope{Message: "password reset successfully"})
	}
}

// Refresh rotates the access token off a valid refresh token and
// reinstalls it on the caller's cookie channel.
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	refresh := refreshTokenFrom(r)
	if refresh == "" {
		writeError(w, http.StatusUnauthorized, "missing refresh token")
		return
	}
	access, ident, err := h.tokens.Rotate(r.Context(), refresh)
	if err != nil {
		httpError(w, err)
		return
	}
	setAccessCookie(w, ident.Role, access, h.cfg.AccessTokenTTL, h.secureCookies())
	writeJSON(w, http.StatusOK, AuthEnvelope{User: ident, AccessToken: access})
}

// Me returns the resolved caller. Mounted behind Auth plus a role gate,
// so /auth-user only answers for buyers and /auth-seller for sellers.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	ident, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	writeJSON(w, http.StatusOK, AuthEnvelope{User: ident})
}

// Logout clears the cookie channel for the caller's role.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	ident, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	accessName, refreshName := cookieNames(ident.Role)
	clearCookie(w, accessName, h.secureCookies())
	clearCookie(w, refreshName, h.secureCookies())
	writeJSON(w, http.StatusOK, MessageEnvelope{Message: "logged out"})
}
