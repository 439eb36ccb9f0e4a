// Package account implements buyer and seller registration, login, and
// password recovery. Accounts are only created after an email OTP
// challenge is passed, so registration is a two-step flow.
package account

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/vendora/api/internal/application/otp"
	"github.com/vendora/api/internal/domain"
	"github.com/vendora/api/internal/pkg/id"
)

// OTPService is the challenge surface the account flows use.
type OTPService interface {
	Request(ctx context.Context, to otp.Recipient, tmpl otp.Template) error
	Verify(ctx context.Context, email, code string) error
}

type Service struct {
	users   UserStore
	sellers SellerStore
	otp     OTPService
}

func NewService(users UserStore, sellers SellerStore, otpSvc OTPService) *Service {
	return &Service{users: users, sellers: sellers, otp: otpSvc}
}

// RegisterBuyer starts buyer signup by sending an activation OTP. No
// account is created until the code is verified.
func (s *Service) RegisterBuyer(ctx context.Context, req domain.RegisterUserRequest) error {
	email := strings.ToLower(req.Email)
	if err := s.buyerEmailFree(ctx, email); err != nil {
		return err
	}
	return s.otp.Request(ctx, otp.Recipient{Name: req.Name, Email: email}, otp.UserActivation)
}

// VerifyBuyer completes buyer signup: checks the OTP, then creates the
// account with a bcrypt password hash.
func (s *Service) VerifyBuyer(ctx context.Context, req domain.VerifyUserRequest) (*domain.User, error) {
	email := strings.ToLower(req.Email)
	if err := s.otp.Verify(ctx, email, req.OTP); err != nil {
		return nil, err
	}
	// Re-checked here: another verification for the same email may have
	// completed between the register call and now.
	if err := s.buyerEmailFree(ctx, email); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := time.Now().UTC()
	u := &domain.User{
		UserID:       id.New(),
		Name:         req.Name,
		Email:        email,
		PasswordHash: string(hash),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.users.Put(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// LoginBuyer checks buyer credentials and returns the resolved identity.
// A missing account and a wrong password produce the same error.
func (s *Service) LoginBuyer(ctx context.Context, req domain.LoginRequest) (*domain.Identity, error) {
	u, err := s.users.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, invalidCredentials()
		}
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)) != nil {
		return nil, invalidCredentials()
	}
	return u.Identity(), nil
}

// RegisterSeller starts seller signup by sending an activation OTP over
// email, mirrored to the seller's phone when SMS is configured.
func (s *Service) RegisterSeller(ctx context.Context, req domain.RegisterSellerRequest) error {
	email := strings.ToLower(req.Email)
	if err := s.sellerEmailFree(ctx, email); err != nil {
		return err
	}
	rcpt := otp.Recipient{Name: req.Name, Email: email, PhoneNumber: req.PhoneNumber}
	return s.otp.Request(ctx, rcpt, otp.SellerActivation)
}

// VerifySeller completes seller signup after the OTP challenge passes.
func (s *Service) VerifySeller(ctx context.Context, req domain.VerifySellerRequest) (*domain.Seller, error) {
	email := strings.ToLower(req.Email)
	if err := s.otp.Verify(ctx, email, req.OTP); err != nil {
		return nil, err
	}
	if err := s.sellerEmailFree(ctx, email); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := time.Now().UTC()
	sl := &domain.Seller{
		SellerID:     id.New(),
		Name:         req.Name,
		Email:        email,
		PasswordHash: string(hash),
		PhoneNumber:  req.PhoneNumber,
		Country:      req.Country,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.sellers.Put(ctx, sl); err != nil {
		return nil, err
	}
	return sl, nil
}

// LoginSeller checks seller credentials and returns the resolved identity.
func (s *Service) LoginSeller(ctx context.Context, req domain.LoginRequest) (*domain.Identity, error) {
	sl, err := s.sellers.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, invalidCredentials()
		}
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(sl.PasswordHash), []byte(req.Password)) != nil {
		return nil, invalidCredentials()
	}
	return sl.Identity(), nil
}

// ForgotPassword sends a password-reset OTP to an existing account of
// the given role.
func (s *Service) ForgotPassword(ctx context.Context, role, email string) error {
	rcpt, err := s.recipient(ctx, role, email)
	if err != nil {
		return err
	}
	return s.otp.Request(ctx, rcpt, otp.ForgotPassword)
}

// VerifyForgotPasswordOTP checks a password-reset code without
// consuming anything else; on success the caller may reset the password.
func (s *Service) VerifyForgotPasswordOTP(ctx context.Context, email, code string) error {
	return s.otp.Verify(ctx, strings.ToLower(email), code)
}

// ResetPassword replaces the account password. The new password must
// differ from the current one.
func (s *Service) ResetPassword(ctx context.Context, role, email, newPassword string) error {
	switch role {
	case domain.RoleBuyer:
		u, err := s.users.GetByEmail(ctx, email)
		if err != nil {
			return err
		}
		hash, err := newPasswordHash(u.PasswordHash, newPassword)
		if err != nil {
			return err
		}
		return s.users.Update(ctx, u.UserID, map[string]interface{}{"password_hash": hash})
	case domain.RoleSeller:
		sl, err := s.sellers.GetByEmail(ctx, email)
		if err != nil {
			return err
		}
		hash, err := newPasswordHash(sl.PasswordHash, newPassword)
		if err != nil {
			return err
		}
		return s.sellers.Update(ctx, sl.SellerID, map[string]interface{}{"password_hash": hash})
	default:
		return fmt.Errorf("unknown role %q: %w", role, domain.ErrBadRequest)
	}
}

func (s *Service) buyerEmailFree(ctx context.Context, email string) error {
	_, err := s.users.GetByEmail(ctx, email)
	if err == nil {
		return fmt.Errorf("an account already exists with this email: %w", domain.ErrConflict)
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return err
	}
	return nil
}

func (s *Service) sellerEmailFree(ctx context.Context, email string) error {
	_, err := s.sellers.GetByEmail(ctx, email)
	if err == nil {
		return fmt.Errorf("a seller account already exists with this email: %w", domain.ErrConflict)
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return err
	}
	return nil
}

func (s *Service) recipient(ctx context.Context, role, email string) (otp.Recipient, error) {
	switch role {
	case domain.RoleBuyer:
		u, err := s.users.GetByEmail(ctx, email)
		if err != nil {
			return otp.Recipient{}, err
		}
		return otp.Recipient{Name: u.Name, Email: u.Email}, nil
	case domain.RoleSeller:
		sl, err := s.sellers.GetByEmail(ctx, email)
		if err != nil {
			return otp.Recipient{}, err
		}
		return otp.Recipient{Name: sl.Name, Email: sl.Email, PhoneNumber: sl.PhoneNumber}, nil
	default:
		return otp.Recipient{}, fmt.Errorf("unknown role %q: %w", role, domain.ErrBadRequest)
	}
}

func newPasswordHash(currentHash, newPassword string) (string, error) {
	if bcrypt.CompareHashAndPassword([]byte(currentHash), []byte(newPassword)) == nil {
		return "", fmt.Errorf("new password cannot be the same as the old one: %w", domain.ErrBadRequest)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

func invalidCredentials() error {
	return fmt.Errorf("invalid email or password: %w", domain.ErrUnauthorized)
}
