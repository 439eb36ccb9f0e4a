package account

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vendora/api/internal/application/otp"
	"github.com/vendora/api/internal/domain"
	"github.com/vendora/api/internal/infrastructure/kvstore"
)

type memUserStore struct {
	users map[string]*domain.User
}

func newMemUserStore() *memUserStore { return &memUserStore{users: map[string]*domain.User{}} }

func (s *memUserStore) Put(_ context.Context, u *domain.User) error {
	cp := *u
	cp.Email = strings.ToLower(cp.Email)
	s.users[cp.UserID] = &cp
	return nil
}

func (s *memUserStore) Get(_ context.Context, userID string) (*domain.User, error) {
	if u, ok := s.users[userID]; ok {
		return u, nil
	}
	return nil, fmt.Errorf("user not found: %w", domain.ErrNotFound)
}

func (s *memUserStore) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range s.users {
		if u.Email == strings.ToLower(email) {
			return u, nil
		}
	}
	return nil, fmt.Errorf("user not found: %w", domain.ErrNotFound)
}

func (s *memUserStore) Update(_ context.Context, userID string, updates map[string]interface{}) error {
	u, ok := s.users[userID]
	if !ok {
		return fmt.Errorf("user not found: %w", domain.ErrNotFound)
	}
	if h, ok := updates["password_hash"].(string); ok {
		u.PasswordHash = h
	}
	return nil
}

type memSellerStore struct {
	sellers map[string]*domain.Seller
}

func newMemSellerStore() *memSellerStore {
	return &memSellerStore{sellers: map[string]*domain.Seller{}}
}

func (s *memSellerStore) Put(_ context.Context, sl *domain.Seller) error {
	cp := *sl
	cp.Email = strings.ToLower(cp.Email)
	s.sellers[cp.SellerID] = &cp
	return nil
}

func (s *memSellerStore) Get(_ context.Context, sellerID string) (*domain.Seller, error) {
	if sl, ok := s.sellers[sellerID]; ok {
		return sl, nil
	}
	return nil, fmt.Errorf("seller not found: %w", domain.ErrNotFound)
}

func (s *memSellerStore) GetByEmail(_ context.Context, email string) (*domain.Seller, error) {
	for _, sl := range s.sellers {
		if sl.Email == strings.ToLower(email) {
			return sl, nil
		}
	}
	return nil, fmt.Errorf("seller not found: %w", domain.ErrNotFound)
}

func (s *memSellerStore) Update(_ context.Context, sellerID string, updates map[string]interface{}) error {
	sl, ok := s.sellers[sellerID]
	if !ok {
		return fmt.Errorf("seller not found: %w", domain.ErrNotFound)
	}
	if h, ok := updates["password_hash"].(string); ok {
		sl.PasswordHash = h
	}
	return nil
}

type capturingMailer struct {
	bodies []string
}

func (m *capturingMailer) SendEmail(to, subject, body string) error {
	m.bodies = append(m.bodies, body)
	return nil
}

var codeRe = regexp.MustCompile(`\b(\d{4})\b`)

// lastCode pulls the OTP out of the most recent captured email.
func lastCode(t *testing.T, m *capturingMailer) string {
	t.Helper()
	require.NotEmpty(t, m.bodies)
	match := codeRe.FindStringSubmatch(m.bodies[len(m.bodies)-1])
	require.Len(t, match, 2)
	return match[1]
}

func newTestService() (*Service, *memUserStore, *memSellerStore, *capturingMailer, *kvstore.Memory) {
	users := newMemUserStore()
	sellers := newMemSellerStore()
	mailer := &capturingMailer{}
	store := kvstore.NewMemory()
	svc := NewService(users, sellers, otp.NewService(store, mailer, nil))
	return svc, users, sellers, mailer, store
}

func TestBuyerSignupFlow(t *testing.T) {
	svc, users, _, mailer, _ := newTestService()
	ctx := context.Background()

	reg := domain.RegisterUserRequest{Name: "Ada", Email: "Ada@X.com", Password: "hunter2hunter2"}
	require.NoError(t, svc.RegisterBuyer(ctx, reg))
	assert.Empty(t, users.users, "no account before verification")

	u, err := svc.VerifyBuyer(ctx, domain.VerifyUserRequest{
		Name: "Ada", Email: "Ada@X.com", Password: "hunter2hunter2", OTP: lastCode(t, mailer),
	})
	require.NoError(t, err)
	assert.Equal(t, "ada@x.com", u.Email, "email stored lowercased")
	assert.NotEqual(t, "hunter2hunter2", u.PasswordHash)

	ident, err := svc.LoginBuyer(ctx, domain.LoginRequest{Email: "ada@x.com", Password: "hunter2hunter2"})
	require.NoError(t, err)
	assert.Equal(t, u.UserID, ident.ID)
	assert.Equal(t, domain.RoleBuyer, ident.Role)
}

func TestRegisterBuyer_DuplicateEmailConflicts(t *testing.T) {
	svc, users, _, _, _ := newTestService()
	ctx := context.Background()

	users.users["u1"] = &domain.User{UserID: "u1", Email: "ada@x.com"}

	err := svc.RegisterBuyer(ctx, domain.RegisterUserRequest{Name: "Ada", Email: "ADA@x.com", Password: "hunter2hunter2"})
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestVerifyBuyer_WrongCodeRejected(t *testing.T) {
	svc, users, _, mailer, _ := newTestService()
	ctx := context.Background()

	require.NoError(t, svc.RegisterBuyer(ctx, domain.RegisterUserRequest{Name: "Ada", Email: "ada@x.com", Password: "hunter2hunter2"}))
	code := lastCode(t, mailer)
	wrong := "0000"
	require.NotEqual(t, code, wrong)

	_, err := svc.VerifyBuyer(ctx, domain.VerifyUserRequest{
		Name: "Ada", Email: "ada@x.com", Password: "hunter2hunter2", OTP: wrong,
	})
	assert.ErrorIs(t, err, domain.ErrBadRequest)
	assert.Empty(t, users.users)
}

func TestLoginBuyer_BadCredentials(t *testing.T) {
	svc, _, _, mailer, _ := newTestService()
	ctx := context.Background()

	require.NoError(t, svc.RegisterBuyer(ctx, domain.RegisterUserRequest{Name: "Ada", Email: "ada@x.com", Password: "hunter2hunter2"}))
	_, err := svc.VerifyBuyer(ctx, domain.VerifyUserRequest{
		Name: "Ada", Email: "ada@x.com", Password: "hunter2hunter2", OTP: lastCode(t, mailer),
	})
	require.NoError(t, err)

	_, err = svc.LoginBuyer(ctx, domain.LoginRequest{Email: "ada@x.com", Password: "wrong-password"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	_, err = svc.LoginBuyer(ctx, domain.LoginRequest{Email: "nobody@x.com", Password: "whatever"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestSellerSignupFlow(t *testing.T) {
	svc, _, sellers, mailer, _ := newTestService()
	ctx := context.Background()

	reg := domain.RegisterSellerRequest{
		Name: "Ada", Email: "ada@shop.dev", Password: "hunter2hunter2",
		PhoneNumber: "+15550100", Country: "NL",
	}
	require.NoError(t, svc.RegisterSeller(ctx, reg))

	sl, err := svc.VerifySeller(ctx, domain.VerifySellerRequest{
		Name: "Ada", Email: "ada@shop.dev", Password: "hunter2hunter2",
		OTP: lastCode(t, mailer), PhoneNumber: "+15550100", Country: "NL",
	})
	require.NoError(t, err)
	assert.Equal(t, "+15550100", sl.PhoneNumber)
	require.Len(t, sellers.sellers, 1)

	ident, err := svc.LoginSeller(ctx, domain.LoginRequest{Email: "ada@shop.dev", Password: "hunter2hunter2"})
	require.NoError(t, err)
	assert.Equal(t, domain.RoleSeller, ident.Role)
}

func TestPasswordRecoveryFlow(t *testing.T) {
	svc, _, _, mailer, store := newTestService()
	ctx := context.Background()

	require.NoError(t, svc.RegisterBuyer(ctx, domain.RegisterUserRequest{Name: "Ada", Email: "ada@x.com", Password: "hunter2hunter2"}))
	_, err := svc.VerifyBuyer(ctx, domain.VerifyUserRequest{
		Name: "Ada", Email: "ada@x.com", Password: "hunter2hunter2", OTP: lastCode(t, mailer),
	})
	require.NoError(t, err)

	// The signup OTP used one request; step past the cooldown before the
	// reset flow requests its own code.
	store.Advance(61 * time.Second)

	require.NoError(t, svc.ForgotPassword(ctx, domain.RoleBuyer, "ada@x.com"))
	require.NoError(t, svc.VerifyForgotPasswordOTP(ctx, "ada@x.com", lastCode(t, mailer)))

	// Reusing the old password is refused.
	err = svc.ResetPassword(ctx, domain.RoleBuyer, "ada@x.com", "hunter2hunter2")
	assert.ErrorIs(t, err, domain.ErrBadRequest)

	require.NoError(t, svc.ResetPassword(ctx, domain.RoleBuyer, "ada@x.com", "correct-horse-battery"))

	_, err = svc.LoginBuyer(ctx, domain.LoginRequest{Email: "ada@x.com", Password: "hunter2hunter2"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	ident, err := svc.LoginBuyer(ctx, domain.LoginRequest{Email: "ada@x.com", Password: "correct-horse-battery"})
	require.NoError(t, err)
	assert.Equal(t, "ada@x.com", ident.Email)
}

func TestForgotPassword_UnknownAccount(t *testing.T) {
	svc, _, _, _, _ := newTestService()

	err := svc.ForgotPassword(context.Background(), domain.RoleBuyer, "nobody@x.com")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestResolver_MapsRolesToStores(t *testing.T) {
	users := newMemUserStore()
	sellers := newMemSellerStore()
	users.users["u1"] = &domain.User{UserID: "u1", Name: "Ada", Email: "ada@x.com"}
	sellers.sellers["s1"] = &domain.Seller{SellerID: "s1", Name: "Ada", Email: "ada@shop.dev"}
	r := NewResolver(users, sellers)
	ctx := context.Background()

	ident, err := r.Resolve(ctx, "u1", domain.RoleBuyer)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleBuyer, ident.Role)

	ident, err = r.Resolve(ctx, "s1", domain.RoleSeller)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleSeller, ident.Role)

	_, err = r.Resolve(ctx, "u1", "admin")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	_, err = r.Resolve(ctx, "missing", domain.RoleBuyer)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
