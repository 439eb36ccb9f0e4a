// Package otp implements the one-time-password challenge flow: issuing
// codes over email (with optional SMS mirroring), throttling repeat
// requests, and locking accounts after repeated failures.
//
// All challenge state lives in a shared TTL key-value store under
// per-email keys. Reads and writes are separate operations, so two
// concurrent requests for the same email can race past a policy check;
// the windows are short and the worst case is one extra email, which is
// an accepted trade-off for keeping the store contract minimal.
package otp

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"strconv"
	"time"

	"github.com/vendora/api/internal/domain"
	"github.com/vendora/api/internal/infrastructure/kvstore"
)

const (
	codeTTL     = 5 * time.Minute
	cooldownTTL = 60 * time.Second

	// Request throttling: a fixed one-hour window anchored at the first
	// request. Exceeding maxRequestsPerWindow trips a one-hour spam lock.
	requestWindow        = time.Hour
	spamLockTTL          = time.Hour
	maxRequestsPerWindow = 2

	// Verification: after maxFailedAttempts wrong codes the next wrong
	// code hard-locks the account for hardLockTTL.
	hardLockTTL       = 30 * time.Minute
	maxFailedAttempts = 2
)

// Store is the subset of the key-value store the OTP flow needs.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	SetKeep(ctx context.Context, key, value string, fallback time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

// Mailer delivers the OTP email. Delivery failure must surface as an
// error so no challenge state is written for a code nobody received.
type Mailer interface {
	SendEmail(to, subject, body string) error
}

// SMSSender mirrors the code over SMS. Best effort: failures are logged,
// never returned.
type SMSSender interface {
	SendSMS(ctx context.Context, to, message string) error
}

// Recipient identifies who receives a code. PhoneNumber is optional;
// when set and an SMSSender is configured, the code is also texted.
type Recipient struct {
	Name        string
	Email       string
	PhoneNumber string
}

type Service struct {
	store  Store
	mailer Mailer
	sms    SMSSender // nil disables SMS mirroring
}

func NewService(store Store, mailer Mailer, sms SMSSender) *Service {
	return &Service{store: store, mailer: mailer, sms: sms}
}

func otpKey(email string) string          { return "otp:" + email }
func attemptsKey(email string) string     { return "otp_attempts:" + email }
func cooldownKey(email string) string     { return "otp_cool_down:" + email }
func requestCountKey(email string) string { return "otp_request_count:" + email }
func spamLockKey(email string) string     { return "otp_spam_lock:" + email }
func lockKey(email string) string         { return "otp_lock:" + email }

// CheckRestrictions rejects a send when the email is hard-locked,
// spam-locked, or still inside the cooldown after the previous send.
func (s *Service) CheckRestrictions(ctx context.Context, email string) error {
	if locked, err := s.exists(ctx, lockKey(email)); err != nil {
		return err
	} else if locked {
		return fmt.Errorf("account locked due to multiple failed attempts, try again after 30 minutes: %w", domain.ErrBadRequest)
	}
	if locked, err := s.exists(ctx, spamLockKey(email)); err != nil {
		return err
	} else if locked {
		return fmt.Errorf("too many OTP requests, please wait 1 hour before requesting again: %w", domain.ErrBadRequest)
	}
	if cooling, err := s.exists(ctx, cooldownKey(email)); err != nil {
		return err
	} else if cooling {
		return fmt.Errorf("please wait 1 minute before requesting a new OTP: %w", domain.ErrBadRequest)
	}
	return nil
}

// TrackRequest counts a send against the fixed one-hour window. The
// request that exceeds the limit trips the spam lock and is rejected.
func (s *Service) TrackRequest(ctx context.Context, email string) error {
	count, err := s.counter(ctx, requestCountKey(email))
	if err != nil {
		return err
	}
	if count >= maxRequestsPerWindow {
		if err := s.store.Set(ctx, spamLockKey(email), "locked", spamLockTTL); err != nil {
			return err
		}
		return fmt.Errorf("too many OTP requests, please wait 1 hour before requesting again: %w", domain.ErrBadRequest)
	}

	// Increments keep the remaining TTL so the window stays anchored at
	// the first request; the window duration covers a fresh counter.
	return s.store.SetKeep(ctx, requestCountKey(email), strconv.Itoa(count+1), requestWindow)
}

// Send generates a fresh code, dispatches it, and only then stores the
// challenge state. A failed dispatch leaves no state behind.
func (s *Service) Send(ctx context.Context, to Recipient, tmpl Template) error {
	code, err := generateCode()
	if err != nil {
		return fmt.Errorf("generate otp: %w", err)
	}

	if err := s.mailer.SendEmail(to.Email, tmpl.Subject, tmpl.Render(to.Name, code)); err != nil {
		return fmt.Errorf("send otp email: %w", err)
	}

	if s.sms != nil && to.PhoneNumber != "" {
		msg := fmt.Sprintf("Your verification code is %s. It expires in 5 minutes.", code)
		if err := s.sms.SendSMS(ctx, to.PhoneNumber, msg); err != nil {
			slog.Warn("otp sms dispatch failed", "err", err)
		}
	}

	if err := s.store.Set(ctx, otpKey(to.Email), code, codeTTL); err != nil {
		return err
	}
	return s.store.Set(ctx, cooldownKey(to.Email), "1", cooldownTTL)
}

// Request runs the full issuing flow: restriction checks, request
// tracking, then dispatch.
func (s *Service) Request(ctx context.Context, to Recipient, tmpl Template) error {
	if err := s.CheckRestrictions(ctx, to.Email); err != nil {
		return err
	}
	if err := s.TrackRequest(ctx, to.Email); err != nil {
		return err
	}
	return s.Send(ctx, to, tmpl)
}

// Verify checks a submitted code against the stored challenge. Wrong
// codes are counted; the third wrong code hard-locks the email for 30
// minutes and clears the challenge. A correct code clears everything.
func (s *Service) Verify(ctx context.Context, email, code string) error {
	stored, err := s.store.Get(ctx, otpKey(email))
	if errors.Is(err, kvstore.ErrNotFound) {
		return fmt.Errorf("OTP expired or not found: %w", domain.ErrNotFound)
	}
	if err != nil {
		return err
	}

	if stored != code {
		failures, err := s.counter(ctx, attemptsKey(email))
		if err != nil {
			return err
		}
		if failures >= maxFailedAttempts {
			if err := s.store.Set(ctx, lockKey(email), "locked", hardLockTTL); err != nil {
				return err
			}
			if err := s.store.Delete(ctx, otpKey(email), attemptsKey(email)); err != nil {
				slog.Warn("could not clear otp state after lock", "err", err)
			}
			return fmt.Errorf("account locked due to multiple failed attempts, try again after 30 minutes: %w", domain.ErrBadRequest)
		}
		// The counter TTL anchors at the first failure; later
		// increments keep the remaining TTL.
		if err := s.store.SetKeep(ctx, attemptsKey(email), strconv.Itoa(failures+1), codeTTL); err != nil {
			return err
		}
		left := maxFailedAttempts - failures
		return fmt.Errorf("incorrect OTP, %d attempt(s) left: %w", left, domain.ErrBadRequest)
	}

	return s.store.Delete(ctx, otpKey(email), attemptsKey(email))
}

// exists reports whether a key is present. Only a miss maps to false;
// any other store failure is surfaced so a degraded store cannot let a
// locked email through the policy checks.
func (s *Service) exists(ctx context.Context, key string) (bool, error) {
	_, err := s.store.Get(ctx, key)
	if errors.Is(err, kvstore.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// counter reads an integer key, treating a miss or garbage as zero.
// Other store failures are surfaced.
func (s *Service) counter(ctx context.Context, key string) (int, error) {
	v, err := s.store.Get(ctx, key)
	if errors.Is(err, kvstore.ErrNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, nil
	}
	return n, nil
}

// generateCode returns a 4-digit code in [1000, 9999].
func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(9000))
	if err != nil {
		return "", err
	}
	return strconv.FormatInt(n.Int64()+1000, 10), nil
}
