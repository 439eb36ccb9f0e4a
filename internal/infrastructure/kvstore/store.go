// Package kvstore abstracts the shared TTL key-value store backing the OTP
// challenge state (codes, counters, cooldowns, locks).
//
// The interface is deliberately narrow: get, two set-with-expiry variants,
// delete. There are no transactions and no atomic increments; callers that
// read-then-write a counter accept the small race window that implies (the
// blast radius is TTL-bounded). Every write path carries a TTL so no key can
// outlive its window: state is self-healing by expiry alone.
package kvstore

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned by Get when the key does not exist or has expired.
var ErrNotFound = errors.New("kvstore: key not found")

// Client is the TTL store contract.
type Client interface {
	// Get returns the value at key, or ErrNotFound.
	Get(ctx context.Context, key string) (string, error)

	// Set stores value at key with the given expiry. The ttl must be
	// positive; it (re)starts the expiry clock.
	Set(ctx context.Context, key, value string, ttl time.Duration) error

	// SetKeep stores value at key preserving the key's remaining TTL,
	// which is how fixed-window counters stay anchored at their first
	// write. If the key has no TTL (fresh, expired between the caller's
	// read and this write, or persistent) fallback is applied instead,
	// so the write can never produce a key that outlives its window.
	SetKeep(ctx context.Context, key, value string, fallback time.Duration) error

	// Delete removes the given keys. Missing keys are not an error.
	Delete(ctx context.Context, keys ...string) error
}
