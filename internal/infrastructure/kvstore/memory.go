package kvstore

import (
	"context"
	"sync"
	"time"
)

type memoryEntry struct {
	value    string
	deadline time.Time // zero means no expiry
}

// Memory is an in-process Client used by unit tests and local development.
// Expiry is evaluated lazily on read.
type Memory struct {
	mu      sync.Mutex
	entries map[string]memoryEntry

	// now is swappable so tests can step the clock.
	now func() time.Time
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{entries: make(map[string]memoryEntry), now: time.Now}
}

func (m *Memory) Get(_ context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.live(key)
	if !ok {
		return "", ErrNotFound
	}
	return e.value, nil
}

func (m *Memory) Set(_ context.Context, key, value string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	e := memoryEntry{value: value}
	if ttl > 0 {
		e.deadline = m.now().Add(ttl)
	}
	m.entries[key] = e
	return nil
}

func (m *Memory) SetKeep(_ context.Context, key, value string, fallback time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	e := memoryEntry{value: value}
	if prev, ok := m.live(key); ok && !prev.deadline.IsZero() {
		e.deadline = prev.deadline
	} else {
		// No live TTL to keep: apply the fallback window so the key
		// cannot outlive it.
		e.deadline = m.now().Add(fallback)
	}
	m.entries[key] = e
	return nil
}

func (m *Memory) Delete(_ context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, k := range keys {
		delete(m.entries, k)
	}
	return nil
}

// live returns the entry at key if it has not expired, removing it when
// it has. Callers hold mu.
func (m *Memory) live(key string) (memoryEntry, bool) {
	e, ok := m.entries[key]
	if !ok {
		return memoryEntry{}, false
	}
	if !e.deadline.IsZero() && m.now().After(e.deadline) {
		delete(m.entries, key)
		return memoryEntry{}, false
	}
	return e, true
}

// Len reports the number of live entries. Test helper.
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, e := range m.entries {
		if e.deadline.IsZero() || !m.now().After(e.deadline) {
			n++
		}
	}
	return n
}

// Advance shifts the store's clock forward. Test helper.
func (m *Memory) Advance(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	base := m.now
	m.now = func() time.Time { return base().Add(d) }
}
