// Package session keeps the per-session "already played" flags that gate entrance
// effects.
package session

import (
	"errors"
	"log"
	"sync"
)

// ErrUnavailable is returned by stores that cannot read or write flags.
var ErrUnavailable = errors.New("session: storage unavailable")

// Store is a key-value store scoped to one browsing session.
type Store interface {
	Get(key string) (value string, ok bool, err error)
	Set(key, value string) error
}

// Memory is a process-scoped store: the process lifetime is the session.
type Memory struct {
	mu    sync.Mutex
	flags map[string]string
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{flags: map[string]string{}}
}

// Get implements Store.
func (m *Memory) Get(key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.flags[key]
	return v, ok, nil
}

// Set implements Store.
func (m *Memory) Set(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.flags[key] = value
	return nil
}

// Clear drops every flag, as if the session ended.
func (m *Memory) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	clear(m.flags)
}

const playedValue = "true"

// Gate reports whether the effect keyed by key may play and marks it as played.
// Storage failures count as an absent flag so the effect still plays.
func Gate(store Store, key string) bool {
	if store == nil || key == "" {
		return true
	}
	v, ok, err := store.Get(key)
	if err != nil {
		log.Printf("[Session] Warning: failed to read flag %q: %v (playing anyway)", key, err)
	} else if ok && v == playedValue {
		return false
	}
	if err := store.Set(key, playedValue); err != nil {
		log.Printf("[Session] Warning: failed to write flag %q: %v", key, err)
	}
	return true
}
