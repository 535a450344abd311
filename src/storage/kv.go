// Package storage persists the conversation collection and the installation's
// user identity over a generic key-value backend. Persistence is an
// optimization, not a correctness requirement: loads fall back to "first run"
// on any backend trouble and saves swallow failures.
package storage

import "sync"

// Storage keys. The identity is a bare string; conversations are one JSON
// array saved and loaded wholesale.
const (
	KeyUserID        = "palaver:user-id"
	KeyConversations = "palaver:conversations"
)

// KV is a minimal get/set-by-key interface over string values.
type KV interface {
	// Get returns the stored value and whether the key was present.
	Get(key string) (string, bool, error)
	Set(key, value string) error
}

// MapKV is an in-memory KV used by tests and as a null backend.
type MapKV struct {
	mu sync.Mutex
	m  map[string]string
}

// NewMapKV returns an empty in-memory KV.
func NewMapKV() *MapKV {
	return &MapKV{m: make(map[string]string)}
}

func (k *MapKV) Get(key string) (string, bool, error) {
	k.mu.Lock()
	defer k.mu.Unlock()
	v, ok := k.m[key]
	return v, ok, nil
}

func (k *MapKV) Set(key, value string) error {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.m[key] = value
	return nil
}
