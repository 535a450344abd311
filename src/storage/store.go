package storage

import (
	"encoding/json"
	"log/slog"

	"github.com/sbellin/palaver/src/chat"
)

// Store loads and saves the conversation collection and the user identity.
// Every operation is best-effort: a missing, failing, or corrupt backend
// degrades to first-run behavior, never to an error the caller must handle.
type Store struct {
	kv     KV
	logger *slog.Logger
}

// NewStore wraps a KV backend.
func NewStore(kv KV, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{kv: kv, logger: logger.With("component", "storage")}
}

// LoadIdentity returns the persisted user identity, or false on first run or
// backend trouble.
func (s *Store) LoadIdentity() (string, bool) {
	v, ok, err := s.kv.Get(KeyUserID)
	if err != nil {
		s.logger.Debug("identity load failed", "error", err)
		return "", false
	}
	if !ok || v == "" {
		return "", false
	}
	return v, true
}

// SaveIdentity persists the user identity. Failures are swallowed.
func (s *Store) SaveIdentity(id string) {
	if err := s.kv.Set(KeyUserID, id); err != nil {
		s.logger.Debug("identity save failed", "error", err)
	}
}

// LoadConversations returns the persisted collection. Malformed data (not a
// JSON array) and an empty array both load as absent, identically to a
// first run.
func (s *Store) LoadConversations() (chat.Collection, bool) {
	raw, ok, err := s.kv.Get(KeyConversations)
	if err != nil {
		s.logger.Debug("conversations load failed", "error", err)
		return nil, false
	}
	if !ok || raw == "" {
		return nil, false
	}
	var c chat.Collection
	if err := json.Unmarshal([]byte(raw), &c); err != nil {
		s.logger.Debug("conversations malformed, treating as first run", "error", err)
		return nil, false
	}
	if len(c) == 0 {
		return nil, false
	}
	return c, true
}

// SaveConversations persists the whole collection. Failures are swallowed;
// the session keeps working without persistence.
func (s *Store) SaveConversations(c chat.Collection) {
	raw, err := json.Marshal(c)
	if err != nil {
		s.logger.Debug("conversations marshal failed", "error", err)
		return
	}
	if err := s.kv.Set(KeyConversations, string(raw)); err != nil {
		s.logger.Debug("conversations save failed", "error", err)
	}
}

var _ chat.Persister = (*Store)(nil)
