package chat

import (
	"log/slog"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/sbellin/palaver/src/ident"
)

// DefaultTitle is the placeholder title before the first user message.
const DefaultTitle = "New Chat"

// titleLimit is the maximum title length in runes.
const titleLimit = 40

// defaultDebounce is how long the store waits after the last mutation
// before persisting the full collection.
const defaultDebounce = 100 * time.Millisecond

// Persister receives the full collection after mutations settle. Saves are
// best-effort; the store never inspects the outcome.
type Persister interface {
	SaveConversations(Collection)
}

// StoreConfig configures a Store. Zero values get sensible defaults; only
// Persister is commonly set.
type StoreConfig struct {
	Persister Persister
	Debounce  time.Duration
	// OnChange is invoked with a snapshot after every mutation, outside
	// the store lock.
	OnChange func(Snapshot)
	// GenerateID and Now exist for tests.
	GenerateID func() string
	Now        func() time.Time
	Logger     *slog.Logger
}

// Store is the in-memory conversation collection plus the active-conversation
// pointer. All mutations take the store lock and replace state wholesale, so
// a snapshot is always self-consistent.
type Store struct {
	mu            sync.Mutex
	conversations Collection
	activeID      string

	persister Persister
	debounce  time.Duration
	saveTimer *time.Timer
	dirty     bool

	onChange   func(Snapshot)
	generateID func() string
	now        func() time.Time
	logger     *slog.Logger
}

// NewStore creates an empty conversation store.
func NewStore(cfg StoreConfig) *Store {
	if cfg.GenerateID == nil {
		cfg.GenerateID = ident.Generate
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.Debounce <= 0 {
		cfg.Debounce = defaultDebounce
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &Store{
		persister:  cfg.Persister,
		debounce:   cfg.Debounce,
		onChange:   cfg.OnChange,
		generateID: cfg.GenerateID,
		now:        cfg.Now,
		logger:     cfg.Logger.With("component", "chat_store"),
	}
}

// Seed replaces the collection with a previously persisted one and points
// the active conversation at the head. It does not schedule a save.
func (s *Store) Seed(c Collection) {
	s.mu.Lock()
	s.conversations = c.Clone()
	s.activeID = ""
	if len(s.conversations) > 0 {
		s.activeID = s.conversations[0].ID
	}
	s.mu.Unlock()
	s.notify()
}

// Snapshot returns a deep copy of the current state.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{Conversations: s.conversations.Clone(), ActiveID: s.activeID}
}

// Conversation returns a copy of the conversation with the given id.
func (s *Store) Conversation(id string) (Conversation, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.conversations.IndexOf(id); i >= 0 {
		return s.conversations[i].Clone(), true
	}
	return Conversation{}, false
}

// Active returns a copy of the active conversation, if any.
func (s *Store) Active() (Conversation, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.activeID == "" {
		return Conversation{}, false
	}
	if i := s.conversations.IndexOf(s.activeID); i >= 0 {
		return s.conversations[i].Clone(), true
	}
	return Conversation{}, false
}

// CreateConversation mints a new conversation, inserts it at the head of the
// collection, and makes it active.
func (s *Store) CreateConversation() Conversation {
	now := s.now().UnixMilli()
	conv := Conversation{
		ID:        s.generateID(),
		Title:     DefaultTitle,
		SessionID: s.generateID(),
		Messages:  []Message{},
		CreatedAt: now,
		UpdatedAt: now,
	}

	s.mu.Lock()
	s.conversations = append(Collection{conv.Clone()}, s.conversations...)
	s.activeID = conv.ID
	s.mu.Unlock()

	s.logger.Debug("conversation created", "id", conv.ID, "session_id", conv.SessionID)
	s.afterMutation()
	return conv
}

// SelectConversation points the active reference at id. Unknown ids are
// ignored.
func (s *Store) SelectConversation(id string) {
	s.mu.Lock()
	if s.conversations.IndexOf(id) < 0 {
		s.mu.Unlock()
		return
	}
	s.activeID = id
	s.mu.Unlock()
	s.afterMutation()
}

// DeleteConversation removes the conversation with the given id. If it was
// active, the new head becomes active, or nothing if the collection is empty.
// Safe to call while a send is still in flight against the same id; the
// eventual append is then a no-op.
func (s *Store) DeleteConversation(id string) {
	s.mu.Lock()
	i := s.conversations.IndexOf(id)
	if i < 0 {
		s.mu.Unlock()
		return
	}
	s.conversations = append(s.conversations[:i:i], s.conversations[i+1:]...)
	if s.activeID == id {
		s.activeID = ""
		if len(s.conversations) > 0 {
			s.activeID = s.conversations[0].ID
		}
	}
	s.mu.Unlock()

	s.logger.Debug("conversation deleted", "id", id)
	s.afterMutation()
}

// AppendMessage appends msg to the conversation with the given id and bumps
// UpdatedAt. The first user message freezes the title. Appending to a
// conversation that no longer exists is a silent no-op; the sender may have
// been deleted mid-flight.
func (s *Store) AppendMessage(conversationID string, msg Message) {
	s.mu.Lock()
	i := s.conversations.IndexOf(conversationID)
	if i < 0 {
		s.mu.Unlock()
		s.logger.Debug("append to missing conversation dropped", "id", conversationID)
		return
	}
	conv := &s.conversations[i]
	if msg.Role == RoleUser && !hasUserMessage(conv.Messages) {
		conv.Title = truncateTitle(msg.Content)
	}
	conv.Messages = append(conv.Messages, msg)
	conv.UpdatedAt = s.now().UnixMilli()
	s.mu.Unlock()

	s.afterMutation()
}

// Close flushes any pending save synchronously.
func (s *Store) Close() {
	s.mu.Lock()
	if s.saveTimer != nil {
		s.saveTimer.Stop()
		s.saveTimer = nil
	}
	dirty := s.dirty
	s.dirty = false
	s.mu.Unlock()

	if dirty && s.persister != nil {
		s.persister.SaveConversations(s.Snapshot().Conversations)
	}
}

func (s *Store) afterMutation() {
	s.scheduleSave()
	s.notify()
}

func (s *Store) notify() {
	if s.onChange != nil {
		s.onChange(s.Snapshot())
	}
}

// scheduleSave arms the debounce timer. The snapshot is taken when the timer
// fires, so the persisted state always matches in-memory state once
// mutations settle.
func (s *Store) scheduleSave() {
	if s.persister == nil {
		return
	}
	s.mu.Lock()
	s.dirty = true
	if s.saveTimer != nil {
		s.saveTimer.Stop()
	}
	s.saveTimer = time.AfterFunc(s.debounce, s.flush)
	s.mu.Unlock()
}

func (s *Store) flush() {
	s.mu.Lock()
	s.dirty = false
	s.saveTimer = nil
	s.mu.Unlock()
	s.persister.SaveConversations(s.Snapshot().Conversations)
}

func hasUserMessage(msgs []Message) bool {
	for i := range msgs {
		if msgs[i].Role == RoleUser {
			return true
		}
	}
	return false
}

func truncateTitle(content string) string {
	if utf8.RuneCountInString(content) <= titleLimit {
		return content
	}
	runes := []rune(content)
	return string(runes[:titleLimit])
}
