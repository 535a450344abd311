// Package chat holds the conversation collection and the operations that
// mutate it: create, select, delete, and message append.
package chat

// Role identifies the author of a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is a single utterance in a conversation. It is immutable once
// appended; Error is set at creation for assistant messages that represent
// a failed agent call.
type Message struct {
	ID        string `json:"id"`
	Role      Role   `json:"role"`
	Content   string `json:"content"`
	Timestamp int64  `json:"timestamp"`
	Error     bool   `json:"error,omitempty"`
}

// Conversation is one independent thread of messages. SessionID is the
// correlation key for the remote agent's server-side context and never
// changes after creation. Title is derived from the first user message and
// frozen thereafter.
type Conversation struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	SessionID string    `json:"sessionId"`
	Messages  []Message `json:"messages"`
	CreatedAt int64     `json:"createdAt"`
	UpdatedAt int64     `json:"updatedAt"`
}

// Clone returns a deep copy of the conversation.
func (c Conversation) Clone() Conversation {
	out := c
	out.Messages = make([]Message, len(c.Messages))
	copy(out.Messages, c.Messages)
	return out
}

// Collection is the ordered set of conversations, newest-created-first.
type Collection []Conversation

// Clone returns a deep copy of the collection.
func (c Collection) Clone() Collection {
	if c == nil {
		return nil
	}
	out := make(Collection, len(c))
	for i := range c {
		out[i] = c[i].Clone()
	}
	return out
}

// IndexOf returns the position of the conversation with the given id, or -1.
func (c Collection) IndexOf(id string) int {
	for i := range c {
		if c[i].ID == id {
			return i
		}
	}
	return -1
}

// Snapshot is a self-consistent copy of the store state handed to
// subscribers and the persistence layer.
type Snapshot struct {
	Conversations Collection
	ActiveID      string
}
