package dispatch

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sbellin/palaver/src/chat"
	"github.com/sbellin/palaver/src/ident"
)

// FallbackResponse is shown when a successful agent call yields no
// extractable text. Not an error; the conversation still progresses.
const FallbackResponse = "I received your message but couldn't produce a readable reply."

// ErrorResponse is the assistant-role text shown for both transport and
// application failures. The user retries manually; there is no auto-retry.
const ErrorResponse = "Sorry, something went wrong while reaching the assistant. Use retry to try again."

// Config wires a Dispatcher. Store and Caller are required.
type Config struct {
	Store   *chat.Store
	Caller  AgentCaller
	AgentID string
	UserID  string
	// Extractors is the response-text fallback chain, tried in order. The
	// literal FallbackResponse is always the final tier.
	Extractors []Extractor
	Telemetry  Telemetry
	Logger     *slog.Logger
	// GenerateID and Now exist for tests.
	GenerateID func() string
	Now        func() time.Time
}

// Dispatcher runs the per-send state machine Idle -> Sending ->
// {Delivered, Failed} -> Idle. At most one send is in flight at a time; a
// second Send while Sending is silently dropped.
type Dispatcher struct {
	store      *chat.Store
	caller     AgentCaller
	agentID    string
	userID     string
	extractors []Extractor
	telemetry  Telemetry
	logger     *slog.Logger
	generateID func() string
	now        func() time.Time

	sending atomic.Bool

	mu           sync.Mutex
	pendingRetry string
}

// New creates a Dispatcher.
func New(cfg Config) *Dispatcher {
	if cfg.Telemetry == nil {
		cfg.Telemetry = nopTelemetry{}
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.GenerateID == nil {
		cfg.GenerateID = ident.Generate
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &Dispatcher{
		store:      cfg.Store,
		caller:     cfg.Caller,
		agentID:    cfg.AgentID,
		userID:     cfg.UserID,
		extractors: cfg.Extractors,
		telemetry:  cfg.Telemetry,
		logger:     cfg.Logger.With("component", "dispatcher"),
		generateID: cfg.GenerateID,
		now:        cfg.Now,
	}
}

// Sending reports whether a send is currently in flight.
func (d *Dispatcher) Sending() bool {
	return d.sending.Load()
}

// Send dispatches text to the active conversation, creating one if none is
// active. Blank text and sends issued while another is in flight are silent
// no-ops.
func (d *Dispatcher) Send(ctx context.Context, text string) {
	d.send(ctx, text, "")
}

// SendTo dispatches text to a specific conversation. If the conversation no
// longer exists it falls back to Send's resolution.
func (d *Dispatcher) SendTo(ctx context.Context, text, conversationID string) {
	d.send(ctx, text, conversationID)
}

// Retry re-sends the last failed message text through the full flow,
// including a fresh optimistic user message. A no-op when nothing failed.
func (d *Dispatcher) Retry(ctx context.Context) {
	d.mu.Lock()
	payload := d.pendingRetry
	d.mu.Unlock()
	if payload == "" {
		return
	}
	d.send(ctx, payload, "")
}

func (d *Dispatcher) send(ctx context.Context, text, conversationID string) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return
	}
	if !d.sending.CompareAndSwap(false, true) {
		d.logger.Debug("send dropped, another send in flight")
		return
	}
	defer d.sending.Store(false)

	conv := d.resolveConversation(conversationID)

	// Optimistic update: the user sees their message before any network
	// activity. Completion below targets conv.ID captured here, not
	// whatever conversation is active by then.
	d.store.AppendMessage(conv.ID, chat.Message{
		ID:        d.generateID(),
		Role:      chat.RoleUser,
		Content:   trimmed,
		Timestamp: d.now().UnixMilli(),
	})

	d.telemetry.SetProcessing(conv.SessionID, true)
	defer d.telemetry.SetProcessing(conv.SessionID, false)

	result, err := d.caller.Call(ctx, trimmed, d.agentID, AgentContext{
		UserID:    d.userID,
		SessionID: conv.SessionID,
	})

	if err != nil || result == nil || !result.Success {
		if err != nil {
			d.logger.Warn("agent call failed", "conversation_id", conv.ID, "error", err)
		} else {
			d.logger.Warn("agent reported failure", "conversation_id", conv.ID)
		}
		d.mu.Lock()
		d.pendingRetry = trimmed
		d.mu.Unlock()
		d.store.AppendMessage(conv.ID, chat.Message{
			ID:        d.generateID(),
			Role:      chat.RoleAssistant,
			Content:   ErrorResponse,
			Timestamp: d.now().UnixMilli(),
			Error:     true,
		})
		return
	}

	d.mu.Lock()
	d.pendingRetry = ""
	d.mu.Unlock()

	d.store.AppendMessage(conv.ID, chat.Message{
		ID:        d.generateID(),
		Role:      chat.RoleAssistant,
		Content:   d.extractText(result.Response),
		Timestamp: d.now().UnixMilli(),
	})
}

// resolveConversation picks the send target: the explicit id when it still
// exists, else the active conversation, else a fresh one.
func (d *Dispatcher) resolveConversation(conversationID string) chat.Conversation {
	if conversationID != "" {
		if conv, ok := d.store.Conversation(conversationID); ok {
			return conv
		}
	}
	if conv, ok := d.store.Active(); ok {
		return conv
	}
	return d.store.CreateConversation()
}

func (d *Dispatcher) extractText(response any) string {
	for _, e := range d.extractors {
		if text := e.Extract(response); text != "" {
			return text
		}
	}
	return FallbackResponse
}
