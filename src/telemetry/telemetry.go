// Package telemetry publishes agent-activity signals on an in-process
// pub/sub bus, keyed by session id. The chat core only flips the processing
// flag; everything else is for observers (status line, debugging).
package telemetry

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"

	"github.com/sbellin/palaver/src/dispatch"
)

// ActivityEvent is one processing-flag transition for a session.
type ActivityEvent struct {
	SessionID  string    `json:"session_id"`
	Processing bool      `json:"processing"`
	Timestamp  time.Time `json:"timestamp"`
}

// Monitor tracks per-session processing state and publishes transitions.
type Monitor struct {
	pubsub *gochannel.GoChannel
	logger *slog.Logger

	mu         sync.Mutex
	processing map[string]bool
	closed     bool
}

var _ dispatch.Telemetry = (*Monitor)(nil)

// NewMonitor creates an activity monitor backed by an in-process channel
// pub/sub.
func NewMonitor(logger *slog.Logger) *Monitor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Monitor{
		pubsub:     gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{}),
		logger:     logger.With("component", "telemetry"),
		processing: make(map[string]bool),
	}
}

func topic(sessionID string) string {
	return fmt.Sprintf("activity.%s", sessionID)
}

// SetProcessing records the flag for a session and publishes the transition.
// Repeated calls with the same value publish nothing.
func (m *Monitor) SetProcessing(sessionID string, processing bool) {
	m.mu.Lock()
	if m.closed || m.processing[sessionID] == processing {
		m.mu.Unlock()
		return
	}
	m.processing[sessionID] = processing
	m.mu.Unlock()

	payload, err := json.Marshal(ActivityEvent{
		SessionID:  sessionID,
		Processing: processing,
		Timestamp:  time.Now(),
	})
	if err != nil {
		return
	}
	msg := message.NewMessage(watermill.NewUUID(), payload)
	if err := m.pubsub.Publish(topic(sessionID), msg); err != nil {
		m.logger.Debug("activity publish failed", "session_id", sessionID, "error", err)
	}
}

// Processing reports the current flag for a session.
func (m *Monitor) Processing(sessionID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.processing[sessionID]
}

// Events returns the read-only event stream for a session. The subscription
// ends when ctx is cancelled or the monitor is closed.
func (m *Monitor) Events(ctx context.Context, sessionID string) (<-chan *message.Message, error) {
	return m.pubsub.Subscribe(ctx, topic(sessionID))
}

// Connected reports whether the bus is still accepting events.
func (m *Monitor) Connected() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return !m.closed
}

// Close shuts down the bus and all subscriptions.
func (m *Monitor) Close() error {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return nil
	}
	m.closed = true
	m.mu.Unlock()
	return m.pubsub.Close()
}
