package telemetry

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetProcessingPublishesTransitions(t *testing.T) {
	m := NewMonitor(nil)
	defer m.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	events, err := m.Events(ctx, "s1")
	require.NoError(t, err)

	m.SetProcessing("s1", true)
	assert.True(t, m.Processing("s1"))

	select {
	case msg := <-events:
		var ev ActivityEvent
		require.NoError(t, json.Unmarshal(msg.Payload, &ev))
		assert.Equal(t, "s1", ev.SessionID)
		assert.True(t, ev.Processing)
		msg.Ack()
	case <-time.After(time.Second):
		t.Fatal("no activity event received")
	}

	m.SetProcessing("s1", false)
	select {
	case msg := <-events:
		var ev ActivityEvent
		require.NoError(t, json.Unmarshal(msg.Payload, &ev))
		assert.False(t, ev.Processing)
		msg.Ack()
	case <-time.After(time.Second):
		t.Fatal("no clear event received")
	}
}

func TestRepeatedSetIsDeduplicated(t *testing.T) {
	m := NewMonitor(nil)
	defer m.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	events, err := m.Events(ctx, "s1")
	require.NoError(t, err)

	m.SetProcessing("s1", true)
	m.SetProcessing("s1", true)

	msg := <-events
	msg.Ack()

	select {
	case <-events:
		t.Fatal("duplicate transition must not publish")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestSessionsAreIndependent(t *testing.T) {
	m := NewMonitor(nil)
	defer m.Close()

	m.SetProcessing("s1", true)
	assert.True(t, m.Processing("s1"))
	assert.False(t, m.Processing("s2"))
}

func TestCloseDisconnects(t *testing.T) {
	m := NewMonitor(nil)
	assert.True(t, m.Connected())
	require.NoError(t, m.Close())
	assert.False(t, m.Connected())

	// After close, setting flags is a no-op instead of a panic.
	assert.NotPanics(t, func() { m.SetProcessing("s1", true) })
	assert.NoError(t, m.Close())
}
