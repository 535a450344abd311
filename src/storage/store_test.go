package storage

import (
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sbellin/palaver/src/chat"
)

type brokenKV struct{}

func (brokenKV) Get(string) (string, bool, error) { return "", false, errors.New("backend down") }
func (brokenKV) Set(string, string) error         { return errors.New("backend down") }

func sampleCollection() chat.Collection {
	return chat.Collection{
		{
			ID:        "c1",
			Title:     "hello",
			SessionID: "s1",
			Messages: []chat.Message{
				{ID: "m1", Role: chat.RoleUser, Content: "hello", Timestamp: 1700000000000},
				{ID: "m2", Role: chat.RoleAssistant, Content: "hi!", Timestamp: 1700000001000},
				{ID: "m3", Role: chat.RoleAssistant, Content: "oops", Timestamp: 1700000002000, Error: true},
			},
			CreatedAt: 1700000000000,
			UpdatedAt: 1700000002000,
		},
	}
}

func TestConversationsRoundTrip(t *testing.T) {
	s := NewStore(NewMapKV(), slog.Default())

	want := sampleCollection()
	s.SaveConversations(want)

	got, ok := s.LoadConversations()
	require.True(t, ok)
	assert.Equal(t, want, got)
}

func TestLoadConversationsFirstRun(t *testing.T) {
	s := NewStore(NewMapKV(), nil)
	_, ok := s.LoadConversations()
	assert.False(t, ok)
}

func TestLoadConversationsMalformed(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"object instead of array", "{}"},
		{"empty array", "[]"},
		{"truncated json", `[{"id":"c1"`},
		{"plain garbage", "not json"},
		{"empty value", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kv := NewMapKV()
			require.NoError(t, kv.Set(KeyConversations, tt.raw))
			s := NewStore(kv, nil)
			_, ok := s.LoadConversations()
			assert.False(t, ok, "malformed data must load as first run")
		})
	}
}

func TestLoadConversationsBackendFailure(t *testing.T) {
	s := NewStore(brokenKV{}, nil)
	_, ok := s.LoadConversations()
	assert.False(t, ok)
}

func TestSaveSwallowsBackendFailure(t *testing.T) {
	s := NewStore(brokenKV{}, nil)
	assert.NotPanics(t, func() {
		s.SaveConversations(sampleCollection())
		s.SaveIdentity("u1")
	})
}

func TestIdentityRoundTrip(t *testing.T) {
	s := NewStore(NewMapKV(), nil)

	_, ok := s.LoadIdentity()
	assert.False(t, ok)

	s.SaveIdentity("user-abc")
	got, ok := s.LoadIdentity()
	require.True(t, ok)
	assert.Equal(t, "user-abc", got)
}

func TestIdentityIsBareString(t *testing.T) {
	kv := NewMapKV()
	s := NewStore(kv, nil)
	s.SaveIdentity("user-abc")

	raw, ok, err := kv.Get(KeyUserID)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "user-abc", raw, "identity is stored unwrapped")
}
