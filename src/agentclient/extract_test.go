package agentclient

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decode(t *testing.T, raw string) any {
	t.Helper()
	var v any
	require.NoError(t, json.Unmarshal([]byte(raw), &v))
	return v
}

func TestGenericText(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"bare string", `"just text"`, "just text"},
		{"text key", `{"text":"hi"}`, "hi"},
		{"content key", `{"content":"hi"}`, "hi"},
		{"nested", `{"output":{"content":"deep"}}`, "deep"},
		{"array", `{"output":[{"text":"first"},{"text":"second"}]}`, "first"},
		{"prefers text over content", `{"content":"b","text":"a"}`, "a"},
		{"empty string skipped", `{"text":"","content":"fallthrough"}`, "fallthrough"},
		{"nothing extractable", `{"status":"ok","code":200}`, ""},
		{"null", `null`, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, GenericText(decode(t, tt.raw)))
		})
	}
}

func TestChoicesText(t *testing.T) {
	raw := `{"choices":[{"message":{"role":"assistant","content":"from choices"}}]}`
	assert.Equal(t, "from choices", ChoicesText(decode(t, raw)))

	assert.Empty(t, ChoicesText(decode(t, `{"choices":[]}`)))
	assert.Empty(t, ChoicesText(decode(t, `{"choices":[{"message":{}}]}`)))
	assert.Empty(t, ChoicesText(decode(t, `{"other":"shape"}`)))
	assert.Empty(t, ChoicesText("not a map"))
}

func TestDefaultExtractorsOrder(t *testing.T) {
	chain := DefaultExtractors()
	require.Len(t, chain, 2)

	// A choices-shaped body has no conventional text key at any level the
	// generic walk visits, so tier two picks it up.
	v := decode(t, `{"choices":[{"message":{"content":"tiered"}}]}`)
	assert.Empty(t, chain[0].Extract(v))
	assert.Equal(t, "tiered", chain[1].Extract(v))
}
