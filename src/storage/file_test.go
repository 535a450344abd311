package storage

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileKVRoundTrip(t *testing.T) {
	fs := afero.NewMemMapFs()
	kv, err := NewFileKV(fs, "/data/palaver")
	require.NoError(t, err)

	_, ok, err := kv.Get(KeyUserID)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, kv.Set(KeyUserID, "u1"))
	got, ok, err := kv.Get(KeyUserID)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "u1", got)

	require.NoError(t, kv.Set(KeyUserID, "u2"))
	got, _, _ = kv.Get(KeyUserID)
	assert.Equal(t, "u2", got)
}

func TestFileKVEscapesKeys(t *testing.T) {
	fs := afero.NewMemMapFs()
	kv, err := NewFileKV(fs, "/data")
	require.NoError(t, err)

	require.NoError(t, kv.Set("a/b:c", "v"))
	got, ok, err := kv.Get("a/b:c")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "v", got)

	exists, err := afero.DirExists(fs, "/data/a")
	require.NoError(t, err)
	assert.False(t, exists, "key separators must not create directories")
}
