package llm

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCredentialStoreRoundTripsThroughDisk(t *testing.T) {
	path := filepath.Join(t.TempDir(), "credentials.json")

	store, err := NewCredentialStore(path, "hunter2")
	require.NoError(t, err)
	store.Set("anthropic", "sk-ant-test")
	require.NoError(t, store.Save("hunter2"))

	reloaded, err := NewCredentialStore(path, "hunter2")
	require.NoError(t, err)

	key, ok := reloaded.Lookup("anthropic")
	assert.True(t, ok)
	assert.Equal(t, "sk-ant-test", key)
}

func TestCredentialStoreRejectsWrongPassword(t *testing.T) {
	path := filepath.Join(t.TempDir(), "credentials.json")

	store, err := NewCredentialStore(path, "correct-horse")
	require.NoError(t, err)
	store.Set("openai", "sk-test")
	require.NoError(t, store.Save("correct-horse"))

	_, err = NewCredentialStore(path, "wrong-password")
	assert.Error(t, err)
}

func TestCredentialStoreMissingFileIsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "does-not-exist.json")

	store, err := NewCredentialStore(path, "anything")
	require.NoError(t, err)

	_, ok := store.Lookup("openai")
	assert.False(t, ok)
}

func TestResolveCredentialWithStorePrefersStoreOverEnv(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "env-key")

	path := filepath.Join(t.TempDir(), "credentials.json")
	store, err := NewCredentialStore(path, "pw")
	require.NoError(t, err)
	store.Set("openai", "stored-key")

	cred := store.ResolveCredentialWithStore("openai", "", "")
	assert.Equal(t, "stored-key", cred.APIKey)
}
