package llm

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/codefionn/modelbroker/internal/secrets"
	"github.com/codefionn/modelbroker/internal/securemem"
)

// storedCredentials is the on-disk shape of an encrypted credential file: one
// secrets.Payload per canonical provider name.
type storedCredentials map[string]*secrets.Payload

// CredentialStore persists provider API keys encrypted at rest and keeps the
// decrypted values only in memguard-locked memory for the lifetime of the
// process. It complements ResolveCredential's env-var lookup: a key found
// here takes precedence over one found only in the environment.
type CredentialStore struct {
	path string
	keys map[string]*securemem.String
}

// NewCredentialStore loads an encrypted credential file at path, decrypting
// it with password. A missing file yields an empty, usable store.
func NewCredentialStore(path, password string) (*CredentialStore, error) {
	store := &CredentialStore{path: path, keys: map[string]*securemem.String{}}

	raw, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return store, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read credential store: %w", err)
	}

	var stored storedCredentials
	if err := json.Unmarshal(raw, &stored); err != nil {
		return nil, fmt.Errorf("parse credential store: %w", err)
	}

	for provider, payload := range stored {
		plaintext, err := secrets.DecryptBytes(payload, password)
		if err != nil {
			return nil, fmt.Errorf("decrypt credential for %s: %w", provider, err)
		}
		store.keys[canonicalProviderName(provider)] = securemem.NewStringFromBytes(plaintext)
	}

	return store, nil
}

// Set encrypts and stores apiKey for provider in memory; call Save to
// persist it to disk.
func (c *CredentialStore) Set(provider, apiKey string) {
	canonical := canonicalProviderName(provider)
	if old, ok := c.keys[canonical]; ok {
		old.Destroy()
	}
	c.keys[canonical] = securemem.NewString(apiKey)
}

// Lookup returns the decrypted API key for provider, if the store holds one.
func (c *CredentialStore) Lookup(provider string) (string, bool) {
	s, ok := c.keys[canonicalProviderName(provider)]
	if !ok || s.IsEmpty() {
		return "", false
	}
	return s.String(), true
}

// Save encrypts every held key with password and writes the store to disk.
func (c *CredentialStore) Save(password string) error {
	stored := storedCredentials{}
	for provider, s := range c.keys {
		payload, err := secrets.EncryptBytes(s.Bytes(), password)
		if err != nil {
			return fmt.Errorf("encrypt credential for %s: %w", provider, err)
		}
		stored[provider] = payload
	}

	raw, err := json.MarshalIndent(stored, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal credential store: %w", err)
	}

	return os.WriteFile(c.path, raw, 0o600)
}

// ResolveCredentialWithStore behaves like ResolveCredential, but consults the
// store before falling back to environment variables.
func (c *CredentialStore) ResolveCredentialWithStore(providerName, explicitKey, baseURL string) ProviderCredential {
	if explicitKey == "" {
		if key, ok := c.Lookup(providerName); ok {
			explicitKey = key
		}
	}
	return ResolveCredential(providerName, explicitKey, baseURL)
}
