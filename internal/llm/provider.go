package llm

import "context"

// ProviderAdapter translates one CompletionRequest into a provider's wire
// format, issues the request, and streams back StreamEvents until the
// provider signals completion or the context is canceled. Implementations
// must be cancellation-safe: if the caller stops draining the returned
// channel (e.g. ctx is canceled), the adapter must not leak the underlying
// HTTP connection -- it terminates on its next read/poll.
type ProviderAdapter interface {
	// Name returns the canonical provider name this adapter serves, e.g.
	// "anthropic", "openai", "google", "openrouter", "local", "houseproxy".
	Name() string

	// Supports reports whether this adapter can serve the given model.
	Supports(model ModelKind) bool

	// Stream issues req against cred and returns a channel of StreamEvents.
	// The channel is closed after a StreamEventDone event or an error.
	Stream(ctx context.Context, cred ProviderCredential, req CompletionRequest) (<-chan StreamEvent, error)

	// SupportsPromptCompletion reports whether this adapter has a raw
	// completions endpoint distinct from its chat endpoint. Most adapters
	// do not; StreamPrompt on those returns ErrPromptCompletionUnsupported.
	SupportsPromptCompletion() bool

	// StreamPrompt is the raw-prompt counterpart to Stream. Callers should
	// check SupportsPromptCompletion first; adapters that return false
	// there may still implement this as an always-failing stub.
	StreamPrompt(ctx context.Context, cred ProviderCredential, req PromptRequest) (<-chan StreamEvent, error)
}

// errPromptCompletionUnsupported builds the stub error returned by adapters
// whose SupportsPromptCompletion reports false.
func errPromptCompletionUnsupported(adapterName string) error {
	return NewBrokerError(ErrPromptCompletionUnsupported, adapterName+" has no raw-completions endpoint", nil)
}

// ModelInfo describes a model a ProviderAdapter can list for discovery/UI
// purposes. Provider discovery itself is out of scope; this type exists so
// adapters that do know their static model list can expose it uniformly.
type ModelInfo struct {
	ID                  string
	Name                string
	Provider            string
	ContextWindow       int
	MaxOutputTokens     int
	SupportsToolCalling bool
}
