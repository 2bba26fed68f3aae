package llm

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/codefionn/modelbroker/internal/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAdapter struct {
	name            string
	supports        func(ModelKind) bool
	events          []StreamEvent
	streamErr       error
	lastCred        ProviderCredential
	promptSupported bool
	promptEvents    []StreamEvent
	lastPromptCred  ProviderCredential
}

func (f *fakeAdapter) Name() string { return f.name }

func (f *fakeAdapter) Supports(model ModelKind) bool { return f.supports(model) }

func (f *fakeAdapter) Stream(ctx context.Context, cred ProviderCredential, req CompletionRequest) (<-chan StreamEvent, error) {
	f.lastCred = cred
	if f.streamErr != nil {
		return nil, f.streamErr
	}
	ch := make(chan StreamEvent, len(f.events))
	for _, ev := range f.events {
		ch <- ev
	}
	close(ch)
	return ch, nil
}

func (f *fakeAdapter) SupportsPromptCompletion() bool { return f.promptSupported }

func (f *fakeAdapter) StreamPrompt(ctx context.Context, cred ProviderCredential, req PromptRequest) (<-chan StreamEvent, error) {
	f.lastPromptCred = cred
	if !f.promptSupported {
		return nil, errPromptCompletionUnsupported(f.name)
	}
	ch := make(chan StreamEvent, len(f.promptEvents))
	for _, ev := range f.promptEvents {
		ch <- ev
	}
	close(ch)
	return ch, nil
}

type fakeSink struct {
	mu     sync.Mutex
	events []TelemetryEvent
}

func (s *fakeSink) Report(e TelemetryEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, e)
}

func (s *fakeSink) snapshot() []TelemetryEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]TelemetryEvent, len(s.events))
	copy(out, s.events)
	return out
}

func testLogger() *logger.Logger {
	l, _ := logger.New(logger.LevelNone, "", "")
	return l
}

func TestBrokerRoutesByCredentialNotHint(t *testing.T) {
	anthropicAdapter := &fakeAdapter{
		name:     "anthropic",
		supports: func(m ModelKind) bool { return true },
		events:   []StreamEvent{{Kind: StreamEventDone}},
	}
	openRouterAdapter := &fakeAdapter{
		name:     "openrouter",
		supports: func(m ModelKind) bool { return true },
		events:   []StreamEvent{{Kind: StreamEventDone}},
	}

	broker := NewBroker(testLogger()).RegisterAdapter(anthropicAdapter).RegisterAdapter(openRouterAdapter)

	// The caller passes a stale/wrong provider hint ("anthropic") -- only
	// the resolved credential decides routing. A credential naming
	// "openrouter" must route there even though "anthropic" was registered
	// first, also claims to support the model, and matches the hint.
	cred := ProviderCredential{Provider: "openrouter", APIKey: "key"}
	req := CompletionRequest{Model: ParseModelKind("claude-3-5-sonnet")}

	ch, err := broker.StreamCompletion(context.Background(), cred, req, "anthropic")
	require.NoError(t, err)
	for range ch {
	}

	assert.Equal(t, "openrouter", openRouterAdapter.lastCred.Provider)
	assert.Empty(t, anthropicAdapter.lastCred.Provider)
}

func TestBrokerFiresTelemetryOnlyOnSuccess(t *testing.T) {
	adapter := &fakeAdapter{
		name:     "anthropic",
		supports: func(m ModelKind) bool { return true },
		events: []StreamEvent{
			{Kind: StreamEventTextDelta, TextDelta: "hi"},
			{Kind: StreamEventDone, Usage: UsageStatistics{PromptTokens: 5, CompletionTokens: 2}},
		},
	}
	sink := &fakeSink{}
	broker := NewBroker(testLogger()).RegisterAdapter(adapter).SetSink(sink)

	cred := ProviderCredential{Provider: "anthropic", APIKey: "key"}
	req := CompletionRequest{
		Model:    ParseModelKind("claude-3-5-sonnet"),
		Metadata: map[string]string{"root_trace_id": "trace-1", "event_type": "completion"},
	}

	ch, err := broker.StreamCompletion(context.Background(), cred, req, "")
	require.NoError(t, err)
	for range ch {
	}

	require.Eventually(t, func() bool { return len(sink.snapshot()) == 1 }, time.Second, time.Millisecond)
	events := sink.snapshot()
	assert.Equal(t, "trace-1", events[0].RootTraceID)
	assert.Equal(t, "completion", events[0].EventType)
	assert.Equal(t, 7, events[0].Usage.TotalTokens())
}

func TestBrokerReturnsMissingProviderKeysWhenCredentialUnresolved(t *testing.T) {
	broker := NewBroker(testLogger())
	_, err := broker.StreamCompletion(context.Background(), ProviderCredential{}, CompletionRequest{Model: ParseModelKind("gpt-4o")}, "")
	require.Error(t, err)

	var brokerErr *BrokerError
	require.ErrorAs(t, err, &brokerErr)
	assert.Equal(t, ErrMissingProviderKeys, brokerErr.Kind)
}

func TestBrokerReturnsUnsupportedModelWhenNoAdapterMatches(t *testing.T) {
	broker := NewBroker(testLogger())
	cred := ProviderCredential{Provider: "anthropic", APIKey: "key"}
	_, err := broker.StreamCompletion(context.Background(), cred, CompletionRequest{Model: ParseModelKind("gpt-4o")}, "")
	require.Error(t, err)

	var brokerErr *BrokerError
	require.ErrorAs(t, err, &brokerErr)
	assert.Equal(t, ErrUnsupportedModel, brokerErr.Kind)
}

func TestBrokerStreamPromptCompletionRejectsUnsupportedAdapter(t *testing.T) {
	adapter := &fakeAdapter{
		name:            "openrouter",
		supports:        func(ModelKind) bool { return true },
		promptSupported: false,
	}
	broker := NewBroker(testLogger()).RegisterAdapter(adapter)

	cred := ProviderCredential{Provider: "openrouter", APIKey: "key"}
	_, err := broker.StreamPromptCompletion(context.Background(), cred, PromptRequest{Model: ParseModelKind("claude-3-5-sonnet")}, "")
	require.Error(t, err)

	var brokerErr *BrokerError
	require.ErrorAs(t, err, &brokerErr)
	assert.Equal(t, ErrPromptCompletionUnsupported, brokerErr.Kind)
}

func TestBrokerStreamPromptCompletionDispatchesToSupportingAdapter(t *testing.T) {
	adapter := &fakeAdapter{
		name:            "houseproxy",
		supports:        func(ModelKind) bool { return true },
		promptSupported: true,
		promptEvents:    []StreamEvent{{Kind: StreamEventTextDelta, TextDelta: "raw completion"}, {Kind: StreamEventDone}},
	}
	broker := NewBroker(testLogger()).RegisterAdapter(adapter)

	cred := ProviderCredential{Provider: "houseproxy", APIKey: "key", BaseURL: "https://proxy.internal"}
	req := PromptRequest{Model: ParseModelKind("gemini-1.5-pro"), Prompt: "func main() {"}

	ch, err := broker.StreamPromptCompletion(context.Background(), cred, req, "")
	require.NoError(t, err)

	var texts []string
	for ev := range ch {
		if ev.Kind == StreamEventTextDelta {
			texts = append(texts, ev.TextDelta)
		}
	}

	assert.Equal(t, []string{"raw completion"}, texts)
	assert.Equal(t, "houseproxy", adapter.lastPromptCred.Provider)
}

func TestBrokerStreamAnswerDispatchesChatBranch(t *testing.T) {
	adapter := &fakeAdapter{
		name:     "anthropic",
		supports: func(ModelKind) bool { return true },
		events:   []StreamEvent{{Kind: StreamEventDone}},
	}
	broker := NewBroker(testLogger()).RegisterAdapter(adapter)

	cred := ProviderCredential{Provider: "anthropic", APIKey: "key"}
	req := AnswerRequest{Chat: &CompletionRequest{Model: ParseModelKind("claude-3-5-sonnet")}}

	ch, err := broker.StreamAnswer(context.Background(), cred, req, "")
	require.NoError(t, err)
	for range ch {
	}

	assert.Equal(t, "anthropic", adapter.lastCred.Provider)
	assert.Empty(t, adapter.lastPromptCred.Provider)
}

func TestBrokerStreamAnswerDispatchesPromptBranch(t *testing.T) {
	adapter := &fakeAdapter{
		name:            "houseproxy",
		supports:        func(ModelKind) bool { return true },
		promptSupported: true,
		promptEvents:    []StreamEvent{{Kind: StreamEventDone}},
	}
	broker := NewBroker(testLogger()).RegisterAdapter(adapter)

	cred := ProviderCredential{Provider: "houseproxy", APIKey: "key", BaseURL: "https://proxy.internal"}
	req := AnswerRequest{Prompt: &PromptRequest{Model: ParseModelKind("gemini-1.5-pro"), Prompt: "x := "}}

	ch, err := broker.StreamAnswer(context.Background(), cred, req, "")
	require.NoError(t, err)
	for range ch {
	}

	assert.Equal(t, "houseproxy", adapter.lastPromptCred.Provider)
	assert.Empty(t, adapter.lastCred.Provider)
}

func TestBrokerStreamAnswerRejectsEmptyUnion(t *testing.T) {
	adapter := &fakeAdapter{name: "anthropic", supports: func(ModelKind) bool { return true }}
	broker := NewBroker(testLogger()).RegisterAdapter(adapter)

	cred := ProviderCredential{Provider: "anthropic", APIKey: "key"}
	_, err := broker.StreamAnswer(context.Background(), cred, AnswerRequest{}, "")
	require.Error(t, err)
}
