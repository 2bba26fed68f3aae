package llm

import (
	"context"
	"fmt"

	"github.com/codefionn/modelbroker/internal/logger"
	"github.com/google/uuid"
)

// TelemetryEvent is what the Broker reports to a Sink after a successful
// completion. It is never emitted for failed requests, and a Sink that
// blocks or panics must never affect the returned stream -- Report is
// always called from a detached goroutine.
type TelemetryEvent struct {
	RequestID   string
	RootTraceID string
	EventType   string
	Model       ModelKind
	Provider    string
	Usage       UsageStatistics
}

// Sink receives fire-and-forget telemetry. Implementations must not block
// indefinitely; the Broker does not wait for Report to return.
type Sink interface {
	Report(event TelemetryEvent)
}

// NoopSink discards telemetry. Used when no sink is configured.
type NoopSink struct{}

func (NoopSink) Report(TelemetryEvent) {}

// Broker routes a CompletionRequest to the ProviderAdapter registered for
// the request's resolved ProviderCredential -- never by a caller-supplied
// provider hint, which may be stale or absent. This is a deliberate
// property: two requests for the same model but different credentials can
// route to different adapters (e.g. a direct Anthropic key vs. an
// OpenRouter-fronted Claude key), and the Broker must honor whichever
// credential actually resolved.
type Broker struct {
	adapters []ProviderAdapter
	sink     Sink
	log      *logger.Logger
}

func NewBroker(log *logger.Logger) *Broker {
	return &Broker{sink: NoopSink{}, log: log.WithPrefix("broker")}
}

// RegisterAdapter adds an adapter to the broker's routing table, keyed by
// its Name(). If two adapters register the same Name, the first one
// registered wins -- getProvider only ever looks up by name.
func (b *Broker) RegisterAdapter(adapter ProviderAdapter) *Broker {
	b.adapters = append(b.adapters, adapter)
	return b
}

// SetSink installs the telemetry sink. Passing nil reverts to NoopSink.
func (b *Broker) SetSink(sink Sink) *Broker {
	if sink == nil {
		sink = NoopSink{}
	}
	b.sink = sink
	return b
}

// getProvider resolves the adapter registered under the resolved
// credential's Provider tag. The tag is authoritative: there is no fallback
// to some other adapter that happens to claim Supports(model). A missing
// adapter for the tagged provider is ErrUnsupportedModel, exactly like the
// original's single self.providers.get(&provider_type) map lookup -- it
// never substitutes a different provider. The caller's provider hint (if
// any, carried only in logging/telemetry) plays no role in this decision.
func (b *Broker) getProvider(cred ProviderCredential) (ProviderAdapter, error) {
	for _, a := range b.adapters {
		if a.Name() == cred.Provider {
			return a, nil
		}
	}
	return nil, NewBrokerError(ErrUnsupportedModel, fmt.Sprintf("no adapter registered for provider %s", cred.Provider), nil)
}

// StreamCompletion resolves a provider, issues the request, and on success
// fires a single fire-and-forget telemetry event. The returned channel
// carries raw adapter StreamEvents; callers that want the OutputPostProcessor's
// line-buffered indentation repair should pass this channel to
// NewOutputPostProcessor.
//
// providerHint exists only for caller convenience (e.g. display or logging
// before a credential is resolved) -- routing always goes by cred.Provider,
// never by this argument. Passing "" is always safe.
func (b *Broker) StreamCompletion(ctx context.Context, cred ProviderCredential, req CompletionRequest, providerHint string) (<-chan StreamEvent, error) {
	if cred.IsZero() {
		return nil, NewBrokerError(ErrMissingProviderKeys, "no credential resolved for request", nil)
	}

	adapter, err := b.getProvider(cred)
	if err != nil {
		return nil, err
	}

	requestID := uuid.NewString()
	b.log.Debug("request %s routed to provider %s for model %s", requestID, adapter.Name(), req.Model.String())

	upstream, err := adapter.Stream(ctx, cred, req)
	if err != nil {
		return nil, err
	}

	out := make(chan StreamEvent)
	go func() {
		defer close(out)
		var finalUsage UsageStatistics
		for ev := range upstream {
			if ev.Kind == StreamEventDone {
				finalUsage = ev.Usage
			}
			select {
			case out <- ev:
			case <-ctx.Done():
				return
			}
		}

		go b.reportTelemetry(requestID, adapter.Name(), req, finalUsage)
	}()

	return out, nil
}

// StreamPromptCompletion is the raw-prompt counterpart to StreamCompletion.
// Routing follows the same credential-not-hint rule. If the resolved
// adapter has no raw-completions endpoint, it returns
// ErrPromptCompletionUnsupported rather than silently falling back to a
// chat-shaped request.
func (b *Broker) StreamPromptCompletion(ctx context.Context, cred ProviderCredential, req PromptRequest, providerHint string) (<-chan StreamEvent, error) {
	if cred.IsZero() {
		return nil, NewBrokerError(ErrMissingProviderKeys, "no credential resolved for request", nil)
	}

	adapter, err := b.getProvider(cred)
	if err != nil {
		return nil, err
	}
	if !adapter.SupportsPromptCompletion() {
		return nil, errPromptCompletionUnsupported(adapter.Name())
	}

	requestID := uuid.NewString()
	b.log.Debug("prompt request %s routed to provider %s for model %s", requestID, adapter.Name(), req.Model.String())

	upstream, err := adapter.StreamPrompt(ctx, cred, req)
	if err != nil {
		return nil, err
	}

	out := make(chan StreamEvent)
	go func() {
		defer close(out)
		var finalUsage UsageStatistics
		for ev := range upstream {
			if ev.Kind == StreamEventDone {
				finalUsage = ev.Usage
			}
			select {
			case out <- ev:
			case <-ctx.Done():
				return
			}
		}

		go b.reportTelemetry(requestID, adapter.Name(), CompletionRequest{Model: req.Model, Metadata: req.Metadata}, finalUsage)
	}()

	return out, nil
}

// StreamAnswer dispatches an AnswerRequest's tagged union to whichever of
// StreamCompletion/StreamPromptCompletion matches the set branch. Exactly
// one of req.Chat/req.Prompt must be non-nil.
func (b *Broker) StreamAnswer(ctx context.Context, cred ProviderCredential, req AnswerRequest, providerHint string) (<-chan StreamEvent, error) {
	switch {
	case req.Chat != nil:
		return b.StreamCompletion(ctx, cred, *req.Chat, providerHint)
	case req.Prompt != nil:
		return b.StreamPromptCompletion(ctx, cred, *req.Prompt, providerHint)
	default:
		return nil, NewBrokerError(ErrSerde, "AnswerRequest has neither Chat nor Prompt set", nil)
	}
}

func (b *Broker) reportTelemetry(requestID, provider string, req CompletionRequest, usage UsageStatistics) {
	rootTraceID := req.Metadata["root_trace_id"]
	if rootTraceID == "" {
		rootTraceID = requestID
	}
	eventType := req.Metadata["event_type"]
	if eventType == "" {
		eventType = "no_event_type"
	}

	b.sink.Report(TelemetryEvent{
		RequestID:   requestID,
		RootTraceID: rootTraceID,
		EventType:   eventType,
		Model:       req.Model,
		Provider:    provider,
		Usage:       usage,
	})
}
