package llm

import (
	"context"
	"net/http"

	"github.com/codefionn/modelbroker/internal/logger"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// OpenAIAdapter serves GPT-family and o1/o3-family models. Reasoning models
// (o1/o3) go through the official SDK's Responses API; everything else uses
// the hand-rolled chat-completions SSE transport, matching the teacher's
// dual-path internal/llm/openai_client.go.
type OpenAIAdapter struct {
	httpClient *http.Client
	log        *logger.Logger
}

func NewOpenAIAdapter(httpClient *http.Client, log *logger.Logger) *OpenAIAdapter {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &OpenAIAdapter{httpClient: httpClient, log: log.WithPrefix("openai")}
}

func (a *OpenAIAdapter) Name() string { return "openai" }

func (a *OpenAIAdapter) Supports(model ModelKind) bool { return model.IsOpenAI() }

func (a *OpenAIAdapter) Stream(ctx context.Context, cred ProviderCredential, req CompletionRequest) (<-chan StreamEvent, error) {
	if req.Model.IsO1Series() {
		return a.streamResponsesAPI(ctx, cred, req)
	}
	return a.streamChatCompletions(ctx, cred, req)
}

// SupportsPromptCompletion is false: OpenAI retired its legacy completions
// endpoint for the GPT/o1/o3 model families this adapter serves, matching
// the house proxy's own model_prompt_endpoint table, which rejects the same
// families with UnsupportedModel.
func (a *OpenAIAdapter) SupportsPromptCompletion() bool { return false }

func (a *OpenAIAdapter) StreamPrompt(ctx context.Context, cred ProviderCredential, req PromptRequest) (<-chan StreamEvent, error) {
	return nil, NewBrokerError(ErrOpenAIDoesNotSupportCompletion, "openai has no raw-completions endpoint for this model family", nil)
}

// streamChatCompletions is the hand-rolled SSE path, shared in shape with
// OpenRouter/local-runner/house-proxy via openai_wire.go.
func (a *OpenAIAdapter) streamChatCompletions(ctx context.Context, cred ProviderCredential, req CompletionRequest) (<-chan StreamEvent, error) {
	endpoint := "https://api.openai.com/v1/chat/completions"
	if cred.BaseURL != "" {
		endpoint = cred.BaseURL
	}

	payload := buildOpenAIWireRequest(req, req.Model.String(), isOpenAITemperatureUnsupported(req.Model))
	headers := map[string]string{
		"Authorization": "Bearer " + cred.APIKey,
	}

	a.log.Debug("streaming chat completion for model %s", req.Model.String())
	return streamOpenAIWire(ctx, a.httpClient, endpoint, headers, payload)
}

// streamResponsesAPI uses the official SDK for o1/o3-style reasoning
// models, which reject the legacy chat-completions temperature knob
// entirely and stream a different event shape.
func (a *OpenAIAdapter) streamResponsesAPI(ctx context.Context, cred ProviderCredential, req CompletionRequest) (<-chan StreamEvent, error) {
	client := openai.NewClient(option.WithAPIKey(cred.APIKey))

	var input string
	for _, msg := range req.Messages {
		input += msg.Role.String() + ": " + msg.Content + "\n"
	}

	stream := client.Responses.NewStreaming(ctx, openai.ResponseNewParams{
		Model: req.Model.String(),
		Input: openai.ResponseNewParamsInputUnion{OfString: openai.String(input)},
	})

	events := make(chan StreamEvent)
	go func() {
		defer close(events)
		usage := UsageStatistics{}
		for stream.Next() {
			evt := stream.Current()
			switch variant := evt.AsAny().(type) {
			case openai.ResponseTextDeltaEvent:
				select {
				case events <- StreamEvent{Kind: StreamEventTextDelta, TextDelta: variant.Delta}:
				case <-ctx.Done():
					return
				}
			case openai.ResponseCompletedEvent:
				select {
				case events <- StreamEvent{Kind: StreamEventDone, Usage: usage}:
				case <-ctx.Done():
				}
				return
			}
		}
		if err := stream.Err(); err != nil {
			a.log.Warn("responses api stream error: %v", err)
		}
		select {
		case events <- StreamEvent{Kind: StreamEventDone, Usage: usage}:
		case <-ctx.Done():
		}
	}()

	return events, nil
}

// isOpenAITemperatureUnsupported reports whether model requires the
// temperature parameter to be forced to 1.0 rather than the caller's value.
func isOpenAITemperatureUnsupported(model ModelKind) bool {
	return model.IsO1Series()
}
