package llm

import (
	"context"
	"net/http"

	"github.com/codefionn/modelbroker/internal/logger"
)

// OpenRouterAdapter shares the chat-completions wire transport with
// OpenAIAdapter but adds OpenRouter's attribution headers. Tool-call delta
// accumulation keyed by (ChoiceIndex, ToolCallIndex) is the source of the
// preserved open question about multi-tool-per-choice frame ordering --
// this adapter does not attempt to reorder or merge frames beyond that key.
type OpenRouterAdapter struct {
	httpClient *http.Client
	log        *logger.Logger
}

func NewOpenRouterAdapter(httpClient *http.Client, log *logger.Logger) *OpenRouterAdapter {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &OpenRouterAdapter{httpClient: httpClient, log: log.WithPrefix("openrouter")}
}

func (a *OpenRouterAdapter) Name() string { return "openrouter" }

func (a *OpenRouterAdapter) Supports(model ModelKind) bool { return model.IsOpenRouter() }

func (a *OpenRouterAdapter) Stream(ctx context.Context, cred ProviderCredential, req CompletionRequest) (<-chan StreamEvent, error) {
	endpoint := "https://openrouter.ai/api/v1/chat/completions"
	if cred.BaseURL != "" {
		endpoint = cred.BaseURL
	}

	payload := buildOpenAIWireRequest(req, req.Model.String(), false)
	headers := map[string]string{
		"Authorization": "Bearer " + cred.APIKey,
		"HTTP-Referer":  "https://modelbroker.dev/",
		"X-Title":       "modelbroker",
	}

	a.log.Debug("streaming openrouter completion for model %s", req.Model.String())
	return streamOpenAIWire(ctx, a.httpClient, endpoint, headers, payload)
}

// SupportsPromptCompletion is false, matching the original OpenRouter client,
// whose stream_prompt_completion was never implemented.
func (a *OpenRouterAdapter) SupportsPromptCompletion() bool { return false }

func (a *OpenRouterAdapter) StreamPrompt(ctx context.Context, cred ProviderCredential, req PromptRequest) (<-chan StreamEvent, error) {
	return nil, errPromptCompletionUnsupported(a.Name())
}
