package llm

import (
	"context"
	"net/http"

	"github.com/codefionn/modelbroker/internal/logger"
)

// LocalRunnerAdapter serves self-hosted models (e.g. an Ollama-compatible
// server) over the same chat-completions wire shape, pointed at a
// caller-configured base URL. No API key is required by default; the
// ProviderCredential's BaseURL is the significant field here.
type LocalRunnerAdapter struct {
	httpClient *http.Client
	log        *logger.Logger
}

func NewLocalRunnerAdapter(httpClient *http.Client, log *logger.Logger) *LocalRunnerAdapter {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &LocalRunnerAdapter{httpClient: httpClient, log: log.WithPrefix("local")}
}

func (a *LocalRunnerAdapter) Name() string { return "local" }

func (a *LocalRunnerAdapter) Supports(model ModelKind) bool { return model.IsLocalRunner() }

func (a *LocalRunnerAdapter) Stream(ctx context.Context, cred ProviderCredential, req CompletionRequest) (<-chan StreamEvent, error) {
	endpoint := "http://localhost:11434/v1/chat/completions"
	if cred.BaseURL != "" {
		endpoint = cred.BaseURL
	}

	payload := buildOpenAIWireRequest(req, req.Model.String(), false)
	headers := map[string]string{}
	if cred.APIKey != "" {
		headers["Authorization"] = "Bearer " + cred.APIKey
	}

	a.log.Debug("streaming local runner completion for model %s at %s", req.Model.String(), endpoint)
	return streamOpenAIWire(ctx, a.httpClient, endpoint, headers, payload)
}

// SupportsPromptCompletion is false. No example client exercises a
// self-hosted runner's raw-completions surface, so this adapter does not
// claim one rather than guess at an untested wire shape.
func (a *LocalRunnerAdapter) SupportsPromptCompletion() bool { return false }

func (a *LocalRunnerAdapter) StreamPrompt(ctx context.Context, cred ProviderCredential, req PromptRequest) (<-chan StreamEvent, error) {
	return nil, errPromptCompletionUnsupported(a.Name())
}
