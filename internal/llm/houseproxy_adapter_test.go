package llm

import (
	"context"
	"io"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHouseProxyAdapterStreamPromptUsesPromptSuffixedRoute(t *testing.T) {
	sseBody := "data: " + `{"choices":[{"index":0,"text":"func main() {"}]}` + "\n\n" +
		"data: " + `{"choices":[{"index":0,"text":"","finish_reason":"stop"}]}` + "\n\n" +
		"data: [DONE]\n\n"

	var capturedPath string
	var capturedBody string
	client := newTestHTTPClient(func(req *http.Request) (*http.Response, error) {
		capturedPath = req.URL.Path
		b, _ := io.ReadAll(req.Body)
		capturedBody = string(b)
		return newTestHTTPResponse(req, http.StatusOK, "text/event-stream", sseBody), nil
	})

	adapter := NewHouseProxyAdapter(client, testLogger())
	cred := ProviderCredential{Provider: "houseproxy", APIKey: "key", BaseURL: "https://proxy.internal"}
	req := PromptRequest{Model: ParseModelKind("gemini-1.5-pro"), Prompt: "func main() {"}

	require.True(t, adapter.Supports(req.Model))
	require.True(t, adapter.SupportsPromptCompletion())

	ch, err := adapter.StreamPrompt(context.Background(), cred, req)
	require.NoError(t, err)

	var texts []string
	for ev := range ch {
		if ev.Kind == StreamEventTextDelta {
			texts = append(texts, ev.TextDelta)
		}
	}

	assert.Equal(t, "/chat-gemini-prompt", capturedPath)
	assert.Contains(t, capturedBody, `"prompt":"func main() {"`)
	assert.Equal(t, []string{"func main() {"}, texts)
}

func TestHouseProxyAdapterStreamPromptRejectsPlainGPTFamily(t *testing.T) {
	client := newTestHTTPClient(func(req *http.Request) (*http.Response, error) {
		t.Fatal("no request should be issued for an unsupported prompt route")
		return nil, nil
	})

	adapter := NewHouseProxyAdapter(client, testLogger())
	cred := ProviderCredential{Provider: "houseproxy", APIKey: "key", BaseURL: "https://proxy.internal"}
	req := PromptRequest{Model: ParseModelKind("gpt-4o"), Prompt: "x := "}

	_, err := adapter.StreamPrompt(context.Background(), cred, req)
	require.Error(t, err)

	var brokerErr *BrokerError
	require.ErrorAs(t, err, &brokerErr)
	assert.Equal(t, ErrPromptCompletionUnsupported, brokerErr.Kind)
}

func TestHouseProxyAdapterStreamPromptAllowsO1SeriesThroughGPTDenylist(t *testing.T) {
	sseBody := "data: " + `{"choices":[{"index":0,"text":"ok","finish_reason":"stop"}]}` + "\n\n" + "data: [DONE]\n\n"

	client := newTestHTTPClient(func(req *http.Request) (*http.Response, error) {
		return newTestHTTPResponse(req, http.StatusOK, "text/event-stream", sseBody), nil
	})

	adapter := NewHouseProxyAdapter(client, testLogger())
	cred := ProviderCredential{Provider: "houseproxy", APIKey: "key", BaseURL: "https://proxy.internal"}
	req := PromptRequest{Model: ParseModelKind("o1"), Prompt: "x"}

	_, err := adapter.StreamPrompt(context.Background(), cred, req)
	require.NoError(t, err)
}

func TestHouseProxyAdapterRoutesTogetherAIModelsThroughTogetherEndpoint(t *testing.T) {
	sseBody := "data: " + `{"choices":[{"index":0,"delta":{"content":"ok"},"finish_reason":"stop"}]}` + "\n\n" + "data: [DONE]\n\n"

	var capturedPath string
	client := newTestHTTPClient(func(req *http.Request) (*http.Response, error) {
		capturedPath = req.URL.Path
		return newTestHTTPResponse(req, http.StatusOK, "text/event-stream", sseBody), nil
	})

	adapter := NewHouseProxyAdapter(client, testLogger())
	cred := ProviderCredential{Provider: "houseproxy", APIKey: "key", BaseURL: "https://proxy.internal"}
	model := ParseModelKind("codellama-13b-instruct")
	require.True(t, adapter.Supports(model))

	_, err := adapter.Stream(context.Background(), cred, CompletionRequest{Model: model})
	require.NoError(t, err)
	assert.Equal(t, "/together-api", capturedPath)
}

// Any model family the catalog doesn't otherwise recognize -- OpenRouter
// fronted variants, Custom names -- still routes through the generic
// OpenRouter catch-all rather than being rejected as unsupported.
func TestHouseProxyAdapterRoutesUnrecognizedModelsThroughOpenRouterCatchAll(t *testing.T) {
	sseBody := "data: " + `{"choices":[{"index":0,"delta":{"content":"ok"},"finish_reason":"stop"}]}` + "\n\n" + "data: [DONE]\n\n"

	var capturedPath string
	client := newTestHTTPClient(func(req *http.Request) (*http.Response, error) {
		capturedPath = req.URL.Path
		return newTestHTTPResponse(req, http.StatusOK, "text/event-stream", sseBody), nil
	})

	adapter := NewHouseProxyAdapter(client, testLogger())
	cred := ProviderCredential{Provider: "houseproxy", APIKey: "key", BaseURL: "https://proxy.internal"}
	model := ParseModelKind("openrouter/auto")
	require.True(t, adapter.Supports(model))

	_, err := adapter.Stream(context.Background(), cred, CompletionRequest{Model: model})
	require.NoError(t, err)
	assert.Equal(t, "/openrouter-api", capturedPath)
}

func TestHouseProxyRerankEndpointIsFixed(t *testing.T) {
	assert.Equal(t, "/rerank", houseProxyRerankEndpoint())
}

func TestHouseProxyAdapterStreamPromptRequiresBaseURL(t *testing.T) {
	adapter := NewHouseProxyAdapter(nil, testLogger())
	cred := ProviderCredential{Provider: "houseproxy", APIKey: "key"}
	req := PromptRequest{Model: ParseModelKind("gemini-1.5-pro"), Prompt: "x"}

	_, err := adapter.StreamPrompt(context.Background(), cred, req)
	require.Error(t, err)

	var brokerErr *BrokerError
	require.ErrorAs(t, err, &brokerErr)
	assert.Equal(t, ErrMissingProviderKeys, brokerErr.Kind)
}
