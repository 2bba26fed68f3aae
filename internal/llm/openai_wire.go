package llm

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/codefionn/modelbroker/internal/consts"
)

// openAIWireMessage is the chat-completions wire shape shared by OpenAI,
// OpenRouter, local runners, and the house proxy -- all four speak the same
// request/response envelope, differing only in base URL, headers, and
// model-name mapping.
type openAIWireMessage struct {
	Role       string               `json:"role"`
	Content    string               `json:"content,omitempty"`
	ToolCalls  []openAIWireToolCall `json:"tool_calls,omitempty"`
	ToolCallID string               `json:"tool_call_id,omitempty"`
}

type openAIWireToolCall struct {
	ID       string                  `json:"id"`
	Type     string                  `json:"type"`
	Function openAIWireToolCallFuncs `json:"function"`
}

type openAIWireToolCallFuncs struct {
	Name      string `json:"name"`
	Arguments string `json:"arguments"`
}

type openAIWireTool struct {
	Type     string                 `json:"type"`
	Function map[string]interface{} `json:"function"`
}

type openAIWireRequest struct {
	Model       string              `json:"model"`
	Messages    []openAIWireMessage `json:"messages"`
	Stream      bool                `json:"stream"`
	Temperature *float64            `json:"temperature,omitempty"`
	MaxTokens   int                 `json:"max_tokens,omitempty"`
	Tools       []openAIWireTool    `json:"tools,omitempty"`
}

type openAIWireStreamChunk struct {
	Choices []openAIWireStreamChoice `json:"choices"`
	Usage   *openAIWireUsage         `json:"usage,omitempty"`
}

type openAIWireStreamChoice struct {
	Index        int                  `json:"index"`
	FinishReason *string              `json:"finish_reason"`
	Delta        *openAIWireDelta     `json:"delta"`
}

type openAIWireDelta struct {
	Content   string                     `json:"content,omitempty"`
	ToolCalls []openAIWireDeltaToolCall  `json:"tool_calls,omitempty"`
}

type openAIWireDeltaToolCall struct {
	Index    int                      `json:"index"`
	ID       string                   `json:"id,omitempty"`
	Function *openAIWireToolCallFuncs `json:"function,omitempty"`
}

type openAIWireUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
}

// buildOpenAIWireRequest translates a broker CompletionRequest into the
// shared chat-completions wire shape. enforceTemperatureOne matches the
// teacher's o1-family override (these models reject any temperature other
// than 1.0).
func buildOpenAIWireRequest(req CompletionRequest, modelName string, enforceTemperatureOne bool) openAIWireRequest {
	messages := make([]openAIWireMessage, 0, len(req.Messages))
	for _, msg := range req.Messages {
		wm := openAIWireMessage{Role: msg.Role.String(), Content: msg.Content}
		for _, tc := range msg.ToolCalls {
			wm.ToolCalls = append(wm.ToolCalls, openAIWireToolCall{
				ID:   tc.ID,
				Type: "function",
				Function: openAIWireToolCallFuncs{
					Name:      tc.Name,
					Arguments: tc.Arguments,
				},
			})
		}
		messages = append(messages, wm)
		for _, tr := range msg.ToolResults {
			messages = append(messages, openAIWireMessage{
				Role:       "tool",
				Content:    tr.Content,
				ToolCallID: tr.ToolCallID,
			})
		}
	}

	out := openAIWireRequest{
		Model:     modelName,
		Messages:  messages,
		Stream:    true,
		MaxTokens: req.MaxTokens,
	}

	temp := req.Temperature
	if enforceTemperatureOne {
		temp = 1.0
	}
	out.Temperature = &temp

	for _, t := range req.Tools {
		out.Tools = append(out.Tools, openAIWireTool{
			Type: "function",
			Function: map[string]interface{}{
				"name":        t.Name,
				"description": t.Description,
				"parameters":  t.Parameters,
			},
		})
	}

	return out
}

// openAIWirePromptRequest is the legacy completions wire shape: a single
// prompt string rather than a message list. The house proxy's codestory
// backend exposes this alongside its chat endpoint for "together"-routed
// models only; most providers have dropped this endpoint entirely.
type openAIWirePromptRequest struct {
	Model            string   `json:"model"`
	Prompt           string   `json:"prompt"`
	Stream           bool     `json:"stream"`
	Temperature      *float64 `json:"temperature,omitempty"`
	FrequencyPenalty *float64 `json:"frequency_penalty,omitempty"`
	Stop             []string `json:"stop,omitempty"`
	MaxTokens        int      `json:"max_tokens,omitempty"`
}

type openAIWirePromptStreamChunk struct {
	Choices []openAIWirePromptChoice `json:"choices"`
	Usage   *openAIWireUsage         `json:"usage,omitempty"`
}

type openAIWirePromptChoice struct {
	Index        int     `json:"index"`
	Text         string  `json:"text"`
	FinishReason *string `json:"finish_reason"`
}

// buildOpenAIWirePromptRequest translates a broker PromptRequest into the
// legacy completions wire shape.
func buildOpenAIWirePromptRequest(req PromptRequest, modelName string) openAIWirePromptRequest {
	temp := req.Temperature
	return openAIWirePromptRequest{
		Model:            modelName,
		Prompt:           req.Prompt,
		Stream:           true,
		Temperature:      &temp,
		FrequencyPenalty: req.FrequencyPenalty,
		Stop:             req.StopWords,
		MaxTokens:        req.MaxTokens,
	}
}

// streamOpenAIWirePromptCompletion mirrors streamOpenAIWire but decodes the
// legacy completions response shape (choice.text rather than
// choice.delta.content), matching the codestory backend's pass-through of
// its upstream's raw SSE frames.
func streamOpenAIWirePromptCompletion(ctx context.Context, httpClient *http.Client, endpoint string, headers map[string]string, payload openAIWirePromptRequest) (<-chan StreamEvent, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, NewBrokerError(ErrSerde, "encoding request", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, NewBrokerError(ErrFailedToGetResponse, "building request", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		httpReq.Header.Set(k, v)
	}

	resp, err := httpClient.Do(httpReq)
	if err != nil {
		return nil, NewBrokerError(ErrFailedToGetResponse, "issuing request", err)
	}

	if resp.StatusCode == http.StatusUnauthorized {
		resp.Body.Close()
		return nil, NewBrokerError(ErrUnauthorizedAccess, "provider rejected credentials", nil)
	}
	if resp.StatusCode == http.StatusTooManyRequests {
		resp.Body.Close()
		return nil, NewBrokerError(ErrRateLimitExceeded, "provider rate limit exceeded", nil)
	}
	if resp.StatusCode >= 400 {
		resp.Body.Close()
		return nil, NewBrokerError(ErrFailedToGetResponse, fmt.Sprintf("provider returned status %d", resp.StatusCode), nil)
	}

	events := make(chan StreamEvent)
	go func() {
		defer close(events)
		defer resp.Body.Close()

		scanner := bufio.NewScanner(resp.Body)
		scanner.Buffer(make([]byte, consts.BufferSize64KB), consts.BufferSize1MB)

		usage := UsageStatistics{}
		for scanner.Scan() {
			select {
			case <-ctx.Done():
				return
			default:
			}

			line := strings.TrimSpace(scanner.Text())
			if line == "" || !strings.HasPrefix(line, "data:") {
				continue
			}
			data := strings.TrimSpace(strings.TrimPrefix(line, "data:"))
			if data == "[DONE]" {
				select {
				case events <- StreamEvent{Kind: StreamEventDone, Usage: usage}:
				case <-ctx.Done():
				}
				return
			}

			var chunk openAIWirePromptStreamChunk
			if err := json.Unmarshal([]byte(data), &chunk); err != nil {
				continue
			}

			if chunk.Usage != nil {
				usage.PromptTokens = chunk.Usage.PromptTokens
				usage.CompletionTokens = chunk.Usage.CompletionTokens
			}

			for _, choice := range chunk.Choices {
				if choice.Text != "" {
					ev := StreamEvent{Kind: StreamEventTextDelta, TextDelta: choice.Text, ChoiceIndex: choice.Index}
					select {
					case events <- ev:
					case <-ctx.Done():
						return
					}
				}
				if choice.FinishReason != nil {
					select {
					case events <- StreamEvent{Kind: StreamEventDone, FinishReason: *choice.FinishReason, Usage: usage}:
					case <-ctx.Done():
					}
					return
				}
			}
		}

		if err := scanner.Err(); err != nil {
			select {
			case events <- StreamEvent{Kind: StreamEventDone, FinishReason: "event_stream_error"}:
			case <-ctx.Done():
			}
		}
	}()

	return events, nil
}

// streamOpenAIWire issues req against baseURL+"/chat/completions" (or a
// caller-supplied full endpoint) and decodes the server-sent-events stream
// line by line: a "data:" prefix introduces a JSON chunk, and a literal
// "[DONE]" payload terminates the stream. A malformed single-event payload
// is logged and skipped rather than aborting the whole stream, matching the
// teacher's tolerance for occasional malformed provider frames.
func streamOpenAIWire(ctx context.Context, httpClient *http.Client, endpoint string, headers map[string]string, payload openAIWireRequest) (<-chan StreamEvent, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, NewBrokerError(ErrSerde, "encoding request", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, NewBrokerError(ErrFailedToGetResponse, "building request", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		httpReq.Header.Set(k, v)
	}

	resp, err := httpClient.Do(httpReq)
	if err != nil {
		return nil, NewBrokerError(ErrFailedToGetResponse, "issuing request", err)
	}

	if resp.StatusCode == http.StatusUnauthorized {
		resp.Body.Close()
		return nil, NewBrokerError(ErrUnauthorizedAccess, "provider rejected credentials", nil)
	}
	if resp.StatusCode == http.StatusTooManyRequests {
		resp.Body.Close()
		return nil, NewBrokerError(ErrRateLimitExceeded, "provider rate limit exceeded", nil)
	}
	if resp.StatusCode >= 400 {
		resp.Body.Close()
		return nil, NewBrokerError(ErrFailedToGetResponse, fmt.Sprintf("provider returned status %d", resp.StatusCode), nil)
	}

	events := make(chan StreamEvent)
	go func() {
		defer close(events)
		defer resp.Body.Close()

		scanner := bufio.NewScanner(resp.Body)
		scanner.Buffer(make([]byte, consts.BufferSize64KB), consts.BufferSize1MB)

		usage := UsageStatistics{}
		for scanner.Scan() {
			select {
			case <-ctx.Done():
				return
			default:
			}

			line := strings.TrimSpace(scanner.Text())
			if line == "" || !strings.HasPrefix(line, "data:") {
				continue
			}
			data := strings.TrimSpace(strings.TrimPrefix(line, "data:"))
			if data == "[DONE]" {
				select {
				case events <- StreamEvent{Kind: StreamEventDone, Usage: usage}:
				case <-ctx.Done():
				}
				return
			}

			var chunk openAIWireStreamChunk
			if err := json.Unmarshal([]byte(data), &chunk); err != nil {
				// malformed single event: log-and-skip, continue draining
				continue
			}

			if chunk.Usage != nil {
				usage.PromptTokens = chunk.Usage.PromptTokens
				usage.CompletionTokens = chunk.Usage.CompletionTokens
			}

			for _, choice := range chunk.Choices {
				if choice.Delta == nil {
					continue
				}
				if choice.Delta.Content != "" {
					ev := StreamEvent{Kind: StreamEventTextDelta, TextDelta: choice.Delta.Content, ChoiceIndex: choice.Index}
					select {
					case events <- ev:
					case <-ctx.Done():
						return
					}
				}
				for _, tc := range choice.Delta.ToolCalls {
					ev := StreamEvent{
						Kind:          StreamEventToolCallDelta,
						ChoiceIndex:   choice.Index,
						ToolCallIndex: tc.Index,
						ToolCallID:    tc.ID,
					}
					if tc.Function != nil {
						ev.ToolCallName = tc.Function.Name
						ev.ToolCallArgsDiff = tc.Function.Arguments
					}
					select {
					case events <- ev:
					case <-ctx.Done():
						return
					}
				}
				if choice.FinishReason != nil {
					select {
					case events <- StreamEvent{Kind: StreamEventDone, FinishReason: *choice.FinishReason, Usage: usage}:
					case <-ctx.Done():
					}
					return
				}
			}
		}

		if err := scanner.Err(); err != nil {
			select {
			case events <- StreamEvent{Kind: StreamEventDone, FinishReason: "event_stream_error"}:
			case <-ctx.Done():
			}
		}
	}()

	return events, nil
}
