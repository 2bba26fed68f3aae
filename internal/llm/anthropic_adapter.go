package llm

import (
	"context"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/codefionn/modelbroker/internal/logger"
)

// AnthropicAdapter serves the Claude model family via the official
// streaming SDK. Messages are normalized with NormalizeForAnthropic before
// being translated to the wire shape, per C2.
type AnthropicAdapter struct {
	log *logger.Logger
}

func NewAnthropicAdapter(log *logger.Logger) *AnthropicAdapter {
	return &AnthropicAdapter{log: log.WithPrefix("anthropic")}
}

func (a *AnthropicAdapter) Name() string { return "anthropic" }

func (a *AnthropicAdapter) Supports(model ModelKind) bool { return model.IsAnthropic() }

func (a *AnthropicAdapter) Stream(ctx context.Context, cred ProviderCredential, req CompletionRequest) (<-chan StreamEvent, error) {
	client := anthropic.NewClient(option.WithAPIKey(cred.APIKey))

	normalized := NormalizeForAnthropic(req.Model, req.Messages)

	params := anthropic.BetaMessageNewParams{
		Model:     anthropic.Model(req.Model.String()),
		MaxTokens: int64(maxOr(req.MaxTokens, req.Model.MaxOutputTokens())),
		Messages:  make([]anthropic.BetaMessageParam, 0, len(normalized)),
	}

	for _, msg := range normalized {
		role := anthropic.BetaMessageParamRoleUser
		if msg.Role == RoleAssistant {
			role = anthropic.BetaMessageParamRoleAssistant
		}
		params.Messages = append(params.Messages, anthropic.BetaMessageParam{
			Role:    role,
			Content: []anthropic.BetaContentBlockParamUnion{anthropic.NewBetaTextBlock(msg.Content)},
		})
	}

	stream := client.Beta.Messages.NewStreaming(ctx, params)

	events := make(chan StreamEvent)
	go func() {
		defer close(events)

		usage := UsageStatistics{}
		toolArgs := map[int]string{}

		for stream.Next() {
			evt := stream.Current()
			switch variant := evt.AsAny().(type) {
			case anthropic.BetaRawMessageStartEvent:
				usage.PromptTokens = int(variant.Message.Usage.InputTokens)
				usage.CacheReadTokens = int(variant.Message.Usage.CacheReadInputTokens)
				usage.CacheWriteTokens = int(variant.Message.Usage.CacheCreationInputTokens)

			case anthropic.BetaRawContentBlockStartEvent:
				if tu, ok := variant.ContentBlock.AsAny().(anthropic.BetaToolUseBlock); ok {
					idx := int(variant.Index)
					toolArgs[idx] = ""
					select {
					case events <- StreamEvent{Kind: StreamEventToolCallDelta, ToolCallIndex: idx, ToolCallID: tu.ID, ToolCallName: tu.Name}:
					case <-ctx.Done():
						return
					}
				}

			case anthropic.BetaRawContentBlockDeltaEvent:
				idx := int(variant.Index)
				switch delta := variant.Delta.AsAny().(type) {
				case anthropic.BetaTextDelta:
					select {
					case events <- StreamEvent{Kind: StreamEventTextDelta, TextDelta: delta.Text, ChoiceIndex: idx}:
					case <-ctx.Done():
						return
					}
				case anthropic.BetaInputJSONDelta:
					toolArgs[idx] += delta.PartialJSON
					select {
					case events <- StreamEvent{Kind: StreamEventToolCallDelta, ToolCallIndex: idx, ToolCallArgsDiff: delta.PartialJSON}:
					case <-ctx.Done():
						return
					}
				}

			case anthropic.BetaRawMessageDeltaEvent:
				usage.CompletionTokens = int(variant.Usage.OutputTokens)

			case anthropic.BetaRawMessageStopEvent:
				select {
				case events <- StreamEvent{Kind: StreamEventDone, Usage: usage}:
				case <-ctx.Done():
				}
				return
			}
		}

		if err := stream.Err(); err != nil {
			a.log.Warn("anthropic stream error: %v", err)
			select {
			case events <- StreamEvent{Kind: StreamEventDone, FinishReason: "event_stream_error", Usage: usage}:
			case <-ctx.Done():
			}
			return
		}

		select {
		case events <- StreamEvent{Kind: StreamEventDone, Usage: usage}:
		case <-ctx.Done():
		}
	}()

	return events, nil
}

// SupportsPromptCompletion is false: Anthropic's API has no raw-completions
// endpoint distinct from the Messages API.
func (a *AnthropicAdapter) SupportsPromptCompletion() bool { return false }

func (a *AnthropicAdapter) StreamPrompt(ctx context.Context, cred ProviderCredential, req PromptRequest) (<-chan StreamEvent, error) {
	return nil, errPromptCompletionUnsupported(a.Name())
}

func maxOr(v, fallback int) int {
	if v > 0 {
		return v
	}
	return fallback
}
