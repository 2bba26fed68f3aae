package llm

import (
	"context"

	"github.com/codefionn/modelbroker/internal/logger"
	"google.golang.org/genai"
)

// GoogleAdapter serves the Gemini model family via google.golang.org/genai.
type GoogleAdapter struct {
	log *logger.Logger
}

func NewGoogleAdapter(log *logger.Logger) *GoogleAdapter {
	return &GoogleAdapter{log: log.WithPrefix("google")}
}

func (a *GoogleAdapter) Name() string { return "google" }

func (a *GoogleAdapter) Supports(model ModelKind) bool { return model.IsGemini() }

func (a *GoogleAdapter) Stream(ctx context.Context, cred ProviderCredential, req CompletionRequest) (<-chan StreamEvent, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: cred.APIKey, Backend: genai.BackendGeminiAPI})
	if err != nil {
		return nil, NewBrokerError(ErrFailedToGetResponse, "creating genai client", err)
	}

	contents := make([]*genai.Content, 0, len(req.Messages))
	for _, msg := range req.Messages {
		role := "user"
		if msg.Role == RoleAssistant {
			role = "model"
		}
		contents = append(contents, &genai.Content{
			Role:  role,
			Parts: []*genai.Part{{Text: msg.Content}},
		})
	}

	iter := client.Models.GenerateContentStream(ctx, req.Model.String(), contents, nil)

	events := make(chan StreamEvent)
	go func() {
		defer close(events)
		usage := UsageStatistics{}

		for chunk, err := range iter {
			if err != nil {
				a.log.Warn("gemini stream error: %v", err)
				select {
				case events <- StreamEvent{Kind: StreamEventDone, FinishReason: "event_stream_error", Usage: usage}:
				case <-ctx.Done():
				}
				return
			}

			if chunk.UsageMetadata != nil {
				usage.PromptTokens = int(chunk.UsageMetadata.PromptTokenCount)
				usage.CompletionTokens = int(chunk.UsageMetadata.CandidatesTokenCount)
			}

			for _, cand := range chunk.Candidates {
				if cand.Content == nil {
					continue
				}
				for _, part := range cand.Content.Parts {
					if part.Text == "" {
						continue
					}
					select {
					case events <- StreamEvent{Kind: StreamEventTextDelta, TextDelta: part.Text}:
					case <-ctx.Done():
						return
					}
				}
			}
		}

		select {
		case events <- StreamEvent{Kind: StreamEventDone, Usage: usage}:
		case <-ctx.Done():
		}
	}()

	return events, nil
}

// SupportsPromptCompletion is false: the Gemini API is chat/content-turn
// shaped throughout and has no separate raw-completions surface.
func (a *GoogleAdapter) SupportsPromptCompletion() bool { return false }

func (a *GoogleAdapter) StreamPrompt(ctx context.Context, cred ProviderCredential, req PromptRequest) (<-chan StreamEvent, error) {
	return nil, NewBrokerError(ErrGeminiProDoesNotSupportPromptCompletion, "gemini has no raw-completions endpoint", nil)
}
