package llm

import "strings"

// Role is a chat message role.
type Role int

const (
	RoleSystem Role = iota
	RoleUser
	RoleAssistant
	RoleFunction
)

func (r Role) String() string {
	switch r {
	case RoleSystem:
		return "system"
	case RoleUser:
		return "user"
	case RoleAssistant:
		return "assistant"
	case RoleFunction:
		return "function"
	default:
		return "user"
	}
}

// ToolCall represents a single tool/function invocation emitted by a model.
type ToolCall struct {
	ID        string
	Name      string
	Arguments string // raw JSON, accumulated across streaming deltas
}

// ToolResult is the caller-supplied outcome of a prior ToolCall, fed back
// into the conversation as part of a follow-up Message.
type ToolResult struct {
	ToolCallID string
	Content    string
}

// CachePoint marks a position in a message as a provider-side cache
// boundary (Anthropic prompt caching, OpenRouter ephemeral cache_control).
type CachePoint struct {
	Enabled bool
}

// Message is one turn of a conversation.
type Message struct {
	Role        Role
	Content     string
	ToolCalls   []ToolCall
	ToolResults []ToolResult
	CachePoint  CachePoint
}

// IsEmpty reports whether the message carries no content a provider would
// accept as a conversational turn.
func (m Message) IsEmpty() bool {
	return strings.TrimSpace(m.Content) == "" && len(m.ToolCalls) == 0 && len(m.ToolResults) == 0
}

// UsageStatistics accumulates token counts for one or more completions.
// Add is monoidal: UsageStatistics{}.Add(x) == x, and Add is associative.
type UsageStatistics struct {
	PromptTokens      int
	CompletionTokens  int
	CacheReadTokens   int
	CacheWriteTokens  int
}

func (u UsageStatistics) Add(other UsageStatistics) UsageStatistics {
	return UsageStatistics{
		PromptTokens:     u.PromptTokens + other.PromptTokens,
		CompletionTokens: u.CompletionTokens + other.CompletionTokens,
		CacheReadTokens:  u.CacheReadTokens + other.CacheReadTokens,
		CacheWriteTokens: u.CacheWriteTokens + other.CacheWriteTokens,
	}
}

func (u UsageStatistics) TotalTokens() int {
	return u.PromptTokens + u.CompletionTokens
}

// ProviderCredential identifies which resolved API key/base URL a request
// will use. The Broker routes adapters by Credential, never by a caller's
// provider hint.
type ProviderCredential struct {
	Provider string // canonical provider name, e.g. "anthropic", "openai"
	APIKey   string
	BaseURL  string // optional override, used by local runners / house proxy
}

func (c ProviderCredential) IsZero() bool {
	return c.Provider == "" && c.APIKey == "" && c.BaseURL == ""
}

// CompletionRequest is the broker-level request shape passed to a
// ProviderAdapter after routing.
type CompletionRequest struct {
	Model       ModelKind
	Messages    []Message
	Tools       []ToolDefinition
	Temperature float64
	MaxTokens   int
	Metadata    map[string]string // e.g. root_trace_id, event_type
}

// PromptRequest is the raw-completion counterpart to CompletionRequest: a
// single prompt string rather than a message list, for providers that
// expose a legacy completions endpoint alongside their chat endpoint.
// Not every ProviderAdapter supports this -- see SupportsPromptCompletion.
type PromptRequest struct {
	Model            ModelKind
	Prompt           string
	Temperature      float64
	FrequencyPenalty *float64
	StopWords        []string
	MaxTokens        int
	Metadata         map[string]string
}

// AnswerRequest is the tagged union the Broker's StreamAnswer dispatches
// on: exactly one of Chat or Prompt must be set. It mirrors the source's
// Either<ChatRequest, PromptRequest>.
type AnswerRequest struct {
	Chat   *CompletionRequest
	Prompt *PromptRequest
}

// ToolDefinition describes a callable tool made available to the model.
type ToolDefinition struct {
	Name        string
	Description string
	Parameters  map[string]interface{} // JSON-schema-shaped
}

// StreamEventKind discriminates StreamEvent payloads.
type StreamEventKind int

const (
	StreamEventTextDelta StreamEventKind = iota
	StreamEventToolCallDelta
	StreamEventUsage
	StreamEventDone
)

// StreamEvent is one unit yielded by a ProviderAdapter's stream.
type StreamEvent struct {
	Kind StreamEventKind

	TextDelta string

	// ToolCallDelta fields, keyed by (ChoiceIndex, ToolCallIndex) across
	// frames. See DESIGN.md's preserved open question about ordering.
	ChoiceIndex      int
	ToolCallIndex    int
	ToolCallID       string
	ToolCallName     string
	ToolCallArgsDiff string

	Usage UsageStatistics

	FinishReason string
}

// CompletionResponse is the fully collected (non-streaming) result of a
// completion, mirroring LLMClientCompletionResponse in the original.
type CompletionResponse struct {
	AnswerUpToNow string
	Delta         string
	Model         ModelKind
	Usage         UsageStatistics
}
