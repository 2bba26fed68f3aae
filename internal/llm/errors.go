package llm

import "fmt"

// ErrorKind closes over the broker's error taxonomy. Kinds marked terminal
// in their doc comment must not be retried by the Broker itself -- callers
// may still choose to retry at a higher layer.
type ErrorKind string

const (
	// ErrUnauthorizedAccess is terminal: a 401 from the provider.
	ErrUnauthorizedAccess ErrorKind = "unauthorized_access"
	// ErrRateLimitExceeded is terminal at the broker layer: a 429 from the
	// provider is surfaced to the caller rather than retried transparently.
	ErrRateLimitExceeded ErrorKind = "rate_limit_exceeded"
	// ErrEventStreamError is raised after draining an SSE stream that failed
	// mid-decode.
	ErrEventStreamError ErrorKind = "event_stream_error"
	// ErrFailedToGetResponse covers transport-level failures before any
	// bytes were received.
	ErrFailedToGetResponse ErrorKind = "failed_to_get_response"
	// ErrSerde covers request/response JSON (de)serialization failures.
	ErrSerde ErrorKind = "serde_error"
	// ErrUnsupportedModel is raised when no adapter is registered for a
	// resolved provider.
	ErrUnsupportedModel ErrorKind = "unsupported_model"
	// ErrWrongAPIKeyType is raised when a credential is present but shaped
	// for the wrong provider.
	ErrWrongAPIKeyType ErrorKind = "wrong_api_key_type"
	// ErrFunctionCallNotPresent is raised when a caller expects a tool call
	// in the response and none was emitted.
	ErrFunctionCallNotPresent ErrorKind = "function_call_not_present"
	// ErrMissingProviderKeys is raised when no ProviderCredential resolves
	// for the requested model.
	ErrMissingProviderKeys ErrorKind = "missing_provider_keys"
	// ErrPromptCompletionUnsupported is raised when StreamPromptCompletion is
	// called against an adapter that has no raw-completions endpoint.
	ErrPromptCompletionUnsupported ErrorKind = "prompt_completion_unsupported"
	// ErrOpenAIDoesNotSupportCompletion is OpenAIAdapter's specific case of
	// ErrPromptCompletionUnsupported: the GPT/o1/o3 chat families have no
	// legacy completions endpoint left.
	ErrOpenAIDoesNotSupportCompletion ErrorKind = "openai_does_not_support_completion"
	// ErrGeminiProDoesNotSupportPromptCompletion is GoogleAdapter's specific
	// case of ErrPromptCompletionUnsupported.
	ErrGeminiProDoesNotSupportPromptCompletion ErrorKind = "gemini_pro_does_not_support_prompt_completion"
)

// BrokerError wraps an ErrorKind with context and an optional underlying
// cause, so callers can either branch on Kind or use errors.Is/As against
// the wrapped error.
type BrokerError struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *BrokerError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *BrokerError) Unwrap() error { return e.Err }

func NewBrokerError(kind ErrorKind, message string, cause error) *BrokerError {
	return &BrokerError{Kind: kind, Message: message, Err: cause}
}

// IsTerminal reports whether the broker should treat this error kind as
// final for the current request rather than something the caller might
// reasonably retry without changing the request.
func (k ErrorKind) IsTerminal() bool {
	switch k {
	case ErrUnauthorizedAccess, ErrRateLimitExceeded, ErrUnsupportedModel, ErrMissingProviderKeys, ErrWrongAPIKeyType, ErrPromptCompletionUnsupported, ErrOpenAIDoesNotSupportCompletion, ErrGeminiProDoesNotSupportPromptCompletion:
		return true
	default:
		return false
	}
}
