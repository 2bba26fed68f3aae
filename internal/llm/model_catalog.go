package llm

import "strings"

// ModelKind is a closed tagged union over the model identities the broker
// knows how to route, with a Custom escape hatch for anything else. It
// round-trips through its wire string: known names parse to their tag,
// unknown names parse to Custom(name), and String() always reproduces the
// original wire string.
type ModelKind struct {
	tag    modelTag
	custom string // populated only when tag == modelCustom
}

type modelTag int

const (
	modelCustom modelTag = iota
	modelGPT4o
	modelGPT4Turbo
	modelO1
	modelO1Mini
	modelO3Mini
	modelClaude3Opus
	modelClaude3Sonnet
	modelClaude35Sonnet
	modelClaude37Sonnet
	modelGeminiPro
	modelGeminiFlash
	modelOpenRouterGeneric
	modelLlama3Local
	modelCodeLlama13BInstruct
	modelCodeLlama7BInstruct
	modelDeepSeekCoder33BInstruct
)

var modelNames = map[modelTag]string{
	modelGPT4o:                    "gpt-4o",
	modelGPT4Turbo:                "gpt-4-turbo",
	modelO1:                       "o1",
	modelO1Mini:                   "o1-mini",
	modelO3Mini:                   "o3-mini",
	modelClaude3Opus:              "claude-3-opus",
	modelClaude3Sonnet:            "claude-3-sonnet",
	modelClaude35Sonnet:           "claude-3-5-sonnet",
	modelClaude37Sonnet:           "claude-3-7-sonnet",
	modelGeminiPro:                "gemini-1.5-pro",
	modelGeminiFlash:              "gemini-1.5-flash",
	modelOpenRouterGeneric:        "openrouter/auto",
	modelLlama3Local:              "llama3",
	modelCodeLlama13BInstruct:     "codellama-13b-instruct",
	modelCodeLlama7BInstruct:      "codellama-7b-instruct",
	modelDeepSeekCoder33BInstruct: "deepseek-coder-33b-instruct",
}

var modelByName = func() map[string]modelTag {
	m := make(map[string]modelTag, len(modelNames))
	for tag, name := range modelNames {
		m[name] = tag
	}
	return m
}()

// ParseModelKind parses a wire model name. Unknown names are preserved
// verbatim as Custom, never rejected -- this is what lets the broker route
// requests for models it was never told about by name, as long as the
// caller also supplies a resolvable ProviderCredential.
func ParseModelKind(name string) ModelKind {
	trimmed := strings.TrimSpace(name)
	if tag, ok := modelByName[trimmed]; ok {
		return ModelKind{tag: tag}
	}
	return ModelKind{tag: modelCustom, custom: trimmed}
}

func (m ModelKind) String() string {
	if m.tag == modelCustom {
		return m.custom
	}
	return modelNames[m.tag]
}

func (m ModelKind) IsCustom() bool { return m.tag == modelCustom }

func (m ModelKind) IsAnthropic() bool {
	switch m.tag {
	case modelClaude3Opus, modelClaude3Sonnet, modelClaude35Sonnet, modelClaude37Sonnet:
		return true
	}
	return m.tag == modelCustom && strings.Contains(strings.ToLower(m.custom), "claude")
}

func (m ModelKind) IsOpenAI() bool {
	switch m.tag {
	case modelGPT4o, modelGPT4Turbo, modelO1, modelO1Mini, modelO3Mini:
		return true
	}
	if m.tag != modelCustom {
		return false
	}
	lower := strings.ToLower(m.custom)
	return strings.HasPrefix(lower, "gpt-") || strings.HasPrefix(lower, "o1") || strings.HasPrefix(lower, "o3")
}

func (m ModelKind) IsO1Series() bool {
	switch m.tag {
	case modelO1, modelO1Mini, modelO3Mini:
		return true
	}
	return m.tag == modelCustom && strings.HasPrefix(strings.ToLower(m.custom), "o1")
}

func (m ModelKind) IsGemini() bool {
	switch m.tag {
	case modelGeminiPro, modelGeminiFlash:
		return true
	}
	return m.tag == modelCustom && strings.Contains(strings.ToLower(m.custom), "gemini")
}

func (m ModelKind) IsOpenRouter() bool {
	if m.tag == modelOpenRouterGeneric {
		return true
	}
	return m.tag == modelCustom && strings.HasPrefix(m.custom, "openrouter/")
}

// IsLocalRunner reports whether this model is served by a user-configured,
// self-hosted endpoint (Ollama-style) rather than any hosted provider.
// CodeLlama/DeepSeekCoder33B are NOT local-runner models despite being
// open-weight -- see IsTogetherAI.
func (m ModelKind) IsLocalRunner() bool {
	return m.tag == modelLlama3Local
}

// IsTogetherAI reports whether this model is one of the open-weight models
// the house proxy serves through Together's hosted inference rather than
// OpenAI/Anthropic/Google's own APIs, grounded on codestory.rs's
// model_endpoint routing CodeLlama13BInstruct/CodeLlama7BInstruct/
// DeepSeekCoder33BInstruct to together_api_endpoint.
func (m ModelKind) IsTogetherAI() bool {
	switch m.tag {
	case modelCodeLlama13BInstruct, modelCodeLlama7BInstruct, modelDeepSeekCoder33BInstruct:
		return true
	}
	return false
}

// IsCacheControlExplicit reports whether this model family expects an
// explicit cache_control marker on cacheable content blocks (Anthropic and
// OpenRouter-fronted Anthropic both do; plain OpenAI/Gemini wire formats do
// not expose this knob).
func (m ModelKind) IsCacheControlExplicit() bool {
	return m.IsAnthropic() || m.IsOpenRouter()
}

// ContextWindow returns the known context window in tokens, or 0 if unknown
// (Custom models with no recognizable family substring).
func (m ModelKind) ContextWindow() int {
	switch {
	case m.tag == modelGPT4o || m.tag == modelGPT4Turbo:
		return 128_000
	case m.tag == modelO1 || m.tag == modelO3Mini:
		return 200_000
	case m.tag == modelO1Mini:
		return 128_000
	case m.tag == modelClaude3Opus || m.tag == modelClaude3Sonnet:
		return 200_000
	case m.tag == modelClaude35Sonnet || m.tag == modelClaude37Sonnet:
		return 200_000
	case m.tag == modelGeminiPro:
		return 2_000_000
	case m.tag == modelGeminiFlash:
		return 1_000_000
	case m.IsAnthropic():
		return 200_000
	case m.IsOpenAI():
		return 128_000
	case m.IsGemini():
		return 1_000_000
	default:
		return 0
	}
}

// MaxOutputTokens returns the known maximum completion length in tokens.
func (m ModelKind) MaxOutputTokens() int {
	switch {
	case m.IsO1Series():
		return 100_000
	case m.IsAnthropic():
		return 8192
	case m.IsGemini():
		return 8192
	case m.IsOpenAI():
		return 16_384
	default:
		return 4096
	}
}
