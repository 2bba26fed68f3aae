package llm

import (
	"os"
	"strings"
)

// providerEnvVars maps canonical provider names to the environment
// variables that can supply their API keys. Multiple variables allow
// backwards-compatible aliases.
var providerEnvVars = map[string][]string{
	"openai":     {"OPENAI_API_KEY"},
	"anthropic":  {"ANTHROPIC_API_KEY"},
	"google":     {"GEMINI_API_KEY", "GOOGLE_API_KEY", "GOOGLE_GENAI_API_KEY"},
	"openrouter": {"OPENROUTER_API_KEY"},
	"local":      {"LOCAL_RUNNER_API_KEY"},
	"houseproxy": {"HOUSE_PROXY_API_KEY"},
}

func canonicalProviderName(name string) string {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "google", "googleai", "gemini":
		return "google"
	case "ollama", "localrunner", "local":
		return "local"
	case "houseproxy", "codestory", "house-proxy":
		return "houseproxy"
	default:
		return strings.ToLower(strings.TrimSpace(name))
	}
}

// ResolveCredential returns the ProviderCredential to use for a provider. An
// explicit key takes precedence; otherwise the function falls back to known
// environment variables. The returned credential is zero if none is
// available -- the Broker turns that into ErrMissingProviderKeys.
func ResolveCredential(providerName, explicitKey, baseURL string) ProviderCredential {
	canonical := canonicalProviderName(providerName)

	key := strings.TrimSpace(explicitKey)
	if key == "" {
		for _, envVar := range providerEnvVars[canonical] {
			if v := strings.TrimSpace(os.Getenv(envVar)); v != "" {
				key = v
				break
			}
		}
	}

	if key == "" && baseURL == "" {
		return ProviderCredential{}
	}

	return ProviderCredential{Provider: canonical, APIKey: key, BaseURL: baseURL}
}

// EnvVarHints returns the known environment variables for a provider, for
// diagnostics/help text.
func EnvVarHints(providerName string) []string {
	hints := providerEnvVars[canonicalProviderName(providerName)]
	out := make([]string, len(hints))
	copy(out, hints)
	return out
}
