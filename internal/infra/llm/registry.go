package llm

import "fmt"

// Provider identifiers. These are the registry keys, the values persisted
// in settings, and the values each adapter's Name returns.
const (
	ProviderOllama    = "ollama"
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
	ProviderGemini    = "gemini"
	ProviderGroq      = "groq"
)

// Providers lists every supported provider identifier in display order.
func Providers() []string {
	return []string{ProviderOllama, ProviderOpenAI, ProviderAnthropic, ProviderGemini, ProviderGroq}
}

// ForProvider returns a freshly constructed adapter for the given
// identifier. An unrecognized identifier is a caller bug: the error is
// returned before any network code can run. There is no dynamic
// registration — the provider set is closed.
func ForProvider(id string) (Provider, error) {
	switch id {
	case ProviderOllama:
		return NewOllamaAdapter(""), nil
	case ProviderOpenAI:
		return NewOpenAIAdapter(""), nil
	case ProviderAnthropic:
		return NewAnthropicAdapter(""), nil
	case ProviderGemini:
		return NewGeminiAdapter(""), nil
	case ProviderGroq:
		return NewGroqAdapter(""), nil
	default:
		return nil, fmt.Errorf("llm: unknown provider %q (available: %v)", id, Providers())
	}
}
