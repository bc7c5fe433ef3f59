// Package llm defines the provider abstraction for AI session summaries.
// Adapters (Ollama, OpenAI, Anthropic, Gemini, Groq) implement one shared
// interface so the application is never coupled to a specific vendor.
// All types here are shared between the provider interface and adapters.
package llm

// Defaults applied when GenerateOptions leaves a field unset.
const (
	DefaultTemperature = 0.2
	DefaultMaxTokens   = 200
)

// GenerateOptions carries per-call configuration for an adapter operation.
// Model is always required. APIKey is required by every hosted provider and
// ignored by Ollama. BaseURL overrides the Ollama daemon address only.
type GenerateOptions struct {
	Model       string
	Temperature *float64 // nil means DefaultTemperature
	MaxTokens   int      // 0 means DefaultMaxTokens
	APIKey      string
	BaseURL     string
}

// temperature resolves the effective sampling temperature.
func (o GenerateOptions) temperature() float64 {
	if o.Temperature == nil {
		return DefaultTemperature
	}
	return *o.Temperature
}

// maxTokens resolves the effective output token ceiling.
func (o GenerateOptions) maxTokens() int {
	if o.MaxTokens <= 0 {
		return DefaultMaxTokens
	}
	return o.MaxTokens
}

// GenerateResult is the success value of Summarize.
// Token counts are provider-reported usage metadata passed through as-is;
// zero means the provider did not report a count. Text is never empty on
// success — adapters treat an empty completion as a hard failure.
type GenerateResult struct {
	Text         string `json:"text"`
	InputTokens  int    `json:"inputTokens,omitempty"`
	OutputTokens int    `json:"outputTokens,omitempty"`
}

// ConnectionTestResult is the diagnostic value of TestConnection.
// Message is populated on success and failure paths alike; the UI shows it
// verbatim.
type ConnectionTestResult struct {
	OK      bool   `json:"ok"`
	Message string `json:"message,omitempty"`
}
