package llm

import "context"

// The system instruction sent by every hosted chat provider. Ollama receives
// it inline since its generate endpoint has no system/user split.
const systemInstruction = "You are a helpful assistant that creates concise, factual summaries of research sessions. Follow the format and length requirements exactly."

// Provider is the two-operation contract every summarization backend
// implements.
type Provider interface {
	// Name returns the stable provider identifier (registry key).
	Name() string

	// TestConnection issues a minimal provider-specific probe and reports
	// the outcome. It never returns an error: every failure path, including
	// transport errors, resolves to an OK:false result with a message.
	TestConnection(ctx context.Context, opts GenerateOptions) ConnectionTestResult

	// Summarize sends the prompt to the provider and returns the generated
	// text. Calls are wrapped in the shared retry policy; a missing API key
	// fails before the first attempt.
	Summarize(ctx context.Context, prompt string, opts GenerateOptions) (*GenerateResult, error)
}
