// Groq adapter: OpenAI-compatible chat completions with bearer-token auth.
// The request shape matches the OpenAI adapter's, plus an explicit
// stream:false field the Groq API expects to be spelled out.
package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

const (
	groqDefaultBaseURL = "https://api.groq.com/openai/v1"
	groqDisplayName    = "Groq"
)

// GroqAdapter implements Provider for the Groq OpenAI-compatible API.
type GroqAdapter struct {
	baseURL    string
	httpClient *http.Client
}

// NewGroqAdapter creates a GroqAdapter. baseURL is overridable for tests
// only; "" selects the public API.
func NewGroqAdapter(baseURL string) *GroqAdapter {
	if baseURL == "" {
		baseURL = groqDefaultBaseURL
	}
	return &GroqAdapter{baseURL: baseURL, httpClient: newHTTPClient()}
}

type groqChatRequest struct {
	Model       string              `json:"model"`
	Messages    []openaiChatMessage `json:"messages"`
	Temperature float64             `json:"temperature"`
	MaxTokens   int                 `json:"max_tokens"`
	Stream      bool                `json:"stream"`
}

func (a *GroqAdapter) Name() string { return ProviderGroq }

// TestConnection lists available models and checks the requested model id
// appears in the list (exact match).
func (a *GroqAdapter) TestConnection(ctx context.Context, opts GenerateOptions) ConnectionTestResult {
	if opts.APIKey == "" {
		return ConnectionTestResult{OK: false, Message: errMissingAPIKey(groqDisplayName).Error()}
	}

	data, err := getJSON(ctx, a.httpClient, ProviderGroq, a.baseURL+"/models", bearerHeaders(opts.APIKey))
	if err != nil {
		return failedProbe(groqDisplayName, opts.Model, err)
	}

	var models openaiModelsResponse
	if unmarshalErr := json.Unmarshal(data, &models); unmarshalErr != nil {
		return ConnectionTestResult{OK: false, Message: fmt.Sprintf("%s returned an unreadable model list", groqDisplayName)}
	}
	if opts.Model != "" && !modelListed(models, opts.Model) {
		return ConnectionTestResult{OK: false, Message: fmt.Sprintf("Model %s not found", opts.Model)}
	}
	return ConnectionTestResult{OK: true, Message: fmt.Sprintf("Connected to %s", groqDisplayName)}
}

// Summarize posts a system+user chat completion with streaming disabled.
func (a *GroqAdapter) Summarize(ctx context.Context, prompt string, opts GenerateOptions) (*GenerateResult, error) {
	if opts.APIKey == "" {
		return nil, errMissingAPIKey(groqDisplayName)
	}
	if opts.Model == "" {
		return nil, errMissingModel(ProviderGroq)
	}

	url := a.baseURL + "/chat/completions"
	return withRetry(ctx, defaultMaxAttempts, func(ctx context.Context) (*GenerateResult, error) {
		body := groqChatRequest{
			Model: opts.Model,
			Messages: []openaiChatMessage{
				{Role: "system", Content: systemInstruction},
				{Role: "user", Content: prompt},
			},
			Temperature: opts.temperature(),
			MaxTokens:   opts.maxTokens(),
			Stream:      false,
		}
		data, err := postJSON(ctx, a.httpClient, ProviderGroq, url, bearerHeaders(opts.APIKey), body)
		if err != nil {
			return nil, err
		}

		var out openaiChatResponse
		if unmarshalErr := json.Unmarshal(data, &out); unmarshalErr != nil {
			return nil, fmt.Errorf("invalid response from %s: %w", ProviderGroq, unmarshalErr)
		}
		if len(out.Choices) == 0 {
			return nil, errMissingContent(ProviderGroq)
		}
		text := strings.TrimSpace(out.Choices[0].Message.Content)
		if text == "" {
			return nil, errMissingContent(ProviderGroq)
		}
		return &GenerateResult{
			Text:         text,
			InputTokens:  out.Usage.PromptTokens,
			OutputTokens: out.Usage.CompletionTokens,
		}, nil
	})
}
