// OpenAI adapter: bearer-token auth, list-models probe, chat completions.
package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

const (
	openaiDefaultBaseURL = "https://api.openai.com/v1"
	openaiDisplayName    = "OpenAI"
)

// OpenAIAdapter implements Provider for the OpenAI chat completions API.
type OpenAIAdapter struct {
	baseURL    string
	httpClient *http.Client
}

// NewOpenAIAdapter creates an OpenAIAdapter. baseURL is overridable for
// tests only; "" selects the public API.
func NewOpenAIAdapter(baseURL string) *OpenAIAdapter {
	if baseURL == "" {
		baseURL = openaiDefaultBaseURL
	}
	return &OpenAIAdapter{baseURL: baseURL, httpClient: newHTTPClient()}
}

// ─── internal OpenAI JSON types ──────────────────────────────────────────────

type openaiModelsResponse struct {
	Data []struct {
		ID string `json:"id"`
	} `json:"data"`
}

type openaiChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type openaiChatRequest struct {
	Model       string              `json:"model"`
	Messages    []openaiChatMessage `json:"messages"`
	Temperature float64             `json:"temperature"`
	MaxTokens   int                 `json:"max_tokens"`
}

type openaiChatResponse struct {
	Choices []struct {
		Message openaiChatMessage `json:"message"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
	} `json:"usage"`
}

// ─── Provider implementation ────────────────────────────────────────────────

func (a *OpenAIAdapter) Name() string { return ProviderOpenAI }

// TestConnection lists available models and checks the requested model id
// appears in the list (exact match). No network call happens without a key.
func (a *OpenAIAdapter) TestConnection(ctx context.Context, opts GenerateOptions) ConnectionTestResult {
	if opts.APIKey == "" {
		return ConnectionTestResult{OK: false, Message: errMissingAPIKey(openaiDisplayName).Error()}
	}

	data, err := getJSON(ctx, a.httpClient, ProviderOpenAI, a.baseURL+"/models", bearerHeaders(opts.APIKey))
	if err != nil {
		return failedProbe(openaiDisplayName, opts.Model, err)
	}

	var models openaiModelsResponse
	if unmarshalErr := json.Unmarshal(data, &models); unmarshalErr != nil {
		return ConnectionTestResult{OK: false, Message: fmt.Sprintf("%s returned an unreadable model list", openaiDisplayName)}
	}
	if opts.Model != "" && !modelListed(models, opts.Model) {
		return ConnectionTestResult{OK: false, Message: fmt.Sprintf("Model %s not found", opts.Model)}
	}
	return ConnectionTestResult{OK: true, Message: fmt.Sprintf("Connected to %s", openaiDisplayName)}
}

// Summarize posts a system+user chat completion.
func (a *OpenAIAdapter) Summarize(ctx context.Context, prompt string, opts GenerateOptions) (*GenerateResult, error) {
	if opts.APIKey == "" {
		return nil, errMissingAPIKey(openaiDisplayName)
	}
	if opts.Model == "" {
		return nil, errMissingModel(ProviderOpenAI)
	}

	url := a.baseURL + "/chat/completions"
	return withRetry(ctx, defaultMaxAttempts, func(ctx context.Context) (*GenerateResult, error) {
		body := openaiChatRequest{
			Model: opts.Model,
			Messages: []openaiChatMessage{
				{Role: "system", Content: systemInstruction},
				{Role: "user", Content: prompt},
			},
			Temperature: opts.temperature(),
			MaxTokens:   opts.maxTokens(),
		}
		data, err := postJSON(ctx, a.httpClient, ProviderOpenAI, url, bearerHeaders(opts.APIKey), body)
		if err != nil {
			return nil, err
		}

		var out openaiChatResponse
		if unmarshalErr := json.Unmarshal(data, &out); unmarshalErr != nil {
			return nil, fmt.Errorf("invalid response from %s: %w", ProviderOpenAI, unmarshalErr)
		}
		if len(out.Choices) == 0 {
			return nil, errMissingContent(ProviderOpenAI)
		}
		text := strings.TrimSpace(out.Choices[0].Message.Content)
		if text == "" {
			return nil, errMissingContent(ProviderOpenAI)
		}
		return &GenerateResult{
			Text:         text,
			InputTokens:  out.Usage.PromptTokens,
			OutputTokens: out.Usage.CompletionTokens,
		}, nil
	})
}

// bearerHeaders builds the Authorization header shared by the
// OpenAI-compatible providers.
func bearerHeaders(key string) map[string]string {
	return map[string]string{"Authorization": "Bearer " + key}
}

// modelListed reports whether id appears in a models listing (exact match).
func modelListed(models openaiModelsResponse, id string) bool {
	for _, m := range models.Data {
		if m.ID == id {
			return true
		}
	}
	return false
}
