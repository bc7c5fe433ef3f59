// Anthropic adapter: x-api-key header auth plus a pinned anthropic-version
// header. There is no list-models endpoint, so the connection probe is a
// minimal 10-token message call.
package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

const (
	anthropicDefaultBaseURL = "https://api.anthropic.com/v1"
	anthropicDisplayName    = "Anthropic"
	anthropicVersion        = "2023-06-01"

	// Model used by the probe when the caller has not picked one yet.
	anthropicProbeModel = "claude-3-5-haiku-20241022"

	probeMaxTokens = 10
	probePrompt    = "Hi"
)

// AnthropicAdapter implements Provider for the Anthropic messages API.
type AnthropicAdapter struct {
	baseURL    string
	httpClient *http.Client
}

// NewAnthropicAdapter creates an AnthropicAdapter. baseURL is overridable
// for tests only; "" selects the public API.
func NewAnthropicAdapter(baseURL string) *AnthropicAdapter {
	if baseURL == "" {
		baseURL = anthropicDefaultBaseURL
	}
	return &AnthropicAdapter{baseURL: baseURL, httpClient: newHTTPClient()}
}

// ─── internal Anthropic JSON types ───────────────────────────────────────────

type anthropicMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type anthropicMessagesRequest struct {
	Model       string             `json:"model"`
	MaxTokens   int                `json:"max_tokens"`
	Temperature float64            `json:"temperature"`
	System      string             `json:"system,omitempty"`
	Messages    []anthropicMessage `json:"messages"`
}

type anthropicMessagesResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	Usage struct {
		InputTokens  int `json:"input_tokens"`
		OutputTokens int `json:"output_tokens"`
	} `json:"usage"`
}

// ─── Provider implementation ────────────────────────────────────────────────

func (a *AnthropicAdapter) Name() string { return ProviderAnthropic }

// TestConnection issues a minimal message call, falling back to a default
// model when none is configured.
func (a *AnthropicAdapter) TestConnection(ctx context.Context, opts GenerateOptions) ConnectionTestResult {
	if opts.APIKey == "" {
		return ConnectionTestResult{OK: false, Message: errMissingAPIKey(anthropicDisplayName).Error()}
	}

	model := opts.Model
	if model == "" {
		model = anthropicProbeModel
	}
	body := anthropicMessagesRequest{
		Model:     model,
		MaxTokens: probeMaxTokens,
		Messages:  []anthropicMessage{{Role: "user", Content: probePrompt}},
	}
	if _, err := postJSON(ctx, a.httpClient, ProviderAnthropic, a.baseURL+"/messages", a.headers(opts.APIKey), body); err != nil {
		return failedProbe(anthropicDisplayName, opts.Model, err)
	}
	return ConnectionTestResult{OK: true, Message: fmt.Sprintf("Connected to %s", anthropicDisplayName)}
}

// Summarize posts a user-only message with the system instruction in the
// top-level system field, where the messages API expects it.
func (a *AnthropicAdapter) Summarize(ctx context.Context, prompt string, opts GenerateOptions) (*GenerateResult, error) {
	if opts.APIKey == "" {
		return nil, errMissingAPIKey(anthropicDisplayName)
	}
	if opts.Model == "" {
		return nil, errMissingModel(ProviderAnthropic)
	}

	url := a.baseURL + "/messages"
	return withRetry(ctx, defaultMaxAttempts, func(ctx context.Context) (*GenerateResult, error) {
		body := anthropicMessagesRequest{
			Model:       opts.Model,
			MaxTokens:   opts.maxTokens(),
			Temperature: opts.temperature(),
			System:      systemInstruction,
			Messages:    []anthropicMessage{{Role: "user", Content: prompt}},
		}
		data, err := postJSON(ctx, a.httpClient, ProviderAnthropic, url, a.headers(opts.APIKey), body)
		if err != nil {
			return nil, err
		}

		var out anthropicMessagesResponse
		if unmarshalErr := json.Unmarshal(data, &out); unmarshalErr != nil {
			return nil, fmt.Errorf("invalid response from %s: %w", ProviderAnthropic, unmarshalErr)
		}

		var sb strings.Builder
		for _, block := range out.Content {
			if block.Type == "text" {
				sb.WriteString(block.Text)
			}
		}
		text := strings.TrimSpace(sb.String())
		if text == "" {
			return nil, errMissingContent(ProviderAnthropic)
		}
		return &GenerateResult{
			Text:         text,
			InputTokens:  out.Usage.InputTokens,
			OutputTokens: out.Usage.OutputTokens,
		}, nil
	})
}

func (a *AnthropicAdapter) headers(key string) map[string]string {
	return map[string]string{
		"x-api-key":         key,
		"anthropic-version": anthropicVersion,
	}
}
