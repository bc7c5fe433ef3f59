// Gemini adapter: API key as query parameter, nested contents/parts request
// structure. No list-models probe; the connection test is a minimal
// generateContent call.
package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

const (
	geminiDefaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"
	geminiDisplayName    = "Gemini"

	// Model used when the caller has not picked one yet.
	geminiDefaultModel = "gemini-1.5-flash"
)

// GeminiAdapter implements Provider for the Google Generative Language API.
type GeminiAdapter struct {
	baseURL    string
	httpClient *http.Client
}

// NewGeminiAdapter creates a GeminiAdapter. baseURL is overridable for
// tests only; "" selects the public API.
func NewGeminiAdapter(baseURL string) *GeminiAdapter {
	if baseURL == "" {
		baseURL = geminiDefaultBaseURL
	}
	return &GeminiAdapter{baseURL: baseURL, httpClient: newHTTPClient()}
}

// ─── internal Gemini JSON types ──────────────────────────────────────────────

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
	Role  string       `json:"role,omitempty"`
}

type geminiGenerationConfig struct {
	Temperature     float64 `json:"temperature"`
	MaxOutputTokens int     `json:"maxOutputTokens"`
}

type geminiGenerateRequest struct {
	SystemInstruction *geminiContent         `json:"systemInstruction,omitempty"`
	Contents          []geminiContent        `json:"contents"`
	GenerationConfig  geminiGenerationConfig `json:"generationConfig"`
}

type geminiGenerateResponse struct {
	Candidates []struct {
		Content *geminiContent `json:"content"`
	} `json:"candidates"`
	UsageMetadata struct {
		PromptTokenCount     int `json:"promptTokenCount"`
		CandidatesTokenCount int `json:"candidatesTokenCount"`
	} `json:"usageMetadata"`
}

// ─── Provider implementation ────────────────────────────────────────────────

func (a *GeminiAdapter) Name() string { return ProviderGemini }

// TestConnection issues a minimal generateContent call against the selected
// (or default) model.
func (a *GeminiAdapter) TestConnection(ctx context.Context, opts GenerateOptions) ConnectionTestResult {
	if opts.APIKey == "" {
		return ConnectionTestResult{OK: false, Message: errMissingAPIKey(geminiDisplayName).Error()}
	}

	body := geminiGenerateRequest{
		Contents:         []geminiContent{{Parts: []geminiPart{{Text: probePrompt}}}},
		GenerationConfig: geminiGenerationConfig{MaxOutputTokens: probeMaxTokens},
	}
	if _, err := postJSON(ctx, a.httpClient, ProviderGemini, a.generateURL(opts), nil, body); err != nil {
		return failedProbe(geminiDisplayName, opts.Model, err)
	}
	return ConnectionTestResult{OK: true, Message: fmt.Sprintf("Connected to %s", geminiDisplayName)}
}

// Summarize posts the prompt inside the nested contents/parts structure,
// with the system instruction in the dedicated systemInstruction field.
func (a *GeminiAdapter) Summarize(ctx context.Context, prompt string, opts GenerateOptions) (*GenerateResult, error) {
	if opts.APIKey == "" {
		return nil, errMissingAPIKey(geminiDisplayName)
	}
	if opts.Model == "" {
		return nil, errMissingModel(ProviderGemini)
	}

	requestURL := a.generateURL(opts)
	return withRetry(ctx, defaultMaxAttempts, func(ctx context.Context) (*GenerateResult, error) {
		body := geminiGenerateRequest{
			SystemInstruction: &geminiContent{Parts: []geminiPart{{Text: systemInstruction}}},
			Contents:          []geminiContent{{Parts: []geminiPart{{Text: prompt}}}},
			GenerationConfig: geminiGenerationConfig{
				Temperature:     opts.temperature(),
				MaxOutputTokens: opts.maxTokens(),
			},
		}
		data, err := postJSON(ctx, a.httpClient, ProviderGemini, requestURL, nil, body)
		if err != nil {
			return nil, err
		}

		var out geminiGenerateResponse
		if unmarshalErr := json.Unmarshal(data, &out); unmarshalErr != nil {
			return nil, fmt.Errorf("invalid response from %s: %w", ProviderGemini, unmarshalErr)
		}

		var sb strings.Builder
		for _, cand := range out.Candidates {
			if cand.Content == nil {
				continue
			}
			for _, part := range cand.Content.Parts {
				sb.WriteString(part.Text)
			}
		}
		text := strings.TrimSpace(sb.String())
		if text == "" {
			return nil, errMissingContent(ProviderGemini)
		}
		return &GenerateResult{
			Text:         text,
			InputTokens:  out.UsageMetadata.PromptTokenCount,
			OutputTokens: out.UsageMetadata.CandidatesTokenCount,
		}, nil
	})
}

// generateURL builds the per-model generateContent endpoint with the API
// key as a query parameter — Gemini's auth mechanism.
func (a *GeminiAdapter) generateURL(opts GenerateOptions) string {
	model := opts.Model
	if model == "" {
		model = geminiDefaultModel
	}
	return fmt.Sprintf("%s/models/%s:generateContent?key=%s", a.baseURL, model, url.QueryEscape(opts.APIKey))
}
