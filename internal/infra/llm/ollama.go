// Ollama adapter: talks to a local Ollama daemon over its REST API.
// Endpoints used:
//   - GET  /api/tags      — connection probe (lists installed models)
//   - POST /api/generate  — non-streaming completion
//
// Ollama is the only provider without credentials and the only one honoring
// the BaseURL override in GenerateOptions.
package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

const (
	ollamaDefaultBaseURL = "http://localhost:11434"
	ollamaDisplayName    = "Ollama"
)

// OllamaAdapter implements Provider against a running Ollama instance.
type OllamaAdapter struct {
	baseURL    string
	httpClient *http.Client
}

// NewOllamaAdapter creates an OllamaAdapter. An empty baseURL falls back to
// the standard local daemon address; GenerateOptions.BaseURL overrides both.
func NewOllamaAdapter(baseURL string) *OllamaAdapter {
	if baseURL == "" {
		baseURL = ollamaDefaultBaseURL
	}
	return &OllamaAdapter{baseURL: baseURL, httpClient: newHTTPClient()}
}

// ─── internal Ollama JSON types ──────────────────────────────────────────────

type ollamaTagsResponse struct {
	Models []struct {
		Name string `json:"name"`
	} `json:"models"`
}

type ollamaGenerateRequest struct {
	Model   string        `json:"model"`
	Prompt  string        `json:"prompt"`
	Stream  bool          `json:"stream"`
	Options ollamaOptions `json:"options"`
}

type ollamaOptions struct {
	Temperature float64 `json:"temperature"`
	NumPredict  int     `json:"num_predict"`
}

type ollamaGenerateResponse struct {
	Response        string `json:"response"`
	PromptEvalCount int    `json:"prompt_eval_count"`
	EvalCount       int    `json:"eval_count"`
}

// ─── Provider implementation ────────────────────────────────────────────────

func (a *OllamaAdapter) Name() string { return ProviderOllama }

// TestConnection lists the daemon's installed models and, when a model is
// requested, checks it is present. Model names match on the tag prefix
// before the first colon, so "llama3.2" matches "llama3.2:3b".
func (a *OllamaAdapter) TestConnection(ctx context.Context, opts GenerateOptions) ConnectionTestResult {
	data, err := getJSON(ctx, a.httpClient, ProviderOllama, a.resolveBaseURL(opts)+"/api/tags", nil)
	if err != nil {
		return failedProbe(ollamaDisplayName, opts.Model, err)
	}

	var tags ollamaTagsResponse
	if unmarshalErr := json.Unmarshal(data, &tags); unmarshalErr != nil {
		return ConnectionTestResult{OK: false, Message: fmt.Sprintf("%s returned an unreadable model list", ollamaDisplayName)}
	}

	if opts.Model != "" && !ollamaHasModel(tags, opts.Model) {
		return ConnectionTestResult{OK: false, Message: fmt.Sprintf("Model %s not found", opts.Model)}
	}
	return ConnectionTestResult{OK: true, Message: fmt.Sprintf("Connected to %s (%d models available)", ollamaDisplayName, len(tags.Models))}
}

// Summarize sends a flat completion request to /api/generate.
func (a *OllamaAdapter) Summarize(ctx context.Context, prompt string, opts GenerateOptions) (*GenerateResult, error) {
	if opts.Model == "" {
		return nil, errMissingModel(ProviderOllama)
	}

	url := a.resolveBaseURL(opts) + "/api/generate"
	return withRetry(ctx, defaultMaxAttempts, func(ctx context.Context) (*GenerateResult, error) {
		body := ollamaGenerateRequest{
			Model:  opts.Model,
			Prompt: systemInstruction + "\n\n" + prompt,
			Stream: false,
			Options: ollamaOptions{
				Temperature: opts.temperature(),
				NumPredict:  opts.maxTokens(),
			},
		}
		data, err := postJSON(ctx, a.httpClient, ProviderOllama, url, nil, body)
		if err != nil {
			return nil, err
		}

		var out ollamaGenerateResponse
		if unmarshalErr := json.Unmarshal(data, &out); unmarshalErr != nil {
			return nil, fmt.Errorf("invalid response from %s: %w", ProviderOllama, unmarshalErr)
		}
		text := strings.TrimSpace(out.Response)
		if text == "" {
			return nil, errMissingContent(ProviderOllama)
		}
		return &GenerateResult{
			Text:         text,
			InputTokens:  out.PromptEvalCount,
			OutputTokens: out.EvalCount,
		}, nil
	})
}

func (a *OllamaAdapter) resolveBaseURL(opts GenerateOptions) string {
	if opts.BaseURL != "" {
		return strings.TrimRight(opts.BaseURL, "/")
	}
	return a.baseURL
}

// ollamaHasModel reports whether the requested model is installed, matching
// on the name prefix before the first colon.
func ollamaHasModel(tags ollamaTagsResponse, model string) bool {
	want := strings.SplitN(model, ":", 2)[0]
	for _, m := range tags.Models {
		if strings.SplitN(m.Name, ":", 2)[0] == want {
			return true
		}
	}
	return false
}

// failedProbe converts any probe error into a non-exceptional result.
// HTTP statuses get provider-specific wording; transport errors are run
// through the normalizer.
func failedProbe(display, model string, err error) ConnectionTestResult {
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return ConnectionTestResult{OK: false, Message: statusMessage(display, statusErr.StatusCode, model)}
	}
	return ConnectionTestResult{OK: false, Message: Normalize(err)}
}
