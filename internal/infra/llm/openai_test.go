package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func openaiModelsServer(t *testing.T, calls *int, ids ...string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*calls++
		if r.URL.Path != "/models" {
			http.Error(w, "unexpected path", http.StatusNotFound)
			return
		}
		if r.Header.Get("Authorization") != "Bearer sk-test" {
			http.Error(w, "bad key", http.StatusUnauthorized)
			return
		}
		data := make([]map[string]string, len(ids))
		for i, id := range ids {
			data[i] = map[string]string{"id": id}
		}
		json.NewEncoder(w).Encode(map[string]any{"data": data}) //nolint:errcheck
	}))
}

func TestOpenAIAdapter_TestConnection_NoKey_NoNetworkCall(t *testing.T) {
	t.Parallel()

	calls := 0
	srv := openaiModelsServer(t, &calls, "gpt-4o-mini")
	defer srv.Close()

	res := NewOpenAIAdapter(srv.URL).TestConnection(context.Background(), GenerateOptions{Model: "gpt-4o-mini"})
	if res.OK {
		t.Fatal("expected failure without an API key")
	}
	if res.Message != "OpenAI API key is required" {
		t.Errorf("unexpected message: %q", res.Message)
	}
	if calls != 0 {
		t.Errorf("expected zero network calls, got %d", calls)
	}
}

func TestOpenAIAdapter_TestConnection_InvalidKey(t *testing.T) {
	t.Parallel()

	calls := 0
	srv := openaiModelsServer(t, &calls, "gpt-4o-mini")
	defer srv.Close()

	res := NewOpenAIAdapter(srv.URL).TestConnection(context.Background(), GenerateOptions{APIKey: "sk-wrong", Model: "gpt-4o-mini"})
	if res.OK {
		t.Fatal("expected failure for a rejected key")
	}
	if res.Message != "Invalid OpenAI API key" {
		t.Errorf("unexpected message: %q", res.Message)
	}
}

func TestOpenAIAdapter_TestConnection_ModelMembership(t *testing.T) {
	t.Parallel()

	calls := 0
	srv := openaiModelsServer(t, &calls, "gpt-4o-mini", "gpt-4o")
	defer srv.Close()

	a := NewOpenAIAdapter(srv.URL)
	if res := a.TestConnection(context.Background(), GenerateOptions{APIKey: "sk-test", Model: "gpt-4o"}); !res.OK {
		t.Errorf("expected listed model to pass, got %q", res.Message)
	}
	res := a.TestConnection(context.Background(), GenerateOptions{APIKey: "sk-test", Model: "gpt-5-turbo"})
	if res.OK {
		t.Fatal("expected unlisted model to fail")
	}
	if res.Message != "Model gpt-5-turbo not found" {
		t.Errorf("unexpected message: %q", res.Message)
	}
}

func TestOpenAIAdapter_Summarize_Success(t *testing.T) {
	t.Parallel()

	var got openaiChatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			http.Error(w, "unexpected path", http.StatusNotFound)
			return
		}
		if r.Header.Get("Authorization") != "Bearer sk-test" {
			http.Error(w, "bad key", http.StatusUnauthorized)
			return
		}
		json.NewDecoder(r.Body).Decode(&got) //nolint:errcheck
		w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":" - bullet one\n- bullet two "}}],"usage":{"prompt_tokens":120,"completion_tokens":33}}`)) //nolint:errcheck
	}))
	defer srv.Close()

	temp := 0.7
	res, err := NewOpenAIAdapter(srv.URL).Summarize(context.Background(), "the prompt", GenerateOptions{
		APIKey:      "sk-test",
		Model:       "gpt-4o-mini",
		Temperature: &temp,
		MaxTokens:   250,
	})
	if err != nil {
		t.Fatalf("Summarize failed: %v", err)
	}
	if res.Text != "- bullet one\n- bullet two" {
		t.Errorf("expected trimmed text, got %q", res.Text)
	}
	if res.InputTokens != 120 || res.OutputTokens != 33 {
		t.Errorf("usage not passed through: %+v", res)
	}

	if len(got.Messages) != 2 || got.Messages[0].Role != "system" || got.Messages[1].Role != "user" {
		t.Fatalf("expected system+user messages, got %+v", got.Messages)
	}
	if got.Messages[0].Content != systemInstruction {
		t.Error("system message must carry the fixed instruction")
	}
	if got.Messages[1].Content != "the prompt" {
		t.Errorf("unexpected user content %q", got.Messages[1].Content)
	}
	if got.Temperature != 0.7 || got.MaxTokens != 250 {
		t.Errorf("sampling options not mapped: %+v", got)
	}
}

func TestOpenAIAdapter_Summarize_NoKeyFailsBeforeNetwork(t *testing.T) {
	t.Parallel()

	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { calls++ }))
	defer srv.Close()

	_, err := NewOpenAIAdapter(srv.URL).Summarize(context.Background(), "p", GenerateOptions{Model: "gpt-4o-mini"})
	if err == nil {
		t.Fatal("expected missing-key error")
	}
	if !strings.Contains(err.Error(), "API key is required") {
		t.Errorf("unexpected error: %v", err)
	}
	if calls != 0 {
		t.Errorf("missing key must not reach the network, got %d calls", calls)
	}
}

func TestOpenAIAdapter_Summarize_MissingChoices(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"choices":[]}`)) //nolint:errcheck
	}))
	defer srv.Close()

	_, err := NewOpenAIAdapter(srv.URL).Summarize(context.Background(), "p", GenerateOptions{APIKey: "sk-test", Model: "m"})
	if err == nil || !strings.Contains(err.Error(), "missing content") {
		t.Errorf("expected missing-content error, got %v", err)
	}
}
