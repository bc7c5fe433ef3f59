package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/focalhq/focal/internal/domain/settings"
)

func TestSettingsHandler_GetAISettings_Defaults(t *testing.T) {
	t.Parallel()

	db := mustOpenDBWithMigrations(t)
	handler := NewSettingsHandler(settings.NewService(db))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/settings/ai", nil)
	w := httptest.NewRecorder()
	handler.GetAISettings(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("GetAISettings status = %d; want %d", w.Code, http.StatusOK)
	}
	var resp map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("json unmarshal error = %v", err)
	}
	if resp["enabled"] != false {
		t.Errorf("enabled = %v; want false", resp["enabled"])
	}
	if resp["provider"] != "ollama" {
		t.Errorf("provider = %v; want 'ollama'", resp["provider"])
	}
	if resp["bulletCount"] != float64(5) {
		t.Errorf("bulletCount = %v; want 5", resp["bulletCount"])
	}
}

func TestSettingsHandler_PutAISettings_RoundTrip(t *testing.T) {
	t.Parallel()

	db := mustOpenDBWithMigrations(t)
	handler := NewSettingsHandler(settings.NewService(db))

	body, _ := json.Marshal(map[string]any{
		"enabled":           true,
		"provider":          "anthropic",
		"model":             "claude-3-5-haiku-20241022",
		"apiKey":            "sk-ant-test",
		"bulletCount":       3,
		"maxCharsPerBullet": 120,
		"temperature":       0.5,
		"includeJournal":    true,
	})
	req := httptest.NewRequest(http.MethodPut, "/api/v1/settings/ai", bytes.NewReader(body))
	w := httptest.NewRecorder()
	handler.PutAISettings(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("PutAISettings status = %d; want %d (body %s)", w.Code, http.StatusOK, w.Body)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/v1/settings/ai", nil)
	w = httptest.NewRecorder()
	handler.GetAISettings(w, req)

	var resp map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("json unmarshal error = %v", err)
	}
	if resp["provider"] != "anthropic" {
		t.Errorf("provider = %v; want 'anthropic'", resp["provider"])
	}
	if resp["enabled"] != true {
		t.Errorf("enabled = %v; want true", resp["enabled"])
	}
}

func TestSettingsHandler_PutAISettings_UnknownProvider_Returns400(t *testing.T) {
	t.Parallel()

	db := mustOpenDBWithMigrations(t)
	handler := NewSettingsHandler(settings.NewService(db))

	body, _ := json.Marshal(map[string]any{"provider": "skynet"})
	req := httptest.NewRequest(http.MethodPut, "/api/v1/settings/ai", bytes.NewReader(body))
	w := httptest.NewRecorder()
	handler.PutAISettings(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status=%d want=%d", w.Code, http.StatusBadRequest)
	}
}
