// HTTP handlers for the AI settings endpoints.
package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/focalhq/focal/internal/domain/settings"
)

// SettingsHandler handles HTTP requests for AI settings.
type SettingsHandler struct {
	settingsService *settings.Service
}

// NewSettingsHandler creates a new SettingsHandler instance.
func NewSettingsHandler(settingsService *settings.Service) *SettingsHandler {
	return &SettingsHandler{settingsService: settingsService}
}

// GetAISettings handles GET /api/v1/settings/ai
func (h *SettingsHandler) GetAISettings(w http.ResponseWriter, r *http.Request) {
	cfg, err := h.settingsService.Get(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load settings")
		return
	}
	writeJSON(w, http.StatusOK, cfg)
}

// PutAISettings handles PUT /api/v1/settings/ai
func (h *SettingsHandler) PutAISettings(w http.ResponseWriter, r *http.Request) {
	var req settings.AISettings
	if decodeErr := json.NewDecoder(r.Body).Decode(&req); decodeErr != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	saved, err := h.settingsService.Put(r.Context(), req)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, saved)
}
