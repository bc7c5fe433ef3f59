// HTTP handlers for summary generation and provider connection tests.
package handlers

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/focalhq/focal/internal/domain/summary"
)

// SummaryHandler handles HTTP requests for summary generation.
type SummaryHandler struct {
	summaryService *summary.Service
}

// NewSummaryHandler creates a new SummaryHandler instance.
func NewSummaryHandler(summaryService *summary.Service) *SummaryHandler {
	return &SummaryHandler{summaryService: summaryService}
}

// SummarizeSession handles POST /api/v1/sessions/{id}/summarize.
//
// A cancelled request (UI navigated away, daemon shutdown) answers 499-style
// with a neutral body rather than an error: cancellation is not a failure.
func (h *SummaryHandler) SummarizeSession(w http.ResponseWriter, r *http.Request) {
	sess, err := h.summaryService.Generate(r.Context(), chi.URLParam(r, "id"))
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, sess)
	case errors.Is(err, summary.ErrCancelled):
		writeJSON(w, http.StatusOK, map[string]string{"status": "cancelled"})
	case errors.Is(err, summary.ErrDisabled):
		writeError(w, http.StatusConflict, "AI summaries are disabled in settings")
	case errors.Is(err, sql.ErrNoRows):
		writeError(w, http.StatusNotFound, "session not found")
	default:
		var provErr *summary.ProviderError
		if errors.As(err, &provErr) {
			writeError(w, http.StatusBadGateway, provErr.Message)
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to generate summary")
	}
}

// TestProvider handles POST /api/v1/providers/test. Always answers 200 with
// {ok, message}; probe failures are payload, not HTTP errors.
func (h *SummaryHandler) TestProvider(w http.ResponseWriter, r *http.Request) {
	var req summary.TestInput
	if decodeErr := json.NewDecoder(r.Body).Decode(&req); decodeErr != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	writeJSON(w, http.StatusOK, h.summaryService.TestConnection(r.Context(), req))
}
