// HTTP handlers for session lifecycle endpoints.
package handlers

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/focalhq/focal/internal/domain/session"
)

// SessionHandler handles HTTP requests for session operations.
type SessionHandler struct {
	sessionService *session.Service
}

// NewSessionHandler creates a new SessionHandler instance.
func NewSessionHandler(sessionService *session.Service) *SessionHandler {
	return &SessionHandler{sessionService: sessionService}
}

// CreateSessionRequest is the request body for starting a session.
type CreateSessionRequest struct {
	Mode           string   `json:"mode"`
	PlannedMinutes int      `json:"plannedMinutes"`
	Tags           []string `json:"tags,omitempty"`
	Goal           string   `json:"goal,omitempty"`
}

// CompleteSessionRequest is the request body for completing a session.
type CompleteSessionRequest struct {
	Notes   string           `json:"notes,omitempty"`
	Journal *session.Journal `json:"journal,omitempty"`
	EndedAt string           `json:"endedAt,omitempty"` // RFC3339; empty means now
}

// ListSessionsResponse is the response body for listing sessions.
type ListSessionsResponse struct {
	Data []*session.Session `json:"data"`
	Meta Meta               `json:"meta"`
}

// WeeklyStatsResponse is the response body for the weekly aggregate.
type WeeklyStatsResponse struct {
	Data []session.ModeMinutes `json:"data"`
}

// CreateSession handles POST /api/v1/sessions
func (h *SessionHandler) CreateSession(w http.ResponseWriter, r *http.Request) {
	var req CreateSessionRequest
	if decodeErr := json.NewDecoder(r.Body).Decode(&req); decodeErr != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	sess, err := h.sessionService.Create(r.Context(), session.CreateInput{
		Mode:           session.Mode(req.Mode),
		PlannedMinutes: req.PlannedMinutes,
		Tags:           req.Tags,
		Goal:           req.Goal,
	})
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, sess)
}

// ListSessions handles GET /api/v1/sessions
func (h *SessionHandler) ListSessions(w http.ResponseWriter, r *http.Request) {
	page := parsePaginationParams(r)
	mode := session.Mode(r.URL.Query().Get("mode"))
	if mode != "" && !mode.Valid() {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("unknown mode %q", mode))
		return
	}

	sessions, total, err := h.sessionService.List(r.Context(), session.ListInput{
		Mode:   mode,
		Limit:  page.Limit,
		Offset: page.Offset,
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list sessions")
		return
	}
	if sessions == nil {
		sessions = []*session.Session{}
	}
	writeJSON(w, http.StatusOK, ListSessionsResponse{
		Data: sessions,
		Meta: Meta{Total: total, Limit: page.Limit, Offset: page.Offset},
	})
}

// GetSession handles GET /api/v1/sessions/{id}
func (h *SessionHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	sess, err := h.sessionService.Get(r.Context(), chi.URLParam(r, "id"))
	if errors.Is(err, sql.ErrNoRows) {
		writeError(w, http.StatusNotFound, "session not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load session")
		return
	}
	writeJSON(w, http.StatusOK, sess)
}

// CompleteSession handles POST /api/v1/sessions/{id}/complete
func (h *SessionHandler) CompleteSession(w http.ResponseWriter, r *http.Request) {
	var req CompleteSessionRequest
	if r.ContentLength > 0 {
		if decodeErr := json.NewDecoder(r.Body).Decode(&req); decodeErr != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
	}

	var endedAt time.Time
	if req.EndedAt != "" {
		parsed, parseErr := time.Parse(time.RFC3339, req.EndedAt)
		if parseErr != nil {
			writeError(w, http.StatusBadRequest, "endedAt must be RFC3339")
			return
		}
		endedAt = parsed
	}

	sess, err := h.sessionService.Complete(r.Context(), chi.URLParam(r, "id"), session.CompleteInput{
		Notes:   req.Notes,
		Journal: req.Journal,
		EndedAt: endedAt,
	})
	if errors.Is(err, sql.ErrNoRows) {
		writeError(w, http.StatusNotFound, "no running session with that id")
		return
	}
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, sess)
}

// AbandonSession handles POST /api/v1/sessions/{id}/abandon
func (h *SessionHandler) AbandonSession(w http.ResponseWriter, r *http.Request) {
	sess, err := h.sessionService.Abandon(r.Context(), chi.URLParam(r, "id"))
	if errors.Is(err, sql.ErrNoRows) {
		writeError(w, http.StatusNotFound, "no running session with that id")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to abandon session")
		return
	}
	writeJSON(w, http.StatusOK, sess)
}

// DeleteSession handles DELETE /api/v1/sessions/{id}
func (h *SessionHandler) DeleteSession(w http.ResponseWriter, r *http.Request) {
	err := h.sessionService.Delete(r.Context(), chi.URLParam(r, "id"))
	if errors.Is(err, sql.ErrNoRows) {
		writeError(w, http.StatusNotFound, "session not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to delete session")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// WeeklyStats handles GET /api/v1/sessions/stats/weekly
func (h *SessionHandler) WeeklyStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.sessionService.WeeklyStats(r.Context(), time.Now())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to aggregate stats")
		return
	}
	if stats == nil {
		stats = []session.ModeMinutes{}
	}
	writeJSON(w, http.StatusOK, WeeklyStatsResponse{Data: stats})
}
