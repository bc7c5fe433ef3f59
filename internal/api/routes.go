// Route registration and go-chi router setup.
package api

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/focalhq/focal/internal/api/handlers"
	"github.com/focalhq/focal/internal/domain/session"
	"github.com/focalhq/focal/internal/domain/settings"
	"github.com/focalhq/focal/internal/domain/summary"
	"github.com/focalhq/focal/internal/infra/eventbus"
	"github.com/focalhq/focal/internal/infra/telemetry"
)

// NewRouter creates and configures a chi router with all routes. The daemon
// listens on loopback only, so there is no auth layer: everything under
// /api/v1 is reachable by the local UI.
func NewRouter(db *sql.DB, logger *slog.Logger) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware (runs on all routes)
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// Health check — used by the UI to detect a running daemon
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`)) //nolint:errcheck
	})

	bus := eventbus.New()
	tel := telemetry.New(false)
	sessionSvc := session.NewService(db, bus)
	settingsSvc := settings.NewService(db)
	summarySvc := summary.NewService(sessionSvc, settingsSvc, bus, tel, logger)

	sessionHandler := handlers.NewSessionHandler(sessionSvc)
	settingsHandler := handlers.NewSettingsHandler(settingsSvc)
	summaryHandler := handlers.NewSummaryHandler(summarySvc)

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/sessions", func(r chi.Router) {
			r.Post("/", sessionHandler.CreateSession)             // POST /api/v1/sessions
			r.Get("/", sessionHandler.ListSessions)               // GET /api/v1/sessions
			r.Get("/stats/weekly", sessionHandler.WeeklyStats)    // GET /api/v1/sessions/stats/weekly
			r.Get("/{id}", sessionHandler.GetSession)             // GET /api/v1/sessions/{id}
			r.Delete("/{id}", sessionHandler.DeleteSession)       // DELETE /api/v1/sessions/{id}
			r.Post("/{id}/complete", sessionHandler.CompleteSession) // POST /api/v1/sessions/{id}/complete
			r.Post("/{id}/abandon", sessionHandler.AbandonSession)   // POST /api/v1/sessions/{id}/abandon
			r.Post("/{id}/summarize", summaryHandler.SummarizeSession) // POST /api/v1/sessions/{id}/summarize
		})

		r.Route("/settings", func(r chi.Router) {
			r.Get("/ai", settingsHandler.GetAISettings) // GET /api/v1/settings/ai
			r.Put("/ai", settingsHandler.PutAISettings) // PUT /api/v1/settings/ai
		})

		r.Post("/providers/test", summaryHandler.TestProvider) // POST /api/v1/providers/test
	})

	return r
}
