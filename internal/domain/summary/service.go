package summary

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/focalhq/focal/internal/domain/session"
	"github.com/focalhq/focal/internal/domain/settings"
	"github.com/focalhq/focal/internal/infra/eventbus"
	"github.com/focalhq/focal/internal/infra/llm"
	"github.com/focalhq/focal/internal/infra/telemetry"
)

// TopicGenerated is published on the event bus after a summary is stored.
const TopicGenerated = "summary.generated"

// ErrCancelled reports that the caller abandoned the request mid-flight.
// Handlers render it as a neutral outcome, not a failure.
var ErrCancelled = errors.New("summary generation cancelled")

// ErrDisabled reports that AI summaries are switched off in settings.
var ErrDisabled = errors.New("ai summaries are disabled")

// ProviderError carries a user-facing message for a failed provider call.
// The underlying error stays reachable through Unwrap.
type ProviderError struct {
	Message string
	Err     error
}

func (e *ProviderError) Error() string { return e.Message }

func (e *ProviderError) Unwrap() error { return e.Err }

// Service orchestrates summary generation: settings → prompt → provider →
// stored summary. Provider errors are normalized here, at the presentation
// boundary, so adapter errors stay machine-matchable further down.
type Service struct {
	sessions  *session.Service
	settings  *settings.Service
	bus       eventbus.EventBus
	telemetry *telemetry.Client
	logger    *slog.Logger
}

// NewService wires the summary orchestrator. bus and telemetry may be nil.
func NewService(sessions *session.Service, st *settings.Service, bus eventbus.EventBus, tel *telemetry.Client, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{sessions: sessions, settings: st, bus: bus, telemetry: tel, logger: logger}
}

// Generate builds a prompt for the session, calls the configured provider,
// stores the summary, and returns the refreshed session.
func (s *Service) Generate(ctx context.Context, sessionID string) (*session.Session, error) {
	cfg, err := s.settings.Get(ctx)
	if err != nil {
		return nil, cancelledOr(ctx, err)
	}
	if !cfg.Enabled {
		return nil, ErrDisabled
	}

	sess, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, cancelledOr(ctx, fmt.Errorf("load session %s: %w", sessionID, err))
	}

	adapter, err := llm.ForProvider(cfg.Provider)
	if err != nil {
		return nil, err
	}

	prompt := BuildPrompt(sess, PromptOptions{
		BulletCount:       cfg.BulletCount,
		MaxCharsPerBullet: cfg.MaxCharsPerBullet,
		IncludeJournal:    cfg.IncludeJournal,
	})

	result, err := adapter.Summarize(ctx, prompt, llm.GenerateOptions{
		Model:       cfg.Model,
		Temperature: &cfg.Temperature,
		APIKey:      cfg.APIKey,
		BaseURL:     cfg.BaseURL,
	})
	if err != nil {
		if ctx.Err() != nil {
			return nil, ErrCancelled
		}
		s.logger.Warn("summary generation failed",
			"session", sessionID, "provider", adapter.Name(), "error", err)
		return nil, &ProviderError{Message: llm.Normalize(err), Err: err}
	}

	if err := s.sessions.AttachSummary(ctx, sessionID, result.Text); err != nil {
		return nil, err
	}
	sess, err = s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if s.bus != nil {
		s.bus.Publish(TopicGenerated, sess)
	}
	if s.telemetry != nil {
		s.telemetry.Record("summary_generated", map[string]any{
			"provider": adapter.Name(),
			"mode":     string(sess.Mode),
		})
	}
	s.logger.Info("summary generated", "session", sessionID, "provider", adapter.Name())
	return sess, nil
}

// cancelledOr collapses any error observed under a cancelled context into
// ErrCancelled so callers see one cancellation outcome.
func cancelledOr(ctx context.Context, err error) error {
	if ctx.Err() != nil {
		return ErrCancelled
	}
	return err
}

// TestInput configures a one-off connection probe from the settings UI.
type TestInput struct {
	Provider string `json:"provider"`
	Model    string `json:"model"`
	APIKey   string `json:"apiKey"`
	BaseURL  string `json:"baseUrl"`
}

// TestConnection probes the given provider with the given credentials.
// It never returns an error: every failure path lands in the result message.
func (s *Service) TestConnection(ctx context.Context, in TestInput) llm.ConnectionTestResult {
	adapter, err := llm.ForProvider(in.Provider)
	if err != nil {
		return llm.ConnectionTestResult{OK: false, Message: llm.Normalize(err)}
	}
	return adapter.TestConnection(ctx, llm.GenerateOptions{
		Model:   in.Model,
		APIKey:  in.APIKey,
		BaseURL: in.BaseURL,
	})
}
