// Package settings persists the single AI settings record.
// Credentials live here, in the local database — the llm adapters receive
// them per call and never read storage themselves.
package settings

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/focalhq/focal/internal/infra/llm"
)

// AISettings configures summary generation. A single record, upserted
// against the pinned row id.
type AISettings struct {
	Enabled           bool    `json:"enabled"`
	Provider          string  `json:"provider"`
	Model             string  `json:"model"`
	APIKey            string  `json:"apiKey"`
	BaseURL           string  `json:"baseUrl"`
	BulletCount       int     `json:"bulletCount"`
	MaxCharsPerBullet int     `json:"maxCharsPerBullet"`
	Temperature       float64 `json:"temperature"`
	IncludeJournal    bool    `json:"includeJournal"`
}

// Defaults returns the settings used before the user saves anything.
func Defaults() AISettings {
	return AISettings{
		Enabled:           false,
		Provider:          llm.ProviderOllama,
		BulletCount:       5,
		MaxCharsPerBullet: 300,
		Temperature:       llm.DefaultTemperature,
		IncludeJournal:    true,
	}
}

// Service reads and writes the AI settings row.
type Service struct {
	db *sql.DB
}

// NewService creates a settings Service.
func NewService(db *sql.DB) *Service {
	return &Service{db: db}
}

// Get returns the stored settings, or Defaults when nothing was saved yet.
func (s *Service) Get(ctx context.Context) (*AISettings, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT enabled, provider, model, api_key, base_url, bullet_count, max_chars_per_bullet, temperature, include_journal
		FROM ai_settings WHERE id = 1`)

	var out AISettings
	var enabled, includeJournal int
	err := row.Scan(&enabled, &out.Provider, &out.Model, &out.APIKey, &out.BaseURL,
		&out.BulletCount, &out.MaxCharsPerBullet, &out.Temperature, &includeJournal)
	if errors.Is(err, sql.ErrNoRows) {
		defaults := Defaults()
		return &defaults, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get ai settings: %w", err)
	}
	out.Enabled = enabled != 0
	out.IncludeJournal = includeJournal != 0
	return &out, nil
}

// Put validates and upserts the settings record.
func (s *Service) Put(ctx context.Context, in AISettings) (*AISettings, error) {
	if _, err := llm.ForProvider(in.Provider); err != nil {
		return nil, fmt.Errorf("put ai settings: %w", err)
	}
	if in.BulletCount <= 0 {
		in.BulletCount = Defaults().BulletCount
	}
	if in.MaxCharsPerBullet <= 0 {
		in.MaxCharsPerBullet = Defaults().MaxCharsPerBullet
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO ai_settings (id, enabled, provider, model, api_key, base_url, bullet_count, max_chars_per_bullet, temperature, include_journal, updated_at)
		VALUES (1, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			enabled = excluded.enabled,
			provider = excluded.provider,
			model = excluded.model,
			api_key = excluded.api_key,
			base_url = excluded.base_url,
			bullet_count = excluded.bullet_count,
			max_chars_per_bullet = excluded.max_chars_per_bullet,
			temperature = excluded.temperature,
			include_journal = excluded.include_journal,
			updated_at = excluded.updated_at`,
		boolToInt(in.Enabled), in.Provider, in.Model, in.APIKey, in.BaseURL,
		in.BulletCount, in.MaxCharsPerBullet, in.Temperature, boolToInt(in.IncludeJournal),
		time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return nil, fmt.Errorf("put ai settings: %w", err)
	}
	return s.Get(ctx)
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
