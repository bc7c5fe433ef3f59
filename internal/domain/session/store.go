package session

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/focalhq/focal/internal/infra/eventbus"
	"github.com/focalhq/focal/pkg/uuid"
)

// TopicCompleted is published on the event bus whenever a session reaches
// the completed state.
const TopicCompleted = "session.completed"

// CreateInput starts a new session.
type CreateInput struct {
	Mode           Mode
	PlannedMinutes int
	Tags           []string
	Goal           string
}

// CompleteInput closes a running session with its outcome.
type CompleteInput struct {
	Notes   string
	Journal *Journal
	EndedAt time.Time // zero value means "now"
}

// ListInput filters and paginates List.
type ListInput struct {
	Mode   Mode // empty means all modes
	Limit  int
	Offset int
}

// Service persists sessions in SQLite and publishes lifecycle events.
type Service struct {
	db  *sql.DB
	bus eventbus.EventBus
}

// NewService creates a session Service. bus may be nil when no subscriber
// cares about lifecycle events (tests, one-shot tools).
func NewService(db *sql.DB, bus eventbus.EventBus) *Service {
	return &Service{db: db, bus: bus}
}

// Create starts a new running session and returns it.
func (s *Service) Create(ctx context.Context, input CreateInput) (*Session, error) {
	if !input.Mode.Valid() {
		return nil, fmt.Errorf("create session: invalid mode %q", input.Mode)
	}
	if input.PlannedMinutes <= 0 {
		return nil, fmt.Errorf("create session: planned minutes must be positive")
	}

	id := uuid.NewV7().String()
	now := time.Now().UTC()
	tags, err := marshalTags(input.Tags)
	if err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO sessions (id, mode, planned_minutes, started_at, status, tags, goal)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		id, string(input.Mode), input.PlannedMinutes, formatTime(now), string(StatusRunning), tags, input.Goal,
	)
	if err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}
	return s.Get(ctx, id)
}

// Get returns a session by id. sql.ErrNoRows propagates for missing ids.
func (s *Service) Get(ctx context.Context, id string) (*Session, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, mode, planned_minutes, started_at, ended_at, status, tags, goal, notes, journal, summary, summary_generated_at
		FROM sessions WHERE id = ?`, id)
	return scanSession(row)
}

// List returns sessions newest-first with the total count for pagination.
func (s *Service) List(ctx context.Context, input ListInput) ([]*Session, int, error) {
	where := ""
	args := []any{}
	if input.Mode != "" {
		where = " WHERE mode = ?"
		args = append(args, string(input.Mode))
	}

	var total int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM sessions"+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count sessions: %w", err)
	}

	query := `
		SELECT id, mode, planned_minutes, started_at, ended_at, status, tags, goal, notes, journal, summary, summary_generated_at
		FROM sessions` + where + ` ORDER BY started_at DESC LIMIT ? OFFSET ?`
	rows, err := s.db.QueryContext(ctx, query, append(args, input.Limit, input.Offset)...)
	if err != nil {
		return nil, 0, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close() //nolint:errcheck

	var out []*Session
	for rows.Next() {
		sess, scanErr := scanSession(rows)
		if scanErr != nil {
			return nil, 0, fmt.Errorf("list sessions: %w", scanErr)
		}
		out = append(out, sess)
	}
	return out, total, rows.Err()
}

// Complete transitions a running session to completed, recording notes and
// the journal, and publishes TopicCompleted.
func (s *Service) Complete(ctx context.Context, id string, input CompleteInput) (*Session, error) {
	endedAt := input.EndedAt
	if endedAt.IsZero() {
		endedAt = time.Now().UTC()
	}
	journal, err := marshalJournal(input.Journal)
	if err != nil {
		return nil, fmt.Errorf("complete session: %w", err)
	}

	res, err := s.db.ExecContext(ctx, `
		UPDATE sessions SET status = ?, ended_at = ?, notes = ?, journal = ?
		WHERE id = ? AND status = ?`,
		string(StatusCompleted), formatTime(endedAt), input.Notes, journal, id, string(StatusRunning),
	)
	if err != nil {
		return nil, fmt.Errorf("complete session: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, fmt.Errorf("complete session %s: %w", id, sql.ErrNoRows)
	}

	sess, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if s.bus != nil {
		s.bus.Publish(TopicCompleted, sess)
	}
	return sess, nil
}

// Abandon transitions a running session to abandoned.
func (s *Service) Abandon(ctx context.Context, id string) (*Session, error) {
	res, err := s.db.ExecContext(ctx, `
		UPDATE sessions SET status = ?, ended_at = ?
		WHERE id = ? AND status = ?`,
		string(StatusAbandoned), formatTime(time.Now().UTC()), id, string(StatusRunning),
	)
	if err != nil {
		return nil, fmt.Errorf("abandon session: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, fmt.Errorf("abandon session %s: %w", id, sql.ErrNoRows)
	}
	return s.Get(ctx, id)
}

// Delete removes a session permanently.
func (s *Service) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM sessions WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("delete session %s: %w", id, sql.ErrNoRows)
	}
	return nil
}

// AttachSummary stores a generated summary on a session.
func (s *Service) AttachSummary(ctx context.Context, id, summary string) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE sessions SET summary = ?, summary_generated_at = ? WHERE id = ?`,
		summary, formatTime(time.Now().UTC()), id,
	)
	if err != nil {
		return fmt.Errorf("attach summary: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("attach summary %s: %w", id, sql.ErrNoRows)
	}
	return nil
}

// WeeklyStats aggregates completed minutes per mode for the 7 days before
// now. Planned minutes are used for the aggregate; partial sessions count
// their actual span.
func (s *Service) WeeklyStats(ctx context.Context, now time.Time) ([]ModeMinutes, error) {
	since := formatTime(now.UTC().AddDate(0, 0, -7))
	rows, err := s.db.QueryContext(ctx, `
		SELECT mode, COALESCE(SUM(planned_minutes), 0)
		FROM sessions
		WHERE status = ? AND started_at >= ?
		GROUP BY mode ORDER BY mode`,
		string(StatusCompleted), since,
	)
	if err != nil {
		return nil, fmt.Errorf("weekly stats: %w", err)
	}
	defer rows.Close() //nolint:errcheck

	var out []ModeMinutes
	for rows.Next() {
		var mode string
		var minutes int
		if scanErr := rows.Scan(&mode, &minutes); scanErr != nil {
			return nil, fmt.Errorf("weekly stats: %w", scanErr)
		}
		out = append(out, ModeMinutes{Mode: Mode(mode), Minutes: minutes})
	}
	return out, rows.Err()
}

// ─── row mapping helpers ────────────────────────────────────────────────────

// scanner covers *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanSession(row scanner) (*Session, error) {
	var (
		sess                          Session
		mode, status, startedAt, tags string
		endedAt, summaryAt            sql.NullString
		goal, notes, journal, summary sql.NullString
	)
	err := row.Scan(&sess.ID, &mode, &sess.PlannedMinutes, &startedAt, &endedAt, &status,
		&tags, &goal, &notes, &journal, &summary, &summaryAt)
	if err != nil {
		return nil, err
	}

	sess.Mode = Mode(mode)
	sess.Status = Status(status)
	sess.Goal = goal.String
	sess.Notes = notes.String
	sess.Summary = summary.String

	if sess.StartedAt, err = parseTime(startedAt); err != nil {
		return nil, fmt.Errorf("scan session %s: %w", sess.ID, err)
	}
	if sess.EndedAt, err = parseNullTime(endedAt); err != nil {
		return nil, fmt.Errorf("scan session %s: %w", sess.ID, err)
	}
	if sess.SummaryGeneratedAt, err = parseNullTime(summaryAt); err != nil {
		return nil, fmt.Errorf("scan session %s: %w", sess.ID, err)
	}

	if unmarshalErr := json.Unmarshal([]byte(tags), &sess.Tags); unmarshalErr != nil {
		return nil, fmt.Errorf("scan session %s: tags: %w", sess.ID, unmarshalErr)
	}
	if journal.Valid && journal.String != "" {
		var j Journal
		if unmarshalErr := json.Unmarshal([]byte(journal.String), &j); unmarshalErr != nil {
			return nil, fmt.Errorf("scan session %s: journal: %w", sess.ID, unmarshalErr)
		}
		sess.Journal = &j
	}
	return &sess, nil
}

func marshalTags(tags []string) (string, error) {
	if tags == nil {
		tags = []string{}
	}
	b, err := json.Marshal(tags)
	if err != nil {
		return "", fmt.Errorf("marshal tags: %w", err)
	}
	return string(b), nil
}

func marshalJournal(j *Journal) (sql.NullString, error) {
	if j == nil {
		return sql.NullString{}, nil
	}
	b, err := json.Marshal(j)
	if err != nil {
		return sql.NullString{}, fmt.Errorf("marshal journal: %w", err)
	}
	return sql.NullString{String: string(b), Valid: true}, nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func parseTime(s string) (time.Time, error) {
	return time.Parse(time.RFC3339, s)
}

func parseNullTime(s sql.NullString) (*time.Time, error) {
	if !s.Valid || s.String == "" {
		return nil, nil
	}
	t, err := parseTime(s.String)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
