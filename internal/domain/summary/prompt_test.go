package summary_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/focalhq/focal/internal/domain/session"
	"github.com/focalhq/focal/internal/domain/summary"
)

func litSession() *session.Session {
	return &session.Session{
		ID:    "sess-1",
		Mode:  session.ModeLit,
		Goal:  "Review ML literature",
		Notes: "Found interesting papers",
		Journal: &session.Journal{
			Kind:       session.ModeLit,
			KeyClaim:   "X",
			Method:     "Y",
			Limitation: "Z",
		},
	}
}

func TestBuildPrompt_Deterministic(t *testing.T) {
	t.Parallel()

	sess := litSession()
	opts := summary.PromptOptions{BulletCount: 5, MaxCharsPerBullet: 300, IncludeJournal: true}

	first := summary.BuildPrompt(sess, opts)
	second := summary.BuildPrompt(sess, opts)
	assert.Equal(t, first, second)
}

func TestBuildPrompt_FullSession(t *testing.T) {
	t.Parallel()

	got := summary.BuildPrompt(litSession(), summary.PromptOptions{
		BulletCount:       5,
		MaxCharsPerBullet: 300,
		IncludeJournal:    true,
	})

	assert.Contains(t, got, "Please summarize this lit research session")
	assert.Contains(t, got, "Goal: Review ML literature")
	assert.Contains(t, got, "Notes: Found interesting papers")
	assert.Contains(t, got, "Journal: {Key Claim: X, Method: Y, Limitation: Z}")
	assert.Contains(t, got, "Provide exactly 5 bullet points")
	assert.Contains(t, got, "300 characters or fewer")
	assert.Contains(t, got, `Start each bullet with "- "`)
}

func TestBuildPrompt_MinimalFallback(t *testing.T) {
	t.Parallel()

	sess := &session.Session{ID: "sess-2", Mode: session.ModeDeep, Goal: "  ", Notes: ""}
	got := summary.BuildPrompt(sess, summary.PromptOptions{BulletCount: 3, MaxCharsPerBullet: 120})

	assert.Contains(t, got, "Please provide 3 brief factual bullets")
	assert.NotContains(t, got, "summarize this")
	assert.Contains(t, got, "Goal: (none)")
	assert.Contains(t, got, "Notes: (none)")
	assert.Contains(t, got, "Journal: (none)")
}

func TestBuildPrompt_IncludeJournalFalse(t *testing.T) {
	t.Parallel()

	got := summary.BuildPrompt(litSession(), summary.PromptOptions{
		BulletCount:       5,
		MaxCharsPerBullet: 300,
		IncludeJournal:    false,
	})

	assert.Contains(t, got, "Journal: (none)")
	assert.NotContains(t, got, "Key Claim")
	assert.NotContains(t, got, "Method")
	assert.NotContains(t, got, "Limitation")
}

func TestBuildPrompt_JournalVariants(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		journal *session.Journal
		want    string
	}{
		{
			name: "analysis",
			journal: &session.Journal{
				Kind:             session.ModeAnalysis,
				ScriptOrNotebook: "eda.ipynb",
				DatasetRef:       "survey-2024",
				NextStep:         "rerun with controls",
			},
			want: "Journal: {Script/Notebook: eda.ipynb, Dataset: survey-2024, Next Step: rerun with controls}",
		},
		{
			name: "writing",
			journal: &session.Journal{
				Kind:            session.ModeWriting,
				WordsAdded:      450,
				SectionsTouched: "intro, methods",
			},
			want: "Journal: {Words Added: 450, Sections Touched: intro, methods}",
		},
		{
			name:    "deep",
			journal: &session.Journal{Kind: session.ModeDeep, WhatMoved: "proof sketch for lemma 2"},
			want:    "Journal: {What Moved: proof sketch for lemma 2}",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			sess := &session.Session{ID: "s", Mode: tt.journal.Kind, Journal: tt.journal}
			got := summary.BuildPrompt(sess, summary.PromptOptions{BulletCount: 5, MaxCharsPerBullet: 300, IncludeJournal: true})
			assert.Contains(t, got, tt.want)
		})
	}
}

func TestBuildPrompt_NoSessionIdentifiers(t *testing.T) {
	t.Parallel()

	sess := litSession()
	got := summary.BuildPrompt(sess, summary.PromptOptions{BulletCount: 5, MaxCharsPerBullet: 300, IncludeJournal: true})

	require.NotEmpty(t, got)
	assert.NotContains(t, got, sess.ID)
}
