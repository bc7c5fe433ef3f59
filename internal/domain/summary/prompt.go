// Package summary turns a finished session into an AI-generated bullet
// summary: it builds the prompt, drives the configured provider adapter,
// and stores the result.
package summary

import (
	"fmt"
	"strings"

	"github.com/focalhq/focal/internal/domain/session"
)

// PromptOptions shapes the generated prompt's requirements block.
type PromptOptions struct {
	BulletCount       int
	MaxCharsPerBullet int
	IncludeJournal    bool
}

const noneValue = "(none)"

// BuildPrompt renders the summarization prompt for a session. It is a pure
// function: identical inputs always produce a byte-identical string, so the
// output is safe to cache or diff in tests.
func BuildPrompt(sess *session.Session, opts PromptOptions) string {
	goal := strings.TrimSpace(sess.Goal)
	notes := strings.TrimSpace(sess.Notes)

	var b strings.Builder
	if goal == "" && notes == "" && sess.Journal == nil {
		fmt.Fprintf(&b, "Please provide %d brief factual bullets\n", opts.BulletCount)
	} else {
		fmt.Fprintf(&b, "Please summarize this %s research session\n", sess.Mode)
	}

	b.WriteString("Goal: " + orNone(goal) + "\n")
	b.WriteString("Notes: " + orNone(notes) + "\n")
	b.WriteString("Journal: " + journalFragment(sess.Journal, opts.IncludeJournal) + "\n")

	b.WriteString("\nRequirements:\n")
	fmt.Fprintf(&b, "- Provide exactly %d bullet points\n", opts.BulletCount)
	b.WriteString("- Start each bullet with \"- \"\n")
	fmt.Fprintf(&b, "- Keep each bullet to %d characters or fewer\n", opts.MaxCharsPerBullet)
	b.WriteString("- Be factual and cite concrete outcomes\n")
	b.WriteString("- Output only the bullet points in plain text, with no surrounding prose or markdown headers\n")
	return b.String()
}

func orNone(s string) string {
	if s == "" {
		return noneValue
	}
	return s
}

// journalFragment serializes the mode-specific journal fields in their
// declaration order as a compact {Label: value, ...} fragment.
func journalFragment(j *session.Journal, include bool) string {
	if !include || j == nil {
		return noneValue
	}

	var pairs []string
	add := func(label, value string) {
		pairs = append(pairs, label+": "+value)
	}
	switch j.Kind {
	case session.ModeLit:
		add("Key Claim", j.KeyClaim)
		add("Method", j.Method)
		add("Limitation", j.Limitation)
	case session.ModeAnalysis:
		add("Script/Notebook", j.ScriptOrNotebook)
		add("Dataset", j.DatasetRef)
		add("Next Step", j.NextStep)
	case session.ModeWriting:
		add("Words Added", fmt.Sprintf("%d", j.WordsAdded))
		add("Sections Touched", j.SectionsTouched)
	case session.ModeDeep, session.ModeBreak:
		add("What Moved", j.WhatMoved)
	default:
		return noneValue
	}
	return "{" + strings.Join(pairs, ", ") + "}"
}
