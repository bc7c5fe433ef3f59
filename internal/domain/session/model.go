// Package session holds the research session model and its SQLite store.
package session

import "time"

// Mode classifies what kind of research work a session covers.
type Mode string

const (
	ModeLit      Mode = "lit"
	ModeAnalysis Mode = "analysis"
	ModeWriting  Mode = "writing"
	ModeDeep     Mode = "deep"
	ModeBreak    Mode = "break"
)

// Modes lists every valid mode.
func Modes() []Mode {
	return []Mode{ModeLit, ModeAnalysis, ModeWriting, ModeDeep, ModeBreak}
}

// Valid reports whether m is one of the known modes.
func (m Mode) Valid() bool {
	switch m {
	case ModeLit, ModeAnalysis, ModeWriting, ModeDeep, ModeBreak:
		return true
	}
	return false
}

// Status is the session lifecycle state.
type Status string

const (
	StatusRunning   Status = "running"
	StatusCompleted Status = "completed"
	StatusAbandoned Status = "abandoned"
)

// Journal is the mode-specific structured record of a session's outcome,
// distinct from free-text notes. Kind selects which field group is
// meaningful: lit carries KeyClaim/Method/Limitation, analysis carries
// ScriptOrNotebook/DatasetRef/NextStep, writing carries
// WordsAdded/SectionsTouched, and deep/break carry WhatMoved.
type Journal struct {
	Kind Mode `json:"kind"`

	KeyClaim   string `json:"keyClaim,omitempty"`
	Method     string `json:"method,omitempty"`
	Limitation string `json:"limitation,omitempty"`

	ScriptOrNotebook string `json:"scriptOrNotebook,omitempty"`
	DatasetRef       string `json:"datasetRef,omitempty"`
	NextStep         string `json:"nextStep,omitempty"`

	WordsAdded      int    `json:"wordsAdded,omitempty"`
	SectionsTouched string `json:"sectionsTouched,omitempty"`

	WhatMoved string `json:"whatMoved,omitempty"`
}

// Session is one timed research work session.
type Session struct {
	ID                 string     `json:"id"`
	Mode               Mode       `json:"mode"`
	PlannedMinutes     int        `json:"plannedMinutes"`
	StartedAt          time.Time  `json:"startedAt"`
	EndedAt            *time.Time `json:"endedAt,omitempty"`
	Status             Status     `json:"status"`
	Tags               []string   `json:"tags"`
	Goal               string     `json:"goal,omitempty"`
	Notes              string     `json:"notes,omitempty"`
	Journal            *Journal   `json:"journal,omitempty"`
	Summary            string     `json:"summary,omitempty"`
	SummaryGeneratedAt *time.Time `json:"summaryGeneratedAt,omitempty"`
}

// ModeMinutes is one row of the weekly stats aggregation.
type ModeMinutes struct {
	Mode    Mode `json:"mode"`
	Minutes int  `json:"minutes"`
}
