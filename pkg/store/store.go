// Package store provides case and run storage behind narrow interfaces so
// the engine can be embedded with any persistence backend. In-memory
// implementations cover tests and single-process CLI usage.
package store

import (
	"time"

	"github.com/convocheck/convocheck/pkg/evaluate"
	"github.com/convocheck/convocheck/pkg/script"
	"github.com/convocheck/convocheck/pkg/transcript"
)

const (
	RunStatusRunning   = "running"
	RunStatusCompleted = "completed"
	RunStatusFailed    = "failed"
)

// Run is one recorded execution of a test case.
type Run struct {
	ID         string                `json:"id"`
	TestID     string                `json:"testId"`
	Status     string                `json:"status"`
	Transcript transcript.Transcript `json:"transcript"`
	Evaluation *evaluate.Evaluation  `json:"evaluation,omitempty"`
	CreatedAt  time.Time             `json:"createdAt"`
	UpdatedAt  time.Time             `json:"updatedAt"`
}

// RunUpdate carries the fields to change on an existing run. Nil/empty
// fields are left untouched. AppendTranscript adds rows after any Transcript
// replacement.
type RunUpdate struct {
	Status           string
	Transcript       transcript.Transcript
	AppendTranscript transcript.Transcript
	Evaluation       *evaluate.Evaluation
}

type CaseStore interface {
	Get(testID string) (*script.TestCase, bool)
	ListAll() []*script.TestCase
	Upsert(tc *script.TestCase)
	Delete(testID string) bool
}

type RunStore interface {
	// Create records a new run for the test case and returns its id.
	Create(testID string) string
	Get(runID string) (*Run, bool)
	// ListRecent returns up to limit runs, newest first.
	ListRecent(limit int) []*Run
	// Update applies the update and reports whether the run exists.
	Update(runID string, update RunUpdate) bool
}
