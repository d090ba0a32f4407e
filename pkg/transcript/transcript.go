// Package transcript holds the conversation rows produced by a simulation run
// or reconstructed from an external capture.
package transcript

import (
	"fmt"
	"strings"
)

type Speaker string

const (
	SpeakerUser  Speaker = "user"
	SpeakerAgent Speaker = "agent"
)

// Row is one spoken line. User and agent rows produced for the same scripted
// turn share the same StepOrder.
type Row struct {
	Speaker   Speaker `json:"speaker"`
	Text      string  `json:"text"`
	StepOrder int     `json:"stepOrder"`
}

// Transcript is an ordered, append-only sequence of rows. It is local to one
// run and safe to hand off by value.
type Transcript []Row

func (t Transcript) IsEmpty() bool {
	return len(t) == 0
}

// AgentLines returns the text of every agent row, in order.
func (t Transcript) AgentLines() []string {
	lines := make([]string, 0, len(t))
	for _, row := range t {
		if row.Speaker == SpeakerAgent {
			lines = append(lines, row.Text)
		}
	}
	return lines
}

// Render condenses the transcript into "speaker: text" lines, one per row.
func (t Transcript) Render() string {
	var b strings.Builder
	for i, row := range t {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "%s: %s", row.Speaker, row.Text)
	}
	return b.String()
}
