package transcript

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAgentLines(t *testing.T) {
	tr := Transcript{
		{Speaker: SpeakerUser, Text: "Hello", StepOrder: 1},
		{Speaker: SpeakerAgent, Text: "Hi there", StepOrder: 1},
		{Speaker: SpeakerUser, Text: "Bye", StepOrder: 2},
		{Speaker: SpeakerAgent, Text: "Goodbye", StepOrder: 2},
	}

	assert.Equal(t, []string{"Hi there", "Goodbye"}, tr.AgentLines())
	assert.Empty(t, Transcript{}.AgentLines())
}

func TestRender(t *testing.T) {
	tr := Transcript{
		{Speaker: SpeakerUser, Text: "Hello", StepOrder: 1},
		{Speaker: SpeakerAgent, Text: "Hi there", StepOrder: 1},
	}

	assert.Equal(t, "user: Hello\nagent: Hi there", tr.Render())
	assert.Equal(t, "", Transcript{}.Render())
}

func TestIsEmpty(t *testing.T) {
	assert.True(t, Transcript{}.IsEmpty())
	assert.False(t, Transcript{{Speaker: SpeakerUser}}.IsEmpty())
}
