package simulate

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/convocheck/convocheck/pkg/script"
	"github.com/convocheck/convocheck/pkg/transcript"
)

type stubClient struct {
	prompts  []string
	response string
	err      error
}

func (s *stubClient) Generate(_ context.Context, prompt string) (string, error) {
	s.prompts = append(s.prompts, prompt)
	if s.err != nil {
		return "", s.err
	}
	return s.response, nil
}

type stubResponder struct {
	replies map[int]string
	err     error
}

func (s *stubResponder) Respond(_ context.Context, _ string, turn *script.TurnExpectation) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	if reply, ok := s.replies[turn.StepOrder]; ok {
		return reply, nil
	}
	return turn.JoinedKeywords(), nil
}

func newTestCase(t *testing.T, turns ...script.TurnExpectation) *script.TestCase {
	t.Helper()
	tc, err := script.NewTestCase("tc-sim", "Calm caller", turns)
	require.NoError(t, err)
	return tc
}

func threeTurnCase(t *testing.T) *script.TestCase {
	return newTestCase(t,
		script.TurnExpectation{StepOrder: 1, UserInput: "Hello", ExpectedKeywords: []string{"hi", "there"}},
		script.TurnExpectation{StepOrder: 2, UserInput: "Need help", ExpectedKeywords: []string{"help", "options"}},
		script.TurnExpectation{StepOrder: 3, UserInput: "Thanks", ExpectedKeywords: []string{"welcome"}},
	)
}

func TestRunProducesTwoRowsPerTurn(t *testing.T) {
	tc := threeTurnCase(t)

	sim := NewSimulator(nil, nil, Config{})
	tr, err := sim.Run(context.Background(), tc)
	require.NoError(t, err)

	require.Len(t, tr, 6)
	for i, row := range tr {
		if i%2 == 0 {
			assert.Equal(t, transcript.SpeakerUser, row.Speaker)
		} else {
			assert.Equal(t, transcript.SpeakerAgent, row.Speaker)
		}
		assert.Equal(t, i/2+1, row.StepOrder)
	}

	assert.Equal(t, "Hello", tr[0].Text)
	assert.Equal(t, "hi there", tr[1].Text)
}

func TestRunIsDeterministicWithoutDisfluency(t *testing.T) {
	tc := threeTurnCase(t)

	first, err := NewSimulator(nil, nil, Config{}).Run(context.Background(), tc)
	require.NoError(t, err)
	second, err := NewSimulator(nil, nil, Config{}).Run(context.Background(), tc)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestRunSteersAfterMismatch(t *testing.T) {
	tc := threeTurnCase(t)

	client := &stubClient{response: "Could we get back to my question?"}
	responder := &stubResponder{replies: map[int]string{1: "Sorry, what?"}}

	sim := NewSimulator(client, responder, Config{})
	tr, err := sim.Run(context.Background(), tc)
	require.NoError(t, err)
	require.Len(t, tr, 6)

	// Turn 1 mismatched, so turn 2's user line is the steer utterance and
	// turn 3 is back on script.
	assert.Equal(t, "Hello", tr[0].Text)
	assert.Equal(t, "Could we get back to my question?", tr[2].Text)
	assert.Equal(t, "Thanks", tr[4].Text)

	require.Len(t, client.prompts, 1)
	assert.Contains(t, client.prompts[0], "Calm caller")
	assert.Contains(t, client.prompts[0], "Need help")
	assert.Contains(t, client.prompts[0], "Sorry, what?")
}

func TestRunSteerPromptUsesNoResponseSentinel(t *testing.T) {
	tc := newTestCase(t,
		script.TurnExpectation{StepOrder: 1, UserInput: "Hello", ExpectedKeywords: []string{"hi"}},
		script.TurnExpectation{StepOrder: 2, UserInput: "Still there?", ExpectedKeywords: []string{"yes"}},
	)

	client := &stubClient{response: "Hello, are you with me?"}
	responder := &stubResponder{replies: map[int]string{1: ""}}

	_, err := NewSimulator(client, responder, Config{}).Run(context.Background(), tc)
	require.NoError(t, err)

	require.Len(t, client.prompts, 1)
	assert.Contains(t, client.prompts[0], "NO RESPONSE")
}

func TestRunPropagatesResponderFailure(t *testing.T) {
	tc := threeTurnCase(t)

	responder := &stubResponder{err: fmt.Errorf("connection reset")}
	_, err := NewSimulator(nil, responder, Config{}).Run(context.Background(), tc)

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrResponseUnavailable)
}

func TestRunPropagatesSteerFailure(t *testing.T) {
	tc := threeTurnCase(t)

	client := &stubClient{err: fmt.Errorf("backend down")}
	responder := &stubResponder{replies: map[int]string{1: "wrong answer"}}

	_, err := NewSimulator(client, responder, Config{}).Run(context.Background(), tc)

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrGenerationUnavailable)
}

func TestRenderUserPromptParaphrase(t *testing.T) {
	tests := map[string]struct {
		client   *stubClient
		wantText string
	}{
		"paraphrase used when returned": {
			client:   &stubClient{response: "Hey, hello there!"},
			wantText: "Hey, hello there!",
		},
		"empty paraphrase falls back to script": {
			client:   &stubClient{response: ""},
			wantText: "Hello",
		},
		"generation failure falls back to script": {
			client:   &stubClient{err: errors.New("backend down")},
			wantText: "Hello",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			tc := newTestCase(t,
				script.TurnExpectation{StepOrder: 1, UserInput: "Hello", ExpectedKeywords: []string{"hi"}},
			)

			sim := NewSimulator(tt.client, nil, Config{NaturalizeUserPrompts: true})
			tr, err := sim.Run(context.Background(), tc)
			require.NoError(t, err)

			assert.Equal(t, tt.wantText, tr[0].Text)
			require.Len(t, tt.client.prompts, 1)
			assert.Contains(t, tt.client.prompts[0], "Calm caller")
			assert.Contains(t, tt.client.prompts[0], "Hello")
		})
	}
}

func TestRenderUserPromptSkipsNoopClient(t *testing.T) {
	tc := newTestCase(t,
		script.TurnExpectation{StepOrder: 1, UserInput: "Hello", ExpectedKeywords: []string{"hi"}},
	)

	sim := NewSimulator(nil, nil, Config{NaturalizeUserPrompts: true})
	tr, err := sim.Run(context.Background(), tc)
	require.NoError(t, err)

	assert.Equal(t, "Hello", tr[0].Text)
}
