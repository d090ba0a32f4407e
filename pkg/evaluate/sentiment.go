package evaluate

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/convocheck/convocheck/pkg/llm"
	"github.com/convocheck/convocheck/pkg/transcript"
)

// ErrSentimentUnavailable marks a sentiment judge capability failure.
var ErrSentimentUnavailable = errors.New("sentiment judge unavailable")

// SentimentJudge produces a free-text tone verdict for a transcript. The
// returned summary must begin with "Pass:" or "Fail:" (case-insensitive).
type SentimentJudge interface {
	Summarize(ctx context.Context, tr transcript.Transcript) (string, error)
}

// negativeMarkers flag a frustrated or refusal tone in agent replies.
var negativeMarkers = []string{"angry", "upset", "refund", "complain"}

// RuleBasedJudge is the heuristic summarizer used when no generation
// capability is configured.
type RuleBasedJudge struct{}

var _ SentimentJudge = RuleBasedJudge{}

func (RuleBasedJudge) Summarize(_ context.Context, tr transcript.Transcript) (string, error) {
	agentLines := tr.AgentLines()
	if len(agentLines) == 0 {
		return "Fail: agent never responded.", nil
	}

	joined := strings.ToLower(strings.Join(agentLines, " "))
	for _, marker := range negativeMarkers {
		if strings.Contains(joined, marker) {
			return "Fail: agent tone suggested frustration or refusal.", nil
		}
	}

	return "Pass: agent maintained neutral or helpful tone.", nil
}

// LLMJudge delegates the verdict to a configured generation capability.
type LLMJudge struct {
	client llm.Client
}

var _ SentimentJudge = &LLMJudge{}

func NewLLMJudge(client llm.Client) (*LLMJudge, error) {
	if client == nil {
		return nil, fmt.Errorf("llm client cannot be nil")
	}

	return &LLMJudge{client: client}, nil
}

func (j *LLMJudge) Summarize(ctx context.Context, tr transcript.Transcript) (string, error) {
	// An empty transcript is a hard fail; never spend a capability call on it.
	if tr.IsEmpty() {
		return "Fail: empty transcript.", nil
	}

	prompt, err := BuildJudgePrompt(JudgePromptData{Transcript: tr.Render()})
	if err != nil {
		return "", fmt.Errorf("failed to build judge prompt: %w", err)
	}

	summary, err := j.client.Generate(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrSentimentUnavailable, err)
	}

	return strings.TrimSpace(summary), nil
}
