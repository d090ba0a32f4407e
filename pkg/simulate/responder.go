package simulate

import (
	"context"

	"github.com/convocheck/convocheck/pkg/script"
)

// Responder produces the counterpart's reply to a rendered user line. Real
// implementations bridge to a live voice agent; the default echoes the
// expected keywords so a well-formed script always passes.
type Responder interface {
	Respond(ctx context.Context, userText string, turn *script.TurnExpectation) (string, error)
}

// KeywordResponder returns the space-joined expected keywords as the agent
// reply, ignoring the rendered user text.
type KeywordResponder struct{}

var _ Responder = KeywordResponder{}

func (KeywordResponder) Respond(_ context.Context, _ string, turn *script.TurnExpectation) (string, error) {
	return turn.JoinedKeywords(), nil
}
