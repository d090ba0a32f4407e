// Package llm provides the narrow text-generation capability consumed by the
// simulator and evaluator, with a deterministic no-op default.
package llm

import "context"

// Client is the single-operation text-generation capability.
type Client interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// NoopClient echoes prompts back for deterministic dry-runs. The simulator
// treats it as "no generation configured" and keeps scripted lines verbatim.
type NoopClient struct{}

var _ Client = NoopClient{}

func (NoopClient) Generate(_ context.Context, prompt string) (string, error) {
	return prompt, nil
}

// IsNoop reports whether the client is the no-op stand-in.
func IsNoop(c Client) bool {
	switch c.(type) {
	case NoopClient, *NoopClient:
		return true
	default:
		return false
	}
}
