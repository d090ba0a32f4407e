// Package simulate walks a test case turn-by-turn, producing a transcript.
// Turns are processed strictly in order because each turn's rendering depends
// on the previous turn's match outcome.
package simulate

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/convocheck/convocheck/pkg/llm"
	"github.com/convocheck/convocheck/pkg/script"
	"github.com/convocheck/convocheck/pkg/transcript"
)

var (
	// ErrGenerationUnavailable marks a text-generation capability failure on
	// a path with no safe scripted fallback.
	ErrGenerationUnavailable = errors.New("generation unavailable")

	// ErrResponseUnavailable marks a response capability failure.
	ErrResponseUnavailable = errors.New("response unavailable")
)

// Config controls optional naturalization of the scripted caller lines.
type Config struct {
	// NaturalizeUserPrompts lets the generation capability paraphrase each
	// scripted line in persona.
	NaturalizeUserPrompts bool `json:"naturalizeUserPrompts,omitempty"`

	// DisfluencyRate is the probability in [0,1] of inserting one filler
	// token into a rendered line. Values outside the range are clamped.
	DisfluencyRate float64 `json:"disfluencyRate,omitempty"`
}

// Simulator drives one conversation per Run call. Independent runs may use
// separate Simulators concurrently; a single Simulator run holds no state
// beyond its own turn loop.
type Simulator struct {
	client    llm.Client
	responder Responder
	cfg       Config
	injector  *disfluencyInjector
}

// Option configures a Simulator beyond its required collaborators.
type Option func(*Simulator)

// WithRand replaces the disfluency random source, typically with a seeded
// generator in tests.
func WithRand(rng *rand.Rand) Option {
	return func(s *Simulator) {
		s.injector = newDisfluencyInjector(s.cfg.DisfluencyRate, rng)
	}
}

// NewSimulator creates a simulator. A nil client defaults to the no-op echo
// client and a nil responder to the keyword echo responder.
func NewSimulator(client llm.Client, responder Responder, cfg Config, opts ...Option) *Simulator {
	if client == nil {
		client = llm.NoopClient{}
	}
	if responder == nil {
		responder = KeywordResponder{}
	}

	s := &Simulator{
		client:    client,
		responder: responder,
		cfg:       cfg,
	}
	s.injector = newDisfluencyInjector(cfg.DisfluencyRate, rand.New(rand.NewSource(time.Now().UnixNano())))

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Run visits every turn in order and returns the transcript: exactly two rows
// per turn, user then agent. Mismatches never abort the run; they only arm a
// steering attempt for the following turn.
func (s *Simulator) Run(ctx context.Context, tc *script.TestCase) (transcript.Transcript, error) {
	tr := make(transcript.Transcript, 0, 2*len(tc.Turns))

	needsSteer := false
	lastAgentResponse := ""

	for i := range tc.Turns {
		turn := &tc.Turns[i]

		userText, err := s.renderUserPrompt(ctx, tc, turn)
		if err != nil {
			return nil, err
		}

		if needsSteer {
			userText, err = s.generateSteerText(ctx, tc, turn, lastAgentResponse)
			if err != nil {
				return nil, err
			}
		}

		userText = s.injector.Inject(userText)
		tr = append(tr, transcript.Row{
			Speaker:   transcript.SpeakerUser,
			Text:      userText,
			StepOrder: turn.StepOrder,
		})

		agentResponse, err := s.responder.Respond(ctx, userText, turn)
		if err != nil {
			return nil, fmt.Errorf("%w: step %d: %v", ErrResponseUnavailable, turn.StepOrder, err)
		}
		tr = append(tr, transcript.Row{
			Speaker:   transcript.SpeakerAgent,
			Text:      agentResponse,
			StepOrder: turn.StepOrder,
		})

		needsSteer = !turn.MatchesResponse(agentResponse)
		lastAgentResponse = agentResponse
	}

	return tr, nil
}

// renderUserPrompt returns the scripted line, optionally paraphrased in
// persona. A failed or empty paraphrase falls back to the scripted line.
func (s *Simulator) renderUserPrompt(ctx context.Context, tc *script.TestCase, turn *script.TurnExpectation) (string, error) {
	if !s.cfg.NaturalizeUserPrompts || llm.IsNoop(s.client) {
		return turn.UserInput, nil
	}

	prompt, err := BuildParaphrasePrompt(ParaphrasePromptData{
		Persona:   tc.Persona,
		UserInput: turn.UserInput,
	})
	if err != nil {
		return "", fmt.Errorf("failed to build paraphrase prompt: %w", err)
	}

	candidate, err := s.client.Generate(ctx, prompt)
	if err != nil || candidate == "" {
		return turn.UserInput, nil
	}

	return candidate, nil
}

// generateSteerText asks the generation capability for a short redirect
// toward the scripted line. Unlike paraphrasing there is no scripted
// fallback, so a capability failure propagates.
func (s *Simulator) generateSteerText(ctx context.Context, tc *script.TestCase, turn *script.TurnExpectation, lastAgentResponse string) (string, error) {
	prompt, err := BuildSteerPrompt(SteerPromptData{
		Persona:           tc.Persona,
		UserInput:         turn.UserInput,
		LastAgentResponse: lastAgentResponse,
	})
	if err != nil {
		return "", fmt.Errorf("failed to build steer prompt: %w", err)
	}

	steered, err := s.client.Generate(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("%w: step %d: %v", ErrGenerationUnavailable, turn.StepOrder, err)
	}

	return steered, nil
}
