package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"
	"github.com/openai/openai-go/v2/shared"
)

type openaiClient struct {
	client *openai.Client
	model  shared.ChatModel
}

var _ Client = &openaiClient{}

// NewOpenAIClient creates a client backed by an OpenAI-compatible chat
// completions endpoint.
func NewOpenAIClient(baseURL, apiKey, model string) (Client, error) {
	if baseURL == "" || apiKey == "" {
		return nil, fmt.Errorf("both url and API key must be provided to create an openai client")
	}

	var chatModel shared.ChatModel
	if model == "" {
		chatModel = openai.ChatModelGPT4 // default model
	} else {
		chatModel = shared.ChatModel(model)
	}

	client := openai.NewClient(
		option.WithBaseURL(baseURL),
		option.WithAPIKey(apiKey),
	)

	return &openaiClient{
		client: &client,
		model:  chatModel,
	}, nil
}

func (c *openaiClient) Generate(ctx context.Context, prompt string) (string, error) {
	completion, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: c.model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
	})
	if err != nil {
		return "", fmt.Errorf("failed to create chat completion: %w", err)
	}

	if len(completion.Choices) == 0 {
		return "", fmt.Errorf("no completion choices returned")
	}

	return strings.TrimSpace(completion.Choices[0].Message.Content), nil
}
