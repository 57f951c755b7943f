package nlparser

import (
	"context"
	"fmt"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/dpinto-lab/chrono/internal/command"
)

// OpenAIParser talks to any OpenAI-compatible chat-completions endpoint
// (the hosted API, or a local server like LM Studio that speaks the same
// wire protocol) — the only difference between those deployments is the
// base URL and API key.
type OpenAIParser struct {
	client openai.Client
	model  string
}

// NewOpenAIParser builds a parser against baseURL using apiKey. An empty
// baseURL targets the hosted OpenAI API.
func NewOpenAIParser(model, apiKey, baseURL string) *OpenAIParser {
	opts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	return &OpenAIParser{client: openai.NewClient(opts...), model: model}
}

// Parse implements Parser.
func (p *OpenAIParser) Parse(ctx context.Context, text string, events []EventContext) ([]command.Command, error) {
	now := time.Now()
	prompt := systemPrompt(now.Format("2006-01-02"), now.Format("Monday"), events)

	resp, err := p.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: p.model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(prompt),
			openai.UserMessage(text),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTransport, err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("%w: no choices returned", ErrUnknown)
	}

	return decodeCommands(resp.Choices[0].Message.Content, text, now)
}
