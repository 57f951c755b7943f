package nlparser

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/ollama"
	"github.com/tmc/langchaingo/schema"

	"github.com/dpinto-lab/chrono/internal/command"
)

const defaultOllamaBaseURL = "http://localhost:11434"

// OllamaParser talks to a local Ollama install via langchaingo, an
// offline-capable backend.
type OllamaParser struct {
	client  *ollama.LLM
	model   string
	baseURL string
}

// NewOllamaParser builds a parser for the given model against baseURL
// (defaults to localhost:11434).
func NewOllamaParser(model, baseURL string) (*OllamaParser, error) {
	if baseURL == "" {
		baseURL = defaultOllamaBaseURL
	}
	client, err := ollama.New(ollama.WithModel(model), ollama.WithServerURL(baseURL))
	if err != nil {
		return nil, fmt.Errorf("nlparser: creating ollama client: %w", err)
	}
	return &OllamaParser{client: client, model: model, baseURL: baseURL}, nil
}

// Parse implements Parser.
func (p *OllamaParser) Parse(ctx context.Context, text string, events []EventContext) ([]command.Command, error) {
	now := time.Now()
	prompt := systemPrompt(now.Format("2006-01-02"), now.Format("Monday"), events)

	resp, err := p.client.GenerateContent(ctx,
		[]llms.MessageContent{
			llms.TextParts(schema.ChatMessageTypeSystem, prompt),
			llms.TextParts(schema.ChatMessageTypeHuman, text),
		},
		llms.WithModel(p.model),
		llms.WithTemperature(0.1),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTransport, err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("%w: no choices returned", ErrUnknown)
	}

	return decodeCommands(resp.Choices[0].Content, text, now)
}

// Ping checks backend reachability, with a short timeout so a down
// backend fails fast.
func Ping(baseURL string) bool {
	if baseURL == "" {
		baseURL = defaultOllamaBaseURL
	}
	client := &http.Client{Timeout: 2 * time.Second}
	resp, err := client.Get(baseURL + "/api/tags")
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}
