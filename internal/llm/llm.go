// Package llm answers free-form questions through an OpenAI-compatible chat
// completion endpoint (Ollama by default).
package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	llmsdk "github.com/hoangvvo/llm-sdk/sdk-go"
	"github.com/hoangvvo/llm-sdk/sdk-go/openai"
)

const (
	DefaultBaseURL = "http://localhost:11434/v1"
	DefaultModel   = "llama2"
)

// SystemPrompt frames every fallback answer.
const SystemPrompt = "You are a cryptocurrency expert. Answer questions about cryptocurrencies, " +
	"blockchain technology and digital asset markets clearly and accurately."

var ErrEmptyResponse = errors.New("language model returned no text")

// Generator is the part of llmsdk.LanguageModel the assistant needs.
type Generator interface {
	Generate(ctx context.Context, input *llmsdk.LanguageModelInput) (*llmsdk.ModelResponse, error)
}

type Options struct {
	BaseURL string
	Model   string
	APIKey  string
}

// NewModel builds a chat-completions model. Ollama ignores the API key but
// the header must be present.
func NewModel(opts Options) *openai.OpenAIChatModel {
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	if opts.Model == "" {
		opts.Model = DefaultModel
	}
	if opts.APIKey == "" {
		opts.APIKey = "ollama"
	}
	return openai.NewOpenAIChatModel(opts.Model, openai.OpenAIChatModelOptions{
		BaseURL: strings.TrimRight(opts.BaseURL, "/"),
		APIKey:  opts.APIKey,
	})
}

type Assistant struct {
	model Generator
}

func NewAssistant(model Generator) *Assistant {
	return &Assistant{model: model}
}

// Ask sends only the system prompt and query; earlier turns are not replayed.
func (a *Assistant) Ask(ctx context.Context, query string) (string, error) {
	system := SystemPrompt
	resp, err := a.model.Generate(ctx, &llmsdk.LanguageModelInput{
		SystemPrompt: &system,
		Messages: []llmsdk.Message{
			llmsdk.NewUserMessage(llmsdk.NewTextPart(query)),
		},
	})
	if err != nil {
		return "", fmt.Errorf("language model: %w", err)
	}

	var sb strings.Builder
	for _, part := range resp.Content {
		if part.TextPart != nil {
			sb.WriteString(part.TextPart.Text)
		}
	}
	if sb.Len() == 0 {
		return "", ErrEmptyResponse
	}
	return sb.String(), nil
}
