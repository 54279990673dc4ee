// Package openai implements the completion backend for OpenAI-compatible
// APIs, including self-hosted routers exposing the same surface.
package openai

import (
	"context"
	"fmt"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"

	"recscan/internal/config"
	"recscan/internal/port"
)

const temperature = 0.1

// Backend implements port.CompletionBackend using the OpenAI chat API.
type Backend struct {
	llm   *openai.LLM
	model string
}

// NewBackend creates an OpenAI-based completion backend.
func NewBackend(cfg *config.ExtractorConfig) (port.CompletionBackend, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("openai API key is not set")
	}
	model := cfg.DefaultModel
	if model == "" {
		model = "gpt-4o-mini"
	}
	opts := []openai.Option{
		openai.WithToken(cfg.APIKey),
		openai.WithModel(model),
	}
	if cfg.Host != "" {
		opts = append(opts, openai.WithBaseURL(cfg.Host))
	}
	llm, err := openai.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("creating openai client: %w", err)
	}
	return &Backend{llm: llm, model: model}, nil
}

func (b *Backend) Complete(ctx context.Context, input port.CompletionInput) (string, error) {
	parts := []llms.ContentPart{}
	if input.ImageBase64 != "" {
		parts = append(parts, llms.ImageURLPart("data:image/jpeg;base64,"+input.ImageBase64))
	}
	parts = append(parts, llms.TextPart(input.Prompt))

	opts := []llms.CallOption{llms.WithTemperature(temperature)}
	if input.Model != "" {
		opts = append(opts, llms.WithModel(input.Model))
	}

	completion, err := b.llm.GenerateContent(ctx, []llms.MessageContent{
		{Role: llms.ChatMessageTypeHuman, Parts: parts},
	}, opts...)
	if err != nil {
		return "", fmt.Errorf("calling openai: %w", err)
	}
	if len(completion.Choices) == 0 {
		return "", fmt.Errorf("empty response from openai: no choices")
	}
	return completion.Choices[0].Content, nil
}

func (b *Backend) ModelName() string {
	return b.model
}
