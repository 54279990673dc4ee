// Package ollama implements the completion backend for a local or tunneled
// Ollama server.
package ollama

import (
	"context"
	"encoding/base64"
	"fmt"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/ollama"

	"recscan/internal/config"
	"recscan/internal/port"
)

const defaultHost = "http://localhost:11434"

// Low temperature keeps extractions deterministic; receipts are not a
// creative-writing task.
const temperature = 0.1

// Backend implements port.CompletionBackend using Ollama.
type Backend struct {
	llm   *ollama.LLM
	model string
}

// NewBackend creates an Ollama-based completion backend.
func NewBackend(cfg *config.ExtractorConfig) (port.CompletionBackend, error) {
	host := cfg.Host
	if host == "" {
		host = defaultHost
	}
	model := cfg.DefaultModel
	if model == "" {
		model = "mistral"
	}
	llm, err := ollama.New(
		ollama.WithServerURL(host),
		ollama.WithModel(model),
	)
	if err != nil {
		return nil, fmt.Errorf("creating ollama client: %w", err)
	}
	return &Backend{llm: llm, model: model}, nil
}

func (b *Backend) Complete(ctx context.Context, input port.CompletionInput) (string, error) {
	parts := []llms.ContentPart{}
	if input.ImageBase64 != "" {
		img, err := base64.StdEncoding.DecodeString(input.ImageBase64)
		if err != nil {
			return "", fmt.Errorf("decoding image payload: %w", err)
		}
		parts = append(parts, llms.BinaryPart("image/jpeg", img))
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
		return "", fmt.Errorf("calling ollama: %w", err)
	}
	if len(completion.Choices) == 0 {
		return "", fmt.Errorf("empty response from ollama: no choices")
	}
	return completion.Choices[0].Content, nil
}

func (b *Backend) ModelName() string {
	return b.model
}
