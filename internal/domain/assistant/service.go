// Package assistant turns prompts into single-turn completions and texts into
// embeddings. Each call is stateless: no history is kept between calls.
package assistant

import (
	"context"
	"errors"
	"fmt"

	"github.com/matiasleandrokruk/ollamalocal/internal/infra/llm"
)

var (
	// ErrEmptyPrompt is returned when Complete is called with an empty prompt.
	ErrEmptyPrompt = errors.New("prompt is empty")

	// ErrNoEmbedding is returned when the provider answers with no vector.
	ErrNoEmbedding = errors.New("provider returned no embedding")
)

// Service delegates to an llm.LLMProvider fixed at construction.
type Service struct {
	llm llm.LLMProvider
}

// CompleteInput is the input for a completion. System is optional.
type CompleteInput struct {
	System string
	Prompt string
}

func NewService(provider llm.LLMProvider) *Service {
	return &Service{llm: provider}
}

// Complete submits prompt as the sole user turn of a new conversation and
// returns the model's reply unmodified.
func (s *Service) Complete(ctx context.Context, prompt string) (string, error) {
	return s.CompleteWith(ctx, CompleteInput{Prompt: prompt})
}

// CompleteWith is Complete with an optional system turn placed before the user turn.
func (s *Service) CompleteWith(ctx context.Context, in CompleteInput) (string, error) {
	if in.Prompt == "" {
		return "", ErrEmptyPrompt
	}

	msgs := make([]llm.Message, 0, 2)
	if in.System != "" {
		msgs = append(msgs, llm.Message{Role: llm.RoleSystem, Content: in.System})
	}
	msgs = append(msgs, llm.Message{Role: llm.RoleUser, Content: in.Prompt})

	resp, err := s.llm.ChatCompletion(ctx, llm.ChatRequest{Messages: msgs})
	if err != nil {
		return "", fmt.Errorf("complete: %w", err)
	}
	return resp.Content, nil
}

// Embed returns the embedding vector for text. Length and normalization are
// whatever the configured model produces.
func (s *Service) Embed(ctx context.Context, text string) ([]float32, error) {
	resp, err := s.llm.Embed(ctx, llm.EmbedRequest{Texts: []string{text}})
	if err != nil {
		return nil, fmt.Errorf("embed: %w", err)
	}
	if len(resp.Embeddings) == 0 {
		return nil, ErrNoEmbedding
	}
	return resp.Embeddings[0], nil
}

// Model reports the provider identity the service delegates to.
func (s *Service) Model() llm.ModelMeta {
	return s.llm.ModelInfo()
}

// Ping checks that the provider is reachable.
func (s *Service) Ping(ctx context.Context) error {
	return s.llm.HealthCheck(ctx)
}
