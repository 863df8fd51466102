package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	mimeJSON          = "application/json"
	headerContentType = "Content-Type"

	providerOllama = "ollama"

	// DefaultTimeout bounds one round trip to the runtime.
	DefaultTimeout = 120 * time.Second
)

// OllamaConfig configures an OllamaProvider.
type OllamaConfig struct {
	BaseURL    string
	ChatModel  string
	EmbedModel string
	Timeout    time.Duration
}

// OllamaProvider talks to the Ollama REST API directly: /api/chat with
// stream=false, /api/embeddings one text at a time, and /api/tags as a ping.
type OllamaProvider struct {
	baseURL    string
	chatModel  string
	embedModel string
	httpClient *http.Client
}

// NewOllamaProvider creates an OllamaProvider. A zero Timeout means DefaultTimeout.
func NewOllamaProvider(cfg OllamaConfig) *OllamaProvider {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &OllamaProvider{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		chatModel:  cfg.ChatModel,
		embedModel: cfg.EmbedModel,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Ollama request and response bodies, limited to the fields this adapter uses.

type ollamaEmbedRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
}

type ollamaEmbedResponse struct {
	Embedding []float32 `json:"embedding"`
}

type ollamaChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ollamaChatRequest struct {
	Model    string              `json:"model"`
	Messages []ollamaChatMessage `json:"messages"`
	Stream   bool                `json:"stream"` // always false
	Options  map[string]any      `json:"options,omitempty"`
}

type ollamaChatResponse struct {
	Message         ollamaChatMessage `json:"message"`
	DoneReason      string            `json:"done_reason"`
	Done            bool              `json:"done"`
	PromptEvalCount int               `json:"prompt_eval_count"`
	EvalCount       int               `json:"eval_count"`
}

// Embed posts one /api/embeddings request per text, in order.
func (p *OllamaProvider) Embed(ctx context.Context, req EmbedRequest) (*EmbedResponse, error) {
	if len(req.Texts) == 0 {
		return &EmbedResponse{Embeddings: [][]float32{}}, nil
	}

	model := req.Model
	if model == "" {
		model = p.embedModel
	}

	embeddings := make([][]float32, 0, len(req.Texts))
	for _, text := range req.Texts {
		vec, err := p.embedOne(ctx, model, text)
		if err != nil {
			return nil, fmt.Errorf("ollama embed: %w", err)
		}
		embeddings = append(embeddings, vec)
	}
	return &EmbedResponse{Embeddings: embeddings}, nil
}

func (p *OllamaProvider) embedOne(ctx context.Context, model, text string) ([]float32, error) {
	var out ollamaEmbedResponse
	if err := p.postJSON(ctx, "/api/embeddings", ollamaEmbedRequest{Model: model, Prompt: text}, &out); err != nil {
		return nil, err
	}
	return out.Embedding, nil
}

// ChatCompletion sends the whole conversation in one non-streaming call.
// Tokens is prompt plus generated tokens as counted by the runtime.
func (p *OllamaProvider) ChatCompletion(ctx context.Context, req ChatRequest) (*ChatResponse, error) {
	model := req.Model
	if model == "" {
		model = p.chatModel
	}

	msgs := make([]ollamaChatMessage, len(req.Messages))
	for i, m := range req.Messages {
		msgs[i] = ollamaChatMessage(m)
	}

	var out ollamaChatResponse
	err := p.postJSON(ctx, "/api/chat", ollamaChatRequest{
		Model:    model,
		Messages: msgs,
		Options:  buildChatOptions(req),
	}, &out)
	if err != nil {
		return nil, err
	}
	return &ChatResponse{
		Content:    out.Message.Content,
		StopReason: out.DoneReason,
		Tokens:     out.PromptEvalCount + out.EvalCount,
	}, nil
}

// buildChatOptions leaves unset fields out so the model's own defaults apply.
func buildChatOptions(req ChatRequest) map[string]any {
	opts := map[string]any{}
	if req.Temperature != 0 {
		opts["temperature"] = req.Temperature
	}
	if req.MaxTokens != 0 {
		opts["num_predict"] = req.MaxTokens
	}
	if len(opts) == 0 {
		return nil
	}
	return opts
}

func (p *OllamaProvider) ModelInfo() ModelMeta {
	return ModelMeta{
		ID:         p.chatModel,
		EmbedModel: p.embedModel,
		Provider:   providerOllama,
		Version:    "v1",
		MaxTokens:  4096,
	}
}

// HealthCheck reports whether /api/tags answers 200.
func (p *OllamaProvider) HealthCheck(ctx context.Context) error {
	resp, err := p.do(ctx, http.MethodGet, "/api/tags", nil)
	if err != nil {
		return fmt.Errorf("ollama healthcheck: %w", err)
	}
	resp.Body.Close() //nolint:errcheck
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("ollama healthcheck: status %d", resp.StatusCode)
	}
	return nil
}

// postJSON encodes in, posts it to path and decodes a 2xx body into out.
func (p *OllamaProvider) postJSON(ctx context.Context, path string, in, out any) error {
	body, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("ollama %s: encode: %w", path, err)
	}
	resp, err := p.do(ctx, http.MethodPost, path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("ollama %s: %w", path, err)
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("ollama %s: status %d", path, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("ollama %s: decode: %w", path, err)
	}
	return nil
}

func (p *OllamaProvider) do(ctx context.Context, method, path string, body io.Reader) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, p.baseURL+path, body)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set(headerContentType, mimeJSON)
	}
	return p.httpClient.Do(req)
}
