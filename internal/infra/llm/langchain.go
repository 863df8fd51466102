package llm

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/ollama"
)

const providerLangchain = "langchain"

// langchainChat is the subset of langchaingo's llms.Model used for completions.
type langchainChat interface {
	GenerateContent(ctx context.Context, messages []llms.MessageContent, options ...llms.CallOption) (*llms.ContentResponse, error)
}

// langchainEmbedder is the subset of *ollama.LLM used for embeddings.
type langchainEmbedder interface {
	CreateEmbedding(ctx context.Context, inputTexts []string) ([][]float32, error)
}

// LangchainProvider implements LLMProvider on top of langchaingo's Ollama client.
// langchaingo binds one model per client, so chat and embeddings use two clients.
type LangchainProvider struct {
	baseURL    string
	chatModel  string
	embedModel string
	chat       langchainChat
	embedder   langchainEmbedder
	httpClient *http.Client
}

// NewLangchainProvider builds both langchaingo Ollama clients from cfg.
func NewLangchainProvider(cfg OllamaConfig) (*LangchainProvider, error) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	httpClient := &http.Client{Timeout: timeout}
	baseURL := strings.TrimRight(cfg.BaseURL, "/")

	chat, err := ollama.New(
		ollama.WithServerURL(baseURL),
		ollama.WithModel(cfg.ChatModel),
		ollama.WithHTTPClient(httpClient),
	)
	if err != nil {
		return nil, fmt.Errorf("langchain ollama chat client: %w", err)
	}
	embedder, err := ollama.New(
		ollama.WithServerURL(baseURL),
		ollama.WithModel(cfg.EmbedModel),
		ollama.WithHTTPClient(httpClient),
	)
	if err != nil {
		return nil, fmt.Errorf("langchain ollama embed client: %w", err)
	}

	return &LangchainProvider{
		baseURL:    baseURL,
		chatModel:  cfg.ChatModel,
		embedModel: cfg.EmbedModel,
		chat:       chat,
		embedder:   embedder,
		httpClient: httpClient,
	}, nil
}

// ChatCompletion maps the request onto llms.MessageContent and calls GenerateContent.
func (p *LangchainProvider) ChatCompletion(ctx context.Context, req ChatRequest) (*ChatResponse, error) {
	msgs := make([]llms.MessageContent, len(req.Messages))
	for i, m := range req.Messages {
		msgs[i] = llms.TextParts(chatMessageType(m.Role), m.Content)
	}

	resp, err := p.chat.GenerateContent(ctx, msgs, buildCallOptions(req)...)
	if err != nil {
		return nil, fmt.Errorf("langchain chat: %w", err)
	}
	if resp == nil || len(resp.Choices) == 0 {
		return nil, fmt.Errorf("langchain chat: %w", ErrEmptyChoices)
	}

	choice := resp.Choices[0]
	return &ChatResponse{
		Content:    choice.Content,
		StopReason: choice.StopReason,
		Tokens:     totalTokens(choice.GenerationInfo),
	}, nil
}

// Embed calls CreateEmbedding once for the whole batch.
// The embedding model is fixed at construction; req.Model is ignored.
func (p *LangchainProvider) Embed(ctx context.Context, req EmbedRequest) (*EmbedResponse, error) {
	if len(req.Texts) == 0 {
		return &EmbedResponse{Embeddings: [][]float32{}}, nil
	}
	vecs, err := p.embedder.CreateEmbedding(ctx, req.Texts)
	if err != nil {
		return nil, fmt.Errorf("langchain embed: %w", err)
	}
	return &EmbedResponse{Embeddings: vecs}, nil
}

// ModelInfo returns static metadata for this provider.
func (p *LangchainProvider) ModelInfo() ModelMeta {
	return ModelMeta{
		ID:         p.chatModel,
		EmbedModel: p.embedModel,
		Provider:   providerLangchain,
		Version:    "v1",
		MaxTokens:  4096,
	}
}

// HealthCheck calls GET /api/tags; langchaingo has no ping of its own.
func (p *LangchainProvider) HealthCheck(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+"/api/tags", nil)
	if err != nil {
		return fmt.Errorf("langchain healthcheck: build request: %w", err)
	}
	resp, err := p.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("langchain healthcheck: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("langchain healthcheck: status %d", resp.StatusCode)
	}
	return nil
}

func chatMessageType(role string) llms.ChatMessageType {
	switch role {
	case RoleSystem:
		return llms.ChatMessageTypeSystem
	case RoleAssistant:
		return llms.ChatMessageTypeAI
	default:
		return llms.ChatMessageTypeHuman
	}
}

// buildCallOptions only sets what the request sets. langchaingo still puts
// options.temperature on the wire (0 when unset), unlike OllamaProvider,
// which omits options and leaves the model default in force.
func buildCallOptions(req ChatRequest) []llms.CallOption {
	var opts []llms.CallOption
	if req.Model != "" {
		opts = append(opts, llms.WithModel(req.Model))
	}
	if req.Temperature != 0 {
		opts = append(opts, llms.WithTemperature(float64(req.Temperature)))
	}
	if req.MaxTokens != 0 {
		opts = append(opts, llms.WithMaxTokens(req.MaxTokens))
	}
	return opts
}

// totalTokens reads the token count langchaingo's Ollama client reports, if any.
func totalTokens(info map[string]any) int {
	if n, ok := info["TotalTokens"].(int); ok {
		return n
	}
	return 0
}
