package assistant

import (
	"context"
	"errors"
	"testing"

	"github.com/matiasleandrokruk/ollamalocal/internal/infra/llm"
)

type llmProviderStub struct {
	chatCalls  []llm.ChatRequest
	embedCalls []llm.EmbedRequest
	chatResp   *llm.ChatResponse
	chatErr    error
	embedResp  *llm.EmbedResponse
	embedErr   error
	healthErr  error
}

func (s *llmProviderStub) ChatCompletion(_ context.Context, req llm.ChatRequest) (*llm.ChatResponse, error) {
	s.chatCalls = append(s.chatCalls, req)
	if s.chatErr != nil {
		return nil, s.chatErr
	}
	return s.chatResp, nil
}

func (s *llmProviderStub) Embed(_ context.Context, req llm.EmbedRequest) (*llm.EmbedResponse, error) {
	s.embedCalls = append(s.embedCalls, req)
	if s.embedErr != nil {
		return nil, s.embedErr
	}
	return s.embedResp, nil
}

func (s *llmProviderStub) ModelInfo() llm.ModelMeta {
	return llm.ModelMeta{ID: "llama3.2:3b", EmbedModel: "nomic-embed-text", Provider: "stub"}
}

func (s *llmProviderStub) HealthCheck(_ context.Context) error { return s.healthErr }

func TestComplete_SingleUserTurn(t *testing.T) {
	stub := &llmProviderStub{chatResp: &llm.ChatResponse{Content: "Hello! How can I help you today?"}}
	svc := NewService(stub)

	got, err := svc.Complete(context.Background(), "hello")
	if err != nil {
		t.Fatalf("Complete() error = %v", err)
	}
	if got != "Hello! How can I help you today?" {
		t.Fatalf("Complete() = %q", got)
	}
	if len(stub.chatCalls) != 1 {
		t.Fatalf("expected exactly 1 chat call, got %d", len(stub.chatCalls))
	}
	msgs := stub.chatCalls[0].Messages
	if len(msgs) != 1 || msgs[0].Role != llm.RoleUser || msgs[0].Content != "hello" {
		t.Fatalf("expected one user turn 'hello', got %+v", msgs)
	}
}

func TestComplete_ReturnsContentUnmodified(t *testing.T) {
	raw := "  line one\n\n<b>not escaped</b>  "
	stub := &llmProviderStub{chatResp: &llm.ChatResponse{Content: raw}}

	got, err := NewService(stub).Complete(context.Background(), "x")
	if err != nil {
		t.Fatalf("Complete() error = %v", err)
	}
	if got != raw {
		t.Fatalf("Complete() = %q; want %q", got, raw)
	}
}

func TestComplete_EmptyPrompt_NoCall(t *testing.T) {
	stub := &llmProviderStub{}

	_, err := NewService(stub).Complete(context.Background(), "")
	if !errors.Is(err, ErrEmptyPrompt) {
		t.Fatalf("expected ErrEmptyPrompt, got %v", err)
	}
	if len(stub.chatCalls) != 0 {
		t.Fatalf("expected no provider call, got %d", len(stub.chatCalls))
	}
}

func TestComplete_ProviderError_Wrapped(t *testing.T) {
	boom := errors.New("ollama /api/chat: status 500")
	stub := &llmProviderStub{chatErr: boom}

	_, err := NewService(stub).Complete(context.Background(), "hello")
	if !errors.Is(err, boom) {
		t.Fatalf("expected wrapped provider error, got %v", err)
	}
}

func TestCompleteWith_SystemTurnFirst(t *testing.T) {
	stub := &llmProviderStub{chatResp: &llm.ChatResponse{Content: "ok"}}

	_, err := NewService(stub).CompleteWith(context.Background(), CompleteInput{
		System: "You are a translator.",
		Prompt: "Bonjour",
	})
	if err != nil {
		t.Fatalf("CompleteWith() error = %v", err)
	}
	msgs := stub.chatCalls[0].Messages
	if len(msgs) != 2 {
		t.Fatalf("expected 2 turns, got %d", len(msgs))
	}
	if msgs[0].Role != llm.RoleSystem || msgs[0].Content != "You are a translator." {
		t.Errorf("unexpected system turn: %+v", msgs[0])
	}
	if msgs[1].Role != llm.RoleUser || msgs[1].Content != "Bonjour" {
		t.Errorf("unexpected user turn: %+v", msgs[1])
	}
}

func TestComplete_NoHistoryBetweenCalls(t *testing.T) {
	stub := &llmProviderStub{chatResp: &llm.ChatResponse{Content: "ok"}}
	svc := NewService(stub)

	_, _ = svc.Complete(context.Background(), "first")
	_, _ = svc.Complete(context.Background(), "second")

	if len(stub.chatCalls) != 2 {
		t.Fatalf("expected 2 calls, got %d", len(stub.chatCalls))
	}
	if n := len(stub.chatCalls[1].Messages); n != 1 {
		t.Fatalf("second call should carry 1 turn, got %d", n)
	}
}

func TestEmbed_SingleCall(t *testing.T) {
	stub := &llmProviderStub{embedResp: &llm.EmbedResponse{Embeddings: [][]float32{{0.1, -0.2, 0.3}}}}

	vec, err := NewService(stub).Embed(context.Background(), "I like Go")
	if err != nil {
		t.Fatalf("Embed() error = %v", err)
	}
	if len(stub.embedCalls) != 1 {
		t.Fatalf("expected exactly 1 embed call, got %d", len(stub.embedCalls))
	}
	texts := stub.embedCalls[0].Texts
	if len(texts) != 1 || texts[0] != "I like Go" {
		t.Fatalf("expected texts [I like Go], got %v", texts)
	}
	if len(vec) != 3 {
		t.Fatalf("expected 3 dims, got %d", len(vec))
	}
}

func TestEmbed_EmptyText_PassedThrough(t *testing.T) {
	stub := &llmProviderStub{embedResp: &llm.EmbedResponse{Embeddings: [][]float32{{}}}}

	if _, err := NewService(stub).Embed(context.Background(), ""); err != nil {
		t.Fatalf("Embed() error = %v", err)
	}
	if len(stub.embedCalls) != 1 || stub.embedCalls[0].Texts[0] != "" {
		t.Fatalf("expected one call with empty text, got %+v", stub.embedCalls)
	}
}

func TestEmbed_Errors(t *testing.T) {
	boom := errors.New("down")
	if _, err := NewService(&llmProviderStub{embedErr: boom}).Embed(context.Background(), "x"); !errors.Is(err, boom) {
		t.Errorf("expected wrapped provider error, got %v", err)
	}

	empty := &llmProviderStub{embedResp: &llm.EmbedResponse{}}
	if _, err := NewService(empty).Embed(context.Background(), "x"); !errors.Is(err, ErrNoEmbedding) {
		t.Errorf("expected ErrNoEmbedding, got %v", err)
	}
}

func TestModelAndPing(t *testing.T) {
	boom := errors.New("unreachable")
	svc := NewService(&llmProviderStub{healthErr: boom})

	if svc.Model().Provider != "stub" {
		t.Errorf("unexpected model meta: %+v", svc.Model())
	}
	if err := svc.Ping(context.Background()); !errors.Is(err, boom) {
		t.Errorf("expected health error, got %v", err)
	}
}
