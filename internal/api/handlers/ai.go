package handlers

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
)

// Completer is the contract GET /ai depends on.
// assistant.Service satisfies this interface.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// AIHandler forwards a prompt to the completion collaborator.
type AIHandler struct {
	completer Completer
	logger    *slog.Logger
}

func NewAIHandler(completer Completer, logger *slog.Logger) *AIHandler {
	return &AIHandler{completer: completer, logger: logger}
}

// Generate handles GET /ai?message={text}.
// A missing or empty message is rejected before the collaborator is called.
// The completion is written as the plain-text body, byte for byte.
func (h *AIHandler) Generate(w http.ResponseWriter, r *http.Request) {
	message := r.URL.Query().Get("message")
	if message == "" {
		writeError(w, http.StatusBadRequest, "message is required")
		return
	}

	text, err := h.completer.Complete(r.Context(), message)
	if err != nil {
		h.logger.Error("completion_failed",
			"request_id", middleware.GetReqID(r.Context()),
			"error", err,
		)
		writeError(w, http.StatusInternalServerError, "completion failed")
		return
	}

	w.Header().Set(headerContentType, mimeText)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(text))
}
