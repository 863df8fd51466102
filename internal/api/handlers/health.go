package handlers

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/matiasleandrokruk/ollamalocal/internal/infra/llm"
)

// Pinger reports on the model runtime.
// assistant.Service satisfies this interface.
type Pinger interface {
	Ping(ctx context.Context) error
	Model() llm.ModelMeta
}

type HealthHandler struct {
	pinger Pinger
	logger *slog.Logger
}

func NewHealthHandler(pinger Pinger, logger *slog.Logger) *HealthHandler {
	return &HealthHandler{pinger: pinger, logger: logger}
}

// Live handles GET /health. It never touches the runtime.
func (h *HealthHandler) Live(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// LLM handles GET /health/llm.
func (h *HealthHandler) LLM(w http.ResponseWriter, r *http.Request) {
	if err := h.pinger.Ping(r.Context()); err != nil {
		h.logger.Warn("llm_unavailable", "error", err)
		writeError(w, http.StatusServiceUnavailable, "llm unavailable")
		return
	}
	meta := h.pinger.Model()
	writeJSON(w, http.StatusOK, map[string]string{
		"status":   "ok",
		"provider": meta.Provider,
		"model":    meta.ID,
	})
}
