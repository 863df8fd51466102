// Route table and chi router setup.
package api

import (
	"log/slog"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matiasleandrokruk/ollamalocal/internal/api/handlers"
	apmiddleware "github.com/matiasleandrokruk/ollamalocal/internal/api/middleware"
)

// Assistant is everything the HTTP surface needs from the domain.
// assistant.Service satisfies this interface.
type Assistant interface {
	handlers.Completer
	handlers.Pinger
}

// NewRouter creates the chi router with every route registered.
// The assistant is bound once here and never swapped.
func NewRouter(assistant Assistant, logger *slog.Logger) (*chi.Mux, error) {
	if assistant == nil {
		return nil, ErrNilAssistant
	}
	if logger == nil {
		logger = slog.Default()
	}

	r := chi.NewRouter()

	// Global middleware (runs on all routes)
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(apmiddleware.RequestLogger(logger))
	r.Use(middleware.Recoverer)

	healthHandler := handlers.NewHealthHandler(assistant, logger)
	aiHandler := handlers.NewAIHandler(assistant, logger)

	r.Get("/health", healthHandler.Live)    // GET /health
	r.Get("/health/llm", healthHandler.LLM) // GET /health/llm
	r.Get("/ai", aiHandler.Generate)        // GET /ai?message={text}

	return r, nil
}
