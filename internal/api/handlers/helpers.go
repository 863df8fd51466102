// Shared handler helpers: response headers and JSON error bodies.
package handlers

import (
	"encoding/json"
	"net/http"
)

const (
	headerContentType = "Content-Type"
	mimeJSON          = "application/json"
	mimeText          = "text/plain; charset=utf-8"
)

// writeError writes {"error": message} with the given status.
func writeError(w http.ResponseWriter, statusCode int, message string) {
	w.Header().Set(headerContentType, mimeJSON)
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(map[string]string{"error": message}); err != nil {
		http.Error(w, `{"error":"failed to encode error response"}`, http.StatusInternalServerError)
	}
}

// writeJSON writes v as JSON with the given status.
func writeJSON(w http.ResponseWriter, statusCode int, v any) {
	w.Header().Set(headerContentType, mimeJSON)
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(v)
}
