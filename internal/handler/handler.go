package handler

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"dosadelight/internal/model"

	"github.com/rs/zerolog"
)

// maxBodyBytes caps submission bodies.
const maxBodyBytes = 1 << 20

// requestIDHeader carries the correlation ID set by the RequestID middleware.
const requestIDHeader = "X-Request-ID"

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		// Log the error but don't expose it to the client
		return
	}
}

// writeError writes a list-endpoint error envelope with the given status code.
func writeError(w http.ResponseWriter, r *http.Request, status int, message string, err error, logger zerolog.Logger) {
	logFailure(r, status, message, err, logger)
	writeJSON(w, status, model.ErrorResponse{Error: message})
}

// logFailure records a failed request with its correlation ID.
func logFailure(r *http.Request, status int, message string, err error, logger zerolog.Logger) {
	event := logger.Error()
	if status < http.StatusInternalServerError {
		event = logger.Warn()
	}
	event.
		Err(err).
		Str("request_id", r.Header.Get(requestIDHeader)).
		Str("error", message).
		Int("status", status).
		Msg("handler error")
}

// readDocument decodes the request body into a schema-free document.
func readDocument(w http.ResponseWriter, r *http.Request) (model.Document, error) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read request body: %w", err)
	}
	return model.ParseDocument(body)
}
