// Package handlers provides JSON response helpers shared by HTTP handlers.
package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// Message is the JSON body written for every error response.
type Message struct {
	Message string `json:"message"`
}

// RespondJSON writes data as a JSON body with the given status code.
func RespondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// RespondMessage writes a {"message": ...} body with the given status code.
func RespondMessage(w http.ResponseWriter, status int, message string) {
	RespondJSON(w, status, Message{Message: message})
}

// RespondError logs err against the request context and writes message to
// the client. The error text is never sent to the caller; only the public
// message is.
func RespondError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, status int, message string, err error) {
	logger.ErrorContext(
		r.Context(), "request failed",
		"method", r.Method,
		"path", r.URL.Path,
		"status", status,
		"error", err,
	)
	RespondMessage(w, status, message)
}
