// Package httpx carries the HTTP plumbing shared by signet handlers:
// JSON responses, a middleware chain, bearer-token authentication and
// per-key rate limiting.
package httpx

import (
	"encoding/json"
	"net/http"
)

// ErrorResponse is the JSON error envelope every endpoint speaks.
type ErrorResponse struct {
	Error       string `json:"error"`
	Description string `json:"error_description,omitempty"`
}

// WriteJSON writes v as a JSON response with the given status code. Token
// responses must never be cached, so it sets the no-store headers too.
func WriteJSON(w http.ResponseWriter, code int, v any) {
	NoCache(w)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError writes the standard error envelope.
func WriteError(w http.ResponseWriter, code int, name, description string) {
	WriteJSON(w, code, ErrorResponse{Error: name, Description: description})
}

// NoCache sets the Cache-Control and Pragma headers to prevent caching.
func NoCache(w http.ResponseWriter) {
	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("Pragma", "no-cache")
}
