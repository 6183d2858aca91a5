// Package httputil holds the JSON response helpers shared by handlers.
package httputil

import (
	"encoding/json"
	"net/http"
)

// ErrorResponse is the body written for every failed request.
type ErrorResponse struct {
	Error       string `json:"error"`
	Description string `json:"error_description,omitempty"`
}

// WriteJSON writes v as a JSON body with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError writes an error body. Descriptions are omitted for internal
// errors so storage details do not leak to clients.
func WriteError(w http.ResponseWriter, status int, code, description string) {
	resp := ErrorResponse{Error: code}
	if status != http.StatusInternalServerError {
		resp.Description = description
	}
	WriteJSON(w, status, resp)
}
