package httpapi

import (
	"encoding/json"
	"net/http"
)

// ErrorBody is the uniform error envelope: success is always false, error
// repeats the HTTP status code and message is a short human-readable reason.
type ErrorBody struct {
	Success bool   `json:"success"`
	Error   int    `json:"error"`
	Message string `json:"message"`
}

// JSON writes payload as a JSON response with the given status code.
func JSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// Error writes the uniform error envelope for the given status.
func Error(w http.ResponseWriter, status int, message string) {
	JSON(w, status, ErrorBody{Success: false, Error: status, Message: message})
}
