package utils

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/log"
)

// APIError is the JSON error envelope clients switch their messaging on.
type APIError struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// RespondWithJSON writes payload as JSON with the given status.
func RespondWithJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Error().Err(err).Msg("Error encoding JSON response")
	}
}

// SendJSONError writes a bare error message.
func SendJSONError(w http.ResponseWriter, message string, status int) {
	RespondWithJSON(w, status, APIError{Error: message})
}

// SendCodedError writes an error with a machine-readable code so the client
// can pick the matching remediation message.
func SendCodedError(w http.ResponseWriter, message, code string, status int) {
	RespondWithJSON(w, status, APIError{Error: message, Code: code})
}
