package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/werunom/vscode-spell-checker/internal/host"
	"github.com/werunom/vscode-spell-checker/internal/logging"
	"github.com/werunom/vscode-spell-checker/internal/settings"
)

// ErrorResponse represents an API error response.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains error details.
type ErrorDetail struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

// Error codes
const (
	ErrCodeInvalidRequest  = "INVALID_REQUEST"
	ErrCodeNotFound        = "NOT_FOUND"
	ErrCodeInvalidSettings = "INVALID_SETTINGS"
	ErrCodeInternalError   = "INTERNAL_ERROR"
)

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// writeError writes an error response.
func writeError(w http.ResponseWriter, status int, code, message string) {
	writeErrorWithDetails(w, status, code, message, nil)
}

// writeErrorWithDetails writes an error response with details.
func writeErrorWithDetails(w http.ResponseWriter, status int, code, message string, details map[string]any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(ErrorResponse{
		Error: ErrorDetail{
			Code:    code,
			Message: message,
			Details: details,
		},
	})
}

// writeResolutionError maps a resolution failure to a response.
func writeResolutionError(w http.ResponseWriter, uri string, err error) {
	details := map[string]any{"uri": uri}
	switch {
	case settings.IsParseError(err):
		writeErrorWithDetails(w, http.StatusUnprocessableEntity, ErrCodeInvalidSettings, err.Error(), details)
	case errors.Is(err, host.ErrNoFolder):
		writeErrorWithDetails(w, http.StatusNotFound, ErrCodeNotFound, err.Error(), details)
	default:
		logging.Error().Err(err).Str("uri", uri).Msg("settings request failed")
		writeErrorWithDetails(w, http.StatusInternalServerError, ErrCodeInternalError, err.Error(), details)
	}
}

// writeSuccess writes a success response.
func writeSuccess(w http.ResponseWriter) {
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}
