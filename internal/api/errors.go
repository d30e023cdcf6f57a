package api

import (
	"encoding/json"
	"net/http"
)

// APIError is the client-facing error shape. Storage-level detail never
// travels through it; provisioning failures are logged server-side and
// reported here only as an opaque internal error.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Key     string `json:"key,omitempty"`
}

type ErrorResponse struct {
	Success bool     `json:"success"`
	Error   APIError `json:"error"`
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(ErrorResponse{Success: false, Error: APIError{Code: code, Message: message}})
}

func writeFieldMissing(w http.ResponseWriter, key string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusBadRequest)
	json.NewEncoder(w).Encode(ErrorResponse{Success: false, Error: APIError{
		Code:    "field_missing",
		Message: "Required field is missing: " + key,
		Key:     key,
	}})
}

func writeInternalError(w http.ResponseWriter) {
	writeError(w, http.StatusInternalServerError, "internal_server_error", "Internal server error")
}
