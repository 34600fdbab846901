package utils

import (
	"encoding/json"
	"net/http"
)

const (
	// Request error codes
	ErrRequestInvalid           = "request/invalid_parameters"
	ErrRequestNotFound          = "request/not_found"
	ErrRequestRateLimitExceeded = "request/rate_limit_exceeded"
	ErrRequestBodyTooLarge      = "request/body_too_large"

	// Auth error codes
	ErrAuthRequired        = "auth/authentication_required"
	ErrAuthInvalid         = "auth/invalid_credentials"
	ErrAuthRateLimitExceed = "auth/rate_limit_exceeded"

	// Validation & resource error codes
	ErrValidationFailed = "validation/invalid_input"
	ErrResourceNotFound = "resource/not_found"
	ErrResourceConflict = "resource/conflict"

	// Image & server error codes
	ErrImageDecodeFailed = "image/decode_failed"
	ErrServerInternal    = "server/internal_error"
)

type APIError struct {
	Code    string `json:"code"`    // e.g., "request/invalid_parameters"
	Message string `json:"message"` // User-friendly message
	Status  int    `json:"status"`  // HTTP status code
}

// WriteError sends a JSON formatted error response.
func WriteError(w http.ResponseWriter, status int, code string, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(APIError{
		Code:    code,
		Message: message,
		Status:  status,
	})
}

func WriteJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
