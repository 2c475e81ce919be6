package utils

import (
	"encoding/json"
	"net/http"
)

// Reason codes carried in APIResponse.Code so clients can branch without
// parsing messages.
const (
	CodeUnauthorized      = "unauthorized"
	CodeInvalidState      = "invalid_state"
	CodeValidationError   = "validation_error"
	CodeConflict          = "conflict"
	CodeNotFound          = "not_found"
	CodeInsufficientFunds = "insufficient_funds"
	CodeNoWallet          = "no_wallet"
	CodeExternalFailure   = "external_failure"
)

type APIResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Code    string      `json:"code,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

func WriteJSON(w http.ResponseWriter, status int, resp APIResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(resp)
}

// GetStringValue returns the value of a nullable string pointer or empty string if nil
func GetStringValue(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
