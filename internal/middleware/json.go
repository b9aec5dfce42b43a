package middleware

import (
	"encoding/json"
	"net/http"

	"go-membership-api/internal/model"
)

// writeEnvelope renders a failure before any handler has run.
func writeEnvelope(w http.ResponseWriter, status int, code int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(model.APIResponse{
		Code:    code,
		Status:  false,
		Message: message,
	})
}
