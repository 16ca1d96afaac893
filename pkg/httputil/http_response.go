package httputil

import (
	"net/http"
	"strings"

	"github.com/bytedance/sonic"
)

type ErrorResponse struct {
	Code    int      `json:"code"`
	Message string   `json:"message"`
	Details []string `json:"details,omitempty"`
}

// WriteErrorResponse answers with ErrorResponse. Every line of details
// (errors.Join output has one per joined error) becomes one Details entry.
func WriteErrorResponse(w http.ResponseWriter, statusCode int, message string, details error) {
	resp := ErrorResponse{
		Code:    statusCode,
		Message: message,
	}
	if details != nil {
		for _, line := range strings.Split(details.Error(), "\n") {
			if line = strings.TrimSpace(line); line != "" {
				resp.Details = append(resp.Details, line)
			}
		}
	}
	WriteJSONResponse(w, statusCode, resp)
}

func WriteJSONResponse(w http.ResponseWriter, statusCode int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if body != nil {
		_ = sonic.ConfigDefault.NewEncoder(w).Encode(body)
	}
}
