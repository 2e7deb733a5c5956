package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/andeshop/storefront-go/internal/upstream"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{
		"error": msg,
	})
}

// writeUpstreamError maps an upstream failure onto our response: client
// errors pass through with their extracted message, anything else is a 502.
func writeUpstreamError(w http.ResponseWriter, err error, fallback string) {
	var apiErr *upstream.APIError
	if errors.As(err, &apiErr) {
		status := http.StatusBadGateway
		if apiErr.Status >= 400 && apiErr.Status < 500 {
			status = apiErr.Status
		}
		writeError(w, status, apiErr.Message)
		return
	}
	writeError(w, http.StatusBadGateway, fallback)
}
