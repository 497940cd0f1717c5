package httpserver

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/dmitrijs2005/authkeeper/internal/logging"
)

type errorBody struct {
	Error string `json:"error"`
}

func writeJSON(ctx context.Context, logger logging.Logger, w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Warn(ctx, "write response", "error", err)
	}
}

func writeError(ctx context.Context, logger logging.Logger, w http.ResponseWriter, status int, msg string) {
	writeJSON(ctx, logger, w, status, errorBody{Error: msg})
}

// decodeJSON reads a single JSON object from the request body.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	return json.NewDecoder(r.Body).Decode(v)
}

const maxBodyBytes = 1 << 20
