package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/rs/zerolog/log"
)

// maxBodyBytes bounds request bodies; every request type here is a handful of fields.
const maxBodyBytes = 1 << 20

// respondJSON sends a JSON response with the given status code
func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			log.Error().Err(err).Msg("Failed to encode JSON")
		}
	}
}

// parseJSON decodes the request body into T, rejecting unknown fields and trailing data.
func parseJSON[T any](r *http.Request) (T, error) {
	var req T

	dec := json.NewDecoder(http.MaxBytesReader(nil, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()

	if err := dec.Decode(&req); err != nil {
		return req, err
	}
	if dec.More() {
		return req, fmt.Errorf("unexpected data after JSON body")
	}
	return req, nil
}
