package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"go.uber.org/zap"
)

// writeJSON takes a response status code and arbitrary data and writes a json response to the client
func writeJSON(w http.ResponseWriter, status int, data any, headers ...http.Header) error {
	out, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}

	if len(headers) > 0 {
		for key, value := range headers[0] {
			w.Header()[key] = value
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, err = w.Write(out)
	if err != nil {
		return fmt.Errorf("failed to write to response: %w", err)
	}

	return nil
}

func respond(w http.ResponseWriter, status int, data any) {
	if err := writeJSON(w, status, data); err != nil {
		logger.Warn("failed to write response", zap.Int("status", status), zap.Error(err))
	}
}

func writeError(w http.ResponseWriter, status int, msg string, details ...ValidationError) {
	respond(w, status, ErrorResponse{Error: msg, Details: details})
}

// queryInt reads an optional integer parameter. A missing parameter yields nil.
func queryInt(q url.Values, key string, errs *[]ValidationError) *int {
	raw := q.Get(key)
	if raw == "" {
		return nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		*errs = append(*errs, ValidationError{Field: key, Description: key + " must be an integer"})
		return nil
	}
	return &n
}
