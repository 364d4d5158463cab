// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"pagebuilder/internal/apperr"
)

// maxBodyBytes caps request bodies; page trees are JSON documents, not uploads.
const maxBodyBytes = 5 << 20

// Envelope is the shape of every API response.
type Envelope struct {
	Success bool                `json:"success"`
	Data    any                 `json:"data,omitempty"`
	Error   string              `json:"error,omitempty"`
	Errors  []apperr.FieldError `json:"errors,omitempty"`
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeData(w http.ResponseWriter, status int, data any) {
	writeJSON(w, status, Envelope{Success: true, Data: data})
}

// writeError maps err onto the error taxonomy: validation 400, not found
// 404, conflict 409, anything else 500. Unexpected errors are logged and
// not echoed to the client.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case apperr.IsValidation(err):
		writeJSON(w, http.StatusBadRequest, Envelope{Error: "validation failed", Errors: apperr.FieldErrors(err)})
	case apperr.IsNotFound(err):
		writeJSON(w, http.StatusNotFound, Envelope{Error: err.Error()})
	case apperr.IsConflict(err):
		writeJSON(w, http.StatusConflict, Envelope{Error: err.Error()})
	default:
		slog.Error("api request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		writeJSON(w, http.StatusInternalServerError, Envelope{Error: "internal server error"})
	}
}

// decodeJSON reads the request body into v. Malformed bodies come back as a
// validation error so they map to 400.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		msg := "request body must be valid JSON"
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			msg = "request body is too large"
		}
		return apperr.Validation([]apperr.FieldError{{Path: "body", Message: msg}})
	}
	return nil
}
