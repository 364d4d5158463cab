// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package middleware

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"pagebuilder/internal/handlers"
)

// captureRequests swaps the default logger for a JSON one and returns the
// "http request" records written while the test runs.
func captureRequests(t *testing.T) func() []map[string]any {
	t.Helper()
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	t.Cleanup(func() { slog.SetDefault(prev) })

	return func() []map[string]any {
		var out []map[string]any
		for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
			if line == "" {
				continue
			}
			var rec map[string]any
			if err := json.Unmarshal([]byte(line), &rec); err != nil {
				t.Fatalf("log line %q: %v", line, err)
			}
			if rec["msg"] == "http request" {
				out = append(out, rec)
			}
		}
		return out
	}
}

func envelope(w http.ResponseWriter, status int, env handlers.Envelope) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(env)
}

func TestLoggerRecordsAPIResponses(t *testing.T) {
	tests := []struct {
		name      string
		method    string
		path      string
		handler   http.HandlerFunc
		wantCode  int
		wantLevel string
	}{
		{
			name:   "page created",
			method: http.MethodPost,
			path:   "/api/pages",
			handler: func(w http.ResponseWriter, r *http.Request) {
				envelope(w, http.StatusCreated, handlers.Envelope{Success: true, Data: map[string]string{"id": "p1", "slug": "home"}})
			},
			wantCode:  http.StatusCreated,
			wantLevel: "INFO",
		},
		{
			name:   "unknown page",
			method: http.MethodGet,
			path:   "/api/pages/missing",
			handler: func(w http.ResponseWriter, r *http.Request) {
				envelope(w, http.StatusNotFound, handlers.Envelope{Error: `page "missing" not found`})
			},
			wantCode:  http.StatusNotFound,
			wantLevel: "INFO",
		},
		{
			name:   "store failure",
			method: http.MethodPut,
			path:   "/api/pages/p1",
			handler: func(w http.ResponseWriter, r *http.Request) {
				envelope(w, http.StatusInternalServerError, handlers.Envelope{Error: "internal server error"})
			},
			wantCode:  http.StatusInternalServerError,
			wantLevel: "WARN",
		},
		{
			name:   "body without explicit status",
			method: http.MethodGet,
			path:   "/api/components",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`{"success":true,"data":[]}`))
			},
			wantCode:  http.StatusOK,
			wantLevel: "INFO",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			records := captureRequests(t)

			req := httptest.NewRequest(tt.method, tt.path, nil)
			rr := httptest.NewRecorder()
			Logger(tt.handler).ServeHTTP(rr, req)

			if rr.Code != tt.wantCode {
				t.Errorf("status: got %d, want %d", rr.Code, tt.wantCode)
			}

			recs := records()
			if len(recs) != 1 {
				t.Fatalf("expected one request record, got %d", len(recs))
			}
			rec := recs[0]
			if rec["level"] != tt.wantLevel {
				t.Errorf("level: got %v, want %s", rec["level"], tt.wantLevel)
			}
			if rec["method"] != tt.method || rec["path"] != tt.path {
				t.Errorf("request: got %v %v, want %s %s", rec["method"], rec["path"], tt.method, tt.path)
			}
			if got := int(rec["status"].(float64)); got != tt.wantCode {
				t.Errorf("logged status: got %d, want %d", got, tt.wantCode)
			}
			if got := int(rec["bytes"].(float64)); got != rr.Body.Len() {
				t.Errorf("logged bytes: got %d, want %d", got, rr.Body.Len())
			}
		})
	}
}

func TestLoggerKeepsEnvelopeIntact(t *testing.T) {
	captureRequests(t)
	h := Logger(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		envelope(w, http.StatusCreated, handlers.Envelope{Success: true, Data: map[string]string{"slug": "home"}})
	}))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/api/pages", strings.NewReader(`{"slug":"home"}`)))

	if ct := rr.Header().Get("Content-Type"); !strings.HasPrefix(ct, "application/json") {
		t.Errorf("Content-Type: got %q", ct)
	}
	var env struct {
		Success bool              `json:"success"`
		Data    map[string]string `json:"data"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !env.Success || env.Data["slug"] != "home" {
		t.Errorf("envelope: got %+v", env)
	}
}

func TestResponseWriterFirstStatusWins(t *testing.T) {
	rr := httptest.NewRecorder()
	rw := &responseWriter{ResponseWriter: rr, statusCode: http.StatusOK}

	rw.WriteHeader(http.StatusConflict)
	rw.WriteHeader(http.StatusInternalServerError)
	rw.Write([]byte(`{"success":false,"error":"slug taken"}`))

	if rw.statusCode != http.StatusConflict {
		t.Errorf("statusCode: got %d, want 409", rw.statusCode)
	}
	if rw.bytes != rr.Body.Len() {
		t.Errorf("bytes: got %d, want %d", rw.bytes, rr.Body.Len())
	}
}
