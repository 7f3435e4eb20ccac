package handlers_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/JaimeStill/intake/pkg/handlers"
)

func TestRespondJSON(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		data       any
		wantStatus int
	}{
		{
			name:       "200 with map",
			status:     http.StatusOK,
			data:       map[string]string{"key": "value"},
			wantStatus: http.StatusOK,
		},
		{
			name:       "503 with struct",
			status:     http.StatusServiceUnavailable,
			data:       struct{ Status string }{Status: "not ready"},
			wantStatus: http.StatusServiceUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			handlers.RespondJSON(rec, tt.status, tt.data)

			res := rec.Result()
			defer res.Body.Close()

			if res.StatusCode != tt.wantStatus {
				t.Errorf("status: got %d, want %d", res.StatusCode, tt.wantStatus)
			}
			if ct := res.Header.Get("Content-Type"); ct != "application/json" {
				t.Errorf("content-type: got %s", ct)
			}

			body, _ := io.ReadAll(res.Body)
			var parsed map[string]any
			if err := json.Unmarshal(body, &parsed); err != nil {
				t.Fatalf("unmarshal failed: %v", err)
			}
		})
	}
}

func TestRespondMessage(t *testing.T) {
	rec := httptest.NewRecorder()
	handlers.RespondMessage(rec, http.StatusBadRequest, "No PDF file provided!")

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status: got %d, want 400", rec.Code)
	}

	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if len(body) != 1 || body["message"] != "No PDF file provided!" {
		t.Errorf("body: got %v", body)
	}
}

func TestRespondError(t *testing.T) {
	var logs strings.Builder
	logger := slog.New(slog.NewTextHandler(&logs, nil))

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/convert-pdf", nil)
	handlers.RespondError(
		rec, req, logger,
		http.StatusInternalServerError,
		"An error occurred while classifying the document.",
		errors.New("upstream said: secret details"),
	)

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status: got %d, want 500", rec.Code)
	}
	if strings.Contains(rec.Body.String(), "secret details") {
		t.Errorf("response leaked error text: %s", rec.Body.String())
	}
	if !strings.Contains(logs.String(), "secret details") {
		t.Errorf("error was not logged: %s", logs.String())
	}
	if !strings.Contains(logs.String(), "path=/convert-pdf") {
		t.Errorf("request path was not logged: %s", logs.String())
	}

	var body handlers.Message
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if body.Message != "An error occurred while classifying the document." {
		t.Errorf("message: got %q", body.Message)
	}
}

type ctxKey struct{}

// contextHandler copies a context value onto each record, standing in for
// handlers that enrich records from the request context.
type contextHandler struct {
	slog.Handler
}

func (h contextHandler) Handle(ctx context.Context, r slog.Record) error {
	if v, ok := ctx.Value(ctxKey{}).(string); ok {
		r.AddAttrs(slog.String("trace", v))
	}
	return h.Handler.Handle(ctx, r)
}

func TestRespondErrorUsesRequestContext(t *testing.T) {
	var logs strings.Builder
	logger := slog.New(contextHandler{slog.NewTextHandler(&logs, nil)})

	req := httptest.NewRequest("POST", "/convert-pdf", nil)
	req = req.WithContext(context.WithValue(req.Context(), ctxKey{}, "abc-123"))

	handlers.RespondError(
		httptest.NewRecorder(), req, logger,
		http.StatusInternalServerError, "failed", errors.New("boom"),
	)

	if !strings.Contains(logs.String(), "trace=abc-123") {
		t.Errorf("log record lost the request context: %s", logs.String())
	}
}
