package intake_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/JaimeStill/intake/internal/classification"
	"github.com/JaimeStill/intake/internal/conversion"
	"github.com/JaimeStill/intake/internal/intake"
	"github.com/JaimeStill/intake/internal/workflow"
	"github.com/JaimeStill/intake/pkg/middleware"
	"github.com/JaimeStill/intake/pkg/routes"
)

type fakeConverter struct {
	pages   int
	err     error
	sawPDF  bool
	pdfPath string
}

func (f *fakeConverter) Convert(ctx context.Context, pdfPath, imageDir string) ([]conversion.PageImage, error) {
	f.pdfPath = pdfPath
	_, statErr := os.Stat(pdfPath)
	f.sawPDF = statErr == nil
	if f.err != nil {
		return nil, f.err
	}

	out := make([]conversion.PageImage, f.pages)
	for i := range out {
		out[i] = conversion.PageImage{Number: i + 1, DataURI: fmt.Sprintf("data:image/png;base64,p%d", i+1)}
	}
	return out, nil
}

type fakeModel struct {
	reply string
	err   error
}

func (f *fakeModel) Classify(ctx context.Context, instructions string, images []string) (string, error) {
	return f.reply, f.err
}

type fixture struct {
	root      string
	converter *fakeConverter
	handler   http.Handler
	logs      *bytes.Buffer
}

func newFixture(t *testing.T, conv *fakeConverter, model *fakeModel, mws ...func(http.Handler) http.Handler) *fixture {
	t.Helper()

	logs := &bytes.Buffer{}
	logger := slog.New(slog.NewTextHandler(logs, nil))

	root := t.TempDir()
	ws, err := conversion.NewWorkspace(root, false)
	if err != nil {
		t.Fatalf("NewWorkspace: %v", err)
	}

	svc, err := classification.NewService(model, classification.InstructionOptions{
		EstimateAuthor: "AdjustPro Solutions LLC",
	}, logger)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	rt := &workflow.Runtime{Converter: conv, Classifier: svc, Logger: logger}

	h := intake.NewHandler(ws, rt, intake.Options{
		MaxUploadSize: 1 << 20,
		UploadField:   "data",
		Middleware:    mws,
	}, logger)

	mux := http.NewServeMux()
	routes.Register(mux, h.Routes())

	return &fixture{root: root, converter: conv, handler: mux, logs: logs}
}

func multipartRequest(t *testing.T, field string, content []byte) *http.Request {
	t.Helper()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile(field, "claim.pdf")
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := part.Write(content); err != nil {
		t.Fatalf("write part: %v", err)
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}

	req := httptest.NewRequest("POST", "/convert-pdf", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func (f *fixture) do(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)
	return rec
}

// assertClean verifies no uploaded PDF or page directory survived the request.
func (f *fixture) assertClean(t *testing.T) {
	t.Helper()

	entries, err := os.ReadDir(f.root)
	if err != nil {
		t.Fatalf("read root: %v", err)
	}
	for _, e := range entries {
		if e.Name() != "images" {
			t.Errorf("leftover upload: %s", e.Name())
		}
	}

	images, err := os.ReadDir(f.root + "/images")
	if err != nil {
		t.Fatalf("read images: %v", err)
	}
	if len(images) != 0 {
		t.Errorf("leftover image dirs: %d", len(images))
	}
}

const checkReply = `{"DocumentType":"Check","Identifier":{"PolicyNumber":null,"ClaimNumber":"CLM-123","InsuredName":null,"InsuredPhone":null,"InsuredEmail":null,"LossLocationAddress":null,"Carrier":null}}`

func TestConvertPDFSuccess(t *testing.T) {
	tests := []struct {
		name  string
		reply string
	}{
		{"plain reply", checkReply},
		{"fenced reply", "```json\n" + checkReply + "\n```"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, &fakeConverter{pages: 2}, &fakeModel{reply: tt.reply})

			rec := f.do(multipartRequest(t, "data", []byte("%PDF-1.4 two pages")))

			if rec.Code != http.StatusOK {
				t.Fatalf("status: got %d, want 200 (%s)", rec.Code, rec.Body.String())
			}
			if got := strings.TrimSpace(rec.Body.String()); got != checkReply {
				t.Errorf("body:\n got %s\nwant %s", got, checkReply)
			}
			if !f.converter.sawPDF {
				t.Error("converter did not see the uploaded pdf on disk")
			}
			if !strings.Contains(f.logs.String(), "pages=2") {
				t.Error("page count was not logged")
			}
			f.assertClean(t)
		})
	}
}

func TestConvertPDFNoFile(t *testing.T) {
	tests := []struct {
		name string
		req  func(t *testing.T) *http.Request
	}{
		{
			name: "wrong field",
			req: func(t *testing.T) *http.Request {
				return multipartRequest(t, "file", []byte("%PDF"))
			},
		},
		{
			name: "empty file",
			req: func(t *testing.T) *http.Request {
				return multipartRequest(t, "data", nil)
			},
		},
		{
			name: "not multipart",
			req: func(t *testing.T) *http.Request {
				req := httptest.NewRequest("POST", "/convert-pdf", strings.NewReader(`{"pdf":"x"}`))
				req.Header.Set("Content-Type", "application/json")
				return req
			},
		},
		{
			name: "no body",
			req: func(t *testing.T) *http.Request {
				return httptest.NewRequest("POST", "/convert-pdf", nil)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			conv := &fakeConverter{pages: 1}
			f := newFixture(t, conv, &fakeModel{reply: checkReply})

			rec := f.do(tt.req(t))

			if rec.Code != http.StatusBadRequest {
				t.Fatalf("status: got %d, want 400", rec.Code)
			}
			if got := strings.TrimSpace(rec.Body.String()); got != `{"message":"No PDF file provided!"}` {
				t.Errorf("body: got %s", got)
			}
			if conv.pdfPath != "" {
				t.Error("converter should not run without a file")
			}
			f.assertClean(t)
		})
	}
}

func TestConvertPDFFailures(t *testing.T) {
	tests := []struct {
		name        string
		converter   *fakeConverter
		model       *fakeModel
		wantMessage string
		mustNotLeak string
	}{
		{
			name:        "corrupt pdf",
			converter:   &fakeConverter{err: fmt.Errorf("%w: read pdf structure: bad xref table", conversion.ErrConversionFailed)},
			model:       &fakeModel{reply: checkReply},
			wantMessage: intake.MessageConversion,
			mustNotLeak: "xref",
		},
		{
			name:        "empty document",
			converter:   &fakeConverter{err: conversion.ErrEmptyDocument},
			model:       &fakeModel{reply: checkReply},
			wantMessage: intake.MessageEmptyDocument,
		},
		{
			name:        "unknown document type",
			converter:   &fakeConverter{pages: 1},
			model:       &fakeModel{reply: `{"DocumentType":"Invoice","Identifier":null}`},
			wantMessage: intake.MessageClassification,
			mustNotLeak: "Invoice",
		},
		{
			name:        "malformed reply",
			converter:   &fakeConverter{pages: 1},
			model:       &fakeModel{reply: "Sorry, I cannot help with that."},
			wantMessage: intake.MessageClassification,
			mustNotLeak: "Sorry",
		},
		{
			name:        "service failure",
			converter:   &fakeConverter{pages: 1},
			model:       &fakeModel{err: errors.New("status 401: invalid api key sk-abc")},
			wantMessage: intake.MessageClassification,
			mustNotLeak: "sk-abc",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, tt.converter, tt.model)

			rec := f.do(multipartRequest(t, "data", []byte("%PDF-1.4")))

			if rec.Code != http.StatusInternalServerError {
				t.Fatalf("status: got %d, want 500", rec.Code)
			}
			want := fmt.Sprintf(`{"message":%q}`, tt.wantMessage)
			if got := strings.TrimSpace(rec.Body.String()); got != want {
				t.Errorf("body: got %s, want %s", got, want)
			}
			if tt.mustNotLeak != "" && strings.Contains(rec.Body.String(), tt.mustNotLeak) {
				t.Errorf("response leaked %q", tt.mustNotLeak)
			}
			f.assertClean(t)
		})
	}
}

func TestConvertPDFFailureLogsRequestID(t *testing.T) {
	f := newFixture(
		t,
		&fakeConverter{pages: 1},
		&fakeModel{err: errors.New("connection refused")},
		middleware.RequestID(),
	)

	req := multipartRequest(t, "data", []byte("%PDF-1.4"))
	req.Header.Set(middleware.RequestIDHeader, "req-42")

	rec := f.do(req)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status: got %d, want 500", rec.Code)
	}
	logs := f.logs.String()
	if !strings.Contains(logs, "request failed") {
		t.Fatalf("failure was not logged: %s", logs)
	}
	if !strings.Contains(logs, "request_id=req-42") {
		t.Errorf("failure log lost request id: %s", logs)
	}
}

func TestConvertPDFTooLarge(t *testing.T) {
	f := newFixture(t, &fakeConverter{pages: 1}, &fakeModel{reply: checkReply})

	rec := f.do(multipartRequest(t, "data", bytes.Repeat([]byte("A"), 2<<20)))

	if rec.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("status: got %d, want 413", rec.Code)
	}
	if got := strings.TrimSpace(rec.Body.String()); got != `{"message":"PDF exceeds maximum upload size"}` {
		t.Errorf("body: got %s", got)
	}
	f.assertClean(t)
}

func TestConvertPDFRouteMiddleware(t *testing.T) {
	deny := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		})
	}

	conv := &fakeConverter{pages: 1}
	f := newFixture(t, conv, &fakeModel{reply: checkReply}, deny)

	rec := f.do(multipartRequest(t, "data", []byte("%PDF")))

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status: got %d, want 401", rec.Code)
	}
	if conv.pdfPath != "" {
		t.Error("converter ran despite middleware rejection")
	}
}

func TestMapResponse(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		wantStatus  int
		wantMessage string
	}{
		{"no file", intake.ErrNoFile, http.StatusBadRequest, intake.MessageNoFile},
		{"too large", intake.ErrFileTooLarge, http.StatusRequestEntityTooLarge, intake.MessageFileTooLarge},
		{"conversion", conversion.ErrConversionFailed, http.StatusInternalServerError, intake.MessageConversion},
		{"workspace", conversion.ErrWorkspace, http.StatusInternalServerError, intake.MessageConversion},
		{"empty pdf", conversion.ErrEmptyDocument, http.StatusInternalServerError, intake.MessageEmptyDocument},
		{"no images", classification.ErrEmptyDocument, http.StatusInternalServerError, intake.MessageEmptyDocument},
		{"service", classification.ErrServiceFailure, http.StatusInternalServerError, intake.MessageClassification},
		{"malformed", classification.ErrMalformedResponse, http.StatusInternalServerError, intake.MessageClassification},
		{"schema", classification.ErrSchemaValidation, http.StatusInternalServerError, intake.MessageClassification},
		{"wrapped", fmt.Errorf("stage: %w", conversion.ErrConversionFailed), http.StatusInternalServerError, intake.MessageConversion},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, message := intake.MapResponse(tt.err)
			if status != tt.wantStatus || message != tt.wantMessage {
				t.Errorf("MapResponse: got (%d, %q), want (%d, %q)", status, message, tt.wantStatus, tt.wantMessage)
			}
		})
	}
}

