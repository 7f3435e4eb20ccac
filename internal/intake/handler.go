// Package intake exposes the convert-pdf endpoint: it accepts a PDF upload,
// runs the conversion and classification workflow, and returns the
// validated classification.
package intake

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/JaimeStill/intake/internal/conversion"
	"github.com/JaimeStill/intake/internal/workflow"
	"github.com/JaimeStill/intake/pkg/handlers"
	"github.com/JaimeStill/intake/pkg/middleware"
	"github.com/JaimeStill/intake/pkg/routes"
)

// multipartMemory is the portion of a multipart form held in memory;
// the rest spills to temporary files.
const multipartMemory = 10 << 20

// Options configures a Handler.
type Options struct {
	// MaxUploadSize bounds the request body in bytes.
	MaxUploadSize int64
	// UploadField is the multipart field carrying the PDF.
	UploadField string
	// Middleware wraps the convert-pdf route, outermost first.
	Middleware []func(http.Handler) http.Handler
}

// Handler serves POST /convert-pdf.
type Handler struct {
	workspace *conversion.Workspace
	runtime   *workflow.Runtime
	opts      Options
	logger    *slog.Logger
}

// NewHandler creates a Handler that stages uploads in workspace and runs
// them through runtime.
func NewHandler(workspace *conversion.Workspace, runtime *workflow.Runtime, opts Options, logger *slog.Logger) *Handler {
	return &Handler{
		workspace: workspace,
		runtime:   runtime,
		opts:      opts,
		logger:    logger.With("handler", "intake"),
	}
}

// Routes returns the route group for the convert-pdf endpoint.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "",
		Routes: []routes.Route{
			{
				Method:     "POST",
				Pattern:    "/convert-pdf",
				Handler:    h.ConvertPDF,
				Middleware: h.opts.Middleware,
			},
		},
	}
}

// ConvertPDF stages the uploaded PDF, converts and classifies it, and
// responds with the validated result. The staged files are removed on
// every path.
func (h *Handler) ConvertPDF(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.opts.MaxUploadSize)

	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		h.respond(w, r, uploadError(err))
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile(h.opts.UploadField)
	if err != nil {
		h.respond(w, r, ErrNoFile)
		return
	}
	defer file.Close()

	if header.Size == 0 {
		h.respond(w, r, ErrNoFile)
		return
	}

	upload, err := h.workspace.Save(file)
	if err != nil {
		h.respond(w, r, err)
		return
	}
	defer func() {
		if err := upload.Remove(); err != nil {
			h.logger.WarnContext(r.Context(), "failed to remove upload", "id", upload.ID, "error", err)
		}
	}()

	outcome, err := workflow.Execute(r.Context(), h.runtime, upload)
	if err != nil {
		h.respond(w, r, err)
		return
	}

	h.logger.InfoContext(
		r.Context(), "pdf processed",
		"id", upload.ID,
		"filename", header.Filename,
		"pages", outcome.PageCount,
		"document_type", outcome.Result.DocumentType,
	)

	handlers.RespondJSON(w, http.StatusOK, outcome.Result)
}

func (h *Handler) respond(w http.ResponseWriter, r *http.Request, err error) {
	status, message := MapResponse(err)
	logger := h.logger.With("request_id", middleware.RequestIDFromContext(r.Context()))
	if status >= http.StatusInternalServerError {
		handlers.RespondError(w, r, logger, status, message, err)
		return
	}
	logger.InfoContext(r.Context(), "upload rejected", "status", status, "error", err)
	handlers.RespondMessage(w, status, message)
}

func uploadError(err error) error {
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		return ErrFileTooLarge
	}
	return errors.Join(ErrNoFile, err)
}
