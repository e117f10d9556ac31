package documents

import (
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/nlc-digital/landcom/internal/cases"
	"github.com/nlc-digital/landcom/pkg/handlers"
	"github.com/nlc-digital/landcom/pkg/routes"
)

// Handler provides HTTP endpoints for case document operations.
type Handler struct {
	sys           System
	logger        *slog.Logger
	maxUploadSize int64
}

// NewHandler creates a Handler with the given system, logger, and upload size limit.
func NewHandler(sys System, logger *slog.Logger, maxUploadSize int64) *Handler {
	return &Handler{
		sys:           sys,
		logger:        logger.With("handler", "documents"),
		maxUploadSize: maxUploadSize,
	}
}

// Routes returns the route group definition for document endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/cases",
		Routes: []routes.Route{
			{Method: "POST", Pattern: "/{id}/documents", Handler: h.Attach},
			{Method: "GET", Pattern: "/{id}/documents/{docId}/download", Handler: h.Download},
			{Method: "GET", Pattern: "/{id}/completeness", Handler: h.Completeness},
		},
	}
}

// Attach processes a multipart upload of one or more files under the "files"
// field, each attached with the category given in the "category" form value.
func (h *Handler) Attach(w http.ResponseWriter, r *http.Request) {
	actor, ok := cases.RequestActor(w, r, h.logger)
	if !ok {
		return
	}

	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, cases.ErrInvalidCase)
		return
	}

	if err := r.ParseMultipartForm(h.maxUploadSize); err != nil {
		handlers.RespondError(w, h.logger, http.StatusRequestEntityTooLarge, ErrFileTooLarge)
		return
	}

	category, err := cases.ParseCategory(r.FormValue("category"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	files := r.MultipartForm.File["files"]
	if len(files) == 0 {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrNoFiles)
		return
	}

	cmds := make([]AttachCommand, 0, len(files))
	for _, header := range files {
		cmd, err := readAttachCommand(header, category)
		if err != nil {
			handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrInvalidFile)
			return
		}
		cmds = append(cmds, cmd)
	}

	if len(cmds) == 1 {
		c, err := h.sys.Attach(r.Context(), id, cmds[0], actor)
		if err != nil {
			handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
			return
		}
		handlers.RespondJSON(w, http.StatusCreated, c)
		return
	}

	result, err := h.sys.AttachBatch(r.Context(), id, cmds, actor)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusCreated, result)
}

// Download streams a document's stored content.
func (h *Handler) Download(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, cases.ErrInvalidCase)
		return
	}

	docID, err := uuid.Parse(r.PathValue("docId"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, cases.ErrDocumentNotFound)
		return
	}

	reader, doc, err := h.sys.Download(r.Context(), id, docID)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}
	defer reader.Close()

	w.Header().Set("Content-Type", contentTypeFor(doc.Format))
	w.Header().Set("Content-Disposition", `attachment; filename="`+doc.Filename+`"`)
	if _, err := io.Copy(w, reader); err != nil {
		h.logger.Warn("document stream interrupted", "document", doc.ID, "error", err)
	}
}

// Completeness reports the case's required-category checklist.
func (h *Handler) Completeness(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, cases.ErrInvalidCase)
		return
	}

	checks, err := h.sys.Completeness(r.Context(), id)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, checks)
}

func readAttachCommand(header *multipart.FileHeader, category cases.Category) (AttachCommand, error) {
	file, err := header.Open()
	if err != nil {
		return AttachCommand{}, err
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return AttachCommand{}, err
	}

	contentType := strings.TrimSpace(header.Header.Get("Content-Type"))
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = http.DetectContentType(data)
	}

	return AttachCommand{
		Filename:    header.Filename,
		ContentType: contentType,
		Category:    category,
		Data:        data,
	}, nil
}

func contentTypeFor(format cases.Format) string {
	switch format {
	case cases.FormatCSV:
		return "text/csv"
	case cases.FormatDOCX:
		return "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	default:
		return "application/pdf"
	}
}
