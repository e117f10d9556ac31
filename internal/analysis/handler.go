package analysis

import (
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/nlc-digital/landcom/internal/cases"
	"github.com/nlc-digital/landcom/pkg/handlers"
	"github.com/nlc-digital/landcom/pkg/routes"
)

// Handler provides HTTP endpoints for document analysis.
type Handler struct {
	sys    System
	logger *slog.Logger
}

// NewHandler creates a Handler with the given system and logger.
func NewHandler(sys System, logger *slog.Logger) *Handler {
	return &Handler{
		sys:    sys,
		logger: logger.With("handler", "analysis"),
	}
}

// Routes returns the route group definition for analysis endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/cases",
		Routes: []routes.Route{
			{Method: "POST", Pattern: "/{id}/documents/{docId}/analyze", Handler: h.Analyze},
		},
	}
}

// Analyze runs AI review of one attached document and returns the normalized
// result. The result's extracted parcels are not merged into the case here;
// merging is a separate, explicitly requested operation.
func (h *Handler) Analyze(w http.ResponseWriter, r *http.Request) {
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

	result, err := h.sys.AnalyzeDocument(r.Context(), id, docID)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}
