package notices

import (
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/nlc-digital/landcom/internal/cases"
	"github.com/nlc-digital/landcom/pkg/handlers"
	"github.com/nlc-digital/landcom/pkg/routes"
)

// Handler provides HTTP endpoints for notice generation.
type Handler struct {
	sys    System
	logger *slog.Logger
}

// NewHandler creates a Handler with the given system and logger.
func NewHandler(sys System, logger *slog.Logger) *Handler {
	return &Handler{
		sys:    sys,
		logger: logger.With("handler", "notices"),
	}
}

// Routes returns the route group definition for notice endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/cases",
		Routes: []routes.Route{
			{Method: "POST", Pattern: "/{id}/notices/gazette", Handler: h.Gazette},
			{Method: "GET", Pattern: "/{id}/insights", Handler: h.Insights},
		},
	}
}

// Gazette generates a gazette notice of intention to acquire for the case.
func (h *Handler) Gazette(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, cases.ErrInvalidCase)
		return
	}

	notice, err := h.sys.Gazette(r.Context(), id)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, notice)
}

// Insights returns a contextual overview of the case's project location,
// supplied via the location query parameter.
func (h *Handler) Insights(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, cases.ErrInvalidCase)
		return
	}

	insights, err := h.sys.Insights(r.Context(), id, r.URL.Query().Get("location"))
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, insights)
}
