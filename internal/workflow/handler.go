package workflow

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/nlc-digital/landcom/internal/analysis"
	"github.com/nlc-digital/landcom/internal/cases"
	"github.com/nlc-digital/landcom/pkg/handlers"
	"github.com/nlc-digital/landcom/pkg/routes"
)

// Handler provides HTTP endpoints for workflow transitions, parcel claims,
// and analysis merges.
type Handler struct {
	sys    System
	logger *slog.Logger
}

// TransitionRequest carries a workflow action and optional note.
type TransitionRequest struct {
	Action string `json:"action"`
	Note   string `json:"note,omitempty"`
}

// ClaimRequest carries a parcel claim action.
type ClaimRequest struct {
	Action string `json:"action"`
}

// NewHandler creates a Handler with the given system and logger.
func NewHandler(sys System, logger *slog.Logger) *Handler {
	return &Handler{
		sys:    sys,
		logger: logger.With("handler", "workflow"),
	}
}

// Routes returns the route group definition for workflow endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/cases",
		Routes: []routes.Route{
			{Method: "GET", Pattern: "/{id}/actions", Handler: h.Availability},
			{Method: "POST", Pattern: "/{id}/actions", Handler: h.Transition},
			{Method: "POST", Pattern: "/{id}/parcels/{parcelId}/claim", Handler: h.Claim},
			{Method: "POST", Pattern: "/{id}/analysis/merge", Handler: h.Merge},
		},
	}
}

// Availability lists every workflow action with its requirements and whether
// the requesting actor may apply it to the case right now.
func (h *Handler) Availability(w http.ResponseWriter, r *http.Request) {
	actor, ok := cases.RequestActor(w, r, h.logger)
	if !ok {
		return
	}

	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, cases.ErrInvalidCase)
		return
	}

	availability, err := h.sys.Availability(r.Context(), id, actor.Role)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, availability)
}

// Transition applies a workflow action to a case.
func (h *Handler) Transition(w http.ResponseWriter, r *http.Request) {
	actor, ok := cases.RequestActor(w, r, h.logger)
	if !ok {
		return
	}

	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, cases.ErrInvalidCase)
		return
	}

	var req TransitionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrUnknownAction)
		return
	}

	action, err := ParseAction(req.Action)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	c, err := h.sys.Transition(r.Context(), id, action, actor, req.Note)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, c)
}

// Claim records an interested party's acceptance or contest of a parcel award.
func (h *Handler) Claim(w http.ResponseWriter, r *http.Request) {
	actor, ok := cases.RequestActor(w, r, h.logger)
	if !ok {
		return
	}

	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, cases.ErrInvalidCase)
		return
	}

	parcelID, err := uuid.Parse(r.PathValue("parcelId"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, cases.ErrParcelNotFound)
		return
	}

	var req ClaimRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrUnknownClaim)
		return
	}

	claim, err := ParseClaim(req.Action)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	c, err := h.sys.Claim(r.Context(), id, parcelID, claim, actor)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, c)
}

// Merge appends an analysis result's extracted parcels to a case.
func (h *Handler) Merge(w http.ResponseWriter, r *http.Request) {
	actor, ok := cases.RequestActor(w, r, h.logger)
	if !ok {
		return
	}

	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, cases.ErrInvalidCase)
		return
	}

	var result analysis.Result
	if err := json.NewDecoder(r.Body).Decode(&result); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, cases.ErrInvalidCase)
		return
	}

	c, err := h.sys.Merge(r.Context(), id, result, actor)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, c)
}
