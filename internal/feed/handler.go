package feed

import (
	"net/http"

	"github.com/julienschmidt/httprouter"

	apperrors "spaces/pkg/errors"
	httputil "spaces/pkg/http"
	"spaces/pkg/logger"
)

type Handler struct {
	projection *Projection
	log        *logger.Logger
}

func NewHandler(projection *Projection, log *logger.Logger) *Handler {
	return &Handler{projection: projection, log: log}
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	if err := httputil.WriteSuccess(w, h.projection.SpaceIDs()); err != nil {
		h.log.Error("failed to write success response", "handler", "List", "operation", "WriteSuccess", "error", err)
	}
}

func (h *Handler) Calendar(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := ps.ByName("id")
	cal, ok := h.projection.Calendar(id)
	if !ok {
		if err := httputil.WriteError(w, apperrors.NotFound("Calendar", id)); err != nil {
			h.log.Error("failed to write error response", "handler", "Calendar", "operation", "WriteError", "error", err)
		}
		return
	}

	if err := httputil.WriteSuccess(w, cal); err != nil {
		h.log.Error("failed to write success response", "handler", "Calendar", "operation", "WriteSuccess", "error", err)
	}
}

func (h *Handler) Occupied(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	at, err := httputil.ExtractTime(r, "at")
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Occupied", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, map[string]any{
		"space_id": ps.ByName("id"),
		"at":       at,
		"reserved": h.projection.IsReserved(ps.ByName("id"), at),
	}); err != nil {
		h.log.Error("failed to write success response", "handler", "Occupied", "operation", "WriteSuccess", "error", err)
	}
}

func (h *Handler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/api/v1/calendars", h.List)
	router.GET("/api/v1/calendars/:id", h.Calendar)
	router.GET("/api/v1/calendars/:id/occupied", h.Occupied)
}
