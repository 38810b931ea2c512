package handler

import (
	"encoding/json"
	"net/http"

	"github.com/julienschmidt/httprouter"

	"spaces/internal/spaces/service"
	apperrors "spaces/pkg/errors"
	httputil "spaces/pkg/http"
	"spaces/pkg/logger"
	"spaces/pkg/model"
)

type SpaceHandler struct {
	service service.SpaceService
	log     *logger.Logger
}

func NewSpaceHandler(service service.SpaceService, log *logger.Logger) *SpaceHandler {
	return &SpaceHandler{
		service: service,
		log:     log,
	}
}

func (h *SpaceHandler) writeError(w http.ResponseWriter, handler string, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", handler, "operation", "WriteError", "error", writeErr)
	}
}

func (h *SpaceHandler) writeSuccess(w http.ResponseWriter, handler string, data any) {
	if err := httputil.WriteSuccess(w, data); err != nil {
		h.log.Error("failed to write success response", "handler", handler, "operation", "WriteSuccess", "error", err)
	}
}

func (h *SpaceHandler) writeCreated(w http.ResponseWriter, handler string, data any) {
	if err := httputil.WriteCreated(w, data); err != nil {
		h.log.Error("failed to write created response", "handler", handler, "operation", "WriteCreated", "error", err)
	}
}

func (h *SpaceHandler) decode(w http.ResponseWriter, r *http.Request, handler string, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
			Code:  apperrors.CodeInvalidInput,
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", handler, "operation", "WriteJSON", "error", writeErr)
		}
		return false
	}
	return true
}

func (h *SpaceHandler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	space := model.NewSpace()
	if !h.decode(w, r, "Create", space) {
		return
	}

	if err := h.service.Create(r.Context(), space); err != nil {
		h.writeError(w, "Create", err)
		return
	}

	h.writeCreated(w, "Create", space)
}

func (h *SpaceHandler) GetByID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	space, err := h.service.GetByID(r.Context(), ps.ByName("id"))
	if err != nil {
		h.writeError(w, "GetByID", err)
		return
	}

	h.writeSuccess(w, "GetByID", space)
}

func (h *SpaceHandler) GetAll(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	limit, offset, err := httputil.ExtractLimitOffset(r)
	if err != nil {
		h.writeError(w, "GetAll", err)
		return
	}

	spaces, totalCount, err := h.service.GetAll(r.Context(), limit, offset)
	if err != nil {
		h.writeError(w, "GetAll", err)
		return
	}

	if err := httputil.WritePaginated(w, spaces, totalCount, limit, offset); err != nil {
		h.log.Error("failed to write paginated response", "handler", "GetAll", "operation", "WritePaginated", "error", err)
	}
}

func (h *SpaceHandler) Update(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var updates model.SpaceUpdate
	if !h.decode(w, r, "Update", &updates) {
		return
	}

	space, err := h.service.Update(r.Context(), ps.ByName("id"), &updates)
	if err != nil {
		h.writeError(w, "Update", err)
		return
	}

	h.writeSuccess(w, "Update", space)
}

func (h *SpaceHandler) Delete(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	if err := h.service.Delete(r.Context(), ps.ByName("id")); err != nil {
		h.writeError(w, "Delete", err)
		return
	}

	httputil.WriteNoContent(w)
}

func (h *SpaceHandler) SetRate(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var req model.RateUpdate
	if !h.decode(w, r, "SetRate", &req) {
		return
	}

	if err := h.service.SetRate(r.Context(), ps.ByName("id"), &req); err != nil {
		h.writeError(w, "SetRate", err)
		return
	}

	httputil.WriteNoContent(w)
}

func (h *SpaceHandler) Calendar(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	cal, err := h.service.Calendar(r.Context(), ps.ByName("id"))
	if err != nil {
		h.writeError(w, "Calendar", err)
		return
	}

	h.writeSuccess(w, "Calendar", cal)
}

func (h *SpaceHandler) Reserve(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var req model.ReservationRequest
	if !h.decode(w, r, "Reserve", &req) {
		return
	}

	entry, err := h.service.Reserve(r.Context(), ps.ByName("id"), &req)
	if err != nil {
		h.writeError(w, "Reserve", err)
		return
	}

	h.writeCreated(w, "Reserve", entry)
}

// Release takes the range from the query string since DELETE bodies are often dropped by proxies.
func (h *SpaceHandler) Release(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	start, err := httputil.ExtractTime(r, "start")
	if err != nil {
		h.writeError(w, "Release", err)
		return
	}
	end, err := httputil.ExtractTime(r, "end")
	if err != nil {
		h.writeError(w, "Release", err)
		return
	}

	if err := h.service.Release(r.Context(), ps.ByName("id"), &model.ReservationRequest{Start: start, End: end}); err != nil {
		h.writeError(w, "Release", err)
		return
	}

	httputil.WriteNoContent(w)
}

func (h *SpaceHandler) Availability(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	from, err := httputil.ExtractTime(r, "from")
	if err != nil {
		h.writeError(w, "Availability", err)
		return
	}
	hours, err := httputil.ExtractInt(r, "hours", 1)
	if err != nil {
		h.writeError(w, "Availability", err)
		return
	}

	slot, err := h.service.FindNextAvailable(r.Context(), ps.ByName("id"), from, hours)
	if err != nil {
		h.writeError(w, "Availability", err)
		return
	}

	h.writeSuccess(w, "Availability", slot)
}

func (h *SpaceHandler) AddReview(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var req model.ReviewRequest
	if !h.decode(w, r, "AddReview", &req) {
		return
	}

	space, err := h.service.AddReview(r.Context(), ps.ByName("id"), &req)
	if err != nil {
		h.writeError(w, "AddReview", err)
		return
	}

	h.writeCreated(w, "AddReview", space)
}
