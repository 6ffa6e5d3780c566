package handler

import (
	"encoding/json"
	"net/http"

	"github.com/julienschmidt/httprouter"

	"medbook/internal/records/service"
	apperrors "medbook/pkg/errors"
	httputil "medbook/pkg/http"
	"medbook/pkg/logger"
	"medbook/pkg/model"
)

type RecordHandler struct {
	service service.RecordService
	log     *logger.Logger
}

func NewRecordHandler(service service.RecordService, log *logger.Logger) *RecordHandler {
	return &RecordHandler{
		service: service,
		log:     log,
	}
}

func (h *RecordHandler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var record model.ClinicalRecord
	if err := json.NewDecoder(r.Body).Decode(&record); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "Create", "operation", "WriteJSON", "error", writeErr)
		}
		return
	}

	if err := h.service.Create(r.Context(), &record); err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Create", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteCreated(w, record); err != nil {
		h.log.Error("failed to write created response", "handler", "Create", "operation", "WriteCreated", "error", err)
	}
}

func (h *RecordHandler) GetByID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	record, err := h.service.GetByID(r.Context(), ps.ByName("id"))
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "GetByID", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, record); err != nil {
		h.log.Error("failed to write success response", "handler", "GetByID", "operation", "WriteSuccess", "error", err)
	}
}

func (h *RecordHandler) ListByClient(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	limit, offset, err := httputil.ExtractLimitOffset(r)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "ListByClient", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	query := r.URL.Query()
	businessID := query.Get("business_id")
	clientID := query.Get("client_id")
	if businessID == "" || clientID == "" {
		if writeErr := httputil.WriteError(w, apperrors.InvalidInput("Both 'business_id' and 'client_id' query parameters are required")); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "ListByClient", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	records, total, err := h.service.ListByClient(r.Context(), businessID, clientID, limit, offset)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "ListByClient", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WritePaginated(w, records, total, limit, offset); err != nil {
		h.log.Error("failed to write paginated response", "handler", "ListByClient", "operation", "WritePaginated", "error", err)
	}
}

func (h *RecordHandler) Update(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var updates model.ClinicalRecordUpdate
	if err := json.NewDecoder(r.Body).Decode(&updates); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "Update", "operation", "WriteJSON", "error", writeErr)
		}
		return
	}

	if err := h.service.Update(r.Context(), ps.ByName("id"), &updates); err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Update", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	httputil.WriteNoContent(w)
}

func (h *RecordHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/records", h.Create)
	router.GET("/api/v1/records", h.ListByClient)
	router.GET("/api/v1/records/id/:id", h.GetByID)
	router.PATCH("/api/v1/records/id/:id", h.Update)
}
