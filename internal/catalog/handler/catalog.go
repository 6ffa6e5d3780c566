package handler

import (
	"encoding/json"
	"net/http"

	"github.com/julienschmidt/httprouter"

	"medbook/internal/catalog/service"
	apperrors "medbook/pkg/errors"
	httputil "medbook/pkg/http"
	"medbook/pkg/logger"
	"medbook/pkg/model"
)

type CatalogHandler struct {
	service service.CatalogService
	log     *logger.Logger
}

func NewCatalogHandler(service service.CatalogService, log *logger.Logger) *CatalogHandler {
	return &CatalogHandler{
		service: service,
		log:     log,
	}
}

func (h *CatalogHandler) writeErr(w http.ResponseWriter, handler string, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", handler, "operation", "WriteError", "error", writeErr)
	}
}

func (h *CatalogHandler) decodeBody(w http.ResponseWriter, r *http.Request, handler string, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", handler, "operation", "WriteJSON", "error", writeErr)
		}
		return false
	}
	return true
}

// --- Businesses ---

func (h *CatalogHandler) CreateBusiness(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var business model.Business
	if !h.decodeBody(w, r, "CreateBusiness", &business) {
		return
	}

	if err := h.service.CreateBusiness(r.Context(), &business); err != nil {
		h.writeErr(w, "CreateBusiness", err)
		return
	}

	if err := httputil.WriteCreated(w, business); err != nil {
		h.log.Error("failed to write created response", "handler", "CreateBusiness", "operation", "WriteCreated", "error", err)
	}
}

func (h *CatalogHandler) GetBusiness(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	business, err := h.service.GetBusiness(r.Context(), ps.ByName("id"))
	if err != nil {
		h.writeErr(w, "GetBusiness", err)
		return
	}

	if err := httputil.WriteSuccess(w, business); err != nil {
		h.log.Error("failed to write success response", "handler", "GetBusiness", "operation", "WriteSuccess", "error", err)
	}
}

func (h *CatalogHandler) ListBusinesses(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	limit, offset, err := httputil.ExtractLimitOffset(r)
	if err != nil {
		h.writeErr(w, "ListBusinesses", err)
		return
	}

	businesses, total, err := h.service.ListBusinesses(r.Context(), limit, offset)
	if err != nil {
		h.writeErr(w, "ListBusinesses", err)
		return
	}

	if err := httputil.WritePaginated(w, businesses, total, limit, offset); err != nil {
		h.log.Error("failed to write paginated response", "handler", "ListBusinesses", "operation", "WritePaginated", "error", err)
	}
}

func (h *CatalogHandler) UpdateBusiness(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var updates model.BusinessUpdate
	if !h.decodeBody(w, r, "UpdateBusiness", &updates) {
		return
	}

	if err := h.service.UpdateBusiness(r.Context(), ps.ByName("id"), &updates); err != nil {
		h.writeErr(w, "UpdateBusiness", err)
		return
	}

	httputil.WriteNoContent(w)
}

// --- Services ---

func (h *CatalogHandler) CreateService(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var svc model.Service
	if !h.decodeBody(w, r, "CreateService", &svc) {
		return
	}

	if err := h.service.CreateService(r.Context(), &svc); err != nil {
		h.writeErr(w, "CreateService", err)
		return
	}

	if err := httputil.WriteCreated(w, svc); err != nil {
		h.log.Error("failed to write created response", "handler", "CreateService", "operation", "WriteCreated", "error", err)
	}
}

func (h *CatalogHandler) GetService(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	svc, err := h.service.GetService(r.Context(), ps.ByName("id"))
	if err != nil {
		h.writeErr(w, "GetService", err)
		return
	}

	if err := httputil.WriteSuccess(w, svc); err != nil {
		h.log.Error("failed to write success response", "handler", "GetService", "operation", "WriteSuccess", "error", err)
	}
}

func (h *CatalogHandler) ListServices(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	limit, offset, err := httputil.ExtractLimitOffset(r)
	if err != nil {
		h.writeErr(w, "ListServices", err)
		return
	}

	businessID := r.URL.Query().Get("business_id")
	if businessID == "" {
		h.writeErr(w, "ListServices", apperrors.InvalidInput("'business_id' query parameter is required"))
		return
	}

	services, total, err := h.service.ListServices(r.Context(), businessID, limit, offset)
	if err != nil {
		h.writeErr(w, "ListServices", err)
		return
	}

	if err := httputil.WritePaginated(w, services, total, limit, offset); err != nil {
		h.log.Error("failed to write paginated response", "handler", "ListServices", "operation", "WritePaginated", "error", err)
	}
}

func (h *CatalogHandler) UpdateService(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var updates model.ServiceUpdate
	if !h.decodeBody(w, r, "UpdateService", &updates) {
		return
	}

	if err := h.service.UpdateService(r.Context(), ps.ByName("id"), &updates); err != nil {
		h.writeErr(w, "UpdateService", err)
		return
	}

	httputil.WriteNoContent(w)
}

// --- Specialists ---

func (h *CatalogHandler) CreateSpecialist(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var specialist model.Specialist
	if !h.decodeBody(w, r, "CreateSpecialist", &specialist) {
		return
	}

	if err := h.service.CreateSpecialist(r.Context(), &specialist); err != nil {
		h.writeErr(w, "CreateSpecialist", err)
		return
	}

	if err := httputil.WriteCreated(w, specialist); err != nil {
		h.log.Error("failed to write created response", "handler", "CreateSpecialist", "operation", "WriteCreated", "error", err)
	}
}

func (h *CatalogHandler) GetSpecialist(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	specialist, err := h.service.GetSpecialist(r.Context(), ps.ByName("id"))
	if err != nil {
		h.writeErr(w, "GetSpecialist", err)
		return
	}

	if err := httputil.WriteSuccess(w, specialist); err != nil {
		h.log.Error("failed to write success response", "handler", "GetSpecialist", "operation", "WriteSuccess", "error", err)
	}
}

func (h *CatalogHandler) ListSpecialists(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	limit, offset, err := httputil.ExtractLimitOffset(r)
	if err != nil {
		h.writeErr(w, "ListSpecialists", err)
		return
	}

	businessID := r.URL.Query().Get("business_id")
	if businessID == "" {
		h.writeErr(w, "ListSpecialists", apperrors.InvalidInput("'business_id' query parameter is required"))
		return
	}

	specialists, total, err := h.service.ListSpecialists(r.Context(), businessID, limit, offset)
	if err != nil {
		h.writeErr(w, "ListSpecialists", err)
		return
	}

	if err := httputil.WritePaginated(w, specialists, total, limit, offset); err != nil {
		h.log.Error("failed to write paginated response", "handler", "ListSpecialists", "operation", "WritePaginated", "error", err)
	}
}

func (h *CatalogHandler) UpdateSpecialist(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var updates model.SpecialistUpdate
	if !h.decodeBody(w, r, "UpdateSpecialist", &updates) {
		return
	}

	if err := h.service.UpdateSpecialist(r.Context(), ps.ByName("id"), &updates); err != nil {
		h.writeErr(w, "UpdateSpecialist", err)
		return
	}

	httputil.WriteNoContent(w)
}

func (h *CatalogHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/businesses", h.CreateBusiness)
	router.GET("/api/v1/businesses", h.ListBusinesses)
	router.GET("/api/v1/businesses/id/:id", h.GetBusiness)
	router.PATCH("/api/v1/businesses/id/:id", h.UpdateBusiness)

	router.POST("/api/v1/services", h.CreateService)
	router.GET("/api/v1/services", h.ListServices)
	router.GET("/api/v1/services/id/:id", h.GetService)
	router.PATCH("/api/v1/services/id/:id", h.UpdateService)

	router.POST("/api/v1/specialists", h.CreateSpecialist)
	router.GET("/api/v1/specialists", h.ListSpecialists)
	router.GET("/api/v1/specialists/id/:id", h.GetSpecialist)
	router.PATCH("/api/v1/specialists/id/:id", h.UpdateSpecialist)
}
