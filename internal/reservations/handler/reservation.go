package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/julienschmidt/httprouter"

	"medbook/internal/reservations/service"
	"medbook/pkg/auth"
	apperrors "medbook/pkg/errors"
	httputil "medbook/pkg/http"
	"medbook/pkg/logger"
	"medbook/pkg/model"
	"medbook/pkg/sealer"
)

type ReservationHandler struct {
	service service.ReservationService
	sealer  *sealer.Sealer
	log     *logger.Logger
}

func NewReservationHandler(service service.ReservationService, sealer *sealer.Sealer, log *logger.Logger) *ReservationHandler {
	return &ReservationHandler{
		service: service,
		sealer:  sealer,
		log:     log,
	}
}

func (h *ReservationHandler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req model.ReservationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "Create", "operation", "WriteJSON", "error", writeErr)
		}
		return
	}

	reservation, err := h.service.Create(r.Context(), &req)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Create", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteCreated(w, reservation); err != nil {
		h.log.Error("failed to write created response", "handler", "Create", "operation", "WriteCreated", "error", err)
	}
}

func (h *ReservationHandler) GetByID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := ps.ByName("id")

	reservation, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "GetByID", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, reservation); err != nil {
		h.log.Error("failed to write success response", "handler", "GetByID", "operation", "WriteSuccess", "error", err)
	}
}

func (h *ReservationHandler) GetDetail(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := ps.ByName("id")

	detail, err := h.service.GetDetail(r.Context(), id)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "GetDetail", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, detail); err != nil {
		h.log.Error("failed to write success response", "handler", "GetDetail", "operation", "WriteSuccess", "error", err)
	}
}

// List dispatches on query parameters: client_id lists a client's history,
// business_id (with optional specialist_id and time range) lists a calendar.
func (h *ReservationHandler) List(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	limit, offset, err := httputil.ExtractLimitOffset(r)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "List", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	query := r.URL.Query()
	clientID := query.Get("client_id")
	businessID := query.Get("business_id")

	if clientID == "" && businessID == "" {
		if writeErr := httputil.WriteError(w, apperrors.InvalidInput("Either 'client_id' or 'business_id' query parameter is required")); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "List", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	var reservations []*model.Reservation
	var total int64

	if clientID != "" {
		reservations, total, err = h.service.ListByClient(r.Context(), clientID, limit, offset)
	} else {
		var startTime, endTime *time.Time
		startTime, endTime, err = parseTimeRange(query.Get("start_time"), query.Get("end_time"))
		if err == nil {
			reservations, total, err = h.service.ListByBusiness(r.Context(), businessID, query.Get("specialist_id"), startTime, endTime, limit, offset)
		}
	}
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "List", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WritePaginated(w, reservations, total, limit, offset); err != nil {
		h.log.Error("failed to write paginated response", "handler", "List", "operation", "WritePaginated", "error", err)
	}
}

func parseTimeRange(startStr, endStr string) (*time.Time, *time.Time, error) {
	var startTime, endTime *time.Time
	if startStr != "" {
		parsed, err := time.Parse(time.RFC3339, startStr)
		if err != nil {
			return nil, nil, apperrors.InvalidInput("invalid start_time format, must be RFC3339")
		}
		startTime = &parsed
	}
	if endStr != "" {
		parsed, err := time.Parse(time.RFC3339, endStr)
		if err != nil {
			return nil, nil, apperrors.InvalidInput("invalid end_time format, must be RFC3339")
		}
		endTime = &parsed
	}
	return startTime, endTime, nil
}

func (h *ReservationHandler) UpdateStatus(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := ps.ByName("id")

	var update model.StatusUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "UpdateStatus", "operation", "WriteJSON", "error", writeErr)
		}
		return
	}

	reservation, err := h.service.UpdateStatus(r.Context(), id, &update)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "UpdateStatus", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, reservation); err != nil {
		h.log.Error("failed to write success response", "handler", "UpdateStatus", "operation", "WriteSuccess", "error", err)
	}
}

func (h *ReservationHandler) GetAvailability(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	query := r.URL.Query()

	availability, err := h.service.CheckAvailability(
		r.Context(),
		query.Get("specialist_id"),
		query.Get("service_id"),
		query.Get("date"),
	)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "GetAvailability", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, availability); err != nil {
		h.log.Error("failed to write success response", "handler", "GetAvailability", "operation", "WriteSuccess", "error", err)
	}
}

type bookingLinkRequest struct {
	BusinessID   string `json:"business_id"`
	SpecialistID string `json:"specialist_id"`
}

type bookingLinkResponse struct {
	Token string `json:"token"`
}

// CreateBookingLink issues an opaque token a business can embed in a public
// booking page. Only business members may mint tokens.
func (h *ReservationHandler) CreateBookingLink(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req bookingLinkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.BusinessID == "" || req.SpecialistID == "" {
		if writeErr := httputil.WriteError(w, apperrors.InvalidInput("business_id and specialist_id are required")); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "CreateBookingLink", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if actor, ok := auth.ActorFromContext(r.Context()); ok {
		if actor.IsClient() || (!actor.IsAdmin() && !actor.SameBusiness(req.BusinessID)) {
			if writeErr := httputil.WriteError(w, apperrors.Unauthorized("Only business members can create booking links")); writeErr != nil {
				h.log.Error("failed to write error response", "handler", "CreateBookingLink", "operation", "WriteError", "error", writeErr)
			}
			return
		}
	}

	token, err := h.sealer.CreateBookingToken(req.BusinessID, req.SpecialistID)
	if err != nil {
		if writeErr := httputil.WriteError(w, apperrors.Internal("Failed to create booking link", err)); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "CreateBookingLink", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteCreated(w, bookingLinkResponse{Token: token}); err != nil {
		h.log.Error("failed to write created response", "handler", "CreateBookingLink", "operation", "WriteCreated", "error", err)
	}
}

// PublicAvailability resolves a booking-link token and serves availability
// without authentication, so booking pages can be embedded anywhere.
func (h *ReservationHandler) PublicAvailability(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	_, specialistID, err := h.sealer.ParseBookingToken(ps.ByName("token"))
	if err != nil {
		if writeErr := httputil.WriteError(w, apperrors.InvalidInput("Invalid booking link token")); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "PublicAvailability", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	query := r.URL.Query()
	availability, err := h.service.CheckAvailability(
		r.Context(),
		specialistID,
		query.Get("service_id"),
		query.Get("date"),
	)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "PublicAvailability", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, availability); err != nil {
		h.log.Error("failed to write success response", "handler", "PublicAvailability", "operation", "WriteSuccess", "error", err)
	}
}

func (h *ReservationHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/reservations", h.Create)
	router.GET("/api/v1/reservations", h.List)
	router.GET("/api/v1/reservations/id/:id", h.GetByID)
	router.GET("/api/v1/reservations/id/:id/detail", h.GetDetail)
	router.PATCH("/api/v1/reservations/id/:id/status", h.UpdateStatus)
	router.GET("/api/v1/availability", h.GetAvailability)
	router.POST("/api/v1/booking-links", h.CreateBookingLink)
	router.GET("/api/v1/public/booking/:token/availability", h.PublicAvailability)
}
