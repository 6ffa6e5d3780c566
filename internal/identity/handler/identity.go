package handler

import (
	"encoding/json"
	"net/http"

	"github.com/julienschmidt/httprouter"

	"medbook/internal/identity/service"
	"medbook/pkg/auth"
	apperrors "medbook/pkg/errors"
	httputil "medbook/pkg/http"
	"medbook/pkg/logger"
	"medbook/pkg/model"
)

type IdentityHandler struct {
	service service.IdentityService
	log     *logger.Logger
}

func NewIdentityHandler(service service.IdentityService, log *logger.Logger) *IdentityHandler {
	return &IdentityHandler{
		service: service,
		log:     log,
	}
}

func (h *IdentityHandler) Register(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req model.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "Register", "operation", "WriteJSON", "error", writeErr)
		}
		return
	}

	tokenResp, err := h.service.Register(r.Context(), &req)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Register", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteCreated(w, tokenResp); err != nil {
		h.log.Error("failed to write created response", "handler", "Register", "operation", "WriteCreated", "error", err)
	}
}

func (h *IdentityHandler) Login(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req model.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "Login", "operation", "WriteJSON", "error", writeErr)
		}
		return
	}

	tokenResp, err := h.service.Login(r.Context(), &req)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Login", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, tokenResp); err != nil {
		h.log.Error("failed to write success response", "handler", "Login", "operation", "WriteSuccess", "error", err)
	}
}

// Me returns the account of the authenticated caller.
func (h *IdentityHandler) Me(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	actor, ok := auth.ActorFromContext(r.Context())
	if !ok {
		if writeErr := httputil.WriteError(w, apperrors.Unauthorized("Authentication required")); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Me", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	user, err := h.service.GetUser(r.Context(), actor.ID)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Me", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, user); err != nil {
		h.log.Error("failed to write success response", "handler", "Me", "operation", "WriteSuccess", "error", err)
	}
}

func (h *IdentityHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/auth/register", h.Register)
	router.POST("/api/v1/auth/login", h.Login)
	router.GET("/api/v1/auth/me", h.Me)
}
