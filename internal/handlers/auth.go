package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/lexalyze/legal-docs-api/internal/middleware"
	"github.com/lexalyze/legal-docs-api/internal/models"
	"github.com/lexalyze/legal-docs-api/internal/services"
	"github.com/lexalyze/legal-docs-api/internal/utils"
)

type AuthHandler struct {
	service services.AuthService
	logger  *utils.Logger
}

func NewAuthHandler(service services.AuthService, logger *utils.Logger) *AuthHandler {
	return &AuthHandler{
		service: service,
		logger:  logger,
	}
}

func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req models.SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, h.logger, utils.NewBadRequestError("Invalid request body"))
		return
	}

	resp, err := h.service.Signup(r.Context(), &req)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}

	respondJSON(w, h.logger, http.StatusCreated, resp)
}

func (h *AuthHandler) Signin(w http.ResponseWriter, r *http.Request) {
	var req models.SigninRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, h.logger, utils.NewBadRequestError("Invalid request body"))
		return
	}

	resp, err := h.service.Signin(r.Context(), &req)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}

	respondJSON(w, h.logger, http.StatusOK, resp)
}

func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	user, err := h.service.Me(r.Context(), middleware.UserID(r.Context()))
	if err != nil {
		respondError(w, h.logger, err)
		return
	}

	respondJSON(w, h.logger, http.StatusOK, map[string]*models.AuthUser{"user": user})
}
