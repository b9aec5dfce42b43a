package handler

import (
	"net/http"

	"go-membership-api/internal/auth"
	"go-membership-api/internal/model"
	"go-membership-api/internal/service"
)

type AuthHandler struct {
	service *service.AuthService
}

func NewAuthHandler(service *service.AuthService) *AuthHandler {
	return &AuthHandler{service: service}
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var payload model.LoginRequest
	if err := decodeJSON(w, r, maxJSONBody, &payload); err != nil {
		writeError(w, err)
		return
	}

	result, err := h.service.Login(r.Context(), payload)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, "Login Successful", result)
}

func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request, identity auth.Identity) {
	me, err := h.service.Me(r.Context(), identity)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, "Identity Retrieved Successfully", me)
}
