package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"go-membership-api/internal/auth"
	"go-membership-api/internal/model"
	"go-membership-api/internal/service"
)

type OrganizationHandler struct {
	organizations *service.OrganizationService
	media         *service.MediaService
	maxUpload     int64
}

func NewOrganizationHandler(organizations *service.OrganizationService, media *service.MediaService, maxUpload int64) *OrganizationHandler {
	return &OrganizationHandler{organizations: organizations, media: media, maxUpload: maxUpload}
}

func (h *OrganizationHandler) Register(w http.ResponseWriter, r *http.Request) {
	var payload model.RegisterOrganizationRequest
	if err := decodeJSON(w, r, maxJSONBody, &payload); err != nil {
		writeError(w, err)
		return
	}

	result, err := h.organizations.Register(r.Context(), payload)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusCreated, "Organization Added Successfully", result)
}

func (h *OrganizationHandler) List(w http.ResponseWriter, r *http.Request, _ auth.Identity) {
	blocked, err := blockedFilter(r)
	if err != nil {
		writeError(w, err)
		return
	}

	organizations, err := h.organizations.List(r.Context(), blocked)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, "Organizations Fetched Successfully", organizations)
}

func (h *OrganizationHandler) Get(w http.ResponseWriter, r *http.Request, _ auth.Identity) {
	organization, err := h.organizations.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, "Organization Fetched Successfully", organization)
}

func (h *OrganizationHandler) Update(w http.ResponseWriter, r *http.Request, identity auth.Identity) {
	var payload model.UpdateOrganizationRequest
	if err := decodeJSON(w, r, maxJSONBody, &payload); err != nil {
		writeError(w, err)
		return
	}

	organization, err := h.organizations.Update(r.Context(), identity, chi.URLParam(r, "id"), payload)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, "Organization Updated Successfully", organization)
}

func (h *OrganizationHandler) ToggleBlocked(w http.ResponseWriter, r *http.Request, identity auth.Identity) {
	organization, err := h.organizations.ToggleBlocked(r.Context(), identity, chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, "Organization Updated Successfully", organization)
}

func (h *OrganizationHandler) UploadImage(w http.ResponseWriter, r *http.Request, identity auth.Identity) {
	var payload model.UploadOrganizationImageRequest
	if err := decodeJSON(w, r, base64Limit(h.maxUpload), &payload); err != nil {
		writeError(w, err)
		return
	}

	media, err := h.media.UploadOrganizationImage(r.Context(), identity, payload)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusCreated, "Image Uploaded Successfully", media)
}
