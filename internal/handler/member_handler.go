package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"go-membership-api/internal/auth"
	"go-membership-api/internal/model"
	"go-membership-api/internal/service"
)

type MemberHandler struct {
	service *service.MemberService
}

func NewMemberHandler(service *service.MemberService) *MemberHandler {
	return &MemberHandler{service: service}
}

func (h *MemberHandler) Create(w http.ResponseWriter, r *http.Request, identity auth.Identity) {
	var payload model.CreateMemberRequest
	if err := decodeJSON(w, r, maxJSONBody, &payload); err != nil {
		writeError(w, err)
		return
	}

	created, err := h.service.Create(r.Context(), identity, payload)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusCreated, "Member Added Successfully", created)
}

func (h *MemberHandler) List(w http.ResponseWriter, r *http.Request, identity auth.Identity) {
	blocked, err := blockedFilter(r)
	if err != nil {
		writeError(w, err)
		return
	}

	members, err := h.service.List(r.Context(), identity, blocked)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, "Members Retrieved Successfully", members)
}

func (h *MemberHandler) Get(w http.ResponseWriter, r *http.Request, identity auth.Identity) {
	member, err := h.service.Get(r.Context(), identity, chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, "Member Retrieved Successfully", member)
}

func (h *MemberHandler) Update(w http.ResponseWriter, r *http.Request, identity auth.Identity) {
	var payload model.UpdateMemberRequest
	if err := decodeJSON(w, r, maxJSONBody, &payload); err != nil {
		writeError(w, err)
		return
	}

	member, err := h.service.Update(r.Context(), identity, chi.URLParam(r, "id"), payload)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, "Member Updated Successfully", member)
}

func (h *MemberHandler) ToggleBlocked(w http.ResponseWriter, r *http.Request, identity auth.Identity) {
	member, err := h.service.ToggleBlocked(r.Context(), identity, chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, "Member Updated Successfully", member)
}
