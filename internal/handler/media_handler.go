package handler

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"go-membership-api/internal/auth"
	"go-membership-api/internal/model"
	"go-membership-api/internal/service"
)

type MediaHandler struct {
	service   *service.MediaService
	maxUpload int64
}

func NewMediaHandler(service *service.MediaService, maxUpload int64) *MediaHandler {
	return &MediaHandler{service: service, maxUpload: maxUpload}
}

// base64Limit is the JSON body size that can carry a payload of maxUpload
// bytes once base64 encoded, plus room for the other fields.
func base64Limit(maxUpload int64) int64 {
	return (maxUpload+2)/3*4 + 64*1024
}

func (h *MediaHandler) Upload(w http.ResponseWriter, r *http.Request, identity auth.Identity) {
	var payload model.UploadMediaRequest
	if err := decodeJSON(w, r, base64Limit(h.maxUpload), &payload); err != nil {
		writeError(w, err)
		return
	}

	media, err := h.service.Upload(r.Context(), identity, payload)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusCreated, "Media Uploaded Successfully", media)
}

// Get streams the stored bytes with the recorded content type.
func (h *MediaHandler) Get(w http.ResponseWriter, r *http.Request, identity auth.Identity) {
	content, err := h.service.Get(r.Context(), identity, chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", content.MimeType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("inline; filename=%q", content.FileName))
	http.ServeContent(w, r, content.FileName, content.UpdatedAt, bytes.NewReader(content.Content))
}

func (h *MediaHandler) ListByOwner(w http.ResponseWriter, r *http.Request, identity auth.Identity) {
	media, err := h.service.ListByOwner(r.Context(), identity, chi.URLParam(r, "kind"), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, "Media Retrieved Successfully", media)
}

func (h *MediaHandler) Delete(w http.ResponseWriter, r *http.Request, identity auth.Identity) {
	if err := h.service.Delete(r.Context(), identity, chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, "Media Deleted Successfully", nil)
}
