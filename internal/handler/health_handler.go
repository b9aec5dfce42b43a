package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"go-membership-api/internal/model"
	"go-membership-api/pkg/apierror"
)

type healthChecker interface {
	Health(ctx context.Context) error
}

type HealthHandler struct {
	db healthChecker
}

func NewHealthHandler(db healthChecker) *HealthHandler {
	return &HealthHandler{db: db}
}

func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	status := model.HealthStatus{Status: "ok", Database: "ok"}

	if h.db != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := h.db.Health(ctx); err != nil {
			slog.Warn("health check failed", "error", err)
			status = model.HealthStatus{Status: "degraded", Database: "unreachable"}
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusServiceUnavailable)
			writeEnvelopeBody(w, apierror.CodeInternal, false, "Database Unreachable", status)
			return
		}
	}

	writeSuccess(w, http.StatusOK, "Engine Running", status)
}
