package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"go-membership-api/internal/config"
	"go-membership-api/internal/handler"
	"go-membership-api/internal/middleware"
)

// Handlers groups the HTTP handlers mounted by New.
type Handlers struct {
	Health       *handler.HealthHandler
	Auth         *handler.AuthHandler
	Organization *handler.OrganizationHandler
	Member       *handler.MemberHandler
	Media        *handler.MediaHandler
}

func New(
	cfg *config.Config,
	gate *middleware.AuthGate,
	metrics *middleware.Metrics,
	h Handlers,
) http.Handler {
	r := chi.NewRouter()
	rateLimitMiddleware := middleware.NewRateLimitMiddleware(cfg.RateLimitRPM, cfg.AuthRateLimitRPM, cfg.BehindProxy)

	r.Use(middleware.Recovery)
	r.Use(middleware.Logging(cfg.BehindProxy))
	r.Use(metrics.Instrument)
	r.Use(middleware.CORS(cfg.CORSOrigins))
	r.Use(middleware.SecurityHeaders)
	r.Use(rateLimitMiddleware.Handler)

	r.NotFound(handler.NotFound)
	r.MethodNotAllowed(handler.MethodNotAllowed)

	r.Get("/health", h.Health.Health)
	r.Handle("/metrics", metrics.Handler())

	r.Route("/api/v1", func(api chi.Router) {
		api.Use(middleware.Timeout(cfg.RequestTimeout))

		api.Route("/auth", func(auth chi.Router) {
			auth.Post("/login", h.Auth.Login)
			auth.Method(http.MethodGet, "/me", gate.Protect(h.Auth.Me))
		})

		api.Route("/organization", func(org chi.Router) {
			org.Post("/add", h.Organization.Register)
			org.Method(http.MethodGet, "/get", gate.Protect(h.Organization.List))
			org.Method(http.MethodPost, "/upload", gate.Protect(h.Organization.UploadImage))
			org.Method(http.MethodGet, "/{id}", gate.Protect(h.Organization.Get))
			org.Method(http.MethodPut, "/{id}", gate.Protect(h.Organization.Update))
			org.Method(http.MethodPost, "/{id}/toggle-blocked", gate.Protect(h.Organization.ToggleBlocked))
		})

		api.Route("/members", func(members chi.Router) {
			members.Method(http.MethodPost, "/add", gate.Protect(h.Member.Create))
			members.Method(http.MethodGet, "/get", gate.Protect(h.Member.List))
			members.Method(http.MethodGet, "/{id}", gate.Protect(h.Member.Get))
			members.Method(http.MethodPut, "/{id}", gate.Protect(h.Member.Update))
			members.Method(http.MethodPost, "/{id}/toggle-blocked", gate.Protect(h.Member.ToggleBlocked))
		})

		api.Route("/media", func(media chi.Router) {
			media.Method(http.MethodPost, "/upload", gate.Protect(h.Media.Upload))
			media.Method(http.MethodGet, "/owner/{kind}/{id}", gate.Protect(h.Media.ListByOwner))
			media.Method(http.MethodGet, "/{id}", gate.Protect(h.Media.Get))
			media.Method(http.MethodDelete, "/{id}", gate.Protect(h.Media.Delete))
		})
	})

	return r
}
