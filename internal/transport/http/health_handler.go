package http

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"techkpi/internal/services"
)

// HealthHandler serves the health probes and the build version.
type HealthHandler struct {
	service *services.HealthService
	logger  *slog.Logger
}

func NewHealthHandler(service *services.HealthService, logger *slog.Logger) *HealthHandler {
	return &HealthHandler{
		service: service,
		logger:  logger.With(slog.String("handler", "health")),
	}
}

// Register mounts /health, /health/ready, /health/live and /version on r.
func (h *HealthHandler) Register(r chi.Router) {
	r.Get("/health", h.probe(h.service.HealthCheck))
	r.Get("/health/ready", h.probe(h.service.ReadinessCheck))
	r.Get("/health/live", h.probe(h.service.LivenessCheck))
	r.Get("/version", func(w http.ResponseWriter, r *http.Request) {
		render.JSON(w, r, h.service.Version())
	})
}

// probe renders a check; a not_ready status answers 503.
func (h *HealthHandler) probe(check func(context.Context) services.HealthStatus) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status := check(r.Context())
		if status.Status == "not_ready" {
			h.logger.WarnContext(r.Context(), "probe failed",
				slog.String("path", r.URL.Path),
				slog.String("status", status.Status))
			render.Status(r, http.StatusServiceUnavailable)
		}
		render.JSON(w, r, status)
	}
}
