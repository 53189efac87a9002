package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
)

// HealthHandler reports process liveness and dataset readiness.
type HealthHandler struct {
	service AnalyticsServiceInterface
	started time.Time
	version string
}

// NewHealthHandler creates a new health handler.
func NewHealthHandler(service AnalyticsServiceInterface, version string) *HealthHandler {
	return &HealthHandler{
		service: service,
		started: time.Now().UTC(),
		version: version,
	}
}

// Routes returns the health routes.
func (h *HealthHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.Get("/", h.GetHealth)

	return r
}

// GetHealth handles GET /api/health. The process is alive as soon as the
// server runs; dataset_loaded tells probes whether analytics endpoints will
// answer yet.
func (h *HealthHandler) GetHealth(w http.ResponseWriter, r *http.Request) {
	payload := map[string]interface{}{
		"status":         "healthy",
		"version":        h.version,
		"uptime_seconds": int64(time.Since(h.started).Seconds()),
		"timestamp":      time.Now().UTC(),
		"dataset_loaded": false,
	}

	if snap, err := h.service.Snapshot(); err == nil {
		payload["dataset_loaded"] = true
		payload["snapshot_id"] = snap.ID
		payload["dataset_records"] = snap.Dataset.Len()
	}

	render.JSON(w, r, payload)
}
