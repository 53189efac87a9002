// Package http exposes the analytics engine over a chi router with
// RFC 7807 error responses. Handlers translate query parameters, delegate
// to the service and render plain data structures; every chart and widget
// decision stays with the consumer.
package http

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	apierrors "dtlens/internal/errors"
)

// AnalyticsHandler handles the cross-sectional analysis endpoints.
type AnalyticsHandler struct {
	service      AnalyticsServiceInterface
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewAnalyticsHandler creates a new analytics handler.
func NewAnalyticsHandler(service AnalyticsServiceInterface, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *AnalyticsHandler {
	return &AnalyticsHandler{
		service:      service,
		logger:       logger.With(slog.String("component", "analytics_handler")),
		errorHandler: errorHandler,
	}
}

// Routes returns the analytics routes.
func (h *AnalyticsHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.Get("/summary", h.GetSummary)
	r.Get("/industry-comparison", h.GetIndustryComparison)
	r.Get("/rankings", h.GetRankings)

	return r
}

// GetSummary handles GET /api/analytics/summary.
func (h *AnalyticsHandler) GetSummary(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	report, err := h.service.Summary(r.Context(), q.Get("metric"), q.Get("x"), q.Get("y"))
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   report,
	})
}

// GetIndustryComparison handles GET /api/analytics/industry-comparison.
// Metrics arrive as a comma separated list; an empty list falls back to the
// service default.
func (h *AnalyticsHandler) GetIndustryComparison(w http.ResponseWriter, r *http.Request) {
	report, err := h.service.IndustryComparison(r.Context(), splitMetrics(r.URL.Query().Get("metrics")))
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   report,
		"count":  len(report.Records),
	})
}

// GetRankings handles GET /api/analytics/rankings.
func (h *AnalyticsHandler) GetRankings(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	limit := 0
	if raw := q.Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			h.errorHandler.HandleError(w, r, apierrors.NewProblemDetails(
				http.StatusBadRequest,
				apierrors.TypeValidation,
				"Invalid Query Input",
				"limit must be an integer",
				r.URL.Path,
			))
			return
		}
		limit = parsed
	}

	report, err := h.service.Rankings(r.Context(), q.Get("metric"), q.Get("direction"), limit)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   report,
		"count":  len(report.Records),
	})
}

// splitMetrics parses a comma separated metric list, dropping empty
// segments so trailing commas are harmless.
func splitMetrics(raw string) []string {
	if raw == "" {
		return nil
	}
	var metrics []string
	for _, m := range strings.Split(raw, ",") {
		if m = strings.TrimSpace(m); m != "" {
			metrics = append(metrics, m)
		}
	}
	return metrics
}
