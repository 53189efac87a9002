package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"

	"dtlens/internal/engine"
	apierrors "dtlens/internal/errors"
)

// CompanyHandler handles company lookup and per-entity comparison.
type CompanyHandler struct {
	service      AnalyticsServiceInterface
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
	validate     *validator.Validate
}

// NewCompanyHandler creates a new company handler.
func NewCompanyHandler(service AnalyticsServiceInterface, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *CompanyHandler {
	return &CompanyHandler{
		service:      service,
		logger:       logger.With(slog.String("component", "company_handler")),
		errorHandler: errorHandler,
		validate:     validator.New(),
	}
}

// Routes returns the company routes.
func (h *CompanyHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.Get("/search", h.Search)
	r.Post("/comparison", h.Comparison)

	return r
}

// Search handles GET /api/companies/search. An empty result is a normal
// 200 response with an empty list, never an error.
func (h *CompanyHandler) Search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	match, err := h.service.Search(r.Context(), q.Get("q"), q.Get("field"), q.Get("mode"))
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	if match == nil {
		match = engine.MatchResult{}
	}

	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   match,
		"count":  len(match),
	})
}

// ComparisonRequest is the body of POST /api/companies/comparison.
type ComparisonRequest struct {
	Query   string   `json:"query" validate:"required"`
	Field   string   `json:"field" validate:"omitempty,oneof=identifier code name"`
	Mode    string   `json:"mode" validate:"omitempty,oneof=exact fuzzy"`
	Metrics []string `json:"metrics" validate:"omitempty,min=1,dive,required"`
}

// Bind implements render.Binder.
func (req *ComparisonRequest) Bind(r *http.Request) error {
	return nil
}

// Comparison handles POST /api/companies/comparison: it resolves the query
// and returns the long-form comparison table with a suggested axis range.
func (h *CompanyHandler) Comparison(w http.ResponseWriter, r *http.Request) {
	var req ComparisonRequest
	if err := render.Bind(r, &req); err != nil {
		h.errorHandler.HandleError(w, r, apierrors.NewProblemDetails(
			http.StatusBadRequest,
			apierrors.TypeValidation,
			"Invalid Request Body",
			"request body must be valid JSON",
			r.URL.Path,
		))
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		h.errorHandler.HandleError(w, r, apierrors.NewProblemDetails(
			http.StatusBadRequest,
			apierrors.TypeValidation,
			"Invalid Request Body",
			err.Error(),
			r.URL.Path,
		))
		return
	}

	report, err := h.service.EntityComparison(r.Context(), req.Query, req.Field, req.Mode, req.Metrics)
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
