package errors

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	"dtlens/internal/engine"
	"dtlens/internal/services"
)

// ErrorHandler provides centralized error handling for the HTTP layer.
type ErrorHandler struct {
	logger *slog.Logger
}

// NewErrorHandler creates a new error handler.
func NewErrorHandler(logger *slog.Logger) *ErrorHandler {
	return &ErrorHandler{
		logger: logger.With(slog.String("component", "error_handler")),
	}
}

// HandleError converts any error to RFC 7807 format and responds.
func (h *ErrorHandler) HandleError(w http.ResponseWriter, r *http.Request, err error) {
	if err == nil {
		return
	}

	reqID := middleware.GetReqID(r.Context())
	h.logger.ErrorContext(r.Context(), "request failed",
		slog.String("error", err.Error()),
		slog.String("request_id", reqID),
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
	)

	problem := h.ErrorToProblem(err, r)
	problem.WithExtension("trace_id", reqID)
	render.Render(w, r, problem)
}

// ErrorToProblem maps the engine and service error taxonomy onto RFC 7807
// problems. Validation and configuration failures are recoverable client
// errors; a schema failure blocks the whole session, so it renders as
// service-unavailable until a usable dataset is loaded.
func (h *ErrorHandler) ErrorToProblem(err error, r *http.Request) *ProblemDetails {
	var (
		problem          *ProblemDetails
		validationErr    *engine.ValidationError
		configurationErr *engine.ConfigurationError
		schemaErr        *engine.SchemaError
	)

	switch {
	case errors.As(err, &problem):
		return problem

	case errors.As(err, &validationErr):
		return NewProblemDetails(
			http.StatusBadRequest,
			TypeValidation,
			"Invalid Query Input",
			validationErr.Error(),
			r.URL.Path,
		).WithExtension("field", validationErr.Field)

	case errors.As(err, &configurationErr):
		return NewProblemDetails(
			http.StatusBadRequest,
			TypeConfiguration,
			"Invalid Parameters",
			configurationErr.Error(),
			r.URL.Path,
		).WithExtension("parameter", configurationErr.Param)

	case errors.As(err, &schemaErr):
		return NewProblemDetails(
			http.StatusServiceUnavailable,
			TypeSchema,
			"Dataset Schema Unusable",
			schemaErr.Error(),
			r.URL.Path,
		)

	case errors.Is(err, services.ErrNoDataset):
		return NewProblemDetails(
			http.StatusServiceUnavailable,
			TypeDatasetUnavailable,
			"No Dataset Loaded",
			"No dataset snapshot is available. Load a workbook first.",
			r.URL.Path,
		)
	}

	return NewProblemDetails(
		http.StatusInternalServerError,
		TypeInternal,
		"Internal Server Error",
		"An unexpected error occurred while processing the request.",
		r.URL.Path,
	)
}
