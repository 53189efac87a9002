package http

import (
	"log/slog"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	apierrors "dtlens/internal/errors"
)

// DatasetHandler handles dataset snapshot inspection and reload.
type DatasetHandler struct {
	service      AnalyticsServiceInterface
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
	// defaultPath is the configured workbook reloaded when no file is
	// uploaded.
	defaultPath    string
	maxUploadBytes int64
}

// NewDatasetHandler creates a new dataset handler.
func NewDatasetHandler(service AnalyticsServiceInterface, logger *slog.Logger, errorHandler *apierrors.ErrorHandler, defaultPath string, maxUploadBytes int64) *DatasetHandler {
	return &DatasetHandler{
		service:        service,
		logger:         logger.With(slog.String("component", "dataset_handler")),
		errorHandler:   errorHandler,
		defaultPath:    defaultPath,
		maxUploadBytes: maxUploadBytes,
	}
}

// Routes returns the dataset routes.
func (h *DatasetHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.Get("/", h.GetSnapshot)
	r.Post("/reload", h.Reload)

	return r
}

// GetSnapshot handles GET /api/dataset: snapshot identity and
// classification without the records.
func (h *DatasetHandler) GetSnapshot(w http.ResponseWriter, r *http.Request) {
	snap, err := h.service.Snapshot()
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data": map[string]interface{}{
			"id":             snap.ID,
			"source":         snap.Source,
			"loaded_at":      snap.LoadedAt,
			"records":        snap.Dataset.Len(),
			"classification": snap.Classification,
		},
	})
}

// Reload handles POST /api/dataset/reload. With a multipart "file" part it
// loads the uploaded workbook; without one it re-reads the configured
// source path. Either way the previous snapshot stays intact for readers
// already using it.
func (h *DatasetHandler) Reload(w http.ResponseWriter, r *http.Request) {
	var err error

	file, header, formErr := h.uploadedFile(r)
	if file != nil {
		defer file.Close()
		_, err = h.service.LoadFromReader(r.Context(), header, file)
	} else if formErr != nil {
		h.errorHandler.HandleError(w, r, apierrors.NewProblemDetails(
			http.StatusBadRequest,
			apierrors.TypeValidation,
			"Invalid Upload",
			formErr.Error(),
			r.URL.Path,
		))
		return
	} else {
		_, err = h.service.LoadFromFile(r.Context(), h.defaultPath)
	}

	if err != nil {
		h.logger.ErrorContext(r.Context(), "dataset reload failed", slog.String("error", err.Error()))
		h.errorHandler.HandleError(w, r, apierrors.NewProblemDetails(
			http.StatusUnprocessableEntity,
			apierrors.TypeDatasetUnavailable,
			"Dataset Load Failed",
			err.Error(),
			r.URL.Path,
		))
		return
	}

	snap, err := h.service.Snapshot()
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data": map[string]interface{}{
			"id":        snap.ID,
			"source":    snap.Source,
			"loaded_at": snap.LoadedAt,
			"records":   snap.Dataset.Len(),
		},
	})
}

// uploadedFile extracts the optional multipart workbook. A request without
// a multipart body is a plain path reload, not an error.
func (h *DatasetHandler) uploadedFile(r *http.Request) (multipart.File, string, error) {
	if !strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		return nil, "", nil
	}
	r.Body = http.MaxBytesReader(nil, r.Body, h.maxUploadBytes)
	if err := r.ParseMultipartForm(h.maxUploadBytes); err != nil {
		return nil, "", err
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		return nil, "", err
	}
	return file, header.Filename, nil
}
