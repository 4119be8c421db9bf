package http

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"

	apierrors "prgcli/internal/errors"
	"prgcli/internal/exporter"
	"prgcli/internal/services"
	"prgcli/internal/validation"
)

// maxUploadBytes bounds one multipart upload request.
const maxUploadBytes = 32 << 20

// AnalysisServiceInterface is the service contract the handler depends on.
type AnalysisServiceInterface interface {
	AnalyzeBundled(ctx context.Context, opts services.AnalysisOptions) (*services.AnalysisResult, error)
	AnalyzeUploads(ctx context.Context, sources []services.Source, opts services.AnalysisOptions) (*services.AnalysisResult, error)
	Leagues(ctx context.Context) []string
}

// analysisParams is the bindable filter surface of one request.
type analysisParams struct {
	MinNineties int    `validate:"min=5,max=40"`
	MaxAge      int    `validate:"min=18,max=25"`
	TopN        int    `validate:"min=10,max=100"`
	League      string `validate:"omitempty,oneof=All 'Premier League' 'La Liga' Bundesliga 'Serie A' 'Ligue 1'"`
}

var validate = validator.New()

// AnalysisHandler handles analysis HTTP requests.
type AnalysisHandler struct {
	service      AnalysisServiceInterface
	defaults     services.AnalysisOptions
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
	csv          *exporter.CSVExporter
	excel        *exporter.ExcelExporter
	validator    *validation.FileValidator
}

// NewAnalysisHandler creates a new analysis handler.
func NewAnalysisHandler(service AnalysisServiceInterface, defaults services.AnalysisOptions, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *AnalysisHandler {
	return &AnalysisHandler{
		service:      service,
		defaults:     defaults,
		logger:       logger.With(slog.String("component", "analysis_handler")),
		errorHandler: errorHandler,
		csv:          exporter.NewCSVExporter(logger),
		excel:        exporter.NewExcelExporter(logger),
		validator:    validation.NewFileValidator(logger),
	}
}

// Routes returns the analysis routes.
func (h *AnalysisHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.GetAnalysis)
	r.Post("/upload", h.AnalyzeUploads)
	r.Get("/download/{kind}", h.Download)

	return r
}

// GetAnalysis handles GET /api/analysis over the bundled dataset.
func (h *AnalysisHandler) GetAnalysis(w http.ResponseWriter, r *http.Request) {
	opts, err := h.bindOptions(r)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	result, err := h.service.AnalyzeBundled(r.Context(), opts)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	render.JSON(w, r, result)
}

// AnalyzeUploads handles POST /api/analysis/upload. Each file part becomes
// one source; the form field name is the source's league label.
func (h *AnalysisHandler) AnalyzeUploads(w http.ResponseWriter, r *http.Request) {
	opts, err := h.bindOptions(r)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		h.errorHandler.HandleError(w, r, apierrors.NewValidationError("request is not a valid multipart upload"))
		return
	}

	var sources []services.Source
	for label, headers := range r.MultipartForm.File {
		for _, header := range headers {
			if err := h.validator.ValidateUpload(header.Filename, header.Size); err != nil {
				h.errorHandler.HandleError(w, r, apierrors.NewValidationError(err.Error()))
				return
			}
			file, err := header.Open()
			if err != nil {
				h.errorHandler.HandleError(w, r, apierrors.NewStorageError("failed to open uploaded file", err))
				return
			}
			defer file.Close()
			sources = append(sources, services.Source{Label: label, Reader: file})
		}
	}

	if len(sources) == 0 {
		h.errorHandler.HandleError(w, r, apierrors.NewValidationError("no CSV files uploaded"))
		return
	}

	result, err := h.service.AnalyzeUploads(r.Context(), sources, opts)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	render.JSON(w, r, result)
}

// Download handles GET /api/analysis/download/{kind} with kind one of
// top, all or workbook, streaming the artifact for the bundled dataset.
func (h *AnalysisHandler) Download(w http.ResponseWriter, r *http.Request) {
	kind := chi.URLParam(r, "kind")

	opts, err := h.bindOptions(r)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	result, err := h.service.AnalyzeBundled(r.Context(), opts)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	maxAge := int(opts.MaxAge)
	switch kind {
	case "top":
		name := fmt.Sprintf("top_%d_u%d_midfielders_progressive_distance.csv", opts.TopN, maxAge)
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
		err = h.csv.WriteTo(w, result.Top)
	case "all":
		name := fmt.Sprintf("all_u%d_midfielders_progressive_distance.csv", maxAge)
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
		err = h.csv.WriteTo(w, result.Records)
	case "workbook":
		name := fmt.Sprintf("u%d_midfielders_progressive_distance.xlsx", maxAge)
		w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
		err = h.excel.WriteTo(w, result.Records)
	default:
		h.errorHandler.HandleError(w, r, apierrors.NewValidationError(fmt.Sprintf("unknown download kind %q", kind)))
		return
	}

	if err != nil {
		h.logger.ErrorContext(r.Context(), "failed to stream artifact",
			slog.String("kind", kind),
			slog.String("error", err.Error()))
	}
}

// GetLeagues handles GET /api/leagues.
func (h *AnalysisHandler) GetLeagues(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, map[string]interface{}{
		"leagues": h.service.Leagues(r.Context()),
	})
}

// bindOptions overlays query parameters onto the configured defaults and
// validates the combined surface.
func (h *AnalysisHandler) bindOptions(r *http.Request) (services.AnalysisOptions, error) {
	opts := h.defaults
	params := analysisParams{
		MinNineties: int(opts.MinNineties),
		MaxAge:      int(opts.MaxAge),
		TopN:        opts.TopN,
		League:      opts.LeagueFilter,
	}

	query := r.URL.Query()
	var err error
	if params.MinNineties, err = intParam(query.Get("min_nineties"), params.MinNineties); err != nil {
		return opts, apierrors.NewValidationError("min_nineties must be an integer")
	}
	if params.MaxAge, err = intParam(query.Get("max_age"), params.MaxAge); err != nil {
		return opts, apierrors.NewValidationError("max_age must be an integer")
	}
	if params.TopN, err = intParam(query.Get("top_n"), params.TopN); err != nil {
		return opts, apierrors.NewValidationError("top_n must be an integer")
	}
	if league := query.Get("league"); league != "" {
		params.League = league
	}

	if err := validate.Struct(params); err != nil {
		return opts, apierrors.NewAppError(apierrors.ErrTypeValidation, "analysis parameters out of range", err)
	}

	opts.MinNineties = float64(params.MinNineties)
	opts.MaxAge = float64(params.MaxAge)
	opts.TopN = params.TopN
	opts.LeagueFilter = params.League
	return opts, nil
}

func intParam(value string, fallback int) (int, error) {
	if value == "" {
		return fallback, nil
	}
	return strconv.Atoi(value)
}
