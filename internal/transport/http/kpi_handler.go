package http

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	"techkpi/internal/dataprocessing"
	apierrors "techkpi/internal/errors"
	"techkpi/internal/exporter"
	"techkpi/internal/kpi"
	kpimw "techkpi/internal/middleware"
	"techkpi/internal/services"
	"techkpi/pkg/contracts/domain"
)

// multipartMemory is the part of an upload kept in memory before spilling to disk
const multipartMemory = 8 << 20

const (
	contentTypeCSV  = "text/csv; charset=utf-8"
	contentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	contentTypePNG  = "image/png"
)

// processForm holds the non-file fields of a processing request
type processForm struct {
	Start string `form:"start" validate:"required_with=End,omitempty,isodate"`
	End   string `form:"end" validate:"required_with=Start,omitempty,isodate"`
	Demo  string `form:"demo" validate:"omitempty,oneof=true false 1 0"`
}

// KPIHandler serves processing, results, charts and exports
type KPIHandler struct {
	service        KPIServiceInterface
	charts         *exporter.ChartRenderer
	csv            *exporter.CSVWriter
	validator      *kpimw.Validator
	maxUploadBytes int64
	logger         *slog.Logger
	errorHandler   *apierrors.ErrorHandler
}

// NewKPIHandler creates a new KPI handler
func NewKPIHandler(
	service KPIServiceInterface,
	csv *exporter.CSVWriter,
	maxUploadBytes int64,
	logger *slog.Logger,
	errorHandler *apierrors.ErrorHandler,
) *KPIHandler {
	return &KPIHandler{
		service:        service,
		charts:         exporter.NewChartRenderer(),
		csv:            csv,
		validator:      kpimw.NewValidator(logger),
		maxUploadBytes: maxUploadBytes,
		logger:         logger.With(slog.String("component", "kpi_handler")),
		errorHandler:   errorHandler,
	}
}

// Routes returns the KPI routes
func (h *KPIHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.With(kpimw.ContentTypeValidator(h.errorHandler, "multipart/form-data")).Post("/process", h.Process)

	r.Group(func(r chi.Router) {
		r.Use(render.SetContentType(render.ContentTypeJSON))
		r.Get("/results", h.GetResults)
		r.Get("/results/technicians/{name}", h.GetTechnician)
		r.Get("/views", h.GetViews)
		r.Get("/summary", h.GetSummary)
	})

	r.Get("/charts/{chart}", h.GetChart)
	r.Get("/export/{format}", h.Export)

	return r
}

// Process handles POST /api/kpi/process
func (h *KPIHandler) Process(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetReqID(r.Context())

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.errorHandler.HandleError(w, r, apierrors.ErrFileTooLarge)
			return
		}
		h.errorHandler.HandleError(w, r, apierrors.InvalidRequestWithError(err))
		return
	}
	defer r.MultipartForm.RemoveAll()

	form := processForm{
		Start: r.FormValue("start"),
		End:   r.FormValue("end"),
		Demo:  r.FormValue("demo"),
	}
	if err := h.validator.ValidateStruct(form); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	req, err := h.processRequest(r, form)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	defer closeSources(req.Sources)

	h.logger.InfoContext(r.Context(), "processing reports",
		slog.String("request_id", reqID),
		slog.Bool("demo", req.Demo),
		slog.Int("files", len(req.Sources)),
	)

	result, err := h.service.Process(r.Context(), req)
	if err != nil {
		if errors.Is(err, services.ErrNoData) {
			render.JSON(w, r, map[string]interface{}{
				"status":      "no_data",
				"message":     "No data found for the selected date range",
				"range":       req.Range,
				"range_label": req.Range.Label(),
			})
			return
		}
		h.errorHandler.HandleError(w, r, mapProcessError(err))
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   result,
	})
}

// processRequest turns the validated form and the uploaded files into a
// service request. Absent files are left out so the service can name them.
func (h *KPIHandler) processRequest(r *http.Request, form processForm) (services.ProcessRequest, error) {
	var req services.ProcessRequest

	if form.Demo != "" {
		demo, err := strconv.ParseBool(form.Demo)
		if err != nil {
			return req, apierrors.ErrValidation("demo", err.Error())
		}
		req.Demo = demo
	}

	if form.Start != "" {
		rng, err := domain.ParseDateRange(form.Start, form.End)
		if err != nil {
			return req, apierrors.ErrValidation("start", err.Error())
		}
		req.Range = rng
	}
	req.Range = h.service.ResolveRange(req.Range)

	if req.Demo {
		return req, nil
	}

	req.Sources = make(map[domain.TableName]dataprocessing.Source, len(domain.AllTables()))
	for _, table := range domain.AllTables() {
		file, header, err := r.FormFile(string(table))
		if errors.Is(err, http.ErrMissingFile) {
			continue
		}
		if err != nil {
			closeSources(req.Sources)
			return req, apierrors.InvalidRequestWithError(err)
		}
		req.Sources[table] = dataprocessing.Source{Filename: header.Filename, Reader: file}
	}
	return req, nil
}

func closeSources(sources map[domain.TableName]dataprocessing.Source) {
	for _, src := range sources {
		if f, ok := src.Reader.(multipart.File); ok {
			f.Close()
		}
	}
}

// mapProcessError converts processing failures to API errors
func mapProcessError(err error) error {
	var (
		missing  *dataprocessing.MissingInputError
		parseErr *dataprocessing.ParseError
	)
	switch {
	case errors.As(err, &missing):
		return apierrors.MissingInput(missing.Names())
	case errors.As(err, &parseErr):
		return apierrors.ParseFailed(string(parseErr.Table), parseErr.File, parseErr.Err)
	}
	return err
}

// currentResult writes the error response itself when no result is held
func (h *KPIHandler) currentResult(w http.ResponseWriter, r *http.Request) (*kpi.Result, bool) {
	result, err := h.service.Current()
	if err != nil {
		if errors.Is(err, services.ErrNoResult) {
			h.errorHandler.HandleError(w, r, apierrors.ErrNoResult)
			return nil, false
		}
		h.errorHandler.HandleError(w, r, err)
		return nil, false
	}
	return result, true
}

// GetResults handles GET /api/kpi/results
func (h *KPIHandler) GetResults(w http.ResponseWriter, r *http.Request) {
	result, ok := h.currentResult(w, r)
	if !ok {
		return
	}
	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   result,
	})
}

// GetTechnician handles GET /api/kpi/results/technicians/{name}
func (h *KPIHandler) GetTechnician(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if unescaped, err := url.PathUnescape(name); err == nil {
		name = unescaped
	}

	card, err := h.service.Technician(name)
	switch {
	case err == nil:
		render.JSON(w, r, map[string]interface{}{
			"status": "success",
			"data":   card,
		})
	case errors.Is(err, services.ErrNoResult):
		h.errorHandler.HandleError(w, r, apierrors.ErrNoResult)
	case errors.Is(err, services.ErrTechnicianNotFound):
		h.errorHandler.HandleError(w, r, apierrors.TechnicianNotFound(name))
	default:
		h.errorHandler.HandleError(w, r, err)
	}
}

// GetViews handles GET /api/kpi/views
func (h *KPIHandler) GetViews(w http.ResponseWriter, r *http.Request) {
	result, ok := h.currentResult(w, r)
	if !ok {
		return
	}
	render.JSON(w, r, map[string]interface{}{
		"status":      "success",
		"range_label": result.RangeLabel(),
		"data":        result.Views(),
	})
}

// GetSummary handles GET /api/kpi/summary
func (h *KPIHandler) GetSummary(w http.ResponseWriter, r *http.Request) {
	result, ok := h.currentResult(w, r)
	if !ok {
		return
	}
	render.JSON(w, r, map[string]interface{}{
		"status":      "success",
		"range_label": result.RangeLabel(),
		"data":        result.Summary(),
	})
}

// GetChart handles GET /api/kpi/charts/{chart}
func (h *KPIHandler) GetChart(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "chart")
	chart, ok := exporter.ParseChart(name)
	if !ok {
		h.errorHandler.HandleError(w, r, apierrors.UnknownChart(name))
		return
	}

	result, ok := h.currentResult(w, r)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := h.charts.Render(&buf, result, chart); err != nil {
		if errors.Is(err, exporter.ErrNothingToPlot) {
			h.errorHandler.HandleError(w, r, apierrors.ErrNoResult)
			return
		}
		h.errorHandler.HandleError(w, r, fmt.Errorf("render %s chart: %w", chart, err))
		return
	}

	w.Header().Set("Content-Type", contentTypePNG)
	w.Header().Set("Cache-Control", "no-store")
	w.Write(buf.Bytes())
}

// Export handles GET /api/kpi/export/{format}. CSV exports carry a UTF-8
// byte order mark unless bom=false is passed.
func (h *KPIHandler) Export(w http.ResponseWriter, r *http.Request) {
	format := chi.URLParam(r, "format")
	if format != "csv" && format != "xlsx" {
		h.errorHandler.HandleError(w, r, apierrors.UnknownFormat(format))
		return
	}

	result, ok := h.currentResult(w, r)
	if !ok {
		return
	}

	var (
		buf         bytes.Buffer
		err         error
		contentType string
	)
	switch format {
	case "csv":
		bom := r.URL.Query().Get("bom") != "false"
		err = h.csv.WriteKPIs(&buf, result, bom)
		contentType = contentTypeCSV
	case "xlsx":
		err = exporter.WriteWorkbook(&buf, result)
		contentType = contentTypeXLSX
	}
	if err != nil {
		h.errorHandler.HandleError(w, r, fmt.Errorf("export %s: %w", format, err))
		return
	}

	filename := exportFilename(result, format)
	h.logger.InfoContext(r.Context(), "exporting KPIs",
		slog.String("request_id", middleware.GetReqID(r.Context())),
		slog.String("format", format),
		slog.String("filename", filename),
		slog.Int("bytes", buf.Len()),
	)

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.Write(buf.Bytes())
}

// exportFilename names an export after the range it covers
func exportFilename(result *kpi.Result, format string) string {
	rng := result.Range()
	return fmt.Sprintf("technician_kpis_%s_%s.%s",
		rng.Start.Format(domain.DateLayout), rng.End.Format(domain.DateLayout), format)
}
