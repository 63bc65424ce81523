package http

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"

	"attendcli/internal/dataprocessing"
	apperrors "attendcli/internal/errors"
	"attendcli/internal/files"
	"attendcli/internal/services"
	"attendcli/pkg/contracts/domain"
)

// AnalysisProvider is the slice of the analysis service the handler needs.
type AnalysisProvider interface {
	Load(ctx context.Context, path string) (*services.LoadResult, error)
	Records(ctx context.Context, employee string) ([]domain.AttendanceRecord, error)
	Employees(ctx context.Context) ([]string, error)
	Statistics(ctx context.Context) (*dataprocessing.Summary, error)
	Session(ctx context.Context) (*services.LoadResult, error)
	Export(ctx context.Context, path string) (string, error)
}

// EventPublisher pushes progress events to connected clients. A nil publisher
// is valid and simply drops events.
type EventPublisher interface {
	Publish(event string, payload interface{})
}

// LogLister enumerates swipe logs available for analysis. A nil lister
// disables the listing endpoint.
type LogLister interface {
	ListLogFiles(ctx context.Context) ([]files.LogFile, error)
}

// AnalysisHandler serves the analysis API.
type AnalysisHandler struct {
	service   AnalysisProvider
	publisher EventPublisher
	logs      LogLister
	logger    *slog.Logger
	validate  *validator.Validate
}

// NewAnalysisHandler creates an analysis handler.
func NewAnalysisHandler(service AnalysisProvider, publisher EventPublisher, logs LogLister, logger *slog.Logger) *AnalysisHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &AnalysisHandler{
		service:   service,
		publisher: publisher,
		logs:      logs,
		logger:    logger,
		validate:  validator.New(),
	}
}

// Routes returns the analysis API router.
func (h *AnalysisHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Post("/analysis", h.LoadAnalysis)
	r.Get("/analysis", h.GetSession)
	r.Get("/records", h.GetRecords)
	r.Get("/employees", h.GetEmployees)
	r.Get("/statistics", h.GetStatistics)
	r.Get("/logs", h.GetLogs)
	r.Post("/export", h.ExportWorkbook)
	r.Get("/health", h.Health)

	return r
}

// Health handles GET /health. It also reports whether a session is loaded so
// the UI can decide what to show on startup.
func (h *AnalysisHandler) Health(w http.ResponseWriter, r *http.Request) {
	_, err := h.service.Session(r.Context())
	render.JSON(w, r, map[string]interface{}{
		"status":         "ok",
		"session_loaded": err == nil,
	})
}

// LoadRequest asks for a swipe log file to be analyzed.
type LoadRequest struct {
	SourcePath string `json:"source_path" validate:"required"`
}

// ExportRequest asks for the current session to be written to a workbook.
type ExportRequest struct {
	OutputPath string `json:"output_path" validate:"required"`
}

// ExportResponse reports where the workbook landed.
type ExportResponse struct {
	OutputPath  string `json:"output_path"`
	RecordCount int    `json:"record_count"`
}

// LoadAnalysis handles POST /analysis. It runs the full pipeline on the
// referenced file and replaces the current session on success.
func (h *AnalysisHandler) LoadAnalysis(w http.ResponseWriter, r *http.Request) {
	var req LoadRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		h.renderError(w, r, apperrors.ErrInvalidRequest)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.renderError(w, r, apperrors.ErrValidation("source_path", "source_path is required"))
		return
	}

	h.publish("analysis:started", map[string]string{"source_path": req.SourcePath})

	result, err := h.service.Load(r.Context(), req.SourcePath)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "analysis load failed",
			slog.String("path", req.SourcePath),
			slog.String("error", err.Error()))
		h.publish("analysis:failed", map[string]string{
			"source_path": req.SourcePath,
			"error":       apperrors.FromError(err).Message,
		})
		h.renderError(w, r, apperrors.FromError(err))
		return
	}

	h.publish("analysis:loaded", result)
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, result)
}

// GetSession handles GET /analysis.
func (h *AnalysisHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	session, err := h.service.Session(r.Context())
	if err != nil {
		h.renderError(w, r, apperrors.FromError(err))
		return
	}
	render.JSON(w, r, session)
}

// GetRecords handles GET /records. The optional employee query parameter
// narrows the view to one person.
func (h *AnalysisHandler) GetRecords(w http.ResponseWriter, r *http.Request) {
	employee := r.URL.Query().Get("employee")

	records, err := h.service.Records(r.Context(), employee)
	if err != nil {
		h.renderError(w, r, apperrors.FromError(err))
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"records": records,
		"count":   len(records),
	})
}

// GetEmployees handles GET /employees.
func (h *AnalysisHandler) GetEmployees(w http.ResponseWriter, r *http.Request) {
	employees, err := h.service.Employees(r.Context())
	if err != nil {
		h.renderError(w, r, apperrors.FromError(err))
		return
	}
	render.JSON(w, r, map[string]interface{}{
		"employees": employees,
		"count":     len(employees),
	})
}

// GetStatistics handles GET /statistics.
func (h *AnalysisHandler) GetStatistics(w http.ResponseWriter, r *http.Request) {
	summary, err := h.service.Statistics(r.Context())
	if err != nil {
		h.renderError(w, r, apperrors.FromError(err))
		return
	}
	render.JSON(w, r, summary)
}

// GetLogs handles GET /logs, listing the swipe logs in the data directory.
func (h *AnalysisHandler) GetLogs(w http.ResponseWriter, r *http.Request) {
	if h.logs == nil {
		h.renderError(w, r, apperrors.NotFoundError("log listing"))
		return
	}

	logs, err := h.logs.ListLogFiles(r.Context())
	if err != nil {
		h.renderError(w, r, apperrors.FromError(err))
		return
	}
	render.JSON(w, r, map[string]interface{}{
		"logs":  logs,
		"count": len(logs),
	})
}

// ExportWorkbook handles POST /export. The export always covers the full
// session, never a filtered view.
func (h *AnalysisHandler) ExportWorkbook(w http.ResponseWriter, r *http.Request) {
	var req ExportRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		h.renderError(w, r, apperrors.ErrInvalidRequest)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.renderError(w, r, apperrors.ErrValidation("output_path", "output_path is required"))
		return
	}

	path, err := h.service.Export(r.Context(), req.OutputPath)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "export failed",
			slog.String("path", req.OutputPath),
			slog.String("error", err.Error()))
		h.publish("export:failed", map[string]string{
			"output_path": req.OutputPath,
			"error":       apperrors.FromError(err).Message,
		})
		h.renderError(w, r, apperrors.FromError(err))
		return
	}

	resp := ExportResponse{OutputPath: path}
	if records, err := h.service.Records(r.Context(), ""); err == nil {
		resp.RecordCount = len(records)
	}

	h.publish("export:completed", resp)
	render.JSON(w, r, resp)
}

func (h *AnalysisHandler) publish(event string, payload interface{}) {
	if h.publisher != nil {
		h.publisher.Publish(event, payload)
	}
}

func (h *AnalysisHandler) renderError(w http.ResponseWriter, r *http.Request, apiErr *apperrors.APIError) {
	if err := render.Render(w, r, apperrors.NewErrorResponse(apiErr)); err != nil {
		apperrors.WriteError(w, apiErr)
	}
}
