package http

import (
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"

	apierrors "globecli/internal/errors"
	"globecli/internal/metrics"
	"globecli/internal/pipeline"
	"globecli/pkg/contracts/domain"
)

// AnalysisHandler handles analysis-related HTTP requests
type AnalysisHandler struct {
	service  AnalysisServiceInterface
	validate *validator.Validate
	metrics  *metrics.Metrics
	maxBytes int64
	logger   *slog.Logger
}

// NewAnalysisHandler creates a new analysis handler
func NewAnalysisHandler(service AnalysisServiceInterface, m *metrics.Metrics, maxUploadBytes int64, logger *slog.Logger) *AnalysisHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &AnalysisHandler{
		service:  service,
		validate: validator.New(),
		metrics:  m,
		maxBytes: maxUploadBytes,
		logger:   logger.With(slog.String("handler", "analysis")),
	}
}

// Routes returns the analysis routes
func (h *AnalysisHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.Post("/analyze", h.Analyze)
	r.Post("/upload", h.Upload)
	r.Post("/batch", h.Batch)
	r.Post("/inspect", h.Inspect)
	r.Get("/jurisdictions/{jurisdiction}/status", h.JurisdictionStatus)

	return r
}

// AnalyzeRequest is the JSON analysis request body. Exactly one of Data and
// Content carries the input: Data is an already-decoded financial object,
// Content is raw file text (csv, json, xml or extracted document text).
type AnalyzeRequest struct {
	Data      map[string]interface{} `json:"data" validate:"required_without=Content,excluded_with=Content"`
	Content   string                 `json:"content" validate:"required_without=Data"`
	Format    string                 `json:"format" validate:"omitempty,oneof=excel csv json xml pdf"`
	Calculate bool                   `json:"calculate"`
}

// Analyze handles POST /api/analyze
func (h *AnalysisHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	var req AnalyzeRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		h.renderError(w, r, apierrors.InvalidRequestWithError(err))
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.renderError(w, r, apierrors.InvalidRequestWithError(err))
		return
	}

	var input interface{}
	if req.Data != nil {
		input = req.Data
	} else {
		input = req.Content
	}

	start := time.Now()
	result, err := h.service.AnalyzePayload(r.Context(), input, domain.SourceFormat(req.Format), req.Calculate)
	h.observe(start, result, err)
	if err != nil {
		h.renderAnalysisError(w, r, result, err)
		return
	}
	render.JSON(w, r, result)
}

// Upload handles POST /api/upload: a single-entity file as multipart form
// data under the "file" key.
func (h *AnalysisHandler) Upload(w http.ResponseWriter, r *http.Request) {
	file, header, ok := h.openUpload(w, r)
	if !ok {
		return
	}
	defer file.Close()

	calculate := r.URL.Query().Get("calculate") != "false"
	start := time.Now()
	result, err := h.service.AnalyzeUpload(r.Context(), header.Filename, file, calculate)
	h.observe(start, result, err)
	if err != nil {
		h.renderAnalysisError(w, r, result, err)
		return
	}
	render.JSON(w, r, result)
}

// Batch handles POST /api/batch: a multi-entity tabular file, one entity per
// row, returning per-entity results and the group rollup.
func (h *AnalysisHandler) Batch(w http.ResponseWriter, r *http.Request) {
	file, header, ok := h.openUpload(w, r)
	if !ok {
		return
	}
	defer file.Close()

	batch, err := h.service.AnalyzeBatchUpload(r.Context(), header.Filename, file)
	if err != nil {
		h.renderError(w, r, apierrors.FromAppError(err))
		return
	}

	if h.metrics != nil {
		h.metrics.BelowThresholdHits.Add(float64(batch.Summary.BelowThresholdCount))
	}
	render.JSON(w, r, batch)
}

// InspectResponse reports structural issues found in an uploaded file.
type InspectResponse struct {
	Filename string   `json:"filename"`
	Issues   []string `json:"issues"`
}

// Inspect handles POST /api/inspect: a pre-flight structural check that
// reports repairable issues without running the pipeline.
func (h *AnalysisHandler) Inspect(w http.ResponseWriter, r *http.Request) {
	file, header, ok := h.openUpload(w, r)
	if !ok {
		return
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		h.renderError(w, r, apierrors.ErrValidation("file", "could not read upload: "+err.Error()))
		return
	}

	render.JSON(w, r, InspectResponse{
		Filename: header.Filename,
		Issues:   h.service.InspectContent(header.Filename, content),
	})
}

// JurisdictionStatus handles GET /api/jurisdictions/{jurisdiction}/status
func (h *AnalysisHandler) JurisdictionStatus(w http.ResponseWriter, r *http.Request) {
	jurisdiction := chi.URLParam(r, "jurisdiction")
	if jurisdiction == "" {
		h.renderError(w, r, apierrors.ErrValidation("jurisdiction", "jurisdiction is required"))
		return
	}
	render.JSON(w, r, map[string]string{
		"jurisdiction": jurisdiction,
		"status":       h.service.JurisdictionStatus(jurisdiction),
	})
}

func (h *AnalysisHandler) openUpload(w http.ResponseWriter, r *http.Request) (multipart.File, *multipart.FileHeader, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBytes)
	if err := r.ParseMultipartForm(h.maxBytes); err != nil {
		h.renderError(w, r, apierrors.ErrValidation("file", "could not parse multipart form: "+err.Error()))
		return nil, nil, false
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		h.renderError(w, r, apierrors.ErrValidation("file", "a file upload under the \"file\" key is required"))
		return nil, nil, false
	}
	if h.metrics != nil {
		h.metrics.UploadBytes.Observe(float64(header.Size))
	}
	return file, header, true
}

// observe records the outcome of a single-record analysis.
func (h *AnalysisHandler) observe(start time.Time, result *pipeline.Result, err error) {
	if h.metrics == nil {
		return
	}

	format := "unknown"
	if result != nil && result.SourceFormat != "" {
		format = string(result.SourceFormat)
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	h.metrics.AnalysesTotal.WithLabelValues(format, outcome).Inc()
	h.metrics.AnalysisDuration.Observe(time.Since(start).Seconds())

	if err == nil && result != nil && result.Calculation != nil && result.Calculation.BelowThreshold {
		h.metrics.BelowThresholdHits.Inc()
	}
}

// renderAnalysisError returns the partial pipeline result alongside the
// error details when normalization succeeded but calculation could not run.
func (h *AnalysisHandler) renderAnalysisError(w http.ResponseWriter, r *http.Request, result *pipeline.Result, err error) {
	apiErr := apierrors.FromAppError(err)
	if result == nil {
		h.renderError(w, r, apiErr)
		return
	}

	render.Status(r, apiErr.StatusCode)
	render.JSON(w, r, map[string]interface{}{
		"result": result,
		"error":  apierrors.NewErrorResponse(apiErr),
	})
}

func (h *AnalysisHandler) renderError(w http.ResponseWriter, r *http.Request, apiErr *apierrors.APIError) {
	h.logger.WarnContext(r.Context(), "request failed",
		slog.String("path", r.URL.Path),
		slog.Int("status", apiErr.StatusCode),
		slog.String("error", apiErr.Message))
	if err := render.Render(w, r, apierrors.NewErrorResponse(apiErr)); err != nil {
		apierrors.WriteError(w, apiErr)
	}
}
