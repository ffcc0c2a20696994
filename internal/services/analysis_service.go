package services

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"

	"globecli/internal/config"
	apperrors "globecli/internal/errors"
	"globecli/internal/exporter"
	"globecli/internal/ingest"
	"globecli/internal/pipeline"
	"globecli/pkg/contracts/domain"
)

// AnalysisService runs the normalization pipeline and the Pillar Two
// calculations on behalf of the transport layer.
type AnalysisService struct {
	cfg         config.GloBEConfig
	processor   *pipeline.Processor
	excelReader *ingest.ExcelReader
	csvWriter   *exporter.CSVWriter
	excelWriter *exporter.ExcelWriter
	girWriter   *exporter.GIRWriter
	logger      *slog.Logger
}

// NewAnalysisService creates a new analysis service using default logger
func NewAnalysisService(cfg config.GloBEConfig) *AnalysisService {
	return NewAnalysisServiceWithLogger(cfg, slog.Default())
}

// NewAnalysisServiceWithLogger creates a new analysis service with a specific logger
func NewAnalysisServiceWithLogger(cfg config.GloBEConfig, logger *slog.Logger) *AnalysisService {
	if logger == nil {
		logger = slog.Default()
	}
	return &AnalysisService{
		cfg:         cfg,
		processor:   pipeline.NewProcessor(cfg, logger),
		excelReader: ingest.NewExcelReader(logger),
		csvWriter:   exporter.NewCSVWriter(logger),
		excelWriter: exporter.NewExcelWriter(logger),
		girWriter:   exporter.NewGIRWriter(logger),
		logger:      logger,
	}
}

// AnalyzePayload processes an in-memory payload: raw file content or a
// decoded JSON object.
func (s *AnalysisService) AnalyzePayload(ctx context.Context, input interface{}, hint domain.SourceFormat, calculate bool) (*pipeline.Result, error) {
	result, err := s.processor.Process(input, pipeline.Options{
		FormatHint: hint,
		Calculate:  calculate,
	})
	if err != nil {
		s.logger.WarnContext(ctx, "analysis failed",
			slog.String("format_hint", string(hint)),
			slog.String("error", err.Error()))
		return result, err
	}

	s.logger.InfoContext(ctx, "analysis complete",
		slog.String("id", result.ID),
		slog.String("format", string(result.SourceFormat)),
		slog.Bool("valid", result.Validation.IsValid))
	return result, nil
}

// AnalyzeUpload processes an uploaded file. Workbooks are decoded from the
// stream; everything else is read into memory and dispatched on the
// extension-derived format.
func (s *AnalysisService) AnalyzeUpload(ctx context.Context, filename string, src io.Reader, calculate bool) (*pipeline.Result, error) {
	format, err := ingest.DetectFromPath(filename)
	if err != nil {
		return nil, err
	}

	if format == domain.FormatExcel {
		table, err := s.excelReader.ReadStream(src)
		if err != nil {
			return nil, err
		}
		return s.AnalyzePayload(ctx, table, format, calculate)
	}

	content, err := io.ReadAll(src)
	if err != nil {
		return nil, apperrors.NewParsingError(fmt.Sprintf("read upload %s", filename), err)
	}
	return s.AnalyzePayload(ctx, string(content), format, calculate)
}

// AnalyzeBatchUpload treats an uploaded tabular file as one entity per row
// and returns per-entity results plus the group rollup.
func (s *AnalysisService) AnalyzeBatchUpload(ctx context.Context, filename string, src io.Reader) (*pipeline.BatchResult, error) {
	format, err := ingest.DetectFromPath(filename)
	if err != nil {
		return nil, err
	}

	var table *ingest.Table
	switch format {
	case domain.FormatExcel:
		table, err = s.excelReader.ReadStream(src)
	case domain.FormatCSV:
		content, readErr := io.ReadAll(src)
		if readErr != nil {
			return nil, apperrors.NewParsingError(fmt.Sprintf("read upload %s", filename), readErr)
		}
		table, err = ingest.NewCSVReader(s.logger).Read(string(content))
	default:
		return nil, apperrors.NewUnsupportedFormatError(
			fmt.Sprintf("batch analysis requires a tabular file, got %s", format))
	}
	if err != nil {
		return nil, err
	}

	batch, err := s.processor.ProcessTable(table, format)
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "batch analysis complete",
		slog.String("filename", filepath.Base(filename)),
		slog.Int("entities", len(batch.Results)),
		slog.Int("skipped", len(batch.Skipped)))
	return batch, nil
}

// ExportFormat names a supported batch export encoding.
type ExportFormat string

const (
	ExportCSV   ExportFormat = "csv"
	ExportExcel ExportFormat = "xlsx"
	ExportGIR   ExportFormat = "gir"
)

// ParseExportFormat validates a caller-supplied export format name.
func ParseExportFormat(name string) (ExportFormat, error) {
	switch ExportFormat(strings.ToLower(name)) {
	case ExportCSV:
		return ExportCSV, nil
	case ExportExcel:
		return ExportExcel, nil
	case ExportGIR:
		return ExportGIR, nil
	default:
		return "", apperrors.NewAppValidationError(fmt.Sprintf("unsupported export format: %s", name))
	}
}

// ExportBatch writes a batch result to path in the requested format.
func (s *AnalysisService) ExportBatch(ctx context.Context, path string, format ExportFormat, year int, batch *pipeline.BatchResult) error {
	results := entityResults(batch)

	switch format {
	case ExportCSV:
		return s.csvWriter.ExportEntityResults(path, results)
	case ExportExcel:
		return s.excelWriter.ExportWorkbook(path, batch.Summary, results)
	case ExportGIR:
		return s.girWriter.ExportGIR(path, year, batch.Summary, results)
	default:
		return apperrors.NewAppValidationError(fmt.Sprintf("unsupported export format: %s", format))
	}
}

// JurisdictionStatus reports the Pillar Two implementation status of a
// jurisdiction under the service's configuration.
func (s *AnalysisService) JurisdictionStatus(jurisdiction string) string {
	return s.cfg.ImplementationStatus(jurisdiction)
}

// InspectContent reports structural issues in raw tabular content without
// running the full pipeline, for pre-upload checks.
func (s *AnalysisService) InspectContent(filename string, content []byte) []string {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv":
		return ingest.DetectCSVIssues(string(content))
	case ".xlsx", ".xls":
		return s.excelReader.InspectStream(bytes.NewReader(content))
	default:
		return nil
	}
}

func entityResults(batch *pipeline.BatchResult) []domain.EntityResult {
	results := make([]domain.EntityResult, 0, len(batch.Results))
	for _, r := range batch.Results {
		if r.Calculation == nil {
			continue
		}
		results = append(results, domain.EntityResult{
			EntityName:   r.Data.EntityName,
			Jurisdiction: r.Data.JurisdictionOrResidence(),
			Record:       r.Data,
			Calculation:  *r.Calculation,
		})
	}
	return results
}
