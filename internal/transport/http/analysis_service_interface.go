package http

import (
	"context"
	"io"

	"globecli/internal/pipeline"
	"globecli/internal/services"
	"globecli/pkg/contracts/domain"
)

// AnalysisServiceInterface defines the interface for analysis operations
type AnalysisServiceInterface interface {
	AnalyzePayload(ctx context.Context, input interface{}, hint domain.SourceFormat, calculate bool) (*pipeline.Result, error)
	AnalyzeUpload(ctx context.Context, filename string, src io.Reader, calculate bool) (*pipeline.Result, error)
	AnalyzeBatchUpload(ctx context.Context, filename string, src io.Reader) (*pipeline.BatchResult, error)
	ExportBatch(ctx context.Context, path string, format services.ExportFormat, year int, batch *pipeline.BatchResult) error
	JurisdictionStatus(jurisdiction string) string
	InspectContent(filename string, content []byte) []string
}
