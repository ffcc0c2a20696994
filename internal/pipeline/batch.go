package pipeline

import (
	"log/slog"

	"github.com/google/uuid"

	"globecli/internal/ingest"
	"globecli/internal/validation"
	"globecli/pkg/contracts/domain"
)

// BatchResult holds per-entity results for a multi-row table together with
// the jurisdiction and group rollups. Rows that could not be calculated are
// reported in Skipped rather than aborting the batch.
type BatchResult struct {
	Results []Result                   `json:"results"`
	Skipped []SkippedRow               `json:"skipped,omitempty"`
	Summary domain.ConsolidatedSummary `json:"summary"`
}

// SkippedRow records why a row was excluded from the rollup.
type SkippedRow struct {
	Row    int    `json:"row"`
	Entity string `json:"entity,omitempty"`
	Reason string `json:"reason"`
}

// ProcessTable treats each table row as one constituent entity, runs the
// validation and calculation stages per row and aggregates the survivors.
func (p *Processor) ProcessTable(table *ingest.Table, format domain.SourceFormat) (*BatchResult, error) {
	adapted := p.adapter.AdaptTableRows(table, format)

	batch := &BatchResult{}
	var entityResults []domain.EntityResult

	for i, row := range adapted {
		result := Result{
			ID:           uuid.New().String(),
			SourceFormat: format,
			Data:         row.Record,
			Fields:       row.Fields,
		}
		result.Validation = p.recordChecker.ValidateFinancial(row.Record, row.Fields)
		result.Validation.Warnings = append(result.Validation.Warnings, row.Warnings...)

		if err := validation.RequiredFieldError(result.Validation); err != nil {
			batch.Skipped = append(batch.Skipped, SkippedRow{
				Row:    i + 1,
				Entity: row.Record.EntityName,
				Reason: err.Error(),
			})
			continue
		}

		calc, err := p.engine.Analyze(&result.Data, result.Fields)
		if err != nil {
			batch.Skipped = append(batch.Skipped, SkippedRow{
				Row:    i + 1,
				Entity: row.Record.EntityName,
				Reason: err.Error(),
			})
			continue
		}
		result.Calculation = calc
		result.Recommendations = p.engine.Recommend(&result.Data, result.Fields, calc)
		batch.Results = append(batch.Results, result)

		entityResults = append(entityResults, domain.EntityResult{
			EntityName:   row.Record.EntityName,
			Jurisdiction: row.Record.JurisdictionOrResidence(),
			Record:       row.Record,
			Calculation:  *calc,
		})
	}

	batch.Summary = p.aggregator.Consolidate(entityResults)

	p.logger.Info("processed batch",
		slog.Int("rows", len(adapted)),
		slog.Int("calculated", len(batch.Results)),
		slog.Int("skipped", len(batch.Skipped)),
	)

	return batch, nil
}

// ProcessTableFile reads a tabular file and runs the batch pipeline over it.
func (p *Processor) ProcessTableFile(path string) (*BatchResult, error) {
	if err := p.fileChecker.ValidateInputFile(path); err != nil {
		return nil, inputFileError(err)
	}

	format, err := ingest.DetectFromPath(path)
	if err != nil {
		return nil, err
	}

	var table *ingest.Table
	switch format {
	case domain.FormatExcel:
		table, err = p.excelReader.ReadFile(path)
	default:
		table, err = p.csvReader.ReadFile(path)
	}
	if err != nil {
		return nil, err
	}

	return p.ProcessTable(table, format)
}
