package exporter

import (
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"globecli/pkg/contracts/domain"
)

// CSVWriter provides CSV export functionality
type CSVWriter struct {
	logger *slog.Logger
}

// NewCSVWriter creates a new CSV writer instance
func NewCSVWriter(logger *slog.Logger) *CSVWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &CSVWriter{logger: logger}
}

// WriteOptions configures CSV writing behavior
type WriteOptions struct {
	Headers   []string
	Records   [][]string
	BOMPrefix bool // Add UTF-8 BOM for Excel compatibility
}

// WriteCSV writes data to a CSV file with the given options
func (w *CSVWriter) WriteCSV(path string, options WriteOptions) error {
	w.logger.Info("Writing CSV file",
		slog.String("path", path),
		slog.Int("record_count", len(options.Records)))

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	// A UTF-8 BOM makes Excel open the file with the right encoding.
	if options.BOMPrefix {
		if _, err := file.Write([]byte{0xEF, 0xBB, 0xBF}); err != nil {
			return fmt.Errorf("failed to write BOM: %w", err)
		}
	}

	writer := csv.NewWriter(file)
	defer writer.Flush()

	if len(options.Headers) > 0 {
		if err := writer.Write(options.Headers); err != nil {
			return fmt.Errorf("failed to write headers: %w", err)
		}
	}
	for i, record := range options.Records {
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write record %d: %w", i, err)
		}
	}

	writer.Flush()
	return writer.Error()
}

var entityHeaders = []string{
	"entity_name", "jurisdiction", "pre_tax_income", "total_tax_expense",
	"etr_percentage", "below_threshold", "top_up_tax_rate", "top_up_tax_amount",
	"risk_level", "sbie_exclusion", "qdmtt_applicable",
}

// ExportEntityResults writes one row per analyzed entity.
func (w *CSVWriter) ExportEntityResults(path string, results []domain.EntityResult) error {
	records := make([][]string, 0, len(results))
	for _, r := range results {
		records = append(records, []string{
			r.EntityName,
			r.Jurisdiction,
			formatFloat(r.Calculation.Components.PreTaxIncome),
			formatFloat(r.Calculation.Components.TotalTaxExpense),
			formatFloat(r.Calculation.ETRPercentage),
			formatBool(r.Calculation.BelowThreshold),
			formatFloat(r.Calculation.TopUpTaxRate),
			formatFloat(r.Calculation.TopUpTaxAmount),
			string(r.Calculation.RiskLevel),
			formatFloat(r.Calculation.SBIE.ExclusionAmount),
			formatBool(r.Calculation.QDMTT.Applicable),
		})
	}
	return w.WriteCSV(path, WriteOptions{
		Headers:   entityHeaders,
		Records:   records,
		BOMPrefix: true,
	})
}

var jurisdictionHeaders = []string{
	"jurisdiction", "entity_count", "total_pre_tax_income", "total_tax_expense",
	"total_top_up_tax", "average_etr", "below_threshold_count", "risk_level",
}

// ExportJurisdictionSummaries writes one row per jurisdiction rollup.
func (w *CSVWriter) ExportJurisdictionSummaries(path string, summaries []domain.JurisdictionSummary) error {
	records := make([][]string, 0, len(summaries))
	for _, s := range summaries {
		records = append(records, []string{
			s.Jurisdiction,
			formatInt(s.EntityCount),
			formatFloat(s.TotalPreTaxIncome),
			formatFloat(s.TotalTaxExpense),
			formatFloat(s.TotalTopUpTax),
			formatFloat(s.AverageETR),
			formatInt(s.BelowThresholdCount),
			string(s.RiskLevel),
		})
	}
	return w.WriteCSV(path, WriteOptions{
		Headers:   jurisdictionHeaders,
		Records:   records,
		BOMPrefix: true,
	})
}
