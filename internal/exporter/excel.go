package exporter

import (
	"fmt"
	"log/slog"

	"github.com/xuri/excelize/v2"

	"globecli/pkg/contracts/domain"
)

// ExcelWriter writes a multi-sheet analysis workbook.
type ExcelWriter struct {
	logger *slog.Logger
}

// NewExcelWriter creates a new Excel writer instance
func NewExcelWriter(logger *slog.Logger) *ExcelWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &ExcelWriter{logger: logger}
}

// ExportWorkbook writes entity results, jurisdiction rollups and the group
// summary to one workbook with a sheet per level.
func (w *ExcelWriter) ExportWorkbook(path string, summary domain.ConsolidatedSummary, results []domain.EntityResult) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := w.writeEntitySheet(f, results); err != nil {
		return err
	}
	if err := w.writeJurisdictionSheet(f, summary.Jurisdictions); err != nil {
		return err
	}
	if err := w.writeSummarySheet(f, summary); err != nil {
		return err
	}

	// The default sheet excelize creates is replaced by our first sheet.
	f.DeleteSheet("Sheet1")

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}

	w.logger.Info("Wrote analysis workbook",
		slog.String("path", path),
		slog.Int("entities", len(results)),
		slog.Int("jurisdictions", len(summary.Jurisdictions)))
	return nil
}

func (w *ExcelWriter) writeEntitySheet(f *excelize.File, results []domain.EntityResult) error {
	const sheet = "Entities"
	if _, err := f.NewSheet(sheet); err != nil {
		return fmt.Errorf("failed to create %s sheet: %w", sheet, err)
	}

	header := []interface{}{
		"Entity", "Jurisdiction", "Pre-Tax Income", "Total Tax",
		"ETR %", "Below Threshold", "Top-Up Tax", "Risk Level",
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return err
	}

	for i, r := range results {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		row := []interface{}{
			r.EntityName,
			r.Jurisdiction,
			r.Calculation.Components.PreTaxIncome,
			r.Calculation.Components.TotalTaxExpense,
			r.Calculation.ETRPercentage,
			r.Calculation.BelowThreshold,
			r.Calculation.TopUpTaxAmount,
			string(r.Calculation.RiskLevel),
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
	}
	return nil
}

func (w *ExcelWriter) writeJurisdictionSheet(f *excelize.File, summaries []domain.JurisdictionSummary) error {
	const sheet = "Jurisdictions"
	if _, err := f.NewSheet(sheet); err != nil {
		return fmt.Errorf("failed to create %s sheet: %w", sheet, err)
	}

	header := []interface{}{
		"Jurisdiction", "Entities", "Pre-Tax Income", "Total Tax",
		"Top-Up Tax", "Average ETR %", "Below Threshold", "Risk Level",
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return err
	}

	for i, s := range summaries {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		row := []interface{}{
			s.Jurisdiction,
			s.EntityCount,
			s.TotalPreTaxIncome,
			s.TotalTaxExpense,
			s.TotalTopUpTax,
			s.AverageETR,
			s.BelowThresholdCount,
			string(s.RiskLevel),
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
	}
	return nil
}

func (w *ExcelWriter) writeSummarySheet(f *excelize.File, summary domain.ConsolidatedSummary) error {
	const sheet = "Summary"
	if _, err := f.NewSheet(sheet); err != nil {
		return fmt.Errorf("failed to create %s sheet: %w", sheet, err)
	}

	rows := [][]interface{}{
		{"Entities", summary.EntityCount},
		{"Jurisdictions", summary.JurisdictionCount},
		{"Total Pre-Tax Income", summary.TotalPreTaxIncome},
		{"Total Tax Expense", summary.TotalTaxExpense},
		{"Total Top-Up Tax", summary.TotalTopUpTax},
		{"Aggregate ETR %", summary.AverageETR},
		{"Entities Below Threshold", summary.BelowThresholdCount},
		{"Group Risk Level", string(summary.RiskLevel)},
	}
	for i, row := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		r := row
		if err := f.SetSheetRow(sheet, cell, &r); err != nil {
			return err
		}
	}
	return nil
}
