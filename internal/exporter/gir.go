package exporter

import (
	"encoding/xml"
	"fmt"
	"log/slog"
	"os"
	"time"

	"globecli/pkg/contracts/domain"
)

// GIRWriter produces a GloBE Information Return style XML document from
// aggregated results. The layout follows the return's jurisdiction-grouped
// structure; it is a preparation artifact, not a certified filing format.
type GIRWriter struct {
	logger *slog.Logger
}

// NewGIRWriter creates a new GIR writer instance
func NewGIRWriter(logger *slog.Logger) *GIRWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &GIRWriter{logger: logger}
}

type girDocument struct {
	XMLName       xml.Name          `xml:"GloBEInformationReturn"`
	GeneratedAt   string            `xml:"GeneratedAt"`
	ReportingYear int               `xml:"ReportingYear"`
	GroupSummary  girGroupSummary   `xml:"GroupSummary"`
	Jurisdictions []girJurisdiction `xml:"Jurisdiction"`
}

type girGroupSummary struct {
	EntityCount         int     `xml:"EntityCount"`
	JurisdictionCount   int     `xml:"JurisdictionCount"`
	TotalGloBEIncome    float64 `xml:"TotalGloBEIncome"`
	TotalCoveredTaxes   float64 `xml:"TotalCoveredTaxes"`
	TotalTopUpTax       float64 `xml:"TotalTopUpTax"`
	AggregateETR        float64 `xml:"AggregateETR"`
	BelowThresholdCount int     `xml:"BelowThresholdCount"`
	RiskLevel           string  `xml:"RiskLevel"`
}

type girJurisdiction struct {
	Name                string      `xml:"Name,attr"`
	EntityCount         int         `xml:"EntityCount"`
	GloBEIncome         float64     `xml:"GloBEIncome"`
	CoveredTaxes        float64     `xml:"CoveredTaxes"`
	JurisdictionalETR   float64     `xml:"JurisdictionalETR"`
	TopUpTax            float64     `xml:"TopUpTax"`
	ConstituentEntities []girEntity `xml:"ConstituentEntity"`
}

type girEntity struct {
	Name           string  `xml:"Name"`
	GloBEIncome    float64 `xml:"GloBEIncome"`
	CoveredTaxes   float64 `xml:"CoveredTaxes"`
	ETR            float64 `xml:"ETR"`
	TopUpTax       float64 `xml:"TopUpTax"`
	BelowThreshold bool    `xml:"BelowThreshold"`
}

// ExportGIR writes the return for one reporting year.
func (w *GIRWriter) ExportGIR(path string, year int, summary domain.ConsolidatedSummary, results []domain.EntityResult) error {
	doc := girDocument{
		GeneratedAt:   time.Now().UTC().Format(time.RFC3339),
		ReportingYear: year,
		GroupSummary: girGroupSummary{
			EntityCount:         summary.EntityCount,
			JurisdictionCount:   summary.JurisdictionCount,
			TotalGloBEIncome:    summary.TotalPreTaxIncome,
			TotalCoveredTaxes:   summary.TotalTaxExpense,
			TotalTopUpTax:       summary.TotalTopUpTax,
			AggregateETR:        summary.AverageETR,
			BelowThresholdCount: summary.BelowThresholdCount,
			RiskLevel:           string(summary.RiskLevel),
		},
	}

	byJurisdiction := make(map[string][]girEntity)
	for _, r := range results {
		byJurisdiction[r.Jurisdiction] = append(byJurisdiction[r.Jurisdiction], girEntity{
			Name:           r.EntityName,
			GloBEIncome:    r.Calculation.Components.PreTaxIncome,
			CoveredTaxes:   r.Calculation.Components.TotalTaxExpense,
			ETR:            r.Calculation.ETRPercentage,
			TopUpTax:       r.Calculation.TopUpTaxAmount,
			BelowThreshold: r.Calculation.BelowThreshold,
		})
	}

	for _, j := range summary.Jurisdictions {
		doc.Jurisdictions = append(doc.Jurisdictions, girJurisdiction{
			Name:                j.Jurisdiction,
			EntityCount:         j.EntityCount,
			GloBEIncome:         j.TotalPreTaxIncome,
			CoveredTaxes:        j.TotalTaxExpense,
			JurisdictionalETR:   j.AverageETR,
			TopUpTax:            j.TotalTopUpTax,
			ConstituentEntities: byJurisdiction[j.Jurisdiction],
		})
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create GIR file: %w", err)
	}
	defer file.Close()

	if _, err := file.WriteString(xml.Header); err != nil {
		return fmt.Errorf("failed to write XML header: %w", err)
	}

	enc := xml.NewEncoder(file)
	enc.Indent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("failed to encode GIR: %w", err)
	}
	if err := enc.Flush(); err != nil {
		return fmt.Errorf("failed to flush GIR encoder: %w", err)
	}

	w.logger.Info("Wrote GloBE information return",
		slog.String("path", path),
		slog.Int("year", year),
		slog.Int("jurisdictions", len(doc.Jurisdictions)))
	return nil
}
