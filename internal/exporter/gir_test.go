package exporter

import (
	"encoding/xml"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"globecli/pkg/contracts/domain"
)

func TestExportGIR(t *testing.T) {
	writer := NewGIRWriter(nil)
	path := filepath.Join(t.TempDir(), "gir.xml")

	summary := domain.ConsolidatedSummary{
		EntityCount:         2,
		JurisdictionCount:   2,
		TotalPreTaxIncome:   3_000_000,
		TotalTaxExpense:     700_000,
		TotalTopUpTax:       50_000,
		AverageETR:          23.33,
		BelowThresholdCount: 1,
		RiskLevel:           domain.RiskMedium,
		Jurisdictions: []domain.JurisdictionSummary{
			{Jurisdiction: "Germany", EntityCount: 1, TotalPreTaxIncome: 2_000_000, TotalTaxExpense: 600_000, AverageETR: 30.0, RiskLevel: domain.RiskLow},
			{Jurisdiction: "Ireland", EntityCount: 1, TotalPreTaxIncome: 1_000_000, TotalTaxExpense: 100_000, TotalTopUpTax: 50_000, AverageETR: 10.0, RiskLevel: domain.RiskHigh},
		},
	}

	require.NoError(t, writer.ExportGIR(path, 2025, summary, sampleEntityResults()))

	content, err := os.ReadFile(path)
	require.NoError(t, err)

	var doc girDocument
	require.NoError(t, xml.Unmarshal(content, &doc))

	assert.Equal(t, 2025, doc.ReportingYear)
	assert.Equal(t, 2, doc.GroupSummary.EntityCount)
	assert.Equal(t, "medium", doc.GroupSummary.RiskLevel)
	require.Len(t, doc.Jurisdictions, 2)

	assert.Equal(t, "Germany", doc.Jurisdictions[0].Name)
	require.Len(t, doc.Jurisdictions[1].ConstituentEntities, 1)
	assert.Equal(t, "Acme Ireland", doc.Jurisdictions[1].ConstituentEntities[0].Name)
	assert.True(t, doc.Jurisdictions[1].ConstituentEntities[0].BelowThreshold)
}
