package adapter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"globecli/internal/ingest"
	"globecli/pkg/contracts/domain"
)

func TestAdaptTable(t *testing.T) {
	a := New(nil)

	table := &ingest.Table{
		Headers: []string{"Jurisdiction", "Entity Name", "Pre-Tax Income", "Current Tax Expense", "Unrelated Column"},
		Rows: [][]string{
			{"Ireland", "Acme Ltd", "$1,000,000", "126,000", "noise"},
		},
	}

	res := a.AdaptTable(table, domain.FormatCSV)

	assert.Equal(t, "Ireland", res.Record.Jurisdiction)
	assert.Equal(t, "Acme Ltd", res.Record.EntityName)
	assert.InDelta(t, 1_000_000, res.Record.PreTaxIncome, 0.001)
	assert.InDelta(t, 126_000, res.Record.CurrentTaxExpense, 0.001)
	assert.Equal(t, domain.FormatCSV, res.Record.SourceFormat)

	// The unmatched column is dropped, not mapped.
	assert.Len(t, res.Fields, 4)
	assert.Empty(t, res.Warnings)
}

func TestAdaptTable_FirstMatchWins(t *testing.T) {
	a := New(nil)

	// Two columns both map to pre_tax_income; the leftmost wins.
	table := &ingest.Table{
		Headers: []string{"Profit Before Tax", "Income Before Tax"},
		Rows:    [][]string{{"100", "999"}},
	}

	res := a.AdaptTable(table, domain.FormatCSV)
	assert.InDelta(t, 100, res.Record.PreTaxIncome, 0.001)
}

func TestAdaptTable_UnparsableNumericWarnsAndZeroes(t *testing.T) {
	a := New(nil)

	table := &ingest.Table{
		Headers: []string{"Pre-Tax Income", "Entity Name"},
		Rows:    [][]string{{"not a number", "Acme"}},
	}

	res := a.AdaptTable(table, domain.FormatCSV)
	assert.Equal(t, 0.0, res.Record.PreTaxIncome)
	assert.True(t, res.Fields.Has(domain.FieldPreTaxIncome))
	require.Len(t, res.Warnings, 1)
	assert.Contains(t, res.Warnings[0], "Pre-Tax Income")
}

func TestAdaptTableRows(t *testing.T) {
	a := New(nil)

	table := &ingest.Table{
		Headers: []string{"Entity Name", "Jurisdiction", "Pre-Tax Income", "Current Tax Expense"},
		Rows: [][]string{
			{"Acme Ireland", "Ireland", "1000000", "100000"},
			{"Acme Germany", "Germany", "2000000", "600000"},
		},
	}

	results := a.AdaptTableRows(table, domain.FormatExcel)
	require.Len(t, results, 2)

	assert.Equal(t, "Acme Ireland", results[0].Record.EntityName)
	assert.InDelta(t, 1_000_000, results[0].Record.PreTaxIncome, 0.001)
	assert.Equal(t, "Acme Germany", results[1].Record.EntityName)
	assert.InDelta(t, 600_000, results[1].Record.CurrentTaxExpense, 0.001)
}

func TestAdapt_DecodedJSONObject(t *testing.T) {
	a := New(nil)

	res, err := a.Adapt(map[string]interface{}{
		"entity_name":         "Acme Ltd",
		"pre_tax_income":      1_000_000.0,
		"current_tax_expense": 100_000.0,
	}, domain.FormatJSON)
	require.NoError(t, err)

	assert.Equal(t, "Acme Ltd", res.Record.EntityName)
	assert.InDelta(t, 1_000_000, res.Record.PreTaxIncome, 0.001)
	assert.InDelta(t, 100_000, res.Record.CurrentTaxExpense, 0.001)
	assert.Equal(t, domain.FormatJSON, res.Record.SourceFormat)
}

func TestAdaptJSON(t *testing.T) {
	a := New(nil)

	res, err := a.AdaptJSON(`{
		"entity_name": "Acme Ltd",
		"profit_before_tax": 500000,
		"current_tax": "75,000",
		"constituent_entities": [
			{"name": "SubCo", "etr": 12.5}
		]
	}`)
	require.NoError(t, err)

	assert.Equal(t, "Acme Ltd", res.Record.EntityName)
	assert.InDelta(t, 500_000, res.Record.PreTaxIncome, 0.001)
	assert.InDelta(t, 75_000, res.Record.CurrentTaxExpense, 0.001)
	require.Len(t, res.Record.ConstituentEntities, 1)
	assert.Equal(t, "SubCo", res.Record.ConstituentEntities[0].Name)
	assert.InDelta(t, 12.5, res.Record.ConstituentEntities[0].ETR, 0.001)
}

func TestAdaptJSON_MalformedIsRepaired(t *testing.T) {
	a := New(nil)

	// Trailing comma: invalid JSON, but repairable.
	res, err := a.AdaptJSON(`{"pre_tax_income": 1000, "current_tax_expense": 150,}`)
	require.NoError(t, err)

	assert.InDelta(t, 1000, res.Record.PreTaxIncome, 0.001)
	assert.Contains(t, res.Warnings, "malformed JSON was repaired before adaptation")
}

func TestAdaptXML(t *testing.T) {
	a := New(nil)

	content := `<?xml version="1.0"?>
<FinancialReport>
	<EntityName>Acme Ltd</EntityName>
	<TaxResidence>Ireland</TaxResidence>
	<ProfitBeforeTax>1000000</ProfitBeforeTax>
	<DeferredTaxExpense>30000</DeferredTaxExpense>
	<CurrentTaxExpense>120000</CurrentTaxExpense>
	<TotalRevenue>50000000</TotalRevenue>
</FinancialReport>`

	res, err := a.AdaptXML(content)
	require.NoError(t, err)

	assert.Equal(t, "Acme Ltd", res.Record.EntityName)
	assert.Equal(t, "Ireland", res.Record.TaxResidence)
	assert.InDelta(t, 1_000_000, res.Record.PreTaxIncome, 0.001)
	// The deferred element must not be swallowed by the generic
	// tax-expense rule.
	assert.InDelta(t, 30_000, res.Record.DeferredTaxExpense, 0.001)
	assert.InDelta(t, 120_000, res.Record.CurrentTaxExpense, 0.001)
	assert.InDelta(t, 50_000_000, res.Record.Revenue, 0.001)
}

func TestAdaptPDFText(t *testing.T) {
	a := New(nil)

	content := `Annual Report
Company Name: Acme Holdings Ltd
Tax Residence: Ireland
Profit before tax: $1,250,000
Current tax expense: 150,000
Total revenue: 80,000,000`

	res := a.AdaptPDFText(content)

	assert.Equal(t, "Acme Holdings Ltd", res.Record.EntityName)
	assert.Equal(t, "Ireland", res.Record.TaxResidence)
	assert.InDelta(t, 1_250_000, res.Record.PreTaxIncome, 0.001)
	assert.InDelta(t, 150_000, res.Record.CurrentTaxExpense, 0.001)
	assert.InDelta(t, 80_000_000, res.Record.Revenue, 0.001)
}

func TestAdaptRecord_Idempotent(t *testing.T) {
	a := New(nil)

	rec := domain.Record{
		EntityName:        "Acme",
		PreTaxIncome:      100,
		CurrentTaxExpense: 15,
		SourceFormat:      domain.FormatJSON,
	}

	first := a.AdaptRecord(rec)
	second := a.AdaptRecord(first.Record)

	assert.Equal(t, first.Record, second.Record)
	assert.Equal(t, first.Fields, second.Fields)
}

func TestParseNumeric(t *testing.T) {
	tests := []struct {
		input  string
		want   float64
		wantOK bool
	}{
		{"1234", 1234, true},
		{"$1,234.56", 1234.56, true},
		{"€ -500", -500, true},
		{"12.5%", 12.5, true},
		{"", 0, false},
		{"n/a", 0, false},
		{"--", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := ParseNumeric(tt.input)
			assert.Equal(t, tt.wantOK, ok)
			assert.InDelta(t, tt.want, got, 0.001)
		})
	}
}

func TestMatchColumn(t *testing.T) {
	tests := []struct {
		source string
		want   domain.Field
		found  bool
	}{
		{"Pre-Tax Income", domain.FieldPreTaxIncome, true},
		{"pre_tax_income", domain.FieldPreTaxIncome, true},
		{"Current Tax Expense", domain.FieldCurrentTaxExpense, true},
		{"Deferred Tax", domain.FieldDeferredTaxExpense, true},
		{"Parent Jurisdiction", domain.FieldParentJurisdiction, true},
		{"Jurisdiction", domain.FieldJurisdiction, true},
		{"Country", domain.FieldJurisdiction, true},
		{"Shoe Size", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.source, func(t *testing.T) {
			got, found := matchColumn(tt.source)
			assert.Equal(t, tt.found, found)
			if tt.found {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}
