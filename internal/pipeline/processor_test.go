package pipeline

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"globecli/internal/config"
	apperrors "globecli/internal/errors"
	"globecli/internal/ingest"
	"globecli/pkg/contracts/domain"
)

func newTestProcessor(t *testing.T) *Processor {
	t.Helper()
	return NewProcessor(config.DefaultGloBE(), nil)
}

func TestProcess_JSONWithCalculation(t *testing.T) {
	p := newTestProcessor(t)

	payload := `{
		"entity_name": "Acme Ireland Ltd",
		"tax_residence": "Ireland",
		"pre_tax_income": 1000000,
		"current_tax_expense": 100000,
		"revenue": 50000000
	}`

	result, err := p.Process(payload, Options{Calculate: true})
	require.NoError(t, err)

	assert.NotEmpty(t, result.ID)
	assert.Equal(t, domain.FormatJSON, result.SourceFormat)
	assert.Equal(t, "Acme Ireland Ltd", result.Data.EntityName)
	assert.True(t, result.Validation.IsValid)

	require.NotNil(t, result.Calculation)
	assert.InDelta(t, 10.0, result.Calculation.ETRPercentage, 0.001)
	assert.True(t, result.Calculation.BelowThreshold)
	assert.True(t, result.Calculation.SafeHarbours.DeMinimisQualified)
	assert.NotEmpty(t, result.Recommendations)
}

func TestProcess_DecodedJSONObjectWithCalculation(t *testing.T) {
	p := newTestProcessor(t)

	payload := map[string]interface{}{
		"entity_name":         "Acme Ireland Ltd",
		"tax_residence":       "Ireland",
		"pre_tax_income":      1_000_000.0,
		"current_tax_expense": 100_000.0,
	}

	result, err := p.Process(payload, Options{Calculate: true})
	require.NoError(t, err)

	assert.Equal(t, domain.FormatJSON, result.SourceFormat)
	assert.Equal(t, "Acme Ireland Ltd", result.Data.EntityName)
	require.NotNil(t, result.Calculation)
	assert.InDelta(t, 10.0, result.Calculation.ETRPercentage, 0.001)
	assert.True(t, result.Calculation.BelowThreshold)
}

func TestProcess_DecodedJSONObjectZeroIncome(t *testing.T) {
	p := newTestProcessor(t)

	payload := map[string]interface{}{
		"entity_name":         "Acme Ltd",
		"pre_tax_income":      0.0,
		"current_tax_expense": 50_000.0,
	}

	result, err := p.Process(payload, Options{Calculate: true})
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeCalculation))
	require.NotNil(t, result)
	assert.Nil(t, result.Calculation)
}

func TestProcess_SingleColumnCSVIsRepaired(t *testing.T) {
	p := newTestProcessor(t)

	content := "\"jurisdiction,entity name,pre-tax income,current tax expense\"\n" +
		"\"Ireland,Acme Ltd,1000000,126000\"\n"

	result, err := p.Process(content, Options{FormatHint: domain.FormatCSV, Calculate: true})
	require.NoError(t, err)

	assert.Equal(t, "Acme Ltd", result.Data.EntityName)
	assert.InDelta(t, 1_000_000, result.Data.PreTaxIncome, 0.001)
	require.NotNil(t, result.Calculation)
	assert.InDelta(t, 12.6, result.Calculation.ETRPercentage, 0.001)
}

func TestProcess_CanonicalRecordPassesThroughUnchanged(t *testing.T) {
	p := newTestProcessor(t)

	record := domain.Record{
		EntityName:        "Acme Ltd",
		TaxResidence:      "Germany",
		PreTaxIncome:      500_000,
		CurrentTaxExpense: 120_000,
		SourceFormat:      domain.FormatJSON,
	}

	first, err := p.Process(record, Options{Calculate: true})
	require.NoError(t, err)
	second, err := p.Process(first.Data, Options{Calculate: true})
	require.NoError(t, err)

	assert.Equal(t, first.Data, second.Data)
	assert.Equal(t, first.Calculation, second.Calculation)
}

func TestProcess_MissingRequiredFieldBlocksCalculation(t *testing.T) {
	p := newTestProcessor(t)

	payload := `{"entity_name": "Acme Ltd", "revenue": 1000000}`

	result, err := p.Process(payload, Options{Calculate: true})
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeMissingField))

	// The normalized data and validation findings still come back.
	require.NotNil(t, result)
	assert.False(t, result.Validation.IsValid)
	assert.Nil(t, result.Calculation)
}

func TestProcess_ZeroIncomeIsPreconditionError(t *testing.T) {
	p := newTestProcessor(t)

	payload := `{"pre_tax_income": 0, "current_tax_expense": 100}`

	result, err := p.Process(payload, Options{Calculate: true})
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeCalculation))
	require.NotNil(t, result)
	assert.Nil(t, result.Calculation)
}

func TestProcess_ValidationOnlySkipsCalculation(t *testing.T) {
	p := newTestProcessor(t)

	payload := `{"pre_tax_income": 1000000, "current_tax_expense": 150000}`

	result, err := p.Process(payload, Options{})
	require.NoError(t, err)
	assert.True(t, result.Validation.IsValid)
	assert.Nil(t, result.Calculation)
}

func TestProcess_UnclassifiableInput(t *testing.T) {
	p := newTestProcessor(t)

	_, err := p.Process(42, Options{})
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeUnsupportedFormat))
}

func TestProcessFile_CSV(t *testing.T) {
	p := newTestProcessor(t)

	dir := t.TempDir()
	path := filepath.Join(dir, "filing.csv")
	content := "jurisdiction,entity name,pre-tax income,current tax expense\n" +
		"Ireland,Acme Ltd,1000000,150000\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	result, err := p.ProcessFile(path, Options{Calculate: true})
	require.NoError(t, err)

	assert.Equal(t, domain.FormatCSV, result.SourceFormat)
	require.NotNil(t, result.Calculation)
	assert.InDelta(t, 15.0, result.Calculation.ETRPercentage, 0.001)
	assert.False(t, result.Calculation.BelowThreshold)
	assert.Equal(t, domain.RiskMedium, result.Calculation.RiskLevel)
}

func TestProcessFile_RejectsUnsupportedExtension(t *testing.T) {
	p := newTestProcessor(t)

	dir := t.TempDir()
	path := filepath.Join(dir, "filing.docx")
	require.NoError(t, os.WriteFile(path, []byte("not supported"), 0644))

	_, err := p.ProcessFile(path, Options{})
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeUnsupportedFormat))
}

func TestProcessTableFile_InputValidationMapsToTypedErrors(t *testing.T) {
	p := newTestProcessor(t)
	dir := t.TempDir()

	t.Run("office temp file is a validation error", func(t *testing.T) {
		path := filepath.Join(dir, "~$group.xlsx")
		require.NoError(t, os.WriteFile(path, []byte("lock"), 0644))

		_, err := p.ProcessTableFile(path)
		require.Error(t, err)
		assert.True(t, apperrors.IsType(err, apperrors.ErrTypeValidation))
	})

	t.Run("unsupported extension keeps its type", func(t *testing.T) {
		path := filepath.Join(dir, "group.docx")
		require.NoError(t, os.WriteFile(path, []byte("not supported"), 0644))

		_, err := p.ProcessTableFile(path)
		require.Error(t, err)
		assert.True(t, apperrors.IsType(err, apperrors.ErrTypeUnsupportedFormat))
	})
}

func TestProcessTable_Batch(t *testing.T) {
	p := newTestProcessor(t)

	table := &ingest.Table{
		Headers: []string{"entity name", "jurisdiction", "pre-tax income", "current tax expense"},
		Rows: [][]string{
			{"Acme Ireland", "Ireland", "1000000", "100000"},
			{"Acme Germany", "Germany", "2000000", "600000"},
			{"Acme Loss Co", "France", "0", "100"},
		},
	}

	batch, err := p.ProcessTable(table, domain.FormatCSV)
	require.NoError(t, err)

	require.Len(t, batch.Results, 2)
	require.Len(t, batch.Skipped, 1)
	assert.Equal(t, "Acme Loss Co", batch.Skipped[0].Entity)

	assert.Equal(t, 2, batch.Summary.EntityCount)
	assert.Equal(t, 2, batch.Summary.JurisdictionCount)
	assert.Equal(t, 1, batch.Summary.BelowThresholdCount)
	// 700k tax over 3m profit, volume-weighted.
	assert.InDelta(t, 700_000.0/3_000_000.0*100, batch.Summary.AverageETR, 0.001)
}
