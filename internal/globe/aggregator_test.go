package globe

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"globecli/internal/config"
	"globecli/pkg/contracts/domain"
)

func entityResult(name, jurisdiction string, profit, tax float64) domain.EntityResult {
	etr := tax / profit * 100
	return domain.EntityResult{
		EntityName:   name,
		Jurisdiction: jurisdiction,
		Calculation: domain.CalculationResult{
			ETRPercentage:  etr,
			BelowThreshold: etr < 15.0,
			TopUpTaxAmount: maxZero(15.0-etr) / 100 * profit,
			Components: domain.CalculationComponents{
				PreTaxIncome:    profit,
				TotalTaxExpense: tax,
			},
		},
	}
}

func maxZero(v float64) float64 {
	if v < 0 {
		return 0
	}
	return v
}

func TestByJurisdiction_VolumeWeightedETR(t *testing.T) {
	agg := NewAggregator(config.DefaultGloBE(), nil)

	// 10% and 20% entities of equal size: the weighted rate is 15%, not the
	// 17.5% a naive average of the two percentages would give. (The naive
	// figure only diverges further as entity sizes diverge.)
	results := []domain.EntityResult{
		entityResult("A", "Ireland", 100, 10),
		entityResult("B", "Ireland", 100, 20),
	}

	summaries := agg.ByJurisdiction(results)
	require.Len(t, summaries, 1)

	assert.Equal(t, "Ireland", summaries[0].Jurisdiction)
	assert.Equal(t, 2, summaries[0].EntityCount)
	assert.InDelta(t, 15.0, summaries[0].AverageETR, 0.001)
	assert.InDelta(t, 200, summaries[0].TotalPreTaxIncome, 0.001)
	assert.InDelta(t, 30, summaries[0].TotalTaxExpense, 0.001)
	assert.Equal(t, 1, summaries[0].BelowThresholdCount)
}

func TestByJurisdiction_SortedAndGrouped(t *testing.T) {
	agg := NewAggregator(config.DefaultGloBE(), nil)

	results := []domain.EntityResult{
		entityResult("A", "Singapore", 1000, 100),
		entityResult("B", "Germany", 2000, 500),
		entityResult("C", "Singapore", 500, 60),
	}

	summaries := agg.ByJurisdiction(results)
	require.Len(t, summaries, 2)

	assert.Equal(t, "Germany", summaries[0].Jurisdiction)
	assert.Equal(t, 1, summaries[0].EntityCount)
	assert.Equal(t, domain.RiskLow, summaries[0].RiskLevel)

	assert.Equal(t, "Singapore", summaries[1].Jurisdiction)
	assert.Equal(t, 2, summaries[1].EntityCount)
	assert.InDelta(t, 160.0/1500.0*100, summaries[1].AverageETR, 0.001)
	assert.Equal(t, domain.RiskHigh, summaries[1].RiskLevel)
}

func TestConsolidate(t *testing.T) {
	agg := NewAggregator(config.DefaultGloBE(), nil)

	t.Run("majority below threshold is high risk", func(t *testing.T) {
		results := []domain.EntityResult{
			entityResult("A", "Ireland", 1000, 100),
			entityResult("B", "Singapore", 1000, 50),
			entityResult("C", "Germany", 1000, 300),
		}

		summary := agg.Consolidate(results)
		assert.Equal(t, 3, summary.EntityCount)
		assert.Equal(t, 3, summary.JurisdictionCount)
		assert.Equal(t, 2, summary.BelowThresholdCount)
		assert.Equal(t, domain.RiskHigh, summary.RiskLevel)
		assert.InDelta(t, 450.0/3000.0*100, summary.AverageETR, 0.001)
	})

	t.Run("minority below threshold is medium risk", func(t *testing.T) {
		results := []domain.EntityResult{
			entityResult("A", "Ireland", 1000, 100),
			entityResult("B", "Germany", 1000, 300),
			entityResult("C", "UK", 1000, 250),
		}

		summary := agg.Consolidate(results)
		assert.Equal(t, 1, summary.BelowThresholdCount)
		assert.Equal(t, domain.RiskMedium, summary.RiskLevel)
	})

	t.Run("top-up tax sums across jurisdictions", func(t *testing.T) {
		results := []domain.EntityResult{
			entityResult("A", "Ireland", 1_000_000, 100_000),
			entityResult("B", "Singapore", 1_000_000, 120_000),
		}

		summary := agg.Consolidate(results)
		// 5% of 1m plus 3% of 1m.
		assert.InDelta(t, 80_000, summary.TotalTopUpTax, 0.01)
	})

	t.Run("empty input", func(t *testing.T) {
		summary := agg.Consolidate(nil)
		assert.Equal(t, 0, summary.EntityCount)
		assert.Equal(t, 0.0, summary.AverageETR)
		assert.Equal(t, domain.RiskMedium, summary.RiskLevel)
	})
}
