package globe

import (
	"log/slog"
	"sort"

	"globecli/internal/config"
	"globecli/pkg/contracts/domain"
)

// Aggregator rolls entity-level calculation results up to jurisdiction and
// group level.
type Aggregator struct {
	cfg    config.GloBEConfig
	logger *slog.Logger
}

// NewAggregator creates an aggregator with the given configuration.
func NewAggregator(cfg config.GloBEConfig, logger *slog.Logger) *Aggregator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Aggregator{
		cfg:    cfg,
		logger: logger,
	}
}

// ByJurisdiction groups entity results by jurisdiction and summarises each
// group. The summary ETR is volume-weighted: total tax over total pre-tax
// income. Averaging the per-entity rates would let a small entity's extreme
// rate distort the jurisdiction picture.
func (a *Aggregator) ByJurisdiction(results []domain.EntityResult) []domain.JurisdictionSummary {
	grouped := make(map[string][]domain.EntityResult)
	for _, r := range results {
		grouped[r.Jurisdiction] = append(grouped[r.Jurisdiction], r)
	}

	summaries := make([]domain.JurisdictionSummary, 0, len(grouped))
	for jurisdiction, entities := range grouped {
		summaries = append(summaries, a.summarise(jurisdiction, entities))
	}

	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].Jurisdiction < summaries[j].Jurisdiction
	})

	return summaries
}

func (a *Aggregator) summarise(jurisdiction string, entities []domain.EntityResult) domain.JurisdictionSummary {
	summary := domain.JurisdictionSummary{
		Jurisdiction: jurisdiction,
		EntityCount:  len(entities),
	}

	for _, e := range entities {
		summary.TotalPreTaxIncome += e.Calculation.Components.PreTaxIncome
		summary.TotalTaxExpense += e.Calculation.Components.TotalTaxExpense
		summary.TotalTopUpTax += e.Calculation.TopUpTaxAmount
		if e.Calculation.BelowThreshold {
			summary.BelowThresholdCount++
		}
	}

	if summary.TotalPreTaxIncome > 0 {
		summary.AverageETR = summary.TotalTaxExpense / summary.TotalPreTaxIncome * 100
	}
	summary.RiskLevel, _ = classifyRisk(a.cfg, summary.AverageETR)

	return summary
}

// Consolidate produces the group-wide summary across all jurisdictions. The
// group is high risk when more entities sit below the minimum rate than at
// or above it.
func (a *Aggregator) Consolidate(results []domain.EntityResult) domain.ConsolidatedSummary {
	jurisdictions := a.ByJurisdiction(results)

	summary := domain.ConsolidatedSummary{
		EntityCount:       len(results),
		JurisdictionCount: len(jurisdictions),
		Jurisdictions:     jurisdictions,
	}

	for _, j := range jurisdictions {
		summary.TotalPreTaxIncome += j.TotalPreTaxIncome
		summary.TotalTaxExpense += j.TotalTaxExpense
		summary.TotalTopUpTax += j.TotalTopUpTax
		summary.BelowThresholdCount += j.BelowThresholdCount
	}

	if summary.TotalPreTaxIncome > 0 {
		summary.AverageETR = summary.TotalTaxExpense / summary.TotalPreTaxIncome * 100
	}

	// The group is high risk only when low-taxed entities outnumber the
	// compliant ones; anything else warrants monitoring rather than alarm.
	atOrAbove := summary.EntityCount - summary.BelowThresholdCount
	if summary.BelowThresholdCount > atOrAbove {
		summary.RiskLevel = domain.RiskHigh
	} else {
		summary.RiskLevel = domain.RiskMedium
	}

	a.logger.Info("consolidated group results",
		slog.Int("entities", summary.EntityCount),
		slog.Int("jurisdictions", summary.JurisdictionCount),
		slog.Float64("aggregate_etr", summary.AverageETR),
		slog.String("risk_level", string(summary.RiskLevel)),
	)

	return summary
}
