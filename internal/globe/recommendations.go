package globe

import (
	"fmt"

	"globecli/pkg/contracts/domain"
)

// Recommend produces actionable guidance from a completed calculation.
// Recommendations are advisory text for the report layer and never feed back
// into the numbers.
func (e *Engine) Recommend(record *domain.Record, fields domain.FieldSet, calc *domain.CalculationResult) []string {
	var recs []string

	if calc.BelowThreshold {
		recs = append(recs, fmt.Sprintf(
			"ETR of %.2f%% is below the %.1f%% minimum; expect a top-up tax liability of %.2f and review the jurisdiction's QDMTT position",
			calc.ETRPercentage, e.cfg.MinimumETR, calc.TopUpTaxAmount))
	} else if calc.RiskLevel == domain.RiskMedium {
		recs = append(recs, fmt.Sprintf(
			"ETR of %.2f%% leaves limited headroom above the minimum; monitor deferred tax movements that could pull the rate below %.1f%%",
			calc.ETRPercentage, e.cfg.MinimumETR))
	}

	if calc.SBIE.ExclusionAmount > 0 && calc.BelowThreshold {
		recs = append(recs, fmt.Sprintf(
			"substance-based income exclusion of %.2f reduces the excess profit subject to top-up tax", calc.SBIE.ExclusionAmount))
	}
	if !fields.Has(domain.FieldEligiblePayroll) && !fields.Has(domain.FieldEligibleTangibleAssets) && calc.BelowThreshold {
		recs = append(recs, "no payroll or tangible asset data was provided; the substance carve-out may be understated")
	}

	if calc.QDMTT.Applicable {
		recs = append(recs, fmt.Sprintf(
			"a qualified domestic minimum top-up tax of %.2f%% would keep the revenue in %s rather than ceding it to the parent jurisdiction",
			calc.QDMTT.QDMTTRate, record.JurisdictionOrResidence()))
	}

	if calc.SafeHarbours.DeMinimisQualified {
		recs = append(recs, "the de minimis safe harbour applies; full GloBE computations can be deferred for this jurisdiction")
	}

	if calc.IIRUTPR.UTPRApplicable {
		recs = append(recs, fmt.Sprintf(
			"%d constituent entities are taxed below the minimum; undertaxed profits rule allocations may arise in implementing jurisdictions",
			len(calc.IIRUTPR.LowTaxedEntities)))
	}

	if !fields.Has(domain.FieldDeferredTaxExpense) {
		recs = append(recs, "deferred tax expense was not provided; the ETR reflects current tax only and may be understated")
	}

	return recs
}
