package globe

import (
	"fmt"
	"log/slog"
	"math"

	"globecli/internal/config"
	apperrors "globecli/internal/errors"
	"globecli/pkg/contracts/domain"
)

// Engine computes Pillar Two metrics for a single canonical record.
type Engine struct {
	cfg    config.GloBEConfig
	logger *slog.Logger
}

// NewEngine creates a calculation engine with the given configuration.
func NewEngine(cfg config.GloBEConfig, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{
		cfg:    cfg,
		logger: logger,
	}
}

// CalculateETR computes the effective tax rate and top-up tax for a record.
// Pre-tax income must be present and positive; a zero or negative base makes
// the ETR undefined and the error is surfaced instead of a misleading rate.
func (e *Engine) CalculateETR(record *domain.Record, fields domain.FieldSet) (*domain.CalculationResult, error) {
	if !fields.Has(domain.FieldPreTaxIncome) {
		return nil, apperrors.NewCalculationError("pre_tax_income is required for ETR calculation")
	}
	if record.PreTaxIncome <= 0 {
		return nil, apperrors.NewCalculationError(
			fmt.Sprintf("pre_tax_income must be positive, got %.2f", record.PreTaxIncome))
	}

	currentTax := 0.0
	if fields.Has(domain.FieldCurrentTaxExpense) {
		currentTax = record.CurrentTaxExpense
	}
	deferredTax := 0.0
	if fields.Has(domain.FieldDeferredTaxExpense) {
		deferredTax = record.DeferredTaxExpense
	}

	totalTax := currentTax + deferredTax
	etr := totalTax / record.PreTaxIncome * 100

	belowThreshold := etr < e.cfg.MinimumETR
	topUpRate := math.Max(0, e.cfg.MinimumETR-etr)
	topUpAmount := topUpRate / 100 * record.PreTaxIncome

	level, description := classifyRisk(e.cfg, etr)

	result := &domain.CalculationResult{
		ETRPercentage:   etr,
		BelowThreshold:  belowThreshold,
		TopUpTaxRate:    topUpRate,
		TopUpTaxAmount:  topUpAmount,
		RiskLevel:       level,
		RiskDescription: description,
		Components: domain.CalculationComponents{
			PreTaxIncome:       record.PreTaxIncome,
			CurrentTaxExpense:  currentTax,
			DeferredTaxExpense: deferredTax,
			TotalTaxExpense:    totalTax,
		},
	}

	e.logger.Debug("calculated ETR",
		slog.String("entity", record.EntityName),
		slog.Float64("etr", etr),
		slog.Bool("below_threshold", belowThreshold),
		slog.Float64("top_up_tax", topUpAmount),
	)

	return result, nil
}

// classifyRisk maps an ETR to a risk tier. The low-risk boundary is
// inclusive: an ETR exactly at the low-risk threshold is low risk.
func classifyRisk(cfg config.GloBEConfig, etr float64) (domain.RiskLevel, string) {
	switch {
	case etr < cfg.MinimumETR:
		return domain.RiskHigh, fmt.Sprintf(
			"ETR of %.2f%% is below the %.1f%% minimum; top-up tax applies", etr, cfg.MinimumETR)
	case etr < cfg.LowRiskETR:
		return domain.RiskMedium, fmt.Sprintf(
			"ETR of %.2f%% is above the minimum but within the %.1f%% monitoring band", etr, cfg.LowRiskETR)
	default:
		return domain.RiskLow, fmt.Sprintf(
			"ETR of %.2f%% comfortably exceeds the %.1f%% minimum", etr, cfg.MinimumETR)
	}
}

// CalculateSBIE computes the substance-based income exclusion from eligible
// payroll costs and the carrying value of eligible tangible assets. Missing
// components are treated as zero.
func (e *Engine) CalculateSBIE(record *domain.Record, fields domain.FieldSet) domain.SBIEResult {
	payroll := 0.0
	if fields.Has(domain.FieldEligiblePayroll) {
		payroll = record.EligiblePayroll
	}
	assets := 0.0
	if fields.Has(domain.FieldEligibleTangibleAssets) {
		assets = record.EligibleTangibleAssets
	}

	return domain.SBIEResult{
		EligiblePayroll:        payroll,
		EligibleTangibleAssets: assets,
		ExclusionAmount:        e.cfg.SBIEPayrollRate*payroll + e.cfg.SBIEAssetRate*assets,
		CalculationMethod: fmt.Sprintf("%.1f%% of eligible payroll plus %.1f%% of eligible tangible assets",
			e.cfg.SBIEPayrollRate*100, e.cfg.SBIEAssetRate*100),
	}
}

// CalculateQDMTT evaluates whether a qualified domestic minimum top-up tax
// would apply based on the jurisdiction's domestic tax rate. Without a
// domestic rate the result is not applicable.
func (e *Engine) CalculateQDMTT(record *domain.Record, fields domain.FieldSet) domain.QDMTTResult {
	if !fields.Has(domain.FieldDomesticTaxRate) {
		return domain.QDMTTResult{}
	}

	result := domain.QDMTTResult{
		DomesticTaxRate: record.DomesticTaxRate,
	}
	if record.DomesticTaxRate < e.cfg.MinimumETR {
		result.Applicable = true
		result.QDMTTRate = e.cfg.MinimumETR - record.DomesticTaxRate
	}
	return result
}

// CalculateSafeHarbours evaluates the transitional safe harbour tests against
// the record and a completed ETR calculation.
func (e *Engine) CalculateSafeHarbours(record *domain.Record, fields domain.FieldSet, calc *domain.CalculationResult) domain.SafeHarbourResult {
	result := domain.SafeHarbourResult{
		DeMinimisThreshold: e.cfg.DeMinimisRevenue,
	}

	if fields.Has(domain.FieldRevenue) {
		result.DeMinimisQualified = record.Revenue < e.cfg.DeMinimisRevenue
	}
	if calc != nil {
		result.SimplifiedETRQualified = calc.ETRPercentage >= e.cfg.MinimumETR
	}
	result.TransitionalQualified = result.DeMinimisQualified || result.SimplifiedETRQualified

	return result
}

// CalculateIIRUTPR determines which charging rule would collect any top-up
// tax for the group described by the record. The IIR applies when the parent
// jurisdiction has implemented Pillar Two; the UTPR backstop applies when any
// constituent entity is taxed below the minimum.
func (e *Engine) CalculateIIRUTPR(record *domain.Record, fields domain.FieldSet) domain.IIRUTPRResult {
	result := domain.IIRUTPRResult{}

	if fields.Has(domain.FieldParentJurisdiction) && record.ParentJurisdiction != "" {
		result.ParentJurisdiction = record.ParentJurisdiction
		result.IIRApplicable = e.cfg.IsImplementing(record.ParentJurisdiction)
	}

	for _, entity := range record.ConstituentEntities {
		if entity.ETR < e.cfg.MinimumETR {
			result.UTPRApplicable = true
			result.LowTaxedEntities = append(result.LowTaxedEntities, entity.Name)
		}
	}

	return result
}

// Analyze runs the full set of calculations for one record. The ETR
// calculation gates everything else: without a valid tax base there is no
// meaningful SBIE, QDMTT or charging-rule analysis.
func (e *Engine) Analyze(record *domain.Record, fields domain.FieldSet) (*domain.CalculationResult, error) {
	calc, err := e.CalculateETR(record, fields)
	if err != nil {
		return nil, err
	}

	calc.SBIE = e.CalculateSBIE(record, fields)
	calc.QDMTT = e.CalculateQDMTT(record, fields)
	calc.SafeHarbours = e.CalculateSafeHarbours(record, fields, calc)
	calc.IIRUTPR = e.CalculateIIRUTPR(record, fields)

	return calc, nil
}
