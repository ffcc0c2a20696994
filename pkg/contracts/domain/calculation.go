package domain

// RiskLevel classifies the Top-Up Tax exposure of an entity or group.
type RiskLevel string

const (
	RiskHigh   RiskLevel = "high"
	RiskMedium RiskLevel = "medium"
	RiskLow    RiskLevel = "low"
)

// CalculationComponents records the inputs that produced an ETR figure so
// callers can trace the calculation.
type CalculationComponents struct {
	PreTaxIncome       float64 `json:"pre_tax_income"`
	CurrentTaxExpense  float64 `json:"current_tax_expense"`
	DeferredTaxExpense float64 `json:"deferred_tax_expense"`
	TotalTaxExpense    float64 `json:"total_tax_expense"`
}

// SBIEResult is the substance-based income exclusion carve-out.
type SBIEResult struct {
	EligiblePayroll        float64 `json:"eligible_payroll"`
	EligibleTangibleAssets float64 `json:"eligible_tangible_assets"`
	ExclusionAmount        float64 `json:"exclusion_amount"`
	CalculationMethod      string  `json:"calculation_method"`
}

// QDMTTResult describes qualified domestic minimum top-up tax applicability.
type QDMTTResult struct {
	Applicable      bool    `json:"applicable"`
	DomesticTaxRate float64 `json:"domestic_tax_rate"`
	QDMTTRate       float64 `json:"qdmtt_rate"`
}

// SafeHarbourResult holds qualification flags for the safe harbour tests.
type SafeHarbourResult struct {
	DeMinimisQualified     bool    `json:"de_minimis_qualified"`
	DeMinimisThreshold     float64 `json:"de_minimis_threshold"`
	TransitionalQualified  bool    `json:"transitional_qualified"`
	SimplifiedETRQualified bool    `json:"simplified_etr_qualified"`
}

// IIRUTPRResult holds Income Inclusion Rule and Undertaxed Profits Rule
// applicability for the group.
type IIRUTPRResult struct {
	IIRApplicable      bool     `json:"iir_applicable"`
	UTPRApplicable     bool     `json:"utpr_applicable"`
	ParentJurisdiction string   `json:"parent_jurisdiction,omitempty"`
	LowTaxedEntities   []string `json:"low_taxed_entities,omitempty"`
}

// CalculationResult is derived deterministically from one Record plus static
// configuration. A changed input produces a new result; results are never
// mutated in place.
type CalculationResult struct {
	ETRPercentage   float64               `json:"etr_percentage"`
	BelowThreshold  bool                  `json:"below_threshold"`
	TopUpTaxRate    float64               `json:"top_up_tax_rate"`
	TopUpTaxAmount  float64               `json:"top_up_tax_amount"`
	RiskLevel       RiskLevel             `json:"risk_level"`
	RiskDescription string                `json:"risk_description"`
	Components      CalculationComponents `json:"calculation_components"`
	SBIE            SBIEResult            `json:"sbie"`
	QDMTT           QDMTTResult           `json:"qdmtt"`
	SafeHarbours    SafeHarbourResult     `json:"safe_harbours"`
	IIRUTPR         IIRUTPRResult         `json:"iir_utpr"`
}
