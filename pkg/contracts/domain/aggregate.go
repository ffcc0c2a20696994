package domain

// EntityResult pairs one entity's canonical record with its calculation
// outcome, ready for jurisdiction-level aggregation.
type EntityResult struct {
	EntityName   string            `json:"entity_name"`
	Jurisdiction string            `json:"jurisdiction"`
	Record       Record            `json:"record"`
	Calculation  CalculationResult `json:"calculation"`
}

// JurisdictionSummary is the per-jurisdiction rollup of entity results.
// AverageETR is volume-weighted (total tax over total profit), not the
// arithmetic mean of the per-entity rates.
type JurisdictionSummary struct {
	Jurisdiction        string    `json:"jurisdiction"`
	EntityCount         int       `json:"entity_count"`
	TotalPreTaxIncome   float64   `json:"total_pre_tax_income"`
	TotalTaxExpense     float64   `json:"total_tax_expense"`
	TotalTopUpTax       float64   `json:"total_top_up_tax"`
	AverageETR          float64   `json:"average_etr"`
	BelowThresholdCount int       `json:"below_threshold_count"`
	RiskLevel           RiskLevel `json:"risk_level"`
}

// ConsolidatedSummary is the group-wide rollup across all jurisdictions.
type ConsolidatedSummary struct {
	EntityCount         int                   `json:"entity_count"`
	JurisdictionCount   int                   `json:"jurisdiction_count"`
	TotalPreTaxIncome   float64               `json:"total_pre_tax_income"`
	TotalTaxExpense     float64               `json:"total_tax_expense"`
	TotalTopUpTax       float64               `json:"total_top_up_tax"`
	AverageETR          float64               `json:"average_etr"`
	BelowThresholdCount int                   `json:"below_threshold_count"`
	RiskLevel           RiskLevel             `json:"risk_level"`
	Jurisdictions       []JurisdictionSummary `json:"jurisdictions"`
}
