package config

// GloBEConfig holds the static Pillar Two rule parameters: rate thresholds
// and jurisdiction classification lists. It is constructed once at process
// start and passed explicitly into every calculation; nothing mutates it
// afterwards, which is what makes the calculation engine safe to call
// concurrently.
type GloBEConfig struct {
	// MinimumETR is the global minimum effective tax rate in percent.
	MinimumETR float64 `yaml:"minimum_etr" envconfig:"MINIMUM_ETR"`
	// LowRiskETR is the upper bound of the "close to threshold" band.
	LowRiskETR float64 `yaml:"low_risk_etr" envconfig:"LOW_RISK_ETR"`
	// SBIEPayrollRate and SBIEAssetRate are the substance carve-out rates.
	SBIEPayrollRate float64 `yaml:"sbie_payroll_rate" envconfig:"SBIE_PAYROLL_RATE"`
	SBIEAssetRate   float64 `yaml:"sbie_asset_rate" envconfig:"SBIE_ASSET_RATE"`
	// DeMinimisRevenue is the revenue ceiling for the de-minimis safe harbour.
	DeMinimisRevenue float64 `yaml:"de_minimis_revenue" envconfig:"DE_MINIMIS_REVENUE"`

	Jurisdictions JurisdictionConfig `yaml:"jurisdictions"`
}

// JurisdictionConfig classifies jurisdictions by Pillar Two implementation
// status. The lists drive IIR applicability and compliance classification.
type JurisdictionConfig struct {
	Implementing    []string `yaml:"implementing"`
	Considering     []string `yaml:"considering"`
	NotImplementing []string `yaml:"not_implementing"`
}

// DefaultGloBE returns the default rule parameters and jurisdiction lists.
func DefaultGloBE() GloBEConfig {
	return GloBEConfig{
		MinimumETR:       15.0,
		LowRiskETR:       18.0,
		SBIEPayrollRate:  0.05,
		SBIEAssetRate:    0.05,
		DeMinimisRevenue: 75_000_000,
		Jurisdictions: JurisdictionConfig{
			Implementing:    []string{"EU", "UK", "Switzerland", "Norway", "Australia", "Canada", "Japan", "South Korea"},
			Considering:     []string{"United States", "China", "India", "Brazil"},
			NotImplementing: []string{"Russia", "Saudi Arabia"},
		},
	}
}

// IsValid checks the rule parameters are usable.
func (g GloBEConfig) IsValid() bool {
	return g.MinimumETR > 0 && g.LowRiskETR >= g.MinimumETR &&
		g.SBIEPayrollRate >= 0 && g.SBIEAssetRate >= 0 &&
		g.DeMinimisRevenue > 0
}

// IsImplementing reports whether the jurisdiction has enacted Pillar Two.
func (g GloBEConfig) IsImplementing(jurisdiction string) bool {
	return contains(g.Jurisdictions.Implementing, jurisdiction)
}

// ImplementationStatus classifies a jurisdiction's Pillar Two status.
func (g GloBEConfig) ImplementationStatus(jurisdiction string) string {
	switch {
	case contains(g.Jurisdictions.Implementing, jurisdiction):
		return "implementing"
	case contains(g.Jurisdictions.Considering, jurisdiction):
		return "considering"
	default:
		return "not_implementing"
	}
}

func contains(list []string, value string) bool {
	for _, v := range list {
		if v == value {
			return true
		}
	}
	return false
}
